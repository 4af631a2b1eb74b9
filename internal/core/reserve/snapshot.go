package reserve

import (
	"fmt"

	"github.com/LeJamon/goYieldVault/internal/core/types"
)

// Snapshot is a reserve's state as refreshed by the caller for the current slot.
type Snapshot struct {
	Address types.Address
	Rate    ExchangeRate
	Stale   bool
}

// String implements fmt.Stringer.
func (s Snapshot) String() string {
	return fmt.Sprintf("reserve %s rate %s stale %t", s.Address.Short(), s.Rate, s.Stale)
}

// Find returns the snapshot for addr, if present.
func Find(snapshots []Snapshot, addr types.Address) (Snapshot, bool) {
	for _, s := range snapshots {
		if s.Address == addr {
			return s, true
		}
	}
	return Snapshot{}, false
}
