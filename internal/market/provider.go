package market

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/LeJamon/goYieldVault/internal/core/reserve"
	"github.com/LeJamon/goYieldVault/internal/core/types"
)

func sortReserves(rs []Reserve) {
	sort.Slice(rs, func(i, j int) bool {
		return bytes.Compare(rs[i].Address[:], rs[j].Address[:]) < 0
	})
}

// Refresh marks the reserve fresh at slot, unless it is frozen, and returns
// its snapshot.
func (m *Market) Refresh(ctx context.Context, addr types.Address, slot uint64) (reserve.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return reserve.Snapshot{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.reserves[addr]
	if !ok {
		return reserve.Snapshot{}, fmt.Errorf("%w: %s", ErrUnknownReserve, addr)
	}
	if !r.Frozen && slot > r.LastUpdateSlot {
		r.LastUpdateSlot = slot
	}
	return m.snapshot(r, slot), nil
}

// Snapshot reports the reserve's rate and staleness at slot without refreshing it.
func (m *Market) Snapshot(ctx context.Context, addr types.Address, slot uint64) (reserve.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return reserve.Snapshot{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.reserves[addr]
	if !ok {
		return reserve.Snapshot{}, fmt.Errorf("%w: %s", ErrUnknownReserve, addr)
	}
	return m.snapshot(r, slot), nil
}

func (m *Market) snapshot(r *Reserve, slot uint64) reserve.Snapshot {
	return reserve.Snapshot{
		Address: r.Address,
		Rate:    r.Rate(),
		Stale:   slot > r.LastUpdateSlot+m.stalenessSlots,
	}
}

// Balance returns the balance of a token account.
func (m *Market) Balance(ctx context.Context, account types.Address) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return m.BalanceOf(account), nil
}

// ReserveLiquidity returns the liquidity a reserve holds available.
func (m *Market) ReserveLiquidity(ctx context.Context, addr types.Address) (uint64, error) {
	r, err := m.Reserve(addr)
	if err != nil {
		return 0, err
	}
	return r.AvailableLiquidity, ctx.Err()
}
