package vault

import (
	"fmt"

	"cosmossdk.io/errors"

	"github.com/LeJamon/goYieldVault/internal/core/types"
)

// ReserveWhitelistEntry records what a reserve is approved for. Entries are
// consulted only by vaults that turned on the whitelist-only flags.
type ReserveWhitelistEntry struct {
	TokenMint              types.Address
	Reserve                types.Address
	WhitelistInvest        uint8
	WhitelistAddAllocation uint8
}

// WhitelistMode selects which approval UpdateWhitelist changes.
type WhitelistMode uint8

const (
	WhitelistInvest WhitelistMode = iota
	WhitelistAddAllocation
)

// String implements fmt.Stringer.
func (m WhitelistMode) String() string {
	switch m {
	case WhitelistInvest:
		return "Invest"
	case WhitelistAddAllocation:
		return "AddAllocation"
	default:
		return fmt.Sprintf("WhitelistMode(%d)", uint8(m))
	}
}

// ParseWhitelistMode parses "invest" or "add-allocation".
func ParseWhitelistMode(s string) (WhitelistMode, error) {
	switch s {
	case "invest", "Invest":
		return WhitelistInvest, nil
	case "add-allocation", "AddAllocation":
		return WhitelistAddAllocation, nil
	}
	return 0, errors.Wrapf(ErrInvalidConfigValue, "whitelist mode %q", s)
}

// NewReserveWhitelistEntry returns an entry with no approvals.
func NewReserveWhitelistEntry(tokenMint, reserve types.Address) *ReserveWhitelistEntry {
	return &ReserveWhitelistEntry{TokenMint: tokenMint, Reserve: reserve}
}

// Update sets one approval. Only the global admin may call it; the caller
// checks that.
func (e *ReserveWhitelistEntry) Update(mode WhitelistMode, value uint8) error {
	if value > 1 {
		return errors.Wrapf(ErrInvalidBoolLikeValue, "%d", value)
	}
	switch mode {
	case WhitelistInvest:
		e.WhitelistInvest = value
	case WhitelistAddAllocation:
		e.WhitelistAddAllocation = value
	default:
		return errors.Wrapf(ErrInvalidConfigValue, "whitelist mode %d", uint8(mode))
	}
	logger.Printf("whitelist %s %s = %d", e.Reserve.Short(), mode, value)
	return nil
}

// IsInvestWhitelisted reports whether the entry approves investing.
func (e *ReserveWhitelistEntry) IsInvestWhitelisted() bool {
	return e != nil && e.WhitelistInvest == 1
}

// IsAddAllocationWhitelisted reports whether the entry approves allocations.
func (e *ReserveWhitelistEntry) IsAddAllocationWhitelisted() bool {
	return e != nil && e.WhitelistAddAllocation == 1
}

// CheckCanUpdateAllocationWeight rejects raising the weight or the cap of a
// reserve that is not add-allocation whitelisted, when the vault requires it.
// Lowering either is always allowed. A nil entry means the reserve has none.
func (s *State) CheckCanUpdateAllocationWeight(reserve types.Address, newWeight, newCap uint64, entry *ReserveWhitelistEntry) error {
	if s.AllowAllocationsInWhitelistedReservesOnly == 0 {
		return nil
	}

	var curWeight, curCap uint64
	if idx, ok := s.ReserveIndex(reserve); ok {
		curWeight = s.Allocations[idx].TargetAllocationWeight
		curCap = s.Allocations[idx].TokenAllocationCap
	}
	if newWeight <= curWeight && newCap <= curCap {
		return nil
	}

	if !entry.IsAddAllocationWhitelisted() {
		return errors.Wrapf(ErrReserveNotWhitelisted, "reserve %s cannot receive allocation", reserve)
	}
	return nil
}

// CheckCanInvest rejects moving liquidity into a reserve that is not invest
// whitelisted, when the vault requires it. Disinvesting is always allowed.
func (s *State) CheckCanInvest(reserve types.Address, direction InvestDirection, entry *ReserveWhitelistEntry) error {
	if s.AllowInvestInWhitelistedReservesOnly == 0 || direction != InvestAdd {
		return nil
	}
	if !entry.IsInvestWhitelisted() {
		return errors.Wrapf(ErrReserveNotWhitelisted, "reserve %s cannot receive investments", reserve)
	}
	return nil
}
