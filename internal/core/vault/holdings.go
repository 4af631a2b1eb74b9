package vault

import (
	"cosmossdk.io/errors"

	"github.com/LeJamon/goYieldVault/internal/core/fraction"
	"github.com/LeJamon/goYieldVault/internal/core/reserve"
	"github.com/LeJamon/goYieldVault/internal/core/types"
)

// InvestedReserve is the value held in one reserve.
type InvestedReserve struct {
	Reserve         types.Address
	LiquidityAmount fraction.Fraction
	CTokenAmount    uint64
	TargetWeight    uint64
}

// Invested is the per-slot and total value held in reserves.
type Invested struct {
	Allocations [MaxReserves]InvestedReserve
	Total       fraction.Fraction
}

// InReserve returns the entry for reserve.
func (inv *Invested) InReserve(addr types.Address) (InvestedReserve, error) {
	if !addr.IsZero() {
		for _, a := range inv.Allocations {
			if a.Reserve == addr {
				return a, nil
			}
		}
	}
	return InvestedReserve{}, errors.Wrapf(ErrReserveNotPartOfAllocations, "reserve %s", addr)
}

// Holdings is the vault's idle and invested liquidity.
type Holdings struct {
	Available uint64
	Invested  Invested
	TotalSum  fraction.Fraction
}

// AmountsInvested values each live allocation at its reserve's exchange rate.
//
// snapshots must hold one entry per occupied slot, in table order. Extra
// trailing snapshots are ignored.
func (s *State) AmountsInvested(snapshots []reserve.Snapshot) (Invested, error) {
	var inv Invested
	next := 0

	for i := range s.Allocations {
		a := &s.Allocations[i]
		if a.IsEmpty() {
			continue
		}
		if next >= len(snapshots) {
			return Invested{}, errors.Wrapf(ErrReserveNotProvidedInTheAccounts, "slot %d reserve %s", i, a.Reserve)
		}
		snap := snapshots[next]
		next++

		if snap.Address != a.Reserve {
			return Invested{}, errors.Wrapf(ErrReserveAccountAndKeyMismatch, "slot %d expects %s, got %s", i, a.Reserve, snap.Address)
		}
		if snap.Stale {
			return Invested{}, errors.Wrapf(ErrReserveIsStale, "reserve %s", a.Reserve)
		}

		liquidity := snap.Rate.CollateralToLiquidity(a.CTokenAllocation)
		inv.Allocations[i] = InvestedReserve{
			Reserve:         a.Reserve,
			LiquidityAmount: liquidity,
			CTokenAmount:    a.CTokenAllocation,
			TargetWeight:    a.TargetAllocationWeight,
		}
		inv.Total = inv.Total.Add(liquidity)
	}
	return inv, nil
}

// Holdings returns the idle and invested liquidity.
func (s *State) Holdings(snapshots []reserve.Snapshot) (Holdings, error) {
	inv, err := s.AmountsInvested(snapshots)
	if err != nil {
		return Holdings{}, err
	}
	h := Holdings{
		Available: s.TokenAvailable,
		Invested:  inv,
		TotalSum:  fraction.FromUint64(s.TokenAvailable).Add(inv.Total),
	}
	logger.Printf("holdings available %d invested %s total %s", h.Available, h.Invested.Total, h.TotalSum)
	return h, nil
}
