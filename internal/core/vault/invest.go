package vault

import (
	"cosmossdk.io/errors"

	"github.com/LeJamon/goYieldVault/internal/core/fraction"
	"github.com/LeJamon/goYieldVault/internal/core/reserve"
	"github.com/LeJamon/goYieldVault/internal/core/types"
)

// Invest recomputes every reserve's target and moves the reserve at address
// target one step toward its own target: liquidity is added from idle funds
// when it is under target and withdrawn when it is over.
//
// Collateral is rounded down and the liquidity it corresponds to is recomputed
// from it. A fractional remainder costs the vault one unit; that unit is taken
// from crank funds when they suffice, otherwise it is returned as RoundingLoss
// for the caller to pay in.
func (s *State) Invest(snapshots []reserve.Snapshot, clock Clock, target types.Address) (InvestEffects, error) {
	work := *s

	holdings, err := work.Holdings(snapshots)
	if err != nil {
		return InvestEffects{}, err
	}
	work.ChargeFees(holdings.Invested.Total, clock.UnixTimestamp)

	if err := work.RefreshTargetAllocations(&holdings.Invested); err != nil {
		return InvestEffects{}, err
	}

	alloc, err := work.AllocationFor(target)
	if err != nil {
		return InvestEffects{}, err
	}
	snap, ok := reserve.Find(snapshots, target)
	if !ok {
		return InvestEffects{}, errors.Wrapf(ErrReserveNotProvidedInTheAccounts, "reserve %s", target)
	}

	earliest, err := addU64(alloc.LastInvestSlot, work.MinInvestDelaySlots)
	if err != nil {
		return InvestEffects{}, err
	}
	if clock.Slot < earliest {
		return InvestEffects{}, errors.Wrapf(ErrInvestTooSoon, "slot %d, next invest allowed at %d", clock.Slot, earliest)
	}

	invested, err := holdings.Invested.InReserve(target)
	if err != nil {
		return InvestEffects{}, err
	}

	actual := invested.LiquidityAmount
	targetLiquidity := alloc.TokenTargetAllocation
	var liquidityF fraction.Fraction
	var direction InvestDirection
	if actual.Gt(targetLiquidity) {
		liquidityF = actual.Sub(targetLiquidity)
		direction = InvestSubtract
		logger.Printf("invest %s: actual %s target %s, subtract %s", target.Short(), actual, targetLiquidity, liquidityF)
	} else {
		gap := targetLiquidity.Sub(actual)
		liquidityF = fraction.Min(gap, fraction.FromUint64(work.TokenAvailable))
		direction = InvestAdd
		logger.Printf("invest %s: actual %s target %s available %d, add %s", target.Short(), actual, targetLiquidity, work.TokenAvailable, liquidityF)
	}

	if liquidityF.Lte(fraction.FromUint64(work.MinInvestAmount)) {
		return InvestEffects{}, errors.Wrapf(ErrInvestAmountBelowMinimum, "%s <= %d", liquidityF, work.MinInvestAmount)
	}

	var collateral uint64
	if alloc.TargetAllocationWeight == 0 {
		// A reserve being drained gives back all of its collateral.
		collateral = alloc.CTokenAllocation
	} else if collateral, err = floor(snap.Rate.FractionLiquidityToCollateral(liquidityF)); err != nil {
		return InvestEffects{}, err
	}

	liquidityAmountF := snap.Rate.CollateralToLiquidity(collateral)
	var roundingLoss uint64
	if !liquidityAmountF.Frac().IsZero() {
		roundingLoss = 1
	}

	var liquidity uint64
	switch direction {
	case InvestAdd:
		if liquidity, err = ceil(liquidityAmountF); err != nil {
			return InvestEffects{}, err
		}
		spent, err := subU64(liquidity, roundingLoss)
		if err != nil {
			return InvestEffects{}, err
		}
		if work.TokenAvailable, err = subU64(work.TokenAvailable, spent); err != nil {
			return InvestEffects{}, err
		}
		if alloc.CTokenAllocation, err = addU64(alloc.CTokenAllocation, collateral); err != nil {
			return InvestEffects{}, err
		}
	case InvestSubtract:
		if liquidity, err = floor(liquidityAmountF); err != nil {
			return InvestEffects{}, err
		}
		received, err := addU64(liquidity, roundingLoss)
		if err != nil {
			return InvestEffects{}, err
		}
		if work.TokenAvailable, err = addU64(work.TokenAvailable, received); err != nil {
			return InvestEffects{}, err
		}
		if alloc.CTokenAllocation, err = subU64(alloc.CTokenAllocation, collateral); err != nil {
			return InvestEffects{}, err
		}
	}

	if work.AvailableCrankFunds >= roundingLoss {
		work.AvailableCrankFunds -= roundingLoss
		roundingLoss = 0
	}
	alloc.LastInvestSlot = clock.Slot

	*s = work
	return InvestEffects{
		Direction:        direction,
		LiquidityAmount:  liquidity,
		CollateralAmount: collateral,
		RoundingLoss:     roundingLoss,
	}, nil
}
