package vault

import (
	"cosmossdk.io/errors"

	"github.com/LeJamon/goYieldVault/internal/core/fraction"
	"github.com/LeJamon/goYieldVault/internal/core/reserve"
	"github.com/LeJamon/goYieldVault/internal/core/types"
)

// disinvestment is the redemption needed to free liquidity from one reserve.
type disinvestment struct {
	ctokens       uint64 // collateral to redeem
	liquidity     uint64 // liquidity the redemption yields, rounded down
	roundingError uint64 // 1 when the redemption leaves the vault short
}

// WithdrawFromAvailable burns shares against idle liquidity only.
func (s *State) WithdrawFromAvailable(snapshots []reserve.Snapshot, clock Clock, shares uint64) (WithdrawEffects, error) {
	return s.Withdraw(snapshots, clock, types.ZeroAddress, shares)
}

// Withdraw burns shares for their pro-rata value. Idle liquidity is used
// first; any remainder is disinvested from the reserve at address from. A zero
// from withdraws from idle liquidity only.
//
// shares must already be clamped to the caller's balance.
func (s *State) Withdraw(snapshots []reserve.Snapshot, clock Clock, from types.Address, shares uint64) (WithdrawEffects, error) {
	if shares == 0 {
		return WithdrawEffects{}, ErrCannotWithdrawZeroShares
	}

	work := *s
	rate, err := work.disinvestRate(snapshots, from)
	if err != nil {
		return WithdrawEffects{}, err
	}

	holdings, err := work.Holdings(snapshots)
	if err != nil {
		return WithdrawEffects{}, err
	}
	work.ChargeFees(holdings.Invested.Total, clock.UnixTimestamp)

	aum, err := work.ComputeAUM(holdings.Invested.Total)
	if err != nil {
		return WithdrawEffects{}, err
	}
	if aum.IsZero() {
		return WithdrawEffects{}, ErrVaultAUMZero
	}

	sharesIssued := work.SharesIssued
	if shares > sharesIssued {
		return WithdrawEffects{}, errors.Wrapf(ErrMathOverflow, "shares %d exceed issued %d", shares, sharesIssued)
	}

	totalForUser, err := entitlement(aum, shares, sharesIssued)
	if err != nil {
		return WithdrawEffects{}, err
	}
	availableToSend := min(holdings.Available, totalForUser)

	investedToSendF := fraction.Zero
	var d disinvestment
	if !from.IsZero() {
		invested, err := holdings.Invested.InReserve(from)
		if err != nil {
			return WithdrawEffects{}, err
		}
		investedToSendF = fraction.Min(invested.LiquidityAmount, fraction.FromUint64(totalForUser-availableToSend))
		if !investedToSendF.IsZero() {
			alloc, err := work.AllocationFor(from)
			if err != nil {
				return WithdrawEffects{}, err
			}
			if d, err = withdrawDisinvestment(rate, investedToSendF, alloc.CTokenAllocation); err != nil {
				return WithdrawEffects{}, err
			}
		}
	}

	investedToSend, err := floor(investedToSendF)
	if err != nil {
		return WithdrawEffects{}, err
	}
	theoreticalToSend := fraction.FromUint64(availableToSend).Add(investedToSendF)
	actualInvestedToSend, err := subU64(investedToSend, d.roundingError)
	if err != nil {
		return WithdrawEffects{}, errors.Wrap(ErrNotEnoughLiquidityDisinvestedToSendToUser, err.Error())
	}

	sharesToBurn, err := sharesToBurnFor(theoreticalToSend, sharesIssued, aum, shares)
	if err != nil {
		return WithdrawEffects{}, err
	}
	leftInVault, err := subU64(d.liquidity, actualInvestedToSend)
	if err != nil {
		return WithdrawEffects{}, errors.Wrap(ErrNotEnoughLiquidityDisinvestedToSendToUser, err.Error())
	}

	if sharesToBurn == 0 {
		return WithdrawEffects{}, ErrWithdrawResultsInZeroShares
	}

	logger.Printf("withdraw: available %d invested %s available to send %d shares to burn %d", holdings.Available, holdings.Invested.Total, availableToSend, sharesToBurn)
	logger.Printf("withdraw: disinvest liq %d actual %d ctokens %d expected liq %d", investedToSend, actualInvestedToSend, d.ctokens, d.liquidity)

	if availableToSend+investedToSend <= work.MinWithdrawAmount {
		return WithdrawEffects{}, errors.Wrapf(ErrWithdrawAmountBelowMinimum, "%d <= %d", availableToSend+investedToSend, work.MinWithdrawAmount)
	}

	work.TokenAvailable -= availableToSend
	work.SharesIssued -= sharesToBurn
	if work.TokenAvailable, err = addU64(work.TokenAvailable, leftInVault); err != nil {
		return WithdrawEffects{}, err
	}
	if !from.IsZero() {
		alloc, err := work.AllocationFor(from)
		if err != nil {
			return WithdrawEffects{}, err
		}
		alloc.CTokenAllocation -= d.ctokens
	}
	work.PrevAUM = aum.Sub(theoreticalToSend)

	*s = work
	return WithdrawEffects{
		SharesToBurn:                  sharesToBurn,
		AvailableToSendToUser:         availableToSend,
		InvestedToDisinvestCTokens:    d.ctokens,
		InvestedLiquidityToSendToUser: actualInvestedToSend,
		InvestedLiquidityToDisinvest:  d.liquidity,
	}, nil
}

// WithdrawPendingFees sends accrued fees to the fee recipient, from idle
// liquidity first and then from the reserve at address from. A zero from
// withdraws from idle liquidity only.
func (s *State) WithdrawPendingFees(snapshots []reserve.Snapshot, clock Clock, from types.Address) (WithdrawPendingFeesEffects, error) {
	work := *s
	rate, err := work.disinvestRate(snapshots, from)
	if err != nil {
		return WithdrawPendingFeesEffects{}, err
	}

	holdings, err := work.Holdings(snapshots)
	if err != nil {
		return WithdrawPendingFeesEffects{}, err
	}
	work.ChargeFees(holdings.Invested.Total, clock.UnixTimestamp)

	totalFees := work.PendingFees
	availableToSendF := fraction.Min(fraction.FromUint64(holdings.Available), totalFees)
	availableToSend, err := floor(availableToSendF)
	if err != nil {
		return WithdrawPendingFeesEffects{}, err
	}

	var investedToSend uint64
	var d disinvestment
	if !from.IsZero() {
		invested, err := holdings.Invested.InReserve(from)
		if err != nil {
			return WithdrawPendingFeesEffects{}, err
		}
		investedToSendF := fraction.Min(invested.LiquidityAmount, totalFees.Sub(availableToSendF))
		if investedToSend, err = floor(investedToSendF); err != nil {
			return WithdrawPendingFeesEffects{}, err
		}
		alloc, err := work.AllocationFor(from)
		if err != nil {
			return WithdrawPendingFeesEffects{}, err
		}
		if d, err = feeDisinvestment(rate, investedToSend, alloc.CTokenAllocation); err != nil {
			return WithdrawPendingFeesEffects{}, err
		}
	}

	actualInvestedToSend, err := subU64(investedToSend, d.roundingError)
	if err != nil {
		return WithdrawPendingFeesEffects{}, errors.Wrap(ErrNotEnoughLiquidityDisinvestedToSendToUser, err.Error())
	}
	leftInVault, err := subU64(d.liquidity, actualInvestedToSend)
	if err != nil {
		return WithdrawPendingFeesEffects{}, errors.Wrap(ErrNotEnoughLiquidityDisinvestedToSendToUser, err.Error())
	}

	logger.Printf("withdraw pending fees: total %s available %d invested %d ctokens %d", totalFees, availableToSend, investedToSend, d.ctokens)

	work.TokenAvailable -= availableToSend
	if work.TokenAvailable, err = addU64(work.TokenAvailable, leftInVault); err != nil {
		return WithdrawPendingFeesEffects{}, err
	}
	if !from.IsZero() {
		alloc, err := work.AllocationFor(from)
		if err != nil {
			return WithdrawPendingFeesEffects{}, err
		}
		alloc.CTokenAllocation -= d.ctokens
	}
	work.PendingFees = totalFees.
		Sub(fraction.FromUint64(availableToSend)).
		Sub(fraction.FromUint64(investedToSend))

	*s = work
	return WithdrawPendingFeesEffects{
		AvailableToSendToUser:         availableToSend,
		InvestedToDisinvestCTokens:    d.ctokens,
		InvestedLiquidityToSendToUser: actualInvestedToSend,
		InvestedLiquidityToDisinvest:  d.liquidity,
	}, nil
}

// GiveUpPendingFee forgives up to maxAmount of pending fees and resets the
// fee baselines to the current holdings, so a vault that took a loss is not
// charged again on the recovery.
func (s *State) GiveUpPendingFee(snapshots []reserve.Snapshot, clock Clock, maxAmount uint64) error {
	work := *s
	holdings, err := work.Holdings(snapshots)
	if err != nil {
		return err
	}
	work.ChargeFees(holdings.Invested.Total, clock.UnixTimestamp)

	pending := work.PendingFees
	giveUp := fraction.Min(fraction.FromUint64(maxAmount), pending)
	newPending := pending.Sub(giveUp)

	logger.Printf("giving up %s of %s pending fees", giveUp, pending)

	work.PendingFees = newPending
	work.LastFeeChargeTimestamp = clock.UnixTimestamp
	work.PrevAUM = holdings.TotalSum.SaturatingSub(newPending)

	*s = work
	return nil
}

// disinvestRate returns the exchange rate of the reserve a withdrawal draws
// from. A zero address needs no rate.
func (s *State) disinvestRate(snapshots []reserve.Snapshot, from types.Address) (reserve.ExchangeRate, error) {
	if from.IsZero() {
		return reserve.InitialExchangeRate, nil
	}
	if !s.IsAllocatedToReserve(from) {
		return reserve.ExchangeRate{}, errors.Wrapf(ErrReserveNotPartOfAllocations, "reserve %s", from)
	}
	snap, ok := reserve.Find(snapshots, from)
	if !ok {
		return reserve.ExchangeRate{}, errors.Wrapf(ErrReserveNotProvidedInTheAccounts, "reserve %s", from)
	}
	return snap.Rate, nil
}

// withdrawDisinvestment sizes the redemption for a user withdrawal. Collateral
// is rounded up so enough liquidity is freed, capped at what the vault owns.
// The yielded liquidity is rounded down; when that loses more than the user's
// own fractional entitlement the user absorbs one unit.
func withdrawDisinvestment(rate reserve.ExchangeRate, needed fraction.Fraction, owned uint64) (disinvestment, error) {
	neededFloor, err := floor(needed)
	if err != nil {
		return disinvestment{}, err
	}
	ctokens, err := ceil(rate.FractionLiquidityToCollateralCeil(neededFloor))
	if err != nil {
		return disinvestment{}, err
	}
	ctokens = min(ctokens, owned)

	liquidityF := rate.CollateralToLiquidity(ctokens)
	liquidity, err := floor(liquidityF)
	if err != nil {
		return disinvestment{}, err
	}

	d := disinvestment{ctokens: ctokens, liquidity: liquidity}
	if frac := liquidityF.Frac(); !frac.IsZero() && frac.Gt(needed.Frac()) {
		d.roundingError = 1
	}
	return d, nil
}

// feeDisinvestment sizes the redemption for a fee withdrawal. Any fractional
// loss in the yielded liquidity is borne by the fee recipient.
func feeDisinvestment(rate reserve.ExchangeRate, needed, owned uint64) (disinvestment, error) {
	ctokens, err := rate.LiquidityToCollateralCeil(needed)
	if err != nil {
		return disinvestment{}, errors.Wrap(ErrIntegerOverflow, err.Error())
	}
	if ctokens > owned {
		return disinvestment{}, errors.Wrapf(ErrTooMuchLiquidityToWithdraw, "need %d ctokens, own %d", ctokens, owned)
	}

	liquidityF := rate.CollateralToLiquidity(ctokens)
	liquidity, err := floor(liquidityF)
	if err != nil {
		return disinvestment{}, err
	}

	d := disinvestment{ctokens: ctokens, liquidity: liquidity}
	if !liquidityF.Frac().IsZero() {
		d.roundingError = 1
	}
	return d, nil
}

// entitlement is the value of shares: all of the AUM when every share is
// burned, otherwise aum * shares / issued. Both rounded down.
func entitlement(aum fraction.Fraction, shares, sharesIssued uint64) (uint64, error) {
	if shares == sharesIssued {
		return floor(aum)
	}
	return floor(aum.MulIntRatio(shares, sharesIssued))
}

// sharesToBurnFor is ceil(sent * issued / floor(aum)), capped at the requested shares.
func sharesToBurnFor(sent fraction.Fraction, sharesIssued uint64, aum fraction.Fraction, requested uint64) (uint64, error) {
	aumFloor, err := floor(aum)
	if err != nil {
		return 0, err
	}
	if aumFloor == 0 {
		return 0, errors.Wrap(ErrVaultAUMZero, "aum below one unit")
	}
	burn, err := ceil(sent.MulIntRatio(sharesIssued, aumFloor))
	if err != nil {
		return 0, err
	}
	return min(burn, requested), nil
}
