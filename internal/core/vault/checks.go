package vault

import (
	"cosmossdk.io/errors"
	"github.com/holiman/uint256"

	"github.com/LeJamon/goYieldVault/internal/core/fraction"
)

// Balances are the token account amounts observed around a transfer batch.
type Balances struct {
	ReserveSupplyLiquidity uint64
	VaultToken             uint64
	VaultCToken            uint64
}

// UserBalances are the vault balances plus those of the user or fee recipient.
type UserBalances struct {
	Balances
	UserToken  uint64
	UserShares uint64
}

// change is before - after. The arithmetic wraps at 256 bits so a negative
// change compares exactly with any sum of u64 amounts.
func change(before, after uint64) *uint256.Int {
	return new(uint256.Int).Sub(uint256.NewInt(before), uint256.NewInt(after))
}

func sum(a, b uint64) *uint256.Int {
	return new(uint256.Int).Add(uint256.NewInt(a), uint256.NewInt(b))
}

func added(a, b *uint256.Int) *uint256.Int {
	return new(uint256.Int).Add(a, b)
}

// CheckDeposit verifies the depositor paid exactly the computed tokens and
// received exactly the minted shares.
func CheckDeposit(sharesIssuedBefore, sharesIssuedAfter uint64, userBefore, userAfter UserBalances, e DepositEffects) error {
	gained := change(userAfter.UserShares, userBefore.UserShares)
	if !added(uint256.NewInt(sharesIssuedBefore), gained).Eq(uint256.NewInt(sharesIssuedAfter)) {
		return errors.Wrapf(ErrSharesIssuedAmountDoesNotMatch, "issued before %d gained %s after %d",
			sharesIssuedBefore, gained.Dec(), sharesIssuedAfter)
	}
	paid := change(userBefore.UserToken, userAfter.UserToken)
	if !paid.Eq(sum(e.TokenToDeposit, e.CrankFundsToDeposit)) {
		return errors.Wrapf(ErrTokensDepositedAmountDoesNotMatch, "user paid %s expected %d",
			paid.Dec(), e.TotalFromUser())
	}
	return nil
}

// CheckWithdraw verifies the balance movements of a share withdrawal.
func CheckWithdraw(before, after UserBalances, e WithdrawEffects) error {
	tokenVaultDiff := change(before.VaultToken, after.VaultToken)
	ctokenDecrease := change(before.VaultCToken, after.VaultCToken)
	userIncrease := change(after.UserToken, before.UserToken)
	sharesBurned := change(before.UserShares, after.UserShares)
	reserveDiff := change(before.ReserveSupplyLiquidity, after.ReserveSupplyLiquidity)
	sent := sum(e.AvailableToSendToUser, e.InvestedLiquidityToSendToUser)

	switch {
	case !sent.Eq(added(reserveDiff, tokenVaultDiff)):
		return errors.Wrapf(ErrAmountToWithdrawDoesNotMatch, "sent %s moved %s", sent.Dec(), added(reserveDiff, tokenVaultDiff).Dec())
	case !ctokenDecrease.Eq(uint256.NewInt(e.InvestedToDisinvestCTokens)):
		return errors.Wrapf(ErrLiquidityToWithdrawDoesNotMatch, "ctokens %s expected %d", ctokenDecrease.Dec(), e.InvestedToDisinvestCTokens)
	case !userIncrease.Eq(sent):
		return errors.Wrapf(ErrUserReceivedAmountDoesNotMatch, "user received %s expected %s", userIncrease.Dec(), sent.Dec())
	case !sharesBurned.Eq(uint256.NewInt(e.SharesToBurn)):
		return errors.Wrapf(ErrSharesBurnedAmountDoesNotMatch, "burned %s expected %d", sharesBurned.Dec(), e.SharesToBurn)
	case !reserveDiff.Eq(uint256.NewInt(e.InvestedLiquidityToDisinvest)):
		return errors.Wrapf(ErrDisinvestedLiquidityAmountDoesNotMatch, "reserve moved %s expected %d", reserveDiff.Dec(), e.InvestedLiquidityToDisinvest)
	}
	return nil
}

// CheckWithdrawPendingFees verifies the balance movements of a fee withdrawal.
// Every mismatch is reported as ErrTooMuchLiquidityToWithdraw.
func CheckWithdrawPendingFees(before, after UserBalances, e WithdrawPendingFeesEffects) error {
	tokenVaultDiff := change(before.VaultToken, after.VaultToken)
	ctokenDecrease := change(before.VaultCToken, after.VaultCToken)
	adminIncrease := change(after.UserToken, before.UserToken)
	reserveDiff := change(before.ReserveSupplyLiquidity, after.ReserveSupplyLiquidity)
	sent := sum(e.AvailableToSendToUser, e.InvestedLiquidityToSendToUser)

	switch {
	case !sent.Eq(added(reserveDiff, tokenVaultDiff)):
		return errors.Wrapf(ErrTooMuchLiquidityToWithdraw, "sent %s moved %s", sent.Dec(), added(reserveDiff, tokenVaultDiff).Dec())
	case !ctokenDecrease.Eq(uint256.NewInt(e.InvestedToDisinvestCTokens)):
		return errors.Wrapf(ErrTooMuchLiquidityToWithdraw, "ctokens %s expected %d", ctokenDecrease.Dec(), e.InvestedToDisinvestCTokens)
	case !adminIncrease.Eq(sent):
		return errors.Wrapf(ErrTooMuchLiquidityToWithdraw, "admin received %s expected %s", adminIncrease.Dec(), sent.Dec())
	case !reserveDiff.Eq(uint256.NewInt(e.InvestedLiquidityToDisinvest)):
		return errors.Wrapf(ErrTooMuchLiquidityToWithdraw, "reserve moved %s expected %d", reserveDiff.Dec(), e.InvestedLiquidityToDisinvest)
	}
	return nil
}

// CheckInvest verifies the balance movements of an invest and that the AUM
// did not decrease.
func CheckInvest(before, after Balances, e InvestEffects, aumBefore, aumAfter fraction.Fraction) error {
	liq := uint256.NewInt(e.LiquidityAmount)
	col := uint256.NewInt(e.CollateralAmount)
	loss := uint256.NewInt(e.RoundingLoss)
	tokenAfter := new(uint256.Int).Sub(uint256.NewInt(after.VaultToken), loss)

	var tokenOK, ctokenOK, reserveOK bool
	switch e.Direction {
	case InvestAdd:
		tokenOK = new(uint256.Int).Sub(uint256.NewInt(before.VaultToken), liq).Eq(tokenAfter)
		ctokenOK = added(uint256.NewInt(before.VaultCToken), col).Eq(uint256.NewInt(after.VaultCToken))
		reserveOK = added(uint256.NewInt(before.ReserveSupplyLiquidity), liq).Eq(uint256.NewInt(after.ReserveSupplyLiquidity))
	case InvestSubtract:
		tokenOK = added(uint256.NewInt(before.VaultToken), liq).Eq(tokenAfter)
		ctokenOK = change(before.VaultCToken, e.CollateralAmount).Eq(uint256.NewInt(after.VaultCToken))
		reserveOK = change(before.ReserveSupplyLiquidity, e.LiquidityAmount).Eq(uint256.NewInt(after.ReserveSupplyLiquidity))
	}

	switch {
	case !tokenOK:
		return errors.Wrapf(ErrInvestBalancesDoNotMatch, "%s token vault %d -> %d liquidity %d loss %d",
			e.Direction, before.VaultToken, after.VaultToken, e.LiquidityAmount, e.RoundingLoss)
	case !ctokenOK:
		return errors.Wrapf(ErrInvestBalancesDoNotMatch, "%s ctoken vault %d -> %d collateral %d",
			e.Direction, before.VaultCToken, after.VaultCToken, e.CollateralAmount)
	case !reserveOK:
		return errors.Wrapf(ErrInvestBalancesDoNotMatch, "%s reserve liquidity %d -> %d liquidity %d",
			e.Direction, before.ReserveSupplyLiquidity, after.ReserveSupplyLiquidity, e.LiquidityAmount)
	case aumAfter.Lt(aumBefore):
		return errors.Wrapf(ErrAUMDecreasedAfterInvest, "aum %s -> %s", aumBefore, aumAfter)
	}
	return nil
}
