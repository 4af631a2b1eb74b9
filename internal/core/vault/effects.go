package vault

import "fmt"

// DepositEffects are the transfers a deposit requires.
type DepositEffects struct {
	SharesToMint        uint64
	TokenToDeposit      uint64
	CrankFundsToDeposit uint64
}

// TotalFromUser is the amount taken from the depositor.
func (e DepositEffects) TotalFromUser() uint64 {
	return e.TokenToDeposit + e.CrankFundsToDeposit
}

// WithdrawEffects are the transfers a withdrawal requires.
type WithdrawEffects struct {
	SharesToBurn                  uint64
	AvailableToSendToUser         uint64
	InvestedToDisinvestCTokens    uint64
	InvestedLiquidityToSendToUser uint64
	// InvestedLiquidityToDisinvest may exceed what the user receives from the
	// reserve; the surplus stays in the vault as available liquidity.
	InvestedLiquidityToDisinvest uint64
}

// TotalToUser is the amount delivered to the user.
func (e WithdrawEffects) TotalToUser() uint64 {
	return e.AvailableToSendToUser + e.InvestedLiquidityToSendToUser
}

// WithdrawPendingFeesEffects are the transfers a fee withdrawal requires.
type WithdrawPendingFeesEffects struct {
	AvailableToSendToUser         uint64
	InvestedToDisinvestCTokens    uint64
	InvestedLiquidityToSendToUser uint64
	InvestedLiquidityToDisinvest  uint64
}

// TotalToAdmin is the amount delivered to the fee recipient.
func (e WithdrawPendingFeesEffects) TotalToAdmin() uint64 {
	return e.AvailableToSendToUser + e.InvestedLiquidityToSendToUser
}

// InvestDirection tells whether invest moves liquidity into or out of a reserve.
type InvestDirection uint8

const (
	InvestAdd InvestDirection = iota
	InvestSubtract
)

// String implements fmt.Stringer.
func (d InvestDirection) String() string {
	switch d {
	case InvestAdd:
		return "add"
	case InvestSubtract:
		return "subtract"
	default:
		return fmt.Sprintf("InvestDirection(%d)", uint8(d))
	}
}

// InvestEffects are the transfers an invest requires. A non-zero RoundingLoss
// must be paid into the vault by the caller.
type InvestEffects struct {
	Direction        InvestDirection
	LiquidityAmount  uint64
	CollateralAmount uint64
	RoundingLoss     uint64
}
