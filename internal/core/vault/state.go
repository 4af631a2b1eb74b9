// Package vault implements the accounting core of a yield vault: share
// pricing, fee accrual, deposit and withdraw sizing, and the proportional
// allocation of idle capital across lending reserves.
//
// Every operation is a method on *State that takes the reserve snapshots
// refreshed by the caller and the current Clock. Operations work on a copy of
// the state and only write it back once every check has passed, so a failed
// operation never leaves a partial mutation behind.
package vault

import (
	"bytes"
	"fmt"

	"cosmossdk.io/errors"

	"github.com/LeJamon/goYieldVault/internal/core/fraction"
	"github.com/LeJamon/goYieldVault/internal/core/types"
)

// Clock is the point in time an operation executes at.
type Clock struct {
	Slot          uint64
	UnixTimestamp uint64
}

// PendingAdmin is a proposed vault admin awaiting acceptance.
type PendingAdmin struct {
	Set     bool
	Address types.Address
}

// State is the persistent accounting record of a vault.
type State struct {
	// Identity and administration.
	VaultAdmin             types.Address
	PendingAdmin           PendingAdmin
	AllocationAdmin        types.Address
	BaseVaultAuthority     types.Address
	BaseVaultAuthorityBump uint64
	TokenMint              types.Address
	TokenMintDecimals      uint64
	TokenVault             types.Address
	TokenProgram           types.Address
	SharesMint             types.Address
	SharesMintDecimals     uint64

	// Accounting.
	TokenAvailable         uint64
	SharesIssued           uint64
	AvailableCrankFunds    uint64
	PerformanceFeeBps      uint64
	ManagementFeeBps       uint64
	LastFeeChargeTimestamp uint64
	PrevAUM                fraction.Fraction
	PendingFees            fraction.Fraction

	CumulativeEarnedInterest fraction.Fraction
	CumulativeMgmtFees       fraction.Fraction
	CumulativePerfFees       fraction.Fraction

	Allocations [MaxReserves]Allocation

	// Configuration.
	MinDepositAmount          uint64
	MinWithdrawAmount         uint64
	MinInvestAmount           uint64
	MinInvestDelaySlots       uint64
	CrankFundFeePerReserve    uint64
	UnallocatedWeight         uint64
	UnallocatedTokensCap      uint64
	WithdrawalPenaltyLamports uint64
	WithdrawalPenaltyBps      uint64

	AllowAllocationsInWhitelistedReservesOnly uint8
	AllowInvestInWhitelistedReservesOnly      uint8

	// Informational.
	Name                 [NameLength]byte
	VaultLookupTable     types.Address
	VaultFarm            types.Address
	FirstLossCapitalFarm types.Address
	CreationTimestamp    uint64
}

// Clone returns an independent copy of s.
func (s *State) Clone() *State {
	c := *s
	return &c
}

// DisplayName returns the configured name, or a name derived from the token mint.
func (s *State) DisplayName() string {
	name := bytes.TrimRight(s.Name[:], "\x00")
	if len(name) == 0 {
		return "k" + s.TokenMint.Short()
	}
	return string(name)
}

// ComputeAUM returns available + invested - pending fees.
func (s *State) ComputeAUM(investedTotal fraction.Fraction) (fraction.Fraction, error) {
	gross := fraction.FromUint64(s.TokenAvailable).Add(investedTotal)
	aum, ok := gross.CheckedSub(s.PendingFees)
	if !ok {
		return fraction.Zero, errors.Wrapf(ErrAUMBelowPendingFees, "gross %s pending fees %s", gross, s.PendingFees)
	}
	return aum, nil
}

// SharePrice returns aum / shares issued, or zero for a vault without shares.
func (s *State) SharePrice(aum fraction.Fraction) fraction.Fraction {
	if s.SharesIssued == 0 {
		return fraction.Zero
	}
	return aum.DivInt(s.SharesIssued)
}

// Validate checks the record produced by initialization before the seed deposit.
func (s *State) Validate() error {
	switch {
	case s.VaultAdmin.IsZero():
		return ErrAdminAuthorityIncorrect
	case s.BaseVaultAuthority.IsZero():
		return ErrBaseVaultAuthorityIncorrect
	case s.BaseVaultAuthorityBump > 0xff:
		return ErrBaseVaultAuthorityBumpIncorrect
	case s.TokenMint.IsZero():
		return ErrTokenMintIncorrect
	case s.TokenMintDecimals == 0:
		return ErrTokenMintDecimalsIncorrect
	case s.TokenVault.IsZero():
		return ErrTokenVaultIncorrect
	case s.SharesMint.IsZero():
		return ErrSharesMintIncorrect
	case s.SharesMintDecimals == 0:
		return ErrSharesMintDecimalsIncorrect
	}

	if s.TokenAvailable != 0 ||
		s.SharesIssued != 0 ||
		s.PerformanceFeeBps != 0 ||
		s.ManagementFeeBps != 0 ||
		!s.PendingFees.IsZero() ||
		s.LastFeeChargeTimestamp != 0 ||
		!s.PrevAUM.IsZero() {
		return ErrInitialAccountingIncorrect
	}
	return nil
}

// String summarizes the accounting fields.
func (s *State) String() string {
	return fmt.Sprintf("vault %s available=%d shares=%d pending_fees=%s prev_aum=%s reserves=%d",
		s.DisplayName(), s.TokenAvailable, s.SharesIssued, s.PendingFees, s.PrevAUM, s.ReservesCount())
}

// floor converts f to an integer amount, mapping overflow to ErrIntegerOverflow.
func floor(f fraction.Fraction) (uint64, error) {
	n, err := f.Floor()
	if err != nil {
		return 0, errors.Wrap(ErrIntegerOverflow, err.Error())
	}
	return n, nil
}

// ceil converts f to an integer amount, mapping overflow to ErrIntegerOverflow.
func ceil(f fraction.Fraction) (uint64, error) {
	n, err := f.Ceil()
	if err != nil {
		return 0, errors.Wrap(ErrIntegerOverflow, err.Error())
	}
	return n, nil
}

// addU64 returns a + b or ErrMathOverflow.
func addU64(a, b uint64) (uint64, error) {
	c := a + b
	if c < a {
		return 0, errors.Wrapf(ErrMathOverflow, "%d + %d", a, b)
	}
	return c, nil
}

// subU64 returns a - b or ErrMathOverflow.
func subU64(a, b uint64) (uint64, error) {
	if b > a {
		return 0, errors.Wrapf(ErrMathOverflow, "%d - %d", a, b)
	}
	return a - b, nil
}

// mulU64 returns a * b or ErrMathOverflow.
func mulU64(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	c := a * b
	if c/b != a {
		return 0, errors.Wrapf(ErrMathOverflow, "%d * %d", a, b)
	}
	return c, nil
}
