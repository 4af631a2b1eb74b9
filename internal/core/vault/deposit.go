package vault

import (
	"cosmossdk.io/errors"

	"github.com/LeJamon/goYieldVault/internal/core/fraction"
	"github.com/LeJamon/goYieldVault/internal/core/reserve"
	"github.com/LeJamon/goYieldVault/internal/core/types"
)

// InitParams identifies the accounts a new vault is bound to.
type InitParams struct {
	VaultAdmin             types.Address
	BaseVaultAuthority     types.Address
	BaseVaultAuthorityBump uint64
	TokenMint              types.Address
	TokenMintDecimals      uint8
	TokenVault             types.Address
	TokenProgram           types.Address
	SharesMint             types.Address
	SharesMintDecimals     uint8
}

// Initialize creates a vault and performs the seed deposit of
// InitialDepositAmount, which fixes the initial share price. The returned
// effects must be executed against the vault admin's token account; the seed
// shares are not minted to anyone.
func Initialize(p InitParams, clock Clock) (*State, DepositEffects, error) {
	s := NewState()
	s.VaultAdmin = p.VaultAdmin
	s.AllocationAdmin = p.VaultAdmin
	s.BaseVaultAuthority = p.BaseVaultAuthority
	s.BaseVaultAuthorityBump = p.BaseVaultAuthorityBump
	s.TokenMint = p.TokenMint
	s.TokenMintDecimals = uint64(p.TokenMintDecimals)
	s.TokenVault = p.TokenVault
	s.TokenProgram = p.TokenProgram
	s.SharesMint = p.SharesMint
	s.SharesMintDecimals = uint64(p.SharesMintDecimals)
	s.CreationTimestamp = clock.UnixTimestamp

	logger.Printf("initializing vault with token decimals %d shares decimals %d", p.TokenMintDecimals, p.SharesMintDecimals)

	if err := s.Validate(); err != nil {
		return nil, DepositEffects{}, err
	}

	effects, err := s.Deposit(nil, clock, InitialDepositAmount)
	if err != nil {
		return nil, DepositEffects{}, err
	}
	return s, effects, nil
}

// Deposit converts up to maxAmount tokens into shares.
//
// Crank funds for every reserve with a positive weight and cap are carved out
// of maxAmount first. Shares are rounded down and the tokens charged are then
// recomputed from the shares, rounded up, so the vault never gives away value.
func (s *State) Deposit(snapshots []reserve.Snapshot, clock Clock, maxAmount uint64) (DepositEffects, error) {
	if maxAmount == 0 {
		return DepositEffects{}, ErrDepositAmountsZero
	}

	work := *s
	crankFunds, err := mulU64(uint64(work.ReservesWithAllocationCount()), work.CrankFundFeePerReserve)
	if err != nil {
		return DepositEffects{}, err
	}
	maxUserTokens, err := subU64(maxAmount, crankFunds)
	if err != nil {
		return DepositEffects{}, errors.Wrapf(ErrDepositAmountBelowMinimum, "amount %d does not cover crank funds %d", maxAmount, crankFunds)
	}

	holdings, err := work.Holdings(snapshots)
	if err != nil {
		return DepositEffects{}, err
	}
	work.ChargeFees(holdings.Invested.Total, clock.UnixTimestamp)

	aum, err := work.ComputeAUM(holdings.Invested.Total)
	if err != nil {
		return DepositEffects{}, err
	}

	sharesToMint, err := sharesForDeposit(aum, maxUserTokens, work.SharesIssued)
	if err != nil {
		return DepositEffects{}, err
	}
	tokensToDeposit, err := tokensForShares(aum, sharesToMint, work.SharesIssued)
	if err != nil {
		return DepositEffects{}, err
	}

	if tokensToDeposit < work.MinDepositAmount {
		return DepositEffects{}, errors.Wrapf(ErrDepositAmountBelowMinimum, "%d < %d", tokensToDeposit, work.MinDepositAmount)
	}
	if sharesToMint == 0 {
		return DepositEffects{}, ErrDepositAmountsZeroShares
	}

	if work.TokenAvailable, err = addU64(work.TokenAvailable, tokensToDeposit); err != nil {
		return DepositEffects{}, err
	}
	if work.SharesIssued, err = addU64(work.SharesIssued, sharesToMint); err != nil {
		return DepositEffects{}, err
	}
	if work.AvailableCrankFunds, err = addU64(work.AvailableCrankFunds, crankFunds); err != nil {
		return DepositEffects{}, err
	}
	// Fee tracking: the deposit is not growth.
	work.PrevAUM = aum.Add(fraction.FromUint64(tokensToDeposit))

	logger.Printf("deposit: shares %d tokens %d crank funds %d", sharesToMint, tokensToDeposit, crankFunds)

	*s = work
	return DepositEffects{
		SharesToMint:        sharesToMint,
		TokenToDeposit:      tokensToDeposit,
		CrankFundsToDeposit: crankFunds,
	}, nil
}

// sharesForDeposit mints 1:1 into an empty vault and floor(issued * amount / ceil(aum)) otherwise.
func sharesForDeposit(aum fraction.Fraction, amount, sharesIssued uint64) (uint64, error) {
	if sharesIssued == 0 {
		return amount, nil
	}
	if aum.IsZero() {
		return 0, ErrVaultAUMZero
	}
	aumCeil, err := ceil(aum)
	if err != nil {
		return 0, err
	}
	return floor(fraction.FromUint64(sharesIssued).MulIntRatio(amount, aumCeil))
}

// tokensForShares is the inverse of sharesForDeposit, rounded up.
func tokensForShares(aum fraction.Fraction, shares, sharesIssued uint64) (uint64, error) {
	if sharesIssued == 0 {
		return shares, nil
	}
	return ceil(aum.MulIntRatioCeil(shares, sharesIssued))
}
