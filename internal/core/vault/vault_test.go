package vault

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goYieldVault/internal/core/fraction"
	"github.com/LeJamon/goYieldVault/internal/core/reserve"
	"github.com/LeJamon/goYieldVault/internal/core/types"
)

// =============================================================================
// Fixtures
// =============================================================================

func testAddr(b byte) types.Address {
	var a types.Address
	for i := range a {
		a[i] = b
	}
	return a
}

var (
	admin      = testAddr(0xa1)
	allocAdmin = testAddr(0xa2)
	stranger   = testAddr(0xa3)
	reserveA   = testAddr(0x0a)
	reserveB   = testAddr(0x0b)
	reserveC   = testAddr(0x0c)

	t0 = Clock{Slot: 100, UnixTimestamp: 1_700_000_000}

	unitRate = reserve.InitialExchangeRate
	halfRate = reserve.NewExchangeRate(1, fraction.FromUint64(2))
	// 3 collateral for every 4 liquidity.
	threeQuarterRate = reserve.NewExchangeRate(3, fraction.FromUint64(4))
)

func testInitParams() InitParams {
	return InitParams{
		VaultAdmin:             admin,
		BaseVaultAuthority:     testAddr(0xb1),
		BaseVaultAuthorityBump: 254,
		TokenMint:              testAddr(0xb2),
		TokenMintDecimals:      6,
		TokenVault:             testAddr(0xb3),
		TokenProgram:           testAddr(0xb4),
		SharesMint:             testAddr(0xb5),
		SharesMintDecimals:     6,
	}
}

func newTestVault(t *testing.T) *State {
	t.Helper()
	s, _, err := Initialize(testInitParams(), t0)
	require.NoError(t, err)
	return s
}

func later(c Clock, slots, seconds uint64) Clock {
	return Clock{Slot: c.Slot + slots, UnixTimestamp: c.UnixTimestamp + seconds}
}

func snap(addr types.Address, rate reserve.ExchangeRate) reserve.Snapshot {
	return reserve.Snapshot{Address: addr, Rate: rate}
}

func addReserve(t *testing.T, s *State, addr types.Address, weight, allocationCap uint64) {
	t.Helper()
	require.NoError(t, s.UpsertAllocation(admin, AllocationParams{
		Reserve:     addr,
		CTokenVault: testAddr(addr[0] + 0x10),
		Weight:      weight,
		Cap:         allocationCap,
	}, nil))
}

// investedVault returns a vault whose seed deposit of 1000 sits entirely in
// reserveA at a 1:1 rate.
func investedVault(t *testing.T) *State {
	t.Helper()
	s := newTestVault(t)
	addReserve(t, s, reserveA, 100, math.MaxUint64)
	e, err := s.Invest([]reserve.Snapshot{snap(reserveA, unitRate)}, t0, reserveA)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), e.CollateralAmount)
	require.Zero(t, s.TokenAvailable)
	return s
}

// =============================================================================
// Initialize
// =============================================================================

func TestInitializeSeedDeposit(t *testing.T) {
	s, e, err := Initialize(testInitParams(), t0)
	require.NoError(t, err)

	assert.Equal(t, DepositEffects{SharesToMint: 1000, TokenToDeposit: 1000}, e)
	assert.Equal(t, uint64(1000), s.TokenAvailable)
	assert.Equal(t, uint64(1000), s.SharesIssued)
	assert.Equal(t, fraction.FromUint64(1000), s.PrevAUM)
	assert.Equal(t, t0.UnixTimestamp, s.LastFeeChargeTimestamp)
	assert.Equal(t, t0.UnixTimestamp, s.CreationTimestamp)
	assert.Equal(t, admin, s.AllocationAdmin)
	assert.Zero(t, s.ReservesCount())
	assert.Equal(t, uint64(math.MaxUint64), s.Allocations[0].TokenAllocationCap)
}

func TestInitializeValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *InitParams)
		want   error
	}{
		{name: "no admin", mutate: func(p *InitParams) { p.VaultAdmin = types.ZeroAddress }, want: ErrAdminAuthorityIncorrect},
		{name: "no authority", mutate: func(p *InitParams) { p.BaseVaultAuthority = types.ZeroAddress }, want: ErrBaseVaultAuthorityIncorrect},
		{name: "bad bump", mutate: func(p *InitParams) { p.BaseVaultAuthorityBump = 256 }, want: ErrBaseVaultAuthorityBumpIncorrect},
		{name: "no mint", mutate: func(p *InitParams) { p.TokenMint = types.ZeroAddress }, want: ErrTokenMintIncorrect},
		{name: "no mint decimals", mutate: func(p *InitParams) { p.TokenMintDecimals = 0 }, want: ErrTokenMintDecimalsIncorrect},
		{name: "no token vault", mutate: func(p *InitParams) { p.TokenVault = types.ZeroAddress }, want: ErrTokenVaultIncorrect},
		{name: "no shares mint", mutate: func(p *InitParams) { p.SharesMint = types.ZeroAddress }, want: ErrSharesMintIncorrect},
		{name: "no shares decimals", mutate: func(p *InitParams) { p.SharesMintDecimals = 0 }, want: ErrSharesMintDecimalsIncorrect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testInitParams()
			tt.mutate(&p)
			_, _, err := Initialize(p, t0)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDisplayName(t *testing.T) {
	s := newTestVault(t)
	assert.Equal(t, "k"+s.TokenMint.Short(), s.DisplayName())

	require.NoError(t, s.UpdateConfig(nil, t0, ConfigName, []byte("USDC Prime")))
	assert.Equal(t, "USDC Prime", s.DisplayName())
}

// =============================================================================
// Deposit
// =============================================================================

func TestDepositProportional(t *testing.T) {
	s := newTestVault(t)

	e, err := s.Deposit(nil, t0, 500)
	require.NoError(t, err)

	assert.Equal(t, DepositEffects{SharesToMint: 500, TokenToDeposit: 500}, e)
	assert.Equal(t, uint64(1500), s.TokenAvailable)
	assert.Equal(t, uint64(1500), s.SharesIssued)
	assert.Equal(t, fraction.FromUint64(1500), s.PrevAUM)
}

func TestDepositAfterGrowthRoundsInVaultFavour(t *testing.T) {
	s := investedVault(t)
	// 1000 ctokens now redeem for 2000 liquidity.
	snaps := []reserve.Snapshot{snap(reserveA, halfRate)}

	e, err := s.Deposit(snaps, t0, 999)
	require.NoError(t, err)

	// floor(1000 * 999 / 2000) shares, ceil(2000 * 499 / 1000) tokens.
	assert.Equal(t, uint64(499), e.SharesToMint)
	assert.Equal(t, uint64(998), e.TokenToDeposit)
	assert.Equal(t, uint64(1499), s.SharesIssued)
	assert.Equal(t, uint64(998), s.TokenAvailable)
}

func TestDepositChargesCrankFunds(t *testing.T) {
	s := newTestVault(t)
	addReserve(t, s, reserveA, 100, math.MaxUint64)
	addReserve(t, s, reserveB, 0, math.MaxUint64)
	snaps := []reserve.Snapshot{snap(reserveA, unitRate), snap(reserveB, unitRate)}
	require.NoError(t, s.UpdateConfig(snaps, t0, ConfigCrankFundFeePerReserve, EncodeU64(10)))

	e, err := s.Deposit(snaps, t0, 500)
	require.NoError(t, err)

	// Only reserveA has weight.
	assert.Equal(t, DepositEffects{SharesToMint: 490, TokenToDeposit: 490, CrankFundsToDeposit: 10}, e)
	assert.Equal(t, uint64(500), e.TotalFromUser())
	assert.Equal(t, uint64(10), s.AvailableCrankFunds)
	assert.Equal(t, uint64(1490), s.TokenAvailable)
}

func TestDepositErrors(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(t *testing.T, s *State)
		snaps   []reserve.Snapshot
		amount  uint64
		want    error
	}{
		{name: "zero", amount: 0, want: ErrDepositAmountsZero},
		{
			name: "below minimum",
			prepare: func(t *testing.T, s *State) {
				require.NoError(t, s.UpdateConfig(nil, t0, ConfigMinDepositAmount, EncodeU64(100)))
			},
			amount: 99,
			want:   ErrDepositAmountBelowMinimum,
		},
		{
			name: "does not cover crank funds",
			prepare: func(t *testing.T, s *State) {
				addReserve(t, s, reserveA, 100, math.MaxUint64)
				require.NoError(t, s.UpdateConfig([]reserve.Snapshot{snap(reserveA, unitRate)}, t0, ConfigCrankFundFeePerReserve, EncodeU64(10)))
			},
			snaps:  []reserve.Snapshot{snap(reserveA, unitRate)},
			amount: 5,
			want:   ErrDepositAmountBelowMinimum,
		},
		{
			name: "missing snapshot",
			prepare: func(t *testing.T, s *State) {
				addReserve(t, s, reserveA, 100, math.MaxUint64)
			},
			amount: 100,
			want:   ErrReserveNotProvidedInTheAccounts,
		},
		{
			name: "snapshot out of order",
			prepare: func(t *testing.T, s *State) {
				addReserve(t, s, reserveA, 100, math.MaxUint64)
				addReserve(t, s, reserveB, 100, math.MaxUint64)
			},
			snaps:  []reserve.Snapshot{snap(reserveB, unitRate), snap(reserveA, unitRate)},
			amount: 100,
			want:   ErrReserveAccountAndKeyMismatch,
		},
		{
			name: "stale reserve",
			prepare: func(t *testing.T, s *State) {
				addReserve(t, s, reserveA, 100, math.MaxUint64)
			},
			snaps:  []reserve.Snapshot{{Address: reserveA, Rate: unitRate, Stale: true}},
			amount: 100,
			want:   ErrReserveIsStale,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestVault(t)
			if tt.prepare != nil {
				tt.prepare(t, s)
			}
			before := *s

			_, err := s.Deposit(tt.snaps, t0, tt.amount)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, before, *s, "failed deposit must not mutate the vault")
		})
	}
}

func TestDepositIgnoresExtraSnapshots(t *testing.T) {
	s := newTestVault(t)
	addReserve(t, s, reserveA, 100, math.MaxUint64)

	_, err := s.Deposit([]reserve.Snapshot{snap(reserveA, unitRate), snap(reserveB, unitRate)}, t0, 100)
	require.NoError(t, err)
}

// =============================================================================
// Withdraw
// =============================================================================

func TestWithdrawFromAvailable(t *testing.T) {
	s := newTestVault(t)
	_, err := s.Deposit(nil, t0, 500)
	require.NoError(t, err)

	e, err := s.WithdrawFromAvailable(nil, t0, 750)
	require.NoError(t, err)

	assert.Equal(t, WithdrawEffects{SharesToBurn: 750, AvailableToSendToUser: 750}, e)
	assert.Equal(t, uint64(750), e.TotalToUser())
	assert.Equal(t, uint64(750), s.TokenAvailable)
	assert.Equal(t, uint64(750), s.SharesIssued)
	assert.Equal(t, fraction.FromUint64(750), s.PrevAUM)
}

func TestWithdrawFromReserve(t *testing.T) {
	s := investedVault(t)
	snaps := []reserve.Snapshot{snap(reserveA, unitRate)}

	e, err := s.Withdraw(snaps, t0, reserveA, 500)
	require.NoError(t, err)

	assert.Equal(t, WithdrawEffects{
		SharesToBurn:                  500,
		InvestedToDisinvestCTokens:    500,
		InvestedLiquidityToSendToUser: 500,
		InvestedLiquidityToDisinvest:  500,
	}, e)
	assert.Equal(t, uint64(500), s.SharesIssued)
	assert.Equal(t, uint64(500), s.Allocations[0].CTokenAllocation)
	assert.Zero(t, s.TokenAvailable)
}

func TestWithdrawRoundingChargesUser(t *testing.T) {
	s := newTestVault(t)
	addReserve(t, s, reserveA, 100, math.MaxUint64)
	snaps := []reserve.Snapshot{snap(reserveA, threeQuarterRate)}
	_, err := s.Invest(snaps, t0, reserveA)
	require.NoError(t, err)
	// 750 ctokens back 1000 liquidity.
	require.Equal(t, uint64(750), s.Allocations[0].CTokenAllocation)

	e, err := s.Withdraw(snaps, t0, reserveA, 1)
	require.NoError(t, err)

	// One unit needs ceil(0.75) = 1 ctoken, which redeems for 1.33. The
	// fractional part the redemption loses exceeds the user's own, so the
	// user absorbs the unit and the redeemed liquidity stays idle.
	assert.Equal(t, WithdrawEffects{
		SharesToBurn:                 1,
		InvestedToDisinvestCTokens:   1,
		InvestedLiquidityToDisinvest: 1,
	}, e)
	assert.Zero(t, e.TotalToUser())
	assert.Equal(t, uint64(1), s.TokenAvailable)
	assert.Equal(t, uint64(749), s.Allocations[0].CTokenAllocation)
	assert.Equal(t, uint64(999), s.SharesIssued)
}

func TestWithdrawAllSharesTakesEverything(t *testing.T) {
	s := newTestVault(t)

	e, err := s.WithdrawFromAvailable(nil, t0, 1000)
	require.NoError(t, err)

	assert.Equal(t, uint64(1000), e.AvailableToSendToUser)
	assert.Equal(t, uint64(1000), e.SharesToBurn)
	assert.Zero(t, s.SharesIssued)
	assert.Zero(t, s.TokenAvailable)
}

func TestWithdrawErrors(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(t *testing.T, s *State)
		from    types.Address
		shares  uint64
		want    error
	}{
		{name: "zero shares", shares: 0, want: ErrCannotWithdrawZeroShares},
		{name: "more than issued", shares: 1001, want: ErrMathOverflow},
		{
			name: "below minimum",
			prepare: func(t *testing.T, s *State) {
				require.NoError(t, s.UpdateConfig(nil, t0, ConfigMinWithdrawAmount, EncodeU64(1000)))
			},
			shares: 750,
			want:   ErrWithdrawAmountBelowMinimum,
		},
		{name: "unknown reserve", from: reserveC, shares: 10, want: ErrReserveNotPartOfAllocations},
		{
			name: "empty vault",
			prepare: func(t *testing.T, s *State) {
				s.TokenAvailable = 0
			},
			shares: 10,
			want:   ErrVaultAUMZero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestVault(t)
			if tt.prepare != nil {
				tt.prepare(t, s)
			}
			before := *s

			_, err := s.Withdraw(nil, t0, tt.from, tt.shares)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, before, *s)
		})
	}
}

// =============================================================================
// Pending fees
// =============================================================================

func TestWithdrawPendingFeesFromReserve(t *testing.T) {
	s := investedVault(t)
	require.NoError(t, s.UpdateConfig([]reserve.Snapshot{snap(reserveA, unitRate)}, t0, ConfigPerformanceFeeBps, EncodeU64(5000)))
	snaps := []reserve.Snapshot{snap(reserveA, halfRate)}
	now := later(t0, 10, 60)

	e, err := s.WithdrawPendingFees(snaps, now, reserveA)
	require.NoError(t, err)

	// Growth of 1000 at 50% leaves 500 in fees; 250 ctokens redeem for 500.
	assert.Equal(t, WithdrawPendingFeesEffects{
		InvestedToDisinvestCTokens:    250,
		InvestedLiquidityToSendToUser: 500,
		InvestedLiquidityToDisinvest:  500,
	}, e)
	assert.Equal(t, uint64(500), e.TotalToAdmin())
	assert.True(t, s.PendingFees.IsZero())
	assert.Equal(t, uint64(750), s.Allocations[0].CTokenAllocation)
}

func TestWithdrawPendingFeesFromAvailableOnly(t *testing.T) {
	s := investedVault(t)
	require.NoError(t, s.UpdateConfig([]reserve.Snapshot{snap(reserveA, unitRate)}, t0, ConfigPerformanceFeeBps, EncodeU64(5000)))
	s.TokenAvailable = 200
	s.PrevAUM = s.PrevAUM.Add(fraction.FromUint64(200))
	snaps := []reserve.Snapshot{snap(reserveA, halfRate)}

	e, err := s.WithdrawPendingFees(snaps, later(t0, 1, 1), types.ZeroAddress)
	require.NoError(t, err)

	assert.Equal(t, uint64(200), e.AvailableToSendToUser)
	assert.Zero(t, e.InvestedToDisinvestCTokens)
	assert.Zero(t, s.TokenAvailable)
	assert.Equal(t, fraction.FromUint64(300), s.PendingFees)
}

func TestGiveUpPendingFee(t *testing.T) {
	s := investedVault(t)
	require.NoError(t, s.UpdateConfig([]reserve.Snapshot{snap(reserveA, unitRate)}, t0, ConfigPerformanceFeeBps, EncodeU64(5000)))
	snaps := []reserve.Snapshot{snap(reserveA, halfRate)}
	now := later(t0, 10, 60)

	require.NoError(t, s.GiveUpPendingFee(snaps, now, 200))

	assert.Equal(t, fraction.FromUint64(300), s.PendingFees)
	assert.Equal(t, fraction.FromUint64(1700), s.PrevAUM)
	assert.Equal(t, now.UnixTimestamp, s.LastFeeChargeTimestamp)

	require.NoError(t, s.GiveUpPendingFee(snaps, now, math.MaxUint64))
	assert.True(t, s.PendingFees.IsZero())
}
