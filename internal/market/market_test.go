package market

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goYieldVault/internal/core/fraction"
	"github.com/LeJamon/goYieldVault/internal/core/types"
)

func addr(b byte) types.Address {
	var a types.Address
	a[0] = b
	return a
}

var (
	reserveA = addr(0x0a)
	mintUSD  = addr(0x01)
	shares   = addr(0x02)
	user     = addr(0x30)
	vaultTok = addr(0x31)
	ctokVA   = addr(0x32)
	userShr  = addr(0x33)
)

// Reserve A issues one collateral per two liquidity.
func newTestMarket() *Market {
	m := New(0)
	m.AddReserve(Reserve{
		Address:            reserveA,
		LiquidityMint:      mintUSD,
		AvailableLiquidity: 600_000,
		BorrowedLiquidity:  400_000,
		CollateralSupply:   500_000,
		LastUpdateSlot:     10,
	})
	m.Fund(user, 5000)
	return m
}

// ============================================================================
// Snapshots
// ============================================================================

func TestRefreshAndStaleness(t *testing.T) {
	ctx := context.Background()
	m := newTestMarket()

	snap, err := m.Snapshot(ctx, reserveA, 10)
	require.NoError(t, err)
	assert.False(t, snap.Stale)
	assert.Equal(t, fraction.FromRatio(1, 2), snap.Rate.Fraction())

	snap, err = m.Snapshot(ctx, reserveA, 11)
	require.NoError(t, err)
	assert.True(t, snap.Stale)

	snap, err = m.Refresh(ctx, reserveA, 11)
	require.NoError(t, err)
	assert.False(t, snap.Stale)
	r, err := m.Reserve(reserveA)
	require.NoError(t, err)
	assert.Equal(t, uint64(11), r.LastUpdateSlot)

	_, err = m.Refresh(ctx, addr(0xff), 11)
	assert.ErrorIs(t, err, ErrUnknownReserve)
}

func TestStalenessWindow(t *testing.T) {
	ctx := context.Background()
	m := New(5)
	m.AddReserve(Reserve{Address: reserveA, LastUpdateSlot: 100})

	snap, err := m.Snapshot(ctx, reserveA, 105)
	require.NoError(t, err)
	assert.False(t, snap.Stale)

	snap, err = m.Snapshot(ctx, reserveA, 106)
	require.NoError(t, err)
	assert.True(t, snap.Stale)

	m.SetStalenessSlots(6)
	snap, err = m.Snapshot(ctx, reserveA, 106)
	require.NoError(t, err)
	assert.False(t, snap.Stale)
}

func TestFrozenReserveStaysStale(t *testing.T) {
	ctx := context.Background()
	m := newTestMarket()
	require.NoError(t, m.UpdateReserve(reserveA, func(r *Reserve) { r.Frozen = true }))

	snap, err := m.Refresh(ctx, reserveA, 20)
	require.NoError(t, err)
	assert.True(t, snap.Stale)
}

func TestAccrueRaisesLiquidityPerCollateral(t *testing.T) {
	m := newTestMarket()
	require.NoError(t, m.Accrue(reserveA, 1_000_000))

	r, err := m.Reserve(reserveA)
	require.NoError(t, err)
	assert.Equal(t, uint64(2_000_000), r.TotalLiquidity())
	assert.Equal(t, fraction.FromRatio(1, 4), r.Rate().Fraction())
}

// ============================================================================
// Movements
// ============================================================================

func TestExecuteDepositFlow(t *testing.T) {
	ctx := context.Background()
	m := newTestMarket()

	_, err := m.Execute(ctx, []Movement{
		Transfer(user, vaultTok, 3000),
		Mint(shares, userShr, 3000),
		DepositLiquidity(reserveA, vaultTok, ctokVA, 1000),
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(2000), m.BalanceOf(user))
	assert.Equal(t, uint64(2000), m.BalanceOf(vaultTok))
	assert.Equal(t, uint64(500), m.BalanceOf(ctokVA))
	assert.Equal(t, uint64(3000), m.BalanceOf(userShr))
	assert.Equal(t, uint64(3000), m.Supply(shares))

	r, err := m.Reserve(reserveA)
	require.NoError(t, err)
	assert.Equal(t, uint64(601_000), r.AvailableLiquidity)
	assert.Equal(t, uint64(500_500), r.CollateralSupply)
}

func TestExecuteRedeem(t *testing.T) {
	ctx := context.Background()
	m := newTestMarket()
	m.Fund(ctokVA, 100)
	require.NoError(t, m.UpdateReserve(reserveA, func(r *Reserve) { r.CollateralSupply += 100 }))

	_, err := m.Execute(ctx, []Movement{RedeemCollateral(reserveA, ctokVA, vaultTok, 100)})
	require.NoError(t, err)

	// 500_100 collateral against 1_000_000 liquidity: 100 redeem to 199.96
	assert.Equal(t, uint64(199), m.BalanceOf(vaultTok))
	assert.Zero(t, m.BalanceOf(ctokVA))
}

func TestExecuteIsAtomic(t *testing.T) {
	ctx := context.Background()
	m := newTestMarket()

	_, err := m.Execute(ctx, []Movement{
		Transfer(user, vaultTok, 3000),
		Burn(shares, user, 1),
	})
	require.ErrorIs(t, err, ErrInsufficientFunds)

	assert.Equal(t, uint64(5000), m.BalanceOf(user))
	assert.Zero(t, m.BalanceOf(vaultTok))
}

func TestExecuteInsufficientReserveLiquidity(t *testing.T) {
	ctx := context.Background()
	m := newTestMarket()
	m.Fund(ctokVA, 1000)
	require.NoError(t, m.UpdateReserve(reserveA, func(r *Reserve) {
		r.AvailableLiquidity = 100
		r.BorrowedLiquidity = 999_900
	}))

	_, err := m.Execute(ctx, []Movement{RedeemCollateral(reserveA, ctokVA, vaultTok, 1000)})
	require.ErrorIs(t, err, ErrInsufficientLiquidity)
	assert.Equal(t, uint64(1000), m.BalanceOf(ctokVA))
}

func TestUndo(t *testing.T) {
	ctx := context.Background()
	m := newTestMarket()

	undo, err := m.Execute(ctx, []Movement{
		Transfer(user, vaultTok, 2000),
		DepositLiquidity(reserveA, vaultTok, ctokVA, 2000),
	})
	require.NoError(t, err)

	// A change made in between survives the undo.
	m.Fund(user, 1)
	undo()

	assert.Equal(t, uint64(5001), m.BalanceOf(user))
	assert.Zero(t, m.BalanceOf(vaultTok))
	assert.Zero(t, m.BalanceOf(ctokVA))
	r, err := m.Reserve(reserveA)
	require.NoError(t, err)
	assert.Equal(t, uint64(600_000), r.AvailableLiquidity)
	assert.Equal(t, uint64(500_000), r.CollateralSupply)
}

func TestZeroAmountMovementsAreSkipped(t *testing.T) {
	ctx := context.Background()
	m := newTestMarket()

	_, err := m.Execute(ctx, []Movement{Transfer(addr(0x99), user, 0), Burn(shares, user, 0)})
	require.NoError(t, err)
	assert.Equal(t, uint64(5000), m.BalanceOf(user))
}

func TestExecuteHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestMarket().Execute(ctx, []Movement{Transfer(user, vaultTok, 1)})
	assert.ErrorIs(t, err, context.Canceled)
}

// ============================================================================
// Fixtures
// ============================================================================

func TestLoadFixture(t *testing.T) {
	m, err := Load(filepath.Join("testdata", "market.yaml"))
	require.NoError(t, err)

	primary, err := ResolveAddress("reserve-usdc-main")
	require.NoError(t, err)
	usdc, err := ResolveAddress("usdc")
	require.NoError(t, err)
	alice, err := ResolveAddress("alice")
	require.NoError(t, err)

	r, err := m.Reserve(primary)
	require.NoError(t, err)
	assert.Equal(t, usdc, r.LiquidityMint)
	assert.Equal(t, uint64(1_000_000), r.TotalLiquidity())

	alt, err := ResolveAddress("reserve-usdc-alt")
	require.NoError(t, err)
	r, err = m.Reserve(alt)
	require.NoError(t, err)
	assert.True(t, r.Frozen)

	assert.Equal(t, uint64(10_000), m.BalanceOf(DeriveAccount(alice, usdc)))
	assert.Equal(t, uint64(7), m.BalanceOf(addr(0x0a)))
	assert.Len(t, m.Reserves(), 2)
}

func TestSaveAndReload(t *testing.T) {
	ctx := context.Background()
	m := newTestMarket()
	_, err := m.Execute(ctx, []Movement{
		Transfer(user, vaultTok, 1000),
		Mint(shares, user, 10),
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, m.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.Fixture(), got.Fixture())
	assert.Equal(t, uint64(4010), got.BalanceOf(user))
	assert.Equal(t, uint64(10), got.Supply(shares))
}

func TestResolveAddress(t *testing.T) {
	hex := addr(0x0a).String()
	a, err := ResolveAddress(hex)
	require.NoError(t, err)
	assert.Equal(t, addr(0x0a), a)

	a, err = ResolveAddress("0x" + hex)
	require.NoError(t, err)
	assert.Equal(t, addr(0x0a), a)

	alice1, err := ResolveAddress("alice")
	require.NoError(t, err)
	alice2, err := ResolveAddress(" alice ")
	require.NoError(t, err)
	assert.Equal(t, alice1, alice2)
	assert.NotEqual(t, alice1, DeriveAddress("name", []byte("bob")))

	_, err = ResolveAddress("")
	assert.ErrorIs(t, err, types.ErrInvalidAddress)
}
