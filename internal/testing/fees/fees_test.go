package fees_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goYieldVault/internal/core/vault"
	vaulttest "github.com/LeJamon/goYieldVault/internal/testing"
)

// yearOfSeconds is the period the management fee rate is quoted for.
const yearOfSeconds = time.Duration(vault.SecondsPerYear) * time.Second

func pendingFees(t *testing.T, env *vaulttest.TestEnv) uint64 {
	t.Helper()
	fees, err := env.State().PendingFees.Floor()
	require.NoError(t, err)
	return fees
}

// ============================================================================
// Management fee
// ============================================================================

func TestManagementFeeAccruesOnPreviousAUM(t *testing.T) {
	env := vaulttest.NewTestEnv(t)
	alice := env.Account("alice")
	env.Fund(alice, 100_000)
	_, err := env.Deposit(alice, 100_000)
	require.NoError(t, err)

	// 1% a year on 101000.
	env.SetConfig(vault.ConfigManagementFeeBps, vault.EncodeU64(100))
	env.AdvanceTime(yearOfSeconds)
	env.SetConfig(vault.ConfigMinDepositAmount, vault.EncodeU64(0))

	assert.InDelta(t, 1010, pendingFees(t, env), 1)
	vaulttest.RequireAccounting(t, env)
}

func TestManagementFeeNeedsElapsedTime(t *testing.T) {
	env := vaulttest.NewTestEnv(t)
	env.SetConfig(vault.ConfigManagementFeeBps, vault.EncodeU64(500))
	env.SetConfig(vault.ConfigMinDepositAmount, vault.EncodeU64(0))

	assert.Zero(t, pendingFees(t, env))
}

// ============================================================================
// Performance fee
// ============================================================================

func TestPerformanceFeeOnlyOnGrowth(t *testing.T) {
	env := vaulttest.NewTestEnv(t)
	alice := env.Account("alice")
	env.Fund(alice, 99_000)
	_, err := env.Deposit(alice, 99_000)
	require.NoError(t, err)

	// One collateral per two liquidity.
	reserve := env.AddReserve("main", 600_000, 400_000, 500_000)
	env.Allocate(reserve, 100, math.MaxUint64)
	env.SetConfig(vault.ConfigPerformanceFeeBps, vault.EncodeU64(1000))
	_, err = env.Invest(reserve)
	require.NoError(t, err)
	assert.Zero(t, pendingFees(t, env), "investing is not growth")

	// Liquidity per collateral goes from two to four.
	env.Accrue(reserve, 1_100_000)
	env.SetConfig(vault.ConfigMinDepositAmount, vault.EncodeU64(0))
	charged := pendingFees(t, env)
	assert.InDelta(t, 10_000, charged, 1)

	// A second charge without growth adds nothing.
	env.SetConfig(vault.ConfigMinDepositAmount, vault.EncodeU64(0))
	assert.Equal(t, charged, pendingFees(t, env))
	prevAUM, err := env.State().PrevAUM.Floor()
	require.NoError(t, err)
	assert.InDelta(t, 190_000, prevAUM, 1)
}

func TestFeesAreNotTakenFromDeposits(t *testing.T) {
	env := vaulttest.NewTestEnv(t)
	env.SetConfig(vault.ConfigPerformanceFeeBps, vault.EncodeU64(10_000))

	alice := env.Account("alice")
	env.Fund(alice, 50_000)
	_, err := env.Deposit(alice, 50_000)
	require.NoError(t, err)

	assert.Zero(t, pendingFees(t, env))
	vaulttest.RequireShares(t, env, alice, 50_000)
}
