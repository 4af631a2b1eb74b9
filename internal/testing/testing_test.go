package testing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goYieldVault/internal/core/vault"
	"github.com/LeJamon/goYieldVault/internal/storage/vaultstore"
)

func TestNewAccount(t *testing.T) {
	// Test deterministic account creation
	alice1 := NewAccount("alice")
	alice2 := NewAccount("alice")

	// Same name should produce same account
	assert.Equal(t, alice1.Address, alice2.Address)
	assert.Equal(t, alice1.Identity.PublicKey(), alice2.Identity.PublicKey())

	// Different name should produce different account
	bob := NewAccount("bob")
	assert.NotEqual(t, alice1.Address, bob.Address)
	assert.Equal(t, alice1.Identity.Address(), alice1.Address)
}

func TestAccountTokenAccounts(t *testing.T) {
	alice := NewAccount("alice")
	env := NewTestEnv(t)

	assert.Equal(t, alice.TokenAccount(env.Mint()), alice.TokenAccount(env.Mint()))
	assert.NotEqual(t, alice.TokenAccount(env.Mint()), env.SharesAccount(alice))
	assert.NotEqual(t, alice.TokenAccount(env.Mint()), NewAccount("bob").TokenAccount(env.Mint()))
}

func TestAccountString(t *testing.T) {
	alice := NewAccount("alice")

	// String() should include name and address
	str := alice.String()
	assert.Contains(t, str, "alice")
	assert.Contains(t, str, alice.Address.Short())
}

func TestManualClock(t *testing.T) {
	clock := NewManualClock()

	// Default time should be Jan 1, 2020 at slot 100
	now := clock.Time()
	assert.Equal(t, 2020, now.Year())
	assert.Equal(t, time.January, now.Month())
	assert.Equal(t, 1, now.Day())
	assert.Equal(t, uint64(100), clock.Now().Slot)
	assert.Equal(t, uint64(now.Unix()), clock.Now().UnixTimestamp)

	// Advance time; the slot does not move
	clock.Advance(10 * time.Second)
	assert.Equal(t, 10*time.Second, clock.Time().Sub(now))
	assert.Equal(t, uint64(100), clock.Now().Slot)

	clock.AdvanceSlots(5)
	assert.Equal(t, uint64(105), clock.Now().Slot)

	// Set time
	newTime := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	clock.Set(newTime)
	assert.Equal(t, newTime, clock.Time())
}

func TestManualClockAt(t *testing.T) {
	startTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewManualClockAt(startTime, 7)

	assert.Equal(t, startTime, clock.Time())
	assert.Equal(t, uint64(7), clock.Now().Slot)
}

// TestNewTestEnv tests the basic TestEnv creation
func TestNewTestEnv(t *testing.T) {
	env := NewTestEnv(t)
	require.NotNil(t, env)

	st := env.State()
	assert.Equal(t, env.Admin().Address, st.VaultAdmin)
	assert.Equal(t, env.Mint(), st.TokenMint)
	assert.Equal(t, vault.InitialDepositAmount, st.SharesIssued)
	assert.Equal(t, vault.InitialDepositAmount, env.VaultTokenBalance())

	// The admin paid the seed deposit
	RequireBalance(t, env, env.Admin(), AdminFunding-vault.InitialDepositAmount)
	RequireAccounting(t, env)

	journal := env.Journal()
	require.Len(t, journal, 1)
	assert.Equal(t, vaultstore.OpInit, journal[0].Op)
}

func TestTestEnvAccountsAreShared(t *testing.T) {
	env := NewTestEnv(t)

	alice := env.Account("alice")
	assert.Same(t, alice, env.Account("alice"))
	assert.Same(t, env.Admin(), env.Account("admin"))

	env.Fund(alice, 500)
	RequireBalance(t, env, alice, 500)
}

func TestTestEnvReopen(t *testing.T) {
	env := NewTestEnv(t)
	alice := env.Account("alice")
	env.Fund(alice, 10_000)

	_, err := env.Deposit(alice, 10_000)
	require.NoError(t, err)

	env.Reopen()
	RequireShares(t, env, alice, 10_000)
	assert.Equal(t, uint64(11_000), env.State().SharesIssued)
	RequireAUMAtLeast(t, env, 11_000)
}
