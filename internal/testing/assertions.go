package testing

import (
	"errors"
	"testing"

	sdkerrors "cosmossdk.io/errors"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goYieldVault/internal/core/fraction"
)

// RequireBalance asserts that an account has the expected token balance.
func RequireBalance(t *testing.T, env *TestEnv, acc *Account, expected uint64) {
	t.Helper()
	actual := env.Balance(acc)
	require.Equal(t, expected, actual,
		"Account %s balance mismatch: expected %d, got %d", acc.Name, expected, actual)
}

// RequireShares asserts that an account holds the expected shares.
func RequireShares(t *testing.T, env *TestEnv, acc *Account, expected uint64) {
	t.Helper()
	actual := env.Shares(acc)
	require.Equal(t, expected, actual,
		"Account %s shares mismatch: expected %d, got %d", acc.Name, expected, actual)
}

// RequireVaultError asserts that err is, or wraps, the registered vault error target.
func RequireVaultError(t *testing.T, err error, target *sdkerrors.Error) {
	t.Helper()
	require.Error(t, err, "Expected %s, got success", target)
	require.True(t, errors.Is(err, target), "Expected %s, got %v", target, err)
}

// RequireAccounting asserts that the vault token account holds at least the
// idle liquidity plus crank funds on record.
func RequireAccounting(t *testing.T, env *TestEnv) {
	t.Helper()
	st := env.State()
	onRecord := st.TokenAvailable + st.AvailableCrankFunds
	require.GreaterOrEqual(t, env.VaultTokenBalance(), onRecord,
		"Vault token account holds %d, record says %d", env.VaultTokenBalance(), onRecord)
}

// RequireAUMAtLeast asserts that the vault's AUM is at least minimum tokens.
func RequireAUMAtLeast(t *testing.T, env *TestEnv, minimum uint64) {
	t.Helper()
	aum := env.Summary().AUM
	require.False(t, aum.Lt(fraction.FromUint64(minimum)), "AUM %s below %d", aum, minimum)
}
