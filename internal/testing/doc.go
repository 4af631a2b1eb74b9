// Package testing provides test infrastructure for vault integration tests.
//
// # Overview
//
// The testing package provides:
//   - TestEnv: an initialized vault over an in-memory market and store
//   - Account: deterministic test users with signing keys
//   - ManualClock: a controllable slot and wall clock
//   - Assertions: helpers for balance and error checks
//
// # Basic Usage
//
//	func TestDeposit(t *testing.T) {
//	    env := vaulttest.NewTestEnv(t)
//
//	    alice := env.Account("alice")
//	    env.Fund(alice, 10_000)
//
//	    _, err := env.Deposit(alice, 10_000)
//	    require.NoError(t, err)
//	    vaulttest.RequireShares(t, env, alice, 10_000)
//	}
//
// # TestEnv
//
// NewTestEnv creates the vault and pays its seed deposit from the admin,
// who starts with AdminFunding tokens. Reserves are added with AddReserve
// and allocated with Allocate.
//
//	reserve := env.AddReserve("main", 600_000, 400_000, 500_000)
//	env.Allocate(reserve, 100, math.MaxUint64)
//	env.AdvanceSlots(10)
//	env.Invest(reserve)
//
// Reopen drops cached records and builds a new service over the same store,
// which checks that everything an operation needs was persisted.
package testing
