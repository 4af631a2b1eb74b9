package vaultstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goYieldVault/internal/core/vault"
	"github.com/LeJamon/goYieldVault/internal/storage/database/memory"
)

func newTestStore(t *testing.T, opts Options) (*Store, *memory.DB) {
	t.Helper()
	db := memory.NewDB()
	s, err := New(db, opts)
	require.NoError(t, err)
	return s, db
}

func entry(seq uint64, op string) *JournalEntry {
	return &JournalEntry{Seq: seq, Op: op, Slot: 100 + seq, Timestamp: 1_700_000_000 + seq, AUMAfter: "1000"}
}

func TestNewRejectsUnknownCompression(t *testing.T) {
	_, err := New(memory.NewDB(), Options{Compression: "zstd"})
	assert.ErrorContains(t, err, "zstd")
}

func TestCommitAndLoad(t *testing.T) {
	for _, comp := range []string{"none", "lz4"} {
		t.Run(comp, func(t *testing.T) {
			ctx := context.Background()
			s, _ := newTestStore(t, Options{Compression: comp})
			v := addr(0x42)

			_, err := s.LoadVault(ctx, v)
			require.ErrorIs(t, err, ErrVaultNotFound)

			st := sampleState()
			require.NoError(t, s.Commit(ctx, Commit{Vault: v, State: st, Entry: entry(1, OpInit)}))

			got, err := s.LoadVault(ctx, v)
			require.NoError(t, err)
			assert.Equal(t, st, got)

			// A cold cache decodes the stored bytes.
			s.Purge()
			got, err = s.LoadVault(ctx, v)
			require.NoError(t, err)
			assert.Equal(t, st, got)
		})
	}
}

func TestLZ4ShrinksRecord(t *testing.T) {
	ctx := context.Background()
	s, db := newTestStore(t, DefaultOptions())
	v := addr(0x42)

	require.NoError(t, s.Commit(ctx, Commit{Vault: v, State: sampleState(), Entry: entry(1, OpInit)}))

	raw, err := db.Read(ctx, vaultKey(v))
	require.NoError(t, err)
	assert.Equal(t, byte(1), raw[0])
	assert.Less(t, len(raw), RecordSize/4)
}

func TestLoadReturnsPrivateCopy(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, DefaultOptions())
	v := addr(0x42)
	require.NoError(t, s.Commit(ctx, Commit{Vault: v, State: sampleState(), Entry: entry(1, OpInit)}))

	a, err := s.LoadVault(ctx, v)
	require.NoError(t, err)
	a.TokenAvailable = 1
	a.Allocations[0].CTokenAllocation = 1

	b, err := s.LoadVault(ctx, v)
	require.NoError(t, err)
	assert.Equal(t, uint64(12_345), b.TokenAvailable)
	assert.Equal(t, uint64(900), b.Allocations[0].CTokenAllocation)
}

func TestCommitSequence(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, DefaultOptions())
	v := addr(0x42)

	seq, err := s.NextSeq(ctx, v)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), seq)

	err = s.Commit(ctx, Commit{Vault: v, State: sampleState(), Entry: entry(2, OpInit)})
	require.ErrorIs(t, err, ErrSequenceMismatch)
	_, err = s.LoadVault(ctx, v)
	assert.ErrorIs(t, err, ErrVaultNotFound)

	require.NoError(t, s.Commit(ctx, Commit{Vault: v, State: sampleState(), Entry: entry(1, OpInit)}))
	seq, err = s.NextSeq(ctx, v)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), seq)
}

func TestJournal(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, DefaultOptions())
	v, other := addr(0x42), addr(0x43)
	st := sampleState()

	require.NoError(t, s.Commit(ctx, Commit{Vault: v, State: st, Entry: entry(1, OpInit)}))
	require.NoError(t, s.Commit(ctx, Commit{Vault: other, State: st, Entry: entry(1, OpInit)}))

	dep := entry(2, OpDeposit)
	dep.Signer = addr(9)
	dep.Amount = 500
	dep.Deposit = &vault.DepositEffects{SharesToMint: 499, TokenToDeposit: 500}
	require.NoError(t, s.Commit(ctx, Commit{Vault: v, State: st, Entry: dep}))

	inv := entry(3, OpInvest)
	inv.Reserve = addr(10)
	inv.Invest = &vault.InvestEffects{Direction: vault.InvestAdd, LiquidityAmount: 300, CollateralAmount: 300}
	require.NoError(t, s.Commit(ctx, Commit{Vault: v, State: st, Entry: inv}))

	all, err := s.Journal(ctx, v, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{OpInit, OpDeposit, OpInvest}, []string{all[0].Op, all[1].Op, all[2].Op})
	assert.Equal(t, *dep, all[1])
	assert.Equal(t, *inv, all[2])
	assert.Nil(t, all[0].Deposit)

	page, err := s.Journal(ctx, v, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, uint64(2), page[0].Seq)

	others, err := s.Journal(ctx, other, 0, 0)
	require.NoError(t, err)
	assert.Len(t, others, 1)
}

func TestVaults(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, DefaultOptions())

	for _, b := range []byte{3, 1, 2} {
		require.NoError(t, s.Commit(ctx, Commit{Vault: addr(b), State: sampleState(), Entry: entry(1, OpInit)}))
	}

	got, err := s.Vaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{addr(1).String(), addr(2).String(), addr(3).String()},
		[]string{got[0].String(), got[1].String(), got[2].String()})
}

func TestGlobalConfigAndWhitelist(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, DefaultOptions())

	_, err := s.LoadGlobalConfig(ctx)
	require.ErrorIs(t, err, ErrGlobalConfigNotFound)

	g, err := vault.InitGlobalConfig(addr(1))
	require.NoError(t, err)
	require.NoError(t, s.SaveGlobalConfig(ctx, g))
	got, err := s.LoadGlobalConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, g, got)

	e, err := s.LoadWhitelistEntry(ctx, addr(10))
	require.NoError(t, err)
	assert.Nil(t, e)

	wl := vault.NewReserveWhitelistEntry(addr(5), addr(10))
	require.NoError(t, wl.Update(vault.WhitelistInvest, 1))
	require.NoError(t, s.SaveWhitelistEntry(ctx, wl))
	e, err = s.LoadWhitelistEntry(ctx, addr(10))
	require.NoError(t, err)
	assert.Equal(t, wl, e)
}

func TestJournalEntryString(t *testing.T) {
	e := entry(2, OpDeposit)
	e.Amount = 5
	assert.Equal(t, "#2 deposit slot=102 ts=1700000002 aum=1000 shares=0 amount=5", e.String())
}
