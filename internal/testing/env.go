package testing

import (
	"context"
	"testing"
	"time"

	"github.com/LeJamon/goYieldVault/internal/core/types"
	"github.com/LeJamon/goYieldVault/internal/core/vault"
	"github.com/LeJamon/goYieldVault/internal/market"
	"github.com/LeJamon/goYieldVault/internal/service"
	"github.com/LeJamon/goYieldVault/internal/storage/database/memory"
	"github.com/LeJamon/goYieldVault/internal/storage/recorder"
	"github.com/LeJamon/goYieldVault/internal/storage/vaultstore"
)

// AdminFunding is the token balance the vault admin starts with.
const AdminFunding uint64 = 1_000_000_000

// TestEnv manages a vault on an in-memory market and store.
// It provides a simplified interface for creating reserves, funding accounts,
// running vault operations, and verifying balances.
type TestEnv struct {
	t        *testing.T
	ctx      context.Context
	market   *market.Market
	store    *vaultstore.Store
	clock    *ManualClock
	recorder recorder.Recorder
	accounts map[string]*Account

	admin  *Account
	mint   types.Address
	vault  types.Address
	svc    *service.Service
	global *service.GlobalAdmin
}

// EnvOption customizes NewTestEnv.
type EnvOption func(*envConfig)

type envConfig struct {
	recorder       recorder.Recorder
	stalenessSlots uint64
}

// WithRecorder records history into rec.
func WithRecorder(rec recorder.Recorder) EnvOption {
	return func(c *envConfig) { c.recorder = rec }
}

// WithStalenessSlots sets how many slots a reserve stays fresh after a refresh.
func WithStalenessSlots(n uint64) EnvOption {
	return func(c *envConfig) { c.stalenessSlots = n }
}

// NewTestEnv creates an initialized vault whose admin is the "admin" account.
// The seed deposit is paid from the admin's token account.
func NewTestEnv(t *testing.T, opts ...EnvOption) *TestEnv {
	t.Helper()

	cfg := envConfig{recorder: recorder.NewNoopRecorder()}
	for _, o := range opts {
		o(&cfg)
	}

	store, err := vaultstore.New(memory.NewDB(), vaultstore.DefaultOptions())
	if err != nil {
		t.Fatalf("Failed to create vault store: %v", err)
	}

	env := &TestEnv{
		t:        t,
		ctx:      context.Background(),
		market:   market.New(cfg.stalenessSlots),
		store:    store,
		clock:    NewManualClock(),
		recorder: cfg.recorder,
		accounts: make(map[string]*Account),
		admin:    NewAccount("admin"),
		mint:     market.DeriveAddress("mint", []byte("usdc")),
		vault:    market.DeriveAddress("vault", []byte("test")),
	}
	env.accounts[env.admin.Name] = env.admin
	env.global = service.NewGlobalAdmin(store)
	env.market.Fund(env.admin.TokenAccount(env.mint), AdminFunding)

	svc, _, err := service.Initialize(env.ctx, env.vault, service.InitRequest{
		Admin:              env.admin.Address,
		AdminTokenAccount:  env.admin.TokenAccount(env.mint),
		TokenMint:          env.mint,
		TokenMintDecimals:  6,
		SharesMintDecimals: 6,
	}, env.deps())
	if err != nil {
		t.Fatalf("Failed to initialize vault: %v", err)
	}
	env.svc = svc
	return env
}

func (e *TestEnv) deps() service.Deps {
	return service.Deps{
		Store:    e.store,
		Reserves: e.market,
		Executor: e.market,
		Recorder: e.recorder,
		Clock:    e.clock,
	}
}

// Reopen drops the store cache and builds a fresh service over the same
// records, as after a restart.
func (e *TestEnv) Reopen() {
	e.store.Purge()
	e.svc = service.New(e.vault, e.deps())
}

// Context returns the context operations run with.
func (e *TestEnv) Context() context.Context { return e.ctx }

func (e *TestEnv) Market() *market.Market { return e.market }
func (e *TestEnv) Store() *vaultstore.Store { return e.store }
func (e *TestEnv) Clock() *ManualClock { return e.clock }
func (e *TestEnv) Service() *service.Service { return e.svc }
func (e *TestEnv) GlobalAdmin() *service.GlobalAdmin { return e.global }
func (e *TestEnv) Admin() *Account { return e.admin }
func (e *TestEnv) Mint() types.Address { return e.mint }
func (e *TestEnv) VaultAddress() types.Address { return e.vault }

// Account returns the named account, creating it on first use.
func (e *TestEnv) Account(name string) *Account {
	if acc, ok := e.accounts[name]; ok {
		return acc
	}
	acc := NewAccount(name)
	e.accounts[name] = acc
	return acc
}

// Fund credits amount tokens to the account.
func (e *TestEnv) Fund(acc *Account, amount uint64) {
	e.market.Fund(acc.TokenAccount(e.mint), amount)
}

// SharesAccount is where the account holds vault shares.
func (e *TestEnv) SharesAccount(acc *Account) types.Address {
	return acc.TokenAccount(e.State().SharesMint)
}

// Balance returns the account's token balance.
func (e *TestEnv) Balance(acc *Account) uint64 {
	return e.market.BalanceOf(acc.TokenAccount(e.mint))
}

// Shares returns the account's share balance.
func (e *TestEnv) Shares(acc *Account) uint64 {
	return e.market.BalanceOf(e.SharesAccount(acc))
}

// VaultTokenBalance returns the balance of the vault's token account.
func (e *TestEnv) VaultTokenBalance() uint64 {
	return e.market.BalanceOf(service.TokenVaultAddress(e.vault))
}

// State loads the committed vault record.
func (e *TestEnv) State() *vault.State {
	e.t.Helper()
	st, err := e.store.LoadVault(e.ctx, e.vault)
	if err != nil {
		e.t.Fatalf("Failed to load vault: %v", err)
	}
	return st
}

// Summary values the vault.
func (e *TestEnv) Summary() *service.Summary {
	e.t.Helper()
	s, err := e.svc.Show(e.ctx)
	if err != nil {
		e.t.Fatalf("Failed to show vault: %v", err)
	}
	return s
}

// AddReserve creates a reserve with the given liquidity and collateral,
// fresh at the current slot.
func (e *TestEnv) AddReserve(name string, available, borrowed, collateral uint64) types.Address {
	addr := market.DeriveAddress("reserve", []byte(name))
	e.market.AddReserve(market.Reserve{
		Address:            addr,
		LiquidityMint:      e.mint,
		AvailableLiquidity: available,
		BorrowedLiquidity:  borrowed,
		CollateralSupply:   collateral,
		LastUpdateSlot:     e.clock.Now().Slot,
	})
	return addr
}

// Accrue adds interest to a reserve.
func (e *TestEnv) Accrue(reserve types.Address, interest uint64) {
	e.t.Helper()
	if err := e.market.Accrue(reserve, interest); err != nil {
		e.t.Fatalf("Failed to accrue interest: %v", err)
	}
}

// Allocate adds or updates a reserve allocation as the vault admin.
func (e *TestEnv) Allocate(reserve types.Address, weight, allocationCap uint64) {
	e.t.Helper()
	_, err := e.svc.UpsertAllocation(e.ctx, e.admin.Address, vault.AllocationParams{
		Reserve: reserve,
		Weight:  weight,
		Cap:     allocationCap,
	})
	if err != nil {
		e.t.Fatalf("Failed to allocate reserve: %v", err)
	}
}

// Deposit deposits up to amount tokens from acc.
func (e *TestEnv) Deposit(acc *Account, amount uint64) (*vaultstore.JournalEntry, error) {
	return e.svc.Deposit(e.ctx, service.DepositRequest{
		Signer:            acc.Address,
		UserTokenAccount:  acc.TokenAccount(e.mint),
		UserSharesAccount: e.SharesAccount(acc),
		MaxAmount:         amount,
	})
}

// Withdraw redeems shares of acc, disinvesting from reserve if it is not zero.
func (e *TestEnv) Withdraw(acc *Account, shares uint64, reserve types.Address) (*vaultstore.JournalEntry, error) {
	return e.svc.Withdraw(e.ctx, service.WithdrawRequest{
		Signer:            acc.Address,
		UserTokenAccount:  acc.TokenAccount(e.mint),
		UserSharesAccount: e.SharesAccount(acc),
		Shares:            shares,
		Reserve:           reserve,
	})
}

// Invest rebalances reserve with the admin paying any rounding loss.
func (e *TestEnv) Invest(reserve types.Address) (*vaultstore.JournalEntry, error) {
	return e.svc.Invest(e.ctx, service.InvestRequest{
		Signer:            e.admin.Address,
		Reserve:           reserve,
		PayerTokenAccount: e.admin.TokenAccount(e.mint),
	})
}

// WithdrawFees sends pending fees to the admin's token account.
func (e *TestEnv) WithdrawFees(reserve types.Address) (*vaultstore.JournalEntry, error) {
	return e.svc.WithdrawPendingFees(e.ctx, e.admin.Address, e.admin.TokenAccount(e.mint), reserve)
}

// SetConfig updates one vault setting as the vault admin.
func (e *TestEnv) SetConfig(field vault.ConfigField, data []byte) {
	e.t.Helper()
	if _, err := e.svc.UpdateConfig(e.ctx, e.admin.Address, field, data); err != nil {
		e.t.Fatalf("Failed to update %s: %v", field, err)
	}
}

// AdvanceSlots moves the slot forward.
func (e *TestEnv) AdvanceSlots(n uint64) {
	e.clock.AdvanceSlots(n)
}

// AdvanceTime moves wall time forward.
func (e *TestEnv) AdvanceTime(d time.Duration) {
	e.clock.Advance(d)
}

// Journal returns every journal entry of the vault.
func (e *TestEnv) Journal() []vaultstore.JournalEntry {
	e.t.Helper()
	entries, err := e.store.Journal(e.ctx, e.vault, 0, 0)
	if err != nil {
		e.t.Fatalf("Failed to read journal: %v", err)
	}
	return entries
}
