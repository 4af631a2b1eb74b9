// Package service hosts vaults: it serializes operations on a vault, feeds
// the accounting core fresh reserve snapshots, moves assets according to the
// returned effects, verifies the observed balances and commits the record,
// the journal entry and the history row.
//
// An operation either commits completely or leaves both storage and the
// asset ledger as they were. A failed balance check halts the vault.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	sdkerrors "cosmossdk.io/errors"
	"golang.org/x/sync/errgroup"

	"github.com/LeJamon/goYieldVault/internal/core/reserve"
	"github.com/LeJamon/goYieldVault/internal/core/types"
	"github.com/LeJamon/goYieldVault/internal/core/vault"
	"github.com/LeJamon/goYieldVault/internal/market"
	"github.com/LeJamon/goYieldVault/internal/storage/recorder"
	"github.com/LeJamon/goYieldVault/internal/storage/vaultstore"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks github.com/LeJamon/goYieldVault/internal/service ReserveProvider,Executor,Store,Clock

// ReserveProvider refreshes a reserve for the current slot and reports its
// exchange rate and staleness.
type ReserveProvider interface {
	Refresh(ctx context.Context, reserve types.Address, slot uint64) (reserve.Snapshot, error)
}

// Executor moves assets. Execute applies every movement or none and returns
// a function that reverses them.
type Executor interface {
	Execute(ctx context.Context, moves []market.Movement) (func(), error)
	Balance(ctx context.Context, account types.Address) (uint64, error)
	ReserveLiquidity(ctx context.Context, reserve types.Address) (uint64, error)
}

// Store persists vault records and their journal.
type Store interface {
	LoadVault(ctx context.Context, addr types.Address) (*vault.State, error)
	NextSeq(ctx context.Context, addr types.Address) (uint64, error)
	Commit(ctx context.Context, c vaultstore.Commit) error
	LoadGlobalConfig(ctx context.Context) (*vault.GlobalConfig, error)
	SaveGlobalConfig(ctx context.Context, g *vault.GlobalConfig) error
	LoadWhitelistEntry(ctx context.Context, reserve types.Address) (*vault.ReserveWhitelistEntry, error)
	SaveWhitelistEntry(ctx context.Context, e *vault.ReserveWhitelistEntry) error
}

// Clock reports the slot and time operations execute at.
type Clock interface {
	Now() vault.Clock
}

var (
	// ErrVaultExists is returned when initializing an address that holds a vault.
	ErrVaultExists = errors.New("vault already exists")
)

// Deps are the collaborators of a Service.
type Deps struct {
	Store    Store
	Reserves ReserveProvider
	Executor Executor
	Recorder recorder.Recorder
	Clock    Clock
}

func (d Deps) withDefaults() Deps {
	if d.Recorder == nil {
		d.Recorder = recorder.NewNoopRecorder()
	}
	if d.Clock == nil {
		d.Clock = NewSystemClock()
	}
	return d
}

// Service runs operations against one vault. Its methods are safe for
// concurrent use; operations run one at a time.
type Service struct {
	mu     sync.Mutex
	addr   types.Address
	deps   Deps
	halted error
}

// New returns a Service for the vault stored at addr.
func New(addr types.Address, deps Deps) *Service {
	return &Service{addr: addr, deps: deps.withDefaults()}
}

// Address returns the vault address.
func (s *Service) Address() types.Address {
	return s.addr
}

// Halted returns the balance check failure that halted the vault, if any.
func (s *Service) Halted() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.halted
}

// txn is the working set of one operation.
type txn struct {
	svc     *Service
	state   *vault.State
	clock   vault.Clock
	entry   *vaultstore.JournalEntry
	undo    func()
	checked bool
}

// snapshots refreshes every live reserve of st concurrently and returns the
// snapshots in allocation table order.
func (s *Service) snapshots(ctx context.Context, st *vault.State, slot uint64) ([]reserve.Snapshot, error) {
	live := st.LiveReserves()
	out := make([]reserve.Snapshot, len(live))

	g, gCtx := errgroup.WithContext(ctx)
	for i, addr := range live {
		i, addr := i, addr
		g.Go(func() error {
			snap, err := s.deps.Reserves.Refresh(gCtx, addr, slot)
			if err != nil {
				return fmt.Errorf("refresh reserve %s: %w", addr.Short(), err)
			}
			out[i] = snap
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *txn) snapshots(ctx context.Context) ([]reserve.Snapshot, error) {
	return t.svc.snapshots(ctx, t.state, t.clock.Slot)
}

// accounts names the balances a check compares. Zero addresses read as 0.
type accounts struct {
	reserve     types.Address
	ctokenVault types.Address
	userToken   types.Address
	userShares  types.Address
}

func (t *txn) observe(ctx context.Context, a accounts) (vault.UserBalances, error) {
	var b vault.UserBalances
	exec := t.svc.deps.Executor

	read := func(account types.Address, dst *uint64) error {
		if account.IsZero() {
			return nil
		}
		v, err := exec.Balance(ctx, account)
		if err != nil {
			return fmt.Errorf("balance of %s: %w", account.Short(), err)
		}
		*dst = v
		return nil
	}

	if err := read(t.state.TokenVault, &b.VaultToken); err != nil {
		return b, err
	}
	if err := read(a.ctokenVault, &b.VaultCToken); err != nil {
		return b, err
	}
	if err := read(a.userToken, &b.UserToken); err != nil {
		return b, err
	}
	if err := read(a.userShares, &b.UserShares); err != nil {
		return b, err
	}
	if !a.reserve.IsZero() {
		v, err := exec.ReserveLiquidity(ctx, a.reserve)
		if err != nil {
			return b, fmt.Errorf("liquidity of %s: %w", a.reserve.Short(), err)
		}
		b.ReserveSupplyLiquidity = v
	}
	return b, nil
}

func (t *txn) execute(ctx context.Context, moves ...market.Movement) error {
	undo, err := t.svc.deps.Executor.Execute(ctx, moves)
	if err != nil {
		return fmt.Errorf("execute transfers: %w", err)
	}
	t.undo = undo
	return nil
}

// check runs a balance check. A failure halts the vault.
func (t *txn) check(err error) error {
	t.checked = err != nil
	return err
}

func (s *Service) authorizeAdmin(st *vault.State, signer types.Address) error {
	if signer != st.VaultAdmin {
		return sdkerrors.Wrapf(vault.ErrAdminAuthorityIncorrect, "signer %s is not the vault admin", signer.Short())
	}
	return nil
}

// run loads the record, applies fn and commits the result. fn mutates
// t.state and records what it did in t.entry.
func (s *Service) run(ctx context.Context, op string, fn func(ctx context.Context, t *txn) error) (*vaultstore.JournalEntry, error) {
	return s.runWith(ctx, op, func(ctx context.Context) (*vault.State, error) {
		return s.deps.Store.LoadVault(ctx, s.addr)
	}, fn)
}

func (s *Service) runWith(ctx context.Context, op string, load func(context.Context) (*vault.State, error), fn func(ctx context.Context, t *txn) error) (*vaultstore.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.halted != nil {
		return nil, sdkerrors.Wrapf(vault.ErrVaultHalted, "%v", s.halted)
	}

	st, err := load(ctx)
	if err != nil {
		return nil, err
	}
	clock := s.deps.Clock.Now()
	t := &txn{
		svc:   s,
		state: st,
		clock: clock,
		entry: &vaultstore.JournalEntry{Op: op, Slot: clock.Slot, Timestamp: clock.UnixTimestamp},
	}

	entry, err := s.finish(ctx, t, fn(ctx, t))
	if err != nil {
		if t.undo != nil {
			t.undo()
		}
		if t.checked {
			s.halted = err
			log.Printf("[ERROR] vault %s halted after %s: %v", s.addr.Short(), op, err)
		}
		return nil, err
	}
	return entry, nil
}

func (s *Service) finish(ctx context.Context, t *txn, opErr error) (*vaultstore.JournalEntry, error) {
	if opErr != nil {
		return nil, opErr
	}

	snaps, err := t.snapshots(ctx)
	if err != nil {
		return nil, err
	}
	invested, err := t.state.AmountsInvested(snaps)
	if err != nil {
		return nil, err
	}
	aum, err := t.state.ComputeAUM(invested.Total)
	if err != nil {
		return nil, err
	}

	seq, err := s.deps.Store.NextSeq(ctx, s.addr)
	if err != nil {
		return nil, err
	}
	t.entry.Seq = seq
	t.entry.AUMAfter = aum.String()
	t.entry.SharesIssuedAfter = t.state.SharesIssued

	if err := s.deps.Store.Commit(ctx, vaultstore.Commit{Vault: s.addr, State: t.state, Entry: t.entry}); err != nil {
		return nil, err
	}

	s.record(ctx, t.state, t.entry, aum.String(), t.state.SharePrice(aum).String())
	log.Printf("[INFO] vault %s %s", s.addr.Short(), t.entry)
	return t.entry, nil
}

// record writes the history row. The commit already happened, so a failure
// is logged and not returned.
func (s *Service) record(ctx context.Context, st *vault.State, e *vaultstore.JournalEntry, aum, price string) {
	err := s.deps.Recorder.Record(ctx, &recorder.Snapshot{
		Vault:        s.addr.String(),
		Op:           e.Op,
		Seq:          e.Seq,
		Slot:         e.Slot,
		Timestamp:    e.Timestamp,
		AUM:          aum,
		SharesIssued: st.SharesIssued,
		SharePrice:   price,
		PendingFees:  st.PendingFees.String(),
	})
	if err != nil {
		log.Printf("[WARN] record history for vault %s: %v", s.addr.Short(), err)
	}
}
