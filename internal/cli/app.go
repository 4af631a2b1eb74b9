package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/LeJamon/goYieldVault/internal/auth"
	"github.com/LeJamon/goYieldVault/internal/core/types"
	"github.com/LeJamon/goYieldVault/internal/core/vault"
	"github.com/LeJamon/goYieldVault/internal/market"
	"github.com/LeJamon/goYieldVault/internal/service"
	"github.com/LeJamon/goYieldVault/internal/storage"
	"github.com/LeJamon/goYieldVault/internal/storage/database"
	"github.com/LeJamon/goYieldVault/internal/storage/recorder"
	"github.com/LeJamon/goYieldVault/internal/storage/vaultstore"
)

// requestTTL bounds how long a signed request stays valid.
const requestTTL = 5 * time.Minute

// app is one opened vaultd data directory: the record store, the simulated
// market and the history recorder.
type app struct {
	opts       *rootOptions
	vault      types.Address
	dbm        database.Manager
	store      *vaultstore.Store
	market     *market.Market
	marketPath string
	recorder   recorder.Recorder
	clock      service.Clock
}

// openApp opens everything the configuration names.
func openApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg := opts.cfg

	addr, err := market.ResolveAddress(cfg.Vault)
	if err != nil {
		return nil, fmt.Errorf("vault address: %w", err)
	}

	a := &app{opts: opts, vault: addr, clock: service.NewSystemClock()}

	storagePath := cfg.ResolvePath(cfg.Storage.Path)
	if cfg.Storage.Backend != storage.BackendMemory {
		if err := os.MkdirAll(storagePath, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}
	a.dbm, err = storage.NewManager(cfg.Storage.Backend, storagePath)
	if err != nil {
		return nil, err
	}
	db, err := a.dbm.OpenDB("vaults")
	if err != nil {
		a.Close()
		return nil, err
	}
	a.store, err = vaultstore.New(db, vaultstore.Options{
		Compression: cfg.Storage.Compression,
		CacheSize:   cfg.Storage.CacheSize,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	if err := a.loadMarket(); err != nil {
		a.Close()
		return nil, err
	}

	dsn := cfg.Recorder.DSN
	if strings.EqualFold(cfg.Recorder.Driver, recorder.DriverSQLite) {
		dsn = cfg.ResolvePath(dsn)
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			a.Close()
			return nil, fmt.Errorf("create recorder directory: %w", err)
		}
	}
	a.recorder, err = recorder.New(ctx, cfg.Recorder.Driver, dsn)
	if err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

// loadMarket reads the saved market state, falling back to the fixture and
// then to an empty market.
func (a *app) loadMarket() error {
	cfg := a.opts.cfg
	a.marketPath = cfg.ResolvePath(cfg.Market.State)

	var err error
	switch {
	case fileExists(a.marketPath):
		a.market, err = market.Load(a.marketPath)
	case cfg.Market.Fixture != "" && fileExists(cfg.ResolvePath(cfg.Market.Fixture)):
		a.market, err = market.Load(cfg.ResolvePath(cfg.Market.Fixture))
	default:
		a.market = market.New(cfg.Market.StalenessSlots)
	}
	if err != nil {
		return err
	}
	if cfg.Market.StalenessSlots > 0 {
		a.market.SetStalenessSlots(cfg.Market.StalenessSlots)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Close releases the store and recorder.
func (a *app) Close() {
	if a.recorder != nil {
		a.recorder.Close()
	}
	if a.dbm != nil {
		a.dbm.Close()
	}
}

// saveMarket writes the market state after a committed operation.
func (a *app) saveMarket() error {
	if err := os.MkdirAll(filepath.Dir(a.marketPath), 0o755); err != nil {
		return fmt.Errorf("create market directory: %w", err)
	}
	return a.market.Save(a.marketPath)
}

func (a *app) deps() service.Deps {
	return service.Deps{
		Store:    a.store,
		Reserves: a.market,
		Executor: a.market,
		Recorder: a.recorder,
		Clock:    a.clock,
	}
}

func (a *app) service() *service.Service {
	return service.New(a.vault, a.deps())
}

// state loads the committed vault record.
func (a *app) state(ctx context.Context) (*vault.State, error) {
	st, err := a.store.LoadVault(ctx, a.vault)
	if errors.Is(err, vaultstore.ErrVaultNotFound) {
		return nil, fmt.Errorf("vault %s is not initialized: %w", a.vault.Short(), err)
	}
	return st, err
}

// sign signs op with the configured identity and returns the verified signer.
func (a *app) sign(svc *service.Service, op string, args []string) (types.Address, error) {
	id, err := auth.LoadIdentity(a.opts.identityPath())
	if err != nil {
		return types.Address{}, fmt.Errorf("load identity: %w", err)
	}
	sr, err := id.Sign(auth.Request{
		Vault:   a.vault,
		Op:      op,
		Payload: []byte(strings.Join(args, " ")),
		Expires: uint64(time.Now().Add(requestTTL).Unix()),
	})
	if err != nil {
		return types.Address{}, err
	}
	return svc.Authorize(sr, op)
}

// withApp opens the app, runs fn and closes the app again.
func withApp(ctx context.Context, opts *rootOptions, fn func(a *app) error) error {
	a, err := openApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

// commit saves the market after a successful operation and prints its journal entry.
func (a *app) commit(entry *vaultstore.JournalEntry, err error) error {
	if err != nil {
		return err
	}
	if err := a.saveMarket(); err != nil {
		return err
	}
	a.opts.printf("%s\n", entry)
	return nil
}
