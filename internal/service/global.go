package service

import (
	"context"
	"errors"
	"log"
	"sync"

	sdkerrors "cosmossdk.io/errors"

	"github.com/LeJamon/goYieldVault/internal/core/types"
	"github.com/LeJamon/goYieldVault/internal/core/vault"
	"github.com/LeJamon/goYieldVault/internal/storage/vaultstore"
)

// ErrGlobalConfigExists is returned when the global config was already created.
var ErrGlobalConfigExists = errors.New("global config already initialized")

// GlobalAdmin manages the settings shared by every vault: the global config
// and the reserve whitelist.
type GlobalAdmin struct {
	mu    sync.Mutex
	store Store
}

// NewGlobalAdmin returns a GlobalAdmin backed by store.
func NewGlobalAdmin(store Store) *GlobalAdmin {
	return &GlobalAdmin{store: store}
}

// Init creates the global config with upgradeAuthority as its admin.
func (g *GlobalAdmin) Init(ctx context.Context, upgradeAuthority types.Address) (*vault.GlobalConfig, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, err := g.store.LoadGlobalConfig(ctx)
	switch {
	case err == nil:
		return nil, ErrGlobalConfigExists
	case !errors.Is(err, vaultstore.ErrGlobalConfigNotFound):
		return nil, err
	}

	cfg, err := vault.InitGlobalConfig(upgradeAuthority)
	if err != nil {
		return nil, err
	}
	if err := g.store.SaveGlobalConfig(ctx, cfg); err != nil {
		return nil, err
	}
	log.Printf("[INFO] global config initialized, admin %s", upgradeAuthority.Short())
	return cfg, nil
}

// Config returns the global config.
func (g *GlobalAdmin) Config(ctx context.Context) (*vault.GlobalConfig, error) {
	return g.store.LoadGlobalConfig(ctx)
}

func (g *GlobalAdmin) modify(ctx context.Context, fn func(cfg *vault.GlobalConfig) error) (*vault.GlobalConfig, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	cfg, err := g.store.LoadGlobalConfig(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(cfg); err != nil {
		return nil, err
	}
	if err := g.store.SaveGlobalConfig(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Update changes one global setting.
func (g *GlobalAdmin) Update(ctx context.Context, signer types.Address, mode vault.GlobalConfigMode, data []byte) (*vault.GlobalConfig, error) {
	return g.modify(ctx, func(cfg *vault.GlobalConfig) error {
		return cfg.Update(signer, mode, data)
	})
}

// AcceptAdmin hands the global admin role to the pending admin.
func (g *GlobalAdmin) AcceptAdmin(ctx context.Context, signer types.Address) (*vault.GlobalConfig, error) {
	return g.modify(ctx, func(cfg *vault.GlobalConfig) error {
		return cfg.ApplyPendingAdmin(signer)
	})
}

// UpdateWhitelist sets one approval of a reserve, creating its entry on
// first use.
func (g *GlobalAdmin) UpdateWhitelist(ctx context.Context, signer, tokenMint, reserve types.Address, mode vault.WhitelistMode, value uint8) (*vault.ReserveWhitelistEntry, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	cfg, err := g.store.LoadGlobalConfig(ctx)
	if err != nil {
		return nil, err
	}
	if !cfg.IsGlobalAdmin(signer) {
		return nil, sdkerrors.Wrapf(vault.ErrAdminAuthorityIncorrect, "%s is not the global admin", signer.Short())
	}

	entry, err := g.store.LoadWhitelistEntry(ctx, reserve)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		entry = vault.NewReserveWhitelistEntry(tokenMint, reserve)
	}
	if err := entry.Update(mode, value); err != nil {
		return nil, err
	}
	if err := g.store.SaveWhitelistEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
