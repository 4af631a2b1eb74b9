package service

import (
	"context"
	"errors"
	"fmt"

	sdkerrors "cosmossdk.io/errors"

	"github.com/LeJamon/goYieldVault/internal/core/types"
	"github.com/LeJamon/goYieldVault/internal/core/vault"
	"github.com/LeJamon/goYieldVault/internal/market"
	"github.com/LeJamon/goYieldVault/internal/storage/vaultstore"
)

// TokenVaultAddress is the account holding a vault's idle liquidity.
func TokenVaultAddress(v types.Address) types.Address {
	return market.DeriveAddress("token_vault", v[:])
}

// BaseVaultAuthorityAddress owns the vault's token and ctoken accounts.
func BaseVaultAuthorityAddress(v types.Address) types.Address {
	return market.DeriveAddress("authority", v[:])
}

// SharesMintAddress is the mint of a vault's shares.
func SharesMintAddress(v types.Address) types.Address {
	return market.DeriveAddress("shares", v[:])
}

// CTokenVaultAddress holds the vault's collateral in reserve.
func CTokenVaultAddress(v, reserve types.Address) types.Address {
	return market.DeriveAddress("ctoken_vault", v[:], reserve[:])
}

// InitRequest creates a vault. The admin pays the seed deposit from
// AdminTokenAccount.
type InitRequest struct {
	Admin              types.Address
	AdminTokenAccount  types.Address
	TokenMint          types.Address
	TokenMintDecimals  uint8
	TokenProgram       types.Address
	SharesMintDecimals uint8
}

// Initialize creates the vault at addr, performs the seed deposit and
// returns a Service for it.
func Initialize(ctx context.Context, addr types.Address, req InitRequest, deps Deps) (*Service, *vaultstore.JournalEntry, error) {
	svc := New(addr, deps)

	load := func(ctx context.Context) (*vault.State, error) {
		_, err := svc.deps.Store.LoadVault(ctx, addr)
		switch {
		case err == nil:
			return nil, fmt.Errorf("%w: %s", ErrVaultExists, addr)
		case errors.Is(err, vaultstore.ErrVaultNotFound):
			return nil, nil
		default:
			return nil, err
		}
	}

	entry, err := svc.runWith(ctx, vaultstore.OpInit, load, func(ctx context.Context, t *txn) error {
		st, e, err := vault.Initialize(vault.InitParams{
			VaultAdmin:         req.Admin,
			BaseVaultAuthority: BaseVaultAuthorityAddress(addr),
			TokenMint:          req.TokenMint,
			TokenMintDecimals:  req.TokenMintDecimals,
			TokenVault:         TokenVaultAddress(addr),
			TokenProgram:       req.TokenProgram,
			SharesMint:         SharesMintAddress(addr),
			SharesMintDecimals: req.SharesMintDecimals,
		}, t.clock)
		if err != nil {
			return err
		}
		t.state = st

		acc := accounts{userToken: req.AdminTokenAccount}
		before, err := t.observe(ctx, acc)
		if err != nil {
			return err
		}
		if err := t.execute(ctx, market.Transfer(req.AdminTokenAccount, st.TokenVault, e.TotalFromUser())); err != nil {
			return err
		}
		after, err := t.observe(ctx, acc)
		if err != nil {
			return err
		}
		if err := t.check(checkSeedDeposit(before, after, e)); err != nil {
			return err
		}

		t.entry.Signer = req.Admin
		t.entry.Amount = e.TokenToDeposit
		t.entry.Deposit = &e
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return svc, entry, nil
}

// checkSeedDeposit verifies the admin paid the seed deposit into the token
// vault. The seed shares are not minted, so CheckDeposit does not apply.
func checkSeedDeposit(before, after vault.UserBalances, e vault.DepositEffects) error {
	paid := before.UserToken - after.UserToken
	received := after.VaultToken - before.VaultToken
	if before.UserToken < after.UserToken || paid != e.TotalFromUser() || received != paid {
		return sdkerrors.Wrapf(vault.ErrTokensDepositedAmountDoesNotMatch,
			"admin paid %d vault received %d expected %d", paid, received, e.TotalFromUser())
	}
	return nil
}
