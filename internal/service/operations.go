package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/LeJamon/goYieldVault/internal/core/types"
	"github.com/LeJamon/goYieldVault/internal/core/vault"
	"github.com/LeJamon/goYieldVault/internal/market"
	"github.com/LeJamon/goYieldVault/internal/storage/vaultstore"
)

// DepositRequest buys shares with up to MaxAmount tokens.
type DepositRequest struct {
	Signer            types.Address
	UserTokenAccount  types.Address
	UserSharesAccount types.Address
	MaxAmount         uint64
}

// Deposit takes tokens from the user, mints shares to them and verifies both
// movements.
func (s *Service) Deposit(ctx context.Context, req DepositRequest) (*vaultstore.JournalEntry, error) {
	return s.run(ctx, vaultstore.OpDeposit, func(ctx context.Context, t *txn) error {
		snaps, err := t.snapshots(ctx)
		if err != nil {
			return err
		}
		acc := accounts{userToken: req.UserTokenAccount, userShares: req.UserSharesAccount}
		before, err := t.observe(ctx, acc)
		if err != nil {
			return err
		}

		sharesBefore := t.state.SharesIssued
		e, err := t.state.Deposit(snaps, t.clock, req.MaxAmount)
		if err != nil {
			return err
		}
		if err := t.execute(ctx,
			market.Transfer(req.UserTokenAccount, t.state.TokenVault, e.TotalFromUser()),
			market.Mint(t.state.SharesMint, req.UserSharesAccount, e.SharesToMint),
		); err != nil {
			return err
		}

		after, err := t.observe(ctx, acc)
		if err != nil {
			return err
		}
		if err := t.check(vault.CheckDeposit(sharesBefore, t.state.SharesIssued, before, after, e)); err != nil {
			return err
		}

		t.entry.Signer = req.Signer
		t.entry.Amount = e.TokenToDeposit
		t.entry.Deposit = &e
		return nil
	})
}

// WithdrawRequest redeems Shares. A zero Reserve draws on idle liquidity only.
type WithdrawRequest struct {
	Signer            types.Address
	UserTokenAccount  types.Address
	UserSharesAccount types.Address
	Shares            uint64
	Reserve           types.Address
}

// Withdraw burns the user's shares and sends them their value, disinvesting
// from req.Reserve when idle liquidity does not cover it. Shares are clamped
// to the user's balance.
func (s *Service) Withdraw(ctx context.Context, req WithdrawRequest) (*vaultstore.JournalEntry, error) {
	return s.run(ctx, vaultstore.OpWithdraw, func(ctx context.Context, t *txn) error {
		snaps, err := t.snapshots(ctx)
		if err != nil {
			return err
		}

		acc := accounts{userToken: req.UserTokenAccount, userShares: req.UserSharesAccount}
		if !req.Reserve.IsZero() {
			alloc, err := t.state.AllocationFor(req.Reserve)
			if err != nil {
				return err
			}
			acc.reserve = req.Reserve
			acc.ctokenVault = alloc.CTokenVault
		}
		before, err := t.observe(ctx, acc)
		if err != nil {
			return err
		}

		shares := min(req.Shares, before.UserShares)
		var e vault.WithdrawEffects
		if req.Reserve.IsZero() {
			e, err = t.state.WithdrawFromAvailable(snaps, t.clock, shares)
		} else {
			e, err = t.state.Withdraw(snaps, t.clock, req.Reserve, shares)
		}
		if err != nil {
			return err
		}

		moves := []market.Movement{
			market.Transfer(t.state.TokenVault, req.UserTokenAccount, e.AvailableToSendToUser),
			market.Burn(t.state.SharesMint, req.UserSharesAccount, e.SharesToBurn),
		}
		if !req.Reserve.IsZero() {
			moves = append(moves,
				market.RedeemCollateral(req.Reserve, acc.ctokenVault, t.state.TokenVault, e.InvestedToDisinvestCTokens),
				market.Transfer(t.state.TokenVault, req.UserTokenAccount, e.InvestedLiquidityToSendToUser),
			)
		}
		if err := t.execute(ctx, moves...); err != nil {
			return err
		}

		after, err := t.observe(ctx, acc)
		if err != nil {
			return err
		}
		if err := t.check(vault.CheckWithdraw(before, after, e)); err != nil {
			return err
		}

		t.entry.Signer = req.Signer
		t.entry.Reserve = req.Reserve
		t.entry.Amount = e.TotalToUser()
		t.entry.Withdraw = &e
		return nil
	})
}

// WithdrawPendingFees sends the accrued fees to the vault admin's token
// account, disinvesting from reserve when idle liquidity does not cover them.
func (s *Service) WithdrawPendingFees(ctx context.Context, signer, adminTokenAccount, reserve types.Address) (*vaultstore.JournalEntry, error) {
	return s.run(ctx, vaultstore.OpWithdrawPendingFees, func(ctx context.Context, t *txn) error {
		if err := s.authorizeAdmin(t.state, signer); err != nil {
			return err
		}
		snaps, err := t.snapshots(ctx)
		if err != nil {
			return err
		}

		acc := accounts{userToken: adminTokenAccount}
		if !reserve.IsZero() {
			alloc, err := t.state.AllocationFor(reserve)
			if err != nil {
				return err
			}
			acc.reserve = reserve
			acc.ctokenVault = alloc.CTokenVault
		}
		before, err := t.observe(ctx, acc)
		if err != nil {
			return err
		}

		e, err := t.state.WithdrawPendingFees(snaps, t.clock, reserve)
		if err != nil {
			return err
		}
		moves := []market.Movement{
			market.Transfer(t.state.TokenVault, adminTokenAccount, e.AvailableToSendToUser),
		}
		if !reserve.IsZero() {
			moves = append(moves,
				market.RedeemCollateral(reserve, acc.ctokenVault, t.state.TokenVault, e.InvestedToDisinvestCTokens),
				market.Transfer(t.state.TokenVault, adminTokenAccount, e.InvestedLiquidityToSendToUser),
			)
		}
		if err := t.execute(ctx, moves...); err != nil {
			return err
		}

		after, err := t.observe(ctx, acc)
		if err != nil {
			return err
		}
		if err := t.check(vault.CheckWithdrawPendingFees(before, after, e)); err != nil {
			return err
		}

		t.entry.Signer = signer
		t.entry.Reserve = reserve
		t.entry.Amount = e.TotalToAdmin()
		t.entry.Fees = &e
		return nil
	})
}

// GiveUpPendingFees forgives up to maxAmount of the pending fees.
func (s *Service) GiveUpPendingFees(ctx context.Context, signer types.Address, maxAmount uint64) (*vaultstore.JournalEntry, error) {
	return s.run(ctx, vaultstore.OpGiveUpPendingFees, func(ctx context.Context, t *txn) error {
		if err := s.authorizeAdmin(t.state, signer); err != nil {
			return err
		}
		snaps, err := t.snapshots(ctx)
		if err != nil {
			return err
		}
		pending := t.state.PendingFees
		if err := t.state.GiveUpPendingFee(snaps, t.clock, maxAmount); err != nil {
			return err
		}
		t.entry.Signer = signer
		t.entry.Amount = maxAmount
		t.entry.Detail = fmt.Sprintf("pending=%s->%s", pending, t.state.PendingFees)
		return nil
	})
}

// InvestRequest rebalances one reserve toward its target. PayerTokenAccount
// covers a rounding loss the crank funds cannot.
type InvestRequest struct {
	Signer            types.Address
	Reserve           types.Address
	PayerTokenAccount types.Address
}

// Invest moves liquidity between the vault and req.Reserve and verifies the
// balances and that the AUM did not decrease.
func (s *Service) Invest(ctx context.Context, req InvestRequest) (*vaultstore.JournalEntry, error) {
	return s.run(ctx, vaultstore.OpInvest, func(ctx context.Context, t *txn) error {
		return t.invest(ctx, req)
	})
}

func (t *txn) invest(ctx context.Context, req InvestRequest) error {
	s := t.svc
	snaps, err := t.snapshots(ctx)
	if err != nil {
		return err
	}
	alloc, err := t.state.AllocationFor(req.Reserve)
	if err != nil {
		return err
	}
	acc := accounts{reserve: req.Reserve, ctokenVault: alloc.CTokenVault}
	ctokenVault := alloc.CTokenVault

	before, err := t.observe(ctx, acc)
	if err != nil {
		return err
	}

	e, err := t.state.Invest(snaps, t.clock, req.Reserve)
	if err != nil {
		return err
	}
	entry, err := s.deps.Store.LoadWhitelistEntry(ctx, req.Reserve)
	if err != nil {
		return err
	}
	if err := t.state.CheckCanInvest(req.Reserve, e.Direction, entry); err != nil {
		return err
	}

	aumBefore, err := aumAt(t.state, snaps)
	if err != nil {
		return err
	}

	var moves []market.Movement
	switch e.Direction {
	case vault.InvestAdd:
		moves = append(moves, market.DepositLiquidity(req.Reserve, t.state.TokenVault, ctokenVault, e.LiquidityAmount))
	case vault.InvestSubtract:
		moves = append(moves, market.RedeemCollateral(req.Reserve, ctokenVault, t.state.TokenVault, e.CollateralAmount))
	}
	moves = append(moves, market.Transfer(req.PayerTokenAccount, t.state.TokenVault, e.RoundingLoss))
	if err := t.execute(ctx, moves...); err != nil {
		return err
	}

	after, err := t.observe(ctx, acc)
	if err != nil {
		return err
	}
	fresh, err := t.snapshots(ctx)
	if err != nil {
		return err
	}
	aumAfter, err := aumAt(t.state, fresh)
	if err != nil {
		return err
	}
	if err := t.check(vault.CheckInvest(before.Balances, after.Balances, e, aumBefore, aumAfter)); err != nil {
		return err
	}

	t.entry.Signer = req.Signer
	t.entry.Reserve = req.Reserve
	t.entry.Amount = e.LiquidityAmount
	t.entry.Detail = e.Direction.String()
	t.entry.Invest = &e
	return nil
}

// UpsertAllocation adds a reserve to the allocation table or changes its
// weight and cap. A zero CTokenVault is derived from the vault and reserve.
func (s *Service) UpsertAllocation(ctx context.Context, signer types.Address, p vault.AllocationParams) (*vaultstore.JournalEntry, error) {
	return s.run(ctx, vaultstore.OpUpsertAllocation, func(ctx context.Context, t *txn) error {
		if p.CTokenVault.IsZero() {
			if alloc, err := t.state.AllocationFor(p.Reserve); err == nil {
				p.CTokenVault = alloc.CTokenVault
			} else {
				p.CTokenVault = CTokenVaultAddress(s.addr, p.Reserve)
			}
		}
		entry, err := s.deps.Store.LoadWhitelistEntry(ctx, p.Reserve)
		if err != nil {
			return err
		}
		if err := t.state.UpsertAllocation(signer, p, entry); err != nil {
			return err
		}
		t.entry.Signer = signer
		t.entry.Reserve = p.Reserve
		t.entry.Detail = fmt.Sprintf("weight=%d cap=%d", p.Weight, p.Cap)
		return nil
	})
}

// RemoveAllocation frees the slot of a drained reserve.
func (s *Service) RemoveAllocation(ctx context.Context, signer, reserve types.Address) (*vaultstore.JournalEntry, error) {
	return s.run(ctx, vaultstore.OpRemoveAllocation, func(ctx context.Context, t *txn) error {
		if err := t.state.RemoveAllocation(signer, reserve); err != nil {
			return err
		}
		t.entry.Signer = signer
		t.entry.Reserve = reserve
		return nil
	})
}

// UpdateConfig changes one vault setting. The global config decides whether
// signer may lower a whitelist flag.
func (s *Service) UpdateConfig(ctx context.Context, signer types.Address, field vault.ConfigField, data []byte) (*vaultstore.JournalEntry, error) {
	return s.run(ctx, vaultstore.OpUpdateConfig, func(ctx context.Context, t *txn) error {
		global, err := s.deps.Store.LoadGlobalConfig(ctx)
		if err != nil && !errors.Is(err, vaultstore.ErrGlobalConfigNotFound) {
			return err
		}
		if err := vault.CheckSignerAllowedToUpdateConfig(field, data, global.IsGlobalAdmin(signer), signer == t.state.VaultAdmin); err != nil {
			return err
		}
		snaps, err := t.snapshots(ctx)
		if err != nil {
			return err
		}
		if err := t.state.UpdateConfig(snaps, t.clock, field, data); err != nil {
			return err
		}
		t.entry.Signer = signer
		t.entry.Detail = field.String()
		return nil
	})
}

// AcceptAdmin makes the pending admin, who must be signer, the vault admin.
func (s *Service) AcceptAdmin(ctx context.Context, signer types.Address) (*vaultstore.JournalEntry, error) {
	return s.run(ctx, vaultstore.OpAcceptAdmin, func(ctx context.Context, t *txn) error {
		if err := t.state.AcceptAdmin(signer); err != nil {
			return err
		}
		t.entry.Signer = signer
		return nil
	})
}
