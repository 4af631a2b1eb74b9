package service

import (
	"context"
	"errors"
	"log"

	"github.com/LeJamon/goYieldVault/internal/core/types"
	"github.com/LeJamon/goYieldVault/internal/core/vault"
	"github.com/LeJamon/goYieldVault/internal/storage/vaultstore"
)

// CrankResult is the outcome of investing one reserve.
type CrankResult struct {
	Reserve types.Address
	Entry   *vaultstore.JournalEntry
	Skipped bool
	Err     error
}

// skippable reports invest rejections that are expected while cranking.
func skippable(err error) bool {
	return errors.Is(err, vault.ErrInvestTooSoon) || errors.Is(err, vault.ErrInvestAmountBelowMinimum)
}

// Crank invests every live reserve in allocation table order. Reserves that
// are not due or already on target are skipped. Cranking stops when the vault
// halts; other failures are reported per reserve and joined into the error.
func (s *Service) Crank(ctx context.Context, signer, payerTokenAccount types.Address) ([]CrankResult, error) {
	st, err := s.deps.Store.LoadVault(ctx, s.addr)
	if err != nil {
		return nil, err
	}

	var results []CrankResult
	var errs []error
	for _, r := range st.LiveReserves() {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		entry, err := s.Invest(ctx, InvestRequest{Signer: signer, Reserve: r, PayerTokenAccount: payerTokenAccount})
		res := CrankResult{Reserve: r, Entry: entry, Err: err}
		switch {
		case err == nil:
		case skippable(err):
			res.Skipped = true
			log.Printf("[INFO] crank vault %s: skip reserve %s: %v", s.addr.Short(), r.Short(), err)
		case vault.IsFatal(err):
			results = append(results, res)
			return results, err
		default:
			log.Printf("[WARN] crank vault %s: reserve %s: %v", s.addr.Short(), r.Short(), err)
			errs = append(errs, err)
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}
