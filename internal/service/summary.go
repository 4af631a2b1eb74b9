package service

import (
	"context"

	"github.com/LeJamon/goYieldVault/internal/core/fraction"
	"github.com/LeJamon/goYieldVault/internal/core/reserve"
	"github.com/LeJamon/goYieldVault/internal/core/types"
	"github.com/LeJamon/goYieldVault/internal/core/vault"
)

// Summary is a read-only view of a vault at the current slot. Fees accrued
// since the last operation are not included.
type Summary struct {
	Vault      types.Address
	State      *vault.State
	Snapshots  []reserve.Snapshot
	Holdings   vault.Holdings
	AUM        fraction.Fraction
	SharePrice fraction.Fraction
	Halted     error
}

func aumAt(st *vault.State, snaps []reserve.Snapshot) (fraction.Fraction, error) {
	inv, err := st.AmountsInvested(snaps)
	if err != nil {
		return fraction.Zero, err
	}
	return st.ComputeAUM(inv.Total)
}

// Show values the vault without changing it.
func (s *Service) Show(ctx context.Context) (*Summary, error) {
	st, err := s.deps.Store.LoadVault(ctx, s.addr)
	if err != nil {
		return nil, err
	}
	clock := s.deps.Clock.Now()
	snaps, err := s.snapshots(ctx, st, clock.Slot)
	if err != nil {
		return nil, err
	}
	h, err := st.Holdings(snaps)
	if err != nil {
		return nil, err
	}
	aum, err := st.ComputeAUM(h.Invested.Total)
	if err != nil {
		return nil, err
	}
	return &Summary{
		Vault:      s.addr,
		State:      st,
		Snapshots:  snaps,
		Holdings:   h,
		AUM:        aum,
		SharePrice: st.SharePrice(aum),
		Halted:     s.Halted(),
	}, nil
}
