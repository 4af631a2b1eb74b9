package vault

import (
	"cosmossdk.io/errors"

	"github.com/LeJamon/goYieldVault/internal/core/types"
)

// AcceptAdmin makes the pending admin the vault admin.
func (s *State) AcceptAdmin(signer types.Address) error {
	if !s.PendingAdmin.Set {
		return ErrNoPendingAdmin
	}
	if signer != s.PendingAdmin.Address {
		return errors.Wrapf(ErrAdminAuthorityIncorrect, "%s is not the pending admin", signer)
	}
	logger.Printf("vault admin %s -> %s", s.VaultAdmin.Short(), signer.Short())
	s.VaultAdmin = signer
	s.PendingAdmin = PendingAdmin{}
	return nil
}

// AllocationParams describe a reserve slot to add or update.
type AllocationParams struct {
	Reserve         types.Address
	CTokenVault     types.Address
	CTokenVaultBump uint64
	Weight          uint64
	Cap             uint64
}

// UpsertAllocation adds a reserve or changes the weight and cap of an existing
// one. Adding requires the vault admin; updating also accepts the allocation
// admin. entry is the reserve's whitelist entry, nil if it has none.
func (s *State) UpsertAllocation(signer types.Address, p AllocationParams, entry *ReserveWhitelistEntry) error {
	if p.Reserve.IsZero() {
		return errors.Wrap(ErrReserveNotProvidedInTheAccounts, "zero reserve address")
	}

	if s.IsAllocatedToReserve(p.Reserve) {
		if signer != s.VaultAdmin && signer != s.AllocationAdmin {
			return errors.Wrapf(ErrWrongAdminOrAllocationAdmin, "%s", signer)
		}
	} else if signer != s.VaultAdmin {
		return errors.Wrapf(ErrAdminAuthorityIncorrect, "only the vault admin can add reserve %s", p.Reserve)
	}

	if err := s.CheckCanUpdateAllocationWeight(p.Reserve, p.Weight, p.Cap, entry); err != nil {
		return err
	}

	work := *s
	if err := work.upsertReserveAllocation(p.Reserve, p.CTokenVault, p.CTokenVaultBump, p.Weight, p.Cap); err != nil {
		return err
	}
	*s = work
	logger.Printf("allocation %s weight %d cap %d", p.Reserve.Short(), p.Weight, p.Cap)
	return nil
}

// RemoveAllocation frees the slot of a reserve with no weight and no ctokens.
func (s *State) RemoveAllocation(signer types.Address, reserve types.Address) error {
	if signer != s.VaultAdmin {
		return errors.Wrapf(ErrAdminAuthorityIncorrect, "only the vault admin can remove reserve %s", reserve)
	}
	if err := s.removeReserveFromAllocation(reserve); err != nil {
		return err
	}
	logger.Printf("allocation %s removed", reserve.Short())
	return nil
}
