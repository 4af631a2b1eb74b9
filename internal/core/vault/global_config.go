package vault

import (
	"fmt"

	"cosmossdk.io/errors"

	"github.com/LeJamon/goYieldVault/internal/core/types"
)

// GlobalConfig holds the settings shared by every vault.
type GlobalConfig struct {
	GlobalAdmin                  types.Address
	PendingAdmin                 types.Address
	MinWithdrawalPenaltyLamports uint64
	MinWithdrawalPenaltyBps      uint64
}

// GlobalConfigMode selects the field UpdateGlobalConfig changes.
type GlobalConfigMode uint8

const (
	GlobalPendingAdmin GlobalConfigMode = iota
	GlobalMinWithdrawalPenaltyLamports
	GlobalMinWithdrawalPenaltyBps
)

// String implements fmt.Stringer.
func (m GlobalConfigMode) String() string {
	switch m {
	case GlobalPendingAdmin:
		return "PendingAdmin"
	case GlobalMinWithdrawalPenaltyLamports:
		return "MinWithdrawalPenaltyLamports"
	case GlobalMinWithdrawalPenaltyBps:
		return "MinWithdrawalPenaltyBPS"
	default:
		return fmt.Sprintf("GlobalConfigMode(%d)", uint8(m))
	}
}

// InitGlobalConfig creates the global config. The program's upgrade authority
// becomes both the admin and the pending admin.
func InitGlobalConfig(upgradeAuthority types.Address) (*GlobalConfig, error) {
	if upgradeAuthority.IsZero() {
		return nil, ErrNoUpgradeAuthority
	}
	return &GlobalConfig{GlobalAdmin: upgradeAuthority, PendingAdmin: upgradeAuthority}, nil
}

// IsGlobalAdmin reports whether signer is the global admin. A nil config has
// no admin.
func (g *GlobalConfig) IsGlobalAdmin(signer types.Address) bool {
	return g != nil && !signer.IsZero() && g.GlobalAdmin == signer
}

// Update changes one field. data uses the same encodings as vault config.
func (g *GlobalConfig) Update(signer types.Address, mode GlobalConfigMode, data []byte) error {
	if !g.IsGlobalAdmin(signer) {
		return errors.Wrapf(ErrAdminAuthorityIncorrect, "%s is not the global admin", signer)
	}
	switch mode {
	case GlobalPendingAdmin:
		a, err := decodeAddress(data)
		if err != nil {
			return err
		}
		g.PendingAdmin = a
	case GlobalMinWithdrawalPenaltyLamports:
		v, err := decodeU64(data)
		if err != nil {
			return err
		}
		if v > MaxWithdrawalPenaltyLamports {
			return errors.Wrapf(ErrWithdrawalFeeLamportsGreaterThanMaxAllowed, "%d > %d", v, MaxWithdrawalPenaltyLamports)
		}
		g.MinWithdrawalPenaltyLamports = v
	case GlobalMinWithdrawalPenaltyBps:
		v, err := decodeU64(data)
		if err != nil {
			return err
		}
		if v > MaxWithdrawalPenaltyBps {
			return errors.Wrapf(ErrWithdrawalFeeBPSGreaterThanMaxAllowed, "%d > %d", v, MaxWithdrawalPenaltyBps)
		}
		g.MinWithdrawalPenaltyBps = v
	default:
		return errors.Wrapf(ErrInvalidConfigValue, "global config mode %d", uint8(mode))
	}
	logger.Printf("global config %s updated", mode)
	return nil
}

// ApplyPendingAdmin hands the global admin role to the pending admin, who
// must be the signer.
func (g *GlobalConfig) ApplyPendingAdmin(signer types.Address) error {
	if signer.IsZero() || signer != g.PendingAdmin {
		return errors.Wrapf(ErrAdminAuthorityIncorrect, "%s is not the pending global admin", signer)
	}
	logger.Printf("global admin %s -> %s", g.GlobalAdmin.Short(), signer.Short())
	g.GlobalAdmin = signer
	return nil
}
