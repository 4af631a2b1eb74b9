package vault

import (
	"encoding/binary"
	"fmt"
	"strings"

	"cosmossdk.io/errors"

	"github.com/LeJamon/goYieldVault/internal/core/fraction"
	"github.com/LeJamon/goYieldVault/internal/core/reserve"
	"github.com/LeJamon/goYieldVault/internal/core/types"
)

// ConfigField selects the vault setting changed by UpdateConfig.
type ConfigField uint8

const (
	ConfigPerformanceFeeBps ConfigField = iota
	ConfigManagementFeeBps
	ConfigMinDepositAmount
	ConfigMinWithdrawAmount
	ConfigMinInvestAmount
	ConfigMinInvestDelaySlots
	ConfigCrankFundFeePerReserve
	ConfigPendingVaultAdmin
	ConfigName
	ConfigLookupTable
	ConfigFarm
	ConfigAllocationAdmin
	ConfigUnallocatedWeight
	ConfigUnallocatedTokensCap
	ConfigWithdrawalPenaltyLamports
	ConfigWithdrawalPenaltyBps
	ConfigFirstLossCapitalFarm
	ConfigAllowAllocationsInWhitelistedReservesOnly
	ConfigAllowInvestInWhitelistedReservesOnly
)

var configFieldNames = [...]string{
	ConfigPerformanceFeeBps:                         "PerformanceFeeBps",
	ConfigManagementFeeBps:                          "ManagementFeeBps",
	ConfigMinDepositAmount:                          "MinDepositAmount",
	ConfigMinWithdrawAmount:                         "MinWithdrawAmount",
	ConfigMinInvestAmount:                           "MinInvestAmount",
	ConfigMinInvestDelaySlots:                       "MinInvestDelaySlots",
	ConfigCrankFundFeePerReserve:                    "CrankFundFeePerReserve",
	ConfigPendingVaultAdmin:                         "PendingVaultAdmin",
	ConfigName:                                      "Name",
	ConfigLookupTable:                               "LookupTable",
	ConfigFarm:                                      "Farm",
	ConfigAllocationAdmin:                           "AllocationAdmin",
	ConfigUnallocatedWeight:                         "UnallocatedWeight",
	ConfigUnallocatedTokensCap:                      "UnallocatedTokensCap",
	ConfigWithdrawalPenaltyLamports:                 "WithdrawalPenaltyLamports",
	ConfigWithdrawalPenaltyBps:                      "WithdrawalPenaltyBps",
	ConfigFirstLossCapitalFarm:                      "FirstLossCapitalFarm",
	ConfigAllowAllocationsInWhitelistedReservesOnly: "AllowAllocationsInWhitelistedReservesOnly",
	ConfigAllowInvestInWhitelistedReservesOnly:      "AllowInvestInWhitelistedReservesOnly",
}

// String implements fmt.Stringer.
func (f ConfigField) String() string {
	if int(f) < len(configFieldNames) {
		return configFieldNames[f]
	}
	return fmt.Sprintf("ConfigField(%d)", uint8(f))
}

// ParseConfigField looks a field up by name, case-insensitively.
func ParseConfigField(name string) (ConfigField, error) {
	for i, n := range configFieldNames {
		if strings.EqualFold(n, name) {
			return ConfigField(i), nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownConfigField, "%q", name)
}

// ValueKind is the encoding expected for a field's value.
type ValueKind uint8

const (
	ValueU64 ValueKind = iota
	ValueAddress
	ValueBoolLike
	ValueName
)

// Kind returns the value encoding the field expects.
func (f ConfigField) Kind() ValueKind {
	switch f {
	case ConfigPendingVaultAdmin, ConfigLookupTable, ConfigFarm, ConfigAllocationAdmin, ConfigFirstLossCapitalFarm:
		return ValueAddress
	case ConfigAllowAllocationsInWhitelistedReservesOnly, ConfigAllowInvestInWhitelistedReservesOnly:
		return ValueBoolLike
	case ConfigName:
		return ValueName
	default:
		return ValueU64
	}
}

// EncodeU64 encodes a numeric config value, little-endian.
func EncodeU64(v uint64) []byte {
	return binary.LittleEndian.AppendUint64(nil, v)
}

// EncodeAddress encodes an address config value.
func EncodeAddress(a types.Address) []byte {
	return append([]byte(nil), a[:]...)
}

// EncodeBoolLike encodes a 0/1 flag.
func EncodeBoolLike(v uint8) []byte {
	return []byte{v}
}

func decodeU64(data []byte) (uint64, error) {
	if len(data) != 8 {
		return 0, errors.Wrapf(ErrInvalidConfigValue, "expected 8 bytes, got %d", len(data))
	}
	return binary.LittleEndian.Uint64(data), nil
}

func decodeAddress(data []byte) (types.Address, error) {
	a, err := types.AddressFromBytes(data)
	if err != nil {
		return a, errors.Wrap(ErrInvalidConfigValue, err.Error())
	}
	return a, nil
}

func decodeU8(data []byte) (uint8, error) {
	if len(data) != 1 {
		return 0, errors.Wrapf(ErrInvalidConfigValue, "expected 1 byte, got %d", len(data))
	}
	return data[0], nil
}

// CheckSignerAllowedToUpdateConfig enforces who may change a field. The
// whitelist-only flags can be raised by the vault or global admin but only
// lowered by the global admin. Every other field is vault admin only.
func CheckSignerAllowedToUpdateConfig(field ConfigField, data []byte, isGlobalAdmin, isVaultAdmin bool) error {
	switch field.Kind() {
	case ValueBoolLike:
		value, err := decodeU8(data)
		if err != nil {
			return err
		}
		switch value {
		case 0:
			if !isGlobalAdmin {
				return errors.Wrapf(ErrAdminAuthorityIncorrect, "only the global admin can clear %s", field)
			}
		case 1:
			if !isGlobalAdmin && !isVaultAdmin {
				return errors.Wrapf(ErrAdminAuthorityIncorrect, "%s requires an admin", field)
			}
		default:
			return errors.Wrapf(ErrInvalidBoolLikeValue, "%d", value)
		}
	default:
		if !isVaultAdmin {
			return errors.Wrapf(ErrAdminAuthorityIncorrect, "%s requires the vault admin", field)
		}
	}
	return nil
}

// UpdateConfig changes one setting. Fees are charged first so that a new rate
// never applies to time that has already passed.
func (s *State) UpdateConfig(snapshots []reserve.Snapshot, clock Clock, field ConfigField, data []byte) error {
	work := *s
	holdings, err := work.Holdings(snapshots)
	if err != nil {
		return err
	}
	work.ChargeFees(holdings.Invested.Total, clock.UnixTimestamp)

	if err := work.applyConfig(field, data); err != nil {
		return err
	}

	*s = work
	return nil
}

func (s *State) applyConfig(field ConfigField, data []byte) error {
	switch field.Kind() {
	case ValueU64:
		v, err := decodeU64(data)
		if err != nil {
			return err
		}
		return s.applyU64(field, v)

	case ValueAddress:
		a, err := decodeAddress(data)
		if err != nil {
			return err
		}
		switch field {
		case ConfigPendingVaultAdmin:
			logger.Printf("pending admin %v -> %s", s.PendingAdmin, a)
			s.PendingAdmin = PendingAdmin{Set: !a.IsZero(), Address: a}
		case ConfigLookupTable:
			s.VaultLookupTable = a
		case ConfigFarm:
			s.VaultFarm = a
		case ConfigAllocationAdmin:
			logger.Printf("allocation admin %s -> %s", s.AllocationAdmin, a)
			s.AllocationAdmin = a
		case ConfigFirstLossCapitalFarm:
			s.FirstLossCapitalFarm = a
		}

	case ValueBoolLike:
		v, err := decodeU8(data)
		if err != nil {
			return err
		}
		if v > 1 {
			return errors.Wrapf(ErrInvalidBoolLikeValue, "%d", v)
		}
		if field == ConfigAllowAllocationsInWhitelistedReservesOnly {
			s.AllowAllocationsInWhitelistedReservesOnly = v
		} else {
			s.AllowInvestInWhitelistedReservesOnly = v
		}

	case ValueName:
		var name [NameLength]byte
		copy(name[:], data)
		logger.Printf("name %q -> %q", s.DisplayName(), strings.TrimRight(string(name[:]), "\x00"))
		s.Name = name
	}
	return nil
}

func (s *State) applyU64(field ConfigField, v uint64) error {
	switch field {
	case ConfigPerformanceFeeBps:
		if v > fraction.FullBps {
			return errors.Wrapf(ErrBPSValueTooBig, "%d", v)
		}
		s.PerformanceFeeBps = v
	case ConfigManagementFeeBps:
		if v > MaxMgmtFeeBps {
			return errors.Wrapf(ErrManagementFeeGreaterThanMaxAllowed, "%d > %d", v, MaxMgmtFeeBps)
		}
		s.ManagementFeeBps = v
	case ConfigMinDepositAmount:
		s.MinDepositAmount = v
	case ConfigMinWithdrawAmount:
		if v > UpperLimitMinWithdrawAmount {
			return errors.Wrapf(ErrMinWithdrawAmountTooBig, "%d > %d", v, UpperLimitMinWithdrawAmount)
		}
		s.MinWithdrawAmount = v
	case ConfigMinInvestAmount:
		s.MinInvestAmount = v
	case ConfigMinInvestDelaySlots:
		s.MinInvestDelaySlots = v
	case ConfigCrankFundFeePerReserve:
		s.CrankFundFeePerReserve = v
	case ConfigUnallocatedWeight:
		s.UnallocatedWeight = v
	case ConfigUnallocatedTokensCap:
		s.UnallocatedTokensCap = v
	case ConfigWithdrawalPenaltyLamports:
		if v > MaxWithdrawalPenaltyLamports {
			return errors.Wrapf(ErrWithdrawalFeeLamportsGreaterThanMaxAllowed, "%d > %d", v, MaxWithdrawalPenaltyLamports)
		}
		s.WithdrawalPenaltyLamports = v
	case ConfigWithdrawalPenaltyBps:
		if v > MaxWithdrawalPenaltyBps {
			return errors.Wrapf(ErrWithdrawalFeeBPSGreaterThanMaxAllowed, "%d > %d", v, MaxWithdrawalPenaltyBps)
		}
		s.WithdrawalPenaltyBps = v
	default:
		return errors.Wrapf(ErrUnknownConfigField, "%s", field)
	}
	logger.Printf("config %s = %d", field, v)
	return nil
}
