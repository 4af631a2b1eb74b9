package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/LeJamon/goYieldVault/internal/core/types"
	"github.com/LeJamon/goYieldVault/internal/core/vault"
	"github.com/LeJamon/goYieldVault/internal/market"
)

func parseAddress(what, s string) (types.Address, error) {
	a, err := market.ResolveAddress(s)
	if err != nil {
		return a, fmt.Errorf("%s: %w", what, err)
	}
	return a, nil
}

func parseAmount(what, s string) (uint64, error) {
	v, err := strconv.ParseUint(strings.ReplaceAll(s, "_", ""), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid amount %q", what, s)
	}
	return v, nil
}

func parseBoolLike(s string) (uint8, error) {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		return 1, nil
	case "0", "false", "no", "off":
		return 0, nil
	}
	return 0, fmt.Errorf("invalid flag value %q, expected 0 or 1", s)
}

// encodeConfigValue encodes value the way field expects it.
func encodeConfigValue(field vault.ConfigField, value string) ([]byte, error) {
	switch field.Kind() {
	case vault.ValueAddress:
		a, err := parseAddress(field.String(), value)
		if err != nil {
			return nil, err
		}
		return vault.EncodeAddress(a), nil
	case vault.ValueBoolLike:
		v, err := parseBoolLike(value)
		if err != nil {
			return nil, err
		}
		return vault.EncodeBoolLike(v), nil
	case vault.ValueName:
		if len(value) > vault.NameLength {
			return nil, fmt.Errorf("name is longer than %d bytes", vault.NameLength)
		}
		return []byte(value), nil
	default:
		v, err := parseAmount(field.String(), value)
		if err != nil {
			return nil, err
		}
		return vault.EncodeU64(v), nil
	}
}

var globalModes = []vault.GlobalConfigMode{
	vault.GlobalPendingAdmin,
	vault.GlobalMinWithdrawalPenaltyLamports,
	vault.GlobalMinWithdrawalPenaltyBps,
}

func parseGlobalMode(s string) (vault.GlobalConfigMode, error) {
	for _, m := range globalModes {
		if strings.EqualFold(m.String(), s) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown global config mode %q", s)
}

// encodeGlobalValue encodes value for mode: an address for the pending admin,
// a number otherwise.
func encodeGlobalValue(mode vault.GlobalConfigMode, value string) ([]byte, error) {
	if mode == vault.GlobalPendingAdmin {
		a, err := parseAddress(mode.String(), value)
		if err != nil {
			return nil, err
		}
		return vault.EncodeAddress(a), nil
	}
	v, err := parseAmount(mode.String(), value)
	if err != nil {
		return nil, err
	}
	return vault.EncodeU64(v), nil
}
