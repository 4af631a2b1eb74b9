package vaultstore

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/LeJamon/goYieldVault/internal/core/fraction"
	"github.com/LeJamon/goYieldVault/internal/core/types"
	"github.com/LeJamon/goYieldVault/internal/core/vault"
)

const (
	recordMagic   = "KVLT"
	recordVersion = 1

	// RecordSize is the encoded size of every vault record.
	RecordSize = 12288

	// Reserved bytes per allocation slot, after its configuration and after
	// its state, so fields can be added without moving later slots.
	slotConfigPadding = 128
	slotStatePadding  = 128

	globalConfigSize   = 2*types.AddressLength + 16
	whitelistEntrySize = 2*types.AddressLength + 2
)

var (
	// ErrBadRecord is returned for bytes that are not a vault record.
	ErrBadRecord = errors.New("malformed vault record")

	// ErrRecordTooLarge is returned when the layout exceeds RecordSize.
	ErrRecordTooLarge = errors.New("vault record exceeds fixed size")
)

type writer struct {
	buf []byte
	err error
}

func (w *writer) u8(v uint8)   { w.buf = append(w.buf, v) }
func (w *writer) u64(v uint64) { w.buf = binary.LittleEndian.AppendUint64(w.buf, v) }
func (w *writer) addr(a types.Address) {
	w.buf = append(w.buf, a[:]...)
}
func (w *writer) raw(b []byte) { w.buf = append(w.buf, b...) }
func (w *writer) pad(n int)    { w.buf = append(w.buf, make([]byte, n)...) }

func (w *writer) frac(f fraction.Fraction) {
	lo, hi, err := f.Bits()
	if err != nil && w.err == nil {
		w.err = fmt.Errorf("%w: %v", vault.ErrMathOverflow, err)
	}
	w.u64(lo)
	w.u64(hi)
}

type reader struct {
	buf []byte
	off int
}

func (r *reader) take(n int) []byte {
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) u8() uint8   { return r.take(1)[0] }
func (r *reader) u64() uint64 { return binary.LittleEndian.Uint64(r.take(8)) }
func (r *reader) skip(n int)  { r.off += n }

func (r *reader) addr() types.Address {
	var a types.Address
	copy(a[:], r.take(types.AddressLength))
	return a
}

func (r *reader) frac() fraction.Fraction {
	lo := r.u64()
	hi := r.u64()
	return fraction.FromBits(lo, hi)
}

// EncodeState lays s out in the fixed little-endian record format.
func EncodeState(s *vault.State) ([]byte, error) {
	w := &writer{buf: make([]byte, 0, RecordSize)}
	w.raw([]byte(recordMagic))
	w.u8(recordVersion)
	w.pad(3)

	w.addr(s.VaultAdmin)
	if s.PendingAdmin.Set {
		w.u8(1)
	} else {
		w.u8(0)
	}
	w.addr(s.PendingAdmin.Address)
	w.addr(s.AllocationAdmin)
	w.addr(s.BaseVaultAuthority)
	w.u64(s.BaseVaultAuthorityBump)
	w.addr(s.TokenMint)
	w.u64(s.TokenMintDecimals)
	w.addr(s.TokenVault)
	w.addr(s.TokenProgram)
	w.addr(s.SharesMint)
	w.u64(s.SharesMintDecimals)

	w.u64(s.TokenAvailable)
	w.u64(s.SharesIssued)
	w.u64(s.AvailableCrankFunds)
	w.u64(s.PerformanceFeeBps)
	w.u64(s.ManagementFeeBps)
	w.u64(s.LastFeeChargeTimestamp)
	w.frac(s.PrevAUM)
	w.frac(s.PendingFees)
	w.frac(s.CumulativeEarnedInterest)
	w.frac(s.CumulativeMgmtFees)
	w.frac(s.CumulativePerfFees)

	for i := range s.Allocations {
		a := &s.Allocations[i]
		w.addr(a.Reserve)
		w.addr(a.CTokenVault)
		w.u64(a.TargetAllocationWeight)
		w.u64(a.TokenAllocationCap)
		w.u64(a.CTokenVaultBump)
		w.pad(slotConfigPadding)
		w.u64(a.CTokenAllocation)
		w.u64(a.LastInvestSlot)
		w.frac(a.TokenTargetAllocation)
		w.pad(slotStatePadding)
	}

	w.u64(s.MinDepositAmount)
	w.u64(s.MinWithdrawAmount)
	w.u64(s.MinInvestAmount)
	w.u64(s.MinInvestDelaySlots)
	w.u64(s.CrankFundFeePerReserve)
	w.u64(s.UnallocatedWeight)
	w.u64(s.UnallocatedTokensCap)
	w.u64(s.WithdrawalPenaltyLamports)
	w.u64(s.WithdrawalPenaltyBps)
	w.u8(s.AllowAllocationsInWhitelistedReservesOnly)
	w.u8(s.AllowInvestInWhitelistedReservesOnly)

	w.raw(s.Name[:])
	w.addr(s.VaultLookupTable)
	w.addr(s.VaultFarm)
	w.addr(s.FirstLossCapitalFarm)
	w.u64(s.CreationTimestamp)

	if w.err != nil {
		return nil, w.err
	}
	if len(w.buf) > RecordSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrRecordTooLarge, len(w.buf))
	}
	w.pad(RecordSize - len(w.buf))
	return w.buf, nil
}

// DecodeState parses a record written by EncodeState.
func DecodeState(b []byte) (*vault.State, error) {
	if len(b) != RecordSize {
		return nil, fmt.Errorf("%w: %d bytes, want %d", ErrBadRecord, len(b), RecordSize)
	}
	if string(b[:4]) != recordMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrBadRecord, b[:4])
	}
	if b[4] != recordVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadRecord, b[4])
	}

	r := &reader{buf: b, off: 8}
	s := &vault.State{}

	s.VaultAdmin = r.addr()
	s.PendingAdmin.Set = r.u8() == 1
	s.PendingAdmin.Address = r.addr()
	s.AllocationAdmin = r.addr()
	s.BaseVaultAuthority = r.addr()
	s.BaseVaultAuthorityBump = r.u64()
	s.TokenMint = r.addr()
	s.TokenMintDecimals = r.u64()
	s.TokenVault = r.addr()
	s.TokenProgram = r.addr()
	s.SharesMint = r.addr()
	s.SharesMintDecimals = r.u64()

	s.TokenAvailable = r.u64()
	s.SharesIssued = r.u64()
	s.AvailableCrankFunds = r.u64()
	s.PerformanceFeeBps = r.u64()
	s.ManagementFeeBps = r.u64()
	s.LastFeeChargeTimestamp = r.u64()
	s.PrevAUM = r.frac()
	s.PendingFees = r.frac()
	s.CumulativeEarnedInterest = r.frac()
	s.CumulativeMgmtFees = r.frac()
	s.CumulativePerfFees = r.frac()

	for i := range s.Allocations {
		a := &s.Allocations[i]
		a.Reserve = r.addr()
		a.CTokenVault = r.addr()
		a.TargetAllocationWeight = r.u64()
		a.TokenAllocationCap = r.u64()
		a.CTokenVaultBump = r.u64()
		r.skip(slotConfigPadding)
		a.CTokenAllocation = r.u64()
		a.LastInvestSlot = r.u64()
		a.TokenTargetAllocation = r.frac()
		r.skip(slotStatePadding)
	}

	s.MinDepositAmount = r.u64()
	s.MinWithdrawAmount = r.u64()
	s.MinInvestAmount = r.u64()
	s.MinInvestDelaySlots = r.u64()
	s.CrankFundFeePerReserve = r.u64()
	s.UnallocatedWeight = r.u64()
	s.UnallocatedTokensCap = r.u64()
	s.WithdrawalPenaltyLamports = r.u64()
	s.WithdrawalPenaltyBps = r.u64()
	s.AllowAllocationsInWhitelistedReservesOnly = r.u8()
	s.AllowInvestInWhitelistedReservesOnly = r.u8()

	copy(s.Name[:], r.take(vault.NameLength))
	s.VaultLookupTable = r.addr()
	s.VaultFarm = r.addr()
	s.FirstLossCapitalFarm = r.addr()
	s.CreationTimestamp = r.u64()

	return s, nil
}

// EncodeGlobalConfig lays g out in its fixed record format.
func EncodeGlobalConfig(g *vault.GlobalConfig) []byte {
	w := &writer{buf: make([]byte, 0, globalConfigSize)}
	w.addr(g.GlobalAdmin)
	w.addr(g.PendingAdmin)
	w.u64(g.MinWithdrawalPenaltyLamports)
	w.u64(g.MinWithdrawalPenaltyBps)
	return w.buf
}

// DecodeGlobalConfig parses a record written by EncodeGlobalConfig.
func DecodeGlobalConfig(b []byte) (*vault.GlobalConfig, error) {
	if len(b) != globalConfigSize {
		return nil, fmt.Errorf("%w: global config is %d bytes", ErrBadRecord, len(b))
	}
	r := &reader{buf: b}
	return &vault.GlobalConfig{
		GlobalAdmin:                  r.addr(),
		PendingAdmin:                 r.addr(),
		MinWithdrawalPenaltyLamports: r.u64(),
		MinWithdrawalPenaltyBps:      r.u64(),
	}, nil
}

// EncodeWhitelistEntry lays e out in its fixed record format.
func EncodeWhitelistEntry(e *vault.ReserveWhitelistEntry) []byte {
	w := &writer{buf: make([]byte, 0, whitelistEntrySize)}
	w.addr(e.TokenMint)
	w.addr(e.Reserve)
	w.u8(e.WhitelistInvest)
	w.u8(e.WhitelistAddAllocation)
	return w.buf
}

// DecodeWhitelistEntry parses a record written by EncodeWhitelistEntry.
func DecodeWhitelistEntry(b []byte) (*vault.ReserveWhitelistEntry, error) {
	if len(b) != whitelistEntrySize {
		return nil, fmt.Errorf("%w: whitelist entry is %d bytes", ErrBadRecord, len(b))
	}
	r := &reader{buf: b}
	return &vault.ReserveWhitelistEntry{
		TokenMint:              r.addr(),
		Reserve:                r.addr(),
		WhitelistInvest:        r.u8(),
		WhitelistAddAllocation: r.u8(),
	}, nil
}
