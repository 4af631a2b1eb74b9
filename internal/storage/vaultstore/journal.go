package vaultstore

import (
	"encoding/binary"
	"fmt"

	"github.com/ugorji/go/codec"

	"github.com/LeJamon/goYieldVault/internal/core/types"
	"github.com/LeJamon/goYieldVault/internal/core/vault"
)

// Operation names recorded in the journal.
const (
	OpInit                = "init"
	OpDeposit             = "deposit"
	OpWithdraw            = "withdraw"
	OpInvest              = "invest"
	OpWithdrawPendingFees = "withdraw_pending_fees"
	OpGiveUpPendingFees   = "give_up_pending_fees"
	OpUpsertAllocation    = "upsert_allocation"
	OpRemoveAllocation    = "remove_allocation"
	OpUpdateConfig        = "update_config"
	OpAcceptAdmin         = "accept_admin"
)

// JournalEntry describes one committed operation on a vault.
type JournalEntry struct {
	Seq       uint64        `codec:"seq"`
	Op        string        `codec:"op"`
	Slot      uint64        `codec:"slot"`
	Timestamp uint64        `codec:"ts"`
	Signer    types.Address `codec:"signer"`
	Reserve   types.Address `codec:"reserve"`
	Amount    uint64        `codec:"amount,omitempty"`
	Detail    string        `codec:"detail,omitempty"`

	Deposit  *vault.DepositEffects             `codec:"deposit,omitempty"`
	Withdraw *vault.WithdrawEffects            `codec:"withdraw,omitempty"`
	Fees     *vault.WithdrawPendingFeesEffects `codec:"fees,omitempty"`
	Invest   *vault.InvestEffects              `codec:"invest,omitempty"`

	AUMAfter          string `codec:"aum"`
	SharesIssuedAfter uint64 `codec:"shares"`
}

// String implements fmt.Stringer.
func (e JournalEntry) String() string {
	s := fmt.Sprintf("#%d %s slot=%d ts=%d aum=%s shares=%d", e.Seq, e.Op, e.Slot, e.Timestamp, e.AUMAfter, e.SharesIssuedAfter)
	if !e.Reserve.IsZero() {
		s += " reserve=" + e.Reserve.Short()
	}
	if e.Amount != 0 {
		s += fmt.Sprintf(" amount=%d", e.Amount)
	}
	if e.Detail != "" {
		s += " " + e.Detail
	}
	return s
}

var msgpack = &codec.MsgpackHandle{}

func init() {
	msgpack.WriteExt = true
	msgpack.Canonical = true
}

// EncodeJournalEntry serializes e with msgpack.
func EncodeJournalEntry(e *JournalEntry) ([]byte, error) {
	var out []byte
	if err := codec.NewEncoderBytes(&out, msgpack).Encode(e); err != nil {
		return nil, fmt.Errorf("encode journal entry: %w", err)
	}
	return out, nil
}

// DecodeJournalEntry parses bytes written by EncodeJournalEntry.
func DecodeJournalEntry(b []byte) (*JournalEntry, error) {
	var e JournalEntry
	if err := codec.NewDecoderBytes(b, msgpack).Decode(&e); err != nil {
		return nil, fmt.Errorf("decode journal entry: %w", err)
	}
	return &e, nil
}

func vaultKey(addr types.Address) []byte {
	return append([]byte("vault/"), addr.String()...)
}

func whitelistKey(reserve types.Address) []byte {
	return append([]byte("whitelist/"), reserve.String()...)
}

func seqKey(addr types.Address) []byte {
	return append([]byte("seq/"), addr.String()...)
}

func journalPrefix(addr types.Address) []byte {
	return append(append([]byte("journal/"), addr.String()...), '/')
}

// journalKey orders entries by sequence: the sequence is big-endian so byte
// order matches numeric order.
func journalKey(addr types.Address, seq uint64) []byte {
	return binary.BigEndian.AppendUint64(journalPrefix(addr), seq)
}

var (
	globalKey   = []byte("global")
	vaultPrefix = []byte("vault/")
)
