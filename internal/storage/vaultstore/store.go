// Package vaultstore persists vault records, the global config, reserve
// whitelist entries and the per-vault operation journal on a key-value
// database.
//
// Records use a fixed binary layout (see EncodeState) and are compressed
// before they are written. Decoded records are kept in an LRU cache; callers
// always receive a private copy.
package vaultstore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/LeJamon/goYieldVault/internal/core/types"
	"github.com/LeJamon/goYieldVault/internal/core/vault"
	"github.com/LeJamon/goYieldVault/internal/storage/compression"
	"github.com/LeJamon/goYieldVault/internal/storage/database"
)

const defaultCacheSize = 64

var (
	// ErrVaultNotFound is returned when no record exists for a vault address.
	ErrVaultNotFound = errors.New("vault not found")

	// ErrGlobalConfigNotFound is returned before the global config is initialized.
	ErrGlobalConfigNotFound = errors.New("global config not found")

	// ErrSequenceMismatch is returned when a commit does not carry the next journal sequence.
	ErrSequenceMismatch = errors.New("journal sequence mismatch")
)

// Compression flags stored in the first byte of every vault record value.
var compressionFlags = map[string]byte{
	"none": 0,
	"lz4":  1,
}

// Options configures a Store.
type Options struct {
	// Compression names the compressor records are written with.
	Compression string
	// CacheSize is the number of decoded records kept in memory.
	CacheSize int
}

// DefaultOptions returns lz4 compression and a 64 record cache.
func DefaultOptions() Options {
	return Options{Compression: "lz4", CacheSize: defaultCacheSize}
}

// Store is the persistent home of vault records.
type Store struct {
	db    database.DB
	comp  compression.Compressor
	flag  byte
	cache *lru.Cache[types.Address, *vault.State]
}

// New returns a Store on db.
func New(db database.DB, opts Options) (*Store, error) {
	if opts.Compression == "" {
		opts.Compression = "lz4"
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}

	flag, ok := compressionFlags[opts.Compression]
	if !ok {
		return nil, fmt.Errorf("unsupported record compression %q", opts.Compression)
	}
	comp, err := compression.Get(opts.Compression)
	if err != nil {
		return nil, err
	}
	cache, err := lru.New[types.Address, *vault.State](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create record cache: %w", err)
	}

	return &Store{db: db, comp: comp, flag: flag, cache: cache}, nil
}

func (s *Store) encodeRecord(st *vault.State) ([]byte, error) {
	raw, err := EncodeState(st)
	if err != nil {
		return nil, err
	}
	packed, err := s.comp.Compress(raw)
	if err != nil {
		return nil, fmt.Errorf("compress vault record: %w", err)
	}
	return append([]byte{s.flag}, packed...), nil
}

func decodeRecord(value []byte) (*vault.State, error) {
	if len(value) == 0 {
		return nil, fmt.Errorf("%w: empty value", ErrBadRecord)
	}

	var name string
	for n, f := range compressionFlags {
		if f == value[0] {
			name = n
		}
	}
	if name == "" {
		return nil, fmt.Errorf("%w: unknown compression flag %d", ErrBadRecord, value[0])
	}
	comp, err := compression.Get(name)
	if err != nil {
		return nil, err
	}
	raw, err := comp.Decompress(value[1:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRecord, err)
	}
	return DecodeState(raw)
}

// LoadVault returns a copy of the record stored for addr.
func (s *Store) LoadVault(ctx context.Context, addr types.Address) (*vault.State, error) {
	if st, ok := s.cache.Get(addr); ok {
		return st.Clone(), nil
	}

	value, err := s.db.Read(ctx, vaultKey(addr))
	if errors.Is(err, database.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrVaultNotFound, addr)
	}
	if err != nil {
		return nil, fmt.Errorf("read vault %s: %w", addr, err)
	}

	st, err := decodeRecord(value)
	if err != nil {
		return nil, fmt.Errorf("vault %s: %w", addr, err)
	}
	s.cache.Add(addr, st)
	return st.Clone(), nil
}

// Vaults lists the addresses of every stored vault in key order.
func (s *Store) Vaults(ctx context.Context) ([]types.Address, error) {
	it, err := s.db.Iterator(ctx, vaultPrefix, database.PrefixEnd(vaultPrefix))
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var out []types.Address
	for it.Next() {
		addr, err := types.ParseAddress(string(it.Key()[len(vaultPrefix):]))
		if err != nil {
			return nil, fmt.Errorf("vault key %q: %w", it.Key(), err)
		}
		out = append(out, addr)
	}
	return out, it.Error()
}

// LoadGlobalConfig returns the stored global config.
func (s *Store) LoadGlobalConfig(ctx context.Context) (*vault.GlobalConfig, error) {
	value, err := s.db.Read(ctx, globalKey)
	if errors.Is(err, database.ErrKeyNotFound) {
		return nil, ErrGlobalConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read global config: %w", err)
	}
	return DecodeGlobalConfig(value)
}

// LoadWhitelistEntry returns the whitelist entry for reserve, or nil when the
// reserve was never whitelisted.
func (s *Store) LoadWhitelistEntry(ctx context.Context, reserve types.Address) (*vault.ReserveWhitelistEntry, error) {
	value, err := s.db.Read(ctx, whitelistKey(reserve))
	if errors.Is(err, database.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read whitelist entry %s: %w", reserve, err)
	}
	return DecodeWhitelistEntry(value)
}

// SaveGlobalConfig writes g.
func (s *Store) SaveGlobalConfig(ctx context.Context, g *vault.GlobalConfig) error {
	return s.db.Write(ctx, globalKey, EncodeGlobalConfig(g))
}

// SaveWhitelistEntry writes e under its reserve.
func (s *Store) SaveWhitelistEntry(ctx context.Context, e *vault.ReserveWhitelistEntry) error {
	return s.db.Write(ctx, whitelistKey(e.Reserve), EncodeWhitelistEntry(e))
}

// NextSeq returns the sequence the next journal entry of addr must carry.
func (s *Store) NextSeq(ctx context.Context, addr types.Address) (uint64, error) {
	value, err := s.db.Read(ctx, seqKey(addr))
	if errors.Is(err, database.ErrKeyNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read journal sequence %s: %w", addr, err)
	}
	if len(value) != 8 {
		return 0, fmt.Errorf("%w: journal sequence is %d bytes", ErrBadRecord, len(value))
	}
	return binary.LittleEndian.Uint64(value) + 1, nil
}

// Commit is the set of writes produced by one operation.
type Commit struct {
	Vault types.Address
	State *vault.State
	Entry *JournalEntry
}

// Commit writes the vault record, the journal entry and the sequence counter
// in one batch. The entry's Seq must equal NextSeq.
func (s *Store) Commit(ctx context.Context, c Commit) error {
	next, err := s.NextSeq(ctx, c.Vault)
	if err != nil {
		return err
	}
	if c.Entry.Seq != next {
		return fmt.Errorf("%w: got %d, want %d", ErrSequenceMismatch, c.Entry.Seq, next)
	}

	record, err := s.encodeRecord(c.State)
	if err != nil {
		return fmt.Errorf("encode vault %s: %w", c.Vault, err)
	}
	entry, err := EncodeJournalEntry(c.Entry)
	if err != nil {
		return err
	}

	ops := []database.BatchOperation{
		database.Put(vaultKey(c.Vault), record),
		database.Put(journalKey(c.Vault, c.Entry.Seq), entry),
		database.Put(seqKey(c.Vault), binary.LittleEndian.AppendUint64(nil, c.Entry.Seq)),
	}
	if err := s.db.Batch(ctx, ops); err != nil {
		s.cache.Remove(c.Vault)
		return fmt.Errorf("commit vault %s: %w", c.Vault, err)
	}

	s.cache.Add(c.Vault, c.State.Clone())
	return nil
}

// Journal returns up to limit entries of addr starting at sequence from.
// A limit of zero returns every remaining entry.
func (s *Store) Journal(ctx context.Context, addr types.Address, from uint64, limit int) ([]JournalEntry, error) {
	prefix := journalPrefix(addr)
	it, err := s.db.Iterator(ctx, journalKey(addr, from), database.PrefixEnd(prefix))
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var out []JournalEntry
	for it.Next() {
		e, err := DecodeJournalEntry(it.Value())
		if err != nil {
			return nil, fmt.Errorf("journal key %x: %w", it.Key(), err)
		}
		out = append(out, *e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, it.Error()
}

// Purge drops every cached record.
func (s *Store) Purge() {
	s.cache.Purge()
}
