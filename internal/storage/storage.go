// Package storage opens the key-value backend selected by configuration.
package storage

import (
	"fmt"

	"github.com/LeJamon/goYieldVault/internal/storage/database"
	"github.com/LeJamon/goYieldVault/internal/storage/database/bbolt"
	"github.com/LeJamon/goYieldVault/internal/storage/database/leveldb"
	"github.com/LeJamon/goYieldVault/internal/storage/database/memory"
	"github.com/LeJamon/goYieldVault/internal/storage/database/pebble"
)

// Backend names accepted by NewManager.
const (
	BackendPebble  = "pebble"
	BackendLevelDB = "leveldb"
	BackendBbolt   = "bbolt"
	BackendMemory  = "memory"
)

// Backends lists every supported backend name.
var Backends = []string{BackendPebble, BackendLevelDB, BackendBbolt, BackendMemory}

// NewManager returns a database manager for backend rooted at path.
// The memory backend ignores path.
func NewManager(backend, path string) (database.Manager, error) {
	switch backend {
	case BackendPebble:
		return pebble.NewManager(path), nil
	case BackendLevelDB:
		return leveldb.NewManager(path), nil
	case BackendBbolt:
		return bbolt.NewManager(path), nil
	case BackendMemory:
		return memory.NewManager(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
