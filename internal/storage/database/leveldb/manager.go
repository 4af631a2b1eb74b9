package leveldb

import (
	"path/filepath"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/LeJamon/goYieldVault/internal/storage/database"
)

// Manager opens each named database as a leveldb directory <name>.ldb.
type Manager struct {
	path    string
	handles database.Handles[*leveldb.DB]
}

func NewManager(path string) *Manager {
	return &Manager{path: path}
}

func (m *Manager) OpenDB(name string) (database.DB, error) {
	db, err := m.handles.Get(name, func() (*leveldb.DB, error) {
		return leveldb.OpenFile(filepath.Join(m.path, name+".ldb"), nil)
	})
	if err != nil {
		return nil, err
	}
	return NewDB(db), nil
}

func (m *Manager) CloseDB(name string) error { return m.handles.Release(name) }

func (m *Manager) Close() error { return m.handles.ReleaseAll() }
