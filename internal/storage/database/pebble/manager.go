package pebble

import (
	"path/filepath"

	"github.com/cockroachdb/pebble"

	"github.com/LeJamon/goYieldVault/internal/storage/database"
)

// Manager opens each named database as a pebble directory <name>.db under
// its root path.
type Manager struct {
	path    string
	handles database.Handles[*pebble.DB]
}

func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// OpenDB implements database.Manager.
func (m *Manager) OpenDB(name string) (database.DB, error) {
	db, err := m.handles.Get(name, func() (*pebble.DB, error) {
		return pebble.Open(filepath.Join(m.path, name+".db"), &pebble.Options{})
	})
	if err != nil {
		return nil, err
	}
	return NewDB(db), nil
}

// CloseDB implements database.Manager.
func (m *Manager) CloseDB(name string) error {
	return m.handles.Release(name)
}

// Close implements database.Manager.
func (m *Manager) Close() error {
	return m.handles.ReleaseAll()
}
