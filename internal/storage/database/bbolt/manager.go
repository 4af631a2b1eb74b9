package bbolt

import (
	"fmt"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/LeJamon/goYieldVault/internal/storage/database"
)

// lockTimeout bounds the wait for another process's file lock.
const lockTimeout = time.Second

// Manager opens each named database as a file <name>.bolt holding a bucket
// of the same name.
type Manager struct {
	path    string
	handles database.Handles[*bbolt.DB]
}

func NewManager(path string) *Manager {
	return &Manager{path: path}
}

func (m *Manager) OpenDB(name string) (database.DB, error) {
	bucket := []byte(name)
	db, err := m.handles.Get(name, func() (*bbolt.DB, error) {
		return openFile(filepath.Join(m.path, name+".bolt"), bucket)
	})
	if err != nil {
		return nil, err
	}
	return NewDB(db, bucket), nil
}

func openFile(path string, bucket []byte) (*bbolt.DB, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: lockTimeout})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
	}
	return db, nil
}

func (m *Manager) CloseDB(name string) error {
	return m.handles.Release(name)
}

func (m *Manager) Close() error {
	return m.handles.ReleaseAll()
}
