// Package leveldb stores vault records in goleveldb.
package leveldb

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/LeJamon/goYieldVault/internal/storage/database"
)

var syncWrite = &opt.WriteOptions{Sync: true}

type DB struct {
	db *leveldb.DB
}

func NewDB(db *leveldb.DB) *DB {
	return &DB{db: db}
}

func (l *DB) Read(ctx context.Context, key []byte) ([]byte, error) {
	v, err := l.db.Get(key, nil)
	switch {
	case errors.Is(err, leveldb.ErrNotFound):
		return nil, database.ErrKeyNotFound
	case errors.Is(err, leveldb.ErrClosed):
		return nil, database.ErrDBClosed
	case err != nil:
		return nil, err
	}
	return v, nil
}

func (l *DB) Write(ctx context.Context, key, value []byte) error {
	return mapClosed(l.db.Put(key, value, syncWrite))
}

func (l *DB) Delete(ctx context.Context, key []byte) error {
	return mapClosed(l.db.Delete(key, syncWrite))
}

func (l *DB) Batch(ctx context.Context, ops []database.BatchOperation) error {
	batch := new(leveldb.Batch)
	for _, op := range ops {
		switch op.Type {
		case database.BatchPut:
			batch.Put(op.Key, op.Value)
		case database.BatchDelete:
			batch.Delete(op.Key)
		default:
			return fmt.Errorf("%w: unknown type %d", database.ErrBatchOperationFailed, op.Type)
		}
	}
	return mapClosed(l.db.Write(batch, syncWrite))
}

func (l *DB) Iterator(ctx context.Context, start, end []byte) (database.Iterator, error) {
	return &Iterator{iter: l.db.NewIterator(&util.Range{Start: start, Limit: end}, nil)}, nil
}

func mapClosed(err error) error {
	if errors.Is(err, leveldb.ErrClosed) {
		return database.ErrDBClosed
	}
	return err
}

type Iterator struct {
	iter iterator.Iterator
}

func (it *Iterator) Next() bool { return it.iter.Next() }

func (it *Iterator) Key() []byte { return bytes.Clone(it.iter.Key()) }

func (it *Iterator) Value() []byte { return bytes.Clone(it.iter.Value()) }

func (it *Iterator) Error() error { return it.iter.Error() }

func (it *Iterator) Close() error {
	it.iter.Release()
	return nil
}
