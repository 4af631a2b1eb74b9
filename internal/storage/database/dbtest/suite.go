// Package dbtest is a conformance suite every database backend runs.
package dbtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goYieldVault/internal/storage/database"
)

// Run exercises a backend through the manager. newManager must return a
// fresh manager rooted in its own directory.
func Run(t *testing.T, newManager func(t *testing.T) database.Manager) {
	ctx := context.Background()

	t.Run("ReadWriteDelete", func(t *testing.T) {
		m := newManager(t)
		defer m.Close()
		db, err := m.OpenDB("rw")
		require.NoError(t, err)

		_, err = db.Read(ctx, []byte("missing"))
		require.ErrorIs(t, err, database.ErrKeyNotFound)

		require.NoError(t, db.Write(ctx, []byte("k"), []byte("v1")))
		require.NoError(t, db.Write(ctx, []byte("k"), []byte("v2")))
		got, err := db.Read(ctx, []byte("k"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), got)

		require.NoError(t, db.Delete(ctx, []byte("k")))
		_, err = db.Read(ctx, []byte("k"))
		require.ErrorIs(t, err, database.ErrKeyNotFound)
	})

	t.Run("ReadReturnsCopy", func(t *testing.T) {
		m := newManager(t)
		defer m.Close()
		db, err := m.OpenDB("copy")
		require.NoError(t, err)

		value := []byte("value")
		require.NoError(t, db.Write(ctx, []byte("k"), value))
		value[0] = 'X'

		got, err := db.Read(ctx, []byte("k"))
		require.NoError(t, err)
		got[1] = 'Y'

		again, err := db.Read(ctx, []byte("k"))
		require.NoError(t, err)
		assert.Equal(t, []byte("value"), again)
	})

	t.Run("Batch", func(t *testing.T) {
		m := newManager(t)
		defer m.Close()
		db, err := m.OpenDB("batch")
		require.NoError(t, err)
		require.NoError(t, db.Write(ctx, []byte("gone"), []byte("x")))

		require.NoError(t, db.Batch(ctx, []database.BatchOperation{
			database.Put([]byte("a"), []byte("1")),
			database.Put([]byte("b"), []byte("2")),
			database.Del([]byte("gone")),
		}))

		for k, want := range map[string]string{"a": "1", "b": "2"} {
			got, err := db.Read(ctx, []byte(k))
			require.NoError(t, err)
			assert.Equal(t, want, string(got))
		}
		_, err = db.Read(ctx, []byte("gone"))
		require.ErrorIs(t, err, database.ErrKeyNotFound)
	})

	t.Run("IteratorRange", func(t *testing.T) {
		m := newManager(t)
		defer m.Close()
		db, err := m.OpenDB("iter")
		require.NoError(t, err)

		var ops []database.BatchOperation
		for i := 0; i < 5; i++ {
			ops = append(ops, database.Put([]byte(fmt.Sprintf("journal/%02d", i)), []byte{byte(i)}))
		}
		ops = append(ops, database.Put([]byte("other"), []byte("x")))
		require.NoError(t, db.Batch(ctx, ops))

		it, err := db.Iterator(ctx, []byte("journal/01"), []byte("journal/04"))
		require.NoError(t, err)
		var keys []string
		for it.Next() {
			keys = append(keys, string(it.Key()))
		}
		require.NoError(t, it.Error())
		require.NoError(t, it.Close())
		assert.Equal(t, []string{"journal/01", "journal/02", "journal/03"}, keys)

		prefix := []byte("journal/")
		it, err = db.Iterator(ctx, prefix, database.PrefixEnd(prefix))
		require.NoError(t, err)
		n := 0
		for it.Next() {
			assert.Equal(t, []byte{byte(n)}, it.Value())
			n++
		}
		require.NoError(t, it.Close())
		assert.Equal(t, 5, n)
	})

	t.Run("Persistence", func(t *testing.T) {
		m := newManager(t)
		defer m.Close()
		db, err := m.OpenDB("persist")
		require.NoError(t, err)
		require.NoError(t, db.Write(ctx, []byte("k"), []byte("v")))

		require.NoError(t, m.CloseDB("persist"))
		require.ErrorIs(t, m.CloseDB("persist"), database.ErrDBNotOpen)

		db, err = m.OpenDB("persist")
		require.NoError(t, err)
		_, err = db.Read(ctx, []byte("k"))
		if err != nil {
			require.ErrorIs(t, err, database.ErrKeyNotFound, "volatile backends may drop data")
		}
	})
}
