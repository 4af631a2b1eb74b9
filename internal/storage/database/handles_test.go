package database_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goYieldVault/internal/storage/database"
)

type fakeHandle struct {
	closed int
	err    error
}

func (f *fakeHandle) Close() error {
	f.closed++
	return f.err
}

func TestHandlesOpenOnce(t *testing.T) {
	var h database.Handles[*fakeHandle]
	opens := 0
	open := func() (*fakeHandle, error) {
		opens++
		return &fakeHandle{}, nil
	}

	a, err := h.Get("vaults", open)
	require.NoError(t, err)
	b, err := h.Get("vaults", open)
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, opens)

	require.NoError(t, h.Release("vaults"))
	assert.Equal(t, 1, a.closed)
	assert.ErrorIs(t, h.Release("vaults"), database.ErrDBNotOpen)

	c, err := h.Get("vaults", open)
	require.NoError(t, err)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, opens)
}

func TestHandlesOpenError(t *testing.T) {
	var h database.Handles[*fakeHandle]
	boom := errors.New("locked")

	_, err := h.Get("vaults", func() (*fakeHandle, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "open database vaults")
	assert.ErrorIs(t, h.Release("vaults"), database.ErrDBNotOpen)
}

func TestHandlesReleaseAll(t *testing.T) {
	var h database.Handles[*fakeHandle]
	boom := errors.New("flush failed")
	good := &fakeHandle{}
	bad := &fakeHandle{err: boom}

	_, err := h.Get("good", func() (*fakeHandle, error) { return good, nil })
	require.NoError(t, err)
	_, err = h.Get("bad", func() (*fakeHandle, error) { return bad, nil })
	require.NoError(t, err)

	err = h.ReleaseAll()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, good.closed)
	assert.Equal(t, 1, bad.closed)
	assert.NoError(t, h.ReleaseAll())
}
