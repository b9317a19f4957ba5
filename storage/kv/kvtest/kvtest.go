// Package kvtest holds the behaviour every core.KVStore backend must share.
package kvtest

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/skillxp/core"
)

// Run exercises store; it must start empty.
func Run(t *testing.T, store core.KVStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing key", func(t *testing.T) {
		val, err := store.Get(ctx, "missing")
		assert.Nil(t, val)
		assert.Equal(t, core.ErrKeyNotFound, errors.Cause(err))
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "account:a@x.com", []byte(`{"email":"a@x.com"}`)))
		val, err := store.Get(ctx, "account:a@x.com")
		require.NoError(t, err)
		assert.Equal(t, `{"email":"a@x.com"}`, string(val))
	})

	t.Run("set overwrites", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "current-session", []byte("one")))
		require.NoError(t, store.Set(ctx, "current-session", []byte("two")))
		val, err := store.Get(ctx, "current-session")
		require.NoError(t, err)
		assert.Equal(t, "two", string(val))
	})

	t.Run("returned values are copies", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "copy", []byte("abc")))
		val, err := store.Get(ctx, "copy")
		require.NoError(t, err)
		val[0] = 'z'
		val, err = store.Get(ctx, "copy")
		require.NoError(t, err)
		assert.Equal(t, "abc", string(val))
	})

	t.Run("create only once", func(t *testing.T) {
		require.NoError(t, store.Create(ctx, "account:b@x.com", []byte("first")))
		err := store.Create(ctx, "account:b@x.com", []byte("second"))
		assert.Equal(t, core.ErrKeyExists, errors.Cause(err))
		val, err := store.Get(ctx, "account:b@x.com")
		require.NoError(t, err)
		assert.Equal(t, "first", string(val))
	})

	t.Run("create after delete", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "reused", []byte("x")))
		require.NoError(t, store.Delete(ctx, "reused"))
		require.NoError(t, store.Create(ctx, "reused", []byte("y")))
	})

	t.Run("concurrent creates", func(t *testing.T) {
		const n = 8
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			go func() { errs <- store.Create(ctx, "race", []byte("v")) }()
		}
		var created int
		for i := 0; i < n; i++ {
			if err := <-errs; err == nil {
				created++
			} else {
				assert.Equal(t, core.ErrKeyExists, errors.Cause(err))
			}
		}
		assert.Equal(t, 1, created)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "gone", []byte("x")))
		require.NoError(t, store.Delete(ctx, "gone"))
		require.NoError(t, store.Delete(ctx, "gone"))
		_, err := store.Get(ctx, "gone")
		assert.Equal(t, core.ErrKeyNotFound, errors.Cause(err))
	})
}

// RunClosed closes store & checks that every operation then fails with a shutdown error.
func RunClosed(t *testing.T, store core.KVStore) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "before-close", []byte("x")))
	require.NoError(t, store.Close())

	_, err := store.Get(ctx, "before-close")
	assert.True(t, core.IsShutdown(err), "get: %v", err)
	err = store.Set(ctx, "after-close", []byte("x"))
	assert.True(t, core.IsShutdown(err), "set: %v", err)
	err = store.Create(ctx, "after-close", []byte("x"))
	assert.True(t, core.IsShutdown(err), "create: %v", err)
	err = store.Delete(ctx, "before-close")
	assert.True(t, core.IsShutdown(err), "delete: %v", err)
}
