package auth

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inmemkv "github.com/trezcool/skillxp/storage/kv/inmem"
)

func TestStore_session(t *testing.T) {
	ctx := context.Background()
	kv := inmemkv.New()
	store := NewStore(kv)

	sess, err := store.ReadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, sess)

	want := Session{ID: "1", Email: "a@x.com", Role: RoleTeacher, FirstName: "Jo", LastName: "Lee"}
	require.NoError(t, store.WriteSession(ctx, want))

	raw, err := kv.Get(ctx, "current-session")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","email":"a@x.com","role":"TEACHER","first_name":"Jo","last_name":"Lee"}`, string(raw))

	sess, err = store.ReadSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, want, *sess)

	require.NoError(t, store.ClearSession(ctx))
	require.NoError(t, store.ClearSession(ctx))
	sess, err = store.ReadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestStore_accounts(t *testing.T) {
	ctx := context.Background()
	store := NewStore(inmemkv.New())

	acc, err := store.ReadAccountByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Nil(t, acc)

	want := Account{ID: "1", Email: "a@x.com", Password: "pw1", Role: RoleParent}
	require.NoError(t, store.WriteAccountByEmail(ctx, want.Email, want))

	acc, err = store.ReadAccountByEmail(ctx, " A@X.com ")
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, want, *acc)
	assert.Equal(t, "account:a@x.com", AccountKey("A@x.com"))
}

func TestStore_createAccount(t *testing.T) {
	ctx := context.Background()
	store := NewStore(inmemkv.New())

	first := Account{ID: "1", Email: "a@x.com", Role: RoleTeacher}
	require.NoError(t, store.CreateAccountByEmail(ctx, first.Email, first))

	err := store.CreateAccountByEmail(ctx, "A@x.com", Account{ID: "2", Email: "a@x.com"})
	assert.Equal(t, ErrDuplicateAccount, err)

	acc, err := store.ReadAccountByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, first, *acc)
}

func TestStore_deviceSlots(t *testing.T) {
	ctx := context.Background()
	kv := inmemkv.New()
	phone, laptop := NewDeviceStore(kv, "phone"), NewDeviceStore(kv, "laptop")
	assert.Equal(t, "device:phone:current-session", phone.SessionKey())

	require.NoError(t, phone.WriteSession(ctx, Session{Email: "a@x.com"}))
	sess, err := laptop.ReadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, sess)

	require.NoError(t, phone.WriteAccountByEmail(ctx, "a@x.com", Account{Email: "a@x.com"}))
	acc, err := laptop.ReadAccountByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.NotNil(t, acc)
}

func TestStore_errors(t *testing.T) {
	ctx := context.Background()

	t.Run("corrupt record", func(t *testing.T) {
		kv := inmemkv.New()
		require.NoError(t, kv.Set(ctx, "current-session", []byte("{not json")))
		_, err := NewStore(kv).ReadSession(ctx)
		assert.Error(t, err)
	})

	t.Run("backend down", func(t *testing.T) {
		store := NewStore(newFlakyKV("get", "set", "delete"))
		_, err := store.ReadSession(ctx)
		assert.Equal(t, errBackendDown, errors.Cause(err))
		assert.Equal(t, errBackendDown, errors.Cause(store.WriteSession(ctx, Session{})))
		assert.Equal(t, errBackendDown, errors.Cause(store.ClearSession(ctx)))
		_, err = store.ReadAccountByEmail(ctx, "a@x.com")
		assert.Equal(t, errBackendDown, errors.Cause(err))
	})
}
