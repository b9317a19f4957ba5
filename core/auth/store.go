package auth

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/trezcool/skillxp/core"
)

const (
	sessionKey    = "current-session"
	accountPrefix = "account:"
	devicePrefix  = "device:"
)

// Store reads & writes the current-session slot and the per-email account records.
// Absent records are reported as nil, never as errors.
type Store struct {
	kv         core.KVStore
	sessionKey string
}

// NewStore returns a Store using the single `current-session` slot.
func NewStore(kv core.KVStore) *Store {
	return &Store{kv: kv, sessionKey: sessionKey}
}

// NewDeviceStore returns a Store whose session slot belongs to one device.
// Accounts are shared by all devices.
func NewDeviceStore(kv core.KVStore, deviceID string) *Store {
	return &Store{kv: kv, sessionKey: devicePrefix + deviceID + ":" + sessionKey}
}

func AccountKey(email string) string {
	return accountPrefix + core.CleanString(email, true /* lower */)
}

func (s *Store) SessionKey() string { return s.sessionKey }

func (s *Store) ReadSession(ctx context.Context) (*Session, error) {
	var sess Session
	found, err := s.read(ctx, s.sessionKey, &sess)
	if err != nil || !found {
		return nil, errors.Wrap(err, "reading session")
	}
	return &sess, nil
}

func (s *Store) WriteSession(ctx context.Context, sess Session) error {
	return errors.Wrap(s.write(ctx, s.sessionKey, sess), "writing session")
}

// ClearSession empties the slot. Clearing an empty slot is not an error.
func (s *Store) ClearSession(ctx context.Context) error {
	return errors.Wrap(s.kv.Delete(ctx, s.sessionKey), "clearing session")
}

func (s *Store) ReadAccountByEmail(ctx context.Context, email string) (*Account, error) {
	var acc Account
	found, err := s.read(ctx, AccountKey(email), &acc)
	if err != nil || !found {
		return nil, errors.Wrap(err, "reading account")
	}
	return &acc, nil
}

func (s *Store) WriteAccountByEmail(ctx context.Context, email string, acc Account) error {
	return errors.Wrap(s.write(ctx, AccountKey(email), acc), "writing account")
}

// CreateAccountByEmail stores acc unless an account already exists under email,
// in which case ErrDuplicateAccount is returned.
func (s *Store) CreateAccountByEmail(ctx context.Context, email string, acc Account) error {
	data, err := json.Marshal(acc)
	if err != nil {
		return errors.Wrap(err, "encoding account")
	}
	if err = s.kv.Create(ctx, AccountKey(email), data); err != nil {
		if errors.Cause(err) == core.ErrKeyExists {
			return ErrDuplicateAccount
		}
		return errors.Wrap(err, "creating account")
	}
	return nil
}

func (s *Store) read(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Cause(err) == core.ErrKeyNotFound {
			return false, nil
		}
		return false, err
	}
	if err = json.Unmarshal(data, dest); err != nil {
		return false, errors.Wrapf(err, "decoding %q", key)
	}
	return true, nil
}

func (s *Store) write(ctx context.Context, key string, val interface{}) error {
	data, err := json.Marshal(val)
	if err != nil {
		return errors.Wrapf(err, "encoding %q", key)
	}
	return s.kv.Set(ctx, key, data)
}
