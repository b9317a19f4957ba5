package auth

import (
	"crypto/subtle"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// Password hashing schemes
const (
	PasswordPlain  = "plain"
	PasswordBcrypt = "bcrypt"
)

// PasswordMatcher turns a password into its stored form and checks candidates against it.
type PasswordMatcher interface {
	Hash(pwd string) (string, error)
	Match(stored, pwd string) bool
}

// NewPasswordMatcher returns the matcher for scheme; unknown schemes are an error.
func NewPasswordMatcher(scheme string) (PasswordMatcher, error) {
	switch scheme {
	case "", PasswordPlain:
		return PlainMatcher{}, nil
	case PasswordBcrypt:
		return BcryptMatcher{Cost: bcrypt.DefaultCost}, nil
	default:
		return nil, errors.Errorf("unknown password hashing scheme %q", scheme)
	}
}

// PlainMatcher stores passwords as given and compares them for exact equality.
type PlainMatcher struct{}

func (PlainMatcher) Hash(pwd string) (string, error) { return pwd, nil }

func (PlainMatcher) Match(stored, pwd string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(pwd)) == 1
}

type BcryptMatcher struct {
	Cost int
}

func (m BcryptMatcher) Hash(pwd string) (string, error) {
	cost := m.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), cost)
	if err != nil {
		return "", errors.Wrap(err, "hashing password")
	}
	return string(hash), nil
}

func (BcryptMatcher) Match(stored, pwd string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(pwd)) == nil
}
