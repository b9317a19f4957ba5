package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/skillxp/core"
)

// State of a Service.
type State uint8

const (
	Authenticating State = iota
	Authenticated
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

type (
	// SignupNotifier is told about every successful signup.
	SignupNotifier interface {
		AccountCreated(ctx context.Context, sess Session) error
	}

	// SignupNotifierFunc adapts a function to SignupNotifier.
	SignupNotifierFunc func(ctx context.Context, sess Session) error

	Options struct {
		// RestoreDelay is waited before reading the stored session on Restore.
		RestoreDelay time.Duration
		Passwords    PasswordMatcher
		Notifiers    []SignupNotifier
	}

	// Service is the only mutator of the session slot. It is safe for concurrent use.
	Service struct {
		store  *Store
		logger core.Logger
		opts   Options

		restoreOnce sync.Once
		restore     *core.Pending

		opMu sync.Mutex // serializes signup, login & logout

		mu      sync.RWMutex
		state   State
		current *Session
		ready   bool
		version uint64 // bumped by every mutation
	}
)

func (f SignupNotifierFunc) AccountCreated(ctx context.Context, sess Session) error { return f(ctx, sess) }

// NewOptions builds Options from the auth configuration.
func NewOptions(conf core.AuthConfig, notifiers ...SignupNotifier) (Options, error) {
	pwds, err := NewPasswordMatcher(conf.PasswordHashing)
	if err != nil {
		return Options{}, err
	}
	return Options{
		RestoreDelay: conf.RestoreDelay,
		Passwords:    pwds,
		Notifiers:    notifiers,
	}, nil
}

func NewService(store *Store, logger core.Logger, opts Options) *Service {
	if opts.Passwords == nil {
		opts.Passwords = PlainMatcher{}
	}
	return &Service{
		store:  store,
		logger: logger,
		opts:   opts,
		state:  Authenticating,
	}
}

// Restore starts restoring the stored session. Later calls return the same Pending.
// A failed restore is logged and leaves the Service Unauthenticated; readiness flips in every case.
func (svc *Service) Restore(ctx context.Context) *core.Pending {
	svc.restoreOnce.Do(func() {
		svc.restore = core.NewPending()
		go svc.runRestore(ctx)
	})
	return svc.restore
}

func (svc *Service) runRestore(ctx context.Context) {
	svc.mu.RLock()
	startVersion := svc.version
	svc.mu.RUnlock()

	var sess *Session
	err := sleep(ctx, svc.opts.RestoreDelay)
	if err == nil {
		sess, err = svc.store.ReadSession(ctx)
	}
	if err != nil {
		err = errors.Wrap(err, "restoring session")
		svc.logger.Error(err.Error(), err)
	}

	svc.mu.Lock()
	// a signup, login or logout that happened meanwhile wins
	if svc.version == startVersion {
		svc.current = sess
		if sess != nil {
			svc.state = Authenticated
		} else {
			svc.state = Unauthenticated
		}
	}
	svc.ready = true
	svc.mu.Unlock()

	svc.restore.Resolve(err)
}

// WaitReady starts the restore if needed and waits for it or for ctx.
func (svc *Service) WaitReady(ctx context.Context) error {
	return svc.Restore(ctx).Wait(ctx)
}

func (svc *Service) Ready() bool {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.ready
}

func (svc *Service) State() State {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.state
}

// Current returns a copy of the current session.
func (svc *Service) Current() (Session, bool) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	if svc.current == nil {
		return Session{}, false
	}
	return *svc.current, true
}

// Check guards a navigation against the current state.
func (svc *Service) Check(req Requirement) Decision {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return Decide(svc.current, svc.ready, req)
}

// Signup creates an account and signs it in. The role defaults to RoleStudent.
func (svc *Service) Signup(ctx context.Context, na NewAccount) (Session, error) {
	na.Clean()
	if err := checkNewAccount(na); err != nil {
		return Session{}, err
	}

	svc.opMu.Lock()
	defer svc.opMu.Unlock()
	svc.begin()

	existing, err := svc.store.ReadAccountByEmail(ctx, na.Email)
	if err != nil {
		svc.fail()
		return Session{}, errors.Wrap(err, "checking account")
	}
	if existing != nil {
		svc.fail()
		svc.logger.Debug(fmt.Sprintf("signup %s: %v", na.Email, ErrDuplicateAccount))
		return Session{}, ErrDuplicateAccount
	}

	pwd, err := svc.opts.Passwords.Hash(na.Password)
	if err != nil {
		svc.fail()
		return Session{}, err
	}
	acc := newAccount(na, pwd)
	// the existence check above is not atomic across Services sharing the store
	if err = svc.store.CreateAccountByEmail(ctx, acc.Email, acc); err != nil {
		svc.fail()
		if err == ErrDuplicateAccount {
			svc.logger.Debug(fmt.Sprintf("signup %s: %v", na.Email, err))
		}
		return Session{}, err
	}
	sess := acc.Session()
	if err = svc.store.WriteSession(ctx, sess); err != nil {
		svc.fail()
		return Session{}, errors.Wrap(err, "signing in")
	}
	svc.succeed(sess)

	svc.notify(ctx, sess)
	return sess, nil
}

// Login signs in the account registered under email.
func (svc *Service) Login(ctx context.Context, email, pwd string) (Session, error) {
	email = core.CleanString(email, true /* lower */)

	svc.opMu.Lock()
	defer svc.opMu.Unlock()
	svc.begin()

	acc, err := svc.store.ReadAccountByEmail(ctx, email)
	if err != nil {
		svc.fail()
		return Session{}, errors.Wrap(err, "finding account")
	}
	if acc == nil {
		svc.fail()
		svc.logger.Debug(fmt.Sprintf("login %s: %v", email, ErrAccountNotFound))
		return Session{}, ErrAccountNotFound
	}
	if !svc.opts.Passwords.Match(acc.Password, pwd) {
		svc.fail()
		svc.logger.Debug(fmt.Sprintf("login %s: %v", email, ErrInvalidCredentials))
		return Session{}, ErrInvalidCredentials
	}

	sess := acc.Session()
	if err = svc.store.WriteSession(ctx, sess); err != nil {
		svc.fail()
		return Session{}, errors.Wrap(err, "signing in")
	}
	svc.succeed(sess)
	return sess, nil
}

// Logout clears the session slot. The Service is Unauthenticated afterwards even if clearing failed.
func (svc *Service) Logout(ctx context.Context) error {
	svc.opMu.Lock()
	defer svc.opMu.Unlock()

	err := svc.store.ClearSession(ctx)

	svc.mu.Lock()
	svc.current = nil
	svc.state = Unauthenticated
	svc.version++
	svc.mu.Unlock()

	return errors.Wrap(err, "logging out")
}

func (svc *Service) begin() {
	svc.mu.Lock()
	svc.state = Authenticating
	svc.mu.Unlock()
}

// fail settles the state after a failed signup or login, which leaves the session untouched.
func (svc *Service) fail() {
	svc.mu.Lock()
	switch {
	case svc.current != nil:
		svc.state = Authenticated
	case svc.ready:
		svc.state = Unauthenticated
	default:
		svc.state = Authenticating
	}
	svc.mu.Unlock()
}

func (svc *Service) succeed(sess Session) {
	svc.mu.Lock()
	svc.current = &sess
	svc.state = Authenticated
	svc.version++
	svc.mu.Unlock()
}

func (svc *Service) notify(ctx context.Context, sess Session) {
	for _, n := range svc.opts.Notifiers {
		if err := n.AccountCreated(ctx, sess); err != nil {
			err = errors.Wrap(err, "notifying signup")
			svc.logger.Warn(err.Error(), err, sess)
		}
	}
}

func checkNewAccount(na NewAccount) error {
	var flds []core.FieldError
	if na.Email == "" {
		flds = append(flds, core.FieldError{Field: "email", Error: "this field is required"})
	}
	if !(na.Role == RoleUnspecified || na.Role.IsValid()) {
		flds = append(flds, core.FieldError{Field: "role", Error: "invalid role"})
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
