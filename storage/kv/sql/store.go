package sqlkv

import (
	"context"
	"database/sql"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/trezcool/skillxp/assets"
	"github.com/trezcool/skillxp/core"
)

// Drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

const (
	getQuery    = `SELECT value FROM kv_entries WHERE entry_key = ?`
	deleteQuery = `DELETE FROM kv_entries WHERE entry_key = ?`
	insertQuery = `INSERT INTO kv_entries (entry_key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT (entry_key) DO NOTHING`
	upsertQuery = `INSERT INTO kv_entries (entry_key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT (entry_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
)

// Store keeps values in the kv_entries table.
type Store struct {
	db     *sqlx.DB
	closed atomic.Bool
}

var _ core.KVStore = (*Store)(nil)

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Open connects to the database and waits for it to answer.
func Open(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if driver == DriverSQLite {
		// every sqlite connection to `:memory:` is a distinct database
		db.SetMaxOpenConns(1)
	}
	if err = ping(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 10
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = db.Ping(); err == nil {
			return nil
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}
	return errors.Wrap(err, "DB ping timeout")
}

// Migrate runs a goose command against the embedded migrations.
func Migrate(ctx context.Context, db *sqlx.DB, command string, args ...string) error {
	goose.SetBaseFS(assets.FS)
	if err := goose.SetDialect(db.DriverName()); err != nil {
		return errors.Wrap(err, "setting migration dialect")
	}
	if err := goose.RunContext(ctx, command, db.DB, assets.MigrationsDir, args...); err != nil {
		return errors.Wrapf(err, "migrating database (%s)", command)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var val string
	err := s.db.GetContext(ctx, &val, s.db.Rebind(getQuery), key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrKeyNotFound
		}
		return nil, s.wrap(err, "selecting kv entry")
	}
	return []byte(val), nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(upsertQuery), key, string(value), time.Now().UTC())
	return s.wrap(err, "upserting kv entry")
}

func (s *Store) Create(ctx context.Context, key string, value []byte) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(insertQuery), key, string(value), time.Now().UTC())
	if err != nil {
		return s.wrap(err, "inserting kv entry")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "counting inserted kv entries")
	}
	if n == 0 {
		return core.ErrKeyExists
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(deleteQuery), key)
	return s.wrap(err, "deleting kv entry")
}

func (s *Store) Close() error {
	s.closed.Store(true)
	return s.db.Close()
}

// wrap reports failures of a closed Store as core.ErrKVClosed.
func (s *Store) wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	if s.closed.Load() || errors.Is(err, sql.ErrConnDone) {
		return core.ErrKVClosed
	}
	return errors.Wrap(err, msg)
}
