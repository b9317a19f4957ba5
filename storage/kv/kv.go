// Package kvstore opens the core.KVStore backend selected by configuration.
package kvstore

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/skillxp/core"
	inmemkv "github.com/trezcool/skillxp/storage/kv/inmem"
	rediskv "github.com/trezcool/skillxp/storage/kv/redis"
	sqlkv "github.com/trezcool/skillxp/storage/kv/sql"
)

// Open returns the configured backend. SQL backends are migrated up.
func Open(ctx context.Context, conf core.KVConfig) (core.KVStore, error) {
	switch conf.Backend {
	case "", core.KVBackendMemory:
		return inmemkv.New(), nil
	case core.KVBackendRedis:
		return rediskv.Open(ctx, conf)
	case core.KVBackendPostgres, core.KVBackendSQLite:
		db, err := sqlkv.Open(SQLDriver(conf.Backend), conf.DSN)
		if err != nil {
			return nil, err
		}
		if err = sqlkv.Migrate(ctx, db, "up"); err != nil {
			_ = db.Close()
			return nil, err
		}
		return sqlkv.New(db), nil
	default:
		return nil, errors.Errorf("unknown kv backend %q", conf.Backend)
	}
}

// SQLDriver maps a SQL backend name to its database/sql driver.
func SQLDriver(backend string) string {
	if backend == core.KVBackendSQLite {
		return sqlkv.DriverSQLite
	}
	return sqlkv.DriverPostgres
}
