package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/skillxp/storage/kv/sql"
)

var gooseRunFunc = sqlkv.Migrate // mockable

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errors.Errorf("migrations need a sql kv backend, got %q", cli.conf.KV.Backend)
	}
	return gooseRunFunc(context.Background(), cli.db, args[0], args[1:]...)
}
