package main

import (
	"context"
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/skillxp/core"
	"github.com/trezcool/skillxp/core/auth"
	"github.com/trezcool/skillxp/services/logger"
	"github.com/trezcool/skillxp/storage/kv"
	"github.com/trezcool/skillxp/storage/kv/inmem"
	"github.com/trezcool/skillxp/storage/kv/sql"
)

var logger core.Logger

func main() {
	conf := core.NewConfig()
	logger = logsvc.New("ADMIN : ", conf, log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	cli := commandLine{
		conf:     conf,
		validate: auth.NewValidator(core.NewTranslator()),
		logger:   logger,
		out:      os.Stdout,
	}

	var err error
	cli.opts, err = auth.NewOptions(conf.Auth)
	errAndDie(err)

	// set up the KV store; SQL backends are opened without migrating so that `migrate` stays in control
	switch conf.KV.Backend {
	case core.KVBackendPostgres, core.KVBackendSQLite:
		var db *sqlx.DB
		db, err = sqlkv.Open(kvstore.SQLDriver(conf.KV.Backend), conf.KV.DSN)
		errAndDie(err)
		cli.db, cli.kv = db, sqlkv.New(db)
	case "", core.KVBackendMemory:
		logger.Warn("memory kv backend: accounts will not outlive this command")
		cli.kv = inmemkv.New()
	default:
		cli.kv, err = kvstore.Open(context.Background(), conf.KV)
		errAndDie(err)
	}
	defer cli.kv.Close()

	if err = cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("error: " + err.Error())
		}
		cli.kv.Close()
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
