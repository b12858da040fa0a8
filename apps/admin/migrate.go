package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/scuola/core"
	"github.com/trezcool/scuola/storage/database"
)

var migrateFunc = migrateDatabase // mockable

var errNoDatabase = errors.New("no database configured: set DATABASE_DSN")

func migrateDatabase(ctx context.Context, conf *core.Config) error {
	if conf.Database.DSN == "" {
		return errNoDatabase
	}
	db, err := database.Open(ctx, conf)
	if err != nil {
		return err
	}
	defer db.Close()
	return database.Migrate(ctx, db)
}

func (cli *commandLine) migrate() error {
	return migrateFunc(context.Background(), cli.conf)
}
