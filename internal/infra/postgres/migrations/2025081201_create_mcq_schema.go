package migrations

import (
	"context"
	_ "embed"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

//go:embed 0001_create_mcq_schema.sql
var createMCQSchemaSQL string

var Migrations = migrate.NewMigrations()

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(createMCQSchemaSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(`
				DROP TABLE IF EXISTS ratings;
				DROP TABLE IF EXISTS answers;
				DROP TABLE IF EXISTS options;
				DROP TABLE IF EXISTS questions;
				DROP TABLE IF EXISTS models;
				DROP TABLE IF EXISTS subjects;
			`)
			return err
		},
	)
}
