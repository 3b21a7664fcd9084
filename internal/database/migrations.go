package database

import (
	"github.com/gadgetry-io/gadgetry/internal/database/migration_20260901_0000"
	"github.com/gadgetry-io/gadgetry/internal/database/migrations"
	"github.com/go-gormigrate/gormigrate/v2"
)

// Migrations returns the full, ordered migration set for the apiserver
// schema.
func Migrations() *migrations.Migrations {
	return &migrations.Migrations{
		GormOptions: &gormigrate.Options{
			TableName:      "apiserver_migrations",
			IDColumnName:   "id",
			IDColumnSize:   40,
			UseTransaction: false,
		},
		Migrations: []*gormigrate.Migration{
			migration_20260901_0000.Migrate(),
		},
	}
}
