package migration_20260901_0000

import (
	"time"

	"github.com/gadgetry-io/gadgetry/internal/database/migrations"
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Snapshot of the schema at this migration. Migration model snapshots are
// frozen so later model changes do not rewrite history.
type Base struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type Device struct {
	Base
	DisplayName  string `gorm:"size:255"`
	DisplayBrand string `gorm:"size:100"`
	Name         string `gorm:"size:255;index"`
	Brand        string `gorm:"size:100;index"`
	State        string `gorm:"size:20;index"`
	Version      uint64
}

func Migrate() *gormigrate.Migration {
	return migrations.CreateMigrationFromActions("20260901_0000",
		migrations.CreateTableAction(&Device{}),
	)
}
