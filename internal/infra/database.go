package infra

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/GiacomoGuaresi/LiteERP/internal/model"
)

// NewDatabase establishes a GORM connection backed by pgx and runs AutoMigrate
// to create / update all tables. The schema is small enough that AutoMigrate
// is sufficient — there is no separate migration directory.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations applies the schema. Also used by the integration test suite
// against a throwaway container database.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.InventoryItem{},
		&model.BOMEdge{},
		&model.ProductionOrder{},
		&model.ProductionOrderDetail{},
		&model.User{},
		&model.AuditLog{},
	)
}
