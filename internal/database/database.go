package database

import (
	"fmt"
	"time"

	"github.com/marius-hi/go-invest/internal/logger"
	"github.com/marius-hi/go-invest/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// allModels is the list of GORM models that make up the schema.
var allModels = []interface{}{
	&models.Currency{},
	&models.Asset{},
	&models.AssetPrice{},
	&models.User{},
	&models.Position{},
}

// Manager handles database operations
type Manager struct {
	db *gorm.DB
}

// NewManager creates a new database manager
func NewManager(config *Config) (*Manager, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  config.DSN(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &Manager{db: db}, nil
}

// Migrate brings the schema up to date, including the unique index on
// (asset_id, date) that backs the price updater's idempotence guarantee.
func (m *Manager) Migrate() error {
	logger.Get().Info("Migrating database schema...")

	if err := m.db.AutoMigrate(allModels...); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}

	logger.Get().Info("Database schema up to date")
	return nil
}

// DB returns the underlying GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}
