// Package postgres implements the report and catalog stores on top of gorm.
package postgres

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"reportbot/internal/domain/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateName is returned when a unique name constraint is violated.
var ErrDuplicateName = errors.New("name already exists")

// NewConnection opens a pooled gorm connection and verifies it with a ping.
func NewConnection(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New("dsn is required")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the schema for every entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.ShiftReport{},
		&models.InventoryItem{},
		&models.DailyInventory{},
		&models.GoodsReport{},
		&models.WriteoffTransfer{},
	)
}

// Pagination bounds list queries. A zero Limit falls back to 100.
type Pagination struct {
	Offset int
	Limit  int
}

func (p Pagination) apply(tx *gorm.DB) *gorm.DB {
	limit := p.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}
	if p.Offset > 0 {
		tx = tx.Offset(p.Offset)
	}
	return tx.Limit(limit)
}
