// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/suteetoe/backoffice/internal/model"
	"github.com/suteetoe/backoffice/pkg/config"
	"github.com/suteetoe/backoffice/pkg/database"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB returns a migrated sqlite database that lives for the duration of t
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.InitDB(&config.DBConfig{
		Driver:          config.DriverSQLite,
		Path:            filepath.Join(t.TempDir(), "backoffice_test.db"),
		ConnMaxLifetime: time.Hour,
		LogLevel:        logger.Silent,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	if err := database.MigrateModels(db, model.All()...); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return db
}

// Clock is a settable time source
type Clock struct {
	Current time.Time
}

// NewClock starts a clock at a fixed UTC instant
func NewClock() *Clock {
	return &Clock{Current: time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)}
}

// Now returns the current instant
func (c *Clock) Now() time.Time {
	return c.Current
}

// Advance moves the clock forward by d
func (c *Clock) Advance(d time.Duration) {
	c.Current = c.Current.Add(d)
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}
