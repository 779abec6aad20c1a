package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"course-checkout/internal/client"
	"course-checkout/internal/config"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewTestDB opens a migrated sqlite database private to the test. A single
// connection keeps sqlite writers from tripping over each other.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "checkout_test.db") + "?_busy_timeout=5000"
	db, err := client.InitDatabase(config.Database{
		Driver:          "sqlite",
		URL:             dsn,
		MaxIdleConns:    1,
		MaxOpenConns:    1,
		ConnMaxLifetime: time.Hour,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func CountRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
