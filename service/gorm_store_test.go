package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/ZaneerahEssop/QUANTIX-sub001/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// newSQLiteStore opens a private in-memory database for one test
func newSQLiteStore(t *testing.T) *GormStore {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormLogger.Default.LogMode(gormLogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	store := NewGormStore(db)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestGormStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store { return newSQLiteStore(t) })
}

func TestOpenGormStore(t *testing.T) {
	store, err := OpenGormStore(context.Background(), &config.StoreConfig{
		Driver: "sqlite",
		DSN:    "file:open_gorm_store?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	defer store.Close()

	_, err = store.GetContract(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenGormStoreUnsupportedDriver(t *testing.T) {
	_, err := OpenGormStore(context.Background(), &config.StoreConfig{Driver: "mysql", DSN: "x"})
	if err == nil {
		t.Error("Expected error for unsupported driver")
	}
}

func TestGormStoreClosedDatabase(t *testing.T) {
	store := newSQLiteStore(t)
	require.NoError(t, store.Close())

	_, err := store.GetContract(context.Background(), "any")
	var storeErr *StoreError
	assert.ErrorAs(t, err, &storeErr)
}
