package db_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/meat_shop/internal/db"
	"github.com/Skotchmaster/meat_shop/internal/db/dbtest"
	"github.com/Skotchmaster/meat_shop/internal/models"
)

func TestOpen_RejectsEmptyDSN(t *testing.T) {
	_, err := db.Open(context.Background(), "postgres", "")
	require.Error(t, err)
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	_, err := db.Open(context.Background(), "oracle", "whatever")
	require.ErrorContains(t, err, "unknown DB_DRIVER")
}

func TestOpen_SQLiteMigrates(t *testing.T) {
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	gdb, err := db.Open(context.Background(), "sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := gdb.DB()
		_ = sqlDB.Close()
	})

	for _, m := range models.All() {
		assert.True(t, gdb.Migrator().HasTable(m))
	}
}

func TestDBTest_IsIsolated(t *testing.T) {
	a := dbtest.Open(t)
	b := dbtest.Open(t)

	require.NoError(t, a.Create(&models.Category{Label: "Eggs", Value: "eggs", Unit: models.UnitPiece}).Error)

	var n int64
	require.NoError(t, b.Model(&models.Category{}).Count(&n).Error)
	assert.Zero(t, n)
}
