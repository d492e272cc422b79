// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/storefront/internal/models"
)

var dbSeq atomic.Int64

// NewDB opens a private in-memory SQLite database with the full schema.
// A single connection keeps every statement on the same memory database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:storefront_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

func SeedProduct(t testing.TB, db *gorm.DB, name, price string, stock int) *models.Product {
	t.Helper()

	p := &models.Product{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func SeedUser(t testing.TB, db *gorm.DB, email, role string) *models.User {
	t.Helper()

	u := &models.User{Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, db.Create(u).Error)
	return u
}

func Price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
