// Package dbtest 提供測試用的 in-memory sqlite 資料庫
package dbtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/RoyceAzure/lab/shop/internal/infra/repository/db"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB 每個測試一個獨立的資料庫，已完成 migrate
func NewTestDB(t testing.TB) *db.UnifiedDBImpl {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	// 單一連線，transaction 與一般查詢不會互相鎖住
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	store := db.NewUnifiedDB(conn)
	require.NoError(t, store.InitMigrate())
	return store
}

func CreateUser(t testing.TB, store db.IUserRepository, email string) *model.User {
	t.Helper()
	user, err := store.CreateUser(context.Background(), &model.User{Name: "Test User", Email: email})
	require.NoError(t, err)
	return user
}

func CreateProduct(t testing.TB, store db.IProductRepository, name, price string, stock int) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
	require.NoError(t, store.CreateProduct(context.Background(), product))
	return product
}
