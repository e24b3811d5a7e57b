package repositories_test

import (
	"path/filepath"
	"testing"

	"freshmarket/internal/models"
	"freshmarket/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openOrderDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Order{}, &models.OrderClaim{}))
	return db
}

func orderLine(customerID, orderID, product string) models.Order {
	return models.Order{
		CustomerID:  customerID,
		OrderID:     orderID,
		ProductName: product,
		Quantity:    1,
		OrderDate:   "01/02/2026",
		Price:       10.0,
	}
}

func TestGORMOrderRepository_CountOrders_CountsLegacyRows(t *testing.T) {
	db := openOrderDB(t)
	repo := repositories.NewGORMOrderRepository(db)

	// Rows written before the claim table existed: order lines only.
	legacy := []models.Order{
		orderLine("alice", "alice-1", "Milk"),
		orderLine("alice", "alice-1", "Bread"),
		orderLine("alice", "alice-2", "Eggs"),
		orderLine("bob", "bob-1", "Milk"),
	}
	require.NoError(t, db.Create(&legacy).Error)

	count, err := repo.CountOrders("alice")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountOrders("bob")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.CountOrders("nobody")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestGORMOrderRepository_CreateOrder_AfterLegacyRows(t *testing.T) {
	db := openOrderDB(t)
	repo := repositories.NewGORMOrderRepository(db)

	require.NoError(t, db.Create(&models.Order{
		CustomerID: "alice", OrderID: "alice-1", ProductName: "Milk",
		Quantity: 1, OrderDate: "01/02/2026", Price: 10.0,
	}).Error)

	// The next checkout numbers past the legacy order.
	count, err := repo.CountOrders("alice")
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	err = repo.CreateOrder("alice", "alice-2", []models.Order{orderLine("alice", "alice-2", "Bread")})
	assert.NoError(t, err)

	count, err = repo.CountOrders("alice")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGORMOrderRepository_CreateOrder_ClaimConflict(t *testing.T) {
	db := openOrderDB(t)
	repo := repositories.NewGORMOrderRepository(db)

	err := repo.CreateOrder("alice", "alice-1", []models.Order{orderLine("alice", "alice-1", "Milk")})
	require.NoError(t, err)

	err = repo.CreateOrder("alice", "alice-1", []models.Order{orderLine("alice", "alice-1", "Bread")})
	assert.ErrorIs(t, err, repositories.ErrOrderIDTaken)
}

func TestGORMOrderRepository_CreateOrder_LegacyLineConflict(t *testing.T) {
	db := openOrderDB(t)
	repo := repositories.NewGORMOrderRepository(db)

	// A legacy row holds the id without a claim; the conflict must read
	// as a taken id so the caller recounts, and the rolled-back claim
	// must not leak into the numbering.
	require.NoError(t, db.Create(&models.Order{
		CustomerID: "alice", OrderID: "alice-1", ProductName: "Milk",
		Quantity: 1, OrderDate: "01/02/2026", Price: 10.0,
	}).Error)

	err := repo.CreateOrder("alice", "alice-1", []models.Order{orderLine("alice", "alice-1", "Milk")})
	assert.ErrorIs(t, err, repositories.ErrOrderIDTaken)

	var claims int64
	require.NoError(t, db.Model(&models.OrderClaim{}).Count(&claims).Error)
	assert.Zero(t, claims)
}
