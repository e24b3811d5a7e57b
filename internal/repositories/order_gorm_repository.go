package repositories

import (
	"errors"
	"fmt"

	"freshmarket/internal/models"

	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
// The db must be opened with TranslateError so duplicate-key conflicts
// surface as gorm.ErrDuplicatedKey.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// GetAll retrieves every order line.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// GetByCustomer retrieves every order line for one customer.
func (r *GORMOrderRepository) GetByCustomer(customerID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Find(&orders, "CustomerID = ?", customerID).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders for %s: %w", customerID, err)
	}
	return orders, nil
}

// CountOrders counts the distinct orders the customer has confirmed.
// It reads the Orders table itself, not the claim table, so numbering
// continues correctly on databases that predate order_claims; claims
// exist purely as the concurrency guard.
func (r *GORMOrderRepository) CountOrders(customerID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Order{}).
		Where("CustomerID = ?", customerID).
		Distinct("OrderID").
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders for %s: %w", customerID, err)
	}
	return count, nil
}

// CreateOrder claims the order id and writes the line items in one
// transaction. The unique index on the claim table is what turns a
// concurrent checkout collision into ErrOrderIDTaken instead of two
// orders sharing an id.
func (r *GORMOrderRepository) CreateOrder(customerID, orderID string, lines []models.Order) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		claim := models.OrderClaim{CustomerID: customerID, OrderID: orderID}
		if err := tx.Create(&claim).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrOrderIDTaken
			}
			return fmt.Errorf("failed to claim order id %s: %w", orderID, err)
		}
		if err := tx.Create(&lines).Error; err != nil {
			// A legacy row can hold this id without a claim; treat the
			// line conflict like a claimed id so the caller recounts.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrOrderIDTaken
			}
			return fmt.Errorf("failed to write order lines for %s: %w", orderID, err)
		}
		return nil
	})
	return err
}
