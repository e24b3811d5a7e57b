package repositories

import (
	"errors"

	"freshmarket/internal/models"
)

// ErrOrderIDTaken signals that the requested order id was claimed by a
// concurrent checkout; callers recount and retry.
var ErrOrderIDTaken = errors.New("order id already taken")

// OrderRepository defines the interface for order data access. Orders
// are append-only; there is no update or delete.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByCustomer(customerID string) ([]models.Order, error)
	// CountOrders reports how many distinct orders the customer has
	// confirmed so far.
	CountOrders(customerID string) (int64, error)
	// CreateOrder atomically claims orderID for the customer and writes
	// its line items. Returns ErrOrderIDTaken when the id was claimed
	// concurrently.
	CreateOrder(customerID, orderID string, lines []models.Order) error
}
