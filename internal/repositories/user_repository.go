package repositories

import "freshmarket/internal/models"

// UserRepository defines the interface for customer and manager data
// access. The two populations live in separate tables.
type UserRepository interface {
	CreateCustomer(c *models.Customer) error
	GetCustomer(name string) (*models.Customer, error)
	GetAllCustomers() ([]models.Customer, error)
	UpdateCustomer(oldName string, c *models.Customer) error
	DeleteCustomer(name string) error

	CreateManager(m *models.Manager) error
	GetManager(name string) (*models.Manager, error)
}
