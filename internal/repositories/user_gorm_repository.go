package repositories

import (
	"errors"
	"fmt"

	"freshmarket/internal/models"

	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{db: db}
}

// CreateCustomer creates a new customer row.
func (r *GORMUserRepository) CreateCustomer(c *models.Customer) error {
	if err := r.db.Create(c).Error; err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// GetCustomer retrieves a customer by name.
func (r *GORMUserRepository) GetCustomer(name string) (*models.Customer, error) {
	var c models.Customer
	if err := r.db.First(&c, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("customer %s not found", name)
		}
		return nil, fmt.Errorf("failed to get customer %s: %w", name, err)
	}
	return &c, nil
}

// GetAllCustomers retrieves every customer, ordered by name.
func (r *GORMUserRepository) GetAllCustomers() ([]models.Customer, error) {
	var customers []models.Customer
	if err := r.db.Order("name").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to get customers: %w", err)
	}
	return customers, nil
}

// UpdateCustomer renames and/or re-credentials a customer.
func (r *GORMUserRepository) UpdateCustomer(oldName string, c *models.Customer) error {
	res := r.db.Model(&models.Customer{}).Where("name = ?", oldName).
		Updates(map[string]interface{}{"name": c.Name, "password": c.Password})
	if res.Error != nil {
		return fmt.Errorf("failed to update customer %s: %w", oldName, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("customer %s not found for update", oldName)
	}
	return nil
}

// DeleteCustomer removes a customer by name.
func (r *GORMUserRepository) DeleteCustomer(name string) error {
	res := r.db.Delete(&models.Customer{}, "name = ?", name)
	if res.Error != nil {
		return fmt.Errorf("failed to delete customer %s: %w", name, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("customer %s not found for deletion", name)
	}
	return nil
}

// CreateManager creates a new manager row.
func (r *GORMUserRepository) CreateManager(m *models.Manager) error {
	if err := r.db.Create(m).Error; err != nil {
		return fmt.Errorf("failed to create manager: %w", err)
	}
	return nil
}

// GetManager retrieves a manager by name.
func (r *GORMUserRepository) GetManager(name string) (*models.Manager, error) {
	var m models.Manager
	if err := r.db.First(&m, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("manager %s not found", name)
		}
		return nil, fmt.Errorf("failed to get manager %s: %w", name, err)
	}
	return &m, nil
}
