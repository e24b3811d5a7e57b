package repositories

import "freshmarket/internal/models"

// ProductRepository defines the interface for catalog data access.
// Rows are identified by (product name, brand), the way the legacy
// table was keyed.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByName(name string) (*models.Product, error)
	Create(p *models.Product) error
	Update(oldName, oldBrand string, p *models.Product) error
	Delete(name, brand string) error
}
