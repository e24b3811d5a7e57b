package repositories

import (
	"errors"
	"fmt"

	"freshmarket/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{db: db}
}

// GetAll retrieves the whole catalog.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByName retrieves a single product by its name. Names are
// soft-unique in the catalog; the first match wins.
func (r *GORMProductRepository) GetByName(name string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "ProductName = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s not found", name)
		}
		return nil, fmt.Errorf("failed to get product %s: %w", name, err)
	}
	return &product, nil
}

// Create inserts a new catalog row.
func (r *GORMProductRepository) Create(p *models.Product) error {
	if err := r.db.Create(p).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update rewrites the editable fields of the row keyed by the old
// (name, brand) pair.
func (r *GORMProductRepository) Update(oldName, oldBrand string, p *models.Product) error {
	res := r.db.Model(&models.Product{}).
		Where("ProductName = ? AND Quantity = ?", oldName, oldBrand).
		Updates(map[string]interface{}{
			"ProductName":   p.ProductName,
			"Price":         p.Price,
			"DiscountPrice": p.DiscountPrice,
			"Image_Url":     p.ImageURL,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update product %s: %w", oldName, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s not found for update", oldName)
	}
	return nil
}

// Delete removes the row keyed by (name, brand).
func (r *GORMProductRepository) Delete(name, brand string) error {
	res := r.db.Delete(&models.Product{}, "ProductName = ? AND Quantity = ?", name, brand)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product %s: %w", name, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s not found for deletion", name)
	}
	return nil
}
