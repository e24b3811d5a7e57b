package services

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"freshmarket/internal/models"
	"freshmarket/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// ProductsPerPage is the catalog grid page size.
const ProductsPerPage = 42

// Catalog validation errors, rendered inline.
var (
	ErrDuplicateProduct = errors.New("product name already exists")
	ErrInvalidBrand     = errors.New("brand code must be a positive integer")
	ErrInvalidURL       = errors.New("URLs must start with http:// or https://")
)

// CategoryAll selects the unfiltered catalog.
const CategoryAll = "All Products"

// ProductUpdate carries the editable product fields.
type ProductUpdate struct {
	ProductName   string  `json:"product_name" validate:"required"`
	Price         float64 `json:"price" validate:"gte=0"`
	DiscountPrice float64 `json:"discount_price" validate:"gte=0"`
	ImageURL      string  `json:"image_url" validate:"required"`
}

// ProductPage is one page of the catalog grid.
type ProductPage struct {
	Products   []models.Product `json:"products"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
}

// ProductService handles catalog reads, filtering and manager CRUD.
type ProductService struct {
	repo     repositories.ProductRepository
	validate *validator.Validate
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo:     repo,
		validate: validator.New(),
	}
}

// GetCatalog retrieves the whole catalog.
func (s *ProductService) GetCatalog() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetByName retrieves a single product.
func (s *ProductService) GetByName(name string) (*models.Product, error) {
	return s.repo.GetByName(name)
}

// Categories returns the sorted distinct categories with the
// all-products pseudo-category first.
func (s *ProductService) Categories(products []models.Product) []string {
	seen := map[string]bool{}
	var categories []string
	for _, p := range products {
		if !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	sort.Strings(categories)
	return append([]string{CategoryAll}, categories...)
}

// Filter narrows the catalog by category and by a case-insensitive
// substring match on the product name.
func (s *ProductService) Filter(products []models.Product, category, query string) []models.Product {
	filtered := make([]models.Product, 0, len(products))
	needle := strings.ToLower(strings.TrimSpace(query))
	for _, p := range products {
		if category != "" && category != CategoryAll && p.Category != category {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(p.ProductName), needle) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

// Page cuts one grid page out of the filtered catalog, clamping the
// page number into range.
func (s *ProductService) Page(products []models.Product, page int) ProductPage {
	totalPages := (len(products) + ProductsPerPage - 1) / ProductsPerPage
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * ProductsPerPage
	end := start + ProductsPerPage
	if start > len(products) {
		start = len(products)
	}
	if end > len(products) {
		end = len(products)
	}
	return ProductPage{Products: products[start:end], Page: page, TotalPages: totalPages}
}

// CreateProduct validates and inserts a new catalog entry: every field
// filled, brand code a positive integer, both URLs well-formed, name
// not already taken.
func (s *ProductService) CreateProduct(p *models.Product) error {
	if err := s.validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrMissingFields, err)
	}
	if n, err := strconv.Atoi(p.Brand); err != nil || n <= 0 {
		return ErrInvalidBrand
	}
	if !validHTTPURL(p.ImageURL) || !validHTTPURL(p.AbsoluteURL) {
		return ErrInvalidURL
	}
	if existing, err := s.repo.GetByName(p.ProductName); err == nil && existing != nil {
		return ErrDuplicateProduct
	}
	return s.repo.Create(p)
}

// UpdateProduct validates and applies an edit to the row keyed by the
// old (name, brand) pair. Renaming onto another product is rejected.
func (s *ProductService) UpdateProduct(oldName, oldBrand string, upd ProductUpdate) error {
	if err := s.validate.Struct(upd); err != nil {
		return fmt.Errorf("%w: %v", ErrMissingFields, err)
	}
	if !validHTTPURL(upd.ImageURL) {
		return ErrInvalidURL
	}
	if upd.ProductName != oldName {
		if existing, err := s.repo.GetByName(upd.ProductName); err == nil && existing != nil {
			return ErrDuplicateProduct
		}
	}
	return s.repo.Update(oldName, oldBrand, &models.Product{
		ProductName:   upd.ProductName,
		Price:         upd.Price,
		DiscountPrice: upd.DiscountPrice,
		ImageURL:      upd.ImageURL,
	})
}

// DeleteProduct removes the row keyed by (name, brand).
func (s *ProductService) DeleteProduct(name, brand string) error {
	return s.repo.Delete(name, brand)
}

func validHTTPURL(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}
