package services_test

import (
	"freshmarket/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateCustomer(c *models.Customer) error {
	args := m.Called(c)
	return args.Error(0)
}

func (m *MockUserRepository) GetCustomer(name string) (*models.Customer, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockUserRepository) GetAllCustomers() ([]models.Customer, error) {
	args := m.Called()
	return args.Get(0).([]models.Customer), args.Error(1)
}

func (m *MockUserRepository) UpdateCustomer(oldName string, c *models.Customer) error {
	args := m.Called(oldName, c)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteCustomer(name string) error {
	args := m.Called(name)
	return args.Error(0)
}

func (m *MockUserRepository) CreateManager(mg *models.Manager) error {
	args := m.Called(mg)
	return args.Error(0)
}

func (m *MockUserRepository) GetManager(name string) (*models.Manager, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Manager), args.Error(1)
}

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll() ([]models.Product, error) {
	args := m.Called()
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByName(name string) (*models.Product, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(p *models.Product) error {
	args := m.Called(p)
	return args.Error(0)
}

func (m *MockProductRepository) Update(oldName, oldBrand string, p *models.Product) error {
	args := m.Called(oldName, oldBrand, p)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(name, brand string) error {
	args := m.Called(name, brand)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of repositories.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) GetAll() ([]models.Order, error) {
	args := m.Called()
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByCustomer(customerID string) ([]models.Order, error) {
	args := m.Called(customerID)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) CountOrders(customerID string) (int64, error) {
	args := m.Called(customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CreateOrder(customerID, orderID string, lines []models.Order) error {
	args := m.Called(customerID, orderID, lines)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishOrderCreated(event map[string]interface{}) error {
	args := m.Called(event)
	return args.Error(0)
}

// stubRegressor scores feature rows with a fixed function and records
// every row it was asked to score.
type stubRegressor struct {
	fn    func([]float64) float64
	calls [][]float64
}

func (s *stubRegressor) PredictSingle(features []float64) float64 {
	row := make([]float64, len(features))
	copy(row, features)
	s.calls = append(s.calls, row)
	if s.fn == nil {
		return 0
	}
	return s.fn(features)
}
