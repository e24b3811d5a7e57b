package services

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"freshmarket/internal/cart"
	"freshmarket/internal/models"
	"freshmarket/internal/repositories"
)

// ErrEmptyCart is the empty-cart warning: checkout never computes a
// total or writes rows for an empty cart.
var ErrEmptyCart = errors.New("your cart is empty")

// confirmRetries bounds the recount-and-retry loop when an order id is
// claimed by a concurrent checkout.
const confirmRetries = 5

// SummaryLine is one priced checkout row.
type SummaryLine struct {
	ProductName  string  `json:"product_name"`
	Quantity     int     `json:"quantity"`
	PricePerUnit float64 `json:"price_per_unit"`
	LineTotal    float64 `json:"line_total"`
}

// CheckoutSummary folds the cart multiset into priced line items.
type CheckoutSummary struct {
	Lines []SummaryLine `json:"lines"`
	Total float64       `json:"total"`
}

// HistoryOrder is one past order, grouped from its line rows.
type HistoryOrder struct {
	OrderID string         `json:"order_id"`
	Date    time.Time      `json:"date"`
	Lines   []models.Order `json:"lines"`
	Total   float64        `json:"total"`
}

// EventPublisher publishes order lifecycle events; nil-safe callers
// treat publish failures as log-only.
type EventPublisher interface {
	PublishOrderCreated(event map[string]interface{}) error
}

// OrderService handles checkout aggregation, order confirmation and
// shopping history.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	publisher   EventPublisher
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, publisher EventPublisher) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		publisher:   publisher,
	}
}

// Summarize groups the cart by product and prices each line from the
// current catalog. Prices are current, not order-time: the staleness
// hazard is inherited from the source system deliberately.
func (s *OrderService) Summarize(c *cart.Cart) (*CheckoutSummary, error) {
	if c == nil || c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	summary := &CheckoutSummary{}
	for _, item := range c.Items() {
		product, err := s.productRepo.GetByName(item.ProductName)
		if err != nil {
			return nil, fmt.Errorf("product %s is no longer available: %w", item.ProductName, err)
		}
		line := SummaryLine{
			ProductName:  item.ProductName,
			Quantity:     item.Quantity,
			PricePerUnit: product.Price,
			LineTotal:    float64(item.Quantity) * product.Price,
		}
		summary.Lines = append(summary.Lines, line)
		summary.Total += line.LineTotal
	}
	return summary, nil
}

// Confirm turns the cart into a persisted order: one row per distinct
// product, order id {customer}-{n}. The id is derived from a count, but
// a unique claim plus recount-and-retry makes simultaneous checkouts by
// the same customer safe. On success the cart is cleared and an
// order.created event is published.
func (s *OrderService) Confirm(customerID string, c *cart.Cart, now time.Time) (string, *CheckoutSummary, error) {
	summary, err := s.Summarize(c)
	if err != nil {
		return "", nil, err
	}

	orderDate := now.Format(models.OrderDateLayout)
	var orderID string
	for attempt := 0; attempt < confirmRetries; attempt++ {
		count, err := s.orderRepo.CountOrders(customerID)
		if err != nil {
			return "", nil, fmt.Errorf("failed to number order: %w", err)
		}
		orderID = fmt.Sprintf("%s-%d", customerID, count+1)

		lines := make([]models.Order, 0, len(summary.Lines))
		for _, line := range summary.Lines {
			lines = append(lines, models.Order{
				CustomerID:  customerID,
				OrderID:     orderID,
				ProductName: line.ProductName,
				Quantity:    line.Quantity,
				OrderDate:   orderDate,
				Price:       line.PricePerUnit,
			})
		}

		err = s.orderRepo.CreateOrder(customerID, orderID, lines)
		if errors.Is(err, repositories.ErrOrderIDTaken) {
			continue
		}
		if err != nil {
			return "", nil, err
		}

		c.Clear()
		s.publishOrderCreated(customerID, orderID, summary)
		return orderID, summary, nil
	}
	return "", nil, fmt.Errorf("failed to confirm order for %s: id contention", customerID)
}

func (s *OrderService) publishOrderCreated(customerID, orderID string, summary *CheckoutSummary) {
	if s.publisher == nil {
		return
	}
	event := map[string]interface{}{
		"customer_id": customerID,
		"order_id":    orderID,
		"total":       summary.Total,
		"lines":       len(summary.Lines),
	}
	if err := s.publisher.PublishOrderCreated(event); err != nil {
		log.Printf("Warning: failed to publish order created event for %s: %v", orderID, err)
	}
}

// History groups the customer's order lines by order id, newest first.
// A malformed stored date aborts the whole view with an error.
func (s *OrderService) History(customerID string) ([]HistoryOrder, error) {
	rows, err := s.orderRepo.GetByCustomer(customerID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	grouped := map[string]*HistoryOrder{}
	var ids []string
	for _, row := range rows {
		date, err := row.ParseDate()
		if err != nil {
			return nil, fmt.Errorf("date format error in order %s: %w", row.OrderID, err)
		}
		order, ok := grouped[row.OrderID]
		if !ok {
			order = &HistoryOrder{OrderID: row.OrderID, Date: date}
			grouped[row.OrderID] = order
			ids = append(ids, row.OrderID)
		}
		order.Lines = append(order.Lines, row)
		order.Total += float64(row.Quantity) * row.Price
	}

	history := make([]HistoryOrder, 0, len(ids))
	for _, id := range ids {
		history = append(history, *grouped[id])
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date.After(history[j].Date)
	})
	return history, nil
}
