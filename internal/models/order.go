package models

import "time"

// OrderDateLayout is the dd/mm/yyyy format the Orders table stores
// dates in.
const OrderDateLayout = "02/01/2006"

// Order is one line item of a confirmed order: one row per distinct
// product per checkout, append-only.
type Order struct {
	CustomerID  string  `json:"customer_id" gorm:"column:CustomerID;uniqueIndex:uidx_order_line"`
	OrderID     string  `json:"order_id" gorm:"column:OrderID;uniqueIndex:uidx_order_line"`
	ProductName string  `json:"product_name" gorm:"column:ProductName;uniqueIndex:uidx_order_line"`
	Quantity    int     `json:"quantity" gorm:"column:Quantity"`
	OrderDate   string  `json:"order_date" gorm:"column:OrderDate"`
	Price       float64 `json:"price" gorm:"column:Price"`
}

// TableName keeps the legacy table name.
func (Order) TableName() string { return "Orders" }

// ParseDate parses the stored dd/mm/yyyy order date.
func (o Order) ParseDate() (time.Time, error) {
	return time.Parse(OrderDateLayout, o.OrderDate)
}

// OrderClaim reserves an order id for a customer before its line items
// are written. The unique index is what makes two simultaneous
// checkouts by the same customer impossible to confuse: the second
// claim for the same id fails and the caller recounts.
type OrderClaim struct {
	CustomerID string `gorm:"column:customer_id;uniqueIndex:uidx_order_claim"`
	OrderID    string `gorm:"column:order_id;uniqueIndex:uidx_order_claim"`
}

// TableName names the claim table.
func (OrderClaim) TableName() string { return "order_claims" }
