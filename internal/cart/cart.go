// Package cart implements the list-backed multiset that represents a
// shopping cart: count = occurrence frequency, never below zero.
package cart

// Item is one grouped cart line.
type Item struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// Cart is a product-name multiset. The zero quantity is unrepresentable:
// decrementing the last occurrence removes the entry entirely.
type Cart struct {
	counts map[string]int
	order  []string // first-added order, for stable rendering
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{counts: make(map[string]int)}
}

// Add appends one occurrence of the product, unconditionally.
func (c *Cart) Add(productName string) {
	if c.counts[productName] == 0 {
		c.order = append(c.order, productName)
	}
	c.counts[productName]++
}

// Increment is Add under its cart-view name.
func (c *Cart) Increment(productName string) {
	c.Add(productName)
}

// Decrement removes one occurrence. Dropping to zero deletes the entry;
// decrementing an absent product is a no-op.
func (c *Cart) Decrement(productName string) {
	n, ok := c.counts[productName]
	if !ok {
		return
	}
	if n <= 1 {
		c.Remove(productName)
		return
	}
	c.counts[productName] = n - 1
}

// Remove deletes all occurrences of the product.
func (c *Cart) Remove(productName string) {
	if _, ok := c.counts[productName]; !ok {
		return
	}
	delete(c.counts, productName)
	for i, name := range c.order {
		if name == productName {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Count reports the occurrence count for one product.
func (c *Cart) Count(productName string) int {
	return c.counts[productName]
}

// Size is the total number of occurrences across all products.
func (c *Cart) Size() int {
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// IsEmpty reports whether the cart holds nothing.
func (c *Cart) IsEmpty() bool {
	return len(c.counts) == 0
}

// Items returns the grouped lines in first-added order.
func (c *Cart) Items() []Item {
	items := make([]Item, 0, len(c.order))
	for _, name := range c.order {
		items = append(items, Item{ProductName: name, Quantity: c.counts[name]})
	}
	return items
}

// Merge moves every occurrence from other into c and empties other.
func (c *Cart) Merge(other *Cart) {
	for _, it := range other.Items() {
		for i := 0; i < it.Quantity; i++ {
			c.Add(it.ProductName)
		}
	}
	other.Clear()
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.counts = make(map[string]int)
	c.order = nil
}
