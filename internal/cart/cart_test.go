package cart_test

import (
	"testing"

	"freshmarket/internal/cart"

	"github.com/stretchr/testify/assert"
)

func TestCart_AddIncrementDecrement(t *testing.T) {
	c := cart.New()

	c.Add("Milk")
	c.Add("Milk")
	c.Add("Bread")
	assert.Equal(t, 2, c.Count("Milk"))
	assert.Equal(t, 1, c.Count("Bread"))
	assert.Equal(t, 3, c.Size())

	c.Increment("Milk")
	assert.Equal(t, 3, c.Count("Milk"))

	c.Decrement("Milk")
	c.Decrement("Milk")
	assert.Equal(t, 1, c.Count("Milk"))

	// Decrementing the last occurrence removes the entry, never a zero row.
	c.Decrement("Milk")
	assert.Equal(t, 0, c.Count("Milk"))
	assert.Len(t, c.Items(), 1)
	assert.Equal(t, "Bread", c.Items()[0].ProductName)
}

func TestCart_DecrementAbsentIsNoop(t *testing.T) {
	c := cart.New()
	c.Decrement("Ghost")
	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.Count("Ghost"))
}

func TestCart_RemoveDeletesAllOccurrences(t *testing.T) {
	c := cart.New()
	for i := 0; i < 5; i++ {
		c.Add("Eggs")
	}
	c.Add("Butter")

	c.Remove("Eggs")
	assert.Equal(t, 0, c.Count("Eggs"))
	assert.Equal(t, 1, c.Size())
}

// Per-product count always equals net adds minus removals and never
// goes negative, for any operation sequence.
func TestCart_NetCountProperty(t *testing.T) {
	c := cart.New()
	ops := []struct {
		op   string
		name string
	}{
		{"add", "A"}, {"add", "A"}, {"dec", "A"}, {"dec", "A"}, {"dec", "A"},
		{"add", "B"}, {"inc", "B"}, {"add", "A"}, {"rem", "B"}, {"inc", "A"},
	}
	expected := map[string]int{}
	for _, o := range ops {
		switch o.op {
		case "add":
			c.Add(o.name)
			expected[o.name]++
		case "inc":
			c.Increment(o.name)
			expected[o.name]++
		case "dec":
			c.Decrement(o.name)
			if expected[o.name] > 0 {
				expected[o.name]--
			}
		case "rem":
			c.Remove(o.name)
			expected[o.name] = 0
		}
		for name, want := range expected {
			assert.GreaterOrEqual(t, c.Count(name), 0)
			assert.Equal(t, want, c.Count(name), "after %v on %s", o.op, o.name)
		}
	}
}

func TestCart_ItemsKeepFirstAddedOrder(t *testing.T) {
	c := cart.New()
	c.Add("Milk")
	c.Add("Bread")
	c.Add("Milk")

	items := c.Items()
	assert.Equal(t, []cart.Item{
		{ProductName: "Milk", Quantity: 2},
		{ProductName: "Bread", Quantity: 1},
	}, items)
}

func TestCart_MergeEmptiesSource(t *testing.T) {
	main := cart.New()
	main.Add("Milk")

	rec := cart.New()
	rec.Add("Milk")
	rec.Add("Bread")

	main.Merge(rec)
	assert.Equal(t, 2, main.Count("Milk"))
	assert.Equal(t, 1, main.Count("Bread"))
	assert.True(t, rec.IsEmpty())
}
