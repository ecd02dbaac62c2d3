package pos

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one product entry in an operator's cart. UnitPrice is frozen at
// the moment the product is first added, so later catalog price edits do
// not change a sale in progress.
type Line struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns unit price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds the in-progress sale for a single operator. Lines keep
// insertion order so the register screen stays stable while quantities
// change.
type Cart struct {
	lines []Line
}

// AddItem increments the quantity when the product is already present,
// otherwise appends a new line with quantity 1.
func (c *Cart) AddItem(productID uuid.UUID, name string, unitPrice decimal.Decimal) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, Line{
		ProductID: productID,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  1,
	})
}

// UpdateQuantity sets the line quantity. A quantity of zero or less
// removes the line entirely.
func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int) bool {
	for i := range c.lines {
		if c.lines[i].ProductID != productID {
			continue
		}
		if quantity <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		} else {
			c.lines[i].Quantity = quantity
		}
		return true
	}
	return false
}

// RemoveItem drops the line for the product.
func (c *Cart) RemoveItem(productID uuid.UUID) bool {
	return c.UpdateQuantity(productID, 0)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the cart contents in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Total sums the line subtotals.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}
