package cart

import (
	"sync"

	"storefront-service/internal/models"
)

// Totals is the recomputed summary of a cart.
type Totals struct {
	TotalItems int   `json:"total_items"`
	Subtotal   int64 `json:"subtotal"`
}

// Cart is the session-scoped ledger of line items awaiting purchase.
// Line identity is (ProductID, VariantKey); the ledger never holds two
// lines with the same identity. All mutations are serialized by an
// internal mutex.
type Cart struct {
	mu    sync.Mutex
	lines []models.CartLine
}

// New creates an empty cart.
func New() *Cart {
	return &Cart{}
}

// AddItem appends the line, or merges it into an existing line with the
// same identity by summing quantities. Lines with quantity < 1 are
// never stored.
func (c *Cart) AddItem(line models.CartLine) {
	if line.Quantity < 1 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == line.ProductID && c.lines[i].VariantKey == line.VariantKey {
			c.lines[i].Quantity += line.Quantity
			return
		}
	}
	c.lines = append(c.lines, line)
}

// UpdateQuantity sets the quantity of the identified line exactly.
// A quantity <= 0 removes the line instead, identical to RemoveItem.
func (c *Cart) UpdateQuantity(productID, variantKey string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID, variantKey)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID && c.lines[i].VariantKey == variantKey {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

// RemoveItem deletes the identified line. Removing an absent line is a
// no-op, not an error.
func (c *Cart) RemoveItem(productID, variantKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID && c.lines[i].VariantKey == variantKey {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Deduct subtracts the given quantities from the ledger, removing lines
// that reach zero. Called after an order is created from a Lines
// snapshot: only the snapshotted quantities leave the cart, so a line
// added while the order was in flight survives. Absent identities are
// skipped.
func (c *Cart) Deduct(lines []models.CartLine) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, taken := range lines {
		for i := range c.lines {
			if c.lines[i].ProductID == taken.ProductID && c.lines[i].VariantKey == taken.VariantKey {
				c.lines[i].Quantity -= taken.Quantity
				if c.lines[i].Quantity <= 0 {
					c.lines = append(c.lines[:i], c.lines[i+1:]...)
				}
				break
			}
		}
	}
}

// Lines returns a copy of the current line items.
func (c *Cart) Lines() []models.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// Totals recomputes the item count and subtotal from the current lines.
// It never serves a cached result.
func (c *Cart) Totals() Totals {
	c.mu.Lock()
	defer c.mu.Unlock()

	var t Totals
	for _, l := range c.lines {
		t.TotalItems += l.Quantity
		t.Subtotal += l.UnitPrice * int64(l.Quantity)
	}
	return t
}
