package cart

import (
	"sync"
	"testing"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func line(productID, variant string, price int64, qty int) models.CartLine {
	return models.CartLine{ProductID: productID, VariantKey: variant, UnitPrice: price, Quantity: qty}
}

func TestAddItemMergesByIdentity(t *testing.T) {
	c := New()

	c.AddItem(line("p1", "M", 1599, 1))
	c.AddItem(line("p1", "M", 1599, 2))
	c.AddItem(line("p1", "L", 1599, 1)) // different variant, separate line
	c.AddItem(line("p2", "", 69500, 1))

	lines := c.Lines()
	assert.Len(t, lines, 3)
	assert.Equal(t, 3, lines[0].Quantity)

	tot := c.Totals()
	assert.Equal(t, 5, tot.TotalItems)
	assert.Equal(t, int64(4*1599+69500), tot.Subtotal)
}

func TestAddItemIgnoresNonPositiveQuantity(t *testing.T) {
	c := New()
	c.AddItem(line("p1", "", 1000, 0))
	c.AddItem(line("p1", "", 1000, -3))
	assert.True(t, c.Empty())
}

func TestUpdateQuantitySetsExactly(t *testing.T) {
	c := New()
	c.AddItem(line("p1", "", 1000, 5))

	c.UpdateQuantity("p1", "", 2)
	assert.Equal(t, 2, c.Lines()[0].Quantity)

	// updating an absent line changes nothing
	c.UpdateQuantity("missing", "", 4)
	assert.Len(t, c.Lines(), 1)
}

func TestUpdateQuantityZeroEqualsRemove(t *testing.T) {
	a, b := New(), New()
	for _, c := range []*Cart{a, b} {
		c.AddItem(line("p1", "", 1000, 2))
		c.AddItem(line("p2", "", 2000, 1))
	}

	a.UpdateQuantity("p1", "", 0)
	b.RemoveItem("p1", "")
	assert.Equal(t, b.Lines(), a.Lines())

	// equivalence holds for absent keys too
	a.UpdateQuantity("ghost", "", 0)
	b.RemoveItem("ghost", "")
	assert.Equal(t, b.Lines(), a.Lines())
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	c := New()
	c.AddItem(line("p1", "", 1000, 1))
	c.RemoveItem("p9", "XL")
	assert.Len(t, c.Lines(), 1)
}

func TestClear(t *testing.T) {
	c := New()
	c.AddItem(line("p1", "", 1000, 3))
	c.Clear()
	assert.True(t, c.Empty())
	assert.Equal(t, Totals{}, c.Totals())
}

func TestDeductRemovesOnlySnapshot(t *testing.T) {
	c := New()
	c.AddItem(line("p1", "", 1599, 2))

	snapshot := c.Lines()
	c.AddItem(line("p2", "", 999, 1)) // added after the snapshot
	c.Deduct(snapshot)

	lines := c.Lines()
	assert.Len(t, lines, 1)
	assert.Equal(t, "p2", lines[0].ProductID)
	assert.Equal(t, 1, c.Totals().TotalItems)
}

func TestDeductKeepsMergedRemainder(t *testing.T) {
	c := New()
	c.AddItem(line("p1", "", 1000, 2))

	snapshot := c.Lines()
	c.AddItem(line("p1", "", 1000, 3)) // merges into the same line
	c.Deduct(snapshot)

	lines := c.Lines()
	assert.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestDeductAbsentIsNoop(t *testing.T) {
	c := New()
	c.AddItem(line("p1", "", 1000, 1))
	c.Deduct([]models.CartLine{line("ghost", "", 500, 2)})
	assert.Equal(t, 1, c.Totals().TotalItems)
}

func TestTotalsRecomputedOnEveryRead(t *testing.T) {
	c := New()
	c.AddItem(line("p1", "", 1599, 2))
	assert.Equal(t, int64(3198), c.Totals().Subtotal)

	c.UpdateQuantity("p1", "", 3)
	assert.Equal(t, int64(4797), c.Totals().Subtotal)
}

func TestConcurrentMutations(t *testing.T) {
	c := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.AddItem(line("p1", "", 100, 1))
		}()
	}
	wg.Wait()

	assert.Len(t, c.Lines(), 1)
	assert.Equal(t, 50, c.Totals().TotalItems)
}
