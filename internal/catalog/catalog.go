package catalog

import (
	"sort"
	"strings"

	"storefront-service/internal/models"
)

// Sort keys accepted by Sort.
const (
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
	SortName      = "name"
)

// Category is a catalog category with its product count.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Catalog is a read-only product lookup over an externally-managed
// dataset. It owns no mutable state, so it is safe for concurrent use.
type Catalog struct {
	products []models.Product
	byID     map[string]models.Product
}

// New creates a catalog over the given dataset.
func New(products []models.Product) *Catalog {
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Catalog{products: products, byID: byID}
}

// NewSeeded creates a catalog over the built-in demo dataset.
func NewSeeded() *Catalog {
	return New(seedProducts())
}

// All returns every product, in dataset order.
func (c *Catalog) All() []models.Product {
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// ByID looks up a product, reporting whether it exists.
func (c *Catalog) ByID(id string) (models.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// ByCategory returns products in the named category, matched
// case-insensitively. "all" (or empty) returns everything.
func (c *Catalog) ByCategory(category string) []models.Product {
	category = strings.ToLower(category)
	if category == "" || category == "all" {
		return c.All()
	}

	var out []models.Product
	for _, p := range c.products {
		if strings.ToLower(p.Category) == category {
			out = append(out, p)
		}
	}
	return out
}

// Search returns products whose name, description or category contains
// the query, case-insensitively.
func (c *Catalog) Search(query string) []models.Product {
	q := strings.ToLower(query)

	var out []models.Product
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, p)
		}
	}
	return out
}

// FilterByPrice keeps products with minPrice <= price <= maxPrice,
// in minor units.
func FilterByPrice(products []models.Product, minPrice, maxPrice int64) []models.Product {
	var out []models.Product
	for _, p := range products {
		if p.Price >= minPrice && p.Price <= maxPrice {
			out = append(out, p)
		}
	}
	return out
}

// Sort orders a product list by the given key. Unknown keys leave the
// order unchanged.
func Sort(products []models.Product, sortBy string) []models.Product {
	out := make([]models.Product, len(products))
	copy(out, products)

	switch sortBy {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case SortName:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	}
	return out
}

// Categories returns the distinct categories with product counts, in
// dataset order.
func (c *Catalog) Categories() []Category {
	counts := make(map[string]int)
	var order []string
	for _, p := range c.products {
		if _, seen := counts[p.Category]; !seen {
			order = append(order, p.Category)
		}
		counts[p.Category]++
	}

	out := make([]Category, 0, len(order))
	for _, name := range order {
		out = append(out, Category{
			ID:    strings.ToLower(name),
			Name:  name,
			Count: counts[name],
		})
	}
	return out
}
