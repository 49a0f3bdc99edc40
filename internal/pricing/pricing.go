package pricing

import (
	"math"
	"strings"

	"storefront-service/internal/models"
)

// PromoRule is a named discount rule keyed by a user-entered code.
// An empty EligiblePaymentTypes slice means the rule applies to any
// payment method.
type PromoRule struct {
	Code                 string
	DiscountFraction     float64
	EligiblePaymentTypes []models.PaymentMethodType
}

// AppliesTo reports whether the rule may be used with the given payment type.
func (r PromoRule) AppliesTo(payType models.PaymentMethodType) bool {
	if len(r.EligiblePaymentTypes) == 0 {
		return true
	}
	for _, t := range r.EligiblePaymentTypes {
		if t == payType {
			return true
		}
	}
	return false
}

// Config holds the pricing knobs. Rates and thresholds are inputs, not
// constants of the algorithm.
type Config struct {
	TaxRate               float64
	FreeShippingThreshold int64
	FlatShippingFee       int64
}

// Calculator derives a PricingBreakdown from a subtotal, a promo code
// and a payment method type. It is a pure function of its inputs: same
// inputs always produce the same breakdown.
type Calculator struct {
	cfg   Config
	rules map[string]PromoRule
}

// NewCalculator creates a calculator with the given config and promo
// registry. Codes are matched case-insensitively.
func NewCalculator(cfg Config, rules []PromoRule) *Calculator {
	m := make(map[string]PromoRule, len(rules))
	for _, r := range rules {
		m[strings.ToUpper(r.Code)] = r
	}
	return &Calculator{cfg: cfg, rules: m}
}

// DefaultRules returns the built-in promo registry.
func DefaultRules() []PromoRule {
	return []PromoRule{
		{Code: "SAVE10", DiscountFraction: 0.10},
		{Code: "FIRST20", DiscountFraction: 0.20},
		{Code: "CRYPTO15", DiscountFraction: 0.15,
			EligiblePaymentTypes: []models.PaymentMethodType{models.PaymentTypeWallet}},
	}
}

// Lookup resolves a promo code. Unknown or empty codes resolve to no rule.
func (c *Calculator) Lookup(code string) (PromoRule, bool) {
	r, ok := c.rules[strings.ToUpper(strings.TrimSpace(code))]
	return r, ok
}

// Price computes the full breakdown for a cart subtotal in minor units.
// Derived amounts are rounded half-up to whole minor units. An unknown
// or ineligible promo code is treated as no code, never an error.
func (c *Calculator) Price(subtotal int64, promoCode string, payType models.PaymentMethodType) models.PricingBreakdown {
	var discount int64
	if rule, ok := c.Lookup(promoCode); ok && rule.AppliesTo(payType) {
		discount = roundMinor(float64(subtotal) * rule.DiscountFraction)
	}

	taxableBase := subtotal - discount
	if taxableBase < 0 {
		taxableBase = 0
		discount = subtotal
	}

	tax := roundMinor(float64(taxableBase) * c.cfg.TaxRate)

	var shipping int64
	if subtotal <= c.cfg.FreeShippingThreshold {
		shipping = c.cfg.FlatShippingFee
	}

	return models.PricingBreakdown{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Shipping: shipping,
		Total:    taxableBase + tax + shipping,
	}
}

func roundMinor(v float64) int64 {
	return int64(math.Round(v))
}
