package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog. Prices are minor units
// (cents) to avoid floating-point drift.
type Product struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Price         int64               `json:"price"`
	OriginalPrice int64               `json:"original_price,omitempty"`
	Description   string              `json:"description"`
	Image         string              `json:"image"`
	Category      string              `json:"category"`
	Subcategory   string              `json:"subcategory,omitempty"`
	Rating        float64             `json:"rating"`
	ReviewCount   int                 `json:"review_count"`
	InStock       bool                `json:"in_stock"`
	Variants      map[string][]string `json:"variants,omitempty"`
}

// CartLine is a single line item in a cart. Identity is (ProductID, VariantKey);
// the ledger never holds two lines with the same identity.
type CartLine struct {
	ProductID  string `json:"product_id"`
	VariantKey string `json:"variant_key,omitempty"`
	Name       string `json:"name"`
	UnitPrice  int64  `json:"unit_price"`
	Quantity   int    `json:"quantity"`
}

// PricingBreakdown holds the derived monetary amounts for a priced cart,
// all non-negative minor units in a single currency.
type PricingBreakdown struct {
	Subtotal int64 `json:"subtotal"`
	Discount int64 `json:"discount"`
	Tax      int64 `json:"tax"`
	Shipping int64 `json:"shipping"`
	Total    int64 `json:"total"`
}

// Address is a shipping address selected at checkout.
type Address struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Phone      string `json:"phone,omitempty"`
	Line1      string `json:"line1"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

// PaymentMethodType is the closed set of supported payment method kinds.
type PaymentMethodType string

const (
	PaymentTypeCard       PaymentMethodType = "card"
	PaymentTypeWallet     PaymentMethodType = "wallet"
	PaymentTypeUPI        PaymentMethodType = "upi"
	PaymentTypeNetbanking PaymentMethodType = "netbanking"
)

// Valid reports whether t is one of the known payment method types.
func (t PaymentMethodType) Valid() bool {
	switch t {
	case PaymentTypeCard, PaymentTypeWallet, PaymentTypeUPI, PaymentTypeNetbanking:
		return true
	}
	return false
}

// PaymentMethod is a saved payment instrument.
type PaymentMethod struct {
	ID      string            `json:"id"`
	Type    PaymentMethodType `json:"type"`
	Name    string            `json:"name"`
	Details string            `json:"details,omitempty"`
}

// OrderStatus is the closed set of order lifecycle states.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

// Terminal reports whether no further transitions are allowed.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Next returns the successor in the fixed linear progression, and false
// when the status is terminal or unknown.
func (s OrderStatus) Next() (OrderStatus, bool) {
	switch s {
	case OrderStatusPending:
		return OrderStatusConfirmed, true
	case OrderStatusConfirmed:
		return OrderStatusProcessing, true
	case OrderStatusProcessing:
		return OrderStatusShipped, true
	case OrderStatusShipped:
		return OrderStatusDelivered, true
	case OrderStatusDelivered, OrderStatusCancelled:
		return s, false
	}
	return s, false
}

// CanTransitionTo reports whether the transition s -> target is legal:
// one step forward in the linear progression, or to cancelled from any
// non-terminal state. Statuses never regress.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	if target == OrderStatusCancelled {
		return true
	}
	next, ok := s.Next()
	return ok && target == next
}

// Order is an immutable snapshot of a completed checkout. Only Status
// may change after creation, and only through legal transitions.
type Order struct {
	ID                  string           `json:"id"`
	Lines               []CartLine       `json:"lines"`
	Breakdown           PricingBreakdown `json:"breakdown"`
	Status              OrderStatus      `json:"status"`
	PaymentMethodLabel  string           `json:"payment_method"`
	ShippingAddress     Address          `json:"shipping_address"`
	CreatedAt           time.Time        `json:"created_at"`
	EstimatedDeliveryAt time.Time        `json:"estimated_delivery_at"`
}

// WalletTransactionType is the closed set of wallet transaction kinds.
type WalletTransactionType string

const (
	WalletTxSend     WalletTransactionType = "send"
	WalletTxReceive  WalletTransactionType = "receive"
	WalletTxPurchase WalletTransactionType = "purchase"
)

// Wallet transaction statuses
const (
	WalletTxStatusPending   = "pending"
	WalletTxStatusCompleted = "completed"
	WalletTxStatusFailed    = "failed"
)

// WalletTransaction is one entry in a wallet's transaction log.
// Amounts are exact decimals in the wallet's native unit (ETH).
type WalletTransaction struct {
	ID          string                `json:"id"`
	Type        WalletTransactionType `json:"type"`
	Amount      decimal.Decimal       `json:"amount"`
	Timestamp   time.Time             `json:"timestamp"`
	Description string                `json:"description"`
	Status      string                `json:"status"`
}
