package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeOrderCreated       = "ORDER_CREATED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
	EventTypePaymentVerified    = "PAYMENT_VERIFIED"
	EventTypeWalletDebited      = "WALLET_DEBITED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderCreatedEvent published when a checkout produces an order
type OrderCreatedEvent struct {
	BaseEvent
	OrderID       string     `json:"order_id"`
	SessionID     string     `json:"session_id"`
	Total         int64      `json:"total"`
	PaymentMethod string     `json:"payment_method"`
	Lines         []CartLine `json:"lines"`
}

// OrderStatusChangedEvent published on every legal status transition
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID string      `json:"order_id"`
	From    OrderStatus `json:"from"`
	To      OrderStatus `json:"to"`
}

// PaymentVerifiedEvent published when a gateway signature check passes
type PaymentVerifiedEvent struct {
	BaseEvent
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
}

// WalletDebitedEvent published when a wallet send or purchase completes
type WalletDebitedEvent struct {
	BaseEvent
	Address string                `json:"address"`
	TxID    string                `json:"tx_id"`
	TxType  WalletTransactionType `json:"tx_type"`
	Amount  decimal.Decimal       `json:"amount"`
}
