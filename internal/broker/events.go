package broker

import (
	"context"
	"fmt"

	"storefront-service/internal/models"
)

// EventPublisher handles publishing domain events. Publishing is
// best-effort: callers log failures and carry on.
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishOrderCreated publishes OrderCreated event
func (ep *EventPublisher) PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	return ep.producer.PublishEvent(ctx, "order-"+event.OrderID, event)
}

// PublishOrderStatusChanged publishes OrderStatusChanged event
func (ep *EventPublisher) PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	return ep.producer.PublishEvent(ctx, "order-"+event.OrderID, event)
}

// PublishPaymentVerified publishes PaymentVerified event
func (ep *EventPublisher) PublishPaymentVerified(ctx context.Context, event *models.PaymentVerifiedEvent) error {
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("payment-%s", event.GatewayOrderID), event)
}

// PublishWalletDebited publishes WalletDebited event
func (ep *EventPublisher) PublishWalletDebited(ctx context.Context, event *models.WalletDebitedEvent) error {
	return ep.producer.PublishEvent(ctx, "wallet-"+event.Address, event)
}
