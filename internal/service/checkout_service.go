package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront-service/internal/gateway"
	"storefront-service/internal/kvstore"
	"storefront-service/internal/models"
	"storefront-service/internal/pricing"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EventPublisher is the slice of the broker the checkout service needs.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error
	PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
	PublishPaymentVerified(ctx context.Context, event *models.PaymentVerifiedEvent) error
}

// Config holds the checkout business knobs.
type Config struct {
	CurrencyCode string
	// WalletRateMinor is the fixed demo exchange rate: minor units per
	// one wallet unit (ETH).
	WalletRateMinor int64
	InitialStatus   models.OrderStatus
	DeliveryDays    int
}

// CreateOrderRequest carries the checkout selections.
type CreateOrderRequest struct {
	Address       *models.Address
	PaymentMethod *models.PaymentMethod
	PromoCode     string
}

// CheckoutService implements the order lifecycle: creating an immutable
// order snapshot from a priced cart and advancing it through the status
// state machine. New orders start in the processing status.
type CheckoutService struct {
	calc      *pricing.Calculator
	gw        gateway.Gateway
	verifier  gateway.Verifier
	publisher EventPublisher
	kv        kvstore.Store
	cfg       Config
	now       func() time.Time
	logger    *zap.Logger
}

// NewCheckoutService creates a checkout service. publisher and kv may
// be nil; now may be nil for the wall clock.
func NewCheckoutService(
	calc *pricing.Calculator,
	gw gateway.Gateway,
	verifier gateway.Verifier,
	publisher EventPublisher,
	kv kvstore.Store,
	cfg Config,
	now func() time.Time,
) *CheckoutService {
	if cfg.CurrencyCode == "" {
		cfg.CurrencyCode = "INR"
	}
	if cfg.WalletRateMinor <= 0 {
		cfg.WalletRateMinor = 200000
	}
	if cfg.InitialStatus == "" {
		cfg.InitialStatus = models.OrderStatusProcessing
	}
	if cfg.DeliveryDays <= 0 {
		cfg.DeliveryDays = 7
	}
	if now == nil {
		now = time.Now
	}
	return &CheckoutService{
		calc:      calc,
		gw:        gw,
		verifier:  verifier,
		publisher: publisher,
		kv:        kv,
		cfg:       cfg,
		now:       now,
		logger:    util.GetLogger(),
	}
}

// Quote prices the session's current cart for a promo code and payment
// type without touching any state.
func (s *CheckoutService) Quote(sess *Session, promoCode string, payType models.PaymentMethodType) models.PricingBreakdown {
	return s.calc.Price(sess.Cart.Totals().Subtotal, promoCode, payType)
}

// WalletAmount converts a minor-unit total to wallet units at the fixed
// demo exchange rate.
func (s *CheckoutService) WalletAmount(totalMinor int64) decimal.Decimal {
	return decimal.NewFromInt(totalMinor).Div(decimal.NewFromInt(s.cfg.WalletRateMinor))
}

// CreateOrder validates the checkout selections, prices the cart, takes
// payment and, on success, atomically records the order and removes the
// purchased lines from the cart. On any failure the cart is left
// untouched so the user can retry. Order creation for one session is
// serialized.
func (s *CheckoutService) CreateOrder(ctx context.Context, sess *Session, req *CreateOrderRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.CreateOrder")
	defer span.End()

	start := s.now()
	defer func() {
		util.CheckoutLatency.Observe(time.Since(start).Seconds())
	}()

	sess.checkoutMu.Lock()
	defer sess.checkoutMu.Unlock()

	lines := sess.Cart.Lines()
	if len(lines) == 0 {
		util.CheckoutFailedTotal.WithLabelValues("empty_cart").Inc()
		return nil, &ValidationError{Field: "cart", Reason: "cart is empty"}
	}
	if req.Address == nil {
		util.CheckoutFailedTotal.WithLabelValues("missing_address").Inc()
		return nil, &ValidationError{Field: "address", Reason: "no shipping address selected"}
	}
	if req.PaymentMethod == nil {
		util.CheckoutFailedTotal.WithLabelValues("missing_payment_method").Inc()
		return nil, &ValidationError{Field: "payment_method", Reason: "no payment method selected"}
	}
	if !req.PaymentMethod.Type.Valid() {
		util.CheckoutFailedTotal.WithLabelValues("invalid_payment_method").Inc()
		return nil, &ValidationError{Field: "payment_method", Reason: fmt.Sprintf("unknown type %q", req.PaymentMethod.Type)}
	}

	var subtotal int64
	for _, l := range lines {
		subtotal += l.UnitPrice * int64(l.Quantity)
	}
	breakdown := s.calc.Price(subtotal, req.PromoCode, req.PaymentMethod.Type)

	walletPay := req.PaymentMethod.Type == models.PaymentTypeWallet
	walletTotal := s.WalletAmount(breakdown.Total)
	if walletPay && (sess.Wallet == nil || !sess.Wallet.Connected()) {
		util.CheckoutFailedTotal.WithLabelValues("wallet_not_connected").Inc()
		return nil, &ValidationError{Field: "payment_method", Reason: "wallet not connected"}
	}

	orderID := "ORD-" + uuid.New().String()[:8]

	// the wallet is debited before the gateway charge: balance check
	// and debit share one wallet lock inside RecordPurchase, so a
	// concurrent send cannot drain the balance between them. A gateway
	// failure below refunds the debit.
	if walletPay {
		if !sess.Wallet.RecordPurchase(ctx, walletTotal, "Order "+orderID) {
			util.CheckoutFailedTotal.WithLabelValues("insufficient_funds").Inc()
			return nil, fmt.Errorf("need %s but have %s: %w",
				walletTotal.Round(4), sess.Wallet.Balance(), ErrInsufficientFunds)
		}
	}

	receiptID := uuid.New().String()
	gwOrder, err := s.gw.CreateOrder(ctx, breakdown.Total, s.cfg.CurrencyCode, receiptID, "storefront checkout")
	if err != nil {
		if walletPay {
			sess.Wallet.Credit(ctx, walletTotal, "Refund for order "+orderID)
		}
		if errors.Is(err, gateway.ErrDeclined) {
			util.CheckoutFailedTotal.WithLabelValues("declined").Inc()
			return nil, fmt.Errorf("gateway refused the charge: %w", ErrPaymentDeclined)
		}
		util.CheckoutFailedTotal.WithLabelValues("gateway_error").Inc()
		return nil, fmt.Errorf("gateway order creation failed: %w", err)
	}

	createdAt := s.now()
	order := models.Order{
		ID:                  orderID,
		Lines:               lines,
		Breakdown:           breakdown,
		Status:              s.cfg.InitialStatus,
		PaymentMethodLabel:  req.PaymentMethod.Name,
		ShippingAddress:     *req.Address,
		CreatedAt:           createdAt,
		EstimatedDeliveryAt: createdAt.AddDate(0, 0, s.cfg.DeliveryDays),
	}

	// order recorded and the snapshotted lines removed together;
	// nothing below can fail. Deduct rather than Clear: a line added
	// to the cart while payment was in flight is not part of this
	// order and must stay in the cart.
	sess.addOrder(order)
	sess.Cart.Deduct(lines)

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("session_id", sess.ID),
		zap.String("gateway_order_id", gwOrder.GatewayOrderID),
		zap.Int64("total", breakdown.Total))

	s.persistOrders(ctx, sess)

	if s.publisher != nil {
		event := &models.OrderCreatedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeOrderCreated,
				Timestamp: createdAt,
			},
			OrderID:       order.ID,
			SessionID:     sess.ID,
			Total:         breakdown.Total,
			PaymentMethod: string(req.PaymentMethod.Type),
			Lines:         order.Lines,
		}
		if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
			s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
		}
	}

	return &order, nil
}

// GetOrder looks up an order in the session's history. An unknown id is
// reported through found, not an error, so the caller can render an
// empty state.
func (s *CheckoutService) GetOrder(sess *Session, orderID string) (models.Order, bool) {
	return sess.getOrder(orderID)
}

// ListOrders returns the session's order history, newest first.
func (s *CheckoutService) ListOrders(sess *Session) []models.Order {
	return sess.listOrders()
}

// CancelOrder moves an order to cancelled if the state machine allows
// it.
func (s *CheckoutService) CancelOrder(ctx context.Context, sess *Session, orderID string) (models.Order, error) {
	order, ok := sess.getOrder(orderID)
	if !ok {
		return models.Order{}, fmt.Errorf("order %s: %w", orderID, ErrOrderNotFound)
	}
	if !order.Status.CanTransitionTo(models.OrderStatusCancelled) {
		return models.Order{}, fmt.Errorf("cannot cancel %s order %s: %w", order.Status, orderID, ErrIllegalTransition)
	}

	from := order.Status
	sess.setOrderStatus(orderID, models.OrderStatusCancelled)
	order.Status = models.OrderStatusCancelled

	util.OrdersCancelledTotal.Inc()
	s.logger.Info("Order cancelled",
		zap.String("order_id", orderID),
		zap.String("from", from.String()))

	s.persistOrders(ctx, sess)
	s.publishStatusChange(ctx, orderID, from, models.OrderStatusCancelled)

	return order, nil
}

// VerifyPayment checks a gateway payment signature. A mismatch means
// the payment is unverified and no order may be confirmed from it.
func (s *CheckoutService) VerifyPayment(ctx context.Context, gatewayOrderID, gatewayPaymentID, signature string) error {
	ctx, span := util.StartSpan(ctx, "CheckoutService.VerifyPayment")
	defer span.End()

	if !s.verifier.VerifySignature(gatewayOrderID, gatewayPaymentID, signature) {
		s.logger.Warn("Payment signature mismatch",
			zap.String("gateway_order_id", gatewayOrderID),
			zap.String("gateway_payment_id", gatewayPaymentID))
		return fmt.Errorf("payment %s: %w", gatewayPaymentID, ErrSignatureMismatch)
	}

	if s.publisher != nil {
		event := &models.PaymentVerifiedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypePaymentVerified,
				Timestamp: s.now(),
			},
			GatewayOrderID:   gatewayOrderID,
			GatewayPaymentID: gatewayPaymentID,
		}
		if err := s.publisher.PublishPaymentVerified(ctx, event); err != nil {
			s.logger.Error("Failed to publish PaymentVerified event", zap.Error(err))
		}
	}
	return nil
}

func (s *CheckoutService) publishStatusChange(ctx context.Context, orderID string, from, to models.OrderStatus) {
	if s.publisher == nil {
		return
	}
	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderStatusChanged,
			Timestamp: s.now(),
		},
		OrderID: orderID,
		From:    from,
		To:      to,
	}
	if err := s.publisher.PublishOrderStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
	}
}

// persistOrders snapshots the session's order history to the key/value
// store. Best-effort; failures are logged and ignored.
func (s *CheckoutService) persistOrders(ctx context.Context, sess *Session) {
	if s.kv == nil {
		return
	}
	raw, err := json.Marshal(sess.listOrders())
	if err != nil {
		s.logger.Warn("Failed to marshal order history", zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, "orders:"+sess.ID, string(raw)); err != nil {
		s.logger.Warn("Failed to persist order history",
			zap.String("session_id", sess.ID), zap.Error(err))
	}
}
