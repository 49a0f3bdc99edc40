package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrDeclined is returned when the gateway refuses to collect payment.
var ErrDeclined = errors.New("payment declined by gateway")

// Order is the gateway's record of an authorized collection.
type Order struct {
	GatewayOrderID string `json:"gateway_order_id"`
	Currency       string `json:"currency"`
	AmountMinor    int64  `json:"amount"`
	ReceiptID      string `json:"receipt_id"`
}

// Gateway creates payment orders with an external processor.
type Gateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receiptID, notes string) (*Order, error)
}

// Verifier checks a processor's payment signature.
type Verifier interface {
	VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool
}

// Client is a simulated payment gateway. Declines happen with a fixed
// probability drawn from an injectable random source, so tests can
// force either outcome.
type Client struct {
	keyID       string
	keySecret   string
	declineRate float64
	rng         *rand.Rand
	logger      *zap.Logger
}

// NewClient creates a gateway client. Pass a nil rng for a time-seeded
// source.
func NewClient(keyID, keySecret string, declineRate float64, rng *rand.Rand) *Client {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Client{
		keyID:       keyID,
		keySecret:   keySecret,
		declineRate: declineRate,
		rng:         rng,
		logger:      util.GetLogger(),
	}
}

// CreateOrder authorizes a collection for the given amount. A single
// best-effort attempt: declines are returned as ErrDeclined with no
// automatic retry.
func (c *Client) CreateOrder(ctx context.Context, amountMinor int64, currency, receiptID, notes string) (*Order, error) {
	_, span := util.StartSpan(ctx, "Gateway.CreateOrder")
	defer span.End()

	util.PaymentAttemptsTotal.Inc()

	if amountMinor <= 0 {
		return nil, fmt.Errorf("invalid amount: %d", amountMinor)
	}

	if c.rng.Float64() < c.declineRate {
		util.PaymentDeclinedTotal.Inc()
		c.logger.Warn("Gateway declined payment",
			zap.String("receipt_id", receiptID),
			zap.Int64("amount", amountMinor))
		return nil, ErrDeclined
	}

	order := &Order{
		GatewayOrderID: "order_" + shortID(),
		Currency:       currency,
		AmountMinor:    amountMinor,
		ReceiptID:      receiptID,
	}

	c.logger.Info("Gateway order created",
		zap.String("gateway_order_id", order.GatewayOrderID),
		zap.String("receipt_id", receiptID),
		zap.Int64("amount", amountMinor))

	return order, nil
}

// Sign computes the payment signature the processor would attach:
// HMAC-SHA256 over "gatewayOrderID|gatewayPaymentID" with the shared
// secret, hex encoded.
func (c *Client) Sign(gatewayOrderID, gatewayPaymentID string) string {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a signature in constant time. A mismatch means
// the payment must be treated as unverified.
func (c *Client) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	expected := c.Sign(gatewayOrderID, gatewayPaymentID)
	ok := hmac.Equal([]byte(expected), []byte(signature))
	if !ok {
		util.SignatureMismatchTotal.Inc()
	}
	return ok
}

func shortID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:14]
}
