package service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"storefront-service/internal/cart"
	"storefront-service/internal/gateway"
	"storefront-service/internal/kvstore"
	"storefront-service/internal/models"
	"storefront-service/internal/pricing"
	"storefront-service/internal/wallet"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testClock = func() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func testSession() *Session {
	w := wallet.New(nil, rand.New(rand.NewSource(7)), testClock)
	return NewSession("sess-1", cart.New(), w)
}

func testService(declineRate float64, kv kvstore.Store) *CheckoutService {
	gw := gateway.NewClient("key-id", "key-secret", declineRate, rand.New(rand.NewSource(1)))
	calc := pricing.NewCalculator(
		pricing.Config{TaxRate: 0.18, FreeShippingThreshold: 50000, FlatShippingFee: 5000},
		pricing.DefaultRules(),
	)
	cfg := Config{CurrencyCode: "INR", WalletRateMinor: 200000, DeliveryDays: 7}
	return NewCheckoutService(calc, gw, gw, nil, kv, cfg, testClock)
}

func addLine(sess *Session, id string, price int64, qty int) {
	sess.Cart.AddItem(models.CartLine{ProductID: id, Name: "item " + id, UnitPrice: price, Quantity: qty})
}

func cardMethod() *models.PaymentMethod {
	return &models.PaymentMethod{ID: "pm-1", Type: models.PaymentTypeCard, Name: "Visa **** 4242"}
}

func walletMethod() *models.PaymentMethod {
	return &models.PaymentMethod{ID: "pm-2", Type: models.PaymentTypeWallet, Name: "ETH Wallet"}
}

func testAddress() *models.Address {
	return &models.Address{ID: "addr-1", Name: "Home", Line1: "42 MG Road", City: "Bengaluru", State: "KA", PostalCode: "560001"}
}

func TestCreateOrderSuccess(t *testing.T) {
	svc := testService(0, nil)
	sess := testSession()
	addLine(sess, "1", 1599, 2)

	order, err := svc.CreateOrder(context.Background(), sess, &CreateOrderRequest{
		Address:       testAddress(),
		PaymentMethod: cardMethod(),
		PromoCode:     "SAVE10",
	})
	require.NoError(t, err)

	assert.Contains(t, order.ID, "ORD-")
	assert.Equal(t, models.OrderStatusProcessing, order.Status)
	assert.Equal(t, "Visa **** 4242", order.PaymentMethodLabel)
	assert.Equal(t, testClock(), order.CreatedAt)
	assert.Equal(t, testClock().AddDate(0, 0, 7), order.EstimatedDeliveryAt)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, 2, order.Lines[0].Quantity)

	// subtotal 3198, SAVE10 -320, tax 18% of 2878 = 518, flat shipping 5000
	assert.Equal(t, int64(3198), order.Breakdown.Subtotal)
	assert.Equal(t, int64(320), order.Breakdown.Discount)
	assert.Equal(t, int64(518), order.Breakdown.Tax)
	assert.Equal(t, int64(5000), order.Breakdown.Shipping)
	assert.Equal(t, int64(8396), order.Breakdown.Total)

	// order recorded AND cart cleared
	assert.True(t, sess.Cart.Empty())
	got, found := svc.GetOrder(sess, order.ID)
	require.True(t, found)
	assert.Equal(t, order.ID, got.ID)
}

func TestCreateOrderEmptyCart(t *testing.T) {
	svc := testService(0, nil)
	sess := testSession()

	_, err := svc.CreateOrder(context.Background(), sess, &CreateOrderRequest{
		Address:       testAddress(),
		PaymentMethod: cardMethod(),
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "cart", verr.Field)
	assert.Empty(t, svc.ListOrders(sess))
}

func TestCreateOrderMissingSelections(t *testing.T) {
	svc := testService(0, nil)
	sess := testSession()
	addLine(sess, "1", 1000, 1)

	var verr *ValidationError

	_, err := svc.CreateOrder(context.Background(), sess, &CreateOrderRequest{PaymentMethod: cardMethod()})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "address", verr.Field)

	_, err = svc.CreateOrder(context.Background(), sess, &CreateOrderRequest{Address: testAddress()})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "payment_method", verr.Field)

	_, err = svc.CreateOrder(context.Background(), sess, &CreateOrderRequest{
		Address:       testAddress(),
		PaymentMethod: &models.PaymentMethod{ID: "pm-x", Type: "cheque", Name: "Cheque"},
	})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "payment_method", verr.Field)

	// cart untouched by every failure
	assert.Equal(t, 1, sess.Cart.Totals().TotalItems)
}

func TestCreateOrderDeclinedPreservesCart(t *testing.T) {
	svc := testService(1, nil) // gateway always declines
	sess := testSession()
	addLine(sess, "1", 1599, 2)

	_, err := svc.CreateOrder(context.Background(), sess, &CreateOrderRequest{
		Address:       testAddress(),
		PaymentMethod: cardMethod(),
	})

	assert.ErrorIs(t, err, ErrPaymentDeclined)
	assert.Equal(t, 2, sess.Cart.Totals().TotalItems)
	assert.Empty(t, svc.ListOrders(sess))
}

func TestCreateOrderWalletNotConnected(t *testing.T) {
	svc := testService(0, nil)
	sess := testSession()
	addLine(sess, "1", 1599, 1)

	_, err := svc.CreateOrder(context.Background(), sess, &CreateOrderRequest{
		Address:       testAddress(),
		PaymentMethod: walletMethod(),
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "payment_method", verr.Field)
}

func TestCreateOrderWalletInsufficientFunds(t *testing.T) {
	svc := testService(0, nil)
	sess := testSession()
	sess.Wallet.Connect(context.Background())
	// total will be ~0.04 ETH at rate 200000; a huge cart exceeds any seed balance
	addLine(sess, "11", 99999, 50)

	_, err := svc.CreateOrder(context.Background(), sess, &CreateOrderRequest{
		Address:       testAddress(),
		PaymentMethod: walletMethod(),
	})

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 50, sess.Cart.Totals().TotalItems)
	assert.Empty(t, svc.ListOrders(sess))
}

func TestCreateOrderWalletPayment(t *testing.T) {
	svc := testService(0, nil)
	sess := testSession()
	sess.Wallet.Connect(context.Background())
	before := sess.Wallet.Balance()
	addLine(sess, "1", 1599, 2)

	order, err := svc.CreateOrder(context.Background(), sess, &CreateOrderRequest{
		Address:       testAddress(),
		PaymentMethod: walletMethod(),
		PromoCode:     "CRYPTO15",
	})
	require.NoError(t, err)

	// CRYPTO15 applies to wallet payments
	assert.Equal(t, int64(480), order.Breakdown.Discount)

	debit := svc.WalletAmount(order.Breakdown.Total)
	assert.True(t, sess.Wallet.Balance().Equal(before.Sub(debit)))

	txs := sess.Wallet.Transactions()
	require.NotEmpty(t, txs)
	assert.Equal(t, models.WalletTxPurchase, txs[0].Type)
	assert.Equal(t, "Order "+order.ID, txs[0].Description)
}

func TestCreateOrderWalletRefundedOnDecline(t *testing.T) {
	svc := testService(1, nil) // gateway always declines
	sess := testSession()
	sess.Wallet.Connect(context.Background())
	before := sess.Wallet.Balance()
	addLine(sess, "1", 1599, 2)

	_, err := svc.CreateOrder(context.Background(), sess, &CreateOrderRequest{
		Address:       testAddress(),
		PaymentMethod: walletMethod(),
	})
	assert.ErrorIs(t, err, ErrPaymentDeclined)

	// the debit is compensated in full, cart preserved, no order
	assert.True(t, sess.Wallet.Balance().Equal(before))
	assert.Equal(t, 2, sess.Cart.Totals().TotalItems)
	assert.Empty(t, svc.ListOrders(sess))

	txs := sess.Wallet.Transactions()
	require.GreaterOrEqual(t, len(txs), 2)
	assert.Equal(t, models.WalletTxReceive, txs[0].Type)
	assert.Equal(t, models.WalletTxPurchase, txs[1].Type)
	assert.True(t, txs[0].Amount.Equal(txs[1].Amount))
}

// blockingGateway parks CreateOrder until released so tests can
// interleave cart activity with an in-flight checkout.
type blockingGateway struct {
	entered chan struct{}
	release chan struct{}
}

func (g *blockingGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receiptID, notes string) (*gateway.Order, error) {
	g.entered <- struct{}{}
	<-g.release
	return &gateway.Order{
		GatewayOrderID: "order_blocked",
		Currency:       currency,
		AmountMinor:    amountMinor,
		ReceiptID:      receiptID,
	}, nil
}

func TestCreateOrderConcurrentCartAddSurvives(t *testing.T) {
	gw := &blockingGateway{entered: make(chan struct{}), release: make(chan struct{})}
	verifier := gateway.NewClient("key-id", "key-secret", 0, rand.New(rand.NewSource(1)))
	calc := pricing.NewCalculator(
		pricing.Config{TaxRate: 0.18, FreeShippingThreshold: 50000, FlatShippingFee: 5000},
		pricing.DefaultRules(),
	)
	svc := NewCheckoutService(calc, gw, verifier, nil, nil,
		Config{CurrencyCode: "INR", WalletRateMinor: 200000, DeliveryDays: 7}, testClock)

	sess := testSession()
	addLine(sess, "1", 1599, 2)

	type result struct {
		order *models.Order
		err   error
	}
	done := make(chan result, 1)
	go func() {
		order, err := svc.CreateOrder(context.Background(), sess, &CreateOrderRequest{
			Address:       testAddress(),
			PaymentMethod: cardMethod(),
		})
		done <- result{order, err}
	}()

	<-gw.entered
	addLine(sess, "2", 999, 1) // arrives while payment is in flight
	close(gw.release)

	res := <-done
	require.NoError(t, res.err)
	require.Len(t, res.order.Lines, 1)
	assert.Equal(t, "1", res.order.Lines[0].ProductID)

	// the in-flight addition is in no order and must still be in the cart
	lines := sess.Cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "2", lines[0].ProductID)
	assert.Equal(t, 1, sess.Cart.Totals().TotalItems)
}

func TestCreateOrderPersistsHistory(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	svc := testService(0, kv)
	sess := testSession()
	addLine(sess, "1", 1599, 1)

	order, err := svc.CreateOrder(context.Background(), sess, &CreateOrderRequest{
		Address:       testAddress(),
		PaymentMethod: cardMethod(),
	})
	require.NoError(t, err)

	raw, ok, _ := kv.Get(context.Background(), "orders:sess-1")
	require.True(t, ok)
	assert.Contains(t, raw, order.ID)
}

func TestGetOrderNotFound(t *testing.T) {
	svc := testService(0, nil)
	sess := testSession()

	_, found := svc.GetOrder(sess, "ORD-missing")
	assert.False(t, found)
}

func TestCancelOrder(t *testing.T) {
	svc := testService(0, nil)
	sess := testSession()
	addLine(sess, "1", 1599, 1)

	order, err := svc.CreateOrder(context.Background(), sess, &CreateOrderRequest{
		Address:       testAddress(),
		PaymentMethod: cardMethod(),
	})
	require.NoError(t, err)

	cancelled, err := svc.CancelOrder(context.Background(), sess, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)

	// terminal: cancelling again is illegal
	_, err = svc.CancelOrder(context.Background(), sess, order.ID)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	_, err = svc.CancelOrder(context.Background(), sess, "ORD-missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestVerifyPayment(t *testing.T) {
	gw := gateway.NewClient("key-id", "key-secret", 0, rand.New(rand.NewSource(1)))
	svc := testService(0, nil)

	sig := gw.Sign("order_abc", "pay_def")
	assert.NoError(t, svc.VerifyPayment(context.Background(), "order_abc", "pay_def", sig))

	err := svc.VerifyPayment(context.Background(), "order_abc", "pay_def", "bogus")
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestQuote(t *testing.T) {
	svc := testService(0, nil)
	sess := testSession()
	addLine(sess, "1", 10000, 1)

	b := svc.Quote(sess, "FIRST20", models.PaymentTypeCard)
	assert.Equal(t, int64(2000), b.Discount)

	// quoting leaves the cart alone
	assert.Equal(t, 1, sess.Cart.Totals().TotalItems)
}

func TestWalletAmount(t *testing.T) {
	svc := testService(0, nil)

	// 8396 minor units at 200000 minor units per ETH
	assert.True(t, svc.WalletAmount(8396).Equal(decimal.RequireFromString("0.04198")))
}
