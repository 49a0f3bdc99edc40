package wallet

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"storefront-service/internal/kvstore"
	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Persisted snapshot keys
const (
	keyAddress      = "wallet_address"
	keyBalance      = "wallet_balance"
	keyTransactions = "wallet_transactions"
)

const addressHexLen = 40

// DebitPublisher receives wallet debit events; may be nil.
type DebitPublisher interface {
	PublishWalletDebited(ctx context.Context, event *models.WalletDebitedEvent) error
}

// Wallet simulates a crypto-style account: a pseudo-random address, a
// balance that never goes negative, and a transaction log that always
// agrees with the balance. The snapshot is persisted best-effort to a
// key/value store; persistence failures never fail the operation.
type Wallet struct {
	mu           sync.Mutex
	connected    bool
	address      string
	balance      decimal.Decimal
	transactions []models.WalletTransaction

	kv        kvstore.Store
	rng       *rand.Rand
	now       func() time.Time
	publisher DebitPublisher
	logger    *zap.Logger
}

// New creates a disconnected wallet. rng and now are injectable so
// tests can force specific addresses, balances and timestamps; pass nil
// for production defaults.
func New(kv kvstore.Store, rng *rand.Rand, now func() time.Time) *Wallet {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &Wallet{
		kv:      kv,
		rng:     rng,
		now:     now,
		balance: decimal.Zero,
		logger:  util.GetLogger(),
	}
}

// SetPublisher attaches a best-effort debit event publisher.
func (w *Wallet) SetPublisher(p DebitPublisher) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.publisher = p
}

// Connected reports whether the wallet is connected.
func (w *Wallet) Connected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.connected
}

// Address returns the connected address, empty when disconnected.
func (w *Wallet) Address() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.address
}

// Balance returns the current balance.
func (w *Wallet) Balance() decimal.Decimal {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.balance
}

// Transactions returns a copy of the transaction log, newest first.
func (w *Wallet) Transactions() []models.WalletTransaction {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]models.WalletTransaction, len(w.transactions))
	copy(out, w.transactions)
	return out
}

// Connect assigns a pseudo-random address and initial balance and seeds
// a small transaction history. Connecting while already connected is a
// no-op, so history is never duplicated.
func (w *Wallet) Connect(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.connected {
		return
	}

	w.address = w.randomAddress()
	w.balance = w.randomBalance()
	w.transactions = w.seedTransactions()
	w.connected = true

	util.WalletConnectsTotal.Inc()
	w.logger.Info("Wallet connected",
		zap.String("address", w.address),
		zap.String("balance", w.balance.String()))

	w.persist(ctx)
}

// Disconnect clears the active session state and removes the persisted
// snapshot.
func (w *Wallet) Disconnect(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.connected = false
	w.address = ""
	w.balance = decimal.Zero
	w.transactions = nil

	if w.kv != nil {
		for _, key := range []string{keyAddress, keyBalance, keyTransactions} {
			if err := w.kv.Remove(ctx, key); err != nil {
				w.logger.Warn("Failed to remove wallet key", zap.String("key", key), zap.Error(err))
			}
		}
	}
}

// Send debits the balance and appends a completed send transaction.
// It returns false, without recording anything, when the amount exceeds
// the balance or is not positive, or the wallet is disconnected.
func (w *Wallet) Send(ctx context.Context, to string, amount decimal.Decimal, description string) bool {
	return w.debit(ctx, models.WalletTxSend, amount, description)
}

// RecordPurchase debits the balance for a wallet-paid checkout, with
// the same discipline as Send.
func (w *Wallet) RecordPurchase(ctx context.Context, amount decimal.Decimal, description string) bool {
	return w.debit(ctx, models.WalletTxPurchase, amount, description)
}

// Credit adds amount back to the balance and appends a completed
// receive transaction. Used to compensate a RecordPurchase when the
// charge it paid for does not go through. Returns false when the
// wallet is disconnected or the amount is not positive.
func (w *Wallet) Credit(ctx context.Context, amount decimal.Decimal, description string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.connected || !amount.IsPositive() {
		return false
	}

	w.balance = w.balance.Add(amount)
	tx := models.WalletTransaction{
		ID:          uuid.New().String(),
		Type:        models.WalletTxReceive,
		Amount:      amount,
		Timestamp:   w.now(),
		Description: description,
		Status:      models.WalletTxStatusCompleted,
	}
	w.transactions = append([]models.WalletTransaction{tx}, w.transactions...)

	w.logger.Info("Wallet credited",
		zap.String("tx_id", tx.ID),
		zap.String("amount", amount.String()),
		zap.String("balance", w.balance.String()))

	w.persist(ctx)
	return true
}

func (w *Wallet) debit(ctx context.Context, txType models.WalletTransactionType, amount decimal.Decimal, description string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.connected || !amount.IsPositive() || amount.GreaterThan(w.balance) {
		util.WalletDebitsFailed.Inc()
		return false
	}

	// balance and log must never disagree about a completed debit,
	// so both change under the same lock
	w.balance = w.balance.Sub(amount)
	tx := models.WalletTransaction{
		ID:          uuid.New().String(),
		Type:        txType,
		Amount:      amount,
		Timestamp:   w.now(),
		Description: description,
		Status:      models.WalletTxStatusCompleted,
	}
	w.transactions = append([]models.WalletTransaction{tx}, w.transactions...)

	util.WalletDebitsTotal.Inc()
	w.logger.Info("Wallet debited",
		zap.String("tx_id", tx.ID),
		zap.String("type", string(txType)),
		zap.String("amount", amount.String()),
		zap.String("balance", w.balance.String()))

	w.persist(ctx)

	if w.publisher != nil {
		event := &models.WalletDebitedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeWalletDebited,
				Timestamp: tx.Timestamp,
			},
			Address: w.address,
			TxID:    tx.ID,
			TxType:  txType,
			Amount:  amount,
		}
		if err := w.publisher.PublishWalletDebited(ctx, event); err != nil {
			w.logger.Error("Failed to publish WalletDebited event", zap.Error(err))
		}
	}
	return true
}

func (w *Wallet) randomAddress() string {
	const hexDigits = "0123456789abcdef"
	buf := make([]byte, addressHexLen)
	for i := range buf {
		buf[i] = hexDigits[w.rng.Intn(len(hexDigits))]
	}
	return "0x" + string(buf)
}

func (w *Wallet) randomBalance() decimal.Decimal {
	return decimal.NewFromFloat(w.rng.Float64()*10 + 0.1).Round(4)
}

func (w *Wallet) seedTransactions() []models.WalletTransaction {
	now := w.now()
	return []models.WalletTransaction{
		{
			ID:          uuid.New().String(),
			Type:        models.WalletTxReceive,
			Amount:      decimal.NewFromFloat(2.5),
			Timestamp:   now.Add(-24 * time.Hour),
			Description: "Received ETH",
			Status:      models.WalletTxStatusCompleted,
		},
		{
			ID:          uuid.New().String(),
			Type:        models.WalletTxPurchase,
			Amount:      decimal.NewFromFloat(0.8),
			Timestamp:   now.Add(-12 * time.Hour),
			Description: "Purchased Men's Casual Shirt",
			Status:      models.WalletTxStatusCompleted,
		},
		{
			ID:          uuid.New().String(),
			Type:        models.WalletTxSend,
			Amount:      decimal.NewFromFloat(1.2),
			Timestamp:   now.Add(-6 * time.Hour),
			Description: "Sent to 0x742d...8f3a",
			Status:      models.WalletTxStatusPending,
		},
	}
}

// persist writes the snapshot to the key/value store. Callers hold the
// mutex. Failures are logged and otherwise ignored.
func (w *Wallet) persist(ctx context.Context) {
	if w.kv == nil {
		return
	}

	txs, err := json.Marshal(w.transactions)
	if err != nil {
		w.logger.Warn("Failed to marshal wallet transactions", zap.Error(err))
		return
	}

	for key, value := range map[string]string{
		keyAddress:      w.address,
		keyBalance:      w.balance.String(),
		keyTransactions: string(txs),
	} {
		if err := w.kv.Set(ctx, key, value); err != nil {
			w.logger.Warn("Failed to persist wallet key", zap.String("key", key), zap.Error(err))
		}
	}
}
