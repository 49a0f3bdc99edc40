package service

import (
	"sync"

	"storefront-service/internal/cart"
	"storefront-service/internal/models"
	"storefront-service/internal/wallet"
)

// Session is the explicit per-user state: the active cart, the wallet,
// and the order history. Nothing ambient; handlers fetch a session and
// pass it down, so tests can construct isolated ones.
type Session struct {
	ID     string
	Cart   *cart.Cart
	Wallet *wallet.Wallet

	// checkoutMu serializes order creation for the session
	checkoutMu sync.Mutex

	ordersMu   sync.RWMutex
	orders     []models.Order // newest first
	orderIndex map[string]int
}

// NewSession creates an empty session.
func NewSession(id string, c *cart.Cart, w *wallet.Wallet) *Session {
	return &Session{
		ID:         id,
		Cart:       c,
		Wallet:     w,
		orderIndex: make(map[string]int),
	}
}

func (s *Session) addOrder(order models.Order) {
	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()
	s.orders = append([]models.Order{order}, s.orders...)
	s.orderIndex = make(map[string]int, len(s.orders))
	for i := range s.orders {
		s.orderIndex[s.orders[i].ID] = i
	}
}

func (s *Session) getOrder(id string) (models.Order, bool) {
	s.ordersMu.RLock()
	defer s.ordersMu.RUnlock()
	i, ok := s.orderIndex[id]
	if !ok {
		return models.Order{}, false
	}
	return s.orders[i], true
}

func (s *Session) listOrders() []models.Order {
	s.ordersMu.RLock()
	defer s.ordersMu.RUnlock()
	out := make([]models.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// setOrderStatus applies a status transition after it has been
// validated against the state machine.
func (s *Session) setOrderStatus(id string, status models.OrderStatus) bool {
	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()
	i, ok := s.orderIndex[id]
	if !ok {
		return false
	}
	s.orders[i].Status = status
	return true
}

// SessionManager hands out sessions keyed by id, creating them on
// first use.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	factory  func(id string) *Session
}

// NewSessionManager creates a manager that builds sessions with factory.
func NewSessionManager(factory func(id string) *Session) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		factory:  factory,
	}
}

// Get returns the session for id, creating it if absent.
func (m *SessionManager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s
	}
	s := m.factory(id)
	m.sessions[id] = s
	return s
}
