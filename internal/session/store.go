// Package session gives every browsing session exactly one cart. Carts live in a bounded
// in-memory LRU keyed by a ULID carried in a signed cookie; nothing is persisted across restarts.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"

	"github.com/VAlejandro22/ecommerce-iq/internal/cart"
)

// DefaultMaxCarts bounds the store when no size is given.
const DefaultMaxCarts = 10000

// ErrNoSession is returned when the context carries no session id.
var ErrNoSession = errors.New("session: no session in context")

type entry struct {
	mu   sync.Mutex
	cart *cart.Cart
}

// Store owns the carts. Calls for one session are serialized on that session's lock; different
// sessions never contend beyond the LRU bookkeeping.
type Store struct {
	mu      sync.Mutex
	carts   *lru.Cache
	newCart func() *cart.Cart
	logger  *zap.Logger
}

// StoreOption customises a Store.
type StoreOption func(*Store)

// WithCartFactory sets how empty carts are created.
func WithCartFactory(fn func() *cart.Cart) StoreOption {
	return func(s *Store) {
		if fn != nil {
			s.newCart = fn
		}
	}
}

// WithStoreLogger logs evictions.
func WithStoreLogger(logger *zap.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore constructs a store holding at most maxCarts carts.
func NewStore(maxCarts int, opts ...StoreOption) (*Store, error) {
	if maxCarts <= 0 {
		maxCarts = DefaultMaxCarts
	}
	s := &Store{
		newCart: func() *cart.Cart { return cart.New() },
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	cache, err := lru.NewWithEvict(maxCarts, func(key, _ interface{}) {
		s.logger.Debug("session cart evicted", zap.Any("session_id", key))
	})
	if err != nil {
		return nil, err
	}
	s.carts = cache
	return s, nil
}

// With runs fn against the cart of session id while holding that session's lock. fn must not
// retain the cart.
func (s *Store) With(id string, fn func(*cart.Cart) error) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNoSession
	}
	e := s.entry(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.cart)
}

// WithContext is With for the session id stored in ctx by Middleware.
func (s *Store) WithContext(ctx context.Context, fn func(*cart.Cart) error) error {
	return s.With(IDFromContext(ctx), fn)
}

// Forget drops the cart of session id.
func (s *Store) Forget(id string) {
	s.carts.Remove(id)
}

// Len is the number of carts held.
func (s *Store) Len() int {
	return s.carts.Len()
}

func (s *Store) entry(id string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.carts.Get(id); ok {
		return v.(*entry)
	}
	e := &entry{cart: s.newCart()}
	s.carts.Add(id, e)
	return e
}
