// Package cartstore wraps the pure cart model with state: it rehydrates a cart
// from storage, persists every transition and notifies subscribers.
package cartstore

import (
	"context"
	"sync"
	"time"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/catalog"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Publisher forwards cart changes to other instances.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithPublisher(p Publisher) Option {
	return func(s *Store) { s.publisher = p }
}

// WithSessionID sets the session reported on changes. Defaults to the key.
func WithSessionID(id string) Option {
	return func(s *Store) { s.sessionID = id }
}

// WithSource tags published changes with the instance that made them.
func WithSource(source string) Option {
	return func(s *Store) { s.source = source }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

type Store struct {
	storage   store.Storage
	key       string
	sessionID string
	source    string
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time

	mu       sync.Mutex
	cart     cart.Cart
	loading  bool
	revision int

	subMu       sync.RWMutex
	subscribers map[int]func(cart.Change)
	nextSubID   int
}

// New returns a store holding the empty cart. Call Load to rehydrate it;
// until then transitions are not persisted.
func New(storage store.Storage, key string, opts ...Option) *Store {
	s := &Store{
		storage:     storage,
		key:         key,
		sessionID:   key,
		logger:      zap.NewNop(),
		now:         time.Now,
		cart:        cart.Clear(),
		loading:     true,
		subscribers: make(map[int]func(cart.Change)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("storage_key", key))
	return s
}

func (s *Store) Key() string {
	return s.key
}

func (s *Store) Cart() cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Revision counts transitions applied since the store was created.
func (s *Store) Revision() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Load rehydrates the cart. A missing key, a read failure or a malformed
// value all leave the empty cart in place; failures are logged.
func (s *Store) Load(ctx context.Context) cart.Cart {
	return s.rehydrate(ctx)
}

// Reload re-reads storage after another instance wrote the same key.
func (s *Store) Reload(ctx context.Context) cart.Cart {
	return s.rehydrate(ctx)
}

// rehydrate holds the lock across the read and the swap, so a transition
// either lands before the read (and is in storage) or after the swap.
func (s *Store) rehydrate(ctx context.Context) cart.Cart {
	s.mu.Lock()
	loaded := s.read(ctx)
	s.cart = loaded
	s.loading = false
	change := s.change(cart.EventCartReloaded, "")
	s.mu.Unlock()

	s.notify(change)
	return loaded
}

func (s *Store) read(ctx context.Context) cart.Cart {
	data, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("failed to read cart, starting empty", zap.Error(err))
		return cart.Clear()
	}
	if !ok {
		return cart.Clear()
	}
	c, err := cart.Decode(data)
	if err != nil {
		s.logger.Warn("discarding malformed cart", zap.Error(err))
		return cart.Clear()
	}
	return c
}

// AddToCart validates the line before touching state; on error the cart is
// unchanged.
func (s *Store) AddToCart(ctx context.Context, p catalog.Product, v cart.Variant, quantity int) (cart.Cart, error) {
	item, err := cart.NewItem(p, v, quantity)
	if err != nil {
		return s.Cart(), err
	}
	return s.apply(ctx, cart.EventItemAdded, item.ID, func(c cart.Cart) cart.Cart {
		return cart.Add(c, item)
	}), nil
}

func (s *Store) RemoveFromCart(ctx context.Context, itemID string) cart.Cart {
	return s.apply(ctx, cart.EventItemRemoved, itemID, func(c cart.Cart) cart.Cart {
		return cart.Remove(c, itemID)
	})
}

// UpdateQuantity removes the line when quantity is zero or less.
func (s *Store) UpdateQuantity(ctx context.Context, itemID string, quantity int) cart.Cart {
	eventType := cart.EventQuantityUpdated
	if quantity <= 0 {
		eventType = cart.EventItemRemoved
	}
	return s.apply(ctx, eventType, itemID, func(c cart.Cart) cart.Cart {
		return cart.UpdateQuantity(c, itemID, quantity)
	})
}

func (s *Store) ClearCart(ctx context.Context) cart.Cart {
	return s.apply(ctx, cart.EventCartCleared, "", func(cart.Cart) cart.Cart {
		return cart.Clear()
	})
}

// Subscribe registers fn for every change and returns a func that removes it.
func (s *Store) Subscribe(fn func(cart.Change)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			delete(s.subscribers, id)
		})
	}
}

// apply runs one transition. Persisting happens under the lock so storage
// sees writes in transition order.
func (s *Store) apply(ctx context.Context, eventType, itemID string, transition func(cart.Cart) cart.Cart) cart.Cart {
	s.mu.Lock()
	s.cart = transition(s.cart)
	s.revision++
	if !s.loading {
		s.persist(ctx, s.cart)
	}
	change := s.change(eventType, itemID)
	s.mu.Unlock()

	s.notify(change)
	s.publish(ctx, change)
	return change.Cart
}

func (s *Store) persist(ctx context.Context, c cart.Cart) {
	data, err := cart.Encode(c)
	if err != nil {
		s.logger.Error("failed to encode cart", zap.Error(err))
		return
	}
	if err := s.storage.Set(ctx, s.key, data); err != nil {
		s.logger.Error("failed to persist cart", zap.Error(err))
	}
}

func (s *Store) change(eventType, itemID string) cart.Change {
	return cart.Change{
		ID:        uuid.New().String(),
		SessionID: s.sessionID,
		EventType: eventType,
		ItemID:    itemID,
		Cart:      s.cart,
		Revision:  s.revision,
		Source:    s.source,
		Timestamp: s.now().UTC(),
	}
}

func (s *Store) notify(change cart.Change) {
	s.subMu.RLock()
	subs := make([]func(cart.Change), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.subMu.RUnlock()

	for _, fn := range subs {
		fn(change)
	}
}

func (s *Store) publish(ctx context.Context, change cart.Change) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, change.SessionID, change); err != nil {
		s.logger.Warn("failed to publish cart change",
			zap.String("event_type", change.EventType),
			zap.Error(err),
		)
	}
}
