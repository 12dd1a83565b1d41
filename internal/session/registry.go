// Package session keeps the per-visitor state of the storefront: one cart
// store and one review overlay per session id.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/example/storefront/internal/cartstore"
	"github.com/example/storefront/internal/domain/review"
	"github.com/example/storefront/internal/infrastructure/store"
	"go.uber.org/zap"
)

const DefaultCartKey = "threadlab_cart"

type Session struct {
	ID      string
	Cart    *cartstore.Store
	Reviews *review.Overlay

	loadOnce sync.Once
	lastSeen time.Time
}

type Option func(*Registry)

func WithCartKey(key string) Option {
	return func(r *Registry) { r.cartKey = key }
}

// WithStoreOptions applies extra options to every cart store created.
func WithStoreOptions(opts ...cartstore.Option) Option {
	return func(r *Registry) { r.storeOpts = append(r.storeOpts, opts...) }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

type Registry struct {
	storage   store.Storage
	reviews   *review.Repository
	cartKey   string
	storeOpts []cartstore.Option
	logger    *zap.Logger
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(storage store.Storage, reviews *review.Repository, opts ...Option) *Registry {
	r := &Registry{
		storage:  storage,
		reviews:  reviews,
		cartKey:  DefaultCartKey,
		logger:   zap.NewNop(),
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the live session, creating it and rehydrating its cart on
// first use.
func (r *Registry) Get(ctx context.Context, sessionID string) *Session {
	r.mu.Lock()
	s, ok := r.sessions[sessionID]
	if !ok {
		s = r.newSession(sessionID)
		r.sessions[sessionID] = s
	}
	s.lastSeen = r.now()
	r.mu.Unlock()

	s.loadOnce.Do(func() {
		s.Cart.Load(ctx)
		r.logger.Debug("session loaded",
			zap.String("session_id", sessionID),
			zap.Int("item_count", s.Cart.Cart().ItemCount),
		)
	})
	return s
}

// Lookup returns a live session without creating one.
func (r *Registry) Lookup(sessionID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	return s, ok
}

// Sweep drops sessions idle for longer than idle and returns how many went.
// Their carts stay in storage and are rehydrated on the next visit.
func (r *Registry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idle)
	removed := 0
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		r.logger.Info("swept idle sessions", zap.Int("removed", removed), zap.Int("live", len(r.sessions)))
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(idle)
		}
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) newSession(sessionID string) *Session {
	opts := append([]cartstore.Option{
		cartstore.WithSessionID(sessionID),
		cartstore.WithLogger(r.logger.With(zap.String("session_id", sessionID))),
	}, r.storeOpts...)

	return &Session{
		ID:      sessionID,
		Cart:    cartstore.New(r.storage, store.Key(r.cartKey, sessionID), opts...),
		Reviews: review.NewOverlay(r.reviews),
	}
}
