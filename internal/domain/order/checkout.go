package order

import (
	"context"
	"errors"
	"time"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultCheckoutDelay = 2 * time.Second

var ErrEmptyOrder = errors.New("order must have at least one item")

// Confirmation is returned by a simulated checkout. Nothing is charged and
// nothing is stored.
type Confirmation struct {
	OrderID   string    `json:"orderId"`
	ItemCount int       `json:"itemCount"`
	Totals    Total     `json:"totals"`
	PlacedAt  time.Time `json:"placedAt"`
	Demo      bool      `json:"demo"`
}

type Service struct {
	delay  time.Duration
	now    func() time.Time
	logger *zap.Logger
}

type Option func(*Service)

func WithDelay(d time.Duration) Option {
	return func(s *Service) { s.delay = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(opts ...Option) *Service {
	s := &Service{
		delay:  DefaultCheckoutDelay,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Place waits out the processing delay and confirms the order. The cart is
// left untouched. Cancelling ctx aborts the wait.
func (s *Service) Place(ctx context.Context, c cart.Cart) (*Confirmation, error) {
	if c.IsEmpty() {
		return nil, ErrEmptyOrder
	}

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	conf := &Confirmation{
		OrderID:   uuid.New().String(),
		ItemCount: c.ItemCount,
		Totals:    CalculateOrderTotal(c.Total),
		PlacedAt:  s.now(),
		Demo:      true,
	}
	s.logger.Info("order placed",
		zap.String("order_id", conf.OrderID),
		zap.Int("item_count", conf.ItemCount),
		zap.String("total", conf.Totals.Total.StringFixed(2)),
	)
	return conf, nil
}
