package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/catalog"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/review"
	"github.com/example/storefront/internal/session"
	"go.uber.org/zap"
)

var (
	ErrInvalidVariant = errors.New("variant not offered for product")
	ErrOutOfStock     = errors.New("product is out of stock")
)

// Publisher delivers events keyed by an aggregate id.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

type Option func(*Handler)

func WithLogger(l *zap.Logger) Option {
	return func(h *Handler) { h.logger = l }
}

// WithOrderPublisher publishes an order.Placed event after each checkout.
func WithOrderPublisher(p Publisher) Option {
	return func(h *Handler) { h.orders = p }
}

type Handler struct {
	catalog  *catalog.Catalog
	sessions *session.Registry
	checkout *order.Service
	orders   Publisher
	logger   *zap.Logger
}

func NewHandler(
	catalog *catalog.Catalog,
	sessions *session.Registry,
	checkout *order.Service,
	opts ...Option,
) *Handler {
	h := &Handler{
		catalog:  catalog,
		sessions: sessions,
		checkout: checkout,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// AddToCart adds a product variant, merging with an existing line
func (h *Handler) AddToCart(ctx context.Context, cmd AddToCart) (cart.Cart, error) {
	p, ok := h.catalog.ByID(cmd.ProductID)
	if !ok {
		return cart.Cart{}, catalog.ErrProductNotFound
	}
	if !p.InStock {
		return cart.Cart{}, ErrOutOfStock
	}
	if len(p.Colors) > 0 && !p.HasColor(cmd.Color) {
		return cart.Cart{}, fmt.Errorf("%w: color %q", ErrInvalidVariant, cmd.Color)
	}
	if len(p.Sizes) > 0 && !p.HasSize(cmd.Size) {
		return cart.Cart{}, fmt.Errorf("%w: size %q", ErrInvalidVariant, cmd.Size)
	}

	s := h.sessions.Get(ctx, cmd.SessionID)
	return s.Cart.AddToCart(ctx, p, cart.Variant{Color: cmd.Color, Size: cmd.Size}, cmd.Quantity)
}

// UpdateQuantity sets a line's quantity; zero or less removes it
func (h *Handler) UpdateQuantity(ctx context.Context, cmd UpdateQuantity) cart.Cart {
	s := h.sessions.Get(ctx, cmd.SessionID)
	return s.Cart.UpdateQuantity(ctx, cmd.ItemID, cmd.Quantity)
}

func (h *Handler) RemoveFromCart(ctx context.Context, cmd RemoveFromCart) cart.Cart {
	s := h.sessions.Get(ctx, cmd.SessionID)
	return s.Cart.RemoveFromCart(ctx, cmd.ItemID)
}

func (h *Handler) ClearCart(ctx context.Context, cmd ClearCart) cart.Cart {
	s := h.sessions.Get(ctx, cmd.SessionID)
	return s.Cart.ClearCart(ctx)
}

// SubmitReview records a review for the session only
func (h *Handler) SubmitReview(ctx context.Context, cmd SubmitReview) (review.Review, error) {
	p, ok := h.catalog.BySlug(cmd.Slug)
	if !ok {
		return review.Review{}, catalog.ErrProductNotFound
	}

	s := h.sessions.Get(ctx, cmd.SessionID)
	r, err := s.Reviews.Add(p.ID, cmd.NewReview)
	if err != nil {
		return review.Review{}, err
	}

	h.logger.Info("review submitted",
		zap.String("session_id", cmd.SessionID),
		zap.String("product_id", p.ID),
		zap.String("review_id", r.ID),
		zap.Int("rating", r.Rating),
	)
	return r, nil
}

func (h *Handler) MarkReviewHelpful(ctx context.Context, cmd MarkReviewHelpful) (review.Review, error) {
	s := h.sessions.Get(ctx, cmd.SessionID)
	return s.Reviews.MarkHelpful(cmd.ReviewID)
}

// PlaceOrder runs the simulated checkout. The cart is left as it is.
func (h *Handler) PlaceOrder(ctx context.Context, cmd PlaceOrder) (*order.Confirmation, error) {
	if err := cmd.Contact.Validate(); err != nil {
		return nil, err
	}

	s := h.sessions.Get(ctx, cmd.SessionID)
	c := s.Cart.Cart()
	conf, err := h.checkout.Place(ctx, c)
	if err != nil {
		return nil, err
	}

	if h.orders != nil {
		placed := order.NewPlaced(cmd.SessionID, conf, c, cmd.Contact)
		// the order is confirmed either way
		if err := h.orders.Publish(ctx, conf.OrderID, placed); err != nil {
			h.logger.Error("failed to publish order placed",
				zap.String("order_id", conf.OrderID),
				zap.Error(err),
			)
		}
	}
	return conf, nil
}
