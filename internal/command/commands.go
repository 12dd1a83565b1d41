package command

import (
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/review"
)

// DefaultQuantity is added when a request names no quantity.
const DefaultQuantity = 1

// Cart Commands
type AddToCart struct {
	SessionID string `json:"-"`
	ProductID string `json:"productId" binding:"required"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity" binding:"min=1"`
}

type UpdateQuantity struct {
	SessionID string `json:"-"`
	ItemID    string `json:"-"`
	Quantity  int    `json:"quantity"`
}

type RemoveFromCart struct {
	SessionID string `json:"-"`
	ItemID    string `json:"-"`
}

type ClearCart struct {
	SessionID string `json:"-"`
}

// Review Commands
type SubmitReview struct {
	SessionID string `json:"-"`
	Slug      string `json:"-"`
	review.NewReview
}

type MarkReviewHelpful struct {
	SessionID string `json:"-"`
	ReviewID  string `json:"-"`
}

// Order Commands
type PlaceOrder struct {
	SessionID string        `json:"-"`
	Contact   order.Contact `json:"contact"`
}
