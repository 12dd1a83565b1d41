package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/example/storefront/internal/command"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/catalog"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/review"
	"github.com/example/storefront/internal/money"
	"github.com/gin-gonic/gin"
)

var ErrInvalidRequest = errors.New("invalid request")

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, review.ErrReviewNotFound):
		return http.StatusNotFound
	case errors.Is(err, command.ErrOutOfStock):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, command.ErrInvalidVariant),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrInvalidProduct),
		errors.Is(err, review.ErrInvalidReview),
		errors.Is(err, review.ErrInvalidSortMode),
		errors.Is(err, catalog.ErrInvalidSort),
		errors.Is(err, order.ErrEmptyOrder),
		errors.Is(err, order.ErrInvalidContact),
		errors.Is(err, money.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": ...}. Internal errors are not echoed.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
