package api

import (
	"fmt"
	"net/http"

	"github.com/example/storefront/internal/api/middleware"
	"github.com/example/storefront/internal/command"
	"github.com/example/storefront/internal/query"
	"github.com/example/storefront/internal/readmodel"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	cmdHandler   *command.Handler
	queryHandler *query.Handler
}

func NewHandlers(cmdHandler *command.Handler, queryHandler *query.Handler) *Handlers {
	return &Handlers{
		cmdHandler:   cmdHandler,
		queryHandler: queryHandler,
	}
}

func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Product Handlers

func (h *Handlers) ListProducts(c *gin.Context) {
	var params productListParams
	if err := decodeQuery(&params, c.Request.URL.Query()); err != nil {
		respondError(c, err)
		return
	}
	filters, err := params.filters()
	if err != nil {
		respondError(c, err)
		return
	}

	list, err := h.queryHandler.ListProducts(c.Request.Context(), query.ListProducts{
		SessionID: middleware.SessionID(c),
		Filters:   filters,
		Sort:      params.Sort,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handlers) FeaturedProducts(c *gin.Context) {
	products := h.queryHandler.FeaturedProducts(c.Request.Context(), middleware.SessionID(c))
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handlers) Facets(c *gin.Context) {
	c.JSON(http.StatusOK, h.queryHandler.Facets())
}

func (h *Handlers) GetProduct(c *gin.Context) {
	detail, err := h.queryHandler.GetProduct(c.Request.Context(), middleware.SessionID(c), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Review Handlers

func (h *Handlers) ListReviews(c *gin.Context) {
	var params reviewListParams
	if err := decodeQuery(&params, c.Request.URL.Query()); err != nil {
		respondError(c, err)
		return
	}
	filters, err := params.filters()
	if err != nil {
		respondError(c, err)
		return
	}

	list, err := h.queryHandler.ListReviews(c.Request.Context(), query.ListReviews{
		SessionID: middleware.SessionID(c),
		Slug:      c.Param("slug"),
		Sort:      params.Sort,
		Filters:   filters,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handlers) SubmitReview(c *gin.Context) {
	var cmd command.SubmitReview
	if err := bindJSON(c, &cmd); err != nil {
		respondError(c, err)
		return
	}
	cmd.SessionID = middleware.SessionID(c)
	cmd.Slug = c.Param("slug")

	r, err := h.cmdHandler.SubmitReview(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, readmodel.NewReviewReadModel(r))
}

func (h *Handlers) MarkReviewHelpful(c *gin.Context) {
	r, err := h.cmdHandler.MarkReviewHelpful(c.Request.Context(), command.MarkReviewHelpful{
		SessionID: middleware.SessionID(c),
		ReviewID:  c.Param("id"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, readmodel.NewReviewReadModel(r))
}

// Cart Handlers

func (h *Handlers) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.queryHandler.GetCart(c.Request.Context(), middleware.SessionID(c)))
}

func (h *Handlers) AddToCart(c *gin.Context) {
	// a body without quantity keeps the default
	cmd := command.AddToCart{Quantity: command.DefaultQuantity}
	if err := bindJSON(c, &cmd); err != nil {
		respondError(c, err)
		return
	}
	cmd.SessionID = middleware.SessionID(c)

	updated, err := h.cmdHandler.AddToCart(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, readmodel.NewCartReadModel(updated))
}

func (h *Handlers) UpdateQuantity(c *gin.Context) {
	var cmd command.UpdateQuantity
	if err := bindJSON(c, &cmd); err != nil {
		respondError(c, err)
		return
	}
	cmd.SessionID = middleware.SessionID(c)
	cmd.ItemID = c.Param("id")

	updated := h.cmdHandler.UpdateQuantity(c.Request.Context(), cmd)
	c.JSON(http.StatusOK, readmodel.NewCartReadModel(updated))
}

func (h *Handlers) RemoveFromCart(c *gin.Context) {
	updated := h.cmdHandler.RemoveFromCart(c.Request.Context(), command.RemoveFromCart{
		SessionID: middleware.SessionID(c),
		ItemID:    c.Param("id"),
	})
	c.JSON(http.StatusOK, readmodel.NewCartReadModel(updated))
}

func (h *Handlers) ClearCart(c *gin.Context) {
	updated := h.cmdHandler.ClearCart(c.Request.Context(), command.ClearCart{SessionID: middleware.SessionID(c)})
	c.JSON(http.StatusOK, readmodel.NewCartReadModel(updated))
}

// Checkout Handlers

func (h *Handlers) CheckoutSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.queryHandler.CheckoutSummary(c.Request.Context(), middleware.SessionID(c)))
}

func (h *Handlers) PlaceOrder(c *gin.Context) {
	var cmd command.PlaceOrder
	// the contact body is optional
	if c.Request.ContentLength != 0 {
		if err := bindJSON(c, &cmd); err != nil {
			respondError(c, err)
			return
		}
	}
	cmd.SessionID = middleware.SessionID(c)

	conf, err := h.cmdHandler.PlaceOrder(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, readmodel.NewOrderConfirmationReadModel(*conf))
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}
