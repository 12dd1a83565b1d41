package query

import (
	"context"

	"github.com/example/storefront/internal/domain/catalog"
	"github.com/example/storefront/internal/domain/review"
	"github.com/example/storefront/internal/readmodel"
	"github.com/example/storefront/internal/session"
)

// ListProducts filters then sorts the catalog. Sort uses the
// "field-direction" form; empty means name-asc.
type ListProducts struct {
	SessionID string
	Filters   catalog.Filters
	Sort      string
}

// ListReviews lists one product's reviews. Sort is a review sort mode;
// empty means newest.
type ListReviews struct {
	SessionID string
	Slug      string
	Sort      string
	Filters   review.Filters
}

type Handler struct {
	catalog  *catalog.Catalog
	sessions *session.Registry
}

func NewHandler(catalog *catalog.Catalog, sessions *session.Registry) *Handler {
	return &Handler{catalog: catalog, sessions: sessions}
}

// Products
func (h *Handler) ListProducts(ctx context.Context, q ListProducts) (*readmodel.ProductListReadModel, error) {
	opts, err := catalog.ParseSort(q.Sort)
	if err != nil {
		return nil, err
	}

	reviews := h.sessions.Get(ctx, q.SessionID).Reviews
	ratings := func(productID string) float64 {
		return reviews.Summary(productID).AverageRating
	}

	products, err := catalog.Sort(catalog.Filter(h.catalog.All(), q.Filters), opts, ratings)
	if err != nil {
		return nil, err
	}

	return &readmodel.ProductListReadModel{
		Products:      h.summaries(reviews, products),
		Total:         len(products),
		ActiveFilters: q.Filters.Active(),
		Sort:          opts.String(),
	}, nil
}

func (h *Handler) FeaturedProducts(ctx context.Context, sessionID string) []readmodel.ProductReadModel {
	reviews := h.sessions.Get(ctx, sessionID).Reviews
	return h.summaries(reviews, h.catalog.Featured())
}

func (h *Handler) Facets() readmodel.FacetsReadModel {
	return readmodel.FacetsReadModel{
		Categories: h.catalog.Categories(),
		Colors:     h.catalog.Colors(),
		Sizes:      h.catalog.Sizes(),
	}
}

// GetProduct returns the product page, with reviews newest first.
func (h *Handler) GetProduct(ctx context.Context, sessionID, slug string) (*readmodel.ProductDetailReadModel, error) {
	p, ok := h.catalog.BySlug(slug)
	if !ok {
		return nil, catalog.ErrProductNotFound
	}

	overlay := h.sessions.Get(ctx, sessionID).Reviews
	reviews, err := review.Sort(overlay.Reviews(p.ID), review.SortNewest)
	if err != nil {
		return nil, err
	}
	summary := review.Summarize(reviews)

	return &readmodel.ProductDetailReadModel{
		ProductReadModel: readmodel.NewProductReadModel(p, summary),
		Images:           p.Images,
		Description:      p.Description,
		Details:          p.Details,
		Summary:          readmodel.NewReviewSummaryReadModel(summary),
		Reviews:          readmodel.NewReviewReadModels(reviews),
	}, nil
}

// Reviews
func (h *Handler) ListReviews(ctx context.Context, q ListReviews) (*readmodel.ReviewListReadModel, error) {
	p, ok := h.catalog.BySlug(q.Slug)
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	mode, err := review.ParseSortMode(q.Sort)
	if err != nil {
		return nil, err
	}

	all := h.sessions.Get(ctx, q.SessionID).Reviews.Reviews(p.ID)
	sorted, err := review.Sort(review.Filter(all, q.Filters), mode)
	if err != nil {
		return nil, err
	}

	// the summary always covers every review of the product
	return &readmodel.ReviewListReadModel{
		Reviews: readmodel.NewReviewReadModels(sorted),
		Summary: readmodel.NewReviewSummaryReadModel(review.Summarize(all)),
		Sort:    string(mode),
	}, nil
}

// Cart
func (h *Handler) GetCart(ctx context.Context, sessionID string) readmodel.CartReadModel {
	s := h.sessions.Get(ctx, sessionID)
	return readmodel.NewCartReadModel(s.Cart.Cart())
}

func (h *Handler) CheckoutSummary(ctx context.Context, sessionID string) readmodel.CheckoutReadModel {
	c := h.GetCart(ctx, sessionID)
	return readmodel.CheckoutReadModel{Cart: c, CanCheckout: len(c.Items) > 0}
}

func (h *Handler) summaries(reviews *review.Overlay, products []catalog.Product) []readmodel.ProductReadModel {
	out := make([]readmodel.ProductReadModel, len(products))
	for i, p := range products {
		out[i] = readmodel.NewProductReadModel(p, reviews.Summary(p.ID))
	}
	return out
}
