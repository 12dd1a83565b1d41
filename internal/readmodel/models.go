// Package readmodel holds the views returned by queries and rendered by the API.
package readmodel

import (
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/catalog"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/review"
	"github.com/example/storefront/internal/money"
)

// ProductReadModel is a product card in a listing
type ProductReadModel struct {
	ID             string          `json:"id"`
	Slug           string          `json:"slug"`
	Name           string          `json:"name"`
	Price          money.Cents     `json:"price"`
	PriceFormatted string          `json:"priceFormatted"`
	Category       string          `json:"category"`
	Featured       bool            `json:"featured"`
	InStock        bool            `json:"inStock"`
	Image          string          `json:"image"`
	Colors         []catalog.Color `json:"colors"`
	Sizes          []string        `json:"sizes"`
	AverageRating  float64         `json:"averageRating"`
	ReviewCount    int             `json:"reviewCount"`
}

func NewProductReadModel(p catalog.Product, s review.Summary) ProductReadModel {
	return ProductReadModel{
		ID:             p.ID,
		Slug:           p.Slug,
		Name:           p.Name,
		Price:          p.Price,
		PriceFormatted: money.FormatCents(p.Price),
		Category:       p.Category,
		Featured:       p.Featured,
		InStock:        p.InStock,
		Image:          p.PrimaryImage(),
		Colors:         p.Colors,
		Sizes:          p.Sizes,
		AverageRating:  s.AverageRating,
		ReviewCount:    s.TotalReviews,
	}
}

type ProductListReadModel struct {
	Products      []ProductReadModel `json:"products"`
	Total         int                `json:"total"`
	ActiveFilters int                `json:"activeFilters"`
	Sort          string             `json:"sort"`
}

type FacetsReadModel struct {
	Categories []string        `json:"categories"`
	Colors     []catalog.Color `json:"colors"`
	Sizes      []string        `json:"sizes"`
}

// ProductDetailReadModel is the product page: the product, its reviews and
// their summary.
type ProductDetailReadModel struct {
	ProductReadModel
	Images      []string               `json:"images"`
	Description string                 `json:"description"`
	Details     catalog.Details        `json:"details"`
	Summary     ReviewSummaryReadModel `json:"reviewSummary"`
	Reviews     []ReviewReadModel      `json:"reviews"`
}

type ReviewReadModel struct {
	review.Review
	DateFormatted string            `json:"dateFormatted"`
	Stars         review.StarRating `json:"stars"`
}

func NewReviewReadModel(r review.Review) ReviewReadModel {
	return ReviewReadModel{
		Review:        r,
		DateFormatted: review.FormatDate(r.Date),
		Stars:         review.Stars(float64(r.Rating)),
	}
}

func NewReviewReadModels(reviews []review.Review) []ReviewReadModel {
	out := make([]ReviewReadModel, len(reviews))
	for i, r := range reviews {
		out[i] = NewReviewReadModel(r)
	}
	return out
}

// RatingBucket is one bar of the rating histogram, highest rating first.
type RatingBucket struct {
	Rating     int `json:"rating"`
	Count      int `json:"count"`
	Percentage int `json:"percentage"`
}

type ReviewSummaryReadModel struct {
	AverageRating      float64           `json:"averageRating"`
	TotalReviews       int               `json:"totalReviews"`
	RatingDistribution map[int]int       `json:"ratingDistribution"`
	Buckets            []RatingBucket    `json:"buckets"`
	Stars              review.StarRating `json:"stars"`
}

func NewReviewSummaryReadModel(s review.Summary) ReviewSummaryReadModel {
	buckets := make([]RatingBucket, 0, 5)
	for rating := 5; rating >= 1; rating-- {
		count := s.RatingDistribution[rating]
		buckets = append(buckets, RatingBucket{
			Rating:     rating,
			Count:      count,
			Percentage: review.Percentage(count, s.TotalReviews),
		})
	}
	return ReviewSummaryReadModel{
		AverageRating:      s.AverageRating,
		TotalReviews:       s.TotalReviews,
		RatingDistribution: s.RatingDistribution,
		Buckets:            buckets,
		Stars:              review.Stars(s.AverageRating),
	}
}

type ReviewListReadModel struct {
	Reviews []ReviewReadModel      `json:"reviews"`
	Summary ReviewSummaryReadModel `json:"summary"`
	Sort    string                 `json:"sort"`
}

// CartItemReadModel represents an item in the cart
type CartItemReadModel struct {
	cart.Item
	PriceFormatted     string      `json:"priceFormatted"`
	LineTotal          money.Cents `json:"lineTotal"`
	LineTotalFormatted string      `json:"lineTotalFormatted"`
}

// CartReadModel is the read model for shopping cart
type CartReadModel struct {
	Items                 []CartItemReadModel  `json:"items"`
	ItemCount             int                  `json:"itemCount"`
	Total                 money.Cents          `json:"total"`
	Totals                order.Total          `json:"totals"`
	Formatted             order.FormattedTotal `json:"formatted"`
	FreeShipping          bool                 `json:"freeShipping"`
	FreeShippingRemaining string               `json:"freeShippingRemaining"`
}

func NewCartReadModel(c cart.Cart) CartReadModel {
	items := make([]CartItemReadModel, len(c.Items))
	for i, item := range c.Items {
		items[i] = CartItemReadModel{
			Item:               item,
			PriceFormatted:     money.FormatCents(item.Price),
			LineTotal:          item.LineTotal(),
			LineTotalFormatted: money.FormatCents(item.LineTotal()),
		}
	}
	totals := order.CalculateOrderTotal(c.Total)
	return CartReadModel{
		Items:                 items,
		ItemCount:             c.ItemCount,
		Total:                 c.Total,
		Totals:                totals,
		Formatted:             totals.Formatted(),
		FreeShipping:          totals.FreeShipping(),
		FreeShippingRemaining: money.Format(order.RemainingForFreeShipping(c.Total)),
	}
}

// CheckoutReadModel is the order summary shown before placing an order.
type CheckoutReadModel struct {
	Cart        CartReadModel `json:"cart"`
	CanCheckout bool          `json:"canCheckout"`
}

type OrderConfirmationReadModel struct {
	order.Confirmation
	Formatted order.FormattedTotal `json:"formatted"`
}

func NewOrderConfirmationReadModel(c order.Confirmation) OrderConfirmationReadModel {
	return OrderConfirmationReadModel{Confirmation: c, Formatted: c.Totals.Formatted()}
}
