package api

import (
	"fmt"
	"net/url"

	"github.com/example/storefront/internal/domain/catalog"
	"github.com/example/storefront/internal/domain/review"
	"github.com/example/storefront/internal/money"
	"github.com/gorilla/schema"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

type productListParams struct {
	Category string `schema:"category"`
	Color    string `schema:"color"`
	Size     string `schema:"size"`
	MinPrice string `schema:"minPrice"`
	MaxPrice string `schema:"maxPrice"`
	Sort     string `schema:"sort"`
}

func (p productListParams) filters() (catalog.Filters, error) {
	f := catalog.Filters{Category: p.Category, Color: p.Color, Size: p.Size}
	var err error
	if f.MinPrice, err = optionalAmount(p.MinPrice); err != nil {
		return catalog.Filters{}, err
	}
	if f.MaxPrice, err = optionalAmount(p.MaxPrice); err != nil {
		return catalog.Filters{}, err
	}
	return f, nil
}

type reviewListParams struct {
	Sort     string `schema:"sort"`
	Rating   *int   `schema:"rating"`
	Verified *bool  `schema:"verified"`
}

func (p reviewListParams) filters() (review.Filters, error) {
	if p.Rating != nil && (*p.Rating < 0 || *p.Rating > 5) {
		return review.Filters{}, fmt.Errorf("%w: rating filter must be between 1 and 5", review.ErrInvalidReview)
	}
	return review.Filters{Rating: p.Rating, Verified: p.Verified}, nil
}

func decodeQuery(dst any, values url.Values) error {
	if err := decoder.Decode(dst, values); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

func optionalAmount(s string) (*money.Cents, error) {
	if s == "" {
		return nil, nil
	}
	c, err := money.Parse(s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
