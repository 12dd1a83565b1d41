// Package review aggregates product reviews: per-product listings, rating
// summaries, sort and filter, plus a session overlay for reviews and helpful
// votes added at runtime.
package review

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidReview   = errors.New("invalid review")
	ErrReviewNotFound  = errors.New("review not found")
	ErrInvalidSortMode = errors.New("invalid review sort mode")
)

var validate = validator.New()

const dateLayout = "2006-01-02"

// Date is a calendar date encoded as YYYY-MM-DD.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("failed to parse date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

type Review struct {
	ID               string   `json:"id"`
	ProductID        string   `json:"productId"`
	Rating           int      `json:"rating"`
	Author           string   `json:"author"`
	Date             Date     `json:"date"`
	Body             string   `json:"body"`
	IsVerified       bool     `json:"isVerified"`
	VariantPurchased string   `json:"variantPurchased"`
	HelpfulCount     int      `json:"helpfulCount"`
	Images           []string `json:"images"`
}

// NewReview is a customer submission. Email is required but never stored.
type NewReview struct {
	Rating           int    `json:"rating" binding:"required,min=1,max=5"`
	Author           string `json:"author" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Body             string `json:"body" binding:"required"`
	VariantPurchased string `json:"variantPurchased"`
}

func (n NewReview) Validate() error {
	switch {
	case n.Rating < 1 || n.Rating > 5:
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidReview)
	case strings.TrimSpace(n.Author) == "":
		return fmt.Errorf("%w: author is required", ErrInvalidReview)
	case strings.TrimSpace(n.Email) == "":
		return fmt.Errorf("%w: email is required", ErrInvalidReview)
	case validate.Var(n.Email, "email") != nil:
		return fmt.Errorf("%w: email %q is not valid", ErrInvalidReview, n.Email)
	case strings.TrimSpace(n.Body) == "":
		return fmt.Errorf("%w: review body is required", ErrInvalidReview)
	}
	return nil
}

// NewFromSubmission builds an unverified review dated today.
func NewFromSubmission(productID string, n NewReview, now time.Time) (Review, error) {
	if err := n.Validate(); err != nil {
		return Review{}, err
	}
	return Review{
		ID:               fmt.Sprintf("r%d", now.UnixMilli()),
		ProductID:        productID,
		Rating:           n.Rating,
		Author:           strings.TrimSpace(n.Author),
		Date:             NewDate(now),
		Body:             strings.TrimSpace(n.Body),
		IsVerified:       false,
		VariantPurchased: n.VariantPurchased,
		HelpfulCount:     0,
		Images:           []string{},
	}, nil
}

type Summary struct {
	AverageRating      float64     `json:"averageRating"`
	TotalReviews       int         `json:"totalReviews"`
	RatingDistribution map[int]int `json:"ratingDistribution"`
}

// Summarize averages ratings to one decimal (half up) and counts each star
// level. The distribution always carries keys 1 through 5.
func Summarize(reviews []Review) Summary {
	s := Summary{RatingDistribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	if len(reviews) == 0 {
		return s
	}

	sum := 0
	for _, r := range reviews {
		sum += r.Rating
		s.RatingDistribution[r.Rating]++
	}
	avg := decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(len(reviews)))).Round(1)
	s.AverageRating = avg.InexactFloat64()
	s.TotalReviews = len(reviews)
	return s
}

// Repository is the read-only fixture set.
type Repository struct {
	reviews []Review
	byID    map[string]int
}

func NewRepository(reviews []Review) *Repository {
	r := &Repository{
		reviews: append([]Review(nil), reviews...),
		byID:    make(map[string]int, len(reviews)),
	}
	for i, rev := range r.reviews {
		if _, ok := r.byID[rev.ID]; !ok {
			r.byID[rev.ID] = i
		}
	}
	return r
}

func LoadRepository(rd io.Reader) (*Repository, error) {
	var reviews []Review
	if err := json.NewDecoder(rd).Decode(&reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	for _, rev := range reviews {
		if rev.Rating < 1 || rev.Rating > 5 {
			return nil, fmt.Errorf("failed to decode reviews: review %s has rating %d", rev.ID, rev.Rating)
		}
	}
	return NewRepository(reviews), nil
}

func (r *Repository) All() []Review {
	return append([]Review(nil), r.reviews...)
}

func (r *Repository) ByID(id string) (Review, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Review{}, false
	}
	return r.reviews[i], true
}

// ForProduct returns a product's reviews in source order.
func (r *Repository) ForProduct(productID string) []Review {
	out := make([]Review, 0)
	for _, rev := range r.reviews {
		if rev.ProductID == productID {
			out = append(out, rev)
		}
	}
	return out
}

func (r *Repository) Summary(productID string) Summary {
	return Summarize(r.ForProduct(productID))
}

// AverageRating is the rounded average used to rank products.
func (r *Repository) AverageRating(productID string) float64 {
	return r.Summary(productID).AverageRating
}
