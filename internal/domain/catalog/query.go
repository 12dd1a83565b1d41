package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/example/storefront/internal/money"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Filters narrows a product list. Zero-valued fields impose no constraint.
type Filters struct {
	Category string
	Color    string
	Size     string
	MinPrice *money.Cents
	MaxPrice *money.Cents
}

func (f Filters) IsEmpty() bool {
	return f.Category == "" && f.Color == "" && f.Size == "" && f.MinPrice == nil && f.MaxPrice == nil
}

// Active counts the constraints in use.
func (f Filters) Active() int {
	n := 0
	for _, set := range []bool{f.Category != "", f.Color != "", f.Size != "", f.MinPrice != nil, f.MaxPrice != nil} {
		if set {
			n++
		}
	}
	return n
}

func (f Filters) Match(p Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Color != "" && !p.HasColor(f.Color) {
		return false
	}
	if f.Size != "" && !p.HasSize(f.Size) {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	return true
}

// Filter keeps the products matching every set constraint, in input order.
func Filter(products []Product, f Filters) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

type SortField string

const (
	SortByName   SortField = "name"
	SortByPrice  SortField = "price"
	SortByRating SortField = "rating"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type SortOptions struct {
	Field     SortField
	Direction Direction
}

var DefaultSort = SortOptions{Field: SortByName, Direction: Asc}

func (o SortOptions) String() string {
	return string(o.Field) + "-" + string(o.Direction)
}

func (o SortOptions) Validate() error {
	switch o.Field {
	case SortByName, SortByPrice, SortByRating:
	default:
		return fmt.Errorf("%w: field %q", ErrInvalidSort, o.Field)
	}
	switch o.Direction {
	case Asc, Desc:
	default:
		return fmt.Errorf("%w: direction %q", ErrInvalidSort, o.Direction)
	}
	return nil
}

// ParseSort reads the "field-direction" form, e.g. "price-desc". An empty
// string yields DefaultSort.
func ParseSort(s string) (SortOptions, error) {
	if s == "" {
		return DefaultSort, nil
	}
	field, dir, ok := strings.Cut(s, "-")
	if !ok {
		dir = string(Asc)
	}
	opts := SortOptions{Field: SortField(field), Direction: Direction(dir)}
	if err := opts.Validate(); err != nil {
		return SortOptions{}, err
	}
	return opts, nil
}

// RatingLookup returns the average review rating of a product.
type RatingLookup func(productID string) float64

// Sort returns a sorted copy. Ties keep their input order in both directions.
// Rating sort needs a lookup; without one the input order is kept.
func Sort(products []Product, opts SortOptions, ratings RatingLookup) ([]Product, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	sorted := append([]Product(nil), products...)

	var compare func(a, b Product) int
	switch opts.Field {
	case SortByName:
		col := collate.New(language.English)
		compare = func(a, b Product) int { return col.CompareString(a.Name, b.Name) }
	case SortByPrice:
		compare = func(a, b Product) int { return cmp.Compare(a.Price, b.Price) }
	case SortByRating:
		if ratings == nil {
			return sorted, nil
		}
		scores := make(map[string]float64, len(sorted))
		for _, p := range sorted {
			if _, ok := scores[p.ID]; !ok {
				scores[p.ID] = ratings(p.ID)
			}
		}
		compare = func(a, b Product) int { return cmp.Compare(scores[a.ID], scores[b.ID]) }
	}

	if opts.Direction == Desc {
		asc := compare
		compare = func(a, b Product) int { return -asc(a, b) }
	}

	slices.SortStableFunc(sorted, compare)
	return sorted, nil
}
