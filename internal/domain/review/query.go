package review

import (
	"cmp"
	"fmt"
	"slices"
)

type SortMode string

const (
	SortNewest  SortMode = "newest"
	SortOldest  SortMode = "oldest"
	SortHighest SortMode = "highest"
	SortLowest  SortMode = "lowest"
	SortHelpful SortMode = "helpful"
)

func ParseSortMode(s string) (SortMode, error) {
	if s == "" {
		return SortNewest, nil
	}
	mode := SortMode(s)
	switch mode {
	case SortNewest, SortOldest, SortHighest, SortLowest, SortHelpful:
		return mode, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSortMode, s)
}

// Sort returns a sorted copy; equal keys keep their input order.
func Sort(reviews []Review, mode SortMode) ([]Review, error) {
	var compare func(a, b Review) int
	switch mode {
	case SortNewest:
		compare = func(a, b Review) int { return b.Date.Compare(a.Date.Time) }
	case SortOldest:
		compare = func(a, b Review) int { return a.Date.Compare(b.Date.Time) }
	case SortHighest:
		compare = func(a, b Review) int { return cmp.Compare(b.Rating, a.Rating) }
	case SortLowest:
		compare = func(a, b Review) int { return cmp.Compare(a.Rating, b.Rating) }
	case SortHelpful:
		compare = func(a, b Review) int { return cmp.Compare(b.HelpfulCount, a.HelpfulCount) }
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidSortMode, mode)
	}

	sorted := append([]Review(nil), reviews...)
	slices.SortStableFunc(sorted, compare)
	return sorted, nil
}

// Filters narrows a review list. A nil or zero Rating and a nil Verified
// impose no constraint.
type Filters struct {
	Rating   *int
	Verified *bool
}

func Filter(reviews []Review, f Filters) []Review {
	out := make([]Review, 0, len(reviews))
	for _, r := range reviews {
		if f.Rating != nil && *f.Rating != 0 && r.Rating != *f.Rating {
			continue
		}
		if f.Verified != nil && r.IsVerified != *f.Verified {
			continue
		}
		out = append(out, r)
	}
	return out
}
