package review

import "math"

// Percentage is count/total as a rounded whole percent, 0 when total is 0.
func Percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

type StarRating struct {
	Full  int  `json:"full"`
	Half  bool `json:"half"`
	Empty int  `json:"empty"`
}

// Stars splits a 0-5 rating into full, half and empty stars.
func Stars(rating float64) StarRating {
	rating = math.Max(0, math.Min(5, rating))
	full := int(math.Floor(rating))
	half := rating-float64(full) >= 0.5
	empty := 5 - full
	if half {
		empty--
	}
	return StarRating{Full: full, Half: half, Empty: empty}
}

// FormatDate renders a review date as "January 2, 2006".
func FormatDate(d Date) string {
	return d.Format("January 2, 2006")
}
