package services

import "math"

// RatingSummary is the aggregate written back onto a worker
type RatingSummary struct {
	AverageRating float64
	TotalReviews  int
}

// SummarizeRatings computes the arithmetic mean rounded to one decimal place.
// ok is false when there is nothing to aggregate.
func SummarizeRatings(ratings []int) (summary RatingSummary, ok bool) {
	if len(ratings) == 0 {
		return RatingSummary{}, false
	}
	total := 0
	for _, r := range ratings {
		total += r
	}
	mean := float64(total) / float64(len(ratings))
	return RatingSummary{
		AverageRating: math.Round(mean*10) / 10,
		TotalReviews:  len(ratings),
	}, true
}
