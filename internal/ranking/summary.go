package ranking

import (
	"github.com/montanaflynn/stats"

	"surveyrank/internal/models"
)

// Summarize describes the spread of the totals. An empty slice yields the
// zero Summary.
func Summarize(scores []models.ProductScore) models.Summary {
	if len(scores) == 0 {
		return models.Summary{}
	}

	totals := make(stats.Float64Data, len(scores))
	for i, s := range scores {
		totals[i] = s.Total
	}

	var sum models.Summary

	// stats only fails on empty input, which is excluded above.
	sum.Mean, _ = totals.Mean()
	sum.Median, _ = totals.Median()
	sum.StdDev, _ = totals.StandardDeviation()
	sum.Min, _ = totals.Min()
	sum.Max, _ = totals.Max()

	return sum
}
