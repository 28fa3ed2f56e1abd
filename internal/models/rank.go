package models

import "strconv"

// Default survey rank bounds.
const (
	DefaultRankMin = 1
	DefaultRankMax = 10
)

// RankDomain is the closed range of rank positions a respondent may assign.
type RankDomain struct {
	Min int `json:"rank_min" yaml:"rank_min"`
	Max int `json:"rank_max" yaml:"rank_max"`
}

// DefaultRankDomain returns the 1..10 domain used by the survey sheets.
func DefaultRankDomain() RankDomain {
	return RankDomain{Min: DefaultRankMin, Max: DefaultRankMax}
}

// Size returns the number of rank positions in the domain.
func (d RankDomain) Size() int {
	if d.Max < d.Min {
		return 0
	}

	return d.Max - d.Min + 1
}

// Contains reports whether r is a valid rank position.
func (d RankDomain) Contains(r int) bool {
	return r >= d.Min && r <= d.Max
}

// Key returns the canonical cell text for rank r.
func (d RankDomain) Key(r int) string {
	return strconv.Itoa(r)
}

// Keys returns every canonical rank key in ascending order.
func (d RankDomain) Keys() []string {
	keys := make([]string, 0, d.Size())
	for r := d.Min; r <= d.Max; r++ {
		keys = append(keys, d.Key(r))
	}

	return keys
}

// Parse resolves a raw cell to a rank position. Only the canonical
// decimal spelling is accepted: " 3", "03" and "+3" are not rank keys.
func (d RankDomain) Parse(cell string) (int, bool) {
	r, err := strconv.Atoi(cell)
	if err != nil || !d.Contains(r) || d.Key(r) != cell {
		return 0, false
	}

	return r, true
}

// Weight returns the score multiplier for rank r: Max - r - 1.
// Rank 1 weighs Max-2 and rank Max weighs -1.
func (d RankDomain) Weight(r int) float64 {
	return float64(d.Max - r - 1)
}

// Weights returns the weight vector indexed by r-Min.
func (d RankDomain) Weights() []float64 {
	w := make([]float64, d.Size())
	for r := d.Min; r <= d.Max; r++ {
		w[r-d.Min] = d.Weight(r)
	}

	return w
}

// Divisor is the normalizing denominator applied to weighted sums.
func (d RankDomain) Divisor() float64 {
	return float64(d.Max)
}
