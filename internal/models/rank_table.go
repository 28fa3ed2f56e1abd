package models

// RankTable holds, per product, how many respondents gave each rank
// position. Counts is dense: Counts[p][r-Domain.Min] exists for every
// product p and every rank r from construction on.
type RankTable struct {
	Domain      RankDomain `json:"domain"`
	Products    []Product  `json:"products"`
	Counts      [][]int    `json:"counts"`
	Respondents int        `json:"respondents"`
}

// NewRankTable allocates a zeroed table for the given products.
func NewRankTable(domain RankDomain, products []Product) *RankTable {
	counts := make([][]int, len(products))
	for i := range counts {
		counts[i] = make([]int, domain.Size())
	}

	return &RankTable{
		Domain:   domain,
		Products: products,
		Counts:   counts,
	}
}

// Increment records one respondent giving product p rank r.
func (t *RankTable) Increment(p, r int) {
	t.Counts[p][r-t.Domain.Min]++
}

// Count returns how many respondents gave product p rank r.
func (t *RankTable) Count(p, r int) int {
	if !t.Domain.Contains(r) {
		return 0
	}

	return t.Counts[p][r-t.Domain.Min]
}

// Total returns the number of answers recorded for product p.
func (t *RankTable) Total(p int) int {
	sum := 0
	for _, c := range t.Counts[p] {
		sum += c
	}

	return sum
}

// CountsByKey returns product p's counts keyed by rank text, the shape
// the survey spreadsheets report.
func (t *RankTable) CountsByKey(p int) map[string]int {
	out := make(map[string]int, t.Domain.Size())
	for r := t.Domain.Min; r <= t.Domain.Max; r++ {
		out[t.Domain.Key(r)] = t.Count(p, r)
	}

	return out
}

// Lookup returns the arena index of the product with the given id.
func (t *RankTable) Lookup(id ProductID) (int, bool) {
	for i, p := range t.Products {
		if p.ID == id {
			return i, true
		}
	}

	return 0, false
}
