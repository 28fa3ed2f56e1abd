package models

import "time"

// ProductScore is a product's aggregate weighted score.
type ProductScore struct {
	Product   ProductID `json:"product"`
	Header    string    `json:"header"`
	Total     float64   `json:"total"`
	Responses int       `json:"responses"`
}

// Summary describes the distribution of totals across products.
type Summary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Leaderboard is the result of one ranking run, ordered by descending total.
type Leaderboard struct {
	GeneratedAt time.Time      `json:"generated_at"`
	RunID       string         `json:"run_id"`
	Scores      []ProductScore `json:"results"`
	Summary     Summary        `json:"summary"`
	Domain      RankDomain     `json:"domain"`
	Respondents int            `json:"respondents"`
}

// Top returns the first n entries. n <= 0 or n past the end returns all.
func (l *Leaderboard) Top(n int) []ProductScore {
	if n <= 0 || n >= len(l.Scores) {
		return l.Scores
	}

	return l.Scores[:n]
}
