// Package ranking aggregates per-respondent rank assignments into a
// weighted product leaderboard.
//
// A run has four steps: map sheet columns to products, count how often each
// product received each rank, reduce the counts to one weighted total per
// product, and sort the totals in descending order.
//
// The weight of rank r is RankMax - r - 1 and the weighted sum is divided
// by RankMax. Rank 1 therefore weighs RankMax-2 and rank RankMax weighs -1.
// This is the formula the published survey results were computed with and
// it is kept as is; callers that want a different weighting should
// post-process the counts from Tabulate.
package ranking

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"

	"surveyrank/internal/logger"
	"surveyrank/internal/models"
	"surveyrank/internal/normalizer"
)

// Options configures an Engine.
type Options struct {
	Logger *logger.Logger
	Now    func() time.Time
	RunID  func() string
	// Duplicates decides what happens when two headers share an identifier.
	Duplicates normalizer.DuplicatePolicy
	// IncludeLastRow keeps the final data row of a sheet. False reproduces
	// the survey exports, whose last line is not a respondent.
	IncludeLastRow bool
	AllowUnicode   bool
}

// Engine computes leaderboards for one rank domain.
type Engine struct {
	log        *logger.Logger
	now        func() time.Time
	runID      func() string
	processor  *normalizer.Processor
	domain     models.RankDomain
	weights    []float64
	includeEnd bool
}

// New creates an engine for domain with default options.
func New(domain models.RankDomain) (*Engine, error) {
	return NewWithOptions(domain, Options{})
}

// NewWithOptions creates an engine for domain.
func NewWithOptions(domain models.RankDomain, opts Options) (*Engine, error) {
	if domain.Min < 1 || domain.Size() == 0 {
		return nil, fmt.Errorf("%w: %d..%d", ErrInvalidDomain, domain.Min, domain.Max)
	}

	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}

	if opts.Now == nil {
		opts.Now = time.Now
	}

	if opts.RunID == nil {
		opts.RunID = uuid.NewString
	}

	return &Engine{
		log:   opts.Logger,
		now:   opts.Now,
		runID: opts.RunID,
		processor: normalizer.NewProcessor(normalizer.Options{
			Policy:       opts.Duplicates,
			AllowUnicode: opts.AllowUnicode,
		}),
		domain:     domain,
		weights:    domain.Weights(),
		includeEnd: opts.IncludeLastRow,
	}, nil
}

// Domain returns the engine's rank domain.
func (e *Engine) Domain() models.RankDomain {
	return e.domain
}

// DataRows returns the rows that are tabulated: all of them when the
// engine includes the last row, otherwise all but the last.
func (e *Engine) DataRows(rows [][]string) [][]string {
	if e.includeEnd || len(rows) == 0 {
		return rows
	}

	return rows[:len(rows)-1]
}

// Tabulate counts, for every product, how many rows gave it each rank.
// The first malformed cell or short row aborts with no partial result.
func (e *Engine) Tabulate(rows [][]string, products []models.Product, index models.ColumnIndex) (*models.RankTable, error) {
	table := models.NewRankTable(e.domain, products)
	width := index.Width()

	for i, row := range rows {
		if len(row) != width {
			return nil, &ColumnCountError{Row: i, Got: len(row), Want: width}
		}

		for col, cell := range row {
			p := index[col]

			r, ok := e.domain.Parse(cell)
			if !ok {
				return nil, &MalformedRankError{
					Product: products[p].ID,
					Value:   cell,
					Domain:  e.domain,
					Row:     i,
					Column:  col,
				}
			}

			table.Increment(p, r)
		}
	}

	table.Respondents = len(rows)

	return table, nil
}

// Score reduces every product's counts to its weighted total, in arena order.
func (e *Engine) Score(table *models.RankTable) []models.ProductScore {
	scores := make([]models.ProductScore, len(table.Products))
	counts := make([]float64, len(e.weights))
	divisor := e.domain.Divisor()

	for p, product := range table.Products {
		for r, c := range table.Counts[p] {
			counts[r] = float64(c)
		}

		scores[p] = models.ProductScore{
			Product:   product.ID,
			Header:    product.Header,
			Total:     floats.Dot(counts, e.weights) / divisor,
			Responses: table.Total(p),
		}
	}

	return scores
}

// Rank sorts scores by descending total in place. Equal totals keep their
// relative order, which is header order for Score's output.
func Rank(scores []models.ProductScore) []models.ProductScore {
	slices.SortStableFunc(scores, func(a, b models.ProductScore) int {
		return cmp.Compare(b.Total, a.Total)
	})

	return scores
}

// CalculateTotalRanking tabulates rows and scores every product. The
// returned scores are in header order; the table is returned for callers
// that report the raw counts.
func (e *Engine) CalculateTotalRanking(rows [][]string, products []models.Product) ([]models.ProductScore, *models.RankTable, error) {
	width := 0
	for _, p := range products {
		width += len(p.Columns)
	}

	index, err := BuildColumnIndex(products, width)
	if err != nil {
		return nil, nil, err
	}

	table, err := e.Tabulate(rows, products, index)
	if err != nil {
		return nil, nil, err
	}

	return e.Score(table), table, nil
}

// Products normalizes a header row into the product arena.
func (e *Engine) Products(header []string) ([]models.Product, error) {
	return e.processor.Process(header)
}

// BuildProductRankings runs the whole pipeline over a loaded sheet and
// returns the sorted leaderboard.
func (e *Engine) BuildProductRankings(sheet models.Table) (*models.Leaderboard, error) {
	start := e.now()

	products, err := e.Products(sheet.Header)
	if err != nil {
		return nil, err
	}

	rows := e.DataRows(sheet.Rows)

	e.log.Debug("Tabulating survey rows",
		"rows", len(rows),
		"dropped", len(sheet.Rows)-len(rows),
		"products", len(products),
	)

	scores, table, err := e.CalculateTotalRanking(rows, products)
	if err != nil {
		return nil, err
	}

	Rank(scores)

	lb := &models.Leaderboard{
		GeneratedAt: start.UTC(),
		RunID:       e.runID(),
		Scores:      scores,
		Summary:     Summarize(scores),
		Domain:      e.domain,
		Respondents: table.Respondents,
	}

	e.log.Debug("Ranking complete",
		"run_id", lb.RunID,
		"respondents", lb.Respondents,
		"duration", e.now().Sub(start),
	)

	return lb, nil
}
