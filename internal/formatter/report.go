package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"surveyrank/internal/models"
)

// ErrUnknownFormat indicates an output format with no renderer.
var ErrUnknownFormat = errors.New("unknown output format")

// Format names an output rendering.
type Format string

// Supported output formats.
const (
	Markdown Format = "markdown"
	JSON     Format = "json"
	CSV      Format = "csv"
)

// ParseFormat resolves a format name; empty means Markdown.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", Markdown:
		return Markdown, nil
	case JSON:
		return JSON, nil
	case CSV:
		return CSV, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Options controls rendering.
type Options struct {
	Format Format
	// Top limits the entries rendered; 0 renders all.
	Top       int
	Pretty    bool
	Delimiter rune
}

type jsonResult struct {
	Position  int              `json:"position"`
	Product   models.ProductID `json:"product"`
	Header    string           `json:"header"`
	Total     float64          `json:"total"`
	Responses int              `json:"responses"`
}

type jsonReport struct {
	RunID       string         `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Respondents int            `json:"respondents"`
	RankMin     int            `json:"rank_min"`
	RankMax     int            `json:"rank_max"`
	Results     []jsonResult   `json:"results"`
	Summary     models.Summary `json:"summary"`
}

// Render renders lb in the requested format.
func Render(lb *models.Leaderboard, opts Options) (string, error) {
	switch opts.Format {
	case "", Markdown:
		return RenderMarkdown(lb, opts.Top), nil
	case JSON:
		return RenderJSON(lb, opts.Top, opts.Pretty)
	case CSV:
		return RenderCSV(lb, opts.Top, opts.Delimiter)
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
}

// RenderJSON renders lb as a JSON document.
func RenderJSON(lb *models.Leaderboard, top int, pretty bool) (string, error) {
	scores := lb.Top(top)

	report := jsonReport{
		RunID:       lb.RunID,
		GeneratedAt: lb.GeneratedAt,
		Respondents: lb.Respondents,
		RankMin:     lb.Domain.Min,
		RankMax:     lb.Domain.Max,
		Results:     make([]jsonResult, len(scores)),
		Summary:     lb.Summary,
	}

	for i, s := range scores {
		report.Results[i] = jsonResult{
			Position:  i + 1,
			Product:   s.Product,
			Header:    s.Header,
			Total:     s.Total,
			Responses: s.Responses,
		}
	}

	var (
		data []byte
		err  error
	)

	if pretty {
		data, err = json.MarshalIndent(report, "", "  ")
	} else {
		data, err = json.Marshal(report)
	}

	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	return string(data) + "\n", nil
}

// RenderCSV renders lb as delimited text with a header row. A zero
// delimiter means ';'.
func RenderCSV(lb *models.Leaderboard, top int, delim rune) (string, error) {
	if delim == 0 {
		delim = ';'
	}

	var buf bytes.Buffer

	w := csv.NewWriter(&buf)
	w.Comma = delim

	if err := w.Write([]string{"position", "product", "total", "responses"}); err != nil {
		return "", fmt.Errorf("failed to write csv header: %w", err)
	}

	for i, s := range lb.Top(top) {
		record := []string{
			strconv.Itoa(i + 1),
			s.Product.String(),
			strconv.FormatFloat(s.Total, 'f', -1, 64),
			strconv.Itoa(s.Responses),
		}

		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.String(), nil
}
