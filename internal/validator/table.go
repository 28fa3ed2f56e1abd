// Package validator checks survey sheets and signed reports and collects
// every problem it finds instead of stopping at the first.
package validator

import (
	"fmt"
	"io"
	"unicode/utf8"

	"surveyrank/internal/models"
	"surveyrank/internal/normalizer"
	"surveyrank/pkg/metadata"
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Header  string
	Value   string
	Message string
	Line    int
	Column  int
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []string
	Stats    ValidationStats
	IsValid  bool
}

// ValidationStats contains validation statistics.
type ValidationStats struct {
	TotalRows      int
	ValidRows      int
	InvalidRows    int
	MalformedCells int
	ShortRows      int
	LongRows       int
	ExcludedRows   int
}

// Options configures a TableValidator.
type Options struct {
	Domain         models.RankDomain
	IncludeLastRow bool
	Policy         normalizer.DuplicatePolicy
	Slug           normalizer.SlugFunc
}

// TableValidator validates a survey sheet the way the ranking engine reads it.
type TableValidator struct {
	opts Options
}

// NewTableValidator creates a new validator.
func NewTableValidator(opts Options) *TableValidator {
	if opts.Domain.Size() == 0 {
		opts.Domain = models.DefaultRankDomain()
	}

	if opts.Policy == "" {
		opts.Policy = normalizer.PolicyReject
	}

	if opts.Slug == nil {
		opts.Slug = normalizer.Slugify
	}

	return &TableValidator{opts: opts}
}

// Validate checks the header and every data row that would be ranked.
// Line numbers are 1-based with the header on line 1.
func (v *TableValidator) Validate(table models.Table) *ValidationResult {
	result := &ValidationResult{
		IsValid:  true,
		Errors:   []ValidationError{},
		Warnings: []string{},
	}

	v.validateHeader(table.Header, result)

	rows := table.Rows
	if !v.opts.IncludeLastRow && len(rows) > 0 {
		rows = rows[:len(rows)-1]
		result.Stats.ExcludedRows = 1
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("line %d is excluded from the ranking", len(table.Rows)+1))
	}

	if len(rows) == 0 {
		result.Warnings = append(result.Warnings, "no data rows: every product will score 0")
	}

	width := len(table.Header)

	for i, row := range rows {
		result.Stats.TotalRows++

		errs := v.validateRow(table.Header, row, i+2, width, &result.Stats)
		if len(errs) > 0 {
			result.IsValid = false
			result.Stats.InvalidRows++
			result.Errors = append(result.Errors, errs...)
		} else {
			result.Stats.ValidRows++
		}
	}

	if len(result.Errors) > 0 {
		result.IsValid = false
	}

	return result
}

func (v *TableValidator) validateHeader(header []string, result *ValidationResult) {
	if len(header) == 0 {
		result.Errors = append(result.Errors, ValidationError{
			Line:    1,
			Message: "header row has no columns",
		})

		return
	}

	seen := make(map[string]int, len(header))

	for col, h := range header {
		id := v.opts.Slug(h)
		if id == "" {
			result.Errors = append(result.Errors, ValidationError{
				Line:    1,
				Column:  col + 1,
				Value:   h,
				Message: "header normalizes to an empty identifier",
			})

			continue
		}

		first, ok := seen[id]
		if !ok {
			seen[id] = col
			continue
		}

		msg := fmt.Sprintf("identifier %q already used by column %d", id, first+1)
		if v.opts.Policy == normalizer.PolicyMerge {
			result.Warnings = append(result.Warnings, fmt.Sprintf("column %d: %s, counts are merged", col+1, msg))
			continue
		}

		result.Errors = append(result.Errors, ValidationError{
			Line:    1,
			Column:  col + 1,
			Header:  h,
			Message: msg,
		})
	}
}

func (v *TableValidator) validateRow(header, row []string, line, width int, stats *ValidationStats) []ValidationError {
	var errs []ValidationError

	switch {
	case len(row) < width:
		stats.ShortRows++
	case len(row) > width:
		stats.LongRows++
	}

	if len(row) != width {
		errs = append(errs, ValidationError{
			Line:    line,
			Message: fmt.Sprintf("expected %d columns, got %d", width, len(row)),
		})
	}

	for col, cell := range row[:min(len(row), width)] {
		if _, ok := v.opts.Domain.Parse(cell); ok {
			continue
		}

		stats.MalformedCells++

		errs = append(errs, ValidationError{
			Line:    line,
			Column:  col + 1,
			Header:  header[col],
			Value:   truncate(cell, 50),
			Message: fmt.Sprintf("rank must be an integer from %d to %d", v.opts.Domain.Min, v.opts.Domain.Max),
		})
	}

	return errs
}

// ValidateIntegrity checks a signed report against its metadata block.
func ValidateIntegrity(content string) *ValidationResult {
	result := &ValidationResult{IsValid: true}

	valid, err := metadata.Verify(content)
	if !valid {
		result.IsValid = false
		result.Errors = append(result.Errors, ValidationError{
			Message: fmt.Sprintf("integrity check failed: %v", err),
		})
	}

	return result
}

// truncate cuts s to at most maxLen runes.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}

	return string([]rune(s)[:maxLen]) + "..."
}

// String returns string representation of validation result.
func (r *ValidationResult) String() string {
	status := "✅ VALID"
	if !r.IsValid {
		status = "❌ INVALID"
	}

	return fmt.Sprintf(
		"%s | Total: %d | Valid: %d | Invalid: %d | Malformed cells: %d | Warnings: %d",
		status,
		r.Stats.TotalRows,
		r.Stats.ValidRows,
		r.Stats.InvalidRows,
		r.Stats.MalformedCells,
		len(r.Warnings),
	)
}

// PrintErrors writes validation errors in readable format.
func (r *ValidationResult) PrintErrors(w io.Writer) {
	if len(r.Errors) == 0 {
		return
	}

	fmt.Fprintln(w, "❌ Validation Errors:")

	for _, err := range r.Errors {
		if err.Line == 0 {
			fmt.Fprintf(w, "  %s\n", err.Message)
			continue
		}

		fmt.Fprintf(w, "  Line %d", err.Line)

		if err.Column > 0 {
			fmt.Fprintf(w, ", Col %d", err.Column)
		}

		if err.Header != "" {
			fmt.Fprintf(w, " [%s]", err.Header)
		}

		fmt.Fprintf(w, ": %s\n", err.Message)

		if err.Value != "" {
			fmt.Fprintf(w, "    Found: %q\n", err.Value)
		}
	}
}

// PrintWarnings writes validation warnings.
func (r *ValidationResult) PrintWarnings(w io.Writer) {
	if len(r.Warnings) == 0 {
		return
	}

	fmt.Fprintln(w, "⚠️  Validation Warnings:")

	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "  %s\n", warn)
	}
}
