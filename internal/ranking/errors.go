package ranking

import (
	"errors"
	"fmt"

	"surveyrank/internal/models"
)

// Ranking errors. Every one of them aborts the run.
var (
	ErrMalformedRank       = errors.New("malformed rank")
	ErrColumnCountMismatch = errors.New("column count mismatch")
	ErrColumnIndex         = errors.New("column index is not exact")
	ErrInvalidDomain       = errors.New("invalid rank domain")
)

// headerLines is the number of lines above the first data row.
const headerLines = 1

// MalformedRankError reports a cell that is not a rank key of the domain.
type MalformedRankError struct {
	Product models.ProductID
	Value   string
	Domain  models.RankDomain
	Row     int
	Column  int
}

// Line returns the 1-based line of the offending row in the source sheet.
func (e *MalformedRankError) Line() int {
	return e.Row + headerLines + 1
}

func (e *MalformedRankError) Error() string {
	return fmt.Sprintf("%s %q at line %d, column %d (%s): want %d..%d",
		ErrMalformedRank, e.Value, e.Line(), e.Column+1, e.Product, e.Domain.Min, e.Domain.Max)
}

func (e *MalformedRankError) Unwrap() error {
	return ErrMalformedRank
}

// ColumnCountError reports a data row whose width differs from the header.
type ColumnCountError struct {
	Row  int
	Got  int
	Want int
}

// Line returns the 1-based line of the offending row in the source sheet.
func (e *ColumnCountError) Line() int {
	return e.Row + headerLines + 1
}

func (e *ColumnCountError) Error() string {
	return fmt.Sprintf("%s at line %d: row has %d columns, expected %d",
		ErrColumnCountMismatch, e.Line(), e.Got, e.Want)
}

func (e *ColumnCountError) Unwrap() error {
	return ErrColumnCountMismatch
}
