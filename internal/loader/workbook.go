package loader

import (
	"fmt"
	"io"
	"slices"

	"github.com/xuri/excelize/v2"

	"surveyrank/internal/models"
)

// ReadWorkbook reads one sheet of an .xlsx workbook into a table. An empty
// sheet name selects the first sheet. Rows that end in blank cells come back
// trimmed from the workbook, so they are padded to the header width.
func ReadWorkbook(r io.Reader, sheet string) (models.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return models.Table{}, fmt.Errorf("failed to open workbook: %w", err)
	}

	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return models.Table{}, ErrEmptyTable
	}

	if sheet == "" {
		sheet = sheets[0]
	} else if !slices.Contains(sheets, sheet) {
		return models.Table{}, fmt.Errorf("%w: %q (have %v)", ErrSheetNotFound, sheet, sheets)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return models.Table{}, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	if len(rows) == 0 {
		return models.Table{}, ErrEmptyTable
	}

	table := models.Table{Header: rows[0]}
	width := len(table.Header)

	for _, row := range rows[1:] {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			row = padded
		}

		table.Rows = append(table.Rows, row)
	}

	return table, nil
}
