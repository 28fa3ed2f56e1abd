package loader

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"surveyrank/internal/models"
)

// DefaultDelimiter separates fields in the survey exports.
const DefaultDelimiter = ';'

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadDelimited parses delimiter-separated text into a table. A leading
// UTF-8 byte order mark is dropped. Rows may differ in width; that is
// checked when the table is ranked. Blank lines after the header are kept
// as empty rows, so a trailing blank line is the row that gets excluded
// and a blank line mid-sheet fails the width check.
func ReadDelimited(r io.Reader, delim rune) (models.Table, error) {
	if delim == 0 {
		delim = DefaultDelimiter
	}

	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return models.Table{}, fmt.Errorf("failed to skip byte order mark: %w", err)
		}
	}

	counter := &lineCounter{r: br}

	reader := csv.NewReader(counter)
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var table models.Table

	// next is the line a record would start on if no blank line came first.
	next := 1

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return models.Table{}, fmt.Errorf("failed to read delimited input: %w", err)
		}

		start, _ := reader.FieldPos(0)
		end, _ := reader.FieldPos(len(record) - 1)
		end += strings.Count(record[len(record)-1], "\n")

		if table.Header == nil {
			table.Header = record
			next = end + 1

			continue
		}

		table.Rows = appendBlank(table.Rows, start-next)
		table.Rows = append(table.Rows, record)
		next = end + 1
	}

	if table.Header == nil {
		return models.Table{}, ErrEmptyTable
	}

	table.Rows = appendBlank(table.Rows, counter.total()-(next-1))

	return table, nil
}

func appendBlank(rows [][]string, n int) [][]string {
	for ; n > 0; n-- {
		rows = append(rows, []string{})
	}

	return rows
}

// lineCounter counts the lines read through it.
type lineCounter struct {
	r        io.Reader
	newlines int
	last     byte
}

func (c *lineCounter) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.newlines += bytes.Count(p[:n], []byte{'\n'})
		c.last = p[n-1]
	}

	return n, err
}

// total returns the number of lines seen, counting an unterminated last line.
func (c *lineCounter) total() int {
	if c.last != 0 && c.last != '\n' {
		return c.newlines + 1
	}

	return c.newlines
}
