// Package formatter renders leaderboards and tidies markdown tables.
package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"surveyrank/internal/models"
	"surveyrank/pkg/metadata"
)

// FormatMarkdown takes a raw markdown string and re-pads every table in it
// by display width. A metadata block, if present, is re-signed over the
// formatted content.
func FormatMarkdown(content string) (string, error) {
	meta, cleanContent := metadata.Extract(content)

	formatted := formatTables(cleanContent)

	if meta == nil {
		return formatted, nil
	}

	return metadata.Sign(formatted, metadata.SignOptions{
		Validated:   meta.Validation,
		Version:     meta.Version,
		RunID:       meta.RunID,
		Respondents: meta.Respondents,
	}), nil
}

// RenderMarkdown renders the first top entries of lb (all when top <= 0) as
// a markdown report.
func RenderMarkdown(lb *models.Leaderboard, top int) string {
	var b strings.Builder

	b.WriteString("# Product ranking\n\n")
	fmt.Fprintf(&b, "Respondents: %d | Ranks: %d..%d | Products: %d\n",
		lb.Respondents, lb.Domain.Min, lb.Domain.Max, len(lb.Scores))

	if lb.RunID != "" {
		fmt.Fprintf(&b, "Run: %s | Generated: %s\n", lb.RunID, lb.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z07:00"))
	}

	b.WriteString("\n| # | Product | Total | Responses |\n| --- | --- | --- | --- |\n")

	for i, s := range lb.Top(top) {
		fmt.Fprintf(&b, "| %d | %s | %s | %d |\n", i+1, s.Product, strconv.FormatFloat(s.Total, 'f', 2, 64), s.Responses)
	}

	sum := lb.Summary
	fmt.Fprintf(&b, "\nMean: %.2f | Median: %.2f | Std dev: %.2f | Min: %.2f | Max: %.2f\n",
		sum.Mean, sum.Median, sum.StdDev, sum.Min, sum.Max)

	return formatTables(b.String())
}

func formatTables(content string) string {
	lines := strings.Split(content, "\n")

	var formattedLines []string

	var tableBuffer []string

	for _, line := range lines {
		trimmedLine := strings.TrimSpace(line)

		// Simple heuristic: starts and ends with |
		if strings.HasPrefix(trimmedLine, "|") && strings.HasSuffix(trimmedLine, "|") {
			tableBuffer = append(tableBuffer, line)

			continue
		}

		if len(tableBuffer) > 0 {
			formattedLines = append(formattedLines, processTable(tableBuffer)...)
			tableBuffer = nil
		}

		formattedLines = append(formattedLines, line)
	}

	if len(tableBuffer) > 0 {
		formattedLines = append(formattedLines, processTable(tableBuffer)...)
	}

	return strings.Join(formattedLines, "\n")
}

func processTable(rows []string) []string {
	// A table needs at least a header and a separator.
	if len(rows) < 2 {
		return rows
	}

	var table [][]string

	for _, row := range rows {
		parts := strings.Split(row, "|")

		// Leading and trailing pipes leave empty parts at the ends.
		if len(parts) > 0 && strings.TrimSpace(parts[0]) == "" {
			parts = parts[1:]
		}

		if len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
			parts = parts[:len(parts)-1]
		}

		cells := make([]string, 0, len(parts))
		for _, p := range parts {
			cells = append(cells, strings.TrimSpace(p))
		}

		table = append(table, cells)
	}

	colCount := 0
	for _, row := range table {
		colCount = max(colCount, len(row))
	}

	separatorRowIdx := -1
	if isSeparator(table[1]) {
		separatorRowIdx = 1
	}

	colWidths := make([]int, colCount)

	for rIdx, row := range table {
		if rIdx == separatorRowIdx {
			continue
		}

		for i, cell := range row {
			colWidths[i] = max(colWidths[i], runewidth.StringWidth(cell))
		}
	}

	// "---" is the narrowest separator.
	for i := range colWidths {
		colWidths[i] = max(colWidths[i], 3)
	}

	result := make([]string, 0, len(table))

	for i, row := range table {
		var sb strings.Builder

		sb.WriteString("|")

		for j := range colCount {
			sb.WriteString(" ")

			switch {
			case i == separatorRowIdx:
				sb.WriteString(strings.Repeat("-", colWidths[j]))
			default:
				content := ""
				if j < len(row) {
					content = row[j]
				}

				sb.WriteString(content)

				if padding := colWidths[j] - runewidth.StringWidth(content); padding > 0 {
					sb.WriteString(strings.Repeat(" ", padding))
				}
			}

			sb.WriteString(" |")
		}

		result = append(result, sb.String())
	}

	return result
}

func isSeparator(cells []string) bool {
	for _, cell := range cells {
		trim := strings.NewReplacer("-", "", ":", "", " ", "").Replace(cell)
		if trim != "" {
			return false
		}
	}

	return true
}
