// Package main provides the formatter command, which re-pads the tables of
// markdown ranking reports and re-signs the signed ones.
package main

import (
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"surveyrank/internal/formatter"
	"surveyrank/pkg/metadata"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	flags := flag.NewFlagSet("formatter", flag.ContinueOnError)
	flags.SetOutput(out)

	targetPath := flags.String("path", ".", "Path to file or directory to format")
	write := flags.Bool("write", false, "Write changes to file (default: false, dry-run)")

	if err := flags.Parse(args); err != nil {
		return 1
	}

	if *write {
		fmt.Fprintln(out, "✍️  Write mode ENABLED (files will be modified)")
	} else {
		fmt.Fprintln(out, "👀 Dry-run mode (no changes will be written)")
	}

	count, changed, failed := 0, 0, 0

	err := filepath.WalkDir(*targetPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			fmt.Fprintf(out, "❌ Error accessing path %s: %v\n", path, err)

			failed++

			return nil
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && d.Name() != "." {
				return filepath.SkipDir
			}

			return nil
		}

		if strings.ToLower(filepath.Ext(path)) != ".md" {
			return nil
		}

		count++

		wasChanged, procErr := processFile(path, *write)

		switch {
		case procErr != nil:
			fmt.Fprintf(out, "❌ Failed to process %s: %v\n", path, procErr)

			failed++
		case wasChanged && *write:
			changed++

			fmt.Fprintf(out, "✅ Formatted: %s\n", path)
		case wasChanged:
			changed++

			fmt.Fprintf(out, "📝 Would format: %s\n", path)
		}

		return nil
	})
	if err != nil {
		fmt.Fprintf(out, "❌ Error walking path: %v\n", err)
		return 1
	}

	fmt.Fprintf(out, "Scanned: %d | Changed: %d | Errors: %d\n", count, changed, failed)

	if failed > 0 || (changed > 0 && !*write) {
		return 1
	}

	return 0
}

// processFile formats one report. Only a change to the report body counts;
// a refreshed signature alone does not.
func processFile(path string, write bool) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	original := string(content)

	formatted, err := formatter.FormatMarkdown(original)
	if err != nil {
		return false, err
	}

	_, before := metadata.Extract(original)
	_, after := metadata.Extract(formatted)

	if before == after {
		return false, nil
	}

	if write {
		if err := os.WriteFile(path, []byte(formatted+"\n"), 0o644); err != nil {
			return false, err
		}
	}

	return true, nil
}
