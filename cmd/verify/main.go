// Package main provides the verify command for checking signed ranking reports.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"surveyrank/internal/validator"
	"surveyrank/pkg/metadata"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(out)

	fs.Usage = func() {
		fmt.Fprintln(out, "Usage: verify <report.md> [report.md ...]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 1
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return 1
	}

	failed := 0

	for _, path := range fs.Args() {
		content, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(out, "❌ %s: %v\n", path, err)
			failed++

			continue
		}

		result := validator.ValidateIntegrity(string(content))
		if !result.IsValid {
			fmt.Fprintf(out, "❌ %s\n", path)
			result.PrintErrors(out)
			failed++

			continue
		}

		meta, _ := metadata.Extract(string(content))
		fmt.Fprintf(out, "✅ %s (run %s, %d respondents, signed %s)\n",
			path, meta.RunID, meta.Respondents, meta.LastModify.Format("2006-01-02 15:04:05Z07:00"))
	}

	if failed > 0 {
		return 1
	}

	return 0
}
