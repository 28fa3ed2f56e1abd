// Package main provides the slugify command, which prints the product
// identifier each argument (or each stdin line) normalizes to.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"surveyrank/internal/normalizer"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("slugify", flag.ContinueOnError)
	fs.SetOutput(stderr)

	unicode := fs.Bool("unicode", false, "Keep non-ASCII letters instead of folding to ASCII")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	slug := normalizer.Slugify
	if *unicode {
		slug = normalizer.SlugifyUnicode
	}

	if fs.NArg() > 0 {
		for _, arg := range fs.Args() {
			fmt.Fprintln(stdout, slug(arg))
		}

		return 0
	}

	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		fmt.Fprintln(stdout, slug(scanner.Text()))
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(stderr, "Error reading input: %v\n", err)
		return 1
	}

	return 0
}
