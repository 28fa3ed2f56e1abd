// Package loader reads survey sheets from delimited text files, .xlsx
// workbooks and HTTP URLs.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"surveyrank/internal/logger"
	"surveyrank/internal/models"
)

// Loader errors.
var (
	ErrEmptyTable           = errors.New("input has no header row")
	ErrUnsupportedSource    = errors.New("source needs exactly one of path or url")
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrBodyTooLarge         = errors.New("response body exceeds limit")
	ErrSheetNotFound        = errors.New("sheet not found")
)

// StdinPath names standard input as a source path.
const StdinPath = "-"

var zipMagic = []byte("PK\x03\x04")

// Source describes where a survey sheet is read from.
type Source struct {
	Path      string
	URL       string
	Delimiter rune
	Sheet     string
}

func (s Source) String() string {
	if s.URL != "" {
		return s.URL
	}

	return s.Path
}

// Loader turns a Source into a table.
type Loader struct {
	fetcher *Fetcher
	stdin   io.Reader
	log     *logger.Logger
}

// New creates a loader. A nil fetcher uses NewFetcher and a nil logger
// discards output.
func New(fetcher *Fetcher, log *logger.Logger) *Loader {
	if fetcher == nil {
		fetcher = NewFetcher()
	}

	if log == nil {
		log = logger.Discard()
	}

	return &Loader{fetcher: fetcher, stdin: os.Stdin, log: log}
}

// WithStdin replaces the reader used for StdinPath.
func (l *Loader) WithStdin(r io.Reader) *Loader {
	l.stdin = r
	return l
}

// Load reads the source. Workbooks are recognised by extension or, for
// downloads and standard input, by their zip signature; everything else is
// parsed as delimited text.
func (l *Loader) Load(ctx context.Context, src Source) (models.Table, error) {
	if (src.Path == "") == (src.URL == "") {
		return models.Table{}, ErrUnsupportedSource
	}

	start := time.Now()

	data, name, err := l.read(ctx, src)
	if err != nil {
		return models.Table{}, err
	}

	var table models.Table

	if isWorkbook(name, data) {
		table, err = ReadWorkbook(bytes.NewReader(data), src.Sheet)
	} else {
		table, err = ReadDelimited(bytes.NewReader(data), src.Delimiter)
	}

	if err != nil {
		return models.Table{}, fmt.Errorf("failed to load %s: %w", src, err)
	}

	l.log.Debug("Loaded survey sheet",
		"source", src.String(),
		"bytes", len(data),
		"columns", len(table.Header),
		"rows", len(table.Rows),
		"duration", time.Since(start),
	)

	return table, nil
}

func (l *Loader) read(ctx context.Context, src Source) ([]byte, string, error) {
	switch {
	case src.URL != "":
		u, err := url.Parse(src.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return nil, "", fmt.Errorf("%w: %q is not an http(s) url", ErrUnsupportedSource, src.URL)
		}

		data, err := l.fetcher.Fetch(ctx, src.URL)
		if err != nil {
			return nil, "", fmt.Errorf("failed to fetch %s: %w", src.URL, err)
		}

		return data, path.Base(u.Path), nil
	case src.Path == StdinPath:
		data, err := io.ReadAll(l.stdin)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read standard input: %w", err)
		}

		return data, "", nil
	default:
		data, err := os.ReadFile(src.Path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read input file %s: %w", src.Path, err)
		}

		return data, filepath.Base(src.Path), nil
	}
}

func isWorkbook(name string, data []byte) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return true
	case ".csv", ".txt":
		return false
	}

	return bytes.HasPrefix(data, zipMagic)
}
