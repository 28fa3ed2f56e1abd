// Package metadata signs ranking reports with a trailing metadata block and
// verifies them later.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// TagStart is the start of the metadata block.
	TagStart = "<!-- METADATA_START"
	// TagEnd is the end of the metadata block.
	TagEnd = "METADATA_END -->"
)

// Metadata verification errors.
var (
	ErrNoMetadataBlock = errors.New("no metadata block found")
	ErrNoHashFound     = errors.New("no hash found in metadata")
	ErrHashMismatch    = errors.New("hash mismatch")
)

// Metadata contains the report status information.
type Metadata struct {
	LastModify  time.Time
	Version     string
	RunID       string
	Respondents int
	Hash        string
	Validation  bool
}

// SignOptions describes the run a report was produced by.
type SignOptions struct {
	Validated   bool
	Version     string
	RunID       string
	Respondents int
	// Now defaults to time.Now.
	Now time.Time
}

// metadataRegex matches the entire metadata block including tags.
var metadataRegex = regexp.MustCompile(`(?s)<!--\s*METADATA_START\s*\n(.*?)\n\s*METADATA_END\s*-->`)

// Extract removes the metadata block from content and returns both the metadata and the cleaned content.
// The cleaned content is what gets hashed.
func Extract(content string) (*Metadata, string) {
	match := metadataRegex.FindStringSubmatch(content)
	cleanContent := metadataRegex.ReplaceAllString(content, "")
	cleanContent = strings.TrimRight(cleanContent, "\n")

	if len(match) < 2 {
		return nil, cleanContent
	}

	meta := &Metadata{}

	for line := range strings.SplitSeq(match[1], "\n") {
		key, val, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)

		switch key {
		case "VALIDATION":
			meta.Validation = strings.EqualFold(val, "TRUE")
		case "LAST_MODIFY":
			if t, err := time.Parse(time.RFC3339, val); err == nil {
				meta.LastModify = t
			}
		case "HASH":
			meta.Hash = val
		case "VERSION":
			meta.Version = val
		case "RUN_ID":
			meta.RunID = val
		case "RESPONDENTS":
			if n, err := strconv.Atoi(val); err == nil {
				meta.Respondents = n
			}
		}
	}

	return meta, cleanContent
}

// CalculateHash computes the SHA-256 hash of the content (excluding metadata).
func CalculateHash(content string) string {
	_, clean := Extract(content)
	hash := sha256.Sum256([]byte(clean))

	return hex.EncodeToString(hash[:])
}

// Sign appends or replaces the metadata block with a fresh hash and timestamp.
func Sign(content string, opts SignOptions) string {
	_, clean := Extract(content)

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	valStr := "FALSE"
	if opts.Validated {
		valStr = "TRUE"
	}

	var b strings.Builder

	b.WriteString(clean)
	b.WriteString("\n\n")
	b.WriteString(TagStart + "\n")
	fmt.Fprintf(&b, "VALIDATION: %s\n", valStr)
	fmt.Fprintf(&b, "LAST_MODIFY: %s\n", now.UTC().Format(time.RFC3339))

	if opts.Version != "" {
		fmt.Fprintf(&b, "VERSION: %s\n", opts.Version)
	}

	if opts.RunID != "" {
		fmt.Fprintf(&b, "RUN_ID: %s\n", opts.RunID)
	}

	fmt.Fprintf(&b, "RESPONDENTS: %d\n", opts.Respondents)
	fmt.Fprintf(&b, "HASH: %s\n", CalculateHash(clean))
	b.WriteString(TagEnd)

	return b.String()
}

// Verify checks if the content matches the hash in its metadata.
func Verify(content string) (bool, error) {
	meta, clean := Extract(content)
	if meta == nil {
		return false, ErrNoMetadataBlock
	}

	if meta.Hash == "" {
		return false, ErrNoHashFound
	}

	calculated := CalculateHash(clean)
	if calculated != meta.Hash {
		return false, fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, meta.Hash, calculated)
	}

	return true, nil
}
