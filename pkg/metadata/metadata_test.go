package metadata

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const report = "# Product ranking\n\n| # | Product | Total |\n|---|---|---|\n| 1 | hornos | 2.8 |\n"

func TestSignAndVerify(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	signed := Sign(report, SignOptions{
		Validated:   true,
		Version:     "1.0",
		RunID:       "3f0c",
		Respondents: 58,
		Now:         now,
	})

	assert.True(t, strings.HasPrefix(signed, strings.TrimRight(report, "\n")+"\n\n"+TagStart))
	assert.True(t, strings.HasSuffix(signed, TagEnd))

	ok, err := Verify(signed)
	require.NoError(t, err)
	assert.True(t, ok)

	meta, clean := Extract(signed)
	require.NotNil(t, meta)
	assert.Equal(t, strings.TrimRight(report, "\n"), clean)
	assert.True(t, meta.Validation)
	assert.True(t, now.Equal(meta.LastModify), "last modify = %v", meta.LastModify)
	assert.Equal(t, "1.0", meta.Version)
	assert.Equal(t, "3f0c", meta.RunID)
	assert.Equal(t, 58, meta.Respondents)
	assert.Equal(t, CalculateHash(report), meta.Hash)
}

func TestSign_ReplacesExistingBlock(t *testing.T) {
	first := Sign(report, SignOptions{RunID: "a"})
	second := Sign(first, SignOptions{RunID: "b"})

	assert.Equal(t, 1, strings.Count(second, TagStart))

	meta, _ := Extract(second)
	require.NotNil(t, meta)
	assert.Equal(t, "b", meta.RunID)
	assert.False(t, meta.Validation)
}

func TestVerify_DetectsTampering(t *testing.T) {
	signed := Sign(report, SignOptions{Validated: true})
	tampered := strings.Replace(signed, "2.8", "9.9", 1)

	ok, err := Verify(tampered)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrHashMismatch)
}

func TestVerify_MissingBlock(t *testing.T) {
	ok, err := Verify(report)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrNoMetadataBlock)
}

func TestVerify_MissingHash(t *testing.T) {
	content := report + "\n" + TagStart + "\nVALIDATION: TRUE\n" + TagEnd

	ok, err := Verify(content)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrNoHashFound)
}

func TestCalculateHash_IgnoresBlock(t *testing.T) {
	signed := Sign(report, SignOptions{})
	assert.Equal(t, CalculateHash(report), CalculateHash(signed))
	assert.Len(t, CalculateHash(report), 64)
}
