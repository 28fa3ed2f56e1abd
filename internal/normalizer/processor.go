// Package normalizer turns survey header text into canonical product identifiers.
package normalizer

import (
	"fmt"

	"surveyrank/internal/models"
)

// Processor validates a header row and derives products from it.
type Processor struct {
	validator   *Validator
	transformer *Transformer
}

// Options configures a Processor.
type Options struct {
	Policy       DuplicatePolicy
	AllowUnicode bool
}

// NewProcessor creates a new processor instance.
func NewProcessor(opts Options) *Processor {
	slug := Slugify
	if opts.AllowUnicode {
		slug = SlugifyUnicode
	}

	return &Processor{
		validator:   NewValidator(slug, opts.Policy),
		transformer: NewTransformer(slug),
	}
}

// Process returns the product arena for header, in header order.
func (p *Processor) Process(header []string) ([]models.Product, error) {
	if err := p.validator.Validate(header); err != nil {
		return nil, fmt.Errorf("header validation failed: %w", err)
	}

	return p.transformer.Transform(header), nil
}
