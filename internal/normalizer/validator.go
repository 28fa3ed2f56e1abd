package normalizer

import (
	"errors"
	"fmt"

	"surveyrank/internal/models"
)

// Header validation errors.
var (
	ErrEmptyHeader       = errors.New("header row has no columns")
	ErrBlankIdentifier   = errors.New("header normalizes to an empty identifier")
	ErrDuplicateProduct  = errors.New("duplicate product identifier")
	ErrUnknownDuplicates = errors.New("unknown duplicate policy")
)

// DuplicatePolicy decides what happens when two headers share a slug.
type DuplicatePolicy string

// Supported duplicate policies.
const (
	// PolicyReject aborts the run.
	PolicyReject DuplicatePolicy = "reject"
	// PolicyMerge folds the later column into the earlier product so their
	// rank counts add up.
	PolicyMerge DuplicatePolicy = "merge"
)

// ParseDuplicatePolicy resolves a policy name; empty means reject.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(s) {
	case "", PolicyReject:
		return PolicyReject, nil
	case PolicyMerge:
		return PolicyMerge, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownDuplicates, s)
}

// DuplicateProductError reports two header columns normalizing to one id.
type DuplicateProductError struct {
	ID     models.ProductID
	First  int
	Second int
}

func (e *DuplicateProductError) Error() string {
	return fmt.Sprintf("%s %q: columns %d and %d", ErrDuplicateProduct, e.ID, e.First+1, e.Second+1)
}

func (e *DuplicateProductError) Unwrap() error {
	return ErrDuplicateProduct
}

// Validator checks a header row before products are derived from it.
type Validator struct {
	slug   SlugFunc
	policy DuplicatePolicy
}

// NewValidator creates a validator using the given slug function and policy.
func NewValidator(slug SlugFunc, policy DuplicatePolicy) *Validator {
	if slug == nil {
		slug = Slugify
	}

	if policy == "" {
		policy = PolicyReject
	}

	return &Validator{slug: slug, policy: policy}
}

// Validate checks that every header yields a usable identifier and, under
// PolicyReject, that no two headers collide.
func (v *Validator) Validate(header []string) error {
	if len(header) == 0 {
		return ErrEmptyHeader
	}

	seen := make(map[models.ProductID]int, len(header))

	for i, h := range header {
		id := models.ProductID(v.slug(h))
		if id == "" {
			return fmt.Errorf("%w: column %d (%q)", ErrBlankIdentifier, i+1, h)
		}

		if first, ok := seen[id]; ok {
			if v.policy == PolicyReject {
				return &DuplicateProductError{ID: id, First: first, Second: i}
			}

			continue
		}

		seen[id] = i
	}

	return nil
}
