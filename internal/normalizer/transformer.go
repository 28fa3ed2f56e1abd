package normalizer

import (
	"surveyrank/internal/models"
)

// Transformer derives the product arena from a header row.
type Transformer struct {
	slug SlugFunc
}

// NewTransformer creates a transformer using the given slug function.
func NewTransformer(slug SlugFunc) *Transformer {
	if slug == nil {
		slug = Slugify
	}

	return &Transformer{slug: slug}
}

// Transform declares one product per distinct identifier, in the order the
// headers appear. A repeated identifier appends its column to the product
// declared first; rejecting repeats is the Validator's job.
func (t *Transformer) Transform(header []string) []models.Product {
	products := make([]models.Product, 0, len(header))
	byID := make(map[models.ProductID]int, len(header))

	for col, h := range header {
		id := models.ProductID(t.slug(h))

		if idx, ok := byID[id]; ok {
			products[idx].Columns = append(products[idx].Columns, col)

			continue
		}

		byID[id] = len(products)
		products = append(products, models.Product{
			ID:      id,
			Header:  h,
			Columns: []int{col},
		})
	}

	return products
}
