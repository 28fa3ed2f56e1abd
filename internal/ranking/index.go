package ranking

import (
	"fmt"

	"surveyrank/internal/models"
)

// BuildColumnIndex maps every column of a width-column sheet to the product
// that declared it. Each column must be claimed by exactly one product.
func BuildColumnIndex(products []models.Product, width int) (models.ColumnIndex, error) {
	index := make(models.ColumnIndex, width)
	for i := range index {
		index[i] = -1
	}

	for p, product := range products {
		for _, col := range product.Columns {
			if col < 0 || col >= width {
				return nil, fmt.Errorf("%w: product %q claims column %d of %d", ErrColumnIndex, product.ID, col+1, width)
			}

			if owner := index[col]; owner != -1 {
				return nil, fmt.Errorf("%w: column %d claimed by %q and %q",
					ErrColumnIndex, col+1, products[owner].ID, product.ID)
			}

			index[col] = p
		}
	}

	for col, owner := range index {
		if owner == -1 {
			return nil, fmt.Errorf("%w: column %d has no product", ErrColumnIndex, col+1)
		}
	}

	return index, nil
}
