package models

// ProductID is the canonical slug of a product header.
type ProductID string

// String returns the identifier text.
func (id ProductID) String() string {
	return string(id)
}

// Product is one entry of the product arena.
type Product struct {
	ID      ProductID `json:"product"`
	Header  string    `json:"header"`
	Columns []int     `json:"columns"`
}

// ColumnIndex maps a table column position to the arena index of the
// product that column feeds.
type ColumnIndex []int

// Width returns the number of columns the index covers.
func (ci ColumnIndex) Width() int {
	return len(ci)
}

// Product returns the arena index owning column col.
func (ci ColumnIndex) Product(col int) (int, bool) {
	if col < 0 || col >= len(ci) {
		return 0, false
	}

	return ci[col], true
}

// Table is a loaded survey sheet: the header row and the data rows below it.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}
