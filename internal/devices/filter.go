package devices

import (
	"github.com/gadgetry-io/gadgetry/internal/models"
)

// Columns the filter composer may emit. The store interpolates clause
// columns into queries, so they must never come from caller input.
const (
	columnName  = "name"
	columnBrand = "brand"
	columnState = "state"
)

// Clause is a single equality criterion against a fixed column.
type Clause struct {
	Column string
	Value  any
}

// Filter is a conjunction of clauses. An empty filter matches every
// non-deleted record.
type Filter []Clause

// NewFilter builds a filter from whichever criteria are non-blank.
// Name and brand match by equality on the normalized columns, not by
// substring.
func NewFilter(name string, brand string, state models.DeviceState) Filter {
	var f Filter
	if n := Normalize(name); n != "" {
		f = append(f, Clause{Column: columnName, Value: n})
	}
	if b := Normalize(brand); b != "" {
		f = append(f, Clause{Column: columnBrand, Value: b})
	}
	if state != "" {
		f = append(f, Clause{Column: columnState, Value: state})
	}
	return f
}
