package devices

import (
	"fmt"
	"strings"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 50
	DefaultSort     = "createdAt,desc"
)

// sortColumns maps caller-facing sort fields to the columns the store may
// order by. A field outside this map never reaches query construction.
var sortColumns = map[string]string{
	"id":        "id",
	"name":      "name",
	"brand":     "brand",
	"state":     "state",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// Page is a validated paging and sorting request.
type Page struct {
	Number     int
	Size       int
	SortColumn string
	Descending bool
}

// NewPage validates paging bounds and the "field,direction" sort token.
// The direction defaults to descending unless the token case-insensitively
// equals "asc".
func NewPage(number int, size int, sort string) (Page, error) {
	if number < 0 {
		return Page{}, NewValidationError("page", "must not be negative")
	}
	if size < 1 || size > MaxPageSize {
		return Page{}, NewValidationError("size", fmt.Sprintf("must be between 1 and %d", MaxPageSize))
	}
	if sort == "" {
		sort = DefaultSort
	}
	field := sort
	direction := ""
	if i := strings.Index(sort, ","); i >= 0 {
		field, direction = sort[:i], sort[i+1:]
	}
	column, ok := sortColumns[field]
	if !ok {
		return Page{}, NewValidationError("sort", fmt.Sprintf("cannot sort by %q", field))
	}
	return Page{
		Number:     number,
		Size:       size,
		SortColumn: column,
		Descending: !strings.EqualFold(direction, "asc"),
	}, nil
}

func (p Page) Offset() int {
	return p.Number * p.Size
}

// OrderBy returns the ORDER BY expression for this page. Safe to
// interpolate: the column comes from the sortColumns allowlist.
func (p Page) OrderBy() string {
	if p.Descending {
		return p.SortColumn + " DESC"
	}
	return p.SortColumn + " ASC"
}
