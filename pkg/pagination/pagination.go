// Package pagination implements the list envelope shared by the task and
// project collections.
package pagination

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Params carries the caller-requested page coordinates. Normalize before use.
type Params struct {
	Page    int
	PerPage int
}

// Normalize clamps per_page to [1, MaxPerPage] and floors page at 1.
// A page past the end of the collection stays as requested; it simply
// yields no items.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = 1
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Offset returns the row offset for the (normalized) page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Page is the envelope returned to callers. Items is never nil.
type Page[T any] struct {
	Items       []T   `json:"items"`
	Total       int64 `json:"total"`
	Pages       int   `json:"pages"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
}

// NewPage assembles the envelope for items fetched with the given params.
func NewPage[T any](items []T, total int64, p Params) Page[T] {
	if items == nil {
		items = make([]T, 0)
	}
	pages := int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	return Page[T]{
		Items:       items,
		Total:       total,
		Pages:       pages,
		CurrentPage: p.Page,
		PerPage:     p.PerPage,
	}
}
