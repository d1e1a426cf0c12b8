// Package paging derives page state from a total item count and a fixed page size.
package paging

// Pager tracks the current 1-based page over totalItems items. The current page
// always lies in [1, max(TotalPages, 1)].
type Pager struct {
	size  int
	total int
	page  int
}

// New returns a Pager on page 1. Sizes below one are treated as one.
func New(size int) Pager {
	if size < 1 {
		size = 1
	}
	return Pager{size: size, page: 1}
}

// Size returns the page size.
func (p Pager) Size() int { return p.size }

// Total returns the item count the pager was last given.
func (p Pager) Total() int { return p.total }

// Page returns the current page.
func (p Pager) Page() int {
	if p.page < 1 {
		return 1
	}
	return p.page
}

// TotalPages returns ceil(total / size).
func (p Pager) TotalPages() int {
	if p.size < 1 || p.total <= 0 {
		return 0
	}
	return (p.total + p.size - 1) / p.size
}

// LastPage returns the highest page the pager may point at.
func (p Pager) LastPage() int {
	return max(p.TotalPages(), 1)
}

// HasNext reports whether Next would move.
func (p Pager) HasNext() bool { return p.Page() < p.LastPage() }

// HasPrevious reports whether Previous would move.
func (p Pager) HasPrevious() bool { return p.Page() > 1 }

// SetTotal records a new item count and reclamps the current page. It returns
// true when the current page changed.
func (p *Pager) SetTotal(total int) bool {
	if total < 0 {
		total = 0
	}
	p.total = total
	return p.Jump(p.Page())
}

// Next advances one page. It is a no-op on the last page.
func (p *Pager) Next() bool {
	return p.Jump(p.Page() + 1)
}

// Previous goes back one page. It is a no-op on the first page.
func (p *Pager) Previous() bool {
	return p.Jump(p.Page() - 1)
}

// Jump moves to page, clamped to the valid range. It returns true when the
// current page changed.
func (p *Pager) Jump(page int) bool {
	if p.size < 1 {
		p.size = 1
	}
	clamped := min(max(page, 1), p.LastPage())
	changed := clamped != p.page
	p.page = clamped
	return changed
}

// Bounds returns the half-open [start, end) item range of the current page.
func (p Pager) Bounds() (start, end int) {
	start = (p.Page() - 1) * p.size
	if start > p.total {
		start = p.total
	}
	end = min(start+p.size, p.total)
	return start, end
}

// Slice returns the items of the current page. items is expected to hold the
// whole collection the pager was sized for.
func Slice[T any](p Pager, items []T) []T {
	p.total = len(items)
	start, end := p.Bounds()
	if start >= end {
		return nil
	}
	return items[start:end]
}
