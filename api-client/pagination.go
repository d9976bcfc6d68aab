package apiclient

import (
	"context"
	"strconv"
)

// Pagination selects one page of a listing. An empty field is left out of the
// request entirely so the API default applies. Covalent numbers pages from 0.
type Pagination struct {
	PageSize   string
	PageNumber string
}

// Page is a convenience constructor for a fully specified Pagination.
func Page(size, number int) Pagination {
	return Pagination{PageSize: strconv.Itoa(size), PageNumber: strconv.Itoa(number)}
}

func (p Pagination) params() []QueryParam {
	var params []QueryParam
	if p.PageSize != "" {
		params = append(params, QueryParam{Key: pageSizeParam, Value: p.PageSize})
	}
	if p.PageNumber != "" {
		params = append(params, QueryParam{Key: pageNumberParam, Value: p.PageNumber})
	}
	return params
}

// Next returns the pagination for the page following the one described by
// overlay, and false when there is none. The next page number is always
// greater than p's. p itself is not modified.
func (p Pagination) Next(overlay PaginationOverlay) (Pagination, bool) {
	if !overlay.HasMore {
		return p, false
	}

	// the cursor only moves forward, whatever page_number the server reports
	current := 0
	if p.PageNumber != "" {
		n, err := strconv.Atoi(p.PageNumber)
		switch {
		case err == nil:
			current = n
		case overlay.PageNumber == nil:
			return p, false
		default:
			current = -1
		}
	}
	if overlay.PageNumber != nil && *overlay.PageNumber > current {
		current = *overlay.PageNumber
	}

	return Pagination{PageSize: p.PageSize, PageNumber: strconv.Itoa(current + 1)}, true
}

type fetchFunc[T any] func(ctx context.Context, page Pagination) (*ResourceEnvelope[T], error)

// Pager walks a paginated listing one request at a time. It is finite, lazy
// and restartable with Reset; it keeps only the latest page. A Pager must not
// be used from more than one goroutine.
//
//	pages := client.TokenHoldersPages(req)
//	for pages.Next(ctx) {
//		env := pages.Envelope()
//		...
//	}
//	if err := pages.Err(); err != nil {
//		...
//	}
type Pager[T any] struct {
	fetch fetchFunc[T]
	start Pagination
	next  Pagination
	env   *ResourceEnvelope[T]
	err   error
	done  bool
}

func newPager[T any](start Pagination, fetch fetchFunc[T]) *Pager[T] {
	return &Pager[T]{fetch: fetch, start: start, next: start}
}

// Next fetches the next page. It returns false once the previous page reported
// no more pages, carried an error overlay, or a request failed.
func (p *Pager[T]) Next(ctx context.Context) bool {
	if p.done {
		return false
	}

	env, err := p.fetch(ctx, p.next)
	if err != nil {
		p.err = err
		p.env = nil
		p.done = true
		return false
	}
	p.env = env

	next, more := p.next.Next(env.Pagination)
	if env.Error.Error || !more {
		p.done = true
		return true
	}
	p.next = next
	return true
}

// Envelope returns the page fetched by the last successful call to Next.
func (p *Pager[T]) Envelope() *ResourceEnvelope[T] {
	return p.env
}

// Cursor returns the pagination the next request will use.
func (p *Pager[T]) Cursor() Pagination {
	return p.next
}

// Err returns the failure that stopped the sequence, if any.
func (p *Pager[T]) Err() error {
	return p.err
}

// Reset rewinds the pager to its first page.
func (p *Pager[T]) Reset() {
	p.next = p.start
	p.env = nil
	p.err = nil
	p.done = false
}
