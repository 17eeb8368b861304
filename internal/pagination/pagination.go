package pagination

import (
	"errors"
	"fmt"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50
)

var ErrInvalidPagination = errors.New("invalid pagination")

// Paginator turns optional page/limit inputs into a LIMIT/OFFSET pair.
type Paginator struct {
	DefaultLimit int
	MaxLimit     int
}

func New(defaultLimit, maxLimit int) Paginator {
	if maxLimit < 1 {
		maxLimit = MaxLimit
	}
	if defaultLimit < 1 || defaultLimit > maxLimit {
		defaultLimit = min(DefaultLimit, maxLimit)
	}
	return Paginator{DefaultLimit: defaultLimit, MaxLimit: maxLimit}
}

// LimitAndOffset maps a 1-based page and a page size to limit and offset.
// A missing or zero page means the first page; a missing limit means the default.
func (p Paginator) LimitAndOffset(page, limit *int) (int, int, error) {
	pg := 1
	if page != nil {
		switch {
		case *page < 0:
			return 0, 0, fmt.Errorf("%w: page %d is < 1", ErrInvalidPagination, *page)
		case *page > 0:
			pg = *page
		}
	}

	l := p.DefaultLimit
	if limit != nil {
		if *limit < 1 || *limit > p.MaxLimit {
			return 0, 0, fmt.Errorf("%w: limit %d is outside 1..%d", ErrInvalidPagination, *limit, p.MaxLimit)
		}
		l = *limit
	}

	return l, l * (pg - 1), nil
}

// LimitAndOffset applies the package defaults.
func LimitAndOffset(page, limit *int) (int, int, error) {
	return New(DefaultLimit, MaxLimit).LimitAndOffset(page, limit)
}
