package pagination

import "math"

const (
	DefaultPageSize = 20
	MaxPageSize     = 1000
)

// Pageable is a zero-based page request.
type Pageable struct {
	Page int
	Size int
}

// NewPageable normalizes page and size, falling back to the defaults for
// non-positive sizes and clamping sizes above MaxPageSize.
func NewPageable(page, size int) Pageable {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Pageable{Page: page, Size: size}
}

func (p Pageable) Offset() int {
	return p.Page * p.Size
}

// OffsetOverflows reports whether Page*Size does not fit in an int.
func (p Pageable) OffsetOverflows() bool {
	return p.Size > 0 && p.Page > math.MaxInt/p.Size
}

type Page[T any] struct {
	Content       []T
	TotalElements int64
	Pageable      Pageable
}

func NewPage[T any](content []T, pageable Pageable, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	return Page[T]{Content: content, TotalElements: total, Pageable: pageable}
}

func Empty[T any](pageable Pageable) Page[T] {
	return NewPage[T](nil, pageable, 0)
}

func (p Page[T]) TotalPages() int {
	if p.Pageable.Size <= 0 {
		return 0
	}
	return int((p.TotalElements + int64(p.Pageable.Size) - 1) / int64(p.Pageable.Size))
}

// Map converts the content of a page, keeping its paging metadata.
func Map[T, R any](p Page[T], fn func(T) R) Page[R] {
	out := make([]R, 0, len(p.Content))
	for _, item := range p.Content {
		out = append(out, fn(item))
	}
	return Page[R]{Content: out, TotalElements: p.TotalElements, Pageable: p.Pageable}
}
