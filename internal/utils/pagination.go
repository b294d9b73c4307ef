// Package utils holds the feed pagination window shared by the HTTP layer
// and the post service.
package utils

import "strconv"

// Feed page bounds.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is a 1-based page of the feed.
type Page struct {
	Number int
	Size   int
}

// ParsePage reads page and page_size query values. Missing or malformed
// values fall back to the defaults, and both are clamped to their bounds.
func ParsePage(number, size string) Page {
	return Page{
		Number: AtoiDefault(number, 1),
		Size:   AtoiDefault(size, DefaultPageSize),
	}.Clamp()
}

// Clamp bounds the page number to >= 1 and the size to [1, MaxPageSize].
// A zero size means DefaultPageSize.
func (p Page) Clamp() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	switch {
	case p.Size == 0:
		p.Size = DefaultPageSize
	case p.Size < 1:
		p.Size = 1
	case p.Size > MaxPageSize:
		p.Size = MaxPageSize
	}
	return p
}

// Offset is the number of rows before the page.
func (p Page) Offset() int { return (p.Number - 1) * p.Size }

// AtoiDefault parses s as a base-10 int, returning def when s is empty or
// malformed.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
