package model

// DefaultPageLimit is the page size used when the client sends none.
const DefaultPageLimit = 10

// PageOptions carries 1-indexed paging requested by a client. Page 0 (or
// absent) is treated like page 1.
type PageOptions struct {
	Page  int
	Limit int
}

// Normalize returns a copy with a positive limit and a non-negative page.
func (p PageOptions) Normalize(defaultLimit int) PageOptions {
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Page < 0 {
		p.Page = 0
	}
	return p
}

// Offset is (page-1)*limit, clamped so it is never negative.
func (p PageOptions) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}
