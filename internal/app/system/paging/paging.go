// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MaxLimit bounds any client-supplied page size.
const MaxLimit = 100

// Params is a 1-based page number and a page size.
type Params struct {
	Page  int
	Limit int
}

// Parse reads ?page= and ?limit= from the request. Missing or invalid
// values fall back to page 1 and defaultLimit; limit is capped at MaxLimit.
func Parse(r *http.Request, defaultLimit int) Params {
	p := Params{Page: 1, Limit: defaultLimit}
	if n, err := strconv.Atoi(query.Get(r, "page")); err == nil && n >= 1 {
		p.Page = n
	}
	if n, err := strconv.Atoi(query.Get(r, "limit")); err == nil && n >= 1 {
		p.Limit = n
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Skip is the number of rows before the requested page.
func (p Params) Skip() int64 { return int64((p.Page - 1) * p.Limit) }

// Apply sets skip and limit on a Find.
func (p Params) Apply(find *options.FindOptions) *options.FindOptions {
	return find.SetSkip(p.Skip()).SetLimit(int64(p.Limit))
}

// Pagination is the JSON meta block returned next to a page of rows.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// Meta builds the pagination block for total matching rows.
func (p Params) Meta(total int64) Pagination {
	pages := int64(0)
	if p.Limit > 0 {
		pages = (total + int64(p.Limit) - 1) / int64(p.Limit)
	}
	return Pagination{Page: p.Page, Limit: p.Limit, Total: total, Pages: pages}
}
