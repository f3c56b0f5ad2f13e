// Package pagination implements limit/offset list windows with a total count.
package pagination

import "gorm.io/gorm"

// DefaultLimit applies when a request does not specify a limit.
const DefaultLimit = 50

// PageRequest holds pagination parameters parsed from query strings.
type PageRequest struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// Defaults fills in the default limit when not provided.
func (p *PageRequest) Defaults() {
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
}

// PageResponse wraps a window of items with the total matching count.
type PageResponse[T any] struct {
	Data   []T   `json:"data"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Total  int64 `json:"total"`
}

// NewPageResponse creates a PageResponse from the given data and total count.
func NewPageResponse[T any](data []T, limit, offset int, total int64) PageResponse[T] {
	if data == nil {
		data = []T{}
	}
	return PageResponse[T]{
		Data:   data,
		Limit:  limit,
		Offset: offset,
		Total:  total,
	}
}

// Paginate returns a GORM scope that applies OFFSET and LIMIT for the given
// page request.
func Paginate(req PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(req.Offset).Limit(req.Limit)
	}
}
