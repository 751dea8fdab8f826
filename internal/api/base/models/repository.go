// Package models holds types shared by every domain's repository and handler layers.
package models

// PaginateResult is one page of a list query.
type PaginateResult[T any] struct {
	Page      int64 `json:"page" bson:"page"`
	Limit     int64 `json:"limit" bson:"limit"`
	ItemCount int64 `json:"itemCount" bson:"itemCount"` // items on this page
	Items     []T   `json:"items" bson:"items"`
	Total     int64 `json:"total" bson:"total"`
	TotalPage int64 `json:"totalPage" bson:"totalPage"`
}

// NewPaginateResult fills the derived counters.
func NewPaginateResult[T any](items []T, page, limit, total int64) *PaginateResult[T] {
	if items == nil {
		items = []T{}
	}
	totalPage := int64(0)
	if limit > 0 {
		totalPage = (total + limit - 1) / limit
	}
	return &PaginateResult[T]{
		Page:      page,
		Limit:     limit,
		ItemCount: int64(len(items)),
		Items:     items,
		Total:     total,
		TotalPage: totalPage,
	}
}

// Meta is the optional "meta" block of the response envelope for list endpoints.
type Meta struct {
	Page      int64 `json:"page"`
	Limit     int64 `json:"limit"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"totalPage"`
}

// Meta returns the envelope meta for this page.
func (p *PaginateResult[T]) Meta() Meta {
	return Meta{Page: p.Page, Limit: p.Limit, Total: p.Total, TotalPage: p.TotalPage}
}
