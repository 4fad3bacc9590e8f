// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"

	"posledger/internal/core/entity"
	"posledger/internal/core/id"
	"posledger/internal/domain"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// --- List ---

// ListQuery holds the common list query parameters.
type ListQuery struct {
	Search         string `form:"search" binding:"max=100"`
	Limit          int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset         int    `form:"offset" binding:"omitempty,min=0"`
	OrderBy        string `form:"orderBy" binding:"max=32"`
	IncludeDeleted bool   `form:"includeDeleted"`
}

// ToFilter converts the query to a domain filter.
func (q ListQuery) ToFilter() domain.ListFilter {
	return domain.ListFilter{
		Search:         q.Search,
		Limit:          q.Limit,
		Offset:         q.Offset,
		OrderBy:        q.OrderBy,
		IncludeDeleted: q.IncludeDeleted,
	}.Normalize()
}

// ListResponse wraps list results with pagination.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// NewListResponse maps every item of result with fn.
func NewListResponse[T, R any](result domain.ListResult[T], fn func(T) R) ListResponse {
	items := make([]R, len(result.Items))
	for i, item := range result.Items {
		items[i] = fn(item)
	}
	return ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	}
}

// --- Base DTOs ---

// BaseResponse contains common registry fields.
type BaseResponse struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Status    entity.Status `json:"status"`
	Version   int           `json:"version"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// FromCatalog creates BaseResponse from entity.Catalog.
func FromCatalog(c entity.Catalog) BaseResponse {
	return BaseResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Status:    c.Status,
		Version:   c.Version,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// --- ID Response ---

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// NewIDResponse creates ID response.
func NewIDResponse(i id.ID) IDResponse {
	return IDResponse{ID: i.String()}
}

// --- Error Response ---

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD value as a UTC date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
