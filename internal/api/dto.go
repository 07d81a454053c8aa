package api

import (
	"github.com/starford/almanac/internal/catalog"
	"github.com/starford/almanac/internal/models"
)

// CreateRecordRequest is the request body for creating a record.
type CreateRecordRequest struct {
	Path    string `json:"path" example:"people/ada.md" validate:"required"`
	Content string `json:"content" example:"---\nborn: 10 Dec 1815\n---\n" validate:"required"`
}

// UpdateRecordRequest is the request body for updating a record.
type UpdateRecordRequest struct {
	Content string `json:"content" validate:"required"`
}

// MoveRecordRequest renames a record.
type MoveRecordRequest struct {
	From string `json:"from" example:"ada.md" validate:"required"`
	To   string `json:"to" example:"people/ada.md" validate:"required"`
}

// NormalizeRequest carries one free-text date.
type NormalizeRequest struct {
	Text string `json:"text" example:"c. 1780"`
}

// NormalizeBatchRequest carries many free-text dates.
type NormalizeBatchRequest struct {
	Texts []string `json:"texts" validate:"required"`
}

// RecordDetail is the full record response type (aliased from the domain layer).
type RecordDetail = catalog.RecordDetail

// RecordListItem is a lightweight item in a list response.
type RecordListItem = catalog.RecordListItem

// RecordListResponse wraps paginated record listings.
type RecordListResponse struct {
	Records []RecordListItem `json:"records" validate:"required"`
	Total   int              `json:"total" example:"42" validate:"required"`
}

// NormalizeBatchResponse keeps results in request order.
type NormalizeBatchResponse struct {
	Results []models.Normalized `json:"results" validate:"required"`
}

// EntriesResponse wraps timeline, unparsed and search listings.
type EntriesResponse struct {
	Entries []models.TimelineEntry `json:"entries" validate:"required"`
}

// RecordDatesResponse lists the dates of one record.
type RecordDatesResponse struct {
	Path  string              `json:"path"`
	Dates []models.RecordDate `json:"dates" validate:"required"`
}
