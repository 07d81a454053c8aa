// Package models defines the domain types for Almanac.
package models

import (
	"time"

	"github.com/starford/almanac/pkg/flexidate"
)

// RecordMetadata is a lightweight representation returned by storage listings.
type RecordMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Normalized is the outcome of normalizing one raw date value.
type Normalized struct {
	Input     string   `json:"input"`
	Canonical string   `json:"canonical"`
	ISO       string   `json:"iso"`
	Year      string   `json:"year,omitempty"`
	Month     string   `json:"month,omitempty"`
	Day       string   `json:"day,omitempty"`
	Qualifier string   `json:"qualifier,omitempty"`
	Approx    *float64 `json:"approx,omitempty"`
	Unparsed  bool     `json:"unparsed"`
}

// RecordDate is a normalized date found in a record's frontmatter. Canonical,
// Qualifier, Approx and Unparsed are views of Date; set them with SetDate.
type RecordDate struct {
	Path      string              `json:"path"`
	Field     string              `json:"field"`
	Raw       string              `json:"raw"`
	Date      flexidate.FlexiDate `json:"-"`
	Canonical string              `json:"canonical"`
	Qualifier string              `json:"qualifier,omitempty"`
	Approx    *float64            `json:"approx,omitempty"`
	Unparsed  bool                `json:"unparsed"`
}

// NewRecordDate describes d as found in field of the record at path.
func NewRecordDate(path, field, raw string, d flexidate.FlexiDate) RecordDate {
	rd := RecordDate{Path: path, Field: field, Raw: raw}
	rd.SetDate(d)
	return rd
}

// SetDate stores d and refreshes the derived fields.
func (r *RecordDate) SetDate(d flexidate.FlexiDate) {
	r.Date = d
	r.Canonical = d.String()
	r.Qualifier = d.Qualifier()
	r.Unparsed = d.IsUnparsed()
	r.Approx = nil
	if v, ok := d.ApproxFloat(); ok {
		r.Approx = &v
	}
}

// TimelineEntry is a RecordDate joined with its record's title.
type TimelineEntry struct {
	RecordDate
	Title string `json:"title"`
}
