// Package catalog ties record storage, date parsing and the index together.
package catalog

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/starford/almanac/internal/apperr"
	"github.com/starford/almanac/internal/checksum"
	"github.com/starford/almanac/internal/index"
	"github.com/starford/almanac/internal/models"
	"github.com/starford/almanac/internal/parser"
	"github.com/starford/almanac/internal/storage"
)

// RecordDetail is the full representation of a record.
type RecordDetail struct {
	Path        string              `json:"path"`
	Title       string              `json:"title"`
	Content     string              `json:"content"`
	Checksum    string              `json:"checksum"`
	Tags        []string            `json:"tags"`
	Frontmatter map[string]any      `json:"frontmatter,omitempty"`
	Dates       []models.RecordDate `json:"dates"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// RecordListItem is a lightweight item in a list response.
type RecordListItem struct {
	Path      string    `json:"path"`
	Title     string    `json:"title"`
	Checksum  string    `json:"checksum"`
	Tags      []string  `json:"tags"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Service coordinates storage, parsing and index operations.
type Service struct {
	store   storage.Provider
	ix      *index.Indexer
	workers int
}

// NewService creates a catalog service. workers bounds NormalizeBatch.
func NewService(store storage.Provider, ix *index.Indexer, workers int) *Service {
	return &Service{store: store, ix: ix, workers: workers}
}

// Indexer exposes the indexer used by sync and the watcher.
func (s *Service) Indexer() *index.Indexer { return s.ix }

// GetRecord reads and parses a record.
func (s *Service) GetRecord(_ context.Context, path string) (*RecordDetail, error) {
	data, err := s.read(path)
	if err != nil {
		return nil, err
	}
	return s.buildDetail(path, data)
}

// CreateRecord writes a new record and indexes it.
func (s *Service) CreateRecord(_ context.Context, path string, content []byte) (*RecordDetail, error) {
	if _, err := s.store.Read(path); err == nil {
		return nil, apperr.ErrAlreadyExists
	}
	if err := s.store.Write(path, content); err != nil {
		return nil, err
	}
	if err := s.ix.IndexFile(path, content); err != nil {
		return nil, err
	}
	return s.buildDetail(path, content)
}

// UpdateRecord writes content when ifMatch is empty or equals the checksum
// of the stored record.
func (s *Service) UpdateRecord(_ context.Context, path string, content []byte, ifMatch string) (*RecordDetail, error) {
	existing, err := s.read(path)
	if err != nil {
		return nil, err
	}
	if ifMatch != "" && ifMatch != checksum.Sum(existing) {
		return nil, apperr.ErrConflict
	}
	if err := s.store.Write(path, content); err != nil {
		return nil, err
	}
	if err := s.ix.IndexFile(path, content); err != nil {
		return nil, err
	}
	return s.buildDetail(path, content)
}

// DeleteRecord removes a record from storage and index.
func (s *Service) DeleteRecord(_ context.Context, path string) error {
	if _, err := s.read(path); err != nil {
		return err
	}
	if err := s.store.Delete(path); err != nil {
		return err
	}
	return s.ix.DB.DeleteRecord(path)
}

// MoveRecord renames a record and re-indexes it under the new path.
func (s *Service) MoveRecord(_ context.Context, from, to string) (*RecordDetail, error) {
	if _, err := s.read(from); err != nil {
		return nil, err
	}
	if err := s.store.Move(from, to); err != nil {
		return nil, err
	}
	if err := s.ix.DB.DeleteRecord(from); err != nil {
		return nil, err
	}
	data, err := s.store.Read(to)
	if err != nil {
		return nil, err
	}
	if err := s.ix.IndexFile(to, data); err != nil {
		return nil, err
	}
	return s.buildDetail(to, data)
}

// ListRecords returns paginated records with an optional tag filter.
func (s *Service) ListRecords(_ context.Context, limit, offset int, tag string) ([]RecordListItem, int, error) {
	rows, total, err := s.ix.DB.ListRecords(limit, offset, tag)
	if err != nil {
		return nil, 0, err
	}
	items := make([]RecordListItem, len(rows))
	for i, r := range rows {
		items[i] = RecordListItem{
			Path:      r.Path,
			Title:     r.Title,
			Checksum:  r.Checksum,
			Tags:      nonNilSlice(r.Tags),
			UpdatedAt: r.UpdatedAt,
		}
	}
	return items, total, nil
}

// RecordDates returns the indexed dates of one record.
func (s *Service) RecordDates(_ context.Context, path string) ([]models.RecordDate, error) {
	if _, err := s.ix.DB.GetRecord(path); err != nil {
		return nil, err
	}
	dates, err := s.ix.DB.RecordDates(path)
	return nonNilSlice(dates), err
}

// Timeline lists dated values in chronological order within [from, to].
func (s *Service) Timeline(_ context.Context, from, to *int, limit int) ([]models.TimelineEntry, error) {
	if from != nil && to != nil && *from > *to {
		return nil, apperr.ErrInvalidInput
	}
	entries, err := s.ix.DB.Timeline(index.Window{From: from, To: to, Limit: limit})
	return nonNilSlice(entries), err
}

// Unparsed lists raw values that could not be read as dates.
func (s *Service) Unparsed(_ context.Context, limit int) ([]models.TimelineEntry, error) {
	entries, err := s.ix.DB.Unparsed(limit)
	return nonNilSlice(entries), err
}

// Search matches query against raw values, canonical forms and titles.
func (s *Service) Search(_ context.Context, query string, limit int) ([]models.TimelineEntry, error) {
	entries, err := s.ix.DB.Search(query, limit)
	return nonNilSlice(entries), err
}

func (s *Service) read(path string) ([]byte, error) {
	data, err := s.store.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, apperr.ErrNotFound
	}
	return data, err
}

func (s *Service) buildDetail(path string, data []byte) (*RecordDetail, error) {
	res, err := parser.Parse(data, s.ix.Fields)
	if err != nil {
		return nil, err
	}
	return &RecordDetail{
		Path:        path,
		Title:       res.Title,
		Content:     string(data),
		Checksum:    checksum.Sum(data),
		Tags:        nonNilSlice(res.Tags),
		Frontmatter: res.Frontmatter,
		Dates:       nonNilSlice(s.ix.Normalize(path, res.Dates)),
		UpdatedAt:   time.Now().UTC(),
	}, nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
