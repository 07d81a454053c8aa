package index

import "github.com/starford/almanac/internal/models"

// RecordIndex is the set of index operations the indexer and catalog
// service need.
type RecordIndex interface {
	UpsertRecord(r RecordRow, dates []models.RecordDate) error
	DeleteRecord(path string) error
	GetChecksum(path string) (string, error)
	GetRecord(path string) (*RecordRow, error)
	ListRecords(limit, offset int, tag string) ([]RecordRow, int, error)
	RecordDates(path string) ([]models.RecordDate, error)
	Timeline(w Window) ([]models.TimelineEntry, error)
	Unparsed(limit int) ([]models.TimelineEntry, error)
	Search(query string, limit int) ([]models.TimelineEntry, error)
	AllPaths() (map[string]struct{}, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

var _ RecordIndex = (*DB)(nil)
