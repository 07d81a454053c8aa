package index

import (
	"log/slog"

	"github.com/starford/almanac/internal/checksum"
	"github.com/starford/almanac/internal/models"
	"github.com/starford/almanac/internal/parser"
	"github.com/starford/almanac/internal/storage"
	"github.com/starford/almanac/pkg/flexidate"
)

// Indexer parses records and writes their normalized dates to the DB.
type Indexer struct {
	DB     RecordIndex
	Parser *flexidate.Parser
	// Fields lists the frontmatter keys holding dates.
	Fields []string
}

// NewIndexer returns an Indexer. A nil parser uses flexidate defaults.
func NewIndexer(db RecordIndex, p *flexidate.Parser, fields []string) *Indexer {
	if p == nil {
		p = flexidate.NewParser(nil, true)
	}
	return &Indexer{DB: db, Parser: p, Fields: fields}
}

// IndexFile parses data and upserts the record and its dates.
func (ix *Indexer) IndexFile(path string, data []byte) error {
	res, err := parser.Parse(data, ix.Fields)
	if err != nil {
		return err
	}
	row := RecordRow{
		Path:     path,
		Title:    res.Title,
		Checksum: checksum.Sum(data),
		Tags:     res.Tags,
	}
	return ix.DB.UpsertRecord(row, ix.Normalize(path, res.Dates))
}

// Normalize runs every raw value through the parser. Values that parse to
// nothing (empty text) are skipped.
func (ix *Indexer) Normalize(path string, fields []parser.DateField) []models.RecordDate {
	out := make([]models.RecordDate, 0, len(fields))
	for _, f := range fields {
		d := ix.Parser.Parse(f.Input)
		if d == nil {
			continue
		}
		out = append(out, models.NewRecordDate(path, f.Field, f.Raw, *d))
	}
	return out
}

// Sync walks the catalog and brings the index up to date:
//   - new/changed files are parsed and upserted
//   - files removed from disk are deleted from the index
func Sync(ix *Indexer, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}
	checksums, err := ix.DB.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}
		if checksums[m.Path] == m.Checksum {
			continue
		}
		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := ix.IndexFile(m.Path, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		logger.Debug("sync: indexed", slog.String("path", m.Path))
	}

	for p := range checksums {
		if _, ok := disk[p]; ok {
			continue
		}
		if err := ix.DB.DeleteRecord(p); err != nil {
			logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		logger.Debug("sync: removed stale", slog.String("path", p))
	}
	return nil
}
