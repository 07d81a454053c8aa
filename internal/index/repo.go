package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/starford/almanac/internal/apperr"
	"github.com/starford/almanac/internal/models"
	"github.com/starford/almanac/pkg/flexidate"
)

// RecordRow represents a row in the records table.
type RecordRow struct {
	Path      string
	Title     string
	Checksum  string
	Tags      []string
	UpdatedAt time.Time
}

// Window bounds a timeline query by year. Nil bounds are open. To is
// inclusive: To=1900 keeps every date within 1900, December included.
type Window struct {
	From  *int
	To    *int
	Limit int
}

const defaultLimit = 100

// UpsertRecord replaces a record row and all of its dates in one transaction.
func (db *DB) UpsertRecord(r RecordRow, dates []models.RecordDate) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if r.Tags == nil {
		r.Tags = []string{}
	}
	tagsJSON, _ := json.Marshal(r.Tags)
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = time.Now().UTC()
	}

	_, err = tx.Exec(`
		INSERT INTO records (path, title, checksum, tags, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title      = excluded.title,
			checksum   = excluded.checksum,
			tags       = excluded.tags,
			updated_at = excluded.updated_at
	`, r.Path, r.Title, r.Checksum, string(tagsJSON), r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert record: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM dates WHERE path = ?`, r.Path); err != nil {
		return fmt.Errorf("index: clear dates: %w", err)
	}
	if len(dates) > 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO dates (path, field, raw, canonical, year, approx, qualifier, unparsed)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare date insert: %w", err)
		}
		defer stmt.Close()
		for _, d := range dates {
			var approx sql.NullFloat64
			approx.Float64, approx.Valid = d.Date.ApproxFloat()
			if _, err := stmt.Exec(r.Path, d.Field, d.Raw, d.Date, yearOf(d.Date), approx,
				d.Date.Qualifier(), d.Date.IsUnparsed()); err != nil {
				return fmt.Errorf("index: insert date: %w", err)
			}
		}
	}

	return tx.Commit()
}

// DeleteRecord removes a record and its dates.
func (db *DB) DeleteRecord(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`DELETE FROM dates WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete dates: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM records WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete record: %w", err)
	}
	return tx.Commit()
}

// GetChecksum returns the stored checksum for a record, or "" if not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM records WHERE path = ?`, path).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: get checksum: %w", err)
	}
	return cs, nil
}

// AllChecksums maps every indexed path to its checksum.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM records`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// AllPaths returns every indexed record path.
func (db *DB) AllPaths() (map[string]struct{}, error) {
	sums, err := db.AllChecksums()
	if err != nil {
		return nil, err
	}
	out := make(map[string]struct{}, len(sums))
	for p := range sums {
		out[p] = struct{}{}
	}
	return out, nil
}

// GetRecord returns the indexed row for path or apperr.ErrNotFound.
func (db *DB) GetRecord(path string) (*RecordRow, error) {
	row := db.conn.QueryRow(`SELECT path, title, checksum, tags, updated_at FROM records WHERE path = ?`, path)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: get record: %w", err)
	}
	return r, nil
}

// ListRecords returns a page of records ordered by path together with the
// total number of matches. A non-empty tag filters on that tag.
func (db *DB) ListRecords(limit, offset int, tag string) ([]RecordRow, int, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	where, args := "", []any{}
	if tag != "" {
		where = `WHERE EXISTS (SELECT 1 FROM json_each(records.tags) WHERE json_each.value = ?)`
		args = append(args, tag)
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM records `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count records: %w", err)
	}

	rows, err := db.conn.Query(`SELECT path, title, checksum, tags, updated_at FROM records `+where+
		` ORDER BY path LIMIT ? OFFSET ?`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list records: %w", err)
	}
	defer rows.Close()

	var out []RecordRow
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *r)
	}
	return out, total, rows.Err()
}

// RecordDates returns the dates of one record in frontmatter order.
func (db *DB) RecordDates(path string) ([]models.RecordDate, error) {
	rows, err := db.conn.Query(`
		SELECT path, field, raw, canonical
		FROM dates WHERE path = ? ORDER BY rowid`, path)
	if err != nil {
		return nil, fmt.Errorf("index: record dates: %w", err)
	}
	defer rows.Close()

	var out []models.RecordDate
	for rows.Next() {
		d, err := scanDate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

const entryColumns = `
	d.path, d.field, d.raw, d.canonical, r.title
	FROM dates d JOIN records r ON r.path = d.path`

// Timeline lists parsed dates in chronological order. Dates without a year
// sort first and are dropped once either bound is set.
func (db *DB) Timeline(w Window) ([]models.TimelineEntry, error) {
	if w.Limit <= 0 {
		w.Limit = defaultLimit
	}
	var (
		conds = []string{"d.unparsed = 0"}
		args  []any
	)
	if w.From != nil {
		conds = append(conds, "d.year >= ?")
		args = append(args, *w.From)
	}
	if w.To != nil {
		conds = append(conds, "d.year <= ?")
		args = append(args, *w.To)
	}
	q := `SELECT ` + entryColumns + ` WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY d.approx IS NOT NULL, d.approx, d.canonical, d.path LIMIT ?`
	return db.queryEntries("timeline", q, append(args, w.Limit)...)
}

// Unparsed lists the raw values the parser could not understand.
func (db *DB) Unparsed(limit int) ([]models.TimelineEntry, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	return db.queryEntries("unparsed",
		`SELECT `+entryColumns+` WHERE d.unparsed = 1 ORDER BY d.path, d.field LIMIT ?`, limit)
}

// Search matches query against raw text, canonical form, qualifier and title.
func (db *DB) Search(query string, limit int) ([]models.TimelineEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	return db.queryEntries("search", `SELECT `+entryColumns+`
		WHERE d.raw LIKE ? OR d.canonical LIKE ? OR d.qualifier LIKE ? OR r.title LIKE ?
		ORDER BY d.approx IS NOT NULL, d.approx, d.canonical LIMIT ?`,
		like, like, like, like, limit)
}

func (db *DB) queryEntries(op, q string, args ...any) ([]models.TimelineEntry, error) {
	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("index: %s: %w", op, err)
	}
	defer rows.Close()

	var out []models.TimelineEntry
	for rows.Next() {
		var e models.TimelineEntry
		var date flexidate.FlexiDate
		if err := rows.Scan(&e.Path, &e.Field, &e.Raw, &date, &e.Title); err != nil {
			return nil, fmt.Errorf("index: %s: %w", op, err)
		}
		e.SetDate(date)
		out = append(out, e)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*RecordRow, error) {
	var r RecordRow
	var tags string
	if err := s.Scan(&r.Path, &r.Title, &r.Checksum, &tags, &r.UpdatedAt); err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(tags), &r.Tags)
	return &r, nil
}

// scanDate reads a dates row. The canonical column goes back through the
// codec, so the derived fields always agree with the stored text.
func scanDate(s scanner) (models.RecordDate, error) {
	var d models.RecordDate
	var date flexidate.FlexiDate
	if err := s.Scan(&d.Path, &d.Field, &d.Raw, &date); err != nil {
		return d, err
	}
	d.SetDate(date)
	return d, nil
}

// yearOf is the year column used by timeline windows. Unknown digits count
// as 9, matching ApproxFloat.
func yearOf(d flexidate.FlexiDate) sql.NullInt64 {
	y := d.Year()
	if !y.IsSet() || y.IsPlaceholder() {
		return sql.NullInt64{}
	}
	v, err := strconv.Atoi(strings.ReplaceAll(y.String(), "?", "9"))
	if err != nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(v), Valid: true}
}
