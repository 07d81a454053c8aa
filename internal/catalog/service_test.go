package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/starford/almanac/internal/apperr"
	"github.com/starford/almanac/internal/checksum"
	"github.com/starford/almanac/internal/testutil"
)

const adaRecord = "---\ntitle: Ada Lovelace\nborn: 10 Dec 1815\ndied: 1852\ntags: [people]\n---\nMathematician.\n"

func newService(t *testing.T) *Service {
	t.Helper()
	_, store := testutil.TestCatalog(t)
	return NewService(store, testutil.TestIndexer(t), 4)
}

func intp(v int) *int { return &v }

func TestCreateAndGet(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	d, err := s.CreateRecord(ctx, "ada.md", []byte(adaRecord))
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	if d.Title != "Ada Lovelace" || len(d.Dates) != 2 {
		t.Fatalf("detail = %+v", d)
	}
	if d.Dates[0].Canonical != "1815-12-10" || d.Dates[1].Canonical != "1852" {
		t.Errorf("dates = %+v", d.Dates)
	}

	if _, err := s.CreateRecord(ctx, "ada.md", []byte(adaRecord)); !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("duplicate create err = %v, want ErrAlreadyExists", err)
	}

	got, err := s.GetRecord(ctx, "ada.md")
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if got.Checksum != checksum.Sum([]byte(adaRecord)) {
		t.Errorf("checksum = %q", got.Checksum)
	}
	if _, err := s.GetRecord(ctx, "missing.md"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing err = %v, want ErrNotFound", err)
	}
}

func TestUpdateConflict(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	_, _ = s.CreateRecord(ctx, "r.md", []byte("---\ndate: 1900\n---\n"))

	if _, err := s.UpdateRecord(ctx, "r.md", []byte("---\ndate: 1901\n---\n"), "stale"); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	cs := checksum.Sum([]byte("---\ndate: 1900\n---\n"))
	d, err := s.UpdateRecord(ctx, "r.md", []byte("---\ndate: 1901\n---\n"), cs)
	if err != nil {
		t.Fatalf("UpdateRecord: %v", err)
	}
	if d.Dates[0].Canonical != "1901" {
		t.Errorf("dates = %+v", d.Dates)
	}
	if _, err := s.UpdateRecord(ctx, "nope.md", nil, ""); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMoveAndDelete(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	_, _ = s.CreateRecord(ctx, "ada.md", []byte(adaRecord))

	if _, err := s.MoveRecord(ctx, "ada.md", "people/ada.md"); err != nil {
		t.Fatalf("MoveRecord: %v", err)
	}
	if _, err := s.RecordDates(ctx, "ada.md"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("old path err = %v, want ErrNotFound", err)
	}
	dates, err := s.RecordDates(ctx, "people/ada.md")
	if err != nil || len(dates) != 2 {
		t.Fatalf("dates = %+v, err = %v", dates, err)
	}

	if err := s.DeleteRecord(ctx, "people/ada.md"); err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}
	if err := s.DeleteRecord(ctx, "people/ada.md"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestTimelineAndUnparsed(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	_, _ = s.CreateRecord(ctx, "ada.md", []byte(adaRecord))
	_, _ = s.CreateRecord(ctx, "hastings.md", []byte("---\ntitle: Hastings\ndate: 14 Oct 1066\n---\n"))
	_, _ = s.CreateRecord(ctx, "odd.md", []byte("---\ndate: sometime\n---\n"))

	entries, err := s.Timeline(ctx, nil, nil, 0)
	if err != nil {
		t.Fatalf("Timeline: %v", err)
	}
	if len(entries) != 3 || entries[0].Canonical != "1066-10-14" || entries[2].Canonical != "1852" {
		t.Errorf("timeline = %+v", entries)
	}

	entries, _ = s.Timeline(ctx, intp(1800), intp(1899), 0)
	if len(entries) != 2 {
		t.Errorf("window = %+v", entries)
	}
	if _, err := s.Timeline(ctx, intp(1900), intp(1800), 0); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}

	un, err := s.Unparsed(ctx, 0)
	if err != nil {
		t.Fatalf("Unparsed: %v", err)
	}
	if len(un) != 1 || un[0].Canonical != " [UNPARSED: sometime]" {
		t.Errorf("unparsed = %+v", un)
	}

	items, total, err := s.ListRecords(ctx, 10, 0, "people")
	if err != nil || total != 1 || items[0].Path != "ada.md" {
		t.Errorf("list = %+v total = %d err = %v", items, total, err)
	}
}

func TestNormalize(t *testing.T) {
	s := newService(t)

	n := s.Normalize("c. 1780")
	if n.Canonical != "1780 [Note 'circa' : c. 1780]" || n.Year != "1780" || n.Approx == nil || *n.Approx != 1780 {
		t.Errorf("normalized = %+v", n)
	}
	if n := s.Normalize(""); n.Canonical != "" || n.Unparsed {
		t.Errorf("empty = %+v", n)
	}
	if n := s.Normalize("not a date"); !n.Unparsed {
		t.Errorf("garbage = %+v", n)
	}
}

func TestNormalizeBatch(t *testing.T) {
	s := newService(t)
	in := []string{"1066", "May 1850", "", "4 BC"}
	out, err := s.NormalizeBatch(context.Background(), in)
	if err != nil {
		t.Fatalf("NormalizeBatch: %v", err)
	}
	want := []string{"1066", "1850-05", "", "-0004"}
	for i, w := range want {
		if out[i].Canonical != w || out[i].Input != in[i] {
			t.Errorf("out[%d] = %+v, want canonical %q", i, out[i], w)
		}
	}
}

func TestCanonical(t *testing.T) {
	s := newService(t)
	n, err := s.Canonical("1985-06 [fl.]")
	if err != nil {
		t.Fatalf("Canonical: %v", err)
	}
	if n.Year != "1985" || n.Month != "06" || n.Qualifier != "fl." || n.ISO != "1985-06" {
		t.Errorf("canonical = %+v", n)
	}
	if _, err := s.Canonical("June 1985"); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}
