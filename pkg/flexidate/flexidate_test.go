package flexidate

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestNew_Padding(t *testing.T) {
	tests := []struct {
		name string
		got  Component
		want string
	}{
		{"year", New(5).Year(), "0005"},
		{"negative year", New(-5).Year(), "-0005"},
		{"four digit year", New(2000).Year(), "2000"},
		{"five digit year", New(12345).Year(), "12345"},
		{"month", New(2000, 3).Month(), "03"},
		{"day", New(2004, 3, 2).Day(), "02"},
		{"hour", New(2004, 3, 2, 10).Hour(), "10"},
		{"microsecond", New(2004, 3, 2, 10, 11, 12, 123456).Microsecond(), "123456"},
		{"absent", New(2000).Month(), ""},
	}
	for _, tt := range tests {
		if tt.got.String() != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got.String(), tt.want)
		}
	}
}

func TestNew_TooManyParts(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	New(1, 2, 3, 4, 5, 6, 7, 8)
}

func TestUnknownDate(t *testing.T) {
	d := New()
	if !d.IsUnknown() {
		t.Fatal("New() should be the unknown date")
	}
	if d != (FlexiDate{}) {
		t.Error("New() should equal the zero value")
	}
	if d.Year().String() != "" || d.Month().String() != "" {
		t.Errorf("year/month = %q/%q, want empty", d.Year(), d.Month())
	}
	if New().WithQualifier("x").IsUnknown() {
		t.Error("qualified date reported as unknown")
	}
}

func TestPlaceholder(t *testing.T) {
	c, err := cvt("", 4, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.String() != "!!!!" {
		t.Errorf("placeholder = %q, want %q", c.String(), "!!!!")
	}
	if !c.IsPlaceholder() || !c.IsSet() {
		t.Error("placeholder should be set and flagged")
	}

	d, err := FromParts(Parts{ForceYear: true, Month: "3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "!!!!-03" {
		t.Errorf("forced year = %q, want %q", d.String(), "!!!!-03")
	}
	if _, ok := d.ApproxFloat(); ok {
		t.Error("placeholder year should have no float")
	}
}

func TestFromParts_Rejects(t *testing.T) {
	for _, p := range []Parts{
		{Year: "19x0"},
		{Year: "-"},
		{Year: "2000", Month: "March"},
		{Year: "2000", Day: "1.5"},
	} {
		if _, err := FromParts(p); !errors.Is(err, ErrInvalidComponent) {
			t.Errorf("FromParts(%+v) err = %v, want ErrInvalidComponent", p, err)
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		d    FlexiDate
		want string
	}{
		{New(2000, 1, 23), "2000-01-23"},
		{New(-2000, 1, 23), "-2000-01-23"},
		{New(2000), "2000"},
		{New(1760).WithQualifier("fl."), "1760 [fl.]"},
		{New().WithQualifier("anything"), " [anything]"},
		{New(2004, 3, 2, 10), "2004-03-02 10"},
		{New(2004, 3, 2, 10, 11), "2004-03-02 10:11"},
		{New(2004, 3, 2, 10, 11, 12), "2004-03-02 10:11:12"},
		{New(2004, 3, 2, 10, 11, 12, 123456), "2004-03-02 10:11:12.123456"},
		{New(2000, 1, 2, 0, 0, 0, 0), "2000-01-02 00:00:00.00"},
		{New(), ""},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestISOFormat_Truncation(t *testing.T) {
	// Day without month stops at the month.
	d, err := FromParts(Parts{Year: "1900", Day: "5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := d.ISOFormat(false); got != "1900" {
		t.Errorf("ISOFormat = %q, want %q", got, "1900")
	}

	// Month without year renders nothing.
	d, err = FromParts(Parts{Month: "5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := d.ISOFormat(false); got != "" {
		t.Errorf("ISOFormat = %q, want empty", got)
	}

	// Microsecond only needs the hour.
	d, err = FromParts(Parts{Year: "1900", Month: "1", Day: "1", Hour: "9", Minute: "5", Microsecond: "7"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := d.ISOFormat(false); got != "1900-01-01 09:05.07" {
		t.Errorf("ISOFormat = %q, want %q", got, "1900-01-01 09:05.07")
	}
	d, err = FromParts(Parts{Year: "2000", Month: "1", Day: "2", Hour: "10", Microsecond: "5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := d.ISOFormat(false); got != "2000-01-02 10.05" {
		t.Errorf("ISOFormat = %q, want %q", got, "2000-01-02 10.05")
	}

	// Without an hour there is no time part at all.
	d, err = FromParts(Parts{Year: "1900", Microsecond: "7"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := d.ISOFormat(false); got != "1900" {
		t.Errorf("ISOFormat = %q, want %q", got, "1900")
	}
}

func TestISOFormat_Strict(t *testing.T) {
	d, err := FromParts(Parts{Year: "18??", Month: "1?", Hour: "1?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := d.ISOFormat(false); got != "18??-1? 1?" {
		t.Errorf("ISOFormat(false) = %q", got)
	}
	// Only the date part is resolved.
	if got := d.ISOFormat(true); got != "1800-10 1?" {
		t.Errorf("ISOFormat(true) = %q, want %q", got, "1800-10 1?")
	}
}

func TestGoString(t *testing.T) {
	got := New(2016, 3, 15).GoString()
	want := `flexidate.FlexiDate("2016-03-15")`
	if got != want {
		t.Errorf("GoString() = %q, want %q", got, want)
	}
}

func TestApproxFloat(t *testing.T) {
	if v, ok := New(2000).ApproxFloat(); !ok || v != 2000 {
		t.Errorf("ApproxFloat(2000) = %v, %v", v, ok)
	}

	want := 1760.0
	want += 1.0 / 12.0
	want += 2.0 / 365.0
	if v, ok := New(1760, 1, 2).ApproxFloat(); !ok || v != want {
		t.Errorf("ApproxFloat(1760-01-02) = %v, want %v", v, want)
	}

	if v, ok := New(-1000).ApproxFloat(); !ok || v != -1000 {
		t.Errorf("ApproxFloat(-1000) = %v, %v", v, ok)
	}

	if _, ok := New().ApproxFloat(); ok {
		t.Error("ApproxFloat on unknown date should not be ok")
	}

	// Unknown year digits count high, unknown month digits count low.
	d, _ := FromParts(Parts{Year: "19??", Month: "?1"})
	want = 1999.0
	want += 1.0 / 12.0
	if v, ok := d.ApproxFloat(); !ok || v != want {
		t.Errorf("ApproxFloat(19??-?1) = %v, want %v", v, want)
	}
}

func TestTime(t *testing.T) {
	got, err := New(2000).Time()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("Time() = %v, want %v", got, want)
	}

	got, err = New(1760, 1, 2).Time()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := time.Date(1760, 1, 2, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("Time() = %v, want %v", got, want)
	}

	got, err = New(2004, 3, 2, 10, 11, 12, 123456).Time()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := time.Date(2004, 3, 2, 10, 11, 12, 123456000, time.UTC); !got.Equal(want) {
		t.Errorf("Time() = %v, want %v", got, want)
	}
}

func TestTime_Errors(t *testing.T) {
	uncertain, _ := FromParts(Parts{Year: "19??"})
	for _, d := range []FlexiDate{New(), uncertain, New().WithQualifier("fl.")} {
		if _, err := d.Time(); !errors.Is(err, ErrMissingOrInvalidYear) {
			t.Errorf("Time(%q) err = %v, want ErrMissingOrInvalidYear", d, err)
		}
	}

	uncertainMonth, _ := FromParts(Parts{Year: "1900", Month: "1?"})
	for _, d := range []FlexiDate{New(2001, 2, 29), New(2000, 13), New(2000, 1, 1, 24), uncertainMonth} {
		if _, err := d.Time(); !errors.Is(err, ErrInvalidComponent) {
			t.Errorf("Time(%q) err = %v, want ErrInvalidComponent", d, err)
		}
	}
}

func TestCompare(t *testing.T) {
	yearless := New().WithQualifier("fl.")
	if Compare(yearless, New(-500)) >= 0 {
		t.Error("yearless date should sort first")
	}
	if Compare(New(-500), New(-40)) >= 0 {
		t.Error("-500 should sort before -40")
	}
	if Compare(New(1760, 1), New(1760, 2)) >= 0 {
		t.Error("1760-01 should sort before 1760-02")
	}
	if Compare(New(1760), New(1760).WithQualifier("fl.")) >= 0 {
		t.Error("ties should fall back to the canonical string")
	}
	if Compare(New(1900), New(1900)) != 0 {
		t.Error("equal dates should compare equal")
	}
}

func TestJSON(t *testing.T) {
	type rec struct {
		Date FlexiDate `json:"date"`
	}
	b, err := json.Marshal(rec{Date: New(1760).WithQualifier("fl.")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"date":"1760 [fl.]"}` {
		t.Errorf("json = %s", b)
	}

	var got rec
	if err := json.Unmarshal([]byte(`{"date":"-1760-01-03 [fl.]"}`), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Date != New(-1760, 1, 3).WithQualifier("fl.") {
		t.Errorf("date = %q", got.Date)
	}

	if err := json.Unmarshal([]byte(`{"date":"Not a date"}`), &got); !errors.Is(err, ErrMalformed) {
		t.Errorf("err = %v, want ErrMalformed", err)
	}
}

func TestScanValue(t *testing.T) {
	v, err := New(1850, 7).Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if v != "1850-07" {
		t.Errorf("Value() = %v, want %q", v, "1850-07")
	}

	var d FlexiDate
	if err := d.Scan([]byte("1850-07")); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if d != New(1850, 7) {
		t.Errorf("scanned = %q", d)
	}
	if err := d.Scan(nil); err != nil || !d.IsUnknown() {
		t.Errorf("Scan(nil) = %v, %q", err, d)
	}
	if err := d.Scan(42); err == nil {
		t.Error("Scan(int) should fail")
	}
}
