package flexidate

import "testing"

func mustParts(t *testing.T, p Parts) FlexiDate {
	t.Helper()
	d, err := FromParts(p)
	if err != nil {
		t.Fatalf("FromParts(%+v): %v", p, err)
	}
	return d
}

func TestFromString_RoundTrip(t *testing.T) {
	dates := []FlexiDate{
		New(2000, 1, 23),
		New(-2000, 1, 23),
		New(2000),
		New(5),
		New(-5),
		New(1762, 3),
		New(1760).WithQualifier("fl."),
		New(-1760, 1, 3).WithQualifier("fl."),
		New().WithQualifier("anything"),
		New().WithQualifier("UNPARSED: c. 1780 [sic]"),
		New(1815).WithQualifier("[bracketed]"),
		New(2004, 3, 2, 10),
		New(2004, 3, 2, 10, 11),
		New(2004, 3, 2, 10, 11, 12),
		New(2004, 3, 2, 10, 11, 12, 123456),
		New(2010, 1, 6, 9, 30, 0, 0).WithQualifier("Note 'circa' : c.2010"),
		mustParts(t, Parts{Year: "18??", Month: "1?"}),
		mustParts(t, Parts{Year: "198?"}).WithQualifier("Uncertainty : 198?"),
		mustParts(t, Parts{Hour: "10", Minute: "30"}),
		mustParts(t, Parts{Year: "1900", Month: "1", Hour: "7"}),
		mustParts(t, Parts{Year: "2000", Month: "1", Day: "2", Hour: "10", Microsecond: "5"}),
		mustParts(t, Parts{Year: "2000", Month: "1", Day: "2", Hour: "10", Minute: "30", Microsecond: "5"}),
		mustParts(t, Parts{Hour: "10", Microsecond: "5"}),
		New(),
	}
	for _, d := range dates {
		s := d.String()
		got, ok := FromString(s)
		if !ok {
			t.Errorf("FromString(%q) failed", s)
			continue
		}
		if got.String() != s {
			t.Errorf("round trip = %q, want %q", got.String(), s)
		}
		if got != d {
			t.Errorf("FromString(%q) = %#v, want %#v", s, got, d)
		}
	}
}

func TestFromString_DashForm(t *testing.T) {
	got, ok := FromString("2000-01-02-03-04-05-123456")
	if !ok {
		t.Fatal("dash form should parse")
	}
	if want := New(2000, 1, 2, 3, 4, 5, 123456); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	got, ok = FromString("1850-7-4-12 [noon]")
	if !ok {
		t.Fatal("short dash form should parse")
	}
	if got.String() != "1850-07-04 12 [noon]" {
		t.Errorf("got %q", got)
	}
}

func TestFromString_Whitespace(t *testing.T) {
	got, ok := FromString("  1760 [fl.]  ")
	if !ok {
		t.Fatal("surrounding whitespace should be accepted")
	}
	if got != New(1760).WithQualifier("fl.") {
		t.Errorf("got %q", got)
	}
}

func TestFromString_Empty(t *testing.T) {
	got, ok := FromString("")
	if !ok || !got.IsUnknown() {
		t.Errorf("FromString(\"\") = %q, %v; want unknown date", got, ok)
	}
}

func TestFromString_Rejects(t *testing.T) {
	for _, s := range []string{
		"Not a date",
		"1760 [fl.",
		"2000--01",
		"2000-001",
		"2000-01-02 10:1x",
		"2000/01/02",
		"[a] trailing",
		"1760 [a] b",
		"-",
	} {
		if got, ok := FromString(s); ok {
			t.Errorf("FromString(%q) = %q, want failure", s, got)
		}
	}
}
