package tokenize

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Dateparse wraps github.com/araddon/dateparse. It recognises a much wider
// range of machine formats (RFC 1123, unix stamps, Chinese dates) than
// Lexical, but always produces a full timestamp; the layout it guessed is used
// to tell which components the text actually carried.
type Dateparse struct {
	// Location interprets zone-less input. Defaults to UTC.
	Location *time.Location
}

// NewDateparse returns a Dateparse tokenizer working in UTC.
func NewDateparse() *Dateparse {
	return &Dateparse{Location: time.UTC}
}

// Tokenize implements Tokenizer.
func (d *Dateparse) Tokenize(text string, dayFirst bool) (Components, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Components{}, false
	}
	loc := time.UTC
	if d != nil && d.Location != nil {
		loc = d.Location
	}

	opt := dateparse.PreferMonthFirst(!dayFirst)
	t, err := dateparse.ParseIn(text, loc, opt)
	if err != nil {
		return Components{}, false
	}
	layout, err := dateparse.ParseFormat(text, opt)
	if err != nil {
		layout = ""
	}
	return componentsFromLayout(t, layout), true
}

// componentsFromLayout keeps the fields of t whose reference token appears
// in the Go layout dateparse inferred. Without a layout only the date is
// kept; a bare unix stamp carries every field.
func componentsFromLayout(t time.Time, layout string) Components {
	var c Components
	switch {
	case layout == "":
		c.Year, c.Month, c.Day = Some(t.Year()), Some(int(t.Month())), Some(t.Day())
		return c
	case unixLayout(layout):
		return Components{
			Year: Some(t.Year()), Month: Some(int(t.Month())), Day: Some(t.Day()),
			Hour: Some(t.Hour()), Minute: Some(t.Minute()), Second: Some(t.Second()),
			Microsecond: Some(t.Nanosecond() / 1000),
		}
	}

	for _, f := range layoutFields(layout) {
		switch f {
		case fieldYear:
			c.Year = Some(t.Year())
		case fieldMonth:
			c.Month = Some(int(t.Month()))
		case fieldDay:
			c.Day = Some(t.Day())
		case fieldYearDay:
			c.Month, c.Day = Some(int(t.Month())), Some(t.Day())
		case fieldHour:
			c.Hour = Some(t.Hour())
		case fieldMinute:
			c.Minute = Some(t.Minute())
		case fieldSecond:
			c.Second = Some(t.Second())
			c.Microsecond = Some(t.Nanosecond() / 1000)
		case fieldFraction:
			c.Microsecond = Some(t.Nanosecond() / 1000)
		}
	}
	return c
}

// unixLayout reports whether dateparse read the input as a unix stamp in
// seconds, milliseconds, microseconds or nanoseconds. It then echoes the
// digits back instead of a reference layout.
func unixLayout(layout string) bool {
	switch len(layout) {
	case 10, 13, 16, 19:
	default:
		return false
	}
	for i := 0; i < len(layout); i++ {
		if layout[i] < '0' || layout[i] > '9' {
			return false
		}
	}
	return true
}

type layoutField int

const (
	fieldYear layoutField = iota + 1
	fieldMonth
	fieldDay
	fieldYearDay
	fieldHour
	fieldMinute
	fieldSecond
	fieldFraction
)

// Reference chunks of Go layouts, longest first where they share a prefix.
var layoutChunks = []struct {
	chunk string
	field layoutField
}{
	{"January", fieldMonth}, {"Jan", fieldMonth},
	{"Monday", 0}, {"Mon", 0}, {"MST", 0},
	{"2006", fieldYear}, {"_2006", fieldYear},
	{"002", fieldYearDay}, {"__2", fieldYearDay},
	{"01", fieldMonth}, {"02", fieldDay}, {"03", fieldHour},
	{"04", fieldMinute}, {"05", fieldSecond}, {"06", fieldYear},
	{"_2", fieldDay}, {"15", fieldHour},
	{"1", fieldMonth}, {"2", fieldDay}, {"3", fieldHour}, {"4", fieldMinute}, {"5", fieldSecond},
}

var zoneChunks = []string{
	"Z07:00:00", "Z070000", "Z07:00", "Z0700", "Z07",
	"-07:00:00", "-070000", "-07:00", "-0700", "-07",
}

// layoutFields scans a Go time layout and returns the fields it references,
// following the chunk rules of the time package.
func layoutFields(layout string) []layoutField {
	var fields []layoutField
	for i := 0; i < len(layout); {
		if n := zoneChunk(layout[i:]); n > 0 {
			i += n
			continue
		}
		if n := fractionChunk(layout, i); n > 0 {
			fields = append(fields, fieldFraction)
			i += n
			continue
		}
		matched := false
		for _, lc := range layoutChunks {
			if strings.HasPrefix(layout[i:], lc.chunk) {
				if lc.field != 0 {
					fields = append(fields, lc.field)
				}
				i += len(lc.chunk)
				matched = true
				break
			}
		}
		if !matched {
			i++
		}
	}
	return fields
}

func zoneChunk(s string) int {
	for _, z := range zoneChunks {
		if strings.HasPrefix(s, z) {
			return len(z)
		}
	}
	return 0
}

// fractionChunk matches ".000", ",999" and the like at i: a separator and a
// run of one repeated 0 or 9 not followed by another digit.
func fractionChunk(layout string, i int) int {
	if (layout[i] != '.' && layout[i] != ',') || i+1 >= len(layout) {
		return 0
	}
	digit := layout[i+1]
	if digit != '0' && digit != '9' {
		return 0
	}
	j := i + 1
	for j < len(layout) && layout[j] == digit {
		j++
	}
	if j < len(layout) && layout[j] >= '0' && layout[j] <= '9' {
		return 0
	}
	return j - i
}
