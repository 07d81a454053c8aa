// Package flexidate stores partial, possibly uncertain historical dates in a
// slightly extended ISO 8601 text form and parses free text into that form.
//
// Extensions over ISO 8601:
//   - a trailing free-text qualifier, e.g. "1760 [fl.]"
//   - '?' in place of unknown digits, e.g. "18??"
//
// Truncation of centuries and week dates (1999-W01) are not supported.
package flexidate

import (
	"cmp"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrMissingOrInvalidYear is returned by Time when the year is absent or
	// not a plain integer.
	ErrMissingOrInvalidYear = errors.New("flexidate: missing or invalid year")
	// ErrInvalidComponent is returned for components that cannot be used as
	// integers or fall outside their calendar range.
	ErrInvalidComponent = errors.New("flexidate: invalid component")
	// ErrMalformed is returned when canonical text does not match the grammar.
	ErrMalformed = errors.New("flexidate: malformed canonical string")
)

const (
	idxYear = iota
	idxMonth
	idxDay
	idxHour
	idxMinute
	idxSecond
	idxMicrosecond
	numFields
)

var widths = [numFields]int{4, 2, 2, 2, 2, 2, 2}

// FlexiDate is an immutable partial timestamp. The zero value is the unknown
// date: every component absent and no qualifier.
type FlexiDate struct {
	fields    [numFields]Component
	qualifier string
}

// Parts holds textual components for FromParts. An empty string means absent.
type Parts struct {
	Year, Month, Day, Hour, Minute, Second, Microsecond string
	Qualifier                                           string
	// ForceYear stores a "!!!!" placeholder when Year is empty.
	ForceYear bool
}

// New builds a FlexiDate from integer components in the order year, month,
// day, hour, minute, second, microsecond. Omitted trailing components are
// absent.
func New(parts ...int) FlexiDate {
	if len(parts) > numFields {
		panic(fmt.Sprintf("flexidate: New takes at most %d components, got %d", numFields, len(parts)))
	}
	var d FlexiDate
	for i, v := range parts {
		d.fields[i] = intComponent(v, widths[i])
	}
	return d
}

// FromParts builds a FlexiDate from textual components. Each component may be
// signed and may contain '?' digits; anything else is rejected.
func FromParts(p Parts) (FlexiDate, error) {
	raw := [numFields]string{p.Year, p.Month, p.Day, p.Hour, p.Minute, p.Second, p.Microsecond}
	var d FlexiDate
	for i, s := range raw {
		c, err := cvt(s, widths[i], i == idxYear && p.ForceYear)
		if err != nil {
			return FlexiDate{}, err
		}
		d.fields[i] = c
	}
	d.qualifier = p.Qualifier
	return d, nil
}

// WithQualifier returns a copy of d carrying qualifier q.
func (d FlexiDate) WithQualifier(q string) FlexiDate {
	d.qualifier = q
	return d
}

func (d FlexiDate) Year() Component        { return d.fields[idxYear] }
func (d FlexiDate) Month() Component       { return d.fields[idxMonth] }
func (d FlexiDate) Day() Component         { return d.fields[idxDay] }
func (d FlexiDate) Hour() Component        { return d.fields[idxHour] }
func (d FlexiDate) Minute() Component      { return d.fields[idxMinute] }
func (d FlexiDate) Second() Component      { return d.fields[idxSecond] }
func (d FlexiDate) Microsecond() Component { return d.fields[idxMicrosecond] }
func (d FlexiDate) Qualifier() string      { return d.qualifier }

// IsUnknown reports whether no component is set and there is no qualifier.
func (d FlexiDate) IsUnknown() bool {
	for _, c := range d.fields {
		if c.set {
			return false
		}
	}
	return d.qualifier == ""
}

// IsUnparsed reports whether d is the fallback produced for text that could
// not be understood.
func (d FlexiDate) IsUnparsed() bool {
	return strings.HasPrefix(d.qualifier, unparsedPrefix)
}

// ISOFormat renders year[-month[-day]] followed, when an hour is present, by
// " hour[:minute[:second]][.microsecond]". Each chain stops at its first
// absent component; the microsecond only needs the hour. With strict set,
// '?' digits of the date part become '0'.
func (d FlexiDate) ISOFormat(strict bool) string {
	var b strings.Builder
	if y := d.fields[idxYear]; y.set {
		b.WriteString(y.String())
		for _, c := range d.fields[idxMonth : idxDay+1] {
			if !c.set {
				break
			}
			b.WriteByte('-')
			b.WriteString(c.String())
		}
	}
	out := b.String()
	if strict {
		out = strings.ReplaceAll(out, "?", "0")
	}

	h := d.fields[idxHour]
	if !h.set {
		return out
	}
	b.Reset()
	b.WriteString(out)
	b.WriteByte(' ')
	b.WriteString(h.String())
	for _, c := range d.fields[idxMinute : idxSecond+1] {
		if !c.set {
			break
		}
		b.WriteByte(':')
		b.WriteString(c.String())
	}
	if us := d.fields[idxMicrosecond]; us.set {
		b.WriteByte('.')
		b.WriteString(us.String())
	}
	return b.String()
}

// String returns the canonical form. A qualifier is appended as " [q]"; the
// leading space makes yearless dates sort before any dated value.
func (d FlexiDate) String() string {
	out := d.ISOFormat(false)
	if d.qualifier != "" {
		out += " [" + d.qualifier + "]"
	}
	return out
}

// GoString implements fmt.GoStringer.
func (d FlexiDate) GoString() string {
	return fmt.Sprintf("flexidate.FlexiDate(%q)", d.String())
}

// ApproxFloat returns the date as a number with the year as integer part.
// Unknown year digits count as 9 (19?? is 1999) while unknown month and day
// digits count as 0. Months are twelfths, days are 365ths. ok is false when
// the year is absent.
func (d FlexiDate) ApproxFloat() (v float64, ok bool) {
	v, ok = d.fields[idxYear].float("9")
	if !ok {
		return 0, false
	}
	if m, ok := d.fields[idxMonth].float("0"); ok {
		v += m / 12.0
		if day, ok := d.fields[idxDay].float("0"); ok {
			v += day / 365.0
		}
	}
	return v, true
}

// Time converts d to a UTC proleptic Gregorian time. Missing month and day
// default to 1, missing time fields to 0. Placeholder digits are rejected.
func (d FlexiDate) Time() (time.Time, error) {
	year, err := d.fields[idxYear].Int()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMissingOrInvalidYear, d.fields[idxYear].String())
	}

	var v [numFields]int
	v[idxYear] = year
	v[idxMonth], v[idxDay] = 1, 1
	for i := idxMonth; i < numFields; i++ {
		c := d.fields[i]
		if !c.set {
			continue
		}
		if v[i], err = c.Int(); err != nil {
			return time.Time{}, err
		}
	}

	month := time.Month(v[idxMonth])
	switch {
	case month < time.January || month > time.December:
		return time.Time{}, fmt.Errorf("%w: month %d", ErrInvalidComponent, v[idxMonth])
	case v[idxDay] < 1 || v[idxDay] > daysIn(year, month):
		return time.Time{}, fmt.Errorf("%w: day %d", ErrInvalidComponent, v[idxDay])
	case v[idxHour] < 0 || v[idxHour] > 23:
		return time.Time{}, fmt.Errorf("%w: hour %d", ErrInvalidComponent, v[idxHour])
	case v[idxMinute] < 0 || v[idxMinute] > 59:
		return time.Time{}, fmt.Errorf("%w: minute %d", ErrInvalidComponent, v[idxMinute])
	case v[idxSecond] < 0 || v[idxSecond] > 59:
		return time.Time{}, fmt.Errorf("%w: second %d", ErrInvalidComponent, v[idxSecond])
	case v[idxMicrosecond] < 0 || v[idxMicrosecond] > 999999:
		return time.Time{}, fmt.Errorf("%w: microsecond %d", ErrInvalidComponent, v[idxMicrosecond])
	}

	return time.Date(year, month, v[idxDay], v[idxHour], v[idxMinute], v[idxSecond],
		v[idxMicrosecond]*int(time.Microsecond), time.UTC), nil
}

func daysIn(year int, m time.Month) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Compare orders dates for listings: dates without a usable year first, then
// by ApproxFloat, then by canonical string.
func Compare(a, b FlexiDate) int {
	af, aok := a.ApproxFloat()
	bf, bok := b.ApproxFloat()
	switch {
	case aok && bok:
		if c := cmp.Compare(af, bf); c != 0 {
			return c
		}
	case !aok && bok:
		return -1
	case aok && !bok:
		return 1
	}
	return strings.Compare(a.String(), b.String())
}

// MarshalText implements encoding.TextMarshaler using the canonical form.
func (d FlexiDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *FlexiDate) UnmarshalText(text []byte) error {
	parsed, ok := FromString(string(text))
	if !ok {
		return fmt.Errorf("%w: %q", ErrMalformed, text)
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer; dates are stored in canonical form.
func (d FlexiDate) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan implements sql.Scanner.
func (d *FlexiDate) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = FlexiDate{}
		return nil
	case string:
		return d.UnmarshalText([]byte(v))
	case []byte:
		return d.UnmarshalText(v)
	default:
		return fmt.Errorf("flexidate: cannot scan %T", src)
	}
}
