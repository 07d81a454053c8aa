package flexidate

import "strings"

// Canonical grammar, mirroring ISOFormat and String:
//
//	canonical := [date] [time] [qualifier]
//	date      := ['-'] digits+ ['-' d{1,2} ['-' d{1,2} [dashtime]]]
//	dashtime  := '-' d{1,2} ['-' d{1,2} ['-' d{1,2} ['-' d{1,6}]]]
//	time      := ' ' d{1,2} [':' d{1,2} [':' d{1,2}]] ['.' d{1,6}]
//	qualifier := '[' any ']'    (the last ']' of the input)
//
// where d is a digit or '?'. Whitespace is allowed around separators and at
// both ends; the whole input must be consumed. Each chain is a fixed
// left-to-right sequence, so a later field never appears without the ones
// before it.

// FromString parses the canonical form produced by String. Empty input yields
// the unknown date. ok is false when s does not match the grammar.
func FromString(s string) (d FlexiDate, ok bool) {
	if p, ok := parseCanonical(s, true); ok {
		return buildCanonical(p)
	}
	// A yearless value with a time renders as " hh:mm"; retry without a date
	// so the leading digits are not taken for a year.
	if p, ok := parseCanonical(s, false); ok {
		return buildCanonical(p)
	}
	return FlexiDate{}, false
}

func buildCanonical(p Parts) (FlexiDate, bool) {
	d, err := FromParts(p)
	if err != nil {
		return FlexiDate{}, false
	}
	return d, true
}

type scanner struct {
	s   string
	pos int
}

func (sc *scanner) eof() bool { return sc.pos >= len(sc.s) }

func (sc *scanner) skipSpace() int {
	start := sc.pos
	for sc.pos < len(sc.s) && isSpace(sc.s[sc.pos]) {
		sc.pos++
	}
	return sc.pos - start
}

// digits consumes up to max digit-or-'?' characters (unbounded when max is 0).
func (sc *scanner) digits(max int) string {
	start := sc.pos
	for sc.pos < len(sc.s) && isDigitOrUnknown(sc.s[sc.pos]) {
		if max > 0 && sc.pos-start == max {
			break
		}
		sc.pos++
	}
	return sc.s[start:sc.pos]
}

// field consumes optional whitespace, sep, optional whitespace and a run of
// 1..max digits. On failure the position is left untouched.
func (sc *scanner) field(sep byte, max int) (string, bool) {
	start := sc.pos
	sc.skipSpace()
	if sc.eof() || sc.s[sc.pos] != sep {
		sc.pos = start
		return "", false
	}
	sc.pos++
	sc.skipSpace()
	v := sc.digits(max)
	if v == "" {
		sc.pos = start
		return "", false
	}
	return v, true
}

func parseCanonical(s string, withDate bool) (Parts, bool) {
	var p Parts
	sc := &scanner{s: s}
	sc.skipSpace()

	dashTime := false
	if withDate {
		start := sc.pos
		sign := ""
		if !sc.eof() && sc.s[sc.pos] == '-' {
			sign = "-"
			sc.pos++
		}
		if year := sc.digits(0); year != "" {
			p.Year = sign + year
			dashTime = parseDateTail(sc, &p)
		} else {
			sc.pos = start
		}
	}

	if !dashTime {
		parseClockTime(sc, &p, p.Year != "")
	}

	sc.skipSpace()
	if !sc.eof() && sc.s[sc.pos] == '[' {
		// The qualifier runs to the final ']', so it may contain brackets.
		rest := strings.TrimRightFunc(sc.s[sc.pos:], func(r rune) bool { return r < 0x80 && isSpace(byte(r)) })
		if len(rest) < 2 || rest[len(rest)-1] != ']' {
			return Parts{}, false
		}
		p.Qualifier = rest[1 : len(rest)-1]
		sc.pos += len(rest)
		sc.skipSpace()
	}
	if !sc.eof() {
		return Parts{}, false
	}
	return p, true
}

// parseDateTail reads -MM[-DD] and the dash-separated time chain. It reports
// whether any time field was read that way.
func parseDateTail(sc *scanner, p *Parts) bool {
	var ok bool
	if p.Month, ok = sc.field('-', 2); !ok {
		return false
	}
	if p.Day, ok = sc.field('-', 2); !ok {
		return false
	}
	if p.Hour, ok = sc.field('-', 2); !ok {
		return false
	}
	if p.Minute, ok = sc.field('-', 2); ok {
		if p.Second, ok = sc.field('-', 2); ok {
			p.Microsecond, _ = sc.field('-', 6)
		}
	}
	return true
}

// parseClockTime reads " hh[:mm[:ss]][.ffffff]". After a date at least one
// space must separate the two parts.
func parseClockTime(sc *scanner, p *Parts, needSpace bool) {
	start := sc.pos
	if n := sc.skipSpace(); needSpace && n == 0 {
		return
	}
	hour := sc.digits(2)
	if hour == "" {
		sc.pos = start
		return
	}
	p.Hour = hour
	var ok bool
	if p.Minute, ok = sc.field(':', 2); ok {
		p.Second, _ = sc.field(':', 2)
	}
	p.Microsecond, _ = sc.field('.', 6)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}
