package tokenize

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Lexical is a dependency-free tokenizer for the date phrases found in
// catalogue data: ISO and dotted dates, d/m/y and m/d/y numerals, month and
// weekday names, ordinals, clock times with am/pm and a trailing zone name.
//
// Like most general-purpose date parsers it expands two-digit years into the
// century closest to Now (86 becomes 1986). Words it does not recognise make
// the whole tokenization fail.
type Lexical struct {
	// Now anchors two-digit year expansion. Defaults to time.Now.
	Now func() time.Time
}

// NewLexical returns a Lexical tokenizer using the wall clock.
func NewLexical() *Lexical {
	return &Lexical{Now: time.Now}
}

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokWord
	tokColon
	tokDot
	tokSign
	tokSep
)

type token struct {
	kind  tokenKind
	text  string
	upper bool
}

var (
	months = map[string]int{
		"jan": 1, "january": 1,
		"feb": 2, "february": 2,
		"mar": 3, "march": 3,
		"apr": 4, "april": 4,
		"may": 5,
		"jun": 6, "june": 6,
		"jul": 7, "july": 7,
		"aug": 8, "august": 8,
		"sep": 9, "sept": 9, "september": 9,
		"oct": 10, "october": 10,
		"nov": 11, "november": 11,
		"dec": 12, "december": 12,
	}

	weekdays = map[string]struct{}{
		"mon": {}, "monday": {},
		"tue": {}, "tues": {}, "tuesday": {},
		"wed": {}, "wednesday": {},
		"thu": {}, "thur": {}, "thurs": {}, "thursday": {},
		"fri": {}, "friday": {},
		"sat": {}, "saturday": {},
		"sun": {}, "sunday": {},
	}

	jumpWords = map[string]struct{}{
		"at": {}, "on": {}, "and": {}, "ad": {}, "m": {}, "t": {},
		"of": {}, "st": {}, "nd": {}, "rd": {}, "th": {}, "the": {},
	}

	zoneNames = map[string]struct{}{
		"utc": {}, "gmt": {}, "ut": {}, "z": {},
	}
)

// Tokenize implements Tokenizer.
func (l *Lexical) Tokenize(text string, dayFirst bool) (Components, bool) {
	toks, ok := lex(text)
	if !ok {
		return Components{}, false
	}
	w := &walker{toks: toks}
	if !w.walk() {
		return Components{}, false
	}
	res, ok := w.resolve(dayFirst)
	if !ok {
		return Components{}, false
	}
	if w.twoDigitYear && res.Year.Set {
		res.Year.V = expandYear(res.Year.V, l.now())
	}
	if res.Empty() {
		return Components{}, false
	}
	return res, true
}

func (l *Lexical) now() time.Time {
	if l == nil || l.Now == nil {
		return time.Now()
	}
	return l.Now()
}

// expandYear moves a two-digit year into the century that puts it within 50
// years of now.
func expandYear(y int, now time.Time) int {
	cur := now.Year()
	y += cur - cur%100
	switch {
	case y >= cur+50:
		y -= 100
	case y < cur-50:
		y += 100
	}
	return y
}

func lex(s string) ([]token, bool) {
	var out []token
	rs := []rune(s)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case r >= '0' && r <= '9':
			j := i
			for j < len(rs) && rs[j] >= '0' && rs[j] <= '9' {
				j++
			}
			out = append(out, token{kind: tokNumber, text: string(rs[i:j])})
			i = j
		case unicode.IsLetter(r):
			j := i
			for j < len(rs) && unicode.IsLetter(rs[j]) {
				j++
			}
			word := string(rs[i:j])
			out = append(out, token{
				kind:  tokWord,
				text:  strings.ToLower(word),
				upper: word == strings.ToUpper(word),
			})
			i = j
		case r == ':':
			out = append(out, token{kind: tokColon})
			i++
		case r == '.':
			out = append(out, token{kind: tokDot})
			i++
		case r == '-' || r == '+':
			out = append(out, token{kind: tokSign, text: string(r)})
			i++
		case unicode.IsSpace(r) || strings.ContainsRune(",;/'", r):
			out = append(out, token{kind: tokSep})
			i++
		default:
			return nil, false
		}
	}
	return out, true
}

type number struct {
	v     int
	width int
}

func (n number) yearLike() bool { return n.width > 2 || n.v > 31 }

type walker struct {
	toks []token
	pos  int

	res          Components
	ymd          []number
	monthName    bool
	twoDigitYear bool
}

func (w *walker) peek(off int) (token, bool) {
	i := w.pos + off
	if i < 0 || i >= len(w.toks) {
		return token{}, false
	}
	return w.toks[i], true
}

func (w *walker) dateComplete() bool {
	return len(w.ymd) == 3 || (w.monthName && len(w.ymd) == 2)
}

func (w *walker) walk() bool {
	for ; w.pos < len(w.toks); w.pos++ {
		t := w.toks[w.pos]
		switch t.kind {
		case tokSep, tokDot:
		case tokColon:
			return false
		case tokSign:
			w.skipZoneOffset()
		case tokWord:
			if !w.word(t) {
				return false
			}
		case tokNumber:
			if !w.number(t) {
				return false
			}
		}
	}
	return true
}

// skipZoneOffset drops a numeric zone offset (+0100, -05:00) following a time.
func (w *walker) skipZoneOffset() {
	if !w.res.Hour.Set {
		return
	}
	next, ok := w.peek(1)
	if !ok || next.kind != tokNumber {
		return
	}
	w.pos++
	if c, ok := w.peek(1); ok && c.kind == tokColon {
		if m, ok := w.peek(2); ok && m.kind == tokNumber {
			w.pos += 2
		}
	}
}

func (w *walker) word(t token) bool {
	if _, ok := jumpWords[t.text]; ok {
		return true
	}
	if _, ok := weekdays[t.text]; ok {
		return true
	}
	if m, ok := months[t.text]; ok {
		if w.monthName {
			return false
		}
		w.monthName = true
		w.res.Month = Some(m)
		return true
	}
	switch t.text {
	case "am", "a", "pm", "p":
		if !w.res.Hour.Set || w.res.Hour.V > 12 {
			return false
		}
		pm := t.text[0] == 'p'
		switch {
		case pm && w.res.Hour.V < 12:
			w.res.Hour.V += 12
		case !pm && w.res.Hour.V == 12:
			w.res.Hour.V = 0
		}
		return true
	}
	if _, ok := zoneNames[t.text]; ok {
		return true
	}
	// Upper-case abbreviations after a clock time are zone names (EST, CEST).
	if w.res.Hour.Set && t.upper && len(t.text) >= 3 && len(t.text) <= 5 {
		return true
	}
	return false
}

func (w *walker) number(t token) bool {
	v, err := strconv.Atoi(t.text)
	if err != nil {
		return false
	}
	width := len(t.text)

	if w.clockTime(v) {
		return true
	}
	if w.meridiemFollows() {
		if w.res.Hour.Set {
			return false
		}
		w.res.Hour = Some(v)
		return true
	}

	switch {
	case width == 8 && len(w.ymd) == 0 && !w.monthName:
		// yyyymmdd
		w.ymd = append(w.ymd,
			number{v: v / 10000, width: 4},
			number{v: v / 100 % 100, width: 2},
			number{v: v % 100, width: 2})
	case w.dateComplete() && !w.res.Hour.Set && width <= 2:
		// 2016-06-03 10: a bare number after a full date is the hour.
		w.res.Hour = Some(v)
	case width > 4 || len(w.ymd) >= 3:
		return false
	default:
		w.ymd = append(w.ymd, number{v: v, width: width})
	}
	return true
}

// clockTime consumes hh:mm[:ss[.ffffff]] starting at the current number.
func (w *walker) clockTime(hour int) bool {
	colon, ok := w.peek(1)
	if !ok || colon.kind != tokColon {
		return false
	}
	minTok, ok := w.peek(2)
	if !ok || minTok.kind != tokNumber {
		return false
	}
	if w.res.Hour.Set {
		return false
	}
	minute, _ := strconv.Atoi(minTok.text)
	w.res.Hour = Some(hour)
	w.res.Minute = Some(minute)
	w.pos += 2

	if c, ok := w.peek(1); ok && c.kind == tokColon {
		if s, ok := w.peek(2); ok && s.kind == tokNumber {
			sec, _ := strconv.Atoi(s.text)
			w.res.Second = Some(sec)
			w.res.Microsecond = Some(0)
			w.pos += 2
			if d, ok := w.peek(1); ok && d.kind == tokDot {
				if f, ok := w.peek(2); ok && f.kind == tokNumber {
					w.res.Microsecond = Some(fraction(f.text))
					w.pos += 2
				}
			}
		}
	}
	return true
}

func (w *walker) meridiemFollows() bool {
	for off := 1; ; off++ {
		t, ok := w.peek(off)
		if !ok {
			return false
		}
		if t.kind == tokSep {
			continue
		}
		return t.kind == tokWord && (t.text == "am" || t.text == "pm")
	}
}

// fraction turns the digits after a decimal point into microseconds.
func fraction(digits string) int {
	if len(digits) > 6 {
		digits = digits[:6]
	}
	digits += strings.Repeat("0", 6-len(digits))
	v, _ := strconv.Atoi(digits)
	return v
}

// resolve assigns the collected numbers to year, month and day.
func (w *walker) resolve(dayFirst bool) (Components, bool) {
	res := w.res
	nums := w.ymd

	yearLike := 0
	for _, n := range nums {
		if n.yearLike() {
			yearLike++
		}
	}
	if yearLike > 1 {
		return Components{}, false
	}

	var year, month, day *number
	switch {
	case w.monthName:
		switch len(nums) {
		case 0:
		case 1:
			if nums[0].yearLike() {
				year = &nums[0]
			} else {
				day = &nums[0]
			}
		case 2:
			if nums[0].yearLike() {
				year, day = &nums[0], &nums[1]
			} else {
				day, year = &nums[0], &nums[1]
			}
		default:
			return Components{}, false
		}

	case len(nums) == 1:
		if nums[0].yearLike() {
			year = &nums[0]
		} else {
			day = &nums[0]
		}

	case len(nums) == 2:
		a, b := &nums[0], &nums[1]
		switch {
		case a.yearLike():
			year, month = a, b
		case b.yearLike():
			month, year = a, b
		default:
			month, day = orderMonthDay(a, b, dayFirst)
		}

	case len(nums) == 3:
		a, b, c := &nums[0], &nums[1], &nums[2]
		switch {
		case a.yearLike():
			year, month, day = a, b, c
			if month.v > 12 && day.v <= 12 {
				month, day = day, month
			}
		case b.yearLike():
			return Components{}, false
		default:
			year = c
			month, day = orderMonthDay(a, b, dayFirst)
		}
	}

	if month != nil {
		if month.v < 1 || month.v > 12 {
			return Components{}, false
		}
		res.Month = Some(month.v)
	}
	if day != nil {
		if day.v < 1 || day.v > 31 {
			return Components{}, false
		}
		res.Day = Some(day.v)
	}
	if year != nil {
		res.Year = Some(year.v)
		w.twoDigitYear = year.width <= 2
	}

	if res.Hour.Set && (res.Hour.V > 23 || !validClock(res)) {
		return Components{}, false
	}
	return res, true
}

// orderMonthDay applies the day/month preference, swapping when the
// preferred reading is impossible.
func orderMonthDay(a, b *number, dayFirst bool) (month, day *number) {
	if dayFirst {
		month, day = b, a
	} else {
		month, day = a, b
	}
	if month.v > 12 {
		month, day = day, month
	}
	return month, day
}

func validClock(c Components) bool {
	if c.Minute.Set && c.Minute.V > 59 {
		return false
	}
	if c.Second.Set && c.Second.V > 59 {
		return false
	}
	return true
}
