package flexidate

import (
	"strings"
	"time"

	"github.com/starford/almanac/pkg/tokenize"
)

const unparsedPrefix = "UNPARSED: "

// Input is anything Parser.Parse accepts: FlexiDate, Year, CalendarDate,
// Timestamp or Text.
type Input interface {
	isInput()
}

// Year is a bare integer year.
type Year int

// CalendarDate is a year, month and day without a time of day.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// Timestamp is a full date and time. Sub-microsecond precision is dropped.
type Timestamp struct {
	time.Time
}

// Text is free text to be parsed.
type Text string

func (FlexiDate) isInput()    {}
func (Year) isInput()         {}
func (CalendarDate) isInput() {}
func (Timestamp) isInput()    {}
func (Text) isInput()         {}

// DateOf returns the CalendarDate of t.
func DateOf(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// Parser dispatches on the input kind. Unparseable text never fails: it
// yields an unknown date whose qualifier starts with "UNPARSED: ".
type Parser struct {
	// DayFirst reads ambiguous numeric dates such as 05/07/2010 as day/month.
	DayFirst bool
	Text     *TextParser
}

// NewParser returns a Parser that reads free text with t.
func NewParser(t tokenize.Tokenizer, dayFirst bool) *Parser {
	return &Parser{DayFirst: dayFirst, Text: NewTextParser(t)}
}

var defaultParser = NewParser(nil, true)

// Parse runs the default parser: built-in tokenizer, day-first.
func Parse(in Input) *FlexiDate {
	return defaultParser.Parse(in)
}

// Parse returns nil for a nil input or empty text.
func (p *Parser) Parse(in Input) *FlexiDate {
	var d FlexiDate
	switch v := in.(type) {
	case nil:
		return nil
	case FlexiDate:
		d = v
	case *FlexiDate:
		if v == nil {
			return nil
		}
		d = *v
	case Year:
		d = New(int(v))
	case CalendarDate:
		d = New(v.Year, int(v.Month), v.Day, 0, 0, 0, 0)
	case Timestamp:
		t := v.Time
		d = New(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/1000)
	case Text:
		return p.parseText(string(v))
	default:
		return nil
	}
	return &d
}

func (p *Parser) parseText(s string) *FlexiDate {
	if s == "" {
		return nil
	}
	tp := p.Text
	if tp == nil {
		tp = defaultParser.Text
	}
	if d := tp.Parse(s, p.DayFirst); d != nil {
		return d
	}
	d := New().WithQualifier(unparsedPrefix + asciiOnly(s))
	return &d
}

// Norm parses text and returns its canonical form, "" for empty text.
func (p *Parser) Norm(text string) string {
	d := p.Parse(Text(text))
	if d == nil {
		return ""
	}
	return d.String()
}

func asciiOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0x7f {
			return -1
		}
		return r
	}, s)
}
