package flexidate

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/starford/almanac/pkg/tokenize"
)

const (
	qualifierCirca       = "Note 'circa'"
	qualifierUncertainty = "Uncertainty"
)

var (
	eraReplacer = strings.NewReplacer(
		"B.C.E.", "BC",
		"BCE", "BC",
		"B.C.", "BC",
		"A.D.", "AD",
		"C.E.", "AD",
		"CE", "AD",
	)
	circaRe       = regexp.MustCompile(`(?s)^([^a-zA-Z]*)c\.?\s*(\d.*)$`)
	marcPrefixRe  = regexp.MustCompile(`^p\d`)
	uncertainRe   = regexp.MustCompile(`^[0-9xX]{4}\?`)
	plainNumberRe = regexp.MustCompile(`^[0-9]+$`)
)

// TextParser turns free text into a FlexiDate. It strips era markers and
// qualifiers itself and delegates the remaining text to Tokenizer.
type TextParser struct {
	Tokenizer tokenize.Tokenizer
}

// NewTextParser returns a TextParser using t, or the built-in lexical
// tokenizer when t is nil.
func NewTextParser(t tokenize.Tokenizer) *TextParser {
	if t == nil {
		t = tokenize.NewLexical()
	}
	return &TextParser{Tokenizer: t}
}

// Parse returns nil when the text cannot be tokenized.
func (p *TextParser) Parse(text string, dayFirst bool) *FlexiDate {
	orig := strings.TrimSpace(text)
	work := orig

	// Longer spellings come first in eraReplacer so "B.C.E." is not read as "B.AD".
	work = eraReplacer.Replace(work)

	preEpoch := strings.HasPrefix(work, "-") || strings.Contains(work, "BC")
	work = strings.ReplaceAll(work, "BC", "")

	var qualifiers []string
	if m := circaRe.FindStringSubmatch(work); m != nil {
		qualifiers = append(qualifiers, qualifierCirca)
		work = m[1] + m[2]
	}
	if marcPrefixRe.MatchString(work) {
		work = work[1:]
	}
	if uncertainRe.MatchString(work) {
		work = work[:4] + work[5:]
		qualifiers = append(qualifiers, qualifierUncertainty)
	}

	tok := p.Tokenizer
	if tok == nil {
		tok = tokenize.NewLexical()
	}
	res, ok := tok.Tokenize(work, dayFirst)
	if !ok {
		return nil
	}

	// Tokenizers read a lone small number as a day and expand two-digit
	// years; both are taken literally here. The day number also stays the
	// day, so "March 4" is 0004-03-04.
	work = strings.TrimSpace(work)
	switch {
	case !res.Year.Set && res.Day.Set && res.Day.V != 0:
		res.Year = res.Day
	case res.Year.Set && plainNumberRe.MatchString(work) && (len(work) == 2 || strings.HasPrefix(work, "00")):
		res.Year.V %= 100
	}
	if preEpoch && res.Year.Set {
		res.Year.V = -res.Year.V
	}

	var qualifier string
	if len(qualifiers) > 0 {
		qualifier = strings.Join(qualifiers, ", ") + " : " + orig
	}

	d, err := FromParts(Parts{
		Year:        itoa(res.Year),
		Month:       itoa(res.Month),
		Day:         itoa(res.Day),
		Hour:        itoa(res.Hour),
		Minute:      itoa(res.Minute),
		Second:      itoa(res.Second),
		Microsecond: itoa(res.Microsecond),
		Qualifier:   qualifier,
	})
	if err != nil {
		return nil
	}
	return &d
}

func itoa(v tokenize.Int) string {
	if !v.Set {
		return ""
	}
	return strconv.Itoa(v.V)
}
