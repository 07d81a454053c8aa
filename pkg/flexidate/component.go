package flexidate

import (
	"fmt"
	"strconv"
	"strings"
)

// Component is a single numeric field of a FlexiDate (year, month, ...).
//
// A present component holds a digit string over 0-9 and '?', left-padded with
// zeros to the field width. A leading minus sign is kept outside the padding,
// so year -5 is stored as "-0005".
type Component struct {
	set    bool
	forced bool
	neg    bool
	digits string
}

// cvt converts raw text into a component of the given width. Empty text
// yields an absent component unless force is set, in which case the result
// is a known-unknown placeholder of width '!' characters ('!' sorts before
// every digit, '?' sorts after).
func cvt(raw string, width int, force bool) (Component, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		if force {
			return Placeholder(width), nil
		}
		return Component{}, nil
	}

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if s == "" {
		return Component{}, fmt.Errorf("%w: %q", ErrInvalidComponent, raw)
	}
	for i := 0; i < len(s); i++ {
		if !isDigitOrUnknown(s[i]) {
			return Component{}, fmt.Errorf("%w: %q", ErrInvalidComponent, raw)
		}
	}
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return Component{set: true, neg: neg, digits: s}, nil
}

func intComponent(v, width int) Component {
	c, _ := cvt(strconv.Itoa(v), width, false)
	return c
}

// Placeholder returns a known-unknown component of the given width.
func Placeholder(width int) Component {
	return Component{set: true, forced: true, digits: strings.Repeat("!", width)}
}

// IsSet reports whether the component carries a value (including a placeholder).
func (c Component) IsSet() bool { return c.set }

// IsPlaceholder reports whether the component is a known-unknown placeholder.
func (c Component) IsPlaceholder() bool { return c.forced }

// HasUnknownDigits reports whether any digit is the '?' placeholder.
func (c Component) HasUnknownDigits() bool { return strings.Contains(c.digits, "?") }

// Negative reports whether the component carries a leading minus sign.
func (c Component) Negative() bool { return c.neg }

// String returns the padded textual form, or "" when absent.
func (c Component) String() string {
	if !c.set {
		return ""
	}
	if c.neg {
		return "-" + c.digits
	}
	return c.digits
}

// Int returns the integer value. It fails for absent components, placeholders
// and components containing '?' digits.
func (c Component) Int() (int, error) {
	if !c.set || c.forced || c.HasUnknownDigits() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidComponent, c.String())
	}
	v, err := strconv.Atoi(c.String())
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidComponent, c.String())
	}
	return v, nil
}

// float parses the component after substituting unknown digits with fill.
func (c Component) float(fill string) (float64, bool) {
	if !c.set || c.forced {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(c.String(), "?", fill), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isDigitOrUnknown(b byte) bool {
	return b == '?' || (b >= '0' && b <= '9')
}
