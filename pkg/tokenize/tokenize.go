// Package tokenize extracts best-effort date and time components from free
// text. It knows nothing about qualifiers or eras; callers normalise those
// first and post-process the result.
package tokenize

// Int is an optional integer component.
type Int struct {
	V   int
	Set bool
}

// Some returns a set Int holding v.
func Some(v int) Int { return Int{V: v, Set: true} }

// Components is the result of a successful tokenization. Any field may be unset.
type Components struct {
	Year        Int
	Month       Int
	Day         Int
	Hour        Int
	Minute      Int
	Second      Int
	Microsecond Int
}

// Empty reports whether no component is set.
func (c Components) Empty() bool {
	return !c.Year.Set && !c.Month.Set && !c.Day.Set && !c.Hour.Set &&
		!c.Minute.Set && !c.Second.Set && !c.Microsecond.Set
}

// Tokenizer extracts components from text. dayFirst resolves ambiguous
// numeric dates such as 05/07/2010 as day/month. ok is false when nothing
// usable was found.
type Tokenizer interface {
	Tokenize(text string, dayFirst bool) (c Components, ok bool)
}

// Func adapts an ordinary function to the Tokenizer interface.
type Func func(text string, dayFirst bool) (Components, bool)

// Tokenize calls f.
func (f Func) Tokenize(text string, dayFirst bool) (Components, bool) {
	return f(text, dayFirst)
}

// Chain tries each tokenizer in order and returns the first success.
type Chain []Tokenizer

// Tokenize implements Tokenizer.
func (c Chain) Tokenize(text string, dayFirst bool) (Components, bool) {
	for _, t := range c {
		if t == nil {
			continue
		}
		if res, ok := t.Tokenize(text, dayFirst); ok {
			return res, true
		}
	}
	return Components{}, false
}
