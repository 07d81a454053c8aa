package mcpserver

// DateFormatContract describes the canonical date strings stored by the
// index and accepted by parse_canonical.
const DateFormatContract = `# Almanac Date Format

Dates are stored as extended ISO 8601 text. Components may be missing from
the right, unknown digits are written as '?', and a free-text qualifier may
follow in square brackets.

## Grammar

` + "```" + `
date      = [year ["-" month ["-" day]]] [" " time] [" [" qualifier "]"]
time      = hour [":" minute [":" second ["." microsecond]]]
year      = ["-"] 4*DIGIT-OR-?      ; -0004 is 4 BC
month     = 2DIGIT-OR-?
day       = 2DIGIT-OR-?
` + "```" + `

The dash form YYYY-MM-DD-hh-mm-ss-ffffff is also accepted on input.

## Examples

| Raw text          | Canonical                          |
|-------------------|------------------------------------|
| 1762              | 1762                               |
| March 1762        | 1762-03                            |
| 4 BC              | -0004                              |
| c. 1780           | 1780 [Note 'circa' : c. 1780]      |
| 1985? June        | 1985-06 [Uncertainty : 1985? June] |
| fl. 1760          | [UNPARSED: fl. 1760]               |

## Rules

1. Text that cannot be read is kept as an unknown date whose qualifier starts
   with "UNPARSED: ". Nothing is ever rejected. Yearless values such as this
   one start with a space.
2. '?' digits (18??) appear in stored values but are not produced from free
   text.
3. Dates sort by their approximate value: the year, plus twelfths for the
   month and 365ths for the day. Unknown year digits count as 9.
4. Dates without a year sort before every dated value.
5. Record frontmatter keys holding dates are configured under
   ` + "`catalog.date_fields`" + ` (default: date, born, died, start, end, published).
`
