// Package parser reads catalog records: YAML frontmatter, title, tags and the
// raw date values found under the configured frontmatter keys.
package parser

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/starford/almanac/pkg/flexidate"
)

var tagRe = regexp.MustCompile(`(?:^|\s)#([A-Za-z][A-Za-z0-9_/-]*)`)

// DateField is one raw date value pulled from frontmatter.
type DateField struct {
	Field string
	Raw   string
	Input flexidate.Input
}

// Result holds the output of parsing a record.
type Result struct {
	Frontmatter map[string]any
	Body        string
	Title       string
	Tags        []string
	Dates       []DateField
}

// Parse splits data into frontmatter and body and collects the values stored
// under fields. List values yield one DateField per element.
func Parse(data []byte, fields []string) (*Result, error) {
	fm, body := splitFrontmatter(data)
	return &Result{
		Frontmatter: fm,
		Body:        body,
		Title:       deriveTitle(fm, body),
		Tags:        extractTags(body, fm),
		Dates:       extractDates(fm, fields),
	}, nil
}

// splitFrontmatter separates a leading --- delimited YAML block from the
// body. Missing delimiters or invalid YAML leave the whole input as body.
func splitFrontmatter(data []byte) (map[string]any, string) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")
	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data)
	}

	rest := trimmed[len(delim):]
	end := bytes.Index(rest, []byte("\n"+delim))
	if end < 0 {
		return nil, string(data)
	}

	var fm map[string]any
	if err := yaml.Unmarshal(rest[:end], &fm); err != nil {
		return nil, string(data)
	}
	body := strings.TrimLeft(string(rest[end+1+len(delim):]), "\n\r")
	return fm, body
}

func extractDates(fm map[string]any, fields []string) []DateField {
	if fm == nil {
		return nil
	}
	var out []DateField
	for _, f := range fields {
		raw, ok := fm[f]
		if !ok {
			continue
		}
		if list, ok := raw.([]any); ok {
			for _, item := range list {
				if d, ok := toDateField(f, item); ok {
					out = append(out, d)
				}
			}
			continue
		}
		if d, ok := toDateField(f, raw); ok {
			out = append(out, d)
		}
	}
	return out
}

// toDateField maps a decoded YAML scalar onto a flexidate input. Bare
// integers are years; timestamps at midnight are calendar dates.
func toDateField(field string, v any) (DateField, bool) {
	switch x := v.(type) {
	case int:
		return DateField{Field: field, Raw: strconv.Itoa(x), Input: flexidate.Year(x)}, true
	case string:
		return DateField{Field: field, Raw: x, Input: flexidate.Text(x)}, true
	case float64:
		s := strconv.FormatFloat(x, 'f', -1, 64)
		return DateField{Field: field, Raw: s, Input: flexidate.Text(s)}, true
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return DateField{Field: field, Raw: x.Format(time.DateOnly), Input: flexidate.DateOf(x)}, true
		}
		return DateField{Field: field, Raw: x.Format(time.RFC3339Nano), Input: flexidate.Timestamp{Time: x}}, true
	case nil, bool:
		return DateField{}, false
	default:
		s := fmt.Sprint(x)
		return DateField{Field: field, Raw: s, Input: flexidate.Text(s)}, true
	}
}

// extractTags merges the frontmatter "tags" list with inline #tags.
func extractTags(body string, fm map[string]any) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(t string) {
		t = strings.TrimSpace(t)
		if t == "" {
			return
		}
		if _, dup := seen[t]; dup {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	if list, ok := fm["tags"].([]any); ok {
		for _, item := range list {
			if s, ok := item.(string); ok {
				add(s)
			}
		}
	}
	for _, m := range tagRe.FindAllStringSubmatch(body, -1) {
		add(m[1])
	}
	return out
}

// deriveTitle prefers the frontmatter title, then the first H1.
func deriveTitle(fm map[string]any, body string) string {
	if s, ok := fm["title"].(string); ok && s != "" {
		return s
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
