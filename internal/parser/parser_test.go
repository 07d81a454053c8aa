package parser

import (
	"testing"

	"github.com/starford/almanac/pkg/flexidate"
)

var fields = []string{"date", "born", "died"}

func TestParse_FrontmatterAndBody(t *testing.T) {
	input := []byte("---\ntitle: Ada Lovelace\ntags:\n  - people\n  - science\nborn: 10 Dec 1815\ndied: 1852\n---\n# Ada\nMathematician. #computing\n")
	r, err := Parse(input, fields)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Title != "Ada Lovelace" {
		t.Errorf("title = %q, want %q", r.Title, "Ada Lovelace")
	}
	if len(r.Tags) != 3 || r.Tags[0] != "people" || r.Tags[2] != "computing" {
		t.Errorf("tags = %v, want [people science computing]", r.Tags)
	}
	if r.Body != "# Ada\nMathematician. #computing\n" {
		t.Errorf("body = %q", r.Body)
	}
	if len(r.Dates) != 2 {
		t.Fatalf("dates = %+v, want 2", r.Dates)
	}
	if r.Dates[0].Field != "born" || r.Dates[0].Input != flexidate.Text("10 Dec 1815") {
		t.Errorf("born = %+v", r.Dates[0])
	}
	if r.Dates[1].Field != "died" || r.Dates[1].Input != flexidate.Year(1852) || r.Dates[1].Raw != "1852" {
		t.Errorf("died = %+v", r.Dates[1])
	}
}

func TestParse_DateValues(t *testing.T) {
	input := []byte("---\ndate:\n  - 1066-10-14\n  - c. 1200\n  - 1999.5\n  - null\n  - true\nborn: \"-44\"\n---\nbody\n")
	r, err := Parse(input, fields)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Dates) != 4 {
		t.Fatalf("dates = %+v, want 4", r.Dates)
	}
	want := []string{"1066-10-14", "c. 1200", "1999.5", "-44"}
	for i, w := range want {
		if r.Dates[i].Raw != w {
			t.Errorf("dates[%d].Raw = %q, want %q", i, r.Dates[i].Raw, w)
		}
	}
	if got := flexidate.Parse(r.Dates[0].Input).String(); got != "1066-10-14" {
		t.Errorf("first date = %q, want 1066-10-14", got)
	}
	if r.Dates[3].Field != "born" {
		t.Errorf("field = %q, want born", r.Dates[3].Field)
	}
}

func TestParse_NoFrontmatter(t *testing.T) {
	r, err := Parse([]byte("# Just a heading\nSome text.\n"), fields)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Frontmatter != nil || r.Dates != nil {
		t.Errorf("expected no frontmatter, got %v", r.Frontmatter)
	}
	if r.Title != "Just a heading" {
		t.Errorf("title = %q, want %q", r.Title, "Just a heading")
	}
}

func TestParse_InvalidYAMLFallback(t *testing.T) {
	r, err := Parse([]byte("---\n: invalid: yaml: {{{\n---\nBody\n"), fields)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Frontmatter != nil {
		t.Errorf("expected nil frontmatter on invalid YAML")
	}
}

func TestParse_UnclosedFrontmatter(t *testing.T) {
	in := "---\ndate: 1900\nno closing delimiter"
	r, _ := Parse([]byte(in), fields)
	if r.Body != in || len(r.Dates) != 0 {
		t.Errorf("body = %q dates = %v", r.Body, r.Dates)
	}
}

func TestDeriveTitle(t *testing.T) {
	if got := deriveTitle(map[string]any{"title": "FM"}, "# H1\n"); got != "FM" {
		t.Errorf("title = %q, want FM", got)
	}
	if got := deriveTitle(nil, "text\n# My Heading\nmore"); got != "My Heading" {
		t.Errorf("title = %q, want %q", got, "My Heading")
	}
}
