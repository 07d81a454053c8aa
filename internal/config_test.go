package internal

import (
	"strings"
	"testing"

	"github.com/starford/almanac/pkg/tokenize"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestCatalogConfig_RequiresFields(t *testing.T) {
	cfg := CatalogConfig{Path: "./catalog"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty date_fields should fail validation")
	}
	cfg.DateFields = []string{"born", ""}
	if err := cfg.Validate(); err == nil {
		t.Fatal("blank date field should fail validation")
	}
	cfg.DateFields = []string{"born"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid catalog config: %v", err)
	}
}

func TestParserConfig_Fallback(t *testing.T) {
	cfg := ParserConfig{Workers: 4}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty fallback should default: %v", err)
	}
	if cfg.Fallback != FallbackNone {
		t.Errorf("fallback = %q, want %q", cfg.Fallback, FallbackNone)
	}
	if _, ok := cfg.Tokenizer().(*tokenize.Lexical); !ok {
		t.Errorf("tokenizer = %T, want *tokenize.Lexical", cfg.Tokenizer())
	}

	cfg.Fallback = FallbackDateparse
	chain, ok := cfg.Tokenizer().(tokenize.Chain)
	if !ok || len(chain) != 2 {
		t.Errorf("tokenizer = %#v, want two-step chain", cfg.Tokenizer())
	}

	cfg.Fallback = "magic"
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown fallback should fail validation")
	}
}

func TestParserConfig_Workers(t *testing.T) {
	cfg := ParserConfig{Fallback: FallbackNone}
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero workers should fail validation")
	}
}

func TestParserConfig_NewParser(t *testing.T) {
	cfg := NewDefaultConfig().Parser
	p := cfg.NewParser()
	if got := p.Norm("05/07/2010"); got != "2010-07-05" {
		t.Errorf("Norm = %q, want %q", got, "2010-07-05")
	}
}

func TestFullConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	cfg.Auth.Mode = "token"
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}
