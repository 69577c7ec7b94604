package debug

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseCategories(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]bool
	}{
		{"empty", "", map[string]bool{}},
		{"single", "llm", map[string]bool{"llm": true}},
		{"multiple", "llm,search", map[string]bool{"llm": true, "search": true}},
		{"all", "all", map[string]bool{"all": true}},
		{"with spaces", " llm , research ", map[string]bool{"llm": true, "research": true}},
		{"uppercase normalized", "LLM,Search", map[string]bool{"llm": true, "search": true}},
		{"empty segments", "llm,,search", map[string]bool{"llm": true, "search": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, parseCategories(tt.input)); diff != "" {
				t.Errorf("parseCategories(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestEnabled(t *testing.T) {
	orig := categories
	defer func() { categories = orig }()

	categories = parseCategories("llm,research")

	if !Enabled("llm") {
		t.Error("llm should be enabled")
	}
	if !Enabled("research") {
		t.Error("research should be enabled")
	}
	if Enabled("search") {
		t.Error("search should not be enabled")
	}

	categories = parseCategories("all")
	if !Enabled("anything") {
		t.Error("anything should be enabled via 'all'")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"TRACE", LevelTrace},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestInitWriterJSON(t *testing.T) {
	origCats := categories
	origLogger := slog.Default()
	defer func() {
		categories = origCats
		slog.SetDefault(origLogger)
	}()
	t.Setenv("RECHERCHE_DEBUG", "")
	t.Setenv("RECHERCHE_LOG_LEVEL", "")

	var buf bytes.Buffer
	InitWriter(&buf, "research", "DEBUG", "json")

	Log("research", "stage started", "stage", "research")
	Log("llm", "hidden")

	out := buf.String()
	if !strings.Contains(out, `"msg":"stage started"`) {
		t.Errorf("expected JSON record for enabled category, got: %s", out)
	}
	if !strings.Contains(out, `"debug":"research"`) {
		t.Errorf("expected debug category attribute, got: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("disabled category should not be logged, got: %s", out)
	}
}

func TestInitWriterEnvPrecedence(t *testing.T) {
	origCats := categories
	origLogger := slog.Default()
	defer func() {
		categories = origCats
		slog.SetDefault(origLogger)
	}()
	t.Setenv("RECHERCHE_DEBUG", "search")
	t.Setenv("RECHERCHE_LOG_LEVEL", "ERROR")

	var buf bytes.Buffer
	InitWriter(&buf, "llm", "DEBUG", "text")

	if !Enabled("search") || Enabled("llm") {
		t.Errorf("env categories should win, got %v", Categories())
	}
	if slog.Default().Enabled(context.Background(), slog.LevelWarn) {
		t.Error("env level ERROR should suppress WARN")
	}
}

func TestCategoriesSorted(t *testing.T) {
	orig := categories
	defer func() { categories = orig }()

	categories = parseCategories("search,llm,engine")
	want := []string{"engine", "llm", "search"}
	if diff := cmp.Diff(want, Categories()); diff != "" {
		t.Errorf("Categories() mismatch (-want +got):\n%s", diff)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 10); got != "hello" {
		t.Errorf("Truncate short = %q", got)
	}
	if got := Truncate("hello world", 5); got != "hello..." {
		t.Errorf("Truncate long = %q, want %q", got, "hello...")
	}
}
