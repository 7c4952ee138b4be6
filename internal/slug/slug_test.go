package slug

import (
	"strings"
	"testing"
)

// TestGenerate covers typical upload file names, accents, separators and
// edge cases.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- File names ---
		{name: "simple", input: "Product Photo", want: "product-photo"},
		{name: "version suffix", input: "Data Sheet (v2)", want: "data-sheet-v2"},
		{name: "underscores removed", input: "spec_sheet_final", want: "specsheetfinal"},
		{name: "date-like", input: "2026-02-25", want: "2026-02-25"},

		// --- Accents ---
		{name: "french accents folded", input: "Fiche Technique Café", want: "fiche-technique-cafe"},
		{name: "german umlauts folded", input: "Über die Brücke", want: "uber-die-brucke"},
		{name: "romanian diacritics folded", input: "Ștefan și Ioana", want: "stefan-si-ioana"},
		{name: "non-latin dropped", input: "产品 Photo", want: "photo"},

		// --- Separators ---
		{name: "tabs collapse", input: "hello\tworld", want: "hello-world"},
		{name: "newlines collapse", input: "hello\nworld", want: "hello-world"},
		{name: "mixed hyphens and spaces", input: "  --hello -- world--  ", want: "hello-world"},

		// --- Edge cases ---
		{name: "empty", input: "", want: ""},
		{name: "only specials", input: "!@#$%^&*()", want: ""},
		{name: "single char", input: "A", want: "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.input)
			if got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGenerate_MaxLen(t *testing.T) {
	got := Generate(strings.Repeat("word ", 40))
	if len(got) > MaxLen {
		t.Fatalf("len = %d, want <= %d", len(got), MaxLen)
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("slug %q ends with a hyphen", got)
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	for _, s := range []string{"hello-world", "data-sheet-2026", "a", "123"} {
		if got := Generate(s); got != s {
			t.Errorf("Generate(%q) = %q, want %q", s, got, s)
		}
	}
}
