package slug

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple filename stem", "Team Photo", "team-photo"},
		{"mixed case", "HeroBanner", "herobanner"},
		{"punctuation collapsed", "logo (final) v2!", "logo-final-v2"},
		{"dots collapsed", "screenshot.2026.02.25", "screenshot-2026-02-25"},
		{"underscores become hyphens", "office_tour_clip", "office-tour-clip"},
		{"non-ascii dropped", "café menü 写真", "caf-men"},
		{"leading and trailing junk", "  --draft-- ", "draft"},
		{"digits kept", "IMG 20260225 001", "img-20260225-001"},
		{"empty input falls back", "", "file"},
		{"only symbols falls back", "!!!", "file"},
		{"only whitespace falls back", "   ", "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGenerateCapsLength(t *testing.T) {
	long := strings.Repeat("very-long-name-", 20)
	got := Generate(long)
	if len(got) > 48 {
		t.Errorf("len = %d, want <= 48", len(got))
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("capped slug ends with hyphen: %q", got)
	}
}

func TestGenerateIdempotent(t *testing.T) {
	for _, s := range []string{"team-photo", "img-001", "a"} {
		if got := Generate(s); got != s {
			t.Errorf("Generate(%q) = %q, want unchanged", s, got)
		}
	}
}
