package slug

import (
	"strings"
	"testing"
)

// TestGenerate exercises the slug folder with typical titles, separators,
// transliteration and edge cases.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Normal titles ---
		{name: "simple two words", input: "Hello World", want: "hello-world"},
		{name: "title with year", input: "Hello World 2026", want: "hello-world-2026"},
		{name: "single word", input: "GoLang", want: "golang"},

		// --- Separators ---
		{name: "punctuation marks", input: "Hello, World! How's it going?", want: "hello-world-hows-it-going"},
		{name: "ampersand and at sign", input: "Rock & Roll @ the Arena", want: "rock-roll-the-arena"},
		{name: "brackets dropped dots separate", input: "Version (2.0) [Beta]", want: "version-2-0-beta"},
		{name: "slashes and pipes", input: "Frontend/Backend | Full Stack", want: "frontend-backend-full-stack"},
		{name: "backslash", input: `C:\Users`, want: "c-users"},
		{name: "underscore and equals", input: "go_lang=fun", want: "go-lang-fun"},
		{name: "hash kept out", input: "Issue #42 costs $100", want: "issue-42-costs-100"},
		{name: "plus and equals", input: "1 + 1 = 2", want: "1-1-2"},

		// --- Transliteration ---
		{name: "french accents", input: "Café Résumé Noël", want: "cafe-resume-noel"},
		{name: "german eszett", input: "Straße", want: "strasse"},
		{name: "uppercase thorn", input: "Þór", want: "thor"},
		{name: "uppercase y diaeresis", input: "Ÿes", want: "yes"},
		{name: "spanish tilde", input: "Año Nuevo", want: "ano-nuevo"},
		{name: "unmapped script dropped", input: "日本語", want: ""},
		{name: "emoji dropped", input: "Hello 🌍 World", want: "hello-world"},

		// --- Whitespace and dashes ---
		{name: "leading spaces", input: "   hello world", want: "hello-world"},
		{name: "trailing spaces", input: "hello world   ", want: "hello-world"},
		{name: "consecutive spaces collapsed", input: "hello    world", want: "hello-world"},
		{name: "tab is not a separator", input: "hello\tworld", want: "helloworld"},
		{name: "leading and trailing dashes", input: "---hello world---", want: "hello-world"},
		{name: "dashes and spaces mixed", input: "  --hello -- world--  ", want: "hello-world"},

		// --- Edge cases ---
		{name: "empty string", input: "", want: ""},
		{name: "only separators", input: " -_=. ", want: ""},
		{name: "only symbols", input: "!@#$%^&*()", want: ""},
		{name: "date-like string", input: "2026-02-25", want: "2026-02-25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.input, 0)
			if got != tt.want {
				t.Errorf("Generate(%q, 0) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGenerate_MaxLen(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{name: "cut inside word", input: "Hello World", maxLen: 5, want: "hello"},
		{name: "cut on separator trims dash", input: "Hello World", maxLen: 6, want: "hello"},
		{name: "cut after separator", input: "Hello World", maxLen: 7, want: "hello-w"},
		{name: "taxonomy limit", input: "abcdefghijklmnopqrstuvwxyz", maxLen: 24, want: "abcdefghijklmnopqrstuvwx"},
		{name: "shorter than limit", input: "Go", maxLen: 24, want: "go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.input, tt.maxLen)
			if got != tt.want {
				t.Errorf("Generate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

// TestGenerate_Idempotent verifies that generating a slug from an already
// valid slug produces the same result.
func TestGenerate_Idempotent(t *testing.T) {
	for _, s := range []string{"hello-world", "my-blog-post-2026", "a", "123"} {
		t.Run(s, func(t *testing.T) {
			if got := Generate(s, 0); got != s {
				t.Errorf("Generate(%q) = %q, want idempotent result %q", s, got, s)
			}
		})
	}
}

func TestUniquify(t *testing.T) {
	tests := []struct {
		name     string
		slug     string
		existing []string
		want     string
	}{
		{name: "free", slug: "go", existing: nil, want: "go"},
		{name: "first collision", slug: "go", existing: []string{"go"}, want: "go-2"},
		{name: "increments existing suffix", slug: "go", existing: []string{"go", "go-2", "go-3"}, want: "go-4"},
		{name: "candidate already suffixed", slug: "go-2", existing: []string{"go-2"}, want: "go-3"},
		{name: "unrelated number suffix", slug: "v-5", existing: []string{"v-5"}, want: "v-5-2"},
		{name: "gap is not filled", slug: "go", existing: []string{"go", "go-2", "go-4"}, want: "go-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Uniquify(tt.slug, Set(tt.existing))
			if got != tt.want {
				t.Errorf("Uniquify(%q, %v) = %q, want %q", tt.slug, tt.existing, got, tt.want)
			}
		})
	}
}

func TestAllocate(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		existing []string
		want     string
	}{
		{name: "collides three times", title: "Go", existing: []string{"go", "go-2", "go-3"}, want: "go-4"},
		{name: "hash reads as s", title: "C#", existing: nil, want: "cs"},
		{name: "hash collision", title: "F#", existing: []string{"fs"}, want: "fs-2"},
		{name: "truncated to taxonomy limit", title: "Distributed Systems Engineering", existing: nil, want: "distributed-systems-engi"},
		{name: "deterministic", title: "Web Development", existing: []string{"web"}, want: "web-development"},
		{name: "suffix past the limit", title: "Programming Languages 24", existing: []string{"programming-languages-24"}, want: "programming-languages-24-2"},
		{name: "transliteration past the limit", title: "Straße Straße Straße Str", existing: nil, want: "strasse-strasse-strasse-str"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Allocate(tt.title, 24, tt.existing)
			if got != tt.want {
				t.Errorf("Allocate(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

// TestAllocate_EmptyTitle verifies the random fallback for titles that fold
// to nothing.
func TestAllocate_EmptyTitle(t *testing.T) {
	seen := make(map[string]bool)
	for _, title := range []string{"", "!!!", "日本語", ""} {
		got := Allocate(title, 24, nil)
		if len(got) != RandomLen {
			t.Fatalf("Allocate(%q) = %q, want %d characters", title, got, RandomLen)
		}
		if strings.Trim(got, randomAlphabet) != "" {
			t.Errorf("Allocate(%q) = %q, want lowercase alphanumeric", title, got)
		}
		seen[got] = true
	}
	if len(seen) < 2 {
		t.Errorf("expected distinct random slugs, got %v", seen)
	}
}
