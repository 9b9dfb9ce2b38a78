package markup

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		contains []string
	}{
		{name: "heading with id", source: "# Hello World", contains: []string{`<h1 id="hello-world">Hello World</h1>`}},
		{name: "emphasis", source: "some *em* and **strong**", contains: []string{"<em>em</em>", "<strong>strong</strong>"}},
		{name: "gfm table", source: "| a | b |\n|---|---|\n| 1 | 2 |", contains: []string{"<table>", "<td>1</td>"}},
		{name: "strikethrough", source: "~~gone~~", contains: []string{"<del>gone</del>"}},
		{name: "raw html passes through", source: `<figure><img src="/media/blog/2024/03/pic.png"></figure>`, contains: []string{`<img src="/media/blog/2024/03/pic.png">`}},
		{name: "fenced code highlighted", source: "```go\nfunc main() {}\n```", contains: []string{"<pre", "main"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToHTML(tt.source)
			if err != nil {
				t.Fatalf("ToHTML: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("ToHTML(%q) = %q, missing %q", tt.source, got, want)
				}
			}
		})
	}
}

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text", input: "  Go Tips  ", want: "Go Tips"},
		{name: "inline tags", input: "<b>Go</b> <i>Tips</i>", want: "Go Tips"},
		{name: "entities decoded", input: "Tom &amp; Jerry", want: "Tom & Jerry"},
		{name: "script dropped", input: `News<script>alert("x")</script>`, want: "News"},
		{name: "style dropped", input: `<style>p{}</style>Body`, want: "Body"},
		{name: "paragraphs separated", input: "<p>one</p><p>two</p>", want: "one two"},
		{name: "empty", input: "", want: ""},
		{name: "only markup", input: "<br/><hr>", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanHTML(tt.input); got != tt.want {
				t.Errorf("CleanHTML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExcerpt(t *testing.T) {
	long := "<p>" + strings.Repeat("word ", 60) + "</p>"
	got := Excerpt(long, ExcerptWords)
	if !strings.HasSuffix(got, "…") {
		t.Errorf("long excerpt not marked as cut: %q", got)
	}
	if n := len(strings.Fields(strings.TrimSuffix(got, "…"))); n != ExcerptWords {
		t.Errorf("excerpt has %d words, want %d", n, ExcerptWords)
	}

	if got := Excerpt("<p>Short  <b>body</b>\n here.</p>", ExcerptWords); got != "Short body here." {
		t.Errorf("Excerpt(short) = %q", got)
	}
	if got := Excerpt("<p>x</p>", 0); got != "" {
		t.Errorf("Excerpt with zero words = %q, want empty", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{input: "Distributed Systems Engineering", n: 24, want: "Distributed Systems Engi"},
		{input: "Go", n: 24, want: "Go"},
		{input: "Crème brûlée", n: 5, want: "Crème"},
		{input: "abc", n: 0, want: ""},
	}

	for _, tt := range tests {
		if got := Truncate(tt.input, tt.n); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}
