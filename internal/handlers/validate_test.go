package handlers

import (
	"strings"
	"testing"

	"quillpress/internal/content"
)

func TestValidatePost(t *testing.T) {
	tests := []struct {
		name      string
		in        content.PostInput
		wantError bool
	}{
		{"valid", content.PostInput{Title: "My Title", Slug: "my-title", Body: "Body text"}, false},
		{"empty title", content.PostInput{Body: "body"}, true},
		{"whitespace title", content.PostInput{Title: "   "}, true},
		{"title too long", content.PostInput{Title: strings.Repeat("a", 301)}, true},
		{"slug too long", content.PostInput{Title: "t", Slug: strings.Repeat("a", 257)}, true},
		{"slug at limit", content.PostInput{Title: "t", Slug: strings.Repeat("a", 256)}, false},
		{"body too long", content.PostInput{Title: "t", Body: strings.Repeat("a", 500_001)}, true},
		{"markdown too long", content.PostInput{Title: "t", BodyMark: strings.Repeat("a", 500_001)}, true},
		{"excerpt too long", content.PostInput{Title: "t", Excerpt: strings.Repeat("a", 1001)}, true},
		{"too many tags", content.PostInput{Title: "t", TagTitles: make([]string, 51)}, true},
		{"unknown kind", content.PostInput{Title: "t", Kind: "note"}, true},
		{"page kind", content.PostInput{Title: "t", Kind: "page"}, false},
		{"unknown status", content.PostInput{Title: "t", Status: "archived"}, true},
		{"empty body allowed", content.PostInput{Title: "t"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validatePost(tt.in)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

func TestValidateTaxonomy(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		wantError   bool
	}{
		{"valid", "Go", "All things Go", false},
		{"empty description", "Go", "", false},
		{"empty title", "", "desc", true},
		{"whitespace title", "  ", "", true},
		{"title too long", strings.Repeat("a", 301), "", true},
		{"description too long", "Go", strings.Repeat("a", 1001), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateTaxonomy(tt.title, tt.description)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}
