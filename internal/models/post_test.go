package models

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"quillpress/internal/apperr"
)

// TestPostIsPublished verifies that IsPublished returns true only for the
// "published" status.
func TestPostIsPublished(t *testing.T) {
	tests := []struct {
		name   string
		status PostStatus
		want   bool
	}{
		{name: "published", status: PostStatusPublished, want: true},
		{name: "draft", status: PostStatusDraft, want: false},
		{name: "empty status", status: PostStatus(""), want: false},
		{name: "uppercase PUBLISHED", status: PostStatus("PUBLISHED"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Post{Status: tt.status}
			if got := p.IsPublished(); got != tt.want {
				t.Errorf("Post{Status: %q}.IsPublished() = %v, want %v",
					tt.status, got, tt.want)
			}
		})
	}
}

func TestPostValidate(t *testing.T) {
	catID := uuid.New()
	parentID := uuid.New()
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	long := strings.Repeat("a", MaxSlugLen+1)

	published := func(p *Post) *Post {
		p.Status = PostStatusPublished
		p.CreatedOn = now
		return p
	}

	tests := []struct {
		name    string
		post    *Post
		wantErr bool
	}{
		{name: "draft blog post", post: NewBlogPost("Hello", "<p>x</p>", &catID, nil)},
		{name: "published blog post", post: published(NewBlogPost("Hello", "", &catID, []Tag{{Title: "go"}}))},
		{name: "page with parent", post: NewPage("About", "", &parentID)},
		{
			name:    "blog post with parent",
			post:    &Post{Kind: PostKindBlogPost, Status: PostStatusDraft, ParentID: &parentID},
			wantErr: true,
		},
		{
			name:    "page with category",
			post:    &Post{Kind: PostKindPage, Status: PostStatusDraft, CategoryID: &catID},
			wantErr: true,
		},
		{
			name:    "page with tags",
			post:    &Post{Kind: PostKindPage, Status: PostStatusDraft, Tags: []Tag{{Title: "go"}}},
			wantErr: true,
		},
		{
			name:    "published without date",
			post:    &Post{Kind: PostKindBlogPost, Status: PostStatusPublished},
			wantErr: true,
		},
		{
			name:    "slug too long",
			post:    &Post{Kind: PostKindBlogPost, Status: PostStatusDraft, Slug: &long},
			wantErr: true,
		},
		{name: "unknown kind", post: &Post{Kind: "note", Status: PostStatusDraft}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.post.Validate()
			if tt.wantErr {
				if !apperr.Is(err, apperr.Validation) {
					t.Errorf("Validate() = %v, want validation error", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestPostSlugValue(t *testing.T) {
	p := &Post{}
	if p.SlugValue() != "" {
		t.Errorf("SlugValue() of nil slug = %q, want empty", p.SlugValue())
	}
	s := "hello-world"
	p.Slug = &s
	if p.SlugValue() != s {
		t.Errorf("SlugValue() = %q, want %q", p.SlugValue(), s)
	}
}
