// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"quillpress/internal/apperr"
)

// PostKind distinguishes blog posts from pages in the unified posts table.
type PostKind string

const (
	PostKindBlogPost PostKind = "blog_post"
	PostKindPage     PostKind = "page"
)

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// MaxSlugLen is the longest slug a post may carry.
const MaxSlugLen = 256

// Post is a blog post or a page. Both kinds share one record; the Kind field
// decides which of the optional relations are allowed.
type Post struct {
	ID         uuid.UUID  `json:"id"`
	Kind       PostKind   `json:"kind"`
	Status     PostStatus `json:"status"`
	Title      string     `json:"title"`
	Slug       *string    `json:"slug,omitempty"`
	Body       string     `json:"body"`
	BodyMark   *string    `json:"body_mark,omitempty"`
	Excerpt    *string    `json:"excerpt,omitempty"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	ParentID   *uuid.UUID `json:"parent_id,omitempty"`
	CreatedOn  time.Time  `json:"created_on"`
	// UpdatedOn records when a draft was last saved. Nil once published.
	UpdatedOn *time.Time `json:"updated_on,omitempty"`
	ViewCount int        `json:"view_count"`

	// Relations populated by store list methods.
	Category *Category `json:"category,omitempty"`
	Tags     []Tag     `json:"tags,omitempty"`
}

// NewBlogPost builds a blog post. Status defaults to draft.
func NewBlogPost(title, body string, categoryID *uuid.UUID, tags []Tag) *Post {
	return &Post{
		Kind:       PostKindBlogPost,
		Status:     PostStatusDraft,
		Title:      title,
		Body:       body,
		CategoryID: categoryID,
		Tags:       tags,
	}
}

// NewPage builds a page. Pages never carry a category or tags.
func NewPage(title, body string, parentID *uuid.UUID) *Post {
	return &Post{
		Kind:     PostKindPage,
		Status:   PostStatusDraft,
		Title:    title,
		Body:     body,
		ParentID: parentID,
	}
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// IsPage returns true for page kind.
func (p *Post) IsPage() bool {
	return p.Kind == PostKindPage
}

// SlugValue returns the slug or "" when unset.
func (p *Post) SlugValue() string {
	if p.Slug == nil {
		return ""
	}
	return *p.Slug
}

// Validate checks the kind-specific invariants.
func (p *Post) Validate() error {
	switch p.Kind {
	case PostKindBlogPost:
		if p.ParentID != nil {
			return apperr.Validationf("a blog post cannot have a parent")
		}
	case PostKindPage:
		if p.CategoryID != nil || len(p.Tags) > 0 {
			return apperr.Validationf("a page cannot have a category or tags")
		}
	default:
		return apperr.Validationf("unknown post kind %q", p.Kind)
	}

	switch p.Status {
	case PostStatusPublished:
		if p.CreatedOn.IsZero() {
			return apperr.Validationf("a published post must have a post date")
		}
	case PostStatusDraft:
	default:
		return apperr.Validationf("unknown post status %q", p.Status)
	}

	if p.Slug != nil && utf8.RuneCountInString(*p.Slug) > MaxSlugLen {
		return apperr.Validationf("slug is too long (max %d characters)", MaxSlugLen)
	}
	return nil
}
