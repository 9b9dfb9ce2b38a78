package handlers

import (
	"strings"
	"unicode/utf8"

	"quillpress/internal/content"
	"quillpress/internal/models"
)

// Validation limits for admin request fields. The content service applies
// the domain rules; these only reject oversized input early.
const (
	maxTitleLen         = 300
	maxBodyLen          = 500_000
	maxExcerptLen       = 1_000
	maxTagsPerPost      = 50
	maxTaxonomyTitleLen = 300
	maxDescriptionLen   = 1_000
)

// validatePost checks post request inputs and returns the first error found.
func validatePost(in content.PostInput) string {
	if strings.TrimSpace(in.Title) == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(in.Title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(in.Slug) > models.MaxSlugLen {
		return "Slug is too long (max 256 characters)."
	}
	if utf8.RuneCountInString(in.Body) > maxBodyLen || utf8.RuneCountInString(in.BodyMark) > maxBodyLen {
		return "Body is too long (max 500,000 characters)."
	}
	if utf8.RuneCountInString(in.Excerpt) > maxExcerptLen {
		return "Excerpt is too long (max 1,000 characters)."
	}
	if len(in.TagTitles) > maxTagsPerPost {
		return "Too many tags (max 50)."
	}
	switch in.Kind {
	case "", models.PostKindBlogPost, models.PostKindPage:
	default:
		return "Kind must be blog_post or page."
	}
	switch in.Status {
	case "", models.PostStatusDraft, models.PostStatusPublished:
	default:
		return "Status must be draft or published."
	}
	return ""
}

// validateTaxonomy checks category and tag request inputs.
func validateTaxonomy(title, description string) string {
	if strings.TrimSpace(title) == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTaxonomyTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "Description is too long (max 1,000 characters)."
	}
	return ""
}
