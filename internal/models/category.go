// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"github.com/google/uuid"
)

// Taxonomy title and slug limits shared by categories and tags.
const (
	TaxonomyTitleMaxLen = 24
	TaxonomySlugMaxLen  = 24
)

// Category groups blog posts. A blog post has exactly one category.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`

	// Virtual field populated by store list methods.
	Count int `json:"count"`
}

// Tag labels blog posts. A blog post has any number of tags.
type Tag struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`

	// Count is the number of published posts carrying the tag, recomputed
	// on every full listing.
	Count int `json:"count"`
}
