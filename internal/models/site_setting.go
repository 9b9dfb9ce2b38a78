// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "github.com/google/uuid"

// DefaultPostPerPage is used when settings carry no page size.
const DefaultPostPerPage = 10

// BlogSettings is stored as one JSON document under the "blog" key of the
// site_settings table.
type BlogSettings struct {
	// DefaultCategoryID receives posts without a category and posts of a
	// deleted category. It cannot itself be deleted.
	DefaultCategoryID uuid.UUID `json:"default_category_id"`
	PostPerPage       int       `json:"post_per_page"`
}

// SettingsKey implements store.Section.
func (BlogSettings) SettingsKey() string { return "blog" }

// PageSize returns PostPerPage or the default when unset.
func (s BlogSettings) PageSize() int {
	if s.PostPerPage <= 0 {
		return DefaultPostPerPage
	}
	return s.PostPerPage
}
