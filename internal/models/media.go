// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxResizeCount is the number of smaller variants the uploader can produce
// (sm, md, ml, lg).
const MaxResizeCount = 4

// Media represents an uploaded file. Images are stored under
// blog/{year}/{month}/ with resized copies in size subfolders.
type Media struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	// ResizeCount is how many smaller variants were generated at upload.
	ResizeCount int       `json:"resize_count"`
	Alt         *string   `json:"alt,omitempty"`
	UploadedOn  time.Time `json:"uploaded_on"`
}

// IsImage returns true if the media item is an image type.
func (m *Media) IsImage() bool {
	return strings.HasPrefix(m.ContentType, "image/")
}

// Tiers returns ResizeCount clamped to [0, MaxResizeCount].
func (m *Media) Tiers() int {
	switch {
	case m.ResizeCount < 0:
		return 0
	case m.ResizeCount > MaxResizeCount:
		return MaxResizeCount
	default:
		return m.ResizeCount
	}
}
