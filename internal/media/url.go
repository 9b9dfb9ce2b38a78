// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package media builds storage URLs for uploaded images and rewrites post
// bodies so that embedded images carry responsive srcset markup.
package media

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"quillpress/internal/models"
)

// Size is one of the stored renditions of an image.
type Size int

const (
	SizeOriginal Size = iota
	SizeSmall
	SizeMedium
	SizeMediumLarge
	SizeLarge
)

// Widths of the resized renditions, in pixels.
const (
	SmallWidth       = 600
	MediumWidth      = 1200
	MediumLargeWidth = 1800
	LargeWidth       = 2400
)

// appFolder is the top-level storage folder of blog uploads.
const appFolder = "blog"

var sizeFolders = map[Size]string{
	SizeSmall:       "sm",
	SizeMedium:      "md",
	SizeMediumLarge: "ml",
	SizeLarge:       "lg",
}

// Folder returns the storage subfolder of the size, "" for the original.
func (s Size) Folder() string {
	return sizeFolders[s]
}

// generated reports whether a rendition of this size exists for an image
// with the given number of resize tiers. Sizes are produced smallest first.
func (s Size) generated(tiers int) bool {
	return s != SizeOriginal && int(s) <= tiers
}

// URLBuilder produces absolute URLs of stored media.
type URLBuilder struct {
	// Endpoint is the storage origin, e.g. "https://cdn.example.com".
	Endpoint string
	// Container is the bucket or folder holding all media, e.g. "media".
	Container string
}

// Base returns "{endpoint}/{container}" without a trailing slash.
func (b URLBuilder) Base() string {
	return strings.TrimSuffix(b.Endpoint, "/") + "/" + strings.Trim(b.Container, "/")
}

// ImagePath returns "blog/{yyyy}/{mm}" or "blog/{yyyy}/{mm}/{size}".
func ImagePath(uploadedOn time.Time, size Size) string {
	t := uploadedOn.UTC()
	p := fmt.Sprintf("%s/%d/%02d", appFolder, t.Year(), int(t.Month()))
	if f := size.Folder(); f != "" {
		p += "/" + f
	}
	return p
}

// URL returns the absolute URL of m at the requested size. Sizes that were
// not generated for m fall back to the original.
func (b URLBuilder) URL(m *models.Media, size Size) string {
	if !size.generated(m.Tiers()) {
		size = SizeOriginal
	}
	return b.Base() + "/" + ImagePath(m.UploadedOn, size) + "/" + m.Filename
}

// MediaRef identifies an upload by the parts encoded in its storage path.
type MediaRef struct {
	Filename string
	Year     int
	Month    int
}

// ParseSrc recovers the upload reference from an image src pointing into
// this site's storage. It accepts absolute URLs under Base() and
// root-relative paths starting with "/{container}/blog/". Anything else,
// including images on foreign hosts, is rejected.
func (b URLBuilder) ParseSrc(src string) (MediaRef, bool) {
	if i := strings.IndexAny(src, "?#"); i >= 0 {
		src = src[:i]
	}

	var rest string
	absPrefix := b.Base() + "/" + appFolder + "/"
	relPrefix := "/" + strings.Trim(b.Container, "/") + "/" + appFolder + "/"
	switch {
	case b.Endpoint != "" && strings.HasPrefix(src, absPrefix):
		rest = src[len(absPrefix):]
	case strings.HasPrefix(src, relPrefix):
		rest = src[len(relPrefix):]
	default:
		return MediaRef{}, false
	}

	parts := strings.Split(rest, "/")
	switch len(parts) {
	case 3:
	case 4:
		if !isSizeFolder(parts[2]) {
			return MediaRef{}, false
		}
	default:
		return MediaRef{}, false
	}

	if len(parts[0]) != 4 || len(parts[1]) != 2 {
		return MediaRef{}, false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 1 {
		return MediaRef{}, false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return MediaRef{}, false
	}
	filename := parts[len(parts)-1]
	if filename == "" {
		return MediaRef{}, false
	}
	return MediaRef{Filename: filename, Year: year, Month: month}, true
}

func isSizeFolder(s string) bool {
	for _, f := range sizeFolders {
		if f == s {
			return true
		}
	}
	return false
}
