// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"quillpress/internal/content"
	"quillpress/internal/models"
)

// maxPageSize bounds the ?size= query parameter.
const maxPageSize = 100

// Reader is the read side of the content service used by the public API.
type Reader interface {
	GetPosts(ctx context.Context, pageIndex, pageSize int, cacheable bool) (content.PostList, error)
	GetPost(ctx context.Context, postSlug string, year, month, day int) (*models.Post, error)
	GetPostsForCategory(ctx context.Context, categorySlug string, pageIndex, pageSize int) (content.PostList, error)
	GetPostsForTag(ctx context.Context, tagSlug string, pageIndex, pageSize int) (content.PostList, error)
	GetPostsForArchive(ctx context.Context, year, month int) (content.PostList, error)
	GetRecentPublishedPosts(ctx context.Context, n int) (content.PostList, error)
	GetCategories(ctx context.Context) ([]models.Category, error)
	GetTags(ctx context.Context) ([]models.Tag, error)
	GetArchives(ctx context.Context) ([]models.ArchiveMonth, error)
	GetPostCount(ctx context.Context) (int, error)
}

// Public groups the read-only JSON endpoints. Every read goes through the
// content service, which owns caching and image rewriting.
type Public struct {
	blog Reader
}

// NewPublic creates a new Public handler group.
func NewPublic(blog Reader) *Public {
	return &Public{blog: blog}
}

// postPage is one page of a listing together with the paging it was asked
// for. PageSize is 0 when the default size applied.
type postPage struct {
	content.PostList
	Page     int `json:"page"`
	PageSize int `json:"page_size,omitempty"`
}

// archivesResponse is the archive index plus the total it sums to.
type archivesResponse struct {
	Archives  []models.ArchiveMonth `json:"archives"`
	PostCount int                   `json:"post_count"`
}

// paging reads ?page= and ?size=. Both are optional.
func paging(w http.ResponseWriter, r *http.Request) (page, size int, ok bool) {
	if page, ok = queryInt(w, r, "page", 1, 1, 1<<20); !ok {
		return 0, 0, false
	}
	if size, ok = queryInt(w, r, "size", 0, 1, maxPageSize); !ok {
		return 0, 0, false
	}
	return page, size, true
}

// Posts serves GET /api/posts, the published blog index. Only the first
// page at the site's page size is cached.
func (p *Public) Posts(w http.ResponseWriter, r *http.Request) {
	page, size, ok := paging(w, r)
	if !ok {
		return
	}

	list, err := p.blog.GetPosts(r.Context(), page, size, true)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, postPage{PostList: list, Page: page, PageSize: size})
}

// RecentPosts serves GET /api/posts/recent?n=, the latest published posts
// for feeds and sidebars.
func (p *Public) RecentPosts(w http.ResponseWriter, r *http.Request) {
	n, ok := queryInt(w, r, "n", defaultRecent, 1, maxPageSize)
	if !ok {
		return
	}

	list, err := p.blog.GetRecentPublishedPosts(r.Context(), n)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Post serves GET /api/posts/{year}/{month}/{day}/{slug}.
func (p *Public) Post(w http.ResponseWriter, r *http.Request) {
	year, ok := intParam(w, r, "year", 1, 9999)
	if !ok {
		return
	}
	month, ok := intParam(w, r, "month", 1, 12)
	if !ok {
		return
	}
	day, ok := intParam(w, r, "day", 1, 31)
	if !ok {
		return
	}

	post, err := p.blog.GetPost(r.Context(), chi.URLParam(r, "slug"), year, month, day)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Categories serves GET /api/categories with published post counts.
func (p *Public) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := p.blog.GetCategories(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// CategoryPosts serves GET /api/categories/{slug}/posts.
func (p *Public) CategoryPosts(w http.ResponseWriter, r *http.Request) {
	page, size, ok := paging(w, r)
	if !ok {
		return
	}

	list, err := p.blog.GetPostsForCategory(r.Context(), chi.URLParam(r, "slug"), page, size)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, postPage{PostList: list, Page: page, PageSize: size})
}

// Tags serves GET /api/tags with published post counts.
func (p *Public) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := p.blog.GetTags(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// TagPosts serves GET /api/tags/{slug}/posts.
func (p *Public) TagPosts(w http.ResponseWriter, r *http.Request) {
	page, size, ok := paging(w, r)
	if !ok {
		return
	}

	list, err := p.blog.GetPostsForTag(r.Context(), chi.URLParam(r, "slug"), page, size)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, postPage{PostList: list, Page: page, PageSize: size})
}

// Archives serves GET /api/archives: post counts per month, newest first.
func (p *Public) Archives(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	months, err := p.blog.GetArchives(ctx)
	if err != nil {
		respondError(w, r, err)
		return
	}
	total, err := p.blog.GetPostCount(ctx)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, archivesResponse{Archives: months, PostCount: total})
}

// ArchivePosts serves GET /api/archives/{year} and /api/archives/{year}/{month}.
// The whole period is returned unpaged.
func (p *Public) ArchivePosts(w http.ResponseWriter, r *http.Request) {
	year, ok := intParam(w, r, "year", 1, 9999)
	if !ok {
		return
	}
	month := 0
	if chi.URLParam(r, "month") != "" {
		if month, ok = intParam(w, r, "month", 1, 12); !ok {
			return
		}
	}

	list, err := p.blog.GetPostsForArchive(r.Context(), year, month)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
