// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON HTTP handlers for the quillpress blog.
// Handlers are grouped by audience (public, admin) and receive their
// dependencies through the handler struct.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"quillpress/internal/cache"
	"quillpress/internal/content"
	"quillpress/internal/models"
	"quillpress/internal/store"
)

// defaultRecent is the number of posts GET /api/admin/posts/recent returns
// without ?n=.
const defaultRecent = 10

// cacheLogLimit is the number of invalidation entries shown with cache stats.
const cacheLogLimit = 50

// Editor is the write side of the content service used by the admin API.
type Editor interface {
	GetDrafts(ctx context.Context) (content.PostList, error)
	GetRecentPosts(ctx context.Context, n int) (content.PostList, error)
	GetPages(ctx context.Context, withChildren bool) (content.PostList, error)
	GetPostByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	CreatePost(ctx context.Context, in content.PostInput) (*models.Post, error)
	UpdatePost(ctx context.Context, id uuid.UUID, in content.PostInput) (*models.Post, error)
	DeletePost(ctx context.Context, id uuid.UUID) error

	GetCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	CreateCategory(ctx context.Context, title, description string) (*models.Category, error)
	UpdateCategory(ctx context.Context, in models.Category) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	SetDefaultCategory(ctx context.Context, id uuid.UUID) error

	GetTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uuid.UUID) (*models.Tag, error)
	CreateTag(ctx context.Context, title, description string) (*models.Tag, error)
	UpdateTag(ctx context.Context, in models.Tag) (*models.Tag, error)
	DeleteTag(ctx context.Context, id uuid.UUID) error

	CacheStats() cache.Stats
	FlushCache(ctx context.Context)
}

// CacheLog lists recent cache invalidations.
type CacheLog interface {
	RecentEntries(ctx context.Context, limit int) ([]store.CacheLogEntry, error)
}

// Admin groups the authenticated JSON endpoints.
type Admin struct {
	blog     Editor
	cacheLog CacheLog
}

// NewAdmin creates a new Admin handler group. cacheLog may be nil, in which
// case cache stats are returned without the invalidation history.
func NewAdmin(blog Editor, cacheLog CacheLog) *Admin {
	return &Admin{blog: blog, cacheLog: cacheLog}
}

// taxonomyRequest is the body of category and tag create/update calls.
type taxonomyRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// cacheResponse is the body of GET /api/admin/cache.
type cacheResponse struct {
	Stats         cache.Stats           `json:"stats"`
	Invalidations []store.CacheLogEntry `json:"invalidations,omitempty"`
}

// --- Posts ---

// Drafts lists every draft, most recently saved first.
func (a *Admin) Drafts(w http.ResponseWriter, r *http.Request) {
	list, err := a.blog.GetDrafts(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Recent lists the latest ?n= blog posts regardless of status.
func (a *Admin) Recent(w http.ResponseWriter, r *http.Request) {
	n, ok := queryInt(w, r, "n", defaultRecent, 1, maxPageSize)
	if !ok {
		return
	}

	list, err := a.blog.GetRecentPosts(r.Context(), n)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Pages lists pages of any status. Top-level pages only unless
// ?children=true.
func (a *Admin) Pages(w http.ResponseWriter, r *http.Request) {
	withChildren := r.URL.Query().Get("children") == "true"

	list, err := a.blog.GetPages(r.Context(), withChildren)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// PostGet returns one post of any kind and status.
func (a *Admin) PostGet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	post, err := a.blog.GetPostByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// PostCreate stores a new post.
func (a *Admin) PostCreate(w http.ResponseWriter, r *http.Request) {
	var in content.PostInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if msg := validatePost(in); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	post, err := a.blog.CreatePost(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// PostUpdate replaces the editable fields of a post.
func (a *Admin) PostUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in content.PostInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if msg := validatePost(in); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	post, err := a.blog.UpdatePost(r.Context(), id, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// PostDelete removes a post.
func (a *Admin) PostDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := a.blog.DeletePost(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Categories ---

// CategoriesList lists every category with its published post count.
func (a *Admin) CategoriesList(w http.ResponseWriter, r *http.Request) {
	cats, err := a.blog.GetCategories(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// CategoryGet returns one category.
func (a *Admin) CategoryGet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	cat, err := a.blog.GetCategory(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

// CategoryCreate adds a category. The slug is derived from the title.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var req taxonomyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateTaxonomy(req.Title, req.Description); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	cat, err := a.blog.CreateCategory(r.Context(), req.Title, req.Description)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, cat)
}

// CategoryUpdate renames a category.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req taxonomyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateTaxonomy(req.Title, req.Description); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	cat, err := a.blog.UpdateCategory(r.Context(), models.Category{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

// CategoryDelete removes a category, moving its posts to the default one.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := a.blog.DeleteCategory(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CategorySetDefault makes a category the one new posts fall back to.
func (a *Admin) CategorySetDefault(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := a.blog.SetDefaultCategory(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	slog.Info("default category changed", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// --- Tags ---

// TagsList lists every tag with its published post count.
func (a *Admin) TagsList(w http.ResponseWriter, r *http.Request) {
	tags, err := a.blog.GetTags(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// TagGet returns one tag.
func (a *Admin) TagGet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	tag, err := a.blog.GetTag(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

// TagCreate adds a tag.
func (a *Admin) TagCreate(w http.ResponseWriter, r *http.Request) {
	var req taxonomyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateTaxonomy(req.Title, req.Description); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	tag, err := a.blog.CreateTag(r.Context(), req.Title, req.Description)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

// TagUpdate renames a tag.
func (a *Admin) TagUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req taxonomyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateTaxonomy(req.Title, req.Description); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	tag, err := a.blog.UpdateTag(r.Context(), models.Tag{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

// TagDelete removes a tag and its post links.
func (a *Admin) TagDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := a.blog.DeleteTag(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Cache ---

// CacheStatus reports the read cache counters and the latest invalidations.
func (a *Admin) CacheStatus(w http.ResponseWriter, r *http.Request) {
	resp := cacheResponse{Stats: a.blog.CacheStats()}
	if a.cacheLog != nil {
		entries, err := a.cacheLog.RecentEntries(r.Context(), cacheLogLimit)
		if err != nil {
			respondError(w, r, err)
			return
		}
		resp.Invalidations = entries
	}
	writeJSON(w, http.StatusOK, resp)
}

// CacheFlush drops every cached read.
func (a *Admin) CacheFlush(w http.ResponseWriter, r *http.Request) {
	a.blog.FlushCache(r.Context())
	slog.Info("read cache flushed")
	w.WriteHeader(http.StatusNoContent)
}
