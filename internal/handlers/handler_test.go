// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests:
// an in-memory fake of the content service for unit tests and a PostgreSQL
// connection for the end-to-end test, which is skipped when the database is
// unavailable.
package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"quillpress/internal/apperr"
	"quillpress/internal/cache"
	"quillpress/internal/content"
	"quillpress/internal/database"
	"quillpress/internal/models"
	"quillpress/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "quillpress")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "quillpress")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// withChiURLParams adds chi URL params to a request, given as key/value pairs.
func withChiURLParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeBody decodes a recorder's JSON body into dst.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

// errorMessage returns the "error" field of a JSON error response.
func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decodeBody(t, rec, &body)
	return body["error"]
}

// fakeBlog implements Reader and Editor in memory. When err is set, every
// call returns it. The last arguments of each call are recorded.
type fakeBlog struct {
	err error

	posts    []models.Post
	cats     []models.Category
	tags     []models.Tag
	archives []models.ArchiveMonth
	stats    cache.Stats

	// recorded arguments
	page, size  int
	cacheable   bool
	slug        string
	year, month int
	day         int
	children    bool
	recentN     int
	input       content.PostInput
	updatedCat  models.Category
	updatedTag  models.Tag
	deletedID   uuid.UUID
	defaultID   uuid.UUID
	flushed     bool
}

func (f *fakeBlog) list() (content.PostList, error) {
	if f.err != nil {
		return content.PostList{}, f.err
	}
	return content.PostList{Posts: f.posts, TotalCount: len(f.posts)}, nil
}

func (f *fakeBlog) GetPosts(_ context.Context, pageIndex, pageSize int, cacheable bool) (content.PostList, error) {
	f.page, f.size, f.cacheable = pageIndex, pageSize, cacheable
	return f.list()
}

func (f *fakeBlog) GetPost(_ context.Context, postSlug string, year, month, day int) (*models.Post, error) {
	f.slug, f.year, f.month, f.day = postSlug, year, month, day
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.posts {
		if f.posts[i].SlugValue() == postSlug {
			return &f.posts[i], nil
		}
	}
	return nil, apperr.NotFoundf("post not found")
}

func (f *fakeBlog) GetPostsForCategory(_ context.Context, categorySlug string, pageIndex, pageSize int) (content.PostList, error) {
	f.slug, f.page, f.size = categorySlug, pageIndex, pageSize
	return f.list()
}

func (f *fakeBlog) GetPostsForTag(_ context.Context, tagSlug string, pageIndex, pageSize int) (content.PostList, error) {
	f.slug, f.page, f.size = tagSlug, pageIndex, pageSize
	return f.list()
}

func (f *fakeBlog) GetPostsForArchive(_ context.Context, year, month int) (content.PostList, error) {
	f.year, f.month = year, month
	return f.list()
}

func (f *fakeBlog) GetRecentPublishedPosts(_ context.Context, n int) (content.PostList, error) {
	f.recentN = n
	return f.list()
}

func (f *fakeBlog) GetPages(_ context.Context, withChildren bool) (content.PostList, error) {
	f.children = withChildren
	return f.list()
}

func (f *fakeBlog) GetCategories(context.Context) ([]models.Category, error) {
	return f.cats, f.err
}

func (f *fakeBlog) GetTags(context.Context) ([]models.Tag, error) {
	return f.tags, f.err
}

func (f *fakeBlog) GetArchives(context.Context) ([]models.ArchiveMonth, error) {
	return f.archives, f.err
}

func (f *fakeBlog) GetPostCount(context.Context) (int, error) {
	total := 0
	for _, a := range f.archives {
		total += a.Count
	}
	return total, f.err
}

func (f *fakeBlog) GetDrafts(context.Context) (content.PostList, error) {
	return f.list()
}

func (f *fakeBlog) GetRecentPosts(_ context.Context, n int) (content.PostList, error) {
	f.recentN = n
	return f.list()
}

func (f *fakeBlog) GetPostByID(_ context.Context, id uuid.UUID) (*models.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.posts {
		if f.posts[i].ID == id {
			return &f.posts[i], nil
		}
	}
	return nil, apperr.NotFoundf("post not found")
}

func (f *fakeBlog) CreatePost(_ context.Context, in content.PostInput) (*models.Post, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &models.Post{ID: uuid.New(), Kind: models.PostKindBlogPost, Title: in.Title, Status: models.PostStatusDraft}, nil
}

func (f *fakeBlog) UpdatePost(ctx context.Context, id uuid.UUID, in content.PostInput) (*models.Post, error) {
	f.input = in
	p, err := f.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Title = in.Title
	return p, nil
}

func (f *fakeBlog) DeletePost(_ context.Context, id uuid.UUID) error {
	f.deletedID = id
	return f.err
}

func (f *fakeBlog) GetCategory(_ context.Context, id uuid.UUID) (*models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.cats {
		if f.cats[i].ID == id {
			return &f.cats[i], nil
		}
	}
	return nil, apperr.NotFoundf("category not found")
}

func (f *fakeBlog) CreateCategory(_ context.Context, title, description string) (*models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Category{ID: uuid.New(), Title: title, Slug: "created", Description: description}, nil
}

func (f *fakeBlog) UpdateCategory(_ context.Context, in models.Category) (*models.Category, error) {
	f.updatedCat = in
	if f.err != nil {
		return nil, f.err
	}
	return &in, nil
}

func (f *fakeBlog) DeleteCategory(_ context.Context, id uuid.UUID) error {
	f.deletedID = id
	return f.err
}

func (f *fakeBlog) SetDefaultCategory(_ context.Context, id uuid.UUID) error {
	f.defaultID = id
	return f.err
}

func (f *fakeBlog) GetTag(_ context.Context, id uuid.UUID) (*models.Tag, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.tags {
		if f.tags[i].ID == id {
			return &f.tags[i], nil
		}
	}
	return nil, apperr.NotFoundf("tag not found")
}

func (f *fakeBlog) CreateTag(_ context.Context, title, description string) (*models.Tag, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Tag{ID: uuid.New(), Title: title, Slug: "created", Description: description}, nil
}

func (f *fakeBlog) UpdateTag(_ context.Context, in models.Tag) (*models.Tag, error) {
	f.updatedTag = in
	if f.err != nil {
		return nil, f.err
	}
	return &in, nil
}

func (f *fakeBlog) DeleteTag(_ context.Context, id uuid.UUID) error {
	f.deletedID = id
	return f.err
}

func (f *fakeBlog) CacheStats() cache.Stats { return f.stats }

func (f *fakeBlog) FlushCache(context.Context) { f.flushed = true }

// fakeCacheLog returns fixed invalidation entries.
type fakeCacheLog struct {
	entries []store.CacheLogEntry
	err     error
	limit   int
}

func (f *fakeCacheLog) RecentEntries(_ context.Context, limit int) ([]store.CacheLogEntry, error) {
	f.limit = limit
	return f.entries, f.err
}

func ptr[T any](v T) *T { return &v }
