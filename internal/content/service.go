// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content is the blog's service layer. It serves post, category and
// tag reads through the listing planner and the read cache, rewrites post
// bodies for responsive images, and keeps the cache coherent on writes.
package content

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"quillpress/internal/cache"
	"quillpress/internal/listing"
	"quillpress/internal/models"
)

// PostRepository is the post store. Single-row lookups return (nil, nil)
// when nothing matches.
type PostRepository interface {
	listing.PostLister
	FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	// FindBySlug returns the published blog post with slug posted on the
	// given day (UTC).
	FindBySlug(ctx context.Context, slug string, year, month, day int) (*models.Post, error)
	// ExistingSlugs returns the slugs of posts of kind, restricted to posts
	// dated on day when day is non-nil, excluding the post excludeID.
	ExistingSlugs(ctx context.Context, kind models.PostKind, day *time.Time, excludeID uuid.UUID) ([]string, error)
	Create(ctx context.Context, p *models.Post) error
	Update(ctx context.Context, p *models.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	ArchiveCounts(ctx context.Context) ([]models.ArchiveMonth, error)
	CountPublished(ctx context.Context) (int, error)
}

// CategoryRepository is the category store. List fills Count.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, c *models.Category) error
	// Delete removes the category and moves its posts to reassignTo.
	Delete(ctx context.Context, id, reassignTo uuid.UUID) error
}

// TagRepository is the tag store. List fills Count.
type TagRepository interface {
	List(ctx context.Context) ([]models.Tag, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Tag, error)
	Create(ctx context.Context, t *models.Tag) error
	Update(ctx context.Context, t *models.Tag) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SettingsProvider loads and saves the blog settings section.
type SettingsProvider interface {
	BlogSettings(ctx context.Context) (models.BlogSettings, error)
	SaveBlogSettings(ctx context.Context, s models.BlogSettings) error
}

// Rewriter post-processes a rendered body. It never fails; on internal
// errors it returns the body unchanged.
type Rewriter interface {
	Rewrite(ctx context.Context, body string) string
}

// InvalidationLog records which write caused a cache invalidation.
type InvalidationLog interface {
	Log(ctx context.Context, entityType string, entityID uuid.UUID, action string)
}

// Service orchestrates blog reads and writes.
type Service struct {
	posts    PostRepository
	cats     CategoryRepository
	tags     TagRepository
	settings SettingsProvider
	cache    *cache.Aside
	rewriter Rewriter
	planner  *listing.Planner
	audit    InvalidationLog
	now      func() time.Time
}

// NewService creates the content service. aside and rewriter may be nil, in
// which case reads are not cached and bodies are returned as stored.
func NewService(posts PostRepository, cats CategoryRepository, tags TagRepository,
	settings SettingsProvider, aside *cache.Aside, rewriter Rewriter) *Service {
	s := &Service{
		posts:    posts,
		cats:     cats,
		tags:     tags,
		settings: settings,
		cache:    aside,
		rewriter: rewriter,
		now:      time.Now,
	}
	s.planner = listing.NewPlanner(taxonomyResolver{s}, posts)
	return s
}

// SetInvalidationLog makes every write record its invalidation in l.
func (s *Service) SetInvalidationLog(l InvalidationLog) {
	s.audit = l
}

// CacheStats returns the read cache counters.
func (s *Service) CacheStats() cache.Stats {
	if s.cache == nil {
		return cache.Stats{}
	}
	return s.cache.Stats()
}

// FlushCache drops every cached read.
func (s *Service) FlushCache(ctx context.Context) {
	s.cache.Flush(ctx)
}

// blogSettings returns the cached blog settings.
func (s *Service) blogSettings(ctx context.Context) (models.BlogSettings, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.KeySettings, s.cache.TTL(cache.KeySettings),
		s.settings.BlogSettings)
}

// invalidate clears the listing keys plus any extra keys after a write to
// entity id.
func (s *Service) invalidate(ctx context.Context, entity string, id uuid.UUID, action string, extra ...string) {
	s.cache.Invalidate(ctx, append(cache.ListingKeys(), extra...)...)
	if s.audit != nil {
		s.audit.Log(ctx, entity, id, action)
	}
}

// sameTitle compares titles under Unicode case folding.
func sameTitle(a, b string) bool {
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}

// taxonomyResolver lets the planner resolve slugs through the cached
// category and tag lists.
type taxonomyResolver struct {
	s *Service
}

func (r taxonomyResolver) CategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	c, err := r.s.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return c, nil
}

func (r taxonomyResolver) TagBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	t, err := r.s.GetTagBySlug(ctx, slug)
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return t, nil
}
