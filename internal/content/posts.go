// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"quillpress/internal/apperr"
	"quillpress/internal/cache"
	"quillpress/internal/listing"
	"quillpress/internal/markup"
	"quillpress/internal/models"
	"quillpress/internal/slug"
)

// PostList is one page of posts ready to show.
type PostList = listing.Result

// --- Listings ---

// GetPosts returns a page of published blog posts. The first page at the
// configured page size is served from the cache when cacheable is set; admin
// screens and feeds pass false.
func (s *Service) GetPosts(ctx context.Context, pageIndex, pageSize int, cacheable bool) (PostList, error) {
	settings, err := s.blogSettings(ctx)
	if err != nil {
		return PostList{}, fmt.Errorf("loading blog settings: %w", err)
	}
	if pageIndex <= 0 {
		pageIndex = 1
	}
	if pageSize <= 0 {
		pageSize = settings.PageSize()
	}
	q := listing.BlogPosts{PageIndex: pageIndex, PageSize: pageSize}

	// The index key does not encode the page size, so only the site's own
	// page size may populate it.
	if pageIndex == 1 && cacheable && pageSize == settings.PageSize() {
		res, err := cache.GetOrCompute(ctx, s.cache, cache.KeyPostsIndex, s.cache.TTL(cache.KeyPostsIndex),
			func(ctx context.Context) (listing.Result, error) {
				return s.planner.Execute(ctx, q)
			})
		if err != nil {
			return PostList{}, err
		}
		return s.prepareList(ctx, res), nil
	}

	return s.query(ctx, q)
}

// GetPostsForCategory returns a page of published posts in a category.
func (s *Service) GetPostsForCategory(ctx context.Context, categorySlug string, pageIndex, pageSize int) (PostList, error) {
	pageSize, err := s.pageSize(ctx, pageSize)
	if err != nil {
		return PostList{}, err
	}
	return s.query(ctx, listing.BlogPostsByCategory{CategorySlug: categorySlug, PageIndex: pageIndex, PageSize: pageSize})
}

// GetPostsForTag returns a page of published posts carrying a tag.
func (s *Service) GetPostsForTag(ctx context.Context, tagSlug string, pageIndex, pageSize int) (PostList, error) {
	pageSize, err := s.pageSize(ctx, pageSize)
	if err != nil {
		return PostList{}, err
	}
	return s.query(ctx, listing.BlogPostsByTag{TagSlug: tagSlug, PageIndex: pageIndex, PageSize: pageSize})
}

// GetPostsForArchive returns every published post of a year, or of a month
// when month is 1-12.
func (s *Service) GetPostsForArchive(ctx context.Context, year, month int) (PostList, error) {
	return s.query(ctx, listing.BlogPostsArchive{Year: year, Month: month})
}

// GetDrafts returns every draft, most recently saved first.
func (s *Service) GetDrafts(ctx context.Context) (PostList, error) {
	return s.query(ctx, listing.BlogDrafts{})
}

// GetRecentPosts returns the latest n blog posts of any status.
func (s *Service) GetRecentPosts(ctx context.Context, n int) (PostList, error) {
	return s.query(ctx, listing.BlogPostsByNumber{N: n})
}

// GetRecentPublishedPosts returns the latest n published blog posts.
func (s *Service) GetRecentPublishedPosts(ctx context.Context, n int) (PostList, error) {
	return s.query(ctx, listing.BlogPublishedPostsByNumber{N: n})
}

// GetPages returns top-level pages, or every page when withChildren is set.
func (s *Service) GetPages(ctx context.Context, withChildren bool) (PostList, error) {
	if withChildren {
		return s.query(ctx, listing.PagesWithChildren{})
	}
	return s.query(ctx, listing.Pages{})
}

func (s *Service) query(ctx context.Context, q listing.Query) (PostList, error) {
	res, err := s.planner.Execute(ctx, q)
	if err != nil {
		return PostList{}, err
	}
	return s.prepareList(ctx, res), nil
}

func (s *Service) pageSize(ctx context.Context, size int) (int, error) {
	if size > 0 {
		return size, nil
	}
	settings, err := s.blogSettings(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading blog settings: %w", err)
	}
	return settings.PageSize(), nil
}

// --- Single post and aggregates ---

// GetPost returns the published blog post with slug dated year/month/day.
func (s *Service) GetPost(ctx context.Context, postSlug string, year, month, day int) (*models.Post, error) {
	key := cache.PostKey(postSlug, year, month, day)
	p, err := cache.GetOrCompute(ctx, s.cache, key, s.cache.TTL(cache.KeyPost),
		func(ctx context.Context) (models.Post, error) {
			p, err := s.posts.FindBySlug(ctx, postSlug, year, month, day)
			if err != nil {
				return models.Post{}, fmt.Errorf("finding post: %w", err)
			}
			if p == nil {
				return models.Post{}, apperr.NotFoundf("post '%s' not found", postSlug)
			}
			return *p, nil
		})
	if err != nil {
		return nil, err
	}
	s.prepare(ctx, &p)
	return &p, nil
}

// GetPostByID returns any post, draft or published, for editing.
func (s *Service) GetPostByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding post: %w", err)
	}
	if p == nil {
		return nil, apperr.NotFoundf("post with id %s is not found", id)
	}
	return p, nil
}

// GetArchives returns published post counts per month, newest first.
func (s *Service) GetArchives(ctx context.Context) ([]models.ArchiveMonth, error) {
	months, err := cache.GetOrCompute(ctx, s.cache, cache.KeyArchives, s.cache.TTL(cache.KeyArchives), s.posts.ArchiveCounts)
	if err != nil {
		return nil, fmt.Errorf("listing archives: %w", err)
	}
	return months, nil
}

// GetPostCount returns the number of published blog posts.
func (s *Service) GetPostCount(ctx context.Context) (int, error) {
	n, err := cache.GetOrCompute(ctx, s.cache, cache.KeyPostCount, s.cache.TTL(cache.KeyPostCount), s.posts.CountPublished)
	if err != nil {
		return 0, fmt.Errorf("counting posts: %w", err)
	}
	return n, nil
}

// prepareList returns a copy of res with every post prepared. The input may
// be shared with other callers and is not modified.
func (s *Service) prepareList(ctx context.Context, res listing.Result) PostList {
	posts := make([]models.Post, len(res.Posts))
	copy(posts, res.Posts)
	for i := range posts {
		s.prepare(ctx, &posts[i])
	}
	return PostList{Posts: posts, TotalCount: res.TotalCount}
}

// prepare decodes the title, fills a missing excerpt from the body and
// rewrites body images.
func (s *Service) prepare(ctx context.Context, p *models.Post) {
	p.Title = html.UnescapeString(p.Title)
	if p.Excerpt == nil || strings.TrimSpace(*p.Excerpt) == "" {
		ex := markup.Excerpt(p.Body, markup.ExcerptWords)
		p.Excerpt = &ex
	}
	if s.rewriter != nil {
		p.Body = s.rewriter.Rewrite(ctx, p.Body)
	}
}

// --- Mutations ---

// PostInput carries the editable fields of a post.
type PostInput struct {
	Kind   models.PostKind   `json:"kind"`
	Status models.PostStatus `json:"status"`
	Title  string            `json:"title"`
	Slug   string            `json:"slug"`
	Body   string            `json:"body"`
	// BodyMark, when set, is the Markdown source and replaces Body.
	BodyMark      string     `json:"body_mark"`
	Excerpt       string     `json:"excerpt"`
	CategoryID    *uuid.UUID `json:"category_id"`
	CategoryTitle string     `json:"category_title"`
	TagTitles     []string   `json:"tag_titles"`
	ParentID      *uuid.UUID `json:"parent_id"`
	// PostDate overrides the publish date. Defaults to now.
	PostDate *time.Time `json:"post_date"`
}

// CreatePost validates in and stores a new post.
func (s *Service) CreatePost(ctx context.Context, in PostInput) (*models.Post, error) {
	p := &models.Post{ID: uuid.New()}
	if err := s.applyInput(ctx, p, in, nil); err != nil {
		return nil, err
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}

	s.invalidate(ctx, "post", p.ID, "create")
	slog.Info("post created", "id", p.ID, "kind", p.Kind, "status", p.Status)
	return p, nil
}

// UpdatePost replaces the editable fields of post id.
func (s *Service) UpdatePost(ctx context.Context, id uuid.UUID, in PostInput) (*models.Post, error) {
	existing, err := s.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	staleKey := postKeyOf(existing)

	p := &models.Post{ID: existing.ID, ViewCount: existing.ViewCount}
	if err := s.applyInput(ctx, p, in, existing); err != nil {
		return nil, err
	}
	if err := s.posts.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("updating post: %w", err)
	}

	s.invalidate(ctx, "post", p.ID, "update", nonEmpty(staleKey, postKeyOf(p))...)
	slog.Info("post updated", "id", p.ID, "status", p.Status)
	return p, nil
}

// DeletePost removes post id.
func (s *Service) DeletePost(ctx context.Context, id uuid.UUID) error {
	existing, err := s.GetPostByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}

	s.invalidate(ctx, "post", id, "delete", nonEmpty(postKeyOf(existing))...)
	slog.Info("post deleted", "id", id)
	return nil
}

// applyInput fills p from in. existing is the stored version on update.
func (s *Service) applyInput(ctx context.Context, p *models.Post, in PostInput, existing *models.Post) error {
	p.Kind = in.Kind
	if p.Kind == "" {
		p.Kind = models.PostKindBlogPost
		if existing != nil {
			p.Kind = existing.Kind
		}
	}
	p.Status = in.Status
	if p.Status == "" {
		p.Status = models.PostStatusDraft
	}

	p.Title = strings.TrimSpace(in.Title)
	if p.Title == "" {
		return apperr.Validationf("post title cannot be empty")
	}

	p.Body = in.Body
	if in.BodyMark != "" {
		body, err := markup.ToHTML(in.BodyMark)
		if err != nil {
			return apperr.Wrap(apperr.Validation, err, "invalid markdown body")
		}
		mark := in.BodyMark
		p.Body, p.BodyMark = body, &mark
	}
	if ex := strings.TrimSpace(in.Excerpt); ex != "" {
		p.Excerpt = &ex
	}

	now := s.now().UTC()
	switch {
	case in.PostDate != nil:
		p.CreatedOn = in.PostDate.UTC()
	case existing != nil && existing.IsPublished():
		p.CreatedOn = existing.CreatedOn
	default:
		p.CreatedOn = now
	}
	if !p.IsPublished() {
		p.UpdatedOn = &now
	}

	if p.Kind == models.PostKindBlogPost {
		cat, err := s.postCategory(ctx, in)
		if err != nil {
			return err
		}
		p.CategoryID = &cat.ID
		p.Category = cat

		tags, err := s.tagsByTitle(ctx, in.TagTitles)
		if err != nil {
			return err
		}
		p.Tags = tags
	} else {
		p.ParentID = in.ParentID
	}

	postSlug, err := s.postSlug(ctx, p, in.Slug)
	if err != nil {
		return err
	}
	p.Slug = &postSlug

	return p.Validate()
}

// postCategory resolves the category of a blog post: by title (created if
// new), by id, or the default category.
func (s *Service) postCategory(ctx context.Context, in PostInput) (*models.Category, error) {
	if strings.TrimSpace(in.CategoryTitle) != "" {
		return s.categoryByTitle(ctx, in.CategoryTitle)
	}
	id := uuid.Nil
	if in.CategoryID != nil {
		id = *in.CategoryID
	}
	if id == uuid.Nil {
		settings, err := s.blogSettings(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading blog settings: %w", err)
		}
		id = settings.DefaultCategoryID
	}
	return s.GetCategory(ctx, id)
}

// postSlug derives the slug from the requested slug or the title and makes
// it unique among posts of the same kind on the same day (blog posts) or
// among all pages.
func (s *Service) postSlug(ctx context.Context, p *models.Post, requested string) (string, error) {
	src := strings.TrimSpace(requested)
	if src == "" {
		src = p.Title
	}
	sl := slug.Generate(src, models.MaxSlugLen)
	// Leave room for a uniqueness suffix.
	if limit := models.MaxSlugLen - 8; len(sl) > limit {
		sl = strings.TrimSuffix(sl[:limit], "-")
	}
	if sl == "" {
		sl = slug.Random(slug.RandomLen)
	}

	var day *time.Time
	if p.Kind == models.PostKindBlogPost {
		d := p.CreatedOn
		day = &d
	}
	existing, err := s.posts.ExistingSlugs(ctx, p.Kind, day, p.ID)
	if err != nil {
		return "", fmt.Errorf("loading post slugs: %w", err)
	}
	return slug.Uniquify(sl, slug.Set(existing)), nil
}

// postKeyOf returns the per-post cache key of a published blog post, or ""
// for anything that is never cached.
func postKeyOf(p *models.Post) string {
	if p == nil || !p.IsPublished() || p.Kind != models.PostKindBlogPost || p.Slug == nil {
		return ""
	}
	t := p.CreatedOn.UTC()
	return cache.PostKey(*p.Slug, t.Year(), int(t.Month()), t.Day())
}

func nonEmpty(keys ...string) []string {
	out := keys[:0]
	for _, k := range keys {
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}
