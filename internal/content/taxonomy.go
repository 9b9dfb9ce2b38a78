// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"quillpress/internal/apperr"
	"quillpress/internal/cache"
	"quillpress/internal/markup"
	"quillpress/internal/models"
	"quillpress/internal/slug"
)

// prepareTitle strips markup from a taxonomy title and caps its length.
func prepareTitle(title string) string {
	return strings.TrimSpace(markup.Truncate(markup.CleanHTML(title), models.TaxonomyTitleMaxLen))
}

func notFoundAsNil(err error) error {
	if apperr.Is(err, apperr.NotFound) {
		return nil
	}
	return err
}

// createWithRetry allocates a slug against existing and runs create. The
// in-memory uniqueness check is advisory; when the store's unique index
// still reports a conflict, reload re-reads the taken slugs from the store
// and allocation is retried once.
func createWithRetry(ctx context.Context, title string, existing []string,
	create func(slug string) error, reload func() ([]string, error)) error {
	err := create(slug.Allocate(title, models.TaxonomySlugMaxLen, existing))
	if !apperr.Is(err, apperr.Conflict) {
		return err
	}

	slog.Info("slug conflict, retrying allocation", "title", title)
	existing, rerr := reload()
	if rerr != nil {
		return rerr
	}
	return create(slug.Allocate(title, models.TaxonomySlugMaxLen, existing))
}

// --- Categories ---

// GetCategories returns every category with its post count.
func (s *Service) GetCategories(ctx context.Context) ([]models.Category, error) {
	cats, err := cache.GetOrCompute(ctx, s.cache, cache.KeyCategories, s.cache.TTL(cache.KeyCategories), s.cats.List)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return cats, nil
}

// GetCategory returns the category with id.
func (s *Service) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	cats, err := s.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cats {
		if cats[i].ID == id {
			return &cats[i], nil
		}
	}
	return nil, apperr.NotFoundf("category with id %s is not found", id)
}

// GetCategoryBySlug returns the category with slug, compared
// case-insensitively.
func (s *Service) GetCategoryBySlug(ctx context.Context, categorySlug string) (*models.Category, error) {
	if categorySlug == "" {
		return nil, apperr.NotFoundf("category does not exist")
	}
	cats, err := s.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cats {
		if strings.EqualFold(cats[i].Slug, categorySlug) {
			return &cats[i], nil
		}
	}
	return nil, apperr.NotFoundf("category '%s' does not exist", categorySlug)
}

// CreateCategory creates a category with a unique slug derived from title.
func (s *Service) CreateCategory(ctx context.Context, title, description string) (*models.Category, error) {
	title = prepareTitle(title)
	if title == "" {
		return nil, apperr.Validationf("category title cannot be empty")
	}

	cats, err := s.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range cats {
		if sameTitle(c.Title, title) {
			return nil, apperr.Validationf("'%s' already exists.", title)
		}
	}

	cat := &models.Category{Title: title, Description: markup.CleanHTML(description)}
	err = createWithRetry(ctx, title, categorySlugs(cats, uuid.Nil),
		func(sl string) error {
			cat.Slug = sl
			return s.cats.Create(ctx, cat)
		},
		func() ([]string, error) {
			fresh, err := s.cats.List(ctx)
			if err != nil {
				return nil, fmt.Errorf("reloading categories: %w", err)
			}
			return categorySlugs(fresh, uuid.Nil), nil
		})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, "category", cat.ID, "create")
	slog.Debug("category created", "id", cat.ID, "slug", cat.Slug)
	return cat, nil
}

// UpdateCategory renames a category and re-derives its slug.
func (s *Service) UpdateCategory(ctx context.Context, in models.Category) (*models.Category, error) {
	title := prepareTitle(in.Title)
	if in.ID == uuid.Nil || title == "" {
		return nil, apperr.Validationf("invalid category to update")
	}

	cats, err := s.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range cats {
		if c.ID != in.ID && sameTitle(c.Title, title) {
			return nil, apperr.Validationf("'%s' already exists.", title)
		}
	}

	entity, err := s.cats.FindByID(ctx, in.ID)
	if err != nil {
		return nil, fmt.Errorf("finding category: %w", err)
	}
	if entity == nil {
		return nil, apperr.NotFoundf("category with id %s is not found", in.ID)
	}

	entity.Title = title
	entity.Description = markup.CleanHTML(in.Description)
	err = createWithRetry(ctx, title, categorySlugs(cats, in.ID),
		func(sl string) error {
			entity.Slug = sl
			return s.cats.Update(ctx, entity)
		},
		func() ([]string, error) {
			fresh, err := s.cats.List(ctx)
			if err != nil {
				return nil, fmt.Errorf("reloading categories: %w", err)
			}
			return categorySlugs(fresh, in.ID), nil
		})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, "category", entity.ID, "update")
	slog.Debug("category updated", "id", entity.ID, "slug", entity.Slug)
	return entity, nil
}

// DeleteCategory removes a category and moves its posts to the default
// category. The default category itself cannot be deleted.
func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	settings, err := s.blogSettings(ctx)
	if err != nil {
		return fmt.Errorf("loading blog settings: %w", err)
	}
	if id == settings.DefaultCategoryID {
		return apperr.Validationf("Default category cannot be deleted.")
	}

	existing, err := s.cats.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("finding category: %w", err)
	}
	if existing == nil {
		return apperr.NotFoundf("category with id %s is not found", id)
	}

	if err := s.cats.Delete(ctx, id, settings.DefaultCategoryID); err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	s.invalidate(ctx, "category", id, "delete")
	slog.Info("category deleted", "id", id, "reassigned_to", settings.DefaultCategoryID)
	return nil
}

// SetDefaultCategory makes id the category that receives uncategorized
// posts and posts of deleted categories.
func (s *Service) SetDefaultCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}
	settings, err := s.settings.BlogSettings(ctx)
	if err != nil {
		return fmt.Errorf("loading blog settings: %w", err)
	}
	settings.DefaultCategoryID = id
	if err := s.settings.SaveBlogSettings(ctx, settings); err != nil {
		return fmt.Errorf("saving blog settings: %w", err)
	}
	s.cache.Invalidate(ctx, cache.KeySettings)
	if s.audit != nil {
		s.audit.Log(ctx, "settings", id, "default_category")
	}
	return nil
}

// categoryByTitle returns the category titled title, creating it if needed.
func (s *Service) categoryByTitle(ctx context.Context, title string) (*models.Category, error) {
	cats, err := s.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	prepared := prepareTitle(title)
	for i := range cats {
		if sameTitle(cats[i].Title, prepared) {
			return &cats[i], nil
		}
	}
	return s.CreateCategory(ctx, title, "")
}

func categorySlugs(cats []models.Category, exclude uuid.UUID) []string {
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		if c.ID != exclude {
			out = append(out, c.Slug)
		}
	}
	return out
}

// --- Tags ---

// GetTags returns every tag with its published post count.
func (s *Service) GetTags(ctx context.Context) ([]models.Tag, error) {
	tags, err := cache.GetOrCompute(ctx, s.cache, cache.KeyTags, s.cache.TTL(cache.KeyTags), s.tags.List)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	return tags, nil
}

// GetTag returns the tag with id.
func (s *Service) GetTag(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	tags, err := s.GetTags(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tags {
		if tags[i].ID == id {
			return &tags[i], nil
		}
	}
	return nil, apperr.NotFoundf("tag with id %s is not found", id)
}

// GetTagBySlug returns the tag with slug, compared case-insensitively.
func (s *Service) GetTagBySlug(ctx context.Context, tagSlug string) (*models.Tag, error) {
	if tagSlug == "" {
		return nil, apperr.NotFoundf("tag does not exist")
	}
	tags, err := s.GetTags(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tags {
		if strings.EqualFold(tags[i].Slug, tagSlug) {
			return &tags[i], nil
		}
	}
	return nil, apperr.NotFoundf("tag '%s' does not exist", tagSlug)
}

// CreateTag creates a tag with a unique slug derived from title.
func (s *Service) CreateTag(ctx context.Context, title, description string) (*models.Tag, error) {
	title = prepareTitle(title)
	if title == "" {
		return nil, apperr.Validationf("tag title cannot be empty")
	}

	tags, err := s.GetTags(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tags {
		if sameTitle(t.Title, title) {
			return nil, apperr.Validationf("'%s' already exists.", title)
		}
	}

	tag := &models.Tag{Title: title, Description: markup.CleanHTML(description)}
	err = createWithRetry(ctx, title, tagSlugs(tags, uuid.Nil),
		func(sl string) error {
			tag.Slug = sl
			return s.tags.Create(ctx, tag)
		},
		func() ([]string, error) {
			fresh, err := s.tags.List(ctx)
			if err != nil {
				return nil, fmt.Errorf("reloading tags: %w", err)
			}
			return tagSlugs(fresh, uuid.Nil), nil
		})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, "tag", tag.ID, "create")
	slog.Debug("tag created", "id", tag.ID, "slug", tag.Slug)
	return tag, nil
}

// UpdateTag renames a tag and re-derives its slug.
func (s *Service) UpdateTag(ctx context.Context, in models.Tag) (*models.Tag, error) {
	title := prepareTitle(in.Title)
	if in.ID == uuid.Nil || title == "" {
		return nil, apperr.Validationf("invalid tag to update")
	}

	tags, err := s.GetTags(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tags {
		if t.ID != in.ID && sameTitle(t.Title, title) {
			return nil, apperr.Validationf("'%s' already exists.", title)
		}
	}

	entity, err := s.tags.FindByID(ctx, in.ID)
	if err != nil {
		return nil, fmt.Errorf("finding tag: %w", err)
	}
	if entity == nil {
		return nil, apperr.NotFoundf("tag with id %s is not found", in.ID)
	}

	entity.Title = title
	entity.Description = markup.CleanHTML(in.Description)
	err = createWithRetry(ctx, title, tagSlugs(tags, in.ID),
		func(sl string) error {
			entity.Slug = sl
			return s.tags.Update(ctx, entity)
		},
		func() ([]string, error) {
			fresh, err := s.tags.List(ctx)
			if err != nil {
				return nil, fmt.Errorf("reloading tags: %w", err)
			}
			return tagSlugs(fresh, in.ID), nil
		})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, "tag", entity.ID, "update")
	slog.Debug("tag updated", "id", entity.ID, "slug", entity.Slug)
	return entity, nil
}

// DeleteTag removes a tag from every post and deletes it.
func (s *Service) DeleteTag(ctx context.Context, id uuid.UUID) error {
	existing, err := s.tags.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("finding tag: %w", err)
	}
	if existing == nil {
		return apperr.NotFoundf("tag with id %s is not found", id)
	}
	if err := s.tags.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting tag: %w", err)
	}

	s.invalidate(ctx, "tag", id, "delete")
	slog.Info("tag deleted", "id", id)
	return nil
}

// tagsByTitle resolves post tag titles to tags, creating missing ones.
// Blank and repeated titles are ignored.
func (s *Service) tagsByTitle(ctx context.Context, titles []string) ([]models.Tag, error) {
	if len(titles) == 0 {
		return nil, nil
	}
	all, err := s.GetTags(ctx)
	if err != nil {
		return nil, err
	}

	var out []models.Tag
	for _, raw := range titles {
		title := prepareTitle(raw)
		if title == "" {
			continue
		}
		if containsTag(out, title) {
			continue
		}

		var found *models.Tag
		for i := range all {
			if sameTitle(all[i].Title, title) {
				found = &all[i]
				break
			}
		}
		if found == nil {
			found, err = s.CreateTag(ctx, title, "")
			if err != nil {
				return nil, fmt.Errorf("creating tag %q: %w", title, err)
			}
			all = append(all, *found)
		}
		out = append(out, *found)
	}
	return out, nil
}

func containsTag(tags []models.Tag, title string) bool {
	for _, t := range tags {
		if sameTitle(t.Title, title) {
			return true
		}
	}
	return false
}

func tagSlugs(tags []models.Tag, exclude uuid.UUID) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t.ID != exclude {
			out = append(out, t.Slug)
		}
	}
	return out
}
