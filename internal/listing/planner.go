// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package listing

import (
	"context"
	"fmt"

	"quillpress/internal/apperr"
	"quillpress/internal/models"
)

// TaxonomyResolver looks up categories and tags by slug. A missing entry is
// (nil, nil).
type TaxonomyResolver interface {
	CategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	TagBySlug(ctx context.Context, slug string) (*models.Tag, error)
}

// PostLister runs a plan against the post store and returns the requested
// page together with the filtered total.
type PostLister interface {
	List(ctx context.Context, plan Plan) ([]models.Post, int, error)
}

// Result is one page of a listing.
type Result struct {
	Posts      []models.Post `json:"posts"`
	TotalCount int           `json:"total_count"`
}

// Planner maps queries to plans and executes them.
type Planner struct {
	taxonomy TaxonomyResolver
	posts    PostLister
}

// NewPlanner creates a planner.
func NewPlanner(taxonomy TaxonomyResolver, posts PostLister) *Planner {
	return &Planner{taxonomy: taxonomy, posts: posts}
}

// Plan resolves q into a Plan. Category and tag slugs are resolved before
// the filter is built; an unknown slug fails the whole query with NotFound.
func (p *Planner) Plan(ctx context.Context, q Query) (Plan, error) {
	published := Filter{Kind: models.PostKindBlogPost, Status: models.PostStatusPublished}

	switch q := q.(type) {
	case BlogPosts:
		index, size := normalizePage(q.PageIndex, q.PageSize)
		return Plan{Kind: q.Kind(), Filter: published, Skip: (index - 1) * size, Take: size}, nil

	case BlogDrafts:
		return Plan{
			Kind:   q.Kind(),
			Filter: Filter{Kind: models.PostKindBlogPost, Status: models.PostStatusDraft},
			Order:  OrderUpdatedDesc,
		}, nil

	case BlogPostsByCategory:
		cat, err := p.taxonomy.CategoryBySlug(ctx, q.CategorySlug)
		if err != nil {
			return Plan{}, fmt.Errorf("resolving category %q: %w", q.CategorySlug, err)
		}
		if cat == nil {
			return Plan{}, apperr.NotFoundf("category %q not found", q.CategorySlug)
		}
		f := published
		f.CategoryID = &cat.ID
		index, size := normalizePage(q.PageIndex, q.PageSize)
		return Plan{Kind: q.Kind(), Filter: f, Skip: (index - 1) * size, Take: size}, nil

	case BlogPostsByTag:
		tag, err := p.taxonomy.TagBySlug(ctx, q.TagSlug)
		if err != nil {
			return Plan{}, fmt.Errorf("resolving tag %q: %w", q.TagSlug, err)
		}
		if tag == nil {
			return Plan{}, apperr.NotFoundf("tag %q not found", q.TagSlug)
		}
		f := published
		f.TagID = &tag.ID
		index, size := normalizePage(q.PageIndex, q.PageSize)
		return Plan{Kind: q.Kind(), Filter: f, Skip: (index - 1) * size, Take: size}, nil

	case BlogPostsArchive:
		if q.Year < 1 {
			return Plan{}, apperr.Validationf("archive year %d is invalid", q.Year)
		}
		if q.Month < 0 || q.Month > 12 {
			return Plan{}, apperr.Validationf("archive month %d is invalid", q.Month)
		}
		f := published
		f.Year, f.Month = q.Year, q.Month
		return Plan{Kind: q.Kind(), Filter: f}, nil

	case BlogPostsByNumber:
		_, n := normalizePage(1, q.N)
		return Plan{Kind: q.Kind(), Filter: Filter{Kind: models.PostKindBlogPost}, Take: n}, nil

	case BlogPublishedPostsByNumber:
		_, n := normalizePage(1, q.N)
		return Plan{Kind: q.Kind(), Filter: published, Take: n}, nil

	case Pages:
		return Plan{Kind: q.Kind(), Filter: Filter{Kind: models.PostKindPage, RootOnly: true}}, nil

	case PagesWithChildren:
		return Plan{Kind: q.Kind(), Filter: Filter{Kind: models.PostKindPage}}, nil
	}

	return Plan{}, apperr.Validationf("unsupported listing query %T", q)
}

// Execute plans q and runs it. An empty match is a Result with an empty,
// non-nil Posts slice.
func (p *Planner) Execute(ctx context.Context, q Query) (Result, error) {
	plan, err := p.Plan(ctx, q)
	if err != nil {
		return Result{}, err
	}

	posts, total, err := p.posts.List(ctx, plan)
	if err != nil {
		return Result{}, fmt.Errorf("listing %s: %w", plan.Kind, err)
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return Result{Posts: posts, TotalCount: total}, nil
}
