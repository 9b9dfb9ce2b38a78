// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package listing

import (
	"bytes"
	"slices"
	"time"

	"github.com/google/uuid"

	"quillpress/internal/models"
)

// Order is the sort key of a plan. Both orders are descending and break ties
// by post ID descending so that pages never overlap.
type Order int

const (
	OrderCreatedDesc Order = iota
	// OrderUpdatedDesc sorts by UpdatedOn, falling back to CreatedOn for
	// posts that were never saved as drafts.
	OrderUpdatedDesc
)

// Filter selects posts. Zero-valued fields do not filter.
type Filter struct {
	Kind       models.PostKind
	Status     models.PostStatus
	CategoryID *uuid.UUID
	TagID      *uuid.UUID
	Year       int
	Month      int
	// RootOnly keeps posts without a parent.
	RootOnly bool
}

// Plan is a fully resolved listing: what to select, how to order it and
// which slice of the ordered set to return.
type Plan struct {
	Kind   Kind
	Filter Filter
	Order  Order
	Skip   int
	// Take of zero returns every remaining post.
	Take int
}

// Match reports whether p satisfies the filter. Archive year and month are
// compared in UTC.
func (f Filter) Match(p *models.Post) bool {
	if f.Kind != "" && p.Kind != f.Kind {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *f.CategoryID) {
		return false
	}
	if f.TagID != nil && !slices.ContainsFunc(p.Tags, func(t models.Tag) bool { return t.ID == *f.TagID }) {
		return false
	}
	if f.Year > 0 {
		created := p.CreatedOn.UTC()
		if created.Year() != f.Year {
			return false
		}
		if f.Month > 0 && int(created.Month()) != f.Month {
			return false
		}
	}
	if f.RootOnly && p.ParentID != nil {
		return false
	}
	return true
}

// sortKey returns the instant a post is ordered by.
func (o Order) sortKey(p *models.Post) time.Time {
	if o == OrderUpdatedDesc && p.UpdatedOn != nil {
		return *p.UpdatedOn
	}
	return p.CreatedOn
}

// Apply runs plan over an in-memory set of posts. It returns the requested
// page and the number of posts matching the filter before paging.
func Apply(posts []models.Post, plan Plan) ([]models.Post, int) {
	matched := make([]models.Post, 0, len(posts))
	for i := range posts {
		if plan.Filter.Match(&posts[i]) {
			matched = append(matched, posts[i])
		}
	}

	slices.SortFunc(matched, func(a, b models.Post) int {
		if c := plan.Order.sortKey(&b).Compare(plan.Order.sortKey(&a)); c != 0 {
			return c
		}
		return bytes.Compare(b.ID[:], a.ID[:])
	})

	total := len(matched)
	if plan.Skip >= total {
		return []models.Post{}, total
	}
	page := matched[plan.Skip:]
	if plan.Take > 0 && plan.Take < len(page) {
		page = page[:plan.Take]
	}
	return page, total
}
