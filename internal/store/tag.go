// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"quillpress/internal/models"
)

// TagStore manages tags in the database.
type TagStore struct {
	db *sql.DB
}

// NewTagStore returns a new TagStore.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

// List returns all tags ordered by title, counting the published blog posts
// that carry each one.
func (s *TagStore) List(ctx context.Context) ([]models.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.title, t.slug, t.description, COUNT(p.id) AS post_count
		FROM tags t
		LEFT JOIN post_tags pt ON pt.tag_id = t.id
		LEFT JOIN posts p ON p.id = pt.post_id
		     AND p.kind = 'blog_post' AND p.status = 'published'
		GROUP BY t.id
		ORDER BY t.title
	`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var items []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Title, &t.Slug, &t.Description, &t.Count); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// FindByID retrieves a tag by ID. Returns nil if not found.
func (s *TagStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	var t models.Tag
	err := s.db.QueryRowContext(ctx, `SELECT id, title, slug, description FROM tags WHERE id = $1`, id).
		Scan(&t.ID, &t.Title, &t.Slug, &t.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by id: %w", err)
	}
	return &t, nil
}

// Create inserts t and sets its ID.
func (s *TagStore) Create(ctx context.Context, t *models.Tag) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO tags (title, slug, description)
		VALUES ($1, $2, $3)
		RETURNING id
	`, t.Title, t.Slug, t.Description).Scan(&t.ID)
	if err != nil {
		return wrap("create tag", err)
	}
	return nil
}

// Update modifies an existing tag.
func (s *TagStore) Update(ctx context.Context, t *models.Tag) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE tags SET title = $1, slug = $2, description = $3, updated_at = NOW()
		WHERE id = $4
	`, t.Title, t.Slug, t.Description, t.ID)
	if err != nil {
		return wrap("update tag", err)
	}
	return nil
}

// Delete removes a tag. Its post links go with it (ON DELETE CASCADE).
func (s *TagStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}
