package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// DefaultCategoryTitle names the category created on first start.
const DefaultCategoryTitle = "General"

// Seed makes sure the blog has a default category and a blog settings
// section pointing at it. Existing data is left alone. postsPerPage seeds
// the page size of a fresh installation.
func Seed(db *sql.DB, postsPerPage int) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM site_settings WHERE key = 'blog'").Scan(&count); err != nil {
		return fmt.Errorf("seed check settings: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	var catID uuid.UUID
	err = tx.QueryRow(`
		INSERT INTO categories (title, slug, description)
		VALUES ($1, $2, '')
		ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
		RETURNING id
	`, DefaultCategoryTitle, "general").Scan(&catID)
	if err != nil {
		return fmt.Errorf("seed default category: %w", err)
	}

	settings, err := json.Marshal(map[string]any{
		"default_category_id": catID,
		"post_per_page":       postsPerPage,
	})
	if err != nil {
		return fmt.Errorf("seed encode settings: %w", err)
	}
	_, err = tx.Exec(`
		INSERT INTO site_settings (key, value) VALUES ('blog', $1)
		ON CONFLICT (key) DO NOTHING
	`, settings)
	if err != nil {
		return fmt.Errorf("seed blog settings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with default category",
		"category", DefaultCategoryTitle,
		"id", catID,
	)
	return nil
}
