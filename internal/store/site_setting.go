// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"quillpress/internal/models"
)

// Section is a group of settings stored as one JSON document.
type Section interface {
	SettingsKey() string
}

// SiteSettingStore manages site configuration in the database.
type SiteSettingStore struct {
	db *sql.DB
}

// NewSiteSettingStore returns a new SiteSettingStore backed by the given database.
func NewSiteSettingStore(db *sql.DB) *SiteSettingStore {
	return &SiteSettingStore{db: db}
}

// LoadSettings reads section T. A missing row yields the zero value.
func LoadSettings[T Section](ctx context.Context, s *SiteSettingStore) (T, error) {
	var v T
	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM site_settings WHERE key = $1`, v.SettingsKey()).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return v, nil
	}
	if err != nil {
		return v, fmt.Errorf("load settings %s: %w", v.SettingsKey(), err)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode settings %s: %w", v.SettingsKey(), err)
	}
	return v, nil
}

// SaveSettings upserts section v.
func SaveSettings[T Section](ctx context.Context, s *SiteSettingStore, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode settings %s: %w", v.SettingsKey(), err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO site_settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		v.SettingsKey(), raw,
	)
	if err != nil {
		return fmt.Errorf("save settings %s: %w", v.SettingsKey(), err)
	}
	return nil
}

// BlogSettings loads the blog section.
func (s *SiteSettingStore) BlogSettings(ctx context.Context) (models.BlogSettings, error) {
	return LoadSettings[models.BlogSettings](ctx, s)
}

// SaveBlogSettings stores the blog section.
func (s *SiteSettingStore) SaveBlogSettings(ctx context.Context, v models.BlogSettings) error {
	return SaveSettings(ctx, s, v)
}
