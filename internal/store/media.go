// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quillpress/internal/models"
)

// MediaStore handles media metadata. The files themselves live in object
// storage under blog/yyyy/mm/.
type MediaStore struct {
	db *sql.DB
}

// NewMediaStore creates a new MediaStore with the given database connection.
func NewMediaStore(db *sql.DB) *MediaStore {
	return &MediaStore{db: db}
}

const mediaColumns = `id, filename, content_type, width, height, resize_count, alt, uploaded_on`

func scanMedia(row scanner) (*models.Media, error) {
	var m models.Media
	err := row.Scan(&m.ID, &m.Filename, &m.ContentType, &m.Width, &m.Height,
		&m.ResizeCount, &m.Alt, &m.UploadedOn)
	if err != nil {
		return nil, err
	}
	m.UploadedOn = m.UploadedOn.UTC()
	return &m, nil
}

// Create inserts a new media record and sets its ID.
func (s *MediaStore) Create(ctx context.Context, m *models.Media) error {
	if m.UploadedOn.IsZero() {
		m.UploadedOn = time.Now().UTC()
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO media (filename, content_type, width, height, resize_count, alt, uploaded_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, m.Filename, m.ContentType, m.Width, m.Height, m.ResizeCount, m.Alt, m.UploadedOn).Scan(&m.ID)
	if err != nil {
		return wrap("create media", err)
	}
	return nil
}

// GetMedia returns the media uploaded as filename in the given UTC month.
// Returns nil if not found.
func (s *MediaStore) GetMedia(ctx context.Context, filename string, year, month int) (*models.Media, error) {
	from, to := archiveRange(year, month)
	row := s.db.QueryRowContext(ctx, `
		SELECT `+mediaColumns+`
		FROM media
		WHERE filename = $1 AND uploaded_on >= $2 AND uploaded_on < $3
		ORDER BY uploaded_on DESC
		LIMIT 1
	`, filename, from, to)
	m, err := scanMedia(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get media: %w", err)
	}
	return m, nil
}
