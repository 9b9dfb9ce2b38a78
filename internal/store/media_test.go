package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"quillpress/internal/models"
)

func TestMediaStoreGetMedia(t *testing.T) {
	db := testDB(t)
	s := NewMediaStore(db)
	ctx := context.Background()

	filename := "test-" + testSuffix() + ".jpg"
	alt := "A lake"
	m := &models.Media{
		Filename:    filename,
		ContentType: "image/jpeg",
		Width:       2400,
		Height:      1600,
		ResizeCount: 3,
		Alt:         &alt,
		UploadedOn:  time.Date(2025, 7, 14, 9, 0, 0, 0, time.UTC),
	}
	if err := s.Create(ctx, m); err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM media WHERE id = $1", m.ID) })

	if m.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}

	found, err := s.GetMedia(ctx, filename, 2025, 7)
	if err != nil {
		t.Fatalf("GetMedia: %v", err)
	}
	if found == nil {
		t.Fatal("expected media, got nil")
	}
	if found.ID != m.ID || found.ResizeCount != 3 || found.Width != 2400 {
		t.Errorf("found %+v", found)
	}
	if found.Alt == nil || *found.Alt != alt {
		t.Errorf("alt: got %v, want %q", found.Alt, alt)
	}

	// Same filename in another month is a different upload.
	other, err := s.GetMedia(ctx, filename, 2025, 8)
	if err != nil {
		t.Fatalf("GetMedia: %v", err)
	}
	if other != nil {
		t.Errorf("expected nil for another month, got %+v", other)
	}
}
