// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"quillpress/internal/listing"
	"quillpress/internal/models"
)

// PostStore handles blog posts and pages. Both live in the posts table and
// are told apart by kind.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `p.id, p.kind, p.status, p.title, p.slug, p.body, p.body_mark,
	p.excerpt, p.category_id, p.parent_id, p.created_on, p.updated_on, p.view_count,
	c.id, c.title, c.slug, c.description`

const postFrom = `FROM posts p LEFT JOIN categories c ON c.id = p.category_id`

func scanPost(row scanner) (*models.Post, error) {
	var (
		p       models.Post
		catID   *uuid.UUID
		catT    sql.NullString
		catSlug sql.NullString
		catDesc sql.NullString
	)
	err := row.Scan(
		&p.ID, &p.Kind, &p.Status, &p.Title, &p.Slug, &p.Body, &p.BodyMark,
		&p.Excerpt, &p.CategoryID, &p.ParentID, &p.CreatedOn, &p.UpdatedOn, &p.ViewCount,
		&catID, &catT, &catSlug, &catDesc,
	)
	if err != nil {
		return nil, err
	}
	p.CreatedOn = p.CreatedOn.UTC()
	if catID != nil {
		p.Category = &models.Category{ID: *catID, Title: catT.String, Slug: catSlug.String, Description: catDesc.String}
	}
	return &p, nil
}

// whereBuilder collects AND-ed conditions with positional arguments.
type whereBuilder struct {
	conds []string
	args  []any
}

// add appends cond, replacing each "?" with the next placeholder.
func (w *whereBuilder) add(cond string, args ...any) {
	for _, a := range args {
		w.args = append(w.args, a)
		cond = strings.Replace(cond, "?", "$"+strconv.Itoa(len(w.args)), 1)
	}
	w.conds = append(w.conds, cond)
}

func (w *whereBuilder) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// filterWhere translates a listing filter to SQL. Archive bounds are UTC.
func filterWhere(f listing.Filter) *whereBuilder {
	w := &whereBuilder{}
	if f.Kind != "" {
		w.add("p.kind = ?", f.Kind)
	}
	if f.Status != "" {
		w.add("p.status = ?", f.Status)
	}
	if f.CategoryID != nil {
		w.add("p.category_id = ?", *f.CategoryID)
	}
	if f.TagID != nil {
		w.add("EXISTS (SELECT 1 FROM post_tags pt WHERE pt.post_id = p.id AND pt.tag_id = ?)", *f.TagID)
	}
	if f.Year > 0 {
		from, to := archiveRange(f.Year, f.Month)
		w.add("p.created_on >= ? AND p.created_on < ?", from, to)
	}
	if f.RootOnly {
		w.add("p.parent_id IS NULL")
	}
	return w
}

// archiveRange returns the half-open UTC interval of a year, or of one month
// when month is 1-12.
func archiveRange(year, month int) (time.Time, time.Time) {
	if month < 1 || month > 12 {
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(1, 0, 0)
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

func orderBy(o listing.Order) string {
	if o == listing.OrderUpdatedDesc {
		return " ORDER BY COALESCE(p.updated_on, p.created_on) DESC, p.id DESC"
	}
	return " ORDER BY p.created_on DESC, p.id DESC"
}

// List runs a listing plan. It returns the requested page and the number of
// posts matching the plan's filter.
func (s *PostStore) List(ctx context.Context, plan listing.Plan) ([]models.Post, int, error) {
	w := filterWhere(plan.Filter)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts p`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}
	if total == 0 || plan.Skip >= total {
		return []models.Post{}, total, nil
	}

	q := `SELECT ` + postColumns + ` ` + postFrom + w.String() + orderBy(plan.Order)
	args := w.args
	if plan.Take > 0 {
		q += " LIMIT $" + strconv.Itoa(len(args)+1)
		args = append(args, plan.Take)
	}
	if plan.Skip > 0 {
		q += " OFFSET $" + strconv.Itoa(len(args)+1)
		args = append(args, plan.Skip)
	}

	posts, err := s.query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	return posts, total, nil
}

// query runs a post SELECT and attaches tags.
func (s *PostStore) query(ctx context.Context, q string, args ...any) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachTags(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// attachTags loads the tags of every blog post in posts with one query.
func (s *PostStore) attachTags(ctx context.Context, posts []models.Post) error {
	ids := make([]string, 0, len(posts))
	index := make(map[uuid.UUID]int, len(posts))
	for i, p := range posts {
		if p.Kind == models.PostKindBlogPost {
			ids = append(ids, p.ID.String())
			index[p.ID] = i
		}
	}
	if len(ids) == 0 {
		return nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT pt.post_id, t.id, t.title, t.slug, t.description
		FROM post_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id = ANY($1::uuid[])
		ORDER BY t.title
	`, ids)
	if err != nil {
		return fmt.Errorf("load post tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			postID uuid.UUID
			t      models.Tag
		)
		if err := rows.Scan(&postID, &t.ID, &t.Title, &t.Slug, &t.Description); err != nil {
			return fmt.Errorf("scan post tag: %w", err)
		}
		if i, ok := index[postID]; ok {
			posts[i].Tags = append(posts[i].Tags, t)
		}
	}
	return rows.Err()
}

// one runs a single-post query. Returns nil if nothing matches.
func (s *PostStore) one(ctx context.Context, q string, args ...any) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	posts := []models.Post{*p}
	if err := s.attachTags(ctx, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

// FindByID retrieves a post by its UUID. Returns nil if not found.
func (s *PostStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	p, err := s.one(ctx, `SELECT `+postColumns+` `+postFrom+` WHERE p.id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves the published blog post with slug dated on the given
// UTC day. Returns nil if not found.
func (s *PostStore) FindBySlug(ctx context.Context, slug string, year, month, day int) (*models.Post, error) {
	from := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	p, err := s.one(ctx, `SELECT `+postColumns+` `+postFrom+`
		WHERE p.kind = 'blog_post' AND p.status = 'published' AND p.slug = $1
		  AND p.created_on >= $2 AND p.created_on < $3
		ORDER BY p.created_on DESC, p.id DESC
		LIMIT 1`, slug, from, from.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// ExistingSlugs returns the slugs of posts of kind other than excludeID,
// limited to the UTC day of day when it is set.
func (s *PostStore) ExistingSlugs(ctx context.Context, kind models.PostKind, day *time.Time, excludeID uuid.UUID) ([]string, error) {
	w := &whereBuilder{}
	w.add("p.kind = ?", kind)
	w.add("p.slug IS NOT NULL")
	w.add("p.id <> ?", excludeID)
	if day != nil {
		d := day.UTC()
		from := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		w.add("p.created_on >= ? AND p.created_on < ?", from, from.AddDate(0, 0, 1))
	}

	rows, err := s.db.QueryContext(ctx, `SELECT p.slug FROM posts p`+w.String(), w.args...)
	if err != nil {
		return nil, fmt.Errorf("list post slugs: %w", err)
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var sl string
		if err := rows.Scan(&sl); err != nil {
			return nil, fmt.Errorf("scan post slug: %w", err)
		}
		slugs = append(slugs, sl)
	}
	return slugs, rows.Err()
}

// Create inserts p and its tag links in one transaction.
func (s *PostStore) Create(ctx context.Context, p *models.Post) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return s.inTx(ctx, "create post", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO posts (id, kind, status, title, slug, body, body_mark, excerpt,
			                   category_id, parent_id, created_on, updated_on, view_count)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		`, p.ID, p.Kind, p.Status, p.Title, p.Slug, p.Body, p.BodyMark, p.Excerpt,
			p.CategoryID, p.ParentID, p.CreatedOn, p.UpdatedOn, p.ViewCount)
		if err != nil {
			return err
		}
		return linkTags(ctx, tx, p)
	})
}

// Update replaces the stored fields and tag links of p.
func (s *PostStore) Update(ctx context.Context, p *models.Post) error {
	return s.inTx(ctx, "update post", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE posts SET
				kind = $1, status = $2, title = $3, slug = $4, body = $5, body_mark = $6,
				excerpt = $7, category_id = $8, parent_id = $9, created_on = $10, updated_on = $11
			WHERE id = $12
		`, p.Kind, p.Status, p.Title, p.Slug, p.Body, p.BodyMark,
			p.Excerpt, p.CategoryID, p.ParentID, p.CreatedOn, p.UpdatedOn, p.ID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = $1`, p.ID); err != nil {
			return err
		}
		return linkTags(ctx, tx, p)
	})
}

func linkTags(ctx context.Context, tx *sql.Tx, p *models.Post) error {
	for _, t := range p.Tags {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, p.ID, t.ID)
		if err != nil {
			return fmt.Errorf("link tag %s: %w", t.ID, err)
		}
	}
	return nil
}

func (s *PostStore) inTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return wrap(op, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}

// Delete removes a post. Tag links are removed by ON DELETE CASCADE.
func (s *PostStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// ArchiveCounts returns the number of published blog posts per UTC month,
// newest month first.
func (s *PostStore) ArchiveCounts(ctx context.Context) ([]models.ArchiveMonth, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT EXTRACT(YEAR FROM created_on AT TIME ZONE 'UTC')::int AS y,
		       EXTRACT(MONTH FROM created_on AT TIME ZONE 'UTC')::int AS m,
		       COUNT(*)
		FROM posts
		WHERE kind = 'blog_post' AND status = 'published'
		GROUP BY y, m
		ORDER BY y DESC, m DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("archive counts: %w", err)
	}
	defer rows.Close()

	var months []models.ArchiveMonth
	for rows.Next() {
		var a models.ArchiveMonth
		if err := rows.Scan(&a.Year, &a.Month, &a.Count); err != nil {
			return nil, fmt.Errorf("scan archive month: %w", err)
		}
		months = append(months, a)
	}
	return months, rows.Err()
}

// CountPublished returns the number of published blog posts.
func (s *PostStore) CountPublished(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM posts WHERE kind = 'blog_post' AND status = 'published'
	`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count published posts: %w", err)
	}
	return n, nil
}

