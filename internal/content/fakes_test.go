package content

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"quillpress/internal/apperr"
	"quillpress/internal/listing"
	"quillpress/internal/models"
)

// memPosts is an in-memory PostRepository.
type memPosts struct {
	mu    sync.Mutex
	posts []models.Post
	lists int
}

func (m *memPosts) List(_ context.Context, plan listing.Plan) ([]models.Post, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	posts, total := listing.Apply(m.posts, plan)
	return posts, total, nil
}

func (m *memPosts) FindByID(_ context.Context, id uuid.UUID) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

func (m *memPosts) FindBySlug(_ context.Context, slug string, year, month, day int) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		t := p.CreatedOn.UTC()
		if p.Kind == models.PostKindBlogPost && p.IsPublished() && p.SlugValue() == slug &&
			t.Year() == year && int(t.Month()) == month && t.Day() == day {
			return &p, nil
		}
	}
	return nil, nil
}

func (m *memPosts) ExistingSlugs(_ context.Context, kind models.PostKind, day *time.Time, exclude uuid.UUID) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, p := range m.posts {
		if p.Kind != kind || p.ID == exclude || p.Slug == nil {
			continue
		}
		if day != nil {
			a, b := p.CreatedOn.UTC(), day.UTC()
			if a.Year() != b.Year() || a.YearDay() != b.YearDay() {
				continue
			}
		}
		out = append(out, *p.Slug)
	}
	return out, nil
}

func (m *memPosts) Create(_ context.Context, p *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts = append(m.posts, *p)
	return nil
}

func (m *memPosts) Update(_ context.Context, p *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.posts {
		if m.posts[i].ID == p.ID {
			m.posts[i] = *p
			return nil
		}
	}
	return apperr.NotFoundf("post %s", p.ID)
}

func (m *memPosts) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts = slices.DeleteFunc(m.posts, func(p models.Post) bool { return p.ID == id })
	return nil
}

func (m *memPosts) ArchiveCounts(_ context.Context) ([]models.ArchiveMonth, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[[2]int]int{}
	for _, p := range m.posts {
		if p.Kind == models.PostKindBlogPost && p.IsPublished() {
			t := p.CreatedOn.UTC()
			counts[[2]int{t.Year(), int(t.Month())}]++
		}
	}
	var out []models.ArchiveMonth
	for ym, n := range counts {
		out = append(out, models.ArchiveMonth{Year: ym[0], Month: ym[1], Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	return out, nil
}

func (m *memPosts) CountPublished(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.posts {
		if p.Kind == models.PostKindBlogPost && p.IsPublished() {
			n++
		}
	}
	return n, nil
}

// memCategories is an in-memory CategoryRepository. conflicts makes the next
// Create calls fail with a unique violation after a concurrent writer
// "takes" the slug.
type memCategories struct {
	cats      []models.Category
	conflicts int
	creates   int
	calls     int
	deleted   [2]uuid.UUID
}

func (m *memCategories) List(context.Context) ([]models.Category, error) {
	m.calls++
	return slices.Clone(m.cats), nil
}

func (m *memCategories) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	m.calls++
	for _, c := range m.cats {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memCategories) Create(_ context.Context, c *models.Category) error {
	m.calls++
	m.creates++
	if m.conflicts > 0 {
		m.conflicts--
		m.cats = append(m.cats, models.Category{ID: uuid.New(), Title: "concurrent " + c.Slug, Slug: c.Slug})
		return apperr.Conflictf("category slug %q is taken", c.Slug)
	}
	c.ID = uuid.New()
	m.cats = append(m.cats, *c)
	return nil
}

func (m *memCategories) Update(_ context.Context, c *models.Category) error {
	m.calls++
	for i := range m.cats {
		if m.cats[i].ID == c.ID {
			m.cats[i] = *c
			return nil
		}
	}
	return apperr.NotFoundf("category %s", c.ID)
}

func (m *memCategories) Delete(_ context.Context, id, reassignTo uuid.UUID) error {
	m.calls++
	m.deleted = [2]uuid.UUID{id, reassignTo}
	m.cats = slices.DeleteFunc(m.cats, func(c models.Category) bool { return c.ID == id })
	return nil
}

// memTags is an in-memory TagRepository.
type memTags struct {
	tags    []models.Tag
	creates int
}

func (m *memTags) List(context.Context) ([]models.Tag, error) {
	return slices.Clone(m.tags), nil
}

func (m *memTags) FindByID(_ context.Context, id uuid.UUID) (*models.Tag, error) {
	for _, t := range m.tags {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, nil
}

func (m *memTags) Create(_ context.Context, t *models.Tag) error {
	m.creates++
	for _, existing := range m.tags {
		if existing.Slug == t.Slug {
			return apperr.Conflictf("tag slug %q is taken", t.Slug)
		}
	}
	t.ID = uuid.New()
	m.tags = append(m.tags, *t)
	return nil
}

func (m *memTags) Update(_ context.Context, t *models.Tag) error {
	for i := range m.tags {
		if m.tags[i].ID == t.ID {
			m.tags[i] = *t
			return nil
		}
	}
	return apperr.NotFoundf("tag %s", t.ID)
}

func (m *memTags) Delete(_ context.Context, id uuid.UUID) error {
	m.tags = slices.DeleteFunc(m.tags, func(t models.Tag) bool { return t.ID == id })
	return nil
}

type memSettings struct {
	blog  models.BlogSettings
	saves int
}

func (m *memSettings) BlogSettings(context.Context) (models.BlogSettings, error) {
	return m.blog, nil
}

func (m *memSettings) SaveBlogSettings(_ context.Context, s models.BlogSettings) error {
	m.saves++
	m.blog = s
	return nil
}

// markRewriter tags every image so tests can tell rewritten bodies apart.
type markRewriter struct{}

func (markRewriter) Rewrite(_ context.Context, body string) string {
	return strings.ReplaceAll(body, "<img ", `<img data-rewritten="1" `)
}
