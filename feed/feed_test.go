package feed

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"memehub/models"
)

// --- Test doubles ---

// mockStore lets each test override just the calls it cares about.
type mockStore struct {
	queryPageFn    func(ctx context.Context, sortField string, descending bool, after *Cursor, limit int) (*Page, error)
	getByIDFn      func(ctx context.Context, id string) (*models.Post, error)
	updateFieldsFn func(ctx context.Context, id string, update FieldUpdate) error
}

func (m *mockStore) QueryPage(ctx context.Context, sortField string, descending bool, after *Cursor, limit int) (*Page, error) {
	if m.queryPageFn != nil {
		return m.queryPageFn(ctx, sortField, descending, after, limit)
	}
	return &Page{}, nil
}

func (m *mockStore) GetByID(ctx context.Context, id string) (*models.Post, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, ErrNotFound
}

func (m *mockStore) UpdateFields(ctx context.Context, id string, update FieldUpdate) error {
	if m.updateFieldsFn != nil {
		return m.updateFieldsFn(ctx, id, update)
	}
	return nil
}

func (m *mockStore) Insert(ctx context.Context, post *models.Post) (string, error) {
	return post.ID.Hex(), nil
}

func (m *mockStore) Delete(ctx context.Context, id string) error { return nil }

// memStore paginates over a fixed slice the way the Mongo store does:
// ordered by (sortField, id), resuming strictly after the cursor position.
type memStore struct {
	posts   []models.Post
	queries int
	failOn  int // 1-based query index to fail at, 0 = never
}

func (m *memStore) QueryPage(ctx context.Context, sortField string, descending bool, after *Cursor, limit int) (*Page, error) {
	m.queries++
	if m.failOn > 0 && m.queries == m.failOn {
		return nil, fmt.Errorf("backend unavailable")
	}

	ordered := append([]models.Post(nil), m.posts...)
	sort.SliceStable(ordered, func(i, j int) bool {
		vi, vj := testSortValue(&ordered[i], sortField), testSortValue(&ordered[j], sortField)
		if vi == vj {
			less := ordered[i].ID.Hex() < ordered[j].ID.Hex()
			if descending {
				return !less
			}
			return less
		}
		if descending {
			return vi > vj
		}
		return vi < vj
	})

	start := 0
	if after != nil {
		for i := range ordered {
			if ordered[i].ID.Hex() == after.LastID {
				start = i + 1
				break
			}
		}
	}

	end := start + limit
	if end > len(ordered) {
		end = len(ordered)
	}
	items := append([]models.Post(nil), ordered[start:end]...)

	page := &Page{Items: items, RawCount: len(items)}
	if len(items) > 0 {
		last := items[len(items)-1]
		v := testSortValue(&last, sortField)
		page.Next = &Cursor{LastID: last.ID.Hex(), IntVal: &v}
	}
	return page, nil
}

func (m *memStore) GetByID(ctx context.Context, id string) (*models.Post, error) {
	for i := range m.posts {
		if m.posts[i].ID.Hex() == id {
			p := m.posts[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) UpdateFields(ctx context.Context, id string, update FieldUpdate) error {
	for i := range m.posts {
		if m.posts[i].ID.Hex() != id {
			continue
		}
		p := &m.posts[i]
		for field, delta := range update.Inc {
			switch field {
			case "views":
				p.Views += delta
			case "downloads":
				p.Downloads += delta
			case "reactions.count":
				p.Reactions.Count += delta
			}
		}
		for field, v := range update.AddToSet {
			if field == "reactions.reactedBy" && !p.ReactedByUser(v) {
				p.Reactions.ReactedBy = append(p.Reactions.ReactedBy, v)
			}
		}
		for field, v := range update.Pull {
			if field == "reactions.reactedBy" {
				kept := p.Reactions.ReactedBy[:0]
				for _, member := range p.Reactions.ReactedBy {
					if member != v {
						kept = append(kept, member)
					}
				}
				p.Reactions.ReactedBy = kept
			}
		}
		for field, v := range update.Set {
			if field == "status" {
				p.Status = v.(string)
			}
		}
		return nil
	}
	return ErrNotFound
}

func (m *memStore) Insert(ctx context.Context, post *models.Post) (string, error) {
	m.posts = append(m.posts, *post)
	return post.ID.Hex(), nil
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	for i := range m.posts {
		if m.posts[i].ID.Hex() == id {
			m.posts = append(m.posts[:i], m.posts[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func testSortValue(p *models.Post, field string) int64 {
	switch field {
	case "views":
		return p.Views
	case "downloads":
		return p.Downloads
	case "reactions.count":
		return p.Reactions.Count
	default:
		return p.CreatedAt
	}
}

// --- Fixtures ---

func oid(n int) primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(fmt.Sprintf("%024x", n+1))
	if err != nil {
		panic(err)
	}
	return id
}

func publishedPost(n int) models.Post {
	return models.Post{
		ID:        oid(n),
		Title:     fmt.Sprintf("meme %d", n),
		MediaType: models.MediaImage,
		FileURL:   fmt.Sprintf("https://cdn.example.com/meme-%d.jpg", n),
		Status:    models.StatusPublished,
		CreatedAt: int64(100000 - n), // n == 0 is the newest
		Reactions: models.Reactions{ReactedBy: []string{}},
	}
}

func makePosts(n int) []models.Post {
	posts := make([]models.Post, n)
	for i := range posts {
		posts[i] = publishedPost(i)
	}
	return posts
}

func collectIDs(posts []models.Post) []string {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID.Hex()
	}
	return ids
}
