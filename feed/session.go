package feed

import (
	"context"
	"fmt"
	"time"

	"memehub/models"
)

// Session owns the accumulated state of one feed view: the display list,
// the continuation cursor and the has-more flag. All transitions go through
// its methods; there is no other mutation path. A session is not safe for
// concurrent use; feeds are driven by a single logical flow.
type Session struct {
	store PostStore
	req   Request
	now   func() time.Time

	items   []models.Post
	seen    map[string]bool
	cursor  *Cursor
	shown   int
	hasMore bool
	started bool
	loading bool
}

// NewSession starts a fresh feed session for the given configuration.
func NewSession(store PostStore, req Request) *Session {
	return &Session{
		store: store,
		req:   req.Normalized(),
		now:   time.Now,
		seen:  make(map[string]bool),
	}
}

// ResumeSession continues pagination from an opaque cursor token, as a
// stateless HTTP handler does between requests. A token minted under a
// different configuration is stale: the session silently restarts from the
// first page. A malformed token is reported as ErrBadCursor.
func ResumeSession(store PostStore, req Request, token string) (*Session, error) {
	s := NewSession(store, req)
	cur, err := DecodeCursor(token)
	if err != nil {
		return nil, err
	}
	if cur != nil && cur.Fingerprint == s.req.Fingerprint() {
		s.cursor = cur
		s.shown = cur.Shown
		s.started = true
		s.hasMore = true
	}
	return s, nil
}

// Items returns the accumulated display list in order.
func (s *Session) Items() []models.Post { return s.items }

// Shown reports how many visible items the feed has delivered so far. It
// survives cursor resumption, so ad interleaving can keep its slot rhythm
// continuous across page boundaries.
func (s *Session) Shown() int { return s.shown }

// HasMore reports whether another page may exist server-side. It is derived
// from the raw size of the last fetch, so it can be true even when the last
// page filtered down to nothing visible.
func (s *Session) HasMore() bool {
	if !s.started {
		return true
	}
	return s.hasMore
}

// CursorToken returns the opaque continuation token for the current
// position, or "" before the first page.
func (s *Session) CursorToken() string { return s.cursor.Token() }

// Request returns the active configuration.
func (s *Session) Request() Request { return s.req }

// ApplyFilter switches the session to a new configuration. Any actual
// change discards the accumulated list and cursor; re-applying an identical
// configuration keeps everything.
func (s *Session) ApplyFilter(req Request) {
	req = req.Normalized()
	if req.Fingerprint() == s.req.Fingerprint() {
		return
	}
	s.req = req
	s.items = nil
	s.seen = make(map[string]bool)
	s.cursor = nil
	s.shown = 0
	s.hasMore = false
	s.started = false
}

// LoadNextPage fetches and assembles the next page, appends the visible
// results to the accumulated list and returns just the newly added posts.
// While a load is in flight, or once the feed is exhausted, it is a no-op.
// On a failed fetch the list, cursor and has-more flag are left exactly as
// they were, so the caller can retry without losing loaded content.
func (s *Session) LoadNextPage(ctx context.Context) ([]models.Post, error) {
	if s.loading {
		return nil, nil
	}
	if s.started && !s.hasMore {
		return nil, nil
	}
	s.loading = true
	defer func() { s.loading = false }()

	field, desc := s.req.Sort.Field()
	page, err := s.store.QueryPage(ctx, field, desc, s.cursor, s.req.PageSize)
	if err != nil {
		return nil, fmt.Errorf("load page: %w", err)
	}

	visible := Filter(page.Items, s.req, s.now())
	ResortForTab(visible, s.req)

	added := make([]models.Post, 0, len(visible))
	for _, p := range visible {
		id := p.ID.Hex()
		if s.seen[id] {
			continue
		}
		s.seen[id] = true
		added = append(added, p)
	}
	s.items = append(s.items, added...)
	s.shown += len(added)

	// Advance only after a successful fetch. The cursor tracks the raw
	// page, not the filtered one, and has-more likewise comes from the raw
	// count: a short raw page means the collection is exhausted.
	if page.Next != nil {
		page.Next.Fingerprint = s.req.Fingerprint()
		page.Next.Shown = s.shown
	}
	s.cursor = page.Next
	s.hasMore = page.RawCount == s.req.PageSize
	s.started = true
	return added, nil
}
