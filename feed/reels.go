package feed

import (
	"context"
	"math/rand"

	"memehub/models"
)

// PrefetchMargin is how close to the end of the loaded list the viewer may
// scroll before the next page is fetched proactively.
const PrefetchMargin = 5

// ReelsSession is the short-video variant of a feed session: each fetched
// batch is shuffled once before display, a hero post handed over from a
// previous screen can be forced to the front, and the next page loads
// before the viewer reaches the end.
type ReelsSession struct {
	*Session
	rng *rand.Rand
}

// NewReelsSession starts a reels session. The seed fixes the shuffle and ad
// gaps, which keeps tests deterministic; pass time.Now().UnixNano() in
// production.
func NewReelsSession(store PostStore, req Request, seed int64) *ReelsSession {
	return &ReelsSession{
		Session: NewSession(store, req),
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// ResumeReelsSession continues a reels feed from a cursor token.
func ResumeReelsSession(store PostStore, req Request, token string, seed int64) (*ReelsSession, error) {
	s, err := ResumeSession(store, req, token)
	if err != nil {
		return nil, err
	}
	return &ReelsSession{Session: s, rng: rand.New(rand.NewSource(seed))}, nil
}

// LoadBatch fetches the next page and shuffles the newly added clips.
// heroID, when non-empty, names a post that must end up first: if the
// shuffled batch already contains it it is moved to the front, otherwise it
// is fetched individually and prepended. A missing hero is reported as
// ErrNotFound with the rest of the batch intact.
func (r *ReelsSession) LoadBatch(ctx context.Context, heroID string) ([]models.Post, error) {
	added, err := r.LoadNextPage(ctx)
	if err != nil {
		return nil, err
	}
	fetched := len(added)
	shuffle(added, r.rng)

	var heroErr error
	if heroID != "" && !moveToFront(added, heroID) {
		hero, err := r.store.GetByID(ctx, heroID)
		switch {
		case err != nil:
			heroErr = err
		case hero.Status != models.StatusPublished:
			heroErr = ErrNotFound
		default:
			added = append([]models.Post{*hero}, added...)
			r.seen[heroID] = true
		}
	}

	// LoadNextPage appended the batch in fetch order; swap that tail for
	// the shuffled (and possibly hero-fronted) version so the accumulated
	// list mirrors the display order the viewer scrolls.
	r.items = append(r.items[:len(r.items)-fetched], added...)
	return added, heroErr
}

// ShouldPrefetch reports whether the viewer's position is close enough to
// the end of the loaded list to warrant fetching the next page now.
func (r *ReelsSession) ShouldPrefetch(position int) bool {
	return r.HasMore() && position >= len(r.items)-PrefetchMargin
}

// MaybePrefetch loads the next batch when the position crosses the
// prefetch margin. The new clips are shuffled and appended.
func (r *ReelsSession) MaybePrefetch(ctx context.Context, position int) ([]models.Post, error) {
	if !r.ShouldPrefetch(position) {
		return nil, nil
	}
	return r.LoadBatch(ctx, "")
}

// Rand exposes the session's RNG so ad interleaving shares the seed.
func (r *ReelsSession) Rand() *rand.Rand { return r.rng }

// shuffle is an in-place Fisher–Yates over one batch.
func shuffle(posts []models.Post, rng *rand.Rand) {
	for i := len(posts) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		posts[i], posts[j] = posts[j], posts[i]
	}
}

// moveToFront rotates the post with the given id to index 0, preserving
// each other clip exactly once. Returns false when the id is absent.
func moveToFront(posts []models.Post, id string) bool {
	for i := range posts {
		if posts[i].ID.Hex() == id {
			hero := posts[i]
			copy(posts[1:i+1], posts[0:i])
			posts[0] = hero
			return true
		}
	}
	return false
}
