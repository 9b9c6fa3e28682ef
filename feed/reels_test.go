package feed

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"memehub/models"
)

func reelsRequest() Request {
	return Request{Sort: SortNewest, MediaType: models.MediaVideo, PageSize: 10}
}

func videoPosts(n int) []models.Post {
	posts := makePosts(n)
	for i := range posts {
		posts[i].MediaType = models.MediaVideo
	}
	return posts
}

func TestLoadBatch_ShuffleKeepsEveryClipOnce(t *testing.T) {
	store := &memStore{posts: videoPosts(10)}
	sess := NewReelsSession(store, reelsRequest(), 1)

	batch, err := sess.LoadBatch(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(batch) != 10 {
		t.Fatalf("batch = %d, want 10", len(batch))
	}

	seen := make(map[string]bool)
	for _, id := range collectIDs(batch) {
		if seen[id] {
			t.Fatalf("clip %s duplicated by shuffle", id)
		}
		seen[id] = true
	}
}

func TestLoadBatch_HeroAlreadyInBatchMovesToFront(t *testing.T) {
	store := &memStore{posts: videoPosts(10)}
	hero := oid(4).Hex()

	sess := NewReelsSession(store, reelsRequest(), 7)
	batch, err := sess.LoadBatch(context.Background(), hero)
	if err != nil {
		t.Fatal(err)
	}

	if len(batch) != 10 {
		t.Fatalf("batch = %d, want 10 (hero must not duplicate)", len(batch))
	}
	if batch[0].ID.Hex() != hero {
		t.Fatalf("batch[0] = %s, want hero %s", batch[0].ID.Hex(), hero)
	}

	counts := make(map[string]int)
	for _, id := range collectIDs(batch) {
		counts[id]++
	}
	for id, n := range counts {
		if n != 1 {
			t.Errorf("clip %s appears %d times", id, n)
		}
	}
}

func TestLoadBatch_HeroFetchedWhenAbsent(t *testing.T) {
	posts := videoPosts(30) // hero lands on the second page, not the first
	store := &memStore{posts: posts}
	hero := oid(12).Hex()

	sess := NewReelsSession(store, reelsRequest(), 3)
	batch, err := sess.LoadBatch(context.Background(), hero)
	if err != nil {
		t.Fatal(err)
	}

	if len(batch) != 11 {
		t.Fatalf("batch = %d, want 10 clips + prepended hero", len(batch))
	}
	if batch[0].ID.Hex() != hero {
		t.Fatalf("batch[0] = %s, want hero", batch[0].ID.Hex())
	}

	// The hero is marked seen, so a later page cannot repeat it.
	next, err := sess.LoadBatch(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range collectIDs(next) {
		if id == hero {
			t.Fatal("hero repeated on a later page")
		}
	}
}

func TestLoadBatch_MissingHeroKeepsBatch(t *testing.T) {
	store := &memStore{posts: videoPosts(10)}
	missing := oid(999).Hex()

	sess := NewReelsSession(store, reelsRequest(), 5)
	batch, err := sess.LoadBatch(context.Background(), missing)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if len(batch) != 10 {
		t.Fatalf("batch discarded on missing hero: %d items", len(batch))
	}
}

func TestLoadBatch_PendingHeroReportedMissing(t *testing.T) {
	posts := videoPosts(12)
	posts[11].Status = models.StatusPending
	store := &memStore{posts: posts}

	sess := NewReelsSession(store, reelsRequest(), 5)
	_, err := sess.LoadBatch(context.Background(), oid(11).Hex())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for an unpublished hero", err)
	}
}

func TestShouldPrefetch(t *testing.T) {
	store := &memStore{posts: videoPosts(40)}
	req := reelsRequest()
	req.PageSize = 25

	sess := NewReelsSession(store, req, 9)
	if _, err := sess.LoadBatch(context.Background(), ""); err != nil {
		t.Fatal(err)
	}
	// 25 loaded, margin 5: prefetch from position 20 on.
	if sess.ShouldPrefetch(19) {
		t.Error("prefetch fired too early at position 19")
	}
	if !sess.ShouldPrefetch(20) {
		t.Error("prefetch did not fire at position 20")
	}

	added, err := sess.MaybePrefetch(context.Background(), 22)
	if err != nil {
		t.Fatal(err)
	}
	if len(added) != 15 {
		t.Errorf("prefetched = %d, want the remaining 15", len(added))
	}

	// Exhausted now; no further prefetch regardless of position.
	if sess.ShouldPrefetch(len(sess.Items()) - 1) {
		t.Error("prefetch offered with no more pages")
	}
}

func TestMaybePrefetch_NoopFarFromEnd(t *testing.T) {
	store := &memStore{posts: videoPosts(40)}
	req := reelsRequest()
	req.PageSize = 25

	sess := NewReelsSession(store, req, 11)
	if _, err := sess.LoadBatch(context.Background(), ""); err != nil {
		t.Fatal(err)
	}
	added, err := sess.MaybePrefetch(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if added != nil {
		t.Errorf("prefetch fired at position 3 with 25 loaded")
	}
}

func TestShuffleIsDeterministicPerSeed(t *testing.T) {
	a := videoPosts(10)
	b := videoPosts(10)
	shuffle(a, rand.New(rand.NewSource(99)))
	shuffle(b, rand.New(rand.NewSource(99)))
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatal("same seed produced different shuffles")
		}
	}
}
