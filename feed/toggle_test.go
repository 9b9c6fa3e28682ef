package feed

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func loadedSession(t *testing.T, store PostStore) *Session {
	t.Helper()
	sess := NewSession(store, Request{Sort: SortNewest})
	if _, err := sess.LoadNextPage(context.Background()); err != nil {
		t.Fatal(err)
	}
	return sess
}

func TestToggleReaction_IdempotentUnderSettle(t *testing.T) {
	store := &memStore{posts: makePosts(5)}
	store.posts[2].Reactions.Count = 7
	sess := loadedSession(t, store)

	target := oid(2).Hex()
	user := "viewer-1"

	reacted, count, err := sess.ToggleReaction(context.Background(), target, user)
	if err != nil {
		t.Fatal(err)
	}
	if !reacted || count != 8 {
		t.Fatalf("first toggle: reacted=%v count=%d, want true/8", reacted, count)
	}

	// The backend copy moved with the local one.
	stored, _ := store.GetByID(context.Background(), target)
	if stored.Reactions.Count != 8 || !stored.ReactedByUser(user) {
		t.Fatalf("store after first toggle: count=%d reacted=%v", stored.Reactions.Count, stored.ReactedByUser(user))
	}

	// Toggling again after settling returns to the original state.
	reacted, count, err = sess.ToggleReaction(context.Background(), target, user)
	if err != nil {
		t.Fatal(err)
	}
	if reacted || count != 7 {
		t.Fatalf("second toggle: reacted=%v count=%d, want false/7", reacted, count)
	}
	stored, _ = store.GetByID(context.Background(), target)
	if stored.Reactions.Count != 7 || stored.ReactedByUser(user) {
		t.Fatalf("store after second toggle: count=%d reacted=%v", stored.Reactions.Count, stored.ReactedByUser(user))
	}
}

func TestToggleReaction_RevertsOnCommitFailure(t *testing.T) {
	backing := &memStore{posts: makePosts(5)}
	backing.posts[1].Reactions.Count = 3
	backing.posts[1].Reactions.ReactedBy = []string{"someone-else"}

	store := &mockStore{
		queryPageFn: backing.QueryPage,
		updateFieldsFn: func(ctx context.Context, id string, update FieldUpdate) error {
			return fmt.Errorf("write timed out")
		},
	}
	sess := loadedSession(t, store)

	target := oid(1).Hex()
	if _, _, err := sess.ToggleReaction(context.Background(), target, "viewer-1"); err == nil {
		t.Fatal("expected commit failure")
	}

	// Local copy snapped back: counter and membership agree with the
	// pre-toggle state.
	var found bool
	for _, p := range sess.Items() {
		if p.ID.Hex() != target {
			continue
		}
		found = true
		if p.Reactions.Count != 3 {
			t.Errorf("count = %d after revert, want 3", p.Reactions.Count)
		}
		if p.ReactedByUser("viewer-1") {
			t.Error("membership survived the revert")
		}
		if !p.ReactedByUser("someone-else") {
			t.Error("revert clobbered another user's reaction")
		}
	}
	if !found {
		t.Fatal("target post missing from session")
	}
}

func TestToggleReaction_UnknownPost(t *testing.T) {
	store := &memStore{posts: makePosts(3)}
	sess := loadedSession(t, store)

	if _, _, err := sess.ToggleReaction(context.Background(), oid(99).Hex(), "viewer-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestReactionUpdate_Directions(t *testing.T) {
	posts := makePosts(1)
	post := &posts[0]

	update, nowReacted := ReactionUpdate(post, "u1")
	if !nowReacted {
		t.Fatal("fresh viewer should toggle on")
	}
	if update.Inc["reactions.count"] != 1 || update.AddToSet["reactions.reactedBy"] != "u1" {
		t.Errorf("toggle-on update = %+v", update)
	}

	post.Reactions.ReactedBy = []string{"u1"}
	update, nowReacted = ReactionUpdate(post, "u1")
	if nowReacted {
		t.Fatal("reacted viewer should toggle off")
	}
	if update.Inc["reactions.count"] != -1 || update.Pull["reactions.reactedBy"] != "u1" {
		t.Errorf("toggle-off update = %+v", update)
	}
}

func TestToggleCommand_RunOrder(t *testing.T) {
	var trace []string
	cmd := ToggleCommand{
		Apply:  func() { trace = append(trace, "apply") },
		Revert: func() { trace = append(trace, "revert") },
		Commit: func(ctx context.Context) error {
			trace = append(trace, "commit")
			return nil
		},
	}
	if err := cmd.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(trace) != 2 || trace[0] != "apply" || trace[1] != "commit" {
		t.Errorf("trace = %v, want [apply commit]", trace)
	}

	trace = nil
	cmd.Commit = func(ctx context.Context) error {
		trace = append(trace, "commit")
		return fmt.Errorf("boom")
	}
	if err := cmd.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(trace) != 3 || trace[2] != "revert" {
		t.Errorf("trace = %v, want revert after failed commit", trace)
	}
}
