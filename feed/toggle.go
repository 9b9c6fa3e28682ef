package feed

import (
	"context"
	"fmt"

	"memehub/models"
)

// ToggleCommand is one optimistic mutation: apply the new value locally,
// commit it to the backend, and replay the previous value if the commit
// fails. After Run settles, the local copy and the backend never disagree.
// The same shape serves reaction, favorite and download-count toggles.
type ToggleCommand struct {
	Apply  func()
	Revert func()
	Commit func(ctx context.Context) error
}

// Run executes the command. On commit failure the local state is reverted
// and the error returned; the caller decides whether to retry.
func (c ToggleCommand) Run(ctx context.Context) error {
	c.Apply()
	if err := c.Commit(ctx); err != nil {
		c.Revert()
		return fmt.Errorf("toggle commit: %w", err)
	}
	return nil
}

// ReactionUpdate builds the field update that flips the viewer's reaction
// on a post, given the post's current known state: set membership and the
// paired counter move together in one atomic update. The counter only ever
// decrements when the membership is present, so it cannot go negative.
func ReactionUpdate(post *models.Post, userID string) (update FieldUpdate, nowReacted bool) {
	if post.ReactedByUser(userID) {
		return FieldUpdate{
			Inc:  map[string]int64{"reactions.count": -1},
			Pull: map[string]string{"reactions.reactedBy": userID},
		}, false
	}
	return FieldUpdate{
		Inc:      map[string]int64{"reactions.count": 1},
		AddToSet: map[string]string{"reactions.reactedBy": userID},
	}, true
}

// ToggleReaction flips the viewer's reaction on a post held in the session
// list. The list entry is updated optimistically and snapped back if the
// backend write fails. Rapid re-toggling before the first call settles is a
// caller error: the command always flips the current known state.
func (s *Session) ToggleReaction(ctx context.Context, postID, userID string) (reacted bool, count int64, err error) {
	idx := -1
	for i := range s.items {
		if s.items[i].ID.Hex() == postID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, 0, ErrNotFound
	}

	prev := s.items[idx].Reactions
	prev.ReactedBy = append([]string(nil), prev.ReactedBy...)

	update, nowReacted := ReactionUpdate(&s.items[idx], userID)
	cmd := ToggleCommand{
		Apply: func() {
			r := &s.items[idx].Reactions
			if nowReacted {
				r.ReactedBy = append(r.ReactedBy, userID)
				r.Count++
			} else {
				r.ReactedBy = removeString(r.ReactedBy, userID)
				r.Count--
			}
		},
		Revert: func() { s.items[idx].Reactions = prev },
		Commit: func(ctx context.Context) error {
			return s.store.UpdateFields(ctx, postID, update)
		},
	}
	if err := cmd.Run(ctx); err != nil {
		return false, 0, err
	}
	return nowReacted, s.items[idx].Reactions.Count, nil
}

func removeString(list []string, v string) []string {
	out := list[:0]
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}
