package feed

import (
	"math/rand"

	"github.com/google/uuid"

	"memehub/models"
)

// GridAdGap puts a sponsored slot after every 5th real item in the grid.
const GridAdGap = 5

// Reels use a randomized gap so sponsored clips do not land on a rhythm.
const (
	reelsAdGapMin = 15
	reelsAdGapMax = 30
)

// DisplayItem is one slot of a rendered feed: either a real post or a
// sponsored placeholder. Placeholders are a pure presentation transform:
// they never touch the pagination cursor and are recomputed whenever the
// underlying list changes.
type DisplayItem struct {
	Post      *models.Post `json:"post,omitempty"`
	Sponsored bool         `json:"sponsored"`
	SlotID    string       `json:"slotId,omitempty"`
}

// InterleaveAds inserts a sponsored placeholder after every gap-th real
// item. The input list is untouched.
func InterleaveAds(posts []models.Post, gap int) []DisplayItem {
	return InterleaveAdsAt(posts, gap, 0)
}

// InterleaveAdsAt interleaves one page of a longer list: offset is the
// number of real items already delivered, so the gap rhythm carries across
// page boundaries instead of restarting on every page.
func InterleaveAdsAt(posts []models.Post, gap, offset int) []DisplayItem {
	if gap <= 0 {
		gap = GridAdGap
	}
	if offset < 0 {
		offset = 0
	}
	out := make([]DisplayItem, 0, len(posts)+len(posts)/gap+1)
	for i := range posts {
		out = append(out, DisplayItem{Post: &posts[i]})
		if (offset+i+1)%gap == 0 {
			out = append(out, sponsoredSlot())
		}
	}
	return out
}

// InterleaveAdsRandom inserts sponsored placeholders at randomized gaps in
// [15,30], for the reels feed.
func InterleaveAdsRandom(posts []models.Post, rng *rand.Rand) []DisplayItem {
	out := make([]DisplayItem, 0, len(posts)+len(posts)/reelsAdGapMin)
	next := reelsAdGap(rng)
	run := 0
	for i := range posts {
		out = append(out, DisplayItem{Post: &posts[i]})
		run++
		if run == next {
			out = append(out, sponsoredSlot())
			run = 0
			next = reelsAdGap(rng)
		}
	}
	return out
}

// StripAds reconstructs the real post list from a display list, in order.
func StripAds(items []DisplayItem) []models.Post {
	out := make([]models.Post, 0, len(items))
	for _, it := range items {
		if it.Sponsored || it.Post == nil {
			continue
		}
		out = append(out, *it.Post)
	}
	return out
}

func sponsoredSlot() DisplayItem {
	return DisplayItem{Sponsored: true, SlotID: uuid.NewString()}
}

func reelsAdGap(rng *rand.Rand) int {
	return reelsAdGapMin + rng.Intn(reelsAdGapMax-reelsAdGapMin+1)
}
