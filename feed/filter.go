package feed

import (
	"sort"
	"strings"
	"time"

	"memehub/models"
)

// Filter runs the in-memory filter pipeline over one raw fetched page, in
// order: published-only, search term, structured filters, category tab.
// Filtering always happens after the fetch because the backend can only
// order and range over a single field; a raw page may legitimately filter
// down to zero visible items while more data exists server-side.
func Filter(posts []models.Post, req Request, now time.Time) []models.Post {
	req = req.Normalized()
	cutoff := req.Uploaded.CutoffUnix(now)

	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if p.Status != models.StatusPublished {
			continue
		}
		if req.Search != "" && !matchesSearch(&p, req.Search) {
			continue
		}
		if req.Category != "" && !strings.EqualFold(p.Category, req.Category) {
			continue
		}
		if req.Language != "" && !strings.EqualFold(p.Language, req.Language) {
			continue
		}
		if req.MediaType != "" && p.MediaType != req.MediaType {
			continue
		}
		if cutoff > 0 && p.CreatedAt < cutoff {
			continue
		}
		if !tabMatches(&p, req.Tab, now) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ResortForTab applies the engagement tab's implied order to an already
// filtered page. It only fires when the base sort is the default "newest";
// any explicit sort preset wins over the tab. The sort is stable so ties
// keep their fetch order.
func ResortForTab(posts []models.Post, req Request) {
	req = req.Normalized()
	if req.Sort != SortNewest {
		return
	}
	switch req.Tab.resortField() {
	case "downloads":
		sort.SliceStable(posts, func(i, j int) bool { return posts[i].Downloads > posts[j].Downloads })
	case "views":
		sort.SliceStable(posts, func(i, j int) bool { return posts[i].Views > posts[j].Views })
	}
}

// matchesSearch does a case-insensitive substring match over the title and
// the tag fields. term is already lowercased by Normalized.
func matchesSearch(p *models.Post, term string) bool {
	if strings.Contains(strings.ToLower(p.Title), term) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Category), term) {
		return true
	}
	return strings.Contains(strings.ToLower(p.Language), term)
}

func tabMatches(p *models.Post, tab Tab, now time.Time) bool {
	switch tab {
	case TabImage:
		return p.MediaType == models.MediaImage
	case TabVideo:
		return p.MediaType == models.MediaVideo
	case TabAudio:
		return p.MediaType == models.MediaAudio
	case TabRecent:
		return p.CreatedAt >= now.AddDate(0, 0, -7).Unix()
	}
	// all / trending / viral / most_downloaded do not narrow the page,
	// they only affect ordering.
	return true
}
