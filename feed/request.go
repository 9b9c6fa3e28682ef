package feed

import (
	"fmt"
	"strings"
	"time"
)

// DefaultPageSize is the fixed server page size for one fetch.
const DefaultPageSize = 25

// SortKey is one of the finite sort presets offered by the UI.
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortOldest    SortKey = "oldest"
	SortPopular   SortKey = "popular"
	SortAZ        SortKey = "a_z"
	SortDownloads SortKey = "downloads"
	SortReacted   SortKey = "reacted"
)

// Field resolves the preset to the stored field and direction the backend
// query is ordered by.
func (k SortKey) Field() (field string, descending bool) {
	switch k {
	case SortOldest:
		return "createdAt", false
	case SortPopular:
		return "views", true
	case SortAZ:
		return "title", false
	case SortDownloads:
		return "downloads", true
	case SortReacted:
		return "reactions.count", true
	default:
		return "createdAt", true
	}
}

func (k SortKey) valid() bool {
	switch k {
	case SortNewest, SortOldest, SortPopular, SortAZ, SortDownloads, SortReacted:
		return true
	}
	return false
}

// Tab is a coarse category preset. Media tabs narrow by media type; the
// engagement tabs re-sort a newest-ordered page in memory after fetch.
type Tab string

const (
	TabAll            Tab = "all"
	TabTrending       Tab = "trending"
	TabRecent         Tab = "recent"
	TabMostDownloaded Tab = "most_downloaded"
	TabViral          Tab = "viral"
	TabImage          Tab = "image"
	TabVideo          Tab = "video"
	TabAudio          Tab = "audio"
)

func (t Tab) valid() bool {
	switch t {
	case TabAll, TabTrending, TabRecent, TabMostDownloaded, TabViral, TabImage, TabVideo, TabAudio:
		return true
	}
	return false
}

// resortField is the field an engagement tab re-orders a fetched page by
// when the base sort is "newest". Empty means fetch order is kept.
func (t Tab) resortField() string {
	switch t {
	case TabTrending, TabMostDownloaded:
		return "downloads"
	case TabViral:
		return "views"
	}
	return ""
}

// Window is an upload-age filter computed against the wall clock.
type Window string

const (
	WindowHour  Window = "1h"
	WindowToday Window = "today"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowYear  Window = "year"
	WindowAll   Window = "all"
)

// CutoffUnix returns the oldest acceptable createdAt, or 0 for no cutoff.
func (w Window) CutoffUnix(now time.Time) int64 {
	switch w {
	case WindowHour:
		return now.Add(-time.Hour).Unix()
	case WindowToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()).Unix()
	case WindowWeek:
		return now.AddDate(0, 0, -7).Unix()
	case WindowMonth:
		return now.AddDate(0, -1, 0).Unix()
	case WindowYear:
		return now.AddDate(-1, 0, 0).Unix()
	}
	return 0
}

// Request describes one feed configuration. Any change to any field
// invalidates cursors produced under the previous configuration.
type Request struct {
	Sort      SortKey
	Tab       Tab
	Search    string
	Category  string
	Language  string
	MediaType string
	Uploaded  Window
	PageSize  int
}

// Normalized fills defaults and lowercases the search term.
func (r Request) Normalized() Request {
	if !r.Sort.valid() {
		r.Sort = SortNewest
	}
	if !r.Tab.valid() {
		r.Tab = TabAll
	}
	if r.Uploaded == "" {
		r.Uploaded = WindowAll
	}
	if r.PageSize <= 0 {
		r.PageSize = DefaultPageSize
	}
	r.Search = strings.ToLower(strings.TrimSpace(r.Search))
	return r
}

// Fingerprint identifies the exact (sort, filter) configuration. Cursors
// embed it; a cursor whose fingerprint differs from the active request is
// stale and pagination restarts from the first page.
func (r Request) Fingerprint() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s|%d",
		r.Sort, r.Tab, r.Search, r.Category, r.Language, r.MediaType, r.Uploaded, r.PageSize)
}
