package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"memehub/feed"
	"memehub/models"
)

const maxPageSize = 50

func feedRequestFromQuery(c *gin.Context) feed.Request {
	pageSize := 0
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= maxPageSize {
			pageSize = n
		}
	}
	return feed.Request{
		Sort:      feed.SortKey(c.DefaultQuery("sort", string(feed.SortNewest))),
		Tab:       feed.Tab(c.DefaultQuery("tab", string(feed.TabAll))),
		Search:    c.Query("q"),
		Category:  c.Query("category"),
		Language:  c.Query("language"),
		MediaType: c.Query("mediaType"),
		Uploaded:  feed.Window(c.DefaultQuery("uploaded", string(feed.WindowAll))),
		PageSize:  pageSize,
	}
}

// GetFeed serves one page of the home grid. The cursor query parameter
// continues a previous page; a cursor minted under different filters is
// ignored and pagination restarts.
func GetFeed(c *gin.Context) {
	req := feedRequestFromQuery(c)

	sess, err := feed.ResumeSession(feedStore, req, c.Query("cursor"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed cursor"})
		return
	}

	ctx, cancel := opCtx()
	defer cancel()

	// Items delivered by earlier requests, carried in the cursor. The ad
	// rhythm continues from there rather than restarting per page.
	before := sess.Shown()

	added, err := sess.LoadNextPage(ctx)
	if err != nil {
		log.Printf("GetFeed load error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":      feed.InterleaveAdsAt(added, feed.GridAdGap, before),
		"count":      len(added),
		"nextCursor": sess.CursorToken(),
		"hasMore":    sess.HasMore(),
	})
}

// GetReels serves a shuffled batch for the short-video feed. The hero query
// parameter front-loads the clip the viewer tapped on a previous screen.
func GetReels(c *gin.Context) {
	req := feedRequestFromQuery(c)
	req.MediaType = models.MediaVideo

	sess, err := feed.ResumeReelsSession(feedStore, req, c.Query("cursor"), time.Now().UnixNano())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed cursor"})
		return
	}

	ctx, cancel := opCtx()
	defer cancel()

	batch, err := sess.LoadBatch(ctx, c.Query("hero"))
	heroMissing := false
	if err != nil {
		// A vanished hero is not fatal: the batch is intact, the client
		// just cannot pin the requested clip to the front.
		if !errors.Is(err, feed.ErrNotFound) {
			log.Printf("GetReels load error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reels"})
			return
		}
		heroMissing = true
	}

	c.JSON(http.StatusOK, gin.H{
		"items":       feed.InterleaveAdsRandom(batch, sess.Rand()),
		"count":       len(batch),
		"nextCursor":  sess.CursorToken(),
		"hasMore":     sess.HasMore(),
		"heroMissing": heroMissing,
	})
}
