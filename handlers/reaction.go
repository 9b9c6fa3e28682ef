package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"memehub/feed"
)

// ToggleReaction flips the viewer's reaction on a post. Membership in the
// reactedBy set and the paired counter move in one atomic update, so a
// double toggle after settling always lands back on the original state.
func ToggleReaction(c *gin.Context) {
	userID := c.GetString("userId")
	postID := c.Param("id")

	ctx, cancel := opCtx()
	defer cancel()

	post, err := feedStore.GetByID(ctx, postID)
	if errors.Is(err, feed.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	update, nowReacted := feed.ReactionUpdate(post, userID)
	if err := feedStore.UpdateFields(ctx, postID, update); err != nil {
		log.Printf("ToggleReaction error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update reaction"})
		return
	}

	count := post.Reactions.Count
	if nowReacted {
		count++
	} else {
		count--
	}

	if wsManager != nil {
		wsManager.BroadcastReaction(postID, count)
	}

	c.JSON(http.StatusOK, gin.H{
		"reacted": nowReacted,
		"count":   count,
	})
}
