package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"memehub/database"
	"memehub/feed"
	"memehub/models"
)

func requireAdmin(c *gin.Context) *models.User {
	ctx, cancel := opCtx()
	defer cancel()

	user, err := loadUser(ctx, c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user"})
		return nil
	}
	if !user.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return nil
	}
	return user
}

// ListPendingPosts shows the moderation queue, oldest first.
func ListPendingPosts(c *gin.Context) {
	if requireAdmin(c) == nil {
		return
	}

	ctx, cancel := opCtx()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}).SetLimit(100)
	cursor, err := database.Posts.Find(ctx, bson.M{"status": models.StatusPending}, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending posts"})
		return
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": posts, "count": len(posts)})
}

// ApprovePost promotes a pending post to published, making it eligible for
// the public feeds, and announces it to live viewers and push subscribers.
func ApprovePost(c *gin.Context) {
	if requireAdmin(c) == nil {
		return
	}

	ctx, cancel := opCtx()
	defer cancel()

	postID := c.Param("id")
	err := feedStore.UpdateFields(ctx, postID, feed.FieldUpdate{
		Set: map[string]interface{}{"status": models.StatusPublished},
	})
	if errors.Is(err, feed.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		log.Printf("ApprovePost error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve post"})
		return
	}

	post, err := feedStore.GetByID(ctx, postID)
	if err == nil {
		if wsManager != nil {
			wsManager.BroadcastPostPublished(post)
		}
		go notifyPublished(post)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post published"})
}
