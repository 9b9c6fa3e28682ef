package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"memehub/database"
	"memehub/models"
)

// ToggleSelection flips a post in the user's batch-download list. The list
// lives in Redis so it survives restarts and reloads.
func ToggleSelection(c *gin.Context) {
	userID := c.GetString("userId")
	postID := c.Param("postId")

	ctx, cancel := opCtx()
	defer cancel()

	selected, err := selections.Toggle(ctx, userID, postID)
	if err != nil {
		log.Printf("ToggleSelection error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update selection"})
		return
	}

	count, err := selections.Count(ctx, userID)
	if err != nil {
		count = -1
	}

	c.JSON(http.StatusOK, gin.H{
		"selected": selected,
		"count":    count,
	})
}

// GetSelection resolves the selected ids to post records so the download
// screen can show titles and thumbnails. Ids whose posts have since been
// deleted are skipped.
func GetSelection(c *gin.Context) {
	userID := c.GetString("userId")

	ctx, cancel := opCtx()
	defer cancel()

	idHexes, err := selections.List(ctx, userID)
	if err != nil {
		log.Printf("GetSelection error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch selection"})
		return
	}

	if len(idHexes) == 0 {
		c.JSON(http.StatusOK, gin.H{"items": []models.Post{}, "count": 0})
		return
	}

	ids := make([]primitive.ObjectID, 0, len(idHexes))
	for _, hex := range idHexes {
		if id, err := primitive.ObjectIDFromHex(hex); err == nil {
			ids = append(ids, id)
		}
	}

	cursor, err := database.Posts.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
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

// ClearSelection empties the batch-download list.
func ClearSelection(c *gin.Context) {
	ctx, cancel := opCtx()
	defer cancel()

	if err := selections.Clear(ctx, c.GetString("userId")); err != nil {
		log.Printf("ClearSelection error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear selection"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Selection cleared"})
}
