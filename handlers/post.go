package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"memehub/feed"
	"memehub/models"
)

type CreatePostRequest struct {
	Title        string `json:"title" binding:"required"`
	MediaType    string `json:"mediaType" binding:"required"`
	FileURL      string `json:"fileUrl" binding:"required,url"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Category     string `json:"category,omitempty"`
	Language     string `json:"language,omitempty"`
}

// CreatePost registers an uploaded meme. New posts start in pending state
// and stay out of public feeds until moderation publishes them.
func CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := opCtx()
	defer cancel()

	user, err := loadUser(ctx, c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user"})
		return
	}

	post := models.Post{
		Title:        req.Title,
		MediaType:    models.NormalizeMediaType(req.MediaType),
		FileURL:      req.FileURL,
		ThumbnailURL: req.ThumbnailURL,
		Category:     req.Category,
		Language:     req.Language,
		Status:       models.StatusPending,
		CreatedAt:    time.Now().Unix(),
		Reactions:    models.Reactions{ReactedBy: []string{}},
		UploaderID:   user.ID,
		UploaderName: user.Name,
		UploaderPic:  user.Avatar,
	}

	id, err := feedStore.Insert(ctx, &post)
	if err != nil {
		log.Printf("CreatePost error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post submitted for review",
		"postId":  id,
	})
}

// GetPost returns one published post, e.g. for a shared link. A deleted or
// still-pending post is reported as missing, not as a generic failure.
func GetPost(c *gin.Context) {
	ctx, cancel := opCtx()
	defer cancel()

	post, err := feedStore.GetByID(ctx, c.Param("id"))
	if errors.Is(err, feed.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		log.Printf("GetPost error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	if post.Status != models.StatusPublished && post.UploaderID.Hex() != c.GetString("userId") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// RegisterView bumps the view counter. Fire-and-forget from the client.
func RegisterView(c *gin.Context) {
	registerCounter(c, "views")
}

// RegisterDownload bumps the download counter.
func RegisterDownload(c *gin.Context) {
	registerCounter(c, "downloads")
}

func registerCounter(c *gin.Context, field string) {
	ctx, cancel := opCtx()
	defer cancel()

	err := feedStore.UpdateFields(ctx, c.Param("id"), feed.FieldUpdate{
		Inc: map[string]int64{field: 1},
	})
	if errors.Is(err, feed.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		log.Printf("registerCounter %s error: %v", field, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update counter"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

// DeletePost removes a post. Only the uploader or an admin may delete.
func DeletePost(c *gin.Context) {
	ctx, cancel := opCtx()
	defer cancel()

	user, err := loadUser(ctx, c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user"})
		return
	}

	postID := c.Param("id")
	post, err := feedStore.GetByID(ctx, postID)
	if errors.Is(err, feed.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	if post.UploaderID != user.ID && !user.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	if err := feedStore.Delete(ctx, postID); err != nil {
		log.Printf("DeletePost error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}
