package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"memehub/database"
	"memehub/feed"
	"memehub/models"
)

// ToggleFavorite flips a post in the user's favorites list. The list and
// its paired counter are updated together; the counter only decrements when
// the post was actually present.
func ToggleFavorite(c *gin.Context) {
	postID := c.Param("postId")

	ctx, cancel := opCtx()
	defer cancel()

	if _, err := feedStore.GetByID(ctx, postID); err != nil {
		if errors.Is(err, feed.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	user, err := loadUser(ctx, c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user"})
		return
	}

	var update bson.M
	favorited := !user.HasFavorite(postID)
	if favorited {
		update = bson.M{
			"$addToSet": bson.M{"favorites": postID},
			"$inc":      bson.M{"favoritesCount": 1},
		}
	} else {
		update = bson.M{
			"$pull": bson.M{"favorites": postID},
			"$inc":  bson.M{"favoritesCount": -1},
		}
	}

	if _, err := database.Users.UpdateOne(ctx, bson.M{"_id": user.ID}, update); err != nil {
		log.Printf("ToggleFavorite error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update favorites"})
		return
	}

	count := user.FavoritesCount
	if favorited {
		count++
	} else {
		count--
	}

	c.JSON(http.StatusOK, gin.H{
		"favorited": favorited,
		"count":     count,
	})
}

// GetFavorites returns the user's favorited posts, newest favorite first,
// run through the same visibility pipeline as the feeds so unpublished or
// deleted posts never surface.
func GetFavorites(c *gin.Context) {
	ctx, cancel := opCtx()
	defer cancel()

	user, err := loadUser(ctx, c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user"})
		return
	}

	if len(user.Favorites) == 0 {
		c.JSON(http.StatusOK, gin.H{"items": []models.Post{}, "count": 0})
		return
	}

	ids := make([]primitive.ObjectID, 0, len(user.Favorites))
	for _, hex := range user.Favorites {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	cursor, err := database.Posts.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch favorites"})
		return
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode favorites"})
		return
	}

	visible := feed.Filter(posts, feed.Request{}, time.Now())

	// Order by the favorites list itself, most recently added first.
	byID := make(map[string]models.Post, len(visible))
	for _, p := range visible {
		byID[p.ID.Hex()] = p
	}
	ordered := make([]models.Post, 0, len(visible))
	for i := len(user.Favorites) - 1; i >= 0; i-- {
		if p, ok := byID[user.Favorites[i]]; ok {
			ordered = append(ordered, p)
		}
	}

	c.JSON(http.StatusOK, gin.H{"items": ordered, "count": len(ordered)})
}
