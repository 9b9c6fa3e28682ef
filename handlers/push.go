package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"memehub/database"
	"memehub/models"
)

type PushSubscription struct {
	ID     primitive.ObjectID   `bson:"_id,omitempty"`
	UserID primitive.ObjectID   `bson:"userId"`
	Sub    webpush.Subscription `bson:"sub"`
}

// EnsureVAPIDKeys returns the VAPID private key from the environment,
// generating a fresh pair when none is configured so push works out of the
// box in development. Called from main after the env file is loaded.
func EnsureVAPIDKeys() string {
	if os.Getenv("VAPID_PUBLIC_KEY") == "" || os.Getenv("VAPID_PRIVATE_KEY") == "" {
		publicKey, privateKey, err := webpush.GenerateVAPIDKeys()
		if err != nil {
			log.Printf("Failed to generate VAPID keys: %v", err)
			return ""
		}

		os.Setenv("VAPID_PUBLIC_KEY", publicKey)
		os.Setenv("VAPID_PRIVATE_KEY", privateKey)

		log.Println("Generated new VAPID keys - for production, set these as environment variables:")
		log.Printf("  VAPID_PUBLIC_KEY: %s", publicKey)
		log.Printf("  VAPID_PRIVATE_KEY: %s", privateKey)
	}

	return os.Getenv("VAPID_PRIVATE_KEY")
}

func GetVapidPublicKey(c *gin.Context) {
	publicKey := os.Getenv("VAPID_PUBLIC_KEY")
	if publicKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "VAPID public key not configured"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"publicKey": publicKey})
}

// SubscribePush stores a browser push subscription, one per user.
func SubscribePush(c *gin.Context) {
	var req struct {
		Endpoint string `json:"endpoint" binding:"required"`
		Keys     struct {
			P256dh string `json:"p256dh" binding:"required"`
			Auth   string `json:"auth" binding:"required"`
		} `json:"keys" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userIDStr := c.GetString("userId")
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := opCtx()
	defer cancel()

	pushSub := PushSubscription{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Sub: webpush.Subscription{
			Endpoint: req.Endpoint,
			Keys: webpush.Keys{
				P256dh: req.Keys.P256dh,
				Auth:   req.Keys.Auth,
			},
		},
	}

	_, err = database.Subscriptions.UpdateOne(
		ctx,
		bson.M{"userId": userID},
		bson.M{"$set": pushSub},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		log.Printf("Failed to save subscription: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Push subscription saved"})
}

// notifyPublished sends a "new meme" push to every subscriber. Called in a
// goroutine from ApprovePost; failures are logged, never surfaced.
func notifyPublished(post *models.Post) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cursor, err := database.Subscriptions.Find(ctx, bson.M{})
	if err != nil {
		log.Printf("notifyPublished: failed to fetch subscriptions: %v", err)
		return
	}
	defer cursor.Close(ctx)

	var subs []PushSubscription
	if err := cursor.All(ctx, &subs); err != nil {
		log.Printf("notifyPublished: failed to decode subscriptions: %v", err)
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"title": "New meme on memehub",
		"body":  post.Title,
		"url":   "/post/" + post.ID.Hex(),
		"icon":  post.ThumbnailURL,
	})
	if err != nil {
		return
	}

	opts := &webpush.Options{
		Subscriber:      os.Getenv("VAPID_SUBSCRIBER"),
		VAPIDPublicKey:  os.Getenv("VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: vapidPrivateKey,
		TTL:             3600,
	}

	for _, sub := range subs {
		resp, err := webpush.SendNotification(payload, &sub.Sub, opts)
		if err != nil {
			log.Printf("notifyPublished: push to %s failed: %v", sub.UserID.Hex(), err)
			continue
		}
		resp.Body.Close()
	}
}
