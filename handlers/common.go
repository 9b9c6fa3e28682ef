package handlers

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"memehub/database"
	"memehub/feed"
	"memehub/models"
	"memehub/selection"
	"memehub/websocket"
)

// Shared handler state, wired up from main.

const fallbackAvatar = "https://upload.wikimedia.org/wikipedia/commons/8/89/Portrait_Placeholder.png"

var feedStore feed.PostStore
var selections *selection.Store
var wsManager *websocket.Manager
var vapidPrivateKey string

func SetFeedStore(store feed.PostStore) {
	feedStore = store
}

func SetSelectionStore(store *selection.Store) {
	selections = store
}

func SetWebSocketManager(manager *websocket.Manager) {
	wsManager = manager
}

func SetVAPIDPrivateKey(key string) {
	vapidPrivateKey = key
}

func opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// loadUser fetches the full user document for the authenticated user id.
func loadUser(ctx context.Context, userIDHex string) (*models.User, error) {
	userID, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}
