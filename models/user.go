package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash *string            `bson:"passwordHash,omitempty" json:"-"`
	Name         string             `bson:"name" json:"name"`
	Avatar       string             `bson:"avatar" json:"avatar"`
	IsAdmin      bool               `bson:"isAdmin" json:"isAdmin"`

	// Favorites holds post ids; FavoritesCount is kept in lockstep so the
	// profile badge never needs to load the whole list.
	Favorites      []string `bson:"favorites" json:"favorites"`
	FavoritesCount int64    `bson:"favoritesCount" json:"favoritesCount"`

	CreatedAt int64 `bson:"createdAt" json:"createdAt"`
	LastSeen  int64 `bson:"lastSeen" json:"lastSeen"`
}

// HasFavorite reports whether the post id is currently in the user's favorites.
func (u *User) HasFavorite(postID string) bool {
	for _, id := range u.Favorites {
		if id == postID {
			return true
		}
	}
	return false
}
