package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Post statuses. Only published posts are eligible for public feeds.
const (
	StatusPending   = "pending"
	StatusPublished = "published"
)

// Media types. Audio was historically stored under Cloudinary's "raw"
// resource type; NormalizeMediaType folds that back to "audio".
const (
	MediaImage = "image"
	MediaVideo = "video"
	MediaAudio = "audio"
)

type Reactions struct {
	Count     int64    `bson:"count" json:"count"`
	ReactedBy []string `bson:"reactedBy" json:"reactedBy"`
}

type Post struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title        string             `bson:"title" json:"title"`
	MediaType    string             `bson:"mediaType" json:"mediaType"`
	FileURL      string             `bson:"fileUrl" json:"fileUrl"`
	ThumbnailURL string             `bson:"thumbnailUrl,omitempty" json:"thumbnailUrl,omitempty"`
	Category     string             `bson:"category,omitempty" json:"category"`
	Language     string             `bson:"language,omitempty" json:"language"`
	Status       string             `bson:"status" json:"status"`
	CreatedAt    int64              `bson:"createdAt" json:"createdAt"`
	Views        int64              `bson:"views" json:"views"`
	Downloads    int64              `bson:"downloads" json:"downloads"`
	Reactions    Reactions          `bson:"reactions" json:"reactions"`

	// Uploader identity is copied onto the post at upload time, not joined live.
	UploaderID   primitive.ObjectID `bson:"uploaderId" json:"uploaderId"`
	UploaderName string             `bson:"uploaderName" json:"uploaderName"`
	UploaderPic  string             `bson:"uploaderPic,omitempty" json:"uploaderPic,omitempty"`
}

// NormalizeMediaType maps a Cloudinary resource type onto our media enum.
func NormalizeMediaType(resourceType string) string {
	switch resourceType {
	case "raw", MediaAudio:
		return MediaAudio
	case MediaVideo:
		return MediaVideo
	default:
		return MediaImage
	}
}

// ReactedByUser reports whether the given user's reaction is currently counted.
func (p *Post) ReactedByUser(userID string) bool {
	for _, id := range p.Reactions.ReactedBy {
		if id == userID {
			return true
		}
	}
	return false
}
