package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"memehub/models"
)

// UploadMedia pushes a meme file to Cloudinary and returns the hosted asset
// info. The client follows up with CreatePost once the user has filled in
// title and tags.
func UploadMedia(c *gin.Context) {
	userIDStr := c.GetString("userId")
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := opCtx()
	defer cancel()

	if err := c.Request.ParseMultipartForm(50 << 20); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse form data"})
		return
	}

	mediaFile, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No media file provided"})
		return
	}
	defer mediaFile.Close()

	cld, err := cloudinary.NewFromURL(os.Getenv("CLOUDINARY_URL"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cloudinary configuration error"})
		return
	}

	uploadParams := uploader.UploadParams{
		Folder:       "memehub/uploads",
		PublicID:     userID.Hex() + "_" + time.Now().Format("20060102150405"),
		ResourceType: "auto",
	}

	uploadResult, err := cld.Upload.Upload(ctx, mediaFile, uploadParams)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload media"})
		return
	}

	// Cloudinary reports audio under "raw"; normalize before the client
	// echoes the type back through CreatePost.
	c.JSON(http.StatusOK, gin.H{
		"url":          uploadResult.SecureURL,
		"resourceType": models.NormalizeMediaType(uploadResult.ResourceType),
		"byteSize":     uploadResult.Bytes,
		"duration":     nil,
	})
}
