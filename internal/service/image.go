package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/forkful/backend/config"
)

// ErrUnsupportedImageType is returned for uploads that are not jpeg/png/webp.
var ErrUnsupportedImageType = errors.New("unsupported image type")

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageService stores recipe images in S3 and hands back their public URL.
type ImageService struct {
	s3Config *config.S3Config
}

// NewImageService creates a new ImageService instance. s3Config may be nil,
// in which case uploads are disabled.
func NewImageService(s3Config *config.S3Config) *ImageService {
	return &ImageService{s3Config: s3Config}
}

// Enabled reports whether image storage is configured.
func (s *ImageService) Enabled() bool {
	return s != nil && s.s3Config != nil
}

// UploadRecipeImage streams an image to S3 under the recipe's key prefix and
// returns the object URL.
func (s *ImageService) UploadRecipeImage(ctx context.Context, recipeID uuid.UUID, body io.Reader, contentType string) (string, error) {
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", ErrUnsupportedImageType
	}

	key := fmt.Sprintf("recipes/%s/%s%s", recipeID, uuid.New(), ext)

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.s3Config.BucketName, s.s3Config.Region, key)
	log.Printf("[ImageService] Uploaded image for recipe %s: %s", recipeID, url)
	return url, nil
}
