package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/forkfolio/backend/config"
)

// MaxImageSize is the upload ceiling for recipe images.
const MaxImageSize = 5 * 1024 * 1024

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var (
	ErrImageTooLarge    = errors.New("image exceeds the 5MB size limit")
	ErrInvalidImageType = errors.New("invalid file type, only JPEG, PNG, GIF, and WebP are allowed")
)

// ImageService stores recipe images in S3. Callers are responsible for
// invoking Delete on the returned key if a downstream step fails, so no
// orphaned objects are left behind.
type ImageService struct {
	s3     *config.S3Config
	prefix string
}

// NewImageService creates a new ImageService instance
func NewImageService(s3cfg *config.S3Config) *ImageService {
	return &ImageService{
		s3:     s3cfg,
		prefix: "recipes/",
	}
}

// UploadRecipeImage validates and stores an uploaded image, returning the
// public URL and the object key.
func (s *ImageService) UploadRecipeImage(ctx context.Context, header *multipart.FileHeader) (string, string, error) {
	if header.Size > MaxImageSize {
		return "", "", ErrImageTooLarge
	}

	file, err := header.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxImageSize+1))
	if err != nil {
		return "", "", fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) > MaxImageSize {
		return "", "", ErrImageTooLarge
	}

	// Sniff the content rather than trusting the client's header.
	contentType := http.DetectContentType(data)
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", "", ErrInvalidImageType
	}
	key := s.prefix + uuid.New().String() + ext
	_, err = s.s3.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to store image: %w", err)
	}

	url := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3.BucketName, key)
	return url, key, nil
}

// KeyFromURL recovers the object key from a stored image URL. Returns ""
// for URLs not served from this bucket.
func (s *ImageService) KeyFromURL(url string) string {
	base := fmt.Sprintf("https://%s.s3.amazonaws.com/", s.s3.BucketName)
	if !strings.HasPrefix(url, base) {
		return ""
	}
	return strings.TrimPrefix(url, base)
}

// Delete removes a stored image. Used on error paths after a successful
// upload and when replacing a recipe's image.
func (s *ImageService) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := s.s3.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.s3.BucketName),
		Key:    aws.String(key),
	})
	return err
}
