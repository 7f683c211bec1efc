package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dishcraft/backend/config"
)

// LocalImageStore writes images to a directory on disk. The directory is
// served statically under /generated_images, so the returned reference is
// the bare filename.
type LocalImageStore struct {
	dir string
}

// NewLocalImageStore creates the directory if needed and returns the store.
func NewLocalImageStore(dir string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &LocalImageStore{dir: dir}, nil
}

// Save implements ImageStore.
func (s *LocalImageStore) Save(_ context.Context, filename string, data []byte) (string, error) {
	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	return filename, nil
}

// S3ImageStore uploads images to an S3 bucket under a fixed prefix and
// returns the public URL.
type S3ImageStore struct {
	s3Config *config.S3Config
	prefix   string
}

// NewS3ImageStore creates an S3-backed image store.
func NewS3ImageStore(s3Config *config.S3Config) *S3ImageStore {
	return &S3ImageStore{
		s3Config: s3Config,
		prefix:   "recipes/",
	}
}

// Save implements ImageStore.
func (s *S3ImageStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	key := s.prefix + filename
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key), nil
}
