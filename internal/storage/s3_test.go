package storage

import (
	"alcyxob/liftlog/internal/config"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewS3Storage_Disabled(t *testing.T) {
	_, err := NewS3Storage(context.Background(), config.S3Config{BucketName: "b"})
	assert.ErrorIs(t, err, ErrStorageDisabled)
}

func TestPublicBase(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/img",
		publicBase(config.S3Config{PublicBaseURL: "https://cdn.example.com/img/", BucketName: "b"}))
	assert.Equal(t, "http://minio:9000/exercise-images",
		publicBase(config.S3Config{Endpoint: "http://minio:9000/", BucketName: "exercise-images"}))
	assert.Equal(t, "https://s3.eu-west-1.amazonaws.com/b",
		publicBase(config.S3Config{Region: "eu-west-1", BucketName: "b"}))
}

func TestS3Storage_PresignAndPublicURL(t *testing.T) {
	cfg := config.S3Config{
		Endpoint:        "http://localhost:9000",
		Region:          "us-east-1",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
		BucketName:      "exercise-images",
	}
	fs, err := NewS3Storage(context.Background(), cfg)
	require.NoError(t, err)

	// presigning is local, no request reaches the endpoint
	u, err := fs.GeneratePresignedUploadURL(context.Background(), "exercises/exercise-1.png", "image/png", 0)
	require.NoError(t, err)
	assert.Contains(t, u, "http://localhost:9000/exercise-images/exercises/exercise-1.png")
	assert.Contains(t, u, "X-Amz-Signature=")

	assert.Equal(t, "http://localhost:9000/exercise-images/exercises/exercise-1.png", fs.PublicURL("exercises/exercise-1.png"))
}
