package storage

import (
	"context"
	"io"
)

// ServiceConfig holds the configuration required to connect to the storage service.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// StorageService defines the public interface for the avatar storage service.
type StorageService interface {
	// Upload writes the object under key with the given MIME type, overwriting
	// any existing object with that key.
	Upload(ctx context.Context, key string, mimeType string, body io.Reader) error

	// Delete removes the object specified by the given key.
	Delete(ctx context.Context, key string) error

	// PublicURL returns the publicly reachable URL for the object at key.
	PublicURL(key string) string
}

// NewStorageService is the factory function for StorageService.
// It initializes and returns a concrete implementation based on the provided configuration.
func NewStorageService(cfg ServiceConfig) (StorageService, error) {
	// Currently, only S3 compatible implementations are supported.
	return newS3Client(cfg)
}
