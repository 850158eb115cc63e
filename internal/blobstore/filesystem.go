package blobstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FilesystemStore implements Store on the local filesystem. Used for
// development and tests; signed URLs degrade to file URLs with an
// expiry marker since there is nothing to sign against.
type FilesystemStore struct {
	basePath string
}

// NewFilesystemStore creates a new filesystem-backed blob store
func NewFilesystemStore(basePath string) (*FilesystemStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FilesystemStore{basePath: basePath}, nil
}

func (fs *FilesystemStore) resolve(key string) (string, error) {
	clean := filepath.Clean(key)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid blob key: %s", key)
	}
	return filepath.Join(fs.basePath, clean), nil
}

// Upload writes data under key, creating parent directories as needed
func (fs *FilesystemStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	fullPath, err := fs.resolve(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write blob: %w", err)
	}

	return nil
}

// Download reads the object stored under key
func (fs *FilesystemStore) Download(ctx context.Context, key string) ([]byte, error) {
	fullPath, err := fs.resolve(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}

	return data, nil
}

// SignedURL returns a file URL carrying an expiry marker
func (fs *FilesystemStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	fullPath, err := fs.resolve(key)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(fullPath); err != nil {
		return "", fmt.Errorf("blob not found: %w", err)
	}

	abs, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve blob path: %w", err)
	}

	expires := time.Now().Add(ttl).Unix()
	return fmt.Sprintf("file://%s?expires=%d", abs, expires), nil
}

// Delete removes the object stored under key
func (fs *FilesystemStore) Delete(ctx context.Context, key string) error {
	fullPath, err := fs.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete blob: %w", err)
	}

	return nil
}
