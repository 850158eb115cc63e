package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"time"

	storage_go "github.com/supabase-community/storage-go"
)

// SupabaseStore implements Store on Supabase Storage. One bucket holds
// all session audio; keys are paths within the bucket.
type SupabaseStore struct {
	client *storage_go.Client
	bucket string
}

// NewSupabaseStore creates a blob store backed by Supabase Storage
func NewSupabaseStore(projectURL, serviceKey, bucket string) (*SupabaseStore, error) {
	if projectURL == "" || serviceKey == "" {
		return nil, fmt.Errorf("supabase storage requires project URL and service key")
	}
	if bucket == "" {
		return nil, fmt.Errorf("supabase storage requires a bucket name")
	}

	client := storage_go.NewClient(projectURL, serviceKey, nil)
	return &SupabaseStore{client: client, bucket: bucket}, nil
}

// Upload writes data under key with upsert semantics
func (s *SupabaseStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	upsert := true
	opts := storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	}

	_, err := s.client.UploadFile(s.bucket, key, bytes.NewReader(data), opts)
	if err != nil {
		return fmt.Errorf("supabase upload failed for %s: %w", key, err)
	}

	return nil
}

// Download reads the full object stored under key
func (s *SupabaseStore) Download(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.DownloadFile(s.bucket, key)
	if err != nil {
		return nil, fmt.Errorf("supabase download failed for %s: %w", key, err)
	}

	return data, nil
}

// SignedURL mints a time-limited access URL for key
func (s *SupabaseStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	resp, err := s.client.CreateSignedUrl(s.bucket, key, int(ttl.Seconds()))
	if err != nil {
		return "", fmt.Errorf("supabase signed URL failed for %s: %w", key, err)
	}

	return resp.SignedURL, nil
}

// Delete removes the object stored under key
func (s *SupabaseStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.RemoveFile(s.bucket, []string{key})
	if err != nil {
		return fmt.Errorf("supabase delete failed for %s: %w", key, err)
	}

	return nil
}
