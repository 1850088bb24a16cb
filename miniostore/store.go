// Package miniostore implements the blob store over MinIO.
package miniostore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/memecat/memecat"
)

const descriptionKey = "Description"

// Store holds blob objects in a single MinIO bucket. Object descriptions
// are attached as user metadata, readable only via stat.
type Store struct {
	client *minio.Client
	bucket string
}

// New creates a Store on an existing MinIO client.
func New(client *minio.Client, bucket string) *Store {
	return &Store{client: client, bucket: bucket}
}

// Config holds MinIO connection settings.
type Config struct {
	Endpoint  string `mapstructure:"endpoint" validate:"required"`
	AccessKey string `mapstructure:"access_key" validate:"required"`
	SecretKey string `mapstructure:"secret_key" validate:"required"`
	Bucket    string `mapstructure:"bucket" validate:"required"`
	Secure    bool   `mapstructure:"secure"`
}

// Connect creates a MinIO client from config and returns a Store.
func Connect(cfg Config) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("connect minio: %w", err)
	}
	return New(client, cfg.Bucket), nil
}

// EnsureBucket creates the configured bucket if it does not exist yet.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("ensure bucket %s: %w", s.bucket, memecat.ErrStorageUnavailable)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("ensure bucket %s: %w", s.bucket, memecat.ErrStorageUnavailable)
	}
	return nil
}

// Put writes or overwrites the object and attaches the description as user
// metadata, then immediately stats the same key to obtain the store's
// authoritative last-modified time. A failed stat-after-put fails the whole
// operation: the write succeeded but cannot be confirmed.
func (s *Store) Put(ctx context.Context, name string, content io.Reader, size int64, description string) (memecat.SyncResult, error) {
	opts := minio.PutObjectOptions{
		UserMetadata: map[string]string{descriptionKey: description},
	}

	_, err := s.client.PutObject(ctx, s.bucket, name, content, size, opts)
	if err != nil {
		slog.Error("put object failed", "name", name, "err", err)
		return memecat.SyncResult{}, fmt.Errorf("put %q: %w", name, memecat.ErrStorageUnavailable)
	}

	st, err := s.Stat(ctx, name)
	if err != nil {
		return memecat.SyncResult{}, fmt.Errorf("put %q: confirm write: %w", name, memecat.ErrUnprocessable)
	}

	slog.Info("object created or updated", "name", name)
	return memecat.SyncResult{
		Status:        "Modified",
		Name:          name,
		Description:   memecat.StringPtr(description),
		LastUpdatedAt: st.LastUpdatedAt,
	}, nil
}

// Stat returns the object's name, description, and last-modified time.
func (s *Store) Stat(ctx context.Context, name string) (memecat.SyncResult, error) {
	obj, err := s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return memecat.SyncResult{}, fmt.Errorf("stat %q: %w", name, memecat.ErrNotFound)
		}
		return memecat.SyncResult{}, fmt.Errorf("stat %q: %w", name, memecat.ErrStorageUnavailable)
	}

	return memecat.SyncResult{
		Name:          obj.Key,
		Description:   metadataDescription(obj.UserMetadata),
		LastUpdatedAt: memecat.NormalizeTime(obj.LastModified),
	}, nil
}

// List enumerates all keys, then stats each one individually to recover
// descriptions. N+1 calls, acceptable while catalogs stay small.
func (s *Store) List(ctx context.Context) ([]memecat.SyncResult, error) {
	results := make([]memecat.SyncResult, 0)

	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list: %w", memecat.ErrStorageUnavailable)
		}

		st, err := s.Stat(ctx, obj.Key)
		if err != nil {
			return nil, fmt.Errorf("list: %w", err)
		}
		results = append(results, st)
	}

	return results, nil
}

// Delete stats first to capture the pre-deletion snapshot and confirm
// existence, then removes the object. The returned result is the snapshot.
func (s *Store) Delete(ctx context.Context, name string) (memecat.SyncResult, error) {
	st, err := s.Stat(ctx, name)
	if err != nil {
		return memecat.SyncResult{}, fmt.Errorf("delete %q: %w", name, err)
	}

	if err := s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return memecat.SyncResult{}, fmt.Errorf("delete %q: %w", name, memecat.ErrStorageUnavailable)
	}

	slog.Info("object deleted", "name", name)
	return memecat.SyncResult{
		Status:        "Deleted",
		Name:          st.Name,
		Description:   st.Description,
		LastUpdatedAt: st.LastUpdatedAt,
	}, nil
}

func isNotFound(err error) bool {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket"
	}
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

func metadataDescription(meta map[string]string) *string {
	if v, ok := meta[descriptionKey]; ok {
		return memecat.StringPtr(v)
	}
	if v, ok := meta["description"]; ok {
		return memecat.StringPtr(v)
	}
	return nil
}
