package covers

import (
	"context"
	"fmt"
	"io"

	"library-manager/core/reconcile"
	"library-manager/core/storage"

	"github.com/minio/minio-go/v7"
)

// Cache keeps user-provided cover images in object storage, one object per entry.
type Cache struct {
	client storage.Client
	bucket string
}

var _ reconcile.CoverCache = (*Cache)(nil)

// NewCache creates a cover cache in bucket.
func NewCache(client storage.Client, bucket string) *Cache {
	return &Cache{client: client, bucket: bucket}
}

// ObjectKey returns the object name holding the entry's custom cover.
func ObjectKey(entryID int64) string {
	return fmt.Sprintf("covers/custom/%d", entryID)
}

// HasCustomCover reports whether the entry has a custom cover stored.
func (c *Cache) HasCustomCover(ctx context.Context, entryID int64) (bool, error) {
	_, err := c.client.StatObject(ctx, c.bucket, ObjectKey(entryID), minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if storage.IsNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat cover of entry %d: %w", entryID, err)
}

// GetCustomCover streams the entry's custom cover. The caller closes it.
func (c *Cache) GetCustomCover(ctx context.Context, entryID int64) (io.ReadCloser, error) {
	obj, err := c.client.GetObject(ctx, c.bucket, ObjectKey(entryID), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open cover of entry %d: %w", entryID, err)
	}
	return obj, nil
}

// SetCustomCover stores r as the entry's custom cover, replacing any previous one.
func (c *Cache) SetCustomCover(ctx context.Context, entry reconcile.Entry, r io.Reader) error {
	_, err := c.client.PutObject(ctx, c.bucket, ObjectKey(entry.ID), r, -1, minio.PutObjectOptions{
		ContentType: "image/jpeg",
		UserMetadata: map[string]string{
			"entry-id": fmt.Sprint(entry.ID),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to store cover of entry %d: %w", entry.ID, err)
	}
	return nil
}

// DeleteCustomCover removes the entry's custom cover. A missing cover is not an error.
func (c *Cache) DeleteCustomCover(ctx context.Context, entryID int64) error {
	err := c.client.RemoveObject(ctx, c.bucket, ObjectKey(entryID), minio.RemoveObjectOptions{})
	if err != nil && !storage.IsNotFound(err) {
		return fmt.Errorf("failed to delete cover of entry %d: %w", entryID, err)
	}
	return nil
}
