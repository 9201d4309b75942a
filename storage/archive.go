package storage

import (
	"context"
	"io"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// ArchiveStore keeps immutable schedule snapshots in object storage.
type ArchiveStore interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	PublicURL(key string) string
}
