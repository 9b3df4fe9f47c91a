package storage

import (
	"context"
	"errors"
)

// ErrObjectNotFound is returned when the requested key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore reads and replaces whole objects in remote object storage.
type ObjectStore interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
	// PutObject replaces the object in a single request; readers see either
	// the old or the new body.
	PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) error
}
