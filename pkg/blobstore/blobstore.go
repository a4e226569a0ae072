// Package blobstore is the key-value blob storage LocalLink mirrors its
// in-memory collections into. Every value is a complete JSON document for
// one collection, so a write always replaces the whole blob.
package blobstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("blob not found")

// Store persists opaque blobs by key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
}
