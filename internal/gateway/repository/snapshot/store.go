package snapshot

import (
	"context"
	"errors"
)

// Store keeps a copy of each idea's generated starter code so the review
// surface can hand out downloads without touching the idea record.
type Store interface {
	Put(ctx context.Context, ideaID, name string, content []byte) error
	Get(ctx context.Context, ideaID, name string) ([]byte, error)
	// GetURL returns a presigned download URL, or "" when the backend
	// cannot produce one.
	GetURL(ctx context.Context, ideaID, name string) (string, error)
}

var ErrNotFound = errors.New("snapshot not found")
