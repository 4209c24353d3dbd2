package driven

import (
	"context"
	"io"
)

// BufferAPI stages file content on the remote service.
// The stored file name is taken from name.
type BufferAPI interface {
	// Insert uploads into the transient buffer store.
	Insert(ctx context.Context, name string, r io.Reader) ([]string, error)

	// CacheInsert uploads into the cache store.
	CacheInsert(ctx context.Context, name string, r io.Reader) ([]string, error)
}

// DocumentAPI downloads profile documents.
type DocumentAPI interface {
	// Download returns the document content and its file name.
	// The caller must close the reader.
	Download(ctx context.Context, docNumber int, forView bool) (io.ReadCloser, string, error)
}
