// Package storage writes normalized frames to their destination.
// It defines the Storage interface used by the batch driver and
// implementations for local disk and S3 publishing.
package storage

import (
	"context"
	"io"
)

// Object describes a stored output frame.
type Object struct {
	// Path is the file written in the destination directory.
	Path string
	// URL is the published location, empty when nothing was published.
	URL string
}

// Storage defines where output frames are written.
type Storage interface {
	// Dir returns the local destination directory.
	Dir() string

	// Save writes data under name, replacing any existing file.
	// The name must be a plain file name without directory components.
	Save(ctx context.Context, name string, data io.Reader) (Object, error)
}
