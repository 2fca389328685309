// Package storage contains the retention store abstraction: at most one
// blob exists per sanitized filename at any time. A write replaces any
// prior blob under the same name; a delete of a missing blob is not an error.
package storage

import "context"

// BlobStore persists the single canonical copy of a file's bytes under a
// sanitized name.
type BlobStore interface {
	// Put writes data under name, overwriting any prior content.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes the blob under name. Absence is not an error.
	Delete(ctx context.Context, name string) error
}
