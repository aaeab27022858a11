package contract

import (
	"context"
	"errors"

	"kb-assistant-be/internal/entity"
)

// ErrNotFound is returned when a named document does not exist in the store.
var ErrNotFound = errors.New("document not found")

// DocumentRepository is the knowledge file store. The filesystem
// implementation owns the data directory; nothing else touches it.
type DocumentRepository interface {
	// List enumerates the store. The backing directory is auto-created on
	// first access; an empty store yields an empty slice, never an error.
	List(ctx context.Context) ([]entity.DocumentInfo, error)

	// Read returns the raw bytes of a stored document.
	Read(ctx context.Context, filename string) ([]byte, error)

	// Save writes a document, overwriting any existing file of that name.
	Save(ctx context.Context, filename string, data []byte) error

	// Delete removes a document; ErrNotFound if it does not exist.
	Delete(ctx context.Context, filename string) error
}
