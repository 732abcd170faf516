package repository

import (
	"context"
	"errors"

	"github.com/mdpad/mdpad/internal/document"
)

// ErrNotFound is returned when a ref resolves to no document.
var ErrNotFound = errors.New("document not found")

// Repository is the record-store contract for documents. Implementations
// must provide atomic single-record reads and writes; that atomicity is the
// only concurrency guarantee the service layers on (last write wins).
type Repository interface {
	// Create persists a fully populated new document.
	Create(ctx context.Context, doc *document.Document) error
	// Get fetches a document without side effects.
	Get(ctx context.Context, ref document.Ref) (*document.Document, error)
	// View fetches a document and atomically increments its view count,
	// returning the post-increment state. Concurrent views must not lose
	// increments.
	View(ctx context.Context, ref document.Ref) (*document.Document, error)
	// GetEditKey fetches only the stored write credential.
	GetEditKey(ctx context.Context, ref document.Ref) (string, error)
	// Update applies the non-nil fields and refreshes updated_at, returning
	// the post-update state.
	Update(ctx context.Context, ref document.Ref, title, content *string) (*document.Document, error)
}
