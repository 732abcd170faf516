package document

import "time"

// Document is the persisted entity. EditKey is the sole write credential:
// it is set once at creation and must never appear in a read response, so
// it is excluded from JSON marshaling entirely.
type Document struct {
	ID        string    `json:"id" bson:"id"`
	Slug      string    `json:"slug" bson:"slug"`
	Title     string    `json:"title" bson:"title"`
	Content   string    `json:"content" bson:"content"`
	EditKey   string    `json:"-" bson:"edit_key"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
	ViewCount int64     `json:"view_count" bson:"view_count"`
}

// DefaultTitle is applied when a document is created without one.
const DefaultTitle = "Untitled Document"

// RefKind selects which unique identifier a lookup uses.
type RefKind int

const (
	ByID RefKind = iota
	BySlug
)

// Ref addresses one document by exactly one of its unique identifiers.
// Handlers build it from the request path; the service and repositories
// share this single lookup contract instead of parallel id/slug paths.
type Ref struct {
	Kind  RefKind
	Value string
}

// RefByID addresses a document by its primary key.
func RefByID(id string) Ref { return Ref{Kind: ByID, Value: id} }

// RefBySlug addresses a document by its public slug.
func RefBySlug(slug string) Ref { return Ref{Kind: BySlug, Value: slug} }
