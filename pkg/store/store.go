// Package store persists layout documents for the HTTP API.
//
// A document is a named layout tree in its JSON wire form. The Store
// interface abstracts the backend:
//   - memory: in-process storage for development and tests
//   - redis: shared storage for multi-instance deployments
//   - mongo: durable storage with queryable metadata
//
// Document IDs are UUIDs generated on creation; callers treat them as
// opaque.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/raggedblocks/pkg/errors"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New(errors.ErrCodeDocumentNotFound, "document not found")

// Document is a stored layout tree.
type Document struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	Tree      []byte    `json:"tree" bson:"tree"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Info is the listing view of a document, without its tree payload.
type Info struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the interface for document storage backends.
type Store interface {
	// Get retrieves a document by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*Document, error)

	// Put stores or replaces a document.
	Put(ctx context.Context, doc *Document) error

	// Delete removes a document. Deleting an absent document is not an
	// error.
	Delete(ctx context.Context, id string) error

	// List returns document infos ordered by most recent update.
	List(ctx context.Context) ([]Info, error)

	// Close releases backend resources.
	Close() error
}

// NewID generates a fresh document ID.
func NewID() string { return uuid.NewString() }

// NewDocument builds a document around a tree payload, stamping ID and
// timestamps.
func NewDocument(name string, tree []byte) *Document {
	now := time.Now().UTC()
	return &Document{
		ID:        NewID(),
		Name:      name,
		Tree:      tree,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
