// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers
// and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"pepre/internal/domain/entity"
)

// ErrDocumentNotFound is returned when a document does not exist under the
// requested key.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentStore is the registry's view of the backing document database:
// key-value access per collection plus a single query-by-field-equality
// capability. Nothing here is transactional; the uniqueness and ID checks
// built on top are check-then-act.
type DocumentStore interface {
	// Get retrieves a single document by its key.
	// Returns ErrDocumentNotFound when absent.
	Get(ctx context.Context, collection, id string) (entity.Document, error)

	// Set writes the full document under the given key, replacing any
	// existing content.
	Set(ctx context.Context, collection, id string, doc entity.Document) error

	// Merge applies a partial field set onto an existing document,
	// last-write-wins per field. Fields not named are left untouched.
	Merge(ctx context.Context, collection, id string, fields entity.Document) error

	// Delete removes a document. Deleting an absent key is not an error.
	Delete(ctx context.Context, collection, id string) error

	// All returns every document in the collection. Iteration order is
	// whatever the store yields; callers must not rely on it.
	All(ctx context.Context, collection string) ([]entity.Document, error)

	// FindByField returns the documents whose field exactly equals value.
	FindByField(ctx context.Context, collection, field string, value any) ([]entity.Document, error)
}
