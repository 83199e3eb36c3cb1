// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"pepre/internal/domain/entity"
)

// Registry defines the entity-lifecycle operations one registry service
// exposes over its collection. This is the contract the delivery layer
// depends on; companyd and employeed each run one instance bound to their
// entity type.
//
// Every returned document is a sanitized projection: the stored password
// hash is never included. The one exception is deliberate and documented:
// when the service itself assigns a password (policy-assigned registration,
// or an update with the reset flag), the plaintext is echoed under the
// password key in that single response.
type Registry interface {
	// Register validates, uniqueness-checks and persists a new record,
	// assigning its sequential ID and credentials.
	Register(ctx context.Context, fields entity.Document) (entity.Document, error)

	// Get fetches a record by ID.
	Get(ctx context.Context, id string) (entity.Document, error)

	// GetAll lists the whole collection.
	GetAll(ctx context.Context) ([]entity.Document, error)

	// Update shallow-merges a partial field set onto an existing record,
	// re-validating identity uniqueness and handling password rotation.
	Update(ctx context.Context, id string, fields entity.Document) (entity.Document, error)

	// Delete removes a record permanently. Its ID suffix is never reused.
	Delete(ctx context.Context, id string) error

	// Exists reports whether a record with the given ID is present.
	Exists(ctx context.Context, id string) (bool, error)

	// Search returns records whose field contains the query,
	// case-insensitively.
	Search(ctx context.Context, field, query string) ([]entity.Document, error)

	// FilterByField returns records whose field equals the value,
	// case-insensitively.
	FilterByField(ctx context.Context, field, value string) ([]entity.Document, error)

	// Login verifies credentials against the identity field and stamps
	// lastLogin on success.
	Login(ctx context.Context, fields entity.Document) (entity.Document, error)
}
