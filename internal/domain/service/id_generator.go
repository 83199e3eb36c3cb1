package service

import (
	"context"

	"pepre/internal/domain/entity"
)

// IDGenerator assigns the next human-readable sequential ID for an entity
// type (PEPRE-1000, EMP001, ...).
type IDGenerator interface {
	// NextID returns an ID whose numeric suffix is strictly greater than
	// every parsable suffix currently in the type's collection. When the
	// collection is empty or unreadable it returns the type's seed ID.
	NextID(ctx context.Context, typ entity.Type) string
}
