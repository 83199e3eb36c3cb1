// Package identity implements sequential human-readable ID assignment over
// the document store.
package identity

import (
	"context"
	"log/slog"

	"pepre/internal/domain/entity"
	"pepre/internal/domain/repository"
	"pepre/internal/domain/service"
)

// sequentialGenerator derives the next ID by scanning the live collection.
// There is no reservation step: two concurrent registrations can observe the
// same maximum and collide. That race is inherited behavior; the store stays
// the single source of truth and deleted suffixes become permanent gaps.
type sequentialGenerator struct {
	store  repository.DocumentStore
	logger *slog.Logger
}

// NewSequentialGenerator is the constructor for the store-backed generator.
func NewSequentialGenerator(store repository.DocumentStore, logger *slog.Logger) service.IDGenerator {
	return &sequentialGenerator{
		store:  store,
		logger: logger,
	}
}

// NextID scans the type's collection for parsable ID suffixes and returns
// max+1 in the type's format. Malformed and foreign-prefixed IDs are skipped.
// A failed collection read degrades to the seed ID rather than failing the
// caller: registration availability is preferred over suffix uniqueness when
// the store is flaky.
func (g *sequentialGenerator) NextID(ctx context.Context, typ entity.Type) string {
	docs, err := g.store.All(ctx, typ.Collection)
	if err != nil {
		g.logger.Warn("ID scan failed, falling back to seed ID",
			slog.String("entityType", typ.Name),
			slog.Any("error", err),
		)

		return typ.SeedID()
	}

	maxSuffix, found := 0, false
	for _, doc := range docs {
		n, ok := typ.ParseIDNumber(doc.ID())
		if !ok {
			continue
		}
		if !found || n > maxSuffix {
			maxSuffix, found = n, true
		}
	}

	if !found {
		return typ.SeedID()
	}

	return typ.FormatID(maxSuffix + 1)
}
