// Package persistence selects the DocumentStore driver from configuration.
package persistence

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"pepre/config"
	"pepre/internal/domain/repository"
	"pepre/internal/errors"
	"pepre/internal/infra/persistence/firestore"
	"pepre/internal/infra/persistence/memory"
)

// StoreParams holds dependencies for the DocumentStore, injected by Fx.
type StoreParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewDocumentStore creates a DocumentStore based on configuration.
func NewDocumentStore(params StoreParams) (repository.DocumentStore, error) {
	cfg := params.Config.Store
	logger := params.Logger

	switch cfg.Driver {
	case config.StoreDriverMemory, "":
		logger.Info("Using in-memory document store; data will not survive restarts")

		return memory.NewStore(), nil

	case config.StoreDriverFirestore:
		if cfg.Firestore == nil {
			return nil, errors.New("firestore configuration is required for the firestore driver")
		}
		logger.Info("Using Firestore document store",
			slog.String("projectId", cfg.Firestore.ProjectID),
		)

		store, closer, err := firestore.NewStore(params.Ctx, cfg.Firestore.ProjectID, cfg.Firestore.CredentialsPath)
		if err != nil {
			return nil, err
		}

		params.Lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				logger.Info("Closing Firestore client")

				return closer()
			},
		})

		return store, nil

	default:
		return nil, errors.Errorf("unknown store driver: %s", cfg.Driver)
	}
}
