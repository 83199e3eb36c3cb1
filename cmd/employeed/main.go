package main

import (
	"context"
	"log/slog"
	"os"

	"go.uber.org/fx"

	"pepre/config"
	"pepre/internal/delivery"
	"pepre/internal/delivery/http"
	"pepre/internal/delivery/http/middleware"
	"pepre/internal/delivery/http/router/handler"
	"pepre/internal/domain/entity"
	"pepre/internal/domain/service"
	"pepre/internal/infra/auth"
	"pepre/internal/infra/identity"
	logs "pepre/internal/infra/log"
	"pepre/internal/infra/password"
	"pepre/internal/infra/persistence"
	"pepre/internal/usecase/impl"
)

const configName = "employeed"

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		newConfig,
		logs.New,
		context.Background,
		persistence.NewDocumentStore,
	)
}

func newConfig() (*config.Config, error) {
	return config.Load(configName)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			newEntityType,
			newPasswordHasher,
			newInitialPasswordPolicy,
			identity.NewSequentialGenerator,
		),
	)
}

func newEntityType() entity.Type {
	return entity.Employee
}

func newPasswordHasher(cfg *config.Config) service.PasswordHasher {
	if cfg.Auth == nil {
		return auth.NewBcryptHasher()
	}

	return auth.NewBcryptHasherWithCost(cfg.Auth.BcryptCost)
}

func newInitialPasswordPolicy(cfg *config.Config) service.InitialPasswordPolicy {
	if cfg.InitialPassword.EffectiveMode() == config.PasswordModeGenerated {
		return password.NewGeneratedPolicy(cfg.InitialPassword.Length)
	}

	return password.NewFixedPolicy(cfg.InitialPassword.EffectiveFixedValue())
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewRegistryService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewRequestIDMiddleware,
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewRegistryHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
