// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"pepre/internal/delivery/http/middleware"
	"pepre/internal/delivery/http/router/handler"
)

type RouterParams struct {
	fx.In

	RegistryHandler     *handler.RegistryHandler
	RequestIDMiddleware *middleware.RequestIDMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	registryHandler     *handler.RegistryHandler
	requestIDMiddleware *middleware.RequestIDMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		registryHandler:     params.RegistryHandler,
		requestIDMiddleware: params.RequestIDMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.Use(r.requestIDMiddleware.Process)

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	typ := r.registryHandler.Type()

	// Registry routes, grouped per entity type (e.g. /api/company).
	api := e.Group("/api/" + typ.Name)
	{
		api.POST("/register", r.registryHandler.Register)
		api.POST("/login", r.registryHandler.Login)
		api.GET("/all", r.registryHandler.GetAll)
		api.GET("/verify", r.registryHandler.Exists)
		api.GET("/search", r.registryHandler.Search)
		api.GET("/"+typ.CategoryPath+"/:value", r.registryHandler.FilterByCategory)
		api.GET("/:id", r.registryHandler.Get)
		api.PUT("/:id", r.registryHandler.Update)
		api.DELETE("/:id", r.registryHandler.Delete)
	}
}
