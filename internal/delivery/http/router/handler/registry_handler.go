// Package handler contains the HTTP handlers for the registry API.
package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"pepre/internal/delivery/http/response"
	"pepre/internal/domain/entity"
	domainerrors "pepre/internal/domain/errors"
	"pepre/internal/usecase"
)

// SearchQuery is the bound DTO for GET /search.
type SearchQuery struct {
	Q     string `query:"q" validate:"required"`
	Field string `query:"field"`
}

// RegistryHandler exposes one entity type's registry operations over HTTP.
type RegistryHandler struct {
	typ    entity.Type
	uc     usecase.Registry
	logger *slog.Logger
}

// NewRegistryHandler is the constructor for RegistryHandler, injected by Fx.
func NewRegistryHandler(typ entity.Type, uc usecase.Registry, logger *slog.Logger) *RegistryHandler {
	return &RegistryHandler{
		typ:    typ,
		uc:     uc,
		logger: logger,
	}
}

// Type returns the entity type this handler serves, for route setup.
func (h *RegistryHandler) Type() entity.Type {
	return h.typ
}

// Register handles POST /register.
func (h *RegistryHandler) Register(c echo.Context) error {
	fields, err := h.bindFields(c)
	if err != nil {
		return err
	}

	doc, err := h.uc.Register(c.Request().Context(), fields)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, doc,
		h.typ.Title()+" registered successfully")
}

// Get handles GET /:id.
func (h *RegistryHandler) Get(c echo.Context) error {
	doc, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, doc,
		h.typ.Title()+" details fetched")
}

// GetAll handles GET /all.
func (h *RegistryHandler) GetAll(c echo.Context) error {
	docs, err := h.uc.GetAll(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, docs,
		"All "+h.typ.Collection+" fetched")
}

// Update handles PUT /:id.
func (h *RegistryHandler) Update(c echo.Context) error {
	fields, err := h.bindFields(c)
	if err != nil {
		return err
	}

	doc, err := h.uc.Update(c.Request().Context(), c.Param("id"), fields)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, doc,
		h.typ.Title()+" updated successfully")
}

// Delete handles DELETE /:id.
func (h *RegistryHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"id": id},
		h.typ.Title()+" deleted successfully")
}

// Exists handles GET /verify?id=.
func (h *RegistryHandler) Exists(c echo.Context) error {
	exists, err := h.uc.Exists(c.Request().Context(), c.QueryParam("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	message := h.typ.Title() + " does not exist"
	if exists {
		message = h.typ.Title() + " exists"
	}

	return response.Success(c, http.StatusOK, map[string]bool{"exists": exists}, message)
}

// Search handles GET /search?q=&field=.
func (h *RegistryHandler) Search(c echo.Context) error {
	var query SearchQuery
	if err := c.Bind(&query); err != nil {
		return domainerrors.ErrInvalidInput.WithMessage("Invalid search parameters")
	}
	if err := c.Validate(&query); err != nil {
		return errors.WithStack(err)
	}

	docs, err := h.uc.Search(c.Request().Context(), query.Field, query.Q)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, docs,
		fmt.Sprintf("Found %d matching %s", len(docs), h.typ.Collection))
}

// FilterByCategory handles GET /<category>/:value.
func (h *RegistryHandler) FilterByCategory(c echo.Context) error {
	value := c.Param("value")
	docs, err := h.uc.FilterByField(c.Request().Context(), h.typ.CategoryField, value)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, docs,
		fmt.Sprintf("Found %d %s with %s '%s'", len(docs), h.typ.Collection, h.typ.CategoryField, value))
}

// Login handles POST /login.
func (h *RegistryHandler) Login(c echo.Context) error {
	fields, err := h.bindFields(c)
	if err != nil {
		return err
	}

	doc, err := h.uc.Login(c.Request().Context(), fields)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, doc, "Login successful")
}

// bindFields decodes a free-form JSON body. Registration and update inputs
// are open field maps, not fixed DTOs.
func (h *RegistryHandler) bindFields(c echo.Context) (entity.Document, error) {
	var fields map[string]any
	if err := c.Bind(&fields); err != nil {
		return nil, domainerrors.ErrInvalidInput.WithMessage("Invalid JSON or no data provided")
	}

	return entity.Document(fields), nil
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
