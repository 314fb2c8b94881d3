package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"fms/internal/errors"
	"fms/internal/model"
	"fms/internal/service"
)

// EntityHandler handles entity and revenue category endpoints.
type EntityHandler struct {
	entityService service.EntityService
}

// NewEntityHandler creates a new entity handler.
func NewEntityHandler(entityService service.EntityService) *EntityHandler {
	return &EntityHandler{entityService: entityService}
}

// EntityRequest represents an entity create/update payload.
type EntityRequest struct {
	Name        string `json:"name" validate:"required"`
	Type        string `json:"type"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

// RevenueRequest represents a revenue category create payload.
type RevenueRequest struct {
	Name        string `json:"name" validate:"required"`
	Code        string `json:"code" validate:"required"`
	Description string `json:"description"`
}

// List godoc
// @Summary List entities
// @Tags entities
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Entity
// @Failure 401 {object} errors.ErrorResponse
// @Router /entities [get]
func (h *EntityHandler) List(c echo.Context) error {
	entities, err := h.entityService.List(c.Request().Context())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, entities)
}

// Get godoc
// @Summary Get an entity
// @Tags entities
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entity ID"
// @Success 200 {object} model.Entity
// @Failure 404 {object} errors.ErrorResponse
// @Router /entities/{id} [get]
func (h *EntityHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	entity, err := h.entityService.Get(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, entity)
}

// Create godoc
// @Summary Create an entity
// @Tags entities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body EntityRequest true "Entity data"
// @Success 201 {object} model.Entity
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /entities [post]
func (h *EntityHandler) Create(c echo.Context) error {
	var req EntityRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	entity := &model.Entity{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		entity.IsActive = *req.IsActive
	}

	if err := h.entityService.Create(c.Request().Context(), entity, actorID(c)); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, entity)
}

// Update godoc
// @Summary Update an entity
// @Tags entities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entity ID"
// @Param request body EntityRequest true "Entity data"
// @Success 200 {object} model.Entity
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /entities/{id} [put]
func (h *EntityHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req EntityRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	entity, err := h.entityService.Get(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}

	entity.Name = req.Name
	entity.Type = req.Type
	entity.Description = req.Description
	if req.IsActive != nil {
		entity.IsActive = *req.IsActive
	}

	if err := h.entityService.Update(c.Request().Context(), entity, actorID(c)); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, entity)
}

// Delete godoc
// @Summary Delete an entity
// @Tags entities
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entity ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /entities/{id} [delete]
func (h *EntityHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.entityService.Delete(c.Request().Context(), id, actorID(c)); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "تم حذف الجهة بنجاح"})
}

// ListRevenues godoc
// @Summary List an entity's revenue categories
// @Tags entities
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entity ID"
// @Success 200 {array} model.Revenue
// @Failure 404 {object} errors.ErrorResponse
// @Router /entities/{id}/revenues [get]
func (h *EntityHandler) ListRevenues(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	revenues, err := h.entityService.ListRevenues(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, revenues)
}

// CreateRevenue godoc
// @Summary Create a revenue category for an entity
// @Tags entities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entity ID"
// @Param request body RevenueRequest true "Revenue data"
// @Success 201 {object} model.Revenue
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /entities/{id}/revenues [post]
func (h *EntityHandler) CreateRevenue(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req RevenueRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	revenue := &model.Revenue{
		EntityID:    id,
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
	}
	if err := h.entityService.CreateRevenue(c.Request().Context(), revenue, actorID(c)); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, revenue)
}

// parseID parses the :id path parameter as a UUID.
func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "معرّف غير صالح",
			Code:  "INVALID_UUID",
		})
	}
	return id, nil
}
