package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"fms/internal/model"
	"fms/internal/repository"
	"fms/internal/service"
)

// UserHandler handles admin-side user management and the activity trail.
type UserHandler struct {
	authService  service.AuthService
	activityRepo repository.ActivityLogRepository
}

// NewUserHandler creates a new user handler.
func NewUserHandler(authService service.AuthService, activityRepo repository.ActivityLogRepository) *UserHandler {
	return &UserHandler{
		authService:  authService,
		activityRepo: activityRepo,
	}
}

// CreateUserRequest represents an admin-created user payload.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=MANAGER ACCOUNTANT VIEWER"`
}

// Create godoc
// @Summary Create a user (admin only)
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateUserRequest true "User data"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req CreateUserRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	actor := ""
	if claims, ok := ClaimsFrom(c); ok {
		actor = claims.Username
	}

	user, err := h.authService.CreateUser(c.Request().Context(), service.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     model.Role(req.Role),
	}, actor)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

// ActivityLogs godoc
// @Summary List the activity trail (admin only)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (max 500)"
// @Param offset query int false "Offset"
// @Success 200 {array} model.ActivityLog
// @Failure 403 {object} errors.ErrorResponse
// @Router /activity-logs [get]
func (h *UserHandler) ActivityLogs(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	entries, err := h.activityRepo.List(c.Request().Context(), limit, offset)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, entries)
}
