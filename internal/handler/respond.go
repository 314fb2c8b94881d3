package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"fms/internal/errors"
)

// bindRequest binds and validates a JSON body, converting failures to the
// standard Arabic validation responses.
func bindRequest(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "صيغة الطلب غير صحيحة",
			Code:  "INVALID_BODY",
		})
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "حقول مطلوبة مفقودة أو غير صالحة",
			Code:  "VALIDATION_FAILED",
		})
	}
	return nil
}

// domainError converts a domain error to its HTTP form.
func domainError(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// actorID returns the authenticated caller's user ID, or uuid.Nil when the
// claims are missing or malformed.
func actorID(c echo.Context) uuid.UUID {
	claims, ok := ClaimsFrom(c)
	if !ok {
		return uuid.Nil
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil
	}
	return id
}
