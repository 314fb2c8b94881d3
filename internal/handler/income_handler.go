package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"fms/internal/errors"
	"fms/internal/model"
	"fms/internal/repository"
	"fms/internal/service"
)

// IncomeHandler handles income record endpoints.
type IncomeHandler struct {
	incomeService service.IncomeService
}

// NewIncomeHandler creates a new income handler.
func NewIncomeHandler(incomeService service.IncomeService) *IncomeHandler {
	return &IncomeHandler{incomeService: incomeService}
}

// IncomeRequest represents an income create/update payload.
type IncomeRequest struct {
	EntityID      string `json:"entity_id" validate:"required,uuid"`
	RevenueID     string `json:"revenue_id" validate:"required,uuid"`
	Amount        string `json:"amount" validate:"required"`
	Date          string `json:"date" validate:"required,datetime=2006-01-02"`
	ReceiptNumber string `json:"receipt_number"`
	Notes         string `json:"notes"`
}

// List godoc
// @Summary List income records
// @Tags incomes
// @Produce json
// @Security BearerAuth
// @Param entity_id query string false "Filter by entity"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {array} model.Income
// @Failure 401 {object} errors.ErrorResponse
// @Router /incomes [get]
func (h *IncomeHandler) List(c echo.Context) error {
	filter, err := incomeFilterFromQuery(c)
	if err != nil {
		return err
	}
	incomes, err := h.incomeService.List(c.Request().Context(), filter)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, incomes)
}

// Get godoc
// @Summary Get an income record
// @Tags incomes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Income ID"
// @Success 200 {object} model.Income
// @Failure 404 {object} errors.ErrorResponse
// @Router /incomes/{id} [get]
func (h *IncomeHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	income, err := h.incomeService.Get(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, income)
}

// Create godoc
// @Summary Record an income
// @Tags incomes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body IncomeRequest true "Income data"
// @Success 201 {object} model.Income
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /incomes [post]
func (h *IncomeHandler) Create(c echo.Context) error {
	income, err := h.incomeFromRequest(c)
	if err != nil {
		return err
	}
	income.CreatedBy = actorID(c)

	if err := h.incomeService.Create(c.Request().Context(), income); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, income)
}

// Update godoc
// @Summary Update an income record
// @Tags incomes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Income ID"
// @Param request body IncomeRequest true "Income data"
// @Success 200 {object} model.Income
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /incomes/{id} [put]
func (h *IncomeHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	existing, err := h.incomeService.Get(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}

	updated, err := h.incomeFromRequest(c)
	if err != nil {
		return err
	}
	existing.EntityID = updated.EntityID
	existing.RevenueID = updated.RevenueID
	existing.Amount = updated.Amount
	existing.Date = updated.Date
	existing.ReceiptNumber = updated.ReceiptNumber
	existing.Notes = updated.Notes

	if err := h.incomeService.Update(c.Request().Context(), existing); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, existing)
}

// Delete godoc
// @Summary Delete an income record
// @Tags incomes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Income ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /incomes/{id} [delete]
func (h *IncomeHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.incomeService.Delete(c.Request().Context(), id, actorID(c)); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "تم حذف السجل بنجاح"})
}

func (h *IncomeHandler) incomeFromRequest(c echo.Context) (*model.Income, error) {
	var req IncomeRequest
	if err := bindRequest(c, &req); err != nil {
		return nil, err
	}

	entityID, _ := uuid.Parse(req.EntityID)
	revenueID, _ := uuid.Parse(req.RevenueID)

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.IsNegative() {
		return nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "المبلغ غير صالح",
			Code:  "INVALID_AMOUNT",
		})
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	return &model.Income{
		EntityID:      entityID,
		RevenueID:     revenueID,
		Amount:        amount,
		Date:          date,
		ReceiptNumber: req.ReceiptNumber,
		Notes:         req.Notes,
	}, nil
}

// incomeFilterFromQuery builds an income filter from query parameters.
func incomeFilterFromQuery(c echo.Context) (repository.IncomeFilter, error) {
	var filter repository.IncomeFilter

	if raw := c.QueryParam("entity_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "معرّف غير صالح",
				Code:  "INVALID_UUID",
			})
		}
		filter.EntityID = &id
	}
	if raw := c.QueryParam("revenue_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "معرّف غير صالح",
				Code:  "INVALID_UUID",
			})
		}
		filter.RevenueID = &id
	}
	if raw := c.QueryParam("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "تاريخ غير صالح",
				Code:  "INVALID_DATE",
			})
		}
		filter.From = &t
	}
	if raw := c.QueryParam("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "تاريخ غير صالح",
				Code:  "INVALID_DATE",
			})
		}
		filter.To = &t
	}
	return filter, nil
}
