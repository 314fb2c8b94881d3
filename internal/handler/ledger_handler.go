package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"fms/internal/errors"
	"fms/internal/model"
	"fms/internal/service"
)

// LedgerHandler handles ledger entry endpoints.
type LedgerHandler struct {
	ledgerService service.LedgerService
}

// NewLedgerHandler creates a new ledger handler.
func NewLedgerHandler(ledgerService service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// LedgerEntryRequest represents a ledger entry create/update payload.
type LedgerEntryRequest struct {
	EntityID    string `json:"entity_id" validate:"required,uuid"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Description string `json:"description" validate:"required"`
	Debit       string `json:"debit"`
	Credit      string `json:"credit"`
	Reference   string `json:"reference"`
}

// Statement godoc
// @Summary Get an entity's ledger statement with running balance
// @Tags ledger
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entity ID"
// @Success 200 {array} service.LedgerLine
// @Failure 404 {object} errors.ErrorResponse
// @Router /entities/{id}/ledger [get]
func (h *LedgerHandler) Statement(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	lines, err := h.ledgerService.Statement(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, lines)
}

// Create godoc
// @Summary Add a ledger entry
// @Tags ledger
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body LedgerEntryRequest true "Ledger entry data"
// @Success 201 {object} model.LedgerEntry
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /ledger [post]
func (h *LedgerHandler) Create(c echo.Context) error {
	entry, err := h.entryFromRequest(c)
	if err != nil {
		return err
	}
	entry.CreatedBy = actorID(c)

	if err := h.ledgerService.Create(c.Request().Context(), entry); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, entry)
}

// Update godoc
// @Summary Update a ledger entry
// @Tags ledger
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ledger entry ID"
// @Param request body LedgerEntryRequest true "Ledger entry data"
// @Success 200 {object} model.LedgerEntry
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /ledger/{id} [put]
func (h *LedgerHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	existing, err := h.ledgerService.Get(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}

	updated, err := h.entryFromRequest(c)
	if err != nil {
		return err
	}
	existing.EntityID = updated.EntityID
	existing.Date = updated.Date
	existing.Description = updated.Description
	existing.Debit = updated.Debit
	existing.Credit = updated.Credit
	existing.Reference = updated.Reference

	if err := h.ledgerService.Update(c.Request().Context(), existing); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, existing)
}

// Delete godoc
// @Summary Delete a ledger entry
// @Tags ledger
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ledger entry ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /ledger/{id} [delete]
func (h *LedgerHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.ledgerService.Delete(c.Request().Context(), id, actorID(c)); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "تم حذف القيد بنجاح"})
}

func (h *LedgerHandler) entryFromRequest(c echo.Context) (*model.LedgerEntry, error) {
	var req LedgerEntryRequest
	if err := bindRequest(c, &req); err != nil {
		return nil, err
	}

	entityID, _ := uuid.Parse(req.EntityID)
	date, _ := time.Parse("2006-01-02", req.Date)

	debit, err := parseAmount(req.Debit)
	if err != nil {
		return nil, err
	}
	credit, err := parseAmount(req.Credit)
	if err != nil {
		return nil, err
	}

	return &model.LedgerEntry{
		EntityID:    entityID,
		Date:        date,
		Description: req.Description,
		Debit:       debit,
		Credit:      credit,
		Reference:   req.Reference,
	}, nil
}

// parseAmount parses an optional decimal field; empty means zero.
func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil || amount.IsNegative() {
		return decimal.Zero, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "المبلغ غير صالح",
			Code:  "INVALID_AMOUNT",
		})
	}
	return amount, nil
}
