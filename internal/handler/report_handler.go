package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"fms/internal/service"
)

// ReportHandler handles reporting and export endpoints.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new report handler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Summary godoc
// @Summary Income totals per entity
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param entity_id query string false "Filter by entity"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} service.Summary
// @Failure 401 {object} errors.ErrorResponse
// @Router /reports/summary [get]
func (h *ReportHandler) Summary(c echo.Context) error {
	filter, err := incomeFilterFromQuery(c)
	if err != nil {
		return err
	}
	summary, err := h.reportService.Summary(c.Request().Context(), filter)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, summary)
}

// ExportIncomes godoc
// @Summary Export income records as CSV
// @Tags reports
// @Produce text/csv
// @Security BearerAuth
// @Param entity_id query string false "Filter by entity"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {string} string "CSV payload"
// @Failure 401 {object} errors.ErrorResponse
// @Router /reports/incomes/export [get]
func (h *ReportHandler) ExportIncomes(c echo.Context) error {
	filter, err := incomeFilterFromQuery(c)
	if err != nil {
		return err
	}
	payload, err := h.reportService.ExportIncomesCSV(c.Request().Context(), filter)
	if err != nil {
		return domainError(err)
	}

	filename := "incomes-" + time.Now().Format("2006-01-02") + ".csv"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", payload)
}
