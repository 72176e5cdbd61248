package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/clinic_billing/internal/core/ports/services"
	"github.com/SscSPs/clinic_billing/internal/dto"
	"github.com/SscSPs/clinic_billing/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// RegisterReportingRoutes registers routes related to financial reports
func RegisterReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	// Reports are nested under a ledger domain
	reportingGroup := rg.Group("/ledgers/:domain/reports")
	{
		reportingGroup.GET("/daily-statement", h.getDailyStatement)
		reportingGroup.GET("/monthly", h.getMonthlyReport)
		reportingGroup.GET("/balance-sheet", h.getBalanceSheet)
		reportingGroup.GET("/analytics", h.getAnalytics)
	}
}

// getDailyStatement godoc
// @Summary Generate a daily statement
// @Description One row per day in [from, to] with a running balance
// @Tags reports
// @Produce json
// @Param domain path string true "Ledger domain"
// @Param from query string true "First day (YYYY-MM-DD)"
// @Param to query string true "Last day (YYYY-MM-DD)"
// @Success 200 {object} domain.DailyStatement
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /ledgers/{domain}/reports/daily-statement [get]
func (h *reportingHandler) getDailyStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ledgerDomain, ok := ledgerDomainParam(c)
	if !ok {
		return
	}
	if _, ok := actingUser(c); !ok {
		return
	}

	var params dto.DailyStatementParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid daily statement parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to are required in YYYY-MM-DD format"})
		return
	}

	statement, err := h.reportingService.DailyStatement(c.Request.Context(), ledgerDomain, params.From, params.To)
	if err != nil {
		respondWithError(c, err, "Failed to generate daily statement")
		return
	}
	c.JSON(http.StatusOK, statement)
}

// getMonthlyReport godoc
// @Summary Generate a monthly report
// @Tags reports
// @Produce json
// @Param domain path string true "Ledger domain"
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Success 200 {object} domain.MonthlyReport
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /ledgers/{domain}/reports/monthly [get]
func (h *reportingHandler) getMonthlyReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ledgerDomain, ok := ledgerDomainParam(c)
	if !ok {
		return
	}
	if _, ok := actingUser(c); !ok {
		return
	}

	var params dto.MonthlyReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid monthly report parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	report, err := h.reportingService.MonthlyReport(c.Request.Context(), ledgerDomain, params.Year, time.Month(params.Month))
	if err != nil {
		respondWithError(c, err, "Failed to generate monthly report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getBalanceSheet godoc
// @Summary Generate a balance sheet
// @Description All-time and current-month figures of a ledger domain
// @Tags reports
// @Produce json
// @Param domain path string true "Ledger domain"
// @Success 200 {object} domain.BalanceSheet
// @Failure 400 {object} map[string]string "Invalid domain"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /ledgers/{domain}/reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	ledgerDomain, ok := ledgerDomainParam(c)
	if !ok {
		return
	}
	if _, ok := actingUser(c); !ok {
		return
	}

	sheet, err := h.reportingService.BalanceSheet(c.Request.Context(), ledgerDomain)
	if err != nil {
		respondWithError(c, err, "Failed to generate balance sheet")
		return
	}
	c.JSON(http.StatusOK, sheet)
}

// getAnalytics godoc
// @Summary Trailing twelve month analytics
// @Tags reports
// @Produce json
// @Param domain path string true "Ledger domain"
// @Success 200 {object} domain.Analytics
// @Failure 400 {object} map[string]string "Invalid domain"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /ledgers/{domain}/reports/analytics [get]
func (h *reportingHandler) getAnalytics(c *gin.Context) {
	ledgerDomain, ok := ledgerDomainParam(c)
	if !ok {
		return
	}
	if _, ok := actingUser(c); !ok {
		return
	}

	analytics, err := h.reportingService.Analytics(c.Request.Context(), ledgerDomain)
	if err != nil {
		respondWithError(c, err, "Failed to generate analytics")
		return
	}
	c.JSON(http.StatusOK, analytics)
}
