package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/clinic_billing/internal/core/domain"
	portssvc "github.com/SscSPs/clinic_billing/internal/core/ports/services"
	"github.com/SscSPs/clinic_billing/internal/dto"
	"github.com/SscSPs/clinic_billing/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler handles HTTP requests for ledger entries, fund movements and categories.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// RegisterLedgerRoutes registers routes related to ledger domains.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	ledger := rg.Group("/ledgers/:domain")
	{
		ledger.GET("/transactions", h.listTransactions)
		ledger.POST("/transactions", h.recordEntry)
		ledger.POST("/fund-movements", h.recordFundMovement)
		ledger.GET("/balance", h.getBalance)
		ledger.GET("/categories", h.listCategories)
		ledger.POST("/categories", h.createCategory)
	}
	rg.PATCH("/categories/:categoryID", h.updateCategory)
}

// listTransactions godoc
// @Summary List ledger entries
// @Description Lists entries of a ledger domain newest first, with cursor pagination
// @Tags ledger
// @Produce  json
// @Param   domain path string true "Ledger domain" Enums(facility, pharmacy, eyewear, operations)
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListLedgerTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid domain or query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list ledger entries"
// @Security BearerAuth
// @Router /ledgers/{domain}/transactions [get]
func (h *ledgerHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ledgerDomain, ok := ledgerDomainParam(c)
	if !ok {
		return
	}
	if _, ok := actingUser(c); !ok {
		return
	}

	var params dto.ListLedgerTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query parameters for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.ledgerService.ListTransactions(c.Request.Context(), ledgerDomain, params)
	if err != nil {
		respondWithError(c, err, "Failed to list ledger entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// recordEntry godoc
// @Summary Record a manual income or expense
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   domain path string true "Ledger domain"
// @Param   entry body dto.LedgerEntryRequest true "Entry details"
// @Success 201 {object} dto.LedgerTransactionResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Category not found"
// @Failure 500 {object} map[string]string "Failed to record entry"
// @Security BearerAuth
// @Router /ledgers/{domain}/transactions [post]
func (h *ledgerHandler) recordEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ledgerDomain, ok := ledgerDomainParam(c)
	if !ok {
		return
	}

	var req dto.LedgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := actingUser(c)
	if !ok {
		return
	}

	txn, err := h.ledgerService.RecordEntry(c.Request.Context(), ledgerDomain, req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to record entry")
		return
	}

	logger.Info("Ledger entry recorded", slog.String("transaction_id", txn.TransactionID), slog.String("domain", string(ledgerDomain)))
	c.JSON(http.StatusCreated, dto.ToLedgerTransactionResponse(txn))
}

// recordFundMovement godoc
// @Summary Record a fund movement
// @Description Records cash injected into (in) or withdrawn from (out) a ledger domain
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   domain path string true "Ledger domain"
// @Param   movement body dto.FundMovementRequest true "Movement details"
// @Success 201 {object} dto.LedgerTransactionResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to record fund movement"
// @Security BearerAuth
// @Router /ledgers/{domain}/fund-movements [post]
func (h *ledgerHandler) recordFundMovement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ledgerDomain, ok := ledgerDomainParam(c)
	if !ok {
		return
	}

	var req dto.FundMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordFundMovement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := actingUser(c)
	if !ok {
		return
	}

	txn, err := h.ledgerService.RecordFundMovement(c.Request.Context(), ledgerDomain, req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to record fund movement")
		return
	}

	logger.Info("Fund movement recorded", slog.String("transaction_id", txn.TransactionID), slog.String("direction", string(req.Direction)))
	c.JSON(http.StatusCreated, dto.ToLedgerTransactionResponse(txn))
}

// getBalance godoc
// @Summary Get a domain balance
// @Description Returns the balance of a ledger domain at the end of asOf (default today)
// @Tags ledger
// @Produce  json
// @Param   domain path string true "Ledger domain"
// @Param   asOf query string false "Cutoff date (YYYY-MM-DD)"
// @Success 200 {object} dto.BalanceResponse
// @Failure 400 {object} map[string]string "Invalid domain or date"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to calculate balance"
// @Security BearerAuth
// @Router /ledgers/{domain}/balance [get]
func (h *ledgerHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ledgerDomain, ok := ledgerDomainParam(c)
	if !ok {
		return
	}
	if _, ok := actingUser(c); !ok {
		return
	}

	var params dto.BalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid asOf date format", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
		return
	}
	// A zero cutoff means today in the business timezone.
	var asOf time.Time
	if params.AsOf != nil {
		asOf = *params.AsOf
	}

	balance, err := h.ledgerService.BalanceAsOf(c.Request.Context(), ledgerDomain, asOf)
	if err != nil {
		respondWithError(c, err, "Failed to calculate balance")
		return
	}
	resp := dto.BalanceResponse{
		Domain:  string(ledgerDomain),
		Balance: balance,
	}
	if params.AsOf != nil {
		resp.AsOf = domain.DateOnly(asOf).Format(dto.DateLayout)
	}
	c.JSON(http.StatusOK, resp)
}

// listCategories godoc
// @Summary List categories of a domain
// @Tags categories
// @Produce  json
// @Param   domain path string true "Ledger domain"
// @Param   type query string false "Entry type" Enums(income, expense)
// @Success 200 {array} dto.CategoryResponse
// @Failure 400 {object} map[string]string "Invalid domain or type"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list categories"
// @Security BearerAuth
// @Router /ledgers/{domain}/categories [get]
func (h *ledgerHandler) listCategories(c *gin.Context) {
	ledgerDomain, ok := ledgerDomainParam(c)
	if !ok {
		return
	}
	if _, ok := actingUser(c); !ok {
		return
	}

	var params dto.ListCategoriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	var entryType *domain.EntryType
	if params.Type != "" {
		t := domain.EntryType(params.Type)
		entryType = &t
	}

	categories, err := h.ledgerService.ListCategories(c.Request.Context(), ledgerDomain, entryType)
	if err != nil {
		respondWithError(c, err, "Failed to list categories")
		return
	}
	c.JSON(http.StatusOK, dto.ToCategoryResponses(categories))
}

// createCategory godoc
// @Summary Create a category
// @Tags categories
// @Accept  json
// @Produce  json
// @Param   domain path string true "Ledger domain"
// @Param   category body dto.CreateCategoryRequest true "Category details"
// @Success 201 {object} dto.CategoryResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Category already exists"
// @Failure 500 {object} map[string]string "Failed to create category"
// @Security BearerAuth
// @Router /ledgers/{domain}/categories [post]
func (h *ledgerHandler) createCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ledgerDomain, ok := ledgerDomainParam(c)
	if !ok {
		return
	}

	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCategory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := actingUser(c)
	if !ok {
		return
	}

	category, err := h.ledgerService.CreateCategory(c.Request.Context(), ledgerDomain, req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create category")
		return
	}

	logger.Info("Category created", slog.String("category_id", category.CategoryID))
	c.JSON(http.StatusCreated, dto.ToCategoryResponse(category))
}

// updateCategory godoc
// @Summary Activate or deactivate a category
// @Tags categories
// @Accept  json
// @Produce  json
// @Param   categoryID path string true "Category ID"
// @Param   category body dto.UpdateCategoryRequest true "New state"
// @Success 200 {object} dto.CategoryResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Category not found"
// @Failure 500 {object} map[string]string "Failed to update category"
// @Security BearerAuth
// @Router /categories/{categoryID} [patch]
func (h *ledgerHandler) updateCategory(c *gin.Context) {
	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := actingUser(c)
	if !ok {
		return
	}

	category, err := h.ledgerService.SetCategoryActive(c.Request.Context(), c.Param("categoryID"), *req.IsActive, userID)
	if err != nil {
		respondWithError(c, err, "Failed to update category")
		return
	}
	c.JSON(http.StatusOK, dto.ToCategoryResponse(category))
}
