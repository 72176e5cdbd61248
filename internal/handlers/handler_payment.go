package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/clinic_billing/internal/core/ports/services"
	"github.com/SscSPs/clinic_billing/internal/dto"
	"github.com/SscSPs/clinic_billing/internal/middleware"
	"github.com/gin-gonic/gin"
)

// paymentHandler handles HTTP requests related to payments, refunds and installments.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

// newPaymentHandler creates a new paymentHandler.
func newPaymentHandler(ps portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{
		paymentService: ps,
	}
}

// RegisterPaymentRoutes registers routes related to payments.
func RegisterPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)

	payments := rg.Group("/payments")
	{
		payments.POST("", h.processPayment)
		payments.GET("/:paymentID", h.getPayment)
		payments.POST("/:paymentID/refunds", h.processRefund)
	}

	invoices := rg.Group("/invoices/:invoiceID")
	{
		invoices.GET("/payments", h.listInvoicePayments)
		invoices.POST("/partial-payments", h.processPartialPayment)
		invoices.POST("/installments", h.createInstallmentPlan)
	}

	rg.POST("/installments/:installmentID/payments", h.processInstallmentPayment)
}

// processPayment godoc
// @Summary Record a payment
// @Description Records money received from a patient, optionally against an invoice, and books it to the matching ledger
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   payment body dto.ProcessPaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Patient, invoice or payment method not found"
// @Failure 409 {object} map[string]string "Amount exceeds the invoice due amount"
// @Failure 422 {object} map[string]string "No active income category in the ledger"
// @Failure 500 {object} map[string]string "Failed to process payment"
// @Security BearerAuth
// @Router /payments [post]
func (h *paymentHandler) processPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ProcessPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := actingUser(c)
	if !ok {
		return
	}

	logger = logger.With(slog.String("user_id", userID), slog.String("patient_id", req.PatientID))
	logger.Info("Received request to process payment", slog.String("amount", req.Amount.String()))

	payment, err := h.paymentService.ProcessPayment(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to process payment")
		return
	}

	logger.Info("Payment processed", slog.String("payment_id", payment.PaymentID))
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment))
}

// getPayment godoc
// @Summary Get a payment by ID
// @Tags payments
// @Produce  json
// @Param   paymentID path string true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 500 {object} map[string]string "Failed to retrieve payment"
// @Security BearerAuth
// @Router /payments/{paymentID} [get]
func (h *paymentHandler) getPayment(c *gin.Context) {
	if _, ok := actingUser(c); !ok {
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), c.Param("paymentID"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

// processRefund godoc
// @Summary Refund a payment
// @Description Records a refund against an earlier payment and books an expense to the same ledger
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   paymentID path string true "Original payment ID"
// @Param   refund body dto.ProcessRefundRequest true "Refund details"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 409 {object} map[string]string "Refund exceeds the refundable amount"
// @Failure 500 {object} map[string]string "Failed to process refund"
// @Security BearerAuth
// @Router /payments/{paymentID}/refunds [post]
func (h *paymentHandler) processRefund(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	originalPaymentID := c.Param("paymentID")

	var req dto.ProcessRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ProcessRefund", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := actingUser(c)
	if !ok {
		return
	}

	logger = logger.With(slog.String("user_id", userID), slog.String("original_payment_id", originalPaymentID))
	logger.Info("Received request to refund payment", slog.String("amount", req.Amount.String()))

	refund, err := h.paymentService.ProcessRefund(c.Request.Context(), originalPaymentID, req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to process refund")
		return
	}

	logger.Info("Refund processed", slog.String("refund_id", refund.PaymentID))
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(refund))
}

// listInvoicePayments godoc
// @Summary List payments of an invoice
// @Description Lists payments and refunds linked to an invoice, oldest first
// @Tags payments
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Success 200 {array} dto.PaymentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 500 {object} map[string]string "Failed to list payments"
// @Security BearerAuth
// @Router /invoices/{invoiceID}/payments [get]
func (h *paymentHandler) listInvoicePayments(c *gin.Context) {
	if _, ok := actingUser(c); !ok {
		return
	}

	payments, err := h.paymentService.ListInvoicePayments(c.Request.Context(), c.Param("invoiceID"))
	if err != nil {
		respondWithError(c, err, "Failed to list payments")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentResponses(payments))
}

// processPartialPayment godoc
// @Summary Pay part of an invoice
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Param   payment body dto.PartialPaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Amount exceeds the invoice due amount"
// @Failure 500 {object} map[string]string "Failed to process payment"
// @Security BearerAuth
// @Router /invoices/{invoiceID}/partial-payments [post]
func (h *paymentHandler) processPartialPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	var req dto.PartialPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PartialPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := actingUser(c)
	if !ok {
		return
	}

	payment, err := h.paymentService.ProcessPartialPayment(c.Request.Context(), invoiceID, req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to process payment")
		return
	}

	logger.Info("Partial payment processed", slog.String("invoice_id", invoiceID), slog.String("payment_id", payment.PaymentID))
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment))
}

// createInstallmentPlan godoc
// @Summary Split an invoice into installments
// @Description Creates an installment plan either from explicit amounts or an even split over count
// @Tags installments
// @Accept  json
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Param   plan body dto.CreateInstallmentPlanRequest true "Plan details"
// @Success 201 {array} dto.InstallmentResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Invoice already has a plan or nothing is due"
// @Failure 500 {object} map[string]string "Failed to create installment plan"
// @Security BearerAuth
// @Router /invoices/{invoiceID}/installments [post]
func (h *paymentHandler) createInstallmentPlan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	var req dto.CreateInstallmentPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateInstallmentPlan", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := actingUser(c)
	if !ok {
		return
	}

	installments, err := h.paymentService.CreateInstallmentPlan(c.Request.Context(), invoiceID, req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create installment plan")
		return
	}

	logger.Info("Installment plan created", slog.String("invoice_id", invoiceID), slog.Int("installments", len(installments)))
	c.JSON(http.StatusCreated, dto.ToInstallmentResponses(installments))
}

// processInstallmentPayment godoc
// @Summary Pay an installment
// @Tags installments
// @Accept  json
// @Produce  json
// @Param   installmentID path string true "Installment ID"
// @Param   payment body dto.InstallmentPaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Installment not found"
// @Failure 409 {object} map[string]string "Installment already paid or amount exceeds its balance"
// @Failure 500 {object} map[string]string "Failed to process installment payment"
// @Security BearerAuth
// @Router /installments/{installmentID}/payments [post]
func (h *paymentHandler) processInstallmentPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	installmentID := c.Param("installmentID")

	var req dto.InstallmentPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for InstallmentPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := actingUser(c)
	if !ok {
		return
	}

	payment, err := h.paymentService.ProcessInstallmentPayment(c.Request.Context(), installmentID, req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to process installment payment")
		return
	}

	logger.Info("Installment payment processed", slog.String("installment_id", installmentID), slog.String("payment_id", payment.PaymentID))
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment))
}
