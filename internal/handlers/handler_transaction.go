package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/famshare/family_budget_app/internal/core/ports/services"
	"github.com/famshare/family_budget_app/internal/dto"
	"github.com/famshare/family_budget_app/internal/middleware"
)

// transactionHandler handles HTTP requests related to transactions.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{transactionService: ts}
}

// registerTransactionRoutes registers transaction routes nested under a family.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("", h.listTransactions)
		transactions.GET("/:transaction_id", h.getTransaction)
		transactions.PUT("/:transaction_id", h.updateTransaction)
		transactions.DELETE("/:transaction_id", h.deleteTransaction)
	}
}

// parseDateRange reads the from/to query params. Values may be RFC3339
// timestamps or plain dates. An absent range defaults to the last 30 days.
func parseDateRange(c *gin.Context) (time.Time, time.Time, error) {
	parse := func(value string) (time.Time, error) {
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			return t, nil
		}
		t, err := time.Parse("2006-01-02", value)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q, expected RFC3339 or YYYY-MM-DD", value)
		}
		return t, nil
	}

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now.Add(24 * time.Hour)

	if v := c.Query("from"); v != "" {
		t, err := parse(v)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := parse(v)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = t
	}
	return from, to, nil
}

// createTransaction godoc
// @Summary Record a transaction
// @Description Records a transaction. A debit against a budget-linked category increases that budget's spent in the same commit.
// @Tags transactions
// @Accept json
// @Produce json
// @Param family_id path string true "Family ID"
// @Param transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /families/{family_id}/transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	familyID := c.Param("family_id")

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	txn, err := h.transactionService.AddTransaction(c.Request.Context(), familyID, req, userID)
	if err != nil {
		logger.Warn("Failed to record transaction", slog.String("error", err.Error()), slog.String("family_id", familyID))
		respondError(c, err, "Failed to record transaction")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions
// @Description Retrieves a family's transactions within a date range (defaults to the last 30 days).
// @Tags transactions
// @Produce json
// @Param family_id path string true "Family ID"
// @Param from query string false "Range start (RFC3339 or YYYY-MM-DD)"
// @Param to query string false "Range end, exclusive (RFC3339 or YYYY-MM-DD)"
// @Success 200 {array} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /families/{family_id}/transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	familyID := c.Param("family_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	from, to, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	txns, err := h.transactionService.ListTransactions(c.Request.Context(), familyID, from, to, userID)
	if err != nil {
		logger.Warn("Failed to list transactions", slog.String("error", err.Error()), slog.String("family_id", familyID))
		respondError(c, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponses(txns))
}

// getTransaction godoc
// @Summary Get a transaction
// @Description Retrieves a single transaction by ID.
// @Tags transactions
// @Produce json
// @Param family_id path string true "Family ID"
// @Param transaction_id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /families/{family_id}/transactions/{transaction_id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	familyID := c.Param("family_id")
	transactionID := c.Param("transaction_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	txn, err := h.transactionService.GetTransactionByID(c.Request.Context(), familyID, transactionID, userID)
	if err != nil {
		respondError(c, err, "Failed to fetch transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// updateTransaction godoc
// @Summary Edit a transaction
// @Description Replaces a transaction's state. Affected budgets' spent aggregates move by the net difference in the same commit.
// @Tags transactions
// @Accept json
// @Produce json
// @Param family_id path string true "Family ID"
// @Param transaction_id path string true "Transaction ID"
// @Param transaction body dto.UpdateTransactionRequest true "New transaction state"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /families/{family_id}/transactions/{transaction_id} [put]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	familyID := c.Param("family_id")
	transactionID := c.Param("transaction_id")

	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	txn, err := h.transactionService.EditTransaction(c.Request.Context(), familyID, transactionID, req, userID)
	if err != nil {
		logger.Warn("Failed to update transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		respondError(c, err, "Failed to update transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Description Deletes a transaction and reverses its budget contribution in the same commit. Deleting an absent transaction reports deleted=false.
// @Tags transactions
// @Produce json
// @Param family_id path string true "Family ID"
// @Param transaction_id path string true "Transaction ID"
// @Success 200 {object} dto.DeleteTransactionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /families/{family_id}/transactions/{transaction_id} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	familyID := c.Param("family_id")
	transactionID := c.Param("transaction_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	deleted, err := h.transactionService.DeleteTransaction(c.Request.Context(), familyID, transactionID, userID)
	if err != nil {
		logger.Warn("Failed to delete transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		respondError(c, err, "Failed to delete transaction")
		return
	}

	c.JSON(http.StatusOK, dto.DeleteTransactionResponse{Deleted: deleted})
}
