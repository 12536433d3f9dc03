package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/famshare/family_budget_app/internal/core/ports/services"
	"github.com/famshare/family_budget_app/internal/dto"
	"github.com/famshare/family_budget_app/internal/middleware"
)

// budgetHandler handles HTTP requests related to budgets.
type budgetHandler struct {
	budgetService portssvc.BudgetSvcFacade
}

func newBudgetHandler(bs portssvc.BudgetSvcFacade) *budgetHandler {
	return &budgetHandler{budgetService: bs}
}

// registerBudgetRoutes registers budget routes nested under a family.
func registerBudgetRoutes(rg *gin.RouterGroup, budgetService portssvc.BudgetSvcFacade) {
	h := newBudgetHandler(budgetService)

	budgets := rg.Group("/budgets")
	{
		budgets.POST("", h.createBudget)
		budgets.GET("", h.listBudgets)
		budgets.POST("/reset", h.resetBudgets)
		budgets.GET("/:budget_id", h.getBudget)
		budgets.PUT("/:budget_id", h.updateBudget)
		budgets.DELETE("/:budget_id", h.deleteBudget)
		budgets.POST("/:budget_id/recompute", h.recomputeSpent)
	}
}

// createBudget godoc
// @Summary Create a budget
// @Description Creates a budget with a zero spent aggregate stamped with the current month.
// @Tags budgets
// @Accept json
// @Produce json
// @Param family_id path string true "Family ID"
// @Param budget body dto.CreateBudgetRequest true "Budget details"
// @Success 201 {object} dto.BudgetResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /families/{family_id}/budgets [post]
func (h *budgetHandler) createBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	familyID := c.Param("family_id")

	var req dto.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	budget, err := h.budgetService.CreateBudget(c.Request.Context(), familyID, req, userID)
	if err != nil {
		logger.Warn("Failed to create budget", slog.String("error", err.Error()), slog.String("family_id", familyID))
		respondError(c, err, "Failed to create budget")
		return
	}

	c.JSON(http.StatusCreated, dto.ToBudgetResponse(budget))
}

// listBudgets godoc
// @Summary List budgets
// @Description Retrieves all budgets of a family with their current spent and remaining amounts.
// @Tags budgets
// @Produce json
// @Param family_id path string true "Family ID"
// @Success 200 {array} dto.BudgetResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /families/{family_id}/budgets [get]
func (h *budgetHandler) listBudgets(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	familyID := c.Param("family_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	budgets, err := h.budgetService.ListBudgets(c.Request.Context(), familyID, userID)
	if err != nil {
		logger.Warn("Failed to list budgets", slog.String("error", err.Error()), slog.String("family_id", familyID))
		respondError(c, err, "Failed to list budgets")
		return
	}

	c.JSON(http.StatusOK, dto.ToBudgetResponses(budgets))
}

// getBudget godoc
// @Summary Get a budget
// @Description Retrieves a single budget by ID.
// @Tags budgets
// @Produce json
// @Param family_id path string true "Family ID"
// @Param budget_id path string true "Budget ID"
// @Success 200 {object} dto.BudgetResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /families/{family_id}/budgets/{budget_id} [get]
func (h *budgetHandler) getBudget(c *gin.Context) {
	familyID := c.Param("family_id")
	budgetID := c.Param("budget_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	budget, err := h.budgetService.GetBudgetByID(c.Request.Context(), familyID, budgetID, userID)
	if err != nil {
		respondError(c, err, "Failed to fetch budget")
		return
	}

	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// updateBudget godoc
// @Summary Update a budget
// @Description Edits a budget's name or amount. The spent aggregate is never editable.
// @Tags budgets
// @Accept json
// @Produce json
// @Param family_id path string true "Family ID"
// @Param budget_id path string true "Budget ID"
// @Param budget body dto.UpdateBudgetRequest true "Fields to update"
// @Success 200 {object} dto.BudgetResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /families/{family_id}/budgets/{budget_id} [put]
func (h *budgetHandler) updateBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	familyID := c.Param("family_id")
	budgetID := c.Param("budget_id")

	var req dto.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	budget, err := h.budgetService.UpdateBudget(c.Request.Context(), familyID, budgetID, req, userID)
	if err != nil {
		logger.Warn("Failed to update budget", slog.String("error", err.Error()), slog.String("budget_id", budgetID))
		respondError(c, err, "Failed to update budget")
		return
	}

	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// deleteBudget godoc
// @Summary Delete a budget
// @Description Removes a budget. Categories linked to it go dangling and stop contributing.
// @Tags budgets
// @Param family_id path string true "Family ID"
// @Param budget_id path string true "Budget ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /families/{family_id}/budgets/{budget_id} [delete]
func (h *budgetHandler) deleteBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	familyID := c.Param("family_id")
	budgetID := c.Param("budget_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.budgetService.DeleteBudget(c.Request.Context(), familyID, budgetID, userID); err != nil {
		logger.Warn("Failed to delete budget", slog.String("error", err.Error()), slog.String("budget_id", budgetID))
		respondError(c, err, "Failed to delete budget")
		return
	}

	c.Status(http.StatusNoContent)
}

// resetBudgets godoc
// @Summary Reset budgets for a new month
// @Description Zeroes the spent aggregate of every budget whose last reset month is stale. Safe to repeat within a month.
// @Tags budgets
// @Produce json
// @Param family_id path string true "Family ID"
// @Success 200 {object} dto.BudgetResetResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /families/{family_id}/budgets/reset [post]
func (h *budgetHandler) resetBudgets(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	familyID := c.Param("family_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.budgetService.ResetBudgetsIfNewMonth(c.Request.Context(), familyID, userID)
	if err != nil {
		logger.Warn("Failed to run monthly reset", slog.String("error", err.Error()), slog.String("family_id", familyID))
		respondError(c, err, "Failed to reset budgets")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// recomputeSpent godoc
// @Summary Recompute a budget's spent aggregate
// @Description Rebuilds the spent aggregate from the budget's debit transactions in the current month. Consistency fallback, admin only.
// @Tags budgets
// @Produce json
// @Param family_id path string true "Family ID"
// @Param budget_id path string true "Budget ID"
// @Success 200 {object} dto.BudgetResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /families/{family_id}/budgets/{budget_id}/recompute [post]
func (h *budgetHandler) recomputeSpent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	familyID := c.Param("family_id")
	budgetID := c.Param("budget_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	budget, err := h.budgetService.RecomputeSpent(c.Request.Context(), familyID, budgetID, userID)
	if err != nil {
		logger.Warn("Failed to recompute spent", slog.String("error", err.Error()), slog.String("budget_id", budgetID))
		respondError(c, err, "Failed to recompute spent")
		return
	}

	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}
