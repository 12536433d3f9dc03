package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/famshare/family_budget_app/internal/core/ports/services"
	"github.com/famshare/family_budget_app/internal/middleware"
)

// dashboardHandler serves the read-only summary view.
type dashboardHandler struct {
	dashboardService portssvc.DashboardSvcFacade
}

func newDashboardHandler(ds portssvc.DashboardSvcFacade) *dashboardHandler {
	return &dashboardHandler{dashboardService: ds}
}

// registerDashboardRoutes registers the dashboard route nested under a family.
func registerDashboardRoutes(rg *gin.RouterGroup, dashboardService portssvc.DashboardSvcFacade) {
	h := newDashboardHandler(dashboardService)
	rg.GET("/dashboard", h.getSummary)
}

// getSummary godoc
// @Summary Get dashboard summary
// @Description Returns overall balance, per-budget progress and per-category totals for a date range (defaults to the last 30 days).
// @Tags dashboard
// @Produce json
// @Param family_id path string true "Family ID"
// @Param from query string false "Range start (RFC3339 or YYYY-MM-DD)"
// @Param to query string false "Range end, exclusive (RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} dto.DashboardSummaryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /families/{family_id}/dashboard [get]
func (h *dashboardHandler) getSummary(c *gin.Context) {
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

	summary, err := h.dashboardService.GetSummary(c.Request.Context(), familyID, from, to, userID)
	if err != nil {
		logger.Warn("Failed to build dashboard summary", slog.String("error", err.Error()), slog.String("family_id", familyID))
		respondError(c, err, "Failed to build dashboard summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}
