package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/famshare/family_budget_app/internal/core/domain"
	portssvc "github.com/famshare/family_budget_app/internal/core/ports/services"
	"github.com/famshare/family_budget_app/internal/dto"
	"github.com/famshare/family_budget_app/internal/middleware"
)

// familyHandler handles HTTP requests related to families and memberships.
type familyHandler struct {
	familyService portssvc.FamilySvcFacade
}

func newFamilyHandler(fs portssvc.FamilySvcFacade) *familyHandler {
	return &familyHandler{familyService: fs}
}

// registerFamilyRoutes registers family and membership routes, and delegates
// the routes nested under a specific family to the other handlers.
func registerFamilyRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newFamilyHandler(services.Family)

	families := rg.Group("/families")
	{
		families.POST("", h.createFamily)
		families.GET("", h.listUserFamilies)
		families.POST("/join", h.joinFamily)
	}

	familySpecific := rg.Group("/families/:family_id")
	{
		familySpecific.GET("", h.getFamily)
		familySpecific.GET("/members", h.listFamilyMembers)
		familySpecific.POST("/members", h.addFamilyMember)

		registerCategoryRoutes(familySpecific, services.Category)
		registerBudgetRoutes(familySpecific, services.Budget)
		registerTransactionRoutes(familySpecific, services.Transaction)
		registerDashboardRoutes(familySpecific, services.Dashboard)
	}
}

// createFamily godoc
// @Summary Create a new family
// @Description Creates a new family and assigns the creator as admin.
// @Tags families
// @Accept json
// @Produce json
// @Param family body dto.CreateFamilyRequest true "Family details"
// @Success 201 {object} dto.FamilyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /families [post]
func (h *familyHandler) createFamily(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	family, err := h.familyService.CreateFamily(c.Request.Context(), req.Name, req.Timezone, creatorUserID)
	if err != nil {
		logger.Error("Failed to create family", slog.String("error", err.Error()))
		respondError(c, err, "Failed to create family")
		return
	}

	c.JSON(http.StatusCreated, dto.ToFamilyResponse(family))
}

// listUserFamilies godoc
// @Summary List families for current user
// @Description Retrieves the families the authenticated user belongs to.
// @Tags families
// @Produce json
// @Success 200 {array} dto.FamilyResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /families [get]
func (h *familyHandler) listUserFamilies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	families, err := h.familyService.ListUserFamilies(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list families", slog.String("error", err.Error()))
		respondError(c, err, "Failed to list families")
		return
	}

	out := make([]dto.FamilyResponse, len(families))
	for i := range families {
		out[i] = dto.ToFamilyResponse(&families[i])
	}
	c.JSON(http.StatusOK, out)
}

// joinFamily godoc
// @Summary Join a family by code
// @Description Adds the authenticated user to the family matching the join code.
// @Tags families
// @Accept json
// @Produce json
// @Param join body dto.JoinFamilyRequest true "Join code and optional role"
// @Success 200 {object} dto.FamilyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Unknown join code"
// @Failure 409 {object} ErrorResponse "Already a member"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /families/join [post]
func (h *familyHandler) joinFamily(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.JoinFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	family, err := h.familyService.JoinFamily(c.Request.Context(), userID, req.JoinCode, domain.UserFamilyRole(req.Role))
	if err != nil {
		logger.Warn("Failed to join family", slog.String("error", err.Error()))
		respondError(c, err, "Failed to join family")
		return
	}

	c.JSON(http.StatusOK, dto.ToFamilyResponse(family))
}

// getFamily godoc
// @Summary Get family details
// @Description Retrieves a family the authenticated user belongs to.
// @Tags families
// @Produce json
// @Param family_id path string true "Family ID"
// @Success 200 {object} dto.FamilyResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /families/{family_id} [get]
func (h *familyHandler) getFamily(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	familyID := c.Param("family_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	// Membership check first so outsiders cannot probe family existence.
	if err := h.familyService.AuthorizeUserAction(c.Request.Context(), userID, familyID, domain.RoleChild); err != nil {
		respondError(c, err, "Failed to fetch family")
		return
	}

	family, err := h.familyService.FindFamilyByID(c.Request.Context(), familyID)
	if err != nil {
		logger.Error("Failed to fetch family", slog.String("error", err.Error()), slog.String("family_id", familyID))
		respondError(c, err, "Failed to fetch family")
		return
	}

	c.JSON(http.StatusOK, dto.ToFamilyResponse(family))
}

// listFamilyMembers godoc
// @Summary List family members
// @Description Retrieves all members of a family with their roles.
// @Tags families
// @Produce json
// @Param family_id path string true "Family ID"
// @Success 200 {array} dto.FamilyMemberResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /families/{family_id}/members [get]
func (h *familyHandler) listFamilyMembers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	familyID := c.Param("family_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	members, err := h.familyService.ListFamilyMembers(c.Request.Context(), familyID, userID)
	if err != nil {
		logger.Warn("Failed to list family members", slog.String("error", err.Error()), slog.String("family_id", familyID))
		respondError(c, err, "Failed to list family members")
		return
	}

	c.JSON(http.StatusOK, dto.ToFamilyMemberResponses(members))
}

// addFamilyMember godoc
// @Summary Add a user to a family
// @Description Adds a specified user to the family with a given role (requires admin permission).
// @Tags families
// @Accept json
// @Produce json
// @Param family_id path string true "Family ID"
// @Param member body dto.AddMemberRequest true "User ID and role"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Caller is not admin"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already a member"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /families/{family_id}/members [post]
func (h *familyHandler) addFamilyMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	familyID := c.Param("family_id")

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	addingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	err := h.familyService.AddUserToFamily(c.Request.Context(), addingUserID, req.UserID, familyID, domain.UserFamilyRole(req.Role))
	if err != nil {
		logger.Warn("Failed to add user to family", slog.String("error", err.Error()), slog.String("family_id", familyID))
		respondError(c, err, "Failed to add user to family")
		return
	}

	c.Status(http.StatusNoContent)
}
