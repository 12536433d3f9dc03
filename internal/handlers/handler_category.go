package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/famshare/family_budget_app/internal/core/ports/services"
	"github.com/famshare/family_budget_app/internal/dto"
	"github.com/famshare/family_budget_app/internal/middleware"
)

// categoryHandler handles HTTP requests related to categories.
type categoryHandler struct {
	categoryService portssvc.CategorySvcFacade
}

func newCategoryHandler(cs portssvc.CategorySvcFacade) *categoryHandler {
	return &categoryHandler{categoryService: cs}
}

// registerCategoryRoutes registers category routes nested under a family.
func registerCategoryRoutes(rg *gin.RouterGroup, categoryService portssvc.CategorySvcFacade) {
	h := newCategoryHandler(categoryService)

	categories := rg.Group("/categories")
	{
		categories.POST("", h.createCategory)
		categories.GET("", h.listCategories)
		categories.GET("/:category_id", h.getCategory)
		categories.PUT("/:category_id", h.updateCategory)
		categories.DELETE("/:category_id", h.deleteCategory)
	}
}

// createCategory godoc
// @Summary Create a category
// @Description Creates a category, optionally linked to a budget of the same family.
// @Tags categories
// @Accept json
// @Produce json
// @Param family_id path string true "Family ID"
// @Param category body dto.CreateCategoryRequest true "Category details"
// @Success 201 {object} dto.CategoryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /families/{family_id}/categories [post]
func (h *categoryHandler) createCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	familyID := c.Param("family_id")

	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), familyID, req, userID)
	if err != nil {
		logger.Warn("Failed to create category", slog.String("error", err.Error()), slog.String("family_id", familyID))
		respondError(c, err, "Failed to create category")
		return
	}

	c.JSON(http.StatusCreated, dto.ToCategoryResponse(category))
}

// listCategories godoc
// @Summary List categories
// @Description Retrieves all categories of a family.
// @Tags categories
// @Produce json
// @Param family_id path string true "Family ID"
// @Success 200 {array} dto.CategoryResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /families/{family_id}/categories [get]
func (h *categoryHandler) listCategories(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	familyID := c.Param("family_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	categories, err := h.categoryService.ListCategories(c.Request.Context(), familyID, userID)
	if err != nil {
		logger.Warn("Failed to list categories", slog.String("error", err.Error()), slog.String("family_id", familyID))
		respondError(c, err, "Failed to list categories")
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryResponses(categories))
}

// getCategory godoc
// @Summary Get a category
// @Description Retrieves a single category by ID.
// @Tags categories
// @Produce json
// @Param family_id path string true "Family ID"
// @Param category_id path string true "Category ID"
// @Success 200 {object} dto.CategoryResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /families/{family_id}/categories/{category_id} [get]
func (h *categoryHandler) getCategory(c *gin.Context) {
	familyID := c.Param("family_id")
	categoryID := c.Param("category_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	category, err := h.categoryService.GetCategoryByID(c.Request.Context(), familyID, categoryID, userID)
	if err != nil {
		respondError(c, err, "Failed to fetch category")
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryResponse(category))
}

// updateCategory godoc
// @Summary Update a category
// @Description Edits a category's name or budget link.
// @Tags categories
// @Accept json
// @Produce json
// @Param family_id path string true "Family ID"
// @Param category_id path string true "Category ID"
// @Param category body dto.UpdateCategoryRequest true "Fields to update"
// @Success 200 {object} dto.CategoryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /families/{family_id}/categories/{category_id} [put]
func (h *categoryHandler) updateCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	familyID := c.Param("family_id")
	categoryID := c.Param("category_id")

	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), familyID, categoryID, req, userID)
	if err != nil {
		logger.Warn("Failed to update category", slog.String("error", err.Error()), slog.String("category_id", categoryID))
		respondError(c, err, "Failed to update category")
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryResponse(category))
}

// deleteCategory godoc
// @Summary Delete a category
// @Description Removes a category. Existing transactions keep referencing it and show as "Unknown" in aggregations.
// @Tags categories
// @Param family_id path string true "Family ID"
// @Param category_id path string true "Category ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /families/{family_id}/categories/{category_id} [delete]
func (h *categoryHandler) deleteCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	familyID := c.Param("family_id")
	categoryID := c.Param("category_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), familyID, categoryID, userID); err != nil {
		logger.Warn("Failed to delete category", slog.String("error", err.Error()), slog.String("category_id", categoryID))
		respondError(c, err, "Failed to delete category")
		return
	}

	c.Status(http.StatusNoContent)
}
