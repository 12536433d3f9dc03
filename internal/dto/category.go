package dto

import (
	"github.com/famshare/family_budget_app/internal/core/domain"
)

// CreateCategoryRequest defines the payload for creating a category.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	Type string `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	// BudgetID optionally links the category to a budget of the same family.
	BudgetID *string `json:"budgetID,omitempty"`
}

// UpdateCategoryRequest defines the payload for editing a category. Nil
// fields are left unchanged; ClearBudget detaches the budget link.
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,max=100"`
	BudgetID    *string `json:"budgetID,omitempty"`
	ClearBudget bool    `json:"clearBudget,omitempty"`
}

// CategoryResponse defines the category data returned by the API.
type CategoryResponse struct {
	CategoryID string  `json:"categoryID"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	BudgetID   *string `json:"budgetID,omitempty"`
}

// ToCategoryResponse converts a domain.Category to CategoryResponse.
func ToCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		CategoryID: c.CategoryID,
		Name:       c.Name,
		Type:       string(c.Type),
		BudgetID:   c.BudgetID,
	}
}

// ToCategoryResponses converts a slice of categories to response DTOs.
func ToCategoryResponses(categories []domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, len(categories))
	for i := range categories {
		out[i] = ToCategoryResponse(&categories[i])
	}
	return out
}
