package dto

import (
	"github.com/famshare/family_budget_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBudgetRequest defines the payload for creating a budget.
type CreateBudgetRequest struct {
	Name   string          `json:"name" binding:"required,max=100"`
	Amount decimal.Decimal `json:"amount" binding:"required,gt=0"`
}

// UpdateBudgetRequest defines the payload for editing a budget. Only name and
// amount are editable; the spent aggregate is owned by reconciliation.
type UpdateBudgetRequest struct {
	Name   *string          `json:"name,omitempty" binding:"omitempty,max=100"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

// BudgetResponse defines the budget data returned by the API.
type BudgetResponse struct {
	BudgetID       string          `json:"budgetID"`
	Name           string          `json:"name"`
	Amount         decimal.Decimal `json:"amount"`
	Spent          decimal.Decimal `json:"spent"`
	Remaining      decimal.Decimal `json:"remaining"`
	LastResetMonth string          `json:"lastResetMonth"`
}

// BudgetResetResponse reports the outcome of a monthly reset pass.
type BudgetResetResponse struct {
	MonthTag   string `json:"monthTag"`
	ResetCount int    `json:"resetCount"`
	TotalCount int    `json:"totalCount"`
}

// ToBudgetResponse converts a domain.Budget to BudgetResponse.
func ToBudgetResponse(b *domain.Budget) BudgetResponse {
	return BudgetResponse{
		BudgetID:       b.BudgetID,
		Name:           b.Name,
		Amount:         b.Amount,
		Spent:          b.Spent,
		Remaining:      b.Remaining(),
		LastResetMonth: b.LastResetMonth,
	}
}

// ToBudgetResponses converts a slice of budgets to response DTOs.
func ToBudgetResponses(budgets []domain.Budget) []BudgetResponse {
	out := make([]BudgetResponse, len(budgets))
	for i := range budgets {
		out[i] = ToBudgetResponse(&budgets[i])
	}
	return out
}
