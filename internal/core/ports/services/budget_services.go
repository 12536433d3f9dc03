package services

import (
	"context"

	"github.com/famshare/family_budget_app/internal/core/domain"
	"github.com/famshare/family_budget_app/internal/dto"
)

// BudgetReaderSvc defines read operations for budget data
type BudgetReaderSvc interface {
	GetBudgetByID(ctx context.Context, familyID, budgetID, requestingUserID string) (*domain.Budget, error)
	ListBudgets(ctx context.Context, familyID, requestingUserID string) ([]domain.Budget, error)
}

// BudgetWriterSvc defines write operations for budget data
type BudgetWriterSvc interface {
	// CreateBudget creates a budget with spent=0 and the current month tag.
	// Admin only.
	CreateBudget(ctx context.Context, familyID string, req dto.CreateBudgetRequest, creatorUserID string) (*domain.Budget, error)

	// UpdateBudget edits name and amount only; spent is never touched here.
	UpdateBudget(ctx context.Context, familyID, budgetID string, req dto.UpdateBudgetRequest, requestingUserID string) (*domain.Budget, error)

	// DeleteBudget removes the budget. Referencing categories are left
	// dangling; their debits simply stop counting anywhere.
	DeleteBudget(ctx context.Context, familyID, budgetID, requestingUserID string) error
}

// BudgetPeriodSvc defines the monthly accounting-period transitions.
type BudgetPeriodSvc interface {
	// ResetBudgetsIfNewMonth walks every budget of the family and zeroes the
	// spent aggregate of those whose tag is stale, stamping the current
	// month. Idempotent within a month. Admin only.
	ResetBudgetsIfNewMonth(ctx context.Context, familyID, requestingUserID string) (dto.BudgetResetResponse, error)

	// RecomputeSpent rebuilds a budget's spent aggregate from its qualifying
	// debit transactions. Consistency-check fallback, admin only.
	RecomputeSpent(ctx context.Context, familyID, budgetID, requestingUserID string) (*domain.Budget, error)
}

// BudgetSvcFacade combines all budget-related service interfaces
type BudgetSvcFacade interface {
	BudgetReaderSvc
	BudgetWriterSvc
	BudgetPeriodSvc
}
