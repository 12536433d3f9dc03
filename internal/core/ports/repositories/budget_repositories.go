package repositories

import (
	"context"
	"time"

	"github.com/famshare/family_budget_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BudgetReader defines read operations for budget data
type BudgetReader interface {
	// FindBudgetByID retrieves a specific budget by its unique identifier.
	FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error)

	// ListBudgetsByFamily retrieves all budgets belonging to a family.
	ListBudgetsByFamily(ctx context.Context, familyID string) ([]domain.Budget, error)
}

// BudgetWriter defines write operations for budget data
type BudgetWriter interface {
	// SaveBudget persists a new budget.
	SaveBudget(ctx context.Context, budget domain.Budget) error

	// UpdateBudget updates a budget's name and amount. It must never touch
	// the spent aggregate.
	UpdateBudget(ctx context.Context, budget domain.Budget) error

	// DeleteBudget removes the budget row. Categories referencing it are
	// left untouched and go dangling.
	DeleteBudget(ctx context.Context, budgetID string) error

	// ApplySpentDelta atomically increments the budget's spent aggregate by
	// delta using a store-native increment. Implementations must not
	// read-modify-write.
	ApplySpentDelta(ctx context.Context, budgetID string, delta decimal.Decimal) error

	// ResetSpentIfStale zeroes spent and stamps monthTag in a single
	// conditional write, only when the stored tag differs from monthTag.
	// Returns whether a reset actually happened.
	ResetSpentIfStale(ctx context.Context, budgetID string, monthTag string, updatedBy string, updatedAt time.Time) (bool, error)

	// OverwriteSpent sets spent to an absolute value. Reserved for the
	// recompute-from-scratch consistency fallback.
	OverwriteSpent(ctx context.Context, budgetID string, spent decimal.Decimal, updatedBy string, updatedAt time.Time) error
}

// BudgetRepositoryFacade combines all budget-related repository interfaces.
type BudgetRepositoryFacade interface {
	BudgetReader
	BudgetWriter
}
