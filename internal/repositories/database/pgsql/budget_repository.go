package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/famshare/family_budget_app/internal/apperrors"
	"github.com/famshare/family_budget_app/internal/core/domain"
	portsrepo "github.com/famshare/family_budget_app/internal/core/ports/repositories"
)

type PgxBudgetRepository struct {
	BaseRepository
}

// newPgxBudgetRepository creates a new repository for budget data.
func newPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepositoryFacade {
	return &PgxBudgetRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.BudgetRepositoryFacade = (*PgxBudgetRepository)(nil)

const budgetSelectQuery = `
SELECT b.budget_id, b.family_id, b.name, b.amount, b.spent, b.last_reset_month,
	b.created_at, b.created_by, b.last_updated_at, b.last_updated_by
FROM budgets b
`

func scanBudgetRow(row pgx.Row, b *domain.Budget) error {
	return row.Scan(
		&b.BudgetID,
		&b.FamilyID,
		&b.Name,
		&b.Amount,
		&b.Spent,
		&b.LastResetMonth,
		&b.CreatedAt,
		&b.CreatedBy,
		&b.LastUpdatedAt,
		&b.LastUpdatedBy,
	)
}

func (r *PgxBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	query := `
		INSERT INTO budgets (
			budget_id, family_id, name, amount, spent, last_reset_month,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		budget.BudgetID,
		budget.FamilyID,
		budget.Name,
		budget.Amount,
		budget.Spent,
		budget.LastResetMonth,
		budget.CreatedAt,
		budget.CreatedBy,
		budget.LastUpdatedAt,
		budget.LastUpdatedBy,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to save budget "+budget.BudgetID, err)
	}
	return nil
}

func (r *PgxBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	query := budgetSelectQuery + `WHERE b.budget_id = $1;`
	var b domain.Budget
	if err := scanBudgetRow(r.Pool.QueryRow(ctx, query, budgetID), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan budget row", err)
	}
	return &b, nil
}

func (r *PgxBudgetRepository) ListBudgetsByFamily(ctx context.Context, familyID string) ([]domain.Budget, error) {
	query := budgetSelectQuery + `WHERE b.family_id = $1 ORDER BY b.name;`
	rows, err := r.Pool.Query(ctx, query, familyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query budgets for family "+familyID, err)
	}
	defer rows.Close()

	var budgets []domain.Budget
	for rows.Next() {
		var b domain.Budget
		if err := scanBudgetRow(rows, &b); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan budget row", err)
		}
		budgets = append(budgets, b)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating budget rows", err)
	}
	return budgets, nil
}

// UpdateBudget writes name and amount only. Spent belongs to ApplySpentDelta,
// ResetSpentIfStale and OverwriteSpent, so a concurrent reconciliation can
// never be clobbered by a budget edit.
func (r *PgxBudgetRepository) UpdateBudget(ctx context.Context, budget domain.Budget) error {
	query := `
		UPDATE budgets
		SET name = $2, amount = $3, last_updated_at = $4, last_updated_by = $5
		WHERE budget_id = $1;
	`
	result, err := r.Pool.Exec(ctx, query,
		budget.BudgetID,
		budget.Name,
		budget.Amount,
		budget.LastUpdatedAt,
		budget.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update budget "+budget.BudgetID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxBudgetRepository) DeleteBudget(ctx context.Context, budgetID string) error {
	// Category links are left dangling on purpose; readers degrade them to
	// an unknown budget.
	query := `DELETE FROM budgets WHERE budget_id = $1;`
	result, err := r.Pool.Exec(ctx, query, budgetID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete budget "+budgetID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ApplySpentDelta increments spent in the database. The increment commutes
// with concurrent deltas, so no row read happens here.
func (r *PgxBudgetRepository) ApplySpentDelta(ctx context.Context, budgetID string, delta decimal.Decimal) error {
	query := `UPDATE budgets SET spent = spent + $2 WHERE budget_id = $1;`
	result, err := r.Pool.Exec(ctx, query, budgetID, delta)
	if err != nil {
		return apperrors.NewAppError(500, "failed to apply spent delta to budget "+budgetID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ResetSpentIfStale performs the month transition as one conditional write.
// The WHERE clause makes concurrent resets race-safe: exactly one caller
// observes a row change, everyone else no-ops.
func (r *PgxBudgetRepository) ResetSpentIfStale(ctx context.Context, budgetID string, monthTag string, updatedBy string, updatedAt time.Time) (bool, error) {
	query := `
		UPDATE budgets
		SET spent = 0, last_reset_month = $2, last_updated_at = $3, last_updated_by = $4
		WHERE budget_id = $1 AND last_reset_month <> $2;
	`
	result, err := r.Pool.Exec(ctx, query, budgetID, monthTag, updatedAt, updatedBy)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to reset spent for budget "+budgetID, err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *PgxBudgetRepository) OverwriteSpent(ctx context.Context, budgetID string, spent decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE budgets
		SET spent = $2, last_updated_at = $3, last_updated_by = $4
		WHERE budget_id = $1;
	`
	result, err := r.Pool.Exec(ctx, query, budgetID, spent, updatedBy, updatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to overwrite spent for budget "+budgetID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
