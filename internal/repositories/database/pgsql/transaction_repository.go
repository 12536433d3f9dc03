package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/famshare/family_budget_app/internal/apperrors"
	"github.com/famshare/family_budget_app/internal/core/domain"
	portsrepo "github.com/famshare/family_budget_app/internal/core/ports/repositories"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionSelectQuery = `
SELECT t.transaction_id, t.family_id, t.type, t.amount, t.category_id, t.description, t.occurred_at,
	t.created_at, t.created_by, t.last_updated_at, t.last_updated_by
FROM transactions t
`

func scanTransactionRow(row pgx.Row, t *domain.Transaction) error {
	return row.Scan(
		&t.TransactionID,
		&t.FamilyID,
		&t.Type,
		&t.Amount,
		&t.CategoryID,
		&t.Description,
		&t.OccurredAt,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
}

// applySpentDeltas runs each reconciliation delta as an in-place increment
// inside the given transaction. The increments commute, so delta order does
// not matter; what matters is that they share the commit with the row change.
func applySpentDeltas(ctx context.Context, tx pgx.Tx, rec domain.Reconciliation) error {
	query := `UPDATE budgets SET spent = spent + $2 WHERE budget_id = $1;`
	for _, d := range rec.Deltas() {
		result, err := tx.Exec(ctx, query, d.BudgetID, d.Delta)
		if err != nil {
			return apperrors.NewAppError(500, "failed to apply spent delta to budget "+d.BudgetID, err)
		}
		if result.RowsAffected() == 0 {
			return apperrors.NewAppError(500, "budget "+d.BudgetID+" not found while applying spent delta", apperrors.ErrNotFound)
		}
	}
	return nil
}

// SaveTransaction inserts the row and applies the spent deltas in one commit.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, rec domain.Reconciliation) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO transactions (
			transaction_id, family_id, type, amount, category_id, description, occurred_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, query,
		txn.TransactionID,
		txn.FamilyID,
		txn.Type,
		txn.Amount,
		txn.CategoryID,
		txn.Description,
		txn.OccurredAt,
		txn.CreatedAt,
		txn.CreatedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert transaction "+txn.TransactionID, err)
	}

	if err := applySpentDeltas(ctx, tx, rec); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateTransaction updates the row and applies the spent deltas in one commit.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction, rec domain.Reconciliation) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE transactions
		SET type = $2, amount = $3, category_id = $4, description = $5, occurred_at = $6,
			last_updated_at = $7, last_updated_by = $8
		WHERE transaction_id = $1;
	`
	result, err := tx.Exec(ctx, query,
		txn.TransactionID,
		txn.Type,
		txn.Amount,
		txn.CategoryID,
		txn.Description,
		txn.OccurredAt,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update transaction "+txn.TransactionID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := applySpentDeltas(ctx, tx, rec); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeleteTransaction removes the row and applies the spent deltas in one
// commit. When the row is already gone the deltas are not applied: there is
// no contribution left to reverse.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string, rec domain.Reconciliation) (bool, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer r.Rollback(ctx, tx)

	result, err := tx.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to delete transaction "+transactionID, err)
	}
	if result.RowsAffected() == 0 {
		return false, r.Commit(ctx, tx)
	}

	if err := applySpentDeltas(ctx, tx, rec); err != nil {
		return false, err
	}
	return true, r.Commit(ctx, tx)
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := transactionSelectQuery + `WHERE t.transaction_id = $1;`
	var t domain.Transaction
	if err := scanTransactionRow(r.Pool.QueryRow(ctx, query, transactionID), &t); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
	}
	return &t, nil
}

func (r *PgxTransactionRepository) ListTransactionsByFamily(ctx context.Context, familyID string, from, to time.Time) ([]domain.Transaction, error) {
	query := transactionSelectQuery + `
		WHERE t.family_id = $1 AND t.occurred_at >= $2 AND t.occurred_at < $3
		ORDER BY t.occurred_at DESC, t.transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, familyID, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions for family "+familyID, err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := scanTransactionRow(rows, &t); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		txns = append(txns, t)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating transaction rows", err)
	}
	return txns, nil
}

// SumDebitAmountByBudget recomputes a budget's spent from scratch: the sum of
// debit amounts whose category currently links to the budget and whose
// occurrence date falls within [from, to). Period membership keys on
// occurred_at, the user-supplied business date, never on the audit insert
// time, so a backdated transaction lands in the period it belongs to.
// COALESCE keeps the no-rows case at zero.
func (r *PgxTransactionRepository) SumDebitAmountByBudget(ctx context.Context, budgetID string, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(t.amount), 0)
		FROM transactions t
		JOIN categories c ON t.category_id = c.category_id
		WHERE c.budget_id = $1 AND t.type = $2 AND t.occurred_at >= $3 AND t.occurred_at < $4;
	`
	var sum decimal.Decimal
	err := r.Pool.QueryRow(ctx, query, budgetID, domain.Debit, from, to).Scan(&sum)
	if err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum debit transactions for budget "+budgetID, err)
	}
	return sum, nil
}
