package pgsql

import (
	"context"
	"errors"

	"github.com/famshare/family_budget_app/internal/apperrors"
	"github.com/famshare/family_budget_app/internal/core/domain"
	portsrepo "github.com/famshare/family_budget_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCategoryRepository struct {
	BaseRepository
}

// newPgxCategoryRepository creates a new repository for category data.
func newPgxCategoryRepository(pool *pgxpool.Pool) portsrepo.CategoryRepositoryFacade {
	return &PgxCategoryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

const categorySelectQuery = `
SELECT c.category_id, c.family_id, c.name, c.type, c.budget_id,
	c.created_at, c.created_by, c.last_updated_at, c.last_updated_by
FROM categories c
`

func scanCategoryRow(row pgx.Row, c *domain.Category) error {
	return row.Scan(
		&c.CategoryID,
		&c.FamilyID,
		&c.Name,
		&c.Type,
		&c.BudgetID,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
}

func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	query := `
		INSERT INTO categories (
			category_id, family_id, name, type, budget_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		category.CategoryID,
		category.FamilyID,
		category.Name,
		category.Type,
		category.BudgetID,
		category.CreatedAt,
		category.CreatedBy,
		category.LastUpdatedAt,
		category.LastUpdatedBy,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to save category "+category.CategoryID, err)
	}
	return nil
}

func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	query := categorySelectQuery + `WHERE c.category_id = $1;`
	var c domain.Category
	if err := scanCategoryRow(r.Pool.QueryRow(ctx, query, categoryID), &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan category row", err)
	}
	return &c, nil
}

func (r *PgxCategoryRepository) FindCategoriesByIDs(ctx context.Context, categoryIDs []string) (map[string]domain.Category, error) {
	result := make(map[string]domain.Category, len(categoryIDs))
	if len(categoryIDs) == 0 {
		return result, nil
	}

	query := categorySelectQuery + `WHERE c.category_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, categoryIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query categories by IDs", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c domain.Category
		if err := scanCategoryRow(rows, &c); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan category row", err)
		}
		result[c.CategoryID] = c
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating category rows", err)
	}
	return result, nil
}

func (r *PgxCategoryRepository) ListCategoriesByFamily(ctx context.Context, familyID string) ([]domain.Category, error) {
	query := categorySelectQuery + `WHERE c.family_id = $1 ORDER BY c.name;`
	rows, err := r.Pool.Query(ctx, query, familyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query categories for family "+familyID, err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := scanCategoryRow(rows, &c); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan category row", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating category rows", err)
	}
	return categories, nil
}

func (r *PgxCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	query := `
		UPDATE categories
		SET name = $2, budget_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE category_id = $1;
	`
	result, err := r.Pool.Exec(ctx, query,
		category.CategoryID,
		category.Name,
		category.BudgetID,
		category.LastUpdatedAt,
		category.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update category "+category.CategoryID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxCategoryRepository) DeleteCategory(ctx context.Context, categoryID string) error {
	// Transactions referencing the category are left in place on purpose.
	query := `DELETE FROM categories WHERE category_id = $1;`
	result, err := r.Pool.Exec(ctx, query, categoryID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete category "+categoryID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
