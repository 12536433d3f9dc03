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

type PgxFamilyRepository struct {
	BaseRepository
}

// newPgxFamilyRepository creates a new repository for family and membership data.
func newPgxFamilyRepository(pool *pgxpool.Pool) portsrepo.FamilyRepositoryFacade {
	return &PgxFamilyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.FamilyRepositoryFacade = (*PgxFamilyRepository)(nil)

const familySelectQuery = `
SELECT f.family_id, f.name, f.join_code, f.timezone,
	f.created_at, f.created_by, f.last_updated_at, f.last_updated_by
FROM families f
`

func scanFamily(row pgx.Row) (*domain.Family, error) {
	var f domain.Family
	err := row.Scan(
		&f.FamilyID,
		&f.Name,
		&f.JoinCode,
		&f.Timezone,
		&f.CreatedAt,
		&f.CreatedBy,
		&f.LastUpdatedAt,
		&f.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan family row", err)
	}
	return &f, nil
}

func (r *PgxFamilyRepository) SaveFamily(ctx context.Context, family domain.Family) error {
	query := `
		INSERT INTO families (
			family_id, name, join_code, timezone,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		family.FamilyID,
		family.Name,
		family.JoinCode,
		family.Timezone,
		family.CreatedAt,
		family.CreatedBy,
		family.LastUpdatedAt,
		family.LastUpdatedBy,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to save family "+family.FamilyID, err)
	}
	return nil
}

func (r *PgxFamilyRepository) FindFamilyByID(ctx context.Context, familyID string) (*domain.Family, error) {
	query := familySelectQuery + `WHERE f.family_id = $1;`
	return scanFamily(r.Pool.QueryRow(ctx, query, familyID))
}

func (r *PgxFamilyRepository) FindFamilyByJoinCode(ctx context.Context, joinCode string) (*domain.Family, error) {
	query := familySelectQuery + `WHERE f.join_code = $1;`
	return scanFamily(r.Pool.QueryRow(ctx, query, joinCode))
}

func (r *PgxFamilyRepository) AddUserToFamily(ctx context.Context, membership domain.UserFamily) error {
	query := `
		INSERT INTO user_families (user_id, family_id, role, joined_at)
		VALUES ($1, $2, $3, $4);
	`
	_, err := r.Pool.Exec(ctx, query,
		membership.UserID,
		membership.FamilyID,
		membership.Role,
		membership.JoinedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to add user "+membership.UserID+" to family "+membership.FamilyID, err)
	}
	return nil
}

func (r *PgxFamilyRepository) FindUserFamilyRole(ctx context.Context, userID, familyID string) (*domain.UserFamily, error) {
	query := `
		SELECT user_id, family_id, role, joined_at
		FROM user_families
		WHERE user_id = $1 AND family_id = $2;
	`
	var uf domain.UserFamily
	err := r.Pool.QueryRow(ctx, query, userID, familyID).Scan(
		&uf.UserID,
		&uf.FamilyID,
		&uf.Role,
		&uf.JoinedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find role of user "+userID+" in family "+familyID, err)
	}
	return &uf, nil
}

func (r *PgxFamilyRepository) ListFamiliesByUserID(ctx context.Context, userID string) ([]domain.Family, error) {
	query := familySelectQuery + `
		JOIN user_families uf ON f.family_id = uf.family_id
		WHERE uf.user_id = $1
		ORDER BY f.name;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query families for user "+userID, err)
	}
	defer rows.Close()

	var families []domain.Family
	for rows.Next() {
		var f domain.Family
		err := rows.Scan(
			&f.FamilyID,
			&f.Name,
			&f.JoinCode,
			&f.Timezone,
			&f.CreatedAt,
			&f.CreatedBy,
			&f.LastUpdatedAt,
			&f.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan family row", err)
		}
		families = append(families, f)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating family rows", err)
	}
	return families, nil
}

func (r *PgxFamilyRepository) ListFamilyMembers(ctx context.Context, familyID string) ([]domain.UserFamily, error) {
	query := `
		SELECT uf.user_id, uf.family_id, uf.role, uf.joined_at
		FROM user_families uf
		WHERE uf.family_id = $1
		ORDER BY uf.joined_at;
	`
	rows, err := r.Pool.Query(ctx, query, familyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query members of family "+familyID, err)
	}
	defer rows.Close()

	var members []domain.UserFamily
	for rows.Next() {
		var uf domain.UserFamily
		if err := rows.Scan(&uf.UserID, &uf.FamilyID, &uf.Role, &uf.JoinedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan membership row", err)
		}
		members = append(members, uf)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating membership rows", err)
	}
	return members, nil
}
