package repositories

import (
	"context"

	"github.com/famshare/family_budget_app/internal/core/domain"
)

// FamilyReader defines read operations for family and membership data
type FamilyReader interface {
	FindFamilyByID(ctx context.Context, familyID string) (*domain.Family, error)

	// FindFamilyByJoinCode resolves a join code. Returns ErrNotFound when
	// the code is unused; any other error must surface to the caller so the
	// uniqueness check never silently degrades.
	FindFamilyByJoinCode(ctx context.Context, joinCode string) (*domain.Family, error)

	// FindUserFamilyRole returns the membership of a user in a family, or
	// ErrNotFound when the user is not a member.
	FindUserFamilyRole(ctx context.Context, userID, familyID string) (*domain.UserFamily, error)

	ListFamiliesByUserID(ctx context.Context, userID string) ([]domain.Family, error)
	ListFamilyMembers(ctx context.Context, familyID string) ([]domain.UserFamily, error)
}

// FamilyWriter defines write operations for family and membership data
type FamilyWriter interface {
	SaveFamily(ctx context.Context, family domain.Family) error
	AddUserToFamily(ctx context.Context, membership domain.UserFamily) error
}

// FamilyRepositoryFacade combines all family repository interfaces.
type FamilyRepositoryFacade interface {
	FamilyReader
	FamilyWriter
}
