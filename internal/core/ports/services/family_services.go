package services

import (
	"context"

	"github.com/famshare/family_budget_app/internal/core/domain"
)

// FamilyReaderSvc defines read operations for family data
type FamilyReaderSvc interface {
	// FindFamilyByID retrieves a specific family by its ID.
	FindFamilyByID(ctx context.Context, familyID string) (*domain.Family, error)

	// ListUserFamilies retrieves the families a user belongs to.
	ListUserFamilies(ctx context.Context, userID string) ([]domain.Family, error)

	// ListFamilyMembers retrieves all members and their roles for a family.
	// Only members of the family can access this data.
	ListFamilyMembers(ctx context.Context, familyID string, requestingUserID string) ([]domain.UserFamily, error)
}

// FamilyWriterSvc defines write operations for family data
type FamilyWriterSvc interface {
	// CreateFamily persists a new family; the creator becomes its admin and
	// a unique join code is generated.
	CreateFamily(ctx context.Context, name, timezone, creatorUserID string) (*domain.Family, error)

	// JoinFamily adds the user to the family matching joinCode with the
	// given role (MEMBER or CHILD).
	JoinFamily(ctx context.Context, userID, joinCode string, role domain.UserFamilyRole) (*domain.Family, error)

	// AddUserToFamily adds a user to a family with a specific role; only
	// admins may do this (and it is the only way to mint another admin).
	AddUserToFamily(ctx context.Context, addingUserID, targetUserID, familyID string, role domain.UserFamilyRole) error
}

// FamilyAuthorizerSvc defines operations for family authorization
type FamilyAuthorizerSvc interface {
	// AuthorizeUserAction checks if a user has the required role (or higher)
	// within a family.
	AuthorizeUserAction(ctx context.Context, userID, familyID string, requiredRole domain.UserFamilyRole) error
}

// FamilySvcFacade combines all family-related service interfaces
type FamilySvcFacade interface {
	FamilyReaderSvc
	FamilyWriterSvc
	FamilyAuthorizerSvc
}
