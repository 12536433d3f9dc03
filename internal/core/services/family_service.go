package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/famshare/family_budget_app/internal/apperrors"
	"github.com/famshare/family_budget_app/internal/core/domain"
	portsrepo "github.com/famshare/family_budget_app/internal/core/ports/repositories"
	portssvc "github.com/famshare/family_budget_app/internal/core/ports/services"
	"github.com/famshare/family_budget_app/internal/middleware"
	"github.com/famshare/family_budget_app/internal/utils"
)

// joinCodeAttempts bounds the retry loop for generating an unused join code.
const joinCodeAttempts = 5

// roleRank orders family roles for authorization checks. A higher rank
// satisfies any requirement of a lower one.
var roleRank = map[domain.UserFamilyRole]int{
	domain.RoleChild:  1,
	domain.RoleMember: 2,
	domain.RoleAdmin:  3,
}

// familyService handles business logic related to families and memberships.
type familyService struct {
	familyRepo portsrepo.FamilyRepositoryFacade
	userRepo   portsrepo.UserRepositoryFacade
}

// NewFamilyService creates a new FamilyService.
func NewFamilyService(fr portsrepo.FamilyRepositoryFacade, ur portsrepo.UserRepositoryFacade) portssvc.FamilySvcFacade {
	return &familyService{
		familyRepo: fr,
		userRepo:   ur,
	}
}

var _ portssvc.FamilySvcFacade = (*familyService)(nil)

// CreateFamily creates a new family and makes the creator the initial admin.
func (s *familyService) CreateFamily(ctx context.Context, name, timezone, creatorUserID string) (*domain.Family, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if name == "" {
		return nil, fmt.Errorf("%w: family name is required", apperrors.ErrValidation)
	}
	if timezone != "" {
		if _, err := time.LoadLocation(timezone); err != nil {
			return nil, fmt.Errorf("%w: unknown timezone %q", apperrors.ErrValidation, timezone)
		}
	}

	joinCode, err := s.generateUnusedJoinCode(ctx)
	if err != nil {
		logger.Error("Failed to allocate join code", slog.String("error", err.Error()))
		return nil, err
	}

	now := time.Now().UTC()
	family := domain.Family{
		FamilyID: uuid.NewString(),
		Name:     name,
		JoinCode: joinCode,
		Timezone: timezone,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.familyRepo.SaveFamily(ctx, family); err != nil {
		logger.Error("Failed to save family in repository", slog.String("error", err.Error()), slog.String("family_name", name))
		return nil, fmt.Errorf("failed to create family: %w", err)
	}

	membership := domain.UserFamily{
		UserID:   creatorUserID,
		FamilyID: family.FamilyID,
		Role:     domain.RoleAdmin,
		JoinedAt: now,
	}
	if err := s.familyRepo.AddUserToFamily(ctx, membership); err != nil {
		logger.Error("Failed to add creator as admin to new family", slog.String("error", err.Error()), slog.String("family_id", family.FamilyID))
		return nil, fmt.Errorf("failed to add creator to family: %w", err)
	}

	logger.Info("Family created successfully", slog.String("family_id", family.FamilyID), slog.String("creator_user_id", creatorUserID))
	return &family, nil
}

// generateUnusedJoinCode produces a join code that no existing family uses.
// A failed uniqueness lookup aborts the operation: assuming the code is
// either free or taken under a store error would silently corrupt the
// tenancy boundary.
func (s *familyService) generateUnusedJoinCode(ctx context.Context) (string, error) {
	for i := 0; i < joinCodeAttempts; i++ {
		code, err := utils.GenerateJoinCode()
		if err != nil {
			return "", fmt.Errorf("failed to generate join code: %w", err)
		}

		_, err = s.familyRepo.FindFamilyByJoinCode(ctx, code)
		if errors.Is(err, apperrors.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("%w: join code uniqueness check failed: %v", apperrors.ErrPersistence, err)
		}
		// Code is in use; try another.
	}
	return "", fmt.Errorf("%w: could not allocate an unused join code after %d attempts", apperrors.ErrPersistence, joinCodeAttempts)
}

// JoinFamily adds the user to the family matching joinCode.
func (s *familyService) JoinFamily(ctx context.Context, userID, joinCode string, role domain.UserFamilyRole) (*domain.Family, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if role == "" {
		role = domain.RoleMember
	}
	if role != domain.RoleMember && role != domain.RoleChild {
		return nil, fmt.Errorf("%w: joinable roles are MEMBER and CHILD", apperrors.ErrValidation)
	}

	family, err := s.familyRepo.FindFamilyByJoinCode(ctx, joinCode)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to resolve join code", slog.String("error", err.Error()))
		}
		return nil, err
	}

	if _, err := s.familyRepo.FindUserFamilyRole(ctx, userID, family.FamilyID); err == nil {
		return nil, fmt.Errorf("%w: user is already a member of this family", apperrors.ErrDuplicate)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to check existing membership", slog.String("error", err.Error()), slog.String("family_id", family.FamilyID))
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	membership := domain.UserFamily{
		UserID:   userID,
		FamilyID: family.FamilyID,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	}
	if err := s.familyRepo.AddUserToFamily(ctx, membership); err != nil {
		logger.Error("Failed to add user to family", slog.String("error", err.Error()), slog.String("family_id", family.FamilyID))
		return nil, fmt.Errorf("failed to join family: %w", err)
	}

	logger.Info("User joined family", slog.String("family_id", family.FamilyID), slog.String("role", string(role)))
	return family, nil
}

// AddUserToFamily adds a user to a family with a specific role.
func (s *familyService) AddUserToFamily(ctx context.Context, addingUserID, targetUserID, familyID string, role domain.UserFamilyRole) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeUserAction(ctx, addingUserID, familyID, domain.RoleAdmin); err != nil {
		return err
	}

	if _, err := s.userRepo.FindUserByID(ctx, targetUserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: target user does not exist", apperrors.ErrValidation)
		}
		return fmt.Errorf("failed to look up target user: %w", err)
	}

	membership := domain.UserFamily{
		UserID:   targetUserID,
		FamilyID: familyID,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	}
	if err := s.familyRepo.AddUserToFamily(ctx, membership); err != nil {
		logger.Error("Failed to add user to family in repository", slog.String("error", err.Error()), slog.String("target_user_id", targetUserID), slog.String("family_id", familyID))
		return fmt.Errorf("failed to add user %s to family %s: %w", targetUserID, familyID, err)
	}

	logger.Info("User added to family", slog.String("target_user_id", targetUserID), slog.String("family_id", familyID), slog.String("role", string(role)))
	return nil
}

// ListUserFamilies retrieves the list of families a given user belongs to.
func (s *familyService) ListUserFamilies(ctx context.Context, userID string) ([]domain.Family, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	families, err := s.familyRepo.ListFamiliesByUserID(ctx, userID)
	if err != nil {
		logger.Error("Failed to list families for user", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list families for user %s: %w", userID, err)
	}

	if families == nil {
		return []domain.Family{}, nil
	}
	return families, nil
}

// FindFamilyByID retrieves a family by its ID.
func (s *familyService) FindFamilyByID(ctx context.Context, familyID string) (*domain.Family, error) {
	family, err := s.familyRepo.FindFamilyByID(ctx, familyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find family by ID", slog.String("error", err.Error()), slog.String("family_id", familyID))
		}
		return nil, err
	}
	return family, nil
}

// ListFamilyMembers retrieves all members of a family. Any member, including
// children, may see the roster.
func (s *familyService) ListFamilyMembers(ctx context.Context, familyID string, requestingUserID string) ([]domain.UserFamily, error) {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, familyID, domain.RoleChild); err != nil {
		return nil, err
	}

	members, err := s.familyRepo.ListFamilyMembers(ctx, familyID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list family members", slog.String("error", err.Error()), slog.String("family_id", familyID))
		return nil, fmt.Errorf("failed to list members of family %s: %w", familyID, err)
	}
	return members, nil
}

// AuthorizeUserAction checks if a user has the required role (or higher)
// within a specific family.
// Returns apperrors.ErrNotFound if the user is not a member (family existence
// is not revealed to outsiders).
// Returns apperrors.ErrForbidden if the user is a member but lacks the role.
func (s *familyService) AuthorizeUserAction(ctx context.Context, userID, familyID string, requiredRole domain.UserFamilyRole) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	membership, err := s.familyRepo.FindUserFamilyRole(ctx, userID, familyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Authorization failed: user not a member of family", slog.String("user_id", userID), slog.String("family_id", familyID))
			return apperrors.ErrNotFound
		}
		logger.Error("Failed to check user family role", slog.String("error", err.Error()), slog.String("user_id", userID), slog.String("family_id", familyID))
		return fmt.Errorf("failed to check authorization: %w", err)
	}

	if roleRank[membership.Role] >= roleRank[requiredRole] {
		return nil
	}

	logger.Warn("Authorization failed: user lacks required role",
		slog.String("user_id", userID),
		slog.String("family_id", familyID),
		slog.String("user_role", string(membership.Role)),
		slog.String("required_role", string(requiredRole)))
	return apperrors.ErrForbidden
}
