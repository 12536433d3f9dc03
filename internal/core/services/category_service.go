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
	"github.com/famshare/family_budget_app/internal/dto"
	"github.com/famshare/family_budget_app/internal/middleware"
)

// categoryService handles business logic for transaction categories and
// their optional budget links.
type categoryService struct {
	categoryRepo portsrepo.CategoryRepositoryFacade
	budgetRepo   portsrepo.BudgetRepositoryFacade
	familySvc    portssvc.FamilySvcFacade
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(cr portsrepo.CategoryRepositoryFacade, br portsrepo.BudgetRepositoryFacade, fs portssvc.FamilySvcFacade) portssvc.CategorySvcFacade {
	return &categoryService{
		categoryRepo: cr,
		budgetRepo:   br,
		familySvc:    fs,
	}
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

// validateBudgetLink verifies that the referenced budget exists and belongs
// to the same family.
func (s *categoryService) validateBudgetLink(ctx context.Context, familyID, budgetID string) error {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: budget %s does not exist", apperrors.ErrValidation, budgetID)
		}
		return fmt.Errorf("failed to look up budget: %w", err)
	}
	if budget.FamilyID != familyID {
		return fmt.Errorf("%w: budget %s does not exist", apperrors.ErrValidation, budgetID)
	}
	return nil
}

// CreateCategory creates a category, optionally linked to a budget.
func (s *categoryService) CreateCategory(ctx context.Context, familyID string, req dto.CreateCategoryRequest, creatorUserID string) (*domain.Category, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.familySvc.AuthorizeUserAction(ctx, creatorUserID, familyID, domain.RoleMember); err != nil {
		return nil, err
	}

	if req.Name == "" {
		return nil, fmt.Errorf("%w: category name is required", apperrors.ErrValidation)
	}
	catType := domain.CategoryType(req.Type)
	if catType != domain.Income && catType != domain.Expense {
		return nil, fmt.Errorf("%w: category type must be INCOME or EXPENSE", apperrors.ErrValidation)
	}

	if req.BudgetID != nil {
		if err := s.validateBudgetLink(ctx, familyID, *req.BudgetID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	category := domain.Category{
		CategoryID: uuid.NewString(),
		FamilyID:   familyID,
		Name:       req.Name,
		Type:       catType,
		BudgetID:   req.BudgetID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
		logger.Error("Failed to save category", slog.String("error", err.Error()), slog.String("family_id", familyID))
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	logger.Info("Category created", slog.String("category_id", category.CategoryID), slog.String("family_id", familyID))
	return &category, nil
}

// findFamilyCategory fetches a category and verifies family ownership.
func (s *categoryService) findFamilyCategory(ctx context.Context, familyID, categoryID string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category.FamilyID != familyID {
		return nil, apperrors.ErrNotFound
	}
	return category, nil
}

// GetCategoryByID retrieves a category; any family member may read it.
func (s *categoryService) GetCategoryByID(ctx context.Context, familyID, categoryID, requestingUserID string) (*domain.Category, error) {
	if err := s.familySvc.AuthorizeUserAction(ctx, requestingUserID, familyID, domain.RoleChild); err != nil {
		return nil, err
	}
	return s.findFamilyCategory(ctx, familyID, categoryID)
}

// ListCategories retrieves all categories of a family.
func (s *categoryService) ListCategories(ctx context.Context, familyID, requestingUserID string) ([]domain.Category, error) {
	if err := s.familySvc.AuthorizeUserAction(ctx, requestingUserID, familyID, domain.RoleChild); err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.ListCategoriesByFamily(ctx, familyID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list categories", slog.String("error", err.Error()), slog.String("family_id", familyID))
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return categories, nil
}

// UpdateCategory edits a category's name and budget link. Changing the link
// only affects future reconciliation: already-recorded transactions keep the
// contributions they made under the old link.
func (s *categoryService) UpdateCategory(ctx context.Context, familyID, categoryID string, req dto.UpdateCategoryRequest, requestingUserID string) (*domain.Category, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.familySvc.AuthorizeUserAction(ctx, requestingUserID, familyID, domain.RoleMember); err != nil {
		return nil, err
	}

	category, err := s.findFamilyCategory(ctx, familyID, categoryID)
	if err != nil {
		return nil, err
	}

	if req.BudgetID != nil && req.ClearBudget {
		return nil, fmt.Errorf("%w: cannot set and clear the budget link in one request", apperrors.ErrValidation)
	}

	updated := false
	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: category name cannot be empty", apperrors.ErrValidation)
		}
		category.Name = *req.Name
		updated = true
	}
	if req.ClearBudget {
		category.BudgetID = nil
		updated = true
	} else if req.BudgetID != nil {
		if err := s.validateBudgetLink(ctx, familyID, *req.BudgetID); err != nil {
			return nil, err
		}
		category.BudgetID = req.BudgetID
		updated = true
	}

	if !updated {
		return category, nil
	}

	category.LastUpdatedAt = time.Now().UTC()
	category.LastUpdatedBy = requestingUserID

	if err := s.categoryRepo.UpdateCategory(ctx, *category); err != nil {
		logger.Error("Failed to update category", slog.String("error", err.Error()), slog.String("category_id", categoryID))
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	logger.Info("Category updated", slog.String("category_id", categoryID))
	return category, nil
}

// DeleteCategory removes the category. Transactions referencing it keep their
// recorded contributions and degrade to an unknown bucket in aggregations.
func (s *categoryService) DeleteCategory(ctx context.Context, familyID, categoryID, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.familySvc.AuthorizeUserAction(ctx, requestingUserID, familyID, domain.RoleMember); err != nil {
		return err
	}

	if _, err := s.findFamilyCategory(ctx, familyID, categoryID); err != nil {
		return err
	}

	if err := s.categoryRepo.DeleteCategory(ctx, categoryID); err != nil {
		logger.Error("Failed to delete category", slog.String("error", err.Error()), slog.String("category_id", categoryID))
		return fmt.Errorf("failed to delete category: %w", err)
	}

	logger.Info("Category deleted", slog.String("category_id", categoryID))
	return nil
}
