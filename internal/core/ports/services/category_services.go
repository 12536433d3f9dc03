package services

import (
	"context"

	"github.com/famshare/family_budget_app/internal/core/domain"
	"github.com/famshare/family_budget_app/internal/dto"
)

// CategoryReaderSvc defines read operations for category data
type CategoryReaderSvc interface {
	GetCategoryByID(ctx context.Context, familyID, categoryID, requestingUserID string) (*domain.Category, error)
	ListCategories(ctx context.Context, familyID, requestingUserID string) ([]domain.Category, error)
}

// CategoryWriterSvc defines write operations for category data
type CategoryWriterSvc interface {
	CreateCategory(ctx context.Context, familyID string, req dto.CreateCategoryRequest, creatorUserID string) (*domain.Category, error)
	UpdateCategory(ctx context.Context, familyID, categoryID string, req dto.UpdateCategoryRequest, requestingUserID string) (*domain.Category, error)

	// DeleteCategory removes the category; transactions referencing it are
	// not cascaded and degrade to an unknown bucket at display time.
	DeleteCategory(ctx context.Context, familyID, categoryID, requestingUserID string) error
}

// CategorySvcFacade combines all category-related service interfaces
type CategorySvcFacade interface {
	CategoryReaderSvc
	CategoryWriterSvc
}
