package repositories

import (
	"context"

	"github.com/famshare/family_budget_app/internal/core/domain"
)

// CategoryReader defines read operations for category data
type CategoryReader interface {
	// FindCategoryByID retrieves a specific category by its identifier.
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)

	// FindCategoriesByIDs retrieves multiple categories keyed by ID. Absent
	// IDs are simply missing from the map, not an error: transaction
	// references may dangle.
	FindCategoriesByIDs(ctx context.Context, categoryIDs []string) (map[string]domain.Category, error)

	// ListCategoriesByFamily retrieves all categories of a family.
	ListCategoriesByFamily(ctx context.Context, familyID string) ([]domain.Category, error)
}

// CategoryWriter defines write operations for category data
type CategoryWriter interface {
	SaveCategory(ctx context.Context, category domain.Category) error
	UpdateCategory(ctx context.Context, category domain.Category) error

	// DeleteCategory removes the category row only. Transactions referencing
	// it are deliberately left in place.
	DeleteCategory(ctx context.Context, categoryID string) error
}

// CategoryRepositoryFacade combines all category repository interfaces.
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}
