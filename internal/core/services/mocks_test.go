package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/famshare/family_budget_app/internal/core/domain"
)

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

// --- Mock FamilyRepository ---

type MockFamilyRepository struct {
	mock.Mock
}

func (m *MockFamilyRepository) FindFamilyByID(ctx context.Context, familyID string) (*domain.Family, error) {
	args := m.Called(ctx, familyID)
	var family *domain.Family
	if args.Get(0) != nil {
		family = args.Get(0).(*domain.Family)
	}
	return family, args.Error(1)
}

func (m *MockFamilyRepository) FindFamilyByJoinCode(ctx context.Context, joinCode string) (*domain.Family, error) {
	args := m.Called(ctx, joinCode)
	var family *domain.Family
	if args.Get(0) != nil {
		family = args.Get(0).(*domain.Family)
	}
	return family, args.Error(1)
}

func (m *MockFamilyRepository) FindUserFamilyRole(ctx context.Context, userID, familyID string) (*domain.UserFamily, error) {
	args := m.Called(ctx, userID, familyID)
	var membership *domain.UserFamily
	if args.Get(0) != nil {
		membership = args.Get(0).(*domain.UserFamily)
	}
	return membership, args.Error(1)
}

func (m *MockFamilyRepository) ListFamiliesByUserID(ctx context.Context, userID string) ([]domain.Family, error) {
	args := m.Called(ctx, userID)
	var families []domain.Family
	if args.Get(0) != nil {
		families = args.Get(0).([]domain.Family)
	}
	return families, args.Error(1)
}

func (m *MockFamilyRepository) ListFamilyMembers(ctx context.Context, familyID string) ([]domain.UserFamily, error) {
	args := m.Called(ctx, familyID)
	var members []domain.UserFamily
	if args.Get(0) != nil {
		members = args.Get(0).([]domain.UserFamily)
	}
	return members, args.Error(1)
}

func (m *MockFamilyRepository) SaveFamily(ctx context.Context, family domain.Family) error {
	args := m.Called(ctx, family)
	return args.Error(0)
}

func (m *MockFamilyRepository) AddUserToFamily(ctx context.Context, membership domain.UserFamily) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

// --- Mock CategoryRepository ---

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	args := m.Called(ctx, categoryID)
	var category *domain.Category
	if args.Get(0) != nil {
		category = args.Get(0).(*domain.Category)
	}
	return category, args.Error(1)
}

func (m *MockCategoryRepository) FindCategoriesByIDs(ctx context.Context, categoryIDs []string) (map[string]domain.Category, error) {
	args := m.Called(ctx, categoryIDs)
	var categories map[string]domain.Category
	if args.Get(0) != nil {
		categories = args.Get(0).(map[string]domain.Category)
	}
	return categories, args.Error(1)
}

func (m *MockCategoryRepository) ListCategoriesByFamily(ctx context.Context, familyID string) ([]domain.Category, error) {
	args := m.Called(ctx, familyID)
	var categories []domain.Category
	if args.Get(0) != nil {
		categories = args.Get(0).([]domain.Category)
	}
	return categories, args.Error(1)
}

func (m *MockCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) DeleteCategory(ctx context.Context, categoryID string) error {
	args := m.Called(ctx, categoryID)
	return args.Error(0)
}

// --- Mock BudgetRepository ---

type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	args := m.Called(ctx, budgetID)
	var budget *domain.Budget
	if args.Get(0) != nil {
		budget = args.Get(0).(*domain.Budget)
	}
	return budget, args.Error(1)
}

func (m *MockBudgetRepository) ListBudgetsByFamily(ctx context.Context, familyID string) ([]domain.Budget, error) {
	args := m.Called(ctx, familyID)
	var budgets []domain.Budget
	if args.Get(0) != nil {
		budgets = args.Get(0).([]domain.Budget)
	}
	return budgets, args.Error(1)
}

func (m *MockBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	args := m.Called(ctx, budget)
	return args.Error(0)
}

func (m *MockBudgetRepository) UpdateBudget(ctx context.Context, budget domain.Budget) error {
	args := m.Called(ctx, budget)
	return args.Error(0)
}

func (m *MockBudgetRepository) DeleteBudget(ctx context.Context, budgetID string) error {
	args := m.Called(ctx, budgetID)
	return args.Error(0)
}

func (m *MockBudgetRepository) ApplySpentDelta(ctx context.Context, budgetID string, delta decimal.Decimal) error {
	args := m.Called(ctx, budgetID, delta)
	return args.Error(0)
}

func (m *MockBudgetRepository) ResetSpentIfStale(ctx context.Context, budgetID string, monthTag string, updatedBy string, updatedAt time.Time) (bool, error) {
	args := m.Called(ctx, budgetID, monthTag, updatedBy, updatedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockBudgetRepository) OverwriteSpent(ctx context.Context, budgetID string, spent decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, budgetID, spent, updatedBy, updatedAt)
	return args.Error(0)
}

// --- Mock TransactionRepository ---

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	var txn *domain.Transaction
	if args.Get(0) != nil {
		txn = args.Get(0).(*domain.Transaction)
	}
	return txn, args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByFamily(ctx context.Context, familyID string, from, to time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, familyID, from, to)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	return txns, args.Error(1)
}

func (m *MockTransactionRepository) SumDebitAmountByBudget(ctx context.Context, budgetID string, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, budgetID, from, to)
	var sum decimal.Decimal
	if args.Get(0) != nil {
		sum = args.Get(0).(decimal.Decimal)
	}
	return sum, args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, rec domain.Reconciliation) error {
	args := m.Called(ctx, txn, rec)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction, rec domain.Reconciliation) error {
	args := m.Called(ctx, txn, rec)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string, rec domain.Reconciliation) (bool, error) {
	args := m.Called(ctx, transactionID, rec)
	return args.Bool(0), args.Error(1)
}

// --- Mock FamilySvc ---

// MockFamilySvc mocks the family service facade so the tenancy-scoped
// services can be tested without a real authorization stack.
type MockFamilySvc struct {
	mock.Mock
}

func (m *MockFamilySvc) FindFamilyByID(ctx context.Context, familyID string) (*domain.Family, error) {
	args := m.Called(ctx, familyID)
	var family *domain.Family
	if args.Get(0) != nil {
		family = args.Get(0).(*domain.Family)
	}
	return family, args.Error(1)
}

func (m *MockFamilySvc) ListUserFamilies(ctx context.Context, userID string) ([]domain.Family, error) {
	args := m.Called(ctx, userID)
	var families []domain.Family
	if args.Get(0) != nil {
		families = args.Get(0).([]domain.Family)
	}
	return families, args.Error(1)
}

func (m *MockFamilySvc) ListFamilyMembers(ctx context.Context, familyID string, requestingUserID string) ([]domain.UserFamily, error) {
	args := m.Called(ctx, familyID, requestingUserID)
	var members []domain.UserFamily
	if args.Get(0) != nil {
		members = args.Get(0).([]domain.UserFamily)
	}
	return members, args.Error(1)
}

func (m *MockFamilySvc) CreateFamily(ctx context.Context, name, timezone, creatorUserID string) (*domain.Family, error) {
	args := m.Called(ctx, name, timezone, creatorUserID)
	var family *domain.Family
	if args.Get(0) != nil {
		family = args.Get(0).(*domain.Family)
	}
	return family, args.Error(1)
}

func (m *MockFamilySvc) JoinFamily(ctx context.Context, userID, joinCode string, role domain.UserFamilyRole) (*domain.Family, error) {
	args := m.Called(ctx, userID, joinCode, role)
	var family *domain.Family
	if args.Get(0) != nil {
		family = args.Get(0).(*domain.Family)
	}
	return family, args.Error(1)
}

func (m *MockFamilySvc) AddUserToFamily(ctx context.Context, addingUserID, targetUserID, familyID string, role domain.UserFamilyRole) error {
	args := m.Called(ctx, addingUserID, targetUserID, familyID, role)
	return args.Error(0)
}

func (m *MockFamilySvc) AuthorizeUserAction(ctx context.Context, userID, familyID string, requiredRole domain.UserFamilyRole) error {
	args := m.Called(ctx, userID, familyID, requiredRole)
	return args.Error(0)
}
