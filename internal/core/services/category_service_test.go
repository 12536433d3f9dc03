package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/famshare/family_budget_app/internal/apperrors"
	"github.com/famshare/family_budget_app/internal/core/domain"
	portssvc "github.com/famshare/family_budget_app/internal/core/ports/services"
	"github.com/famshare/family_budget_app/internal/core/services"
	"github.com/famshare/family_budget_app/internal/dto"
)

type CategoryServiceTestSuite struct {
	suite.Suite
	mockCategoryRepo *MockCategoryRepository
	mockBudgetRepo   *MockBudgetRepository
	mockFamilySvc    *MockFamilySvc
	service          portssvc.CategorySvcFacade

	familyID string
	userID   string
}

func (suite *CategoryServiceTestSuite) SetupTest() {
	suite.mockCategoryRepo = new(MockCategoryRepository)
	suite.mockBudgetRepo = new(MockBudgetRepository)
	suite.mockFamilySvc = new(MockFamilySvc)
	suite.service = services.NewCategoryService(suite.mockCategoryRepo, suite.mockBudgetRepo, suite.mockFamilySvc)
	suite.familyID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *CategoryServiceTestSuite) authorizeAny() {
	suite.mockFamilySvc.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.familyID, mock.Anything).Return(nil)
}

func (suite *CategoryServiceTestSuite) TestCreateCategory_WithValidBudgetLink() {
	ctx := context.Background()
	suite.authorizeAny()
	budgetID := uuid.NewString()

	suite.mockBudgetRepo.On("FindBudgetByID", ctx, budgetID).
		Return(&domain.Budget{BudgetID: budgetID, FamilyID: suite.familyID, Amount: decimal.NewFromInt(300)}, nil)
	suite.mockCategoryRepo.On("SaveCategory", ctx, mock.MatchedBy(func(c domain.Category) bool {
		return c.Name == "Groceries" && c.Type == domain.Expense && c.BudgetID != nil && *c.BudgetID == budgetID
	})).Return(nil).Once()

	category, err := suite.service.CreateCategory(ctx, suite.familyID, dto.CreateCategoryRequest{
		Name:     "Groceries",
		Type:     string(domain.Expense),
		BudgetID: &budgetID,
	}, suite.userID)

	suite.Require().NoError(err)
	suite.NotEmpty(category.CategoryID)
	suite.mockCategoryRepo.AssertExpectations(suite.T())
}

func (suite *CategoryServiceTestSuite) TestCreateCategory_BudgetFromAnotherFamily() {
	ctx := context.Background()
	suite.authorizeAny()
	budgetID := uuid.NewString()

	suite.mockBudgetRepo.On("FindBudgetByID", ctx, budgetID).
		Return(&domain.Budget{BudgetID: budgetID, FamilyID: uuid.NewString()}, nil)

	_, err := suite.service.CreateCategory(ctx, suite.familyID, dto.CreateCategoryRequest{
		Name:     "Groceries",
		Type:     string(domain.Expense),
		BudgetID: &budgetID,
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockCategoryRepo.AssertNotCalled(suite.T(), "SaveCategory", mock.Anything, mock.Anything)
}

func (suite *CategoryServiceTestSuite) TestCreateCategory_MissingBudget() {
	ctx := context.Background()
	suite.authorizeAny()
	budgetID := uuid.NewString()

	suite.mockBudgetRepo.On("FindBudgetByID", ctx, budgetID).Return(nil, apperrors.ErrNotFound)

	_, err := suite.service.CreateCategory(ctx, suite.familyID, dto.CreateCategoryRequest{
		Name:     "Groceries",
		Type:     string(domain.Expense),
		BudgetID: &budgetID,
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CategoryServiceTestSuite) TestCreateCategory_InvalidType() {
	ctx := context.Background()
	suite.authorizeAny()

	_, err := suite.service.CreateCategory(ctx, suite.familyID, dto.CreateCategoryRequest{
		Name: "Groceries",
		Type: "SAVINGS",
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CategoryServiceTestSuite) TestCreateCategory_ChildForbidden() {
	ctx := context.Background()

	suite.mockFamilySvc.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.familyID, domain.RoleMember).
		Return(apperrors.ErrForbidden)

	_, err := suite.service.CreateCategory(ctx, suite.familyID, dto.CreateCategoryRequest{
		Name: "Groceries",
		Type: string(domain.Expense),
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockCategoryRepo.AssertNotCalled(suite.T(), "SaveCategory", mock.Anything, mock.Anything)
}

func (suite *CategoryServiceTestSuite) TestUpdateCategory_SetAndClearConflict() {
	ctx := context.Background()
	suite.authorizeAny()
	categoryID := uuid.NewString()
	budgetID := uuid.NewString()

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, categoryID).
		Return(&domain.Category{CategoryID: categoryID, FamilyID: suite.familyID, Name: "Groceries"}, nil)

	_, err := suite.service.UpdateCategory(ctx, suite.familyID, categoryID, dto.UpdateCategoryRequest{
		BudgetID:    &budgetID,
		ClearBudget: true,
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockCategoryRepo.AssertNotCalled(suite.T(), "UpdateCategory", mock.Anything, mock.Anything)
}

func (suite *CategoryServiceTestSuite) TestUpdateCategory_ClearsBudgetLink() {
	ctx := context.Background()
	suite.authorizeAny()
	categoryID := uuid.NewString()
	budgetID := uuid.NewString()

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, categoryID).
		Return(&domain.Category{CategoryID: categoryID, FamilyID: suite.familyID, Name: "Groceries", BudgetID: &budgetID}, nil)
	suite.mockCategoryRepo.On("UpdateCategory", ctx, mock.MatchedBy(func(c domain.Category) bool {
		return c.BudgetID == nil
	})).Return(nil).Once()

	category, err := suite.service.UpdateCategory(ctx, suite.familyID, categoryID, dto.UpdateCategoryRequest{
		ClearBudget: true,
	}, suite.userID)

	suite.Require().NoError(err)
	suite.Nil(category.BudgetID)
	suite.mockCategoryRepo.AssertExpectations(suite.T())
}

func (suite *CategoryServiceTestSuite) TestUpdateCategory_CrossFamilyHidden() {
	ctx := context.Background()
	suite.authorizeAny()
	categoryID := uuid.NewString()
	newName := "Renamed"

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, categoryID).
		Return(&domain.Category{CategoryID: categoryID, FamilyID: uuid.NewString()}, nil)

	_, err := suite.service.UpdateCategory(ctx, suite.familyID, categoryID, dto.UpdateCategoryRequest{
		Name: &newName,
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CategoryServiceTestSuite) TestDeleteCategory_Succeeds() {
	ctx := context.Background()
	suite.authorizeAny()
	categoryID := uuid.NewString()

	suite.mockCategoryRepo.On("FindCategoryByID", ctx, categoryID).
		Return(&domain.Category{CategoryID: categoryID, FamilyID: suite.familyID}, nil)
	suite.mockCategoryRepo.On("DeleteCategory", ctx, categoryID).Return(nil).Once()

	err := suite.service.DeleteCategory(ctx, suite.familyID, categoryID, suite.userID)

	suite.Require().NoError(err)
	suite.mockCategoryRepo.AssertExpectations(suite.T())
}

func TestCategoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryServiceTestSuite))
}
