package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/famshare/family_budget_app/internal/apperrors"
	"github.com/famshare/family_budget_app/internal/core/domain"
	portssvc "github.com/famshare/family_budget_app/internal/core/ports/services"
	"github.com/famshare/family_budget_app/internal/core/services"
	"github.com/famshare/family_budget_app/internal/dto"
)

type BudgetServiceTestSuite struct {
	suite.Suite
	mockBudgetRepo *MockBudgetRepository
	mockTxnRepo    *MockTransactionRepository
	mockFamilySvc  *MockFamilySvc
	service        portssvc.BudgetSvcFacade

	familyID string
	adminID  string
	now      time.Time
}

func (suite *BudgetServiceTestSuite) SetupTest() {
	suite.mockBudgetRepo = new(MockBudgetRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockFamilySvc = new(MockFamilySvc)
	suite.now = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	suite.service = services.NewBudgetService(
		suite.mockBudgetRepo,
		suite.mockTxnRepo,
		suite.mockFamilySvc,
		services.WithBudgetClock(func() time.Time { return suite.now }),
	)

	suite.familyID = uuid.NewString()
	suite.adminID = uuid.NewString()
}

func (suite *BudgetServiceTestSuite) authorizeAdmin() {
	suite.mockFamilySvc.On("AuthorizeUserAction", mock.Anything, suite.adminID, suite.familyID, domain.RoleAdmin).Return(nil)
}

func (suite *BudgetServiceTestSuite) familyInUTC() {
	suite.mockFamilySvc.On("FindFamilyByID", mock.Anything, suite.familyID).
		Return(&domain.Family{FamilyID: suite.familyID, Timezone: ""}, nil)
}

// --- CreateBudget ---

func (suite *BudgetServiceTestSuite) TestCreateBudget_StartsAtZeroWithCurrentMonthTag() {
	ctx := context.Background()
	suite.authorizeAdmin()
	suite.familyInUTC()

	suite.mockBudgetRepo.On("SaveBudget", ctx, mock.MatchedBy(func(b domain.Budget) bool {
		return b.Spent.IsZero() && b.LastResetMonth == "2024-03" && b.Name == "Groceries"
	})).Return(nil).Once()

	budget, err := suite.service.CreateBudget(ctx, suite.familyID, dto.CreateBudgetRequest{
		Name:   "Groceries",
		Amount: decimal.NewFromInt(500),
	}, suite.adminID)

	suite.Require().NoError(err)
	suite.True(budget.Spent.IsZero())
	suite.Equal("2024-03", budget.LastResetMonth)
	suite.mockBudgetRepo.AssertExpectations(suite.T())
}

func (suite *BudgetServiceTestSuite) TestCreateBudget_RejectsNonPositiveAmount() {
	ctx := context.Background()
	suite.authorizeAdmin()

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-10)} {
		_, err := suite.service.CreateBudget(ctx, suite.familyID, dto.CreateBudgetRequest{
			Name:   "Broken",
			Amount: amount,
		}, suite.adminID)
		suite.Require().Error(err)
		suite.ErrorIs(err, apperrors.ErrValidation)
	}
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "SaveBudget", mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestCreateBudget_MemberForbidden() {
	ctx := context.Background()
	suite.mockFamilySvc.On("AuthorizeUserAction", mock.Anything, suite.adminID, suite.familyID, domain.RoleAdmin).
		Return(apperrors.ErrForbidden)

	_, err := suite.service.CreateBudget(ctx, suite.familyID, dto.CreateBudgetRequest{
		Name:   "Groceries",
		Amount: decimal.NewFromInt(100),
	}, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

// --- UpdateBudget ---

func (suite *BudgetServiceTestSuite) TestUpdateBudget_NeverTouchesSpent() {
	ctx := context.Background()
	suite.authorizeAdmin()

	stored := &domain.Budget{
		BudgetID:       uuid.NewString(),
		FamilyID:       suite.familyID,
		Name:           "Groceries",
		Amount:         decimal.NewFromInt(500),
		Spent:          decimal.NewFromInt(220),
		LastResetMonth: "2024-03",
	}
	suite.mockBudgetRepo.On("FindBudgetByID", ctx, stored.BudgetID).Return(stored, nil)

	newAmount := decimal.NewFromInt(650)
	suite.mockBudgetRepo.On("UpdateBudget", ctx, mock.MatchedBy(func(b domain.Budget) bool {
		return b.Amount.Equal(newAmount) && b.Spent.Equal(decimal.NewFromInt(220))
	})).Return(nil).Once()

	updated, err := suite.service.UpdateBudget(ctx, suite.familyID, stored.BudgetID, dto.UpdateBudgetRequest{
		Amount: &newAmount,
	}, suite.adminID)

	suite.Require().NoError(err)
	suite.True(updated.Spent.Equal(decimal.NewFromInt(220)))
	suite.True(updated.Remaining().Equal(decimal.NewFromInt(430)))
	suite.mockBudgetRepo.AssertExpectations(suite.T())
}

func (suite *BudgetServiceTestSuite) TestUpdateBudget_CrossFamilyHidden() {
	ctx := context.Background()
	suite.authorizeAdmin()

	stored := &domain.Budget{BudgetID: uuid.NewString(), FamilyID: uuid.NewString()}
	suite.mockBudgetRepo.On("FindBudgetByID", ctx, stored.BudgetID).Return(stored, nil)

	name := "Sneaky"
	_, err := suite.service.UpdateBudget(ctx, suite.familyID, stored.BudgetID, dto.UpdateBudgetRequest{Name: &name}, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "UpdateBudget", mock.Anything, mock.Anything)
}

// --- ResetBudgetsIfNewMonth ---

func (suite *BudgetServiceTestSuite) TestResetBudgets_ResetsOnlyStale() {
	ctx := context.Background()
	suite.authorizeAdmin()
	suite.familyInUTC()

	stale := domain.Budget{BudgetID: uuid.NewString(), FamilyID: suite.familyID, LastResetMonth: "2024-02"}
	current := domain.Budget{BudgetID: uuid.NewString(), FamilyID: suite.familyID, LastResetMonth: "2024-03"}
	suite.mockBudgetRepo.On("ListBudgetsByFamily", ctx, suite.familyID).
		Return([]domain.Budget{stale, current}, nil)

	suite.mockBudgetRepo.On("ResetSpentIfStale", ctx, stale.BudgetID, "2024-03", suite.adminID, mock.AnythingOfType("time.Time")).
		Return(true, nil).Once()

	resp, err := suite.service.ResetBudgetsIfNewMonth(ctx, suite.familyID, suite.adminID)

	suite.Require().NoError(err)
	suite.Equal("2024-03", resp.MonthTag)
	suite.Equal(1, resp.ResetCount)
	suite.Equal(2, resp.TotalCount)
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "ResetSpentIfStale", ctx, current.BudgetID, mock.Anything, mock.Anything, mock.Anything)
	suite.mockBudgetRepo.AssertExpectations(suite.T())
}

func (suite *BudgetServiceTestSuite) TestResetBudgets_SecondPassIsNoOp() {
	ctx := context.Background()
	suite.authorizeAdmin()
	suite.familyInUTC()

	budgets := []domain.Budget{
		{BudgetID: uuid.NewString(), FamilyID: suite.familyID, LastResetMonth: "2024-03"},
		{BudgetID: uuid.NewString(), FamilyID: suite.familyID, LastResetMonth: "2024-03"},
	}
	suite.mockBudgetRepo.On("ListBudgetsByFamily", ctx, suite.familyID).Return(budgets, nil)

	resp, err := suite.service.ResetBudgetsIfNewMonth(ctx, suite.familyID, suite.adminID)

	suite.Require().NoError(err)
	suite.Equal(0, resp.ResetCount)
	suite.Equal(2, resp.TotalCount)
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "ResetSpentIfStale", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestResetBudgets_OneFailureDoesNotAbortPass() {
	ctx := context.Background()
	suite.authorizeAdmin()
	suite.familyInUTC()

	failing := domain.Budget{BudgetID: uuid.NewString(), FamilyID: suite.familyID, LastResetMonth: "2024-01"}
	stale := domain.Budget{BudgetID: uuid.NewString(), FamilyID: suite.familyID, LastResetMonth: "2024-02"}
	suite.mockBudgetRepo.On("ListBudgetsByFamily", ctx, suite.familyID).
		Return([]domain.Budget{failing, stale}, nil)

	suite.mockBudgetRepo.On("ResetSpentIfStale", ctx, failing.BudgetID, "2024-03", suite.adminID, mock.AnythingOfType("time.Time")).
		Return(false, assert.AnError).Once()
	suite.mockBudgetRepo.On("ResetSpentIfStale", ctx, stale.BudgetID, "2024-03", suite.adminID, mock.AnythingOfType("time.Time")).
		Return(true, nil).Once()

	resp, err := suite.service.ResetBudgetsIfNewMonth(ctx, suite.familyID, suite.adminID)

	suite.Require().NoError(err)
	suite.Equal(1, resp.ResetCount)
	suite.mockBudgetRepo.AssertExpectations(suite.T())
}

func (suite *BudgetServiceTestSuite) TestResetBudgets_UsesFamilyTimezone() {
	ctx := context.Background()
	suite.authorizeAdmin()
	// 2024-03-01 01:00 UTC is still February in New York.
	suite.now = time.Date(2024, time.March, 1, 1, 0, 0, 0, time.UTC)
	suite.mockFamilySvc.On("FindFamilyByID", mock.Anything, suite.familyID).
		Return(&domain.Family{FamilyID: suite.familyID, Timezone: "America/New_York"}, nil)

	budget := domain.Budget{BudgetID: uuid.NewString(), FamilyID: suite.familyID, LastResetMonth: "2024-02"}
	suite.mockBudgetRepo.On("ListBudgetsByFamily", ctx, suite.familyID).
		Return([]domain.Budget{budget}, nil)

	resp, err := suite.service.ResetBudgetsIfNewMonth(ctx, suite.familyID, suite.adminID)

	suite.Require().NoError(err)
	suite.Equal("2024-02", resp.MonthTag)
	suite.Equal(0, resp.ResetCount)
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "ResetSpentIfStale", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- RecomputeSpent ---

func (suite *BudgetServiceTestSuite) TestRecomputeSpent_OverwritesFromTransactionSum() {
	ctx := context.Background()
	suite.authorizeAdmin()
	suite.familyInUTC()

	stored := &domain.Budget{
		BudgetID:       uuid.NewString(),
		FamilyID:       suite.familyID,
		Amount:         decimal.NewFromInt(500),
		Spent:          decimal.NewFromInt(999), // drifted
		LastResetMonth: "2024-03",
	}
	suite.mockBudgetRepo.On("FindBudgetByID", ctx, stored.BudgetID).Return(stored, nil)

	sum := decimal.NewFromInt(230)
	suite.mockTxnRepo.On("SumDebitAmountByBudget", ctx, stored.BudgetID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return(sum, nil).Once()
	suite.mockBudgetRepo.On("OverwriteSpent", ctx, stored.BudgetID, sum, suite.adminID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	budget, err := suite.service.RecomputeSpent(ctx, suite.familyID, stored.BudgetID, suite.adminID)

	suite.Require().NoError(err)
	suite.True(budget.Spent.Equal(sum))
	suite.mockBudgetRepo.AssertExpectations(suite.T())
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func TestBudgetServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BudgetServiceTestSuite))
}
