package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/famshare/family_budget_app/internal/apperrors"
	"github.com/famshare/family_budget_app/internal/core/domain"
	portssvc "github.com/famshare/family_budget_app/internal/core/ports/services"
	"github.com/famshare/family_budget_app/internal/core/services"
)

type FamilyServiceTestSuite struct {
	suite.Suite
	mockFamilyRepo *MockFamilyRepository
	mockUserRepo   *MockUserRepository
	service        portssvc.FamilySvcFacade
}

func (suite *FamilyServiceTestSuite) SetupTest() {
	suite.mockFamilyRepo = new(MockFamilyRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewFamilyService(suite.mockFamilyRepo, suite.mockUserRepo)
}

// --- CreateFamily ---

func (suite *FamilyServiceTestSuite) TestCreateFamily_CreatorBecomesAdmin() {
	ctx := context.Background()
	creatorID := uuid.NewString()

	// Join code lookup misses, so the first generated code is free.
	suite.mockFamilyRepo.On("FindFamilyByJoinCode", ctx, mock.AnythingOfType("string")).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockFamilyRepo.On("SaveFamily", ctx, mock.MatchedBy(func(f domain.Family) bool {
		return f.Name == "Smiths" && f.JoinCode != "" && f.Timezone == "Europe/Berlin"
	})).Return(nil).Once()
	suite.mockFamilyRepo.On("AddUserToFamily", ctx, mock.MatchedBy(func(m domain.UserFamily) bool {
		return m.UserID == creatorID && m.Role == domain.RoleAdmin
	})).Return(nil).Once()

	family, err := suite.service.CreateFamily(ctx, "Smiths", "Europe/Berlin", creatorID)

	suite.Require().NoError(err)
	suite.NotEmpty(family.FamilyID)
	suite.NotEmpty(family.JoinCode)
	suite.mockFamilyRepo.AssertExpectations(suite.T())
}

func (suite *FamilyServiceTestSuite) TestCreateFamily_InvalidTimezone() {
	ctx := context.Background()

	_, err := suite.service.CreateFamily(ctx, "Smiths", "Mars/Olympus_Mons", uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockFamilyRepo.AssertNotCalled(suite.T(), "SaveFamily", mock.Anything, mock.Anything)
}

func (suite *FamilyServiceTestSuite) TestCreateFamily_JoinCodeCheckFailureAborts() {
	ctx := context.Background()

	// A store error during the uniqueness probe must abort, not be treated
	// as "code is free".
	suite.mockFamilyRepo.On("FindFamilyByJoinCode", ctx, mock.AnythingOfType("string")).
		Return(nil, assert.AnError).Once()

	_, err := suite.service.CreateFamily(ctx, "Smiths", "", uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPersistence)
	suite.mockFamilyRepo.AssertNotCalled(suite.T(), "SaveFamily", mock.Anything, mock.Anything)
}

func (suite *FamilyServiceTestSuite) TestCreateFamily_RetriesTakenJoinCode() {
	ctx := context.Background()
	creatorID := uuid.NewString()
	taken := &domain.Family{FamilyID: uuid.NewString()}

	suite.mockFamilyRepo.On("FindFamilyByJoinCode", ctx, mock.AnythingOfType("string")).
		Return(taken, nil).Once()
	suite.mockFamilyRepo.On("FindFamilyByJoinCode", ctx, mock.AnythingOfType("string")).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockFamilyRepo.On("SaveFamily", ctx, mock.AnythingOfType("domain.Family")).Return(nil).Once()
	suite.mockFamilyRepo.On("AddUserToFamily", ctx, mock.AnythingOfType("domain.UserFamily")).Return(nil).Once()

	family, err := suite.service.CreateFamily(ctx, "Smiths", "", creatorID)

	suite.Require().NoError(err)
	suite.NotNil(family)
	suite.mockFamilyRepo.AssertExpectations(suite.T())
}

// --- JoinFamily ---

func (suite *FamilyServiceTestSuite) TestJoinFamily_DefaultsToMember() {
	ctx := context.Background()
	userID := uuid.NewString()
	family := &domain.Family{FamilyID: uuid.NewString(), JoinCode: "ABC234"}

	suite.mockFamilyRepo.On("FindFamilyByJoinCode", ctx, "ABC234").Return(family, nil)
	suite.mockFamilyRepo.On("FindUserFamilyRole", ctx, userID, family.FamilyID).
		Return(nil, apperrors.ErrNotFound)
	suite.mockFamilyRepo.On("AddUserToFamily", ctx, mock.MatchedBy(func(m domain.UserFamily) bool {
		return m.Role == domain.RoleMember && m.UserID == userID
	})).Return(nil).Once()

	joined, err := suite.service.JoinFamily(ctx, userID, "ABC234", "")

	suite.Require().NoError(err)
	suite.Equal(family.FamilyID, joined.FamilyID)
	suite.mockFamilyRepo.AssertExpectations(suite.T())
}

func (suite *FamilyServiceTestSuite) TestJoinFamily_AdminRoleRejected() {
	ctx := context.Background()

	_, err := suite.service.JoinFamily(ctx, uuid.NewString(), "ABC234", domain.RoleAdmin)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockFamilyRepo.AssertNotCalled(suite.T(), "AddUserToFamily", mock.Anything, mock.Anything)
}

func (suite *FamilyServiceTestSuite) TestJoinFamily_AlreadyMember() {
	ctx := context.Background()
	userID := uuid.NewString()
	family := &domain.Family{FamilyID: uuid.NewString(), JoinCode: "ABC234"}

	suite.mockFamilyRepo.On("FindFamilyByJoinCode", ctx, "ABC234").Return(family, nil)
	suite.mockFamilyRepo.On("FindUserFamilyRole", ctx, userID, family.FamilyID).
		Return(&domain.UserFamily{UserID: userID, FamilyID: family.FamilyID, Role: domain.RoleMember}, nil)

	_, err := suite.service.JoinFamily(ctx, userID, "ABC234", domain.RoleChild)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *FamilyServiceTestSuite) TestJoinFamily_UnknownCode() {
	ctx := context.Background()

	suite.mockFamilyRepo.On("FindFamilyByJoinCode", ctx, "NOPE42").Return(nil, apperrors.ErrNotFound)

	_, err := suite.service.JoinFamily(ctx, uuid.NewString(), "NOPE42", domain.RoleMember)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- AuthorizeUserAction ---

func (suite *FamilyServiceTestSuite) TestAuthorize_HigherRoleSatisfiesLowerRequirement() {
	ctx := context.Background()
	userID := uuid.NewString()
	familyID := uuid.NewString()

	suite.mockFamilyRepo.On("FindUserFamilyRole", ctx, userID, familyID).
		Return(&domain.UserFamily{UserID: userID, FamilyID: familyID, Role: domain.RoleAdmin}, nil)

	suite.NoError(suite.service.AuthorizeUserAction(ctx, userID, familyID, domain.RoleChild))
	suite.NoError(suite.service.AuthorizeUserAction(ctx, userID, familyID, domain.RoleMember))
	suite.NoError(suite.service.AuthorizeUserAction(ctx, userID, familyID, domain.RoleAdmin))
}

func (suite *FamilyServiceTestSuite) TestAuthorize_ChildLacksMemberRole() {
	ctx := context.Background()
	userID := uuid.NewString()
	familyID := uuid.NewString()

	suite.mockFamilyRepo.On("FindUserFamilyRole", ctx, userID, familyID).
		Return(&domain.UserFamily{UserID: userID, FamilyID: familyID, Role: domain.RoleChild}, nil)

	err := suite.service.AuthorizeUserAction(ctx, userID, familyID, domain.RoleMember)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *FamilyServiceTestSuite) TestAuthorize_NonMemberSeesNotFound() {
	ctx := context.Background()
	userID := uuid.NewString()
	familyID := uuid.NewString()

	suite.mockFamilyRepo.On("FindUserFamilyRole", ctx, userID, familyID).
		Return(nil, apperrors.ErrNotFound)

	err := suite.service.AuthorizeUserAction(ctx, userID, familyID, domain.RoleChild)

	suite.Require().Error(err)
	// Family existence is not revealed to outsiders.
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- AddUserToFamily ---

func (suite *FamilyServiceTestSuite) TestAddUserToFamily_RequiresAdmin() {
	ctx := context.Background()
	addingID := uuid.NewString()
	targetID := uuid.NewString()
	familyID := uuid.NewString()

	suite.mockFamilyRepo.On("FindUserFamilyRole", ctx, addingID, familyID).
		Return(&domain.UserFamily{UserID: addingID, FamilyID: familyID, Role: domain.RoleMember}, nil)

	err := suite.service.AddUserToFamily(ctx, addingID, targetID, familyID, domain.RoleMember)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockFamilyRepo.AssertNotCalled(suite.T(), "AddUserToFamily", mock.Anything, mock.Anything)
}

func (suite *FamilyServiceTestSuite) TestAddUserToFamily_TargetMustExist() {
	ctx := context.Background()
	addingID := uuid.NewString()
	targetID := uuid.NewString()
	familyID := uuid.NewString()

	suite.mockFamilyRepo.On("FindUserFamilyRole", ctx, addingID, familyID).
		Return(&domain.UserFamily{UserID: addingID, FamilyID: familyID, Role: domain.RoleAdmin}, nil)
	suite.mockUserRepo.On("FindUserByID", ctx, targetID).Return(nil, apperrors.ErrNotFound)

	err := suite.service.AddUserToFamily(ctx, addingID, targetID, familyID, domain.RoleMember)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestFamilyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FamilyServiceTestSuite))
}
