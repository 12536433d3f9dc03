package services

import (
	portsrepo "github.com/famshare/family_budget_app/internal/core/ports/repositories"
	portssvc "github.com/famshare/family_budget_app/internal/core/ports/services"
)

// NewServiceContainer wires up all application services. The family service
// is built first because every tenancy-scoped service delegates its
// authorization checks to it.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	familySvc := NewFamilyService(repos.FamilyRepo, repos.UserRepo)
	userSvc := NewUserService(repos.UserRepo)
	budgetSvc := NewBudgetService(repos.BudgetRepo, repos.TransactionRepo, familySvc)
	categorySvc := NewCategoryService(repos.CategoryRepo, repos.BudgetRepo, familySvc)
	transactionSvc := NewTransactionService(repos.TransactionRepo, repos.CategoryRepo, repos.BudgetRepo, familySvc)
	dashboardSvc := NewDashboardService(repos.TransactionRepo, repos.CategoryRepo, repos.BudgetRepo, familySvc)

	return &portssvc.ServiceContainer{
		User:        userSvc,
		Family:      familySvc,
		Category:    categorySvc,
		Budget:      budgetSvc,
		Transaction: transactionSvc,
		Dashboard:   dashboardSvc,
	}
}
