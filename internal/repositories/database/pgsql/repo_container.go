package pgsql

import (
	portsrepo "github.com/famshare/family_budget_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	userRepo := newPgxUserRepository(dbPool)
	familyRepo := newPgxFamilyRepository(dbPool)
	categoryRepo := newPgxCategoryRepository(dbPool)
	budgetRepo := newPgxBudgetRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool)

	return portsrepo.RepositoryProvider{
		UserRepo:        userRepo,
		FamilyRepo:      familyRepo,
		CategoryRepo:    categoryRepo,
		BudgetRepo:      budgetRepo,
		TransactionRepo: transactionRepo,
	}
}
