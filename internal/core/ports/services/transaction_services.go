package services

import (
	"context"
	"time"

	"github.com/famshare/family_budget_app/internal/core/domain"
	"github.com/famshare/family_budget_app/internal/dto"
)

// TransactionReaderSvc defines read operations for transaction data
type TransactionReaderSvc interface {
	GetTransactionByID(ctx context.Context, familyID, transactionID, requestingUserID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, familyID string, from, to time.Time, requestingUserID string) ([]domain.Transaction, error)
}

// TransactionWriterSvc defines the reconciliation-critical mutations. Every
// mutation keeps the linked budgets' spent aggregates consistent by
// committing the row change and the computed spent deltas atomically.
type TransactionWriterSvc interface {
	AddTransaction(ctx context.Context, familyID string, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, error)

	EditTransaction(ctx context.Context, familyID, transactionID string, req dto.UpdateTransactionRequest, requestingUserID string) (*domain.Transaction, error)

	// DeleteTransaction reverses the transaction's budget contribution, if
	// any, atomically with the delete. The bool reports whether a real
	// deletion occurred; deleting an absent transaction is not an error.
	DeleteTransaction(ctx context.Context, familyID, transactionID, requestingUserID string) (bool, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
