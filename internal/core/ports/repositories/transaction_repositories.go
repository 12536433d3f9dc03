package repositories

import (
	"context"
	"time"

	"github.com/famshare/family_budget_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction by its identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByFamily retrieves a family's transactions whose
	// occurrence date falls within [from, to).
	ListTransactionsByFamily(ctx context.Context, familyID string, from, to time.Time) ([]domain.Transaction, error)

	// SumDebitAmountByBudget sums the amounts of debit transactions whose
	// category currently links to the given budget, within [from, to).
	// This is the recompute fallback for the spent invariant, not the
	// steady-state path.
	SumDebitAmountByBudget(ctx context.Context, budgetID string, from, to time.Time) (decimal.Decimal, error)
}

// TransactionWriter defines write operations for transaction data.
// Every write commits the row change and the reconciliation's spent deltas as
// one all-or-nothing unit; on error no partial state is observable.
type TransactionWriter interface {
	// SaveTransaction inserts the transaction and applies rec atomically.
	SaveTransaction(ctx context.Context, txn domain.Transaction, rec domain.Reconciliation) error

	// UpdateTransaction updates the row and applies rec atomically.
	UpdateTransaction(ctx context.Context, txn domain.Transaction, rec domain.Reconciliation) error

	// DeleteTransaction removes the row and applies rec atomically. The
	// returned bool reports whether a row was actually deleted; deleting an
	// absent transaction is not an error, but then rec is not applied.
	DeleteTransaction(ctx context.Context, transactionID string, rec domain.Reconciliation) (bool, error)
}

// TransactionRepositoryFacade combines all transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
