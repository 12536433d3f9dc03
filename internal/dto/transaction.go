package dto

import (
	"time"

	"github.com/famshare/family_budget_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the payload for recording a transaction.
type CreateTransactionRequest struct {
	Type        string          `json:"type" binding:"required,oneof=DEBIT CREDIT"`
	Amount      decimal.Decimal `json:"amount" binding:"required,gt=0"`
	CategoryID  string          `json:"categoryID" binding:"required"`
	Description string          `json:"description" binding:"max=200"`
	OccurredAt  time.Time       `json:"occurredAt" binding:"required"`
}

// UpdateTransactionRequest carries the full new state of a transaction. Edits
// are whole-record: the reconciliation delta is computed from the difference
// between the stored state and this request.
type UpdateTransactionRequest struct {
	Type        string          `json:"type" binding:"required,oneof=DEBIT CREDIT"`
	Amount      decimal.Decimal `json:"amount" binding:"required,gt=0"`
	CategoryID  string          `json:"categoryID" binding:"required"`
	Description string          `json:"description" binding:"max=200"`
	OccurredAt  time.Time       `json:"occurredAt" binding:"required"`
}

// TransactionResponse defines the transaction data returned by the API.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	CategoryID    string          `json:"categoryID"`
	Description   string          `json:"description"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		Type:          string(t.Type),
		Amount:        t.Amount,
		CategoryID:    t.CategoryID,
		Description:   t.Description,
		OccurredAt:    t.OccurredAt,
	}
}

// ToTransactionResponses converts a slice of transactions to response DTOs.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i := range txns {
		out[i] = ToTransactionResponse(&txns[i])
	}
	return out
}

// DeleteTransactionResponse tells the caller whether a real deletion
// occurred; deleting an already-deleted transaction reports deleted=false.
type DeleteTransactionResponse struct {
	Deleted bool `json:"deleted"`
}
