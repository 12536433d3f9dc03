package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a transaction is a Debit or a Credit.
type TransactionType string

const (
	Debit  TransactionType = "DEBIT"
	Credit TransactionType = "CREDIT"
)

// Transaction is a single recorded income or expense. Only DEBIT transactions
// ever contribute to a budget's spent aggregate; credits affect the overall
// balance only. CategoryID is required at creation time but may dangle later
// (category deletion does not cascade).
type Transaction struct {
	TransactionID string          `json:"transactionID"`
	FamilyID      string          `json:"familyID"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"` // positive value
	CategoryID    string          `json:"categoryID"`
	Description   string          `json:"description"`
	OccurredAt    time.Time       `json:"occurredAt"`
	AuditFields
}
