package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnknownBucket is the display name for totals whose category reference
// dangles (the category was deleted after the transaction was recorded).
const UnknownBucket = "Unknown"

// BudgetProgress is one budget's standing within the dashboard summary.
type BudgetProgress struct {
	BudgetID  string          `json:"budgetID"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
}

// CategoryTotal aggregates transaction amounts per category over the range.
type CategoryTotal struct {
	CategoryID string          `json:"categoryID,omitempty"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Total      decimal.Decimal `json:"total"`
}

// DashboardSummaryResponse is the derived, read-only view over a date range.
type DashboardSummaryResponse struct {
	From         time.Time        `json:"from"`
	To           time.Time        `json:"to"`
	TotalCredits decimal.Decimal  `json:"totalCredits"`
	TotalDebits  decimal.Decimal  `json:"totalDebits"`
	Balance      decimal.Decimal  `json:"balance"`
	Budgets      []BudgetProgress `json:"budgets"`
	Categories   []CategoryTotal  `json:"categories"`
}
