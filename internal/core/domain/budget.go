package domain

import "github.com/shopspring/decimal"

// Budget is a named monthly spending cap with a running spent aggregate.
//
// Invariant: after any successful sequence of transaction mutations, Spent
// equals the sum of amounts of DEBIT transactions whose category links to
// this budget and whose occurrence date falls within the current accounting
// period. Spent is maintained incrementally via commutative increments
// issued in the same atomic commit as the triggering transaction write;
// recomputing it from the transaction set is a consistency-check fallback,
// not the steady-state path.
//
// Spent may transiently go negative (e.g. a delete racing a monthly reset
// that zeroes the aggregate between the reversal being computed and
// committed). Increments must commute, so no clamping is applied here.
type Budget struct {
	BudgetID string          `json:"budgetID"`
	FamilyID string          `json:"familyID"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Spent    decimal.Decimal `json:"spent"`
	// LastResetMonth is a "YYYY-MM" tag of the accounting period Spent
	// currently covers, in the family's timezone.
	LastResetMonth string `json:"lastResetMonth"`
	AuditFields
}

// Remaining returns Amount - Spent.
func (b Budget) Remaining() decimal.Decimal {
	return b.Amount.Sub(b.Spent)
}
