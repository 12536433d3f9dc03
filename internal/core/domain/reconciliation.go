package domain

import "github.com/shopspring/decimal"

// SpentDelta is one signed increment against a budget's spent aggregate.
type SpentDelta struct {
	BudgetID string
	Delta    decimal.Decimal
}

// Reconciliation accumulates the budget spent deltas produced by one logical
// transaction mutation. Repositories must commit every delta and the
// triggering transaction write as a single all-or-nothing unit, applying each
// delta as a store-native increment (never read-modify-write), so concurrent
// reconciliations commute.
type Reconciliation struct {
	deltas []SpentDelta
}

// Add records a delta against a budget. Deltas for the same budget merge;
// entries that net out to zero are dropped at read time.
func (r *Reconciliation) Add(budgetID string, delta decimal.Decimal) {
	for i := range r.deltas {
		if r.deltas[i].BudgetID == budgetID {
			r.deltas[i].Delta = r.deltas[i].Delta.Add(delta)
			return
		}
	}
	r.deltas = append(r.deltas, SpentDelta{BudgetID: budgetID, Delta: delta})
}

// Deltas returns the merged, non-zero deltas in insertion order.
func (r *Reconciliation) Deltas() []SpentDelta {
	out := make([]SpentDelta, 0, len(r.deltas))
	for _, d := range r.deltas {
		if !d.Delta.IsZero() {
			out = append(out, d)
		}
	}
	return out
}

// IsEmpty reports whether the reconciliation carries no effective delta.
func (r *Reconciliation) IsEmpty() bool {
	return len(r.Deltas()) == 0
}
