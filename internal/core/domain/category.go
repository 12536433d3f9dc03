package domain

// CategoryType indicates whether a category groups income or expenses.
type CategoryType string

const (
	Income  CategoryType = "INCOME"
	Expense CategoryType = "EXPENSE"
)

// Category groups transactions and may optionally link to a budget. Many
// categories can point at the same budget. The link is not referentially
// enforced: deleting a budget leaves the BudgetID dangling and readers must
// degrade it to an "unknown" bucket.
type Category struct {
	CategoryID string       `json:"categoryID"`
	FamilyID   string       `json:"familyID"`
	Name       string       `json:"name"`
	Type       CategoryType `json:"type"`
	BudgetID   *string      `json:"budgetID,omitempty"`
	AuditFields
}
