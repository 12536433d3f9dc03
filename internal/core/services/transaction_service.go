package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/famshare/family_budget_app/internal/apperrors"
	"github.com/famshare/family_budget_app/internal/core/domain"
	portsrepo "github.com/famshare/family_budget_app/internal/core/ports/repositories"
	portssvc "github.com/famshare/family_budget_app/internal/core/ports/services"
	"github.com/famshare/family_budget_app/internal/dto"
	"github.com/famshare/family_budget_app/internal/middleware"
	"github.com/famshare/family_budget_app/internal/utils/monthtag"
)

// maxDescriptionLength bounds transaction descriptions.
const maxDescriptionLength = 200

// transactionService records income and expenses and keeps the linked
// budgets' spent aggregates consistent. Every mutation computes the spent
// deltas it implies and hands them to the repository together with the row
// change, so the two commit as one unit. Spent is never read here to compute
// a new value; only signed deltas flow out.
type transactionService struct {
	txnRepo      portsrepo.TransactionRepositoryFacade
	categoryRepo portsrepo.CategoryRepositoryFacade
	budgetRepo   portsrepo.BudgetRepositoryFacade
	familySvc    portssvc.FamilySvcFacade
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(tr portsrepo.TransactionRepositoryFacade, cr portsrepo.CategoryRepositoryFacade, br portsrepo.BudgetRepositoryFacade, fs portssvc.FamilySvcFacade) portssvc.TransactionSvcFacade {
	return &transactionService{
		txnRepo:      tr,
		categoryRepo: cr,
		budgetRepo:   br,
		familySvc:    fs,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// validateTransactionInput checks the request fields shared by add and edit.
func validateTransactionInput(txnType string, amount decimal.Decimal, description string) error {
	if txnType != string(domain.Debit) && txnType != string(domain.Credit) {
		return fmt.Errorf("%w: transaction type must be DEBIT or CREDIT", apperrors.ErrValidation)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: transaction amount must be positive", apperrors.ErrValidation)
	}
	if len(description) > maxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", apperrors.ErrValidation, maxDescriptionLength)
	}
	return nil
}

// resolveLiveCategory fetches a category and verifies it belongs to the
// family. Used on write paths, where the referenced category must exist.
func (s *transactionService) resolveLiveCategory(ctx context.Context, familyID, categoryID string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: category %s does not exist", apperrors.ErrValidation, categoryID)
		}
		return nil, fmt.Errorf("failed to look up category: %w", err)
	}
	if category.FamilyID != familyID {
		return nil, fmt.Errorf("%w: category %s does not exist", apperrors.ErrValidation, categoryID)
	}
	return category, nil
}

// familyTimezone resolves the family's IANA timezone for period membership
// checks.
func (s *transactionService) familyTimezone(ctx context.Context, familyID string) (string, error) {
	family, err := s.familySvc.FindFamilyByID(ctx, familyID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve family timezone: %w", err)
	}
	return family.Timezone, nil
}

// budgetIDForDebit returns the budget a debit against the category should
// count toward, or nil when no contribution applies: the category has no
// budget link, the link dangles, or the occurrence date falls outside the
// accounting period the budget's spent aggregate currently covers. Period
// membership keys on the user-supplied business date in the family timezone,
// matching the recompute fallback, so a backdated debit never inflates the
// current month.
func (s *transactionService) budgetIDForDebit(ctx context.Context, category *domain.Category, occurredAt time.Time, timezone string) (*string, error) {
	if category == nil || category.BudgetID == nil {
		return nil, nil
	}
	budget, err := s.budgetRepo.FindBudgetByID(ctx, *category.BudgetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Dangling link: the budget was deleted after the category
			// pointed at it. The debit simply stops counting anywhere.
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up linked budget: %w", err)
	}
	if monthtag.Current(occurredAt, timezone) != budget.LastResetMonth {
		return nil, nil
	}
	return category.BudgetID, nil
}

// contributionBudgetID determines which budget a stored transaction currently
// contributes to: nil for credits, for categories without a budget link, for
// dangling category or budget references, and for occurrence dates outside
// the budget's current accounting period.
func (s *transactionService) contributionBudgetID(ctx context.Context, txn *domain.Transaction, timezone string) (*string, error) {
	if txn.Type != domain.Debit {
		return nil, nil
	}
	category, err := s.categoryRepo.FindCategoryByID(ctx, txn.CategoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// The category was deleted after this transaction was recorded;
			// its contribution is gone and there is nothing to reverse.
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up transaction category: %w", err)
	}
	return s.budgetIDForDebit(ctx, category, txn.OccurredAt, timezone)
}

// AddTransaction records a transaction. When it is a debit against a
// budget-linked category, the budget's spent increases by the amount in the
// same commit.
func (s *transactionService) AddTransaction(ctx context.Context, familyID string, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.familySvc.AuthorizeUserAction(ctx, creatorUserID, familyID, domain.RoleChild); err != nil {
		return nil, err
	}

	if err := validateTransactionInput(req.Type, req.Amount, req.Description); err != nil {
		return nil, err
	}

	category, err := s.resolveLiveCategory(ctx, familyID, req.CategoryID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		FamilyID:      familyID,
		Type:          domain.TransactionType(req.Type),
		Amount:        req.Amount,
		CategoryID:    req.CategoryID,
		Description:   req.Description,
		OccurredAt:    req.OccurredAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	var rec domain.Reconciliation
	if txn.Type == domain.Debit {
		timezone, err := s.familyTimezone(ctx, familyID)
		if err != nil {
			return nil, err
		}
		budgetID, err := s.budgetIDForDebit(ctx, category, txn.OccurredAt, timezone)
		if err != nil {
			return nil, err
		}
		if budgetID != nil {
			rec.Add(*budgetID, txn.Amount)
		}
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn, rec); err != nil {
		logger.Error("Failed to save transaction", slog.String("error", err.Error()), slog.String("family_id", familyID))
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	logger.Info("Transaction recorded",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("family_id", familyID),
		slog.String("type", string(txn.Type)))
	return &txn, nil
}

// findFamilyTransaction fetches a transaction and verifies it belongs to the
// family. Cross-family probes get ErrNotFound.
func (s *transactionService) findFamilyTransaction(ctx context.Context, familyID, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.FamilyID != familyID {
		return nil, apperrors.ErrNotFound
	}
	return txn, nil
}

// EditTransaction replaces a transaction's state wholesale. The net spent
// delta is the difference between the old contribution and the new one:
// reversing the old and applying the new against the same budget merges into
// a single (new - old) increment, and a no-op edit produces no delta at all.
func (s *transactionService) EditTransaction(ctx context.Context, familyID, transactionID string, req dto.UpdateTransactionRequest, requestingUserID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.familySvc.AuthorizeUserAction(ctx, requestingUserID, familyID, domain.RoleChild); err != nil {
		return nil, err
	}

	if err := validateTransactionInput(req.Type, req.Amount, req.Description); err != nil {
		return nil, err
	}

	oldTxn, err := s.findFamilyTransaction(ctx, familyID, transactionID)
	if err != nil {
		return nil, err
	}

	// The new category must be live; the old one may have been deleted since.
	newCategory, err := s.resolveLiveCategory(ctx, familyID, req.CategoryID)
	if err != nil {
		return nil, err
	}

	timezone, err := s.familyTimezone(ctx, familyID)
	if err != nil {
		return nil, err
	}

	oldBudgetID, err := s.contributionBudgetID(ctx, oldTxn, timezone)
	if err != nil {
		return nil, err
	}

	var newBudgetID *string
	if domain.TransactionType(req.Type) == domain.Debit {
		newBudgetID, err = s.budgetIDForDebit(ctx, newCategory, req.OccurredAt, timezone)
		if err != nil {
			return nil, err
		}
	}

	var rec domain.Reconciliation
	if oldBudgetID != nil {
		rec.Add(*oldBudgetID, oldTxn.Amount.Neg())
	}
	if newBudgetID != nil {
		rec.Add(*newBudgetID, req.Amount)
	}

	updated := *oldTxn
	updated.Type = domain.TransactionType(req.Type)
	updated.Amount = req.Amount
	updated.CategoryID = req.CategoryID
	updated.Description = req.Description
	updated.OccurredAt = req.OccurredAt
	updated.LastUpdatedAt = time.Now().UTC()
	updated.LastUpdatedBy = requestingUserID

	if err := s.txnRepo.UpdateTransaction(ctx, updated, rec); err != nil {
		logger.Error("Failed to update transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	logger.Info("Transaction updated",
		slog.String("transaction_id", transactionID),
		slog.String("family_id", familyID))
	return &updated, nil
}

// DeleteTransaction removes a transaction, reversing its budget contribution
// in the same commit. Deleting an absent transaction reports (false, nil):
// the end state is identical, so a repeat of the call is not an error.
func (s *transactionService) DeleteTransaction(ctx context.Context, familyID, transactionID, requestingUserID string) (bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.familySvc.AuthorizeUserAction(ctx, requestingUserID, familyID, domain.RoleChild); err != nil {
		return false, err
	}

	txn, err := s.findFamilyTransaction(ctx, familyID, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	var rec domain.Reconciliation
	if txn.Type == domain.Debit {
		timezone, err := s.familyTimezone(ctx, familyID)
		if err != nil {
			return false, err
		}
		budgetID, err := s.contributionBudgetID(ctx, txn, timezone)
		if err != nil {
			return false, err
		}
		if budgetID != nil {
			rec.Add(*budgetID, txn.Amount.Neg())
		}
	}

	deleted, err := s.txnRepo.DeleteTransaction(ctx, transactionID, rec)
	if err != nil {
		logger.Error("Failed to delete transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return false, fmt.Errorf("failed to delete transaction: %w", err)
	}

	if deleted {
		logger.Info("Transaction deleted", slog.String("transaction_id", transactionID), slog.String("family_id", familyID))
	}
	return deleted, nil
}

// GetTransactionByID retrieves a single transaction.
func (s *transactionService) GetTransactionByID(ctx context.Context, familyID, transactionID, requestingUserID string) (*domain.Transaction, error) {
	if err := s.familySvc.AuthorizeUserAction(ctx, requestingUserID, familyID, domain.RoleChild); err != nil {
		return nil, err
	}
	return s.findFamilyTransaction(ctx, familyID, transactionID)
}

// ListTransactions retrieves a family's transactions within [from, to).
func (s *transactionService) ListTransactions(ctx context.Context, familyID string, from, to time.Time, requestingUserID string) ([]domain.Transaction, error) {
	if err := s.familySvc.AuthorizeUserAction(ctx, requestingUserID, familyID, domain.RoleChild); err != nil {
		return nil, err
	}
	if !to.After(from) {
		return nil, fmt.Errorf("%w: 'to' must be after 'from'", apperrors.ErrValidation)
	}

	txns, err := s.txnRepo.ListTransactionsByFamily(ctx, familyID, from, to)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list transactions", slog.String("error", err.Error()), slog.String("family_id", familyID))
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}
	return txns, nil
}
