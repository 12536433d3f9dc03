package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/famshare/family_budget_app/internal/apperrors"
	"github.com/famshare/family_budget_app/internal/core/domain"
	portsrepo "github.com/famshare/family_budget_app/internal/core/ports/repositories"
	portssvc "github.com/famshare/family_budget_app/internal/core/ports/services"
	"github.com/famshare/family_budget_app/internal/dto"
	"github.com/famshare/family_budget_app/internal/middleware"
)

// dashboardService assembles the read-only summary view. It derives
// everything from transactions and budget snapshots and writes nothing.
type dashboardService struct {
	txnRepo      portsrepo.TransactionRepositoryFacade
	categoryRepo portsrepo.CategoryRepositoryFacade
	budgetRepo   portsrepo.BudgetRepositoryFacade
	familySvc    portssvc.FamilySvcFacade
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(tr portsrepo.TransactionRepositoryFacade, cr portsrepo.CategoryRepositoryFacade, br portsrepo.BudgetRepositoryFacade, fs portssvc.FamilySvcFacade) portssvc.DashboardSvcFacade {
	return &dashboardService{
		txnRepo:      tr,
		categoryRepo: cr,
		budgetRepo:   br,
		familySvc:    fs,
	}
}

var _ portssvc.DashboardSvcFacade = (*dashboardService)(nil)

// GetSummary aggregates a family's transactions over [from, to): overall
// credit/debit totals and balance, the current standing of every budget, and
// per-category totals. Transactions whose category reference dangles are
// grouped under a single "Unknown" bucket rather than dropped, so the
// category totals always add up to the overall totals.
func (s *dashboardService) GetSummary(ctx context.Context, familyID string, from, to time.Time, requestingUserID string) (*dto.DashboardSummaryResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.familySvc.AuthorizeUserAction(ctx, requestingUserID, familyID, domain.RoleChild); err != nil {
		return nil, err
	}
	if !to.After(from) {
		return nil, fmt.Errorf("%w: 'to' must be after 'from'", apperrors.ErrValidation)
	}

	txns, err := s.txnRepo.ListTransactionsByFamily(ctx, familyID, from, to)
	if err != nil {
		logger.Error("Failed to list transactions for summary", slog.String("error", err.Error()), slog.String("family_id", familyID))
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	budgets, err := s.budgetRepo.ListBudgetsByFamily(ctx, familyID)
	if err != nil {
		logger.Error("Failed to list budgets for summary", slog.String("error", err.Error()), slog.String("family_id", familyID))
		return nil, fmt.Errorf("failed to load budgets: %w", err)
	}

	categoryIDs := make([]string, 0, len(txns))
	seen := make(map[string]bool, len(txns))
	for i := range txns {
		if id := txns[i].CategoryID; id != "" && !seen[id] {
			seen[id] = true
			categoryIDs = append(categoryIDs, id)
		}
	}

	categories := map[string]domain.Category{}
	if len(categoryIDs) > 0 {
		categories, err = s.categoryRepo.FindCategoriesByIDs(ctx, categoryIDs)
		if err != nil {
			logger.Error("Failed to resolve categories for summary", slog.String("error", err.Error()), slog.String("family_id", familyID))
			return nil, fmt.Errorf("failed to load categories: %w", err)
		}
	}

	summary := &dto.DashboardSummaryResponse{
		From:         from,
		To:           to,
		TotalCredits: decimal.Zero,
		TotalDebits:  decimal.Zero,
		Budgets:      make([]dto.BudgetProgress, 0, len(budgets)),
		Categories:   []dto.CategoryTotal{},
	}

	// Keyed by categoryID plus type so a dangling DEBIT and a dangling
	// CREDIT get separate Unknown rows.
	type bucketKey struct {
		categoryID string
		txnType    domain.TransactionType
	}
	totals := map[bucketKey]*dto.CategoryTotal{}
	order := []bucketKey{}

	for i := range txns {
		txn := &txns[i]
		switch txn.Type {
		case domain.Credit:
			summary.TotalCredits = summary.TotalCredits.Add(txn.Amount)
		case domain.Debit:
			summary.TotalDebits = summary.TotalDebits.Add(txn.Amount)
		}

		key := bucketKey{txnType: txn.Type}
		name := dto.UnknownBucket
		if category, ok := categories[txn.CategoryID]; ok {
			key.categoryID = category.CategoryID
			name = category.Name
		}

		bucket, ok := totals[key]
		if !ok {
			bucket = &dto.CategoryTotal{
				CategoryID: key.categoryID,
				Name:       name,
				Type:       string(txn.Type),
				Total:      decimal.Zero,
			}
			totals[key] = bucket
			order = append(order, key)
		}
		bucket.Total = bucket.Total.Add(txn.Amount)
	}

	summary.Balance = summary.TotalCredits.Sub(summary.TotalDebits)

	for _, key := range order {
		summary.Categories = append(summary.Categories, *totals[key])
	}

	for i := range budgets {
		b := &budgets[i]
		summary.Budgets = append(summary.Budgets, dto.BudgetProgress{
			BudgetID:  b.BudgetID,
			Name:      b.Name,
			Amount:    b.Amount,
			Spent:     b.Spent,
			Remaining: b.Remaining(),
		})
	}

	return summary, nil
}
