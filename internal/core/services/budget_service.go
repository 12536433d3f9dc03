package services

import (
	"context"
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

// budgetService owns budget documents: their allocated amount, the running
// spent aggregate, and the monthly accounting-period transitions. Spent is
// only ever mutated through reconciliation deltas (issued by the transaction
// service via the repository), the conditional monthly reset, and the
// explicit recompute fallback.
type budgetService struct {
	budgetRepo portsrepo.BudgetRepositoryFacade
	txnRepo    portsrepo.TransactionRepositoryFacade
	familySvc  portssvc.FamilySvcFacade
	now        func() time.Time
}

// BudgetServiceOption customizes a budgetService.
type BudgetServiceOption func(*budgetService)

// WithBudgetClock overrides the wall clock, mainly for tests near month
// boundaries.
func WithBudgetClock(now func() time.Time) BudgetServiceOption {
	return func(s *budgetService) { s.now = now }
}

// NewBudgetService creates a new BudgetService.
func NewBudgetService(br portsrepo.BudgetRepositoryFacade, tr portsrepo.TransactionRepositoryFacade, fs portssvc.FamilySvcFacade, opts ...BudgetServiceOption) portssvc.BudgetSvcFacade {
	s := &budgetService{
		budgetRepo: br,
		txnRepo:    tr,
		familySvc:  fs,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

// currentMonthTag computes the family's current accounting period tag.
func (s *budgetService) currentMonthTag(ctx context.Context, familyID string) (string, error) {
	family, err := s.familySvc.FindFamilyByID(ctx, familyID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve family timezone: %w", err)
	}
	return monthtag.Current(s.now(), family.Timezone), nil
}

// CreateBudget creates a budget with spent=0 and the current month tag.
func (s *budgetService) CreateBudget(ctx context.Context, familyID string, req dto.CreateBudgetRequest, creatorUserID string) (*domain.Budget, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.familySvc.AuthorizeUserAction(ctx, creatorUserID, familyID, domain.RoleAdmin); err != nil {
		logger.Warn("Authorization failed for CreateBudget", slog.String("user_id", creatorUserID), slog.String("family_id", familyID), slog.String("error", err.Error()))
		return nil, err
	}

	if req.Name == "" {
		return nil, fmt.Errorf("%w: budget name is required", apperrors.ErrValidation)
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: budget amount must be positive", apperrors.ErrValidation)
	}

	tag, err := s.currentMonthTag(ctx, familyID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	budget := domain.Budget{
		BudgetID:       uuid.NewString(),
		FamilyID:       familyID,
		Name:           req.Name,
		Amount:         req.Amount,
		Spent:          decimal.Zero,
		LastResetMonth: tag,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.budgetRepo.SaveBudget(ctx, budget); err != nil {
		logger.Error("Failed to save budget", slog.String("error", err.Error()), slog.String("family_id", familyID))
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}

	logger.Info("Budget created", slog.String("budget_id", budget.BudgetID), slog.String("family_id", familyID))
	return &budget, nil
}

// findFamilyBudget fetches a budget and verifies it belongs to the family.
// Cross-family probes get ErrNotFound to obscure existence.
func (s *budgetService) findFamilyBudget(ctx context.Context, familyID, budgetID string) (*domain.Budget, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if budget.FamilyID != familyID {
		return nil, apperrors.ErrNotFound
	}
	return budget, nil
}

// GetBudgetByID retrieves a budget; any family member may read it.
func (s *budgetService) GetBudgetByID(ctx context.Context, familyID, budgetID, requestingUserID string) (*domain.Budget, error) {
	if err := s.familySvc.AuthorizeUserAction(ctx, requestingUserID, familyID, domain.RoleChild); err != nil {
		return nil, err
	}
	return s.findFamilyBudget(ctx, familyID, budgetID)
}

// ListBudgets retrieves all budgets of a family.
func (s *budgetService) ListBudgets(ctx context.Context, familyID, requestingUserID string) ([]domain.Budget, error) {
	if err := s.familySvc.AuthorizeUserAction(ctx, requestingUserID, familyID, domain.RoleChild); err != nil {
		return nil, err
	}

	budgets, err := s.budgetRepo.ListBudgetsByFamily(ctx, familyID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list budgets", slog.String("error", err.Error()), slog.String("family_id", familyID))
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	if budgets == nil {
		budgets = []domain.Budget{}
	}
	return budgets, nil
}

// UpdateBudget edits name and amount only. The spent aggregate belongs to
// reconciliation and is deliberately untouchable here.
func (s *budgetService) UpdateBudget(ctx context.Context, familyID, budgetID string, req dto.UpdateBudgetRequest, requestingUserID string) (*domain.Budget, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.familySvc.AuthorizeUserAction(ctx, requestingUserID, familyID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	budget, err := s.findFamilyBudget(ctx, familyID, budgetID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: budget name cannot be empty", apperrors.ErrValidation)
		}
		budget.Name = *req.Name
		updated = true
	}
	if req.Amount != nil {
		if req.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: budget amount must be positive", apperrors.ErrValidation)
		}
		budget.Amount = *req.Amount
		updated = true
	}

	if !updated {
		return budget, nil
	}

	budget.LastUpdatedAt = s.now().UTC()
	budget.LastUpdatedBy = requestingUserID

	if err := s.budgetRepo.UpdateBudget(ctx, *budget); err != nil {
		logger.Error("Failed to update budget", slog.String("error", err.Error()), slog.String("budget_id", budgetID))
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}

	logger.Info("Budget updated", slog.String("budget_id", budgetID))
	return budget, nil
}

// DeleteBudget removes the budget. Categories still pointing at it are left
// as-is and degrade to an unknown budget at display time.
func (s *budgetService) DeleteBudget(ctx context.Context, familyID, budgetID, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.familySvc.AuthorizeUserAction(ctx, requestingUserID, familyID, domain.RoleAdmin); err != nil {
		return err
	}

	if _, err := s.findFamilyBudget(ctx, familyID, budgetID); err != nil {
		return err
	}

	if err := s.budgetRepo.DeleteBudget(ctx, budgetID); err != nil {
		logger.Error("Failed to delete budget", slog.String("error", err.Error()), slog.String("budget_id", budgetID))
		return fmt.Errorf("failed to delete budget: %w", err)
	}

	logger.Info("Budget deleted", slog.String("budget_id", budgetID))
	return nil
}

// ResetBudgetsIfNewMonth walks the family's budgets and zeroes the spent
// aggregate of any whose lastResetMonth differs from the current tag.
// The per-budget transition is a single conditional write in the repository,
// so repeating the call within the same month is a no-op. A budget whose
// reset fails stays stale and is retried on the next admin load; one failure
// does not abort the pass.
func (s *budgetService) ResetBudgetsIfNewMonth(ctx context.Context, familyID, requestingUserID string) (dto.BudgetResetResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.familySvc.AuthorizeUserAction(ctx, requestingUserID, familyID, domain.RoleAdmin); err != nil {
		return dto.BudgetResetResponse{}, err
	}

	tag, err := s.currentMonthTag(ctx, familyID)
	if err != nil {
		return dto.BudgetResetResponse{}, err
	}

	budgets, err := s.budgetRepo.ListBudgetsByFamily(ctx, familyID)
	if err != nil {
		logger.Error("Failed to list budgets for monthly reset", slog.String("error", err.Error()), slog.String("family_id", familyID))
		return dto.BudgetResetResponse{}, fmt.Errorf("failed to list budgets for reset: %w", err)
	}

	resp := dto.BudgetResetResponse{MonthTag: tag, TotalCount: len(budgets)}
	now := s.now().UTC()
	for _, b := range budgets {
		if b.LastResetMonth == tag {
			continue
		}
		reset, err := s.budgetRepo.ResetSpentIfStale(ctx, b.BudgetID, tag, requestingUserID, now)
		if err != nil {
			logger.Warn("Monthly reset failed for budget; will retry on next load",
				slog.String("budget_id", b.BudgetID), slog.String("error", err.Error()))
			continue
		}
		if reset {
			resp.ResetCount++
		}
	}

	logger.Info("Monthly reset pass completed",
		slog.String("family_id", familyID),
		slog.String("month_tag", tag),
		slog.Int("reset_count", resp.ResetCount),
		slog.Int("total_count", resp.TotalCount))
	return resp, nil
}

// RecomputeSpent rebuilds a budget's spent aggregate from its qualifying
// debit transactions in the current accounting period. This is the
// consistency-check fallback for the incremental invariant, not a path any
// steady-state flow takes.
func (s *budgetService) RecomputeSpent(ctx context.Context, familyID, budgetID, requestingUserID string) (*domain.Budget, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.familySvc.AuthorizeUserAction(ctx, requestingUserID, familyID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	budget, err := s.findFamilyBudget(ctx, familyID, budgetID)
	if err != nil {
		return nil, err
	}

	family, err := s.familySvc.FindFamilyByID(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve family timezone: %w", err)
	}

	from, to, err := periodBounds(budget.LastResetMonth, family.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: budget %s has malformed lastResetMonth %q", apperrors.ErrValidation, budgetID, budget.LastResetMonth)
	}

	sum, err := s.txnRepo.SumDebitAmountByBudget(ctx, budgetID, from, to)
	if err != nil {
		logger.Error("Failed to sum debit transactions for recompute", slog.String("error", err.Error()), slog.String("budget_id", budgetID))
		return nil, fmt.Errorf("failed to recompute spent: %w", err)
	}

	now := s.now().UTC()
	if err := s.budgetRepo.OverwriteSpent(ctx, budgetID, sum, requestingUserID, now); err != nil {
		logger.Error("Failed to overwrite spent", slog.String("error", err.Error()), slog.String("budget_id", budgetID))
		return nil, fmt.Errorf("failed to overwrite spent: %w", err)
	}

	if !budget.Spent.Equal(sum) {
		logger.Warn("Recompute corrected a drifted spent aggregate",
			slog.String("budget_id", budgetID),
			slog.String("was", budget.Spent.String()),
			slog.String("now", sum.String()))
	}

	budget.Spent = sum
	budget.LastUpdatedAt = now
	budget.LastUpdatedBy = requestingUserID
	return budget, nil
}

// periodBounds returns the [start, end) instants of the accounting period
// named by a "YYYY-MM" tag, evaluated in the family's timezone.
func periodBounds(tag, timezone string) (time.Time, time.Time, error) {
	loc := time.UTC
	if timezone != "" {
		if l, err := time.LoadLocation(timezone); err == nil {
			loc = l
		}
	}
	start, err := time.ParseInLocation(monthtag.Format, tag, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 1, 0), nil
}
