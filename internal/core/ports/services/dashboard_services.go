package services

import (
	"context"
	"time"

	"github.com/famshare/family_budget_app/internal/dto"
)

// DashboardSvcFacade is the read-only aggregation view: overall balance,
// per-budget progress and per-category totals for a date range. It is purely
// a consumer of the other components' state and holds none of its own.
type DashboardSvcFacade interface {
	GetSummary(ctx context.Context, familyID string, from, to time.Time, requestingUserID string) (*dto.DashboardSummaryResponse, error)
}
