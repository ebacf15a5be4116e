package services

import (
	"context"

	"github.com/fintrackr/goal_ledger_app/internal/dto"
)

// ReportingSvcFacade provides read-only aggregated views over goals.
type ReportingSvcFacade interface {
	// GetPortfolioSummary returns per-goal progress and status plus
	// portfolio-wide totals.
	GetPortfolioSummary(ctx context.Context) (*dto.PortfolioSummaryResponse, error)
}
