package services

import (
	"context"

	portsrepo "github.com/fintrackr/goal_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/fintrackr/goal_ledger_app/internal/core/ports/services"
	"github.com/fintrackr/goal_ledger_app/internal/core/projector"
	"github.com/fintrackr/goal_ledger_app/internal/dto"
	"github.com/shopspring/decimal"
)

// reportBatchSize is the page size used when walking the full goal set.
const reportBatchSize = 100

type reportingService struct {
	goalRepo   portsrepo.GoalReader
	thresholds projector.Thresholds
}

// NewReportingService creates a new reporting service.
func NewReportingService(goalRepo portsrepo.GoalReader, thresholds projector.Thresholds) portssvc.ReportingSvcFacade {
	return &reportingService{
		goalRepo:   goalRepo,
		thresholds: thresholds,
	}
}

// Ensure reportingService implements the portssvc.ReportingSvcFacade interface
var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// GetPortfolioSummary walks every goal and derives per-goal progress and
// status plus portfolio totals. All derived figures are computed from the
// balances read here, never stored.
func (s *reportingService) GetPortfolioSummary(ctx context.Context) (*dto.PortfolioSummaryResponse, error) {
	summary := &dto.PortfolioSummaryResponse{
		Goals:       []dto.GoalSummary{},
		TotalTarget: decimal.Zero,
		TotalSaved:  decimal.Zero,
	}

	for offset := 0; ; offset += reportBatchSize {
		goals, err := s.goalRepo.ListGoals(ctx, reportBatchSize, offset)
		if err != nil {
			return nil, err
		}

		for i := range goals {
			g := &goals[i]
			remaining := g.TargetAmount.Sub(g.AmountSaved)
			if remaining.IsNegative() {
				remaining = decimal.Zero
			}
			summary.Goals = append(summary.Goals, dto.GoalSummary{
				GoalResponse: dto.ToGoalResponse(g, s.thresholds),
				Remaining:    remaining,
			})
			summary.TotalTarget = summary.TotalTarget.Add(g.TargetAmount)
			summary.TotalSaved = summary.TotalSaved.Add(g.AmountSaved)
			if g.AmountSaved.GreaterThanOrEqual(g.TargetAmount) {
				summary.GoalsReached++
			}
		}

		if len(goals) < reportBatchSize {
			break
		}
	}

	summary.GoalCount = len(summary.Goals)
	summary.OverallProgress = projector.Progress(summary.TotalSaved, summary.TotalTarget)
	return summary, nil
}
