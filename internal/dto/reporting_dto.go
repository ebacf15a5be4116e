package dto

import (
	"github.com/shopspring/decimal"
)

// GoalSummary is one row of the portfolio summary.
type GoalSummary struct {
	GoalResponse
	Remaining decimal.Decimal `json:"remaining"` // max(0, target - saved)
}

// PortfolioSummaryResponse aggregates every goal with portfolio totals.
type PortfolioSummaryResponse struct {
	Goals           []GoalSummary   `json:"goals"`
	TotalTarget     decimal.Decimal `json:"totalTarget"`
	TotalSaved      decimal.Decimal `json:"totalSaved"`
	OverallProgress int64           `json:"overallProgress"`
	GoalsReached    int             `json:"goalsReached"`
	GoalCount       int             `json:"goalCount"`
}
