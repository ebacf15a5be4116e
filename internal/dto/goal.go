package dto

import (
	"time"

	"github.com/fintrackr/goal_ledger_app/internal/core/domain"
	"github.com/fintrackr/goal_ledger_app/internal/core/projector"
	"github.com/shopspring/decimal"
)

// CreateGoalRequest defines the data needed to create a new goal.
// New goals always start with a zero balance.
type CreateGoalRequest struct {
	Name         string          `json:"name" binding:"required"`
	TargetAmount decimal.Decimal `json:"targetAmount" binding:"required,dgt0"`
	Deadline     time.Time       `json:"deadline" binding:"required"`
	Description  string          `json:"description"` // Optional
}

// UpdateGoalRequest defines the data allowed for updating a goal.
// Use pointers to distinguish between zero-value updates and fields not provided.
// The balance is deliberately absent: it changes only through ledger operations.
type UpdateGoalRequest struct {
	Name         *string          `json:"name"`
	TargetAmount *decimal.Decimal `json:"targetAmount" binding:"omitempty,dgt0"`
	Deadline     *time.Time       `json:"deadline"`
	Description  *string          `json:"description"`
}

// GoalResponse defines the data returned for a goal. Progress and status
// are recomputed from (amountSaved, targetAmount) on every conversion so
// they can never drift from the balance they describe.
type GoalResponse struct {
	GoalID        string           `json:"goalID"`
	Name          string           `json:"name"`
	TargetAmount  decimal.Decimal  `json:"targetAmount"`
	AmountSaved   decimal.Decimal  `json:"amountSaved"`
	Progress      int64            `json:"progress"`
	Status        projector.Status `json:"status"`
	Deadline      time.Time        `json:"deadline"`
	Description   string           `json:"description"`
	CreatedAt     time.Time        `json:"createdAt"`
	LastUpdatedAt time.Time        `json:"lastUpdatedAt"`
}

// ToGoalResponse converts a domain.Goal to a GoalResponse DTO.
func ToGoalResponse(g *domain.Goal, thresholds projector.Thresholds) GoalResponse {
	return GoalResponse{
		GoalID:        g.GoalID,
		Name:          g.Name,
		TargetAmount:  g.TargetAmount,
		AmountSaved:   g.AmountSaved,
		Progress:      projector.Progress(g.AmountSaved, g.TargetAmount),
		Status:        projector.Classify(g.AmountSaved, g.TargetAmount, thresholds),
		Deadline:      g.Deadline,
		Description:   g.Description,
		CreatedAt:     g.CreatedAt,
		LastUpdatedAt: g.LastUpdatedAt,
	}
}

// ToListGoalResponse converts a slice of domain.Goal to GoalResponse DTOs.
func ToListGoalResponse(goals []domain.Goal, thresholds projector.Thresholds) []GoalResponse {
	res := make([]GoalResponse, len(goals))
	for i, g := range goals {
		res[i] = ToGoalResponse(&g, thresholds)
	}
	return res
}
