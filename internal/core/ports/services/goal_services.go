package services

import (
	"context"

	"github.com/fintrackr/goal_ledger_app/internal/core/domain"
	"github.com/fintrackr/goal_ledger_app/internal/dto"
)

// GoalReaderSvc defines read operations for goal data.
type GoalReaderSvc interface {
	// GetGoalByID retrieves a specific goal by its ID.
	GetGoalByID(ctx context.Context, goalID string) (*domain.Goal, error)

	// ListGoals retrieves a paginated list of goals.
	ListGoals(ctx context.Context, limit int, offset int) ([]domain.Goal, error)
}

// GoalWriterSvc defines write operations for goal records. Balances are
// never changed here; that is the ledger service's job.
type GoalWriterSvc interface {
	// CreateGoal persists a new goal with a zero balance.
	CreateGoal(ctx context.Context, req dto.CreateGoalRequest) (*domain.Goal, error)

	// UpdateGoal updates a goal's details (name, target, deadline, description).
	UpdateGoal(ctx context.Context, goalID string, req dto.UpdateGoalRequest) (*domain.Goal, error)

	// DeleteGoal removes a goal, cascading its ledger entries and
	// invalidating any cached registry state for the ID.
	DeleteGoal(ctx context.Context, goalID string) error
}

// GoalSvcFacade combines all goal-related service interfaces.
type GoalSvcFacade interface {
	GoalReaderSvc
	GoalWriterSvc
}
