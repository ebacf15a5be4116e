package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fintrackr/goal_ledger_app/internal/apperrors"
	"github.com/fintrackr/goal_ledger_app/internal/core/domain"
	portsrepo "github.com/fintrackr/goal_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/fintrackr/goal_ledger_app/internal/core/ports/services"
	"github.com/fintrackr/goal_ledger_app/internal/dto"
	"github.com/fintrackr/goal_ledger_app/internal/middleware"
	"github.com/shopspring/decimal"
)

// goalService manages goal records. It owns every field except the
// balance, which only the ledger service may change.
type goalService struct {
	goalRepo portsrepo.GoalRepositoryFacade
	registry portssvc.Registry
}

// NewGoalService creates a new goal service.
func NewGoalService(goalRepo portsrepo.GoalRepositoryFacade, registry portssvc.Registry) portssvc.GoalSvcFacade {
	return &goalService{
		goalRepo: goalRepo,
		registry: registry,
	}
}

// Ensure goalService implements the portssvc.GoalSvcFacade interface
var _ portssvc.GoalSvcFacade = (*goalService)(nil)

// CreateGoal persists a new goal with a zero balance.
func (s *goalService) CreateGoal(ctx context.Context, req dto.CreateGoalRequest) (*domain.Goal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: target amount must be positive", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	goal := domain.Goal{
		GoalID:       uuid.NewString(),
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		AmountSaved:  decimal.Zero,
		Deadline:     req.Deadline,
		Description:  req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.goalRepo.SaveGoal(ctx, goal); err != nil {
		return nil, err
	}
	s.registry.Apply(goal.GoalID, goal)

	logger.Info("Goal created",
		slog.String("goal_id", goal.GoalID),
		slog.String("name", goal.Name),
		slog.String("target_amount", goal.TargetAmount.String()),
	)
	return &goal, nil
}

// GetGoalByID retrieves a specific goal by its ID.
func (s *goalService) GetGoalByID(ctx context.Context, goalID string) (*domain.Goal, error) {
	return s.registry.Get(ctx, goalID)
}

// ListGoals retrieves a paginated list of goals.
func (s *goalService) ListGoals(ctx context.Context, limit int, offset int) ([]domain.Goal, error) {
	return s.goalRepo.ListGoals(ctx, limit, offset)
}

// UpdateGoal updates a goal's details. The write happens under the goal's
// ledger lock so a concurrent deposit cannot interleave with the registry
// refresh and leave a stale balance cached.
func (s *goalService) UpdateGoal(ctx context.Context, goalID string, req dto.UpdateGoalRequest) (*domain.Goal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	unlock := s.registry.LockGoals(goalID)
	defer unlock()

	goal, err := s.registry.Get(ctx, goalID)
	if err != nil {
		return nil, err
	}

	updated := *goal
	if req.Name != nil {
		updated.Name = *req.Name
	}
	if req.TargetAmount != nil {
		if req.TargetAmount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: target amount must be positive", apperrors.ErrValidation)
		}
		updated.TargetAmount = *req.TargetAmount
	}
	if req.Deadline != nil {
		updated.Deadline = *req.Deadline
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	updated.LastUpdatedAt = time.Now().UTC()

	if err := s.goalRepo.UpdateGoalDetails(ctx, updated); err != nil {
		return nil, err
	}
	s.registry.Apply(goalID, updated)

	logger.Info("Goal updated", slog.String("goal_id", goalID))
	return &updated, nil
}

// DeleteGoal removes a goal and its ledger entries.
func (s *goalService) DeleteGoal(ctx context.Context, goalID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	unlock := s.registry.LockGoals(goalID)
	defer unlock()

	if err := s.goalRepo.DeleteGoal(ctx, goalID); err != nil {
		return err
	}
	s.registry.Invalidate(goalID)

	logger.Info("Goal deleted", slog.String("goal_id", goalID))
	return nil
}
