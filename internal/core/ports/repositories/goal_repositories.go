package repositories

import (
	"context"
	"time"

	"github.com/fintrackr/goal_ledger_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// GoalReader defines read operations for goal data.
type GoalReader interface {
	// FindGoalByID retrieves a specific goal by its unique identifier.
	FindGoalByID(ctx context.Context, goalID string) (*domain.Goal, error)

	// FindGoalsByIDs retrieves multiple goals by their IDs.
	FindGoalsByIDs(ctx context.Context, goalIDs []string) (map[string]domain.Goal, error)

	// ListGoals retrieves a paginated list of goals.
	ListGoals(ctx context.Context, limit int, offset int) ([]domain.Goal, error)
}

// GoalWriter defines write operations for goal data. Balance changes are
// not part of this interface; they go through the ledger repository so the
// log append stays atomic with the balance write.
type GoalWriter interface {
	// SaveGoal persists a new goal.
	SaveGoal(ctx context.Context, goal domain.Goal) error

	// UpdateGoalDetails updates a goal's name, target, deadline, and
	// description. It never touches the balance.
	UpdateGoalDetails(ctx context.Context, goal domain.Goal) error

	// DeleteGoal removes a goal; its ledger entries cascade with it.
	DeleteGoal(ctx context.Context, goalID string) error
}

// GoalTransactionSupport defines operations used inside ledger database
// transactions.
type GoalTransactionSupport interface {
	// FindGoalsByIDsForUpdate selects goals and locks their rows for
	// update within a transaction.
	FindGoalsByIDsForUpdate(ctx context.Context, tx pgx.Tx, goalIDs []string) (map[string]domain.Goal, error)

	// UpdateGoalBalanceInTx writes a goal's new balance within a given
	// transaction.
	UpdateGoalBalanceInTx(ctx context.Context, tx pgx.Tx, goalID string, newBalance decimal.Decimal, now time.Time) error
}

// GoalRepositoryFacade combines all goal-related repository interfaces.
type GoalRepositoryFacade interface {
	GoalReader
	GoalWriter
	GoalTransactionSupport
}

// GoalRepositoryWithTx extends GoalRepositoryFacade with transaction capabilities.
type GoalRepositoryWithTx interface {
	GoalRepositoryFacade
	TransactionManager
}
