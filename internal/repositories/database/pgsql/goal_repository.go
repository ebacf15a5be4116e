package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fintrackr/goal_ledger_app/internal/apperrors"
	"github.com/fintrackr/goal_ledger_app/internal/core/domain"
	portsrepo "github.com/fintrackr/goal_ledger_app/internal/core/ports/repositories"
	"github.com/fintrackr/goal_ledger_app/internal/models"
	"github.com/fintrackr/goal_ledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const goalColumns = `goal_id, name, target_amount, current_amount, deadline, description, created_at, last_updated_at`

type PgxGoalRepository struct {
	BaseRepository
}

// newPgxGoalRepository creates a new repository for goal data.
func newPgxGoalRepository(pool *pgxpool.Pool) portsrepo.GoalRepositoryWithTx {
	return &PgxGoalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxGoalRepository implements portsrepo.GoalRepositoryWithTx
var _ portsrepo.GoalRepositoryWithTx = (*PgxGoalRepository)(nil)

func scanGoal(row pgx.Row) (*models.Goal, error) {
	var m models.Goal
	err := row.Scan(
		&m.GoalID,
		&m.Name,
		&m.TargetAmount,
		&m.AmountSaved,
		&m.Deadline,
		&m.Description,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveGoal inserts a new goal.
func (r *PgxGoalRepository) SaveGoal(ctx context.Context, goal domain.Goal) error {
	m := mapping.ToModelGoal(goal)

	query := `
		INSERT INTO goals (goal_id, name, target_amount, current_amount, deadline, description, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.GoalID,
		m.Name,
		m.TargetAmount,
		m.AmountSaved,
		m.Deadline,
		m.Description,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: goal with ID %s already exists", apperrors.ErrDuplicate, m.GoalID)
		}
		return fmt.Errorf("failed to save goal %s: %w", m.GoalID, err)
	}
	return nil
}

// FindGoalByID retrieves a goal by its ID.
func (r *PgxGoalRepository) FindGoalByID(ctx context.Context, goalID string) (*domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE goal_id = $1;`

	m, err := scanGoal(r.Pool.QueryRow(ctx, query, goalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find goal by ID "+goalID, err)
	}

	goal := mapping.ToDomainGoal(*m)
	return &goal, nil
}

// FindGoalsByIDs retrieves multiple goals by their IDs.
func (r *PgxGoalRepository) FindGoalsByIDs(ctx context.Context, goalIDs []string) (map[string]domain.Goal, error) {
	if len(goalIDs) == 0 {
		return map[string]domain.Goal{}, nil
	}

	query := `SELECT ` + goalColumns + ` FROM goals WHERE goal_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, goalIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query goals by IDs", err)
	}
	defer rows.Close()

	goals := make(map[string]domain.Goal, len(goalIDs))
	for rows.Next() {
		m, err := scanGoal(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan goal row", err)
		}
		goals[m.GoalID] = mapping.ToDomainGoal(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating goal rows", err)
	}

	for _, id := range goalIDs {
		if _, ok := goals[id]; !ok {
			return nil, fmt.Errorf("%w: goal ID %s", apperrors.ErrNotFound, id)
		}
	}

	return goals, nil
}

// ListGoals retrieves a paginated list of goals ordered by creation time.
func (r *PgxGoalRepository) ListGoals(ctx context.Context, limit int, offset int) ([]domain.Goal, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + goalColumns + ` FROM goals ORDER BY created_at ASC, goal_id ASC LIMIT $1 OFFSET $2;`

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list goals", err)
	}
	defer rows.Close()

	goals := []domain.Goal{}
	for rows.Next() {
		m, err := scanGoal(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan goal row", err)
		}
		goals = append(goals, mapping.ToDomainGoal(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating goal rows", err)
	}

	return goals, nil
}

// UpdateGoalDetails updates a goal's name, target, deadline, and description.
// The balance column is deliberately untouched; it changes only through the
// ledger repository.
func (r *PgxGoalRepository) UpdateGoalDetails(ctx context.Context, goal domain.Goal) error {
	m := mapping.ToModelGoal(goal)

	query := `
		UPDATE goals
		SET name = $2, target_amount = $3, deadline = $4, description = $5, last_updated_at = $6
		WHERE goal_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.GoalID,
		m.Name,
		m.TargetAmount,
		m.Deadline,
		m.Description,
		m.LastUpdatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update goal "+m.GoalID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteGoal removes a goal. Its ledger entries cascade via the foreign key.
func (r *PgxGoalRepository) DeleteGoal(ctx context.Context, goalID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM goals WHERE goal_id = $1;`, goalID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete goal "+goalID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindGoalsByIDsForUpdate selects goals and locks their rows for update
// within a transaction. Rows are locked in sorted ID order by the caller's
// query plan; any missing ID yields ErrNotFound.
func (r *PgxGoalRepository) FindGoalsByIDsForUpdate(ctx context.Context, tx pgx.Tx, goalIDs []string) (map[string]domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE goal_id = ANY($1) ORDER BY goal_id FOR UPDATE;`

	rows, err := tx.Query(ctx, query, goalIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to lock goals for update", err)
	}
	defer rows.Close()

	goals := make(map[string]domain.Goal, len(goalIDs))
	for rows.Next() {
		m, err := scanGoal(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan locked goal row", err)
		}
		goals[m.GoalID] = mapping.ToDomainGoal(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating locked goal rows", err)
	}

	for _, id := range goalIDs {
		if _, ok := goals[id]; !ok {
			return nil, fmt.Errorf("%w: goal ID %s", apperrors.ErrNotFound, id)
		}
	}

	return goals, nil
}

// UpdateGoalBalanceInTx writes a goal's new balance within a transaction.
func (r *PgxGoalRepository) UpdateGoalBalanceInTx(ctx context.Context, tx pgx.Tx, goalID string, newBalance decimal.Decimal, now time.Time) error {
	query := `UPDATE goals SET current_amount = $2, last_updated_at = $3 WHERE goal_id = $1;`

	tag, err := tx.Exec(ctx, query, goalID, newBalance, now)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update balance for goal "+goalID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: goal ID %s", apperrors.ErrNotFound, goalID)
	}
	return nil
}
