package pgsql

import (
	"context"
	"strconv"

	"github.com/fintrackr/goal_ledger_app/internal/apperrors"
	"github.com/fintrackr/goal_ledger_app/internal/core/domain"
	portsrepo "github.com/fintrackr/goal_ledger_app/internal/core/ports/repositories"
	"github.com/fintrackr/goal_ledger_app/internal/models"
	"github.com/fintrackr/goal_ledger_app/internal/utils/mapping"
	"github.com/fintrackr/goal_ledger_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxLedgerRepository struct {
	BaseRepository
	goalRepo portsrepo.GoalRepositoryFacade
}

// newPgxLedgerRepository creates a new repository for the append-only
// transaction log.
func newPgxLedgerRepository(pool *pgxpool.Pool, goalRepo portsrepo.GoalRepositoryFacade) portsrepo.LedgerRepositoryWithTx {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
		goalRepo:       goalRepo,
	}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryWithTx
var _ portsrepo.LedgerRepositoryWithTx = (*PgxLedgerRepository)(nil)

// ApplyEntry persists the goal's new balance and appends the ledger entry
// describing it within a single database transaction. The goal row is
// locked for the duration, so there can never be a log entry without its
// confirmed balance change, nor a balance the log cannot replay.
func (r *PgxLedgerRepository) ApplyEntry(ctx context.Context, entry domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Ignored once the transaction is committed.
	defer r.Rollback(ctx, tx)

	// Lock the goal row first; this also confirms the goal still exists.
	if _, err := r.goalRepo.FindGoalsByIDsForUpdate(ctx, tx, []string{entry.GoalID}); err != nil {
		return err
	}

	if err := r.goalRepo.UpdateGoalBalanceInTx(ctx, tx, entry.GoalID, entry.Balance, entry.LastUpdatedAt); err != nil {
		return err
	}

	m := mapping.ToModelTransaction(entry)
	query := `
		INSERT INTO goal_transactions (transaction_id, goal_id, transaction_type, amount, description, transaction_date, balance, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, query,
		m.TransactionID,
		m.GoalID,
		m.TransactionType,
		m.Amount,
		m.Description,
		m.TransactionDate,
		m.Balance,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to append ledger entry for goal "+m.GoalID, err)
	}

	return r.Commit(ctx, tx)
}

// ListEntriesByGoalID retrieves a keyset-paginated slice of a goal's ledger
// entries. Storage order is chronological; the requested direction is
// purely a read-time concern.
func (r *PgxLedgerRepository) ListEntriesByGoalID(ctx context.Context, goalID string, limit int, nextToken *string, order portsrepo.SortOrder) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to know whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT transaction_id, goal_id, transaction_type, amount, description, transaction_date, balance, created_at, last_updated_at
		FROM goal_transactions
		WHERE goal_id = $1
	`
	// (transaction_date, transaction_id) is a stable, unique sort key.
	comparator := "<"
	orderByClause := `ORDER BY transaction_date DESC, transaction_id DESC`
	if order == portsrepo.OrderAsc {
		comparator = ">"
		orderByClause = `ORDER BY transaction_date ASC, transaction_id ASC`
	}

	args := []interface{}{goalID}
	query := baseQuery

	if nextToken != nil && *nextToken != "" {
		lastDate, lastID, decodeErr := pagination.DecodeEntryToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND (transaction_date, transaction_id) ` + comparator + ` ($2, $3)`
		args = append(args, lastDate, lastID)
	}

	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query ledger entries for goal "+goalID, err)
	}
	defer rows.Close()

	entries := make([]models.Transaction, 0, fetchLimit)
	for rows.Next() {
		var m models.Transaction
		err := rows.Scan(
			&m.TransactionID,
			&m.GoalID,
			&m.TransactionType,
			&m.Amount,
			&m.Description,
			&m.TransactionDate,
			&m.Balance,
			&m.CreatedAt,
			&m.LastUpdatedAt,
		)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan ledger entry row for goal "+goalID, err)
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating ledger entry rows for goal "+goalID, err)
	}

	var nextTokenVal *string
	if len(entries) > limit {
		last := entries[limit-1] // last item actually included in this page
		token := pagination.EncodeEntryToken(last.TransactionDate, last.TransactionID)
		nextTokenVal = &token
		entries = entries[:limit]
	}

	result := make([]domain.Transaction, len(entries))
	for i, m := range entries {
		result[i] = mapping.ToDomainTransaction(m)
	}
	return result, nextTokenVal, nil
}
