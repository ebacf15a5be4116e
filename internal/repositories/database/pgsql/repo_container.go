package pgsql

import (
	portsrepo "github.com/fintrackr/goal_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the pgx-backed repositories together.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	goalRepo := newPgxGoalRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool, goalRepo)

	return portsrepo.RepositoryProvider{
		GoalRepo:   goalRepo,
		LedgerRepo: ledgerRepo,
	}
}
