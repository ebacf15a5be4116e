package services

import (
	"context"

	"github.com/fintrackr/goal_ledger_app/internal/core/domain"
	"github.com/fintrackr/goal_ledger_app/internal/dto"
)

// LedgerWriterSvc defines the only path through which a goal's balance may
// change. All three operations serialize per goal, validate preconditions
// before any state change, and append a ledger entry atomically with the
// confirmed balance write.
type LedgerWriterSvc interface {
	// Deposit increases a goal's balance and returns the updated goal.
	Deposit(ctx context.Context, goalID string, req dto.LedgerAmountRequest) (*domain.Goal, error)

	// Withdraw decreases a goal's balance, bounded by the current balance.
	Withdraw(ctx context.Context, goalID string, req dto.LedgerAmountRequest) (*domain.Goal, error)

	// Transfer moves funds between two distinct goals as one atomic unit,
	// compensating the source if the destination credit fails. It returns
	// the updated source and destination goals.
	Transfer(ctx context.Context, req dto.TransferRequest) (*domain.Goal, *domain.Goal, error)
}

// LedgerReaderSvc defines read operations over the transaction log.
type LedgerReaderSvc interface {
	// ListTransactions retrieves a page of a goal's ledger entries plus a
	// token for the next page, when one exists.
	ListTransactions(ctx context.Context, goalID string, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error)
}

// LedgerSvcFacade combines the ledger service interfaces.
type LedgerSvcFacade interface {
	LedgerWriterSvc
	LedgerReaderSvc
}

// Registry is the authoritative in-memory view of goal state. It is read
// freely by projections and views; Apply is called exclusively by the
// ledger service after a confirmed persistence round-trip.
type Registry interface {
	// Get returns the goal's current state, loading through the backing
	// repository on a cache miss.
	Get(ctx context.Context, goalID string) (*domain.Goal, error)

	// Apply records a goal's confirmed state after persistence.
	Apply(goalID string, goal domain.Goal)

	// Invalidate drops any cached state for a deleted or stale goal.
	Invalidate(goalID string)

	// LockGoals serializes writers of the given goals. Locks are acquired
	// in sorted ID order; the returned function releases them.
	LockGoals(goalIDs ...string) (unlock func())
}
