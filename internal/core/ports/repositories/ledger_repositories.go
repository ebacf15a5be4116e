package repositories

import (
	"context"

	"github.com/fintrackr/goal_ledger_app/internal/core/domain"
)

// SortOrder is the read-time direction for listing ledger entries.
type SortOrder string

const (
	OrderAsc  SortOrder = "ASC"
	OrderDesc SortOrder = "DESC"
)

// LedgerReader defines read operations for the append-only transaction log.
type LedgerReader interface {
	// ListEntriesByGoalID retrieves a keyset-paginated slice of a goal's
	// ledger entries ordered by transaction date. The returned token, when
	// non-nil, resumes the listing where this page ended.
	ListEntriesByGoalID(ctx context.Context, goalID string, limit int, nextToken *string, order SortOrder) ([]domain.Transaction, *string, error)
}

// LedgerWriter defines the single write operation on the log. Entries are
// immutable once appended and are never reordered; deletion happens only as
// a cascade of deleting the parent goal.
type LedgerWriter interface {
	// ApplyEntry persists the goal's new balance and appends the ledger
	// entry describing it as one atomic unit. Either both land or neither
	// does: no log entry exists without its confirmed balance change.
	ApplyEntry(ctx context.Context, entry domain.Transaction) error
}

// LedgerRepositoryFacade combines the ledger repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}

// LedgerRepositoryWithTx extends LedgerRepositoryFacade with transaction capabilities.
type LedgerRepositoryWithTx interface {
	LedgerRepositoryFacade
	TransactionManager
}
