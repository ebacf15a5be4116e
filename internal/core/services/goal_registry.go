package services

import (
	"context"
	"sort"
	"sync"

	"github.com/fintrackr/goal_ledger_app/internal/core/domain"
	portsrepo "github.com/fintrackr/goal_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/fintrackr/goal_ledger_app/internal/core/ports/services"
)

// goalRegistry is the authoritative in-memory view of goal state, kept
// consistent with the store. Reads are concurrent; writes to the same goal
// are serialized through per-goal locks so two racing withdrawals cannot
// both pass the balance check on a stale snapshot. Operations on different
// goals proceed fully in parallel.
type goalRegistry struct {
	repo portsrepo.GoalReader

	mu    sync.RWMutex
	goals map[string]domain.Goal

	// locks maps goal ID -> *sync.Mutex; entries are created on first use
	// and live for the process lifetime.
	locks sync.Map
}

// NewGoalRegistry creates a registry backed by the given goal reader.
func NewGoalRegistry(repo portsrepo.GoalReader) portssvc.Registry {
	return &goalRegistry{
		repo:  repo,
		goals: make(map[string]domain.Goal),
	}
}

var _ portssvc.Registry = (*goalRegistry)(nil)

// Get returns the goal's current state. On a cache miss it loads through
// the repository and caches the result.
func (r *goalRegistry) Get(ctx context.Context, goalID string) (*domain.Goal, error) {
	r.mu.RLock()
	goal, ok := r.goals[goalID]
	r.mu.RUnlock()
	if ok {
		return &goal, nil
	}

	loaded, err := r.repo.FindGoalByID(ctx, goalID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	// Another reader may have filled the entry meanwhile; a confirmed
	// Apply always wins over a read-side fill.
	if cached, ok := r.goals[goalID]; ok {
		r.mu.Unlock()
		return &cached, nil
	}
	r.goals[goalID] = *loaded
	r.mu.Unlock()

	goal = *loaded
	return &goal, nil
}

// Apply records a goal's confirmed state. It is the only mutator and is
// called after the persistence round-trip succeeded, never before.
func (r *goalRegistry) Apply(goalID string, goal domain.Goal) {
	r.mu.Lock()
	r.goals[goalID] = goal
	r.mu.Unlock()
}

// Invalidate drops cached state for a deleted or stale goal. The next Get
// loads through the repository again.
func (r *goalRegistry) Invalidate(goalID string) {
	r.mu.Lock()
	delete(r.goals, goalID)
	r.mu.Unlock()
}

// LockGoals acquires the write locks for the given goals in sorted ID
// order, so two transfers touching the same pair can never deadlock. The
// returned function releases them in reverse order.
func (r *goalRegistry) LockGoals(goalIDs ...string) func() {
	ids := make([]string, 0, len(goalIDs))
	seen := make(map[string]struct{}, len(goalIDs))
	for _, id := range goalIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	locked := make([]*sync.Mutex, 0, len(ids))
	for _, id := range ids {
		v, _ := r.locks.LoadOrStore(id, &sync.Mutex{})
		mu := v.(*sync.Mutex)
		mu.Lock()
		locked = append(locked, mu)
	}

	return func() {
		for i := len(locked) - 1; i >= 0; i-- {
			locked[i].Unlock()
		}
	}
}
