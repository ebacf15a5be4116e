package services

import (
	portsrepo "github.com/fintrackr/goal_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/fintrackr/goal_ledger_app/internal/core/ports/services"
	"github.com/fintrackr/goal_ledger_app/internal/core/projector"
	"github.com/fintrackr/goal_ledger_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The registry is shared: the goal service fills and invalidates it,
	// the ledger service owns its write path.
	registry := NewGoalRegistry(repos.GoalRepo)

	container.Goal = NewGoalService(repos.GoalRepo, registry)
	container.Ledger = NewLedgerService(repos.LedgerRepo, registry)
	container.Reporting = NewReportingService(repos.GoalRepo, projector.Thresholds{
		WarningPct:  cfg.StatusWarningPct,
		CriticalPct: cfg.StatusCriticalPct,
	})

	return container
}
