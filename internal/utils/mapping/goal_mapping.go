package mapping

import (
	"github.com/fintrackr/goal_ledger_app/internal/core/domain"
	"github.com/fintrackr/goal_ledger_app/internal/models"
)

// ToModelAuditFields converts domain AuditFields to model AuditFields.
func ToModelAuditFields(d domain.AuditFields) models.AuditFields {
	return models.AuditFields{
		CreatedAt:     d.CreatedAt,
		LastUpdatedAt: d.LastUpdatedAt,
	}
}

// ToDomainAuditFields converts model AuditFields to domain AuditFields.
func ToDomainAuditFields(m models.AuditFields) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     m.CreatedAt,
		LastUpdatedAt: m.LastUpdatedAt,
	}
}

// ToModelGoal converts a domain Goal to a model Goal.
func ToModelGoal(d domain.Goal) models.Goal {
	return models.Goal{
		GoalID:       d.GoalID,
		Name:         d.Name,
		TargetAmount: d.TargetAmount,
		AmountSaved:  d.AmountSaved,
		Deadline:     d.Deadline,
		Description:  d.Description,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainGoal converts a model Goal to a domain Goal.
func ToDomainGoal(m models.Goal) domain.Goal {
	return domain.Goal{
		GoalID:       m.GoalID,
		Name:         m.Name,
		TargetAmount: m.TargetAmount,
		AmountSaved:  m.AmountSaved,
		Deadline:     m.Deadline,
		Description:  m.Description,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
