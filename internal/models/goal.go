package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditFields holds standard audit columns shared by all tables.
type AuditFields struct {
	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}

// Goal is the database representation of a savings goal.
type Goal struct {
	GoalID       string          `db:"goal_id"`
	Name         string          `db:"name"`
	TargetAmount decimal.Decimal `db:"target_amount"`
	AmountSaved  decimal.Decimal `db:"current_amount"`
	Deadline     time.Time       `db:"deadline"`
	Description  string          `db:"description"`
	AuditFields
}
