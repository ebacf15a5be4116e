package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal represents a savings goal within the core domain.
// This is the primary representation used by services.
//
// AmountSaved is the goal's current balance. It is mutated exclusively by
// the ledger service after a confirmed persistence round-trip; it never
// goes below zero. Progress is derived from (AmountSaved, TargetAmount) at
// read time and is never stored.
type Goal struct {
	GoalID       string          `json:"goalID"`       // Primary Key (UUID)
	Name         string          `json:"name"`         // User-defined name, non-empty
	TargetAmount decimal.Decimal `json:"targetAmount"` // Positive savings objective
	AmountSaved  decimal.Decimal `json:"amountSaved"`  // Current balance, >= 0
	Deadline     time.Time       `json:"deadline"`     // Advisory target date
	Description  string          `json:"description"`  // Nullable user description
	AuditFields
}
