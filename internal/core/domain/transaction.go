package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a ledger entry is a deposit or a withdrawal.
// Direction is carried by the type, never by the sign of the amount.
type TransactionType string

const (
	Deposit    TransactionType = "DEPOSIT"
	Withdrawal TransactionType = "WITHDRAWAL"
)

// Transaction is an immutable ledger entry recording a single
// balance-changing event against one goal.
//
// Balance is the goal's AmountSaved immediately after this entry was
// applied: a running-balance snapshot, not a delta. Replaying a goal's
// entries in chronological order reproduces its current balance exactly.
type Transaction struct {
	TransactionID   string          `json:"transactionID"` // Primary Key (UUID)
	GoalID          string          `json:"goalID"`        // FK -> Goal.goalID (Not Null)
	TransactionType TransactionType `json:"type"`          // DEPOSIT or WITHDRAWAL (Not Null)
	Amount          decimal.Decimal `json:"amount"`        // Positive value; precise decimal type
	Description     string          `json:"description"`   // Human-readable note, may be system-generated
	TransactionDate time.Time       `json:"date"`          // When the entry was appended
	Balance         decimal.Decimal `json:"balance"`       // Running balance after this entry
	AuditFields
}

// Transfers are represented as a WITHDRAWAL on the source goal and a
// DEPOSIT on the destination goal, each cross-referencing the other goal
// in its description.
