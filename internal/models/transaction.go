package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a ledger entry is a deposit or a withdrawal.
type TransactionType string

const (
	Deposit    TransactionType = "DEPOSIT"
	Withdrawal TransactionType = "WITHDRAWAL"
)

// Transaction is the database representation of a single ledger entry in a
// goal's append-only log.
type Transaction struct {
	TransactionID   string          `db:"transaction_id"`
	GoalID          string          `db:"goal_id"`
	TransactionType TransactionType `db:"transaction_type"`
	Amount          decimal.Decimal `db:"amount"`
	Description     string          `db:"description"`
	TransactionDate time.Time       `db:"transaction_date"`
	Balance         decimal.Decimal `db:"balance"`
	AuditFields
}
