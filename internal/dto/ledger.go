package dto

import (
	"github.com/shopspring/decimal"
)

// LedgerAmountRequest carries the amount for a deposit or withdrawal.
type LedgerAmountRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required,dgt0"`
	Description string          `json:"description"` // Optional, defaulted by the service
}

// TransferRequest moves funds between two distinct goals.
type TransferRequest struct {
	SourceGoalID      string          `json:"sourceGoalID" binding:"required"`
	DestinationGoalID string          `json:"destinationGoalID" binding:"required,nefield=SourceGoalID"`
	Amount            decimal.Decimal `json:"amount" binding:"required,dgt0"`
	Description       string          `json:"description"` // Optional
}

// TransferResponse returns both goals after a successful transfer.
type TransferResponse struct {
	Source      GoalResponse `json:"source"`
	Destination GoalResponse `json:"destination"`
}
