package dto

import (
	"time"

	"github.com/fintrackr/goal_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListTransactionsParams control pagination and ordering of a goal's
// ledger entries. Order is a read-time concern only.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
	Order     string  `form:"order,default=DESC" binding:"omitempty,oneof=ASC DESC"`
}

// TransactionResponse defines the data returned for a single ledger entry.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	GoalID        string          `json:"goalID"`
	Type          string          `json:"type"` // DEPOSIT or WITHDRAWAL
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Date          time.Time       `json:"date"`
	Balance       decimal.Decimal `json:"balance"`
}

// ListTransactionsResponse is a page of ledger entries plus the token to
// fetch the next page, when one exists.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to its DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		GoalID:        txn.GoalID,
		Type:          string(txn.TransactionType),
		Amount:        txn.Amount,
		Description:   txn.Description,
		Date:          txn.TransactionDate,
		Balance:       txn.Balance,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to DTOs.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = ToTransactionResponse(&txn)
	}
	return responses
}
