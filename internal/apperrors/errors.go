package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidAmount indicates a zero, negative, or unparseable amount.
// Rejected before any state change.
var ErrInvalidAmount = errors.New("amount must be a positive value")

// ErrInsufficientFunds indicates a withdrawal or transfer asking for more
// than the source goal currently holds. Never partially applied.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrPersistenceFailed indicates the store rejected a balance change. The
// operation is aborted with no local or logged change; callers may retry
// the whole operation from scratch.
var ErrPersistenceFailed = errors.New("persistence failed")

// ErrTransferPartiallyFailed indicates the destination credit failed after
// the source debit succeeded. Compensation is attempted automatically; see
// TransferPartialFailure for the reconciliation detail.
var ErrTransferPartiallyFailed = errors.New("transfer partially failed")

// TransferPartialFailure carries everything an operator needs to reconcile
// a transfer whose credit leg failed after the debit leg was persisted.
type TransferPartialFailure struct {
	SourceGoalID      string
	DestinationGoalID string
	Amount            decimal.Decimal
	SourceBalance     decimal.Decimal // source balance before the transfer
	Compensated       bool            // whether the re-credit of the source succeeded
	Cause             error           // failure of the destination credit
	CompensationErr   error           // non-nil when the re-credit itself failed
}

func (e *TransferPartialFailure) Error() string {
	if e.Compensated {
		return fmt.Sprintf("transfer of %s from goal %s to goal %s failed on the destination credit; source re-credited: %v",
			e.Amount, e.SourceGoalID, e.DestinationGoalID, e.Cause)
	}
	return fmt.Sprintf("transfer of %s from goal %s to goal %s failed on the destination credit and compensation also failed (source left debited from %s): credit: %v, compensation: %v",
		e.Amount, e.SourceGoalID, e.DestinationGoalID, e.SourceBalance, e.Cause, e.CompensationErr)
}

// Is makes errors.Is(err, ErrTransferPartiallyFailed) match.
func (e *TransferPartialFailure) Is(target error) bool {
	return target == ErrTransferPartiallyFailed
}

func (e *TransferPartialFailure) Unwrap() error {
	return e.Cause
}

// AppError wraps a lower-level failure with an HTTP-ish status code and a
// message safe to surface to callers.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
