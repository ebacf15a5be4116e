package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fintrackr/goal_ledger_app/internal/apperrors"
	"github.com/fintrackr/goal_ledger_app/internal/core/domain"
	portsrepo "github.com/fintrackr/goal_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/fintrackr/goal_ledger_app/internal/core/ports/services"
	"github.com/fintrackr/goal_ledger_app/internal/dto"
	"github.com/fintrackr/goal_ledger_app/internal/middleware"
	"github.com/shopspring/decimal"
)

// ledgerService is the only path through which a goal's balance changes.
// Every operation validates against a snapshot taken under the goal's
// write lock, persists the new balance atomically with its ledger entry,
// and only then updates the registry.
type ledgerService struct {
	registry   portssvc.Registry
	ledgerRepo portsrepo.LedgerRepositoryFacade
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, registry portssvc.Registry) portssvc.LedgerSvcFacade {
	return &ledgerService{
		registry:   registry,
		ledgerRepo: ledgerRepo,
	}
}

// Ensure ledgerService implements the portssvc.LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// newEntry builds a ledger entry whose Balance field is the goal's balance
// after the entry is applied.
func newEntry(goalID string, txnType domain.TransactionType, amount decimal.Decimal, description string, balance decimal.Decimal, now time.Time) domain.Transaction {
	return domain.Transaction{
		TransactionID:   uuid.NewString(),
		GoalID:          goalID,
		TransactionType: txnType,
		Amount:          amount,
		Description:     description,
		TransactionDate: now,
		Balance:         balance,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
}

// Deposit increases a goal's balance by a positive amount.
func (s *ledgerService) Deposit(ctx context.Context, goalID string, req dto.LedgerAmountRequest) (*domain.Goal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: deposit of %s", apperrors.ErrInvalidAmount, req.Amount)
	}

	unlock := s.registry.LockGoals(goalID)
	defer unlock()

	goal, err := s.registry.Get(ctx, goalID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	newBalance := goal.AmountSaved.Add(req.Amount)

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Added funds to %s", goal.Name)
	}

	entry := newEntry(goalID, domain.Deposit, req.Amount, description, newBalance, now)
	if err := s.ledgerRepo.ApplyEntry(ctx, entry); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: deposit to goal %s: %v", apperrors.ErrPersistenceFailed, goalID, err)
	}

	updated := *goal
	updated.AmountSaved = newBalance
	updated.LastUpdatedAt = now
	s.registry.Apply(goalID, updated)

	logger.Info("Deposit applied",
		slog.String("goal_id", goalID),
		slog.String("amount", req.Amount.String()),
		slog.String("balance", newBalance.String()),
	)
	return &updated, nil
}

// Withdraw decreases a goal's balance. The amount must not exceed the
// balance at the moment the withdrawal is applied; a rejected withdrawal
// leaves both the goal and its log untouched.
func (s *ledgerService) Withdraw(ctx context.Context, goalID string, req dto.LedgerAmountRequest) (*domain.Goal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: withdrawal of %s", apperrors.ErrInvalidAmount, req.Amount)
	}

	unlock := s.registry.LockGoals(goalID)
	defer unlock()

	goal, err := s.registry.Get(ctx, goalID)
	if err != nil {
		return nil, err
	}

	if req.Amount.GreaterThan(goal.AmountSaved) {
		return nil, fmt.Errorf("%w: withdrawal of %s exceeds balance %s of goal %s",
			apperrors.ErrInsufficientFunds, req.Amount, goal.AmountSaved, goalID)
	}

	now := time.Now().UTC()
	newBalance := goal.AmountSaved.Sub(req.Amount)

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Withdrew funds from %s", goal.Name)
	}

	entry := newEntry(goalID, domain.Withdrawal, req.Amount, description, newBalance, now)
	if err := s.ledgerRepo.ApplyEntry(ctx, entry); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: withdrawal from goal %s: %v", apperrors.ErrPersistenceFailed, goalID, err)
	}

	updated := *goal
	updated.AmountSaved = newBalance
	updated.LastUpdatedAt = now
	s.registry.Apply(goalID, updated)

	logger.Info("Withdrawal applied",
		slog.String("goal_id", goalID),
		slog.String("amount", req.Amount.String()),
		slog.String("balance", newBalance.String()),
	)
	return &updated, nil
}

// Transfer moves funds between two distinct goals: a withdrawal on the
// source immediately followed by a deposit on the destination, computed
// from one consistent snapshot taken while both goals are locked.
//
// The debit leg persists first; the credit leg only runs if it succeeded.
// If the credit fails, the source is re-credited with a compensating
// deposit entry so the log still replays to the balance. Whatever the
// compensation outcome, the caller gets ErrTransferPartiallyFailed with
// full reconciliation detail.
func (s *ledgerService) Transfer(ctx context.Context, req dto.TransferRequest) (*domain.Goal, *domain.Goal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.SourceGoalID == req.DestinationGoalID {
		return nil, nil, fmt.Errorf("%w: source and destination goals must differ", apperrors.ErrValidation)
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, fmt.Errorf("%w: transfer of %s", apperrors.ErrInvalidAmount, req.Amount)
	}

	unlock := s.registry.LockGoals(req.SourceGoalID, req.DestinationGoalID)
	defer unlock()

	// Single consistent snapshot of both goals; neither is re-read between
	// the two legs. A concurrently deleted destination surfaces here as
	// NotFound, before any state change.
	source, err := s.registry.Get(ctx, req.SourceGoalID)
	if err != nil {
		return nil, nil, err
	}
	destination, err := s.registry.Get(ctx, req.DestinationGoalID)
	if err != nil {
		return nil, nil, err
	}

	if req.Amount.GreaterThan(source.AmountSaved) {
		return nil, nil, fmt.Errorf("%w: transfer of %s exceeds balance %s of goal %s",
			apperrors.ErrInsufficientFunds, req.Amount, source.AmountSaved, source.GoalID)
	}

	now := time.Now().UTC()
	sourceBalance := source.AmountSaved.Sub(req.Amount)
	destinationBalance := destination.AmountSaved.Add(req.Amount)

	debitDesc := fmt.Sprintf("Transfer to %s", destination.Name)
	creditDesc := fmt.Sprintf("Transfer from %s", source.Name)
	if req.Description != "" {
		debitDesc = fmt.Sprintf("%s (transfer to %s)", req.Description, destination.Name)
		creditDesc = fmt.Sprintf("%s (transfer from %s)", req.Description, source.Name)
	}

	// Debit leg. A failure here aborts the whole operation with no change.
	debit := newEntry(source.GoalID, domain.Withdrawal, req.Amount, debitDesc, sourceBalance, now)
	if err := s.ledgerRepo.ApplyEntry(ctx, debit); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: transfer debit on goal %s: %v", apperrors.ErrPersistenceFailed, source.GoalID, err)
	}

	updatedSource := *source
	updatedSource.AmountSaved = sourceBalance
	updatedSource.LastUpdatedAt = now
	s.registry.Apply(source.GoalID, updatedSource)

	// Credit leg.
	credit := newEntry(destination.GoalID, domain.Deposit, req.Amount, creditDesc, destinationBalance, now)
	if creditErr := s.ledgerRepo.ApplyEntry(ctx, credit); creditErr != nil {
		return nil, nil, s.compensateTransfer(ctx, logger, req, *source, creditErr)
	}

	updatedDestination := *destination
	updatedDestination.AmountSaved = destinationBalance
	updatedDestination.LastUpdatedAt = now
	s.registry.Apply(destination.GoalID, updatedDestination)

	logger.Info("Transfer applied",
		slog.String("source_goal_id", source.GoalID),
		slog.String("destination_goal_id", destination.GoalID),
		slog.String("amount", req.Amount.String()),
	)
	return &updatedSource, &updatedDestination, nil
}

// compensateTransfer re-credits the source after a failed destination
// credit. The compensating deposit is a regular ledger entry, so the
// source log replays to its restored balance. If the re-credit itself
// fails, the inconsistency is logged with everything needed to reconcile
// manually and reported to the caller; it is never swallowed.
func (s *ledgerService) compensateTransfer(ctx context.Context, logger *slog.Logger, req dto.TransferRequest, source domain.Goal, creditErr error) error {
	now := time.Now().UTC()
	compDesc := fmt.Sprintf("Transfer reversal: re-credit after failed transfer to goal %s", req.DestinationGoalID)
	comp := newEntry(source.GoalID, domain.Deposit, req.Amount, compDesc, source.AmountSaved, now)

	failure := &apperrors.TransferPartialFailure{
		SourceGoalID:      req.SourceGoalID,
		DestinationGoalID: req.DestinationGoalID,
		Amount:            req.Amount,
		SourceBalance:     source.AmountSaved,
		Cause:             creditErr,
	}

	if compErr := s.ledgerRepo.ApplyEntry(ctx, comp); compErr != nil {
		failure.Compensated = false
		failure.CompensationErr = compErr
		logger.Error("Transfer compensation failed; manual reconciliation required",
			slog.String("source_goal_id", req.SourceGoalID),
			slog.String("destination_goal_id", req.DestinationGoalID),
			slog.String("amount", req.Amount.String()),
			slog.String("source_balance_before", source.AmountSaved.String()),
			slog.String("credit_error", creditErr.Error()),
			slog.String("compensation_error", compErr.Error()),
		)
		return failure
	}

	failure.Compensated = true
	restored := source
	restored.LastUpdatedAt = now
	s.registry.Apply(source.GoalID, restored)

	logger.Warn("Transfer credit failed; source re-credited",
		slog.String("source_goal_id", req.SourceGoalID),
		slog.String("destination_goal_id", req.DestinationGoalID),
		slog.String("amount", req.Amount.String()),
		slog.String("credit_error", creditErr.Error()),
	)
	return failure
}

// ListTransactions retrieves a page of a goal's ledger entries.
func (s *ledgerService) ListTransactions(ctx context.Context, goalID string, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error) {
	// Confirm the goal exists so an unknown ID is NotFound rather than an
	// empty page.
	if _, err := s.registry.Get(ctx, goalID); err != nil {
		return nil, nil, err
	}

	order := portsrepo.OrderDesc
	if params.Order == string(portsrepo.OrderAsc) {
		order = portsrepo.OrderAsc
	}

	return s.ledgerRepo.ListEntriesByGoalID(ctx, goalID, params.Limit, params.NextToken, order)
}
