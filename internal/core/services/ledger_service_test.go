package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fintrackr/goal_ledger_app/internal/apperrors"
	"github.com/fintrackr/goal_ledger_app/internal/core/domain"
	portsrepo "github.com/fintrackr/goal_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/fintrackr/goal_ledger_app/internal/core/ports/services"
	"github.com/fintrackr/goal_ledger_app/internal/core/services"
	"github.com/fintrackr/goal_ledger_app/internal/dto"
	"github.com/jackc/pgx/v5"
)

// --- Mock GoalRepository ---
type MockGoalRepository struct {
	mock.Mock
}

// Ensure MockGoalRepository implements portsrepo.GoalRepositoryFacade
var _ portsrepo.GoalRepositoryFacade = (*MockGoalRepository)(nil)

func (m *MockGoalRepository) FindGoalByID(ctx context.Context, goalID string) (*domain.Goal, error) {
	args := m.Called(ctx, goalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Goal), args.Error(1)
}

func (m *MockGoalRepository) FindGoalsByIDs(ctx context.Context, goalIDs []string) (map[string]domain.Goal, error) {
	args := m.Called(ctx, goalIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Goal), args.Error(1)
}

func (m *MockGoalRepository) ListGoals(ctx context.Context, limit int, offset int) ([]domain.Goal, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Goal), args.Error(1)
}

func (m *MockGoalRepository) SaveGoal(ctx context.Context, goal domain.Goal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *MockGoalRepository) UpdateGoalDetails(ctx context.Context, goal domain.Goal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *MockGoalRepository) DeleteGoal(ctx context.Context, goalID string) error {
	args := m.Called(ctx, goalID)
	return args.Error(0)
}

func (m *MockGoalRepository) FindGoalsByIDsForUpdate(ctx context.Context, tx pgx.Tx, goalIDs []string) (map[string]domain.Goal, error) {
	args := m.Called(ctx, tx, goalIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Goal), args.Error(1)
}

func (m *MockGoalRepository) UpdateGoalBalanceInTx(ctx context.Context, tx pgx.Tx, goalID string, newBalance decimal.Decimal, now time.Time) error {
	args := m.Called(ctx, tx, goalID, newBalance, now)
	return args.Error(0)
}

// --- Mock LedgerRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

// Ensure MockLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) ApplyEntry(ctx context.Context, entry domain.Transaction) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) ListEntriesByGoalID(ctx context.Context, goalID string, limit int, nextToken *string, order portsrepo.SortOrder) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, goalID, limit, nextToken, order)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Transaction), returnedNextToken, args.Error(2)
}

// --- Test Suite Setup ---
type LedgerServiceTestSuite struct {
	suite.Suite
	mockGoalRepo   *MockGoalRepository
	mockLedgerRepo *MockLedgerRepository
	registry       portssvc.Registry
	service        portssvc.LedgerSvcFacade
	vacationGoal   domain.Goal
	carGoal        domain.Goal
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockGoalRepo = new(MockGoalRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.registry = services.NewGoalRegistry(suite.mockGoalRepo)
	suite.service = services.NewLedgerService(suite.mockLedgerRepo, suite.registry)

	now := time.Now().UTC()
	suite.vacationGoal = domain.Goal{
		GoalID:       uuid.NewString(),
		Name:         "Vacation",
		TargetAmount: decimal.NewFromInt(1000),
		AmountSaved:  decimal.NewFromInt(200),
		Deadline:     now.AddDate(1, 0, 0),
		AuditFields:  domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	suite.carGoal = domain.Goal{
		GoalID:       uuid.NewString(),
		Name:         "New Car",
		TargetAmount: decimal.NewFromInt(5000),
		AmountSaved:  decimal.NewFromInt(1500),
		Deadline:     now.AddDate(2, 0, 0),
		AuditFields:  domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}

	// Seed the registry so lookups hit the cache rather than the repo.
	suite.registry.Apply(suite.vacationGoal.GoalID, suite.vacationGoal)
	suite.registry.Apply(suite.carGoal.GoalID, suite.carGoal)
}

func (suite *LedgerServiceTestSuite) entryFor(goalID string, txnType domain.TransactionType) func(domain.Transaction) bool {
	return func(e domain.Transaction) bool {
		return e.GoalID == goalID && e.TransactionType == txnType
	}
}

// --- Deposit ---

func (suite *LedgerServiceTestSuite) TestDeposit_Success() {
	ctx := context.Background()
	goalID := suite.vacationGoal.GoalID

	var applied domain.Transaction
	suite.mockLedgerRepo.On("ApplyEntry", ctx, mock.MatchedBy(suite.entryFor(goalID, domain.Deposit))).
		Run(func(args mock.Arguments) { applied = args.Get(1).(domain.Transaction) }).
		Return(nil).Once()

	updated, err := suite.service.Deposit(ctx, goalID, dto.LedgerAmountRequest{Amount: decimal.NewFromInt(300)})

	suite.Require().NoError(err)
	suite.Require().NotNil(updated)
	suite.True(updated.AmountSaved.Equal(decimal.NewFromInt(500)))

	suite.NotEmpty(applied.TransactionID)
	suite.True(applied.Amount.Equal(decimal.NewFromInt(300)))
	suite.True(applied.Balance.Equal(decimal.NewFromInt(500)))
	suite.Equal("Added funds to Vacation", applied.Description)

	// The registry holds the confirmed balance.
	cached, err := suite.registry.Get(ctx, goalID)
	suite.Require().NoError(err)
	suite.True(cached.AmountSaved.Equal(decimal.NewFromInt(500)))

	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestDeposit_CustomDescription() {
	ctx := context.Background()
	goalID := suite.vacationGoal.GoalID

	var applied domain.Transaction
	suite.mockLedgerRepo.On("ApplyEntry", ctx, mock.MatchedBy(suite.entryFor(goalID, domain.Deposit))).
		Run(func(args mock.Arguments) { applied = args.Get(1).(domain.Transaction) }).
		Return(nil).Once()

	_, err := suite.service.Deposit(ctx, goalID, dto.LedgerAmountRequest{
		Amount:      decimal.NewFromInt(50),
		Description: "Birthday money",
	})

	suite.Require().NoError(err)
	suite.Equal("Birthday money", applied.Description)
}

func (suite *LedgerServiceTestSuite) TestDeposit_NonPositiveAmount() {
	ctx := context.Background()

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-10)} {
		_, err := suite.service.Deposit(ctx, suite.vacationGoal.GoalID, dto.LedgerAmountRequest{Amount: amount})
		suite.Require().Error(err)
		suite.ErrorIs(err, apperrors.ErrInvalidAmount)
	}

	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "ApplyEntry", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestDeposit_GoalNotFound() {
	ctx := context.Background()
	unknownID := uuid.NewString()

	suite.mockGoalRepo.On("FindGoalByID", ctx, unknownID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Deposit(ctx, unknownID, dto.LedgerAmountRequest{Amount: decimal.NewFromInt(10)})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "ApplyEntry", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestDeposit_PersistenceFailure() {
	ctx := context.Background()
	goalID := suite.vacationGoal.GoalID

	suite.mockLedgerRepo.On("ApplyEntry", ctx, mock.AnythingOfType("domain.Transaction")).
		Return(assert.AnError).Once()

	_, err := suite.service.Deposit(ctx, goalID, dto.LedgerAmountRequest{Amount: decimal.NewFromInt(10)})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPersistenceFailed)

	// The rejected deposit must not leak into the registry.
	cached, getErr := suite.registry.Get(ctx, goalID)
	suite.Require().NoError(getErr)
	suite.True(cached.AmountSaved.Equal(decimal.NewFromInt(200)))
}

// --- Withdraw ---

func (suite *LedgerServiceTestSuite) TestWithdraw_Success() {
	ctx := context.Background()
	goalID := suite.vacationGoal.GoalID

	var applied domain.Transaction
	suite.mockLedgerRepo.On("ApplyEntry", ctx, mock.MatchedBy(suite.entryFor(goalID, domain.Withdrawal))).
		Run(func(args mock.Arguments) { applied = args.Get(1).(domain.Transaction) }).
		Return(nil).Once()

	updated, err := suite.service.Withdraw(ctx, goalID, dto.LedgerAmountRequest{Amount: decimal.NewFromInt(150)})

	suite.Require().NoError(err)
	suite.True(updated.AmountSaved.Equal(decimal.NewFromInt(50)))
	suite.True(applied.Balance.Equal(decimal.NewFromInt(50)))
	suite.Equal("Withdrew funds from Vacation", applied.Description)
}

func (suite *LedgerServiceTestSuite) TestWithdraw_FullBalance() {
	ctx := context.Background()
	goalID := suite.vacationGoal.GoalID

	suite.mockLedgerRepo.On("ApplyEntry", ctx, mock.MatchedBy(suite.entryFor(goalID, domain.Withdrawal))).
		Return(nil).Once()

	updated, err := suite.service.Withdraw(ctx, goalID, dto.LedgerAmountRequest{Amount: decimal.NewFromInt(200)})

	suite.Require().NoError(err)
	suite.True(updated.AmountSaved.IsZero())
}

func (suite *LedgerServiceTestSuite) TestWithdraw_InsufficientFunds() {
	ctx := context.Background()
	goalID := suite.vacationGoal.GoalID

	_, err := suite.service.Withdraw(ctx, goalID, dto.LedgerAmountRequest{Amount: decimal.NewFromInt(201)})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "ApplyEntry", mock.Anything, mock.Anything)

	// The balance is untouched by the rejected withdrawal.
	cached, getErr := suite.registry.Get(ctx, goalID)
	suite.Require().NoError(getErr)
	suite.True(cached.AmountSaved.Equal(decimal.NewFromInt(200)))
}

func (suite *LedgerServiceTestSuite) TestWithdraw_NonPositiveAmount() {
	ctx := context.Background()

	_, err := suite.service.Withdraw(ctx, suite.vacationGoal.GoalID, dto.LedgerAmountRequest{Amount: decimal.NewFromInt(-5)})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
}

// --- Transfer ---

func (suite *LedgerServiceTestSuite) TestTransfer_Success() {
	ctx := context.Background()
	srcID := suite.carGoal.GoalID
	dstID := suite.vacationGoal.GoalID

	var debit, credit domain.Transaction
	suite.mockLedgerRepo.On("ApplyEntry", ctx, mock.MatchedBy(suite.entryFor(srcID, domain.Withdrawal))).
		Run(func(args mock.Arguments) { debit = args.Get(1).(domain.Transaction) }).
		Return(nil).Once()
	suite.mockLedgerRepo.On("ApplyEntry", ctx, mock.MatchedBy(suite.entryFor(dstID, domain.Deposit))).
		Run(func(args mock.Arguments) { credit = args.Get(1).(domain.Transaction) }).
		Return(nil).Once()

	source, destination, err := suite.service.Transfer(ctx, dto.TransferRequest{
		SourceGoalID:      srcID,
		DestinationGoalID: dstID,
		Amount:            decimal.NewFromInt(500),
	})

	suite.Require().NoError(err)
	suite.True(source.AmountSaved.Equal(decimal.NewFromInt(1000)))
	suite.True(destination.AmountSaved.Equal(decimal.NewFromInt(700)))

	// Funds are conserved: total before equals total after.
	suite.True(source.AmountSaved.Add(destination.AmountSaved).
		Equal(suite.carGoal.AmountSaved.Add(suite.vacationGoal.AmountSaved)))

	suite.Equal("Transfer to Vacation", debit.Description)
	suite.Equal("Transfer from New Car", credit.Description)
	suite.True(debit.Balance.Equal(decimal.NewFromInt(1000)))
	suite.True(credit.Balance.Equal(decimal.NewFromInt(700)))

	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestTransfer_SameGoal() {
	ctx := context.Background()
	goalID := suite.carGoal.GoalID

	_, _, err := suite.service.Transfer(ctx, dto.TransferRequest{
		SourceGoalID:      goalID,
		DestinationGoalID: goalID,
		Amount:            decimal.NewFromInt(10),
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "ApplyEntry", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestTransfer_InsufficientFunds() {
	ctx := context.Background()

	_, _, err := suite.service.Transfer(ctx, dto.TransferRequest{
		SourceGoalID:      suite.carGoal.GoalID,
		DestinationGoalID: suite.vacationGoal.GoalID,
		Amount:            decimal.NewFromInt(1501),
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "ApplyEntry", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestTransfer_DestinationNotFound() {
	ctx := context.Background()
	unknownID := uuid.NewString()

	suite.mockGoalRepo.On("FindGoalByID", ctx, unknownID).Return(nil, apperrors.ErrNotFound).Once()

	_, _, err := suite.service.Transfer(ctx, dto.TransferRequest{
		SourceGoalID:      suite.carGoal.GoalID,
		DestinationGoalID: unknownID,
		Amount:            decimal.NewFromInt(10),
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "ApplyEntry", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestTransfer_CreditFails_SourceCompensated() {
	ctx := context.Background()
	srcID := suite.carGoal.GoalID
	dstID := suite.vacationGoal.GoalID

	debitSeen := false
	var compensation domain.Transaction
	suite.mockLedgerRepo.On("ApplyEntry", ctx, mock.MatchedBy(func(e domain.Transaction) bool {
		return e.GoalID == srcID && e.TransactionType == domain.Withdrawal
	})).Run(func(args mock.Arguments) { debitSeen = true }).Return(nil).Once()
	suite.mockLedgerRepo.On("ApplyEntry", ctx, mock.MatchedBy(suite.entryFor(dstID, domain.Deposit))).
		Return(assert.AnError).Once()
	suite.mockLedgerRepo.On("ApplyEntry", ctx, mock.MatchedBy(suite.entryFor(srcID, domain.Deposit))).
		Run(func(args mock.Arguments) { compensation = args.Get(1).(domain.Transaction) }).
		Return(nil).Once()

	_, _, err := suite.service.Transfer(ctx, dto.TransferRequest{
		SourceGoalID:      srcID,
		DestinationGoalID: dstID,
		Amount:            decimal.NewFromInt(500),
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrTransferPartiallyFailed)

	var partial *apperrors.TransferPartialFailure
	suite.Require().ErrorAs(err, &partial)
	suite.True(partial.Compensated)
	suite.Equal(srcID, partial.SourceGoalID)
	suite.Equal(dstID, partial.DestinationGoalID)

	suite.True(debitSeen)
	// The compensating deposit restores the pre-transfer balance.
	suite.True(compensation.Amount.Equal(decimal.NewFromInt(500)))
	suite.True(compensation.Balance.Equal(decimal.NewFromInt(1500)))

	// Registry reflects the restored source balance.
	cached, getErr := suite.registry.Get(ctx, srcID)
	suite.Require().NoError(getErr)
	suite.True(cached.AmountSaved.Equal(decimal.NewFromInt(1500)))

	// The destination never moved.
	dst, getErr := suite.registry.Get(ctx, dstID)
	suite.Require().NoError(getErr)
	suite.True(dst.AmountSaved.Equal(decimal.NewFromInt(200)))

	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestTransfer_CreditFails_CompensationFails() {
	ctx := context.Background()
	srcID := suite.carGoal.GoalID
	dstID := suite.vacationGoal.GoalID

	suite.mockLedgerRepo.On("ApplyEntry", ctx, mock.MatchedBy(suite.entryFor(srcID, domain.Withdrawal))).
		Return(nil).Once()
	suite.mockLedgerRepo.On("ApplyEntry", ctx, mock.MatchedBy(suite.entryFor(dstID, domain.Deposit))).
		Return(assert.AnError).Once()
	suite.mockLedgerRepo.On("ApplyEntry", ctx, mock.MatchedBy(suite.entryFor(srcID, domain.Deposit))).
		Return(assert.AnError).Once()

	_, _, err := suite.service.Transfer(ctx, dto.TransferRequest{
		SourceGoalID:      srcID,
		DestinationGoalID: dstID,
		Amount:            decimal.NewFromInt(500),
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrTransferPartiallyFailed)

	var partial *apperrors.TransferPartialFailure
	suite.Require().ErrorAs(err, &partial)
	suite.False(partial.Compensated)
	suite.NotNil(partial.CompensationErr)

	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

// --- ListTransactions ---

func (suite *LedgerServiceTestSuite) TestListTransactions_Success() {
	ctx := context.Background()
	goalID := suite.vacationGoal.GoalID

	entries := []domain.Transaction{
		{TransactionID: uuid.NewString(), GoalID: goalID, TransactionType: domain.Deposit, Amount: decimal.NewFromInt(200), Balance: decimal.NewFromInt(200)},
	}
	suite.mockLedgerRepo.On("ListEntriesByGoalID", ctx, goalID, 20, (*string)(nil), portsrepo.OrderDesc).
		Return(entries, nil, nil).Once()

	txns, nextToken, err := suite.service.ListTransactions(ctx, goalID, dto.ListTransactionsParams{Limit: 20, Order: "DESC"})

	suite.Require().NoError(err)
	suite.Len(txns, 1)
	suite.Nil(nextToken)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestListTransactions_GoalNotFound() {
	ctx := context.Background()
	unknownID := uuid.NewString()

	suite.mockGoalRepo.On("FindGoalByID", ctx, unknownID).Return(nil, apperrors.ErrNotFound).Once()

	_, _, err := suite.service.ListTransactions(ctx, unknownID, dto.ListTransactionsParams{Limit: 20})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "ListEntriesByGoalID", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
