package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fintrackr/goal_ledger_app/internal/apperrors"
	"github.com/fintrackr/goal_ledger_app/internal/core/domain"
	portssvc "github.com/fintrackr/goal_ledger_app/internal/core/ports/services"
	"github.com/fintrackr/goal_ledger_app/internal/dto"
	"github.com/fintrackr/goal_ledger_app/internal/handlers"
	"github.com/fintrackr/goal_ledger_app/internal/platform/config"
)

// --- Mock GoalService ---
type MockGoalService struct {
	mock.Mock
}

var _ portssvc.GoalSvcFacade = (*MockGoalService)(nil)

func (m *MockGoalService) CreateGoal(ctx context.Context, req dto.CreateGoalRequest) (*domain.Goal, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Goal), args.Error(1)
}

func (m *MockGoalService) GetGoalByID(ctx context.Context, goalID string) (*domain.Goal, error) {
	args := m.Called(ctx, goalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Goal), args.Error(1)
}

func (m *MockGoalService) ListGoals(ctx context.Context, limit int, offset int) ([]domain.Goal, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Goal), args.Error(1)
}

func (m *MockGoalService) UpdateGoal(ctx context.Context, goalID string, req dto.UpdateGoalRequest) (*domain.Goal, error) {
	args := m.Called(ctx, goalID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Goal), args.Error(1)
}

func (m *MockGoalService) DeleteGoal(ctx context.Context, goalID string) error {
	args := m.Called(ctx, goalID)
	return args.Error(0)
}

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

func (m *MockLedgerService) Deposit(ctx context.Context, goalID string, req dto.LedgerAmountRequest) (*domain.Goal, error) {
	args := m.Called(ctx, goalID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Goal), args.Error(1)
}

func (m *MockLedgerService) Withdraw(ctx context.Context, goalID string, req dto.LedgerAmountRequest) (*domain.Goal, error) {
	args := m.Called(ctx, goalID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Goal), args.Error(1)
}

func (m *MockLedgerService) Transfer(ctx context.Context, req dto.TransferRequest) (*domain.Goal, *domain.Goal, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Goal), args.Get(1).(*domain.Goal), args.Error(2)
}

func (m *MockLedgerService) ListTransactions(ctx context.Context, goalID string, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, goalID, params)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var nextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		nextToken = &tokenVal
	}
	return args.Get(0).([]domain.Transaction), nextToken, args.Error(2)
}

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

var _ portssvc.ReportingSvcFacade = (*MockReportingService)(nil)

func (m *MockReportingService) GetPortfolioSummary(ctx context.Context) (*dto.PortfolioSummaryResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PortfolioSummaryResponse), args.Error(1)
}

// --- Test Suite Setup ---
type LedgerHandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	mockGoalSvc   *MockGoalService
	mockLedgerSvc *MockLedgerService
	mockReportSvc *MockReportingService
	testGoal      domain.Goal
}

func (suite *LedgerHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.mockGoalSvc = new(MockGoalService)
	suite.mockLedgerSvc = new(MockLedgerService)
	suite.mockReportSvc = new(MockReportingService)

	cfg := &config.Config{
		Port:              "8080",
		RateLimit:         "1000-S",
		StatusWarningPct:  75,
		StatusCriticalPct: 90,
	}
	container := &portssvc.ServiceContainer{
		Goal:      suite.mockGoalSvc,
		Ledger:    suite.mockLedgerSvc,
		Reporting: suite.mockReportSvc,
	}

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, cfg, container)

	now := time.Now().UTC()
	suite.testGoal = domain.Goal{
		GoalID:       uuid.NewString(),
		Name:         "Vacation",
		TargetAmount: decimal.NewFromInt(1000),
		AmountSaved:  decimal.NewFromInt(500),
		Deadline:     now.AddDate(1, 0, 0),
		AuditFields:  domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
}

func (suite *LedgerHandlerTestSuite) performJSON(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *LedgerHandlerTestSuite) TestDeposit_Success() {
	goalID := suite.testGoal.GoalID
	updated := suite.testGoal
	updated.AmountSaved = decimal.NewFromInt(800)

	suite.mockLedgerSvc.On("Deposit", mock.Anything, goalID, mock.MatchedBy(func(r dto.LedgerAmountRequest) bool {
		return r.Amount.Equal(decimal.NewFromInt(300))
	})).Return(&updated, nil).Once()

	w := suite.performJSON(http.MethodPost, fmt.Sprintf("/api/v1/goals/%s/deposit", goalID), gin.H{"amount": "300"})

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.GoalResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.AmountSaved.Equal(decimal.NewFromInt(800)))
	suite.Equal(int64(80), resp.Progress)

	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestDeposit_NonPositiveAmountRejectedByBinding() {
	goalID := suite.testGoal.GoalID

	w := suite.performJSON(http.MethodPost, fmt.Sprintf("/api/v1/goals/%s/deposit", goalID), gin.H{"amount": "-10"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "Deposit", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerHandlerTestSuite) TestWithdraw_InsufficientFunds() {
	goalID := suite.testGoal.GoalID

	suite.mockLedgerSvc.On("Withdraw", mock.Anything, goalID, mock.Anything).
		Return(nil, fmt.Errorf("%w: withdrawal exceeds balance", apperrors.ErrInsufficientFunds)).Once()

	w := suite.performJSON(http.MethodPost, fmt.Sprintf("/api/v1/goals/%s/withdraw", goalID), gin.H{"amount": "600"})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestWithdraw_GoalNotFound() {
	goalID := uuid.NewString()

	suite.mockLedgerSvc.On("Withdraw", mock.Anything, goalID, mock.Anything).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.performJSON(http.MethodPost, fmt.Sprintf("/api/v1/goals/%s/withdraw", goalID), gin.H{"amount": "10"})

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestTransfer_Success() {
	source := suite.testGoal
	source.AmountSaved = decimal.NewFromInt(400)
	destination := domain.Goal{
		GoalID:       uuid.NewString(),
		Name:         "New Car",
		TargetAmount: decimal.NewFromInt(5000),
		AmountSaved:  decimal.NewFromInt(1600),
	}

	suite.mockLedgerSvc.On("Transfer", mock.Anything, mock.MatchedBy(func(r dto.TransferRequest) bool {
		return r.SourceGoalID == source.GoalID && r.DestinationGoalID == destination.GoalID
	})).Return(&source, &destination, nil).Once()

	w := suite.performJSON(http.MethodPost, "/api/v1/transfers", gin.H{
		"sourceGoalID":      source.GoalID,
		"destinationGoalID": destination.GoalID,
		"amount":            "100",
	})

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.TransferResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Source.AmountSaved.Equal(decimal.NewFromInt(400)))
	suite.True(resp.Destination.AmountSaved.Equal(decimal.NewFromInt(1600)))
}

func (suite *LedgerHandlerTestSuite) TestTransfer_SameGoalRejectedByBinding() {
	goalID := suite.testGoal.GoalID

	w := suite.performJSON(http.MethodPost, "/api/v1/transfers", gin.H{
		"sourceGoalID":      goalID,
		"destinationGoalID": goalID,
		"amount":            "100",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "Transfer", mock.Anything, mock.Anything)
}

func (suite *LedgerHandlerTestSuite) TestTransfer_PartialFailure() {
	source := suite.testGoal
	destination := uuid.NewString()

	partial := &apperrors.TransferPartialFailure{
		SourceGoalID:      source.GoalID,
		DestinationGoalID: destination,
		Amount:            decimal.NewFromInt(100),
		SourceBalance:     source.AmountSaved,
		Compensated:       true,
		Cause:             fmt.Errorf("destination write failed"),
	}
	suite.mockLedgerSvc.On("Transfer", mock.Anything, mock.Anything).Return(nil, nil, partial).Once()

	w := suite.performJSON(http.MethodPost, "/api/v1/transfers", gin.H{
		"sourceGoalID":      source.GoalID,
		"destinationGoalID": destination,
		"amount":            "100",
	})

	suite.Equal(http.StatusInternalServerError, w.Code)

	var resp map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(true, resp["compensated"])
}

func (suite *LedgerHandlerTestSuite) TestListTransactions_Success() {
	goalID := suite.testGoal.GoalID
	entries := []domain.Transaction{
		{
			TransactionID:   uuid.NewString(),
			GoalID:          goalID,
			TransactionType: domain.Deposit,
			Amount:          decimal.NewFromInt(500),
			Balance:         decimal.NewFromInt(500),
			TransactionDate: time.Now().UTC(),
		},
	}

	suite.mockLedgerSvc.On("ListTransactions", mock.Anything, goalID, mock.Anything).
		Return(entries, nil, nil).Once()

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/goals/%s/transactions?limit=10&order=ASC", goalID), nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ListTransactionsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Transactions, 1)
	suite.Equal("DEPOSIT", resp.Transactions[0].Type)
	suite.Nil(resp.NextToken)
}

func TestLedgerHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerHandlerTestSuite))
}
