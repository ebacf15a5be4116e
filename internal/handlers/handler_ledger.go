package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fintrackr/goal_ledger_app/internal/apperrors"
	portssvc "github.com/fintrackr/goal_ledger_app/internal/core/ports/services"
	"github.com/fintrackr/goal_ledger_app/internal/core/projector"
	"github.com/fintrackr/goal_ledger_app/internal/dto"
	"github.com/fintrackr/goal_ledger_app/internal/middleware"
)

// ledgerHandler handles HTTP requests for balance-changing operations and
// the transaction log.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
	thresholds    projector.Thresholds
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(ls portssvc.LedgerSvcFacade, thresholds projector.Thresholds) *ledgerHandler {
	return &ledgerHandler{
		ledgerService: ls,
		thresholds:    thresholds,
	}
}

// registerLedgerRoutes registers the ledger operation routes.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, thresholds projector.Thresholds) {
	h := newLedgerHandler(ledgerService, thresholds)

	goals := rg.Group("/goals")
	{
		goals.POST("/:goalID/deposit", h.deposit)
		goals.POST("/:goalID/withdraw", h.withdraw)
		goals.GET("/:goalID/transactions", h.listTransactions)
	}
	rg.POST("/transfers", h.transfer)
}

func (h *ledgerHandler) deposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	goalID := c.Param("goalID")

	var req dto.LedgerAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Deposit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	goal, err := h.ledgerService.Deposit(c.Request.Context(), goalID, req)
	if err != nil {
		h.writeLedgerError(c, logger, err, "Failed to apply deposit")
		return
	}

	c.JSON(http.StatusOK, dto.ToGoalResponse(goal, h.thresholds))
}

func (h *ledgerHandler) withdraw(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	goalID := c.Param("goalID")

	var req dto.LedgerAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Withdraw", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	goal, err := h.ledgerService.Withdraw(c.Request.Context(), goalID, req)
	if err != nil {
		h.writeLedgerError(c, logger, err, "Failed to apply withdrawal")
		return
	}

	c.JSON(http.StatusOK, dto.ToGoalResponse(goal, h.thresholds))
}

func (h *ledgerHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	source, destination, err := h.ledgerService.Transfer(c.Request.Context(), req)
	if err != nil {
		var partial *apperrors.TransferPartialFailure
		if errors.As(err, &partial) {
			logger.Error("Transfer partially failed",
				slog.String("source_goal_id", partial.SourceGoalID),
				slog.String("destination_goal_id", partial.DestinationGoalID),
				slog.Bool("compensated", partial.Compensated),
			)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":       "Transfer failed after the source was debited",
				"compensated": partial.Compensated,
			})
			return
		}
		h.writeLedgerError(c, logger, err, "Failed to apply transfer")
		return
	}

	c.JSON(http.StatusOK, dto.TransferResponse{
		Source:      dto.ToGoalResponse(source, h.thresholds),
		Destination: dto.ToGoalResponse(destination, h.thresholds),
	})
}

func (h *ledgerHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	goalID := c.Param("goalID")

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid transaction list parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	txns, nextToken, err := h.ledgerService.ListTransactions(c.Request.Context(), goalID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		} else {
			logger.Error("Failed to list transactions", slog.String("goal_id", goalID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	})
}

// writeLedgerError maps ledger service errors onto HTTP responses.
func (h *ledgerHandler) writeLedgerError(c *gin.Context, logger *slog.Logger, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
	case errors.Is(err, apperrors.ErrInvalidAmount), errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Rejected ledger operation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		logger.Warn("Insufficient funds", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMsg})
	}
}
