package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/jumbenylon/invest/internal/errors"
	"github.com/jumbenylon/invest/internal/models"
	"github.com/jumbenylon/invest/internal/pagination"
	"github.com/jumbenylon/invest/internal/services"
)

// TransactionHandler handles cash ledger requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the request payload for recording a transaction.
type CreateTransactionRequest struct {
	PortfolioID *string                `json:"portfolio_id" binding:"omitempty,uuid"`
	Date        string                 `json:"date" binding:"required"`
	Description string                 `json:"description" binding:"required,min=1,max=255"`
	Amount      decimal.Decimal        `json:"amount" binding:"required"`
	Category    string                 `json:"category" binding:"max=100"`
	Type        models.TransactionType `json:"type" binding:"required,transaction_type"`
	Reference   string                 `json:"reference" binding:"max=100"`
}

// parseTransactionFilter reads the optional ledger filters off the query
// string.
func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if v := c.Query("type"); v != "" {
		t := models.TransactionType(v)
		filter.Type = &t
	}
	if v := c.Query("category"); v != "" {
		filter.Category = &v
	}
	if v := c.Query("from"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid from date")
		}
		filter.FromDate = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid to date")
		}
		filter.ToDate = &t
	}
	if v := c.Query("portfolio_id"); v != "" {
		filter.PortfolioID = &v
	}

	return filter, nil
}

// CreateTransaction handles recording a cash transaction.
// @Summary     Record a transaction
// @Description Record a cash transaction, subject to the plan's monthly limit
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Monthly limit reached"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	userPlan, err := getPlan(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseFlexibleTime(req.Date)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid date format, use RFC3339 or YYYY-MM-DD"))
		return
	}

	transaction, err := h.transactionService.CreateTransaction(userID, userPlan, services.TransactionInput{
		PortfolioID: req.PortfolioID,
		Date:        date,
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Type:        req.Type,
		Reference:   req.Reference,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetTransactions handles listing the ledger.
// @Summary     Get transactions
// @Description Get a page of the cash ledger, newest first, with optional filters
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       type         query string false "Filter by type (income/expense/investment/repayment/transfer)"
// @Param       category     query string false "Filter by category"
// @Param       from         query string false "Inclusive start date"
// @Param       to           query string false "Inclusive end date"
// @Param       portfolio_id query string false "Filter by portfolio ID"
// @Param       limit        query int    false "Page size (default 50, max 200)"
// @Param       offset       query int    false "Rows to skip"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Page of transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp, err := h.transactionService.ListTransactions(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetTransaction handles fetching a single transaction.
// @Summary     Get a transaction
// @Description Get a transaction by ID
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction handles removing a ledger entry.
// @Summary     Delete a transaction
// @Description Remove a ledger entry
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     204 "Transaction deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
