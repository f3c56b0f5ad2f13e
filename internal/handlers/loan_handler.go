package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/jumbenylon/invest/internal/errors"
	"github.com/jumbenylon/invest/internal/models"
	"github.com/jumbenylon/invest/internal/services"
)

// LoanHandler handles loan ledger requests.
type LoanHandler struct {
	loanService services.LoanServicer
}

// NewLoanHandler creates a new LoanHandler.
func NewLoanHandler(loanService services.LoanServicer) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// CreateLoanRequest represents the request payload for registering a loan.
type CreateLoanRequest struct {
	Name           string           `json:"name" binding:"required,min=1,max=150"`
	Lender         string           `json:"lender" binding:"max=150"`
	Principal      decimal.Decimal  `json:"principal" binding:"required"`
	InterestRate   float64          `json:"interest_rate" binding:"omitempty,min=0,max=100"`
	StartDate      string           `json:"start_date" binding:"required"`
	EndDate        *string          `json:"end_date"`
	MonthlyPayment *decimal.Decimal `json:"monthly_payment"`
	Notes          string           `json:"notes" binding:"max=1000"`
}

// UpdateLoanRequest represents the request payload for editing loan metadata.
// The balance is not editable; it moves only through payments.
type UpdateLoanRequest struct {
	Name           *string            `json:"name" binding:"omitempty,min=1,max=150"`
	Lender         *string            `json:"lender" binding:"omitempty,max=150"`
	InterestRate   *float64           `json:"interest_rate" binding:"omitempty,min=0,max=100"`
	EndDate        *string            `json:"end_date"`
	MonthlyPayment *decimal.Decimal   `json:"monthly_payment"`
	Status         *models.LoanStatus `json:"status" binding:"omitempty,loan_status"`
	Notes          *string            `json:"notes" binding:"omitempty,max=1000"`
}

// RecordPaymentRequest represents the request payload for recording a payment.
type RecordPaymentRequest struct {
	Date               string          `json:"date"`
	Amount             decimal.Decimal `json:"amount" binding:"required"`
	PrincipalComponent decimal.Decimal `json:"principal_component" binding:"required"`
	InterestComponent  decimal.Decimal `json:"interest_component"`
	Notes              string          `json:"notes" binding:"max=1000"`
}

// CreateLoan handles registering a loan.
// @Summary     Create a loan
// @Description Register a loan (Pro plan and above)
// @Tags        loans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateLoanRequest true "Loan details"
// @Success     201 {object} models.Loan "Loan created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Plan does not include loans"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /loans [post]
func (h *LoanHandler) CreateLoan(c *gin.Context) {
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

	var req CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	startDate, err := parseFlexibleTime(req.StartDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid start date"))
		return
	}
	endDate, err := parseOptionalDate(req.EndDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	loan, err := h.loanService.CreateLoan(userID, userPlan, services.LoanInput{
		Name:           req.Name,
		Lender:         req.Lender,
		Principal:      req.Principal,
		InterestRate:   req.InterestRate,
		StartDate:      startDate,
		EndDate:        endDate,
		MonthlyPayment: req.MonthlyPayment,
		Notes:          req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"loan": loan})
}

// GetLoans handles listing the user's loans.
// @Summary     Get loans
// @Description Get all loans, active first
// @Tags        loans
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Loans"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /loans [get]
func (h *LoanHandler) GetLoans(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	loans, err := h.loanService.GetUserLoans(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"loans": loans})
}

// GetLoan handles fetching a single loan.
// @Summary     Get a loan
// @Description Get a loan by ID
// @Tags        loans
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Loan ID"
// @Success     200 {object} models.Loan "Loan"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Loan not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /loans/{id} [get]
func (h *LoanHandler) GetLoan(c *gin.Context) {
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

	loan, err := h.loanService.GetLoanByID(userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"loan": loan})
}

// UpdateLoan handles editing loan metadata.
// @Summary     Update a loan
// @Description Edit loan metadata; the balance moves only through payments
// @Tags        loans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Loan ID"
// @Param       request body UpdateLoanRequest true "Fields to update"
// @Success     200 {object} models.Loan "Loan updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Loan not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /loans/{id} [put]
func (h *LoanHandler) UpdateLoan(c *gin.Context) {
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

	var req UpdateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	endDate, err := parseOptionalDate(req.EndDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	loan, err := h.loanService.UpdateLoan(userID, id, services.LoanUpdate{
		Name:           req.Name,
		Lender:         req.Lender,
		InterestRate:   req.InterestRate,
		EndDate:        endDate,
		MonthlyPayment: req.MonthlyPayment,
		Status:         req.Status,
		Notes:          req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"loan": loan})
}

// DeleteLoan handles removing a loan and its payment history.
// @Summary     Delete a loan
// @Description Remove a loan and all its payments
// @Tags        loans
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Loan ID"
// @Success     204 "Loan deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Loan not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /loans/{id} [delete]
func (h *LoanHandler) DeleteLoan(c *gin.Context) {
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

	if err := h.loanService.DeleteLoan(userID, id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RecordPayment handles recording a loan payment.
// @Summary     Record a payment
// @Description Append a payment to the loan's ledger and advance the balance atomically
// @Tags        loans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Loan ID"
// @Param       request body RecordPaymentRequest true "Payment details"
// @Success     201 {object} models.LoanPayment "Payment recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Loan not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /loans/{id}/payments [post]
func (h *LoanHandler) RecordPayment(c *gin.Context) {
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

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input := services.PaymentInput{
		Amount:             req.Amount,
		PrincipalComponent: req.PrincipalComponent,
		InterestComponent:  req.InterestComponent,
		Notes:              req.Notes,
	}
	if req.Date != "" {
		date, err := parseFlexibleTime(req.Date)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid date"))
			return
		}
		input.Date = date
	}

	payment, err := h.loanService.RecordPayment(userID, id, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"payment": payment})
}

// GetPayments handles listing a loan's payment ledger.
// @Summary     Get payments
// @Description Get a loan's payment history, newest first
// @Tags        loans
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Loan ID"
// @Success     200 {object} map[string]interface{} "Payments"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Loan not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /loans/{id}/payments [get]
func (h *LoanHandler) GetPayments(c *gin.Context) {
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

	payments, err := h.loanService.ListPayments(userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}
