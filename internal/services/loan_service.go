package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/jumbenylon/invest/internal/errors"
	"github.com/jumbenylon/invest/internal/logger"
	"github.com/jumbenylon/invest/internal/models"
	"github.com/jumbenylon/invest/internal/plan"
)

// loanService handles loans and their append-only payment ledger.
type loanService struct {
	db *gorm.DB
}

// NewLoanService creates a new LoanServicer.
func NewLoanService(db *gorm.DB) LoanServicer {
	return &loanService{db: db}
}

// CreateLoan registers a loan. The outstanding balance starts at the
// principal and thereafter moves only through RecordPayment.
func (s *loanService) CreateLoan(userID string, userPlan plan.Plan, input LoanInput) (*models.Loan, error) {
	if !plan.CanUseLoans(userPlan) {
		return nil, apperrors.WithMessage(apperrors.ErrQuotaExceeded, "Loan tracking requires a Pro plan. Upgrade now.")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Name is required")
	}
	if input.Principal.Sign() <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Principal must be positive")
	}
	if input.InterestRate < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Interest rate cannot be negative")
	}
	if input.StartDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Start date is required")
	}

	loan := &models.Loan{
		UserID:         userID,
		Name:           input.Name,
		Lender:         input.Lender,
		Principal:      input.Principal,
		InterestRate:   input.InterestRate,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		Balance:        input.Principal,
		MonthlyPayment: input.MonthlyPayment,
		Status:         models.LoanStatusActive,
		Notes:          input.Notes,
	}

	if err := s.db.Create(loan).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return loan, nil
}

// GetUserLoans returns the user's loans, active before settled.
func (s *loanService) GetUserLoans(userID string) ([]models.Loan, error) {
	var loans []models.Loan
	if err := s.db.Where("user_id = ?", userID).
		Order("status, created_at DESC").
		Find(&loans).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return loans, nil
}

// GetLoanByID returns a loan if it belongs to the user.
func (s *loanService) GetLoanByID(userID, loanID string) (*models.Loan, error) {
	var loan models.Loan
	if err := s.db.Where("id = ? AND user_id = ?", loanID, userID).First(&loan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrLoanNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &loan, nil
}

// UpdateLoan edits loan metadata. The balance has no update path here; it is
// derived state owned by the payment ledger. Status can be overridden
// manually, e.g. to mark a loan defaulted.
func (s *loanService) UpdateLoan(userID, loanID string, update LoanUpdate) (*models.Loan, error) {
	loan, err := s.GetLoanByID(userID, loanID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Name cannot be empty")
		}
		updates["name"] = *update.Name
	}
	if update.Lender != nil {
		updates["lender"] = *update.Lender
	}
	if update.InterestRate != nil {
		if *update.InterestRate < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Interest rate cannot be negative")
		}
		updates["interest_rate"] = *update.InterestRate
	}
	if update.EndDate != nil {
		updates["end_date"] = *update.EndDate
	}
	if update.MonthlyPayment != nil {
		updates["monthly_payment"] = *update.MonthlyPayment
	}
	if update.Status != nil {
		switch *update.Status {
		case models.LoanStatusActive, models.LoanStatusPaid, models.LoanStatusDefaulted:
		default:
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown loan status")
		}
		updates["status"] = *update.Status
	}
	if update.Notes != nil {
		updates["notes"] = *update.Notes
	}

	if len(updates) > 0 {
		if err := s.db.Model(loan).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return loan, nil
}

// DeleteLoan removes a loan and its payment history.
func (s *loanService) DeleteLoan(userID, loanID string) error {
	loan, err := s.GetLoanByID(userID, loanID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("loan_id = ?", loan.ID).Delete(&models.LoanPayment{}).Error; err != nil {
			return err
		}
		return tx.Delete(loan).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return nil
}

// RecordPayment appends a payment and advances the loan balance in a single
// database transaction. The balance is clamped at zero; once it reaches
// zero the loan flips to paid and stays paid even if further payments are
// recorded. Payments are not idempotent: recording the same payment twice
// reduces the balance twice.
func (s *loanService) RecordPayment(userID, loanID string, input PaymentInput) (*models.LoanPayment, error) {
	if input.Amount.Sign() <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Amount must be positive")
	}
	if input.PrincipalComponent.Sign() < 0 || input.InterestComponent.Sign() < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Payment components cannot be negative")
	}
	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	var payment *models.LoanPayment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var loan models.Loan
		if err := tx.Where("id = ? AND user_id = ?", loanID, userID).First(&loan).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrLoanNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		newBalance := loan.Balance.Sub(input.PrincipalComponent)
		if newBalance.Sign() < 0 {
			newBalance = decimal.Zero
		}

		payment = &models.LoanPayment{
			LoanID:             loan.ID,
			Date:               date,
			Amount:             input.Amount,
			PrincipalComponent: input.PrincipalComponent,
			InterestComponent:  input.InterestComponent,
			BalanceAfter:       newBalance,
			Notes:              input.Notes,
		}
		if err := tx.Create(payment).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		updates := map[string]interface{}{"balance": newBalance}
		if newBalance.Sign() == 0 && loan.Status == models.LoanStatusActive {
			updates["status"] = models.LoanStatusPaid
		}
		if err := tx.Model(&loan).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("loan payment recorded",
		"loan_id", loanID,
		"balance_after", payment.BalanceAfter.String())
	return payment, nil
}

// ListPayments returns a loan's payment ledger, newest first.
func (s *loanService) ListPayments(userID, loanID string) ([]models.LoanPayment, error) {
	loan, err := s.GetLoanByID(userID, loanID)
	if err != nil {
		return nil, err
	}

	var payments []models.LoanPayment
	if err := s.db.Where("loan_id = ?", loan.ID).
		Order("date DESC, created_at DESC").
		Find(&payments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return payments, nil
}
