package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/jumbenylon/invest/internal/errors"
	"github.com/jumbenylon/invest/internal/models"
	"github.com/jumbenylon/invest/internal/pagination"
	"github.com/jumbenylon/invest/internal/plan"
)

// transactionService handles the cash transaction ledger.
type transactionService struct {
	db               *gorm.DB
	portfolioService PortfolioServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, portfolioService PortfolioServicer) TransactionServicer {
	return &transactionService{db: db, portfolioService: portfolioService}
}

// currentMonthWindow returns the half-open [start, end) bounds of the
// calendar month containing now, in the server's local time.
func currentMonthWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0)
}

// CreateTransaction records a cash transaction. The monthly quota counts
// transactions whose date falls in the current calendar month, so backdated
// entries do not consume this month's allowance.
func (s *transactionService) CreateTransaction(userID string, userPlan plan.Plan, input TransactionInput) (*models.Transaction, error) {
	switch input.Type {
	case models.TransactionTypeIncome, models.TransactionTypeExpense, models.TransactionTypeInvestment,
		models.TransactionTypeRepayment, models.TransactionTypeTransfer:
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown transaction type")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Description is required")
	}
	if input.Amount.Sign() <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Amount must be positive")
	}
	if input.Date.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Date is required")
	}

	if input.PortfolioID != nil {
		if _, err := s.portfolioService.GetPortfolioByID(userID, *input.PortfolioID); err != nil {
			return nil, err
		}
	}

	start, end := currentMonthWindow(time.Now())
	var count int64
	if err := s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !plan.CanAddTransaction(userPlan, int(count)) {
		return nil, apperrors.WithMessage(apperrors.ErrQuotaExceeded, "Monthly transaction limit reached. Upgrade to Pro for unlimited transactions.")
	}

	category := input.Category
	if strings.TrimSpace(category) == "" {
		category = "General"
	}

	transaction := &models.Transaction{
		UserID:      userID,
		PortfolioID: input.PortfolioID,
		Date:        input.Date,
		Description: input.Description,
		Amount:      input.Amount,
		Category:    category,
		Type:        input.Type,
		Reference:   input.Reference,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// applyFilter narrows a transaction query to the filter's bounds. FromDate
// and ToDate are inclusive.
func applyFilter(q *gorm.DB, filter TransactionFilter) *gorm.DB {
	if filter.Type != nil {
		q = q.Where("type = ?", *filter.Type)
	}
	if filter.Category != nil {
		q = q.Where("category = ?", *filter.Category)
	}
	if filter.FromDate != nil {
		q = q.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		q = q.Where("date <= ?", *filter.ToDate)
	}
	if filter.PortfolioID != nil {
		q = q.Where("portfolio_id = ?", *filter.PortfolioID)
	}
	return q
}

// ListTransactions returns a page of the user's ledger, newest first, with
// the total count matching the same filter.
func (s *transactionService) ListTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := applyFilter(s.db.Model(&models.Transaction{}).Where("user_id = ?", userID), filter)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.
		Order("date DESC, created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(transactions, page.Limit, page.Offset, total)
	return &resp, nil
}

// GetTransactionByID returns a transaction if it belongs to the user.
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// DeleteTransaction removes a ledger entry. Deleting does not refund the
// monthly quota retroactively beyond the entry no longer being counted.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return nil
}
