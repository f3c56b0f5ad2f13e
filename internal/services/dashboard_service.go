package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/jumbenylon/invest/internal/errors"
	"github.com/jumbenylon/invest/internal/models"
)

// dashboardService assembles the aggregate financial overview.
type dashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(db *gorm.DB) DashboardServicer {
	return &dashboardService{db: db}
}

// GetDashboard recomputes the full overview from current rows on every
// call; nothing is cached between reads. Net worth is
//
//	totalValue + monthlyIncome - monthlyExpense - totalDebt
//
// where totalValue uses each holding's persisted price, the cashflow terms
// cover income and expense transactions in the current calendar month, and
// totalDebt sums active loan balances.
func (s *dashboardService) GetDashboard(userID string) (*Dashboard, error) {
	var investments []models.Investment
	if err := s.db.Where("user_id = ?", userID).Find(&investments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	portfolio := summarize(investments)

	cashflow, err := s.currentMonthCashflow(userID)
	if err != nil {
		return nil, err
	}

	loans, err := s.activeLoanStats(userID)
	if err != nil {
		return nil, err
	}

	goals, err := s.activeGoalStats(userID)
	if err != nil {
		return nil, err
	}

	var recent []models.Transaction
	if err := s.db.Where("user_id = ?", userID).
		Order("date DESC, created_at DESC").
		Limit(5).
		Find(&recent).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if recent == nil {
		recent = []models.Transaction{}
	}

	netWorth := portfolio.TotalValue.
		Add(cashflow.MonthlyIncome).
		Sub(cashflow.MonthlyExpense).
		Sub(loans.TotalDebt)

	return &Dashboard{
		NetWorth:           netWorth,
		Portfolio:          *portfolio,
		Cashflow:           *cashflow,
		Loans:              *loans,
		Goals:              *goals,
		RecentTransactions: recent,
	}, nil
}

func (s *dashboardService) currentMonthCashflow(userID string) (*Cashflow, error) {
	start, end := currentMonthWindow(time.Now())

	var transactions []models.Transaction
	if err := s.db.Where("user_id = ? AND date >= ? AND date < ? AND type IN ?",
		userID, start, end,
		[]models.TransactionType{models.TransactionTypeIncome, models.TransactionTypeExpense}).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	cashflow := &Cashflow{
		MonthlyIncome:  decimal.Zero,
		MonthlyExpense: decimal.Zero,
	}
	for i := range transactions {
		t := &transactions[i]
		switch t.Type {
		case models.TransactionTypeIncome:
			cashflow.MonthlyIncome = cashflow.MonthlyIncome.Add(t.Amount)
		case models.TransactionTypeExpense:
			cashflow.MonthlyExpense = cashflow.MonthlyExpense.Add(t.Amount)
		}
	}
	cashflow.NetCashflow = cashflow.MonthlyIncome.Sub(cashflow.MonthlyExpense)

	return cashflow, nil
}

func (s *dashboardService) activeLoanStats(userID string) (*LoanStats, error) {
	var loans []models.Loan
	if err := s.db.Where("user_id = ? AND status = ?", userID, models.LoanStatusActive).
		Find(&loans).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	stats := &LoanStats{TotalDebt: decimal.Zero, LoanCount: len(loans)}
	for i := range loans {
		stats.TotalDebt = stats.TotalDebt.Add(loans[i].Balance)
	}
	return stats, nil
}

func (s *dashboardService) activeGoalStats(userID string) (*GoalStats, error) {
	var goals []models.Goal
	if err := s.db.Where("user_id = ? AND status = ?", userID, models.GoalStatusActive).
		Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	stats := &GoalStats{Count: len(goals), Saved: decimal.Zero, Target: decimal.Zero}
	for i := range goals {
		stats.Saved = stats.Saved.Add(goals[i].CurrentAmount)
		stats.Target = stats.Target.Add(goals[i].TargetAmount)
	}
	return stats, nil
}
