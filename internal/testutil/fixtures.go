package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/jumbenylon/invest/internal/models"
	"github.com/jumbenylon/invest/internal/plan"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Dec parses a decimal literal, failing the test on bad input.
func Dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

// CreateTestUser creates a free-tier user with a hashed password and unique
// email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithPlan(t, db, plan.Free)
}

// CreateTestUserWithPlan creates a user on the given tier.
func CreateTestUserWithPlan(t *testing.T, db *gorm.DB, p plan.Plan) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    fmt.Sprintf("user%d@test.com", nextID()),
		Password: string(hash),
		Name:     "Test User",
		Plan:     p,
		Role:     "user",
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestPortfolio creates a default portfolio for the user.
func CreateTestPortfolio(t *testing.T, db *gorm.DB, userID string) *models.Portfolio {
	t.Helper()

	portfolio := &models.Portfolio{
		UserID:    userID,
		Name:      fmt.Sprintf("Test Portfolio %d", nextID()),
		Currency:  "TZS",
		IsDefault: true,
	}
	if err := db.Create(portfolio).Error; err != nil {
		t.Fatalf("failed to create test portfolio: %v", err)
	}
	return portfolio
}

// CreateTestInvestment creates a holding with the given quantity and prices.
func CreateTestInvestment(t *testing.T, db *gorm.DB, userID, portfolioID string, category models.AssetCategory, symbol string, quantity, buyPrice, currentPrice decimal.Decimal) *models.Investment {
	t.Helper()

	investment := &models.Investment{
		PortfolioID:  portfolioID,
		UserID:       userID,
		Category:     category,
		Symbol:       symbol,
		Name:         fmt.Sprintf("Test Holding %d", nextID()),
		Quantity:     quantity,
		BuyPrice:     buyPrice,
		CurrentPrice: currentPrice,
	}
	if err := db.Create(investment).Error; err != nil {
		t.Fatalf("failed to create test investment: %v", err)
	}
	return investment
}

// CreateTestTransaction creates a ledger entry dated now.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, txType models.TransactionType, amount decimal.Decimal) *models.Transaction {
	t.Helper()
	return CreateTestTransactionOn(t, db, userID, txType, amount, time.Now())
}

// CreateTestTransactionOn creates a ledger entry on the given date.
func CreateTestTransactionOn(t *testing.T, db *gorm.DB, userID string, txType models.TransactionType, amount decimal.Decimal, date time.Time) *models.Transaction {
	t.Helper()

	transaction := &models.Transaction{
		UserID:      userID,
		Date:        date,
		Description: fmt.Sprintf("Test Transaction %d", nextID()),
		Amount:      amount,
		Category:    "General",
		Type:        txType,
	}
	if err := db.Create(transaction).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return transaction
}

// CreateTestLoan creates an active loan with balance equal to principal.
func CreateTestLoan(t *testing.T, db *gorm.DB, userID string, principal decimal.Decimal) *models.Loan {
	t.Helper()

	loan := &models.Loan{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Loan %d", nextID()),
		Lender:       "Test Bank",
		Principal:    principal,
		InterestRate: 12,
		StartDate:    time.Now().AddDate(0, -1, 0),
		Balance:      principal,
		Status:       models.LoanStatusActive,
	}
	if err := db.Create(loan).Error; err != nil {
		t.Fatalf("failed to create test loan: %v", err)
	}
	return loan
}

// CreateTestGoal creates an active goal.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID string, target, current decimal.Decimal) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		UserID:        userID,
		Name:          fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount:  target,
		CurrentAmount: current,
		Category:      "General",
		Color:         "#ff1a66",
		Status:        models.GoalStatusActive,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CreateTestDSEStock seeds an equity listing.
func CreateTestDSEStock(t *testing.T, db *gorm.DB, symbol string, lastPrice decimal.Decimal) *models.DSEStock {
	t.Helper()

	stock := &models.DSEStock{
		Symbol:    symbol,
		Name:      symbol + " Plc",
		Sector:    "Banking",
		LastPrice: lastPrice,
		UpdatedAt: time.Now(),
	}
	if err := db.Create(stock).Error; err != nil {
		t.Fatalf("failed to create test DSE stock: %v", err)
	}
	return stock
}

// CreateTestUTTFund seeds a unit trust fund.
func CreateTestUTTFund(t *testing.T, db *gorm.DB, symbol string, nav decimal.Decimal) *models.UTTFund {
	t.Helper()

	fund := &models.UTTFund{
		Symbol:    symbol,
		Name:      symbol + " Fund",
		Manager:   "UTT AMIS",
		NAV:       nav,
		UpdatedAt: time.Now(),
	}
	if err := db.Create(fund).Error; err != nil {
		t.Fatalf("failed to create test UTT fund: %v", err)
	}
	return fund
}
