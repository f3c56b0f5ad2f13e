package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jumbenylon/invest/internal/models"
	"github.com/jumbenylon/invest/internal/pagination"
	"github.com/jumbenylon/invest/internal/plan"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	GenerateAPIKey(userID string) (string, error)
}

// PortfolioServicer defines the contract for portfolio-related business logic.
type PortfolioServicer interface {
	CreatePortfolio(userID string, userPlan plan.Plan, name, currency string) (*models.Portfolio, error)
	GetUserPortfolios(userID string) ([]models.Portfolio, error)
	GetPortfolioByID(userID, portfolioID string) (*models.Portfolio, error)
	GetDefaultPortfolio(userID string) (*models.Portfolio, error)
	UpdatePortfolio(userID, portfolioID, name string) (*models.Portfolio, error)
	DeletePortfolio(userID, portfolioID string) error
}

// InvestmentInput holds the fields for creating an investment holding.
type InvestmentInput struct {
	PortfolioID  string
	Category     models.AssetCategory
	Symbol       string
	Name         string
	Quantity     decimal.Decimal
	BuyPrice     decimal.Decimal
	CurrentPrice *decimal.Decimal
	BuyDate      *time.Time
	Notes        string
}

// InvestmentUpdate holds the mutable fields of a holding; nil means keep.
type InvestmentUpdate struct {
	Quantity     *decimal.Decimal
	BuyPrice     *decimal.Decimal
	CurrentPrice *decimal.Decimal
	BuyDate      *time.Time
	Notes        *string
}

// CategoryValue is one slice of the per-category valuation breakdown,
// sorted by category name.
type CategoryValue struct {
	Category models.AssetCategory `json:"category"`
	Value    decimal.Decimal      `json:"value"`
}

// PortfolioSummary aggregates valuation across a user's holdings.
type PortfolioSummary struct {
	TotalValue  decimal.Decimal `json:"total_value"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	GainLoss    decimal.Decimal `json:"gain_loss"`
	GainLossPct float64         `json:"gain_loss_pct"`
	TotalAssets int             `json:"total_assets"`
	Breakdown   []CategoryValue `json:"breakdown"`
}

// InvestmentServicer defines the contract for investment-related business logic.
type InvestmentServicer interface {
	AddInvestment(userID string, userPlan plan.Plan, input InvestmentInput) (*models.Investment, error)
	ListInvestments(userID string, portfolioID *string) ([]models.Investment, error)
	GetInvestmentByID(userID, investmentID string) (*models.Investment, error)
	UpdateInvestment(userID, investmentID string, update InvestmentUpdate) (*models.Investment, error)
	DeleteInvestment(userID, investmentID string) error
	GetPortfolioSummary(userID string) (*PortfolioSummary, error)
}

// TransactionInput holds the fields for recording a cash transaction.
type TransactionInput struct {
	PortfolioID *string
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Category    string
	Type        models.TransactionType
	Reference   string
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	Type        *models.TransactionType
	Category    *string
	FromDate    *time.Time
	ToDate      *time.Time
	PortfolioID *string
}

// TransactionServicer defines the contract for the cash ledger.
type TransactionServicer interface {
	CreateTransaction(userID string, userPlan plan.Plan, input TransactionInput) (*models.Transaction, error)
	ListTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// LoanInput holds the fields for creating a loan.
type LoanInput struct {
	Name           string
	Lender         string
	Principal      decimal.Decimal
	InterestRate   float64
	StartDate      time.Time
	EndDate        *time.Time
	MonthlyPayment *decimal.Decimal
	Notes          string
}

// LoanUpdate holds the editable loan metadata; nil means keep. Balance has
// no field here: it moves only through payment recording.
type LoanUpdate struct {
	Name           *string
	Lender         *string
	InterestRate   *float64
	EndDate        *time.Time
	MonthlyPayment *decimal.Decimal
	Status         *models.LoanStatus
	Notes          *string
}

// PaymentInput holds the fields for recording a loan payment. Amount and
// InterestComponent are informational; only PrincipalComponent reduces the
// balance, and no consistency check ties the three together.
type PaymentInput struct {
	Date               time.Time
	Amount             decimal.Decimal
	PrincipalComponent decimal.Decimal
	InterestComponent  decimal.Decimal
	Notes              string
}

// LoanServicer defines the contract for the loan amortization ledger.
type LoanServicer interface {
	CreateLoan(userID string, userPlan plan.Plan, input LoanInput) (*models.Loan, error)
	GetUserLoans(userID string) ([]models.Loan, error)
	GetLoanByID(userID, loanID string) (*models.Loan, error)
	UpdateLoan(userID, loanID string, update LoanUpdate) (*models.Loan, error)
	DeleteLoan(userID, loanID string) error
	RecordPayment(userID, loanID string, input PaymentInput) (*models.LoanPayment, error)
	ListPayments(userID, loanID string) ([]models.LoanPayment, error)
}

// GoalInput holds the fields for creating a savings goal.
type GoalInput struct {
	Name          string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	TargetDate    *time.Time
	Category      string
	Icon          string
	Color         string
}

// GoalUpdate holds the editable goal fields; nil means keep. Supplying
// CurrentAmount implements deposit-via-update; supplying Status is the
// manual override.
type GoalUpdate struct {
	Name          *string
	TargetAmount  *decimal.Decimal
	CurrentAmount *decimal.Decimal
	TargetDate    *time.Time
	Category      *string
	Icon          *string
	Color         *string
	Status        *models.GoalStatus
}

// GoalServicer defines the contract for savings goal tracking.
type GoalServicer interface {
	CreateGoal(userID string, userPlan plan.Plan, input GoalInput) (*models.Goal, error)
	GetUserGoals(userID string) ([]models.Goal, error)
	GetGoalByID(userID, goalID string) (*models.Goal, error)
	UpdateGoal(userID, goalID string, update GoalUpdate) (*models.Goal, error)
	Deposit(userID, goalID string, amount decimal.Decimal) (*models.Goal, error)
	DeleteGoal(userID, goalID string) error
}

// Cashflow sums income and expense transactions over the current calendar
// month; other transaction types are excluded from this aggregate.
type Cashflow struct {
	MonthlyIncome  decimal.Decimal `json:"monthly_income"`
	MonthlyExpense decimal.Decimal `json:"monthly_expense"`
	NetCashflow    decimal.Decimal `json:"net_cashflow"`
}

// LoanStats aggregates active loans.
type LoanStats struct {
	TotalDebt decimal.Decimal `json:"total_debt"`
	LoanCount int             `json:"loan_count"`
}

// GoalStats aggregates active goals.
type GoalStats struct {
	Count  int             `json:"count"`
	Saved  decimal.Decimal `json:"saved"`
	Target decimal.Decimal `json:"target"`
}

// Dashboard is the aggregate view, recomputed fresh on every read.
type Dashboard struct {
	NetWorth           decimal.Decimal      `json:"net_worth"`
	Portfolio          PortfolioSummary     `json:"portfolio"`
	Cashflow           Cashflow             `json:"cashflow"`
	Loans              LoanStats            `json:"loans"`
	Goals              GoalStats            `json:"goals"`
	RecentTransactions []models.Transaction `json:"recent_transactions"`
}

// DashboardServicer defines the contract for the dashboard aggregate.
type DashboardServicer interface {
	GetDashboard(userID string) (*Dashboard, error)
}

// MarketServicer defines the contract for browsing market reference data.
type MarketServicer interface {
	ListDSEStocks(search, sector string) ([]models.DSEStock, []string, error)
	ListUTTFunds() ([]models.UTTFund, error)
}
