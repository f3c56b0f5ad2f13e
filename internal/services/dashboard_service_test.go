package services

import (
	"testing"

	"github.com/jumbenylon/invest/internal/models"
	"github.com/jumbenylon/invest/internal/testutil"
)

func TestGetDashboard(t *testing.T) {
	t.Run("net_worth_formula", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDashboardService(db)
		user := testutil.CreateTestUser(t, db)
		portfolio := testutil.CreateTestPortfolio(t, db, user.ID)

		// Holdings valued at 5,000,000 using persisted prices.
		testutil.CreateTestInvestment(t, db, user.ID, portfolio.ID, models.AssetCategoryDSE, "CRDB",
			testutil.Dec(t, "10000"), testutil.Dec(t, "400"), testutil.Dec(t, "500"))
		// This month: 1,200,000 income, 400,000 expense.
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeIncome, testutil.Dec(t, "1200000"))
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, testutil.Dec(t, "400000"))
		// Active debt 800,000.
		testutil.CreateTestLoan(t, db, user.ID, testutil.Dec(t, "800000"))

		dashboard, err := svc.GetDashboard(user.ID)
		testutil.AssertNoError(t, err)

		// 5,000,000 + 1,200,000 - 400,000 - 800,000
		testutil.AssertDecimalEqual(t, testutil.Dec(t, "5000000"), dashboard.NetWorth)
		testutil.AssertDecimalEqual(t, testutil.Dec(t, "5000000"), dashboard.Portfolio.TotalValue)
		testutil.AssertDecimalEqual(t, testutil.Dec(t, "1200000"), dashboard.Cashflow.MonthlyIncome)
		testutil.AssertDecimalEqual(t, testutil.Dec(t, "400000"), dashboard.Cashflow.MonthlyExpense)
		testutil.AssertDecimalEqual(t, testutil.Dec(t, "800000"), dashboard.Loans.TotalDebt)
	})

	t.Run("only_income_and_expense_in_cashflow", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDashboardService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeIncome, testutil.Dec(t, "100000"))
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeInvestment, testutil.Dec(t, "500000"))
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeRepayment, testutil.Dec(t, "200000"))
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeTransfer, testutil.Dec(t, "300000"))

		dashboard, err := svc.GetDashboard(user.ID)
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, testutil.Dec(t, "100000"), dashboard.Cashflow.MonthlyIncome)
		testutil.AssertDecimalEqual(t, testutil.Dec(t, "0"), dashboard.Cashflow.MonthlyExpense)
		testutil.AssertDecimalEqual(t, testutil.Dec(t, "100000"), dashboard.Cashflow.NetCashflow)
	})

	t.Run("paid_loans_excluded_from_debt", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDashboardService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestLoan(t, db, user.ID, testutil.Dec(t, "300000"))
		paid := testutil.CreateTestLoan(t, db, user.ID, testutil.Dec(t, "100000"))
		testutil.AssertNoError(t, db.Model(paid).Updates(map[string]interface{}{
			"balance": testutil.Dec(t, "0"),
			"status":  models.LoanStatusPaid,
		}).Error)

		dashboard, err := svc.GetDashboard(user.ID)
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, testutil.Dec(t, "300000"), dashboard.Loans.TotalDebt)
		if dashboard.Loans.LoanCount != 1 {
			t.Errorf("expected 1 active loan, got %d", dashboard.Loans.LoanCount)
		}
	})

	t.Run("recent_transactions_capped_at_five", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDashboardService(db)
		user := testutil.CreateTestUser(t, db)

		for i := 0; i < 7; i++ {
			testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, testutil.Dec(t, "1000"))
		}

		dashboard, err := svc.GetDashboard(user.ID)
		testutil.AssertNoError(t, err)

		if len(dashboard.RecentTransactions) != 5 {
			t.Errorf("expected 5 recent transactions, got %d", len(dashboard.RecentTransactions))
		}
	})

	t.Run("goal_stats_count_active_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDashboardService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestGoal(t, db, user.ID, testutil.Dec(t, "500000"), testutil.Dec(t, "200000"))
		done := testutil.CreateTestGoal(t, db, user.ID, testutil.Dec(t, "100000"), testutil.Dec(t, "100000"))
		testutil.AssertNoError(t, db.Model(done).Update("status", models.GoalStatusCompleted).Error)

		dashboard, err := svc.GetDashboard(user.ID)
		testutil.AssertNoError(t, err)

		if dashboard.Goals.Count != 1 {
			t.Errorf("expected 1 active goal, got %d", dashboard.Goals.Count)
		}
		testutil.AssertDecimalEqual(t, testutil.Dec(t, "200000"), dashboard.Goals.Saved)
		testutil.AssertDecimalEqual(t, testutil.Dec(t, "500000"), dashboard.Goals.Target)
	})

	t.Run("empty_user_all_zeros", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDashboardService(db)
		user := testutil.CreateTestUser(t, db)

		dashboard, err := svc.GetDashboard(user.ID)
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, testutil.Dec(t, "0"), dashboard.NetWorth)
		if len(dashboard.RecentTransactions) != 0 {
			t.Errorf("expected no recent transactions, got %d", len(dashboard.RecentTransactions))
		}
	})
}
