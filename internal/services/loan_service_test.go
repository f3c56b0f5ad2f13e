package services

import (
	"testing"
	"time"

	"github.com/jumbenylon/invest/internal/models"
	"github.com/jumbenylon/invest/internal/plan"
	"github.com/jumbenylon/invest/internal/testutil"
)

func TestCreateLoan(t *testing.T) {
	t.Run("pro_plan", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLoanService(db)
		user := testutil.CreateTestUserWithPlan(t, db, plan.Pro)

		loan, err := svc.CreateLoan(user.ID, plan.Pro, LoanInput{
			Name:      "Car Loan",
			Lender:    "CRDB Bank",
			Principal: testutil.Dec(t, "1000000"),
			StartDate: time.Now(),
		})
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, testutil.Dec(t, "1000000"), loan.Balance)
		if loan.Status != models.LoanStatusActive {
			t.Errorf("expected active status, got %s", loan.Status)
		}
	})

	t.Run("free_plan_blocked", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLoanService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateLoan(user.ID, plan.Free, LoanInput{
			Name:      "No loans on free",
			Principal: testutil.Dec(t, "1000000"),
			StartDate: time.Now(),
		})
		testutil.AssertAppError(t, err, "QUOTA_EXCEEDED")
	})

	t.Run("nonpositive_principal", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLoanService(db)
		user := testutil.CreateTestUserWithPlan(t, db, plan.Pro)

		_, err := svc.CreateLoan(user.ID, plan.Pro, LoanInput{
			Name:      "Bad",
			Principal: testutil.Dec(t, "0"),
			StartDate: time.Now(),
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestRecordPayment(t *testing.T) {
	t.Run("amortization_sequence", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLoanService(db)
		user := testutil.CreateTestUserWithPlan(t, db, plan.Pro)
		loan := testutil.CreateTestLoan(t, db, user.ID, testutil.Dec(t, "1000000"))

		p1, err := svc.RecordPayment(user.ID, loan.ID, PaymentInput{
			Amount:             testutil.Dec(t, "250000"),
			PrincipalComponent: testutil.Dec(t, "200000"),
			InterestComponent:  testutil.Dec(t, "50000"),
		})
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, testutil.Dec(t, "800000"), p1.BalanceAfter)

		got, err := svc.GetLoanByID(user.ID, loan.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, testutil.Dec(t, "800000"), got.Balance)
		if got.Status != models.LoanStatusActive {
			t.Errorf("expected still active, got %s", got.Status)
		}
	})

	t.Run("overpayment_clamps_and_settles", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLoanService(db)
		user := testutil.CreateTestUserWithPlan(t, db, plan.Pro)
		loan := testutil.CreateTestLoan(t, db, user.ID, testutil.Dec(t, "100000"))

		p, err := svc.RecordPayment(user.ID, loan.ID, PaymentInput{
			Amount:             testutil.Dec(t, "150000"),
			PrincipalComponent: testutil.Dec(t, "150000"),
		})
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, testutil.Dec(t, "0"), p.BalanceAfter)

		got, err := svc.GetLoanByID(user.ID, loan.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, testutil.Dec(t, "0"), got.Balance)
		if got.Status != models.LoanStatusPaid {
			t.Errorf("expected paid status, got %s", got.Status)
		}
	})

	t.Run("paid_stays_paid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLoanService(db)
		user := testutil.CreateTestUserWithPlan(t, db, plan.Pro)
		loan := testutil.CreateTestLoan(t, db, user.ID, testutil.Dec(t, "100000"))

		_, err := svc.RecordPayment(user.ID, loan.ID, PaymentInput{
			Amount:             testutil.Dec(t, "100000"),
			PrincipalComponent: testutil.Dec(t, "100000"),
		})
		testutil.AssertNoError(t, err)

		_, err = svc.RecordPayment(user.ID, loan.ID, PaymentInput{
			Amount:             testutil.Dec(t, "5000"),
			PrincipalComponent: testutil.Dec(t, "5000"),
		})
		testutil.AssertNoError(t, err)

		got, err := svc.GetLoanByID(user.ID, loan.ID)
		testutil.AssertNoError(t, err)
		if got.Status != models.LoanStatusPaid {
			t.Errorf("expected paid status to persist, got %s", got.Status)
		}
		testutil.AssertDecimalEqual(t, testutil.Dec(t, "0"), got.Balance)
	})

	t.Run("payments_are_not_idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLoanService(db)
		user := testutil.CreateTestUserWithPlan(t, db, plan.Pro)
		loan := testutil.CreateTestLoan(t, db, user.ID, testutil.Dec(t, "1000000"))

		input := PaymentInput{
			Amount:             testutil.Dec(t, "100000"),
			PrincipalComponent: testutil.Dec(t, "100000"),
		}
		_, err := svc.RecordPayment(user.ID, loan.ID, input)
		testutil.AssertNoError(t, err)
		_, err = svc.RecordPayment(user.ID, loan.ID, input)
		testutil.AssertNoError(t, err)

		got, err := svc.GetLoanByID(user.ID, loan.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, testutil.Dec(t, "800000"), got.Balance)

		payments, err := svc.ListPayments(user.ID, loan.ID)
		testutil.AssertNoError(t, err)
		if len(payments) != 2 {
			t.Errorf("expected 2 payment rows, got %d", len(payments))
		}
	})

	t.Run("other_users_loan_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLoanService(db)
		user1 := testutil.CreateTestUserWithPlan(t, db, plan.Pro)
		user2 := testutil.CreateTestUserWithPlan(t, db, plan.Pro)
		loan := testutil.CreateTestLoan(t, db, user2.ID, testutil.Dec(t, "100000"))

		_, err := svc.RecordPayment(user1.ID, loan.ID, PaymentInput{
			Amount:             testutil.Dec(t, "1000"),
			PrincipalComponent: testutil.Dec(t, "1000"),
		})
		testutil.AssertAppError(t, err, "LOAN_NOT_FOUND")

		// And nothing moved on the real owner's loan.
		got, err := svc.GetLoanByID(user2.ID, loan.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, testutil.Dec(t, "100000"), got.Balance)
	})

	t.Run("nonpositive_amount_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLoanService(db)
		user := testutil.CreateTestUserWithPlan(t, db, plan.Pro)
		loan := testutil.CreateTestLoan(t, db, user.ID, testutil.Dec(t, "100000"))

		_, err := svc.RecordPayment(user.ID, loan.ID, PaymentInput{
			Amount:             testutil.Dec(t, "0"),
			PrincipalComponent: testutil.Dec(t, "0"),
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("balance_invariant_holds", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLoanService(db)
		user := testutil.CreateTestUserWithPlan(t, db, plan.Pro)
		loan := testutil.CreateTestLoan(t, db, user.ID, testutil.Dec(t, "500000"))

		for _, amount := range []string{"120000", "80000", "50000"} {
			_, err := svc.RecordPayment(user.ID, loan.ID, PaymentInput{
				Amount:             testutil.Dec(t, amount),
				PrincipalComponent: testutil.Dec(t, amount),
			})
			testutil.AssertNoError(t, err)
		}

		got, err := svc.GetLoanByID(user.ID, loan.ID)
		testutil.AssertNoError(t, err)

		payments, err := svc.ListPayments(user.ID, loan.ID)
		testutil.AssertNoError(t, err)

		paid := testutil.Dec(t, "0")
		for i := range payments {
			paid = paid.Add(payments[i].PrincipalComponent)
		}
		testutil.AssertDecimalEqual(t, got.Principal.Sub(paid), got.Balance)
	})
}

func TestUpdateLoan(t *testing.T) {
	t.Run("metadata_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLoanService(db)
		user := testutil.CreateTestUserWithPlan(t, db, plan.Pro)
		loan := testutil.CreateTestLoan(t, db, user.ID, testutil.Dec(t, "100000"))

		name := "Renamed Loan"
		rate := 15.5
		_, err := svc.UpdateLoan(user.ID, loan.ID, LoanUpdate{Name: &name, InterestRate: &rate})
		testutil.AssertNoError(t, err)

		got, err := svc.GetLoanByID(user.ID, loan.ID)
		testutil.AssertNoError(t, err)
		if got.Name != name {
			t.Errorf("expected name %q, got %q", name, got.Name)
		}
		testutil.AssertDecimalEqual(t, testutil.Dec(t, "100000"), got.Balance)
	})

	t.Run("manual_default_status", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLoanService(db)
		user := testutil.CreateTestUserWithPlan(t, db, plan.Pro)
		loan := testutil.CreateTestLoan(t, db, user.ID, testutil.Dec(t, "100000"))

		status := models.LoanStatusDefaulted
		_, err := svc.UpdateLoan(user.ID, loan.ID, LoanUpdate{Status: &status})
		testutil.AssertNoError(t, err)

		got, err := svc.GetLoanByID(user.ID, loan.ID)
		testutil.AssertNoError(t, err)
		if got.Status != models.LoanStatusDefaulted {
			t.Errorf("expected defaulted, got %s", got.Status)
		}
	})
}

func TestDeleteLoan(t *testing.T) {
	t.Run("removes_payments_too", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLoanService(db)
		user := testutil.CreateTestUserWithPlan(t, db, plan.Pro)
		loan := testutil.CreateTestLoan(t, db, user.ID, testutil.Dec(t, "100000"))

		_, err := svc.RecordPayment(user.ID, loan.ID, PaymentInput{
			Amount:             testutil.Dec(t, "10000"),
			PrincipalComponent: testutil.Dec(t, "10000"),
		})
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.DeleteLoan(user.ID, loan.ID))

		var count int64
		testutil.AssertNoError(t, db.Model(&models.LoanPayment{}).Where("loan_id = ?", loan.ID).Count(&count).Error)
		if count != 0 {
			t.Errorf("expected no payments after delete, got %d", count)
		}
	})
}
