package services

import (
	"strings"
	"testing"

	"github.com/jumbenylon/invest/internal/models"
	"github.com/jumbenylon/invest/internal/plan"
	"github.com/jumbenylon/invest/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("creates_user_with_default_portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("Asha@Example.com", "password123", "Asha")
		testutil.AssertNoError(t, err)

		if user.Email != "asha@example.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
		if user.Plan != plan.Free {
			t.Errorf("expected free plan, got %s", user.Plan)
		}

		var portfolio models.Portfolio
		testutil.AssertNoError(t, db.Where("user_id = ? AND is_default = ?", user.ID, true).First(&portfolio).Error)
		if portfolio.Name != "Main Portfolio" {
			t.Errorf("expected Main Portfolio, got %s", portfolio.Name)
		}
		if portfolio.Currency != "TZS" {
			t.Errorf("expected TZS currency, got %s", portfolio.Currency)
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("dup@example.com", "password123", "First")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("DUP@example.com", "password123", "Second")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("password_is_hashed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("hash@example.com", "password123", "Hash")
		testutil.AssertNoError(t, err)

		if strings.Contains(user.Password, "password123") {
			t.Error("password stored in plaintext")
		}
		if !svc.VerifyPassword(user, "password123") {
			t.Error("expected password to verify")
		}
	})
}

func TestAttemptLogin(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		created, err := svc.CreateUser("login@example.com", "password123", "Login")
		testutil.AssertNoError(t, err)

		user, err := svc.AttemptLogin("login@example.com", "password123")
		testutil.AssertNoError(t, err)
		if user.ID != created.ID {
			t.Error("expected same user")
		}
	})

	t.Run("unknown_email_and_bad_password_look_alike", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("real@example.com", "password123", "Real")
		testutil.AssertNoError(t, err)

		_, err = svc.AttemptLogin("nobody@example.com", "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")

		_, err = svc.AttemptLogin("real@example.com", "wrongpassword")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}

func TestGenerateAPIKey(t *testing.T) {
	t.Run("enterprise_gets_key", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUserWithPlan(t, db, plan.Enterprise)

		key, err := svc.GenerateAPIKey(user.ID)
		testutil.AssertNoError(t, err)

		if !strings.HasPrefix(key, "inv_") {
			t.Errorf("expected inv_ prefix, got %s", key)
		}

		// Only the hash lands in storage.
		var stored models.User
		testutil.AssertNoError(t, db.First(&stored, "id = ?", user.ID).Error)
		if stored.APIKeyHash == nil || *stored.APIKeyHash == key {
			t.Error("expected hashed key in storage")
		}
	})

	t.Run("free_plan_blocked", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.GenerateAPIKey(user.ID)
		testutil.AssertAppError(t, err, "QUOTA_EXCEEDED")
	})

	t.Run("regeneration_replaces_key", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUserWithPlan(t, db, plan.Enterprise)

		key1, err := svc.GenerateAPIKey(user.ID)
		testutil.AssertNoError(t, err)
		key2, err := svc.GenerateAPIKey(user.ID)
		testutil.AssertNoError(t, err)

		if key1 == key2 {
			t.Error("expected a fresh key on regeneration")
		}
	})
}
