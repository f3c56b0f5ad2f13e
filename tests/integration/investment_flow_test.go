package integration

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/jumbenylon/invest/internal/plan"
	"github.com/jumbenylon/invest/internal/testutil"
)

func TestInvestmentQuotaFlow(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "investor@example.com")
	portfolioID := app.defaultPortfolioID(t, token)

	// Free tier allows five holdings.
	for i := 0; i < 5; i++ {
		body := fmt.Sprintf(`{"portfolio_id":%q,"category":"OTHER","name":"Asset %d","quantity":"1","buy_price":"1000"}`, portfolioID, i)
		rec := app.request("POST", "/api/v1/investments", body, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("investment %d failed: %d %s", i, rec.Code, rec.Body.String())
		}
	}

	body := fmt.Sprintf(`{"portfolio_id":%q,"category":"OTHER","name":"Sixth","quantity":"1","buy_price":"1000"}`, portfolioID)
	rec := app.request("POST", "/api/v1/investments", body, token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 at the asset limit, got %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	errObj := result["error"].(map[string]interface{})
	if errObj["code"] != "QUOTA_EXCEEDED" {
		t.Errorf("expected QUOTA_EXCEEDED, got %v", errObj["code"])
	}
}

func TestInvestmentPriceEnrichmentFlow(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "trader@example.com")
	portfolioID := app.defaultPortfolioID(t, token)

	testutil.CreateTestDSEStock(t, app.DB, "CRDB", testutil.Dec(t, "720"))

	body := fmt.Sprintf(`{"portfolio_id":%q,"category":"DSE","symbol":"CRDB","name":"CRDB Bank","quantity":"100","buy_price":"500"}`, portfolioID)
	rec := app.request("POST", "/api/v1/investments", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("investment create failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/investments", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list failed: %d", rec.Code)
	}
	investments := parseJSON(t, rec)["investments"].([]interface{})
	if len(investments) != 1 {
		t.Fatalf("expected 1 investment, got %d", len(investments))
	}
	inv := investments[0].(map[string]interface{})
	if inv["current_price"].(string) != "720" {
		t.Errorf("expected live price 720, got %v", inv["current_price"])
	}
}

func TestDashboardFlow(t *testing.T) {
	app := setupApp(t)
	token, userID := app.registerUser(t, "overview@example.com")
	proToken := app.upgradeUser(t, userID, plan.Pro)
	portfolioID := app.defaultPortfolioID(t, token)

	// Holding valued at 5,000,000 from its persisted price.
	body := fmt.Sprintf(`{"portfolio_id":%q,"category":"DSE","symbol":"NMB","name":"NMB Bank","quantity":"10000","buy_price":"400","current_price":"500"}`, portfolioID)
	rec := app.request("POST", "/api/v1/investments", body, proToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("investment failed: %d %s", rec.Code, rec.Body.String())
	}

	today := time.Now().Format("2006-01-02")
	for _, tx := range []string{
		fmt.Sprintf(`{"date":%q,"description":"Salary","amount":"1200000","type":"income"}`, today),
		fmt.Sprintf(`{"date":%q,"description":"Rent","amount":"400000","type":"expense"}`, today),
	} {
		rec = app.request("POST", "/api/v1/transactions", tx, proToken)
		if rec.Code != http.StatusCreated {
			t.Fatalf("transaction failed: %d %s", rec.Code, rec.Body.String())
		}
	}

	// Active debt of 800,000.
	loanBody := fmt.Sprintf(`{"name":"Debt","principal":"800000","start_date":%q}`, today)
	rec = app.request("POST", "/api/v1/loans", loanBody, proToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("loan failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/dashboard", "", proToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard failed: %d %s", rec.Code, rec.Body.String())
	}
	dashboard := parseJSON(t, rec)

	if dashboard["net_worth"].(string) != "5000000" {
		t.Errorf("expected net worth 5000000, got %v", dashboard["net_worth"])
	}
	cashflow := dashboard["cashflow"].(map[string]interface{})
	if cashflow["monthly_income"].(string) != "1200000" {
		t.Errorf("expected income 1200000, got %v", cashflow["monthly_income"])
	}
	recent := dashboard["recent_transactions"].([]interface{})
	if len(recent) != 2 {
		t.Errorf("expected 2 recent transactions, got %d", len(recent))
	}
}
