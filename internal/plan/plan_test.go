package plan

import "testing"

func TestAllowAssets(t *testing.T) {
	tests := []struct {
		name  string
		plan  Plan
		count int
		want  bool
	}{
		{"free_under_limit", Free, 4, true},
		{"free_at_limit", Free, 5, false},
		{"free_over_limit", Free, 6, false},
		{"free_zero", Free, 0, true},
		{"pro_large_count", Pro, 1000000, true},
		{"enterprise_large_count", Enterprise, 1000000, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allow(ResourceAssets, tt.plan, tt.count); got != tt.want {
				t.Errorf("Allow(assets, %s, %d) = %v, want %v", tt.plan, tt.count, got, tt.want)
			}
		})
	}
}

// Allow must be non-increasing in the count for a fixed plan: once a count is
// denied, every larger count is denied too.
func TestAllowMonotonic(t *testing.T) {
	for _, p := range []Plan{Free, Pro, Enterprise} {
		prev := true
		for n := 0; n <= 40; n++ {
			got := Allow(ResourceAssets, p, n)
			if got && !prev {
				t.Fatalf("Allow(assets, %s, %d) flipped back to true", p, n)
			}
			prev = got
		}
	}
}

func TestAllowTransactionsMonthly(t *testing.T) {
	if !Allow(ResourceTransactions, Free, 29) {
		t.Error("free plan should allow the 30th transaction of the month")
	}
	if Allow(ResourceTransactions, Free, 30) {
		t.Error("free plan should deny the 31st transaction of the month")
	}
	if !Allow(ResourceTransactions, Pro, 100000) {
		t.Error("pro plan transactions should be unlimited")
	}
}

func TestLoansGate(t *testing.T) {
	if CanUseLoans(Free) {
		t.Error("free plan must not have loan tracking")
	}
	if !CanUseLoans(Pro) {
		t.Error("pro plan must have loan tracking")
	}
	if !CanUseLoans(Enterprise) {
		t.Error("enterprise plan must have loan tracking")
	}
}

func TestGoalsGate(t *testing.T) {
	if !CanAddGoal(Free, 2) {
		t.Error("free plan should allow a third active goal")
	}
	if CanAddGoal(Free, 3) {
		t.Error("free plan should deny a fourth active goal")
	}
	if !CanAddGoal(Pro, 500) {
		t.Error("pro plan goals should be unlimited")
	}
}

func TestPortfolioGate(t *testing.T) {
	if !CanAddPortfolio(Free, 0) {
		t.Error("every plan gets one portfolio")
	}
	if CanAddPortfolio(Free, 1) {
		t.Error("free plan is single-portfolio")
	}
	if CanAddPortfolio(Pro, 1) {
		t.Error("pro plan is single-portfolio")
	}
	if !CanAddPortfolio(Enterprise, 7) {
		t.Error("enterprise plan is multi-portfolio")
	}
}

func TestAPIAccess(t *testing.T) {
	if HasAPIAccess(Free) || HasAPIAccess(Pro) {
		t.Error("API access is enterprise-only")
	}
	if !HasAPIAccess(Enterprise) {
		t.Error("enterprise plan must have API access")
	}
}

func TestFeaturesUnknownPlan(t *testing.T) {
	l := Features(Plan("platinum"))
	if l != Features(Free) {
		t.Errorf("unknown plan should fall back to free limits, got %+v", l)
	}
}

func TestValid(t *testing.T) {
	for _, p := range []Plan{Free, Pro, Enterprise} {
		if !Valid(p) {
			t.Errorf("Valid(%s) = false", p)
		}
	}
	if Valid(Plan("platinum")) {
		t.Error("Valid(platinum) = true")
	}
}
