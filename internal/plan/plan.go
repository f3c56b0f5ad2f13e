// Package plan defines subscription tiers and their resource limits. The
// limit table is fixed and the checks are pure functions of (plan, current
// count), independent of any other state. Callers evaluate a check
// immediately before the corresponding insert; nothing serializes the two
// steps, so concurrent inserts can land just over a limit.
package plan

// Plan is a subscription tier.
type Plan string

// Known tiers.
const (
	Free       Plan = "free"
	Pro        Plan = "pro"
	Enterprise Plan = "enterprise"
)

// All lists the known tiers in ascending order of capability.
var All = []Plan{Free, Pro, Enterprise}

// Valid reports whether p is a known tier.
func Valid(p Plan) bool {
	switch p {
	case Free, Pro, Enterprise:
		return true
	}
	return false
}

// Resource identifies a quota-gated resource kind.
type Resource string

// Gated resource kinds.
const (
	ResourceAssets       Resource = "assets"
	ResourceTransactions Resource = "transactions"
	ResourceLoans        Resource = "loans"
	ResourceGoals        Resource = "goals"
	ResourcePortfolios   Resource = "portfolios"
)

// Unlimited marks a count limit that never blocks.
const Unlimited = -1

// Limits is the feature set of a tier.
type Limits struct {
	MaxAssets               int  `json:"max_assets"`
	MaxTransactionsPerMonth int  `json:"max_transactions_per_month"`
	LoansEnabled            bool `json:"loans_enabled"`
	MaxActiveGoals          int  `json:"max_active_goals"`
	APIAccess               bool `json:"api_access"`
	MultiPortfolio          bool `json:"multi_portfolio"`
}

var limits = map[Plan]Limits{
	Free: {
		MaxAssets:               5,
		MaxTransactionsPerMonth: 30,
		LoansEnabled:            false,
		MaxActiveGoals:          3,
		APIAccess:               false,
		MultiPortfolio:          false,
	},
	Pro: {
		MaxAssets:               Unlimited,
		MaxTransactionsPerMonth: Unlimited,
		LoansEnabled:            true,
		MaxActiveGoals:          Unlimited,
		APIAccess:               false,
		MultiPortfolio:          false,
	},
	Enterprise: {
		MaxAssets:               Unlimited,
		MaxTransactionsPerMonth: Unlimited,
		LoansEnabled:            true,
		MaxActiveGoals:          Unlimited,
		APIAccess:               true,
		MultiPortfolio:          true,
	},
}

// Prices holds the monthly price per tier in TZS.
var Prices = map[Plan]int{
	Free:       0,
	Pro:        5000,
	Enterprise: 50000,
}

// Labels holds the display name per tier.
var Labels = map[Plan]string{
	Free:       "Free",
	Pro:        "Pro",
	Enterprise: "Enterprise",
}

// Features returns the limit table entry for p. Unknown tiers get the free
// limits, the most restrictive set.
func Features(p Plan) Limits {
	if l, ok := limits[p]; ok {
		return l
	}
	return limits[Free]
}

// withinLimit reports whether one more item fits under limit.
func withinLimit(limit, currentCount int) bool {
	return limit == Unlimited || currentCount < limit
}

// Allow reports whether the plan permits creating one more of the given
// resource, given the current persisted count. For transactions the count is
// the caller's transaction count in the current calendar month; for goals it
// is the active goal count.
func Allow(resource Resource, p Plan, currentCount int) bool {
	l := Features(p)
	switch resource {
	case ResourceAssets:
		return withinLimit(l.MaxAssets, currentCount)
	case ResourceTransactions:
		return withinLimit(l.MaxTransactionsPerMonth, currentCount)
	case ResourceLoans:
		return l.LoansEnabled
	case ResourceGoals:
		return withinLimit(l.MaxActiveGoals, currentCount)
	case ResourcePortfolios:
		return l.MultiPortfolio || currentCount < 1
	}
	return false
}

// CanAddAsset reports whether the plan permits another investment holding.
func CanAddAsset(p Plan, currentCount int) bool {
	return Allow(ResourceAssets, p, currentCount)
}

// CanAddTransaction reports whether the plan permits another transaction this
// calendar month.
func CanAddTransaction(p Plan, monthlyCount int) bool {
	return Allow(ResourceTransactions, p, monthlyCount)
}

// CanUseLoans reports whether the plan includes loan tracking.
func CanUseLoans(p Plan) bool {
	return Features(p).LoansEnabled
}

// CanAddGoal reports whether the plan permits another active savings goal.
func CanAddGoal(p Plan, activeCount int) bool {
	return Allow(ResourceGoals, p, activeCount)
}

// CanAddPortfolio reports whether the plan permits another portfolio beyond
// the default one.
func CanAddPortfolio(p Plan, currentCount int) bool {
	return Allow(ResourcePortfolios, p, currentCount)
}

// HasAPIAccess reports whether the plan includes API-key access.
func HasAPIAccess(p Plan) bool {
	return Features(p).APIAccess
}
