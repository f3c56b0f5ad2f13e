package models

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// GoalStatus represents the lifecycle state of a savings goal.
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusPaused    GoalStatus = "paused"
)

// Goal represents a savings goal. CurrentAmount grows through deposits; the
// goal auto-completes when it reaches TargetAmount and never auto-reverts.
type Goal struct {
	Base
	UserID        string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string          `gorm:"not null" json:"name"`
	TargetAmount  decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"target_amount"`
	CurrentAmount decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"current_amount"`
	TargetDate    *time.Time      `json:"target_date,omitempty"`
	Category      string          `gorm:"not null;default:'General'" json:"category"`
	Icon          string          `json:"icon,omitempty"`
	Color         string          `gorm:"not null;default:'#ff1a66'" json:"color"`
	Status        GoalStatus      `gorm:"not null;default:'active'" json:"status"`
}

// ProgressPct returns saved progress as a percentage clamped to [0, 100].
// A non-positive target reads as 0%.
func (g *Goal) ProgressPct() float64 {
	if g.TargetAmount.Sign() <= 0 {
		return 0
	}
	pct, _ := g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Float64()
	return math.Min(100, pct)
}

// DaysLeft returns the whole days remaining until the target date, rounded
// up, or nil when no target date is set. Negative values mean the goal is
// overdue; that is display information only and has no status side effect.
func (g *Goal) DaysLeft(now time.Time) *int {
	if g.TargetDate == nil {
		return nil
	}
	days := int(math.Ceil(g.TargetDate.Sub(now).Hours() / 24))
	return &days
}
