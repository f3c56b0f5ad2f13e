package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome     TransactionType = "income"
	TransactionTypeExpense    TransactionType = "expense"
	TransactionTypeInvestment TransactionType = "investment"
	TransactionTypeRepayment  TransactionType = "repayment"
	TransactionTypeTransfer   TransactionType = "transfer"
)

// Transaction represents a cash movement. Amounts are always positive; the
// type carries the direction. Category is free text (default "General").
type Transaction struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	PortfolioID *string         `gorm:"type:uuid" json:"portfolio_id,omitempty"`
	Date        time.Time       `gorm:"not null" json:"date"`
	Description string          `gorm:"not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Category    string          `gorm:"not null;default:'General'" json:"category"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Reference   string          `json:"reference,omitempty"`
}
