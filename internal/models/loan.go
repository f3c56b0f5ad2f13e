package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jumbenylon/invest/internal/uuid"

	"gorm.io/gorm"
)

// LoanStatus represents the lifecycle state of a loan.
type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "active"
	LoanStatusPaid      LoanStatus = "paid"
	LoanStatusDefaulted LoanStatus = "defaulted"
)

// Loan represents a tracked debt. Principal is fixed at creation; Balance and
// Status are mutated only as a derived effect of recording payments, with a
// manual status override available through the update endpoint. The invariant
// is balance == max(0, principal − Σ payment principal components), advanced
// incrementally at each payment.
type Loan struct {
	Base
	UserID         string           `gorm:"type:uuid;not null;index" json:"user_id"`
	Name           string           `gorm:"not null" json:"name"`
	Lender         string           `json:"lender,omitempty"`
	Principal      decimal.Decimal  `gorm:"type:decimal(20,2);not null" json:"principal"`
	InterestRate   float64          `gorm:"not null" json:"interest_rate"`
	StartDate      time.Time        `gorm:"not null" json:"start_date"`
	EndDate        *time.Time       `json:"end_date,omitempty"`
	Balance        decimal.Decimal  `gorm:"type:decimal(20,2);not null" json:"balance"`
	MonthlyPayment *decimal.Decimal `gorm:"type:decimal(20,2)" json:"monthly_payment,omitempty"`
	Status         LoanStatus       `gorm:"not null;default:'active'" json:"status"`
	Notes          string           `json:"notes,omitempty"`

	// Relationships
	Payments []LoanPayment `gorm:"foreignKey:LoanID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`
}

// LoanPayment is an append-only amortization ledger row. BalanceAfter
// snapshots the loan balance at recording time. Amount and InterestComponent
// are informational; only PrincipalComponent moves the balance.
// Immutable ledger data: no Base embed, no soft deletes.
type LoanPayment struct {
	ID                 string          `gorm:"type:uuid;primaryKey" json:"id"`
	LoanID             string          `gorm:"type:uuid;not null;index" json:"loan_id"`
	Date               time.Time       `gorm:"not null" json:"date"`
	Amount             decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	PrincipalComponent decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"principal_component"`
	InterestComponent  decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"interest_component"`
	BalanceAfter       decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"balance_after"`
	Notes              string          `json:"notes,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (p *LoanPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New()
	}
	return nil
}
