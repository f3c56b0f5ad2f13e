package models

import "github.com/jumbenylon/invest/internal/plan"

// User represents the user model in the database. The plan column is the
// authoritative tier; the JWT claim issued at login is a snapshot of it and
// goes stale until a new credential is issued.
type User struct {
	Base
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Name     string    `json:"name"`
	Plan     plan.Plan `gorm:"not null;default:'free'" json:"plan"`
	Role     string    `gorm:"not null;default:'user'" json:"role"`
	IsActive bool      `gorm:"default:true" json:"is_active"`

	// SHA-256 hash of the enterprise API key; the plaintext is shown once
	// at generation and never stored.
	APIKeyHash *string `gorm:"size:64;uniqueIndex" json:"-"`

	// Relationships
	Portfolios   []Portfolio   `gorm:"foreignKey:UserID" json:"portfolios,omitempty"`
	Investments  []Investment  `gorm:"foreignKey:UserID" json:"investments,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
	Loans        []Loan        `gorm:"foreignKey:UserID" json:"loans,omitempty"`
	Goals        []Goal        `gorm:"foreignKey:UserID" json:"goals,omitempty"`
}
