package models

// Portfolio groups a user's investment holdings. Every user gets a default
// portfolio at registration; additional portfolios are an enterprise plan
// feature.
type Portfolio struct {
	Base
	UserID    string `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string `gorm:"not null" json:"name"`
	Currency  string `gorm:"not null;default:'TZS'" json:"currency"`
	IsDefault bool   `gorm:"default:false" json:"is_default"`

	// Relationships
	Investments []Investment `gorm:"foreignKey:PortfolioID" json:"investments,omitempty"`
}
