package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetCategory classifies an investment holding. DSE (stock exchange
// listings) and UTT (unit trust funds) are the tradable categories whose
// prices come from market data; the rest are user-valued.
type AssetCategory string

const (
	AssetCategoryDSE     AssetCategory = "DSE"
	AssetCategoryUTT     AssetCategory = "UTT"
	AssetCategoryVehicle AssetCategory = "VEHICLE"
	AssetCategoryLand    AssetCategory = "LAND"
	AssetCategoryCash    AssetCategory = "CASH"
	AssetCategoryBond    AssetCategory = "BOND"
	AssetCategoryOther   AssetCategory = "OTHER"
)

// Tradable reports whether the category's price is sourced from market data.
func (c AssetCategory) Tradable() bool {
	return c == AssetCategoryDSE || c == AssetCategoryUTT
}

// Investment represents a holding of a specific asset. CurrentPrice is the
// persisted fallback valuation; for tradable categories the service layer
// overlays the latest market price at read time without writing it back.
type Investment struct {
	Base
	PortfolioID  string          `gorm:"type:uuid;not null;index" json:"portfolio_id"`
	UserID       string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Category     AssetCategory   `gorm:"not null" json:"category"`
	Symbol       string          `json:"symbol,omitempty"`
	Name         string          `gorm:"not null" json:"name"`
	Quantity     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	BuyPrice     decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"buy_price"`
	CurrentPrice decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"current_price"`
	BuyDate      *time.Time      `json:"buy_date,omitempty"`
	Notes        string          `json:"notes,omitempty"`

	// Relationships
	Portfolio Portfolio `gorm:"foreignKey:PortfolioID" json:"portfolio,omitempty"`
}

// Value returns quantity × current price.
func (i *Investment) Value() decimal.Decimal {
	return i.Quantity.Mul(i.CurrentPrice)
}

// Cost returns quantity × buy price.
func (i *Investment) Cost() decimal.Decimal {
	return i.Quantity.Mul(i.BuyPrice)
}
