package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DSEStock is reference data for a Dar es Salaam Stock Exchange listing.
// Rows are maintained by an external ingestion pipeline; the API only reads
// them. Keyed by symbol rather than a surrogate ID.
type DSEStock struct {
	Symbol    string          `gorm:"primaryKey" json:"symbol"`
	Name      string          `gorm:"not null" json:"name"`
	Sector    string          `json:"sector,omitempty"`
	LastPrice decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"last_price"`
	ChangePct float64         `json:"change_pct"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// UTTFund is reference data for a unit trust fund; NAV is the per-unit price.
type UTTFund struct {
	Symbol    string          `gorm:"primaryKey" json:"symbol"`
	Name      string          `gorm:"not null" json:"name"`
	Manager   string          `json:"manager,omitempty"`
	NAV       decimal.Decimal `gorm:"column:nav;type:decimal(20,4);not null" json:"nav"`
	UpdatedAt time.Time       `json:"updated_at"`
}
