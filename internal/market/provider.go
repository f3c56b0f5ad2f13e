// Package market defines the price source for tradable asset categories.
// DSE listings quote a last-trade price and UTT funds quote a NAV; both are
// maintained externally and only read here.
package market

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jumbenylon/invest/internal/models"
)

// Kind selects which market a symbol belongs to.
type Kind string

// Supported market kinds.
const (
	KindDSE Kind = "DSE"
	KindUTT Kind = "UTT"
)

// PriceProvider supplies the latest observed value per symbol for a market
// kind. Symbols the provider does not recognize are simply absent from the
// result; consumers fall back to their own persisted price.
type PriceProvider interface {
	LatestPrices(kind Kind, symbols []string) (map[string]decimal.Decimal, error)
}

// dbProvider reads the market reference tables populated by the external
// ingestion pipeline.
type dbProvider struct {
	db *gorm.DB
}

// NewDBProvider creates a PriceProvider backed by the dse_stocks and
// utt_funds tables.
func NewDBProvider(db *gorm.DB) PriceProvider {
	return &dbProvider{db: db}
}

// LatestPrices returns the latest known value for each recognized symbol.
func (p *dbProvider) LatestPrices(kind Kind, symbols []string) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal, len(symbols))
	if len(symbols) == 0 {
		return prices, nil
	}

	switch kind {
	case KindDSE:
		var stocks []models.DSEStock
		if err := p.db.Where("symbol IN ?", symbols).Find(&stocks).Error; err != nil {
			return nil, err
		}
		for _, s := range stocks {
			prices[s.Symbol] = s.LastPrice
		}
	case KindUTT:
		var funds []models.UTTFund
		if err := p.db.Where("symbol IN ?", symbols).Find(&funds).Error; err != nil {
			return nil, err
		}
		for _, f := range funds {
			prices[f.Symbol] = f.NAV
		}
	}

	return prices, nil
}
