package services

import (
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/jumbenylon/invest/internal/errors"
	"github.com/jumbenylon/invest/internal/models"
)

// marketService exposes the market reference tables for browsing.
type marketService struct {
	db *gorm.DB
}

// NewMarketService creates a new MarketServicer.
func NewMarketService(db *gorm.DB) MarketServicer {
	return &marketService{db: db}
}

// ListDSEStocks returns equity listings matching the search term (symbol or
// name, case-insensitive) and sector, plus the distinct sectors for
// building filter UIs.
func (s *marketService) ListDSEStocks(search, sector string) ([]models.DSEStock, []string, error) {
	q := s.db.Model(&models.DSEStock{})
	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + strings.ToUpper(search) + "%"
		q = q.Where("UPPER(symbol) LIKE ? OR UPPER(name) LIKE ?", pattern, pattern)
	}
	if sector = strings.TrimSpace(sector); sector != "" {
		q = q.Where("sector = ?", sector)
	}

	var stocks []models.DSEStock
	if err := q.Order("symbol").Find(&stocks).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var sectors []string
	if err := s.db.Model(&models.DSEStock{}).
		Distinct("sector").
		Where("sector <> ''").
		Order("sector").
		Pluck("sector", &sectors).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return stocks, sectors, nil
}

// ListUTTFunds returns all unit trust funds with their latest NAV.
func (s *marketService) ListUTTFunds() ([]models.UTTFund, error) {
	var funds []models.UTTFund
	if err := s.db.Order("name").Find(&funds).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return funds, nil
}
