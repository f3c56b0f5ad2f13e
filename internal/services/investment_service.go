package services

import (
	"errors"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/jumbenylon/invest/internal/errors"
	"github.com/jumbenylon/invest/internal/logger"
	"github.com/jumbenylon/invest/internal/market"
	"github.com/jumbenylon/invest/internal/models"
	"github.com/jumbenylon/invest/internal/plan"
)

// investmentService handles investment holdings and their valuation.
type investmentService struct {
	db               *gorm.DB
	portfolioService PortfolioServicer
	prices           market.PriceProvider
}

// NewInvestmentService creates a new InvestmentServicer.
func NewInvestmentService(db *gorm.DB, portfolioService PortfolioServicer, prices market.PriceProvider) InvestmentServicer {
	return &investmentService{db: db, portfolioService: portfolioService, prices: prices}
}

// AddInvestment adds a new holding. The asset quota is checked against the
// caller's current holding count immediately before the insert; check and
// insert are separate steps, not a serialized unit.
func (s *investmentService) AddInvestment(userID string, userPlan plan.Plan, input InvestmentInput) (*models.Investment, error) {
	switch input.Category {
	case models.AssetCategoryDSE, models.AssetCategoryUTT, models.AssetCategoryVehicle,
		models.AssetCategoryLand, models.AssetCategoryCash, models.AssetCategoryBond,
		models.AssetCategoryOther:
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown asset category")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Name is required")
	}
	if input.Quantity.Sign() < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Quantity cannot be negative")
	}
	if input.BuyPrice.Sign() < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Buy price cannot be negative")
	}

	// Verify portfolio exists and belongs to the caller.
	if _, err := s.portfolioService.GetPortfolioByID(userID, input.PortfolioID); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.Investment{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !plan.CanAddAsset(userPlan, int(count)) {
		return nil, apperrors.WithMessage(apperrors.ErrQuotaExceeded, "Asset limit reached. Upgrade to Pro for unlimited assets.")
	}

	currentPrice := input.BuyPrice
	if input.CurrentPrice != nil {
		currentPrice = *input.CurrentPrice
	}

	investment := &models.Investment{
		PortfolioID:  input.PortfolioID,
		UserID:       userID,
		Category:     input.Category,
		Symbol:       input.Symbol,
		Name:         input.Name,
		Quantity:     input.Quantity,
		BuyPrice:     input.BuyPrice,
		CurrentPrice: currentPrice,
		BuyDate:      input.BuyDate,
		Notes:        input.Notes,
	}

	if err := s.db.Create(investment).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return investment, nil
}

// ListInvestments returns the user's holdings, optionally filtered by
// portfolio, with live market prices overlaid for tradable categories.
func (s *investmentService) ListInvestments(userID string, portfolioID *string) ([]models.Investment, error) {
	q := s.db.Where("user_id = ?", userID)
	if portfolioID != nil {
		q = q.Where("portfolio_id = ?", *portfolioID)
	}

	var investments []models.Investment
	if err := q.Order("category, name").Find(&investments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.enrichPrices(investments)
	return investments, nil
}

// enrichPrices overlays the latest market price onto DSE and UTT holdings
// for this read only; the overlay is never written back. Symbols the
// provider does not recognize keep their persisted fallback price. Provider
// failures degrade to the persisted prices rather than failing the read.
func (s *investmentService) enrichPrices(investments []models.Investment) {
	byKind := map[market.Kind][]string{}
	for i := range investments {
		inv := &investments[i]
		if !inv.Category.Tradable() || inv.Symbol == "" {
			continue
		}
		kind := market.Kind(inv.Category)
		byKind[kind] = append(byKind[kind], inv.Symbol)
	}

	for kind, symbols := range byKind {
		prices, err := s.prices.LatestPrices(kind, symbols)
		if err != nil {
			logger.Get().Warnw("price lookup failed, using persisted prices",
				"kind", string(kind), "error", err.Error())
			continue
		}
		for i := range investments {
			inv := &investments[i]
			if market.Kind(inv.Category) != kind {
				continue
			}
			if price, ok := prices[inv.Symbol]; ok {
				inv.CurrentPrice = price
			}
		}
	}
}

// GetInvestmentByID returns a holding if it belongs to the user.
func (s *investmentService) GetInvestmentByID(userID, investmentID string) (*models.Investment, error) {
	var investment models.Investment
	if err := s.db.Where("id = ? AND user_id = ?", investmentID, userID).First(&investment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvestmentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &investment, nil
}

// UpdateInvestment edits a holding's mutable fields.
func (s *investmentService) UpdateInvestment(userID, investmentID string, update InvestmentUpdate) (*models.Investment, error) {
	investment, err := s.GetInvestmentByID(userID, investmentID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if update.Quantity != nil {
		if update.Quantity.Sign() < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Quantity cannot be negative")
		}
		updates["quantity"] = *update.Quantity
	}
	if update.BuyPrice != nil {
		if update.BuyPrice.Sign() < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Buy price cannot be negative")
		}
		updates["buy_price"] = *update.BuyPrice
	}
	if update.CurrentPrice != nil {
		if update.CurrentPrice.Sign() < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Current price cannot be negative")
		}
		updates["current_price"] = *update.CurrentPrice
	}
	if update.BuyDate != nil {
		updates["buy_date"] = *update.BuyDate
	}
	if update.Notes != nil {
		updates["notes"] = *update.Notes
	}

	if len(updates) > 0 {
		if err := s.db.Model(investment).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return investment, nil
}

// DeleteInvestment removes a holding.
func (s *investmentService) DeleteInvestment(userID, investmentID string) error {
	investment, err := s.GetInvestmentByID(userID, investmentID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(investment).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return nil
}

// summarize folds holdings into the valuation aggregate. Decimal addition is
// exact, so the totals do not depend on iteration order.
func summarize(investments []models.Investment) *PortfolioSummary {
	summary := &PortfolioSummary{
		TotalValue:  decimal.Zero,
		TotalCost:   decimal.Zero,
		GainLoss:    decimal.Zero,
		TotalAssets: len(investments),
	}

	byCategory := map[models.AssetCategory]decimal.Decimal{}
	for i := range investments {
		inv := &investments[i]
		value := inv.Value()
		summary.TotalValue = summary.TotalValue.Add(value)
		summary.TotalCost = summary.TotalCost.Add(inv.Cost())
		byCategory[inv.Category] = byCategory[inv.Category].Add(value)
	}

	summary.GainLoss = summary.TotalValue.Sub(summary.TotalCost)
	if summary.TotalCost.Sign() > 0 {
		pct, _ := summary.GainLoss.Div(summary.TotalCost).Mul(decimal.NewFromInt(100)).Float64()
		summary.GainLossPct = pct
	}

	summary.Breakdown = make([]CategoryValue, 0, len(byCategory))
	for category, value := range byCategory {
		summary.Breakdown = append(summary.Breakdown, CategoryValue{Category: category, Value: value})
	}
	sort.Slice(summary.Breakdown, func(i, j int) bool {
		return summary.Breakdown[i].Category < summary.Breakdown[j].Category
	})

	return summary
}

// GetPortfolioSummary aggregates valuation across all the user's holdings
// using persisted prices. Recomputed fresh on every call.
func (s *investmentService) GetPortfolioSummary(userID string) (*PortfolioSummary, error) {
	var investments []models.Investment
	if err := s.db.Where("user_id = ?", userID).Find(&investments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return summarize(investments), nil
}
