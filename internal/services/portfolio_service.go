package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/jumbenylon/invest/internal/errors"
	"github.com/jumbenylon/invest/internal/models"
	"github.com/jumbenylon/invest/internal/plan"
)

// portfolioService handles portfolio-related business logic.
type portfolioService struct {
	db *gorm.DB
}

// NewPortfolioService creates a new PortfolioServicer.
func NewPortfolioService(db *gorm.DB) PortfolioServicer {
	return &portfolioService{db: db}
}

// CreatePortfolio creates an additional portfolio for the user. The default
// portfolio is created at registration; anything beyond it is gated on the
// multi-portfolio plan flag. The count happens right before the insert, in a
// separate step (accepted single-session race, see the quota design notes).
func (s *portfolioService) CreatePortfolio(userID string, userPlan plan.Plan, name, currency string) (*models.Portfolio, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Portfolio name is required")
	}
	if currency == "" {
		currency = "TZS"
	}

	var count int64
	if err := s.db.Model(&models.Portfolio{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !plan.CanAddPortfolio(userPlan, int(count)) {
		return nil, apperrors.WithMessage(apperrors.ErrQuotaExceeded, "Multiple portfolios require an Enterprise plan. Upgrade now.")
	}

	portfolio := &models.Portfolio{
		UserID:   userID,
		Name:     name,
		Currency: currency,
	}

	if err := s.db.Create(portfolio).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return portfolio, nil
}

// GetUserPortfolios returns all the user's portfolios, default first.
func (s *portfolioService) GetUserPortfolios(userID string) ([]models.Portfolio, error) {
	var portfolios []models.Portfolio
	if err := s.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC").
		Find(&portfolios).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return portfolios, nil
}

// GetPortfolioByID returns a portfolio if it belongs to the user.
func (s *portfolioService) GetPortfolioByID(userID, portfolioID string) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	if err := s.db.Where("id = ? AND user_id = ?", portfolioID, userID).First(&portfolio).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPortfolioNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &portfolio, nil
}

// GetDefaultPortfolio returns the user's default portfolio.
func (s *portfolioService) GetDefaultPortfolio(userID string) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	if err := s.db.Where("user_id = ?", userID).
		Order("is_default DESC").
		First(&portfolio).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPortfolioNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &portfolio, nil
}

// UpdatePortfolio renames a portfolio.
func (s *portfolioService) UpdatePortfolio(userID, portfolioID, name string) (*models.Portfolio, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Portfolio name is required")
	}

	portfolio, err := s.GetPortfolioByID(userID, portfolioID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(portfolio).Update("name", name).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return portfolio, nil
}

// DeletePortfolio removes a non-default portfolio.
func (s *portfolioService) DeletePortfolio(userID, portfolioID string) error {
	portfolio, err := s.GetPortfolioByID(userID, portfolioID)
	if err != nil {
		return err
	}
	if portfolio.IsDefault {
		return apperrors.ErrDefaultPortfolio
	}

	if err := s.db.Delete(portfolio).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return nil
}
