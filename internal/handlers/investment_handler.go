package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/jumbenylon/invest/internal/errors"
	"github.com/jumbenylon/invest/internal/models"
	"github.com/jumbenylon/invest/internal/services"
)

// InvestmentHandler handles investment-related requests.
type InvestmentHandler struct {
	investmentService services.InvestmentServicer
}

// NewInvestmentHandler creates a new InvestmentHandler.
func NewInvestmentHandler(investmentService services.InvestmentServicer) *InvestmentHandler {
	return &InvestmentHandler{investmentService: investmentService}
}

// CreateInvestmentRequest represents the request payload for adding a holding.
type CreateInvestmentRequest struct {
	PortfolioID  string               `json:"portfolio_id" binding:"required,uuid"`
	Category     models.AssetCategory `json:"category" binding:"required,asset_category"`
	Symbol       string               `json:"symbol" binding:"max=20"`
	Name         string               `json:"name" binding:"required,min=1,max=150"`
	Quantity     decimal.Decimal      `json:"quantity" binding:"required"`
	BuyPrice     decimal.Decimal      `json:"buy_price" binding:"required"`
	CurrentPrice *decimal.Decimal     `json:"current_price"`
	BuyDate      *string              `json:"buy_date"`
	Notes        string               `json:"notes" binding:"max=1000"`
}

// UpdateInvestmentRequest represents the request payload for editing a holding.
type UpdateInvestmentRequest struct {
	Quantity     *decimal.Decimal `json:"quantity"`
	BuyPrice     *decimal.Decimal `json:"buy_price"`
	CurrentPrice *decimal.Decimal `json:"current_price"`
	BuyDate      *string          `json:"buy_date"`
	Notes        *string          `json:"notes" binding:"omitempty,max=1000"`
}

func parseOptionalDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := parseFlexibleTime(*value)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid date format, use RFC3339 or YYYY-MM-DD")
	}
	return &t, nil
}

// CreateInvestment handles adding a holding.
// @Summary     Add an investment
// @Description Add a holding to a portfolio, subject to the plan's asset limit
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateInvestmentRequest true "Holding details"
// @Success     201 {object} models.Investment "Investment created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Asset limit reached"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments [post]
func (h *InvestmentHandler) CreateInvestment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	userPlan, err := getPlan(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	buyDate, err := parseOptionalDate(req.BuyDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investment, err := h.investmentService.AddInvestment(userID, userPlan, services.InvestmentInput{
		PortfolioID:  req.PortfolioID,
		Category:     req.Category,
		Symbol:       req.Symbol,
		Name:         req.Name,
		Quantity:     req.Quantity,
		BuyPrice:     req.BuyPrice,
		CurrentPrice: req.CurrentPrice,
		BuyDate:      buyDate,
		Notes:        req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"investment": investment})
}

// GetInvestments handles listing holdings.
// @Summary     Get investments
// @Description Get all holdings, optionally filtered by portfolio, with live prices overlaid
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Param       portfolio_id query string false "Filter by portfolio ID"
// @Success     200 {object} map[string]interface{} "Investments"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments [get]
func (h *InvestmentHandler) GetInvestments(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var portfolioID *string
	if v := c.Query("portfolio_id"); v != "" {
		portfolioID = &v
	}

	investments, err := h.investmentService.ListInvestments(userID, portfolioID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"investments": investments})
}

// GetInvestment handles fetching a single holding.
// @Summary     Get an investment
// @Description Get a holding by ID
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Investment ID"
// @Success     200 {object} models.Investment "Investment"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments/{id} [get]
func (h *InvestmentHandler) GetInvestment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	investment, err := h.investmentService.GetInvestmentByID(userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"investment": investment})
}

// UpdateInvestment handles editing a holding.
// @Summary     Update an investment
// @Description Edit a holding's quantity, prices, buy date, or notes
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                  true "Investment ID"
// @Param       request body UpdateInvestmentRequest true "Fields to update"
// @Success     200 {object} models.Investment "Investment updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments/{id} [put]
func (h *InvestmentHandler) UpdateInvestment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	buyDate, err := parseOptionalDate(req.BuyDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investment, err := h.investmentService.UpdateInvestment(userID, id, services.InvestmentUpdate{
		Quantity:     req.Quantity,
		BuyPrice:     req.BuyPrice,
		CurrentPrice: req.CurrentPrice,
		BuyDate:      buyDate,
		Notes:        req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"investment": investment})
}

// DeleteInvestment handles removing a holding.
// @Summary     Delete an investment
// @Description Remove a holding
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Investment ID"
// @Success     204 "Investment deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments/{id} [delete]
func (h *InvestmentHandler) DeleteInvestment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.investmentService.DeleteInvestment(userID, id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetSummary handles the portfolio valuation summary.
// @Summary     Get portfolio summary
// @Description Aggregate valuation across all holdings with per-category breakdown
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.PortfolioSummary "Valuation summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments/summary [get]
func (h *InvestmentHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.investmentService.GetPortfolioSummary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
