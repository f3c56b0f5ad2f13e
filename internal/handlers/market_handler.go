package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jumbenylon/invest/internal/services"
)

// MarketHandler serves market reference data.
type MarketHandler struct {
	marketService services.MarketServicer
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(marketService services.MarketServicer) *MarketHandler {
	return &MarketHandler{marketService: marketService}
}

// GetDSEStocks handles listing equity market data.
// @Summary     Get DSE stocks
// @Description List Dar es Salaam Stock Exchange listings with optional search and sector filter
// @Tags        market
// @Produce     json
// @Security    BearerAuth
// @Param       search query string false "Search by symbol or name"
// @Param       sector query string false "Filter by sector"
// @Success     200 {object} map[string]interface{} "Stocks and sectors"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /market/dse [get]
func (h *MarketHandler) GetDSEStocks(c *gin.Context) {
	stocks, sectors, err := h.marketService.ListDSEStocks(c.Query("search"), c.Query("sector"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stocks": stocks, "sectors": sectors})
}

// GetUTTFunds handles listing unit trust funds.
// @Summary     Get UTT funds
// @Description List unit trust funds with their latest NAV
// @Tags        market
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Funds"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /market/utt [get]
func (h *MarketHandler) GetUTTFunds(c *gin.Context) {
	funds, err := h.marketService.ListUTTFunds()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"funds": funds})
}
