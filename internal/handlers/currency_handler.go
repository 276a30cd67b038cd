package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/marius-hi/go-invest/internal/errors"
	"github.com/marius-hi/go-invest/internal/pagination"
	"github.com/marius-hi/go-invest/internal/services"
)

// CurrencyHandler handles currency-related requests.
type CurrencyHandler struct {
	currencyService services.CurrencyServicer
}

// NewCurrencyHandler creates a new CurrencyHandler.
func NewCurrencyHandler(currencyService services.CurrencyServicer) *CurrencyHandler {
	return &CurrencyHandler{currencyService: currencyService}
}

// CreateCurrencyRequest represents the request payload for adding a currency.
type CreateCurrencyRequest struct {
	Code    string `json:"code" binding:"required,iso4217"`
	IsinUSD string `json:"isin_usd" binding:"omitempty,isin"`
}

// CreateCurrency handles adding a new currency.
// @Summary     Create currency
// @Description Add a new ISO 4217 currency, optionally with the ISIN of its USD cross-pair
// @Tags        currencies
// @Accept      json
// @Produce     json
// @Param       request body CreateCurrencyRequest true "Currency details"
// @Success     201 {object} models.Currency "Currency created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate code"
// @Router      /currencies [post]
func (h *CurrencyHandler) CreateCurrency(c *gin.Context) {
	var req CreateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	currency, err := h.currencyService.CreateCurrency(req.Code, req.IsinUSD)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"currency": currency})
}

// ListCurrencies handles listing all currencies.
// @Summary     List currencies
// @Description Get a paginated list of all currencies ordered by code
// @Tags        currencies
// @Produce     json
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 25, max 200)"
// @Success     200 {object} pagination.PageResponse[models.Currency] "Paginated currencies"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /currencies [get]
func (h *CurrencyHandler) ListCurrencies(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.currencyService.ListCurrencies(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCurrency handles retrieving a specific currency.
// @Summary     Get currency by ID
// @Description Get a specific currency by ID
// @Tags        currencies
// @Produce     json
// @Param       id path int true "Currency ID"
// @Success     200 {object} models.Currency "Currency details"
// @Failure     404 {object} ErrorResponse "Currency not found"
// @Router      /currencies/{id} [get]
func (h *CurrencyHandler) GetCurrency(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	currency, err := h.currencyService.GetCurrencyByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"currency": currency})
}

// DeleteCurrency handles deleting a currency.
// @Summary     Delete currency
// @Description Delete a currency; blocked while assets reference it
// @Tags        currencies
// @Produce     json
// @Param       id path int true "Currency ID"
// @Success     200 {object} map[string]string "Deleted"
// @Failure     404 {object} ErrorResponse "Currency not found"
// @Failure     409 {object} ErrorResponse "Currency referenced by assets"
// @Router      /currencies/{id} [delete]
func (h *CurrencyHandler) DeleteCurrency(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.currencyService.DeleteCurrency(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
