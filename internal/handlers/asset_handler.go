package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/marius-hi/go-invest/internal/errors"
	"github.com/marius-hi/go-invest/internal/models"
	"github.com/marius-hi/go-invest/internal/pagination"
	"github.com/marius-hi/go-invest/internal/services"
)

// AssetHandler handles asset-related requests.
type AssetHandler struct {
	assetService services.AssetServicer
	priceService services.PriceServicer
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(assetService services.AssetServicer, priceService services.PriceServicer) *AssetHandler {
	return &AssetHandler{assetService: assetService, priceService: priceService}
}

// CreateAssetRequest represents the request payload for registering an asset.
type CreateAssetRequest struct {
	ISIN        string           `json:"isin" binding:"required,isin"`
	Name        string           `json:"name" binding:"required,min=1,max=200"`
	Symbol      string           `json:"symbol" binding:"required,min=1,max=20"`
	Type        models.AssetType `json:"type" binding:"required,asset_type"`
	CurrencyID  uint             `json:"currency_id" binding:"required"`
	Country     string           `json:"country" binding:"omitempty,country_code"`
	URL         string           `json:"url" binding:"omitempty,url"`
	Marketwatch string           `json:"marketwatch,omitempty"`
	Notes       string           `json:"notes,omitempty"`
}

// CreateAsset handles registering a new asset.
// @Summary     Create asset
// @Description Register a new tradable asset
// @Tags        assets
// @Accept      json
// @Produce     json
// @Param       request body CreateAssetRequest true "Asset details"
// @Success     201 {object} models.Asset "Asset created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Currency not found"
// @Failure     409 {object} ErrorResponse "Duplicate ISIN"
// @Router      /assets [post]
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	asset, err := h.assetService.CreateAsset(services.AssetInput{
		ISIN:        req.ISIN,
		Name:        req.Name,
		Symbol:      req.Symbol,
		Type:        req.Type,
		CurrencyID:  req.CurrencyID,
		Country:     req.Country,
		URL:         req.URL,
		Marketwatch: req.Marketwatch,
		Notes:       req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"asset": asset})
}

// ListAssets handles listing all assets with their latest prices.
// @Summary     List assets
// @Description Get a paginated list of all assets, each with its latest stored price
// @Tags        assets
// @Produce     json
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 25, max 200)"
// @Success     200 {object} pagination.PageResponse[services.AssetWithPrice] "Paginated assets"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /assets [get]
func (h *AssetHandler) ListAssets(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.assetService.ListAssets(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAsset handles retrieving a specific asset.
// @Summary     Get asset by ID
// @Description Get a specific asset with its latest stored price
// @Tags        assets
// @Produce     json
// @Param       id path int true "Asset ID"
// @Success     200 {object} services.AssetWithPrice "Asset details"
// @Failure     400 {object} ErrorResponse "Invalid asset ID"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Router      /assets/{id} [get]
func (h *AssetHandler) GetAsset(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	asset, err := h.assetService.GetAssetByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"asset": asset})
}

// DeleteAsset handles deleting an asset and its price history.
// @Summary     Delete asset
// @Description Delete an asset and its price history; blocked while positions reference it
// @Tags        assets
// @Produce     json
// @Param       id path int true "Asset ID"
// @Success     200 {object} map[string]string "Deleted"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     409 {object} ErrorResponse "Asset has positions"
// @Router      /assets/{id} [delete]
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.assetService.DeleteAsset(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

// UpdatePrices handles triggering the price backfill for an asset.
// @Summary     Update prices
// @Description Fetch missing daily prices for the asset from the quote source and store them
// @Tags        assets
// @Produce     json
// @Param       id path int true "Asset ID"
// @Success     200 {object} map[string]int "Count of prices added"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     409 {object} ErrorResponse "Conflicting price records"
// @Failure     422 {object} ErrorResponse "Asset has no quote identifier"
// @Failure     502 {object} ErrorResponse "Quote source failure"
// @Router      /assets/{id}/prices/update [post]
func (h *AssetHandler) UpdatePrices(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	count, err := h.priceService.UpdatePrices(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"prices_updated": count})
}

// GetPriceHistory handles retrieving price history for an asset.
// @Summary     Get price history
// @Description Get stored daily prices for an asset within a date range (paginated, newest first)
// @Tags        assets
// @Produce     json
// @Param       id        path  int    true "Asset ID"
// @Param       from_date query string true "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string true "End date (RFC3339 or YYYY-MM-DD)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 25, max 200)"
// @Success     200 {object} pagination.PageResponse[models.AssetPrice] "Paginated prices"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /assets/{id}/prices [get]
func (h *AssetHandler) GetPriceHistory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	fromStr := c.Query("from_date")
	if fromStr == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "from_date is required"))
		return
	}
	from, err := parseFlexibleTime(fromStr)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	toStr := c.Query("to_date")
	if toStr == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "to_date is required"))
		return
	}
	to, err := parseFlexibleTime(toStr)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.priceService.GetPriceHistory(id, from, to, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
