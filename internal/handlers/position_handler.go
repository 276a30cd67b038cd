package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/marius-hi/go-invest/internal/errors"
	"github.com/marius-hi/go-invest/internal/pagination"
	"github.com/marius-hi/go-invest/internal/services"
)

// PositionHandler handles holdings-related requests.
type PositionHandler struct {
	positionService services.PositionServicer
}

// NewPositionHandler creates a new PositionHandler.
func NewPositionHandler(positionService services.PositionServicer) *PositionHandler {
	return &PositionHandler{positionService: positionService}
}

// CreatePositionRequest represents the request payload for recording a holding.
type CreatePositionRequest struct {
	UserID  uint            `json:"user_id" binding:"required"`
	AssetID uint            `json:"asset_id" binding:"required"`
	Units   decimal.Decimal `json:"units" binding:"required"`
	Price   decimal.Decimal `json:"price" binding:"required"`
	Notes   string          `json:"notes,omitempty"`
}

// CreatePosition handles recording a holding.
// @Summary     Create position
// @Description Record a user's holding in an asset
// @Tags        positions
// @Accept      json
// @Produce     json
// @Param       request body CreatePositionRequest true "Position details"
// @Success     201 {object} models.Position "Position created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "User or asset not found"
// @Router      /positions [post]
func (h *PositionHandler) CreatePosition(c *gin.Context) {
	var req CreatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	position, err := h.positionService.CreatePosition(req.UserID, req.AssetID, req.Units, req.Price, req.Notes)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"position": position})
}

// GetUserPositions handles listing a user's holdings.
// @Summary     List user positions
// @Description Get a user's holdings across all assets (paginated)
// @Tags        positions
// @Produce     json
// @Param       id        path  int true "User ID"
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 25, max 200)"
// @Success     200 {object} pagination.PageResponse[models.Position] "Paginated positions"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id}/positions [get]
func (h *PositionHandler) GetUserPositions(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.positionService.GetUserPositions(id, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAssetPositions handles listing the holdings in one asset.
// @Summary     List asset positions
// @Description Get holdings in an asset, optionally filtered by user (paginated)
// @Tags        positions
// @Produce     json
// @Param       id        path  int true "Asset ID"
// @Param       user_id   query int false "Only this user's positions"
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 25, max 200)"
// @Success     200 {object} pagination.PageResponse[models.Position] "Paginated positions"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Router      /assets/{id}/positions [get]
func (h *PositionHandler) GetAssetPositions(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var userID *uint
	if raw := c.Query("user_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid user_id"))
			return
		}
		u := uint(parsed)
		userID = &u
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.positionService.GetAssetPositions(id, userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
