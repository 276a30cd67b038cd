package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/marius-hi/go-invest/internal/errors"
	"github.com/marius-hi/go-invest/internal/models"
	"github.com/marius-hi/go-invest/internal/pagination"
)

// positionService handles holdings per user.
type positionService struct {
	db *gorm.DB
}

// NewPositionService creates a new PositionServicer.
func NewPositionService(db *gorm.DB) PositionServicer {
	return &positionService{db: db}
}

// CreatePosition records a holding of an asset for a user.
func (s *positionService) CreatePosition(userID, assetID uint, units, price decimal.Decimal, notes string) (*models.Position, error) {
	if units.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Units must be non-zero")
	}
	if price.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Price must not be negative")
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var asset models.Asset
	if err := s.db.First(&asset, assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAssetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	position := &models.Position{
		UserID:  userID,
		AssetID: assetID,
		Units:   units,
		Price:   price,
		Notes:   notes,
	}
	if err := s.db.Create(position).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	position.Asset = asset
	return position, nil
}

// GetUserPositions returns a user's holdings across all assets.
func (s *positionService) GetUserPositions(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Position], error) {
	page.Defaults()

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	base := s.db.Model(&models.Position{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var positions []models.Position
	err := base.Preload("Asset").Preload("Asset.Currency").
		Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&positions).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(positions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAssetPositions returns the holdings in one asset, optionally narrowed
// to a single user.
func (s *positionService) GetAssetPositions(assetID uint, userID *uint, page pagination.PageRequest) (*pagination.PageResponse[models.Position], error) {
	page.Defaults()

	var asset models.Asset
	if err := s.db.First(&asset, assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAssetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	base := s.db.Model(&models.Position{}).Where("asset_id = ?", assetID)
	if userID != nil {
		base = base.Where("user_id = ?", *userID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var positions []models.Position
	err := base.Preload("User").Order("created_at DESC").
		Scopes(pagination.Paginate(page)).Find(&positions).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(positions, page.Page, page.PageSize, totalItems)
	return &result, nil
}
