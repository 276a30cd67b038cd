package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/marius-hi/go-invest/internal/errors"
	"github.com/marius-hi/go-invest/internal/models"
	"github.com/marius-hi/go-invest/internal/pagination"
)

// assetService handles asset-related business logic.
type assetService struct {
	db *gorm.DB
}

// NewAssetService creates a new AssetServicer.
func NewAssetService(db *gorm.DB) AssetServicer {
	return &assetService{db: db}
}

// CreateAsset registers a new asset. ISIN, name, and symbol are required;
// the referenced currency must exist.
func (s *assetService) CreateAsset(input AssetInput) (*models.Asset, error) {
	if strings.TrimSpace(input.ISIN) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "ISIN is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Name is required")
	}
	if strings.TrimSpace(input.Symbol) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Symbol is required")
	}

	var currency models.Currency
	if err := s.db.First(&currency, input.CurrencyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCurrencyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	asset := &models.Asset{
		ISIN:        strings.ToUpper(strings.TrimSpace(input.ISIN)),
		Name:        strings.TrimSpace(input.Name),
		Symbol:      strings.TrimSpace(input.Symbol),
		Type:        input.Type,
		CurrencyID:  currency.ID,
		Country:     strings.ToUpper(input.Country),
		URL:         input.URL,
		Marketwatch: input.Marketwatch,
		Notes:       input.Notes,
	}

	if err := s.db.Create(asset).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrDuplicateAsset
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	asset.Currency = currency
	return asset, nil
}

// GetAssetByID returns an asset with its currency and latest stored price.
func (s *assetService) GetAssetByID(id uint) (*AssetWithPrice, error) {
	var asset models.Asset
	if err := s.db.Preload("Currency").First(&asset, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAssetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := &AssetWithPrice{Asset: asset}

	var price models.AssetPrice
	err := s.db.Where("asset_id = ?", id).Order("date DESC").First(&price).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err == nil {
		result.LatestPrice = &price
	}

	return result, nil
}

// ListAssets returns a paginated list of assets ordered by name, each with
// its latest stored price attached.
func (s *assetService) ListAssets(page pagination.PageRequest) (*pagination.PageResponse[AssetWithPrice], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Asset{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var assets []models.Asset
	err := s.db.Preload("Currency").Order("name ASC").
		Scopes(pagination.Paginate(page)).Find(&assets).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	latest, err := s.latestPricesFor(assets)
	if err != nil {
		return nil, err
	}

	withPrices := make([]AssetWithPrice, len(assets))
	for i, asset := range assets {
		withPrices[i] = AssetWithPrice{Asset: asset, LatestPrice: latest[asset.ID]}
	}

	result := pagination.NewPageResponse(withPrices, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// latestPricesFor loads the newest price row per asset in one query.
func (s *assetService) latestPricesFor(assets []models.Asset) (map[uint]*models.AssetPrice, error) {
	if len(assets) == 0 {
		return map[uint]*models.AssetPrice{}, nil
	}

	ids := make([]uint, len(assets))
	for i, a := range assets {
		ids[i] = a.ID
	}

	var prices []models.AssetPrice
	err := s.db.
		Where("asset_id IN ?", ids).
		Where("(asset_id, date) IN (?)",
			s.db.Model(&models.AssetPrice{}).
				Select("asset_id, MAX(date)").
				Where("asset_id IN ?", ids).
				Group("asset_id")).
		Find(&prices).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	latest := make(map[uint]*models.AssetPrice, len(prices))
	for i := range prices {
		latest[prices[i].AssetID] = &prices[i]
	}
	return latest, nil
}

// DeleteAsset removes an asset and its price history in one transaction.
// Deletion is blocked while positions reference the asset.
func (s *assetService) DeleteAsset(id uint) error {
	var asset models.Asset
	if err := s.db.First(&asset, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrAssetNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var positions int64
	if err := s.db.Model(&models.Position{}).Where("asset_id = ?", id).Count(&positions).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if positions > 0 {
		return apperrors.ErrAssetInUse
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("asset_id = ?", id).Delete(&models.AssetPrice{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(&asset).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
