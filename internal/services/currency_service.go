package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/marius-hi/go-invest/internal/errors"
	"github.com/marius-hi/go-invest/internal/models"
	"github.com/marius-hi/go-invest/internal/pagination"
)

// currencyService handles currency-related business logic.
type currencyService struct {
	db *gorm.DB
}

// NewCurrencyService creates a new CurrencyServicer.
func NewCurrencyService(db *gorm.DB) CurrencyServicer {
	return &currencyService{db: db}
}

// CreateCurrency registers a new ISO 4217 currency.
func (s *currencyService) CreateCurrency(code, isinUSD string) (*models.Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Currency code is required")
	}

	currency := &models.Currency{
		Code:    code,
		IsinUSD: strings.ToUpper(strings.TrimSpace(isinUSD)),
	}

	if err := s.db.Create(currency).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrDuplicateCurrency
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return currency, nil
}

// GetCurrencyByID returns a currency by its ID.
func (s *currencyService) GetCurrencyByID(id uint) (*models.Currency, error) {
	var currency models.Currency
	if err := s.db.First(&currency, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCurrencyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &currency, nil
}

// ListCurrencies returns a paginated list of currencies ordered by code.
func (s *currencyService) ListCurrencies(page pagination.PageRequest) (*pagination.PageResponse[models.Currency], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Currency{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var currencies []models.Currency
	err := s.db.Order("code ASC").Scopes(pagination.Paginate(page)).Find(&currencies).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(currencies, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// DeleteCurrency removes a currency. Deletion is blocked while any asset
// references it, so assets are never left pointing at a missing currency.
func (s *currencyService) DeleteCurrency(id uint) error {
	var currency models.Currency
	if err := s.db.First(&currency, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCurrencyNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var assets int64
	if err := s.db.Model(&models.Asset{}).Where("currency_id = ?", id).Count(&assets).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if assets > 0 {
		return apperrors.ErrCurrencyInUse
	}

	if err := s.db.Delete(&currency).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
