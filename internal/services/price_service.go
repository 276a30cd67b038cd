package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/marius-hi/go-invest/internal/errors"
	"github.com/marius-hi/go-invest/internal/logger"
	"github.com/marius-hi/go-invest/internal/models"
	"github.com/marius-hi/go-invest/internal/pagination"
	"github.com/marius-hi/go-invest/internal/pricesource"
)

// priceService implements the price gap detection and backfill workflow.
// It is stateless between invocations; all persistent state lives in the
// asset_prices table.
type priceService struct {
	db     *gorm.DB
	source pricesource.Source
	now    func() time.Time
}

// NewPriceService creates a new PriceServicer backed by the given quote source.
func NewPriceService(db *gorm.DB, source pricesource.Source) PriceServicer {
	return &priceService{db: db, source: source, now: time.Now}
}

// LatestPrice returns the most recent stored price for the asset, or nil
// when no price history exists.
func (s *priceService) LatestPrice(assetID uint) (*models.AssetPrice, error) {
	var price models.AssetPrice
	err := s.db.Where("asset_id = ?", assetID).Order("date DESC").First(&price).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &price, nil
}

// ComputeFetchRange determines the day range missing from the asset's price
// history: the day after the latest stored price through today, or one year
// back when the asset has no prices yet. The result is empty when the latest
// price is already dated today.
func (s *priceService) ComputeFetchRange(assetID uint) (pricesource.DateRange, error) {
	today := pricesource.Day(s.now())

	latest, err := s.LatestPrice(assetID)
	if err != nil {
		return pricesource.DateRange{}, err
	}

	var start time.Time
	if latest != nil {
		start = pricesource.Day(latest.Date).AddDate(0, 0, 1)
	} else {
		// Bootstrap policy: backfill one year of history for a new asset.
		start = today.AddDate(-1, 0, 0)
	}

	return pricesource.DateRange{Start: start, End: today}, nil
}

// UpdatePrices brings the asset's stored price history up to date. Already
// stored dates and observations outside the computed range are rejected;
// everything accepted is committed in a single transaction, and the count of
// rows actually added is returned. The operation never retries: the caller
// re-invoking it is the recovery path, which the per-date dedup makes safe.
func (s *priceService) UpdatePrices(ctx context.Context, assetID uint) (int, error) {
	var asset models.Asset
	if err := s.db.Preload("Currency").First(&asset, assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.ErrAssetNotFound
		}
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	fetchRange, err := s.ComputeFetchRange(assetID)
	if err != nil {
		return 0, err
	}
	if fetchRange.Empty() {
		// Already up to date; do not contact the quote source.
		return 0, nil
	}

	identifier := quoteIdentifier(&asset)
	if identifier == "" {
		return 0, apperrors.ErrAssetNotFetchable
	}

	observations, err := s.source.Fetch(ctx, identifier, fetchRange)
	if err != nil {
		// Surface the source's own message; the caller shows it to the user.
		return 0, apperrors.WithMessage(apperrors.Wrap(apperrors.ErrPriceFetchFailed, err), err.Error())
	}

	accepted, rejected, err := s.filterObservations(assetID, fetchRange, observations)
	if err != nil {
		return 0, err
	}
	if rejected > 0 {
		logger.Get().Debugw("rejected price observations",
			"asset_id", assetID, "symbol", asset.Symbol, "rejected", rejected)
	}
	if len(accepted) == 0 {
		return 0, nil
	}

	// All or nothing: a failure inside the batch must not leave a partial
	// set of rows behind. The unique index on (asset_id, date) turns a
	// concurrent backfill or a vendor-duplicated date into a rollback.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&accepted).Error; err != nil {
			if isUniqueConstraintError(err) {
				return apperrors.Wrap(apperrors.ErrPriceConflict, err)
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Get().Infow("price history updated",
		"asset_id", assetID, "symbol", asset.Symbol,
		"range", fetchRange.String(), "added", len(accepted))
	return len(accepted), nil
}

// filterObservations drops observations outside the requested range and
// those whose (asset, date) pair already has a stored row. The range is a
// contract boundary, not a hint; a stored value is never overwritten even
// when the source reports a different price for that date.
func (s *priceService) filterObservations(assetID uint, r pricesource.DateRange, observations []pricesource.Observation) ([]models.AssetPrice, int, error) {
	var existing []models.AssetPrice
	err := s.db.Where("asset_id = ? AND date >= ? AND date <= ?", assetID, r.Start, r.End).
		Find(&existing).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	stored := make(map[string]bool, len(existing))
	for _, p := range existing {
		stored[dayKey(p.Date)] = true
	}

	var accepted []models.AssetPrice
	rejected := 0
	for _, obs := range observations {
		day := pricesource.Day(obs.Date)
		if !r.Contains(day) || stored[dayKey(day)] {
			rejected++
			continue
		}
		accepted = append(accepted, models.AssetPrice{
			AssetID: assetID,
			Date:    day,
			Price:   obs.Price,
		})
	}
	return accepted, rejected, nil
}

// GetPriceHistory returns paginated price history for an asset within a date
// range, newest first.
func (s *priceService) GetPriceHistory(assetID uint, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.AssetPrice], error) {
	page.Defaults()

	base := s.db.Model(&models.AssetPrice{}).
		Where("asset_id = ? AND date >= ? AND date <= ?", assetID, pricesource.Day(from), pricesource.Day(to))

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var prices []models.AssetPrice
	if err := base.Order("date DESC").Scopes(pagination.Paginate(page)).Find(&prices).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(prices, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// quoteIdentifier resolves the identifier sent to the quote source: the
// marketwatch alias when set, the currency's USD cross-pair ISIN for FX
// assets, otherwise the exchange symbol.
func quoteIdentifier(asset *models.Asset) string {
	if asset.Marketwatch != "" {
		return asset.Marketwatch
	}
	if asset.Type == models.AssetTypeFX && asset.Currency.IsinUSD != "" {
		return asset.Currency.IsinUSD
	}
	return asset.Symbol
}

// dayKey formats a date as its canonical map key.
func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// isUniqueConstraintError checks if a GORM error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // SQLite
		strings.Contains(msg, "duplicate key value violates unique constraint") // PostgreSQL
}
