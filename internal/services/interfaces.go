package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marius-hi/go-invest/internal/models"
	"github.com/marius-hi/go-invest/internal/pagination"
	"github.com/marius-hi/go-invest/internal/pricesource"
)

// AssetInput holds the fields needed to register a new asset.
type AssetInput struct {
	ISIN        string
	Name        string
	Symbol      string
	Type        models.AssetType
	CurrencyID  uint
	Country     string
	URL         string
	Marketwatch string
	Notes       string
}

// AssetWithPrice pairs an asset with its most recent stored price, which may
// be nil when no price history exists yet.
type AssetWithPrice struct {
	models.Asset
	LatestPrice *models.AssetPrice `json:"latest_price,omitempty"`
}

// AssetServicer defines the contract for asset-related business logic.
type AssetServicer interface {
	CreateAsset(input AssetInput) (*models.Asset, error)
	GetAssetByID(id uint) (*AssetWithPrice, error)
	ListAssets(page pagination.PageRequest) (*pagination.PageResponse[AssetWithPrice], error)
	DeleteAsset(id uint) error
}

// CurrencyServicer defines the contract for currency-related business logic.
type CurrencyServicer interface {
	CreateCurrency(code, isinUSD string) (*models.Currency, error)
	GetCurrencyByID(id uint) (*models.Currency, error)
	ListCurrencies(page pagination.PageRequest) (*pagination.PageResponse[models.Currency], error)
	DeleteCurrency(id uint) error
}

// PriceServicer defines the contract for the price backfill workflow and
// price history reads.
type PriceServicer interface {
	// ComputeFetchRange determines the inclusive day range that must be
	// fetched to bring the asset's price history up to date. The range is
	// empty when the latest stored price is already dated today.
	ComputeFetchRange(assetID uint) (pricesource.DateRange, error)

	// UpdatePrices fetches missing observations for the asset and persists
	// them as one atomic batch, returning the number of rows added.
	// Re-running over an overlapping range never duplicates a (asset, date)
	// pair and never errors because of the overlap.
	UpdatePrices(ctx context.Context, assetID uint) (int, error)

	LatestPrice(assetID uint) (*models.AssetPrice, error)
	GetPriceHistory(assetID uint, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.AssetPrice], error)
}

// PositionServicer defines the contract for holdings per user.
type PositionServicer interface {
	CreatePosition(userID, assetID uint, units, price decimal.Decimal, notes string) (*models.Position, error)
	GetUserPositions(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Position], error)
	GetAssetPositions(assetID uint, userID *uint, page pagination.PageRequest) (*pagination.PageResponse[models.Position], error)
}
