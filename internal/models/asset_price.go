package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetPrice is one dated price observation for an asset, in the asset's
// currency. Immutable time-series data — no Base embed, no updates.
// The unique index on (asset_id, date) is the storage-level guarantee that
// at most one observation exists per asset and calendar day; the price
// updater relies on it as the safety net for concurrent backfills.
type AssetPrice struct {
	ID      uint            `gorm:"primaryKey" json:"id"`
	AssetID uint            `gorm:"not null;uniqueIndex:uq_asset_prices_asset_date" json:"asset_id"`
	Date    time.Time       `gorm:"type:date;not null;uniqueIndex:uq_asset_prices_asset_date" json:"date"`
	Price   decimal.Decimal `gorm:"type:decimal(18,6);not null" json:"price"`

	Asset Asset `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
}
