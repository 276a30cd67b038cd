package models

import "github.com/shopspring/decimal"

// Position represents a user's holding in an asset: a number of units
// acquired at a given price per unit (in the asset's currency).
type Position struct {
	Base
	UserID  uint            `gorm:"not null;index" json:"user_id"`
	AssetID uint            `gorm:"not null;index" json:"asset_id"`
	Units   decimal.Decimal `gorm:"type:decimal(18,6);not null" json:"units"`
	Price   decimal.Decimal `gorm:"type:decimal(18,6);not null" json:"price"`
	Notes   string          `json:"notes,omitempty"`

	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Asset Asset `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
}
