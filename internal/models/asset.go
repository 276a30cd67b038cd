package models

// AssetType represents the kind of tradable instrument.
type AssetType string

const (
	AssetTypeBond      AssetType = "bond"
	AssetTypeCommodity AssetType = "commodity"
	AssetTypeFund      AssetType = "fund"
	AssetTypeFX        AssetType = "fx"
	AssetTypeIndex     AssetType = "index"
	AssetTypeStock     AssetType = "stock"
)

// Asset represents a trackable financial instrument. ISIN and Symbol are
// required once persisted; Marketwatch is an optional external ticker alias
// used when fetching quotes.
type Asset struct {
	Base
	ISIN        string    `gorm:"column:isin;size:12;not null;uniqueIndex" json:"isin"`
	Name        string    `gorm:"not null" json:"name"`
	Symbol      string    `gorm:"size:20;not null" json:"symbol"`
	Type        AssetType `gorm:"not null" json:"type"`
	CurrencyID  uint      `gorm:"not null" json:"currency_id"`
	Country     string    `gorm:"size:2" json:"country,omitempty"`
	URL         string    `json:"url,omitempty"`
	Marketwatch string    `gorm:"size:40" json:"marketwatch,omitempty"`
	Notes       string    `json:"notes,omitempty"`

	// Relationships. An asset owns its price history; deleting the asset
	// removes the prices with it.
	Currency Currency     `gorm:"foreignKey:CurrencyID" json:"currency"`
	Prices   []AssetPrice `gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE" json:"prices,omitempty"`
}
