package models

// Currency represents an ISO 4217 currency that assets are quoted in.
// IsinUSD holds the ISIN of the currency pair with USD (e.g. EUR/USD uses
// EU0009652759) and is used when fetching FX rates.
type Currency struct {
	Base
	Code    string `gorm:"size:3;not null;uniqueIndex" json:"code"`
	IsinUSD string `gorm:"size:12" json:"isin_usd,omitempty"`
}
