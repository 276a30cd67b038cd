package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/marius-hi/go-invest/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestCurrency creates a currency with a unique code.
func CreateTestCurrency(t *testing.T, db *gorm.DB) *models.Currency {
	t.Helper()

	// Cycle through a fixed alphabet so codes stay three letters.
	n := nextID()
	code := fmt.Sprintf("X%c%c", 'A'+(n/26)%26, 'A'+n%26)
	return CreateTestCurrencyWithCode(t, db, code)
}

// CreateTestCurrencyWithCode creates a currency with the given code.
func CreateTestCurrencyWithCode(t *testing.T, db *gorm.DB, code string) *models.Currency {
	t.Helper()

	currency := &models.Currency{Code: code}
	if err := db.Create(currency).Error; err != nil {
		t.Fatalf("failed to create test currency: %v", err)
	}
	return currency
}

// CreateTestAsset creates a stock asset with a unique ISIN and symbol.
func CreateTestAsset(t *testing.T, db *gorm.DB, currencyID uint) *models.Asset {
	t.Helper()

	n := nextID()
	asset := &models.Asset{
		ISIN:       fmt.Sprintf("XS%010d", n),
		Name:       fmt.Sprintf("Test Asset %d", n),
		Symbol:     fmt.Sprintf("TST%d", n),
		Type:       models.AssetTypeStock,
		CurrencyID: currencyID,
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test asset: %v", err)
	}
	return asset
}

// CreateTestAssetPrice stores a price for the asset on the given day.
func CreateTestAssetPrice(t *testing.T, db *gorm.DB, assetID uint, date time.Time, price string) *models.AssetPrice {
	t.Helper()

	p := &models.AssetPrice{
		AssetID: assetID,
		Date:    time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		Price:   decimal.RequireFromString(price),
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to create test asset price: %v", err)
	}
	return p
}

// CreateTestUser creates a user with a unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	n := nextID()
	user := &models.User{
		Email: fmt.Sprintf("user%d@test.com", n),
		Name:  fmt.Sprintf("Test User %d", n),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestPosition creates a holding of ten units at a hundred each.
func CreateTestPosition(t *testing.T, db *gorm.DB, userID, assetID uint) *models.Position {
	t.Helper()

	position := &models.Position{
		UserID:  userID,
		AssetID: assetID,
		Units:   decimal.NewFromInt(10),
		Price:   decimal.NewFromInt(100),
	}
	if err := db.Create(position).Error; err != nil {
		t.Fatalf("failed to create test position: %v", err)
	}
	return position
}
