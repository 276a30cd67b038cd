package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/marius-hi/go-invest/internal/errors"
	"github.com/marius-hi/go-invest/internal/models"
	"github.com/marius-hi/go-invest/internal/pagination"
	"github.com/marius-hi/go-invest/internal/services"
)

func newAssetRouter(h *AssetHandler) *gin.Engine {
	router := gin.New()
	router.POST("/assets", h.CreateAsset)
	router.GET("/assets", h.ListAssets)
	router.GET("/assets/:id", h.GetAsset)
	router.DELETE("/assets/:id", h.DeleteAsset)
	router.POST("/assets/:id/prices/update", h.UpdatePrices)
	router.GET("/assets/:id/prices", h.GetPriceHistory)
	return router
}

func performRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeBody(t, w)
	errObj, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error envelope, got %s", w.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

func TestCreateAssetHandler(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		var gotInput services.AssetInput
		assets := &mockAssetService{
			createAssetFn: func(input services.AssetInput) (*models.Asset, error) {
				gotInput = input
				asset := &models.Asset{ISIN: input.ISIN, Name: input.Name, Symbol: input.Symbol, Type: input.Type}
				asset.ID = 1
				return asset, nil
			},
		}
		router := newAssetRouter(NewAssetHandler(assets, &mockPriceService{}))

		w := performRequest(router, http.MethodPost, "/assets",
			`{"isin":"US0378331005","name":"Apple","symbol":"AAPL","type":"stock","currency_id":1,"country":"US"}`)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		if gotInput.ISIN != "US0378331005" || gotInput.Type != models.AssetTypeStock {
			t.Errorf("unexpected input passed to service: %+v", gotInput)
		}
	})

	t.Run("invalid_isin_rejected_by_binding", func(t *testing.T) {
		called := false
		assets := &mockAssetService{
			createAssetFn: func(input services.AssetInput) (*models.Asset, error) {
				called = true
				return nil, nil
			},
		}
		router := newAssetRouter(NewAssetHandler(assets, &mockPriceService{}))

		// Checksum digit is wrong.
		w := performRequest(router, http.MethodPost, "/assets",
			`{"isin":"US0378331009","name":"Apple","symbol":"AAPL","type":"stock","currency_id":1}`)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
		}
		if called {
			t.Error("service must not be called for invalid input")
		}
	})

	t.Run("invalid_asset_type", func(t *testing.T) {
		router := newAssetRouter(NewAssetHandler(&mockAssetService{}, &mockPriceService{}))

		w := performRequest(router, http.MethodPost, "/assets",
			`{"isin":"US0378331005","name":"Apple","symbol":"AAPL","type":"derivative","currency_id":1}`)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("duplicate_maps_to_conflict", func(t *testing.T) {
		assets := &mockAssetService{
			createAssetFn: func(input services.AssetInput) (*models.Asset, error) {
				return nil, apperrors.ErrDuplicateAsset
			},
		}
		router := newAssetRouter(NewAssetHandler(assets, &mockPriceService{}))

		w := performRequest(router, http.MethodPost, "/assets",
			`{"isin":"US0378331005","name":"Apple","symbol":"AAPL","type":"stock","currency_id":1}`)

		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
		if code := errorCode(t, w); code != "DUPLICATE_ASSET" {
			t.Errorf("expected DUPLICATE_ASSET, got %q", code)
		}
	})
}

func TestGetAssetHandler(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		assets := &mockAssetService{
			getAssetByIDFn: func(id uint) (*services.AssetWithPrice, error) {
				asset := models.Asset{Name: "Apple", Symbol: "AAPL"}
				asset.ID = id
				return &services.AssetWithPrice{Asset: asset}, nil
			},
		}
		router := newAssetRouter(NewAssetHandler(assets, &mockPriceService{}))

		w := performRequest(router, http.MethodGet, "/assets/42", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		assets := &mockAssetService{
			getAssetByIDFn: func(id uint) (*services.AssetWithPrice, error) {
				return nil, apperrors.ErrAssetNotFound
			},
		}
		router := newAssetRouter(NewAssetHandler(assets, &mockPriceService{}))

		w := performRequest(router, http.MethodGet, "/assets/42", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("bad_id", func(t *testing.T) {
		router := newAssetRouter(NewAssetHandler(&mockAssetService{}, &mockPriceService{}))

		w := performRequest(router, http.MethodGet, "/assets/abc", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestUpdatePricesHandler(t *testing.T) {
	t.Run("reports_count", func(t *testing.T) {
		prices := &mockPriceService{
			updatePricesFn: func(ctx context.Context, assetID uint) (int, error) {
				if assetID != 7 {
					t.Errorf("expected asset 7, got %d", assetID)
				}
				return 12, nil
			},
		}
		router := newAssetRouter(NewAssetHandler(&mockAssetService{}, prices))

		w := performRequest(router, http.MethodPost, "/assets/7/prices/update", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		body := decodeBody(t, w)
		if body["prices_updated"] != float64(12) {
			t.Errorf("expected prices_updated 12, got %v", body["prices_updated"])
		}
	})

	t.Run("fetch_failure_maps_to_bad_gateway", func(t *testing.T) {
		prices := &mockPriceService{
			updatePricesFn: func(ctx context.Context, assetID uint) (int, error) {
				return 0, apperrors.WithMessage(apperrors.ErrPriceFetchFailed, "MarketWatch: no prices for AAPL: 403")
			},
		}
		router := newAssetRouter(NewAssetHandler(&mockAssetService{}, prices))

		w := performRequest(router, http.MethodPost, "/assets/7/prices/update", "")
		if w.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", w.Code)
		}
		body := decodeBody(t, w)
		errObj := body["error"].(map[string]interface{})
		if errObj["message"] != "MarketWatch: no prices for AAPL: 403" {
			t.Errorf("expected source message passed through, got %v", errObj["message"])
		}
	})

	t.Run("conflict_maps_to_409", func(t *testing.T) {
		prices := &mockPriceService{
			updatePricesFn: func(ctx context.Context, assetID uint) (int, error) {
				return 0, apperrors.ErrPriceConflict
			},
		}
		router := newAssetRouter(NewAssetHandler(&mockAssetService{}, prices))

		w := performRequest(router, http.MethodPost, "/assets/7/prices/update", "")
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("unfetchable_maps_to_422", func(t *testing.T) {
		prices := &mockPriceService{
			updatePricesFn: func(ctx context.Context, assetID uint) (int, error) {
				return 0, apperrors.ErrAssetNotFetchable
			},
		}
		router := newAssetRouter(NewAssetHandler(&mockAssetService{}, prices))

		w := performRequest(router, http.MethodPost, "/assets/7/prices/update", "")
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", w.Code)
		}
	})
}

func TestGetPriceHistoryHandler(t *testing.T) {
	t.Run("passes_dates_and_pagination", func(t *testing.T) {
		var gotFrom, gotTo time.Time
		var gotPage pagination.PageRequest
		prices := &mockPriceService{
			getPriceHistoryFn: func(assetID uint, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.AssetPrice], error) {
				gotFrom, gotTo, gotPage = from, to, page
				resp := pagination.NewPageResponse([]models.AssetPrice{}, page.Page, page.PageSize, 0)
				return &resp, nil
			},
		}
		router := newAssetRouter(NewAssetHandler(&mockAssetService{}, prices))

		w := performRequest(router, http.MethodGet,
			"/assets/7/prices?from_date=2024-05-01&to_date=2024-05-31&page=2&page_size=10", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if gotFrom.Format("2006-01-02") != "2024-05-01" || gotTo.Format("2006-01-02") != "2024-05-31" {
			t.Errorf("unexpected dates: %s, %s", gotFrom, gotTo)
		}
		if gotPage.Page != 2 || gotPage.PageSize != 10 {
			t.Errorf("unexpected pagination: %+v", gotPage)
		}
	})

	t.Run("missing_dates", func(t *testing.T) {
		router := newAssetRouter(NewAssetHandler(&mockAssetService{}, &mockPriceService{}))

		w := performRequest(router, http.MethodGet, "/assets/7/prices?to_date=2024-05-31", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}

		w = performRequest(router, http.MethodGet, "/assets/7/prices?from_date=2024-05-01", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("bad_date_format", func(t *testing.T) {
		router := newAssetRouter(NewAssetHandler(&mockAssetService{}, &mockPriceService{}))

		w := performRequest(router, http.MethodGet, "/assets/7/prices?from_date=05%2F01%2F2024&to_date=2024-05-31", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestDeleteAssetHandler(t *testing.T) {
	t.Run("in_use", func(t *testing.T) {
		assets := &mockAssetService{
			deleteAssetFn: func(id uint) error { return apperrors.ErrAssetInUse },
		}
		router := newAssetRouter(NewAssetHandler(assets, &mockPriceService{}))

		w := performRequest(router, http.MethodDelete, "/assets/3", "")
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
		if code := errorCode(t, w); code != "ASSET_IN_USE" {
			t.Errorf("expected ASSET_IN_USE, got %q", code)
		}
	})

	t.Run("deleted", func(t *testing.T) {
		assets := &mockAssetService{
			deleteAssetFn: func(id uint) error { return nil },
		}
		router := newAssetRouter(NewAssetHandler(assets, &mockPriceService{}))

		w := performRequest(router, http.MethodDelete, "/assets/3", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}
