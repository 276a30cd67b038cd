package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "github.com/marius-hi/go-invest/internal/errors"
	"github.com/marius-hi/go-invest/internal/models"
)

func newCurrencyRouter(h *CurrencyHandler) *gin.Engine {
	router := gin.New()
	router.POST("/currencies", h.CreateCurrency)
	router.GET("/currencies", h.ListCurrencies)
	router.GET("/currencies/:id", h.GetCurrency)
	router.DELETE("/currencies/:id", h.DeleteCurrency)
	return router
}

func TestCreateCurrencyHandler(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		currencies := &mockCurrencyService{
			createCurrencyFn: func(code, isinUSD string) (*models.Currency, error) {
				currency := &models.Currency{Code: code, IsinUSD: isinUSD}
				currency.ID = 1
				return currency, nil
			},
		}
		router := newCurrencyRouter(NewCurrencyHandler(currencies))

		w := performRequest(router, http.MethodPost, "/currencies",
			`{"code":"EUR","isin_usd":"EU0009652759"}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects_unknown_iso_code", func(t *testing.T) {
		router := newCurrencyRouter(NewCurrencyHandler(&mockCurrencyService{}))

		w := performRequest(router, http.MethodPost, "/currencies", `{"code":"EURO"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects_bad_usd_pair_isin", func(t *testing.T) {
		router := newCurrencyRouter(NewCurrencyHandler(&mockCurrencyService{}))

		w := performRequest(router, http.MethodPost, "/currencies",
			`{"code":"EUR","isin_usd":"notanisin"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("duplicate_maps_to_conflict", func(t *testing.T) {
		currencies := &mockCurrencyService{
			createCurrencyFn: func(code, isinUSD string) (*models.Currency, error) {
				return nil, apperrors.ErrDuplicateCurrency
			},
		}
		router := newCurrencyRouter(NewCurrencyHandler(currencies))

		w := performRequest(router, http.MethodPost, "/currencies", `{"code":"EUR"}`)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})
}

func TestDeleteCurrencyHandler(t *testing.T) {
	t.Run("in_use", func(t *testing.T) {
		currencies := &mockCurrencyService{
			deleteCurrencyFn: func(id uint) error { return apperrors.ErrCurrencyInUse },
		}
		router := newCurrencyRouter(NewCurrencyHandler(currencies))

		w := performRequest(router, http.MethodDelete, "/currencies/1", "")
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
		if code := errorCode(t, w); code != "CURRENCY_IN_USE" {
			t.Errorf("expected CURRENCY_IN_USE, got %q", code)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		currencies := &mockCurrencyService{
			deleteCurrencyFn: func(id uint) error { return apperrors.ErrCurrencyNotFound },
		}
		router := newCurrencyRouter(NewCurrencyHandler(currencies))

		w := performRequest(router, http.MethodDelete, "/currencies/1", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})
}
