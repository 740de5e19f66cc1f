package service

import (
	"errors"
	"testing"
	"time"

	"github.com/mivitrina/mivitrina-backend/internal/app/model"
	"github.com/mivitrina/mivitrina-backend/internal/app/repository"
	"github.com/mivitrina/mivitrina-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRateFetcher struct {
	rates map[model.Currency]float64
	err   error
}

func (f *stubRateFetcher) FetchRates() (map[model.Currency]float64, error) {
	return f.rates, f.err
}

func setupRateServiceTest(t *testing.T, fetcher RateFetcher) ExchangeRateService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	rateRepo := repository.NewExchangeRateRepository(testDB)
	if fetcher != nil {
		return NewExchangeRateServiceWithFetcher(rateRepo, fetcher)
	}
	return NewExchangeRateService(rateRepo)
}

func TestExchangeRateService_RecordAndGetLatest(t *testing.T) {
	rateService := setupRateServiceTest(t, nil)

	rate, err := rateService.RecordRate(model.CurrencyUSD, 385.0, "manual")
	require.NoError(t, err)
	assert.Equal(t, time.Now().Format("2006-01-02"), rate.Date)

	latest, err := rateService.GetLatest(model.CurrencyUSD)
	require.NoError(t, err)
	assert.Equal(t, 385.0, latest.RateCUP)
	assert.Equal(t, "manual", latest.Source)
}

func TestExchangeRateService_RecordRate_OverwritesSameDay(t *testing.T) {
	rateService := setupRateServiceTest(t, nil)

	_, err := rateService.RecordRate(model.CurrencyUSD, 380.0, "manual")
	require.NoError(t, err)
	_, err = rateService.RecordRate(model.CurrencyUSD, 392.0, "informal-market-api")
	require.NoError(t, err)

	history, err := rateService.GetHistory(model.CurrencyUSD, 7)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 392.0, history[0].RateCUP)
	assert.Equal(t, "informal-market-api", history[0].Source)
}

func TestExchangeRateService_GetLatest_NotFound(t *testing.T) {
	rateService := setupRateServiceTest(t, nil)

	_, err := rateService.GetLatest(model.CurrencyMLC)
	assert.ErrorIs(t, err, ErrRateNotFound)
}

func TestExchangeRateService_ConvertToCUP(t *testing.T) {
	rateService := setupRateServiceTest(t, nil)

	_, err := rateService.RecordRate(model.CurrencyUSD, 400.0, "manual")
	require.NoError(t, err)

	t.Run("converts at the latest rate", func(t *testing.T) {
		amount, err := rateService.ConvertToCUP(12.50, model.CurrencyUSD)
		require.NoError(t, err)
		assert.InDelta(t, 5000.0, amount, 0.001)
	})

	t.Run("CUP passes through untouched", func(t *testing.T) {
		amount, err := rateService.ConvertToCUP(1234.56, model.CurrencyCUP)
		require.NoError(t, err)
		assert.Equal(t, 1234.56, amount)
	})

	t.Run("missing rate surfaces as not found", func(t *testing.T) {
		_, err := rateService.ConvertToCUP(10.0, model.CurrencyMLC)
		assert.ErrorIs(t, err, ErrRateNotFound)
	})
}

func TestExchangeRateService_RefreshFromSource(t *testing.T) {
	t.Run("records every fetched currency", func(t *testing.T) {
		fetcher := &stubRateFetcher{rates: map[model.Currency]float64{
			model.CurrencyUSD: 390.0,
			model.CurrencyMLC: 265.0,
		}}
		rateService := setupRateServiceTest(t, fetcher)

		updated, err := rateService.RefreshFromSource()
		require.NoError(t, err)
		assert.Equal(t, 2, updated)

		usd, err := rateService.GetLatest(model.CurrencyUSD)
		require.NoError(t, err)
		assert.Equal(t, 390.0, usd.RateCUP)
		assert.Equal(t, "informal-market-api", usd.Source)
	})

	t.Run("skips non-positive rates", func(t *testing.T) {
		fetcher := &stubRateFetcher{rates: map[model.Currency]float64{
			model.CurrencyUSD: 390.0,
			model.CurrencyMLC: 0,
		}}
		rateService := setupRateServiceTest(t, fetcher)

		updated, err := rateService.RefreshFromSource()
		require.NoError(t, err)
		assert.Equal(t, 1, updated)

		_, err = rateService.GetLatest(model.CurrencyMLC)
		assert.ErrorIs(t, err, ErrRateNotFound)
	})

	t.Run("propagates fetch failures", func(t *testing.T) {
		fetcher := &stubRateFetcher{err: errors.New("tracker unreachable")}
		rateService := setupRateServiceTest(t, fetcher)

		_, err := rateService.RefreshFromSource()
		assert.Error(t, err)
	})

	t.Run("fails fast without a configured source", func(t *testing.T) {
		rateService := setupRateServiceTest(t, nil)

		_, err := rateService.RefreshFromSource()
		assert.ErrorIs(t, err, ErrRateSourceConfigured)
	})
}
