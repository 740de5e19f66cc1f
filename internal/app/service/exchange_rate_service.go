package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mivitrina/mivitrina-backend/internal/app/model"
	"github.com/mivitrina/mivitrina-backend/internal/app/repository"
	"github.com/mivitrina/mivitrina-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrRateNotFound         = errors.New("exchange rate not found")
	ErrRateSourceConfigured = errors.New("rate source not configured")
)

// RateFetcher pulls the day's informal market rates from an external
// tracker.
type RateFetcher interface {
	FetchRates() (map[model.Currency]float64, error)
}

type ExchangeRateService interface {
	RecordRate(currency model.Currency, rateCUP float64, source string) (*model.ExchangeRate, error)
	GetLatest(currency model.Currency) (*model.ExchangeRate, error)
	GetHistory(currency model.Currency, days int) ([]model.ExchangeRate, error)
	ConvertToCUP(amount float64, currency model.Currency) (float64, error)
	RefreshFromSource() (int, error)
}

type exchangeRateService struct {
	rateRepo repository.ExchangeRateRepository
	fetcher  RateFetcher
}

func NewExchangeRateService(rateRepo repository.ExchangeRateRepository) ExchangeRateService {
	return &exchangeRateService{rateRepo: rateRepo}
}

// NewExchangeRateServiceWithFetcher wires an external source for the daily
// refresh job.
func NewExchangeRateServiceWithFetcher(rateRepo repository.ExchangeRateRepository, fetcher RateFetcher) ExchangeRateService {
	return &exchangeRateService{rateRepo: rateRepo, fetcher: fetcher}
}

// RecordRate stores today's informal rate for a currency. Re-recording the
// same day overwrites.
func (s *exchangeRateService) RecordRate(currency model.Currency, rateCUP float64, source string) (*model.ExchangeRate, error) {
	rate := &model.ExchangeRate{
		Currency: currency,
		Date:     time.Now().Format("2006-01-02"),
		RateCUP:  rateCUP,
		Source:   source,
	}
	if err := s.rateRepo.Upsert(rate); err != nil {
		return nil, err
	}

	logger.Info("Exchange rate recorded", map[string]interface{}{
		"currency": currency,
		"rate_cup": rateCUP,
		"source":   source,
	})
	return rate, nil
}

func (s *exchangeRateService) GetLatest(currency model.Currency) (*model.ExchangeRate, error) {
	rate, err := s.rateRepo.FindLatest(currency)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRateNotFound
		}
		return nil, err
	}
	return rate, nil
}

func (s *exchangeRateService) GetHistory(currency model.Currency, days int) ([]model.ExchangeRate, error) {
	if days <= 0 {
		days = 30
	}
	return s.rateRepo.FindHistory(currency, days)
}

func (s *exchangeRateService) ConvertToCUP(amount float64, currency model.Currency) (float64, error) {
	if currency == model.CurrencyCUP {
		return amount, nil
	}
	rate, err := s.GetLatest(currency)
	if err != nil {
		return 0, err
	}
	return amount * rate.RateCUP, nil
}

// RefreshFromSource records today's rates from the configured external
// tracker. Returns how many currencies were updated.
func (s *exchangeRateService) RefreshFromSource() (int, error) {
	if s.fetcher == nil {
		return 0, ErrRateSourceConfigured
	}

	rates, err := s.fetcher.FetchRates()
	if err != nil {
		logger.Error("Failed to fetch rates from external source", err, nil)
		return 0, err
	}

	updated := 0
	for currency, rateCUP := range rates {
		if rateCUP <= 0 {
			continue
		}
		if _, err := s.RecordRate(currency, rateCUP, "informal-market-api"); err != nil {
			logger.Error("Failed to store fetched rate", err, map[string]interface{}{
				"currency": currency,
			})
			continue
		}
		updated++
	}

	logger.Info("Exchange rates refreshed from source", map[string]interface{}{
		"updated": updated,
	})
	return updated, nil
}

// DefaultRateFetcher pulls informal market rates from an external
// tracker (elTOQUE-style JSON endpoint).
type DefaultRateFetcher struct {
	apiURL string
}

// NewDefaultRateFetcher creates a fetcher pointed at the given endpoint.
func NewDefaultRateFetcher(apiURL string) *DefaultRateFetcher {
	return &DefaultRateFetcher{
		apiURL: apiURL,
	}
}

// RateAPIResponse mirrors the tracker's response payload. Rates are
// quoted in CUP per unit of each hard currency.
type RateAPIResponse struct {
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"tasas"`
}

// FetchRates calls the external tracker and maps its payload onto the
// currencies the marketplace quotes.
func (f *DefaultRateFetcher) FetchRates() (map[model.Currency]float64, error) {
	if f.apiURL == "" {
		return nil, errors.New("rate API URL is not configured")
	}

	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	req, err := http.NewRequest("GET", f.apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call rate API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("rate API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var apiResponse RateAPIResponse
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return nil, fmt.Errorf("failed to parse rate API response: %w", err)
	}

	rates := make(map[model.Currency]float64)
	for symbol, value := range apiResponse.Rates {
		switch symbol {
		case "USD":
			rates[model.CurrencyUSD] = value
		case "MLC":
			rates[model.CurrencyMLC] = value
		}
	}

	if len(rates) == 0 {
		return nil, errors.New("rate API response contained no usable rates")
	}

	return rates, nil
}
