package repository

import (
	"time"

	"github.com/mivitrina/mivitrina-backend/internal/app/model"
	"github.com/mivitrina/mivitrina-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExchangeRateRepository interface {
	Upsert(rate *model.ExchangeRate) error
	FindLatest(currency model.Currency) (*model.ExchangeRate, error)
	FindByDate(currency model.Currency, date string) (*model.ExchangeRate, error)
	FindHistory(currency model.Currency, days int) ([]model.ExchangeRate, error)
}

type exchangeRateRepository struct {
	db *gorm.DB
}

func NewExchangeRateRepository(db *gorm.DB) ExchangeRateRepository {
	return &exchangeRateRepository{db: db}
}

// Upsert replaces the rate for the same currency and date instead of
// stacking duplicate rows when the refresh job runs more than once a day.
func (r *exchangeRateRepository) Upsert(rate *model.ExchangeRate) error {
	logger.Debug("Upserting exchange rate", map[string]interface{}{
		"currency": rate.Currency,
		"rate_cup": rate.RateCUP,
	})

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "currency"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"rate_cup", "source", "updated_at"}),
	}).Create(rate).Error
	if err != nil {
		logger.Error("Failed to upsert exchange rate", err, map[string]interface{}{
			"currency": rate.Currency,
		})
		return err
	}
	return nil
}

func (r *exchangeRateRepository) FindLatest(currency model.Currency) (*model.ExchangeRate, error) {
	var rate model.ExchangeRate
	if err := r.db.Where("currency = ?", currency).
		Order("date DESC").
		First(&rate).Error; err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *exchangeRateRepository) FindByDate(currency model.Currency, date string) (*model.ExchangeRate, error) {
	var rate model.ExchangeRate
	if err := r.db.Where("currency = ? AND date = ?", currency, date).
		First(&rate).Error; err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *exchangeRateRepository) FindHistory(currency model.Currency, days int) ([]model.ExchangeRate, error) {
	var rates []model.ExchangeRate
	since := time.Now().AddDate(0, 0, -days).Format("2006-01-02")
	if err := r.db.Where("currency = ? AND date >= ?", currency, since).
		Order("date ASC").
		Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}
