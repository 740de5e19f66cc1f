package model

import (
	"time"

	"gorm.io/gorm"
)

// ExchangeRate is the informal market rate of one currency against CUP on a
// given day. Payout totals across currencies are normalized with the latest
// rate; order amounts are never converted.
type ExchangeRate struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Currency  Currency       `gorm:"type:varchar(3);not null;index:idx_rate_currency_date,unique" json:"currency"`
	Date      string         `gorm:"type:varchar(10);not null;index:idx_rate_currency_date,unique" json:"date"` // YYYY-MM-DD
	RateCUP   float64        `gorm:"not null" json:"rate_cup"`                                                  // 1 unit in CUP
	Source    string         `gorm:"type:varchar(50)" json:"source"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ExchangeRate) TableName() string {
	return "exchange_rates"
}
