package model

import (
	"time"

	"gorm.io/gorm"
)

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyCUP Currency = "CUP"
	CurrencyMLC Currency = "MLC"
)

// DefaultMarkup is applied over the wholesale price when a supplier does not
// suggest a retail price at publication time.
const DefaultMarkup = 1.3

// QualityScorePendingReview is assigned to every new product until an admin
// review adjusts it.
const QualityScorePendingReview = 70

type Product struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	Name           string         `gorm:"not null" json:"name"`
	Description    string         `gorm:"type:text" json:"description"`
	WholesalePrice float64        `gorm:"not null" json:"wholesale_price"`
	RetailPrice    float64        `gorm:"not null" json:"retail_price"` // supplier-suggested
	Currency       Currency       `gorm:"type:varchar(3);default:'CUP'" json:"currency"`
	StockQuantity  int            `gorm:"default:0" json:"stock_quantity"`
	Category       string         `gorm:"type:varchar(100);index" json:"category"`
	ImageURL       string         `json:"image_url"`
	QualityScore   int            `gorm:"default:70" json:"quality_score"` // 0-100
	SupplierID     uint           `gorm:"not null;index" json:"supplier_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Supplier   Supplier       `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	OrderItems []OrderItem    `gorm:"foreignKey:ProductID" json:"-"`
	Listings   []StoreProduct `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
