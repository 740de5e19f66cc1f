package model

import (
	"time"

	"gorm.io/gorm"
)

type PayoutStatus string

const (
	PayoutStatusUnpaid     PayoutStatus = "unpaid"
	PayoutStatusProcessing PayoutStatus = "processing"
	PayoutStatusPaid       PayoutStatus = "paid"
)

// payoutProgression defines the monotonic unpaid → processing → paid order.
var payoutProgression = map[PayoutStatus]PayoutStatus{
	PayoutStatusUnpaid:     PayoutStatusProcessing,
	PayoutStatusProcessing: PayoutStatusPaid,
}

// CanAdvancePayout reports whether a payout may move to the given status.
func CanAdvancePayout(from, to PayoutStatus) bool {
	return payoutProgression[from] == to
}

// Payout is one supplier settlement for one period. Created by the
// settlement scheduler, advanced manually by an admin.
type Payout struct {
	ID         uint         `gorm:"primarykey" json:"id"`
	SupplierID uint         `gorm:"not null;index:idx_payout_supplier_period,unique" json:"supplier_id"`
	Period     string       `gorm:"type:varchar(7);not null;index:idx_payout_supplier_period,unique" json:"period"` // YYYY-MM
	Amount     float64      `gorm:"not null" json:"amount"`                                                         // supplier share after commission
	Currency   Currency     `gorm:"type:varchar(3);default:'CUP'" json:"currency"`
	Status     PayoutStatus `gorm:"type:varchar(20);default:'unpaid';index" json:"status"`
	// Orders delivered in the period but not yet settled when the payout was
	// generated.
	PendingOrders int            `gorm:"default:0" json:"pending_orders"`
	PaidAt        *time.Time     `json:"paid_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Supplier Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
}

func (Payout) TableName() string {
	return "payouts"
}
