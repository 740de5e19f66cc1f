package model

import (
	"time"

	"gorm.io/gorm"
)

type SupplierStatus string
type LegalType string

const (
	SupplierStatusPending   SupplierStatus = "pending"
	SupplierStatusVerified  SupplierStatus = "verified"
	SupplierStatusRejected  SupplierStatus = "rejected"
	SupplierStatusSuspended SupplierStatus = "suspended"

	LegalTypeMipyme LegalType = "mipyme" // small private enterprise
	LegalTypeTCP    LegalType = "tcp"    // trabajador por cuenta propia
)

// Supplier is a proveedor onboarding record. Created at registration with
// pending status, mutated only by an admin verification decision, never
// deleted.
type Supplier struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	BusinessName string         `gorm:"not null" json:"business_name"`
	LegalType    LegalType      `gorm:"type:varchar(20);not null" json:"legal_type"`
	Address      string         `gorm:"type:text" json:"address"`
	OwnerName    string         `gorm:"not null" json:"owner_name"`
	Phone        string         `gorm:"type:varchar(20);not null" json:"phone"`
	// National identity document, 11 digits. Format-checked at registration.
	IdentityDocument string         `gorm:"type:varchar(11);not null;index" json:"identity_document"`
	Status           SupplierStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	RegisteredAt     time.Time      `json:"registered_at"`
	ReviewedAt       *time.Time     `json:"reviewed_at,omitempty"`
	ReviewedBy       *uint          `json:"reviewed_by,omitempty"` // admin user ID
	RejectionReason  string         `gorm:"type:text" json:"rejection_reason,omitempty"`

	// Reputation snapshot shown alongside products.
	FulfillmentRate float64 `gorm:"default:0" json:"fulfillment_rate"` // 0-100
	DispatchHours   int     `gorm:"default:48" json:"dispatch_hours"`  // avg time to dispatch
	TrustScore      float64 `gorm:"default:50" json:"trust_score"`     // 0-100

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Products []Product `gorm:"foreignKey:SupplierID" json:"products,omitempty"`
}

func (Supplier) TableName() string {
	return "suppliers"
}

// IsVerified reports whether the supplier may publish products.
func (s *Supplier) IsVerified() bool {
	return s.Status == SupplierStatusVerified
}
