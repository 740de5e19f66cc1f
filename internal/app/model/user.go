package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleCustomer  UserRole = "customer"  // end buyer
	RoleGestor    UserRole = "gestor"    // reseller / storefront operator
	RoleProveedor UserRole = "proveedor" // wholesale supplier
	RoleAdmin     UserRole = "admin"
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Phone        string         `gorm:"type:varchar(20)" json:"phone"` // normalized +53 format
	Role         UserRole       `gorm:"type:varchar(20);default:'customer'" json:"role"`
	SupplierID   *uint          `gorm:"index" json:"supplier_id,omitempty"` // set for proveedor accounts
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Supplier *Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Stores   []Store   `gorm:"foreignKey:OwnerID" json:"stores,omitempty"`
}

func (User) TableName() string {
	return "users"
}
