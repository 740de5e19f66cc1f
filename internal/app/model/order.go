package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string
type DeliveryMethod string
type PaymentMethod string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusReadyForPickup OrderStatus = "ready_for_pickup"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusDelivered      OrderStatus = "delivered" // terminal
	OrderStatusCancelled      OrderStatus = "cancelled" // terminal
	OrderStatusDisputed       OrderStatus = "disputed"

	DeliveryMethodPickup   DeliveryMethod = "pickup"
	DeliveryMethodDelivery DeliveryMethod = "delivery"

	PaymentCash        PaymentMethod = "cash"
	PaymentTransfer    PaymentMethod = "transfer"     // transferencia móvil
	PaymentMLCTransfer PaymentMethod = "mlc_transfer" // external-currency card
	PaymentCrypto      PaymentMethod = "crypto"
)

// ValidPaymentMethod reports whether the value is a known payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCash, PaymentTransfer, PaymentMLCTransfer, PaymentCrypto:
		return true
	}
	return false
}

// orderTransitions is the forward-only lifecycle graph. Cancelled and
// disputed are reachable from any non-terminal state; a dispute resolves to
// delivered or cancelled.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:        {OrderStatusConfirmed, OrderStatusCancelled, OrderStatusDisputed},
	OrderStatusConfirmed:      {OrderStatusPreparing, OrderStatusCancelled, OrderStatusDisputed},
	OrderStatusPreparing:      {OrderStatusReadyForPickup, OrderStatusShipped, OrderStatusCancelled, OrderStatusDisputed},
	OrderStatusReadyForPickup: {OrderStatusDelivered, OrderStatusCancelled, OrderStatusDisputed},
	OrderStatusShipped:        {OrderStatusDelivered, OrderStatusCancelled, OrderStatusDisputed},
	OrderStatusDisputed:       {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:      {},
	OrderStatusCancelled:      {},
}

// CanTransition reports whether the status graph allows moving from one
// order status to another.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// ValidOrderStatus reports whether the value is a known status.
func ValidOrderStatus(s OrderStatus) bool {
	_, ok := orderTransitions[s]
	return ok
}

type Order struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	Reference     string         `gorm:"type:varchar(36);uniqueIndex" json:"reference"` // public order number
	CustomerID    *uint          `gorm:"index" json:"customer_id,omitempty"`            // nil for guest checkout
	CustomerName  string         `gorm:"not null" json:"customer_name"`
	CustomerPhone string         `gorm:"type:varchar(20);not null" json:"customer_phone"`
	StoreID       uint           `gorm:"not null;index" json:"store_id"`
	SupplierID    uint           `gorm:"not null;index" json:"supplier_id"`
	TotalAmount   float64        `gorm:"not null" json:"total_amount"`
	Currency      Currency       `gorm:"type:varchar(3);default:'CUP'" json:"currency"`
	// Commission is computed once at submission from the store's plan rate
	// and never recomputed, regardless of later catalog edits.
	Commission     float64        `gorm:"not null" json:"commission"`
	Status         OrderStatus    `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	DeliveryMethod DeliveryMethod `gorm:"type:varchar(20);default:'pickup'" json:"delivery_method"`
	PaymentMethod  PaymentMethod  `gorm:"type:varchar(20);default:'cash'" json:"payment_method"`
	DeliveryZone   string         `gorm:"type:varchar(100)" json:"delivery_zone"` // municipality
	Address        string         `gorm:"type:text" json:"address"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Store      Store       `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	Supplier   Supplier    `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem snapshots name and unit price at submission time so historical
// orders survive catalog edits.
type OrderItem struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	OrderID     uint           `gorm:"not null;index" json:"order_id"`
	ProductID   uint           `gorm:"not null;index" json:"product_id"`
	ProductName string         `gorm:"not null" json:"product_name"`
	UnitPrice   float64        `gorm:"not null" json:"unit_price"`
	Quantity    int            `gorm:"not null" json:"quantity"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
