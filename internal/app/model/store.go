package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type PlanTier string

const (
	TierFree  PlanTier = "FREE"
	TierPro   PlanTier = "PRO"
	TierUltra PlanTier = "ULTRA"
)

// Store is a gestor storefront configuration. Stores are never hard-deleted,
// only deactivated.
type Store struct {
	ID           uint     `gorm:"primarykey" json:"id"`
	OwnerID      uint     `gorm:"not null;index" json:"owner_id"`
	Owner        User     `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"owner,omitempty"`
	Name         string   `gorm:"not null" json:"name"`
	Slug         string   `gorm:"uniqueIndex" json:"slug"` // subdomain identifier
	ThemeColor   string   `gorm:"type:varchar(7);default:'#16a34a'" json:"theme_color"`
	ContactPhone string   `gorm:"type:varchar(20)" json:"contact_phone"` // order notification channel
	Tier         PlanTier `gorm:"type:varchar(10);default:'FREE'" json:"tier"`

	// Accepted payment methods. Advisory flags shown at checkout; no gateway
	// is integrated.
	AcceptsCash        bool `gorm:"default:true" json:"accepts_cash"`
	AcceptsTransfer    bool `gorm:"default:false" json:"accepts_transfer"`     // transferencia móvil
	AcceptsMLCTransfer bool `gorm:"default:false" json:"accepts_mlc_transfer"` // external-currency card
	AcceptsCrypto      bool `gorm:"default:false" json:"accepts_crypto"`

	// Municipalities the store delivers to. Used for zone price suggestions.
	DeliveryZones pq.StringArray `gorm:"type:text[]" json:"delivery_zones"`

	IsActive  bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Listings []StoreProduct `gorm:"foreignKey:StoreID" json:"listings,omitempty"`
}

func (Store) TableName() string {
	return "stores"
}

// AcceptsPayment reports whether the store has the given payment method
// enabled at checkout.
func (s Store) AcceptsPayment(m PaymentMethod) bool {
	switch m {
	case PaymentCash:
		return s.AcceptsCash
	case PaymentTransfer:
		return s.AcceptsTransfer
	case PaymentMLCTransfer:
		return s.AcceptsMLCTransfer
	case PaymentCrypto:
		return s.AcceptsCrypto
	}
	return false
}

// StoreProduct is the persisted part of a store listing: the reference to a
// catalog product, the gestor's retail price override and the visibility
// toggle. Everything else (margin, effective activity) is derived on read.
type StoreProduct struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	StoreID     uint       `gorm:"not null;index:idx_store_product,unique" json:"store_id"`
	ProductID   uint       `gorm:"not null;index:idx_store_product,unique" json:"product_id"`
	CustomPrice float64    `gorm:"not null" json:"custom_price"`
	Visible     bool       `gorm:"default:true" json:"visible"` // gestor publish/hide control
	Position    int        `gorm:"default:0" json:"position"`   // display order in the storefront
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Store   Store   `gorm:"foreignKey:StoreID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (StoreProduct) TableName() string {
	return "store_products"
}

// StoreProductView is the projected storefront entry: catalog data joined
// with the gestor's override. Never persisted.
type StoreProductView struct {
	Product      Product  `json:"product"`
	CustomPrice  float64  `json:"custom_price"`
	ProfitMargin float64  `json:"profit_margin"`
	IsActive     bool     `json:"is_active"` // visible AND in stock
	Currency     Currency `json:"currency"`
}

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
var slugDashRuns = regexp.MustCompile(`-+`)

func generateSlug(name string) string {
	slug := strings.ToLower(name)
	slug = slugInvalidChars.ReplaceAllString(slug, "-")
	slug = slugDashRuns.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// BeforeCreate assigns a unique slug derived from the store name when none
// was chosen explicitly.
func (s *Store) BeforeCreate(tx *gorm.DB) error {
	if s.Slug == "" {
		baseSlug := generateSlug(s.Name)
		slug := baseSlug

		counter := 1
		for {
			var count int64
			if err := tx.Model(&Store{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				break
			}
			counter++
			slug = fmt.Sprintf("%s-%d", baseSlug, counter)
		}

		s.Slug = slug
	}
	return nil
}
