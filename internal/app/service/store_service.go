package service

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/mivitrina/mivitrina-backend/internal/app/model"
	"github.com/mivitrina/mivitrina-backend/internal/app/repository"
	"github.com/mivitrina/mivitrina-backend/pkg/logger"
	"github.com/mivitrina/mivitrina-backend/pkg/pricing"
	"gorm.io/gorm"
)

var (
	ErrStoreNotFound     = errors.New("store not found")
	ErrNotStoreOwner     = errors.New("store does not belong to user")
	ErrMarginUnsafe      = errors.New("custom price below margin floor")
	ErrPlanLimitStores   = errors.New("plan store limit reached")
	ErrPlanLimitProducts = errors.New("plan product limit reached")
	ErrListingNotFound   = errors.New("product is not listed in store")
)

// MarginError lists every listing that failed the floor check. The config
// save is rejected as a whole; nothing is applied.
type MarginError struct {
	Violations []MarginViolation
}

type MarginViolation struct {
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	CustomPrice float64 `json:"custom_price"`
	MinimumSafe float64 `json:"minimum_safe"`
}

func (e *MarginError) Error() string {
	return fmt.Sprintf("custom price below margin floor for %d product(s)", len(e.Violations))
}

func (e *MarginError) Is(target error) bool {
	return target == ErrMarginUnsafe
}

// StoreConfigInput is a partial storefront update. Nil pointers leave the
// current value untouched. Listings, when present, replace prices and
// visibility for the referenced products atomically.
type StoreConfigInput struct {
	Name               *string        `json:"name"`
	ThemeColor         *string        `json:"theme_color"`
	ContactPhone       *string        `json:"contact_phone"`
	AcceptsCash        *bool          `json:"accepts_cash"`
	AcceptsTransfer    *bool          `json:"accepts_transfer"`
	AcceptsMLCTransfer *bool          `json:"accepts_mlc_transfer"`
	AcceptsCrypto      *bool          `json:"accepts_crypto"`
	DeliveryZones      *[]string      `json:"delivery_zones"`
	Listings           []ListingInput `json:"listings"`
}

type ListingInput struct {
	ProductID   uint    `json:"product_id" binding:"required"`
	CustomPrice float64 `json:"custom_price"`
	Visible     *bool   `json:"visible"`
	Position    *int    `json:"position"`
}

type StoreService interface {
	CreateStore(ownerID uint, name, slug string) (*model.Store, error)
	GetStoreBySlug(slug string) (*model.Store, error)
	GetOwnerStores(ownerID uint) ([]model.Store, error)
	UpdateStoreConfig(ownerID uint, slug string, input StoreConfigInput) (*model.Store, error)
	DeactivateStore(ownerID, storeID uint) error

	AddProductToStore(ownerID, storeID, productID uint, customPrice float64) (bool, error)
	RemoveProductFromStore(ownerID, storeID, productID uint) error
	ProjectStoreProducts(slug string) (*model.Store, []model.StoreProductView, error)
	GetDashboard(ownerID, storeID uint) (*repository.StoreOrderStats, error)
}

type storeService struct {
	storeRepo   repository.StoreRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
}

func NewStoreService(
	storeRepo repository.StoreRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
) StoreService {
	return &storeService{
		storeRepo:   storeRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

func (s *storeService) CreateStore(ownerID uint, name, slug string) (*model.Store, error) {
	logger.Info("Creating store", map[string]interface{}{
		"owner_id": ownerID,
		"name":     name,
	})

	existing, err := s.storeRepo.FindByOwnerID(ownerID)
	if err != nil {
		return nil, err
	}

	// The store ceiling follows the highest tier the owner already pays for.
	// First store is always allowed.
	limit := model.GetPlanLimits(model.TierFree).MaxStores
	for _, st := range existing {
		if l := model.GetPlanLimits(st.Tier).MaxStores; l > limit {
			limit = l
		}
	}
	if len(existing) >= limit {
		logger.Warn("Store creation rejected: plan limit reached", map[string]interface{}{
			"owner_id": ownerID,
			"count":    len(existing),
			"limit":    limit,
		})
		return nil, ErrPlanLimitStores
	}

	store := &model.Store{
		OwnerID: ownerID,
		Name:    name,
		Slug:    slug,
		Tier:    model.TierFree,
	}
	if err := s.storeRepo.Create(store); err != nil {
		return nil, err
	}

	logger.Info("Store created", map[string]interface{}{
		"store_id": store.ID,
		"slug":     store.Slug,
	})
	return store, nil
}

func (s *storeService) GetStoreBySlug(slug string) (*model.Store, error) {
	store, err := s.storeRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	return store, nil
}

func (s *storeService) GetOwnerStores(ownerID uint) ([]model.Store, error) {
	return s.storeRepo.FindByOwnerID(ownerID)
}

func (s *storeService) UpdateStoreConfig(ownerID uint, slug string, input StoreConfigInput) (*model.Store, error) {
	store, err := s.storeRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	if store.OwnerID != ownerID {
		logger.Warn("Store config denied: ownership mismatch", map[string]interface{}{
			"store_id": store.ID,
			"user_id":  ownerID,
			"owner_id": store.OwnerID,
		})
		return nil, ErrNotStoreOwner
	}

	// Validate every price override against the margin floor before touching
	// anything. A single violation rejects the whole save.
	if len(input.Listings) > 0 {
		if err := s.checkMarginFloor(store.ID, input.Listings); err != nil {
			return nil, err
		}
	}

	if input.Name != nil {
		store.Name = *input.Name
	}
	if input.ThemeColor != nil {
		store.ThemeColor = *input.ThemeColor
	}
	if input.ContactPhone != nil {
		store.ContactPhone = *input.ContactPhone
	}
	if input.AcceptsCash != nil {
		store.AcceptsCash = *input.AcceptsCash
	}
	if input.AcceptsTransfer != nil {
		store.AcceptsTransfer = *input.AcceptsTransfer
	}
	if input.AcceptsMLCTransfer != nil {
		store.AcceptsMLCTransfer = *input.AcceptsMLCTransfer
	}
	if input.AcceptsCrypto != nil {
		store.AcceptsCrypto = *input.AcceptsCrypto
	}
	if input.DeliveryZones != nil {
		store.DeliveryZones = pq.StringArray(*input.DeliveryZones)
	}

	if err := s.storeRepo.Update(store); err != nil {
		return nil, err
	}

	for _, li := range input.Listings {
		listing, err := s.storeRepo.FindListing(store.ID, li.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue // dangling ref, skip
			}
			return nil, err
		}
		if li.CustomPrice > 0 {
			listing.CustomPrice = li.CustomPrice
		}
		if li.Visible != nil {
			listing.Visible = *li.Visible
		}
		if li.Position != nil {
			listing.Position = *li.Position
		}
		if err := s.storeRepo.UpdateListing(listing); err != nil {
			return nil, err
		}
	}

	logger.Info("Store config updated", map[string]interface{}{
		"store_id": store.ID,
		"slug":     store.Slug,
	})
	return store, nil
}

// checkMarginFloor rejects the whole batch when any referenced product's
// override falls below wholesale times the floor ratio.
func (s *storeService) checkMarginFloor(storeID uint, listings []ListingInput) error {
	ids := make([]uint, 0, len(listings))
	for _, li := range listings {
		if li.CustomPrice > 0 {
			ids = append(ids, li.ProductID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	products, err := s.productRepo.FindByIDs(ids)
	if err != nil {
		return err
	}
	byID := make(map[uint]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var violations []MarginViolation
	for _, li := range listings {
		if li.CustomPrice <= 0 {
			continue
		}
		product, ok := byID[li.ProductID]
		if !ok {
			continue // dangling ref, dropped silently at projection time too
		}
		if !pricing.IsMarginSafe(li.CustomPrice, product.WholesalePrice) {
			violations = append(violations, MarginViolation{
				ProductID:   product.ID,
				ProductName: product.Name,
				CustomPrice: li.CustomPrice,
				MinimumSafe: product.WholesalePrice * pricing.MinMarginRatio,
			})
		}
	}

	if len(violations) > 0 {
		logger.Warn("Store config rejected: margin floor violations", map[string]interface{}{
			"store_id":   storeID,
			"violations": len(violations),
		})
		return &MarginError{Violations: violations}
	}
	return nil
}

func (s *storeService) DeactivateStore(ownerID, storeID uint) error {
	store, err := s.storeRepo.FindByID(storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStoreNotFound
		}
		return err
	}
	if store.OwnerID != ownerID {
		return ErrNotStoreOwner
	}
	return s.storeRepo.Deactivate(storeID)
}

// AddProductToStore lists a catalog product in a storefront. Returns false
// without error when the product is already listed; adding twice is a no-op.
func (s *storeService) AddProductToStore(ownerID, storeID, productID uint, customPrice float64) (bool, error) {
	store, err := s.storeRepo.FindByID(storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrStoreNotFound
		}
		return false, err
	}
	if store.OwnerID != ownerID {
		return false, ErrNotStoreOwner
	}

	if _, err := s.storeRepo.FindListing(storeID, productID); err == nil {
		logger.Debug("Product already listed in store", map[string]interface{}{
			"store_id":   storeID,
			"product_id": productID,
		})
		return false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	count, err := s.storeRepo.CountListings(storeID)
	if err != nil {
		return false, err
	}
	limits := model.GetPlanLimits(store.Tier)
	if limits.MaxProducts >= 0 && count >= int64(limits.MaxProducts) {
		logger.Warn("Listing rejected: plan product limit reached", map[string]interface{}{
			"store_id": storeID,
			"count":    count,
			"limit":    limits.MaxProducts,
		})
		return false, ErrPlanLimitProducts
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrProductNotFound
		}
		return false, err
	}

	price := customPrice
	if price <= 0 {
		price = product.RetailPrice
	}
	if !pricing.IsMarginSafe(price, product.WholesalePrice) {
		return false, &MarginError{Violations: []MarginViolation{{
			ProductID:   product.ID,
			ProductName: product.Name,
			CustomPrice: price,
			MinimumSafe: product.WholesalePrice * pricing.MinMarginRatio,
		}}}
	}

	listing := &model.StoreProduct{
		StoreID:     storeID,
		ProductID:   productID,
		CustomPrice: price,
		Visible:     true,
		Position:    int(count),
	}
	if err := s.storeRepo.AddListing(listing); err != nil {
		return false, err
	}

	logger.Info("Product listed in store", map[string]interface{}{
		"store_id":     storeID,
		"product_id":   productID,
		"custom_price": price,
	})
	return true, nil
}

func (s *storeService) RemoveProductFromStore(ownerID, storeID, productID uint) error {
	store, err := s.storeRepo.FindByID(storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStoreNotFound
		}
		return err
	}
	if store.OwnerID != ownerID {
		return ErrNotStoreOwner
	}

	if err := s.storeRepo.RemoveListing(storeID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrListingNotFound
		}
		return err
	}
	return nil
}

// ProjectStoreProducts joins the store's listings against the live catalog.
// Listings whose product vanished are dropped silently; a listing is active
// only when the gestor keeps it visible and the product has stock.
func (s *storeService) ProjectStoreProducts(slug string) (*model.Store, []model.StoreProductView, error) {
	store, err := s.storeRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrStoreNotFound
		}
		return nil, nil, err
	}

	listings, err := s.storeRepo.FindListings(store.ID)
	if err != nil {
		return nil, nil, err
	}

	views := make([]model.StoreProductView, 0, len(listings))
	for _, listing := range listings {
		if listing.Product.ID == 0 {
			// catalog product deleted after listing
			continue
		}
		views = append(views, model.StoreProductView{
			Product:      listing.Product,
			CustomPrice:  listing.CustomPrice,
			ProfitMargin: pricing.Margin(listing.CustomPrice, listing.Product.WholesalePrice),
			IsActive:     listing.Visible && listing.Product.StockQuantity > 0,
			Currency:     listing.Product.Currency,
		})
	}

	logger.Debug("Projected storefront", map[string]interface{}{
		"store_id": store.ID,
		"listings": len(listings),
		"views":    len(views),
	})
	return store, views, nil
}

func (s *storeService) GetDashboard(ownerID, storeID uint) (*repository.StoreOrderStats, error) {
	store, err := s.storeRepo.FindByID(storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	if store.OwnerID != ownerID {
		return nil, ErrNotStoreOwner
	}
	return s.orderRepo.GetStoreStats(storeID)
}
