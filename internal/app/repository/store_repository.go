package repository

import (
	"github.com/mivitrina/mivitrina-backend/internal/app/model"
	"github.com/mivitrina/mivitrina-backend/pkg/logger"
	"gorm.io/gorm"
)

type StoreRepository interface {
	Create(store *model.Store) error
	FindByID(id uint) (*model.Store, error)
	FindBySlug(slug string) (*model.Store, error)
	FindByOwnerID(ownerID uint) ([]model.Store, error)
	CountByOwner(ownerID uint) (int64, error)
	Update(store *model.Store) error
	Deactivate(id uint) error
	ListActive(limit, offset int) ([]model.Store, error)

	FindListings(storeID uint) ([]model.StoreProduct, error)
	FindListing(storeID, productID uint) (*model.StoreProduct, error)
	CountListings(storeID uint) (int64, error)
	AddListing(listing *model.StoreProduct) error
	UpdateListing(listing *model.StoreProduct) error
	RemoveListing(storeID, productID uint) error
}

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(store *model.Store) error {
	logger.Debug("Creating store in database", map[string]interface{}{
		"name":     store.Name,
		"owner_id": store.OwnerID,
	})

	if err := r.db.Create(store).Error; err != nil {
		logger.Error("Failed to create store in database", err, map[string]interface{}{
			"name":     store.Name,
			"owner_id": store.OwnerID,
		})
		return err
	}
	return nil
}

func (r *storeRepository) FindByID(id uint) (*model.Store, error) {
	var store model.Store
	if err := r.db.First(&store, id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) FindBySlug(slug string) (*model.Store, error) {
	var store model.Store
	if err := r.db.Where("slug = ?", slug).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) FindByOwnerID(ownerID uint) ([]model.Store, error) {
	var stores []model.Store
	if err := r.db.Where("owner_id = ?", ownerID).Order("created_at ASC").Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

func (r *storeRepository) CountByOwner(ownerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Store{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}

func (r *storeRepository) Update(store *model.Store) error {
	if err := r.db.Save(store).Error; err != nil {
		logger.Error("Failed to update store in database", err, map[string]interface{}{
			"store_id": store.ID,
		})
		return err
	}
	return nil
}

// Deactivate flips the active flag; stores are never hard-deleted.
func (r *storeRepository) Deactivate(id uint) error {
	result := r.db.Model(&model.Store{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *storeRepository) ListActive(limit, offset int) ([]model.Store, error) {
	query := r.db.Where("is_active = ?", true).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var stores []model.Store
	if err := query.Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

func (r *storeRepository) FindListings(storeID uint) ([]model.StoreProduct, error) {
	var listings []model.StoreProduct
	if err := r.db.Preload("Product").Preload("Product.Supplier").
		Where("store_id = ?", storeID).
		Order("position ASC, created_at ASC").
		Find(&listings).Error; err != nil {
		logger.Error("Failed to find store listings in database", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}
	return listings, nil
}

func (r *storeRepository) FindListing(storeID, productID uint) (*model.StoreProduct, error) {
	var listing model.StoreProduct
	if err := r.db.Where("store_id = ? AND product_id = ?", storeID, productID).
		First(&listing).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *storeRepository) CountListings(storeID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.StoreProduct{}).Where("store_id = ?", storeID).Count(&count).Error
	return count, err
}

func (r *storeRepository) AddListing(listing *model.StoreProduct) error {
	if err := r.db.Create(listing).Error; err != nil {
		logger.Error("Failed to add store listing in database", err, map[string]interface{}{
			"store_id":   listing.StoreID,
			"product_id": listing.ProductID,
		})
		return err
	}
	return nil
}

func (r *storeRepository) UpdateListing(listing *model.StoreProduct) error {
	if err := r.db.Save(listing).Error; err != nil {
		logger.Error("Failed to update store listing in database", err, map[string]interface{}{
			"store_id":   listing.StoreID,
			"product_id": listing.ProductID,
		})
		return err
	}
	return nil
}

func (r *storeRepository) RemoveListing(storeID, productID uint) error {
	result := r.db.Where("store_id = ? AND product_id = ?", storeID, productID).
		Delete(&model.StoreProduct{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
