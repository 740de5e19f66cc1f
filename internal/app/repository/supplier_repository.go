package repository

import (
	"github.com/mivitrina/mivitrina-backend/internal/app/model"
	"github.com/mivitrina/mivitrina-backend/pkg/logger"
	"gorm.io/gorm"
)

type SupplierRepository interface {
	Create(supplier *model.Supplier) error
	FindByID(id uint) (*model.Supplier, error)
	FindByStatus(status model.SupplierStatus) ([]model.Supplier, error)
	FindAll() ([]model.Supplier, error)
	Update(supplier *model.Supplier) error
}

type supplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) SupplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) Create(supplier *model.Supplier) error {
	logger.Debug("Creating supplier in database", map[string]interface{}{
		"business_name": supplier.BusinessName,
		"legal_type":    supplier.LegalType,
	})

	if err := r.db.Create(supplier).Error; err != nil {
		logger.Error("Failed to create supplier in database", err, map[string]interface{}{
			"business_name": supplier.BusinessName,
		})
		return err
	}
	return nil
}

func (r *supplierRepository) FindByID(id uint) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := r.db.First(&supplier, id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepository) FindByStatus(status model.SupplierStatus) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	if err := r.db.Where("status = ?", status).
		Order("registered_at ASC").
		Find(&suppliers).Error; err != nil {
		logger.Error("Failed to find suppliers by status in database", err, map[string]interface{}{
			"status": status,
		})
		return nil, err
	}
	return suppliers, nil
}

func (r *supplierRepository) FindAll() ([]model.Supplier, error) {
	var suppliers []model.Supplier
	if err := r.db.Order("registered_at ASC").Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (r *supplierRepository) Update(supplier *model.Supplier) error {
	if err := r.db.Save(supplier).Error; err != nil {
		logger.Error("Failed to update supplier in database", err, map[string]interface{}{
			"supplier_id": supplier.ID,
		})
		return err
	}
	return nil
}
