package repository

import (
	"github.com/mivitrina/mivitrina-backend/internal/app/model"
	"github.com/mivitrina/mivitrina-backend/pkg/logger"
	"gorm.io/gorm"
)

type PayoutRepository interface {
	Create(payout *model.Payout) error
	FindByID(id uint) (*model.Payout, error)
	FindBySupplierID(supplierID uint) ([]model.Payout, error)
	FindBySupplierAndPeriod(supplierID uint, period string) (*model.Payout, error)
	FindByStatus(status model.PayoutStatus) ([]model.Payout, error)
	Update(payout *model.Payout) error
}

type payoutRepository struct {
	db *gorm.DB
}

func NewPayoutRepository(db *gorm.DB) PayoutRepository {
	return &payoutRepository{db: db}
}

func (r *payoutRepository) Create(payout *model.Payout) error {
	logger.Debug("Creating payout in database", map[string]interface{}{
		"supplier_id": payout.SupplierID,
		"period":      payout.Period,
		"amount":      payout.Amount,
	})

	if err := r.db.Create(payout).Error; err != nil {
		logger.Error("Failed to create payout in database", err, map[string]interface{}{
			"supplier_id": payout.SupplierID,
			"period":      payout.Period,
		})
		return err
	}
	return nil
}

func (r *payoutRepository) FindByID(id uint) (*model.Payout, error) {
	var payout model.Payout
	if err := r.db.Preload("Supplier").First(&payout, id).Error; err != nil {
		return nil, err
	}
	return &payout, nil
}

func (r *payoutRepository) FindBySupplierID(supplierID uint) ([]model.Payout, error) {
	var payouts []model.Payout
	if err := r.db.Where("supplier_id = ?", supplierID).
		Order("period DESC").
		Find(&payouts).Error; err != nil {
		return nil, err
	}
	return payouts, nil
}

func (r *payoutRepository) FindBySupplierAndPeriod(supplierID uint, period string) (*model.Payout, error) {
	var payout model.Payout
	if err := r.db.Where("supplier_id = ? AND period = ?", supplierID, period).
		First(&payout).Error; err != nil {
		return nil, err
	}
	return &payout, nil
}

func (r *payoutRepository) FindByStatus(status model.PayoutStatus) ([]model.Payout, error) {
	var payouts []model.Payout
	if err := r.db.Preload("Supplier").Where("status = ?", status).
		Order("period ASC").
		Find(&payouts).Error; err != nil {
		return nil, err
	}
	return payouts, nil
}

func (r *payoutRepository) Update(payout *model.Payout) error {
	if err := r.db.Save(payout).Error; err != nil {
		logger.Error("Failed to update payout in database", err, map[string]interface{}{
			"payout_id": payout.ID,
		})
		return err
	}
	return nil
}
