package repository

import (
	"time"

	"github.com/mivitrina/mivitrina-backend/internal/app/model"
	"github.com/mivitrina/mivitrina-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindByReference(reference string) (*model.Order, error)
	FindByStoreID(storeID uint, status string) ([]model.Order, error)
	FindBySupplierID(supplierID uint, status string) ([]model.Order, error)
	FindByCustomerID(customerID uint) ([]model.Order, error)
	CountByStoreInMonth(storeID uint, month time.Time) (int64, error)
	UpdateStatus(id uint, status model.OrderStatus) error
	SumDeliveredBySupplier(supplierID uint, from, to time.Time) ([]SupplierSettlementRow, error)
	CountDeliveredUnsettled(supplierID uint, before time.Time) (int64, error)
	GetStoreStats(storeID uint) (*StoreOrderStats, error)
}

// SupplierSettlementRow is one currency bucket of a supplier's delivered
// orders in a settlement window.
type SupplierSettlementRow struct {
	Currency   model.Currency `json:"currency"`
	Total      float64        `json:"total"`
	Commission float64        `json:"commission"`
	OrderCount int64          `json:"order_count"`
}

// StoreOrderStats backs the gestor dashboard.
type StoreOrderStats struct {
	TotalOrders     int64   `json:"total_orders"`
	PendingOrders   int64   `json:"pending_orders"`
	DeliveredOrders int64   `json:"delivered_orders"`
	CancelledOrders int64   `json:"cancelled_orders"`
	DisputedOrders  int64   `json:"disputed_orders"`
	TotalRevenue    float64 `json:"total_revenue"`    // delivered orders only
	TotalCommission float64 `json:"total_commission"` // delivered orders only
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) preloadOrder() *gorm.DB {
	return r.db.Preload("OrderItems").Preload("Store").Preload("Supplier")
}

func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"reference":    order.Reference,
		"store_id":     order.StoreID,
		"supplier_id":  order.SupplierID,
		"total_amount": order.TotalAmount,
	})

	if err := r.db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"reference": order.Reference,
			"store_id":  order.StoreID,
		})
		return err
	}
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	if err := r.preloadOrder().First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByReference(reference string) (*model.Order, error) {
	var order model.Order
	if err := r.preloadOrder().Where("reference = ?", reference).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByStoreID(storeID uint, status string) ([]model.Order, error) {
	query := r.preloadOrder().Where("store_id = ?", storeID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []model.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders by store ID in database", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) FindBySupplierID(supplierID uint, status string) ([]model.Order, error) {
	query := r.preloadOrder().Where("supplier_id = ?", supplierID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []model.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders by supplier ID in database", err, map[string]interface{}{
			"supplier_id": supplierID,
		})
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) FindByCustomerID(customerID uint) ([]model.Order, error) {
	var orders []model.Order
	if err := r.preloadOrder().Where("customer_id = ?", customerID).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// CountByStoreInMonth counts submissions in the calendar month of the given
// time, for plan ceiling enforcement.
func (r *orderRepository) CountByStoreInMonth(storeID uint, month time.Time) (int64, error) {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	end := start.AddDate(0, 1, 0)

	var count int64
	err := r.db.Model(&model.Order{}).
		Where("store_id = ? AND created_at >= ? AND created_at < ?", storeID, start, end).
		Count(&count).Error
	return count, err
}

func (r *orderRepository) UpdateStatus(id uint, status model.OrderStatus) error {
	logger.Debug("Updating order status in database", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})

	result := r.db.Model(&model.Order{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		logger.Error("Failed to update order status in database", result.Error, map[string]interface{}{
			"order_id": id,
			"status":   status,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SumDeliveredBySupplier totals delivered orders in [from, to) grouped by
// currency. Settlement math stays in the payout service; this only
// aggregates.
func (r *orderRepository) SumDeliveredBySupplier(supplierID uint, from, to time.Time) ([]SupplierSettlementRow, error) {
	var rows []SupplierSettlementRow

	err := r.db.Model(&model.Order{}).
		Select("currency, COALESCE(SUM(total_amount), 0) as total, COALESCE(SUM(commission), 0) as commission, COUNT(*) as order_count").
		Where("supplier_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
			supplierID, model.OrderStatusDelivered, from, to).
		Group("currency").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to sum delivered orders by supplier", err, map[string]interface{}{
			"supplier_id": supplierID,
		})
		return nil, err
	}
	return rows, nil
}

func (r *orderRepository) CountDeliveredUnsettled(supplierID uint, before time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Order{}).
		Where("supplier_id = ? AND status NOT IN ? AND created_at < ?",
			supplierID,
			[]model.OrderStatus{model.OrderStatusDelivered, model.OrderStatusCancelled},
			before).
		Count(&count).Error
	return count, err
}

func (r *orderRepository) GetStoreStats(storeID uint) (*StoreOrderStats, error) {
	stats := &StoreOrderStats{}

	if err := r.db.Model(&model.Order{}).Where("store_id = ?", storeID).
		Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}

	statusCounts := []struct {
		Status model.OrderStatus
		Count  int64
	}{}
	if err := r.db.Model(&model.Order{}).
		Select("status, COUNT(*) as count").
		Where("store_id = ?", storeID).
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return nil, err
	}

	for _, sc := range statusCounts {
		switch sc.Status {
		case model.OrderStatusPending:
			stats.PendingOrders = sc.Count
		case model.OrderStatusDelivered:
			stats.DeliveredOrders = sc.Count
		case model.OrderStatusCancelled:
			stats.CancelledOrders = sc.Count
		case model.OrderStatusDisputed:
			stats.DisputedOrders = sc.Count
		}
	}

	var revenue struct {
		Total      float64
		Commission float64
	}
	if err := r.db.Model(&model.Order{}).
		Select("COALESCE(SUM(total_amount), 0) as total, COALESCE(SUM(commission), 0) as commission").
		Where("store_id = ? AND status = ?", storeID, model.OrderStatusDelivered).
		Scan(&revenue).Error; err != nil {
		return nil, err
	}
	stats.TotalRevenue = revenue.Total
	stats.TotalCommission = revenue.Commission

	return stats, nil
}
