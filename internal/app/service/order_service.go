package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/mivitrina/mivitrina-backend/config"
	"github.com/mivitrina/mivitrina-backend/internal/app/model"
	"github.com/mivitrina/mivitrina-backend/internal/app/repository"
	"github.com/mivitrina/mivitrina-backend/pkg/logger"
	"github.com/mivitrina/mivitrina-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyCart         = errors.New("order has no items")
	ErrUnknownStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("order status transition not allowed")
	ErrProductNotListed  = errors.New("product is not available in this store")
	ErrInsufficientStock = errors.New("insufficient product stock")
	ErrMixedSuppliers    = errors.New("order mixes products from different suppliers")
	ErrInactiveStore     = errors.New("store is not active")
	ErrPlanLimitOrders   = errors.New("plan monthly order limit reached")
	ErrInvalidCustomer   = errors.New("invalid customer details")
	ErrUnknownPayment    = errors.New("unknown payment method")
	ErrPaymentNotOffered = errors.New("store does not accept this payment method")
)

type OrderLineInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type SubmitOrderInput struct {
	CustomerID     *uint
	CustomerName   string
	CustomerPhone  string
	DeliveryMethod model.DeliveryMethod
	DeliveryZone   string
	Address        string
	PaymentMethod  model.PaymentMethod
	Items          []OrderLineInput
}

type OrderService interface {
	SubmitOrder(storeSlug string, input SubmitOrderInput) (*model.Order, error)
	GetOrderByID(id uint) (*model.Order, error)
	GetOrderByReference(reference string) (*model.Order, error)
	GetStoreOrders(ownerID, storeID uint, status string) ([]model.Order, error)
	GetSupplierOrders(supplierID uint, status string) ([]model.Order, error)
	GetCustomerOrders(customerID uint) ([]model.Order, error)
	TransitionStatus(orderID uint, status model.OrderStatus) (*model.Order, error)
}

type orderService struct {
	orderRepo       repository.OrderRepository
	storeRepo       repository.StoreRepository
	productRepo     repository.ProductRepository
	notificationSvc NotificationService
	marketplace     config.MarketplaceConfig
	db              *gorm.DB
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	storeRepo repository.StoreRepository,
	productRepo repository.ProductRepository,
	notificationSvc NotificationService,
	marketplace config.MarketplaceConfig,
	db *gorm.DB,
) OrderService {
	return &orderService{
		orderRepo:       orderRepo,
		storeRepo:       storeRepo,
		productRepo:     productRepo,
		notificationSvc: notificationSvc,
		marketplace:     marketplace,
		db:              db,
	}
}

// SubmitOrder turns a storefront checkout into a pending order. Unit prices
// come from the store's listings and are snapshotted into the order items;
// the commission is computed here, once, from the store plan's rate and is
// never revised afterwards.
func (s *orderService) SubmitOrder(storeSlug string, input SubmitOrderInput) (*model.Order, error) {
	logger.Info("Submitting order", map[string]interface{}{
		"store_slug": storeSlug,
		"item_count": len(input.Items),
	})

	if len(input.Items) == 0 {
		logger.Warn("Order rejected: no items", map[string]interface{}{
			"store_slug": storeSlug,
		})
		return nil, ErrEmptyCart
	}

	if input.CustomerName == "" {
		return nil, ErrInvalidCustomer
	}
	phone := util.NormalizePhone(input.CustomerPhone)
	if !util.ValidateCubanPhone(phone) {
		logger.Warn("Order rejected: invalid customer phone", map[string]interface{}{
			"store_slug": storeSlug,
		})
		return nil, ErrInvalidCustomer
	}

	store, err := s.storeRepo.FindBySlug(storeSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	if !store.IsActive {
		return nil, ErrInactiveStore
	}

	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = model.PaymentCash
	}
	if !model.ValidPaymentMethod(paymentMethod) {
		return nil, ErrUnknownPayment
	}
	if !store.AcceptsPayment(paymentMethod) {
		logger.Warn("Order rejected: payment method not accepted", map[string]interface{}{
			"store_id":       store.ID,
			"payment_method": string(paymentMethod),
		})
		return nil, ErrPaymentNotOffered
	}

	limits := model.GetPlanLimits(store.Tier)
	if limits.MaxMonthlyOrders >= 0 {
		count, err := s.orderRepo.CountByStoreInMonth(store.ID, time.Now())
		if err != nil {
			return nil, err
		}
		if count >= int64(limits.MaxMonthlyOrders) {
			logger.Warn("Order rejected: plan monthly order limit reached", map[string]interface{}{
				"store_id": store.ID,
				"count":    count,
				"limit":    limits.MaxMonthlyOrders,
			})
			return nil, ErrPlanLimitOrders
		}
	}

	var (
		totalAmount float64
		currency    model.Currency
		supplierID  uint
		orderItems  []model.OrderItem
	)

	for _, line := range input.Items {
		listing, err := s.storeRepo.FindListing(store.ID, line.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Order rejected: product not listed", map[string]interface{}{
					"store_id":   store.ID,
					"product_id": line.ProductID,
				})
				return nil, ErrProductNotListed
			}
			return nil, err
		}

		product, err := s.productRepo.FindByID(line.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProductNotListed
			}
			return nil, err
		}

		if !listing.Visible || product.StockQuantity <= 0 {
			return nil, ErrProductNotListed
		}

		if supplierID == 0 {
			supplierID = product.SupplierID
			currency = product.Currency
		} else if product.SupplierID != supplierID {
			logger.Warn("Order rejected: mixed suppliers", map[string]interface{}{
				"store_id":    store.ID,
				"first":       supplierID,
				"conflicting": product.SupplierID,
			})
			return nil, ErrMixedSuppliers
		}

		if s.marketplace.AutoDecrementStock && product.StockQuantity < line.Quantity {
			logger.Warn("Order rejected: insufficient stock", map[string]interface{}{
				"product_id": product.ID,
				"requested":  line.Quantity,
				"available":  product.StockQuantity,
			})
			return nil, ErrInsufficientStock
		}

		orderItems = append(orderItems, model.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   listing.CustomPrice,
			Quantity:    line.Quantity,
		})
		totalAmount += listing.CustomPrice * float64(line.Quantity)
	}

	commission := totalAmount * limits.CommissionRate

	deliveryMethod := input.DeliveryMethod
	if deliveryMethod == "" {
		deliveryMethod = model.DeliveryMethodPickup
	}

	order := &model.Order{
		Reference:      util.NewOrderReference(),
		CustomerID:     input.CustomerID,
		CustomerName:   input.CustomerName,
		CustomerPhone:  phone,
		StoreID:        store.ID,
		SupplierID:     supplierID,
		TotalAmount:    totalAmount,
		Currency:       currency,
		Commission:     commission,
		Status:         model.OrderStatusPending,
		DeliveryMethod: deliveryMethod,
		PaymentMethod:  paymentMethod,
		DeliveryZone:   input.DeliveryZone,
		Address:        input.Address,
		OrderItems:     orderItems,
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during order submission, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"store_id": store.ID,
			})
		}
	}()

	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create order", err, map[string]interface{}{
			"store_id":     store.ID,
			"total_amount": totalAmount,
		})
		return nil, err
	}

	if s.marketplace.AutoDecrementStock {
		for _, item := range orderItems {
			err := tx.Model(&model.Product{}).
				Where("id = ?", item.ProductID).
				Update("stock_quantity", gorm.Expr(
					"CASE WHEN stock_quantity - ? < 0 THEN 0 ELSE stock_quantity - ? END",
					item.Quantity, item.Quantity,
				)).Error
			if err != nil {
				tx.Rollback()
				logger.Error("Failed to decrement stock", err, map[string]interface{}{
					"product_id": item.ProductID,
				})
				return nil, err
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order transaction", err, map[string]interface{}{
			"store_id": store.ID,
		})
		return nil, err
	}

	logger.Info("Order submitted", map[string]interface{}{
		"order_id":     order.ID,
		"reference":    order.Reference,
		"store_id":     store.ID,
		"total_amount": totalAmount,
		"commission":   commission,
	})

	created, err := s.orderRepo.FindByID(order.ID)
	if err != nil {
		return nil, err
	}

	if s.notificationSvc != nil {
		if err := s.notificationSvc.NotifyNewOrder(created); err != nil {
			logger.Warn("Failed to notify new order", map[string]interface{}{
				"order_id": created.ID,
			})
		}
	}
	return created, nil
}

func (s *orderService) GetOrderByID(id uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) GetOrderByReference(reference string) (*model.Order, error) {
	order, err := s.orderRepo.FindByReference(reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) GetStoreOrders(ownerID, storeID uint, status string) ([]model.Order, error) {
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
	return s.orderRepo.FindByStoreID(storeID, status)
}

func (s *orderService) GetSupplierOrders(supplierID uint, status string) ([]model.Order, error) {
	return s.orderRepo.FindBySupplierID(supplierID, status)
}

func (s *orderService) GetCustomerOrders(customerID uint) ([]model.Order, error) {
	return s.orderRepo.FindByCustomerID(customerID)
}

// TransitionStatus moves an order along the lifecycle graph. Requests that
// skip states or leave a terminal state are rejected; the stored commission
// is never touched.
func (s *orderService) TransitionStatus(orderID uint, status model.OrderStatus) (*model.Order, error) {
	logger.Info("Transitioning order status", map[string]interface{}{
		"order_id":   orderID,
		"new_status": status,
	})

	if !model.ValidOrderStatus(status) {
		return nil, ErrUnknownStatus
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if !model.CanTransition(order.Status, status) {
		logger.Warn("Order transition rejected", map[string]interface{}{
			"order_id": orderID,
			"from":     order.Status,
			"to":       status,
		})
		return nil, ErrInvalidTransition
	}

	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		return nil, err
	}
	order.Status = status

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})

	if s.notificationSvc != nil {
		if err := s.notificationSvc.NotifyOrderStatus(order); err != nil {
			logger.Warn("Failed to notify order status change", map[string]interface{}{
				"order_id": orderID,
			})
		}
	}
	return order, nil
}
