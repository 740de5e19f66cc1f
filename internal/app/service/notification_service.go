package service

import (
	"errors"
	"fmt"

	"github.com/mivitrina/mivitrina-backend/internal/app/model"
	"github.com/mivitrina/mivitrina-backend/internal/app/repository"
	"github.com/mivitrina/mivitrina-backend/internal/websocket"
	"github.com/mivitrina/mivitrina-backend/pkg/logger"
	"gorm.io/gorm"
)

type NotificationService interface {
	GetNotifications(userID uint, limit, offset int) ([]model.Notification, error)
	GetUnreadCount(userID uint) (int64, error)
	MarkAsRead(notificationID, userID uint) error
	MarkAllAsRead(userID uint) error

	NotifyNewOrder(order *model.Order) error
	NotifyOrderStatus(order *model.Order) error
	NotifyKYCDecision(userID uint, supplier *model.Supplier) error
	NotifyPayoutUpdate(userID uint, payout *model.Payout) error
}

type notificationService struct {
	repo     repository.NotificationRepository
	userRepo repository.UserRepository
	hub      *websocket.Hub
}

func NewNotificationService(
	repo repository.NotificationRepository,
	userRepo repository.UserRepository,
	hub *websocket.Hub,
) NotificationService {
	return &notificationService{
		repo:     repo,
		userRepo: userRepo,
		hub:      hub,
	}
}

func (s *notificationService) GetNotifications(userID uint, limit, offset int) ([]model.Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.FindByUserID(userID, limit, offset)
}

func (s *notificationService) GetUnreadCount(userID uint) (int64, error) {
	return s.repo.CountUnread(userID)
}

func (s *notificationService) MarkAsRead(notificationID, userID uint) error {
	return s.repo.MarkAsRead(notificationID, userID)
}

func (s *notificationService) MarkAllAsRead(userID uint) error {
	return s.repo.MarkAllAsRead(userID)
}

// deliver persists the notification and pushes it to any open websocket
// session. The push is best-effort; the row is the source of truth.
func (s *notificationService) deliver(notification *model.Notification) error {
	if err := s.repo.Create(notification); err != nil {
		return err
	}

	if s.hub != nil {
		if err := s.hub.SendToUser(notification.UserID, notification); err != nil {
			logger.Warn("Failed to push notification over websocket", map[string]interface{}{
				"user_id":         notification.UserID,
				"notification_id": notification.ID,
			})
		}
	}
	return nil
}

// NotifyNewOrder alerts both the storefront owner and the supplier account,
// when one exists for the order's supplier.
func (s *notificationService) NotifyNewOrder(order *model.Order) error {
	orderID := order.ID
	title := "Nuevo pedido recibido"
	content := fmt.Sprintf("Pedido %s por %.2f %s de %s", order.Reference, order.TotalAmount, order.Currency, order.CustomerName)

	if err := s.deliver(&model.Notification{
		UserID:  order.Store.OwnerID,
		Type:    model.NotificationTypeNewOrder,
		Title:   title,
		Content: content,
		OrderID: &orderID,
	}); err != nil {
		return err
	}

	supplierUser, err := s.userRepo.FindBySupplierID(order.SupplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return s.deliver(&model.Notification{
		UserID:  supplierUser.ID,
		Type:    model.NotificationTypeNewOrder,
		Title:   title,
		Content: content,
		OrderID: &orderID,
	})
}

func (s *notificationService) NotifyOrderStatus(order *model.Order) error {
	if order.CustomerID == nil {
		return nil
	}
	orderID := order.ID
	return s.deliver(&model.Notification{
		UserID:  *order.CustomerID,
		Type:    model.NotificationTypeOrderStatus,
		Title:   "Tu pedido cambió de estado",
		Content: fmt.Sprintf("Pedido %s: %s", order.Reference, order.Status),
		OrderID: &orderID,
	})
}

func (s *notificationService) NotifyKYCDecision(userID uint, supplier *model.Supplier) error {
	content := "Tu solicitud de proveedor fue aprobada. Ya puedes publicar productos."
	if supplier.Status == model.SupplierStatusRejected {
		content = fmt.Sprintf("Tu solicitud de proveedor fue rechazada: %s", supplier.RejectionReason)
	}
	return s.deliver(&model.Notification{
		UserID:  userID,
		Type:    model.NotificationTypeKYCDecision,
		Title:   "Resultado de verificación",
		Content: content,
	})
}

func (s *notificationService) NotifyPayoutUpdate(userID uint, payout *model.Payout) error {
	return s.deliver(&model.Notification{
		UserID:  userID,
		Type:    model.NotificationTypePayoutUpdate,
		Title:   "Liquidación actualizada",
		Content: fmt.Sprintf("Liquidación %s: %.2f %s (%s)", payout.Period, payout.Amount, payout.Currency, payout.Status),
	})
}
