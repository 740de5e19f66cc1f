package service

import (
	"errors"
	"time"

	"github.com/mivitrina/mivitrina-backend/internal/app/model"
	"github.com/mivitrina/mivitrina-backend/internal/app/repository"
	"github.com/mivitrina/mivitrina-backend/pkg/logger"
	"github.com/mivitrina/mivitrina-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrSupplierNotFound        = errors.New("supplier not found")
	ErrInvalidIdentityDocument = errors.New("invalid identity document")
	ErrInvalidSupplierPhone    = errors.New("invalid supplier phone")
	ErrAlreadyReviewed         = errors.New("supplier request already reviewed")
	ErrUnknownDecision         = errors.New("unknown verification decision")
	ErrRejectionNeedsReason    = errors.New("rejection requires a reason")
)

type RegisterSupplierInput struct {
	BusinessName     string
	LegalType        model.LegalType
	Address          string
	OwnerName        string
	Phone            string
	IdentityDocument string
}

type SupplierService interface {
	RegisterSupplier(userID uint, input RegisterSupplierInput) (*model.Supplier, error)
	GetSupplier(id uint) (*model.Supplier, error)
	ListSuppliers(status string) ([]model.Supplier, error)
	Verify(adminID, supplierID uint, decision model.SupplierStatus, reason string) (*model.Supplier, error)
}

type supplierService struct {
	supplierRepo    repository.SupplierRepository
	userRepo        repository.UserRepository
	notificationSvc NotificationService
}

func NewSupplierService(
	supplierRepo repository.SupplierRepository,
	userRepo repository.UserRepository,
	notificationSvc NotificationService,
) SupplierService {
	return &supplierService{
		supplierRepo:    supplierRepo,
		userRepo:        userRepo,
		notificationSvc: notificationSvc,
	}
}

// RegisterSupplier files a verification request. The record starts pending;
// nothing can be published until an admin approves it.
func (s *supplierService) RegisterSupplier(userID uint, input RegisterSupplierInput) (*model.Supplier, error) {
	logger.Info("Registering supplier", map[string]interface{}{
		"user_id":       userID,
		"business_name": input.BusinessName,
	})

	if !util.ValidateIdentityDocument(input.IdentityDocument) {
		logger.Warn("Supplier registration rejected: invalid identity document", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrInvalidIdentityDocument
	}

	phone := util.NormalizePhone(input.Phone)
	if !util.ValidateCubanPhone(phone) {
		logger.Warn("Supplier registration rejected: invalid phone", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrInvalidSupplierPhone
	}

	legalType := input.LegalType
	if legalType == "" {
		legalType = model.LegalTypeTCP
	}

	supplier := &model.Supplier{
		BusinessName:     input.BusinessName,
		LegalType:        legalType,
		Address:          input.Address,
		OwnerName:        input.OwnerName,
		Phone:            phone,
		IdentityDocument: input.IdentityDocument,
		Status:           model.SupplierStatusPending,
		RegisteredAt:     time.Now(),
	}
	if err := s.supplierRepo.Create(supplier); err != nil {
		return nil, err
	}

	// Link the account to its supplier record and promote the role
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	user.SupplierID = &supplier.ID
	user.Role = model.RoleProveedor
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Info("Supplier registered", map[string]interface{}{
		"supplier_id": supplier.ID,
		"user_id":     userID,
	})
	return supplier, nil
}

func (s *supplierService) GetSupplier(id uint) (*model.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, err
	}
	return supplier, nil
}

func (s *supplierService) ListSuppliers(status string) ([]model.Supplier, error) {
	if status != "" {
		return s.supplierRepo.FindByStatus(model.SupplierStatus(status))
	}
	return s.supplierRepo.FindAll()
}

// Verify records an admin decision on a pending supplier request. A request
// is reviewed exactly once.
func (s *supplierService) Verify(adminID, supplierID uint, decision model.SupplierStatus, reason string) (*model.Supplier, error) {
	logger.Info("Reviewing supplier request", map[string]interface{}{
		"admin_id":    adminID,
		"supplier_id": supplierID,
		"decision":    decision,
	})

	if decision != model.SupplierStatusVerified && decision != model.SupplierStatusRejected {
		return nil, ErrUnknownDecision
	}
	if decision == model.SupplierStatusRejected && reason == "" {
		return nil, ErrRejectionNeedsReason
	}

	supplier, err := s.supplierRepo.FindByID(supplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, err
	}

	if supplier.Status != model.SupplierStatusPending {
		logger.Warn("Supplier review rejected: already reviewed", map[string]interface{}{
			"supplier_id": supplierID,
			"status":      supplier.Status,
		})
		return nil, ErrAlreadyReviewed
	}

	now := time.Now()
	supplier.Status = decision
	supplier.ReviewedAt = &now
	supplier.ReviewedBy = &adminID
	supplier.RejectionReason = reason

	if err := s.supplierRepo.Update(supplier); err != nil {
		return nil, err
	}

	logger.Info("Supplier reviewed", map[string]interface{}{
		"supplier_id": supplierID,
		"decision":    decision,
	})

	if s.notificationSvc != nil {
		if user, err := s.userRepo.FindBySupplierID(supplierID); err == nil {
			if err := s.notificationSvc.NotifyKYCDecision(user.ID, supplier); err != nil {
				logger.Warn("Failed to notify verification decision", map[string]interface{}{
					"supplier_id": supplierID,
				})
			}
		}
	}
	return supplier, nil
}
