package service

import (
	"errors"
	"time"

	"github.com/mivitrina/mivitrina-backend/config"
	"github.com/mivitrina/mivitrina-backend/internal/app/model"
	"github.com/mivitrina/mivitrina-backend/internal/app/repository"
	"github.com/mivitrina/mivitrina-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrPayoutNotFound     = errors.New("payout not found")
	ErrPayoutNotAdvancing = errors.New("payout status can only move forward")
	ErrNoExchangeRate     = errors.New("no exchange rate available")
)

type PayoutService interface {
	GeneratePayout(supplierID uint, period time.Time) (*model.Payout, error)
	GenerateAllPayouts(period time.Time) (int, error)
	GetSupplierPayouts(supplierID uint) ([]model.Payout, error)
	AdvanceStatus(payoutID uint, status model.PayoutStatus) (*model.Payout, error)
}

type payoutService struct {
	payoutRepo      repository.PayoutRepository
	orderRepo       repository.OrderRepository
	supplierRepo    repository.SupplierRepository
	rateRepo        repository.ExchangeRateRepository
	notificationSvc NotificationService
	userRepo        repository.UserRepository
	marketplace     config.MarketplaceConfig
}

func NewPayoutService(
	payoutRepo repository.PayoutRepository,
	orderRepo repository.OrderRepository,
	supplierRepo repository.SupplierRepository,
	rateRepo repository.ExchangeRateRepository,
	userRepo repository.UserRepository,
	notificationSvc NotificationService,
	marketplace config.MarketplaceConfig,
) PayoutService {
	return &payoutService{
		payoutRepo:      payoutRepo,
		orderRepo:       orderRepo,
		supplierRepo:    supplierRepo,
		rateRepo:        rateRepo,
		userRepo:        userRepo,
		notificationSvc: notificationSvc,
		marketplace:     marketplace,
	}
}

// GeneratePayout settles one supplier for one calendar month: the supplier's
// share is delivered totals minus platform commission, with USD and MLC
// buckets normalized to the settlement currency at the latest informal rate.
// Generation is idempotent per supplier and period.
func (s *payoutService) GeneratePayout(supplierID uint, period time.Time) (*model.Payout, error) {
	periodKey := period.Format("2006-01")

	logger.Info("Generating payout", map[string]interface{}{
		"supplier_id": supplierID,
		"period":      periodKey,
	})

	if existing, err := s.payoutRepo.FindBySupplierAndPeriod(supplierID, periodKey); err == nil {
		logger.Debug("Payout already generated for period", map[string]interface{}{
			"supplier_id": supplierID,
			"period":      periodKey,
		})
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	from := time.Date(period.Year(), period.Month(), 1, 0, 0, 0, 0, period.Location())
	to := from.AddDate(0, 1, 0)

	rows, err := s.orderRepo.SumDeliveredBySupplier(supplierID, from, to)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		logger.Debug("No delivered orders to settle", map[string]interface{}{
			"supplier_id": supplierID,
			"period":      periodKey,
		})
		return nil, nil
	}

	settlementCurrency := model.Currency(s.marketplace.SettlementCurrency)
	var amount float64
	for _, row := range rows {
		share := row.Total - row.Commission
		if row.Currency == settlementCurrency {
			amount += share
			continue
		}
		rate, err := s.rateRepo.FindLatest(row.Currency)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Error("Cannot settle payout: missing exchange rate", ErrNoExchangeRate, map[string]interface{}{
					"supplier_id": supplierID,
					"currency":    row.Currency,
				})
				return nil, ErrNoExchangeRate
			}
			return nil, err
		}
		amount += share * rate.RateCUP
	}

	pending, err := s.orderRepo.CountDeliveredUnsettled(supplierID, to)
	if err != nil {
		return nil, err
	}

	payout := &model.Payout{
		SupplierID:    supplierID,
		Period:        periodKey,
		Amount:        amount,
		Currency:      settlementCurrency,
		Status:        model.PayoutStatusUnpaid,
		PendingOrders: int(pending),
	}
	if err := s.payoutRepo.Create(payout); err != nil {
		return nil, err
	}

	logger.Info("Payout generated", map[string]interface{}{
		"payout_id":   payout.ID,
		"supplier_id": supplierID,
		"period":      periodKey,
		"amount":      amount,
	})

	s.notifyPayout(supplierID, payout)
	return payout, nil
}

// GenerateAllPayouts runs the monthly settlement over every verified
// supplier. Returns the number of payouts created.
func (s *payoutService) GenerateAllPayouts(period time.Time) (int, error) {
	suppliers, err := s.supplierRepo.FindByStatus(model.SupplierStatusVerified)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, supplier := range suppliers {
		payout, err := s.GeneratePayout(supplier.ID, period)
		if err != nil {
			logger.Error("Failed to generate payout for supplier", err, map[string]interface{}{
				"supplier_id": supplier.ID,
			})
			continue
		}
		if payout != nil {
			created++
		}
	}

	logger.Info("Settlement run finished", map[string]interface{}{
		"period":    period.Format("2006-01"),
		"suppliers": len(suppliers),
		"created":   created,
	})
	return created, nil
}

func (s *payoutService) GetSupplierPayouts(supplierID uint) ([]model.Payout, error) {
	return s.payoutRepo.FindBySupplierID(supplierID)
}

// AdvanceStatus moves a payout along unpaid → processing → paid. Skipping a
// step or moving backwards is rejected.
func (s *payoutService) AdvanceStatus(payoutID uint, status model.PayoutStatus) (*model.Payout, error) {
	payout, err := s.payoutRepo.FindByID(payoutID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPayoutNotFound
		}
		return nil, err
	}

	if !model.CanAdvancePayout(payout.Status, status) {
		logger.Warn("Payout status change rejected", map[string]interface{}{
			"payout_id": payoutID,
			"from":      payout.Status,
			"to":        status,
		})
		return nil, ErrPayoutNotAdvancing
	}

	payout.Status = status
	if status == model.PayoutStatusPaid {
		now := time.Now()
		payout.PaidAt = &now
	}
	if err := s.payoutRepo.Update(payout); err != nil {
		return nil, err
	}

	logger.Info("Payout status updated", map[string]interface{}{
		"payout_id": payoutID,
		"status":    status,
	})

	s.notifyPayout(payout.SupplierID, payout)
	return payout, nil
}

func (s *payoutService) notifyPayout(supplierID uint, payout *model.Payout) {
	if s.notificationSvc == nil {
		return
	}
	user, err := s.userRepo.FindBySupplierID(supplierID)
	if err != nil {
		return
	}
	if err := s.notificationSvc.NotifyPayoutUpdate(user.ID, payout); err != nil {
		logger.Warn("Failed to notify payout update", map[string]interface{}{
			"payout_id": payout.ID,
		})
	}
}
