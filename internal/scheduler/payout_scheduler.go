package scheduler

import (
	"time"

	"github.com/mivitrina/mivitrina-backend/internal/app/service"
	"github.com/mivitrina/mivitrina-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// PayoutScheduler generates supplier payouts for the closed month.
type PayoutScheduler struct {
	cron          *cron.Cron
	payoutService service.PayoutService
}

func NewPayoutScheduler(payoutService service.PayoutService) *PayoutScheduler {
	return &PayoutScheduler{
		cron:          cron.New(),
		payoutService: payoutService,
	}
}

// Start registers the monthly settlement job and launches the cron loop.
func (s *PayoutScheduler) Start() error {
	// 2:00 AM on the 1st of each month, settling the month that just ended
	_, err := s.cron.AddFunc("0 2 1 * *", func() {
		period := time.Now().AddDate(0, -1, 0)

		logger.Info("Starting scheduled payout generation", map[string]interface{}{
			"period": period.Format("2006-01"),
		})

		created, err := s.payoutService.GenerateAllPayouts(period)
		if err != nil {
			logger.Error("Failed to generate payouts from scheduler", err)
			return
		}

		logger.Info("Scheduled payout generation finished", map[string]interface{}{
			"period":  period.Format("2006-01"),
			"created": created,
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for payout generation", err)
		return err
	}

	s.cron.Start()
	logger.Info("Payout scheduler started successfully (monthly on the 1st at 2:00 AM)", nil)

	return nil
}

// Stop halts the cron loop.
func (s *PayoutScheduler) Stop() {
	logger.Info("Stopping payout scheduler...", nil)
	s.cron.Stop()
	logger.Info("Payout scheduler stopped", nil)
}
