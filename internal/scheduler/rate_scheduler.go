package scheduler

import (
	"github.com/mivitrina/mivitrina-backend/internal/app/service"
	"github.com/mivitrina/mivitrina-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// RateScheduler refreshes informal exchange rates on a daily cadence.
type RateScheduler struct {
	cron        *cron.Cron
	rateService service.ExchangeRateService
}

func NewRateScheduler(rateService service.ExchangeRateService) *RateScheduler {
	return &RateScheduler{
		cron:        cron.New(),
		rateService: rateService,
	}
}

// Start registers the daily refresh job and launches the cron loop.
func (s *RateScheduler) Start() error {
	// 8:00 AM daily, before stores open for the day's orders
	_, err := s.cron.AddFunc("0 8 * * *", func() {
		logger.Info("Starting scheduled exchange rate refresh", nil)

		updated, err := s.rateService.RefreshFromSource()
		if err != nil {
			logger.Error("Failed to refresh exchange rates from scheduler", err)
			return
		}

		logger.Info("Scheduled exchange rate refresh finished", map[string]interface{}{
			"updated": updated,
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for exchange rate refresh", err)
		return err
	}

	s.cron.Start()
	logger.Info("Exchange rate scheduler started successfully (daily at 8:00 AM)", nil)

	return nil
}

// Stop halts the cron loop.
func (s *RateScheduler) Stop() {
	logger.Info("Stopping exchange rate scheduler...", nil)
	s.cron.Stop()
	logger.Info("Exchange rate scheduler stopped", nil)
}
