package db

import (
	"time"

	"github.com/mivitrina/mivitrina-backend/internal/app/model"
	"github.com/mivitrina/mivitrina-backend/pkg/logger"
)

// Migrate runs database migrations.
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Supplier{},
		&model.Product{},
		&model.Store{},
		&model.StoreProduct{},
		&model.Order{},
		&model.OrderItem{},
		&model.Payout{},
		&model.ExchangeRate{},
		&model.Notification{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds the data the application cannot run without: an admin account
// and a starting exchange rate row per foreign currency.
func Seed() error {
	logger.Info("Seeding initial data...")

	if err := seedAdminUser(); err != nil {
		logger.Error("Failed to seed admin user", err)
		return err
	}

	if err := seedExchangeRates(); err != nil {
		logger.Error("Failed to seed exchange rates", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

func seedAdminUser() error {
	var count int64
	if err := DB.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Admin user already seeded, skipping...")
		return nil
	}

	admin := model.User{
		Email: "admin@mivitrina.local",
		Name:  "Administrador",
		Role:  model.RoleAdmin,
		// bcrypt hash of "cambiame", replaced on first login in any real
		// deployment.
		PasswordHash: "$2a$12$GRxMhHWCFf3ZYvHRq3P4a.qX0iJpQ1eHChYFjC0yV9oTn0eC4sUBq",
	}
	return DB.Create(&admin).Error
}

func seedExchangeRates(rateOverrides ...model.ExchangeRate) error {
	var count int64
	if err := DB.Model(&model.ExchangeRate{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Exchange rates already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	today := time.Now().Format("2006-01-02")
	rates := []model.ExchangeRate{
		{Currency: model.CurrencyUSD, Date: today, RateCUP: 320, Source: "seed"},
		{Currency: model.CurrencyMLC, Date: today, RateCUP: 260, Source: "seed"},
	}
	if len(rateOverrides) > 0 {
		rates = rateOverrides
	}

	return DB.Create(&rates).Error
}
