package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mivitrina/mivitrina-backend/internal/app/model"
	"github.com/mivitrina/mivitrina-backend/internal/app/service"
	apperrors "github.com/mivitrina/mivitrina-backend/internal/errors"
	"github.com/mivitrina/mivitrina-backend/internal/middleware"
)

type ExchangeRateController struct {
	rateService service.ExchangeRateService
}

func NewExchangeRateController(rateService service.ExchangeRateService) *ExchangeRateController {
	return &ExchangeRateController{
		rateService: rateService,
	}
}

type RecordRateRequest struct {
	Currency string  `json:"currency" binding:"required"`
	RateCUP  float64 `json:"rate_cup" binding:"required,gt=0"`
	Source   string  `json:"source"`
}

// GetLatest returns today's informal rate for a currency
// GET /api/v1/rates/:currency
func (ctrl *ExchangeRateController) GetLatest(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	currency := model.Currency(c.Param("currency"))

	rate, err := ctrl.rateService.GetLatest(currency)
	if err != nil {
		if errors.Is(err, service.ErrRateNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "No hay tasa registrada para esa moneda")
			return
		}
		log.Error("Failed to fetch exchange rate", err, map[string]interface{}{
			"currency": currency,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "tasa")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rate": rate,
	})
}

// GetHistory returns recent rates for a currency
// GET /api/v1/rates/:currency/history
func (ctrl *ExchangeRateController) GetHistory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	currency := model.Currency(c.Param("currency"))

	days := 0
	if daysStr := c.Query("days"); daysStr != "" {
		if parsed, err := strconv.Atoi(daysStr); err == nil && parsed > 0 {
			days = parsed
		}
	}

	rates, err := ctrl.rateService.GetHistory(currency, days)
	if err != nil {
		log.Error("Failed to fetch rate history", err, map[string]interface{}{
			"currency": currency,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "tasa")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rates": rates,
		"count": len(rates),
	})
}

// RecordRate stores today's informal market rate (admin)
// POST /api/v1/rates
func (ctrl *ExchangeRateController) RecordRate(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RecordRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Los datos de la tasa no son válidos")
		return
	}

	rate, err := ctrl.rateService.RecordRate(model.Currency(req.Currency), req.RateCUP, req.Source)
	if err != nil {
		log.Error("Failed to record exchange rate", err, map[string]interface{}{
			"currency": req.Currency,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "tasa")
		return
	}

	log.Info("Exchange rate recorded", map[string]interface{}{
		"currency": rate.Currency,
		"date":     rate.Date,
		"rate_cup": rate.RateCUP,
	})

	c.JSON(http.StatusCreated, gin.H{
		"rate": rate,
	})
}
