package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mivitrina/mivitrina-backend/internal/app/model"
	"github.com/mivitrina/mivitrina-backend/internal/app/service"
	apperrors "github.com/mivitrina/mivitrina-backend/internal/errors"
	"github.com/mivitrina/mivitrina-backend/internal/middleware"
)

type PayoutController struct {
	payoutService service.PayoutService
	authService   service.AuthService
}

func NewPayoutController(payoutService service.PayoutService, authService service.AuthService) *PayoutController {
	return &PayoutController{
		payoutService: payoutService,
		authService:   authService,
	}
}

type GeneratePayoutsRequest struct {
	Period string `json:"period" binding:"required"` // YYYY-MM
}

type AdvancePayoutRequest struct {
	Status string `json:"status" binding:"required"`
}

// GetMyPayouts lists the authenticated supplier's settlements
// GET /api/v1/payouts
func (ctrl *PayoutController) GetMyPayouts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Debe iniciar sesión")
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "usuario")
		return
	}
	if user.SupplierID == nil {
		apperrors.Forbidden(c, "Su cuenta no tiene un perfil de proveedor")
		return
	}

	payouts, err := ctrl.payoutService.GetSupplierPayouts(*user.SupplierID)
	if err != nil {
		log.Error("Failed to fetch payouts", err, map[string]interface{}{
			"supplier_id": *user.SupplierID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "liquidación")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payouts": payouts,
		"count":   len(payouts),
	})
}

// GeneratePayouts issues settlements for all verified suppliers (admin)
// POST /api/v1/payouts
func (ctrl *PayoutController) GeneratePayouts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GeneratePayoutsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "El período no es válido")
		return
	}

	period, err := time.Parse("2006-01", req.Period)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "El período debe tener formato AAAA-MM")
		return
	}

	created, err := ctrl.payoutService.GenerateAllPayouts(period)
	if err != nil {
		log.Error("Payout generation failed", err, map[string]interface{}{
			"period": req.Period,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "liquidación")
		return
	}

	log.Info("Payouts generated", map[string]interface{}{
		"period":  req.Period,
		"created": created,
	})

	c.JSON(http.StatusOK, gin.H{
		"period":  req.Period,
		"created": created,
	})
}

// AdvanceStatus moves a settlement forward (admin)
// PATCH /api/v1/payouts/:id/status
func (ctrl *PayoutController) AdvanceStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El identificador de la liquidación no es válido")
		return
	}

	var req AdvancePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "El estado solicitado no es válido")
		return
	}

	payout, err := ctrl.payoutService.AdvanceStatus(uint(id), model.PayoutStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPayoutNotFound):
			apperrors.NotFound(c, apperrors.PayoutNotFound, "Liquidación no encontrada")
		case errors.Is(err, service.ErrPayoutNotAdvancing):
			apperrors.Conflict(c, apperrors.PayoutInvalidProgression, "La liquidación solo puede avanzar de estado")
		default:
			log.Error("Failed to advance payout", err, map[string]interface{}{
				"payout_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "liquidación")
		}
		return
	}

	log.Info("Payout status updated", map[string]interface{}{
		"payout_id": payout.ID,
		"status":    payout.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"payout": payout,
	})
}
