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

type SupplierController struct {
	supplierService service.SupplierService
}

func NewSupplierController(supplierService service.SupplierService) *SupplierController {
	return &SupplierController{
		supplierService: supplierService,
	}
}

type RegisterSupplierRequest struct {
	BusinessName     string `json:"business_name" binding:"required"`
	LegalType        string `json:"legal_type"`
	Address          string `json:"address"`
	OwnerName        string `json:"owner_name" binding:"required"`
	Phone            string `json:"phone" binding:"required"`
	IdentityDocument string `json:"identity_document" binding:"required"`
}

type VerifySupplierRequest struct {
	Decision string `json:"decision" binding:"required"` // verified or rejected
	Reason   string `json:"reason"`
}

// RegisterSupplier files a verification request for the authenticated user
// POST /api/v1/suppliers
func (ctrl *SupplierController) RegisterSupplier(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Debe iniciar sesión")
		return
	}

	var req RegisterSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid supplier request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Los datos del proveedor no son válidos")
		return
	}

	supplier, err := ctrl.supplierService.RegisterSupplier(userID, service.RegisterSupplierInput{
		BusinessName:     req.BusinessName,
		LegalType:        model.LegalType(req.LegalType),
		Address:          req.Address,
		OwnerName:        req.OwnerName,
		Phone:            req.Phone,
		IdentityDocument: req.IdentityDocument,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidIdentityDocument):
			apperrors.BadRequest(c, apperrors.ValidationInvalidDocument, "El carné de identidad no es válido")
		case errors.Is(err, service.ErrInvalidSupplierPhone):
			apperrors.BadRequest(c, apperrors.ValidationInvalidPhone, "El número de teléfono no es un móvil cubano válido")
		default:
			log.Error("Supplier registration failed", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "proveedor")
		}
		return
	}

	log.Info("Supplier registered", map[string]interface{}{
		"supplier_id": supplier.ID,
		"user_id":     userID,
		"business":    supplier.BusinessName,
	})

	c.JSON(http.StatusCreated, gin.H{
		"supplier": supplier,
	})
}

// GetSupplier returns a supplier profile
// GET /api/v1/suppliers/:id
func (ctrl *SupplierController) GetSupplier(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El identificador del proveedor no es válido")
		return
	}

	supplier, err := ctrl.supplierService.GetSupplier(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrSupplierNotFound) {
			apperrors.NotFound(c, apperrors.SupplierNotFound, "Proveedor no encontrado")
			return
		}
		log.Error("Failed to fetch supplier", err, map[string]interface{}{
			"supplier_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "proveedor")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"supplier": supplier,
	})
}

// ListSuppliers lists suppliers, optionally filtered by status (admin)
// GET /api/v1/suppliers
func (ctrl *SupplierController) ListSuppliers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	suppliers, err := ctrl.supplierService.ListSuppliers(c.Query("status"))
	if err != nil {
		log.Error("Failed to list suppliers", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "proveedor")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"suppliers": suppliers,
		"count":     len(suppliers),
	})
}

// VerifySupplier records an admin verification decision
// POST /api/v1/suppliers/:id/verify
func (ctrl *SupplierController) VerifySupplier(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	adminID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Debe iniciar sesión")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El identificador del proveedor no es válido")
		return
	}

	var req VerifySupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "La decisión de verificación no es válida")
		return
	}

	supplier, err := ctrl.supplierService.Verify(adminID, uint(id), model.SupplierStatus(req.Decision), req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSupplierNotFound):
			apperrors.NotFound(c, apperrors.SupplierNotFound, "Proveedor no encontrado")
		case errors.Is(err, service.ErrUnknownDecision):
			apperrors.BadRequest(c, apperrors.SupplierInvalidDecision, "La decisión debe ser verified o rejected")
		case errors.Is(err, service.ErrRejectionNeedsReason):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "El rechazo requiere un motivo")
		case errors.Is(err, service.ErrAlreadyReviewed):
			apperrors.Conflict(c, apperrors.SupplierAlreadyReviewed, "La solicitud ya fue revisada")
		default:
			log.Error("Supplier verification failed", err, map[string]interface{}{
				"supplier_id": id,
				"admin_id":    adminID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "proveedor")
		}
		return
	}

	log.Info("Supplier reviewed", map[string]interface{}{
		"supplier_id": supplier.ID,
		"decision":    req.Decision,
		"admin_id":    adminID,
	})

	c.JSON(http.StatusOK, gin.H{
		"supplier": supplier,
	})
}
