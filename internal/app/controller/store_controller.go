package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mivitrina/mivitrina-backend/internal/app/service"
	apperrors "github.com/mivitrina/mivitrina-backend/internal/errors"
	"github.com/mivitrina/mivitrina-backend/internal/middleware"
	"github.com/mivitrina/mivitrina-backend/pkg/redis"
)

type StoreController struct {
	storeService service.StoreService
}

func NewStoreController(storeService service.StoreService) *StoreController {
	return &StoreController{
		storeService: storeService,
	}
}

type CreateStoreRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug"`
}

type AddStoreProductRequest struct {
	ProductID   uint    `json:"product_id" binding:"required"`
	CustomPrice float64 `json:"custom_price"`
}

// CreateStore opens a new storefront for the gestor
// POST /api/v1/stores
func (ctrl *StoreController) CreateStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Debe iniciar sesión")
		return
	}

	var req CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid store request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Los datos de la tienda no son válidos")
		return
	}

	store, err := ctrl.storeService.CreateStore(userID, req.Name, req.Slug)
	if err != nil {
		if errors.Is(err, service.ErrPlanLimitStores) {
			log.Warn("Store creation blocked by plan limit", map[string]interface{}{
				"owner_id": userID,
			})
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.PlanLimitStores, "Su plan no permite crear más tiendas")
			return
		}
		log.Error("Failed to create store", err, map[string]interface{}{
			"owner_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "tienda")
		return
	}

	log.Info("Store created", map[string]interface{}{
		"store_id": store.ID,
		"owner_id": userID,
		"slug":     store.Slug,
	})

	c.JSON(http.StatusCreated, gin.H{
		"store": store,
	})
}

// GetMyStores lists the gestor's storefronts
// GET /api/v1/stores
func (ctrl *StoreController) GetMyStores(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Debe iniciar sesión")
		return
	}

	stores, err := ctrl.storeService.GetOwnerStores(userID)
	if err != nil {
		log.Error("Failed to fetch stores", err, map[string]interface{}{
			"owner_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "tienda")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stores": stores,
		"count":  len(stores),
	})
}

// GetStorefront returns the public storefront projection for a slug
// GET /api/v1/stores/:slug
func (ctrl *StoreController) GetStorefront(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	slug := c.Param("slug")

	store, products, err := ctrl.storeService.ProjectStoreProducts(slug)
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			apperrors.NotFound(c, apperrors.StoreNotFound, "Tienda no encontrada")
			return
		}
		log.Error("Failed to project storefront", err, map[string]interface{}{
			"slug": slug,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "tienda")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"store":    store,
		"products": products,
	})
}

// UpdateConfig applies a partial storefront configuration
// PUT /api/v1/stores/:slug/config
func (ctrl *StoreController) UpdateConfig(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Debe iniciar sesión")
		return
	}

	slug := c.Param("slug")

	var input service.StoreConfigInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Warn("Invalid store config", map[string]interface{}{
			"slug":  slug,
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "La configuración de la tienda no es válida")
		return
	}

	store, err := ctrl.storeService.UpdateStoreConfig(userID, slug, input)
	if err != nil {
		var marginErr *service.MarginError
		switch {
		case errors.As(err, &marginErr):
			log.Warn("Store config rejected by margin floor", map[string]interface{}{
				"slug":       slug,
				"violations": len(marginErr.Violations),
			})
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":      apperrors.StoreMarginUnsafe,
				"message":    "Hay precios por debajo del margen mínimo seguro",
				"violations": marginErr.Violations,
			})
		case errors.Is(err, service.ErrStoreNotFound):
			apperrors.NotFound(c, apperrors.StoreNotFound, "Tienda no encontrada")
		case errors.Is(err, service.ErrNotStoreOwner):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "La tienda no le pertenece")
		default:
			log.Error("Failed to update store config", err, map[string]interface{}{
				"slug": slug,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "tienda")
		}
		return
	}

	// Cached zone price sheets are derived from custom prices
	if err := redis.InvalidateZonePrices(c.Request.Context(), store.Slug); err != nil && !errors.Is(err, redis.ErrNotConnected) {
		log.Warn("Failed to invalidate zone price cache", map[string]interface{}{
			"slug": store.Slug,
		})
	}

	log.Info("Store config updated", map[string]interface{}{
		"store_id": store.ID,
		"slug":     store.Slug,
	})

	c.JSON(http.StatusOK, gin.H{
		"store": store,
	})
}

// AddProduct lists a catalog product in the store
// POST /api/v1/stores/:id/products
func (ctrl *StoreController) AddProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Debe iniciar sesión")
		return
	}

	storeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El identificador de la tienda no es válido")
		return
	}

	var req AddStoreProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Los datos del producto no son válidos")
		return
	}

	added, err := ctrl.storeService.AddProductToStore(userID, uint(storeID), req.ProductID, req.CustomPrice)
	if err != nil {
		var marginErr *service.MarginError
		switch {
		case errors.As(err, &marginErr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":      apperrors.StoreMarginUnsafe,
				"message":    "El precio está por debajo del margen mínimo seguro",
				"violations": marginErr.Violations,
			})
		case errors.Is(err, service.ErrStoreNotFound):
			apperrors.NotFound(c, apperrors.StoreNotFound, "Tienda no encontrada")
		case errors.Is(err, service.ErrNotStoreOwner):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "La tienda no le pertenece")
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Producto no encontrado")
		case errors.Is(err, service.ErrPlanLimitProducts):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.PlanLimitProducts, "Su plan no permite listar más productos")
		default:
			log.Error("Failed to add product to store", err, map[string]interface{}{
				"store_id":   storeID,
				"product_id": req.ProductID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "tienda")
		}
		return
	}

	if !added {
		// Already listed; the existing price survives.
		c.JSON(http.StatusOK, gin.H{
			"added":   false,
			"message": "El producto ya estaba en la tienda",
		})
		return
	}

	log.Info("Product added to store", map[string]interface{}{
		"store_id":   storeID,
		"product_id": req.ProductID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"added": true,
	})
}

// RemoveProduct delists a product from the store
// DELETE /api/v1/stores/:id/products/:productId
func (ctrl *StoreController) RemoveProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Debe iniciar sesión")
		return
	}

	storeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El identificador de la tienda no es válido")
		return
	}
	productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El identificador del producto no es válido")
		return
	}

	if err := ctrl.storeService.RemoveProductFromStore(userID, uint(storeID), uint(productID)); err != nil {
		switch {
		case errors.Is(err, service.ErrStoreNotFound):
			apperrors.NotFound(c, apperrors.StoreNotFound, "Tienda no encontrada")
		case errors.Is(err, service.ErrNotStoreOwner):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "La tienda no le pertenece")
		case errors.Is(err, service.ErrListingNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "El producto no está en la tienda")
		default:
			log.Error("Failed to remove product from store", err, map[string]interface{}{
				"store_id":   storeID,
				"product_id": productID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "tienda")
		}
		return
	}

	log.Info("Product removed from store", map[string]interface{}{
		"store_id":   storeID,
		"product_id": productID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Producto retirado de la tienda",
	})
}

// GetDashboard returns order statistics for the store
// GET /api/v1/stores/:id/dashboard
func (ctrl *StoreController) GetDashboard(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Debe iniciar sesión")
		return
	}

	storeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El identificador de la tienda no es válido")
		return
	}

	stats, err := ctrl.storeService.GetDashboard(userID, uint(storeID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStoreNotFound):
			apperrors.NotFound(c, apperrors.StoreNotFound, "Tienda no encontrada")
		case errors.Is(err, service.ErrNotStoreOwner):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "La tienda no le pertenece")
		default:
			log.Error("Failed to fetch dashboard", err, map[string]interface{}{
				"store_id": storeID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "tienda")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": stats,
	})
}

// Deactivate takes the storefront offline
// DELETE /api/v1/stores/:id
func (ctrl *StoreController) Deactivate(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Debe iniciar sesión")
		return
	}

	storeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El identificador de la tienda no es válido")
		return
	}

	if err := ctrl.storeService.DeactivateStore(userID, uint(storeID)); err != nil {
		switch {
		case errors.Is(err, service.ErrStoreNotFound):
			apperrors.NotFound(c, apperrors.StoreNotFound, "Tienda no encontrada")
		case errors.Is(err, service.ErrNotStoreOwner):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "La tienda no le pertenece")
		default:
			log.Error("Failed to deactivate store", err, map[string]interface{}{
				"store_id": storeID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "tienda")
		}
		return
	}

	log.Info("Store deactivated", map[string]interface{}{
		"store_id": storeID,
		"owner_id": userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Tienda desactivada",
	})
}
