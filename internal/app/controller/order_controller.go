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

type OrderController struct {
	orderService service.OrderService
	authService  service.AuthService
}

func NewOrderController(orderService service.OrderService, authService service.AuthService) *OrderController {
	return &OrderController{
		orderService: orderService,
		authService:  authService,
	}
}

type SubmitOrderRequest struct {
	StoreSlug      string                   `json:"store_slug" binding:"required"`
	CustomerName   string                   `json:"customer_name" binding:"required"`
	CustomerPhone  string                   `json:"customer_phone" binding:"required"`
	DeliveryMethod string                   `json:"delivery_method"`
	DeliveryZone   string                   `json:"delivery_zone"`
	Address        string                   `json:"address"`
	PaymentMethod  string                   `json:"payment_method"`
	Items          []service.OrderLineInput `json:"items"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SubmitOrder places an order against a storefront. Works for guests;
// an authenticated customer gets the order linked to their account.
// POST /api/v1/orders
func (ctrl *OrderController) SubmitOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid order request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Los datos del pedido no son válidos")
		return
	}

	input := service.SubmitOrderInput{
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		DeliveryMethod: model.DeliveryMethod(req.DeliveryMethod),
		DeliveryZone:   req.DeliveryZone,
		Address:        req.Address,
		PaymentMethod:  model.PaymentMethod(req.PaymentMethod),
		Items:          req.Items,
	}
	if userID, ok := middleware.GetUserID(c); ok {
		input.CustomerID = &userID
	}

	order, err := ctrl.orderService.SubmitOrder(req.StoreSlug, input)
	if err != nil {
		ctrl.respondSubmitError(c, err, req.StoreSlug)
		return
	}

	log.Info("Order submitted", map[string]interface{}{
		"order_id":  order.ID,
		"reference": order.Reference,
		"store":     req.StoreSlug,
		"total":     order.TotalAmount,
	})

	c.JSON(http.StatusCreated, gin.H{
		"order": order,
	})
}

func (ctrl *OrderController) respondSubmitError(c *gin.Context, err error, slug string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrStoreNotFound):
		apperrors.NotFound(c, apperrors.StoreNotFound, "Tienda no encontrada")
	case errors.Is(err, service.ErrInactiveStore):
		apperrors.RespondWithError(c, http.StatusConflict, apperrors.StoreInactive, "La tienda no está activa")
	case errors.Is(err, service.ErrEmptyCart):
		apperrors.BadRequest(c, apperrors.OrderEmptyCart, "El pedido no tiene productos")
	case errors.Is(err, service.ErrInvalidCustomer):
		apperrors.BadRequest(c, apperrors.ValidationInvalidPhone, "Los datos del cliente no son válidos")
	case errors.Is(err, service.ErrUnknownPayment):
		apperrors.BadRequest(c, apperrors.OrderUnknownPayment, "El método de pago no existe")
	case errors.Is(err, service.ErrPaymentNotOffered):
		apperrors.RespondWithError(c, http.StatusConflict, apperrors.OrderPaymentNotOffered, "La tienda no acepta ese método de pago")
	case errors.Is(err, service.ErrProductNotListed):
		apperrors.BadRequest(c, apperrors.ResourceNotFound, "Un producto del pedido no está disponible en la tienda")
	case errors.Is(err, service.ErrMixedSuppliers):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "El pedido mezcla productos de distintos proveedores")
	case errors.Is(err, service.ErrInsufficientStock):
		apperrors.RespondWithError(c, http.StatusConflict, apperrors.ValidationInvalidStock, "No hay inventario suficiente para el pedido")
	case errors.Is(err, service.ErrPlanLimitOrders):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.PlanLimitOrders, "La tienda alcanzó el límite de pedidos de su plan este mes")
	default:
		log.Error("Order submission failed", err, map[string]interface{}{
			"store": slug,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "pedido")
	}
}

// UpdateStatus advances an order through its lifecycle
// PATCH /api/v1/orders/:id/status
func (ctrl *OrderController) UpdateStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El identificador del pedido no es válido")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "El estado solicitado no es válido")
		return
	}

	order, err := ctrl.orderService.TransitionStatus(uint(id), model.OrderStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "Pedido no encontrado")
		case errors.Is(err, service.ErrUnknownStatus):
			apperrors.BadRequest(c, apperrors.OrderUnknownStatus, "El estado solicitado no existe")
		case errors.Is(err, service.ErrInvalidTransition):
			log.Warn("Order transition rejected", map[string]interface{}{
				"order_id": id,
				"target":   req.Status,
			})
			apperrors.Conflict(c, apperrors.OrderInvalidTransition, "El pedido no puede pasar a ese estado")
		default:
			log.Error("Failed to update order status", err, map[string]interface{}{
				"order_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "pedido")
		}
		return
	}

	log.Info("Order status updated", map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// GetOrder returns a single order by ID
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El identificador del pedido no es válido")
		return
	}

	order, err := ctrl.orderService.GetOrderByID(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Pedido no encontrado")
			return
		}
		log.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "pedido")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// GetOrderByReference lets a guest track an order with its public reference
// GET /api/v1/orders/track/:reference
func (ctrl *OrderController) GetOrderByReference(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	reference := c.Param("reference")

	order, err := ctrl.orderService.GetOrderByReference(reference)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Pedido no encontrado")
			return
		}
		log.Error("Failed to fetch order by reference", err, map[string]interface{}{
			"reference": reference,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "pedido")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// GetStoreOrders lists orders of one of the gestor's stores
// GET /api/v1/stores/:id/orders
func (ctrl *OrderController) GetStoreOrders(c *gin.Context) {
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

	orders, err := ctrl.orderService.GetStoreOrders(userID, uint(storeID), c.Query("status"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStoreNotFound):
			apperrors.NotFound(c, apperrors.StoreNotFound, "Tienda no encontrada")
		case errors.Is(err, service.ErrNotStoreOwner):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "La tienda no le pertenece")
		default:
			log.Error("Failed to fetch store orders", err, map[string]interface{}{
				"store_id": storeID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "pedido")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetSupplierOrders lists orders carrying the supplier's products
// GET /api/v1/suppliers/me/orders
func (ctrl *OrderController) GetSupplierOrders(c *gin.Context) {
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

	orders, err := ctrl.orderService.GetSupplierOrders(*user.SupplierID, c.Query("status"))
	if err != nil {
		log.Error("Failed to fetch supplier orders", err, map[string]interface{}{
			"supplier_id": *user.SupplierID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "pedido")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetMyOrders lists the authenticated customer's orders
// GET /api/v1/orders
func (ctrl *OrderController) GetMyOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Debe iniciar sesión")
		return
	}

	orders, err := ctrl.orderService.GetCustomerOrders(userID)
	if err != nil {
		log.Error("Failed to fetch customer orders", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "pedido")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}
