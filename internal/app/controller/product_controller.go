package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mivitrina/mivitrina-backend/internal/app/model"
	"github.com/mivitrina/mivitrina-backend/internal/app/repository"
	"github.com/mivitrina/mivitrina-backend/internal/app/service"
	apperrors "github.com/mivitrina/mivitrina-backend/internal/errors"
	"github.com/mivitrina/mivitrina-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
	authService    service.AuthService
}

func NewProductController(productService service.ProductService, authService service.AuthService) *ProductController {
	return &ProductController{
		productService: productService,
		authService:    authService,
	}
}

type PublishProductRequest struct {
	Name           string  `json:"name" binding:"required"`
	Description    string  `json:"description"`
	WholesalePrice float64 `json:"wholesale_price" binding:"required"`
	RetailPrice    float64 `json:"retail_price"`
	Currency       string  `json:"currency"`
	StockQuantity  int     `json:"stock_quantity" binding:"required"`
	Category       string  `json:"category"`
	ImageURL       string  `json:"image_url"`
}

type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// supplierIDForUser resolves the supplier profile linked to the
// authenticated account.
func (ctrl *ProductController) supplierIDForUser(c *gin.Context) (uint, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Debe iniciar sesión")
		return 0, false
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "usuario")
		return 0, false
	}
	if user.SupplierID == nil {
		apperrors.Forbidden(c, "Su cuenta no tiene un perfil de proveedor")
		return 0, false
	}
	return *user.SupplierID, true
}

// PublishProduct adds a product to the wholesale catalog
// POST /api/v1/products
func (ctrl *ProductController) PublishProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	supplierID, ok := ctrl.supplierIDForUser(c)
	if !ok {
		return
	}

	var req PublishProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid product request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Los datos del producto no son válidos")
		return
	}

	product, err := ctrl.productService.PublishProduct(supplierID, service.PublishProductInput{
		Name:           req.Name,
		Description:    req.Description,
		WholesalePrice: req.WholesalePrice,
		RetailPrice:    req.RetailPrice,
		Currency:       model.Currency(req.Currency),
		StockQuantity:  req.StockQuantity,
		Category:       req.Category,
		ImageURL:       req.ImageURL,
	})
	if err != nil {
		ctrl.respondPublishError(c, err, supplierID)
		return
	}

	log.Info("Product published", map[string]interface{}{
		"product_id":  product.ID,
		"supplier_id": supplierID,
		"name":        product.Name,
	})

	c.JSON(http.StatusCreated, gin.H{
		"product": product,
	})
}

func (ctrl *ProductController) respondPublishError(c *gin.Context, err error, supplierID uint) {
	log := middleware.GetLoggerFromContext(c)

	var complianceErr *service.ComplianceError
	switch {
	case errors.As(err, &complianceErr):
		log.Warn("Product rejected by compliance filter", map[string]interface{}{
			"supplier_id": supplierID,
			"reason":      complianceErr.Reason,
		})
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   apperrors.ProductNoncompliant,
			"message": "El producto no cumple las normas del catálogo",
			"reason":  complianceErr.Reason,
		})
	case errors.Is(err, service.ErrSupplierNotVerified):
		apperrors.Forbidden(c, "El proveedor aún no está verificado")
	case errors.Is(err, service.ErrInvalidWholesale):
		apperrors.BadRequest(c, apperrors.ValidationInvalidPrice, "El precio mayorista debe ser mayor que cero")
	case errors.Is(err, service.ErrInvalidStock):
		apperrors.BadRequest(c, apperrors.ValidationInvalidStock, "La cantidad inicial debe ser mayor que cero")
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Producto no encontrado")
	default:
		log.Error("Product operation failed", err, map[string]interface{}{
			"supplier_id": supplierID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "producto")
	}
}

// GetProduct returns a catalog product
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El identificador del producto no es válido")
		return
	}

	product, err := ctrl.productService.GetProduct(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Producto no encontrado")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "producto")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// ListProducts returns the wholesale catalog with optional filters
// GET /api/v1/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		InStock:  c.Query("in_stock") == "true",
	}
	if currencyStr := c.Query("currency"); currencyStr != "" {
		currency := model.Currency(currencyStr)
		filter.Currency = &currency
	}
	if supplierStr := c.Query("supplier_id"); supplierStr != "" {
		if id, err := strconv.ParseUint(supplierStr, 10, 32); err == nil {
			supplierID := uint(id)
			filter.SupplierID = &supplierID
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset > 0 {
			filter.Offset = offset
		}
	}

	products, err := ctrl.productService.ListProducts(filter)
	if err != nil {
		log.Error("Failed to list products", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "producto")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// UpdateProduct edits a product owned by the supplier
// PUT /api/v1/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	supplierID, ok := ctrl.supplierIDForUser(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El identificador del producto no es válido")
		return
	}

	var req PublishProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Los datos del producto no son válidos")
		return
	}

	product, err := ctrl.productService.UpdateProduct(supplierID, uint(id), service.PublishProductInput{
		Name:           req.Name,
		Description:    req.Description,
		WholesalePrice: req.WholesalePrice,
		RetailPrice:    req.RetailPrice,
		Currency:       model.Currency(req.Currency),
		StockQuantity:  req.StockQuantity,
		Category:       req.Category,
		ImageURL:       req.ImageURL,
	})
	if err != nil {
		ctrl.respondPublishError(c, err, supplierID)
		return
	}

	log.Info("Product updated", map[string]interface{}{
		"product_id":  product.ID,
		"supplier_id": supplierID,
	})

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// DeleteProduct removes a product from the catalog
// DELETE /api/v1/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	supplierID, ok := ctrl.supplierIDForUser(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El identificador del producto no es válido")
		return
	}

	if err := ctrl.productService.DeleteProduct(supplierID, uint(id)); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Producto no encontrado")
			return
		}
		log.Error("Failed to delete product", err, map[string]interface{}{
			"product_id":  id,
			"supplier_id": supplierID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "producto")
		return
	}

	log.Info("Product deleted", map[string]interface{}{
		"product_id":  id,
		"supplier_id": supplierID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Producto eliminado",
	})
}

// AdjustStock applies a signed stock delta, clamped at zero
// PATCH /api/v1/products/:id/stock
func (ctrl *ProductController) AdjustStock(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if _, ok := ctrl.supplierIDForUser(c); !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El identificador del producto no es válido")
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "El ajuste de inventario no es válido")
		return
	}

	stock, err := ctrl.productService.AdjustStock(uint(id), req.Delta)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Producto no encontrado")
			return
		}
		log.Error("Failed to adjust stock", err, map[string]interface{}{
			"product_id": id,
			"delta":      req.Delta,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "producto")
		return
	}

	log.Info("Stock adjusted", map[string]interface{}{
		"product_id": id,
		"delta":      req.Delta,
		"stock":      stock,
	})

	c.JSON(http.StatusOK, gin.H{
		"product_id":     uint(id),
		"stock_quantity": stock,
	})
}
