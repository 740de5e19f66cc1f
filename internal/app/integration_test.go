package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mivitrina/mivitrina-backend/config"
	"github.com/mivitrina/mivitrina-backend/internal/app/controller"
	"github.com/mivitrina/mivitrina-backend/internal/app/model"
	"github.com/mivitrina/mivitrina-backend/internal/app/repository"
	"github.com/mivitrina/mivitrina-backend/internal/app/service"
	"github.com/mivitrina/mivitrina-backend/internal/db"
	"github.com/mivitrina/mivitrina-backend/internal/middleware"
	"github.com/mivitrina/mivitrina-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type TestServer struct {
	Router      *gin.Engine
	DB          *gorm.DB
	AuthService service.AuthService
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	// Setup database
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	// Setup repositories
	userRepo := repository.NewUserRepository(testDB)
	supplierRepo := repository.NewSupplierRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	storeRepo := repository.NewStoreRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	payoutRepo := repository.NewPayoutRepository(testDB)
	rateRepo := repository.NewExchangeRateRepository(testDB)
	notificationRepo := repository.NewNotificationRepository(testDB)

	// Setup services
	authService := service.NewAuthService(
		userRepo,
		"test-secret",
		15*time.Minute,
		7*24*time.Hour,
	)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, nil)
	supplierService := service.NewSupplierService(supplierRepo, userRepo, notificationService)
	productService := service.NewProductService(productRepo, supplierRepo)
	storeService := service.NewStoreService(storeRepo, productRepo, orderRepo)
	orderService := service.NewOrderService(
		orderRepo,
		storeRepo,
		productRepo,
		notificationService,
		config.MarketplaceConfig{AutoDecrementStock: true},
		testDB,
	)
	payoutService := service.NewPayoutService(
		payoutRepo,
		orderRepo,
		supplierRepo,
		rateRepo,
		userRepo,
		notificationService,
		config.MarketplaceConfig{SettlementCurrency: "CUP"},
	)

	// Setup controllers
	authController := controller.NewAuthController(authService)
	supplierController := controller.NewSupplierController(supplierService)
	productController := controller.NewProductController(productService, authService)
	storeController := controller.NewStoreController(storeService)
	orderController := controller.NewOrderController(orderService, authService)
	payoutController := controller.NewPayoutController(payoutService, authService)

	// Setup middleware
	authMiddleware := middleware.NewAuthMiddleware("test-secret", false)

	// Setup router
	router := gin.New()

	// Auth routes
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.GET("/me", authMiddleware.Authenticate(), authController.GetMe)
	}

	// Supplier routes
	suppliers := router.Group("/api/v1/suppliers")
	{
		suppliers.POST("", authMiddleware.Authenticate(), supplierController.RegisterSupplier)
		suppliers.GET("/:id", supplierController.GetSupplier)
		suppliers.POST("/:id/verify", authMiddleware.Authenticate(), authMiddleware.RequireRole("admin"), supplierController.VerifySupplier)
	}

	// Product routes
	products := router.Group("/api/v1/products")
	{
		products.GET("", productController.ListProducts)
		products.GET("/:id", productController.GetProduct)
		products.POST("", authMiddleware.Authenticate(), authMiddleware.RequireRole("proveedor", "admin"), productController.PublishProduct)
	}

	// Store routes
	stores := router.Group("/api/v1/stores")
	{
		stores.GET("/:slug", storeController.GetStorefront)
		stores.POST("", authMiddleware.Authenticate(), authMiddleware.RequireRole("gestor", "admin"), storeController.CreateStore)
	}
	panelStores := router.Group("/api/v1/panel/stores")
	panelStores.Use(authMiddleware.Authenticate(), authMiddleware.RequireRole("gestor", "admin"))
	{
		panelStores.POST("/:id/products", storeController.AddProduct)
		panelStores.GET("/:id/dashboard", storeController.GetDashboard)
	}

	// Order routes
	orders := router.Group("/api/v1/orders")
	{
		orders.POST("", authMiddleware.OptionalAuthenticate(), orderController.SubmitOrder)
		orders.PATCH("/:id/status", authMiddleware.Authenticate(), authMiddleware.RequireRole("gestor", "proveedor", "admin"), orderController.UpdateStatus)
	}
	router.GET("/api/v1/track/:reference", orderController.GetOrderByReference)

	// Payout routes
	payouts := router.Group("/api/v1/payouts")
	payouts.Use(authMiddleware.Authenticate())
	{
		payouts.GET("", authMiddleware.RequireRole("proveedor", "admin"), payoutController.GetMyPayouts)
		payouts.POST("", authMiddleware.RequireRole("admin"), payoutController.GeneratePayouts)
	}

	return &TestServer{
		Router:      router,
		DB:          testDB,
		AuthService: authService,
	}
}

// adminToken inserts an admin account and mints a token for it. Admin
// accounts are seeded in production, never self-registered.
func adminToken(t *testing.T, ts *TestServer) string {
	admin := &model.User{
		Email:        "admin@mivitrina.cu",
		PasswordHash: "hash",
		Name:         "Admin",
		Role:         model.RoleAdmin,
	}
	require.NoError(t, ts.DB.Create(admin).Error)

	pair, err := util.GenerateTokenPair(admin.ID, admin.Email, string(admin.Role), "test-secret", 15*time.Minute, time.Hour)
	require.NoError(t, err)
	return pair.AccessToken
}

func doJSON(ts *TestServer, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func TestCompleteMarketplaceJourney(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	// 1. Register a proveedor account
	t.Log("Step 1: Register supplier account")
	w := doJSON(ts, "POST", "/api/v1/auth/register", "", map[string]string{
		"email":    "conservas@example.cu",
		"password": "password123",
		"name":     "Marta Pérez",
		"phone":    "+53 5511 1222",
		"role":     "proveedor",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var registerResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &registerResp)
	supplierToken := registerResp["tokens"].(map[string]interface{})["access_token"].(string)

	// 2. File the supplier verification request
	t.Log("Step 2: Register supplier business")
	w = doJSON(ts, "POST", "/api/v1/suppliers", supplierToken, map[string]string{
		"business_name":     "Conservas La Palma",
		"legal_type":        "mipyme",
		"owner_name":        "Marta Pérez",
		"phone":             "+5355111222",
		"identity_document": "85010112345",
		"address":           "Calle 23 #456, La Habana",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var supplierResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &supplierResp)
	supplier := supplierResp["supplier"].(map[string]interface{})
	supplierID := uint(supplier["id"].(float64))
	assert.Equal(t, "pending", supplier["status"])

	// 3. Admin approves the supplier
	t.Log("Step 3: Verify supplier")
	admin := adminToken(t, ts)
	w = doJSON(ts, "POST", fmt.Sprintf("/api/v1/suppliers/%d/verify", supplierID), admin, map[string]string{
		"decision": "verified",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// 4. Publish a wholesale product
	t.Log("Step 4: Publish product")
	w = doJSON(ts, "POST", "/api/v1/products", supplierToken, map[string]interface{}{
		"name":            "Puré de tomate 500g",
		"description":     "Caja de 24 unidades",
		"wholesale_price": 100.0,
		"retail_price":    130.0,
		"currency":        "CUP",
		"stock_quantity":  50,
		"category":        "alimentos",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var productResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &productResp)
	productID := uint(productResp["product"].(map[string]interface{})["id"].(float64))

	// 5. Register a gestor and open a storefront
	t.Log("Step 5: Open storefront")
	w = doJSON(ts, "POST", "/api/v1/auth/register", "", map[string]string{
		"email":    "yoel@example.cu",
		"password": "password123",
		"name":     "Yoel García",
		"phone":    "+5356000111",
		"role":     "gestor",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	json.Unmarshal(w.Body.Bytes(), &registerResp)
	gestorToken := registerResp["tokens"].(map[string]interface{})["access_token"].(string)

	w = doJSON(ts, "POST", "/api/v1/stores", gestorToken, map[string]string{
		"name": "La Bodega de Yoel",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var storeResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &storeResp)
	store := storeResp["store"].(map[string]interface{})
	storeID := uint(store["id"].(float64))
	storeSlug := store["slug"].(string)
	assert.Equal(t, "la-bodega-de-yoel", storeSlug)

	// 6. List the product in the store with a custom price
	t.Log("Step 6: Add product to store")
	w = doJSON(ts, "POST", fmt.Sprintf("/api/v1/panel/stores/%d/products", storeID), gestorToken, map[string]interface{}{
		"product_id":   productID,
		"custom_price": 130.0,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// 7. Browse the public storefront
	t.Log("Step 7: Browse storefront")
	w = doJSON(ts, "GET", "/api/v1/stores/"+storeSlug, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var storefrontResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &storefrontResp)
	listed := storefrontResp["products"].([]interface{})
	require.Len(t, listed, 1)

	// 8. Submit a guest order
	t.Log("Step 8: Submit order")
	w = doJSON(ts, "POST", "/api/v1/orders", "", map[string]interface{}{
		"store_slug":     storeSlug,
		"customer_name":  "Dayana",
		"customer_phone": "+5352223344",
		"items": []map[string]interface{}{
			{"product_id": productID, "quantity": 2},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var orderResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &orderResp)
	order := orderResp["order"].(map[string]interface{})
	orderID := uint(order["id"].(float64))
	reference := order["reference"].(string)
	assert.Equal(t, "pending", order["status"])
	assert.InDelta(t, 260.0, order["total_amount"].(float64), 0.001)
	assert.InDelta(t, 26.0, order["commission"].(float64), 0.001) // 10% free tier

	// 9. Customer tracks the order by reference
	t.Log("Step 9: Track order")
	w = doJSON(ts, "GET", "/api/v1/track/"+reference, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// 10. Walk the order to delivered
	t.Log("Step 10: Fulfil order")
	for _, status := range []string{"confirmed", "preparing", "shipped", "delivered"} {
		w = doJSON(ts, "PATCH", fmt.Sprintf("/api/v1/orders/%d/status", orderID), gestorToken, map[string]string{
			"status": status,
		})
		require.Equal(t, http.StatusOK, w.Code, "transition to %s", status)
	}

	// 11. Stock was decremented at submission
	t.Log("Step 11: Verify stock decreased")
	var updatedProduct model.Product
	ts.DB.First(&updatedProduct, productID)
	assert.Equal(t, 48, updatedProduct.StockQuantity)

	// 12. Admin settles the month
	t.Log("Step 12: Generate payouts")
	period := time.Now().Format("2006-01")
	w = doJSON(ts, "POST", "/api/v1/payouts", admin, map[string]string{
		"period": period,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var payoutResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &payoutResp)
	assert.Equal(t, float64(1), payoutResp["created"])

	// 13. Supplier sees the settlement
	t.Log("Step 13: Supplier views payouts")
	w = doJSON(ts, "GET", "/api/v1/payouts", supplierToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	json.Unmarshal(w.Body.Bytes(), &payoutResp)
	payouts := payoutResp["payouts"].([]interface{})
	require.Len(t, payouts, 1)
	payout := payouts[0].(map[string]interface{})
	assert.Equal(t, period, payout["period"])
	// delivered total minus the platform's 10% commission
	assert.InDelta(t, 234.0, payout["amount"].(float64), 0.001)
}

func TestAuthenticationFlow(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	// Register
	w := doJSON(ts, "POST", "/api/v1/auth/register", "", map[string]string{
		"email":    "test@example.cu",
		"password": "password123",
		"name":     "Test User",
		"phone":    "+5351234567",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var registerResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &registerResp)
	accessToken := registerResp["tokens"].(map[string]interface{})["access_token"].(string)

	// Login
	w = doJSON(ts, "POST", "/api/v1/auth/login", "", map[string]string{
		"email":    "test@example.cu",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// Get user info
	w = doJSON(ts, "GET", "/api/v1/auth/me", accessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var meResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &meResp)
	user := meResp["user"].(map[string]interface{})
	assert.Equal(t, "test@example.cu", user["email"])
	assert.Equal(t, "Test User", user["name"])
}

func TestUnauthorizedAccess(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	// Try to access protected routes without token
	protectedRoutes := []string{
		"/api/v1/auth/me",
		"/api/v1/payouts",
	}

	for _, route := range protectedRoutes {
		t.Run(route, func(t *testing.T) {
			req := httptest.NewRequest("GET", route, nil)
			w := httptest.NewRecorder()

			ts.Router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
