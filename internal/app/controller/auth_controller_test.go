package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mivitrina/mivitrina-backend/internal/app/model"
	"github.com/mivitrina/mivitrina-backend/internal/app/repository"
	"github.com/mivitrina/mivitrina-backend/internal/app/service"
	"github.com/mivitrina/mivitrina-backend/internal/db"
)

func setupAuthControllerTest(t *testing.T) (*AuthController, *gin.Engine, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	authService := service.NewAuthService(userRepo, "test-secret", 15*time.Minute, 7*24*time.Hour)
	controller := NewAuthController(authService)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return controller, router, testDB
}

func TestAuthController_Register_Success(t *testing.T) {
	controller, router, _ := setupAuthControllerTest(t)

	router.POST("/auth/register", controller.Register)

	body, _ := json.Marshal(gin.H{
		"email":    "gestor@example.com",
		"password": "secreto123",
		"name":     "Gestor",
		"phone":    "+53 55 123 456",
		"role":     "gestor",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	user := response["user"].(map[string]interface{})
	assert.Equal(t, "gestor@example.com", user["email"])
	assert.Equal(t, "gestor", user["role"])
	assert.Equal(t, "+5355123456", user["phone"])

	tokens := response["tokens"].(map[string]interface{})
	assert.NotEmpty(t, tokens["access_token"])
	assert.NotEmpty(t, tokens["refresh_token"])
}

func TestAuthController_Register_DuplicateEmail(t *testing.T) {
	controller, router, testDB := setupAuthControllerTest(t)

	existing := &model.User{
		Email:        "taken@example.com",
		PasswordHash: "hash",
		Name:         "Existente",
		Role:         model.RoleCustomer,
	}
	require.NoError(t, testDB.Create(existing).Error)

	router.POST("/auth/register", controller.Register)

	body, _ := json.Marshal(gin.H{
		"email":    "taken@example.com",
		"password": "secreto123",
		"name":     "Otro",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_EMAIL_EXISTS")
}

func TestAuthController_Register_InvalidInput(t *testing.T) {
	controller, router, _ := setupAuthControllerTest(t)

	router.POST("/auth/register", controller.Register)

	tests := []struct {
		name string
		body gin.H
	}{
		{"Missing email", gin.H{"password": "secreto123", "name": "X"}},
		{"Bad email", gin.H{"email": "no-es-correo", "password": "secreto123", "name": "X"}},
		{"Short password", gin.H{"email": "a@b.com", "password": "abc", "name": "X"}},
		{"Missing name", gin.H{"email": "a@b.com", "password": "secreto123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAuthController_Login(t *testing.T) {
	controller, router, _ := setupAuthControllerTest(t)

	router.POST("/auth/register", controller.Register)
	router.POST("/auth/login", controller.Login)

	registerBody, _ := json.Marshal(gin.H{
		"email":    "login@example.com",
		"password": "secreto123",
		"name":     "Usuario",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(registerBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("Success", func(t *testing.T) {
		body, _ := json.Marshal(gin.H{
			"email":    "login@example.com",
			"password": "secreto123",
		})
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "access_token")
	})

	t.Run("Wrong password", func(t *testing.T) {
		body, _ := json.Marshal(gin.H{
			"email":    "login@example.com",
			"password": "incorrecta",
		})
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "AUTH_INVALID_CREDENTIALS")
	})

	t.Run("Unknown email", func(t *testing.T) {
		body, _ := json.Marshal(gin.H{
			"email":    "nadie@example.com",
			"password": "secreto123",
		})
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthController_GetMe(t *testing.T) {
	controller, router, testDB := setupAuthControllerTest(t)

	user := &model.User{
		Email:        "me@example.com",
		PasswordHash: "hash",
		Name:         "Yo",
		Role:         model.RoleCustomer,
	}
	require.NoError(t, testDB.Create(user).Error)

	router.GET("/auth/me", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetMe(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "me@example.com")
}

func TestAuthController_GetMe_Unauthorized(t *testing.T) {
	controller, router, _ := setupAuthControllerTest(t)

	router.GET("/auth/me", controller.GetMe)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthController_UpdateProfile(t *testing.T) {
	controller, router, testDB := setupAuthControllerTest(t)

	user := &model.User{
		Email:        "perfil@example.com",
		PasswordHash: "hash",
		Name:         "Antes",
		Role:         model.RoleCustomer,
	}
	require.NoError(t, testDB.Create(user).Error)

	router.PUT("/auth/me", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.UpdateProfile(c)
	})

	body, _ := json.Marshal(gin.H{
		"name":  "Después",
		"phone": "+5356000111",
	})
	req := httptest.NewRequest(http.MethodPut, "/auth/me", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Después")
	assert.Contains(t, w.Body.String(), "+5356000111")
}
