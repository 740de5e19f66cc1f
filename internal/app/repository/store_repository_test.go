package repository

import (
	"testing"

	"github.com/mivitrina/mivitrina-backend/internal/app/model"
	"github.com/mivitrina/mivitrina-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupStoreTest(t *testing.T) (*gorm.DB, StoreRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewStoreRepository(testDB)
	return testDB, repo
}

func createStoreOwner(t *testing.T, testDB *gorm.DB, email string) *model.User {
	owner := &model.User{
		Email:        email,
		PasswordHash: "x",
		Name:         "Gestor Prueba",
		Role:         model.RoleGestor,
	}
	require.NoError(t, testDB.Create(owner).Error)
	return owner
}

func TestStoreRepository_Create_GeneratesSlug(t *testing.T) {
	testDB, repo := setupStoreTest(t)
	defer db.CleanupTestDB(testDB)

	owner := createStoreOwner(t, testDB, "gestor@example.com")

	first := &model.Store{OwnerID: owner.ID, Name: "La Bodega Feliz"}
	require.NoError(t, repo.Create(first))
	assert.Equal(t, "la-bodega-feliz", first.Slug)

	// Same name gets a numbered suffix
	second := &model.Store{OwnerID: owner.ID, Name: "La Bodega Feliz"}
	require.NoError(t, repo.Create(second))
	assert.Equal(t, "la-bodega-feliz-2", second.Slug)
}

func TestStoreRepository_FindBySlug(t *testing.T) {
	testDB, repo := setupStoreTest(t)
	defer db.CleanupTestDB(testDB)

	owner := createStoreOwner(t, testDB, "gestor@example.com")
	store := &model.Store{OwnerID: owner.ID, Name: "Mi Vitrina"}
	require.NoError(t, repo.Create(store))

	found, err := repo.FindBySlug(store.Slug)
	require.NoError(t, err)
	assert.Equal(t, store.ID, found.ID)

	_, err = repo.FindBySlug("no-existe")
	assert.Error(t, err)
}

func TestStoreRepository_Deactivate(t *testing.T) {
	testDB, repo := setupStoreTest(t)
	defer db.CleanupTestDB(testDB)

	owner := createStoreOwner(t, testDB, "gestor@example.com")
	store := &model.Store{OwnerID: owner.ID, Name: "Mi Vitrina"}
	require.NoError(t, repo.Create(store))

	err := repo.Deactivate(store.ID)
	assert.NoError(t, err)

	found, err := repo.FindByID(store.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)

	active, err := repo.ListActive(10, 0)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestStoreRepository_Listings(t *testing.T) {
	testDB, repo := setupStoreTest(t)
	defer db.CleanupTestDB(testDB)

	owner := createStoreOwner(t, testDB, "gestor@example.com")
	store := &model.Store{OwnerID: owner.ID, Name: "Mi Vitrina"}
	require.NoError(t, repo.Create(store))

	supplier := createTestSupplier(t, testDB)
	products := []model.Product{
		{Name: "Café molido 500g", WholesalePrice: 800, RetailPrice: 1100, StockQuantity: 10, SupplierID: supplier.ID},
		{Name: "Arroz 5kg", WholesalePrice: 900, RetailPrice: 1200, StockQuantity: 5, SupplierID: supplier.ID},
	}
	for i := range products {
		require.NoError(t, testDB.Create(&products[i]).Error)
	}

	require.NoError(t, repo.AddListing(&model.StoreProduct{
		StoreID: store.ID, ProductID: products[0].ID, CustomPrice: 1150, Visible: true, Position: 2,
	}))
	require.NoError(t, repo.AddListing(&model.StoreProduct{
		StoreID: store.ID, ProductID: products[1].ID, CustomPrice: 1250, Visible: true, Position: 1,
	}))

	t.Run("Listings ordered by position", func(t *testing.T) {
		listings, err := repo.FindListings(store.ID)
		require.NoError(t, err)
		require.Len(t, listings, 2)
		assert.Equal(t, products[1].ID, listings[0].ProductID)
		assert.Equal(t, products[0].ID, listings[1].ProductID)
		assert.Equal(t, "Arroz 5kg", listings[0].Product.Name)
	})

	t.Run("Duplicate listing rejected", func(t *testing.T) {
		err := repo.AddListing(&model.StoreProduct{
			StoreID: store.ID, ProductID: products[0].ID, CustomPrice: 1300,
		})
		assert.Error(t, err)
	})

	t.Run("Count listings", func(t *testing.T) {
		count, err := repo.CountListings(store.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("Remove listing", func(t *testing.T) {
		err := repo.RemoveListing(store.ID, products[0].ID)
		assert.NoError(t, err)

		count, err := repo.CountListings(store.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		err = repo.RemoveListing(store.ID, products[0].ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}
