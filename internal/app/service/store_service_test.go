package service

import (
	"testing"

	"github.com/mivitrina/mivitrina-backend/internal/app/model"
	"github.com/mivitrina/mivitrina-backend/internal/app/repository"
	"github.com/mivitrina/mivitrina-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupStoreServiceTest(t *testing.T) (StoreService, *gorm.DB, *model.User, *model.Supplier) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	storeRepo := repository.NewStoreRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	storeService := NewStoreService(storeRepo, productRepo, orderRepo)

	owner := &model.User{
		Email:        "gestor@example.com",
		PasswordHash: "hash",
		Name:         "Gestor Prueba",
		Role:         model.RoleGestor,
	}
	testDB.Create(owner)

	supplier := &model.Supplier{
		BusinessName:     "Conservas La Palma",
		LegalType:        model.LegalTypeMipyme,
		OwnerName:        "Yoel Pérez",
		Phone:            "+5355123456",
		IdentityDocument: "85010112345",
		Status:           model.SupplierStatusVerified,
	}
	testDB.Create(supplier)

	return storeService, testDB, owner, supplier
}

func createCatalogProduct(t *testing.T, testDB *gorm.DB, supplierID uint, name string, wholesale, retail float64, stock int) *model.Product {
	product := &model.Product{
		Name:           name,
		WholesalePrice: wholesale,
		RetailPrice:    retail,
		Currency:       model.CurrencyCUP,
		StockQuantity:  stock,
		SupplierID:     supplierID,
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func TestStoreService_CreateStore_PlanLimit(t *testing.T) {
	storeService, _, owner, _ := setupStoreServiceTest(t)

	// FREE allows a single store
	first, err := storeService.CreateStore(owner.ID, "Mi Vitrina", "")
	require.NoError(t, err)
	assert.Equal(t, model.TierFree, first.Tier)

	_, err = storeService.CreateStore(owner.ID, "Segunda Vitrina", "")
	assert.ErrorIs(t, err, ErrPlanLimitStores)
}

func TestStoreService_CreateStore_HigherTierRaisesCeiling(t *testing.T) {
	storeService, testDB, owner, _ := setupStoreServiceTest(t)

	first, err := storeService.CreateStore(owner.ID, "Mi Vitrina", "")
	require.NoError(t, err)

	testDB.Model(&model.Store{}).Where("id = ?", first.ID).Update("tier", model.TierPro)

	// PRO allows three stores
	_, err = storeService.CreateStore(owner.ID, "Segunda Vitrina", "")
	assert.NoError(t, err)
	_, err = storeService.CreateStore(owner.ID, "Tercera Vitrina", "")
	assert.NoError(t, err)
	_, err = storeService.CreateStore(owner.ID, "Cuarta Vitrina", "")
	assert.ErrorIs(t, err, ErrPlanLimitStores)
}

func TestStoreService_AddProductToStore_Idempotent(t *testing.T) {
	storeService, testDB, owner, supplier := setupStoreServiceTest(t)

	store, err := storeService.CreateStore(owner.ID, "Mi Vitrina", "")
	require.NoError(t, err)
	product := createCatalogProduct(t, testDB, supplier.ID, "Café molido 500g", 800, 1100, 10)

	added, err := storeService.AddProductToStore(owner.ID, store.ID, product.ID, 1150)
	require.NoError(t, err)
	assert.True(t, added)

	// Second add is a no-op, not an error
	added, err = storeService.AddProductToStore(owner.ID, store.ID, product.ID, 1300)
	require.NoError(t, err)
	assert.False(t, added)

	// The original price survives
	var listing model.StoreProduct
	require.NoError(t, testDB.Where("store_id = ? AND product_id = ?", store.ID, product.ID).First(&listing).Error)
	assert.Equal(t, float64(1150), listing.CustomPrice)
}

func TestStoreService_AddProductToStore_MarginFloor(t *testing.T) {
	storeService, testDB, owner, supplier := setupStoreServiceTest(t)

	store, err := storeService.CreateStore(owner.ID, "Mi Vitrina", "")
	require.NoError(t, err)
	product := createCatalogProduct(t, testDB, supplier.ID, "Café molido 500g", 10.00, 13.00, 10)

	// Selling at cost is below the floor
	_, err = storeService.AddProductToStore(owner.ID, store.ID, product.ID, 10.00)
	assert.ErrorIs(t, err, ErrMarginUnsafe)

	// Exactly 5% over cost passes
	added, err := storeService.AddProductToStore(owner.ID, store.ID, product.ID, 10.50)
	require.NoError(t, err)
	assert.True(t, added)
}

func TestStoreService_UpdateStoreConfig_MarginUnsafeRejectsWholeSave(t *testing.T) {
	storeService, testDB, owner, supplier := setupStoreServiceTest(t)

	store, err := storeService.CreateStore(owner.ID, "Mi Vitrina", "")
	require.NoError(t, err)
	cafe := createCatalogProduct(t, testDB, supplier.ID, "Café molido 500g", 10.00, 13.00, 10)
	arroz := createCatalogProduct(t, testDB, supplier.ID, "Arroz 5kg", 9.00, 12.00, 10)

	_, err = storeService.AddProductToStore(owner.ID, store.ID, cafe.ID, 13.00)
	require.NoError(t, err)
	_, err = storeService.AddProductToStore(owner.ID, store.ID, arroz.ID, 12.00)
	require.NoError(t, err)

	newName := "Vitrina Renombrada"
	_, err = storeService.UpdateStoreConfig(owner.ID, store.Slug, StoreConfigInput{
		Name: &newName,
		Listings: []ListingInput{
			{ProductID: cafe.ID, CustomPrice: 14.00},
			{ProductID: arroz.ID, CustomPrice: 9.00}, // below floor
		},
	})
	assert.ErrorIs(t, err, ErrMarginUnsafe)

	var marginErr *MarginError
	require.ErrorAs(t, err, &marginErr)
	require.Len(t, marginErr.Violations, 1)
	assert.Equal(t, arroz.ID, marginErr.Violations[0].ProductID)

	// Nothing was applied, not even the rename
	unchanged, err := storeService.GetStoreBySlug(store.Slug)
	require.NoError(t, err)
	assert.Equal(t, "Mi Vitrina", unchanged.Name)

	var listing model.StoreProduct
	require.NoError(t, testDB.Where("store_id = ? AND product_id = ?", store.ID, cafe.ID).First(&listing).Error)
	assert.Equal(t, float64(13.00), listing.CustomPrice)
}

func TestStoreService_UpdateStoreConfig_Partial(t *testing.T) {
	storeService, _, owner, _ := setupStoreServiceTest(t)

	store, err := storeService.CreateStore(owner.ID, "Mi Vitrina", "")
	require.NoError(t, err)

	theme := "#0ea5e9"
	transfer := true
	zones := []string{"centro habana", "plaza"}
	updated, err := storeService.UpdateStoreConfig(owner.ID, store.Slug, StoreConfigInput{
		ThemeColor:      &theme,
		AcceptsTransfer: &transfer,
		DeliveryZones:   &zones,
	})
	require.NoError(t, err)
	assert.Equal(t, "#0ea5e9", updated.ThemeColor)
	assert.True(t, updated.AcceptsTransfer)
	assert.Equal(t, "Mi Vitrina", updated.Name) // untouched
}

func TestStoreService_UpdateStoreConfig_OwnershipChecked(t *testing.T) {
	storeService, testDB, owner, _ := setupStoreServiceTest(t)

	store, err := storeService.CreateStore(owner.ID, "Mi Vitrina", "")
	require.NoError(t, err)

	other := &model.User{
		Email:        "otro@example.com",
		PasswordHash: "hash",
		Name:         "Otro Gestor",
		Role:         model.RoleGestor,
	}
	testDB.Create(other)

	name := "Hackeada"
	_, err = storeService.UpdateStoreConfig(other.ID, store.Slug, StoreConfigInput{Name: &name})
	assert.ErrorIs(t, err, ErrNotStoreOwner)
}

func TestStoreService_ProjectStoreProducts(t *testing.T) {
	storeService, testDB, owner, supplier := setupStoreServiceTest(t)

	store, err := storeService.CreateStore(owner.ID, "Mi Vitrina", "")
	require.NoError(t, err)

	inStock := createCatalogProduct(t, testDB, supplier.ID, "Café molido 500g", 800, 1100, 10)
	outOfStock := createCatalogProduct(t, testDB, supplier.ID, "Aceite vegetal 1L", 500, 700, 0)
	doomed := createCatalogProduct(t, testDB, supplier.ID, "Jabón de baño", 40, 60, 5)

	_, err = storeService.AddProductToStore(owner.ID, store.ID, inStock.ID, 1200)
	require.NoError(t, err)
	_, err = storeService.AddProductToStore(owner.ID, store.ID, outOfStock.ID, 750)
	require.NoError(t, err)
	_, err = storeService.AddProductToStore(owner.ID, store.ID, doomed.ID, 65)
	require.NoError(t, err)

	// Supplier withdraws one product; its listing now dangles
	require.NoError(t, testDB.Delete(&model.Product{}, doomed.ID).Error)

	_, views, err := storeService.ProjectStoreProducts(store.Slug)
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, inStock.ID, views[0].Product.ID)
	assert.Equal(t, float64(1200), views[0].CustomPrice)
	assert.Equal(t, float64(400), views[0].ProfitMargin)
	assert.True(t, views[0].IsActive)

	// Listed and visible but out of stock means inactive
	assert.Equal(t, outOfStock.ID, views[1].Product.ID)
	assert.False(t, views[1].IsActive)
}

func TestStoreService_ProjectStoreProducts_HiddenListing(t *testing.T) {
	storeService, testDB, owner, supplier := setupStoreServiceTest(t)

	store, err := storeService.CreateStore(owner.ID, "Mi Vitrina", "")
	require.NoError(t, err)
	product := createCatalogProduct(t, testDB, supplier.ID, "Café molido 500g", 800, 1100, 10)

	_, err = storeService.AddProductToStore(owner.ID, store.ID, product.ID, 1200)
	require.NoError(t, err)

	hidden := false
	_, err = storeService.UpdateStoreConfig(owner.ID, store.Slug, StoreConfigInput{
		Listings: []ListingInput{{ProductID: product.ID, Visible: &hidden}},
	})
	require.NoError(t, err)

	_, views, err := storeService.ProjectStoreProducts(store.Slug)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.False(t, views[0].IsActive)
}

func TestStoreService_AddProductToStore_PlanProductLimit(t *testing.T) {
	storeService, testDB, owner, supplier := setupStoreServiceTest(t)

	store, err := storeService.CreateStore(owner.ID, "Mi Vitrina", "")
	require.NoError(t, err)

	// FREE allows 10 listed products
	for i := 0; i < 10; i++ {
		product := createCatalogProduct(t, testDB, supplier.ID, "Producto", 100, 150, 5)
		added, err := storeService.AddProductToStore(owner.ID, store.ID, product.ID, 150)
		require.NoError(t, err)
		require.True(t, added)
	}

	extra := createCatalogProduct(t, testDB, supplier.ID, "Producto extra", 100, 150, 5)
	_, err = storeService.AddProductToStore(owner.ID, store.ID, extra.ID, 150)
	assert.ErrorIs(t, err, ErrPlanLimitProducts)
}
