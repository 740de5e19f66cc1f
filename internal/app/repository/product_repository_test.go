package repository

import (
	"testing"

	"github.com/mivitrina/mivitrina-backend/internal/app/model"
	"github.com/mivitrina/mivitrina-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductTest(t *testing.T) (*gorm.DB, ProductRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewProductRepository(testDB)
	return testDB, repo
}

func createTestSupplier(t *testing.T, testDB *gorm.DB) *model.Supplier {
	supplier := &model.Supplier{
		BusinessName:     "Conservas La Palma",
		LegalType:        model.LegalTypeMipyme,
		OwnerName:        "Yoel Pérez",
		Phone:            "+5355123456",
		IdentityDocument: "85010112345",
		Status:           model.SupplierStatusVerified,
	}
	require.NoError(t, testDB.Create(supplier).Error)
	return supplier
}

func TestProductRepository_Create(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	supplier := createTestSupplier(t, testDB)

	product := &model.Product{
		Name:           "Café molido 500g",
		Description:    "Café serrano tostado",
		WholesalePrice: 800,
		RetailPrice:    1100,
		Currency:       model.CurrencyCUP,
		StockQuantity:  40,
		Category:       "alimentos",
		SupplierID:     supplier.ID,
	}

	err := repo.Create(product)
	assert.NoError(t, err)
	assert.NotZero(t, product.ID)
}

func TestProductRepository_FindByID(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	supplier := createTestSupplier(t, testDB)
	product := &model.Product{
		Name:           "Aceite vegetal 1L",
		WholesalePrice: 500,
		RetailPrice:    700,
		StockQuantity:  10,
		SupplierID:     supplier.ID,
	}
	require.NoError(t, repo.Create(product))

	tests := []struct {
		name    string
		id      uint
		wantErr bool
	}{
		{
			name:    "Existing product",
			id:      product.ID,
			wantErr: false,
		},
		{
			name:    "Non-existing product",
			id:      9999,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := repo.FindByID(tt.id)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, found)
			} else {
				require.NoError(t, err)
				require.NotNil(t, found)
				assert.Equal(t, product.Name, found.Name)
			}
		})
	}
}

func TestProductRepository_FindWithFilter(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	supplier := createTestSupplier(t, testDB)
	products := []model.Product{
		{
			Name:           "Arroz 5kg",
			WholesalePrice: 900,
			RetailPrice:    1200,
			Currency:       model.CurrencyCUP,
			StockQuantity:  30,
			Category:       "alimentos",
			SupplierID:     supplier.ID,
		},
		{
			Name:           "Jabón de baño",
			WholesalePrice: 0.80,
			RetailPrice:    1.20,
			Currency:       model.CurrencyUSD,
			StockQuantity:  0,
			Category:       "aseo",
			SupplierID:     supplier.ID,
		},
	}
	for i := range products {
		require.NoError(t, repo.Create(&products[i]))
	}

	t.Run("Filter by category", func(t *testing.T) {
		found, err := repo.FindWithFilter(ProductFilter{Category: "alimentos"})
		assert.NoError(t, err)
		assert.Len(t, found, 1)
		assert.Equal(t, "Arroz 5kg", found[0].Name)
	})

	t.Run("Filter by currency", func(t *testing.T) {
		usd := model.CurrencyUSD
		found, err := repo.FindWithFilter(ProductFilter{Currency: &usd})
		assert.NoError(t, err)
		assert.Len(t, found, 1)
		assert.Equal(t, "Jabón de baño", found[0].Name)
	})

	t.Run("In stock only", func(t *testing.T) {
		found, err := repo.FindWithFilter(ProductFilter{InStock: true})
		assert.NoError(t, err)
		assert.Len(t, found, 1)
		assert.Equal(t, "Arroz 5kg", found[0].Name)
	})

	t.Run("Search by name", func(t *testing.T) {
		found, err := repo.FindWithFilter(ProductFilter{Search: "Jabón"})
		assert.NoError(t, err)
		assert.Len(t, found, 1)
	})
}

func TestProductRepository_CountBySupplier(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	supplier := createTestSupplier(t, testDB)
	for _, name := range []string{"Producto A", "Producto B", "Producto C"} {
		require.NoError(t, repo.Create(&model.Product{
			Name:           name,
			WholesalePrice: 100,
			RetailPrice:    130,
			SupplierID:     supplier.ID,
		}))
	}

	count, err := repo.CountBySupplier(supplier.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)

	count, err = repo.CountBySupplier(9999)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestProductRepository_AdjustStock(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	supplier := createTestSupplier(t, testDB)
	product := &model.Product{
		Name:           "Refresco de cola",
		WholesalePrice: 80,
		RetailPrice:    120,
		StockQuantity:  10,
		SupplierID:     supplier.ID,
	}
	require.NoError(t, repo.Create(product))

	t.Run("Decrease stock", func(t *testing.T) {
		remaining, err := repo.AdjustStock(product.ID, -3)
		assert.NoError(t, err)
		assert.Equal(t, 7, remaining)
	})

	t.Run("Increase stock", func(t *testing.T) {
		remaining, err := repo.AdjustStock(product.ID, 5)
		assert.NoError(t, err)
		assert.Equal(t, 12, remaining)
	})

	t.Run("Decrement past zero clamps at zero", func(t *testing.T) {
		remaining, err := repo.AdjustStock(product.ID, -200)
		assert.NoError(t, err)
		assert.Equal(t, 0, remaining)

		updated, err := repo.FindByID(product.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, updated.StockQuantity)
	})

	t.Run("Unknown product", func(t *testing.T) {
		_, err := repo.AdjustStock(9999, -1)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestProductRepository_Delete(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	supplier := createTestSupplier(t, testDB)
	product := &model.Product{
		Name:           "Detergente líquido",
		WholesalePrice: 300,
		RetailPrice:    420,
		SupplierID:     supplier.ID,
	}
	require.NoError(t, repo.Create(product))

	err := repo.Delete(product.ID)
	assert.NoError(t, err)

	// Soft delete hides the row from lookups
	_, err = repo.FindByID(product.ID)
	assert.Error(t, err)
}
