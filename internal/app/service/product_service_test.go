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

func setupProductServiceTest(t *testing.T) (ProductService, *gorm.DB, *model.Supplier) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	supplierRepo := repository.NewSupplierRepository(testDB)
	productService := NewProductService(productRepo, supplierRepo)

	supplier := &model.Supplier{
		BusinessName:     "Conservas La Palma",
		LegalType:        model.LegalTypeMipyme,
		OwnerName:        "Yoel Pérez",
		Phone:            "+5355123456",
		IdentityDocument: "85010112345",
		Status:           model.SupplierStatusVerified,
	}
	testDB.Create(supplier)

	return productService, testDB, supplier
}

func TestProductService_PublishProduct_Success(t *testing.T) {
	productService, _, supplier := setupProductServiceTest(t)

	product, err := productService.PublishProduct(supplier.ID, PublishProductInput{
		Name:           "Café molido 500g",
		Description:    "Café serrano tostado",
		WholesalePrice: 800,
		StockQuantity:  40,
		Category:       "alimentos",
	})
	require.NoError(t, err)
	assert.NotZero(t, product.ID)
	// Default markup over wholesale when no retail suggestion was given
	assert.InDelta(t, 1040, product.RetailPrice, 1e-9)
	assert.Equal(t, model.QualityScorePendingReview, product.QualityScore)
	assert.Equal(t, model.CurrencyCUP, product.Currency)
}

func TestProductService_PublishProduct_Compliance(t *testing.T) {
	productService, _, supplier := setupProductServiceTest(t)

	tests := []struct {
		name        string
		productName string
		description string
		wantReason  string
	}{
		{
			name:        "Regulated medicine in name",
			productName: "Azitromicina 500mg",
			description: "Antibiótico importado",
			wantReason:  "azitromicina",
		},
		{
			name:        "Denylisted term in description",
			productName: "Servicio financiero",
			description: "Cambio de dólares al mejor precio",
			wantReason:  "cambio de dólares",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := productService.PublishProduct(supplier.ID, PublishProductInput{
				Name:           tt.productName,
				Description:    tt.description,
				WholesalePrice: 100,
				StockQuantity:  5,
			})
			assert.ErrorIs(t, err, ErrProductNoncompliant)

			var complianceErr *ComplianceError
			require.ErrorAs(t, err, &complianceErr)
			assert.Equal(t, tt.wantReason, complianceErr.Reason)
		})
	}
}

func TestProductService_PublishProduct_Validation(t *testing.T) {
	productService, _, supplier := setupProductServiceTest(t)

	_, err := productService.PublishProduct(supplier.ID, PublishProductInput{
		Name:           "Café molido 500g",
		WholesalePrice: 0,
		StockQuantity:  5,
	})
	assert.ErrorIs(t, err, ErrInvalidWholesale)

	_, err = productService.PublishProduct(supplier.ID, PublishProductInput{
		Name:           "Café molido 500g",
		WholesalePrice: 800,
		StockQuantity:  0,
	})
	assert.ErrorIs(t, err, ErrInvalidStock)
}

func TestProductService_PublishProduct_UnverifiedSupplier(t *testing.T) {
	productService, testDB, _ := setupProductServiceTest(t)

	pending := &model.Supplier{
		BusinessName:     "Dulces Caseros",
		LegalType:        model.LegalTypeTCP,
		OwnerName:        "María Díaz",
		Phone:            "+5356234567",
		IdentityDocument: "90021554321",
		Status:           model.SupplierStatusPending,
	}
	testDB.Create(pending)

	_, err := productService.PublishProduct(pending.ID, PublishProductInput{
		Name:           "Dulce de guayaba",
		WholesalePrice: 200,
		StockQuantity:  10,
	})
	assert.ErrorIs(t, err, ErrSupplierNotVerified)
}

func TestProductService_AdjustStock(t *testing.T) {
	productService, _, supplier := setupProductServiceTest(t)

	product, err := productService.PublishProduct(supplier.ID, PublishProductInput{
		Name:           "Refresco de cola",
		WholesalePrice: 80,
		StockQuantity:  10,
	})
	require.NoError(t, err)

	remaining, err := productService.AdjustStock(product.ID, -4)
	require.NoError(t, err)
	assert.Equal(t, 6, remaining)

	// A delta past zero clamps instead of going negative
	remaining, err = productService.AdjustStock(product.ID, -100)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	_, err = productService.AdjustStock(9999, -1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_UpdateProduct_OwnershipChecked(t *testing.T) {
	productService, testDB, supplier := setupProductServiceTest(t)

	product, err := productService.PublishProduct(supplier.ID, PublishProductInput{
		Name:           "Café molido 500g",
		WholesalePrice: 800,
		StockQuantity:  10,
	})
	require.NoError(t, err)

	other := &model.Supplier{
		BusinessName:     "Otra Empresa",
		LegalType:        model.LegalTypeTCP,
		OwnerName:        "Pedro Ruiz",
		Phone:            "+5357345678",
		IdentityDocument: "88121098765",
		Status:           model.SupplierStatusVerified,
	}
	testDB.Create(other)

	_, err = productService.UpdateProduct(other.ID, product.ID, PublishProductInput{Name: "Robado"})
	assert.ErrorIs(t, err, ErrProductNotFound)
}
