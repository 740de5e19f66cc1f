package service

import (
	"errors"

	"github.com/mivitrina/mivitrina-backend/internal/app/model"
	"github.com/mivitrina/mivitrina-backend/internal/app/repository"
	"github.com/mivitrina/mivitrina-backend/pkg/logger"
	"github.com/mivitrina/mivitrina-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrProductNoncompliant  = errors.New("product violates marketplace rules")
	ErrInvalidWholesale     = errors.New("wholesale price must be positive")
	ErrInvalidStock         = errors.New("initial stock must be positive")
	ErrSupplierNotVerified  = errors.New("supplier is not verified")
	ErrSupplierDataNotFound = errors.New("supplier not found")
)

// PublishProductInput carries everything a proveedor submits when listing a
// product on the wholesale catalog.
type PublishProductInput struct {
	Name           string
	Description    string
	WholesalePrice float64
	RetailPrice    float64 // optional suggestion; 0 means derive from markup
	Currency       model.Currency
	StockQuantity  int
	Category       string
	ImageURL       string
}

type ProductService interface {
	PublishProduct(supplierID uint, input PublishProductInput) (*model.Product, error)
	GetProduct(id uint) (*model.Product, error)
	ListProducts(filter repository.ProductFilter) ([]model.Product, error)
	UpdateProduct(supplierID, productID uint, input PublishProductInput) (*model.Product, error)
	DeleteProduct(supplierID, productID uint) error
	AdjustStock(productID uint, delta int) (int, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
}

func NewProductService(productRepo repository.ProductRepository, supplierRepo repository.SupplierRepository) ProductService {
	return &productService{
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
	}
}

// ComplianceError carries the denylist term that blocked a publication. It
// matches ErrProductNoncompliant under errors.Is.
type ComplianceError struct {
	Reason string
}

func (e *ComplianceError) Error() string {
	return "product violates marketplace rules: " + e.Reason
}

func (e *ComplianceError) Is(target error) bool {
	return target == ErrProductNoncompliant
}

func (s *productService) PublishProduct(supplierID uint, input PublishProductInput) (*model.Product, error) {
	logger.Info("Publishing product", map[string]interface{}{
		"supplier_id": supplierID,
		"name":        input.Name,
	})

	supplier, err := s.supplierRepo.FindByID(supplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupplierDataNotFound
		}
		return nil, err
	}
	if !supplier.IsVerified() {
		logger.Warn("Publication rejected: supplier not verified", map[string]interface{}{
			"supplier_id": supplierID,
			"status":      supplier.Status,
		})
		return nil, ErrSupplierNotVerified
	}

	if result := util.CheckProductCompliance(input.Name, input.Description); !result.Allowed {
		logger.Warn("Publication rejected: compliance check failed", map[string]interface{}{
			"supplier_id": supplierID,
			"name":        input.Name,
			"reason":      result.Reason,
		})
		return nil, &ComplianceError{Reason: result.Reason}
	}

	if input.WholesalePrice <= 0 {
		return nil, ErrInvalidWholesale
	}
	if input.StockQuantity <= 0 {
		return nil, ErrInvalidStock
	}

	retail := input.RetailPrice
	if retail <= 0 {
		retail = input.WholesalePrice * model.DefaultMarkup
	}

	currency := input.Currency
	if currency == "" {
		currency = model.CurrencyCUP
	}

	product := &model.Product{
		Name:           input.Name,
		Description:    input.Description,
		WholesalePrice: input.WholesalePrice,
		RetailPrice:    retail,
		Currency:       currency,
		StockQuantity:  input.StockQuantity,
		Category:       input.Category,
		ImageURL:       input.ImageURL,
		QualityScore:   model.QualityScorePendingReview,
		SupplierID:     supplierID,
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	logger.Info("Product published", map[string]interface{}{
		"product_id":   product.ID,
		"supplier_id":  supplierID,
		"retail_price": product.RetailPrice,
	})
	return product, nil
}

func (s *productService) GetProduct(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) ListProducts(filter repository.ProductFilter) ([]model.Product, error) {
	return s.productRepo.FindWithFilter(filter)
}

func (s *productService) UpdateProduct(supplierID, productID uint, input PublishProductInput) (*model.Product, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if product.SupplierID != supplierID {
		logger.Warn("Product update denied: ownership mismatch", map[string]interface{}{
			"product_id":  productID,
			"supplier_id": supplierID,
			"owner_id":    product.SupplierID,
		})
		return nil, ErrProductNotFound
	}

	if input.Name != "" || input.Description != "" {
		name := input.Name
		if name == "" {
			name = product.Name
		}
		description := input.Description
		if description == "" {
			description = product.Description
		}
		if result := util.CheckProductCompliance(name, description); !result.Allowed {
			return nil, &ComplianceError{Reason: result.Reason}
		}
		product.Name = name
		product.Description = description
	}

	if input.WholesalePrice != 0 {
		if input.WholesalePrice < 0 {
			return nil, ErrInvalidWholesale
		}
		product.WholesalePrice = input.WholesalePrice
	}
	if input.RetailPrice > 0 {
		product.RetailPrice = input.RetailPrice
	}
	if input.Category != "" {
		product.Category = input.Category
	}
	if input.ImageURL != "" {
		product.ImageURL = input.ImageURL
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) DeleteProduct(supplierID, productID uint) error {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	if product.SupplierID != supplierID {
		return ErrProductNotFound
	}
	return s.productRepo.Delete(productID)
}

// AdjustStock applies a signed delta to on-hand stock. The floor at zero is
// enforced inside a single UPDATE so concurrent adjustments cannot drive the
// quantity negative.
func (s *productService) AdjustStock(productID uint, delta int) (int, error) {
	logger.Info("Adjusting product stock", map[string]interface{}{
		"product_id": productID,
		"delta":      delta,
	})

	remaining, err := s.productRepo.AdjustStock(productID, delta)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrProductNotFound
		}
		return 0, err
	}
	return remaining, nil
}
