package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mivitrina/mivitrina-backend/config"
	"github.com/mivitrina/mivitrina-backend/internal/app/model"
	"github.com/mivitrina/mivitrina-backend/internal/app/repository"
	"github.com/mivitrina/mivitrina-backend/internal/db"
	"github.com/mivitrina/mivitrina-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

// Bulk catalog importer. Takes an XLSX exported from a supplier's inventory
// sheet and loads suppliers plus their wholesale products in one pass.
//
// Expected columns (header row skipped):
//
//	0  business_name      7  product_description
//	1  legal_type         8  category
//	2  owner_name         9  wholesale_price
//	3  phone             10  retail_price (optional)
//	4  identity_document 11  currency (USD/CUP/MLC, default CUP)
//	5  address           12  stock_quantity
//	6  product_name
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	supplierRepo := repository.NewSupplierRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	suppliers, products, err := readCatalogFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Suppliers to import: %d\n", len(suppliers))
	fmt.Printf("Products to import:  %d\n", len(products))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	// Suppliers first so products can reference them. Products carry the
	// supplier's position in the sheet; swap it for the DB ID after insert.
	supplierIDs := make(map[string]uint, len(suppliers))
	for i := range suppliers {
		if err := supplierRepo.Create(&suppliers[i]); err != nil {
			log.Fatal("Failed to create supplier:", err)
		}
		supplierIDs[suppliers[i].IdentityDocument] = suppliers[i].ID
	}

	for i := range products {
		description, document := splitImportKey(products[i].Description)
		products[i].Description = description
		products[i].SupplierID = supplierIDs[document]
	}

	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := productRepo.BulkCreate(products, batchSize); err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total suppliers imported: %d\n", len(suppliers))
	fmt.Printf("Total products imported:  %d\n", len(products))
}

// splitImportKey undoes the description|document packing used to carry the
// supplier key through the product slice before IDs exist.
func splitImportKey(packed string) (description, document string) {
	idx := strings.LastIndex(packed, "|")
	if idx < 0 {
		return packed, ""
	}
	return packed[:idx], packed[idx+1:]
}

func readCatalogFromXLSX(filePath string) ([]model.Supplier, []model.Product, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("no data found in XLSX file")
	}

	var suppliers []model.Supplier
	var products []model.Product
	seenSuppliers := make(map[string]bool)
	skippedCount := 0
	noncompliantCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}
		if len(row) < 13 {
			skippedCount++
			continue
		}

		businessName := strings.TrimSpace(row[0])
		legalType := strings.ToLower(strings.TrimSpace(row[1]))
		ownerName := strings.TrimSpace(row[2])
		phone := util.NormalizePhone(strings.TrimSpace(row[3]))
		document := strings.TrimSpace(row[4])
		address := strings.TrimSpace(row[5])
		productName := strings.TrimSpace(row[6])
		description := strings.TrimSpace(row[7])
		category := strings.TrimSpace(row[8])
		wholesaleStr := strings.TrimSpace(row[9])
		retailStr := strings.TrimSpace(row[10])
		currencyStr := strings.ToUpper(strings.TrimSpace(row[11]))
		stockStr := strings.TrimSpace(row[12])

		if businessName == "" || productName == "" {
			skippedCount++
			continue
		}
		if !util.ValidateIdentityDocument(document) {
			skippedCount++
			continue
		}
		if !util.ValidateCubanPhone(phone) {
			skippedCount++
			continue
		}

		wholesale, err := strconv.ParseFloat(wholesaleStr, 64)
		if err != nil || wholesale <= 0 {
			skippedCount++
			continue
		}
		retail, _ := strconv.ParseFloat(retailStr, 64)
		if retail <= 0 {
			retail = wholesale * model.DefaultMarkup
		}
		stock, err := strconv.Atoi(stockStr)
		if err != nil || stock < 0 {
			stock = 0
		}

		compliance := util.CheckProductCompliance(productName, description)
		if !compliance.Allowed {
			noncompliantCount++
			skippedCount++
			continue
		}

		currency := model.CurrencyCUP
		switch currencyStr {
		case "USD":
			currency = model.CurrencyUSD
		case "MLC":
			currency = model.CurrencyMLC
		}

		if !seenSuppliers[document] {
			seenSuppliers[document] = true

			lt := model.LegalTypeTCP
			if legalType == "mipyme" {
				lt = model.LegalTypeMipyme
			}

			now := time.Now()
			suppliers = append(suppliers, model.Supplier{
				BusinessName:     businessName,
				LegalType:        lt,
				Address:          address,
				OwnerName:        ownerName,
				Phone:            phone,
				IdentityDocument: document,
				// Imported catalogs are pre-screened offline by the
				// admin running this tool.
				Status:       model.SupplierStatusVerified,
				RegisteredAt: now,
				ReviewedAt:   &now,
			})
		}

		products = append(products, model.Product{
			Name: productName,
			// The supplier key rides in the description until the
			// supplier IDs are known. Unpacked before insert.
			Description:    description + "|" + document,
			WholesalePrice: wholesale,
			RetailPrice:    retail,
			Currency:       currency,
			StockQuantity:  stock,
			Category:       category,
			QualityScore:   model.QualityScorePendingReview,
		})

		if len(products)%500 == 0 {
			fmt.Printf("Processed %d products...\n", len(products))
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows:   %d\n", len(rows)-1)
	fmt.Printf("  Valid rows:   %d\n", len(products))
	fmt.Printf("  Skipped:      %d (noncompliant: %d)\n", skippedCount, noncompliantCount)

	return suppliers, products, nil
}
