package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/freshplatter/platter-backend/config"
	"github.com/freshplatter/platter-backend/internal/app/model"
	"github.com/freshplatter/platter-backend/internal/app/repository"
	"github.com/freshplatter/platter-backend/internal/db"
	"github.com/freshplatter/platter-backend/pkg/plan"
	"github.com/xuri/excelize/v2"
)

// Imports a product catalog from an xlsx sheet. Expected columns:
// name, description, category, image_url, then one price column per plan
// code (header = plan code), then an optional ingredients column of
// "Name:ExtraPrice" pairs separated by ";".
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

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	productRepo := repository.NewProductRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, err := readProductsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d\n", len(products))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	imported := 0
	for i := range products {
		if err := productRepo.Create(&products[i]); err != nil {
			fmt.Printf("Failed to import %q: %v\n", products[i].Name, err)
			continue
		}
		imported++
	}

	fmt.Printf("Import completed: %d/%d products\n", imported, len(products))
}

func readProductsFromXLSX(filePath string) ([]model.Product, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	header := rows[0]

	// Plan price columns are matched by header against the known codes,
	// so the sheet can carry any subset of plans in any order.
	planColumns := make(map[int]plan.Code)
	ingredientsCol := -1
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "ingredients" {
			ingredientsCol = i
			continue
		}
		if code, err := plan.Parse(name); err == nil {
			planColumns[i] = code
		}
	}

	var products []model.Product
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < 3 {
			skipped++
			continue
		}

		name := strings.TrimSpace(row[0])
		category := model.ProductCategory(strings.TrimSpace(row[2]))
		if name == "" || category == "" {
			skipped++
			continue
		}

		product := model.Product{
			Name:        name,
			Description: cell(row, 1),
			Category:    category,
			ImageURL:    cell(row, 3),
			IsAvailable: true,
		}

		for col, code := range planColumns {
			raw := cell(row, col)
			if raw == "" {
				continue
			}
			price, err := strconv.ParseFloat(raw, 64)
			if err != nil || price <= 0 {
				continue
			}
			product.PlanPrices = append(product.PlanPrices, model.PlanPrice{
				PlanCode: code,
				Price:    price,
			})
		}
		if len(product.PlanPrices) == 0 {
			skipped++
			continue
		}

		if ingredientsCol >= 0 {
			product.Ingredients = parseIngredients(cell(row, ingredientsCol))
		}

		products = append(products, product)
	}

	if skipped > 0 {
		fmt.Printf("Skipped %d rows (missing name, category, or prices)\n", skipped)
	}
	return products, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseIngredients reads "Avocado:3;Feta:2" into ingredient rows.
func parseIngredients(raw string) []model.Ingredient {
	if raw == "" {
		return nil
	}

	var ingredients []model.Ingredient
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		name := part
		var extra float64
		if idx := strings.LastIndex(part, ":"); idx > 0 {
			if v, err := strconv.ParseFloat(strings.TrimSpace(part[idx+1:]), 64); err == nil {
				name = strings.TrimSpace(part[:idx])
				extra = v
			}
		}

		ingredients = append(ingredients, model.Ingredient{
			Name:       name,
			ExtraPrice: extra,
		})
	}
	return ingredients
}
