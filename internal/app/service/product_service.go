package service

import (
	"errors"

	"github.com/freshplatter/platter-backend/internal/app/model"
	"github.com/freshplatter/platter-backend/internal/app/repository"
	"github.com/freshplatter/platter-backend/pkg/logger"
	"github.com/freshplatter/platter-backend/pkg/plan"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product is not available")
	ErrInvalidPlanPrice   = errors.New("invalid plan price")
)

// ProductInput is the admin-facing product payload.
type ProductInput struct {
	Name        string                `json:"name" binding:"required"`
	Description string                `json:"description"`
	Category    model.ProductCategory `json:"category" binding:"required"`
	ImageURL    string                `json:"image_url"`
	IsAvailable bool                  `json:"is_available"`
	PlanPrices  map[plan.Code]float64 `json:"plan_prices" binding:"required"`
	Ingredients []model.Ingredient    `json:"ingredients"`
}

type ProductService interface {
	ListProducts(filter repository.ProductFilter) ([]model.Product, error)
	GetProductByID(id uint) (*model.Product, error)
	CreateProduct(input ProductInput) (*model.Product, error)
	UpdateProduct(id uint, input ProductInput) (*model.Product, error)
	DeleteProduct(id uint) error
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) ListProducts(filter repository.ProductFilter) ([]model.Product, error) {
	products, err := s.productRepo.FindAll(filter)
	if err != nil {
		logger.Error("Failed to list products", err, map[string]interface{}{
			"category": filter.Category,
		})
		return nil, err
	}
	return products, nil
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) CreateProduct(input ProductInput) (*model.Product, error) {
	logger.Info("Creating product", map[string]interface{}{
		"name":     input.Name,
		"category": input.Category,
	})

	prices, err := planPriceRows(input.PlanPrices)
	if err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		ImageURL:    input.ImageURL,
		IsAvailable: input.IsAvailable,
		PlanPrices:  prices,
		Ingredients: input.Ingredients,
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
	})
	return product, nil
}

func (s *productService) UpdateProduct(id uint, input ProductInput) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	prices, err := planPriceRows(input.PlanPrices)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Category = input.Category
	if input.ImageURL != "" {
		product.ImageURL = input.ImageURL
	}
	product.IsAvailable = input.IsAvailable
	product.PlanPrices = nil
	product.Ingredients = nil

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	if err := s.productRepo.ReplacePlanPrices(product.ID, prices); err != nil {
		return nil, err
	}
	if err := s.productRepo.ReplaceIngredients(product.ID, input.Ingredients); err != nil {
		return nil, err
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": product.ID,
	})
	return s.productRepo.FindByID(product.ID)
}

func (s *productService) DeleteProduct(id uint) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return s.productRepo.Delete(id)
}

// planPriceRows validates the admin's price table: codes must belong to
// the closed plan set and prices must be positive.
func planPriceRows(table map[plan.Code]float64) ([]model.PlanPrice, error) {
	rows := make([]model.PlanPrice, 0, len(table))
	for _, code := range plan.Codes {
		price, ok := table[code]
		if !ok {
			continue
		}
		if price <= 0 {
			return nil, ErrInvalidPlanPrice
		}
		rows = append(rows, model.PlanPrice{PlanCode: code, Price: price})
	}
	// Any key outside the closed set is rejected, not dropped.
	if len(rows) != len(table) {
		return nil, plan.ErrUnknownCode
	}
	return rows, nil
}
