package repository

import (
	"github.com/freshplatter/platter-backend/internal/app/model"
	"github.com/freshplatter/platter-backend/pkg/logger"
	"gorm.io/gorm"
)

// ProductFilter narrows catalog listings.
type ProductFilter struct {
	Category      model.ProductCategory
	OnlyAvailable bool
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll(filter ProductFilter) ([]model.Product, error)
	FindByID(id uint) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id uint) error
	ReplacePlanPrices(productID uint, prices []model.PlanPrice) error
	ReplaceIngredients(productID uint, ingredients []model.Ingredient) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":     product.Name,
		"category": product.Category,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
		})
		return err
	}
	return nil
}

func (r *productRepository) FindAll(filter ProductFilter) ([]model.Product, error) {
	query := r.db.Preload("PlanPrices").Preload("Ingredients")
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.OnlyAvailable {
		query = query.Where("is_available = ?", true)
	}

	var products []model.Product
	if err := query.Order("id").Find(&products).Error; err != nil {
		logger.Error("Failed to find products in database", err, map[string]interface{}{
			"category": filter.Category,
		})
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("PlanPrices").Preload("Ingredients").First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Update(product *model.Product) error {
	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	return nil
}

// ReplacePlanPrices swaps the product's priced plans in one transaction.
func (r *productRepository) ReplacePlanPrices(productID uint, prices []model.PlanPrice) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("product_id = ?", productID).Delete(&model.PlanPrice{}).Error; err != nil {
			return err
		}
		for i := range prices {
			prices[i].ID = 0
			prices[i].ProductID = productID
		}
		if len(prices) == 0 {
			return nil
		}
		return tx.Create(&prices).Error
	})
}

// ReplaceIngredients swaps the product's add-on list in one transaction.
func (r *productRepository) ReplaceIngredients(productID uint, ingredients []model.Ingredient) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("product_id = ?", productID).Delete(&model.Ingredient{}).Error; err != nil {
			return err
		}
		for i := range ingredients {
			ingredients[i].ID = 0
			ingredients[i].ProductID = productID
		}
		if len(ingredients) == 0 {
			return nil
		}
		return tx.Create(&ingredients).Error
	})
}
