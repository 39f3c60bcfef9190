package repository

import (
	"github.com/freshplatter/platter-backend/internal/app/model"
	"github.com/freshplatter/platter-backend/pkg/logger"
	"github.com/freshplatter/platter-backend/pkg/plan"
	"gorm.io/gorm"
)

type CartRepository interface {
	Create(cartItem *model.CartItem) error
	FindByUserID(userID uint) ([]model.CartItem, error)
	FindByID(id uint) (*model.CartItem, error)
	FindByUserProductPlan(userID, productID uint, planCode plan.Code) (*model.CartItem, error)
	Update(cartItem *model.CartItem) error
	Delete(id uint) error
	DeleteByUserID(userID uint) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Create(cartItem *model.CartItem) error {
	logger.Debug("Creating cart item in database", map[string]interface{}{
		"user_id":       cartItem.UserID,
		"product_id":    cartItem.ProductID,
		"selected_plan": cartItem.SelectedPlan,
		"quantity":      cartItem.Quantity,
	})

	if err := r.db.Create(cartItem).Error; err != nil {
		logger.Error("Failed to create cart item in database", err, map[string]interface{}{
			"user_id":    cartItem.UserID,
			"product_id": cartItem.ProductID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) FindByUserID(userID uint) ([]model.CartItem, error) {
	var cartItems []model.CartItem
	err := r.db.Where("user_id = ?", userID).
		Preload("Ingredients").
		Preload("Product").
		Preload("Product.PlanPrices").
		Order("id").
		Find(&cartItems).Error
	if err != nil {
		logger.Error("Failed to find cart items by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Cart items found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(cartItems),
	})
	return cartItems, nil
}

func (r *cartRepository) FindByID(id uint) (*model.CartItem, error) {
	var cartItem model.CartItem
	err := r.db.
		Preload("Ingredients").
		Preload("Product").
		Preload("Product.PlanPrices").
		First(&cartItem, id).Error
	if err != nil {
		return nil, err
	}
	return &cartItem, nil
}

// FindByUserProductPlan resolves the merge target for an add: the line
// with the same product under the same plan. Lines for the same product
// under a different plan are distinct on purpose.
func (r *cartRepository) FindByUserProductPlan(userID, productID uint, planCode plan.Code) (*model.CartItem, error) {
	var cartItem model.CartItem
	err := r.db.
		Where("user_id = ? AND product_id = ? AND selected_plan = ?", userID, productID, planCode).
		Preload("Ingredients").
		First(&cartItem).Error
	if err != nil {
		return nil, err
	}
	return &cartItem, nil
}

func (r *cartRepository) Update(cartItem *model.CartItem) error {
	logger.Debug("Updating cart item in database", map[string]interface{}{
		"cart_item_id":  cartItem.ID,
		"selected_plan": cartItem.SelectedPlan,
		"quantity":      cartItem.Quantity,
	})

	if err := r.db.Save(cartItem).Error; err != nil {
		logger.Error("Failed to update cart item in database", err, map[string]interface{}{
			"cart_item_id": cartItem.ID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) Delete(id uint) error {
	if err := r.db.Select("Ingredients").Delete(&model.CartItem{ID: id}).Error; err != nil {
		logger.Error("Failed to delete cart item from database", err, map[string]interface{}{
			"cart_item_id": id,
		})
		return err
	}
	return nil
}

func (r *cartRepository) DeleteByUserID(userID uint) error {
	logger.Debug("Deleting cart items by user ID from database", map[string]interface{}{
		"user_id": userID,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&model.CartItem{}).Where("user_id = ?", userID).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("cart_item_id IN ?", ids).Delete(&model.CartItemIngredient{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error
	})
	if err != nil {
		logger.Error("Failed to delete cart items by user ID from database", err, map[string]interface{}{
			"user_id": userID,
		})
	}
	return err
}
