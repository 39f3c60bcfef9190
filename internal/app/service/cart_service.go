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
	ErrCartItemNotFound = errors.New("cart item not found")
	// ErrPlanPriceUnresolved is returned when a plan switch targets a plan
	// the product has no price for. The line keeps its previous plan.
	ErrPlanPriceUnresolved = errors.New("no price for the requested plan")
)

// IngredientSelection is one add-on chosen for a cart line.
type IngredientSelection struct {
	IngredientID uint
	Name         string
	Quantity     int
}

// CartUpdate carries the optional fields of a cart line update. Quantity
// below 1 means removal.
type CartUpdate struct {
	Quantity *int
	PlanCode *plan.Code
}

type CartService interface {
	GetUserCart(userID uint) ([]model.CartItem, error)
	AddToCart(userID, productID uint, planCode plan.Code, ingredients []IngredientSelection, quantity int) error
	UpdateCartItem(userID, cartItemID uint, update CartUpdate) error
	RemoveFromCart(userID, cartItemID uint) error
	ClearCart(userID uint) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartService) GetUserCart(userID uint) ([]model.CartItem, error) {
	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return cartItems, nil
}

// AddToCart adds one product under one plan. A line already holding the
// same product under the same plan absorbs the quantity; the same product
// under a different plan stays a separate line.
func (s *cartService) AddToCart(userID, productID uint, planCode plan.Code, ingredients []IngredientSelection, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"plan":       planCode,
		"quantity":   quantity,
	})

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": productID,
		})
		return err
	}

	if !product.IsAvailable {
		logger.Warn("Cannot add to cart: product unavailable", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return ErrProductUnavailable
	}

	// The chosen plan may not be priced on this product; fall back to
	// oneTime (then the first priced plan) rather than storing a line
	// with an undefined price.
	resolvedPlan, price, ok := plan.ResolvePrice(product.PriceTable(), planCode)
	if !ok {
		logger.Warn("Cannot add to cart: product has no priced plans", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return ErrPlanPriceUnresolved
	}

	existingItem, err := s.cartRepo.FindByUserProductPlan(userID, productID, resolvedPlan)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing cart item", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return err
	}

	if existingItem != nil {
		existingItem.Quantity += quantity
		if err := s.cartRepo.Update(existingItem); err != nil {
			return err
		}
		logger.Info("Cart line quantity incremented", map[string]interface{}{
			"cart_item_id": existingItem.ID,
			"quantity":     existingItem.Quantity,
		})
		return nil
	}

	cartItem := &model.CartItem{
		UserID:            userID,
		ProductID:         productID,
		Name:              product.Name,
		Description:       product.Description,
		ImageURL:          product.ImageURL,
		SelectedPlan:      resolvedPlan,
		SelectedPlanPrice: price,
		Quantity:          quantity,
		Ingredients:       ingredientRows(product, ingredients),
	}

	if err := s.cartRepo.Create(cartItem); err != nil {
		return err
	}

	logger.Info("Cart item added successfully", map[string]interface{}{
		"cart_item_id": cartItem.ID,
	})
	return nil
}

// UpdateCartItem applies a quantity and/or plan change to one line.
// Quantity below 1 removes the line. A plan change takes effect only when
// the product prices the requested plan; SelectedPlan and
// SelectedPlanPrice always change together.
func (s *cartService) UpdateCartItem(userID, cartItemID uint, update CartUpdate) error {
	if update.Quantity != nil && *update.Quantity < 1 {
		return s.RemoveFromCart(userID, cartItemID)
	}

	cartItem, err := s.cartRepo.FindByID(cartItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartItemNotFound
		}
		logger.Error("Failed to fetch cart item", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return err
	}

	if cartItem.UserID != userID {
		logger.Warn("Cart item access denied: ownership mismatch", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": cartItemID,
			"owner_id":     cartItem.UserID,
		})
		return ErrCartItemNotFound
	}

	if update.PlanCode != nil {
		price, found := cartItem.Product.PriceTable()[*update.PlanCode]
		if !found {
			logger.Warn("Plan switch rejected: plan not priced on product", map[string]interface{}{
				"cart_item_id": cartItemID,
				"plan":         *update.PlanCode,
			})
			return ErrPlanPriceUnresolved
		}
		cartItem.SelectedPlan = *update.PlanCode
		cartItem.SelectedPlanPrice = price
	}

	if update.Quantity != nil {
		cartItem.Quantity = *update.Quantity
	}

	if err := s.cartRepo.Update(cartItem); err != nil {
		return err
	}

	logger.Info("Cart item updated successfully", map[string]interface{}{
		"cart_item_id": cartItemID,
	})
	return nil
}

// RemoveFromCart deletes a line. Removing a line that does not exist (or
// is not yours) is a no-op, matching the storefront's remove contract.
func (s *cartService) RemoveFromCart(userID, cartItemID uint) error {
	cartItem, err := s.cartRepo.FindByID(cartItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Debug("Cart item already absent", map[string]interface{}{
				"cart_item_id": cartItemID,
			})
			return nil
		}
		logger.Error("Failed to fetch cart item for removal", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return err
	}

	if cartItem.UserID != userID {
		logger.Warn("Cart item removal denied: ownership mismatch", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": cartItemID,
			"owner_id":     cartItem.UserID,
		})
		return nil
	}

	if err := s.cartRepo.Delete(cartItemID); err != nil {
		return err
	}

	logger.Info("Cart item removed", map[string]interface{}{
		"cart_item_id": cartItemID,
	})
	return nil
}

func (s *cartService) ClearCart(userID uint) error {
	if err := s.cartRepo.DeleteByUserID(userID); err != nil {
		return err
	}

	logger.Info("User cart cleared", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

// ingredientRows snapshots add-on selections, resolving names from the
// catalog where the caller did not supply one.
func ingredientRows(product *model.Product, selections []IngredientSelection) []model.CartItemIngredient {
	if len(selections) == 0 {
		return nil
	}

	names := make(map[uint]string, len(product.Ingredients))
	for _, ing := range product.Ingredients {
		names[ing.ID] = ing.Name
	}

	rows := make([]model.CartItemIngredient, 0, len(selections))
	for _, sel := range selections {
		qty := sel.Quantity
		if qty < 1 {
			qty = 1
		}
		name := sel.Name
		if name == "" {
			name = names[sel.IngredientID]
		}
		rows = append(rows, model.CartItemIngredient{
			IngredientID: sel.IngredientID,
			Name:         name,
			Quantity:     qty,
		})
	}
	return rows
}
