package controller

import (
	stderrors "errors"
	"net/http"

	"github.com/freshplatter/platter-backend/internal/app/model"
	"github.com/freshplatter/platter-backend/internal/app/service"
	"github.com/freshplatter/platter-backend/internal/errors"
	"github.com/freshplatter/platter-backend/internal/middleware"
	"github.com/freshplatter/platter-backend/pkg/plan"
	"github.com/gin-gonic/gin"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type IngredientSelectionRequest struct {
	IngredientID uint   `json:"ingredient_id"`
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
}

type AddToCartRequest struct {
	ProductID   uint                         `json:"product_id" binding:"required"`
	PlanCode    plan.Code                    `json:"plan_code" binding:"required"`
	Quantity    int                          `json:"quantity"`
	Ingredients []IngredientSelectionRequest `json:"ingredients"`
}

type RemoveFromCartRequest struct {
	CartItemID uint `json:"cart_item_id" binding:"required"`
}

type UpdateCartRequest struct {
	CartItemID uint       `json:"cart_item_id" binding:"required"`
	Quantity   *int       `json:"quantity"`
	PlanCode   *plan.Code `json:"plan_code"`
}

// cartLine is one serialized cart line. The product's plan prices are
// flattened into a price_table so the storefront can resolve plan
// switches without unpacking the nested product.
type cartLine struct {
	model.CartItem
	PriceTable map[plan.Code]float64 `json:"price_table,omitempty"`
}

// cartResponse is the canonical cart payload. Every mutation returns the
// full post-mutation cart so the storefront can replace its local state
// wholesale instead of patching it.
func (ctrl *CartController) cartResponse(c *gin.Context, userID uint, status int) {
	log := middleware.GetLoggerFromContext(c)

	cartItems, err := ctrl.cartService.GetUserCart(userID)
	if err != nil {
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.InternalError(c, "Failed to fetch cart")
		return
	}

	lines := make([]cartLine, len(cartItems))
	var total float64
	for i, item := range cartItems {
		lines[i] = cartLine{
			CartItem:   item,
			PriceTable: item.Product.PriceTable(),
		}
		total += item.SelectedPlanPrice * float64(item.Quantity)
	}

	c.JSON(status, gin.H{
		"items": lines,
		"count": len(lines),
		"total": total,
	})
}

// GetCart returns the user's cart
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}
	ctrl.cartResponse(c, userID, http.StatusOK)
}

// AddToCart adds an item to the cart, merging into an existing line when
// the product and plan match
// POST /api/v1/cart/add
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data: "+err.Error())
		return
	}

	selections := make([]service.IngredientSelection, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		selections = append(selections, service.IngredientSelection{
			IngredientID: ing.IngredientID,
			Name:         ing.Name,
			Quantity:     ing.Quantity,
		})
	}

	err := ctrl.cartService.AddToCart(userID, req.ProductID, req.PlanCode, selections, req.Quantity)
	if err != nil {
		switch {
		case stderrors.Is(err, service.ErrProductNotFound):
			errors.NotFound(c, errors.ProductNotFound, "Product not found")
		case stderrors.Is(err, service.ErrProductUnavailable):
			errors.RespondWithError(c, http.StatusConflict, errors.ProductUnavailable, "Product is not available")
		case stderrors.Is(err, service.ErrPlanPriceUnresolved):
			errors.RespondWithError(c, http.StatusUnprocessableEntity, errors.PlanPriceUnresolved, "Product has no price for the selected plan")
		default:
			log.Error("Failed to add item to cart", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": req.ProductID,
			})
			errors.InternalError(c, "Failed to add item to cart")
		}
		return
	}

	log.Info("Item added to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": req.ProductID,
		"plan":       req.PlanCode,
	})

	ctrl.cartResponse(c, userID, http.StatusOK)
}

// RemoveFromCart removes a line. Removing a line that is already gone is
// a success, so a retried remove never errors
// POST /api/v1/cart/remove
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	var req RemoveFromCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data: "+err.Error())
		return
	}

	if err := ctrl.cartService.RemoveFromCart(userID, req.CartItemID); err != nil {
		log.Error("Failed to remove cart item", err, map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": req.CartItemID,
		})
		errors.InternalError(c, "Failed to remove cart item")
		return
	}

	ctrl.cartResponse(c, userID, http.StatusOK)
}

// UpdateCartItem changes quantity and/or plan on one line. A quantity
// below 1 removes the line
// POST /api/v1/cart/update
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data: "+err.Error())
		return
	}

	err := ctrl.cartService.UpdateCartItem(userID, req.CartItemID, service.CartUpdate{
		Quantity: req.Quantity,
		PlanCode: req.PlanCode,
	})
	if err != nil {
		switch {
		case stderrors.Is(err, service.ErrCartItemNotFound):
			errors.NotFound(c, errors.CartItemNotFound, "Cart item not found")
		case stderrors.Is(err, service.ErrPlanPriceUnresolved):
			errors.RespondWithError(c, http.StatusUnprocessableEntity, errors.PlanPriceUnresolved, "Product has no price for the selected plan")
		default:
			log.Error("Failed to update cart item", err, map[string]interface{}{
				"user_id":      userID,
				"cart_item_id": req.CartItemID,
			})
			errors.InternalError(c, "Failed to update cart item")
		}
		return
	}

	ctrl.cartResponse(c, userID, http.StatusOK)
}

// ClearCart empties the user's cart
// POST /api/v1/cart/clear
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	if err := ctrl.cartService.ClearCart(userID); err != nil {
		log.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.InternalError(c, "Failed to clear cart")
		return
	}

	log.Info("Cart cleared", map[string]interface{}{
		"user_id": userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"items": []model.CartItem{},
		"count": 0,
		"total": 0,
	})
}
