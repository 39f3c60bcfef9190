package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/freshplatter/platter-backend/internal/app/model"
	"github.com/freshplatter/platter-backend/internal/app/repository"
	"github.com/freshplatter/platter-backend/pkg/logger"
	"github.com/freshplatter/platter-backend/pkg/schedule"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrEmptyCart             = errors.New("cart is empty")
	ErrInvalidDeliveryWindow = errors.New("invalid delivery window")
	ErrInvalidOrderStatus    = errors.New("invalid order status")
)

// OrderNotifier receives order lifecycle events. The websocket hub
// implements it for the live back-office feed; a nil notifier is valid.
type OrderNotifier interface {
	OrderCreated(order *model.Order)
	OrderStatusChanged(order *model.Order)
}

// CheckoutInput is what the storefront posts when placing an order.
type CheckoutInput struct {
	BookingDate       time.Time
	DeliveryStartDate time.Time
	DeliveryEndDate   *time.Time
	PaymentMethod     string
	ShippingAddress   string
}

type OrderService interface {
	CreateOrderFromCart(userID uint, input CheckoutInput) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrderByID(userID, orderID uint) (*model.Order, error)
	ListOrders(filter repository.OrderFilter) ([]model.Order, error)
	UpdateOrderStatus(orderID uint, status model.OrderStatus) error
}

type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	notifier  OrderNotifier
	db        *gorm.DB
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	db *gorm.DB,
	notifier OrderNotifier,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		notifier:  notifier,
		db:        db,
	}
}

// CreateOrderFromCart snapshots the user's cart into an order. The
// delivery end date, when the storefront does not send one, is derived
// from the start date and the lines' plans; the widest window wins when
// lines disagree. The cart is cleared in the same transaction, so a
// failed checkout leaves the cart untouched.
func (s *orderService) CreateOrderFromCart(userID uint, input CheckoutInput) (*model.Order, error) {
	logger.Info("Creating order from cart", map[string]interface{}{
		"user_id":        userID,
		"payment_method": input.PaymentMethod,
	})

	if input.DeliveryStartDate.IsZero() {
		return nil, ErrInvalidDeliveryWindow
	}
	if input.DeliveryEndDate != nil && input.DeliveryEndDate.Before(input.DeliveryStartDate) {
		return nil, ErrInvalidDeliveryWindow
	}

	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch cart items", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	if len(cartItems) == 0 {
		logger.Warn("Cannot create order: cart is empty", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrEmptyCart
	}

	var totalAmount float64
	orderItems := make([]model.OrderItem, 0, len(cartItems))
	for _, cartItem := range cartItems {
		totalAmount += cartItem.SelectedPlanPrice * float64(cartItem.Quantity)

		item := model.OrderItem{
			ProductID:    cartItem.ProductID,
			Name:         cartItem.Name,
			ImageURL:     cartItem.ImageURL,
			Quantity:     cartItem.Quantity,
			Price:        cartItem.SelectedPlanPrice,
			SelectedPlan: cartItem.SelectedPlan,
		}
		for _, ing := range cartItem.Ingredients {
			item.Ingredients = append(item.Ingredients, model.OrderItemIngredient{
				IngredientID: ing.IngredientID,
				Name:         ing.Name,
				Quantity:     ing.Quantity,
			})
		}
		orderItems = append(orderItems, item)
	}

	endDate := input.DeliveryEndDate
	if endDate == nil {
		endDate = deriveEndDate(input.DeliveryStartDate, cartItems)
	}

	bookingDate := input.BookingDate
	if bookingDate.IsZero() {
		bookingDate = schedule.Day(time.Now())
	}

	order := &model.Order{
		UserID:            userID,
		BookingDate:       schedule.Day(bookingDate),
		DeliveryStartDate: schedule.Day(input.DeliveryStartDate),
		DeliveryEndDate:   endDate,
		PaymentMethod:     input.PaymentMethod,
		TotalAmount:       totalAmount,
		Status:            model.OrderStatusPending,
		ShippingAddress:   input.ShippingAddress,
		OrderItems:        orderItems,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		// Clear the cart atomically with the order snapshot.
		var ids []uint
		if err := tx.Model(&model.CartItem{}).Where("user_id = ?", userID).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) > 0 {
			if err := tx.Where("cart_item_id IN ?", ids).Delete(&model.CartItemIngredient{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to create order", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Order created successfully", map[string]interface{}{
		"order_id":     order.ID,
		"user_id":      userID,
		"total_amount": order.TotalAmount,
		"item_count":   len(order.OrderItems),
	})

	if s.notifier != nil {
		s.notifier.OrderCreated(order)
	}
	return order, nil
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *orderService) GetOrderByID(userID, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		logger.Warn("Order access denied: ownership mismatch", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
			"owner_id": order.UserID,
		})
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) ListOrders(filter repository.OrderFilter) ([]model.Order, error) {
	return s.orderRepo.FindAll(filter)
}

var validStatuses = map[model.OrderStatus]struct{}{
	model.OrderStatusPending:        {},
	model.OrderStatusPaymentSuccess: {},
	model.OrderStatusShipped:        {},
	model.OrderStatusDelivered:      {},
	model.OrderStatusComplete:       {},
	model.OrderStatusCancelled:      {},
}

func (s *orderService) UpdateOrderStatus(orderID uint, status model.OrderStatus) error {
	if _, ok := validStatuses[status]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidOrderStatus, status)
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	order.Status = status
	if err := s.orderRepo.Update(order); err != nil {
		return err
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})

	if s.notifier != nil {
		s.notifier.OrderStatusChanged(order)
	}
	return nil
}

// deriveEndDate computes the widest delivery window the cart's plans
// imply. Lines without a delivery calendar (legacy packs) are skipped; a
// cart with none leaves the window open-ended.
func deriveEndDate(start time.Time, items []model.CartItem) *time.Time {
	var latest *time.Time
	for _, item := range items {
		end, err := schedule.ComputeEndDate(start, item.SelectedPlan)
		if err != nil {
			continue
		}
		if latest == nil || end.After(*latest) {
			e := end
			latest = &e
		}
	}
	return latest
}
