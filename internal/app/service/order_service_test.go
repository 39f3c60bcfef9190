package service

import (
	"testing"
	"time"

	"github.com/freshplatter/platter-backend/internal/app/model"
	"github.com/freshplatter/platter-backend/internal/app/repository"
	"github.com/freshplatter/platter-backend/internal/db"
	"github.com/freshplatter/platter-backend/pkg/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (OrderService, CartService, *model.User, *model.Product, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)

	cartService := NewCartService(cartRepo, productRepo)
	orderService := NewOrderService(orderRepo, cartRepo, testDB, nil)

	user := &model.User{
		Email:        "buyer@example.com",
		PasswordHash: "hash",
		Name:         "Buyer",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	product := &model.Product{
		Name:        "Protein Meal Box",
		Category:    model.CategoryMeals,
		IsAvailable: true,
		PlanPrices: []model.PlanPrice{
			{PlanCode: plan.OneTime, Price: 18},
			{PlanCode: plan.Weekly3MWF, Price: 200},
			{PlanCode: plan.Weekly6, Price: 380},
			{PlanCode: plan.Monthly, Price: 700},
		},
	}
	testDB.Create(product)

	return orderService, cartService, user, product, testDB
}

func TestOrderService_CreateOrderFromCart(t *testing.T) {
	orderService, cartService, user, product, _ := setupOrderServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, plan.OneTime, nil, 2))

	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	order, err := orderService.CreateOrderFromCart(user.ID, CheckoutInput{
		DeliveryStartDate: start,
		PaymentMethod:     "card",
		ShippingAddress:   "12 Elm Street",
	})
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, 36.0, order.TotalAmount)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, product.Name, order.OrderItems[0].Name)

	// Checkout empties the cart.
	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 0)
}

func TestOrderService_CreateOrderFromCart_EmptyCart(t *testing.T) {
	orderService, _, user, _, _ := setupOrderServiceTest(t)

	_, err := orderService.CreateOrderFromCart(user.ID, CheckoutInput{
		DeliveryStartDate: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestOrderService_CreateOrderFromCart_MissingStartDate(t *testing.T) {
	orderService, cartService, user, product, _ := setupOrderServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, plan.OneTime, nil, 1))

	_, err := orderService.CreateOrderFromCart(user.ID, CheckoutInput{})
	assert.ErrorIs(t, err, ErrInvalidDeliveryWindow)
}

func TestOrderService_CreateOrderFromCart_EndBeforeStart(t *testing.T) {
	orderService, cartService, user, product, _ := setupOrderServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, plan.OneTime, nil, 1))

	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)
	_, err := orderService.CreateOrderFromCart(user.ID, CheckoutInput{
		DeliveryStartDate: start,
		DeliveryEndDate:   &end,
	})
	assert.ErrorIs(t, err, ErrInvalidDeliveryWindow)
}

func TestOrderService_CreateOrderFromCart_DerivesEndDate(t *testing.T) {
	orderService, cartService, user, product, _ := setupOrderServiceTest(t)

	// Monthly spans 30 days; weekly3 spans 12. The widest window wins.
	require.NoError(t, cartService.AddToCart(user.ID, product.ID, plan.Weekly3MWF, nil, 1))
	require.NoError(t, cartService.AddToCart(user.ID, product.ID, plan.Monthly, nil, 1))

	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	order, err := orderService.CreateOrderFromCart(user.ID, CheckoutInput{
		DeliveryStartDate: start,
	})
	require.NoError(t, err)
	require.NotNil(t, order.DeliveryEndDate)
	assert.Equal(t, start.AddDate(0, 0, 29), *order.DeliveryEndDate)
}

func TestOrderService_CreateOrderFromCart_OneTimeEndDate(t *testing.T) {
	orderService, cartService, user, product, _ := setupOrderServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, plan.OneTime, nil, 1))

	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	order, err := orderService.CreateOrderFromCart(user.ID, CheckoutInput{
		DeliveryStartDate: start,
	})
	require.NoError(t, err)
	require.NotNil(t, order.DeliveryEndDate)
	assert.Equal(t, start, *order.DeliveryEndDate)
}

func TestOrderService_GetOrderByID_Ownership(t *testing.T) {
	orderService, cartService, user, product, testDB := setupOrderServiceTest(t)

	other := &model.User{Email: "other@example.com", PasswordHash: "hash", Name: "Other", Role: model.RoleUser}
	testDB.Create(other)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, plan.OneTime, nil, 1))
	order, err := orderService.CreateOrderFromCart(user.ID, CheckoutInput{
		DeliveryStartDate: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	found, err := orderService.GetOrderByID(user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	_, err = orderService.GetOrderByID(other.ID, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	orderService, cartService, user, product, _ := setupOrderServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, plan.OneTime, nil, 1))
	order, err := orderService.CreateOrderFromCart(user.ID, CheckoutInput{
		DeliveryStartDate: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.NoError(t, orderService.UpdateOrderStatus(order.ID, model.OrderStatusShipped))

	found, err := orderService.GetOrderByID(user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, found.Status)

	err = orderService.UpdateOrderStatus(order.ID, model.OrderStatus("refunded"))
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)
}
