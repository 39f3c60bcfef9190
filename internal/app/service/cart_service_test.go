package service

import (
	"testing"

	"github.com/freshplatter/platter-backend/internal/app/model"
	"github.com/freshplatter/platter-backend/internal/app/repository"
	"github.com/freshplatter/platter-backend/internal/db"
	"github.com/freshplatter/platter-backend/pkg/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (CartService, *model.User, *model.Product, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartService := NewCartService(cartRepo, productRepo)

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	product := &model.Product{
		Name:        "Green Detox Platter",
		Category:    model.CategoryPlatters,
		IsAvailable: true,
		PlanPrices: []model.PlanPrice{
			{PlanCode: plan.OneTime, Price: 25},
			{PlanCode: plan.Weekly3MWF, Price: 280},
			{PlanCode: plan.Monthly, Price: 560},
		},
		Ingredients: []model.Ingredient{
			{Name: "Avocado", ExtraPrice: 3},
		},
	}
	testDB.Create(product)

	return cartService, user, product, testDB
}

func TestCartService_AddToCart(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	err := cartService.AddToCart(user.ID, product.ID, plan.Weekly3MWF, nil, 2)
	require.NoError(t, err)

	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, plan.Weekly3MWF, items[0].SelectedPlan)
	assert.Equal(t, 280.0, items[0].SelectedPlanPrice)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, product.Name, items[0].Name)
}

func TestCartService_AddToCart_MergesSamePlan(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	err := cartService.AddToCart(user.ID, product.ID, plan.Weekly3MWF, nil, 1)
	require.NoError(t, err)
	err = cartService.AddToCart(user.ID, product.ID, plan.Weekly3MWF, nil, 3)
	require.NoError(t, err)

	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)
}

func TestCartService_AddToCart_DistinctPlansStaySeparate(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	err := cartService.AddToCart(user.ID, product.ID, plan.Weekly3MWF, nil, 1)
	require.NoError(t, err)
	err = cartService.AddToCart(user.ID, product.ID, plan.Monthly, nil, 1)
	require.NoError(t, err)

	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.NotEqual(t, items[0].SelectedPlan, items[1].SelectedPlan)
}

func TestCartService_AddToCart_FallsBackToOneTimePrice(t *testing.T) {
	cartService, user, _, testDB := setupCartServiceTest(t)

	// Product without a weekly6 price resolves to its oneTime price.
	product := &model.Product{
		Name:        "Citrus Juice",
		Category:    model.CategoryJuices,
		IsAvailable: true,
		PlanPrices: []model.PlanPrice{
			{PlanCode: plan.OneTime, Price: 9},
		},
	}
	testDB.Create(product)

	err := cartService.AddToCart(user.ID, product.ID, plan.Weekly6, nil, 1)
	require.NoError(t, err)

	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, plan.OneTime, items[0].SelectedPlan)
	assert.Equal(t, 9.0, items[0].SelectedPlanPrice)
}

func TestCartService_AddToCart_UnavailableProduct(t *testing.T) {
	cartService, user, _, testDB := setupCartServiceTest(t)

	product := &model.Product{
		Name:        "Sold Out Salad",
		Category:    model.CategorySalads,
		IsAvailable: false,
		PlanPrices: []model.PlanPrice{
			{PlanCode: plan.OneTime, Price: 12},
		},
	}
	testDB.Create(product)

	err := cartService.AddToCart(user.ID, product.ID, plan.OneTime, nil, 1)
	assert.ErrorIs(t, err, ErrProductUnavailable)
}

func TestCartService_AddToCart_WithIngredients(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	selections := []IngredientSelection{
		{IngredientID: product.Ingredients[0].ID, Name: "Avocado", Quantity: 2},
	}
	err := cartService.AddToCart(user.ID, product.ID, plan.OneTime, selections, 1)
	require.NoError(t, err)

	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Len(t, items[0].Ingredients, 1)
	assert.Equal(t, "Avocado", items[0].Ingredients[0].Name)
	assert.Equal(t, 2, items[0].Ingredients[0].Quantity)
}

func TestCartService_UpdateCartItem_Quantity(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, plan.OneTime, nil, 1))
	items, _ := cartService.GetUserCart(user.ID)
	require.Len(t, items, 1)

	qty := 5
	err := cartService.UpdateCartItem(user.ID, items[0].ID, CartUpdate{Quantity: &qty})
	require.NoError(t, err)

	items, _ = cartService.GetUserCart(user.ID)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestCartService_UpdateCartItem_QuantityBelowOneRemoves(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, plan.OneTime, nil, 2))
	items, _ := cartService.GetUserCart(user.ID)
	require.Len(t, items, 1)

	qty := 0
	err := cartService.UpdateCartItem(user.ID, items[0].ID, CartUpdate{Quantity: &qty})
	require.NoError(t, err)

	items, _ = cartService.GetUserCart(user.ID)
	assert.Len(t, items, 0)
}

func TestCartService_UpdateCartItem_PlanSwitch(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, plan.OneTime, nil, 1))
	items, _ := cartService.GetUserCart(user.ID)
	require.Len(t, items, 1)

	newPlan := plan.Monthly
	err := cartService.UpdateCartItem(user.ID, items[0].ID, CartUpdate{PlanCode: &newPlan})
	require.NoError(t, err)

	items, _ = cartService.GetUserCart(user.ID)
	require.Len(t, items, 1)
	assert.Equal(t, plan.Monthly, items[0].SelectedPlan)
	assert.Equal(t, 560.0, items[0].SelectedPlanPrice)
}

func TestCartService_UpdateCartItem_PlanSwitchWithoutPrice(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, plan.OneTime, nil, 1))
	items, _ := cartService.GetUserCart(user.ID)
	require.Len(t, items, 1)

	// The product has no weekly6 price; the switch must be rejected and
	// the line left untouched.
	newPlan := plan.Weekly6
	err := cartService.UpdateCartItem(user.ID, items[0].ID, CartUpdate{PlanCode: &newPlan})
	assert.ErrorIs(t, err, ErrPlanPriceUnresolved)

	items, _ = cartService.GetUserCart(user.ID)
	require.Len(t, items, 1)
	assert.Equal(t, plan.OneTime, items[0].SelectedPlan)
	assert.Equal(t, 25.0, items[0].SelectedPlanPrice)
}

func TestCartService_UpdateCartItem_OtherUsersLine(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	other := &model.User{Email: "other@example.com", PasswordHash: "hash", Name: "Other", Role: model.RoleUser}
	testDB.Create(other)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, plan.OneTime, nil, 1))
	items, _ := cartService.GetUserCart(user.ID)
	require.Len(t, items, 1)

	qty := 3
	err := cartService.UpdateCartItem(other.ID, items[0].ID, CartUpdate{Quantity: &qty})
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_RemoveFromCart_Idempotent(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, plan.OneTime, nil, 1))
	items, _ := cartService.GetUserCart(user.ID)
	require.Len(t, items, 1)

	require.NoError(t, cartService.RemoveFromCart(user.ID, items[0].ID))

	// Removing again is a no-op, not an error.
	assert.NoError(t, cartService.RemoveFromCart(user.ID, items[0].ID))

	items, _ = cartService.GetUserCart(user.ID)
	assert.Len(t, items, 0)
}

func TestCartService_ClearCart(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, plan.OneTime, nil, 1))
	require.NoError(t, cartService.AddToCart(user.ID, product.ID, plan.Monthly, nil, 1))

	require.NoError(t, cartService.ClearCart(user.ID))

	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 0)
}
