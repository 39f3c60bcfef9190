package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/freshplatter/platter-backend/internal/app/controller"
	"github.com/freshplatter/platter-backend/internal/app/model"
	"github.com/freshplatter/platter-backend/internal/app/repository"
	"github.com/freshplatter/platter-backend/internal/app/service"
	"github.com/freshplatter/platter-backend/internal/db"
	"github.com/freshplatter/platter-backend/internal/middleware"
	"github.com/freshplatter/platter-backend/pkg/plan"
	"github.com/freshplatter/platter-backend/pkg/storefront"
	"github.com/freshplatter/platter-backend/pkg/util"
)

type TestServer struct {
	Router *gin.Engine
	DB     *gorm.DB
}

func setupIntegrationTest(t *testing.T) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	leadRepo := repository.NewLeadRepository(testDB)

	authService := service.NewAuthService(userRepo, "test-secret", 15*time.Minute)
	productService := service.NewProductService(productRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(orderRepo, cartRepo, testDB, nil)
	leadService := service.NewLeadService(leadRepo)

	authController := controller.NewAuthController(authService)
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)
	leadController := controller.NewLeadController(leadService)

	authMiddleware := middleware.NewAuthMiddleware("test-secret")

	router := gin.New()

	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.GET("/me", authMiddleware.Authenticate(), authController.GetMe)
	}

	products := router.Group("/api/v1/products")
	{
		products.GET("", productController.ListProducts)
		products.GET("/:id", productController.GetProduct)
	}

	router.POST("/api/v1/leads", leadController.SubmitLead)

	cart := router.Group("/api/v1/cart")
	cart.Use(authMiddleware.Authenticate())
	{
		cart.GET("", cartController.GetCart)
		cart.POST("/add", cartController.AddToCart)
		cart.POST("/remove", cartController.RemoveFromCart)
		cart.POST("/update", cartController.UpdateCartItem)
		cart.POST("/clear", cartController.ClearCart)
	}

	orders := router.Group("/api/v1/orders")
	orders.Use(authMiddleware.Authenticate())
	{
		orders.POST("", orderController.CreateOrder)
		orders.GET("/my-orders", orderController.GetMyOrders)
		orders.GET("/:id", orderController.GetOrder)
	}

	admin := router.Group("/api/v1/admin")
	admin.Use(authMiddleware.Authenticate(), authMiddleware.RequireRole("admin"))
	{
		admin.GET("/orders", orderController.ListOrders)
		admin.PATCH("/orders/:id/status", orderController.UpdateOrderStatus)
		admin.GET("/leads", leadController.ListLeads)
	}

	return &TestServer{Router: router, DB: testDB}
}

func (ts *TestServer) seedProduct(t *testing.T) *model.Product {
	t.Helper()

	product := &model.Product{
		Name:        "Garden Harvest Platter",
		Description: "Seasonal vegetables with dips",
		Category:    model.CategoryPlatters,
		IsAvailable: true,
		PlanPrices: []model.PlanPrice{
			{PlanCode: plan.OneTime, Price: 30},
			{PlanCode: plan.Weekly3MWF, Price: 320},
			{PlanCode: plan.Monthly, Price: 640},
		},
	}
	require.NoError(t, ts.DB.Create(product).Error)
	return product
}

func (ts *TestServer) seedAdmin(t *testing.T) string {
	t.Helper()

	hash, err := util.HashPassword("admin-secret-1")
	require.NoError(t, err)
	admin := &model.User{
		Email:        "admin@freshplatter.test",
		PasswordHash: hash,
		Name:         "Back Office",
		Role:         model.RoleAdmin,
	}
	require.NoError(t, ts.DB.Create(admin).Error)

	token, err := util.GenerateToken(admin.ID, admin.Email, string(admin.Role), "test-secret", 15*time.Minute)
	require.NoError(t, err)
	return token
}

func (ts *TestServer) do(t *testing.T, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func registerAndLogin(t *testing.T, ts *TestServer, email string) string {
	t.Helper()

	w := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email":    email,
		"password": "password-123",
		"name":     "Casey Shopper",
		"address":  "12 Market St",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": "password-123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	token, ok := decodeBody(t, w)["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}

func TestIntegration_RegisterLoginCheckout(t *testing.T) {
	ts := setupIntegrationTest(t)
	product := ts.seedProduct(t)
	token := registerAndLogin(t, ts, "casey@example.com")

	// Catalog is public.
	w := ts.do(t, http.MethodGet, "/api/v1/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/cart/add", token, map[string]interface{}{
		"product_id": product.ID,
		"plan_code":  plan.Weekly3MWF,
		"quantity":   2,
	})
	require.Equal(t, http.StatusOK, w.Code)
	cartBody := decodeBody(t, w)
	assert.Equal(t, float64(1), cartBody["count"])
	assert.Equal(t, 640.0, cartBody["total"])

	start := time.Now().UTC().AddDate(0, 0, 3)
	w = ts.do(t, http.MethodPost, "/api/v1/orders", token, map[string]interface{}{
		"delivery_start_date": start.Format(time.RFC3339),
		"payment_method":      "card",
		"shipping_address":    "12 Market St",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decodeBody(t, w)["order"].(map[string]interface{})
	assert.Equal(t, 640.0, order["total_amount"])
	assert.NotNil(t, order["delivery_end_date"])

	// Checkout empties the cart.
	w = ts.do(t, http.MethodGet, "/api/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decodeBody(t, w)["count"])

	w = ts.do(t, http.MethodGet, "/api/v1/orders/my-orders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestIntegration_CartRequiresAuthentication(t *testing.T) {
	ts := setupIntegrationTest(t)

	w := ts.do(t, http.MethodGet, "/api/v1/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/cart/add", "not-a-token", map[string]interface{}{
		"product_id": 1,
		"plan_code":  plan.OneTime,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIntegration_AdminOrderManagement(t *testing.T) {
	ts := setupIntegrationTest(t)
	product := ts.seedProduct(t)
	userToken := registerAndLogin(t, ts, "casey@example.com")
	adminToken := ts.seedAdmin(t)

	w := ts.do(t, http.MethodPost, "/api/v1/cart/add", userToken, map[string]interface{}{
		"product_id": product.ID,
		"plan_code":  plan.Monthly,
	})
	require.Equal(t, http.StatusOK, w.Code)

	start := time.Now().UTC().AddDate(0, 0, 1)
	w = ts.do(t, http.MethodPost, "/api/v1/orders", userToken, map[string]interface{}{
		"delivery_start_date": start.Format(time.RFC3339),
		"payment_method":      "card",
		"shipping_address":    "12 Market St",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := uint(decodeBody(t, w)["order"].(map[string]interface{})["id"].(float64))

	// Customers cannot reach the back office.
	w = ts.do(t, http.MethodGet, "/api/v1/admin/orders", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, http.MethodGet, "/api/v1/admin/orders", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/admin/orders/%d/status", orderID), adminToken, map[string]interface{}{
		"status": "shipped",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(t, http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", orderID), userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "shipped", decodeBody(t, w)["order"].(map[string]interface{})["status"])
}

func TestIntegration_StorefrontPlanSwitch(t *testing.T) {
	ts := setupIntegrationTest(t)
	product := ts.seedProduct(t)
	token := registerAndLogin(t, ts, "casey@example.com")

	server := httptest.NewServer(ts.Router)
	defer server.Close()

	client, err := storefront.NewClient(storefront.Config{BaseURL: server.URL + "/api/v1"})
	require.NoError(t, err)
	store := storefront.NewCartStore(client, storefront.Hooks{})
	ctx := context.Background()

	require.NoError(t, store.SetIdentity(ctx, "casey@example.com", token))

	catalog, err := client.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	require.NoError(t, store.AddItem(ctx, *catalog, plan.OneTime, nil))

	// The synced line must carry the product's full price table, not
	// just the chosen plan's snapshot.
	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, plan.OneTime, items[0].SelectedPlan)
	require.NotEmpty(t, items[0].PriceTable)
	assert.Equal(t, 640.0, items[0].PriceTable[plan.Monthly])

	require.NoError(t, store.UpdatePlan(ctx, items[0].ID, plan.Monthly))

	items = store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, plan.Monthly, items[0].SelectedPlan)
	assert.Equal(t, 640.0, items[0].SelectedPlanPrice)
	assert.Equal(t, 640.0, store.Total())
}

func TestIntegration_LeadCaptureFlow(t *testing.T) {
	ts := setupIntegrationTest(t)
	adminToken := ts.seedAdmin(t)

	w := ts.do(t, http.MethodPost, "/api/v1/leads", "", map[string]interface{}{
		"name":    "Jordan Prospect",
		"phone":   "555-0142",
		"message": "Do you deliver on Saturdays?",
		"source":  "landing_page",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(t, http.MethodGet, "/api/v1/admin/leads", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodGet, "/api/v1/admin/leads", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	leads := decodeBody(t, w)["leads"].([]interface{})
	require.Len(t, leads, 1)
	assert.Equal(t, "Jordan Prospect", leads[0].(map[string]interface{})["name"])
}
