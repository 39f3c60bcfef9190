package storefront

import (
	"time"

	"github.com/freshplatter/platter-backend/pkg/plan"
)

// IngredientSelection is one add-on chosen for a cart line.
type IngredientSelection struct {
	IngredientID uint   `json:"ingredient_id"`
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
}

// CartLineItem is one line in the cart: one product under one chosen
// plan. Line identity is the server-assigned ID once synced; guest lines
// carry a store-local ID until then.
type CartLineItem struct {
	ID                  uint                  `json:"id"`
	ProductID           uint                  `json:"product_id"`
	Name                string                `json:"name"`
	Description         string                `json:"description"`
	ImageURL            string                `json:"image_url"`
	PriceTable          map[plan.Code]float64 `json:"price_table,omitempty"`
	SelectedPlan        plan.Code             `json:"selected_plan"`
	SelectedPlanPrice   float64               `json:"selected_plan_price"`
	Quantity            int                   `json:"quantity"`
	SelectedIngredients []IngredientSelection `json:"selected_ingredients,omitempty"`
}

// Product mirrors the catalog payload served by GET /products.
type Product struct {
	ID          uint              `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	ImageURL    string            `json:"image_url"`
	IsAvailable bool              `json:"is_available"`
	PlanPrices  []PlanPrice       `json:"plan_prices,omitempty"`
	Ingredients []CatalogAddition `json:"ingredients,omitempty"`
}

type PlanPrice struct {
	PlanCode plan.Code `json:"plan_code"`
	Price    float64   `json:"price"`
}

type CatalogAddition struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	ExtraPrice float64 `json:"extra_price"`
}

// PriceTable flattens the product's plan prices to a lookup map.
func (p Product) PriceTable() map[plan.Code]float64 {
	table := make(map[plan.Code]float64, len(p.PlanPrices))
	for _, pp := range p.PlanPrices {
		table[pp.PlanCode] = pp.Price
	}
	return table
}

// Order mirrors the order payload served by POST /orders and
// GET /orders/my-orders.
type Order struct {
	ID                uint        `json:"id"`
	BookingDate       time.Time   `json:"booking_date"`
	DeliveryStartDate time.Time   `json:"delivery_start_date"`
	DeliveryEndDate   *time.Time  `json:"delivery_end_date,omitempty"`
	PaymentMethod     string      `json:"payment_method"`
	TotalAmount       float64     `json:"total_amount"`
	Status            string      `json:"status"`
	ShippingAddress   string      `json:"shipping_address"`
	OrderItems        []OrderItem `json:"order_items,omitempty"`
}

type OrderItem struct {
	ID           uint      `json:"id"`
	ProductID    uint      `json:"product_id"`
	Name         string    `json:"name"`
	ImageURL     string    `json:"image_url"`
	Quantity     int       `json:"quantity"`
	Price        float64   `json:"price"`
	SelectedPlan plan.Code `json:"selected_plan"`
}

// CheckoutRequest is the payload for PlaceOrder.
type CheckoutRequest struct {
	BookingDate       *time.Time `json:"booking_date,omitempty"`
	DeliveryStartDate time.Time  `json:"delivery_start_date"`
	DeliveryEndDate   *time.Time `json:"delivery_end_date,omitempty"`
	PaymentMethod     string     `json:"payment_method"`
	ShippingAddress   string     `json:"shipping_address"`
}

// cartEnvelope is the canonical cart payload every cart endpoint returns.
type cartEnvelope struct {
	Items []CartLineItem `json:"items"`
	Count int            `json:"count"`
	Total float64        `json:"total"`
}
