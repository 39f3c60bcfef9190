package model

import (
	"time"

	"github.com/freshplatter/platter-backend/pkg/plan"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusPaymentSuccess OrderStatus = "payment-success"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusComplete       OrderStatus = "order-complete"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

type Order struct {
	ID                uint           `gorm:"primarykey" json:"id"`
	UserID            uint           `gorm:"not null;index" json:"user_id"`
	BookingDate       time.Time      `gorm:"not null" json:"booking_date"`
	DeliveryStartDate time.Time      `gorm:"not null;index" json:"delivery_start_date"`
	DeliveryEndDate   *time.Time     `gorm:"index" json:"delivery_end_date,omitempty"`
	PaymentMethod     string         `gorm:"type:varchar(30)" json:"payment_method"`
	TotalAmount       float64        `gorm:"not null" json:"total_amount"`
	Status            OrderStatus    `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	ShippingAddress   string         `gorm:"type:text" json:"shipping_address"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	User       User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem snapshots one cart line at checkout. SelectedPlan is the plan
// code the line was ordered under; together with the order's delivery
// window it is what the admin dashboard re-expands into delivery dates.
type OrderItem struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	OrderID      uint           `gorm:"not null;index" json:"order_id"`
	ProductID    uint           `gorm:"not null;index" json:"product_id"`
	Name         string         `gorm:"not null" json:"name"`
	ImageURL     string         `json:"image_url"`
	Quantity     int            `gorm:"not null" json:"quantity"`
	Price        float64        `gorm:"not null" json:"price"`
	SelectedPlan plan.Code      `gorm:"type:varchar(20);not null" json:"selected_plan"`
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Order       Order                 `gorm:"foreignKey:OrderID" json:"-"`
	Product     Product               `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Ingredients []OrderItemIngredient `gorm:"foreignKey:OrderItemID;constraint:OnDelete:CASCADE" json:"selected_ingredients,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

type OrderItemIngredient struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	OrderItemID  uint           `gorm:"not null;index" json:"order_item_id"`
	IngredientID uint           `gorm:"not null" json:"ingredient_id"`
	Name         string         `gorm:"not null" json:"name"`
	Quantity     int            `gorm:"not null;default:1" json:"quantity"`
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	OrderItem OrderItem `gorm:"foreignKey:OrderItemID" json:"-"`
}

func (OrderItemIngredient) TableName() string {
	return "order_item_ingredients"
}
