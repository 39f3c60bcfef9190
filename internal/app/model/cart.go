package model

import (
	"time"

	"github.com/freshplatter/platter-backend/pkg/plan"
	"gorm.io/gorm"
)

// CartItem is one line in a user's cart: one product under one chosen
// plan. The same product may appear on two lines under different plans, so
// line identity is always the row ID, never the product ID alone.
//
// Name, Description and ImageURL are display snapshots copied from the
// product at add time; SelectedPlanPrice is the price snapshot taken when
// the plan was chosen.
type CartItem struct {
	ID                uint           `gorm:"primarykey" json:"id"`
	UserID            uint           `gorm:"not null;index" json:"user_id"`
	ProductID         uint           `gorm:"not null;index" json:"product_id"`
	Name              string         `gorm:"not null" json:"name"`
	Description       string         `gorm:"type:text" json:"description"`
	ImageURL          string         `json:"image_url"`
	SelectedPlan      plan.Code      `gorm:"type:varchar(20);not null" json:"selected_plan"`
	SelectedPlanPrice float64        `gorm:"not null" json:"selected_plan_price"`
	Quantity          int            `gorm:"not null;default:1" json:"quantity"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User        User                 `gorm:"foreignKey:UserID" json:"-"`
	Product     Product              `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Ingredients []CartItemIngredient `gorm:"foreignKey:CartItemID;constraint:OnDelete:CASCADE" json:"selected_ingredients,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// CartItemIngredient is an add-on selection attached to a cart line.
// The name is snapshotted so the line renders even if the catalog
// ingredient is later renamed or removed.
type CartItemIngredient struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	CartItemID   uint           `gorm:"not null;index" json:"cart_item_id"`
	IngredientID uint           `gorm:"not null" json:"ingredient_id"`
	Name         string         `gorm:"not null" json:"name"`
	Quantity     int            `gorm:"not null;default:1" json:"quantity"`
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	CartItem CartItem `gorm:"foreignKey:CartItemID" json:"-"`
}

func (CartItemIngredient) TableName() string {
	return "cart_item_ingredients"
}
