package model

import (
	"time"

	"github.com/freshplatter/platter-backend/pkg/plan"
	"gorm.io/gorm"
)

type ProductCategory string

const (
	CategoryMeals    ProductCategory = "meals"
	CategorySalads   ProductCategory = "salads"
	CategoryJuices   ProductCategory = "juices"
	CategoryPlatters ProductCategory = "platters"
)

type Product struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Category    ProductCategory `gorm:"type:varchar(50)" json:"category"`
	ImageURL    string          `json:"image_url"`
	IsAvailable bool            `gorm:"default:true" json:"is_available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	PlanPrices  []PlanPrice  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"plan_prices,omitempty"`
	Ingredients []Ingredient `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`
	OrderItems  []OrderItem  `gorm:"foreignKey:ProductID" json:"-"`
	CartItems   []CartItem   `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// PriceTable flattens the product's plan price rows into a lookup table.
func (p *Product) PriceTable() map[plan.Code]float64 {
	table := make(map[plan.Code]float64, len(p.PlanPrices))
	for _, pp := range p.PlanPrices {
		table[pp.PlanCode] = pp.Price
	}
	return table
}

// PlanPrice is one priced subscription plan on a product. A product
// carries one row per plan it can be ordered under.
type PlanPrice struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	ProductID uint           `gorm:"not null;index;uniqueIndex:idx_product_plan" json:"product_id"`
	PlanCode  plan.Code      `gorm:"type:varchar(20);not null;uniqueIndex:idx_product_plan" json:"plan_code"`
	Price     float64        `gorm:"not null" json:"price"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (PlanPrice) TableName() string {
	return "plan_prices"
}

// Ingredient is an optional add-on a customer can attach to a line item.
type Ingredient struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	ProductID  uint           `gorm:"not null;index" json:"product_id"`
	Name       string         `gorm:"not null" json:"name"`
	ExtraPrice float64        `gorm:"default:0" json:"extra_price"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}
