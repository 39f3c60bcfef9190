package model

import (
	"time"

	"gorm.io/gorm"
)

// Banner is a promotional slide on the storefront home page, managed from
// the admin back office.
type Banner struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Title     string         `gorm:"not null" json:"title"`
	Subtitle  string         `json:"subtitle"`
	ImageURL  string         `gorm:"not null" json:"image_url"`
	LinkURL   string         `json:"link_url"`
	Position  int            `gorm:"default:0" json:"position"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Banner) TableName() string {
	return "banners"
}
