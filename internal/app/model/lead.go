package model

import (
	"time"

	"gorm.io/gorm"
)

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusClosed    LeadStatus = "closed"
)

// Lead is an enquiry captured from the storefront contact form, worked
// through the admin back office.
type Lead struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Phone     string         `gorm:"not null" json:"phone"`
	Email     string         `json:"email"`
	Message   string         `gorm:"type:text" json:"message"`
	Source    string         `gorm:"type:varchar(50)" json:"source"`
	Status    LeadStatus     `gorm:"type:varchar(20);default:'new';index" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Lead) TableName() string {
	return "leads"
}
