package models

import (
	"time"
)

// Customer represents a tailoring-shop client
type Customer struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	PhoneNumber string    `gorm:"uniqueIndex;not null" json:"phone_number"`
	PhotoURL    *string   `json:"photo_url"`
	PhotoKey    *string   `json:"-"` // storage key, used for deletes only
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Measure     *Measure  `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"measure,omitempty"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
