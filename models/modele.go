package models

import (
	"time"
)

// Modele is a garment template: a reference image plus a price.
// Order items snapshot the price at creation time, so editing a
// modele never re-prices existing orders.
type Modele struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Price     float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL  string    `gorm:"not null" json:"image_url"`
	ImageKey  *string   `json:"-"` // storage key, used for deletes only
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Modele model
func (Modele) TableName() string {
	return "modeles"
}
