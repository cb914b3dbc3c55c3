package models

import (
	"time"
)

// Order statuses are free-form strings; the shop uses "En cours",
// "Terminé", "Livré" and "Annulé" but no transition graph is enforced.
const DefaultOrderStatus = "En cours"

// Order represents a tailoring order placed by a customer
type Order struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	CustomerID     uint        `gorm:"not null;index" json:"customer_id"`
	DateCommande   time.Time   `gorm:"not null" json:"date_commande"`
	DateRendezVous *time.Time  `json:"date_rendez_vous"`
	Total          float64     `gorm:"type:decimal(10,2)" json:"total"`
	Reduction      *float64    `gorm:"type:decimal(10,2)" json:"reduction"`
	TotalFinal     float64     `gorm:"type:decimal(10,2)" json:"total_final"`
	Statut         string      `gorm:"size:20;not null;default:'En cours'" json:"statut"`
	Notes          *string     `gorm:"size:500" json:"notes"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
	Items          []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one garment line on an order. ModeleID is nil for custom
// models, which carry their own name and price. PrixUnitaire is
// snapshotted when the line is created and never follows the modele.
type OrderItem struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	OrderID          uint      `gorm:"not null;index" json:"order_id"`
	ModeleID         *uint     `gorm:"index" json:"modele_id"`
	IsCustomModel    bool      `gorm:"not null;default:false" json:"is_custom_model"`
	CustomModelName  *string   `gorm:"size:200" json:"custom_model_name"`
	CustomModelPrice *float64  `gorm:"type:decimal(8,2)" json:"custom_model_price"`
	TypeTissu        string    `gorm:"size:100;not null" json:"type_tissu"`
	Couleur          string    `gorm:"size:100;not null" json:"couleur"`
	PrixUnitaire     float64   `gorm:"type:decimal(8,2);not null" json:"prix_unitaire"`
	Quantite         int       `gorm:"not null;default:1;check:quantite > 0" json:"quantite"`
	Notes            *string   `gorm:"size:300" json:"notes"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
