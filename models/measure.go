package models

import (
	"time"
)

// Measure holds a customer's body measurements, one row per customer.
// All fields are optional: a tailor records only what was taken.
type Measure struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	CustomerID       uint      `gorm:"uniqueIndex;not null" json:"customer_id"`
	TourPoitrine     *float64  `gorm:"type:decimal(6,2)" json:"tour_poitrine"`
	TourHanches      *float64  `gorm:"type:decimal(6,2)" json:"tour_hanches"`
	LongueurManche   *float64  `gorm:"type:decimal(6,2)" json:"longueur_manche"`
	TourBras         *float64  `gorm:"type:decimal(6,2)" json:"tour_bras"`
	LongueurChemise  *float64  `gorm:"type:decimal(6,2)" json:"longueur_chemise"`
	LongueurPantalon *float64  `gorm:"type:decimal(6,2)" json:"longueur_pantalon"`
	LargeurEpaules   *float64  `gorm:"type:decimal(6,2)" json:"largeur_epaules"`
	TourCou          *float64  `gorm:"type:decimal(6,2)" json:"tour_cou"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Measure model
func (Measure) TableName() string {
	return "measures"
}
