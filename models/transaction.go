package models

import (
	"time"
)

// Transaction types
const (
	TransactionTypeEntree = "ENTREE"
	TransactionTypeSortie = "SORTIE"
)

// Accepted payment modes
var PaymentModes = []string{"ESPECES", "CARTE", "VIREMENT", "CHEQUE"}

// Transaction is a cash-register movement, either income (ENTREE) or
// expense (SORTIE)
type Transaction struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Montant         float64   `gorm:"type:decimal(10,2);not null" json:"montant"`
	Type            string    `gorm:"size:10;not null" json:"type"`
	Description     string    `gorm:"size:500;not null" json:"description"`
	Categorie       *string   `gorm:"size:100" json:"categorie"`
	ModePaiement    *string   `gorm:"size:50" json:"mode_paiement"`
	DateTransaction time.Time `gorm:"not null;index" json:"date_transaction"`
	UserID          *uint     `json:"user_id"`
	Notes           *string   `gorm:"size:1000" json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// SignedAmount returns the montant with its sign applied: positive for
// ENTREE, negative for SORTIE. It is always derived, never stored.
func (t Transaction) SignedAmount() float64 {
	if t.Type == TransactionTypeEntree {
		return t.Montant
	}
	return -t.Montant
}

// IsValidPaymentMode reports whether mode is one of the accepted payment modes.
func IsValidPaymentMode(mode string) bool {
	for _, m := range PaymentModes {
		if m == mode {
			return true
		}
	}
	return false
}
