package services

import (
	"github.com/csas-cheick/collections-backend/models"
)

// Pricing rules for orders. All functions are pure: the caller resolves
// unit prices (modele snapshot or custom price) before calling in here.

// LineTotal returns the total for one order line
func LineTotal(unitPrice float64, quantity int) float64 {
	return unitPrice * float64(quantity)
}

// OrderTotal sums the line totals of all items using their snapshotted
// unit prices
func OrderTotal(items []models.OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += LineTotal(item.PrixUnitaire, item.Quantite)
	}
	return total
}

// FinalTotal applies an optional reduction to a total, floored at zero
// so a reduction larger than the total never produces a negative amount
func FinalTotal(total float64, reduction *float64) float64 {
	if reduction == nil {
		return total
	}
	final := total - *reduction
	if final < 0 {
		return 0
	}
	return final
}
