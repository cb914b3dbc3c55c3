package services

import (
	"testing"

	"github.com/csas-cheick/collections-backend/models"
	"github.com/stretchr/testify/assert"
)

func floatPtr(f float64) *float64 {
	return &f
}

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name      string
		unitPrice float64
		quantity  int
		expected  float64
	}{
		{"simple product", 10.00, 2, 20.00},
		{"single unit", 25.00, 1, 25.00},
		{"zero price", 0, 5, 0},
		{"decimal price preserved", 12.75, 3, 38.25},
		{"large quantity", 2.50, 100, 250.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LineTotal(tt.unitPrice, tt.quantity))
		})
	}
}

func TestOrderTotal(t *testing.T) {
	items := []models.OrderItem{
		{PrixUnitaire: 10.00, Quantite: 2},
		{PrixUnitaire: 25.00, Quantite: 1},
	}
	assert.Equal(t, 45.00, OrderTotal(items))

	assert.Equal(t, 0.0, OrderTotal(nil), "no items means zero total")
	assert.Equal(t, 0.0, OrderTotal([]models.OrderItem{}))
}

func TestFinalTotal(t *testing.T) {
	tests := []struct {
		name      string
		total     float64
		reduction *float64
		expected  float64
	}{
		{"no reduction", 100.00, nil, 100.00},
		{"reduction below total", 45.00, floatPtr(5.00), 40.00},
		{"reduction equals total", 50.00, floatPtr(50.00), 0},
		{"reduction above total floors at zero", 30.00, floatPtr(100.00), 0},
		{"zero reduction", 80.00, floatPtr(0), 80.00},
		{"zero total with reduction", 0, floatPtr(10.00), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FinalTotal(tt.total, tt.reduction))
		})
	}
}
