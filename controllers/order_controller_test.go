package controllers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/csas-cheick/collections-backend/models"
)

func orderRoutes(router *gin.Engine) {
	router.GET("/orders", GetOrders)
	router.POST("/orders", CreateOrder)
	router.GET("/orders/appointments", GetOrdersWithAppointments)
	router.POST("/orders/calculate-total", CalculateOrderTotal)
	router.POST("/orders/calculate-final-total", CalculateFinalTotal)
	router.GET("/orders/customer/:id", GetOrdersByCustomer)
	router.GET("/orders/status/:status", GetOrdersByStatus)
	router.GET("/orders/items/:id", GetOrderItem)
	router.PUT("/orders/items/:id", UpdateOrderItem)
	router.DELETE("/orders/items/:id", DeleteOrderItem)
	router.GET("/orders/:id", GetOrder)
	router.PUT("/orders/:id", UpdateOrder)
	router.DELETE("/orders/:id", DeleteOrder)
	router.PATCH("/orders/:id/status", UpdateOrderStatus)
	router.POST("/orders/:id/items", AddOrderItem)
}

func seedOrderFixtures(t *testing.T, db *gorm.DB) (models.Customer, models.Modele, models.Modele) {
	t.Helper()

	customer := models.Customer{Name: "Moussa Traore", PhoneNumber: "+223 70 10 20 30"}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("Failed to seed customer: %v", err)
	}
	chemise := models.Modele{Price: 10.00, ImageURL: "https://example.com/chemise.png"}
	if err := db.Create(&chemise).Error; err != nil {
		t.Fatalf("Failed to seed modele: %v", err)
	}
	boubou := models.Modele{Price: 25.00, ImageURL: "https://example.com/boubou.png"}
	if err := db.Create(&boubou).Error; err != nil {
		t.Fatalf("Failed to seed modele: %v", err)
	}
	return customer, chemise, boubou
}

func TestCreateOrder(t *testing.T) {
	db := setupTestDB(t)
	customer, chemise, boubou := seedOrderFixtures(t, db)

	router := setupTestRouter()
	orderRoutes(router)

	t.Run("computes totals from snapshot prices", func(t *testing.T) {
		w, response := performJSON(t, router, http.MethodPost, "/orders", map[string]interface{}{
			"customer_id": customer.ID,
			"reduction":   5.0,
			"items": []map[string]interface{}{
				{"modele_id": chemise.ID, "type_tissu": "Bazin", "couleur": "Blanc", "quantite": 2},
				{"modele_id": boubou.ID, "type_tissu": "Wax", "couleur": "Vert", "quantite": 1},
			},
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		data := responseData(t, response)
		assert.Equal(t, 45.0, data["total"])
		assert.Equal(t, 40.0, data["total_final"])
		assert.Equal(t, models.DefaultOrderStatus, data["statut"])

		items := data["items"].([]interface{})
		assert.Len(t, items, 2)
		first := items[0].(map[string]interface{})
		assert.Equal(t, 10.0, first["prix_unitaire"])
	})

	t.Run("modele price change does not reprice existing order", func(t *testing.T) {
		db.Model(&models.Modele{}).Where("id = ?", chemise.ID).Update("price", 99.0)

		w, response := performJSON(t, router, http.MethodGet, "/orders/1", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		data := responseData(t, response)
		assert.Equal(t, 45.0, data["total"])
	})

	t.Run("accepts custom model line", func(t *testing.T) {
		w, response := performJSON(t, router, http.MethodPost, "/orders", map[string]interface{}{
			"customer_id": customer.ID,
			"items": []map[string]interface{}{
				{
					"is_custom_model":    true,
					"custom_model_name":  "Veste sur mesure",
					"custom_model_price": 50.0,
					"type_tissu":         "Lin",
					"couleur":            "Noir",
					"quantite":           1,
				},
			},
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		data := responseData(t, response)
		assert.Equal(t, 50.0, data["total"])
		assert.Equal(t, 50.0, data["total_final"])
	})

	t.Run("rejects unknown customer", func(t *testing.T) {
		w, response := performJSON(t, router, http.MethodPost, "/orders", map[string]interface{}{
			"customer_id": 999,
			"items": []map[string]interface{}{
				{"modele_id": boubou.ID, "type_tissu": "Wax", "couleur": "Vert", "quantite": 1},
			},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, response))
	})

	t.Run("rejects unknown modele", func(t *testing.T) {
		w, response := performJSON(t, router, http.MethodPost, "/orders", map[string]interface{}{
			"customer_id": customer.ID,
			"items": []map[string]interface{}{
				{"modele_id": 999, "type_tissu": "Wax", "couleur": "Vert", "quantite": 1},
			},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, response))
	})

	t.Run("rejects empty items", func(t *testing.T) {
		w, response := performJSON(t, router, http.MethodPost, "/orders", map[string]interface{}{
			"customer_id": customer.ID,
			"items":       []map[string]interface{}{},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, response))
	})

	t.Run("rejects custom line without price", func(t *testing.T) {
		w, response := performJSON(t, router, http.MethodPost, "/orders", map[string]interface{}{
			"customer_id": customer.ID,
			"items": []map[string]interface{}{
				{"is_custom_model": true, "type_tissu": "Lin", "couleur": "Noir", "quantite": 1},
			},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, response))
	})
}

func TestUpdateOrder(t *testing.T) {
	db := setupTestDB(t)
	customer, chemise, boubou := seedOrderFixtures(t, db)

	router := setupTestRouter()
	orderRoutes(router)

	_, response := performJSON(t, router, http.MethodPost, "/orders", map[string]interface{}{
		"customer_id": customer.ID,
		"items": []map[string]interface{}{
			{"modele_id": chemise.ID, "type_tissu": "Bazin", "couleur": "Blanc", "quantite": 2},
		},
	})
	orderID := responseData(t, response)["id"].(float64)

	t.Run("reduction change recomputes final total", func(t *testing.T) {
		w, response := performJSON(t, router, http.MethodPut, fmt.Sprintf("/orders/%.0f", orderID), map[string]interface{}{
			"reduction": 30.0,
		})

		assert.Equal(t, http.StatusOK, w.Code)
		data := responseData(t, response)
		assert.Equal(t, 20.0, data["total"])
		assert.Equal(t, 0.0, data["total_final"])
	})

	t.Run("replacing items recomputes totals", func(t *testing.T) {
		w, response := performJSON(t, router, http.MethodPut, fmt.Sprintf("/orders/%.0f", orderID), map[string]interface{}{
			"reduction": 0.0,
			"items": []map[string]interface{}{
				{"modele_id": boubou.ID, "type_tissu": "Wax", "couleur": "Rouge", "quantite": 3},
			},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		data := responseData(t, response)
		assert.Equal(t, 75.0, data["total"])
		assert.Equal(t, 75.0, data["total_final"])
		assert.Len(t, data["items"].([]interface{}), 1)
	})
}

func TestOrderItems(t *testing.T) {
	db := setupTestDB(t)
	customer, chemise, boubou := seedOrderFixtures(t, db)

	router := setupTestRouter()
	orderRoutes(router)

	_, response := performJSON(t, router, http.MethodPost, "/orders", map[string]interface{}{
		"customer_id": customer.ID,
		"items": []map[string]interface{}{
			{"modele_id": chemise.ID, "type_tissu": "Bazin", "couleur": "Blanc", "quantite": 2},
		},
	})
	data := responseData(t, response)
	itemID := data["items"].([]interface{})[0].(map[string]interface{})["id"].(float64)

	t.Run("adding an item recomputes totals once", func(t *testing.T) {
		w, _ := performJSON(t, router, http.MethodPost, "/orders/1/items", map[string]interface{}{
			"modele_id":  boubou.ID,
			"type_tissu": "Wax",
			"couleur":    "Vert",
			"quantite":   1,
		})
		assert.Equal(t, http.StatusCreated, w.Code)

		var order models.Order
		db.First(&order, 1)
		assert.Equal(t, 45.0, order.Total)
		assert.Equal(t, 45.0, order.TotalFinal)
	})

	t.Run("updating quantity recomputes totals", func(t *testing.T) {
		w, _ := performJSON(t, router, http.MethodPut, fmt.Sprintf("/orders/items/%.0f", itemID), map[string]interface{}{
			"quantite": 3,
		})
		assert.Equal(t, http.StatusOK, w.Code)

		var order models.Order
		db.First(&order, 1)
		assert.Equal(t, 55.0, order.Total)
	})

	t.Run("deleting an item removes its contribution", func(t *testing.T) {
		w, _ := performJSON(t, router, http.MethodDelete, fmt.Sprintf("/orders/items/%.0f", itemID), nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var order models.Order
		db.First(&order, 1)
		assert.Equal(t, 25.0, order.Total)
		assert.Equal(t, 25.0, order.TotalFinal)
	})

	t.Run("404 for unknown item", func(t *testing.T) {
		w, response := performJSON(t, router, http.MethodGet, "/orders/items/999", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "NOT_FOUND", errorCode(t, response))
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	db := setupTestDB(t)
	customer, chemise, _ := seedOrderFixtures(t, db)

	router := setupTestRouter()
	orderRoutes(router)

	_, _ = performJSON(t, router, http.MethodPost, "/orders", map[string]interface{}{
		"customer_id": customer.ID,
		"items": []map[string]interface{}{
			{"modele_id": chemise.ID, "type_tissu": "Bazin", "couleur": "Blanc", "quantite": 1},
		},
	})

	t.Run("updates to arbitrary status", func(t *testing.T) {
		w, response := performJSON(t, router, http.MethodPatch, "/orders/1/status", map[string]interface{}{
			"statut": "Termine",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Termine", responseData(t, response)["statut"])
	})

	t.Run("rejects missing statut", func(t *testing.T) {
		w, response := performJSON(t, router, http.MethodPatch, "/orders/1/status", map[string]interface{}{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, response))
	})
}

func TestOrderQueries(t *testing.T) {
	db := setupTestDB(t)
	customer, chemise, _ := seedOrderFixtures(t, db)
	other := models.Customer{Name: "Autre Client", PhoneNumber: "+223 70 99 99 99"}
	db.Create(&other)

	appointment := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	db.Create(&models.Order{
		CustomerID: customer.ID, DateCommande: time.Now(),
		DateRendezVous: &appointment, Statut: "En cours",
	})
	db.Create(&models.Order{CustomerID: other.ID, DateCommande: time.Now(), Statut: "Termine"})
	_ = chemise

	router := setupTestRouter()
	orderRoutes(router)

	t.Run("filters by customer", func(t *testing.T) {
		w, response := performJSON(t, router, http.MethodGet, fmt.Sprintf("/orders/customer/%d", customer.ID), nil)
		assert.Equal(t, http.StatusOK, w.Code)

		list := response["data"].([]interface{})
		assert.Len(t, list, 1)
		entry := list[0].(map[string]interface{})
		assert.Equal(t, "Moussa Traore", entry["customer_name"])
	})

	t.Run("filters by status", func(t *testing.T) {
		w, response := performJSON(t, router, http.MethodGet, "/orders/status/Termine", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, response["data"].([]interface{}), 1)
	})

	t.Run("lists only orders with appointments", func(t *testing.T) {
		w, response := performJSON(t, router, http.MethodGet, "/orders/appointments", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		list := response["data"].([]interface{})
		assert.Len(t, list, 1)
		entry := list[0].(map[string]interface{})
		assert.NotNil(t, entry["date_rendez_vous"])
	})
}

func TestCalculateEndpoints(t *testing.T) {
	db := setupTestDB(t)
	_, chemise, boubou := seedOrderFixtures(t, db)

	router := setupTestRouter()
	orderRoutes(router)

	t.Run("calculate-total prices without persisting", func(t *testing.T) {
		w, response := performJSON(t, router, http.MethodPost, "/orders/calculate-total", map[string]interface{}{
			"items": []map[string]interface{}{
				{"modele_id": chemise.ID, "type_tissu": "Bazin", "couleur": "Blanc", "quantite": 2},
				{"modele_id": boubou.ID, "type_tissu": "Wax", "couleur": "Vert", "quantite": 1},
			},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 45.0, responseData(t, response)["total"])

		var count int64
		db.Model(&models.Order{}).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("calculate-final-total floors at zero", func(t *testing.T) {
		w, response := performJSON(t, router, http.MethodPost, "/orders/calculate-final-total", map[string]interface{}{
			"total":     30.0,
			"reduction": 50.0,
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 0.0, responseData(t, response)["total_final"])
	})
}

func TestDeleteOrder(t *testing.T) {
	db := setupTestDB(t)
	customer, chemise, _ := seedOrderFixtures(t, db)

	router := setupTestRouter()
	orderRoutes(router)

	_, _ = performJSON(t, router, http.MethodPost, "/orders", map[string]interface{}{
		"customer_id": customer.ID,
		"items": []map[string]interface{}{
			{"modele_id": chemise.ID, "type_tissu": "Bazin", "couleur": "Blanc", "quantite": 1},
		},
	})

	w, _ := performJSON(t, router, http.MethodDelete, "/orders/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var itemCount int64
	db.Model(&models.OrderItem{}).Count(&itemCount)
	assert.Equal(t, int64(0), itemCount)
}
