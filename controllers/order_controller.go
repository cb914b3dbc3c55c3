package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/csas-cheick/collections-backend/config"
	"github.com/csas-cheick/collections-backend/models"
	"github.com/csas-cheick/collections-backend/services"
)

// OrderItemRequest represents one order line in a create/update payload.
// Either modele_id references an existing modele, or is_custom_model is
// set and the line carries its own name and price.
type OrderItemRequest struct {
	ModeleID         *uint    `json:"modele_id"`
	IsCustomModel    bool     `json:"is_custom_model"`
	CustomModelName  *string  `json:"custom_model_name" binding:"omitempty,max=200"`
	CustomModelPrice *float64 `json:"custom_model_price" binding:"omitempty,gt=0"`
	TypeTissu        string   `json:"type_tissu" binding:"required,max=100"`
	Couleur          string   `json:"couleur" binding:"required,max=100"`
	Quantite         int      `json:"quantite" binding:"required,gt=0"`
	Notes            *string  `json:"notes" binding:"omitempty,max=300"`
}

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	CustomerID     uint               `json:"customer_id" binding:"required"`
	DateCommande   *time.Time         `json:"date_commande"`
	DateRendezVous *time.Time         `json:"date_rendez_vous"`
	Statut         string             `json:"statut" binding:"omitempty,max=20"`
	Notes          *string            `json:"notes" binding:"omitempty,max=500"`
	Reduction      *float64           `json:"reduction" binding:"omitempty,gte=0"`
	Items          []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderRequest represents the request body for updating an order.
// When items are present they replace the existing lines entirely.
type UpdateOrderRequest struct {
	CustomerID     *uint               `json:"customer_id"`
	DateCommande   *time.Time          `json:"date_commande"`
	DateRendezVous *time.Time          `json:"date_rendez_vous"`
	Statut         *string             `json:"statut" binding:"omitempty,max=20"`
	Notes          *string             `json:"notes" binding:"omitempty,max=500"`
	Reduction      *float64            `json:"reduction" binding:"omitempty,gte=0"`
	Items          *[]OrderItemRequest `json:"items" binding:"omitempty,dive"`
}

// UpdateOrderItemRequest represents a partial order-line update
type UpdateOrderItemRequest struct {
	ModeleID  *uint   `json:"modele_id"`
	TypeTissu *string `json:"type_tissu" binding:"omitempty,max=100"`
	Couleur   *string `json:"couleur" binding:"omitempty,max=100"`
	Quantite  *int    `json:"quantite" binding:"omitempty,gt=0"`
	Notes     *string `json:"notes" binding:"omitempty,max=300"`
}

// OrderSummary is the list-view shape for orders
type OrderSummary struct {
	ID             uint       `json:"id"`
	CustomerID     uint       `json:"customer_id"`
	CustomerName   string     `json:"customer_name"`
	DateCommande   time.Time  `json:"date_commande"`
	DateRendezVous *time.Time `json:"date_rendez_vous"`
	Total          float64    `json:"total"`
	Reduction      *float64   `json:"reduction"`
	TotalFinal     float64    `json:"total_final"`
	Statut         string     `json:"statut"`
	NombreItems    int        `json:"nombre_items"`
	CreatedAt      time.Time  `json:"created_at"`
}

// resolveOrderItem turns a request line into a persistable item, pricing
// it from the referenced modele or from the custom model price. The
// unit price is a snapshot: later modele price changes never re-price
// existing lines.
func resolveOrderItem(db *gorm.DB, req OrderItemRequest) (models.OrderItem, error) {
	item := models.OrderItem{
		TypeTissu: req.TypeTissu,
		Couleur:   req.Couleur,
		Quantite:  req.Quantite,
		Notes:     req.Notes,
	}

	if req.IsCustomModel {
		if req.CustomModelPrice == nil {
			return item, fmt.Errorf("custom model lines require a custom_model_price")
		}
		item.IsCustomModel = true
		item.CustomModelName = req.CustomModelName
		item.CustomModelPrice = req.CustomModelPrice
		item.PrixUnitaire = *req.CustomModelPrice
		return item, nil
	}

	if req.ModeleID == nil {
		return item, fmt.Errorf("order lines require a modele_id or a custom model")
	}

	var modele models.Modele
	if err := db.First(&modele, *req.ModeleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item, fmt.Errorf("modele %d not found", *req.ModeleID)
		}
		return item, err
	}

	item.ModeleID = req.ModeleID
	item.PrixUnitaire = modele.Price
	return item, nil
}

// recomputeOrderTotals reloads the order's lines and rewrites total and
// total_final. TotalFinal is always derived from total and reduction,
// never written independently.
func recomputeOrderTotals(tx *gorm.DB, order *models.Order) error {
	var items []models.OrderItem
	if err := tx.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
		return err
	}

	order.Total = services.OrderTotal(items)
	order.TotalFinal = services.FinalTotal(order.Total, order.Reduction)
	return tx.Model(order).Updates(map[string]interface{}{
		"total":       order.Total,
		"total_final": order.TotalFinal,
	}).Error
}

// customerNames maps the orders' customer ids to names with one query
func customerNames(db *gorm.DB, orders []models.Order) (map[uint]string, error) {
	ids := make([]uint, 0, len(orders))
	seen := make(map[uint]bool)
	for _, order := range orders {
		if !seen[order.CustomerID] {
			seen[order.CustomerID] = true
			ids = append(ids, order.CustomerID)
		}
	}

	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var customers []models.Customer
	if err := db.Where("id IN ?", ids).Find(&customers).Error; err != nil {
		return nil, err
	}
	for _, customer := range customers {
		names[customer.ID] = customer.Name
	}
	return names, nil
}

func toOrderSummaries(db *gorm.DB, orders []models.Order) ([]OrderSummary, error) {
	names, err := customerNames(db, orders)
	if err != nil {
		return nil, err
	}

	summaries := make([]OrderSummary, 0, len(orders))
	for _, order := range orders {
		summaries = append(summaries, OrderSummary{
			ID:             order.ID,
			CustomerID:     order.CustomerID,
			CustomerName:   names[order.CustomerID],
			DateCommande:   order.DateCommande,
			DateRendezVous: order.DateRendezVous,
			Total:          order.Total,
			Reduction:      order.Reduction,
			TotalFinal:     order.TotalFinal,
			Statut:         order.Statut,
			NombreItems:    len(order.Items),
			CreatedAt:      order.CreatedAt,
		})
	}
	return summaries, nil
}

// GetOrders handles GET /api/orders - lists orders, newest first
func GetOrders(c *gin.Context) {
	db := config.GetDB()

	var orders []models.Order
	if err := db.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load orders")
		return
	}

	summaries, err := toOrderSummaries(db, orders)
	if err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load order customers")
		return
	}

	respondData(c, http.StatusOK, summaries)
}

// GetOrder handles GET /api/orders/:id - returns one order with its lines
func GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, codeNotFound, "Order not found")
			return
		}
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load order")
		return
	}

	respondData(c, http.StatusOK, order)
}

// CreateOrder handles POST /api/orders - creates an order with its lines
// and computes the totals
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeValidation, "Invalid order data: "+err.Error())
		return
	}

	db := config.GetDB()

	var customer models.Customer
	if err := db.First(&customer, req.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusBadRequest, codeValidation, "Customer not found")
			return
		}
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load customer")
		return
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, itemReq := range req.Items {
		item, err := resolveOrderItem(db, itemReq)
		if err != nil {
			respondError(c, http.StatusBadRequest, codeValidation, err.Error())
			return
		}
		items = append(items, item)
	}

	dateCommande := time.Now()
	if req.DateCommande != nil {
		dateCommande = *req.DateCommande
	}
	statut := req.Statut
	if statut == "" {
		statut = models.DefaultOrderStatus
	}

	total := services.OrderTotal(items)
	order := models.Order{
		CustomerID:     req.CustomerID,
		DateCommande:   dateCommande,
		DateRendezVous: req.DateRendezVous,
		Total:          total,
		Reduction:      req.Reduction,
		TotalFinal:     services.FinalTotal(total, req.Reduction),
		Statut:         statut,
		Notes:          req.Notes,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to create order")
		return
	}

	order.Items = items
	respondData(c, http.StatusCreated, order)
}

// UpdateOrder handles PUT /api/orders/:id - partial update; when lines
// are sent they replace the existing ones and totals are recomputed
func UpdateOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeValidation, "Invalid order data: "+err.Error())
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, codeNotFound, "Order not found")
			return
		}
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load order")
		return
	}

	if req.CustomerID != nil {
		var customer models.Customer
		if err := db.First(&customer, *req.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondError(c, http.StatusBadRequest, codeValidation, "Customer not found")
				return
			}
			respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load customer")
			return
		}
		order.CustomerID = *req.CustomerID
	}

	if req.DateCommande != nil {
		order.DateCommande = *req.DateCommande
	}
	if req.DateRendezVous != nil {
		order.DateRendezVous = req.DateRendezVous
	}
	if req.Statut != nil && *req.Statut != "" {
		order.Statut = *req.Statut
	}
	if req.Notes != nil {
		order.Notes = req.Notes
	}
	if req.Reduction != nil {
		order.Reduction = req.Reduction
	}

	var newItems []models.OrderItem
	if req.Items != nil {
		for _, itemReq := range *req.Items {
			item, err := resolveOrderItem(db, itemReq)
			if err != nil {
				respondError(c, http.StatusBadRequest, codeValidation, err.Error())
				return
			}
			item.OrderID = order.ID
			newItems = append(newItems, item)
		}
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if req.Items != nil {
			if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			if len(newItems) > 0 {
				if err := tx.Create(&newItems).Error; err != nil {
					return err
				}
			}
			order.Total = services.OrderTotal(newItems)
		}

		order.TotalFinal = services.FinalTotal(order.Total, order.Reduction)
		order.Items = nil
		return tx.Save(&order).Error
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to update order")
		return
	}

	if err := db.Preload("Items").First(&order, order.ID).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to reload order")
		return
	}

	respondData(c, http.StatusOK, order)
}

// DeleteOrder handles DELETE /api/orders/:id - removes the order and its lines
func DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, codeNotFound, "Order not found")
			return
		}
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load order")
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to delete order")
		return
	}

	respondData(c, http.StatusOK, gin.H{"deleted": true})
}

// CalculateOrderTotal handles POST /api/orders/calculate-total - prices a
// set of lines without persisting anything
func CalculateOrderTotal(c *gin.Context) {
	var req struct {
		Items []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeValidation, "Invalid items: "+err.Error())
		return
	}

	db := config.GetDB()
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, itemReq := range req.Items {
		item, err := resolveOrderItem(db, itemReq)
		if err != nil {
			respondError(c, http.StatusBadRequest, codeValidation, err.Error())
			return
		}
		items = append(items, item)
	}

	respondData(c, http.StatusOK, gin.H{"total": services.OrderTotal(items)})
}

// CalculateFinalTotal handles POST /api/orders/calculate-final-total
func CalculateFinalTotal(c *gin.Context) {
	var req struct {
		Total     float64  `json:"total" binding:"gte=0"`
		Reduction *float64 `json:"reduction" binding:"omitempty,gte=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeValidation, "Invalid totals: "+err.Error())
		return
	}

	respondData(c, http.StatusOK, gin.H{"total_final": services.FinalTotal(req.Total, req.Reduction)})
}

// GetOrdersByCustomer handles GET /api/orders/customer/:id
func GetOrdersByCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var orders []models.Order
	if err := db.Preload("Items").Where("customer_id = ?", id).Order("created_at DESC").Find(&orders).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load orders")
		return
	}

	summaries, err := toOrderSummaries(db, orders)
	if err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load order customers")
		return
	}

	respondData(c, http.StatusOK, summaries)
}

// GetOrdersByStatus handles GET /api/orders/status/:status
func GetOrdersByStatus(c *gin.Context) {
	status := c.Param("status")

	db := config.GetDB()
	var orders []models.Order
	if err := db.Preload("Items").Where("statut = ?", status).Order("created_at DESC").Find(&orders).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load orders")
		return
	}

	summaries, err := toOrderSummaries(db, orders)
	if err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load order customers")
		return
	}

	respondData(c, http.StatusOK, summaries)
}

// UpdateOrderStatus handles PATCH /api/orders/:id/status. Statuses are
// free-form strings; any value may follow any other.
func UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Statut string `json:"statut" binding:"required,max=20"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeValidation, "Statut is required")
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, codeNotFound, "Order not found")
			return
		}
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load order")
		return
	}

	order.Statut = req.Statut
	if err := db.Save(&order).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to update order status")
		return
	}

	respondData(c, http.StatusOK, order)
}

// GetOrdersWithAppointments handles GET /api/orders/appointments - lists
// orders that have an appointment date, optionally bounded, sorted by
// appointment date
func GetOrdersWithAppointments(c *gin.Context) {
	start, ok := parseDateQuery(c, "start")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "end")
	if !ok {
		return
	}

	db := config.GetDB()
	query := db.Preload("Items").Where("date_rendez_vous IS NOT NULL")
	if start != nil {
		query = query.Where("date_rendez_vous >= ?", *start)
	}
	if end != nil {
		query = query.Where("date_rendez_vous <= ?", *end)
	}

	var orders []models.Order
	if err := query.Order("date_rendez_vous ASC").Find(&orders).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load appointments")
		return
	}

	summaries, err := toOrderSummaries(db, orders)
	if err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load order customers")
		return
	}

	respondData(c, http.StatusOK, summaries)
}

// GetOrderItem handles GET /api/orders/items/:id
func GetOrderItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var item models.OrderItem
	if err := db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, codeNotFound, "Order item not found")
			return
		}
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load order item")
		return
	}

	respondData(c, http.StatusOK, item)
}

// AddOrderItem handles POST /api/orders/:id/items - adds a line to an
// existing order and recomputes its totals
func AddOrderItem(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req OrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeValidation, "Invalid item data: "+err.Error())
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, codeNotFound, "Order not found")
			return
		}
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load order")
		return
	}

	item, err := resolveOrderItem(db, req)
	if err != nil {
		respondError(c, http.StatusBadRequest, codeValidation, err.Error())
		return
	}
	item.OrderID = order.ID

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		return recomputeOrderTotals(tx, &order)
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to add order item")
		return
	}

	respondData(c, http.StatusCreated, item)
}

// UpdateOrderItem handles PUT /api/orders/items/:id - partial line update;
// switching the modele re-snapshots the unit price
func UpdateOrderItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeValidation, "Invalid item data: "+err.Error())
		return
	}

	db := config.GetDB()
	var item models.OrderItem
	if err := db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, codeNotFound, "Order item not found")
			return
		}
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load order item")
		return
	}

	if req.ModeleID != nil {
		var modele models.Modele
		if err := db.First(&modele, *req.ModeleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondError(c, http.StatusBadRequest, codeValidation, "Modele not found")
				return
			}
			respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load modele")
			return
		}
		item.ModeleID = req.ModeleID
		item.IsCustomModel = false
		item.CustomModelName = nil
		item.CustomModelPrice = nil
		item.PrixUnitaire = modele.Price
	}
	if req.TypeTissu != nil && *req.TypeTissu != "" {
		item.TypeTissu = *req.TypeTissu
	}
	if req.Couleur != nil && *req.Couleur != "" {
		item.Couleur = *req.Couleur
	}
	if req.Quantite != nil {
		item.Quantite = *req.Quantite
	}
	if req.Notes != nil {
		item.Notes = req.Notes
	}

	var order models.Order
	if err := db.First(&order, item.OrderID).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load parent order")
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		return recomputeOrderTotals(tx, &order)
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to update order item")
		return
	}

	respondData(c, http.StatusOK, item)
}

// DeleteOrderItem handles DELETE /api/orders/items/:id - removes the line
// and recomputes the parent totals without its contribution
func DeleteOrderItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var item models.OrderItem
	if err := db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, codeNotFound, "Order item not found")
			return
		}
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load order item")
		return
	}

	var order models.Order
	if err := db.First(&order, item.OrderID).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load parent order")
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		return recomputeOrderTotals(tx, &order)
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to delete order item")
		return
	}

	respondData(c, http.StatusOK, gin.H{"deleted": true})
}
