package controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/csas-cheick/collections-backend/config"
	"github.com/csas-cheick/collections-backend/models"
	"github.com/csas-cheick/collections-backend/services"
	"github.com/csas-cheick/collections-backend/utils"
)

// CustomerSummary is the list-view shape for customers
type CustomerSummary struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number"`
	PhotoURL    *string   `json:"photo_url"`
	HasMeasures bool      `json:"has_measures"`
	CreatedAt   time.Time `json:"created_at"`
}

// MeasureRequest carries the eight optional body measurements
type MeasureRequest struct {
	TourPoitrine     *float64 `json:"tour_poitrine" binding:"omitempty,gte=0"`
	TourHanches      *float64 `json:"tour_hanches" binding:"omitempty,gte=0"`
	LongueurManche   *float64 `json:"longueur_manche" binding:"omitempty,gte=0"`
	TourBras         *float64 `json:"tour_bras" binding:"omitempty,gte=0"`
	LongueurChemise  *float64 `json:"longueur_chemise" binding:"omitempty,gte=0"`
	LongueurPantalon *float64 `json:"longueur_pantalon" binding:"omitempty,gte=0"`
	LargeurEpaules   *float64 `json:"largeur_epaules" binding:"omitempty,gte=0"`
	TourCou          *float64 `json:"tour_cou" binding:"omitempty,gte=0"`
}

// GetCustomers handles GET /api/customers - lists customers, newest first
func GetCustomers(c *gin.Context) {
	db := config.GetDB()

	var customers []models.Customer
	if err := db.Preload("Measure").Order("created_at DESC").Find(&customers).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load customers")
		return
	}

	summaries := make([]CustomerSummary, 0, len(customers))
	for _, customer := range customers {
		summaries = append(summaries, CustomerSummary{
			ID:          customer.ID,
			Name:        customer.Name,
			PhoneNumber: customer.PhoneNumber,
			PhotoURL:    customer.PhotoURL,
			HasMeasures: customer.Measure != nil,
			CreatedAt:   customer.CreatedAt,
		})
	}

	respondData(c, http.StatusOK, summaries)
}

// GetCustomer handles GET /api/customers/:id - returns one customer with measurements
func GetCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var customer models.Customer
	if err := db.Preload("Measure").First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, codeNotFound, "Customer not found")
			return
		}
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load customer")
		return
	}

	respondData(c, http.StatusOK, customer)
}

// CreateCustomer handles POST /api/customers - multipart form with an
// optional photo file
func CreateCustomer(c *gin.Context) {
	name := c.PostForm("name")
	phoneNumber := c.PostForm("phone_number")
	if name == "" || phoneNumber == "" {
		respondError(c, http.StatusBadRequest, codeValidation, "Name and phone number are required")
		return
	}

	db := config.GetDB()

	// Uniqueness pre-check keeps the error a clean 409 instead of a driver error
	var count int64
	if err := db.Model(&models.Customer{}).Where("phone_number = ?", phoneNumber).Count(&count).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to check phone number")
		return
	}
	if count > 0 {
		respondError(c, http.StatusConflict, codeConflict, "A customer with this phone number already exists")
		return
	}

	customer := models.Customer{
		Name:        name,
		PhoneNumber: phoneNumber,
	}

	// Photo is optional, but when one is sent it must be a valid image
	if fileHeader, err := c.FormFile("photo"); err == nil {
		url, key, uploadErr := services.GetImageService().UploadImage(fileHeader, "customers")
		if uploadErr != nil {
			var fileErr *utils.FileUploadError
			if errors.As(uploadErr, &fileErr) {
				respondError(c, http.StatusBadRequest, codeValidation, fileErr.Message)
				return
			}
			respondError(c, http.StatusInternalServerError, codeExternal, "Failed to upload photo")
			return
		}
		customer.PhotoURL = &url
		customer.PhotoKey = &key
	}

	if err := db.Create(&customer).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to create customer")
		return
	}

	respondData(c, http.StatusCreated, customer)
}

// UpdateCustomer handles PUT /api/customers/:id - partial multipart update.
// A failed photo upload is logged and the rest of the update proceeds.
func UpdateCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var customer models.Customer
	if err := db.Preload("Measure").First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, codeNotFound, "Customer not found")
			return
		}
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load customer")
		return
	}

	if phoneNumber := c.PostForm("phone_number"); phoneNumber != "" && phoneNumber != customer.PhoneNumber {
		var count int64
		if err := db.Model(&models.Customer{}).
			Where("phone_number = ? AND id <> ?", phoneNumber, id).
			Count(&count).Error; err != nil {
			respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to check phone number")
			return
		}
		if count > 0 {
			respondError(c, http.StatusConflict, codeConflict, "A customer with this phone number already exists")
			return
		}
		customer.PhoneNumber = phoneNumber
	}

	if name := c.PostForm("name"); name != "" {
		customer.Name = name
	}

	// Best-effort photo replacement: an upload failure must not abort the update
	if fileHeader, err := c.FormFile("photo"); err == nil {
		url, key, uploadErr := services.GetImageService().UploadImage(fileHeader, "customers")
		if uploadErr != nil {
			log.Printf("customer %d photo upload failed, keeping previous photo: %v", id, uploadErr)
		} else {
			if customer.PhotoKey != nil {
				if delErr := services.GetImageService().DeleteImage(*customer.PhotoKey); delErr != nil {
					log.Printf("failed to delete previous photo for customer %d: %v", id, delErr)
				}
			}
			customer.PhotoURL = &url
			customer.PhotoKey = &key
		}
	}

	if err := db.Save(&customer).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to update customer")
		return
	}

	respondData(c, http.StatusOK, customer)
}

// DeleteCustomer handles DELETE /api/customers/:id - removes the customer
// and its measurements. Customers referenced by orders cannot be deleted.
func DeleteCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var customer models.Customer
	if err := db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, codeNotFound, "Customer not found")
			return
		}
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load customer")
		return
	}

	// Order history must survive: deleting a referenced customer is refused
	var orderCount int64
	if err := db.Model(&models.Order{}).Where("customer_id = ?", id).Count(&orderCount).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to check customer orders")
		return
	}
	if orderCount > 0 {
		respondError(c, http.StatusConflict, codeConflict, "Customer has orders and cannot be deleted")
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", id).Delete(&models.Measure{}).Error; err != nil {
			return err
		}
		return tx.Delete(&customer).Error
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to delete customer")
		return
	}

	if customer.PhotoKey != nil {
		if delErr := services.GetImageService().DeleteImage(*customer.PhotoKey); delErr != nil {
			log.Printf("failed to delete photo for customer %d: %v", id, delErr)
		}
	}

	respondData(c, http.StatusOK, gin.H{"deleted": true})
}

// GetCustomerMeasures handles GET /api/customers/:id/measures
func GetCustomerMeasures(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var measure models.Measure
	if err := db.Where("customer_id = ?", id).First(&measure).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, codeNotFound, "No measurements recorded for this customer")
			return
		}
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load measurements")
		return
	}

	respondData(c, http.StatusOK, measure)
}

// UpsertCustomerMeasures handles PUT /api/customers/:id/measures -
// creates the customer's measurements or replaces the existing ones
func UpsertCustomerMeasures(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req MeasureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeValidation, "Invalid measurement data: "+err.Error())
		return
	}

	db := config.GetDB()
	var customer models.Customer
	if err := db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, codeNotFound, "Customer not found")
			return
		}
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load customer")
		return
	}

	var measure models.Measure
	err := db.Where("customer_id = ?", id).First(&measure).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load measurements")
		return
	}

	measure.CustomerID = id
	measure.TourPoitrine = req.TourPoitrine
	measure.TourHanches = req.TourHanches
	measure.LongueurManche = req.LongueurManche
	measure.TourBras = req.TourBras
	measure.LongueurChemise = req.LongueurChemise
	measure.LongueurPantalon = req.LongueurPantalon
	measure.LargeurEpaules = req.LargeurEpaules
	measure.TourCou = req.TourCou

	if err := db.Save(&measure).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to save measurements")
		return
	}

	respondData(c, http.StatusOK, measure)
}

// DeleteCustomerMeasures handles DELETE /api/customers/:id/measures
func DeleteCustomerMeasures(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var measure models.Measure
	if err := db.Where("customer_id = ?", id).First(&measure).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, codeNotFound, "No measurements recorded for this customer")
			return
		}
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load measurements")
		return
	}

	if err := db.Delete(&measure).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to delete measurements")
		return
	}

	respondData(c, http.StatusOK, gin.H{"deleted": true})
}
