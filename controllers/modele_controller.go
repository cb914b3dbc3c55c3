package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/csas-cheick/collections-backend/config"
	"github.com/csas-cheick/collections-backend/models"
	"github.com/csas-cheick/collections-backend/services"
	"github.com/csas-cheick/collections-backend/utils"
)

// GetModeles handles GET /api/modeles - lists garment templates, newest first
func GetModeles(c *gin.Context) {
	db := config.GetDB()

	var modeles []models.Modele
	if err := db.Order("created_at DESC").Find(&modeles).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load modeles")
		return
	}

	respondData(c, http.StatusOK, modeles)
}

// GetModele handles GET /api/modeles/:id
func GetModele(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var modele models.Modele
	if err := db.First(&modele, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, codeNotFound, "Modele not found")
			return
		}
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load modele")
		return
	}

	respondData(c, http.StatusOK, modele)
}

// CreateModele handles POST /api/modeles - multipart form. The image is
// mandatory: a modele without a reference picture is useless to the shop,
// so an upload failure aborts the creation.
func CreateModele(c *gin.Context) {
	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil || price <= 0 {
		respondError(c, http.StatusBadRequest, codeValidation, "Price must be a number greater than 0")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, codeValidation, "An image is required")
		return
	}

	url, key, uploadErr := services.GetImageService().UploadImage(fileHeader, "modeles")
	if uploadErr != nil {
		var fileErr *utils.FileUploadError
		if errors.As(uploadErr, &fileErr) {
			respondError(c, http.StatusBadRequest, codeValidation, fileErr.Message)
			return
		}
		respondError(c, http.StatusInternalServerError, codeExternal, "Failed to upload image")
		return
	}

	modele := models.Modele{
		Price:    price,
		ImageURL: url,
		ImageKey: &key,
	}

	db := config.GetDB()
	if err := db.Create(&modele).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to create modele")
		return
	}

	respondData(c, http.StatusCreated, modele)
}

// UpdateModele handles PUT /api/modeles/:id - updates the price and/or
// replaces the image. Replacement is best-effort: when the upload fails
// the previous image is kept and the price update still goes through.
func UpdateModele(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var modele models.Modele
	if err := db.First(&modele, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, codeNotFound, "Modele not found")
			return
		}
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load modele")
		return
	}

	if rawPrice := c.PostForm("price"); rawPrice != "" {
		price, err := strconv.ParseFloat(rawPrice, 64)
		if err != nil || price <= 0 {
			respondError(c, http.StatusBadRequest, codeValidation, "Price must be a number greater than 0")
			return
		}
		modele.Price = price
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		url, key, uploadErr := services.GetImageService().UploadImage(fileHeader, "modeles")
		if uploadErr != nil {
			log.Printf("modele %d image upload failed, keeping previous image: %v", id, uploadErr)
		} else {
			if modele.ImageKey != nil {
				if delErr := services.GetImageService().DeleteImage(*modele.ImageKey); delErr != nil {
					log.Printf("failed to delete previous image for modele %d: %v", id, delErr)
				}
			}
			modele.ImageURL = url
			modele.ImageKey = &key
		}
	}

	if err := db.Save(&modele).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to update modele")
		return
	}

	respondData(c, http.StatusOK, modele)
}

// DeleteModele handles DELETE /api/modeles/:id - refused while order
// items still reference the modele, to preserve order history
func DeleteModele(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var modele models.Modele
	if err := db.First(&modele, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, codeNotFound, "Modele not found")
			return
		}
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load modele")
		return
	}

	var itemCount int64
	if err := db.Model(&models.OrderItem{}).Where("modele_id = ?", id).Count(&itemCount).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to check modele references")
		return
	}
	if itemCount > 0 {
		respondError(c, http.StatusConflict, codeConflict, "Modele is referenced by order items and cannot be deleted")
		return
	}

	if err := db.Delete(&modele).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to delete modele")
		return
	}

	if modele.ImageKey != nil {
		if delErr := services.GetImageService().DeleteImage(*modele.ImageKey); delErr != nil {
			log.Printf("failed to delete image for modele %d: %v", id, delErr)
		}
	}

	respondData(c, http.StatusOK, gin.H{"deleted": true})
}
