package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/csas-cheick/collections-backend/config"
	"github.com/csas-cheick/collections-backend/models"
	"github.com/csas-cheick/collections-backend/services"
	"github.com/csas-cheick/collections-backend/utils"
)

// GetUsers handles GET /api/users - paginated user list with optional
// search and role/status filters
func GetUsers(c *gin.Context) {
	db := config.GetDB()
	query := db.Model(&models.User{})

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(user_name) LIKE ? OR LOWER(email) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status == "true")
	}

	page, pageSize := parsePagination(c)

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to count users")
		return
	}

	var users []models.User
	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load users")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"users":       users,
		"total_count": totalCount,
		"page":        page,
		"page_size":   pageSize,
	})
}

// GetUser handles GET /api/users/:id
func GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, codeNotFound, "User not found")
			return
		}
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load user")
		return
	}

	respondData(c, http.StatusOK, user)
}

// CreateUser handles POST /api/users - multipart form with an optional
// profile picture
func CreateUser(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	userName := strings.TrimSpace(c.PostForm("user_name"))
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	role := strings.TrimSpace(c.PostForm("role"))

	if name == "" || userName == "" || email == "" || password == "" || role == "" {
		respondError(c, http.StatusBadRequest, codeValidation,
			"name, user_name, email, password and role are required")
		return
	}

	db := config.GetDB()

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to check email")
		return
	}
	if count > 0 {
		respondError(c, http.StatusConflict, codeConflict, "A user with this email already exists")
		return
	}
	if err := db.Model(&models.User{}).Where("user_name = ?", userName).Count(&count).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to check username")
		return
	}
	if count > 0 {
		respondError(c, http.StatusConflict, codeConflict, "A user with this username already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to secure password")
		return
	}

	status := c.PostForm("status") == "true"
	user := models.User{
		Name:     name,
		UserName: userName,
		Email:    email,
		Password: string(hash),
		Role:     role,
		Status:   &status,
	}
	if phone := strings.TrimSpace(c.PostForm("phone")); phone != "" {
		user.Phone = &phone
	}
	if country := strings.TrimSpace(c.PostForm("country")); country != "" {
		user.Country = &country
	}
	if city := strings.TrimSpace(c.PostForm("city")); city != "" {
		user.City = &city
	}

	if fileHeader, err := c.FormFile("picture"); err == nil {
		url, _, uploadErr := services.GetImageService().UploadImage(fileHeader, "users")
		if uploadErr != nil {
			var fileErr *utils.FileUploadError
			if errors.As(uploadErr, &fileErr) {
				respondError(c, http.StatusBadRequest, codeValidation, fileErr.Message)
				return
			}
			log.Printf("Picture upload failed for new user %s: %v", userName, uploadErr)
		} else {
			user.Picture = &url
		}
	}

	if err := db.Create(&user).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to create user")
		return
	}

	respondData(c, http.StatusCreated, user)
}

// UpdateUser handles PUT /api/users/:id - partial multipart update
func UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, codeNotFound, "User not found")
			return
		}
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load user")
		return
	}

	if email := strings.TrimSpace(c.PostForm("email")); email != "" && email != user.Email {
		var count int64
		if err := db.Model(&models.User{}).Where("email = ? AND id <> ?", email, user.ID).Count(&count).Error; err != nil {
			respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to check email")
			return
		}
		if count > 0 {
			respondError(c, http.StatusConflict, codeConflict, "A user with this email already exists")
			return
		}
		user.Email = email
	}
	if userName := strings.TrimSpace(c.PostForm("user_name")); userName != "" && userName != user.UserName {
		var count int64
		if err := db.Model(&models.User{}).Where("user_name = ? AND id <> ?", userName, user.ID).Count(&count).Error; err != nil {
			respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to check username")
			return
		}
		if count > 0 {
			respondError(c, http.StatusConflict, codeConflict, "A user with this username already exists")
			return
		}
		user.UserName = userName
	}

	if name := strings.TrimSpace(c.PostForm("name")); name != "" {
		user.Name = name
	}
	if role := strings.TrimSpace(c.PostForm("role")); role != "" {
		user.Role = role
	}
	if phone := strings.TrimSpace(c.PostForm("phone")); phone != "" {
		user.Phone = &phone
	}
	if country := strings.TrimSpace(c.PostForm("country")); country != "" {
		user.Country = &country
	}
	if city := strings.TrimSpace(c.PostForm("city")); city != "" {
		user.City = &city
	}

	if fileHeader, err := c.FormFile("picture"); err == nil {
		url, _, uploadErr := services.GetImageService().UploadImage(fileHeader, "users")
		if uploadErr != nil {
			log.Printf("Picture upload failed for user %d: %v", user.ID, uploadErr)
		} else {
			user.Picture = &url
		}
	}

	if err := db.Save(&user).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to update user")
		return
	}

	respondData(c, http.StatusOK, user)
}

// DeleteUser handles DELETE /api/users/:id
func DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, codeNotFound, "User not found")
			return
		}
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load user")
		return
	}

	if err := db.Delete(&user).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to delete user")
		return
	}

	respondData(c, http.StatusOK, gin.H{"deleted": true})
}

// ChangePassword handles PUT /api/users/:id/change-password
func ChangePassword(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeValidation, "Current and new passwords are required")
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, codeNotFound, "User not found")
			return
		}
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load user")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		respondError(c, http.StatusUnauthorized, codeAuth, "Current password is incorrect")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to secure password")
		return
	}

	if err := db.Model(&user).Update("password", string(hash)).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to change password")
		return
	}

	respondData(c, http.StatusOK, gin.H{"changed": true})
}

// ToggleUserStatus handles PATCH /api/users/:id/toggle-status
func ToggleUserStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, codeNotFound, "User not found")
			return
		}
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load user")
		return
	}

	newStatus := !(user.Status != nil && *user.Status)
	user.Status = &newStatus
	if err := db.Model(&user).Update("status", newStatus).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to update user status")
		return
	}

	respondData(c, http.StatusOK, user)
}

// CheckEmail handles GET /api/users/check-email/:email
func CheckEmail(c *gin.Context) {
	email := c.Param("email")

	db := config.GetDB()
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to check email")
		return
	}

	respondData(c, http.StatusOK, gin.H{"exists": count > 0})
}

// CheckUsername handles GET /api/users/check-username/:username
func CheckUsername(c *gin.Context) {
	username := c.Param("username")

	db := config.GetDB()
	var count int64
	if err := db.Model(&models.User{}).Where("user_name = ?", username).Count(&count).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to check username")
		return
	}

	respondData(c, http.StatusOK, gin.H{"exists": count > 0})
}
