package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/csas-cheick/collections-backend/config"
	"github.com/csas-cheick/collections-backend/models"
)

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	EmailOrUsername string `json:"email_or_username" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

// Login handles POST /api/auth/login - verifies credentials and returns
// the user payload. No token is issued; session management lives elsewhere.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeValidation, "Email/username and password are required")
		return
	}

	db := config.GetDB()
	var user models.User
	err := db.Where("email = ? OR user_name = ?", req.EmailOrUsername, req.EmailOrUsername).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusUnauthorized, codeAuth, "User not found")
			return
		}
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to look up user")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		respondError(c, http.StatusUnauthorized, codeAuth, "Incorrect password")
		return
	}

	if user.Status == nil || !*user.Status {
		respondError(c, http.StatusForbidden, codeAuth, "Account is disabled")
		return
	}

	respondData(c, http.StatusOK, user)
}
