package controllers

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/csas-cheick/collections-backend/config"
	"github.com/csas-cheick/collections-backend/models"
	"github.com/csas-cheick/collections-backend/services"
)

// CreateTransactionRequest represents the request body for recording a
// cash movement
type CreateTransactionRequest struct {
	Montant         float64    `json:"montant" binding:"required,gt=0"`
	Type            string     `json:"type" binding:"required,oneof=ENTREE SORTIE"`
	Description     string     `json:"description" binding:"required,max=500"`
	Categorie       *string    `json:"categorie" binding:"omitempty,max=100"`
	ModePaiement    *string    `json:"mode_paiement"`
	DateTransaction *time.Time `json:"date_transaction"`
	UserID          *uint      `json:"user_id"`
	Notes           *string    `json:"notes" binding:"omitempty,max=1000"`
}

// UpdateTransactionRequest represents a partial transaction update
type UpdateTransactionRequest struct {
	Montant         *float64   `json:"montant" binding:"omitempty,gt=0"`
	Type            *string    `json:"type" binding:"omitempty,oneof=ENTREE SORTIE"`
	Description     *string    `json:"description" binding:"omitempty,max=500"`
	Categorie       *string    `json:"categorie" binding:"omitempty,max=100"`
	ModePaiement    *string    `json:"mode_paiement"`
	DateTransaction *time.Time `json:"date_transaction"`
	Notes           *string    `json:"notes" binding:"omitempty,max=1000"`
}

var transactionSortColumns = map[string]string{
	"montant":          "montant",
	"type":             "type",
	"description":      "description",
	"date_transaction": "date_transaction",
}

// applyTransactionFilters builds the WHERE clause shared by the list and
// statistics endpoints from the request's query string
func applyTransactionFilters(c *gin.Context, query *gorm.DB) (*gorm.DB, bool) {
	if txType := c.Query("type"); txType != "" {
		query = query.Where("type = ?", txType)
	}
	if categorie := c.Query("categorie"); categorie != "" {
		query = query.Where("categorie = ?", categorie)
	}
	if mode := c.Query("mode_paiement"); mode != "" {
		query = query.Where("mode_paiement = ?", mode)
	}

	dateDebut, ok := parseDateQuery(c, "date_debut")
	if !ok {
		return nil, false
	}
	if dateDebut != nil {
		query = query.Where("date_transaction >= ?", *dateDebut)
	}
	dateFin, ok := parseDateQuery(c, "date_fin")
	if !ok {
		return nil, false
	}
	if dateFin != nil {
		query = query.Where("date_transaction <= ?", *dateFin)
	}

	if raw := c.Query("montant_min"); raw != "" {
		min, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(c, http.StatusBadRequest, codeValidation, "Invalid montant_min")
			return nil, false
		}
		query = query.Where("montant >= ?", min)
	}
	if raw := c.Query("montant_max"); raw != "" {
		max, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(c, http.StatusBadRequest, codeValidation, "Invalid montant_max")
			return nil, false
		}
		query = query.Where("montant <= ?", max)
	}

	if search := strings.TrimSpace(c.Query("recherche")); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(description) LIKE ? OR LOWER(notes) LIKE ?", pattern, pattern)
	}

	return query, true
}

// GetTransactions handles GET /api/transactions - filterable, sortable,
// paginated transaction list
func GetTransactions(c *gin.Context) {
	db := config.GetDB()

	query, ok := applyTransactionFilters(c, db.Model(&models.Transaction{}))
	if !ok {
		return
	}

	sortBy := c.DefaultQuery("sort_by", "date_transaction")
	column, known := transactionSortColumns[sortBy]
	if !known {
		respondError(c, http.StatusBadRequest, codeValidation, "Invalid sort_by field")
		return
	}
	direction := "DESC"
	if strings.EqualFold(c.DefaultQuery("sort_order", "desc"), "asc") {
		direction = "ASC"
	}

	page, pageSize := parsePagination(c)

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to count transactions")
		return
	}

	var transactions []models.Transaction
	err := query.Order(column + " " + direction).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&transactions).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load transactions")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"transactions": transactions,
		"total_count":  totalCount,
		"page":         page,
		"page_size":    pageSize,
	})
}

// GetTransaction handles GET /api/transactions/:id
func GetTransaction(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var transaction models.Transaction
	if err := db.First(&transaction, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, codeNotFound, "Transaction not found")
			return
		}
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load transaction")
		return
	}

	respondData(c, http.StatusOK, transaction)
}

// CreateTransaction handles POST /api/transactions
func CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeValidation, "Invalid transaction data: "+err.Error())
		return
	}

	if req.ModePaiement != nil && !models.IsValidPaymentMode(*req.ModePaiement) {
		respondError(c, http.StatusBadRequest, codeValidation, "Invalid payment mode")
		return
	}

	dateTransaction := time.Now()
	if req.DateTransaction != nil {
		dateTransaction = *req.DateTransaction
	}

	transaction := models.Transaction{
		Montant:         req.Montant,
		Type:            req.Type,
		Description:     req.Description,
		Categorie:       req.Categorie,
		ModePaiement:    req.ModePaiement,
		DateTransaction: dateTransaction,
		UserID:          req.UserID,
		Notes:           req.Notes,
	}

	db := config.GetDB()
	if err := db.Create(&transaction).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to create transaction")
		return
	}

	respondData(c, http.StatusCreated, transaction)
}

// UpdateTransaction handles PUT /api/transactions/:id - partial update
func UpdateTransaction(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeValidation, "Invalid transaction data: "+err.Error())
		return
	}

	if req.ModePaiement != nil && *req.ModePaiement != "" && !models.IsValidPaymentMode(*req.ModePaiement) {
		respondError(c, http.StatusBadRequest, codeValidation, "Invalid payment mode")
		return
	}

	db := config.GetDB()
	var transaction models.Transaction
	if err := db.First(&transaction, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, codeNotFound, "Transaction not found")
			return
		}
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load transaction")
		return
	}

	if req.Montant != nil {
		transaction.Montant = *req.Montant
	}
	if req.Type != nil {
		transaction.Type = *req.Type
	}
	if req.Description != nil && *req.Description != "" {
		transaction.Description = *req.Description
	}
	if req.Categorie != nil {
		transaction.Categorie = req.Categorie
	}
	if req.ModePaiement != nil {
		transaction.ModePaiement = req.ModePaiement
	}
	if req.DateTransaction != nil {
		transaction.DateTransaction = *req.DateTransaction
	}
	if req.Notes != nil {
		transaction.Notes = req.Notes
	}

	if err := db.Save(&transaction).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to update transaction")
		return
	}

	respondData(c, http.StatusOK, transaction)
}

// DeleteTransaction handles DELETE /api/transactions/:id
func DeleteTransaction(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var transaction models.Transaction
	if err := db.First(&transaction, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, codeNotFound, "Transaction not found")
			return
		}
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load transaction")
		return
	}

	if err := db.Delete(&transaction).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to delete transaction")
		return
	}

	respondData(c, http.StatusOK, gin.H{"deleted": true})
}

// statisticsPeriod resolves the period echoed by the statistics
// endpoint. Missing bounds fall back to the earliest and latest
// transaction dates in the set, and to the current time when the set
// is empty.
func statisticsPeriod(transactions []models.Transaction, dateDebut, dateFin *time.Time) (time.Time, time.Time) {
	now := time.Now()
	debut, fin := now, now
	if len(transactions) > 0 {
		debut = transactions[0].DateTransaction
		fin = transactions[0].DateTransaction
		for _, tx := range transactions[1:] {
			if tx.DateTransaction.Before(debut) {
				debut = tx.DateTransaction
			}
			if tx.DateTransaction.After(fin) {
				fin = tx.DateTransaction
			}
		}
	}

	if dateDebut != nil {
		debut = *dateDebut
	}
	if dateFin != nil {
		fin = *dateFin
	}
	return debut, fin
}

// GetTransactionStatistics handles GET /api/transactions/statistiques -
// totals over the filtered set
func GetTransactionStatistics(c *gin.Context) {
	db := config.GetDB()

	query, ok := applyTransactionFilters(c, db.Model(&models.Transaction{}))
	if !ok {
		return
	}

	var transactions []models.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load transactions")
		return
	}

	var totalEntrees, totalSorties float64
	var nombreEntrees, nombreSorties int
	for _, tx := range transactions {
		if tx.Type == models.TransactionTypeEntree {
			totalEntrees += tx.Montant
			nombreEntrees++
		} else {
			totalSorties += tx.Montant
			nombreSorties++
		}
	}

	dateDebut, _ := parseDateQuery(c, "date_debut")
	dateFin, _ := parseDateQuery(c, "date_fin")
	periodeDebut, periodeFin := statisticsPeriod(transactions, dateDebut, dateFin)

	respondData(c, http.StatusOK, gin.H{
		"total_entrees":       totalEntrees,
		"total_sorties":       totalSorties,
		"solde_net":           totalEntrees - totalSorties,
		"nombre_transactions": len(transactions),
		"nombre_entrees":      nombreEntrees,
		"nombre_sorties":      nombreSorties,
		"periode_debut":       periodeDebut,
		"periode_fin":         periodeFin,
	})
}

// GetTransactionCategories handles GET /api/transactions/categories -
// distinct non-empty categories, sorted
func GetTransactionCategories(c *gin.Context) {
	db := config.GetDB()

	var categories []string
	err := db.Model(&models.Transaction{}).
		Where("categorie IS NOT NULL AND categorie <> ''").
		Distinct("categorie").
		Pluck("categorie", &categories).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load categories")
		return
	}

	sort.Strings(categories)
	respondData(c, http.StatusOK, categories)
}

// GetTransactionsByWeek handles GET /api/transactions/par-semaine -
// groups the period's transactions into ISO weeks with per-week and
// overall totals. The period defaults to the last 30 days.
func GetTransactionsByWeek(c *gin.Context) {
	start, ok := parseDateQuery(c, "date_debut")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "date_fin")
	if !ok {
		return
	}

	periodStart, periodEnd := services.ResolveWeeklyPeriod(start, end, time.Now())

	db := config.GetDB()
	var transactions []models.Transaction
	err := db.Where("date_transaction >= ? AND date_transaction <= ?", periodStart, periodEnd).
		Order("date_transaction ASC").
		Find(&transactions).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, codeDatabase, "Failed to load transactions")
		return
	}

	report := services.GroupTransactionsByWeek(transactions, periodStart, periodEnd)
	respondData(c, http.StatusOK, report)
}
