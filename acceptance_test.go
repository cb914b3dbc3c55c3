package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/csas-cheick/collections-backend/config"
	"github.com/csas-cheick/collections-backend/models"
	"github.com/csas-cheick/collections-backend/services"
	"github.com/csas-cheick/collections-backend/tests/testutil"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	testutil.SetTestEnvironment()
	os.Exit(m.Run())
}

func setupAcceptanceEnv(t *testing.T) *gin.Engine {
	t.Helper()
	testutil.RequireTestEnvironment(t)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Measure{},
		&models.Modele{},
		&models.Order{},
		&models.OrderItem{},
		&models.Transaction{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	config.SetDB(db)

	mock := services.NewMockImageService()
	mock.SetAsMockForTesting()

	cfg := &config.Config{Port: "5120", AllowedOrigins: []string{"http://localhost:5173"}}
	return setupRouter(cfg)
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
		}
	}
	return w, response
}

func doMultipart(t *testing.T, router *gin.Engine, method, path string, fields map[string]string, fileField, fileName string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		writer.WriteField(key, value)
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, fileName)
		if err != nil {
			t.Fatalf("Failed to build multipart body: %v", err)
		}
		part.Write([]byte("fake image bytes"))
	}
	writer.Close()

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
		}
	}
	return w, response
}

// TestTailoringWorkflow exercises the full shop workflow end to end:
// register a customer with measures, publish a modele, place an order,
// record the payment and read it back from the weekly report.
func TestTailoringWorkflow(t *testing.T) {
	router := setupAcceptanceEnv(t)

	// customer intake
	w, response := doMultipart(t, router, http.MethodPost, "/api/customers", map[string]string{
		"name":         "Ibrahim Sangare",
		"phone_number": "+223 76 12 34 56",
	}, "", "")
	assert.Equal(t, http.StatusCreated, w.Code)
	customerID := response["data"].(map[string]interface{})["id"].(float64)

	w, _ = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/customers/%.0f/measures", customerID), map[string]interface{}{
		"tour_poitrine":   102.0,
		"longueur_manche": 64.5,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// catalog
	w, response = doMultipart(t, router, http.MethodPost, "/api/modeles", map[string]string{
		"price": "20000",
	}, "image", "grand-boubou.png")
	assert.Equal(t, http.StatusCreated, w.Code)
	modeleID := response["data"].(map[string]interface{})["id"].(float64)

	// order
	w, response = doJSON(t, router, http.MethodPost, "/api/orders", map[string]interface{}{
		"customer_id": customerID,
		"reduction":   2000.0,
		"items": []map[string]interface{}{
			{"modele_id": modeleID, "type_tissu": "Bazin riche", "couleur": "Bleu nuit", "quantite": 2},
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	orderData := response["data"].(map[string]interface{})
	assert.Equal(t, 40000.0, orderData["total"])
	assert.Equal(t, 38000.0, orderData["total_final"])

	// payment
	w, _ = doJSON(t, router, http.MethodPost, "/api/transactions", map[string]interface{}{
		"montant":       38000.0,
		"type":          "ENTREE",
		"description":   "Paiement commande Ibrahim",
		"mode_paiement": "ESPECES",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// the payment shows up in the weekly report
	w, response = doJSON(t, router, http.MethodGet, "/api/transactions/par-semaine", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	report := response["data"].(map[string]interface{})
	overall := report["totaux_generaux"].(map[string]interface{})
	assert.Equal(t, 38000.0, overall["total_entrees"])
	assert.Equal(t, float64(1), overall["nombre_transactions"])

	// order completion
	w, _ = doJSON(t, router, http.MethodPatch, fmt.Sprintf("/api/orders/%.0f/status", orderData["id"].(float64)), map[string]interface{}{
		"statut": "Livre",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

// TestHealthEndpointMethods checks the health route only answers GET
func TestHealthEndpointMethods(t *testing.T) {
	router := setupAcceptanceEnv(t)

	req, _ := http.NewRequest(http.MethodPost, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req, _ = http.NewRequest(http.MethodGet, "/health", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
