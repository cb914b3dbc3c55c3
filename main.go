package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/csas-cheick/collections-backend/config"
	"github.com/csas-cheick/collections-backend/controllers"
	"github.com/csas-cheick/collections-backend/models"
	"github.com/csas-cheick/collections-backend/services"
)

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Collections API is running",
	})
}

func databaseStatus(c *gin.Context) {
	db := config.GetDB()
	sqlDB, err := db.DB()
	if err != nil || sqlDB.Ping() != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"database": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"database": "ok"})
}

func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		AllowCredentials: true,
	}))

	router.GET("/health", healthCheck)
	router.GET("/health/database", databaseStatus)

	api := router.Group("/api")
	{
		api.GET("/health", healthCheck)
		api.GET("/database/status", databaseStatus)

		api.POST("/auth/login", controllers.Login)

		customers := api.Group("/customers")
		{
			customers.GET("", controllers.GetCustomers)
			customers.POST("", controllers.CreateCustomer)
			customers.GET("/:id", controllers.GetCustomer)
			customers.PUT("/:id", controllers.UpdateCustomer)
			customers.DELETE("/:id", controllers.DeleteCustomer)
			customers.GET("/:id/measures", controllers.GetCustomerMeasures)
			customers.POST("/:id/measures", controllers.UpsertCustomerMeasures)
			customers.PUT("/:id/measures", controllers.UpsertCustomerMeasures)
			customers.DELETE("/:id/measures", controllers.DeleteCustomerMeasures)
		}

		modeles := api.Group("/modeles")
		{
			modeles.GET("", controllers.GetModeles)
			modeles.POST("", controllers.CreateModele)
			modeles.GET("/:id", controllers.GetModele)
			modeles.PUT("/:id", controllers.UpdateModele)
			modeles.DELETE("/:id", controllers.DeleteModele)
		}

		orders := api.Group("/orders")
		{
			orders.GET("", controllers.GetOrders)
			orders.POST("", controllers.CreateOrder)
			orders.GET("/appointments", controllers.GetOrdersWithAppointments)
			orders.POST("/calculate-total", controllers.CalculateOrderTotal)
			orders.POST("/calculate-final-total", controllers.CalculateFinalTotal)
			orders.GET("/customer/:id", controllers.GetOrdersByCustomer)
			orders.GET("/status/:status", controllers.GetOrdersByStatus)
			orders.GET("/items/:id", controllers.GetOrderItem)
			orders.PUT("/items/:id", controllers.UpdateOrderItem)
			orders.DELETE("/items/:id", controllers.DeleteOrderItem)
			orders.GET("/:id", controllers.GetOrder)
			orders.PUT("/:id", controllers.UpdateOrder)
			orders.DELETE("/:id", controllers.DeleteOrder)
			orders.PATCH("/:id/status", controllers.UpdateOrderStatus)
			orders.POST("/:id/items", controllers.AddOrderItem)
		}

		transactions := api.Group("/transactions")
		{
			transactions.GET("", controllers.GetTransactions)
			transactions.POST("", controllers.CreateTransaction)
			transactions.GET("/statistiques", controllers.GetTransactionStatistics)
			transactions.GET("/categories", controllers.GetTransactionCategories)
			transactions.GET("/par-semaine", controllers.GetTransactionsByWeek)
			transactions.GET("/:id", controllers.GetTransaction)
			transactions.PUT("/:id", controllers.UpdateTransaction)
			transactions.DELETE("/:id", controllers.DeleteTransaction)
		}

		users := api.Group("/users")
		{
			users.GET("", controllers.GetUsers)
			users.POST("", controllers.CreateUser)
			users.GET("/check-email/:email", controllers.CheckEmail)
			users.GET("/check-username/:username", controllers.CheckUsername)
			users.GET("/:id", controllers.GetUser)
			users.PUT("/:id", controllers.UpdateUser)
			users.DELETE("/:id", controllers.DeleteUser)
			users.PUT("/:id/change-password", controllers.ChangePassword)
			users.PUT("/:id/toggle-status", controllers.ToggleUserStatus)
			users.PATCH("/:id/toggle-status", controllers.ToggleUserStatus)
		}
	}

	return router
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	db := config.GetDB()
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
		log.Fatalf("Failed to migrate database: %v", err)
	}

	s3Service, err := services.InitS3Service()
	if err != nil {
		log.Fatalf("Failed to initialize S3 service: %v", err)
	}
	services.InitImageService(s3Service)

	log.Printf("Starting server on port %s", cfg.Port)
	if err := setupRouter(cfg).Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
