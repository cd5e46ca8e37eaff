package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"swiftfood/internal/db"
	"swiftfood/internal/menu"
	"swiftfood/internal/messaging"
	"swiftfood/internal/middleware"
	"swiftfood/internal/order"
	"swiftfood/internal/payout"
	"swiftfood/internal/pricing"
	"swiftfood/internal/promocode"
	"swiftfood/internal/promotion"
	"swiftfood/internal/restaurant"
	"swiftfood/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	required := []string{
		"JWT_SECRET",
		"DATABASE_URL",
		"RABBITMQ_URL",
		"R2_ACCESS_KEY",
		"R2_SECRET_KEY",
		"R2_BUCKET_NAME",
		"R2_ENDPOINT",
		"R2_PUBLIC_BASE_URL",
	}

	for _, k := range required {
		if os.Getenv(k) == "" {
			log.Fatalf("❌ Missing env var: %s", k)
		}
	}

	serviceChargeRate := pricing.DefaultServiceChargeRate
	if raw := os.Getenv("SERVICE_CHARGE_RATE"); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			log.Fatalf("❌ Invalid SERVICE_CHARGE_RATE: %s", raw)
		}
		serviceChargeRate = rate
	}

	// ───────────────────────── DB ─────────────────────────
	pgDB := db.ConnectPostgres()
	defer pgDB.Close()

	// ───────────────────────── RABBITMQ ─────────────────────────
	mqConn, err := messaging.Connect(os.Getenv("RABBITMQ_URL"))
	if err != nil {
		log.Fatal("❌ RabbitMQ init failed:", err)
	}
	defer mqConn.Close()
	publisher := messaging.NewPublisher(mqConn)

	// ───────────────────────── STORAGE ─────────────────────────
	r2Client, err := storage.NewR2Client(context.Background())
	if err != nil {
		log.Fatal("❌ R2 init failed:", err)
	}

	// ───────────────────────── GIN ─────────────────────────
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// ───────────────────────── CORE REPOS ─────────────────────────
	restaurantRepo := restaurant.NewPostgresRepository(pgDB)
	menuRepo := menu.NewPostgresRepository(pgDB)
	promotionRepo := promotion.NewPostgresRepository(pgDB)
	promoCodeRepo := promocode.NewPostgresRepository(pgDB)
	orderRepo := order.NewPostgresRepository(pgDB)
	payoutRepo := payout.NewRepository(pgDB)

	// ───────────────────────── SERVICES (ORDER MATTERS) ─────────────────────────
	restaurantService := restaurant.NewService(restaurantRepo)
	menuService := menu.NewService(menuRepo)
	promotionService := promotion.NewService(promotionRepo, restaurantService, menuRepo)
	promoCodeService := promocode.NewService(promoCodeRepo)

	engine := pricing.NewEngine(
		pricing.NewDeliveryFeeCalculator(nil),
		pricing.NewPricingAggregator(serviceChargeRate, promoCodeService),
	)

	orderService := order.NewService(
		engine,
		menuService,
		promotionService,
		restaurantService,
		promoCodeService,
		orderRepo,
		publisher,
	)

	payoutService := payout.NewService(payoutRepo, r2Client)

	// ───────────────────────── HANDLERS ─────────────────────────
	restaurantHandler := restaurant.NewHandler(restaurantService)
	menuHandler := menu.NewHandler(menuService)
	promotionHandler := promotion.NewHandler(promotionService)
	promoCodeHandler := promocode.NewHandler(promoCodeService)
	orderHandler := order.NewHandler(orderService)
	payoutHandler := payout.NewHandler(payoutService)

	// ───────────────────────── PUBLIC ROUTES ─────────────────────────
	r.GET("/restaurants", restaurantHandler.ListApproved)
	r.GET("/restaurants/:id/menu", menuHandler.ListMenu)
	r.POST("/orders/quote", orderHandler.Quote())
	r.POST("/promo-codes/validate", promoCodeHandler.Validate())

	// ───────────────────────── CUSTOMER ROUTES ─────────────────────────
	orders := r.Group("/orders")
	orders.Use(middleware.AuthMiddleware())
	{
		orders.POST("", orderHandler.Commit())
		orders.GET("", orderHandler.List())
		orders.GET("/:id", orderHandler.Get())
	}

	// ───────────────────────── PROMOTION ROUTES ─────────────────────────
	promotions := r.Group("/restaurants/:id/promotions")
	promotions.Use(
		middleware.AuthMiddleware(),
		middleware.RequireRole(middleware.RoleRestaurant),
	)
	{
		promotions.POST("", promotionHandler.Create())
		promotions.GET("", promotionHandler.List())
		promotions.PUT("/:promoID", promotionHandler.Update())
		promotions.DELETE("/:promoID", promotionHandler.Delete())
	}

	// ───────────────────────── ADMIN ROUTES ─────────────────────────
	admin := r.Group("/admin")
	admin.Use(
		middleware.AuthMiddleware(),
		middleware.RequireRole(middleware.RoleAdmin),
	)
	{
		admin.GET("/payouts/report", payoutHandler.Report())
		admin.PATCH("/restaurants/:id/commission", restaurantHandler.SetCommission)
		admin.POST("/promo-codes", promoCodeHandler.Create())
	}

	// ───────────────────────── HEALTH ─────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ───────────────────────── START ─────────────────────────
	log.Println("🚀 API running at http://localhost:8000")
	r.Run(":8000")
}
