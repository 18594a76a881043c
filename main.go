package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"shop-backend/cache"
	"shop-backend/catalog"
	"shop-backend/checkout"
	"shop-backend/controller"
	kafkax "shop-backend/kafka"
	"shop-backend/middleware"
	"shop-backend/model"
	"shop-backend/orders"
	"shop-backend/routes"
	"shop-backend/search"
)

func initDB() *gorm.DB {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	pass := getEnv("DB_PASS", "postgres")
	name := getEnv("DB_NAME", "shopdb")

	dsn := "host=" + host + " user=" + user + " password=" + pass +
		" dbname=" + name + " port=" + port +
		" sslmode=disable TimeZone=UTC"

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect db:", err)
	}

	if err := db.AutoMigrate(
		&model.Family{},
		&model.Variant{},
		&model.Order{},
		&model.Transaction{},
		&model.Review{},
	); err != nil {
		log.Fatal(err)
	}
	return db
}

func main() {
	_ = godotenv.Load()

	db := initDB()
	rdb := cache.ConnectRedis()
	producer := kafkax.NewProducer()

	catalogRepo := catalog.NewRepository(db)
	reviewRepo := catalog.NewReviewRepository(db)
	orderRepo, err := orders.NewRepository(db)
	if err != nil {
		log.Fatal("failed to init order repository:", err)
	}

	checkoutSvc := checkout.NewService(catalogRepo, orderRepo)
	orderSvc := orders.NewService(orderRepo)
	reconciler := orders.NewReconciler(orderRepo, orderRepo, producer)

	consumer := kafkax.NewConsumer()
	consumer.Consume(kafkax.TopicCheckoutCompleted, kafkax.CheckoutCompletedHandler(reconciler))

	es := search.NewClient()
	if es != nil {
		consumer.Consume(kafkax.TopicCatalogUpdated, search.CatalogUpdatedHandler(es))
	}

	app := fiber.New()
	app.Use(logger.New())

	auth := middleware.AuthRequired(getEnv("JWT_SECRET", "secret"))

	routes.RegisterProductRoutes(app, &controller.ProductController{
		Repo:     catalogRepo,
		Listing:  catalog.NewListingService(catalogRepo),
		Detail:   catalog.NewDetailService(catalogRepo),
		Cache:    rdb,
		Producer: producer,
	}, auth)
	routes.RegisterOrderRoutes(app, &controller.OrderController{
		Checkout: checkoutSvc,
		Orders:   orderSvc,
		Cache:    rdb,
	}, auth)
	routes.RegisterPaymentRoutes(app, &controller.PaymentController{Reconciler: reconciler})
	routes.RegisterReviewRoutes(app, &controller.ReviewController{
		Repo:    reviewRepo,
		Catalog: catalogRepo,
	}, auth)
	if es != nil {
		routes.RegisterSearchRoutes(app, es)
	}

	log.Fatal(app.Listen(":" + getEnv("PORT", "3000")))
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
