package api

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/spockNinja/web-template/config"
	"github.com/spockNinja/web-template/infra/queue"
	"github.com/spockNinja/web-template/internal/api/rest/handlers"
	"github.com/spockNinja/web-template/internal/clients/google"
	"github.com/spockNinja/web-template/internal/domain"
	"github.com/spockNinja/web-template/internal/helper"
	"github.com/spockNinja/web-template/internal/repository"
	"github.com/spockNinja/web-template/internal/services"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func StartServer(cfg config.Config) {
	app := fiber.New()

	// ---------- CORS ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}
	log.Println("database connected")

	if err := db.AutoMigrate(&domain.User{}); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	log.Println("migration successful")

	// ---------- Infra ----------
	kafkaProducer := queue.NewProducer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
	)
	googleClient := google.New(cfg.GoogleClientID)
	session := helper.SetupSession(cfg.AppSecret)

	// ---------- Repositories ----------
	userRepo := repository.NewUserRepository(db)

	// ---------- Service ----------
	userSvc := services.NewUserService(userRepo, googleClient, kafkaProducer, cfg.AppURL)

	// ---------- Handler ----------
	authHandler := handlers.NewAuthHandler(userSvc, session, handlers.PageConfig{
		AppName:        cfg.AppName,
		GoogleClientID: cfg.GoogleClientID,
	})
	authHandler.SetupRoutes(app)

	// ---------- Health ----------
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ---------- Listen ----------
	addr := cfg.ServerPort
	log.Println("listening on", addr)
	log.Fatal(app.Listen(addr))
}
