package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"carwatch/backend/internal/api/handler"
	"carwatch/backend/internal/config"
	"carwatch/backend/internal/lifecycle"
	"carwatch/backend/internal/localization"
	"carwatch/backend/internal/models"
	"carwatch/backend/internal/notify"
	"carwatch/backend/internal/storage"
	"carwatch/backend/internal/telegram"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Car{},
		&models.Report{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting CarWatch Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)

	localizer, err := localization.NewLocalizer(cfg.LocalesDir)
	if err != nil {
		log.Fatalf("Failed to load locales: %v", err)
	}

	hub := notify.NewHub(s)

	// Telegram alerts are optional; skip when no token is configured.
	if cfg.TelegramToken != "" && cfg.TelegramChatID != "" {
		alerts, err := telegram.NewAlertService(cfg.TelegramToken, cfg.TelegramChatID, hub.AddListener())
		if err != nil {
			log.Fatalf("Failed to start Telegram alert bot: %v", err)
		}
		go alerts.Run()
	}

	go hub.Run()

	lc := lifecycle.NewService(s)

	r := gin.Default()
	h := handler.NewHandler(s, lc, hub, localizer, cfg)
	h.RegisterRoutes(r)

	server := &http.Server{
		Addr:           cfg.ListenAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
