package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/broarr/soma-security-prototype/internal/config"
	"github.com/broarr/soma-security-prototype/internal/database"
	"github.com/broarr/soma-security-prototype/internal/handlers"
	"github.com/broarr/soma-security-prototype/internal/repository"
	"github.com/broarr/soma-security-prototype/internal/server"
	"github.com/broarr/soma-security-prototype/internal/services"
	"github.com/broarr/soma-security-prototype/internal/twilio"
	"github.com/broarr/soma-security-prototype/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := utils.NewLogger(cfg.App.Env)
	defer func() {
		_ = logger.Sync()
	}()
	sugar := logger.Sugar()
	sugar.Infof("Starting participant portal in %s environment", cfg.App.Env)

	// Account storage: in-memory seeded table by default, Mongo when asked.
	var repo repository.AccountRepository
	var mongoClient *mongo.Client
	switch cfg.Storage.Backend {
	case "mongo":
		db, client, err := database.ConnectMongo(cfg.Mongo.URI, cfg.Mongo.Database, sugar)
		if err != nil {
			sugar.Fatal(err)
		}
		mongoClient = client
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		repo, err = repository.NewMongoAccountRepo(ctx, db, cfg.Mongo.Collection, cfg.Seed.Participants)
		cancel()
		if err != nil {
			sugar.Fatalf("failed to seed mongo accounts: %v", err)
		}
	default:
		repo = repository.NewMemoryAccountRepo(cfg.Seed.Participants)
	}
	sugar.Infof("Account storage: %s, %d participant(s) provisioned", cfg.Storage.Backend, len(cfg.Seed.Participants))

	// Session storage: in-process by default, Redis when asked.
	var sessionStorage fiber.Storage
	var redisClient *redis.Client
	if cfg.Session.Store == "redis" {
		rdb, err := database.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, sugar)
		if err != nil {
			sugar.Fatal(err)
		}
		redisClient = rdb
		sessionStorage = database.NewRedisSessionStorage(rdb)
	}

	tw := twilio.NewClient(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.From)
	if !tw.IsConfigured() {
		sugar.Warn("Twilio client not fully configured. Outbound SMS will be skipped.")
	} else {
		sugar.Info("Twilio client configured.")
	}

	var creds services.CredentialChecker
	switch cfg.Security.PasswordScheme {
	case "bcrypt":
		creds = services.BcryptChecker{Cost: cfg.Security.BcryptCost}
	default:
		// Demo compatibility mode. Passwords are stored in the clear.
		creds = services.PlaintextChecker{}
	}

	tokens := utils.NewTokenGenerator(rand.NewSource(time.Now().UnixNano()))
	svc := services.NewPortalService(repo, tokens, creds, tw, logger, cfg.BaseURL(), cfg.App.PhoneNo)

	store := server.NewSessionStore(sessionStorage)
	h := handlers.NewHandler(svc, store, logger, cfg.App.PhoneNo)
	app := server.New(cfg, h, logger)

	go func() {
		listenAddr := fmt.Sprintf(":%d", cfg.App.Port)
		sugar.Infof("%s", cfg.BaseURL())
		if err := app.Listen(listenAddr); err != nil {
			sugar.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	sugar.Info("Shutting down server...")

	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := app.ShutdownWithContext(ctxShut); err != nil {
		sugar.Errorf("Fiber app shutdown error: %v", err)
	}
	if mongoClient != nil {
		if err := mongoClient.Disconnect(ctxShut); err != nil {
			sugar.Errorf("MongoDB disconnect error: %v", err)
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			sugar.Errorf("Redis client close error: %v", err)
		}
	}

	sugar.Info("Graceful shutdown complete. Goodbye!")
}
