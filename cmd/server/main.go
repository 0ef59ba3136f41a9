package main

import (
	"alcyxob/studyplan-app/internal/api"
	"alcyxob/studyplan-app/internal/cache"
	"alcyxob/studyplan-app/internal/config"
	"alcyxob/studyplan-app/internal/generator"
	"alcyxob/studyplan-app/internal/logger"
	"alcyxob/studyplan-app/internal/repository"
	"alcyxob/studyplan-app/internal/repository/mongo"
	"alcyxob/studyplan-app/internal/search"
	"alcyxob/studyplan-app/internal/service"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// @title Study Plan API
// @version 1.0
// @description API for generating and tracking 4-week personal study plans.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	appLog, err := logger.New(cfg.Server.Mode)
	if err != nil {
		log.Fatalf("FATAL: Could not build logger: %v", err)
	}
	defer appLog.Sync()
	appLog.Info("starting study plan server", "address", cfg.Server.Address)

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		appLog.Fatal("could not connect to MongoDB", "error", err)
	}
	defer func() {
		appLog.Info("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			appLog.Error("failed to disconnect MongoDB", "error", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	appLog.Info("database connection established", "database", cfg.Database.Name)

	// --- Ensure Indexes ---
	go func() { // Run index creation concurrently/in background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsurePlanIndexes(ctx, appDB.Collection("plans"))
		appLog.Info("index creation process completed")
	}()

	// --- Plan Cache ---
	planCache, err := cache.NewRedisPlanCache(cfg.Redis, appLog)
	if err != nil {
		appLog.Fatal("failed to initialize plan cache", "error", err)
	}
	defer planCache.Close()

	// --- External Clients ---
	genClient, err := generator.NewOpenAIClient(cfg.OpenAI, appLog)
	if err != nil {
		appLog.Fatal("failed to initialize generator client", "error", err)
	}
	searchClient, err := search.NewWebSearchClient(cfg.Search, appLog)
	if err != nil {
		appLog.Fatal("failed to initialize search client", "error", err)
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	planRepo := repository.NewCachedPlanRepository(mongo.NewMongoPlanRepository(appDB), planCache)

	// --- Initialize Services ---
	resolver := service.NewMaterialResolver(searchClient, appLog)
	validator := service.NewScheduleValidator(resolver)
	fallback := service.NewFallbackScheduleBuilder(resolver)

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	planService := service.NewPlanService(planRepo, genClient, validator, fallback, appLog)
	queryService := service.NewPlanQueryService(planRepo, appLog)

	// --- Initialize Gin Engine ---
	if cfg.Server.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	api.SetupRoutes(router, cfg.JWT.Secret, authService, planService, queryService, appLog)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:        cfg.Server.Address,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		// Plan generation holds the response open while the model and the
		// per-task enrichment calls run.
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("ListenAndServe error", "error", err)
		}
	}()
	appLog.Info("server started", "address", cfg.Server.Address)

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		appLog.Fatal("server forced to shutdown", "error", err)
	}

	appLog.Info("server exiting")
}
