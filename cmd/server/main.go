package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alcyxob/fitness-ledger/internal/api"
	"alcyxob/fitness-ledger/internal/config"
	"alcyxob/fitness-ledger/internal/history"
	"alcyxob/fitness-ledger/internal/ledger"
	"alcyxob/fitness-ledger/internal/metabolic"
	"alcyxob/fitness-ledger/internal/profile"
	"alcyxob/fitness-ledger/internal/records"
	"alcyxob/fitness-ledger/internal/repository/mongo"
	"alcyxob/fitness-ledger/internal/service"
	"alcyxob/fitness-ledger/internal/storage"
	"alcyxob/fitness-ledger/internal/workout"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	log.Info("Starting Fitness Ledger Server...")

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if level, err := log.ParseLevel(cfg.Logging.Level); err != nil {
		log.Warnf("unknown log level [%s], keeping default", cfg.Logging.Level)
	} else {
		log.SetLevel(level)
	}
	log.Info("Configuration loaded.")

	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Info("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Errorf("failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Info("Database connection established.")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureDailyLogIndexes(ctx, appDB.Collection("daily_logs"))
		mongo.EnsureProfileIndexes(ctx, appDB.Collection("profiles"))
		mongo.EnsureRoutineIndexes(ctx, appDB.Collection("routines"))
		log.Info("Index creation process completed.")
	}()

	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("failed to initialize S3 storage: %v", err)
	}

	logRepo := mongo.NewMongoDailyLogRepository(appDB)
	profileRepo := mongo.NewMongoProfileRepository(appDB)
	routineRepo := mongo.NewMongoRoutineRepository(appDB)

	scanner := history.NewScanner(logRepo)
	ledgerService := ledger.NewService(logRepo, profileRepo, scanner)
	tracker := records.NewTracker(profileRepo)
	engine := workout.NewEngine(ledgerService, routineRepo, tracker, metabolic.OneRepMax)
	profileService := profile.NewService(profileRepo)
	authService := service.NewAuthService(profileRepo, service.StaticEntitlement(cfg.Premium.GrantAll), cfg.JWT.Secret, cfg.JWT.Expiration)

	router := gin.Default()
	api.SetupRoutes(router, cfg.JWT.Secret, authService, ledgerService, engine, scanner, profileService, routineRepo, fileStorage)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Infof("Server starting on %s", cfg.Server.Address)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Info("Server exiting.")
}
