package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"peakform/coaching-app/internal/api"
	"peakform/coaching-app/internal/config"
	"peakform/coaching-app/internal/logger"
	mongorepo "peakform/coaching-app/internal/repository/mongo"
	"peakform/coaching-app/internal/service"
	"peakform/coaching-app/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic("could not load config: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() { _ = log.Sync() }()
	log.Info("starting coaching-app server")

	// --- Database Connection ---
	dbClient, err := mongorepo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatal("could not connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongorepo.DisconnectDB(dbClient); err != nil {
			log.Error("failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Info("database connection established", zap.String("database", cfg.Database.Name))

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		if err := mongorepo.EnsureUserIndexes(ctx, appDB); err != nil {
			log.Warn("user index creation failed", zap.Error(err))
		}
		if err := mongorepo.EnsureTokenIndexes(ctx, appDB); err != nil {
			log.Warn("token index creation failed", zap.Error(err))
		}
		if err := mongorepo.EnsureExerciseIndexes(ctx, appDB); err != nil {
			log.Warn("exercise index creation failed", zap.Error(err))
		}
		if err := mongorepo.EnsureProgramIndexes(ctx, appDB); err != nil {
			log.Warn("program index creation failed", zap.Error(err))
		}
		if err := mongorepo.EnsureWorkoutIndexes(ctx, appDB); err != nil {
			log.Warn("workout index creation failed", zap.Error(err))
		}
		if err := mongorepo.EnsureWeightIndexes(ctx, appDB); err != nil {
			log.Warn("weight index creation failed", zap.Error(err))
		}
		log.Info("index creation completed")
	}()

	// --- File Storage ---
	// Exercise videos are optional; without a bucket the catalog runs fine
	// and upload endpoints report storage as unconfigured.
	var fileStorage storage.FileStorage
	if cfg.S3.BucketName != "" {
		fileStorage, err = storage.NewS3Storage(cfg.S3, log)
		if err != nil {
			log.Fatal("failed to initialize S3 storage", zap.Error(err))
		}
		log.Info("file storage initialized", zap.String("bucket", cfg.S3.BucketName))
	} else {
		log.Info("file storage disabled: no bucket configured")
	}

	// --- Repositories ---
	userRepo := mongorepo.NewMongoUserRepository(appDB)
	tokenRepo := mongorepo.NewMongoTokenRepository(appDB)
	exerciseRepo := mongorepo.NewMongoExerciseRepository(appDB)
	programRepo := mongorepo.NewMongoProgramRepository(appDB)
	workoutRepo := mongorepo.NewMongoWorkoutRepository(appDB)
	weightRepo := mongorepo.NewMongoWeightRepository(appDB)

	// --- Services ---
	authService := service.NewAuthService(userRepo, tokenRepo, cfg.JWT.Secret, cfg.JWT.Expiration, cfg.Frontend.BaseURL)
	trainerService := service.NewTrainerService(userRepo, weightRepo, workoutRepo, programRepo)
	exerciseService := service.NewExerciseService(exerciseRepo, fileStorage)
	programService := service.NewProgramService(programRepo, exerciseRepo, userRepo)
	workoutService := service.NewWorkoutService(workoutRepo, programRepo, userRepo)
	weightService := service.NewWeightService(weightRepo, userRepo)

	// --- HTTP ---
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(api.RequestLogger(log))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Frontend.BaseURL},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api.InitMetrics()
	api.SetupRoutes(router, cfg.JWT.Secret, authService, trainerService, exerciseService, programService, workoutService, weightService)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen and serve error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exited")
}
