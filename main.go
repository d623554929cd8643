package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"mediassist-server/internal/config"
	"mediassist-server/internal/llm"
	"mediassist-server/internal/logging"
	"mediassist-server/internal/models"
	"mediassist-server/internal/monitoring"
	"mediassist-server/internal/pipeline"
	"mediassist-server/internal/routes"
	"mediassist-server/internal/seed"
	"mediassist-server/internal/store"
)

func main() {
	// Load environment variables; a missing .env is fine
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	// Create a DatabaseConfig for models
	modelDbConfig := models.DatabaseConfig{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
	}

	// Initialize database connection
	db, err := models.InitDB(modelDbConfig)
	if err != nil {
		logger.WithError(err).Fatal("Error connecting to database")
	}

	model, err := llm.New(cfg.AI)
	if err != nil {
		logger.WithError(err).Fatal("Error configuring AI model")
	}
	breaker := llm.NewBreakerModel(model, logger)

	policy, err := pipeline.ParseDiagnosisPolicy(cfg.Pipeline.DiagnosisPolicy)
	if err != nil {
		logger.WithError(err).Fatal("Error configuring pipeline")
	}

	users := store.NewUserStore(db)
	if cfg.DoctorSeedFile != "" {
		doctors, err := seed.LoadDoctors(cfg.DoctorSeedFile)
		if err != nil {
			logger.WithError(err).Fatal("Error loading doctor seed file")
		}
		created, err := seed.SeedDoctors(context.Background(), users, doctors, logger)
		if err != nil {
			logger.WithError(err).Fatal("Error provisioning doctors")
		}
		logger.WithField("created", created).Info("Doctor accounts provisioned")
	}
	service := pipeline.NewService(
		store.NewCaseStore(db),
		users,
		breaker,
		buildSinks(cfg.Monitor, logger),
		logger,
		pipeline.Options{
			Policy:    policy,
			Timeout:   cfg.AI.Timeout,
			CacheSize: cfg.Pipeline.CacheSize,
			CacheTTL:  cfg.Pipeline.CacheTTL,
		},
	)

	// Initialize Gin router
	router := gin.Default()

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, routes.Dependencies{
		Cfg:    cfg,
		Logger: logger,
		Users:  users,
		Cases:  service,
		Health: func() gin.H {
			return gin.H{"model": breaker.Name(), "breaker": breaker.State().String()}
		},
	})

	// Start server
	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	logger.WithFields(logrus.Fields{"port": cfg.Port, "model": breaker.Name()}).Info("Server running")
	if err := router.Run(serverAddr); err != nil {
		logger.WithError(err).Fatal("Failed to start server")
	}
}

// buildSinks always logs inference events and adds the CSV and Redis sinks
// when configured. An unreachable Redis is logged and skipped.
func buildSinks(cfg config.MonitorConfig, logger *logrus.Logger) monitoring.Sink {
	sinks := monitoring.Multi{monitoring.NewLogSink(logger)}
	if cfg.CSVPath != "" {
		sinks = append(sinks, monitoring.NewCSVSink(cfg.CSVPath))
	}
	if cfg.RedisURL != "" {
		client, err := monitoring.DialRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			logger.WithError(err).Warn("Redis monitoring stream disabled")
		} else {
			sinks = append(sinks, monitoring.NewRedisStreamSink(client, cfg.RedisStream))
		}
	}
	return sinks
}
