package main

import (
	"alcyxob/liftlog/internal/api"
	"alcyxob/liftlog/internal/catalog"
	"alcyxob/liftlog/internal/config"
	"alcyxob/liftlog/internal/logging"
	"alcyxob/liftlog/internal/metrics"
	"alcyxob/liftlog/internal/repository"
	"alcyxob/liftlog/internal/repository/mongo"
	"alcyxob/liftlog/internal/repository/postgres"
	"alcyxob/liftlog/internal/securestore"
	"alcyxob/liftlog/internal/service"
	"alcyxob/liftlog/internal/storage"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// @title LiftLog API
// @version 1.0
// @description Workout logging, weekly plans, body measurements and the exercise catalog.
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
		log.Fatalf("could not load config: %v", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   cfg.Log.Stdout,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
	})
	log.Infof("starting liftlog server, backend: %s", cfg.Backend.Driver)

	if cfg.JWT.Secret == "" {
		log.Fatal("jwt.secret must be set")
	}
	loc := cfg.Calendar.Location()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Backend ---
	repos, promCollectors, closeBackend, err := openBackend(ctx, cfg)
	if err != nil {
		log.Fatalf("open %s backend: %v", cfg.Backend.Driver, err)
	}
	defer closeBackend()

	promRegistry := metrics.SetupPrometheus(promCollectors...)
	metricsManager := metrics.NewManager(metrics.Namespace, metrics.Subsystem, promRegistry)

	// --- Secure Storage ---
	store, closeStore, err := openSecureStore(ctx, cfg.SecureStore)
	if err != nil {
		log.Fatalf("open secure storage: %v", err)
	}
	defer closeStore()

	// --- Object Storage ---
	var fileStorage storage.FileStorage
	fileStorage, err = storage.NewS3Storage(ctx, cfg.S3)
	if errors.Is(err, storage.ErrStorageDisabled) {
		log.Warn("S3 credentials not configured, exercise image upload disabled")
		fileStorage = nil
	} else if err != nil {
		log.Fatalf("init S3 storage: %v", err)
	}

	// --- Exercise Catalog ---
	var remote service.Searcher
	if cfg.ExerciseDB.APIKey != "" {
		remote = catalog.NewClient(http.DefaultClient, cfg.ExerciseDB.BaseURL, cfg.ExerciseDB.Host, cfg.ExerciseDB.APIKey)
	} else {
		log.Warn("exercisedb.api_key not set, api catalog searches will fail")
	}

	// --- Services ---
	plans := service.NewPlanService(store, repos.Plans, loc, metricsManager)
	services := api.Services{
		Auth:         service.NewAuthService(repos.Users, cfg.JWT.Secret, cfg.JWT.Expiration),
		Exercises:    service.NewExerciseService(repos.Exercises, fileStorage),
		Catalog:      service.NewCatalogService(remote, repos.Exercises, cfg.Catalog.CacheSizeMB, cfg.Catalog.ResultTTL, metricsManager),
		Workouts:     service.NewWorkoutService(repos.Workouts, plans, loc, metricsManager),
		Plans:        plans,
		Measurements: service.NewMeasurementService(store, repos.Measurements, repos.Goals, metricsManager),
	}

	// --- Initialize Gin Engine ---
	if cfg.Server.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	api.SetupRoutes(router, services.Auth.GetJWTSecret(), services, metricsManager, loc)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen and serve: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("server forced to shutdown: %v", err)
	}
	log.Info("server exiting")
}

// openBackend connects the configured remote store. The "none" driver yields
// empty repositories; services then answer ErrBackendNotConfigured.
func openBackend(ctx context.Context, cfg config.Config) (*repository.Repositories, []prometheus.Collector, func(), error) {
	switch cfg.Backend.Driver {
	case config.DriverMongo:
		client, err := mongo.ConnectDB(cfg.Database.URI)
		if err != nil {
			return nil, nil, nil, err
		}
		db := client.Database(cfg.Database.Name)

		go func() {
			indexCtx, cancel := context.WithTimeout(ctx, time.Minute)
			defer cancel()
			mongo.EnsureIndexes(indexCtx, db)
			log.Debug("mongo index creation completed")
		}()

		closeFn := func() {
			if err := mongo.DisconnectDB(client); err != nil {
				log.Errorf("disconnect mongo: %v", err)
			}
		}
		return mongo.NewRepositories(db), nil, closeFn, nil

	case config.DriverPostgres:
		pool, err := postgres.NewDBPool(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := postgres.RunMigrations(ctx, pool); err != nil {
				pool.Close()
				return nil, nil, nil, err
			}
		}
		collector := pgxpoolprometheus.NewCollector(pool, map[string]string{"db_name": "liftlog"})
		return postgres.NewRepositories(pool), []prometheus.Collector{collector}, pool.Close, nil
	}

	log.Warn("no backend configured, workouts and the exercise catalog are unavailable")
	return &repository.Repositories{}, nil, func() {}, nil
}

// openSecureStore opens the encrypted SQLite file. Without a passphrase the
// state is kept in memory and lost on restart.
func openSecureStore(ctx context.Context, cfg config.SecureStoreConfig) (securestore.Store, func(), error) {
	if cfg.Passphrase == "" {
		log.Warn("securestore.passphrase not set, local state is kept in memory only")
		return securestore.NewMemoryStore(), func() {}, nil
	}

	key := securestore.DeriveKey([]byte(cfg.Passphrase), []byte(cfg.Salt))
	store, err := securestore.OpenSQLite(ctx, cfg.Path, key)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := store.Close(); err != nil {
			log.Errorf("close secure storage: %v", err)
		}
	}
	return store, closeFn, nil
}
