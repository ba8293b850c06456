package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/asha-care/platform/pkg/alerts"
	"github.com/asha-care/platform/pkg/common/config"
	"github.com/asha-care/platform/pkg/common/database"
	"github.com/asha-care/platform/pkg/common/kafka"
	"github.com/asha-care/platform/pkg/common/logger"
	"github.com/asha-care/platform/pkg/gateway/auth"
	"github.com/asha-care/platform/pkg/gateway/middleware"
	"github.com/asha-care/platform/pkg/identity"
	"github.com/asha-care/platform/pkg/patients"
	"github.com/asha-care/platform/pkg/records"
	"github.com/asha-care/platform/pkg/reminders"
	"github.com/asha-care/platform/pkg/sync"
)

func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	identityRepo := identity.NewRepository(db)
	patientRepo := patients.NewRepository(db)
	recordRepo := records.NewRepository(db)
	reminderRepo := reminders.NewRepository(db)

	for name, migrate := range map[string]func() error{
		"users":     identityRepo.AutoMigrate,
		"patients":  patientRepo.AutoMigrate,
		"records":   recordRepo.AutoMigrate,
		"reminders": reminderRepo.AutoMigrate,
	} {
		if err := migrate(); err != nil {
			logger.Log.WithError(err).Fatalf("failed to migrate %s tables", name)
		}
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to initialize jwt manager")
	}

	thresholds, err := alerts.LoadThresholds(cfg.AlertRulesPath)
	if err != nil {
		logger.Log.WithError(err).Warn("falling back to default alert thresholds")
	}
	engine := alerts.NewEngine(thresholds)

	producer := kafka.NewProducer(cfg.KafkaRecordsTopic)
	defer producer.Close()

	locker := sync.NewRedisLocker(database.GetRedis(), cfg.SyncLockTTL, cfg.SyncLockRetry)

	identityService := identity.NewService(identityRepo)
	patientService := patients.NewService(patientRepo, recordRepo, reminderRepo, engine)
	recordService := records.NewService(recordRepo, patientRepo, engine, producer)
	reminderService := reminders.NewService(reminderRepo, patientRepo)
	syncService := sync.NewService(sync.NewGormStore(db), locker, producer)

	identityHandler := identity.NewHandler(identityService, jwtManager)
	patientHandler := patients.NewHandler(patientService)
	recordHandler := records.NewHandler(recordService)
	reminderHandler := reminders.NewHandler(reminderService)
	syncHandler := sync.NewHandler(syncService)
	predictHandler := alerts.NewHandler()

	router := mux.NewRouter()
	router.Use(middleware.Recovery)
	router.Use(middleware.Logging)
	router.Use(middleware.CORS)
	router.Use(middleware.BodyLimit(cfg.MaxRequestBody))
	router.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)
	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)

	authAPI := router.PathPrefix("/api/auth").Subrouter()
	identityHandler.Register(authAPI)

	authed := router.PathPrefix("/api").Subrouter()
	authed.Use(middleware.Authenticate(jwtManager))
	identityHandler.RegisterAuthed(authed.PathPrefix("/auth").Subrouter())
	patientHandler.Register(authed.PathPrefix("/patients").Subrouter())
	recordHandler.Register(authed.PathPrefix("/records").Subrouter())
	reminderHandler.Register(authed.PathPrefix("/reminders").Subrouter())
	syncHandler.Register(authed.PathPrefix("/sync").Subrouter())
	predictHandler.Register(authed.PathPrefix("/predict").Subrouter())

	address := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithField("addr", address).Info("Care service listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start care service")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down care service...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("care service forced to shutdown")
	}
	database.ClosePostgres()
	database.CloseRedis()
	logger.Log.Info("Care service stopped")
}
