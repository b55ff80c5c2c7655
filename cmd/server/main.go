package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/loandash/loandash/internal/config"
	"github.com/loandash/loandash/internal/handler"
	"github.com/loandash/loandash/internal/repository"
	"github.com/loandash/loandash/internal/service"
	"github.com/loandash/loandash/pkg/response"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := newLogger(cfg)

	// Initialize storage
	repo, err := repository.NewFileRepository(cfg.Storage.DataFilePath, log)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize service
	dataService := service.NewDataService(repo, log)
	dataHandler := handler.NewDataHandler(dataService, log)
	healthHandler := handler.NewHealthHandler(cfg.Storage.DataFilePath)
	spaHandler := handler.NewSPAHandler(cfg.Storage.StaticDir)

	// Setup routes
	router := setupRoutes(dataHandler, healthHandler, spaHandler, log)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
	}

	// Start server in a goroutine
	go func() {
		log.WithField("addr", server.Addr).Info("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("server exited")
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetLevel(cfg.GetLogLevel())
	if cfg.Logging.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

func setupRoutes(dataHandler *handler.DataHandler, healthHandler *handler.HealthHandler, spaHandler *handler.SPAHandler, log *logrus.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.CORSMiddleware)
	router.Use(response.LoggingMiddleware(log))

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/data", dataHandler.GetData).Methods("GET")
	api.HandleFunc("/data", dataHandler.SaveData).Methods("POST")
	api.HandleFunc("/summary", dataHandler.GetSummary).Methods("GET")
	api.HandleFunc("/reminders", dataHandler.GetReminders).Methods("GET")

	// Dashboard assets with SPA fallback
	router.PathPrefix("/").Handler(spaHandler)

	return router
}
