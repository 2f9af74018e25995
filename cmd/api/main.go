package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/phase2/todo-api/internal/auth"
	"github.com/phase2/todo-api/internal/config"
	"github.com/phase2/todo-api/internal/digest"
	"github.com/phase2/todo-api/internal/handler"
	"github.com/phase2/todo-api/internal/middleware"
	"github.com/phase2/todo-api/internal/repository"
	"github.com/phase2/todo-api/internal/service"
	"github.com/phase2/todo-api/internal/utils/email"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load local environment outside production
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo, err := repository.NewRepository(db)
	if err != nil {
		logger.Fatalf("Failed to initialize repository: %v", err)
	}
	issuer, err := auth.NewIssuer(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.JWTExpireMinutes)
	if err != nil {
		logger.Fatalf("Failed to initialize token issuer: %v", err)
	}
	svc := service.NewService(repo, repo, issuer, logger)
	h := handler.NewHandler(svc, logger)

	// Setup router
	r := mux.NewRouter()
	r.HandleFunc("/", h.Root).Methods("GET")
	r.HandleFunc("/health", h.Health).Methods("GET")
	// Public routes
	r.HandleFunc("/api/auth/signup", h.Signup).Methods("POST")
	r.HandleFunc("/api/auth/login", h.Login).Methods("POST")
	// Protected routes
	taskRouter := r.PathPrefix("/api/tasks").Subrouter()
	taskRouter.Use(middleware.AuthMiddleware(issuer))
	taskRouter.HandleFunc("", h.ListTasks).Methods("GET")
	taskRouter.HandleFunc("", h.CreateTask).Methods("POST")
	taskRouter.HandleFunc("/export", h.ExportTasks).Methods("GET")
	taskRouter.HandleFunc("/{id:[0-9]+}", h.GetTask).Methods("GET")
	taskRouter.HandleFunc("/{id:[0-9]+}", h.UpdateTask).Methods("PUT")
	taskRouter.HandleFunc("/{id:[0-9]+}", h.DeleteTask).Methods("DELETE")
	taskRouter.HandleFunc("/{id:[0-9]+}/complete", h.ToggleTask).Methods("PATCH")

	// Optional Redis-backed rate limiting
	if cfg.RedisAddr != "" {
		limiter, err := middleware.NewRateLimiter(context.Background(), cfg, logger)
		if err != nil {
			logger.Fatalf("Failed to initialize rate limiter: %v", err)
		}
		r.Use(limiter.Middleware)
	}

	// Optional open-task digest emails
	if cfg.SMTPConfigured() {
		sender := email.NewSender(cfg, logger)
		scheduler := digest.NewScheduler(repo, sender, cfg.DigestCron, logger)
		if err := scheduler.Start(); err != nil {
			logger.Fatalf("Failed to start digest scheduler: %v", err)
		}
		defer scheduler.Stop()
	}

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
