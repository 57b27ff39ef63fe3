package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/samidev/credit-service/internal/cache"
	"github.com/samidev/credit-service/internal/config"
	"github.com/samidev/credit-service/internal/handler"
	"github.com/samidev/credit-service/internal/jobs"
	"github.com/samidev/credit-service/internal/middleware"
	"github.com/samidev/credit-service/internal/notify"
	"github.com/samidev/credit-service/internal/repository"
	"github.com/samidev/credit-service/internal/service"
)

func main() {
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

	// Optional Redis cache for list responses
	var listCache cache.Cache
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisCache(cfg.RedisAddr)
		if err := redisCache.Ping(); err != nil {
			logger.Fatalf("Failed to ping Redis: %v", err)
		}
		listCache = redisCache
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, listCache, logger)
	h := handler.NewHandler(svc)

	// Installment reminder job
	if cfg.SMTPHost != "" {
		sender := notify.NewSender(cfg, logger)
		reminder := jobs.NewReminder(repo, sender, logger, cfg.ReminderDays)
		c := cron.New()
		if _, err := c.AddJob(cfg.ReminderCron, reminder); err != nil {
			logger.Fatalf("Failed to schedule reminder job: %v", err)
		}
		c.Start()
		defer c.Stop()
	}

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.Logging(logger))
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/customers", h.CreateCustomer).Methods("POST")
	api.HandleFunc("/customers", h.ListCustomers).Methods("GET")
	api.HandleFunc("/customers/{id}", h.GetCustomer).Methods("GET")
	api.HandleFunc("/customers/{id}", h.UpdateCustomer).Methods("PUT")
	api.HandleFunc("/customers/{id}", h.DeleteCustomer).Methods("DELETE")
	api.HandleFunc("/loans", h.CreateLoan).Methods("POST")
	api.HandleFunc("/loans", h.ListLoans).Methods("GET")
	api.HandleFunc("/loans/{loanId}/installments", h.ListInstallments).Methods("GET")
	api.HandleFunc("/loans/{loanId}/pay", h.PayLoan).Methods("POST")

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
