// Package main is the entry point for the bottle-days API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bottledays/internal/domain/auth"
	"bottledays/internal/domain/companies"
	"bottledays/internal/domain/report"
	"bottledays/internal/infrastructure/export"
	v1 "bottledays/internal/infrastructure/http/v1"
	"bottledays/internal/infrastructure/storage/postgres"
	"bottledays/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting bottledays server")

	// --- Database connection ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatalw("failed to apply schema", "error", err)
	}

	// --- Repositories ---
	eventRepo := postgres.NewEventRepo(pool)
	companyRepo := postgres.NewCompanyRepo(pool)

	// --- JWT Service ---
	jwtSecret := getEnv("JWT_SECRET", "your-secret-key-change-in-production")
	jwtConfig := auth.DefaultJWTConfig(jwtSecret)
	if ttl := getEnvDuration("JWT_TTL", 0); ttl > 0 {
		jwtConfig.AccessTokenTTL = ttl
	}
	jwtService := auth.NewJWTService(jwtConfig)

	// --- Auth Service ---
	accounts, err := parseAccounts(getEnv("API_ACCOUNTS", ""))
	if err != nil {
		log.Fatalw("failed to parse API_ACCOUNTS", "error", err)
	}
	if len(accounts) == 0 {
		log.Warn("no API accounts configured, login is impossible")
	}
	authService := auth.NewService(accounts, jwtService)

	// --- Report Service ---
	companyService := companies.NewService(companyRepo)
	reportService := report.NewService(eventRepo, companyRepo, report.NewEngine(nil))

	exporter, err := export.NewExporter()
	if err != nil {
		log.Fatalw("failed to create exporter", "error", err)
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:           pool,
		Logger:         log,
		JWTValidator:   authService,
		AuthService:    authService,
		ReportService:  reportService,
		CompanyService: companyService,
		Exporter:       exporter,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

// parseAccounts parses API_ACCOUNTS: semicolon-separated entries of
// "username:display name:bcrypt-hash". Bcrypt hashes never contain colons,
// so splitting on the first two is safe.
func parseAccounts(raw string) ([]auth.Account, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var accounts []auth.Account
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("malformed account entry %q, want username:name:hash", entry)
		}
		accounts = append(accounts, auth.Account{
			Username:     strings.TrimSpace(parts[0]),
			Name:         strings.TrimSpace(parts[1]),
			PasswordHash: strings.TrimSpace(parts[2]),
		})
	}
	return accounts, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
