package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mart-backend/internal/auth"
	"mart-backend/internal/cache"
	"mart-backend/internal/config"
	"mart-backend/internal/database"
	"mart-backend/internal/db"
	"mart-backend/internal/handlers"
	"mart-backend/internal/health"
	h "mart-backend/internal/http"
	"mart-backend/internal/ledger"
	"mart-backend/internal/middleware"
	"mart-backend/internal/repositories"
	"mart-backend/internal/services"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	pool := db.Connect(cfg)
	defer pool.Close()

	// Redis is optional, reads fall through to Postgres when it is down
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	log.Println("Running database migrations...")
	migrator := database.NewMigrator(pool)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := migrator.RunMigrations(ctx); err != nil {
		cancel()
		log.Fatalf("Failed to run migrations: %v", err)
	}
	cancel()

	jwtManager := auth.NewJWTManager(cfg)

	userRepo := repositories.NewUserRepository(pool)
	productRepo := repositories.NewProductRepository(pool)
	martRepo := repositories.NewMartRepository(pool)

	catalogService := services.NewCatalogService(productRepo)
	if err := catalogService.Load(context.Background()); err != nil {
		log.Fatalf("Failed to load product catalog: %v", err)
	}

	engine := ledger.NewEngine(catalogService, cfg.Ledger.StrictStock)
	if cfg.Ledger.StrictStock {
		log.Println("[Ledger] Strict stock mode enabled, oversells will be rejected")
	}

	userService := services.NewUserService(userRepo, jwtManager)
	martService := services.NewMartService(martRepo, engine)
	invoiceService := services.NewInvoiceService(catalogService)

	healthChecker := health.NewHealthChecker(pool)

	authHandler := handlers.NewAuthHandler(userService)
	martHandler := handlers.NewMartHandler(martService)
	productHandler := handlers.NewProductHandler(catalogService)
	invoiceHandler := handlers.NewInvoiceHandler(martService, invoiceService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	router := h.NewRouter(authHandler, martHandler, productHandler, invoiceHandler, healthHandler, authMiddleware)
	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
