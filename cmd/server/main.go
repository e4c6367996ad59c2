package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/securecommand/securecommand/internal/api"
	v1 "github.com/securecommand/securecommand/internal/api/v1"
	"github.com/securecommand/securecommand/internal/auth"
	"github.com/securecommand/securecommand/internal/cache"
	"github.com/securecommand/securecommand/internal/config"
	"github.com/securecommand/securecommand/internal/logger"
	"github.com/securecommand/securecommand/internal/postgres"
	"github.com/securecommand/securecommand/internal/repository"
	"github.com/securecommand/securecommand/internal/service"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logg, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := context.Background()
	client, err := postgres.NewClient(ctx, cfg, logg)
	if err != nil {
		logg.Fatalf("failed to connect to postgres: %v", err)
	}
	defer client.Close()

	cache.InitializeInMemoryCache()

	repos := repository.NewRepositories(client, logg)
	params := service.ServiceParams{
		Logger:       logg,
		Config:       cfg,
		DB:           client,
		CompanyRepo:  repos.CompanyRepo,
		PlanRepo:     repos.PlanRepo,
		GuardRepo:    repos.GuardRepo,
		InvoiceRepo:  repos.InvoiceRepo,
		SettingsRepo: repos.SettingsRepo,
		Cache:        cache.GetInMemoryCache(),
	}

	planService := service.NewPlanService(params)
	companyService := service.NewCompanyService(params)
	guardService := service.NewGuardService(params)
	invoiceService := service.NewInvoiceService(params)
	pricingService := service.NewPricingService(params)
	settingsService := service.NewSettingsService(params)

	provider := auth.NewProvider(cfg, logg)

	router := api.NewRouter(api.Handlers{
		Plan:    v1.NewPlanHandler(planService, logg),
		Company: v1.NewCompanyHandler(companyService, guardService, logg),
		Invoice: v1.NewInvoiceHandler(invoiceService, logg),
		Billing: v1.NewBillingHandler(settingsService, pricingService, logg),
	}, cfg, logg, provider)

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	go func() {
		logg.Infow("starting server", "address", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Infow("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Errorw("forced shutdown", "error", err)
	}
}
