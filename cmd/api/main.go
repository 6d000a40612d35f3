package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kasbookhq/kasbook-backend/api/routes"
	"github.com/kasbookhq/kasbook-backend/internal/accounts"
	"github.com/kasbookhq/kasbook-backend/internal/contacts"
	"github.com/kasbookhq/kasbook-backend/internal/debts"
	"github.com/kasbookhq/kasbook-backend/internal/orders"
	"github.com/kasbookhq/kasbook-backend/internal/purchases"
	"github.com/kasbookhq/kasbook-backend/internal/reports"
	"github.com/kasbookhq/kasbook-backend/internal/stock"
	"github.com/kasbookhq/kasbook-backend/internal/transactions"
	"github.com/kasbookhq/kasbook-backend/pkg/config"
	"github.com/kasbookhq/kasbook-backend/pkg/db"
	"github.com/kasbookhq/kasbook-backend/pkg/logger"
	"github.com/kasbookhq/kasbook-backend/pkg/metrics"
	"github.com/kasbookhq/kasbook-backend/pkg/migrate"
	"github.com/kasbookhq/kasbook-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, idempotency protection disabled")
	}

	registry := prometheus.NewRegistry()
	ledgerMetrics := metrics.NewLedgerMetrics(registry)

	gormDB := dbClient.DB()
	accountRepo := accounts.NewRepository(gormDB)
	txnRepo := transactions.NewRepository(gormDB)
	debtRepo := debts.NewRepository(gormDB)
	stockRepo := stock.NewRepository(gormDB)
	orderRepo := orders.NewRepository(gormDB)
	purchaseRepo := purchases.NewRepository(gormDB)
	contactRepo := contacts.NewRepository(gormDB)

	accountSvc, err := accounts.NewService(accountRepo)
	exitOnWiringError(logg, "accounts", err)

	txnSvc, err := transactions.NewService(dbClient, txnRepo, accountRepo, debtRepo, ledgerMetrics)
	exitOnWiringError(logg, "transactions", err)

	debtSvc, err := debts.NewService(debtRepo)
	exitOnWiringError(logg, "debts", err)

	stockSvc, err := stock.NewService(dbClient, stockRepo, ledgerMetrics)
	exitOnWiringError(logg, "stock", err)

	orderSvc, err := orders.NewService(dbClient, orderRepo, txnRepo, accountRepo, debtRepo, ledgerMetrics)
	exitOnWiringError(logg, "orders", err)

	purchaseSvc, err := purchases.NewService(dbClient, purchaseRepo, txnRepo, accountRepo, debtRepo, ledgerMetrics)
	exitOnWiringError(logg, "purchases", err)

	reportSvc, err := reports.NewService(gormDB)
	exitOnWiringError(logg, "reports", err)

	contactSvc, err := contacts.NewService(contactRepo)
	exitOnWiringError(logg, "contacts", err)

	router := routes.NewRouter(routes.Deps{
		Config:          cfg,
		Logger:          logg,
		DBPinger:        dbClient,
		RedisClient:     redisClient,
		Accounts:        accountSvc,
		Transactions:    txnSvc,
		Debts:           debtSvc,
		Stock:           stockSvc,
		Orders:          orderSvc,
		Purchases:       purchaseSvc,
		Reports:         reportSvc,
		Contacts:        contactSvc,
		MetricsGatherer: registry,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func exitOnWiringError(logg *logger.Logger, service string, err error) {
	if err == nil {
		return
	}
	ctx := logg.WithField(context.Background(), "service", service)
	logg.Error(ctx, "failed to wire service", err)
	os.Exit(1)
}
