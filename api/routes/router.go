package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kasbookhq/kasbook-backend/api/controllers"
	"github.com/kasbookhq/kasbook-backend/api/middleware"
	"github.com/kasbookhq/kasbook-backend/internal/accounts"
	"github.com/kasbookhq/kasbook-backend/internal/contacts"
	"github.com/kasbookhq/kasbook-backend/internal/debts"
	"github.com/kasbookhq/kasbook-backend/internal/orders"
	"github.com/kasbookhq/kasbook-backend/internal/purchases"
	"github.com/kasbookhq/kasbook-backend/internal/reports"
	"github.com/kasbookhq/kasbook-backend/internal/stock"
	"github.com/kasbookhq/kasbook-backend/internal/transactions"
	"github.com/kasbookhq/kasbook-backend/pkg/config"
	"github.com/kasbookhq/kasbook-backend/pkg/logger"
	pkgredis "github.com/kasbookhq/kasbook-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs. Optional dependencies
// (redis, metrics) may be nil; the routes that need them degrade gracefully.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	DBPinger    controllers.Pinger
	RedisClient *pkgredis.Client

	Accounts     accounts.Service
	Transactions transactions.Service
	Debts        debts.Service
	Stock        stock.Service
	Orders       orders.Service
	Purchases    purchases.Service
	Reports      reports.Service
	Contacts     contacts.Service

	MetricsGatherer prometheus.Gatherer
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	var idemStore pkgredis.IdempotencyStore
	pingers := map[string]controllers.Pinger{"postgres": deps.DBPinger}
	if deps.RedisClient != nil {
		idemStore = deps.RedisClient
		pingers["redis"] = deps.RedisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, pingers))
	})

	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", controllers.AccountCreate(deps.Accounts, logg))
			r.Get("/", controllers.AccountList(deps.Accounts, logg))
			r.Get("/{id}", controllers.AccountGet(deps.Accounts, logg))
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", controllers.TransactionCreate(deps.Transactions, logg))
			r.Get("/", controllers.TransactionList(deps.Transactions, logg))
			r.Get("/{id}", controllers.TransactionGet(deps.Transactions, logg))
			r.Patch("/{id}", controllers.TransactionUpdate(deps.Transactions, logg))
			r.Delete("/{id}", controllers.TransactionDelete(deps.Transactions, logg))
			r.Post("/{id}/restore", controllers.TransactionRestore(deps.Transactions, logg))
		})

		r.Route("/debts", func(r chi.Router) {
			r.Get("/", controllers.DebtList(deps.Debts, logg))
			r.Get("/{id}", controllers.DebtGet(deps.Debts, logg))
			r.Post("/{id}/payments", controllers.DebtPay(deps.Debts, deps.Transactions, logg))
		})

		r.Route("/stock", func(r chi.Router) {
			r.Post("/", controllers.StockCreate(deps.Stock, logg))
			r.Get("/", controllers.StockList(deps.Stock, logg))
			r.Get("/{id}", controllers.StockGet(deps.Stock, logg))
			r.Post("/{id}/adjust", controllers.StockAdjust(deps.Stock, logg))
			r.Get("/{id}/mutations", controllers.StockMutations(deps.Stock, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderCreate(deps.Orders, logg))
			r.Get("/", controllers.OrderList(deps.Orders, logg))
			r.Get("/{id}", controllers.OrderGet(deps.Orders, logg))
			r.Post("/{id}/confirm", controllers.OrderConfirm(deps.Orders, logg))
		})

		r.Route("/purchases", func(r chi.Router) {
			r.Post("/", controllers.PurchaseCreate(deps.Purchases, logg))
			r.Get("/", controllers.PurchaseList(deps.Purchases, logg))
			r.Get("/{id}", controllers.PurchaseGet(deps.Purchases, logg))
			r.Post("/{id}/confirm", controllers.PurchaseConfirm(deps.Purchases, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/daily-cashflow", controllers.ReportDailyCashflow(deps.Reports, logg))
			r.Get("/profit-loss", controllers.ReportProfitLoss(deps.Reports, logg))
			r.Get("/debt-summary", controllers.ReportDebtSummary(deps.Reports, logg))
		})

		r.Route("/contacts", func(r chi.Router) {
			r.Post("/", controllers.ContactCreate(deps.Contacts, logg))
			r.Get("/", controllers.ContactList(deps.Contacts, logg))
			r.Get("/{id}", controllers.ContactGet(deps.Contacts, logg))
			r.Patch("/{id}", controllers.ContactUpdate(deps.Contacts, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", controllers.CategoryCreate(deps.Contacts, logg))
			r.Get("/", controllers.CategoryList(deps.Contacts, logg))
		})
	})

	return r
}
