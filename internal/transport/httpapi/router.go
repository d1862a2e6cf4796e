package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/samantha-blablabla/MyVault-sub000/internal/transport/httpapi/handler"
	"github.com/samantha-blablabla/MyVault-sub000/internal/transport/httpapi/middleware"
	"github.com/samantha-blablabla/MyVault-sub000/pkg/logger"
)

// Config holds router configuration
type Config struct {
	Logger             *logger.Logger
	AllowedOrigins     []string
	AuthHandler        *handler.AuthHandler
	TransactionHandler *handler.TransactionHandler
	PortfolioHandler   *handler.PortfolioHandler
	BudgetHandler      *handler.BudgetHandler
	AdvisoryHandler    *handler.AdvisoryHandler
	GoalHandler        *handler.GoalHandler
	MarketHandler      *handler.MarketHandler
	HealthHandler      *handler.HealthHandler
	JWTMiddleware      func(http.Handler) http.Handler
}

// NewRouter creates a new HTTP router
func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.RateLimit()) // Rate limiting: 100 req/s with burst of 20

	// Health check endpoints (no authentication required)
	r.Get("/health", handler.GetHealth)
	r.Get("/health/live", handler.GetLiveness)
	if cfg.HealthHandler != nil {
		r.Get("/health/ready", cfg.HealthHandler.GetReadiness)
	}

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Auth routes (public - no authentication required)
		if cfg.AuthHandler != nil {
			r.Post("/auth/login", cfg.AuthHandler.Login)
		}

		// Protected routes (require JWT authentication)
		if cfg.JWTMiddleware != nil {
			r.Group(func(r chi.Router) {
				r.Use(cfg.JWTMiddleware)

				// Token refresh (requires a still-valid token)
				if cfg.AuthHandler != nil {
					r.Post("/auth/refresh", cfg.AuthHandler.Refresh)
				}

				// Ledger routes
				if cfg.TransactionHandler != nil {
					r.Get("/transactions", cfg.TransactionHandler.GetTransactions)
					r.Post("/transactions", cfg.TransactionHandler.CreateTransaction)
					r.Post("/transactions/scan", cfg.TransactionHandler.ScanReceipt)
					r.Patch("/transactions/{id}", cfg.TransactionHandler.UpdateTransaction)
					r.Delete("/transactions/{id}", cfg.TransactionHandler.DeleteTransaction)
				}

				// Portfolio routes
				if cfg.PortfolioHandler != nil {
					r.Get("/portfolio", cfg.PortfolioHandler.GetPortfolio)
					r.Put("/portfolio/targets/{symbol}", cfg.PortfolioHandler.SetTarget)
				}

				// Budget routes
				if cfg.BudgetHandler != nil {
					r.Route("/budget", func(r chi.Router) {
						r.Get("/", cfg.BudgetHandler.GetBudget)
						r.Put("/rules", cfg.BudgetHandler.SetRules)
						r.Put("/income", cfg.BudgetHandler.SetIncome)
						r.Post("/bills", cfg.BudgetHandler.CreateBill)
						r.Put("/bills/{id}", cfg.BudgetHandler.UpdateBill)
						r.Delete("/bills/{id}", cfg.BudgetHandler.DeleteBill)
						r.Post("/bills/{id}/toggle", cfg.BudgetHandler.ToggleBill)
					})
				}

				// Advisory routes
				if cfg.AdvisoryHandler != nil {
					r.Get("/advisory", cfg.AdvisoryHandler.GetAdvisory)
				}

				// Goal and settings routes
				if cfg.GoalHandler != nil {
					r.Get("/goals", cfg.GoalHandler.GetGoals)
					r.Post("/goals", cfg.GoalHandler.CreateGoal)
					r.Put("/goals/{id}", cfg.GoalHandler.UpdateGoal)
					r.Delete("/goals/{id}", cfg.GoalHandler.DeleteGoal)
					r.Put("/shopping-plan", cfg.GoalHandler.SetShoppingPlan)
					r.Delete("/shopping-plan", cfg.GoalHandler.ClearShoppingPlan)
					r.Put("/settings/privacy", cfg.GoalHandler.SetPrivacy)
				}

				// Market routes
				if cfg.MarketHandler != nil {
					r.Get("/market/signals", cfg.MarketHandler.GetSignals)
					r.Get("/market/universe", cfg.MarketHandler.GetUniverse)
				}
			})
		}
	})

	return r
}
