package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	_ "library-api/docs"
	"library-api/internal/api/handler"
	mw "library-api/internal/api/middleware"
	"library-api/internal/config"
	"library-api/internal/domain/book"
	"library-api/internal/domain/loan"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const requestTimeout = 60 * time.Second

// SetupRouter wires every HTTP route of the library API. redisClient may be
// nil, in which case rate limiting stays in process memory. ctx bounds the
// lifetime of background helpers owned by the middleware.
func SetupRouter(
	ctx context.Context,
	bookService book.BookService,
	loanService loan.LoanService,
	cfg *config.Config,
	redisClient redis.Cmdable,
	logger *slog.Logger,
) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(ctx, router, cfg, redisClient, logger)
	setupMetricsEndpoint(router, cfg, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	setupSwaggerEndpoint(router, logger)
	setupAuthRoutes(router, cfg, logger)

	router.Route("/api", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		setupBookRoutes(r, bookService, loanService, logger)
		setupLoanRoutes(r, loanService, bookService, logger)
	})

	return router
}

func setupMiddleware(ctx context.Context, router *chi.Mux, cfg *config.Config, redisClient redis.Cmdable, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(requestTimeout))
	router.Use(mw.NewRateLimiterMiddleware(ctx, cfg.Server.RateLimit, redisClient, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupAuthRoutes(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	authHandler := handler.NewAuthHandler(cfg.Server.Auth, logger)
	router.Route("/auth", func(r chi.Router) {
		r.Post("/token", authHandler.GenerateBearerToken)
	})
}

func setupBookRoutes(r chi.Router, bookService book.BookService, loanService loan.LoanService, logger *slog.Logger) {
	h := handler.NewBookHandler(bookService, loanService, logger)

	r.Route("/books", func(r chi.Router) {
		r.Post("/", h.CreateBook)
		r.Get("/", h.FindBooks)
		r.Route("/{bookID}", func(r chi.Router) {
			r.Get("/", h.GetBook)
			r.Put("/", h.UpdateBook)
			r.Delete("/", h.DeleteBook)
			r.Get("/loans", h.GetBookLoans)
		})
	})
}

func setupLoanRoutes(r chi.Router, loanService loan.LoanService, bookService book.BookService, logger *slog.Logger) {
	h := handler.NewLoanHandler(loanService, bookService, logger)

	r.Route("/loans", func(r chi.Router) {
		r.Post("/", h.CreateLoan)
		r.Get("/", h.FindLoans)
		r.Route("/{loanID}", func(r chi.Router) {
			r.Get("/", h.GetLoan)
			r.Patch("/", h.ReturnBook)
		})
	})
}
