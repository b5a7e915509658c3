package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/pursuitworks/pursuit/internal/api/handlers"
	mw "github.com/pursuitworks/pursuit/internal/api/middleware"
	"github.com/pursuitworks/pursuit/internal/config"
	"github.com/pursuitworks/pursuit/internal/domain"
	"github.com/pursuitworks/pursuit/internal/embedding"
	"github.com/pursuitworks/pursuit/internal/ingest"
	"github.com/pursuitworks/pursuit/internal/llm"
	"github.com/pursuitworks/pursuit/internal/service"
	"github.com/pursuitworks/pursuit/internal/store"
)

// App holds the router plus server-level metrics.
type App struct {
	Router       *chi.Mux
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(db *pgxpool.Pool, logger *zap.Logger) (*App, error) {
	// Stores
	orgStore := store.NewOrgStore(db)
	rfpStore := store.NewRFPStore(db)
	extractionStore := store.NewExtractionStore(db)
	contradictionStore := store.NewContradictionStore(db)
	budgetStore := store.NewBudgetStore(db)

	// External clients via provider factories
	oracleClient, err := llm.NewClient(config.OracleProvider(), config.OracleAPIKey())
	if err != nil {
		return nil, err
	}
	logger.Info("oracle client initialized", zap.String("provider", config.OracleProvider()))

	embeddingClient, err := embedding.NewClient(config.EmbeddingProvider(), config.EmbeddingAPIKey())
	if err != nil {
		logger.Warn("embedding client initialization failed, semantic search disabled",
			zap.String("provider", config.EmbeddingProvider()), zap.Error(err))
		embeddingClient = nil
	} else {
		logger.Info("embedding client initialized", zap.String("provider", config.EmbeddingProvider()))
	}

	// Services
	ingestor := ingest.NewIngestor(logger)
	maxChars := config.MaxDocumentChars()

	extractor, err := service.NewExtractionService(oracleClient, maxChars, logger)
	if err != nil {
		return nil, err
	}
	detector := service.NewContradictionService(oracleClient, maxChars, logger)
	matcher := service.NewMatchingService(logger)

	rfpSvc := service.NewRFPService(
		rfpStore, extractionStore, contradictionStore, budgetStore,
		ingestor, extractor, detector, matcher, embeddingClient, logger,
	)
	budgetSvc := service.NewBudgetService(budgetStore, ingestor, oracleClient, embeddingClient, 0, logger)

	// Handlers
	orgHandler := handlers.NewOrgHandler(orgStore)
	rfpHandler := handlers.NewRFPHandler(rfpSvc)
	budgetHandler := handlers.NewBudgetHandler(budgetSvc)

	r := chi.NewRouter()
	app := &App{
		Router:    r,
		startTime: time.Now(),
	}

	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	// Health and metrics (no auth)
	r.Get("/health", healthHandler(db))
	r.Get("/metrics", app.metricsHandler())

	// Org creation (no auth, bootstrap endpoint)
	r.Post("/v1/orgs", orgHandler.Create)

	// Authenticated routes
	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(orgStore))

		r.Route("/rfps", func(r chi.Router) {
			r.Get("/", rfpHandler.List)
			r.Post("/upload", rfpHandler.Upload)
			r.Post("/quick-scan", rfpHandler.QuickScan)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", rfpHandler.GetByID)
				r.Patch("/", rfpHandler.Update)
				r.Post("/extract", rfpHandler.Extract)
				r.Get("/evidence", rfpHandler.Evidence)
				r.Get("/evidence/{field}", rfpHandler.EvidenceForField)
				r.Post("/contradictions", rfpHandler.DetectContradictions)
				r.Get("/contradictions", rfpHandler.ListContradictions)
				r.Get("/matches", rfpHandler.Matches)
				r.Post("/decide", rfpHandler.Decide)
			})
		})

		r.Post("/contradictions/{id}/feedback", rfpHandler.ContradictionFeedback)

		r.Route("/budgets", func(r chi.Router) {
			r.Get("/", budgetHandler.List)
			r.Post("/upload", budgetHandler.Upload)
			r.Get("/items/search", budgetHandler.Search)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", budgetHandler.GetByID)
				r.Post("/extract", budgetHandler.Extract)
				r.Get("/items", budgetHandler.LineItems)
			})
		})
	})

	return app, nil
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores and clients satisfy the domain interfaces at compile
// time.
var (
	_ domain.OrgStore           = (*store.OrgStore)(nil)
	_ domain.RFPStore           = (*store.RFPStore)(nil)
	_ domain.ExtractionStore    = (*store.ExtractionStore)(nil)
	_ domain.ContradictionStore = (*store.ContradictionStore)(nil)
	_ domain.BudgetStore        = (*store.BudgetStore)(nil)
	_ domain.OracleClient       = (*llm.AnthropicClient)(nil)
	_ domain.OracleClient       = (*llm.OpenAIClient)(nil)
	_ domain.OracleClient       = (*llm.MockClient)(nil)
	_ domain.EmbeddingClient    = (*embedding.OpenAIClient)(nil)
	_ domain.EmbeddingClient    = (*embedding.MockClient)(nil)
	_ service.TextIngestor      = (*ingest.Ingestor)(nil)
)
