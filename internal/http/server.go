package http

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"milkyfeast/internal/core"
	applog "milkyfeast/internal/log"
	"milkyfeast/internal/storage"
)

// TransactionRecorder appends a validated transaction to the ledger and
// fans out the recorded event.
type TransactionRecorder interface {
	Record(ctx context.Context, tx core.Transaction) (int64, error)
}

// Server is the MilkyFeast REST API.
type Server struct {
	http.Server
	store        *storage.SQLiteRepository
	transactions TransactionRecorder
	logger       *applog.Logger
	metrics      *apiMetrics
	registry     *prometheus.Registry
}

// NewServer builds the router with logging, metrics and optional per-IP
// rate limiting. rateLimitPerMinute <= 0 disables the limiter.
func NewServer(addr string, store *storage.SQLiteRepository, transactions TransactionRecorder, logger *applog.Logger, rateLimitPerMinute int) *Server {
	registry := prometheus.NewRegistry()
	s := &Server{
		store:        store,
		transactions: transactions,
		logger:       logger,
		metrics:      newAPIMetrics(registry),
		registry:     registry,
	}

	s.Addr = addr
	s.Handler = s.routes(rateLimitPerMinute)
	return s
}

func (s *Server) routes(rateLimitPerMinute int) http.Handler {
	r := mux.NewRouter()
	r.Use(applog.Middleware(s.logger))
	r.Use(s.metrics.middleware)
	if rateLimitPerMinute > 0 {
		r.Use(newIPLimiter(rateLimitPerMinute).middleware)
	}

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/products", s.handleCreateProduct).Methods(http.MethodPost)
	api.HandleFunc("/products", s.handleListProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/{id:[0-9]+}", s.handleUpdateProduct).Methods(http.MethodPut)
	api.HandleFunc("/products/{id:[0-9]+}", s.handleDeleteProduct).Methods(http.MethodDelete)
	api.HandleFunc("/products/{id:[0-9]+}/status", s.handleToggleProductStatus).Methods(http.MethodPatch)

	api.HandleFunc("/workers", s.handleCreateWorker).Methods(http.MethodPost)
	api.HandleFunc("/workers", s.handleListWorkers).Methods(http.MethodGet)
	api.HandleFunc("/workers/{id:[0-9]+}", s.handleUpdateWorker).Methods(http.MethodPut)
	api.HandleFunc("/workers/{id:[0-9]+}", s.handleDeleteWorker).Methods(http.MethodDelete)
	api.HandleFunc("/workers/{id:[0-9]+}/status", s.handleToggleWorkerStatus).Methods(http.MethodPatch)

	api.HandleFunc("/distributors", s.handleCreateDistributor).Methods(http.MethodPost)
	api.HandleFunc("/distributors", s.handleListDistributors).Methods(http.MethodGet)
	api.HandleFunc("/distributors/{id:[0-9]+}", s.handleUpdateDistributor).Methods(http.MethodPut)
	api.HandleFunc("/distributors/{id:[0-9]+}", s.handleDeleteDistributor).Methods(http.MethodDelete)
	api.HandleFunc("/distributors/{id:[0-9]+}/status", s.handleToggleDistributorStatus).Methods(http.MethodPatch)

	api.HandleFunc("/partners", s.handleCreatePartner).Methods(http.MethodPost)
	api.HandleFunc("/partners", s.handleListPartners).Methods(http.MethodGet)
	api.HandleFunc("/partners/{id:[0-9]+}", s.handleUpdatePartner).Methods(http.MethodPut)
	api.HandleFunc("/partners/{id:[0-9]+}", s.handleDeletePartner).Methods(http.MethodDelete)
	api.HandleFunc("/partners/{id:[0-9]+}/status", s.handleTogglePartnerStatus).Methods(http.MethodPatch)

	api.HandleFunc("/transactions", s.handleCreateTransaction).Methods(http.MethodPost)
	api.HandleFunc("/transactions", s.handleListTransactions).Methods(http.MethodGet)
	api.HandleFunc("/transactions/reports/daily", s.handleDailyReport).Methods(http.MethodGet)
	api.HandleFunc("/transactions/reports/monthly", s.handleMonthlyReport).Methods(http.MethodGet)
	api.HandleFunc("/transactions/reports/profit-loss", s.handleProfitLoss).Methods(http.MethodGet)
	api.HandleFunc("/transactions/reports/ledger", s.handleLedger).Methods(http.MethodGet)

	api.HandleFunc("/dashboard/stats", s.handleDashboardStats).Methods(http.MethodGet)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	return r
}
