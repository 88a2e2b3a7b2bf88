// Package web provides the HTTP server for the pipeline trigger surface and
// the entity admin API.
package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/cargoport/etl/internal/config"
	"github.com/cargoport/etl/internal/pipeline"
	"github.com/cargoport/etl/internal/store"
	"github.com/cargoport/etl/internal/web/middleware"
)

// Server is the HTTP server for the ETL service.
type Server struct {
	service *pipeline.Service
	store   *store.Store
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a new Server instance.
func NewServer(service *pipeline.Service, st *store.Store, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		store:   st,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		// Pipeline trigger surface
		r.Post("/etl/upload", s.handleUpload)
		r.Post("/etl/run", s.handleRunBatch)
		r.Get("/etl/status", s.handleStatus)

		// Customers
		r.Get("/customers", s.handleListCustomers)
		r.Post("/customers", s.handleCreateCustomer)
		r.Get("/customers/{id}", s.handleGetCustomer)
		r.Patch("/customers/{id}", s.handleUpdateCustomer)
		r.Delete("/customers/{id}", s.handleDeleteCustomer)
		r.Get("/customers/{id}/orders", s.handleListCustomerOrders)

		// Products
		r.Get("/products", s.handleListProducts)
		r.Post("/products", s.handleCreateProduct)
		r.Get("/products/{id}", s.handleGetProduct)
		r.Patch("/products/{id}", s.handleUpdateProduct)
		r.Delete("/products/{id}", s.handleDeleteProduct)

		// Orders
		r.Get("/orders", s.handleListOrders)
		r.Post("/orders", s.handleCreateOrder)
		r.Get("/orders/{id}", s.handleGetOrder)
		r.Patch("/orders/{id}", s.handleUpdateOrder)
		r.Delete("/orders/{id}", s.handleDeleteOrder)
		r.Get("/orders/{id}/items", s.handleListOrderItems)

		// Order items
		r.Post("/order-items", s.handleCreateOrderItem)
		r.Get("/order-items/{id}", s.handleGetOrderItem)
		r.Patch("/order-items/{id}", s.handleUpdateOrderItem)
		r.Delete("/order-items/{id}", s.handleDeleteOrderItem)

		// Code dictionaries
		r.Get("/dictionaries/{table}", s.handleListLookup)
		r.Post("/dictionaries/{table}", s.handleCreateLookup)
		r.Delete("/dictionaries/{table}/{id}", s.handleDeleteLookup)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// handleHealth reports service and database health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
