package server

import (
	"log/slog"
	"net/http"

	"sales-dashboard/internal/handlers"
	"sales-dashboard/internal/services"
)

type Server struct {
	analytics        *services.Analytics
	mux              *http.ServeMux
	logger           *slog.Logger
	apiHandlers      *handlers.APIHandlers
	sseHandlers      *handlers.SSEHandlers
	templateHandlers *TemplateHandlers
}

// TemplateHandlers holds the page handlers rendered by the entrypoint.
type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(analytics *services.Analytics, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		analytics:        analytics,
		mux:              http.NewServeMux(),
		logger:           logger,
		apiHandlers:      handlers.NewAPIHandlers(analytics, logger),
		sseHandlers:      handlers.NewSSEHandlers(analytics, logger),
		templateHandlers: templateHandlers,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	if s.templateHandlers != nil && s.templateHandlers.Dashboard != nil {
		s.mux.HandleFunc("GET /{$}", s.templateHandlers.Dashboard)
	}

	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	s.mux.HandleFunc("GET /api/categories", s.apiHandlers.HandleCategories)
	s.mux.HandleFunc("GET /api/summary", s.apiHandlers.HandleSummary)
	s.mux.HandleFunc("GET /api/transactions", s.apiHandlers.HandleTransactions)

	s.mux.HandleFunc("GET /sse/dashboard", s.sseHandlers.HandleDashboard)
	s.mux.HandleFunc("GET /sse/categories", s.sseHandlers.HandleCategories)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
