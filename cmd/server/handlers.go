package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/himanishpuri/DupeDNA/pkg/dupedna"
	"github.com/himanishpuri/DupeDNA/pkg/dupedna/report"
	"github.com/himanishpuri/DupeDNA/pkg/dupedna/script"
	"github.com/himanishpuri/DupeDNA/pkg/logger"
)

// Server encapsulates the HTTP server and its dependencies
type Server struct {
	service dupedna.Service
	config  *ServerConfig
	log     dupedna.Logger
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	DBFolder       string
	SourceRoot     string
	Defaults       dupedna.FindOptions
	AllowedOrigins []string
}

// NewServer creates a new server instance
func NewServer(service dupedna.Service, config *ServerConfig) *Server {
	return &Server{
		service: service,
		config:  config,
		log:     logger.GetLogger(),
	}
}

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Errorf("Failed to encode JSON response: %v", err)
	}
}

// respondError writes an error response
func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	s.respondJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

// respondServiceError maps service error kinds onto HTTP statuses.
func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dupedna.ErrInvalidThreshold):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, dupedna.ErrSourceUnavailable):
		s.log.Errorf("Catalog unavailable: %v", err)
		s.respondError(w, http.StatusServiceUnavailable, "catalog unavailable")
	default:
		s.log.Errorf("Request failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) requireGET(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		s.respondError(w, http.StatusMethodNotAllowed, "only GET is supported")
		return false
	}
	return true
}

// handleRoot handles GET /
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"service": "DupeDNA preview API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"health":   "GET /health",
			"stats":    "GET /api/stats",
			"clusters": "GET /api/clusters?threshold=&top=",
			"plan":     "GET /api/plan?threshold=&top=&format=json|script",
		},
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleStats handles GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if !s.requireGET(w, r) {
		return
	}
	stats, err := s.service.CatalogStats(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, StatsResponse{
		Images:           stats.Images,
		Albums:           stats.Albums,
		SimilarityPairs:  stats.SimilarityPairs,
		CatalogPath:      stats.CatalogPath,
		SimilarityDBPath: stats.SimilarityDBPath,
	})
}

// handleClusters handles GET /api/clusters
func (s *Server) handleClusters(w http.ResponseWriter, r *http.Request) {
	if !s.requireGET(w, r) {
		return
	}
	q, err := parseFindQuery(r.URL.Query(), s.config.Defaults)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rep, err := s.service.FindDuplicates(r.Context(), q.options())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, ClustersResponse{
		Document:         report.NewDocument(rep),
		ReclaimableHuman: humanize.Bytes(uint64(rep.ReclaimableBytes)),
	})
}

// handlePlan handles GET /api/plan. format=script returns the bash script
// the CLI would write, without touching the filesystem.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	if !s.requireGET(w, r) {
		return
	}
	q, err := parseFindQuery(r.URL.Query(), s.config.Defaults)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if q.Format != "json" && q.Format != "script" {
		s.respondError(w, http.StatusBadRequest, "format must be json or script")
		return
	}

	rep, err := s.service.FindDuplicates(r.Context(), q.options())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	if q.Format == "script" {
		w.Header().Set("Content-Type", "text/x-shellscript; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="move_duplicates.sh"`)
		w.WriteHeader(http.StatusOK)
		if err := script.NewWriter(script.WithSourceRoot(s.config.SourceRoot)).Render(w, rep.Plan); err != nil {
			s.log.Errorf("Failed to render script: %v", err)
		}
		return
	}

	doc := report.NewDocument(rep)
	s.respondJSON(w, http.StatusOK, PlanResponse{
		RunID:       rep.RunID,
		Destination: rep.Destination,
		Moves:       doc.Plan,
		Count:       len(doc.Plan),
	})
}
