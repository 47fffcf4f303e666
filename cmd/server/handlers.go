package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tanmaydutta/NMRPeakMatch/internal/metrics"
	"github.com/tanmaydutta/NMRPeakMatch/pkg/config"
	"github.com/tanmaydutta/NMRPeakMatch/pkg/logger"
	"github.com/tanmaydutta/NMRPeakMatch/pkg/models"
	"github.com/tanmaydutta/NMRPeakMatch/pkg/peakmatch"
	"github.com/tanmaydutta/NMRPeakMatch/pkg/peakmatch/mixture"
	"github.com/tanmaydutta/NMRPeakMatch/pkg/peakmatch/spectra"
	"github.com/tanmaydutta/NMRPeakMatch/pkg/peakmatch/storage"
)

// Server encapsulates the HTTP server and its dependencies
type Server struct {
	service peakmatch.Service
	config  *config.Config
	origins []string
	log     peakmatch.Logger
}

// NewServer creates a new server instance
func NewServer(service peakmatch.Service, cfg *config.Config, origins []string) *Server {
	return &Server{
		service: service,
		config:  cfg,
		origins: origins,
		log:     logger.GetLogger(),
	}
}

// seed imports the configured compound file into an empty database.
func (s *Server) seed(path string) {
	n, err := s.service.ImportCompounds(context.Background(), path)
	if err != nil {
		s.log.Errorf("Seed import failed: %v", err)
		return
	}
	if n > 0 {
		s.log.Infof("Seeded %d compounds from %s", n, path)
	}
}

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
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

func (s *Server) respondCompoundList(w http.ResponseWriter, compounds []models.Compound) {
	dtos := make([]CompoundDTO, len(compounds))
	for i := range compounds {
		dtos[i] = toCompoundDTO(&compounds[i])
	}
	s.respondJSON(w, http.StatusOK, ListCompoundsResponse{
		Compounds: dtos,
		Count:     len(dtos),
	})
}

// handleRoot handles GET /
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": "NMRPeakMatch API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"health":         "GET /health",
			"metrics":        "GET /metrics",
			"stats":          "GET /api/stats",
			"compounds":      "GET /api/compounds",
			"addCompound":    "POST /api/compounds",
			"getCompound":    "GET /api/compounds/{id}",
			"updateCompound": "PUT /api/compounds/{id}",
			"deleteCompound": "DELETE /api/compounds/{id}",
			"searchByName":   "GET /api/compounds/search?name=...",
			"searchByPeak":   "GET /api/compounds/search?kind=hsqc&axis1=...&axis2=...",
			"analyze":        "POST /api/analyze",
			"quickMatch":     "POST /api/quickmatch",
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
	stats, err := s.service.Stats()
	if err != nil {
		s.log.Errorf("Failed to get database stats: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to retrieve stats")
		return
	}

	metrics.CompoundsTotal.Set(float64(stats.Compounds))
	metrics.ReferencePeaksTotal.Set(float64(stats.Peaks))

	s.respondJSON(w, http.StatusOK, StatsResponse{
		Status:        "healthy",
		DatabasePath:  s.config.Database.Path,
		CompoundCount: stats.Compounds,
		PeakCount:     stats.Peaks,
	})
}

// handleListCompounds handles GET /api/compounds
func (s *Server) handleListCompounds(w http.ResponseWriter, r *http.Request) {
	compounds, err := s.service.ListCompounds()
	if err != nil {
		s.log.Errorf("Failed to list compounds: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to retrieve compounds")
		return
	}
	s.respondCompoundList(w, compounds)
}

// handleAddCompound handles POST /api/compounds
func (s *Server) handleAddCompound(w http.ResponseWriter, r *http.Request) {
	var req CompoundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.log.Errorf("Failed to decode request: %v", err)
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.service.AddCompound(r.Context(), req.ToInput())
	if err != nil {
		metrics.CompoundWrites.WithLabelValues("create", "error").Inc()
		s.log.Errorf("Failed to add compound: %v", err)
		s.respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to add compound: %v", err))
		return
	}

	metrics.CompoundWrites.WithLabelValues("create", "ok").Inc()
	s.respondJSON(w, http.StatusCreated, AddCompoundResponse{
		Message: "Compound added successfully",
		ID:      id,
		Name:    strings.TrimSpace(req.Name),
	})
}

// handleGetCompound handles GET /api/compounds/{id}
func (s *Server) handleGetCompound(w http.ResponseWriter, r *http.Request, id string) {
	compound, err := s.service.GetCompound(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, fmt.Sprintf("Compound %s not found", id))
			return
		}
		s.log.Errorf("Failed to get compound %s: %v", id, err)
		s.respondError(w, http.StatusInternalServerError, "Failed to retrieve compound")
		return
	}
	s.respondJSON(w, http.StatusOK, toCompoundDTO(compound))
}

// handleUpdateCompound handles PUT /api/compounds/{id}
func (s *Server) handleUpdateCompound(w http.ResponseWriter, r *http.Request, id string) {
	var req CompoundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.log.Errorf("Failed to decode request: %v", err)
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.service.UpdateCompound(r.Context(), id, req.ToInput()); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, fmt.Sprintf("Compound %s not found", id))
			return
		}
		metrics.CompoundWrites.WithLabelValues("update", "error").Inc()
		s.log.Errorf("Failed to update compound %s: %v", id, err)
		s.respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to update compound: %v", err))
		return
	}

	metrics.CompoundWrites.WithLabelValues("update", "ok").Inc()
	s.respondJSON(w, http.StatusOK, map[string]string{
		"message": "Compound updated successfully",
		"id":      id,
	})
}

// handleDeleteCompound handles DELETE /api/compounds/{id}
func (s *Server) handleDeleteCompound(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.service.DeleteCompound(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, fmt.Sprintf("Compound %s not found", id))
			return
		}
		metrics.CompoundWrites.WithLabelValues("delete", "error").Inc()
		s.log.Errorf("Failed to delete compound %s: %v", id, err)
		s.respondError(w, http.StatusInternalServerError, "Failed to delete compound")
		return
	}

	metrics.CompoundWrites.WithLabelValues("delete", "ok").Inc()
	s.respondJSON(w, http.StatusOK, DeleteCompoundResponse{
		Message: "Compound deleted successfully",
		ID:      id,
	})
}

// handleSearchCompounds handles GET /api/compounds/search. A name query
// searches by substring; a kind plus at least one axis searches by peak
// position.
func (s *Server) handleSearchCompounds(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if name := q.Get("name"); name != "" {
		compounds, err := s.service.FindCompoundsByName(name)
		if err != nil {
			s.log.Errorf("Name search failed: %v", err)
			s.respondError(w, http.StatusInternalServerError, "Search failed")
			return
		}
		s.respondCompoundList(w, compounds)
		return
	}

	rawKind := strings.ToLower(q.Get("kind"))
	if rawKind == "all" {
		rawKind = ""
	}
	kind := spectra.SpectrumType(rawKind)
	if kind != "" && !kind.Valid() {
		s.respondError(w, http.StatusBadRequest, "kind must be hsqc, cosy, hmbc or all (or provide a name query)")
		return
	}

	axis1, err := parseAxisParam(q, "axis1")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	axis2, err := parseAxisParam(q, "axis2")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if axis1 == nil && axis2 == nil {
		s.respondError(w, http.StatusBadRequest, "at least one of axis1, axis2 is required")
		return
	}

	compounds, err := s.service.FindCompoundsByPeak(kind, axis1, axis2)
	if err != nil {
		s.log.Errorf("Peak search failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Search failed")
		return
	}
	s.respondCompoundList(w, compounds)
}

func parseAxisParam(q url.Values, key string) (*float64, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return &v, nil
}

// handleAnalyze handles POST /api/analyze
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.log.Errorf("Failed to decode request: %v", err)
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	analysisReq := peakmatch.AnalysisRequest{
		HSQCPeaks:  req.HSQCPeaks,
		COSYPeaks:  req.COSYPeaks,
		HMBCPeaks:  req.HMBCPeaks,
		ToleranceH: req.ToleranceH,
		ToleranceC: req.ToleranceC,
	}
	if req.Calibration != nil {
		analysisReq.Calibration = &peakmatch.CalibrationRef{
			Axis1: req.Calibration.Axis1,
			Axis2: req.Calibration.Axis2,
		}
	}

	start := time.Now()
	result, err := s.service.Analyze(ctx, analysisReq)
	metrics.AnalysisDuration.WithLabelValues("full").Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, mixture.ErrNoPeaks) {
			metrics.AnalysisTotal.WithLabelValues("full", "empty").Inc()
			s.respondError(w, http.StatusBadRequest, "No parseable peaks in the submitted lists")
			return
		}
		metrics.AnalysisTotal.WithLabelValues("full", "error").Inc()
		s.log.Errorf("Analysis failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, fmt.Sprintf("Analysis failed: %v", err))
		return
	}

	metrics.AnalysisTotal.WithLabelValues("full", "ok").Inc()
	metrics.CompoundsDetected.Observe(float64(len(result.Detected)))
	s.respondJSON(w, http.StatusOK, toAnalyzeResponse(result))
}

// handleQuickMatch handles POST /api/quickmatch
func (s *Server) handleQuickMatch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var req QuickMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.log.Errorf("Failed to decode request: %v", err)
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	result, err := s.service.QuickMatch(ctx, peakmatch.QuickRequest{
		Peaks:      req.Peaks,
		ToleranceH: req.ToleranceH,
		ToleranceC: req.ToleranceC,
	})
	metrics.AnalysisDuration.WithLabelValues("quick").Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, mixture.ErrNoPeaks) {
			metrics.AnalysisTotal.WithLabelValues("quick", "empty").Inc()
			s.respondError(w, http.StatusBadRequest, "No parseable peaks in the submitted list")
			return
		}
		metrics.AnalysisTotal.WithLabelValues("quick", "error").Inc()
		s.log.Errorf("Quick match failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, fmt.Sprintf("Quick match failed: %v", err))
		return
	}

	metrics.AnalysisTotal.WithLabelValues("quick", "ok").Inc()
	s.respondJSON(w, http.StatusOK, toQuickMatchResponse(result))
}

// handleCompounds routes requests to /api/compounds
func (s *Server) handleCompounds(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListCompounds(w, r)
	case http.MethodPost:
		s.handleAddCompound(w, r)
	default:
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleCompound routes requests to /api/compounds/{id}
func (s *Server) handleCompound(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Path[len("/api/compounds/"):]
	if id == "" {
		s.respondError(w, http.StatusBadRequest, "Compound ID required")
		return
	}
	if strings.ContainsRune(id, '/') {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGetCompound(w, r, id)
	case http.MethodPut:
		s.handleUpdateCompound(w, r, id)
	case http.MethodDelete:
		s.handleDeleteCompound(w, r, id)
	default:
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleSearch routes requests to /api/compounds/search
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.handleSearchCompounds(w, r)
}
