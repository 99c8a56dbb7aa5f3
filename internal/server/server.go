// Package server exposes problem generation over HTTP.
package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rpgo/mathgen/internal/domain"
	"github.com/rpgo/mathgen/internal/filter"
	"github.com/rpgo/mathgen/internal/generate"
	"github.com/rpgo/mathgen/internal/modules"
	"github.com/rpgo/mathgen/internal/output"
	"github.com/rpgo/mathgen/internal/split"
)

// MaxCount caps the problems returned by one request
const MaxCount = 1000

type Server struct {
	instance  uuid.UUID
	source    string
	registry  *modules.Registry
	limits    generate.Limits
	predicate *filter.Predicate
	logger    *slog.Logger
	router    *chi.Mux
	seed      func() int64
}

// NewServer builds the module registry once from a validated configuration
func NewServer(config *domain.Configuration, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	hash, err := split.HashByName(config.Hash)
	if err != nil {
		return nil, err
	}
	registry, err := modules.New(modules.Settings(config.Measurement, config.MaxAttempts, 1), split.New(hash))
	if err != nil {
		return nil, fmt.Errorf("failed to build modules: %w", err)
	}
	predicate, err := filter.Compile(config.Where)
	if err != nil {
		return nil, err
	}

	s := &Server{
		instance:  uuid.New(),
		source:    config.Source,
		registry:  registry,
		limits:    generate.LimitsFrom(config),
		predicate: predicate,
		logger:    logger,
		seed:      func() int64 { return time.Now().UnixNano() },
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/api/v1/health", s.handleHealth)
	r.Get("/api/v1/modules", s.handleListModules)
	r.Get("/api/v1/problems", s.handleProblems)

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// Health check handler
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "healthy",
		"instance": s.instance.String(),
	})
}

func (s *Server) handleListModules(w http.ResponseWriter, r *http.Request) {
	regimes := make(map[string][]string)
	for _, regime := range split.Regimes() {
		regimes[string(regime)] = s.registry.Names(regime)
	}
	respondJSON(w, http.StatusOK, map[string]any{"regimes": regimes})
}

type problemResponse struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type problemsResponse struct {
	Regime   string            `json:"regime"`
	Module   string            `json:"module"`
	Seed     int64             `json:"seed"`
	Problems []problemResponse `json:"problems"`
}

// Generation handler: /api/v1/problems?regime=train&module=time&count=5&seed=7
func (s *Server) handleProblems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	regime, err := split.ParseRegime(firstNonEmpty(q.Get("regime"), string(split.RegimeTrain)))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid regime", err)
		return
	}
	module, name, err := s.registry.Lookup(regime, q.Get("module"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Unknown module", err)
		return
	}
	count, err := intParam(q.Get("count"), 1)
	if err != nil || count < 1 || count > MaxCount {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("count must be between 1 and %d", MaxCount), err)
		return
	}
	seed := s.seed()
	if raw := q.Get("seed"); raw != "" {
		seed, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid seed", err)
			return
		}
	}

	batch := &domain.Batch{Source: s.source, Level: "api", Regime: string(regime), Module: name}
	rng := rand.New(rand.NewSource(seed))
	accept := s.accept(regime, name)
	for i := 0; i < count; i++ {
		if err := r.Context().Err(); err != nil {
			return
		}
		p, err := generate.SampleFromModule(module, rng, s.limits, accept)
		if err != nil {
			s.logger.Warn("generation failed", "module", name, "regime", regime, "error", err)
			respondError(w, http.StatusUnprocessableEntity, "Generation failed", err)
			return
		}
		batch.Problems = append(batch.Problems, p)
	}

	resp := problemsResponse{Regime: string(regime), Module: name, Seed: seed, Problems: make([]problemResponse, 0, count)}
	for i, p := range batch.Problems {
		resp.Problems = append(resp.Problems, problemResponse{
			ID:       output.RecordID(batch, i, p).String(),
			Question: p.Question,
			Answer:   p.AnswerText(),
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) accept(regime split.Regime, module string) generate.Accept {
	if s.predicate == nil {
		return nil
	}
	return func(p domain.Problem) (bool, error) {
		return s.predicate.Match(filter.Facts{
			Module:   module,
			Regime:   string(regime),
			Level:    "api",
			Question: p.Question,
			Answer:   p.AnswerText(),
		})
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]string{
		"error": message,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}
