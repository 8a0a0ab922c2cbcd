package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"crypto-dca-bot-go/internal/models"
	"go.uber.org/zap"
)

// APIServer exposes the engine's entry points over HTTP for out-of-scope
// UI/CLI layers.
type APIServer struct {
	server *http.Server
	engine *Engine
	logger *zap.Logger
}

// NewAPIServer creates a new APIServer listening on the given port.
func NewAPIServer(engine *Engine, logger *zap.Logger, port int) *APIServer {
	s := &APIServer{
		engine: engine,
		logger: logger.Named("api-server"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/strategies", s.createStrategyHandler)
	mux.HandleFunc("GET /api/strategies", s.listStrategiesHandler)
	mux.HandleFunc("POST /api/strategies/pause", s.pauseHandler)
	mux.HandleFunc("POST /api/strategies/resume", s.resumeHandler)
	mux.HandleFunc("POST /api/strategies/delete", s.deleteHandler)
	mux.HandleFunc("POST /api/strategies/trigger", s.triggerHandler)
	mux.HandleFunc("POST /api/tick", s.tickHandler)
	mux.HandleFunc("GET /api/purchases", s.purchasesHandler)
	mux.HandleFunc("GET /api/portfolio", s.portfolioHandler)
	mux.HandleFunc("GET /api/profitloss", s.profitLossHandler)
	mux.HandleFunc("GET /health", s.healthHandler)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	return s
}

// Start runs the HTTP server in a new goroutine.
func (s *APIServer) Start() {
	s.logger.Info("Starting API server", zap.String("address", s.server.Addr))
	go func() {
		if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
			s.logger.Error("API server failed", zap.Error(err))
		}
	}()
}

// Stop gracefully shuts down the server.
func (s *APIServer) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server...")
	return s.server.Shutdown(ctx)
}

func (s *APIServer) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}

// writeError maps engine errors onto HTTP statuses. A skip is reported as
// a 200 with a skipped payload because it is a controlled non-execution.
func (s *APIServer) writeError(w http.ResponseWriter, err error) {
	var skip *SkipError
	switch {
	case errors.As(err, &skip):
		s.writeJSON(w, http.StatusOK, map[string]interface{}{"skipped": true, "reason": skip.Reason})
	case errors.Is(err, ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrNotAuthorized):
		s.writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrAmountTooLow):
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrOracleUnavailable), errors.Is(err, ErrExecutionFailed):
		s.writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
	default:
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

type createStrategyRequest struct {
	Owner       string                  `json:"owner"`
	Asset       string                  `json:"asset"`
	AmountCents int64                   `json:"amount_cents"`
	Frequency   models.Frequency        `json:"frequency"`
	Condition   models.TriggerCondition `json:"condition"`
}

func (s *APIServer) createStrategyHandler(w http.ResponseWriter, r *http.Request) {
	var req createStrategyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	asset, err := models.ParseAsset(req.Asset)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	strategy, err := s.engine.CreateStrategy(req.Owner, asset, req.AmountCents, req.Frequency, req.Condition)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, strategy)
}

func (s *APIServer) listStrategiesHandler(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	strategies, err := s.engine.Strategies(owner)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, strategies)
}

type strategyActionRequest struct {
	ID     uint   `json:"id"`
	Caller string `json:"caller"`
}

func (s *APIServer) pauseHandler(w http.ResponseWriter, r *http.Request) {
	var req strategyActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	strategy, err := s.engine.PauseStrategy(req.ID, req.Caller)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, strategy)
}

func (s *APIServer) resumeHandler(w http.ResponseWriter, r *http.Request) {
	var req strategyActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	strategy, err := s.engine.ResumeStrategy(req.ID, req.Caller)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, strategy)
}

func (s *APIServer) deleteHandler(w http.ResponseWriter, r *http.Request) {
	var req strategyActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := s.engine.DeleteStrategy(req.ID, req.Caller); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *APIServer) triggerHandler(w http.ResponseWriter, r *http.Request) {
	var req strategyActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	purchase, err := s.engine.TriggerExecution(r.Context(), req.ID, req.Caller)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, purchase)
}

// tickHandler drives one due scan. Like the engine entry point it wraps,
// it performs no caller authorization.
func (s *APIServer) tickHandler(w http.ResponseWriter, r *http.Request) {
	executed := s.engine.Tick(r.Context(), time.Now().Unix())
	s.writeJSON(w, http.StatusOK, map[string]int{"executed": executed})
}

func (s *APIServer) purchasesHandler(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	purchases, err := s.engine.Purchases(owner)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, purchases)
}

func (s *APIServer) portfolioHandler(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	holdings, err := s.engine.Portfolio(owner)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, holdings)
}

func (s *APIServer) profitLossHandler(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	pl, err := s.engine.ProfitLoss(r.Context(), owner)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, pl)
}

func (s *APIServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}
