// Package main provides the capital analysis HTTP server:
// - JSON API (stateless): full analysis, payoff simulation, scenario projection
// - WebSocket: live payoff recompute as the client adjusts inputs
// - Observability: /health, /metrics (Prometheus), /status
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"capital-lab/internal/domain"
	"capital-lab/internal/engine"
	"capital-lab/internal/observability"
	"capital-lab/internal/payoff"
	"capital-lab/internal/position"
	"capital-lab/internal/scenario"
)

// Server holds the HTTP state and counters behind /status.
type Server struct {
	maxHorizon int
	logger     *log.Logger
	upgrader   websocket.Upgrader

	// State
	mu            sync.Mutex
	started       time.Time
	analysesRun   int
	simulations   int
	projections   int
	wsConnections int
}

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	addr := flag.String("addr", envOr("CAPITAL_ADDR", ":8080"), "HTTP listen address")
	maxHorizon := flag.Int("max-horizon", envIntOr("CAPITAL_MAX_HORIZON", 600), "Maximum simulation horizon in months accepted from clients")
	shutdownTimeout := flag.Duration("shutdown-timeout", 30*time.Second, "Graceful shutdown timeout")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if *maxHorizon <= 0 {
		logger.Fatal("--max-horizon must be positive")
	}

	server := &Server{
		maxHorizon: *maxHorizon,
		logger:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// The API is stateless and carries no credentials.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		started: time.Now(),
	}

	httpServer := &http.Server{
		Addr:    *addr,
		Handler: server.routes(),
	}

	// Channel signaled once the graceful drain finishes
	done := make(chan struct{})

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)

		// Second signal or timeout forces immediate shutdown while the
		// drain is in flight.
		go func() {
			select {
			case sig := <-sigCh:
				logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
				os.Exit(1)
			case <-time.After(*shutdownTimeout + time.Second):
				logger.Println("Graceful shutdown timed out, forcing exit")
				os.Exit(1)
			case <-done:
				// Normal shutdown completed
			}
		}()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), *shutdownTimeout)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("Shutdown error: %v", err)
		}
		close(done)
	}()

	logger.Printf("Starting HTTP server on %s", *addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server error: %v", err)
	}
	<-done

	logger.Println("Shutdown complete")
}

// routes builds the HTTP mux.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Prometheus metrics
	mux.Handle("/metrics", observability.Handler())

	// Status endpoint
	mux.HandleFunc("/status", s.handleStatus)

	// JSON API
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/payoff", s.handlePayoff)
	mux.HandleFunc("/api/project", s.handleProject)

	// Live recompute
	mux.HandleFunc("/ws", s.handleWS)

	return mux
}

// AnalyzeRequest is the input for a full analysis run.
type AnalyzeRequest struct {
	Position         domain.RawPosition      `json:"position"`
	Debts            []domain.DebtItem       `json:"debts"`
	Scenarios        []domain.ScenarioParams `json:"scenarios"`
	HorizonMonths    int                     `json:"horizonMonths"`
	ExtraPayment     float64                 `json:"extraPayment"`
	PreviousNetWorth *float64                `json:"previousNetWorth"`
}

// PayoffRequest is the input for one payoff simulation.
type PayoffRequest struct {
	Debts         []domain.DebtItem     `json:"debts"`
	Strategy      domain.PayoffStrategy `json:"strategy"`
	ExtraPayment  float64               `json:"extraPayment"`
	HorizonMonths int                   `json:"horizonMonths"`
}

// PayoffResponse pairs the schedule with its cascade view.
type PayoffResponse struct {
	Result  *payoff.Result       `json:"result"`
	Cascade []domain.CascadeStep `json:"cascade"`
}

// ProjectRequest is the input for one scenario projection.
type ProjectRequest struct {
	Position      domain.RawPosition    `json:"position"`
	Debts         []domain.DebtItem     `json:"debts"`
	Scenario      domain.ScenarioParams `json:"scenario"`
	HorizonMonths int                   `json:"horizonMonths"`
}

// handleAnalyze runs the full engine over one snapshot.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req AnalyzeRequest
	if !s.decodePost(w, r, "analyze", &req) {
		return
	}
	horizon, ok := s.clampHorizon(w, "analyze", req.HorizonMonths)
	if !ok {
		return
	}

	analysis := engine.Analyze(req.Position, req.Debts, req.Scenarios, engine.Options{
		HorizonMonths:    horizon,
		ExtraPayment:     req.ExtraPayment,
		PreviousNetWorth: req.PreviousNetWorth,
	})

	s.mu.Lock()
	s.analysesRun++
	s.mu.Unlock()

	observability.RecordAnalysis(time.Since(start).Seconds())
	s.writeJSON(w, "analyze", start, analysis)
}

// handlePayoff runs one payoff simulation.
func (s *Server) handlePayoff(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req PayoffRequest
	if !s.decodePost(w, r, "payoff", &req) {
		return
	}
	horizon, ok := s.clampHorizon(w, "payoff", req.HorizonMonths)
	if !ok {
		return
	}
	strategy := req.Strategy
	if strategy == "" {
		strategy = domain.StrategyAvalanche
	}
	if !validStrategy(strategy) {
		s.writeError(w, "payoff", http.StatusBadRequest, fmt.Sprintf("unknown strategy %q", strategy))
		return
	}

	resp := PayoffResponse{
		Result:  payoff.Simulate(req.Debts, strategy, req.ExtraPayment, horizon),
		Cascade: payoff.Cascade(req.Debts, strategy, req.ExtraPayment, horizon),
	}

	s.mu.Lock()
	s.simulations++
	s.mu.Unlock()

	observability.RecordSimulation(string(strategy), len(req.Debts), time.Since(start).Seconds())
	s.writeJSON(w, "payoff", start, resp)
}

// handleProject runs one scenario projection.
func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req ProjectRequest
	if !s.decodePost(w, r, "project", &req) {
		return
	}
	horizon, ok := s.clampHorizon(w, "project", req.HorizonMonths)
	if !ok {
		return
	}

	pos := position.Aggregate(req.Position, req.Debts)
	projection := scenario.Project(req.Scenario, pos, horizon)

	s.mu.Lock()
	s.projections++
	s.mu.Unlock()

	observability.RecordProjection()
	s.writeJSON(w, "project", start, projection)
}

// handleWS serves the live payoff recompute socket. Each incoming message
// is a PayoffRequest; each reply is a PayoffResponse. The socket holds no
// state between messages.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	s.mu.Lock()
	s.wsConnections++
	s.mu.Unlock()
	observability.DefaultMetrics.WSConnections.Inc()
	defer func() {
		s.mu.Lock()
		s.wsConnections--
		s.mu.Unlock()
		observability.DefaultMetrics.WSConnections.Dec()
	}()

	for {
		var req PayoffRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Printf("WebSocket read error: %v", err)
			}
			return
		}

		horizon := req.HorizonMonths
		if horizon <= 0 {
			horizon = domain.DefaultHorizonMonths
		}
		if horizon > s.maxHorizon {
			horizon = s.maxHorizon
		}
		strategy := req.Strategy
		if strategy == "" || !validStrategy(strategy) {
			strategy = domain.StrategyAvalanche
		}

		resp := PayoffResponse{
			Result:  payoff.Simulate(req.Debts, strategy, req.ExtraPayment, horizon),
			Cascade: payoff.Cascade(req.Debts, strategy, req.ExtraPayment, horizon),
		}
		observability.DefaultMetrics.WSMessagesProcessed.Inc()

		if err := conn.WriteJSON(resp); err != nil {
			s.logger.Printf("WebSocket write error: %v", err)
			return
		}
	}
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status        string    `json:"status"`
	Started       time.Time `json:"started"`
	Uptime        string    `json:"uptime"`
	AnalysesRun   int       `json:"analyses_run"`
	Simulations   int       `json:"simulations"`
	Projections   int       `json:"projections"`
	WSConnections int       `json:"ws_connections"`
}

// handleStatus returns server status as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := StatusResponse{
		Status:        "running",
		Started:       s.started,
		Uptime:        time.Since(s.started).String(),
		AnalysesRun:   s.analysesRun,
		Simulations:   s.simulations,
		Projections:   s.projections,
		WSConnections: s.wsConnections,
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// decodePost enforces POST and decodes the JSON body into dst.
func (s *Server) decodePost(w http.ResponseWriter, r *http.Request, endpoint string, dst interface{}) bool {
	if r.Method != http.MethodPost {
		s.writeError(w, endpoint, http.StatusMethodNotAllowed, "POST required")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, endpoint, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return false
	}
	return true
}

// clampHorizon validates a client horizon, applying the default for zero.
func (s *Server) clampHorizon(w http.ResponseWriter, endpoint string, horizon int) (int, bool) {
	if horizon == 0 {
		return domain.DefaultHorizonMonths, true
	}
	if horizon < 0 || horizon > s.maxHorizon {
		s.writeError(w, endpoint, http.StatusBadRequest,
			fmt.Sprintf("horizonMonths must be between 1 and %d", s.maxHorizon))
		return 0, false
	}
	return horizon, true
}

// writeJSON sends a 200 JSON response and records request metrics.
func (s *Server) writeJSON(w http.ResponseWriter, endpoint string, start time.Time, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Printf("Encode error on %s: %v", endpoint, err)
	}
	observability.RecordRequest(endpoint, "200", time.Since(start).Seconds())
}

// writeError sends a JSON error response and records the failure.
func (s *Server) writeError(w http.ResponseWriter, endpoint string, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
	observability.RecordRequest(endpoint, strconv.Itoa(code), 0)
	observability.RecordRequestError(endpoint)
}

// validStrategy reports whether s is a known payoff strategy.
func validStrategy(s domain.PayoffStrategy) bool {
	for _, known := range domain.AllStrategies {
		if s == known {
			return true
		}
	}
	return false
}

// envOr returns the env var value or a fallback.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envIntOr returns the env var parsed as int or a fallback.
func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
