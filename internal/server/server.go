// Package server exposes the decomposition pipeline over HTTP. It is a thin
// adapter: request decoding, response encoding, and error-kind to status
// mapping live here, all validation semantics live in the decompose package.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/zxfpro/primalstep/internal/decompose"
	"github.com/zxfpro/primalstep/internal/errors"
	"github.com/zxfpro/primalstep/internal/logging"
)

// DecomposeRequest is the POST /decompose request body.
type DecomposeRequest struct {
	Goal string `json:"goal"`
}

// GraphNode is one node of the response graph with its attributes inlined.
type GraphNode struct {
	ID           string   `json:"id"`
	Description  string   `json:"description"`
	Instructions []string `json:"instructions"`
}

// DecomposeResponse is the POST /decompose success body. Edges are
// [prerequisite, dependent] pairs.
type DecomposeResponse struct {
	GraphNodes   []GraphNode           `json:"graph_nodes"`
	GraphEdges   [][2]string           `json:"graph_edges"`
	StepsDetails decompose.StepDetails `json:"steps_details"`
}

// errorResponse is the body for all non-2xx responses.
type errorResponse struct {
	Detail string `json:"detail"`
}

// Server hosts the HTTP API around a Decomposer.
type Server struct {
	decomposer *decompose.Decomposer
	logger     *logging.Logger
	httpServer *http.Server
}

// New creates a Server listening on addr.
func New(addr string, decomposer *decompose.Decomposer, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NopLogger()
	}
	s := &Server{
		decomposer: decomposer,
		logger:     logger.WithComponent("server"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/decompose", s.handleDecompose)
	mux.HandleFunc("/healthz", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           corsMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.httpServer.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down http server")
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	}
}

// Handler returns the server's HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleDecompose(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req DecomposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: expected JSON with a \"goal\" field")
		return
	}

	s.logger.Info("decompose request received", "goal", req.Goal)

	graph, details, err := s.decomposer.Decompose(r.Context(), req.Goal)
	if err != nil {
		s.writeDecomposeError(w, err)
		return
	}

	nodes := make([]GraphNode, 0, graph.NodeCount())
	for _, id := range graph.Nodes() {
		attrs, _ := graph.Attrs(id)
		nodes = append(nodes, GraphNode{
			ID:           id,
			Description:  attrs.Description,
			Instructions: attrs.Instructions,
		})
	}

	writeJSON(w, http.StatusOK, DecomposeResponse{
		GraphNodes:   nodes,
		GraphEdges:   graph.Edges(),
		StepsDetails: details,
	})
}

// writeDecomposeError maps core error kinds to status codes: validation
// failures are the caller's problem (400), capability failures are an
// upstream problem (502), anything else is internal (500, detail withheld).
func (s *Server) writeDecomposeError(w http.ResponseWriter, err error) {
	switch {
	case errors.IsValidation(err):
		s.logger.Warn("decompose request rejected", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.IsGeneration(err):
		s.logger.Error("llm generation failed", "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.logger.Error("decompose request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// corsMiddleware allows all origins. Deployments fronting this with real
// clients should restrict origins at the proxy.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		next.ServeHTTP(w, r)
	})
}
