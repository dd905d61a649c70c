// Package server is the HTTP platform adapter: it turns an inbound request
// into a validated envelope, hands it to the router, and renders the outcome
// or classified failure as JSON.
package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/genflow/prbridge/internal/config"
	"github.com/genflow/prbridge/internal/fault"
	"github.com/genflow/prbridge/internal/metrics"
	"github.com/genflow/prbridge/internal/request"
	"github.com/genflow/prbridge/internal/router"
)

// Server is the HTTP server for the bridge.
type Server struct {
	cfg    *config.Config
	router *router.Router
	log    *zap.SugaredLogger
	mux    *http.ServeMux
}

// New creates a new Server.
func New(cfg *config.Config, rt *router.Router, log *zap.SugaredLogger) *Server {
	s := &Server{
		cfg:    cfg,
		router: rt,
		log:    log,
		mux:    http.NewServeMux(),
	}
	s.routes()
	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// routes sets up the HTTP routes.
func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleRequest)
	s.mux.HandleFunc("/metrics", s.handleMetrics)
}

// handleRequest runs the envelope pipeline for both GET and POST. The
// response is written exactly once; a panic past that point cannot be
// rendered and is only logged.
func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get("X-GitHub-Delivery")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	log := s.log.With("request_id", requestID)

	isWebhook := r.Method == http.MethodPost
	if isWebhook {
		metrics.WebhookReceived()
	}

	wrote := false
	defer func() {
		if rec := recover(); rec != nil {
			log.Errorw("panic in request pipeline", "panic", rec)
			if isWebhook {
				metrics.WebhookFailed()
			}
			if !wrote {
				writeJSON(w, http.StatusInternalServerError,
					map[string]any{"error": "internal server error"})
			}
		}
	}()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		wrote = true
		s.writeFault(w, log, isWebhook, fault.Wrap(fault.KindDecode, "failed to read request body", err))
		return
	}

	env, err := request.Decode(r, body)
	if err != nil {
		wrote = true
		s.writeFault(w, log, isWebhook, err)
		return
	}

	result, err := s.router.Route(r.Context(), env)
	if err != nil {
		wrote = true
		s.writeFault(w, log, isWebhook, err)
		return
	}

	if isWebhook {
		metrics.WebhookProcessed()
	}
	wrote = true
	writeJSON(w, http.StatusOK, result)
}

// writeFault renders a classified failure. Internal faults log their full
// detail server-side and stay opaque on the wire.
func (s *Server) writeFault(w http.ResponseWriter, log *zap.SugaredLogger, isWebhook bool, err error) {
	if isWebhook {
		metrics.WebhookFailed()
	}

	f := fault.From(err)
	if f.Kind == fault.KindInternal {
		log.Errorw("request failed with internal error", "error", err)
	} else {
		log.Infow("request rejected",
			"kind", f.Kind.String(), "reason", f.Reason, "status", f.HTTPStatus())
	}

	writeJSON(w, f.HTTPStatus(), f.Public())
}

// handleMetrics responds with current operational metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, metrics.Get())
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
