// Package http implements the session front door: provisioning one intake
// conversation per session ID, feeding tool-call results to the engine and
// exposing session snapshots. The audio transport and the LLM layer live
// behind this boundary, not here.
package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/carebridge/intake/internal/logging"
	"github.com/carebridge/intake/internal/runtime"
	"github.com/carebridge/intake/pkg/domain"
	"github.com/carebridge/intake/pkg/schema"
)

// Server exposes the engine over HTTP.
type Server struct {
	engine *runtime.Engine
	logger *slog.Logger
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine *runtime.Engine, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{engine: engine, logger: logger}

	r := chi.NewRouter()
	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.startSession)
		r.Get("/", s.listSessions)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Post("/invoke", s.invoke)
			r.Delete("/", s.teardown)
		})
	})
	return r
}

// FunctionView describes the tool the host must register for a node.
type FunctionView struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters"`
}

// NodeView is the wire rendition of an installed node descriptor.
type NodeView struct {
	Name         string           `json:"name"`
	RoleMessages []domain.Message `json:"role_messages,omitempty"`
	TaskMessages []domain.Message `json:"task_messages"`
	Function     *FunctionView    `json:"function,omitempty"`
	PreActions   []domain.Action  `json:"pre_actions,omitempty"`
	PostActions  []domain.Action  `json:"post_actions,omitempty"`
	Terminal     bool             `json:"terminal,omitempty"`
}

// ReplyView is the wire rendition of a turn outcome.
type ReplyView struct {
	SessionID       string     `json:"session_id"`
	Result          any        `json:"result,omitempty"`
	Installed       []NodeView `json:"installed"`
	Terminal        bool       `json:"terminal"`
	ContextStrategy string     `json:"context_strategy"`
}

func mapNode(n *domain.Node) NodeView {
	view := NodeView{
		Name:         n.Name,
		RoleMessages: n.RoleMessages,
		TaskMessages: n.TaskMessages,
		PreActions:   n.PreActions,
		PostActions:  n.PostActions,
		Terminal:     n.Terminal,
	}
	if n.FunctionName != "" {
		view.Function = &FunctionView{
			Name:        n.FunctionName,
			Description: n.FunctionDescription,
			Parameters:  schema.JSONSchema(n.Fields),
		}
	}
	return view
}

func mapReply(reply *runtime.Reply) ReplyView {
	installed := make([]NodeView, 0, len(reply.Installed))
	for _, n := range reply.Installed {
		installed = append(installed, mapNode(n))
	}
	return ReplyView{
		SessionID:       reply.SessionID,
		Result:          reply.Result,
		Installed:       installed,
		Terminal:        reply.Terminal,
		ContextStrategy: reply.Settings.ContextStrategy,
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type startRequest struct {
	SessionID string `json:"session_id"`
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	var body startRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}
	if body.SessionID == "" {
		body.SessionID = newSessionID()
	}

	reply, err := s.engine.Start(r.Context(), body.SessionID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, mapReply(reply))
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.engine.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"sessions": ids})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.engine.Snapshot(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) invoke(w http.ResponseWriter, r *http.Request) {
	var args map[string]any
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	reply, err := s.engine.Invoke(r.Context(), chi.URLParam(r, "sessionID"), args)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, mapReply(reply))
}

func (s *Server) teardown(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Teardown(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrSessionActive):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrSessionTerminated):
		status = http.StatusConflict
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func newSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return hex.EncodeToString(buf)
}
