// Package runtime drives the transition protocol: it resolves inbound tool
// arguments against the active node's schema, runs the node handler, applies
// the transition, and installs the next descriptor(s) into the session.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/carebridge/intake/internal/logging"
	"github.com/carebridge/intake/internal/metrics"
	"github.com/carebridge/intake/pkg/domain"
	"github.com/carebridge/intake/pkg/flow"
	"github.com/carebridge/intake/pkg/ports"
	"github.com/carebridge/intake/pkg/schema"
	"github.com/carebridge/intake/pkg/session"
)

// Engine owns the live sessions of this process. Within one session all
// transitions are strictly sequential; across sessions the engine is safe
// for concurrent use.
type Engine struct {
	flow      *flow.Flow
	sessions  *session.Manager
	persister ports.RecordPersister
	logger    *slog.Logger

	mu   sync.Mutex
	live map[string]*domain.Session
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithPersister sets the medical-record sink invoked at the terminal node.
func WithPersister(p ports.RecordPersister) Option {
	return func(e *Engine) {
		e.persister = p
	}
}

// NewEngine creates an engine over the given flow and session manager.
func NewEngine(f *flow.Flow, sessions *session.Manager, opts ...Option) *Engine {
	e := &Engine{
		flow:     f,
		sessions: sessions,
		live:     make(map[string]*domain.Session),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reply is what the host renders after a turn: the typed result, the node
// descriptor(s) installed in order, and the flow settings it should apply
// when switching LLM context.
type Reply struct {
	SessionID string
	Result    any
	Installed []*domain.Node
	Terminal  bool
	Settings  flow.Settings
}

// Start provisions a session and installs the entry node. At most one
// active conversation exists per session ID.
func (e *Engine) Start(ctx context.Context, sessionID string) (*Reply, error) {
	e.mu.Lock()
	if existing, ok := e.live[sessionID]; ok && !existing.Terminated() {
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionActive, sessionID)
	}
	sess := domain.NewSession(sessionID)
	entry := e.flow.EntryNode()
	sess.Install(entry)
	e.live[sessionID] = sess
	e.mu.Unlock()

	err := e.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return e.sessions.Store().Save(ctx, sessionID, sess.Snapshot())
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist new session: %w", err)
	}

	metrics.SessionsStarted.Inc()
	e.logger.Info("session started", "session_id", sessionID)

	return &Reply{
		SessionID: sessionID,
		Installed: []*domain.Node{entry},
		Settings:  e.flow.Settings(),
	}, nil
}

// Invoke feeds the raw tool-call arguments to the active node. The handler
// normalizes them, the transition routes, and the resulting node(s) are
// installed in order. Missing or mistyped fields are coerced, never fatal.
func (e *Engine) Invoke(ctx context.Context, sessionID string, raw map[string]any) (*Reply, error) {
	sess, err := e.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	var reply *Reply
	err = e.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		if sess.Terminated() {
			return fmt.Errorf("%w: %s", domain.ErrSessionTerminated, sessionID)
		}

		node := sess.Active
		if node == nil || node.Handler == nil {
			return fmt.Errorf("session %s has no invocable node", sessionID)
		}

		resolved, verr := schema.Resolve(node.Fields, raw)
		if verr != nil {
			// Lenient by policy: defaults were substituted, the turn goes on.
			e.logger.Warn("input coerced", "session_id", sessionID, "node", node.Name, "err", verr)
		}

		result, err := node.Handler(resolved)
		if err != nil {
			return fmt.Errorf("handler for node %s: %w", node.Name, err)
		}

		out, err := node.OnResult(resolved, result, sess)
		if err != nil {
			return fmt.Errorf("transition from node %s: %w", node.Name, err)
		}
		if out == nil || len(out.Next) == 0 {
			return fmt.Errorf("transition from node %s produced no next node", node.Name)
		}

		for _, next := range out.Next {
			sess.Install(next)
			if next.Name == flow.NodeEmergency {
				metrics.Escalations.WithLabelValues(node.Name).Inc()
				e.logger.Warn("emergency escalation", "session_id", sessionID, "from", node.Name)
			}
		}

		if sess.Terminated() {
			metrics.SessionsCompleted.Inc()
			e.logger.Info("session completed", "session_id", sessionID, "path", sess.History)
			if e.persister != nil {
				// Fire-and-forget semantics: persistence failure must not
				// fail the conversation.
				if err := e.persister.Persist(ctx, sessionID, sess.Topics); err != nil {
					e.logger.Error("failed to persist intake record", "session_id", sessionID, "err", err)
				}
			}
		}

		if err := e.sessions.Store().Save(ctx, sessionID, sess.Snapshot()); err != nil {
			return fmt.Errorf("failed to persist session: %w", err)
		}

		reply = &Reply{
			SessionID: sessionID,
			Result:    result,
			Installed: out.Next,
			Terminal:  sess.Terminated(),
			Settings:  e.flow.Settings(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reply, nil
}

// Snapshot returns the current view of a session, live or stored.
func (e *Engine) Snapshot(ctx context.Context, sessionID string) (*domain.SessionSnapshot, error) {
	e.mu.Lock()
	sess, ok := e.live[sessionID]
	e.mu.Unlock()
	if ok {
		return sess.Snapshot(), nil
	}
	return e.sessions.Load(ctx, sessionID)
}

// Teardown discards a session as a unit, live state and snapshot both.
// Used when the host tears down the transport mid-conversation.
func (e *Engine) Teardown(ctx context.Context, sessionID string) error {
	e.mu.Lock()
	_, ok := e.live[sessionID]
	delete(e.live, sessionID)
	e.mu.Unlock()

	if err := e.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	if !ok {
		return domain.ErrSessionNotFound
	}
	e.logger.Info("session discarded", "session_id", sessionID)
	return nil
}

// List returns the IDs of stored sessions.
func (e *Engine) List(ctx context.Context) ([]string, error) {
	return e.sessions.List(ctx)
}

// Flow exposes the flow the engine runs, for adapters that need settings
// or node metadata.
func (e *Engine) Flow() *flow.Flow {
	return e.flow
}

func (e *Engine) lookup(sessionID string) (*domain.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	sess, ok := e.live[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	return sess, nil
}
