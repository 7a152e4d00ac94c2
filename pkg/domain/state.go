package domain

import (
	"fmt"
	"time"
)

// Status defines the lifecycle phase of a conversation.
type Status string

const (
	StatusActive     Status = "active"
	StatusTerminated Status = "terminated"
)

// Topic keys under which collected results are recorded. Each node's
// transition writes exactly its own key, exactly once.
const (
	TopicChiefComplaint = "chief_complaint"
	TopicMedicalHistory = "medical_history"
	TopicEmergency      = "emergency"
)

// EmergencyRecord is written at most once per session, only via the
// escalation path, before the terminal node is installed.
type EmergencyRecord struct {
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the per-conversation accumulator. It is owned by exactly one
// active conversation; transitions within it are strictly sequential.
type Session struct {
	ID string

	// CurrentNode is the name of the active node.
	CurrentNode string

	Status Status

	// ConsentGiven is set once at entry; no topic data is collected without it.
	ConsentGiven bool

	// Topics maps a topic key to the structured result recorded for it.
	Topics map[string]any

	// History tracks the node names visited, in order.
	History []string

	// Active is the live descriptor for the current node. Runtime-only:
	// it carries function values and is never serialized.
	Active *Node `json:"-"`

	StartedAt time.Time
}

// NewSession creates a clean session with no node installed yet.
func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		Status:    StatusActive,
		Topics:    make(map[string]any),
		StartedAt: time.Now(),
	}
}

// Record stores a result under its topic key. A key, once written, is never
// overwritten: a second write is a routing bug, not a recoverable condition.
func (s *Session) Record(topic string, value any) error {
	if _, exists := s.Topics[topic]; exists {
		return fmt.Errorf("%w: %s", ErrTopicRecorded, topic)
	}
	s.Topics[topic] = value
	return nil
}

// Topic returns the recorded result for a key, if any.
func (s *Session) Topic(key string) (any, bool) {
	v, ok := s.Topics[key]
	return v, ok
}

// GrantConsent flags that the patient agreed to data collection.
func (s *Session) GrantConsent() {
	s.ConsentGiven = true
}

// Install makes node the current one and appends it to the history.
func (s *Session) Install(node *Node) {
	s.Active = node
	s.CurrentNode = node.Name
	s.History = append(s.History, node.Name)
	if node.Terminal {
		s.Status = StatusTerminated
	}
}

// Terminated reports whether the session reached a sink node.
func (s *Session) Terminated() bool {
	return s.Status == StatusTerminated
}

// SessionSnapshot is the serializable view of a session, used by state
// stores. Node descriptors carry function values and are left out; a
// snapshot is enough to inspect a conversation, not to resume one.
type SessionSnapshot struct {
	ID           string         `json:"id"`
	CurrentNode  string         `json:"current_node"`
	Status       Status         `json:"status"`
	ConsentGiven bool           `json:"consent_given"`
	Topics       map[string]any `json:"topics"`
	History      []string       `json:"history"`
	StartedAt    time.Time      `json:"started_at"`
}

// Snapshot copies the persistable parts of the session.
func (s *Session) Snapshot() *SessionSnapshot {
	topics := make(map[string]any, len(s.Topics))
	for k, v := range s.Topics {
		topics[k] = v
	}
	history := make([]string, len(s.History))
	copy(history, s.History)
	return &SessionSnapshot{
		ID:           s.ID,
		CurrentNode:  s.CurrentNode,
		Status:       s.Status,
		ConsentGiven: s.ConsentGiven,
		Topics:       topics,
		History:      history,
		StartedAt:    s.StartedAt,
	}
}
