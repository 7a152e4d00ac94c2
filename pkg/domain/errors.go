package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID cannot be found.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionActive is returned when provisioning a session that already has
// an active conversation. At most one worker serves a session ID.
var ErrSessionActive = errors.New("session already active")

// ErrSessionTerminated is returned when invoking a session that has reached
// its sink node.
var ErrSessionTerminated = errors.New("session terminated")

// ErrTopicRecorded is returned when a transition tries to overwrite an
// already-recorded topic key.
var ErrTopicRecorded = errors.New("topic already recorded")

// ConfigError reports malformed static configuration: duplicate specialty
// registration, empty node content. Fatal at startup, never recoverable at
// runtime.
type ConfigError struct {
	Component string
	Reason    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration (%s): %s", e.Component, e.Reason)
}
