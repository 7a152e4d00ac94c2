// Package metrics registers the engine's Prometheus collectors. The HTTP
// front door exposes them at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SessionsStarted counts provisioned intake conversations.
	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intake_sessions_started_total",
		Help: "Number of intake conversations started.",
	})

	// SessionsCompleted counts conversations that reached the terminal node.
	SessionsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intake_sessions_completed_total",
		Help: "Number of intake conversations that reached the end node.",
	})

	// Escalations counts emergency escalations, labeled by specialty topic.
	Escalations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "intake_escalations_total",
		Help: "Number of emergency escalations.",
	}, []string{"from_node"})
)
