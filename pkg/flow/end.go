package flow

import (
	"fmt"

	"github.com/carebridge/intake/pkg/domain"
)

// NodeEnd is the terminal node of every path.
const NodeEnd = "end"

// EndNode creates the terminal node. It utters message, declares the
// transport-teardown directive and accepts no further input.
func (f *Flow) EndNode(message string) *domain.Node {
	return mustNode(&domain.Node{
		Name: NodeEnd,
		TaskMessages: []domain.Message{
			domain.SystemMessage(fmt.Sprintf("Say: '%s'", message)),
		},
		PostActions: []domain.Action{domain.EndConversation()},
		Terminal:    true,
	})
}
