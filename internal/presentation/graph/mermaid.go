// Package graph renders the conversation graph as a Mermaid flowchart, for
// documentation and for inspecting where a live session currently sits.
package graph

import (
	"fmt"
	"strings"

	"github.com/carebridge/intake/pkg/flow"
)

// Overlay contains dynamic session data to visualize on the graph.
type Overlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// GenerateMermaid produces a Mermaid flowchart (graph TD) of the intake
// sequence: the fixed general path plus one intro/assessment pair per
// registered specialty. Shapes follow the node's role:
//   - entry/end: ((Circle))
//   - field-collecting steps: [/Parallelogram/] (input)
//   - emergency: [[Subroutine]]
//
// Overlay styles (visited/current) are applied when provided.
func GenerateMermaid(f *flow.Flow, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	writeNode(&sb, flow.NodeEntry, "((", "))")
	writeNode(&sb, flow.NodeChiefComplaint, "[/", "/]")
	writeNode(&sb, flow.NodeMedicalHistory, "[/", "/]")
	writeNode(&sb, flow.NodeWrapUp, "[", "]")
	writeNode(&sb, flow.NodeEmergency, "[[", "]]")
	writeNode(&sb, flow.NodeEnd, "((", "))")

	writeEdge(&sb, flow.NodeEntry, flow.NodeChiefComplaint, "consent")
	writeEdge(&sb, flow.NodeEntry, flow.NodeEnd, "refused")
	writeEdge(&sb, flow.NodeChiefComplaint, flow.NodeMedicalHistory, "no specialty match")

	for _, name := range f.Registry().Names() {
		intro := name + "_intro"
		assessment := name + "_assessment"
		writeNode(&sb, intro, "[", "]")
		writeNode(&sb, assessment, "[/", "/]")

		// Specialty selection is a dynamic jump off the main path.
		sb.WriteString(fmt.Sprintf("    %s -. \"%s\" .-> %s\n",
			sanitizeID(flow.NodeChiefComplaint), name, sanitizeID(intro)))
		writeEdge(&sb, intro, assessment, "")
		writeEdge(&sb, assessment, flow.NodeMedicalHistory, "")
		sb.WriteString(fmt.Sprintf("    %s -. \"emergency\" .-> %s\n",
			sanitizeID(assessment), sanitizeID(flow.NodeEmergency)))
	}

	writeEdge(&sb, flow.NodeMedicalHistory, flow.NodeWrapUp, "")
	writeEdge(&sb, flow.NodeWrapUp, flow.NodeEnd, "")
	writeEdge(&sb, flow.NodeEmergency, flow.NodeEnd, "")

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for high-contrast regardless of theme.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.CurrentNode != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeID(overlay.CurrentNode)))
		}
	}

	return sb.String()
}

func writeNode(sb *strings.Builder, id, opener, closer string) {
	sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", sanitizeID(id), opener, id, closer))
}

func writeEdge(sb *strings.Builder, from, to, condition string) {
	arrow := "-->"
	if condition != "" {
		arrow = fmt.Sprintf("-- \"%s\" -->", strings.ReplaceAll(condition, "\"", "'"))
	}
	sb.WriteString(fmt.Sprintf("    %s %s %s\n", sanitizeID(from), arrow, sanitizeID(to)))
}

func sanitizeID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	return s
}
