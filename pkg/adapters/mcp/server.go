// Package mcp exposes the intake engine to the language-model tool-call
// layer as an MCP server: the model starts a session, receives the active
// node's instructions and field schema, and feeds extracted arguments back
// through invoke_node.
package mcp

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/carebridge/intake/internal/runtime"
	"github.com/carebridge/intake/pkg/domain"
	"github.com/carebridge/intake/pkg/flow"
	"github.com/carebridge/intake/pkg/schema"
)

// nodePayload is the wire rendition of an installed node for the model.
type nodePayload struct {
	Name         string           `json:"name"`
	RoleMessages []domain.Message `json:"role_messages,omitempty"`
	TaskMessages []domain.Message `json:"task_messages"`
	Function     map[string]any   `json:"function,omitempty"`
	PreActions   []domain.Action  `json:"pre_actions,omitempty"`
	PostActions  []domain.Action  `json:"post_actions,omitempty"`
	Terminal     bool             `json:"terminal,omitempty"`
}

type replyPayload struct {
	SessionID string        `json:"session_id"`
	Result    any           `json:"result,omitempty"`
	Installed []nodePayload `json:"installed"`
	Terminal  bool          `json:"terminal"`
	Settings  flow.Settings `json:"settings"`
}

// Server wraps the intake engine and exposes it over MCP.
type Server struct {
	engine    *runtime.Engine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance over the engine.
func NewServer(engine *runtime.Engine, version string) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("intake-mcp", version),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("start_intake",
		mcp.WithDescription("Provision an intake conversation and return the entry node to render."),
		mcp.WithString("session_id", mcp.Description("Session identifier; generated when omitted")),
	), s.handleStart)

	s.mcpServer.AddTool(mcp.NewTool("invoke_node",
		mcp.WithDescription("Feed the extracted arguments for the active node's function and receive the next node(s)."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithString("args", mcp.Required(), mcp.Description("JSON object with the collected field values")),
	), s.handleInvoke)

	s.mcpServer.AddTool(mcp.NewTool("get_session",
		mcp.WithDescription("Return the session snapshot: collected topics, consent flag, node history."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
	), s.handleGetSession)

	s.mcpServer.AddTool(mcp.NewTool("end_session",
		mcp.WithDescription("Discard a session mid-conversation. Partially collected data is dropped as a unit."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
	), s.handleEnd)
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		sessionID = newSessionID()
	}

	reply, err := s.engine.Start(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("start failed: %v", err)), nil
	}
	return toolResult(mapReply(reply))
}

func (s *Server) handleInvoke(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, _ := args["session_id"].(string)
	rawJSON, _ := args["args"].(string)

	raw := map[string]any{}
	if rawJSON != "" {
		if err := json.Unmarshal([]byte(rawJSON), &raw); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("args is not a JSON object: %v", err)), nil
		}
	}

	reply, err := s.engine.Invoke(ctx, sessionID, raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invoke failed: %v", err)), nil
	}
	return toolResult(mapReply(reply))
}

func (s *Server) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := request.GetArguments()["session_id"].(string)

	snap, err := s.engine.Snapshot(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("snapshot failed: %v", err)), nil
	}
	return toolResult(snap)
}

func (s *Server) handleEnd(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := request.GetArguments()["session_id"].(string)

	if err := s.engine.Teardown(ctx, sessionID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("teardown failed: %v", err)), nil
	}
	return toolResult(map[string]string{"status": "discarded", "session_id": sessionID})
}

func mapReply(reply *runtime.Reply) replyPayload {
	installed := make([]nodePayload, 0, len(reply.Installed))
	for _, n := range reply.Installed {
		p := nodePayload{
			Name:         n.Name,
			RoleMessages: n.RoleMessages,
			TaskMessages: n.TaskMessages,
			PreActions:   n.PreActions,
			PostActions:  n.PostActions,
			Terminal:     n.Terminal,
		}
		if n.FunctionName != "" {
			p.Function = map[string]any{
				"name":        n.FunctionName,
				"description": n.FunctionDescription,
				"parameters":  schema.JSONSchema(n.Fields),
			}
		}
		installed = append(installed, p)
	}
	return replyPayload{
		SessionID: reply.SessionID,
		Result:    reply.Result,
		Installed: installed,
		Terminal:  reply.Terminal,
		Settings:  reply.Settings,
	}
}

func toolResult(payload any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func newSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}
