// Package mcpapi provides a stateless MCP streamable-HTTP adapter.
package mcpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/evanschultz/weekgrid/internal/adapters/server/common"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Config captures MCP transport configuration.
type Config struct {
	ServerName    string
	ServerVersion string
	EndpointPath  string
}

// Handler wraps one stateless MCP streamable HTTP handler.
type Handler struct {
	httpHandler http.Handler
}

// NewHandler builds one stateless MCP adapter exposing the planner todo tools.
func NewHandler(cfg Config, todos common.TodoService) (*Handler, error) {
	if todos == nil {
		return nil, fmt.Errorf("todo service is required")
	}
	cfg = normalizeConfig(cfg)

	mcpSrv := mcpserver.NewMCPServer(
		cfg.ServerName,
		cfg.ServerVersion,
		mcpserver.WithToolCapabilities(false),
	)
	registerTodoTools(mcpSrv, todos)

	streamable := mcpserver.NewStreamableHTTPServer(
		mcpSrv,
		mcpserver.WithEndpointPath(cfg.EndpointPath),
		mcpserver.WithStateLess(true),
	)
	return &Handler{httpHandler: streamable}, nil
}

// ServeHTTP handles one MCP streamable HTTP request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.httpHandler == nil {
		http.Error(w, "mcp handler unavailable", http.StatusServiceUnavailable)
		return
	}
	h.httpHandler.ServeHTTP(w, r)
}

// normalizeConfig applies deterministic defaults to MCP adapter config.
func normalizeConfig(cfg Config) Config {
	cfg.ServerName = strings.TrimSpace(cfg.ServerName)
	if cfg.ServerName == "" {
		cfg.ServerName = "weekgrid"
	}
	cfg.ServerVersion = strings.TrimSpace(cfg.ServerVersion)
	if cfg.ServerVersion == "" {
		cfg.ServerVersion = "dev"
	}
	cfg.EndpointPath = "/" + strings.Trim(strings.TrimSpace(cfg.EndpointPath), "/")
	if cfg.EndpointPath == "/" {
		cfg.EndpointPath = "/mcp"
	}
	return cfg
}

// registerTodoTools registers the `weekgrid.*` todo tools.
func registerTodoTools(srv *mcpserver.MCPServer, todos common.TodoService) {
	srv.AddTool(
		mcp.NewTool(
			"weekgrid.list_todos",
			mcp.WithDescription("List every planner todo with its grid placement."),
		),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			items, err := todos.ListTodos(ctx)
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(map[string]any{
				"todos": items,
			})
			if err != nil {
				return nil, fmt.Errorf("encode list_todos result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"weekgrid.create_todo",
			mcp.WithDescription("Create a todo in the unassigned bucket."),
			mcp.WithString("name", mcp.Required(), mcp.Description("Todo name")),
			mcp.WithString("description", mcp.Description("Markdown description")),
			mcp.WithString("start_time", mcp.Description("Start time as a non-negative integer")),
			mcp.WithString("end_time", mcp.Description("End time as a non-negative integer")),
			mcp.WithString("time_cost", mcp.Description("Estimated cost as a non-negative integer")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			name, err := req.RequireString("name")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			in := common.CreateTodoRequest{
				Name:        name,
				Description: req.GetString("description", ""),
			}
			for _, field := range []struct {
				key string
				dst **int
			}{
				{"start_time", &in.StartTime},
				{"end_time", &in.EndTime},
				{"time_cost", &in.TimeCost},
			} {
				v, err := optionalInt(req.GetString(field.key, ""))
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("invalid_request: %s: %v", field.key, err)), nil
				}
				*field.dst = v
			}
			todo, err := todos.CreateTodo(ctx, in)
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(todo)
			if err != nil {
				return nil, fmt.Errorf("encode create_todo result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"weekgrid.mark_done",
			mcp.WithDescription("Move one todo into the done bucket."),
			mcp.WithString("id", mcp.Required(), mcp.Description("Todo id")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			id, err := req.RequireString("id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			todo, err := todos.MarkTodoDone(ctx, id)
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(todo)
			if err != nil {
				return nil, fmt.Errorf("encode mark_done result: %w", err)
			}
			return result, nil
		},
	)
}

// optionalInt parses an optional integer argument.
func optionalInt(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// toolResultFromError maps service errors into MCP-visible tool errors.
func toolResultFromError(err error) *mcp.CallToolResult {
	switch {
	case err == nil:
		return mcp.NewToolResultError("unknown error")
	case errors.Is(err, common.ErrInvalidRequest):
		return mcp.NewToolResultError("invalid_request: " + err.Error())
	case errors.Is(err, common.ErrNotFound):
		return mcp.NewToolResultError("not_found: " + err.Error())
	default:
		return mcp.NewToolResultError("internal_error: " + err.Error())
	}
}
