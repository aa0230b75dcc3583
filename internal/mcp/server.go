package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const (
	userIDKey contextKey = iota
	managerKey
)

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// WithManager marks the caller as allowed to read unit statistics.
func WithManager(ctx context.Context) context.Context {
	return context.WithValue(ctx, managerKey, true)
}

// IsManager reports whether WithManager marked the context.
func IsManager(ctx context.Context) bool {
	ok, _ := ctx.Value(managerKey).(bool)
	return ok
}

// New creates an MCP server with all tools and resources registered. group is
// the organization group used for unit statistics.
func New(ds DataSource, group, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("TrackingTFM", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("TrackingTFM physical fitness server. Grade TACF results against the Air Force threshold table and query a user's TACF sessions and TFM training logs. Personal data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, group: group, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolClassifyTACFResult, Handler: h.classifyTACFResult},
		server.ServerTool{Tool: toolGetTACFHistory, Handler: h.getTACFHistory},
		server.ServerTool{Tool: toolGetTFMLogs, Handler: h.getTFMLogs},
		server.ServerTool{Tool: toolGetUnitStats, Handler: h.getUnitStats},
	)

	s.AddResources(
		server.ServerResource{Resource: resThresholdTable, Handler: h.thresholdTable},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds    DataSource
	group string
	log   *slog.Logger
}

var resThresholdTable = mcp.NewResource(
	"trackingtfm://threshold_table",
	"TACF Threshold Table",
	mcp.WithResourceDescription("All 30 grading rows: exercise, sex, age bracket and the four upper bounds for MAB, ABN, NOR and ACN"),
	mcp.WithMIMEType("application/json"),
)
