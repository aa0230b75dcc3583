package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/trackingtfm/internal/tacf"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) thresholdTable(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(tacf.Entries())
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
