package mcp

import (
	"context"

	"github.com/claude/trackingtfm/internal/models"
	"github.com/claude/trackingtfm/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	ListTACFLogs(ctx context.Context, userID int) ([]models.TACFLogRow, error)
	ListTFMLogs(ctx context.Context, userID int) ([]models.TFMLogRow, error)
	GetUnitStats(ctx context.Context, f storage.StatsFilter, group string) (*storage.UnitStats, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
