package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/claude/trackingtfm/internal/mcp"
	"github.com/claude/trackingtfm/internal/models"
	"github.com/claude/trackingtfm/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Store is the data layer used by the HTTP handlers.
type Store interface {
	GetUser(ctx context.Context, userID int) (*models.User, error)
	UpdateUser(ctx context.Context, userID int, upd models.UserUpdate) (*models.User, error)

	InsertTACFLog(ctx context.Context, row models.TACFLogRow) (*models.TACFLogRow, error)
	UpdateTACFLog(ctx context.Context, row models.TACFLogRow) (*models.TACFLogRow, error)
	DeleteTACFLog(ctx context.Context, id uuid.UUID, userID int) error
	ListTACFLogs(ctx context.Context, userID int) ([]models.TACFLogRow, error)
	TACFHistory(ctx context.Context, userID int) ([]models.TACFLogRow, error)

	InsertTFMLog(ctx context.Context, row models.TFMLogRow) (*models.TFMLogRow, error)
	UpdateTFMLog(ctx context.Context, row models.TFMLogRow) (*models.TFMLogRow, error)
	DeleteTFMLog(ctx context.Context, id uuid.UUID, userID int) error
	ListTFMLogs(ctx context.Context, userID int) ([]models.TFMLogRow, error)

	ListOrganizations(ctx context.Context, group string) ([]models.Organization, error)
	ListExercises(ctx context.Context) ([]models.Exercise, error)
	GetUnitStats(ctx context.Context, f storage.StatsFilter, group string) (*storage.UnitStats, error)
}

var _ Store = (*storage.DB)(nil)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db        Store
	log       *slog.Logger
	jwtSecret string
	orgGroup  string
	router    chi.Router
}

// New creates a new Server with all routes configured.
func New(db Store, jwtSecret, orgGroup string, log *slog.Logger) *Server {
	s := &Server{
		db:        db,
		log:       log,
		jwtSecret: jwtSecret,
		orgGroup:  orgGroup,
		router:    chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetMCP serves an MCP handler at /mcp for authenticated users.
func (s *Server) SetMCP(h http.Handler) {
	s.router.With(JWTAuth(s.jwtSecret)).Handle("/mcp", h)
}

// MCPContext scopes MCP tool calls to the token's user. Managers also get
// access to unit statistics. Use it as the streamable HTTP context func.
func MCPContext(ctx context.Context, r *http.Request) context.Context {
	uid, level, ok := Identity(r)
	if !ok {
		return ctx
	}
	ctx = mcp.WithUserID(ctx, uid)
	if level == models.AccessManager {
		ctx = mcp.WithManager(ctx)
	}
	return ctx
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.router.Route("/api/v1", func(r chi.Router) {
		// Registration needs the organization list before the user has a token.
		r.Get("/lists/organizations", s.handleListOrganizations)

		r.Group(func(r chi.Router) {
			r.Use(JWTAuth(s.jwtSecret))

			r.Get("/lists/exercises", s.handleListExercises)

			r.Route("/tacf", func(r chi.Router) {
				r.Get("/", s.handleListTACF)
				r.Post("/", s.handleCreateTACF)
				r.Get("/thresholds", s.handleThresholds)
				r.Get("/classify", s.handleClassifyPreview)
				r.Put("/{id}", s.handleUpdateTACF)
				r.Delete("/{id}", s.handleDeleteTACF)
			})

			r.Route("/tfm", func(r chi.Router) {
				r.Get("/", s.handleListTFM)
				r.Post("/", s.handleCreateTFM)
				r.Put("/{id}", s.handleUpdateTFM)
				r.Delete("/{id}", s.handleDeleteTFM)
			})

			r.Get("/users/me", s.handleGetMe)
			r.Put("/users/me", s.handleUpdateMe)
			r.Get("/users/me/history", s.handleHistory)

			r.With(RequireManager).Get("/admin/stats", s.handleUnitStats)
		})
	})
}
