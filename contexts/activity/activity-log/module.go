package activitylog

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"

	httpadapter "timecapsule/contexts/activity/activity-log/adapters/http"
	"timecapsule/contexts/activity/activity-log/adapters/memory"
	"timecapsule/contexts/activity/activity-log/application/commands"
	"timecapsule/contexts/activity/activity-log/application/queries"
	"timecapsule/contexts/activity/activity-log/application/workers"
	"timecapsule/contexts/activity/activity-log/ports"
)

const (
	ModuleName  = "activity-log"
	RoutePrefix = "/activity-logs"
)

// Module is the activity-log composition root exposed to runtime wiring.
type Module struct {
	Handler    httpadapter.Handler
	Middleware httpadapter.Middleware
	Sweeper    workers.RetentionSweeper
	Store      *memory.Store
	models     []any
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository    ports.Repository
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	Observer      ports.RecordObserver
	Retention     time.Duration
	RecordTimeout time.Duration
	// Models are the persistence models handed to schema sync.
	Models []any
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	record := commands.RecordActivityUseCase{
		Repository:  deps.Repository,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Observer:    deps.Observer,
		Logger:      deps.Logger,
	}
	list := queries.ListActivitiesUseCase{
		Repository: deps.Repository,
		Logger:     deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			List:   list,
			Logger: deps.Logger,
		},
		Middleware: httpadapter.Middleware{
			Record:  record,
			Timeout: deps.RecordTimeout,
			Logger:  deps.Logger,
		},
		Sweeper: workers.RetentionSweeper{
			Repository: deps.Repository,
			Clock:      deps.Clock,
			Retention:  deps.Retention,
			Logger:     deps.Logger,
		},
		models: deps.Models,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory adapters.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:  store,
		Clock:       store,
		IDGenerator: store,
		Retention:   90 * 24 * time.Hour,
		Logger:      logger,
	})
	module.Store = store
	return module
}

func (m Module) Name() string { return ModuleName }

func (m Module) Prefix() string { return RoutePrefix }

func (m Module) Models() []any { return m.models }

func (m Module) Mount(r chi.Router) {
	m.Handler.Mount(r)
}
