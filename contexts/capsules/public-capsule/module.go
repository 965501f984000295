package publiccapsule

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"

	httpadapter "timecapsule/contexts/capsules/public-capsule/adapters/http"
	"timecapsule/contexts/capsules/public-capsule/adapters/memory"
	"timecapsule/contexts/capsules/public-capsule/application/queries"
	"timecapsule/contexts/capsules/public-capsule/ports"
)

const (
	ModuleName       = "public-capsule"
	ControllerPrefix = "/public-capsules"
)

// Module owns the public capsule models and use cases. Its routes are served
// by Controller, which the composition root mounts as a root-level controller,
// so the module itself claims no prefix.
type Module struct {
	Handler    httpadapter.Handler
	Controller httpadapter.PublicCapsulesController
	Store      *memory.Store
	models     []any
}

type Dependencies struct {
	Repository    ports.Repository
	Clock         ports.Clock
	Cache         ports.Cache
	CacheObserver ports.CacheObserver
	CacheTTL      time.Duration
	Models        []any
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	aside := queries.CacheAside{
		Cache:    deps.Cache,
		Observer: deps.CacheObserver,
		TTL:      deps.CacheTTL,
		Logger:   deps.Logger,
	}
	handler := httpadapter.Handler{
		List: queries.ListPublicCapsulesUseCase{
			Repository: deps.Repository,
			Clock:      deps.Clock,
			Cache:      aside,
		},
		Get: queries.GetPublicCapsuleUseCase{
			Repository: deps.Repository,
			Clock:      deps.Clock,
			Cache:      aside,
		},
		Logger: deps.Logger,
	}
	return Module{
		Handler:    handler,
		Controller: httpadapter.PublicCapsulesController{Handler: handler},
		models:     deps.Models,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory adapters
// and no cache.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Clock:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}

func (m Module) Name() string { return ModuleName }

func (m Module) Prefix() string { return "" }

func (m Module) Models() []any { return m.models }

func (m Module) Mount(chi.Router) {}
