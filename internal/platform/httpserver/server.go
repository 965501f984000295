package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "timecapsule/internal/platform/httpserver/docs"
	"timecapsule/internal/platform/httpx"
	"timecapsule/internal/platform/module"
)

// SwaggerPrefix serves the API document and UI; Swagger UI reads doc.json raw.
const SwaggerPrefix = "/swagger/"

// Middleware is one step of the request pipeline.
type Middleware func(http.Handler) http.Handler

// Controller is a root-level route group registered next to the feature modules.
type Controller interface {
	Mount(r chi.Router)
}

// Route binds a root controller to its prefix; "" mounts at the router root.
type Route struct {
	Prefix     string
	Controller Controller
}

type Options struct {
	Addr string
	// Pipeline runs in order, outermost first, for every path including 404/405.
	Pipeline    []Middleware
	Controllers []Route
	Modules     *module.Registry
	Logger      *slog.Logger
}

type Server struct {
	router *chi.Mux
	http   *http.Server
	logger *slog.Logger
	addr   string
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	addr := opts.Addr
	if addr == "" {
		addr = ":8080"
	}

	router := chi.NewRouter()
	for _, step := range opts.Pipeline {
		router.Use(step)
	}
	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteError(w, http.StatusNotFound, "route_not_found", "no route matches the request path")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed for this route")
	})

	s := &Server{
		router: router,
		logger: logger,
		addr:   addr,
	}
	s.registerRoutes(opts)
	s.http = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) registerRoutes(opts Options) {
	s.router.Get(SwaggerPrefix+"*", httpSwagger.Handler(
		httpSwagger.URL(SwaggerPrefix+"doc.json"),
	))

	for _, route := range opts.Controllers {
		if route.Prefix == "" {
			route.Controller.Mount(s.router)
			continue
		}
		s.router.Route(route.Prefix, route.Controller.Mount)
	}
	if opts.Modules != nil {
		opts.Modules.MountAll(s.router)
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Addr() string {
	return s.addr
}

// Start blocks serving until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server stopping",
		"event", "http_server_stopping",
		"module", "internal/platform/httpserver",
		"layer", "platform",
	)
	return s.http.Shutdown(ctx)
}
