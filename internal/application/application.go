package application

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/pallet-planner/internal/api"
	"github.com/eugenenazirov/pallet-planner/internal/config"
	"github.com/eugenenazirov/pallet-planner/internal/packing"
	"github.com/eugenenazirov/pallet-planner/internal/presentation"
	"github.com/eugenenazirov/pallet-planner/internal/render"
	"github.com/eugenenazirov/pallet-planner/internal/storage"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	sessions   storage.SessionStore
	enumerator packing.Enumerator
	handler    *api.Handler
	router     http.Handler
	logger     *zap.Logger
	server     *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	sessions, err := storage.NewMemorySessionStore(cfg.SessionCapacity, cfg.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create session store: %w", err)
	}

	enumerator, err := storage.NewCachedEnumerator(packing.New(), cfg.CacheCapacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create ranking cache: %w", err)
	}

	diagram := render.NewSVG(
		render.WithBudget(cfg.DiagramBudget),
		render.WithMaxScale(cfg.DiagramMaxScale),
		render.WithBoxLimit(cfg.DiagramMaxBoxes),
	)
	scene := render.NewScene(render.WithSceneBoxLimit(cfg.DiagramMaxBoxes))
	handler := api.NewHandler(enumerator, sessions, logger,
		api.WithSessionOptions(
			presentation.WithRenderer(render.KindSVG, diagram),
			presentation.WithRenderer(render.KindScene, scene),
		),
	)
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	rootHandler, err := BuildRootHandler(apiRouter)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP handler: %w", err)
	}

	return &App{
		sessions:   sessions,
		enumerator: enumerator,
		handler:    handler,
		router:     apiRouter,
		logger:     logger,
		server:     NewServer(cfg, rootHandler),
	}, nil
}

// BuildRootHandler constructs the root HTTP handler that serves the planner page,
// its static assets, and routes API requests.
func BuildRootHandler(apiHandler http.Handler) (http.Handler, error) {
	mux := http.NewServeMux()

	staticPath, err := resolveProjectPath(filepath.Join("web", "static"))
	if err != nil {
		return nil, err
	}
	staticDir := http.Dir(staticPath)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(staticDir)))
	mux.Handle("/api/", apiHandler)

	indexPath, err := resolveProjectPath(filepath.Join("web", "templates", "index.html"))
	if err != nil {
		return nil, err
	}
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, indexPath)
	}))

	return mux, nil
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// resolveProjectPath locates a file or directory relative to the project root by walking up the directory tree.
func resolveProjectPath(relative string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, relative)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("unable to locate %s", relative)
}
