package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/moviesapp/internal/config"
	"github.com/Clark-Hu/moviesapp/internal/domain"
	"github.com/Clark-Hu/moviesapp/internal/viewmodel"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// MovieActions serves the per-movie endpoints.
type MovieActions interface {
	Trailers(ctx context.Context, movieID int64) (domain.MovieTrailer, error)
	State(ctx context.Context, movieID int64) (domain.MovieState, error)
	SetFavourite(ctx context.Context, movieID int64, favorite bool) (domain.MovieState, error)
	ToggleFavourite(ctx context.Context, movieID int64) (domain.MovieState, error)
}

// Deps are the collaborators the server renders screens from.
type Deps struct {
	Health  HealthChecker
	Home    *viewmodel.Home
	Explore *viewmodel.Explore
	MyList  *viewmodel.MyList
	Movies  MovieActions
	Logger  logrus.FieldLogger
}

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg     config.Config
	health  HealthChecker
	home    *viewmodel.Home
	explore *viewmodel.Explore
	mylist  *viewmodel.MyList
	movies  MovieActions
	logger  logrus.FieldLogger
	router  chi.Router
	httpSrv *http.Server
}

// New constructs the HTTP server with base middleware and routes.
func New(cfg config.Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger = logger.WithField("component", "http")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: logger, NoColor: true}))
	r.Use(middleware.Recoverer)

	s := &Server{
		cfg:     cfg,
		health:  deps.Health,
		home:    deps.Home,
		explore: deps.Explore,
		mylist:  deps.MyList,
		movies:  deps.Movies,
		logger:  logger,
		router:  r,
	}
	s.registerRoutes()
	return s
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Get("/screens", s.handleBottomBar)
	s.router.Get("/screens/{route}", s.handleScreen)

	s.router.Route("/home", func(r chi.Router) {
		r.Get("/", s.handleHome)
		r.Post("/refresh", s.handleHomeRefresh)
		r.Get("/new-releases", s.handleNewReleases)
		r.Post("/new-releases", s.handleLoadNewReleases)
		r.Get("/top-rated", s.handleTopRated)
		r.Post("/top-rated", s.handleLoadTopRated)
		r.Get("/new-releases/pages", s.handleNewReleasePages)
		r.Get("/upcoming/pages", s.handleUpcomingPages)
	})

	s.router.Get("/explore", s.handleExplore)
	s.router.Put("/explore/search", s.handleUpdateSearch)
	s.router.Post("/explore/genres", s.handleLoadGenres)

	s.router.Get("/mylist", s.handleMyList)
	s.router.Post("/mylist/refresh", s.handleMyListRefresh)

	s.router.Get("/download", s.handleDownload)

	s.router.Get("/profile", s.handleProfile)
	s.router.Post("/profile/sign-out", s.handleSignOut)

	s.router.Route("/movies/{id}", func(r chi.Router) {
		r.Get("/trailers", s.handleTrailers)
		r.Get("/state", s.handleMovieState)
		r.Put("/favourite", s.handleFavourite)
	})

	s.router.Get("/ws/{feed}", s.handleStream)
}

// Start boots the HTTP server and blocks until ctx ends or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if s.health != nil {
		if err := s.health.HealthCheck(ctx); err != nil {
			s.logger.WithError(err).Warn("health check failed")
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
