package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vintegcorp/vintegcorp/announcements"
	"github.com/vintegcorp/vintegcorp/articles"
	"github.com/vintegcorp/vintegcorp/auth"
	"github.com/vintegcorp/vintegcorp/documents"
	"github.com/vintegcorp/vintegcorp/feed"
	"github.com/vintegcorp/vintegcorp/internal/config"
	apperrors "github.com/vintegcorp/vintegcorp/internal/errors"
	"github.com/vintegcorp/vintegcorp/projects"
	"github.com/vintegcorp/vintegcorp/ratelimit"
	"github.com/vintegcorp/vintegcorp/storage/sqlite"
	"github.com/vintegcorp/vintegcorp/tasks"
	"github.com/vintegcorp/vintegcorp/token"
	"github.com/vintegcorp/vintegcorp/users"
)

// Repos are the stores behind the API
type Repos struct {
	Users         users.UserRepo
	Projects      projects.Repo
	Tasks         tasks.Repo
	Articles      articles.Repo
	Announcements announcements.Repo
	Feed          feed.Repo
	Documents     documents.Repo
}

// ReposFromStore exposes every repository of an open sqlite store
func ReposFromStore(store *sqlite.Store) *Repos {
	return &Repos{
		Users:         store.Users(),
		Projects:      store.Projects(),
		Tasks:         store.Tasks(),
		Articles:      store.Articles(),
		Announcements: store.Announcements(),
		Feed:          store.Feed(),
		Documents:     store.Documents(),
	}
}

type Server struct {
	env      string
	config   config.Config
	logger   zerolog.Logger
	repos    Repos
	storeErr error // set when no store is configured; store-backed routes return it
	auth     *auth.Service
	hasher   *auth.Hasher
	limiter  *ratelimit.Limiter
	now      func() time.Time
	routes   []*route
	handler  http.Handler
	quiet    bool
}

type Option func(*Server)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithLimiter replaces the limiter built from the configuration
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(s *Server) {
		s.limiter = l
	}
}

func WithHasher(h *auth.Hasher) Option {
	return func(s *Server) {
		s.hasher = h
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// Quiet turns off the route listing printed at startup in development
func Quiet() Option {
	return func(s *Server) {
		s.quiet = true
	}
}

// New builds the API server. A nil repos means the store is not configured:
// the server still starts, health still answers, and every store-backed route
// reports the configuration problem.
func New(cfg config.Config, repos *Repos, options ...Option) (*Server, error) {
	s := &Server{
		env:    cfg.GetEnv(),
		config: cfg,
		logger: log.Logger,
		hasher: auth.NewHasher(cfg.GetBcryptCost()),
		now:    time.Now,
	}
	if cfg.GetEnableRateLimiting() {
		s.limiter = ratelimit.New(
			ratelimit.WithWindow(cfg.GetRateLimitWindow()),
			ratelimit.WithMaxRequests(cfg.GetRateLimitMaxRequests()),
			ratelimit.WithSweepProbability(cfg.GetRateLimitSweepProbability()),
		)
	}
	for _, opt := range options {
		opt(s)
	}

	for _, problem := range cfg.Problems() {
		s.logger.Warn().Err(problem).Msg("Configuration problem")
	}

	if repos == nil {
		s.storeErr = storeUnavailable(cfg)
	} else {
		s.repos = *repos
		tokens := token.New(token.NewHMACSigner(cfg.GetJWTSecret()), token.WithExpiry(cfg.GetTokenExpiry()))
		authService, err := auth.NewService(s.repos.Users, s.hasher, tokens, auth.WithLogger(s.logger))
		if err != nil {
			return nil, fmt.Errorf("[Server New] failed to create auth service: %w", err)
		}
		s.auth = authService

		if _, err := s.InitialiseSystem(context.Background()); err != nil {
			return nil, fmt.Errorf("[Server New] failed to initialise the system: %w", err)
		}
	}

	s.initRoutes()
	s.logRoutes()

	s.handler = middleware.RequestID(ChainMiddleware(s.dispatch,
		s.RecoverMiddleware,
		s.LoggingMiddleware,
		s.SecurityHeadersMiddleware,
		s.CorsMiddleware,
		s.RateLimitMiddleware,
	))
	return s, nil
}

func storeUnavailable(cfg config.Config) error {
	if _, err := cfg.GetDatabasePath(); err != nil {
		return err
	}
	return &apperrors.ConfigError{Setting: "DATABASE_URL", Reason: "could not be opened"}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// dispatch finds the first route matching the method and path and runs it
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	rt, params := s.match(r.Method, r.URL.Path)
	if rt == nil {
		s.writeError(w, r, apperrors.NotFound(fmt.Sprintf("Route not found: %s %s", r.Method, r.URL.Path)))
		return
	}
	if err := s.serveRoute(rt, w, r, params); err != nil {
		s.writeError(w, r, err)
	}
}

func (s *Server) serveRoute(rt *route, w http.ResponseWriter, r *http.Request, params []string) error {
	if rt.usesStore && s.storeErr != nil {
		return s.storeErr
	}
	if rt.body != nil {
		ctx, err := s.bindBody(w, r, rt.body)
		if err != nil {
			return err
		}
		r = r.WithContext(ctx)
	}
	if rt.auth {
		claims, err := s.authenticate(r)
		if err != nil {
			return err
		}
		r = r.WithContext(withClaims(r.Context(), claims))
	}
	return rt.handler(w, r, params)
}

func (s *Server) match(method, path string) (*route, []string) {
	for _, rt := range s.routes {
		if rt.method != method {
			continue
		}
		if m := rt.pattern.FindStringSubmatch(path); m != nil {
			return rt, m[1:]
		}
	}
	return nil, nil
}

func (s *Server) logRoutes() {
	if s.quiet || s.env != config.DevEnvironment {
		return
	}
	for _, rt := range s.routes {
		logRoute(rt.method, rt.pattern.String())
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	fmt.Printf("[%-19s] %s\n", displayMethod, path)
}
