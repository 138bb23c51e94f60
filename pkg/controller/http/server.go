package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/semrel/pkg/domain/interfaces"
	"github.com/m-mizutani/semrel/pkg/domain/model"
	"github.com/m-mizutani/semrel/pkg/utils/async"
)

// config holds internal HTTP server configuration
type config struct {
	addr          string
	triggerSecret string
	baseRequest   model.ReleaseRequest

	webhookSecret  string
	eventProcessor EventProcessor
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithTriggerSecret sets the secret release triggers are signed with. Without it the
// release endpoint accepts unsigned requests.
func WithTriggerSecret(secret string) Option {
	return func(c *config) {
		c.triggerSecret = secret
	}
}

// WithBaseRequest sets the release options every request starts from
func WithBaseRequest(req model.ReleaseRequest) Option {
	return func(c *config) {
		c.baseRequest = req
	}
}

// WithGitHubWebhook enables POST /hooks/github. Deliveries must be signed with secret.
func WithGitHubWebhook(secret string, processor EventProcessor) Option {
	return func(c *config) {
		c.webhookSecret = secret
		c.eventProcessor = processor
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
	runner *async.Runner
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	releaseUC interfaces.ReleaseUseCase,
	opts ...Option,
) (*Server, error) {
	// Default configuration
	cfg := &config{
		addr: "localhost:8080",
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.triggerSecret == "" {
		ctxlog.From(ctx).Warn("Release trigger secret is not set; POST /projects/{name}/release accepts unsigned requests")
	}

	runner := async.NewRunner()

	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	// Health check
	router.Get("/health", handleHealth(runner))

	// Release endpoints
	releaseHandler := NewReleaseHandler(releaseUC, runner, cfg.baseRequest, cfg.triggerSecret)
	router.Route("/projects/{name}", func(r chi.Router) {
		r.Get("/next", releaseHandler.Next)
		r.Post("/release", releaseHandler.Trigger)
	})

	// GitHub webhook endpoint
	if cfg.eventProcessor != nil {
		if cfg.webhookSecret == "" {
			return nil, goerr.New("GitHub webhook secret is required")
		}
		webhookHandler := NewGitHubWebhookHandler(cfg.webhookSecret, cfg.eventProcessor, runner)
		router.Post("/hooks/github", webhookHandler.Handle)
	}

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		runner: runner,
	}

	return server, nil
}

// Shutdown stops accepting requests and waits for accepted releases to finish
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.Server.Shutdown(ctx)
	s.runner.Wait()
	return err
}
