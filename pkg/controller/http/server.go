package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ledgerkit/txcleanup/pkg/domain/interfaces"
)

// DefaultMaxLedgerSize limits request bodies of the clean endpoint
const DefaultMaxLedgerSize = 32 << 20

// config holds internal HTTP server configuration
type config struct {
	addr          string
	jwtSecret     []byte
	maxLedgerSize int64
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithJWTSecret requires an HS256 bearer token signed with secret on /api routes
func WithJWTSecret(secret string) Option {
	return func(c *config) {
		if secret != "" {
			c.jwtSecret = []byte(secret)
		}
	}
}

// WithMaxLedgerSize overrides DefaultMaxLedgerSize
func WithMaxLedgerSize(n int64) Option {
	return func(c *config) {
		c.maxLedgerSize = n
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	cleanUC interfaces.CleanUseCase,
	reportUC interfaces.ReportUseCase,
	opts ...Option,
) (*Server, error) {
	cfg := &config{
		addr:          "localhost:8080",
		maxLedgerSize: DefaultMaxLedgerSize,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	doc, err := LoadAPISpec(ctx)
	if err != nil {
		return nil, err
	}
	staleDays, err := queryParam(doc, "/api/v1/usage", "stale_days")
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	router.Get("/health", handleHealth)
	router.Get("/openapi.json", handleAPISpec(doc))

	router.Route("/api/v1", func(r chi.Router) {
		if cfg.jwtSecret != nil {
			r.Use(AuthMiddleware(cfg.jwtSecret))
		}

		clean := &cleanHandler{uc: cleanUC, maxSize: cfg.maxLedgerSize}
		r.Post("/clean", clean.Handle)

		usage := &usageHandler{uc: reportUC, staleDays: staleDays}
		r.Get("/usage", usage.Handle)
	})

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}

	return server, nil
}
