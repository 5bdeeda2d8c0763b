// Package api implements the HTTP layer for the Ecosystem Blueprint backend.
// Handlers are methods on *Server. Each handler file is responsible for one
// resource group and only imports the dependencies it actually uses.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/evergrowthhq/blueprint-backend/internal/db"
	"github.com/evergrowthhq/blueprint-backend/internal/email"
	"github.com/evergrowthhq/blueprint-backend/internal/store"
	stripeinternal "github.com/evergrowthhq/blueprint-backend/internal/stripe"
	"github.com/evergrowthhq/blueprint-backend/internal/worker"
)

// Config holds values read from environment variables at startup.
type Config struct {
	// BaseURL is used to construct the blueprint access link in emails.
	// e.g. "https://app.evergrowth.com"
	BaseURL string

	// StripeWebhookSecret is the signing secret from the Stripe dashboard.
	StripeWebhookSecret string

	// BlueprintPriceCents is the one-time blueprint price, e.g. 4900.
	BlueprintPriceCents int64

	// Currency is the ISO currency code for checkout, e.g. "usd".
	Currency string

	// Env is "production", "staging", or "development".
	Env string
}

// Store is the subset of store methods the handlers need. Tests inject a stub.
type Store interface {
	AttachPaymentIntent(ctx context.Context, p store.AttachPaymentIntentParams) (db.Session, error)
	InitialiseBlueprint(ctx context.Context, stripePaymentIntent string) (db.Blueprint, error)
}

// Server holds all shared dependencies. Each handler file attaches methods to
// this type and uses only the fields it needs.
type Server struct {
	// q handles all single-query reads. Injected directly — no repo wrapper.
	q db.Querier

	// store handles multi-step atomic writes.
	store Store

	// stripe creates PaymentIntents and verifies webhook signatures.
	stripe stripeinternal.Client

	// worker enqueues scoring jobs after payment confirmation.
	worker worker.Enqueuer

	// mailer sends transactional emails (receipt + blueprint delivery).
	mailer email.Sender

	cfg    Config
	logger *slog.Logger
}

// NewServer constructs the Server and wires the chi router. The returned
// http.Handler is ready to pass to http.ListenAndServe.
func NewServer(
	q db.Querier,
	st Store,
	stripeClient stripeinternal.Client,
	enqueuer worker.Enqueuer,
	mailer email.Sender,
	cfg Config,
	logger *slog.Logger,
) http.Handler {
	s := &Server{
		q:      q,
		store:  st,
		stripe: stripeClient,
		worker: enqueuer,
		mailer: mailer,
		cfg:    cfg,
		logger: logger,
	}

	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// ── Global middleware ─────────────────────────────────────────────────────
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(s.metricsMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(s.corsMiddleware)
	r.Use(middleware.Timeout(30 * time.Second))

	// ── Health & metrics ──────────────────────────────────────────────────────
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// ── API v1 ────────────────────────────────────────────────────────────────
	r.Route("/api", func(r chi.Router) {

		// Catalog — public, static.
		r.Get("/catalog", s.handleGetCatalog)

		// Sessions — no auth required (anonymous creation).
		r.Post("/session", s.handleCreateSession)

		// Session-scoped routes — require valid anon_token header.
		r.Route("/session/{sessionID}", func(r chi.Router) {
			r.Use(s.requireAnonToken)
			r.Patch("/context", s.handleUpdateContext)
			r.Put("/responses", s.handleUpsertResponses)
			r.Get("/score", s.handleScorePreview)
			r.Post("/checkout", s.handleCreateCheckout)
		})

		// Stripe webhook — no auth (signature verification inside handler).
		r.Post("/webhooks/stripe", s.handleStripeWebhook)

		// Blueprint access — no auth (opaque access token in URL).
		r.Get("/blueprint/{accessToken}", s.handleGetBlueprint)
	})

	return r
}
