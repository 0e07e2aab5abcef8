// Package server assembles the HTTP API: middleware stack, routes and lifecycle.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/osse101/Underworld_Go/internal/achievement"
	"github.com/osse101/Underworld_Go/internal/catalog"
	"github.com/osse101/Underworld_Go/internal/character"
	"github.com/osse101/Underworld_Go/internal/clock"
	"github.com/osse101/Underworld_Go/internal/cooldown"
	"github.com/osse101/Underworld_Go/internal/economy"
	"github.com/osse101/Underworld_Go/internal/encounter"
	"github.com/osse101/Underworld_Go/internal/eventlog"
	"github.com/osse101/Underworld_Go/internal/handler"
	"github.com/osse101/Underworld_Go/internal/logger"
	"github.com/osse101/Underworld_Go/internal/metrics"
	"github.com/osse101/Underworld_Go/internal/sse"
)

// Options configures the listener and its security middleware
type Options struct {
	Port           int
	APIKey         string
	TrustedProxies []string
	RateLimit      RateLimit
	Clock          clock.Clock
}

// Services are the collaborators the routes call into
type Services struct {
	Store        handler.Pinger
	Catalog      catalog.Catalog
	Characters   character.Service
	Status       cooldown.Service
	Encounters   encounter.Service
	Economy      economy.Service
	Achievements achievement.Service
	// Journal is optional
	Journal eventlog.Service
	// Jobs can be triggered by name from the admin routes
	Jobs map[string]handler.BatchFunc
	// Events backs the live event stream. Optional.
	Events *sse.Hub
}

// Server is the HTTP front of the game core
type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(opts Options, svc Services) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           NewRouter(opts, svc),
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

// NewRouter builds the middleware stack and every route.
// Middleware runs in the order it is added, outermost first.
func NewRouter(opts Options, svc Services) chi.Router {
	r := chi.NewRouter()

	detector := NewSuspiciousActivityDetector(opts.Clock, opts.RateLimit)

	r.Use(SecurityHeadersMiddleware())
	r.Use(RateLimitMiddleware(opts.TrustedProxies, detector))
	r.Use(AuthMiddleware(opts.APIKey, opts.TrustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(maxRequestBytes))
	r.Use(metrics.Middleware)
	r.Use(tracingMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(svc.Store))
	r.Get("/version", handler.HandleVersion())
	r.Handle("/metrics", promhttp.Handler())

	characters := handler.NewCharacterHandler(svc.Characters, svc.Status, svc.Achievements, svc.Journal)
	encounters := handler.NewEncounterHandler(svc.Encounters)
	econ := handler.NewEconomyHandler(svc.Economy)
	market := handler.NewMarketHandler(svc.Economy, svc.Catalog)
	admin := handler.NewAdminHandler(svc.Status, svc.Jobs)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", market.HandleCatalog)
		r.Get("/market/instruments", market.HandleInstruments)
		if svc.Events != nil {
			r.Get("/events", sse.Handler(svc.Events))
		}

		r.Post("/characters", characters.HandleCreate)
		r.Route("/characters/{id}", func(r chi.Router) {
			r.Get("/", characters.HandleGet)
			r.Delete("/", characters.HandleDelete)
			r.Get("/history", characters.HandleHistory)
			r.Get("/activity", characters.HandleActivity)
			r.Get("/achievements", characters.HandleAchievements)
			r.Post("/achievements/evaluate", characters.HandleEvaluateAchievements)
			r.Get("/cooldown", characters.HandleCooldown)

			r.Post("/crimes", encounters.HandleCommitCrime)
			r.Post("/missions", encounters.HandleCompleteMission)
			r.Post("/gym", encounters.HandleTrain)
			r.Post("/attack", encounters.HandleAttack)

			r.Post("/transfer", econ.HandleTransfer)
			r.Post("/bank/deposit", econ.HandleDeposit)
			r.Post("/bank/withdraw", econ.HandleWithdraw)
			r.Get("/inventory", econ.HandleInventory)
			r.Post("/items/buy", econ.HandleBuyItem)
			r.Post("/items/use", econ.HandleUseItem)
			r.Post("/items/equip", econ.HandleEquipItem)
			r.Get("/properties", econ.HandleProperties)
			r.Post("/properties", econ.HandleBuyProperty)
			r.Post("/travel", econ.HandleTravel)
			r.Get("/bounties", econ.HandleActiveBounties)
			r.Post("/bounties", econ.HandlePlaceBounty)
			r.Delete("/bounties/{bountyID}", econ.HandleCancelBounty)

			r.Get("/portfolio", market.HandlePortfolio)
			r.Post("/trades", market.HandleTrade)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/characters/{id}/credit", econ.HandleCredit)
			r.Post("/characters/{id}/debit", econ.HandleDebit)
			r.Post("/characters/{id}/status", admin.HandleSetStatus)
			r.Post("/characters/{id}/cooldowns/reset", admin.HandleResetCooldown)
			r.Post("/jobs/{job}", admin.HandleRunJob)
		})
	})

	return r
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func quietPath(path string) bool {
	return strings.HasPrefix(path, "/healthz") ||
		strings.HasPrefix(path, "/readyz") ||
		strings.HasPrefix(path, "/metrics")
}

// tracingMiddleware opens one server span per API request, named after the matched route
func tracingMiddleware(next http.Handler) http.Handler {
	tracer := otel.Tracer(tracerName)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if quietPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		ctx, span := tracer.Start(r.Context(), r.Method+" "+r.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("http.request.method", r.Method)))
		defer span.End()

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r.WithContext(ctx))

		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			span.SetName(r.Method + " " + rctx.RoutePattern())
			span.SetAttributes(attribute.String("http.route", rctx.RoutePattern()))
		}
		span.SetAttributes(attribute.Int("http.response.status_code", rw.statusCode))
		if rw.statusCode >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(rw.statusCode))
		}
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if quietPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		ctx := logger.WithRequestID(r.Context(), logger.GenerateRequestID())
		r = r.WithContext(ctx)
		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitized := make(http.Header, len(r.Header))
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitized[k] = []string{RedactedValue}
			} else {
				sanitized[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitized)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start serves until Stop is called. It returns http.ErrServerClosed after a clean stop.
func (s *Server) Start() error {
	logger.Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
