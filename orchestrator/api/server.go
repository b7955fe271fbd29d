// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/kostasense/software-back-sub000/connectors/registry"
	"github.com/kostasense/software-back-sub000/connectors/router"
	"github.com/kostasense/software-back-sub000/orchestrator/expediente"
	"github.com/kostasense/software-back-sub000/orchestrator/requirements"
	"github.com/kostasense/software-back-sub000/shared/logger"
)

// Expedientes generates and reads expedientes
type Expedientes interface {
	Generate(ctx context.Context, userKey string) (*expediente.Expediente, error)
	Get(ctx context.Context, professorKey string, year int) (*expediente.Expediente, error)
	Ping(ctx context.Context) error
}

// Requirements validates professor requirements
type Requirements interface {
	Validate(ctx context.Context, userKey string) (*requirements.Checklist, error)
}

// Tenants lists the connection directory
type Tenants interface {
	ListTenants(ctx context.Context) ([]registry.TenantSummary, error)
}

// Connections is the live tenant connection set
type Connections interface {
	Release(ctx context.Context, tenantKey string) error
	Connected() []router.ConnectionInfo
	HitRate() float64
}

// Config configures the HTTP surface
type Config struct {
	AllowedOrigins []string
	JWTSecret      string
	AuthDisabled   bool
}

// Server holds the handlers' collaborators
type Server struct {
	expedientes  Expedientes
	requirements Requirements
	tenants      Tenants
	connections  Connections
	auth         *Authenticator
	cfg          Config
	log          *logger.Logger
}

var (
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expedientes_http_requests_total",
			Help: "HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "expedientes_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration)
}

// NewServer creates the HTTP server. tenants may be nil when the directory
// cannot be listed.
func NewServer(exp Expedientes, reqs Requirements, tenants Tenants, conns Connections, cfg Config) *Server {
	s := &Server{
		expedientes:  exp,
		requirements: reqs,
		tenants:      tenants,
		connections:  conns,
		cfg:          cfg,
		log:          logger.New("api"),
	}
	if !cfg.AuthDisabled {
		s.auth = NewAuthenticator(cfg.JWTSecret)
	}
	return s
}

// Handler builds the routed, CORS-wrapped handler
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestID, s.instrument)

	r.HandleFunc("/health", s.health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	if s.auth != nil {
		api.Use(s.auth.Middleware)
	}
	api.HandleFunc("/expedientes/{userKey}", s.generateExpediente).Methods("POST")
	api.HandleFunc("/expedientes/{professorKey}/{year:[0-9]+}", s.getExpediente).Methods("GET")
	api.HandleFunc("/requirements/{userKey}", s.validateRequirements).Methods("GET")
	api.HandleFunc("/tenants", s.listTenants).Methods("GET")
	api.HandleFunc("/tenants/{tenantKey}/release", s.releaseTenant).Methods("POST")

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

// requestID propagates X-Request-ID, generating one when absent
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
