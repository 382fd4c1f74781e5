package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/tuanvumaihuynh/medical-inventory/internal/config"
	"github.com/tuanvumaihuynh/medical-inventory/internal/http/apierr"
	"github.com/tuanvumaihuynh/medical-inventory/internal/http/metric"
	"github.com/tuanvumaihuynh/medical-inventory/internal/http/middleware"
	"github.com/tuanvumaihuynh/medical-inventory/internal/http/swagger"
	"github.com/tuanvumaihuynh/medical-inventory/internal/service"
	"github.com/tuanvumaihuynh/medical-inventory/pkg/validator"
)

var tracer = otel.Tracer("internal/http")

// Service represents the HTTP service.
type Service struct {
	cfg      config.HTTP
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metric.Metrics

	medicineSvc service.MedicineService
	userSvc     service.UserService
	health      HealthChecker
	validator   validator.Validator
}

type CleanupFunc func(ctx context.Context) error

// handlerFunc is an HTTP handler whose error is rendered by the service.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func New(
	cfg config.HTTP,
	log *slog.Logger,
	medicineSvc service.MedicineService,
	userSvc service.UserService,
	health HealthChecker,
	v validator.Validator,
) *Service {
	registry := prometheus.NewRegistry()

	return &Service{
		cfg:         cfg,
		logger:      log.With(slog.String("service", "http")),
		registry:    registry,
		metrics:     metric.New(registry),
		medicineSvc: medicineSvc,
		userSvc:     userSvc,
		health:      health,
		validator:   v,
	}
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	handler, err := s.Handler(ctx)
	if err != nil {
		return nil, err
	}

	return s.RunWithServer(ctx, handler)
}

// Handler builds the router with middlewares, docs and API routes.
func (s *Service) Handler(ctx context.Context) (http.Handler, error) {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		if err := swagger.Register(ctx, r); err != nil {
			return nil, fmt.Errorf("register swagger: %w", err)
		}
	}

	s.RegisterHandlers(r)

	return r, nil
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("listen on port %d: %w", s.cfg.Port, err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server stopped", slog.Any("error", err))
		}
	}()

	s.logger.Info("http server listening", slog.String("addr", ln.Addr().String()))

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.CorrelationID(),
		middleware.Cors(s.cfg.CorsOrigins),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) {
	system := &systemHandler{health: s.health}
	medicines := newMedicineHandler(s.medicineSvc, s.validator)
	users := newUserHandler(s.userSvc)

	r.Get("/", s.handle(system.Index))
	r.Get("/healthz", s.handle(system.Health))

	r.Get("/medicines", s.handle(medicines.ListMedicines))
	r.Post("/medicines", s.handle(medicines.CreateMedicine))
	r.Put("/medicines/{id}", s.handle(medicines.UpdateMedicine))
	r.Delete("/medicines/{id}", s.handle(medicines.DeleteMedicine))
	r.Get("/search", s.handle(medicines.SearchMedicines))
	r.Get("/alerts", s.handle(medicines.GetAlerts))
	r.Get("/users", s.handle(users.ListUsers))

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))
}

func (s *Service) handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		switch {
		case err == nil:
		case errors.Is(err, errWriteResponse):
			s.logger.WarnContext(r.Context(), "error writing response", slog.Any("error", err))
		default:
			s.handleResponseError(w, r, err)
		}
	}
}

func (s *Service) handleResponseError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	s.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	if err := json.NewEncoder(w).Encode(res); err != nil {
		s.logger.ErrorContext(r.Context(), "error encoding error response",
			slog.Any("error", err))
	}
}

// errWriteResponse marks failures after the status line was sent.
var errWriteResponse = errors.New("write response")

func writeJSON(w http.ResponseWriter, status int, body any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		return fmt.Errorf("%w: %w", errWriteResponse, err)
	}
	return nil
}
