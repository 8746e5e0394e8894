package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recordbook/internal/domain"
	domrec "github.com/kailas-cloud/recordbook/internal/domain/record"
	logpkg "github.com/kailas-cloud/recordbook/internal/logger"
	"github.com/kailas-cloud/recordbook/internal/usecase/dispatch"
	healthuc "github.com/kailas-cloud/recordbook/internal/usecase/health"
	recorduc "github.com/kailas-cloud/recordbook/internal/usecase/record"
	searchuc "github.com/kailas-cloud/recordbook/internal/usecase/search"
)

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// ErrorCode values.
const (
	CodeBadRequest             ErrorCode = "bad_request"
	CodeUnauthorized           ErrorCode = "unauthorized"
	CodeValidationFailed       ErrorCode = "validation_failed"
	CodeNotFound               ErrorCode = "not_found"
	CodeInvalidFilter          ErrorCode = "invalid_filter"
	CodeUnknownModule          ErrorCode = "unknown_module"
	CodeEmptyCommand           ErrorCode = "empty_command"
	CodeCommandInFlight        ErrorCode = "command_in_flight"
	CodeInterpreterUnavailable ErrorCode = "interpreter_unavailable"
	CodeInternalError          ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    ErrorCode         `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Status  string            `json:"status,omitempty"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the records, search and command APIs.
type Server struct {
	records     *recorduc.Service
	search      *searchuc.Service
	dispatcher  *dispatch.Service
	interpreter Classifier
	health      *healthuc.Service
	logger      *zap.Logger

	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. interpreter is the built-in command
// interpreter and may be nil, in which case POST /api/command is not served.
func NewServer(
	records *recorduc.Service,
	search *searchuc.Service,
	dispatcher *dispatch.Service,
	interpreter Classifier,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		records:     records,
		search:      search,
		dispatcher:  dispatcher,
		interpreter: interpreter,
		health:      health,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		validationHandler,
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrInvalidFilter, http.StatusBadRequest, CodeInvalidFilter),
		sentinelHandler(domain.ErrUnknownModule, http.StatusBadRequest, CodeUnknownModule),
		sentinelHandler(domain.ErrEmptyCommand, http.StatusBadRequest, CodeEmptyCommand),
		sentinelHandler(domain.ErrCommandInFlight, http.StatusConflict, CodeCommandInFlight),
		sentinelHandler(domain.ErrInterpreterUnavailable, http.StatusBadGateway, CodeInterpreterUnavailable),
	}
	return s
}

// Routes mounts every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/ping", s.Ping)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Get("/Records", s.RecordsPage)
	if s.interpreter != nil {
		r.Post("/api/command", s.InterpretCommand)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/citizens", s.CreateCitizen)
		r.Get("/citizens/search", s.SearchCitizens)
		r.Get("/citizens/{id}", s.GetCitizen)

		r.Post("/criminals", s.CreateCriminal)
		r.Get("/criminals/search", s.SearchCriminals)
		r.Get("/criminals/{id}", s.GetCriminal)

		r.Post("/reports", s.CreateReport)
		r.Get("/reports", s.ListReports)

		r.Post("/commands", s.DispatchCommand)
		r.Get("/commands/state", s.CommandState)
	})
}

// Ping handles GET /ping.
func (s *Server) Ping(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "alive"})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	// Degraded still serves records; only a store failure is unavailable.
	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns the sentinel text for known domain errors and a
// generic message otherwise, so wrapped internals never reach clients.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrInvalidRecord,
		domain.ErrInvalidFilter,
		domain.ErrUnknownModule,
		domain.ErrEmptyCommand,
		domain.ErrCommandInFlight,
		domain.ErrInterpreterUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// validationHandler renders record validation failures with per-field messages.
func validationHandler(w http.ResponseWriter, err error, msg string) bool {
	var verr *domrec.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	fields := make(map[string]string, len(verr.Fields))
	for _, f := range verr.Fields {
		fields[f.Field] = f.Message
	}
	writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Code:    CodeValidationFailed,
		Message: msg,
		Fields:  fields,
	})
	return true
}

// requestLogger returns the per-request logger set by the wide-event
// middleware, or the server logger.
func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	return logpkg.FromContextOr(r.Context(), s.logger)
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.requestLogger(r)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
