package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recordbook/internal/domain"
	"github.com/kailas-cloud/recordbook/internal/domain/command"
	"github.com/kailas-cloud/recordbook/internal/domain/module"
	"github.com/kailas-cloud/recordbook/internal/domain/search/filter"
	"github.com/kailas-cloud/recordbook/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/recordbook/internal/logger"
	"github.com/kailas-cloud/recordbook/internal/metrics"
)

// DefaultTimeout bounds a single interpreter call.
const DefaultTimeout = 10 * time.Second

// Options tune dispatcher behavior.
type Options struct {
	// Policy decides whether an interpreter-supplied "query" entity survives normalization.
	Policy filter.Policy
	// ReportUnknownModule sets a visible status for unrecognized modules instead of staying silent.
	ReportUnknownModule bool
	// Timeout bounds the interpreter call. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Outcome describes one dispatched command.
type Outcome struct {
	CommandID      string                 `json:"command_id"`
	Source         command.Source         `json:"source"`
	Classification command.Classification `json:"classification"`
	Module         module.Module          `json:"module,omitempty"`
	Recognized     bool                   `json:"recognized"`
	Filters        filter.Set             `json:"filters"`
	Page           *result.Page           `json:"page,omitempty"`
	Status         string                 `json:"status"`
}

// Service routes command text through the interpreter to a module search.
// One command may be outstanding at a time.
type Service struct {
	interp   Interpreter
	searcher Searcher
	opts     Options
	logger   *zap.Logger

	inFlight atomic.Bool

	mu    sync.RWMutex
	state State
}

// New creates a dispatcher.
func New(interp Interpreter, searcher Searcher, opts Options, logger *zap.Logger) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		interp:   interp,
		searcher: searcher,
		opts:     opts,
		logger:   logger,
		state:    initialState(),
	}
}

// State returns a snapshot of the current screen state.
func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state.clone()
	st.Busy = s.inFlight.Load()
	return st
}

// Dispatch handles one command. Empty text fails with domain.ErrEmptyCommand
// before any interpreter call. A concurrent call fails with
// domain.ErrCommandInFlight. Interpreter failures wrap
// domain.ErrInterpreterUnavailable. An unrecognized module is not an error:
// the outcome reports Recognized=false and no search runs.
func (s *Service) Dispatch(ctx context.Context, text string, source command.Source) (Outcome, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		s.setStatus(StatusEmptyCommand)
		metrics.CommandsTotal.WithLabelValues(string(source), metrics.OutcomeEmpty).Inc()
		return Outcome{Source: source, Status: StatusEmptyCommand}, domain.ErrEmptyCommand
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		metrics.CommandsTotal.WithLabelValues(string(source), metrics.OutcomeBusy).Inc()
		return Outcome{Source: source}, domain.ErrCommandInFlight
	}
	defer s.inFlight.Store(false)

	out := Outcome{CommandID: uuid.NewString(), Source: source}
	log := logpkg.FromContextOr(ctx, s.logger).With(
		zap.String("command_id", out.CommandID),
		zap.String("source", string(source)),
	)
	s.mu.Lock()
	s.state.LastCommandID = out.CommandID
	s.mu.Unlock()

	cls, err := s.classify(ctx, text)
	if err != nil {
		log.Error("Interpreter call failed", zap.Error(err))
		s.setStatus(StatusSendFailed)
		out.Status = StatusSendFailed
		metrics.CommandsTotal.WithLabelValues(string(source), metrics.OutcomeError).Inc()
		return out, fmt.Errorf("classify command: %w", err)
	}
	out.Classification = cls
	out.Status = prettyJSON(cls)
	s.setStatus(out.Status)

	m, ok := module.FromInterpreter(cls.Module)
	if !ok {
		log.Warn("Unrecognized module", zap.String("module", cls.Module))
		if s.opts.ReportUnknownModule {
			out.Status = StatusUnknownModule + ": " + cls.Module
			s.setStatus(out.Status)
		}
		metrics.CommandsTotal.WithLabelValues(string(source), metrics.OutcomeUnrecognized).Inc()
		return out, nil
	}
	out.Module = m
	out.Recognized = true

	fs := filter.Normalize(m, cls.Entities, s.opts.Policy)
	out.Filters = fs

	s.mu.Lock()
	s.state.ActiveSection = m
	s.state.SearchInputs[m] = fs.Query()
	s.mu.Unlock()

	page, err := s.searcher.Search(ctx, fs)
	if err != nil {
		log.Error("Search failed", zap.String("module", string(m)), zap.Error(err))
		metrics.CommandsTotal.WithLabelValues(string(source), metrics.OutcomeError).Inc()
		return out, fmt.Errorf("search %s: %w", m, err)
	}
	out.Page = &page

	s.mu.Lock()
	s.state.Results = &page
	s.mu.Unlock()

	metrics.CommandsTotal.WithLabelValues(string(source), metrics.OutcomeSearched).Inc()
	log.Info("Command dispatched",
		zap.String("module", string(m)),
		zap.String("mode", string(page.Kind)),
		zap.Int("results", page.Total()),
	)
	return out, nil
}

func (s *Service) classify(ctx context.Context, text string) (command.Classification, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	cls, err := s.interp.Classify(ctx, text)
	if err != nil {
		return command.Classification{}, fmt.Errorf("%w: %w", domain.ErrInterpreterUnavailable, err)
	}
	return cls, nil
}

func (s *Service) setStatus(status string) {
	s.mu.Lock()
	s.state.Status = status
	s.mu.Unlock()
}

func prettyJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}
