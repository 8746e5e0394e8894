package recordbook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recordbook/internal/db/memory"
	dbRedis "github.com/kailas-cloud/recordbook/internal/db/redis"
	"github.com/kailas-cloud/recordbook/internal/domain/command"
	domrec "github.com/kailas-cloud/recordbook/internal/domain/record"
	"github.com/kailas-cloud/recordbook/internal/domain/search/filter"
	"github.com/kailas-cloud/recordbook/internal/domain/search/result"
	recrepo "github.com/kailas-cloud/recordbook/internal/repository/record"
	"github.com/kailas-cloud/recordbook/internal/repository/sqlrecord"
	interpclient "github.com/kailas-cloud/recordbook/internal/transport/interpreter"
	openaiTransport "github.com/kailas-cloud/recordbook/internal/transport/openai"
	"github.com/kailas-cloud/recordbook/internal/usecase/dispatch"
	healthuc "github.com/kailas-cloud/recordbook/internal/usecase/health"
	"github.com/kailas-cloud/recordbook/internal/usecase/interpret"
	recorduc "github.com/kailas-cloud/recordbook/internal/usecase/record"
	searchuc "github.com/kailas-cloud/recordbook/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "recordbook:"
)

// Internal interfaces, swapped for fakes in tests.
type recordUseCase interface {
	CreateCitizen(ctx context.Context, name string, age int, address, governmentID string) (domrec.Citizen, error)
	GetCitizen(ctx context.Context, id int64) (domrec.Citizen, error)
	CreateCriminal(
		ctx context.Context, name, crime string, dateArrested time.Time, governmentID string,
	) (domrec.Criminal, error)
	GetCriminal(ctx context.Context, id int64) (domrec.Criminal, error)
	CreateReport(
		ctx context.Context, dateTime time.Time, officerName, location, involvedPersons, description string,
	) (domrec.Report, error)
	ListReports(ctx context.Context) ([]domrec.Report, error)
}

type searchUseCase interface {
	Search(ctx context.Context, fs filter.Set) (result.Page, error)
	Citizens(ctx context.Context, fs filter.Set) ([]domrec.Citizen, error)
	Criminals(ctx context.Context, fs filter.Set) ([]domrec.Criminal, error)
}

type dispatchUseCase interface {
	Dispatch(ctx context.Context, text string, source command.Source) (dispatch.Outcome, error)
	State() dispatch.State
}

// backend is a record store both use cases can run on.
type backend interface {
	recorduc.Repository
	searchuc.Repository
}

// Client is the recordbook SDK entry point.
type Client struct {
	closeFn   func()
	pinger    healthuc.DBPinger
	records   recordUseCase
	search    searchUseCase
	dispatch  dispatchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a recordbook Client and connects to the record store.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{keyPrefix: defaultKeyPrefix}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("recordbook: record store required (use WithValkey, WithRedis, WithSQLite or WithMemory)")
	}
	policy, err := filter.ParsePolicy(cfg.policy)
	if err != nil {
		return nil, fmt.Errorf("recordbook: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	repo, pinger, closeFn, err := createBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return wireClient(cfg, policy, repo, pinger, closeFn, obs), nil
}

func createBackend(ctx context.Context, cfg *clientConfig) (backend, healthuc.DBPinger, func(), error) {
	switch cfg.driver {
	case driverValkey, driverRedis:
		if len(cfg.addrs) == 0 || cfg.addrs[0] == "" {
			return nil, nil, nil, errors.New("recordbook: database address required")
		}
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.addrs,
			Password:   cfg.password,
			ClientName: "recordbook-sdk",
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("recordbook: create %s store: %w", cfg.driver, err)
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, nil, nil, fmt.Errorf("recordbook: database not ready: %w", err)
		}
		return recrepo.New(s, cfg.keyPrefix), s, s.Close, nil
	case driverSQLite:
		r, err := sqlrecord.Open(cfg.path)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("recordbook: open sqlite: %w", err)
		}
		return r, r, func() { _ = r.Close() }, nil
	case driverMemory:
		s := memory.NewStore()
		return recrepo.New(s, cfg.keyPrefix), s, s.Close, nil
	default:
		return nil, nil, nil, fmt.Errorf("recordbook: unknown driver %q", cfg.driver)
	}
}

func wireClient(
	cfg *clientConfig, policy filter.Policy, repo backend, pinger healthuc.DBPinger, closeFn func(), obs *observer,
) *Client {
	// The SDK reports through slog; internal services stay quiet.
	logger := zap.NewNop()

	interp, checker := buildInterpreter(cfg, logger)

	searchSvc := searchuc.New(repo, logger)
	dispatchSvc := dispatch.New(interp, searchSvc, dispatch.Options{
		Policy:              policy,
		ReportUnknownModule: cfg.reportUnknown,
		Timeout:             cfg.timeout,
	}, logger)

	return &Client{
		closeFn:   closeFn,
		pinger:    pinger,
		records:   recorduc.New(repo, logger),
		search:    searchSvc,
		dispatch:  dispatchSvc,
		healthSvc: healthuc.New(pinger, checker),
		obs:       obs,
	}
}

// buildInterpreter picks the command interpreter: a custom one, the remote
// service, an OpenAI model backed by keywords, or keywords alone.
func buildInterpreter(cfg *clientConfig, logger *zap.Logger) (dispatch.Interpreter, healthuc.InterpreterChecker) {
	switch {
	case cfg.interpreter != nil:
		return &interpreterAdapter{inner: cfg.interpreter}, nil
	case cfg.interpreterURL != "":
		c := interpclient.NewClient(interpclient.Config{
			BaseURL: cfg.interpreterURL,
			Timeout: cfg.timeout,
			Logger:  logger,
		})
		return c, c
	case cfg.openAI != nil:
		c := openaiTransport.NewClassifier(&openaiTransport.Config{
			APIKey:  cfg.openAI.apiKey,
			BaseURL: cfg.openAI.baseURL,
			Model:   cfg.openAI.model,
			Logger:  logger,
		})
		return interpret.New(c, interpret.NewKeyword(), logger), c
	default:
		return interpret.New(interpret.NewKeyword(), nil, logger), nil
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.closeFn != nil {
		c.closeFn()
	}
}

// Ping checks record store connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.pinger.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Citizens returns the citizen records service.
func (c *Client) Citizens() *CitizenService {
	return &CitizenService{records: c.records, search: c.search, obs: c.obs}
}

// Criminals returns the criminal records service.
func (c *Client) Criminals() *CriminalService {
	return &CriminalService{records: c.records, search: c.search, obs: c.obs}
}

// Reports returns the incident report service.
func (c *Client) Reports() *ReportService {
	return &ReportService{records: c.records, obs: c.obs}
}

// Commands returns the natural-language command service.
func (c *Client) Commands() *CommandService {
	return &CommandService{svc: c.dispatch, obs: c.obs}
}

// interpreterAdapter wraps a public Interpreter to satisfy dispatch.Interpreter.
type interpreterAdapter struct {
	inner Interpreter
}

func (a *interpreterAdapter) Classify(ctx context.Context, text string) (command.Classification, error) {
	cls, err := a.inner.Classify(ctx, text)
	if err != nil {
		return command.Classification{}, fmt.Errorf("classify: %w", err)
	}
	return classificationToDomain(cls), nil
}
