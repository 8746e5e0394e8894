package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recordbook/internal/domain"
	"github.com/kailas-cloud/recordbook/internal/domain/module"
	domrec "github.com/kailas-cloud/recordbook/internal/domain/record"
	"github.com/kailas-cloud/recordbook/internal/domain/search/filter"
	"github.com/kailas-cloud/recordbook/internal/domain/search/query"
	"github.com/kailas-cloud/recordbook/internal/domain/search/result"
	"github.com/kailas-cloud/recordbook/internal/metrics"
)

// Service plans and runs record searches.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// New creates a search service.
func New(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Search runs the filter set against its module and renders a result page
// with highlights and the best-match row marked.
func (s *Service) Search(ctx context.Context, fs filter.Set) (result.Page, error) {
	plan := query.Build(fs)

	var page result.Page
	switch plan.Module() {
	case module.Citizen:
		cs, err := s.repo.FindCitizens(ctx, plan)
		if err != nil {
			return result.Page{}, fmt.Errorf("find citizens: %w", err)
		}
		page = result.CitizenPage(cs, plan)
	case module.Criminal:
		cs, err := s.repo.FindCriminals(ctx, plan)
		if err != nil {
			return result.Page{}, fmt.Errorf("find criminals: %w", err)
		}
		page = result.CriminalPage(cs, plan)
	default:
		return result.Page{}, fmt.Errorf("search %q: %w", plan.Module(), domain.ErrUnknownModule)
	}

	s.observe(plan, page.Total())
	return page, nil
}

// Citizens returns the raw citizen records matching fs.
func (s *Service) Citizens(ctx context.Context, fs filter.Set) ([]domrec.Citizen, error) {
	if fs.Module() != module.Citizen {
		return nil, fmt.Errorf("citizens search with %q filters: %w", fs.Module(), domain.ErrInvalidFilter)
	}
	plan := query.Build(fs)
	cs, err := s.repo.FindCitizens(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("find citizens: %w", err)
	}
	s.observe(plan, len(cs))
	return cs, nil
}

// Criminals returns the raw criminal records matching fs.
func (s *Service) Criminals(ctx context.Context, fs filter.Set) ([]domrec.Criminal, error) {
	if fs.Module() != module.Criminal {
		return nil, fmt.Errorf("criminals search with %q filters: %w", fs.Module(), domain.ErrInvalidFilter)
	}
	plan := query.Build(fs)
	cs, err := s.repo.FindCriminals(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("find criminals: %w", err)
	}
	s.observe(plan, len(cs))
	return cs, nil
}

func (s *Service) observe(plan query.Plan, n int) {
	metrics.SearchResults.WithLabelValues(string(plan.Module()), string(plan.Kind())).Observe(float64(n))
	s.logger.Debug("Search executed",
		zap.String("module", string(plan.Module())),
		zap.String("mode", string(plan.Kind())),
		zap.Int("predicates", len(plan.Predicates())),
		zap.Int("results", n),
	)
}
