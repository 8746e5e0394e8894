package recordbook

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/recordbook/internal/domain/module"
	"github.com/kailas-cloud/recordbook/internal/domain/search/filter"
)

// CriminalService manages criminal records.
type CriminalService struct {
	records recordUseCase
	search  searchUseCase
	obs     *observer
}

// Add validates and stores a criminal record. The ID field is ignored and
// assigned. DateArrested is kept at day granularity.
func (s *CriminalService) Add(ctx context.Context, c Criminal) (_ Criminal, err error) {
	start := time.Now()
	defer func() { s.obs.observe("add_criminal", start, err) }()

	created, err := s.records.CreateCriminal(ctx, c.Name, c.Crime, c.DateArrested, c.GovernmentID)
	if err != nil {
		return Criminal{}, fmt.Errorf("add criminal: %w", err)
	}
	return criminalFromDomain(created), nil
}

// Get returns a criminal record by ID.
func (s *CriminalService) Get(ctx context.Context, id int64) (_ Criminal, err error) {
	start := time.Now()
	defer func() { s.obs.observe("get_criminal", start, err) }()

	c, err := s.records.GetCriminal(ctx, id)
	if err != nil {
		return Criminal{}, fmt.Errorf("get criminal %d: %w", id, err)
	}
	return criminalFromDomain(c), nil
}

// Search starts a criminal search.
func (s *CriminalService) Search() *SearchBuilder[Criminal] {
	return newSearchBuilder(module.Criminal, s.search, s.obs,
		func(ctx context.Context, fs filter.Set) ([]Criminal, error) {
			cs, err := s.search.Criminals(ctx, fs)
			if err != nil {
				return nil, err //nolint:wrapcheck // wrapped by SearchBuilder.Do
			}
			out := make([]Criminal, len(cs))
			for i, c := range cs {
				out[i] = criminalFromDomain(c)
			}
			return out, nil
		})
}
