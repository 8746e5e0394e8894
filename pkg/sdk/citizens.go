package recordbook

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/recordbook/internal/domain/module"
	"github.com/kailas-cloud/recordbook/internal/domain/search/filter"
)

// CitizenService manages citizen records.
type CitizenService struct {
	records recordUseCase
	search  searchUseCase
	obs     *observer
}

// Add validates and stores a citizen. The ID field is ignored and assigned.
func (s *CitizenService) Add(ctx context.Context, c Citizen) (_ Citizen, err error) {
	start := time.Now()
	defer func() { s.obs.observe("add_citizen", start, err) }()

	created, err := s.records.CreateCitizen(ctx, c.Name, c.Age, c.Address, c.GovernmentID)
	if err != nil {
		return Citizen{}, fmt.Errorf("add citizen: %w", err)
	}
	return citizenFromDomain(created), nil
}

// Get returns a citizen by ID.
func (s *CitizenService) Get(ctx context.Context, id int64) (_ Citizen, err error) {
	start := time.Now()
	defer func() { s.obs.observe("get_citizen", start, err) }()

	c, err := s.records.GetCitizen(ctx, id)
	if err != nil {
		return Citizen{}, fmt.Errorf("get citizen %d: %w", id, err)
	}
	return citizenFromDomain(c), nil
}

// Search starts a citizen search.
func (s *CitizenService) Search() *SearchBuilder[Citizen] {
	return newSearchBuilder(module.Citizen, s.search, s.obs,
		func(ctx context.Context, fs filter.Set) ([]Citizen, error) {
			cs, err := s.search.Citizens(ctx, fs)
			if err != nil {
				return nil, err //nolint:wrapcheck // wrapped by SearchBuilder.Do
			}
			out := make([]Citizen, len(cs))
			for i, c := range cs {
				out[i] = citizenFromDomain(c)
			}
			return out, nil
		})
}
