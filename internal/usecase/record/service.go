package record

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recordbook/internal/domain/module"
	domrec "github.com/kailas-cloud/recordbook/internal/domain/record"
	"github.com/kailas-cloud/recordbook/internal/metrics"
)

const reportLabel = "report"

// Service validates and persists records.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// New creates a record service.
func New(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// CreateCitizen validates the fields and stores a new citizen.
// Validation failures return *domrec.ValidationError and write nothing.
func (s *Service) CreateCitizen(
	ctx context.Context, name string, age int, address, governmentID string,
) (domrec.Citizen, error) {
	c, err := domrec.NewCitizen(name, age, address, governmentID)
	if err != nil {
		return domrec.Citizen{}, err
	}
	created, err := s.repo.CreateCitizen(ctx, c)
	if err != nil {
		return domrec.Citizen{}, fmt.Errorf("create citizen: %w", err)
	}
	metrics.RecordsCreatedTotal.WithLabelValues(string(module.Citizen)).Inc()
	s.logger.Info("Citizen created", zap.Int64("id", created.ID()))
	return created, nil
}

// GetCitizen returns a citizen by ID.
func (s *Service) GetCitizen(ctx context.Context, id int64) (domrec.Citizen, error) {
	c, err := s.repo.GetCitizen(ctx, id)
	if err != nil {
		return domrec.Citizen{}, fmt.Errorf("get citizen: %w", err)
	}
	return c, nil
}

// CreateCriminal validates the fields and stores a new criminal.
func (s *Service) CreateCriminal(
	ctx context.Context, name, crime string, dateArrested time.Time, governmentID string,
) (domrec.Criminal, error) {
	c, err := domrec.NewCriminal(name, crime, dateArrested, governmentID)
	if err != nil {
		return domrec.Criminal{}, err
	}
	created, err := s.repo.CreateCriminal(ctx, c)
	if err != nil {
		return domrec.Criminal{}, fmt.Errorf("create criminal: %w", err)
	}
	metrics.RecordsCreatedTotal.WithLabelValues(string(module.Criminal)).Inc()
	s.logger.Info("Criminal created", zap.Int64("id", created.ID()))
	return created, nil
}

// GetCriminal returns a criminal by ID.
func (s *Service) GetCriminal(ctx context.Context, id int64) (domrec.Criminal, error) {
	c, err := s.repo.GetCriminal(ctx, id)
	if err != nil {
		return domrec.Criminal{}, fmt.Errorf("get criminal: %w", err)
	}
	return c, nil
}

// CreateReport validates the fields and stores a new incident report.
func (s *Service) CreateReport(
	ctx context.Context, dateTime time.Time, officerName, location, involvedPersons, description string,
) (domrec.Report, error) {
	r, err := domrec.NewReport(dateTime, officerName, location, involvedPersons, description)
	if err != nil {
		return domrec.Report{}, err
	}
	created, err := s.repo.CreateReport(ctx, r)
	if err != nil {
		return domrec.Report{}, fmt.Errorf("create report: %w", err)
	}
	metrics.RecordsCreatedTotal.WithLabelValues(reportLabel).Inc()
	s.logger.Info("Report created", zap.Int64("id", created.ID()), zap.String("officer", created.OfficerName()))
	return created, nil
}

// ListReports returns all reports in creation order.
func (s *Service) ListReports(ctx context.Context) ([]domrec.Report, error) {
	out, err := s.repo.ListReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return out, nil
}
