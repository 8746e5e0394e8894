package recordbook

import (
	"context"
	"fmt"
	"time"
)

// ReportService manages incident reports.
type ReportService struct {
	records recordUseCase
	obs     *observer
}

// Add validates and stores a report. InvolvedPersons is optional.
func (s *ReportService) Add(ctx context.Context, r Report) (_ Report, err error) {
	start := time.Now()
	defer func() { s.obs.observe("add_report", start, err) }()

	created, err := s.records.CreateReport(ctx,
		r.DateTime, r.OfficerName, r.Location, r.InvolvedPersons, r.Description)
	if err != nil {
		return Report{}, fmt.Errorf("add report: %w", err)
	}
	return reportFromDomain(created), nil
}

// List returns all reports in filing order.
func (s *ReportService) List(ctx context.Context) (_ []Report, err error) {
	start := time.Now()
	defer func() { s.obs.observe("list_reports", start, err) }()

	reps, err := s.records.ListReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	out := make([]Report, len(reps))
	for i, r := range reps {
		out[i] = reportFromDomain(r)
	}
	return out, nil
}
