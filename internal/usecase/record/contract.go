package record

import (
	"context"

	domrec "github.com/kailas-cloud/recordbook/internal/domain/record"
)

// Repository defines the storage contract for record creation and lookup.
type Repository interface {
	CreateCitizen(ctx context.Context, c domrec.Citizen) (domrec.Citizen, error)
	GetCitizen(ctx context.Context, id int64) (domrec.Citizen, error)
	CreateCriminal(ctx context.Context, c domrec.Criminal) (domrec.Criminal, error)
	GetCriminal(ctx context.Context, id int64) (domrec.Criminal, error)
	CreateReport(ctx context.Context, r domrec.Report) (domrec.Report, error)
	ListReports(ctx context.Context) ([]domrec.Report, error)
}
