package search

import (
	"context"

	domrec "github.com/kailas-cloud/recordbook/internal/domain/record"
	"github.com/kailas-cloud/recordbook/internal/domain/search/query"
)

// Repository defines the storage contract for search operations.
// Implementations return records in ascending ID order.
type Repository interface {
	FindCitizens(ctx context.Context, plan query.Plan) ([]domrec.Citizen, error)
	FindCriminals(ctx context.Context, plan query.Plan) ([]domrec.Criminal, error)
}
