package dispatch

import (
	"context"

	"github.com/kailas-cloud/recordbook/internal/domain/command"
	"github.com/kailas-cloud/recordbook/internal/domain/search/filter"
	"github.com/kailas-cloud/recordbook/internal/domain/search/result"
)

// Interpreter classifies command text into a module and entities.
type Interpreter interface {
	Classify(ctx context.Context, text string) (command.Classification, error)
}

// Searcher runs a filter set against its module.
type Searcher interface {
	Search(ctx context.Context, fs filter.Set) (result.Page, error)
}
