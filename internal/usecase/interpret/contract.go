package interpret

import (
	"context"

	"github.com/kailas-cloud/recordbook/internal/domain/command"
)

// Classifier turns command text into a classification.
type Classifier interface {
	Classify(ctx context.Context, text string) (command.Classification, error)
}
