package interpret

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recordbook/internal/domain"
	"github.com/kailas-cloud/recordbook/internal/domain/command"
)

// Service is the built-in command interpreter. It asks the primary classifier
// and falls back to the secondary one when the primary fails.
type Service struct {
	primary  Classifier
	fallback Classifier
	logger   *zap.Logger
}

// New creates an interpreter service. fallback can be nil.
func New(primary, fallback Classifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{primary: primary, fallback: fallback, logger: logger}
}

// Classify implements the interpreter contract for a single command.
func (s *Service) Classify(ctx context.Context, text string) (command.Classification, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return command.Classification{}, domain.ErrEmptyCommand
	}

	cls, err := s.primary.Classify(ctx, text)
	if err == nil {
		return cls, nil
	}
	if s.fallback == nil {
		return command.Classification{}, fmt.Errorf("classify: %w", err)
	}

	s.logger.Warn("Primary classifier failed, using fallback", zap.Error(err))
	cls, ferr := s.fallback.Classify(ctx, text)
	if ferr != nil {
		return command.Classification{}, fmt.Errorf("classify fallback: %w", ferr)
	}
	return cls, nil
}
