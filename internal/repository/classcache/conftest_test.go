package classcache

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recordbook/internal/db/memory"
	"github.com/kailas-cloud/recordbook/internal/domain/command"
)

type mockClassifier struct {
	cls   command.Classification
	err   error
	calls int
}

func (m *mockClassifier) Classify(_ context.Context, _ string) (command.Classification, error) {
	m.calls++
	return m.cls, m.err
}

// mockHashStore implements the consumer interface for failure tests.
type mockHashStore struct {
	getFn func(ctx context.Context, key string) (map[string]string, error)
	setFn func(ctx context.Context, key string, fields map[string]string) error
	deleted []string
}

func (m *mockHashStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return m.getFn(ctx, key)
}

func (m *mockHashStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	return m.setFn(ctx, key, fields)
}

func (m *mockHashStore) Del(_ context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	return nil
}

func newTestCachedClassifier(t *testing.T, inner *mockClassifier) (*CachedClassifier, *memory.Store) {
	t.Helper()
	s := memory.NewStore()
	t.Cleanup(s.Close)
	return New(inner, s, "rb:", nil, zap.NewNop()), s
}
