package record

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/recordbook/internal/db/memory"
	domrec "github.com/kailas-cloud/recordbook/internal/domain/record"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn         func(ctx context.Context, key string, fields map[string]string) error
	hgetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	incrFn         func(ctx context.Context, key string) (int64, error)
	zaddFn         func(ctx context.Context, key string, score float64, member string) error
	zrangeAllFn    func(ctx context.Context, key string) ([]string, error)
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return nil, nil
}

func (m *mockStore) Incr(ctx context.Context, key string) (int64, error) {
	if m.incrFn != nil {
		return m.incrFn(ctx, key)
	}
	return 1, nil
}

func (m *mockStore) ZAdd(ctx context.Context, key string, score float64, member string) error {
	if m.zaddFn != nil {
		return m.zaddFn(ctx, key, score, member)
	}
	return nil
}

func (m *mockStore) ZRangeAll(ctx context.Context, key string) ([]string, error) {
	if m.zrangeAllFn != nil {
		return m.zrangeAllFn(ctx, key)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, "rb:"), ms
}

// newMemoryRepo returns a repository over a real in-memory store.
func newMemoryRepo(t *testing.T) *Repo {
	t.Helper()
	s := memory.NewStore()
	t.Cleanup(s.Close)
	return New(s, "rb:")
}

func mustCitizen(t *testing.T, name string, age int, address, gid string) domrec.Citizen {
	t.Helper()
	c, err := domrec.NewCitizen(name, age, address, gid)
	if err != nil {
		t.Fatalf("NewCitizen: %v", err)
	}
	return c
}

func mustCriminal(t *testing.T, name, crime, date, gid string) domrec.Criminal {
	t.Helper()
	d, err := time.Parse(domrec.DateLayout, date)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	c, err := domrec.NewCriminal(name, crime, d, gid)
	if err != nil {
		t.Fatalf("NewCriminal: %v", err)
	}
	return c
}
