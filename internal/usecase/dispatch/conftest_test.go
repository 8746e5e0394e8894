package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recordbook/internal/db/memory"
	"github.com/kailas-cloud/recordbook/internal/domain/command"
	domrec "github.com/kailas-cloud/recordbook/internal/domain/record"
	"github.com/kailas-cloud/recordbook/internal/domain/search/filter"
	"github.com/kailas-cloud/recordbook/internal/domain/search/result"
	recrepo "github.com/kailas-cloud/recordbook/internal/repository/record"
	"github.com/kailas-cloud/recordbook/internal/usecase/search"
)

// fakeInterpreter returns a canned classification and counts calls.
type fakeInterpreter struct {
	mu    sync.Mutex
	cls   command.Classification
	err   error
	texts []string
	// block, when set, holds Classify until it is closed.
	block   chan struct{}
	started chan struct{}
}

func (f *fakeInterpreter) Classify(ctx context.Context, text string) (command.Classification, error) {
	f.mu.Lock()
	f.texts = append(f.texts, text)
	block, started := f.block, f.started
	f.mu.Unlock()

	if started != nil {
		close(started)
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return command.Classification{}, ctx.Err()
		}
	}
	return f.cls, f.err
}

func (f *fakeInterpreter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.texts)
}

// recordingSearcher wraps a Searcher and records the filter sets it saw.
type recordingSearcher struct {
	inner Searcher
	mu    sync.Mutex
	seen  []filter.Set
}

func (r *recordingSearcher) Search(ctx context.Context, fs filter.Set) (result.Page, error) {
	r.mu.Lock()
	r.seen = append(r.seen, fs)
	r.mu.Unlock()
	return r.inner.Search(ctx, fs)
}

func (r *recordingSearcher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}

// newSeededSearcher returns a search service over an in-memory store holding
// a few citizens and criminals.
func newSeededSearcher(t *testing.T) *recordingSearcher {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	t.Cleanup(store.Close)
	repo := recrepo.New(store, "test:")

	for _, c := range []struct {
		name    string
		age     int
		address string
		gid     string
	}{
		{"John Doe", 30, "1 Elm", "A1"},
		{"Jane Roe", 42, "2 Oak", "B2"},
	} {
		cz, err := domrec.NewCitizen(c.name, c.age, c.address, c.gid)
		if err != nil {
			t.Fatalf("NewCitizen: %v", err)
		}
		if _, err := repo.CreateCitizen(ctx, cz); err != nil {
			t.Fatalf("CreateCitizen: %v", err)
		}
	}
	for _, c := range []struct{ name, crime, gid string }{
		{"John Smith", "Burglary", "X1"},
		{"Mary Jones", "Fraud", "X2"},
		{"Johnny Walker", "Smuggling", "X3"},
	} {
		cr, err := domrec.NewCriminal(c.name, c.crime, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), c.gid)
		if err != nil {
			t.Fatalf("NewCriminal: %v", err)
		}
		if _, err := repo.CreateCriminal(ctx, cr); err != nil {
			t.Fatalf("CreateCriminal: %v", err)
		}
	}
	return &recordingSearcher{inner: search.New(repo, zap.NewNop())}
}
