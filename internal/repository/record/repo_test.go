package record

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/recordbook/internal/db"
	"github.com/kailas-cloud/recordbook/internal/domain"
	"github.com/kailas-cloud/recordbook/internal/domain/module"
	domrec "github.com/kailas-cloud/recordbook/internal/domain/record"
	"github.com/kailas-cloud/recordbook/internal/domain/search/filter"
	"github.com/kailas-cloud/recordbook/internal/domain/search/query"
)

// --- Create ---

func TestCreateCitizen_WritesHashThenIndex(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	var calls []string
	ms.incrFn = func(_ context.Context, key string) (int64, error) {
		calls = append(calls, "INCR "+key)
		return 4, nil
	}
	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		calls = append(calls, "HSET "+key)
		if fields["government_id"] != "G-1" || fields["age"] != "30" {
			t.Errorf("unexpected fields: %v", fields)
		}
		return nil
	}
	ms.zaddFn = func(_ context.Context, key string, score float64, member string) error {
		calls = append(calls, "ZADD "+key)
		if score != 4 || member != "4" {
			t.Errorf("unexpected zadd %v %s", score, member)
		}
		return nil
	}

	got, err := repo.CreateCitizen(ctx, mustCitizen(t, "Ann", 30, "Main St", "G-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID() != 4 {
		t.Errorf("ID = %d, want 4", got.ID())
	}
	want := []string{"INCR rb:citizen:seq", "HSET rb:citizen:4", "ZADD rb:citizen:ids"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v", calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestCreateCitizen_HSetError_NotIndexed(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hsetFn = func(_ context.Context, _ string, _ map[string]string) error {
		return errors.New("connection lost")
	}
	ms.zaddFn = func(_ context.Context, _ string, _ float64, _ string) error {
		t.Error("ZADD must not run after a failed HSET")
		return nil
	}

	_, err := repo.CreateCitizen(context.Background(), mustCitizen(t, "Ann", 30, "Main St", "G-1"))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestCreateCriminal_IncrError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.incrFn = func(_ context.Context, _ string) (int64, error) {
		return 0, &db.Error{Op: db.OpIncr, Err: errors.New("down")}
	}
	_, err := repo.CreateCriminal(context.Background(), mustCriminal(t, "Joe", "Theft", "2024-01-02", "X"))
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

// --- Get ---

func TestGetCitizen_NotFound(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) {
		return nil, db.ErrKeyNotFound
	}
	_, err := repo.GetCitizen(context.Background(), 9)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetCriminal_Hydrates(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hgetAllFn = func(_ context.Context, key string) (map[string]string, error) {
		if key != "rb:criminal:2" {
			t.Errorf("unexpected key %s", key)
		}
		return map[string]string{
			"name": "Joe", "crime": "Theft", "date_arrested": "2024-03-05", "government_id": "X1",
		}, nil
	}
	c, err := repo.GetCriminal(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID() != 2 || c.Crime() != "Theft" || domrec.FormatDate(c.DateArrested()) != "2024-03-05" {
		t.Errorf("unexpected criminal: %+v", c)
	}
}

func TestGetCitizen_CorruptAge(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) {
		return map[string]string{"name": "Ann", "age": "old"}, nil
	}
	if _, err := repo.GetCitizen(context.Background(), 1); err == nil {
		t.Fatal("expected error for corrupt age")
	}
}

// --- Find ---

func TestFindCitizens_SkipsMissingHashes(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.zrangeAllFn = func(_ context.Context, _ string) ([]string, error) {
		return []string{"1", "2", "bogus"}, nil
	}
	ms.hgetAllMultiFn = func(_ context.Context, keys []string) ([]map[string]string, error) {
		if len(keys) != 2 {
			t.Errorf("expected 2 keys, got %v", keys)
		}
		return []map[string]string{
			{"name": "Ann", "age": "30", "address": "Main", "government_id": "G1"},
			{},
		}, nil
	}

	all := query.Build(filter.New(module.Citizen, nil, ""))
	got, err := repo.FindCitizens(context.Background(), all)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID() != 1 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestFindCitizens_Empty(t *testing.T) {
	repo, _ := newTestRepo(t)
	got, err := repo.FindCitizens(context.Background(), query.Build(filter.New(module.Citizen, nil, "")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no results, got %d", len(got))
	}
}

func TestFindCitizens_MemoryStore(t *testing.T) {
	repo := newMemoryRepo(t)
	ctx := context.Background()

	for _, c := range []domrec.Citizen{
		mustCitizen(t, "John Doe", 30, "1 Elm", "A1"),
		mustCitizen(t, "Jane Roe", 42, "2 Oak", "B2"),
		mustCitizen(t, "Jim Doelittle", 55, "42 Pine", "C3"),
	} {
		if _, err := repo.CreateCitizen(ctx, c); err != nil {
			t.Fatalf("CreateCitizen: %v", err)
		}
	}

	tests := []struct {
		name    string
		values  map[string]string
		query   string
		wantIDs []int64
	}{
		{"all", nil, "", []int64{1, 2, 3}},
		{"name substring ignores query", map[string]string{"name": "doe"}, "42", []int64{1, 3}},
		{"fallback age or text", nil, "42", []int64{2, 3}},
		{"exact government id", map[string]string{"governmentId": "B2"}, "", []int64{2}},
		{"government id is not substring", map[string]string{"governmentId": "B"}, "", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			plan := query.Build(filter.New(module.Citizen, tc.values, tc.query))
			got, err := repo.FindCitizens(ctx, plan)
			if err != nil {
				t.Fatalf("FindCitizens: %v", err)
			}
			if len(got) != len(tc.wantIDs) {
				t.Fatalf("got %d results, want %d", len(got), len(tc.wantIDs))
			}
			for i, id := range tc.wantIDs {
				if got[i].ID() != id {
					t.Errorf("result %d ID = %d, want %d", i, got[i].ID(), id)
				}
			}
		})
	}
}

func TestFindCriminals_MemoryStore(t *testing.T) {
	repo := newMemoryRepo(t)
	ctx := context.Background()

	_, _ = repo.CreateCriminal(ctx, mustCriminal(t, "John Smith", "Burglary", "2023-05-01", "X1"))
	_, _ = repo.CreateCriminal(ctx, mustCriminal(t, "Mary Jones", "Fraud", "2024-02-10", "X2"))

	plan := query.Build(filter.New(module.Criminal, map[string]string{
		"name":         "john",
		"dateArrested": "not-a-date",
	}, ""))
	got, err := repo.FindCriminals(ctx, plan)
	if err != nil {
		t.Fatalf("FindCriminals: %v", err)
	}
	if len(got) != 1 || got[0].Name() != "John Smith" {
		t.Fatalf("unexpected result: %+v", got)
	}

	byDate := query.Build(filter.New(module.Criminal, map[string]string{"dateArrested": "2024/02/10"}, ""))
	got, _ = repo.FindCriminals(ctx, byDate)
	if len(got) != 1 || got[0].Name() != "Mary Jones" {
		t.Fatalf("date filter result: %+v", got)
	}
}

// --- Reports ---

func TestReports_RoundTrip(t *testing.T) {
	repo := newMemoryRepo(t)
	ctx := context.Background()

	at := time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC)
	rep, err := domrec.NewReport(at, "Sgt. Miller", "Dock 4", "", "Suspicious package")
	if err != nil {
		t.Fatalf("NewReport: %v", err)
	}
	created, err := repo.CreateReport(ctx, rep)
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}
	if created.ID() != 1 {
		t.Errorf("ID = %d, want 1", created.ID())
	}

	list, err := repo.ListReports(ctx)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(list) != 1 || !list[0].DateTime().Equal(at) || list[0].Location() != "Dock 4" {
		t.Fatalf("unexpected reports: %+v", list)
	}
}
