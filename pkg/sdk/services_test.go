package recordbook

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func seedRecords(t *testing.T, c *Client) {
	t.Helper()
	ctx := context.Background()
	for _, cz := range []Citizen{
		{Name: "John Doe", Age: 30, Address: "1 Elm", GovernmentID: "A1"},
		{Name: "Jane Roe", Age: 42, Address: "2 Oak", GovernmentID: "B2"},
	} {
		if _, err := c.Citizens().Add(ctx, cz); err != nil {
			t.Fatalf("add citizen: %v", err)
		}
	}
	day := time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)
	for _, cr := range []Criminal{
		{Name: "John Smith", Crime: "Burglary", DateArrested: day, GovernmentID: "X1"},
		{Name: "Mary Jones", Crime: "Fraud", DateArrested: day.AddDate(0, 1, 0), GovernmentID: "X2"},
		{Name: "Johnny Walker", Crime: "Smuggling", DateArrested: day.AddDate(0, 2, 0), GovernmentID: "X3"},
	} {
		if _, err := c.Criminals().Add(ctx, cr); err != nil {
			t.Fatalf("add criminal: %v", err)
		}
	}
}

func TestCitizenService_AddGet(t *testing.T) {
	c := newMemoryClient(t)
	ctx := context.Background()

	added, err := c.Citizens().Add(ctx, Citizen{ID: 99, Name: "Ann", Age: 20, Address: "3 Ash", GovernmentID: "C3"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if added.ID != 1 {
		t.Errorf("ID = %d, want assigned 1", added.ID)
	}

	got, err := c.Citizens().Get(ctx, added.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != added {
		t.Errorf("got %+v, want %+v", got, added)
	}

	if _, err := c.Citizens().Get(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing citizen err = %v, want ErrNotFound", err)
	}
}

func TestCitizenService_AddInvalid(t *testing.T) {
	c := newMemoryClient(t)
	_, err := c.Citizens().Add(context.Background(), Citizen{Name: "No Age"})
	if !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("err = %v, want ErrInvalidRecord", err)
	}
}

func TestSearchBuilder(t *testing.T) {
	c := newMemoryClient(t)
	seedRecords(t, c)
	ctx := context.Background()

	t.Run("citizen name", func(t *testing.T) {
		got, err := c.Citizens().Search().Where(FieldName, "DOE").Do(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].Name != "John Doe" {
			t.Errorf("got %+v", got)
		}
	})
	t.Run("citizen age", func(t *testing.T) {
		got, err := c.Citizens().Search().Age(42).Do(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].Name != "Jane Roe" {
			t.Errorf("got %+v", got)
		}
	})
	t.Run("criminal arrested on", func(t *testing.T) {
		got, err := c.Criminals().Search().ArrestedOn(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)).Do(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].Name != "John Smith" {
			t.Errorf("got %+v", got)
		}
	})
	t.Run("criminal query fallback", func(t *testing.T) {
		got, err := c.Criminals().Search().Query("fraud").Do(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].Name != "Mary Jones" {
			t.Errorf("got %+v", got)
		}
	})
	t.Run("field wins over query", func(t *testing.T) {
		got, err := c.Criminals().Search().Where(FieldName, "john").Query("fraud").Do(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 2 {
			t.Errorf("got %d criminals, want 2", len(got))
		}
	})
	t.Run("unknown field", func(t *testing.T) {
		_, err := c.Citizens().Search().Where(FieldCrime, "fraud").Do(ctx)
		if !errors.Is(err, ErrInvalidFilter) {
			t.Errorf("err = %v, want ErrInvalidFilter", err)
		}
	})
	t.Run("page", func(t *testing.T) {
		page, err := c.Criminals().Search().Where(FieldName, "john").Page(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if page.Mode != ModeSpecific || len(page.Rows) != 2 || !page.Rows[0].BestMatch {
			t.Errorf("unexpected page: %+v", page)
		}
		if page.Rows[0].Values[FieldName] != "John Smith" {
			t.Errorf("first row = %+v", page.Rows[0])
		}
	})
	t.Run("empty page message", func(t *testing.T) {
		page, err := c.Citizens().Search().Where(FieldName, "zed").Page(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if page.Message == "" || len(page.Rows) != 0 {
			t.Errorf("unexpected page: %+v", page)
		}
	})
}

func TestReportService(t *testing.T) {
	c := newMemoryClient(t)
	ctx := context.Background()
	when := time.Date(2024, 3, 4, 10, 30, 0, 0, time.UTC)

	if _, err := c.Reports().Add(ctx, Report{
		DateTime: when, OfficerName: "Sgt. Pepper", Location: "Main St", Description: "Noise",
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := c.Reports().Add(ctx, Report{OfficerName: "Nobody"}); !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("invalid report err = %v", err)
	}

	reps, err := c.Reports().List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(reps) != 1 || !reps[0].DateTime.Equal(when) {
		t.Errorf("got %+v", reps)
	}
}

func TestCommandService_Keyword(t *testing.T) {
	c := newMemoryClient(t)
	seedRecords(t, c)

	res, err := c.Commands().Send(context.Background(), "find criminal records for John")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !res.Recognized || res.Module != "criminal" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Filters[FieldName] != "John" || res.Filters["query"] != "John" {
		t.Errorf("filters = %v", res.Filters)
	}
	if len(res.Rows) != 2 {
		t.Errorf("rows = %d, want 2", len(res.Rows))
	}

	st := c.Commands().State()
	if st.ActiveSection != "criminal" || st.SearchInputs["criminal"] != "John" || st.LastCommandID != res.ID {
		t.Errorf("state = %+v", st)
	}
}

func TestCommandService_CustomInterpreter(t *testing.T) {
	var (
		mu    sync.Mutex
		texts []string
	)
	interp := InterpreterFunc(func(_ context.Context, text string) (Classification, error) {
		mu.Lock()
		texts = append(texts, text)
		mu.Unlock()
		return Classification{Module: "vehicles"}, nil
	})
	c := newMemoryClient(t, WithInterpreter(interp), WithUnknownModuleStatus())

	res, err := c.Commands().SendVoice(context.Background(), "find red cars")
	if err != nil {
		t.Fatalf("SendVoice: %v", err)
	}
	if res.Recognized || res.Rows != nil {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.Status == "" {
		t.Error("expected unknown module status")
	}
	if len(texts) != 1 || texts[0] != "find red cars" {
		t.Errorf("interpreter saw %q", texts)
	}
}

func TestCommandService_Empty(t *testing.T) {
	c := newMemoryClient(t)
	_, err := c.Commands().Send(context.Background(), "   ")
	if !errors.Is(err, ErrEmptyCommand) {
		t.Fatalf("err = %v, want ErrEmptyCommand", err)
	}
}

func TestCommandService_InterpreterDown(t *testing.T) {
	interp := InterpreterFunc(func(context.Context, string) (Classification, error) {
		return Classification{}, errors.New("connection refused")
	})
	c := newMemoryClient(t, WithInterpreter(interp))

	res, err := c.Commands().Send(context.Background(), "find citizens")
	if !errors.Is(err, ErrInterpreterUnavailable) {
		t.Fatalf("err = %v, want ErrInterpreterUnavailable", err)
	}
	if res.Status != "Error sending command." {
		t.Errorf("status = %q", res.Status)
	}
}
