package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_AddSearchAsk(t *testing.T) {
	db := filepath.Join(t.TempDir(), "records.db")

	steps := [][]string{
		{"citizens", "add", "--name", "John Doe", "--age", "30", "--address", "1 Elm", "--government-id", "A1"},
		{"citizens", "add", "--name", "Jane Roe", "--age", "42", "--address", "2 Oak", "--government-id", "B2"},
		{"criminals", "add", "--name", "John Smith", "--crime", "Burglary", "--arrested", "2024-01-02", "--government-id", "X1"},
	}
	for _, args := range steps {
		if out, err := run(t, append([]string{"--db", db}, args...)...); err != nil {
			t.Fatalf("%v: %v\n%s", args, err, out)
		}
	}

	out, err := run(t, "--db", db, "citizens", "search", "--name", "jane")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "Jane Roe") || strings.Contains(out, "John Doe") {
		t.Errorf("unexpected search output:\n%s", out)
	}

	out, err = run(t, "--db", db, "citizens", "search", "oak")
	if err != nil {
		t.Fatalf("fallback search: %v", err)
	}
	if !strings.Contains(out, "fallback") || !strings.Contains(out, "Jane Roe") {
		t.Errorf("unexpected fallback output:\n%s", out)
	}

	out, err = run(t, "--db", db, "ask", "find", "criminal", "records", "for", "John")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if !strings.Contains(out, "John Smith") {
		t.Errorf("unexpected ask output:\n%s", out)
	}
}

func TestCLI_Validation(t *testing.T) {
	db := filepath.Join(t.TempDir(), "records.db")

	if _, err := run(t, "--db", db, "citizens", "add", "--name", "Nobody"); err == nil {
		t.Error("expected validation error")
	}
	if _, err := run(t, "--db", db, "criminals", "add", "--name", "X", "--arrested", "someday"); err == nil {
		t.Error("expected date error")
	}
}

func TestCLI_NoMatches(t *testing.T) {
	db := filepath.Join(t.TempDir(), "records.db")
	out, err := run(t, "--db", db, "criminals", "search", "--crime", "arson")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "No matching records found") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestFlagName(t *testing.T) {
	tests := map[string]string{
		"name":         "name",
		"governmentId": "government-id",
		"dateArrested": "date-arrested",
	}
	for in, want := range tests {
		if got := flagName(in); got != want {
			t.Errorf("flagName(%q) = %q, want %q", in, got, want)
		}
	}
}
