package record

import (
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/recordbook/internal/domain"
)

func TestNewCitizen_Valid(t *testing.T) {
	c, err := NewCitizen("  John Doe ", 42, "1 Main St", "GOV-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name() != "John Doe" {
		t.Errorf("expected trimmed name, got %q", c.Name())
	}
	if c.ID() != 0 {
		t.Errorf("expected zero ID before persistence, got %d", c.ID())
	}
	if c.WithID(7).ID() != 7 {
		t.Error("WithID did not set the identifier")
	}
}

func TestNewCitizen_CollectsAllFieldErrors(t *testing.T) {
	_, err := NewCitizen("", 0, " ", "")
	if !errors.Is(err, domain.ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(ve.Fields) != 4 {
		t.Fatalf("expected 4 field errors, got %d: %v", len(ve.Fields), ve.Fields)
	}
	if ve.Message("age") != "Age must be between 1 and 150" {
		t.Errorf("unexpected age message: %q", ve.Message("age"))
	}
	if ve.Message("governmentId") != "Government ID is required" {
		t.Errorf("unexpected governmentId message: %q", ve.Message("governmentId"))
	}
}

func TestNewCitizen_AgeBounds(t *testing.T) {
	tests := []struct {
		age     int
		wantErr bool
	}{
		{0, true},
		{1, false},
		{150, false},
		{151, true},
		{-3, true},
	}
	for _, tc := range tests {
		_, err := NewCitizen("A", tc.age, "B", "C")
		if (err != nil) != tc.wantErr {
			t.Errorf("age %d: err = %v, wantErr %v", tc.age, err, tc.wantErr)
		}
	}
}

func TestNewCriminal_TruncatesDate(t *testing.T) {
	arrested := time.Date(2024, 3, 9, 17, 45, 0, 0, time.UTC)
	c, err := NewCriminal("John", "Theft", arrested, "GOV-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if FormatDate(c.DateArrested()) != "2024-03-09" {
		t.Errorf("unexpected date %v", c.DateArrested())
	}
	if c.DateArrested().Hour() != 0 {
		t.Errorf("expected midnight, got %v", c.DateArrested())
	}
}

func TestNewCriminal_MissingDate(t *testing.T) {
	_, err := NewCriminal("John", "Theft", time.Time{}, "GOV-9")
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if ve.Message("dateArrested") != "Date arrested is required" {
		t.Errorf("unexpected message %q", ve.Message("dateArrested"))
	}
}

func TestNewReport_InvolvedPersonsOptional(t *testing.T) {
	r, err := NewReport(time.Now(), "Officer K", "Dock 4", "", "Broken window")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.InvolvedPersons() != "" {
		t.Errorf("expected empty involved persons, got %q", r.InvolvedPersons())
	}

	_, err = NewReport(time.Time{}, "", "", "", "")
	var ve *ValidationError
	if !errors.As(err, &ve) || len(ve.Fields) != 4 {
		t.Fatalf("expected 4 field errors, got %v", err)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-03-09", "2024-03-09", true},
		{"2024/03/09", "2024-03-09", true},
		{"03/09/2024", "2024-03-09", true},
		{"March 9, 2024", "2024-03-09", true},
		{"9 March 2024", "2024-03-09", true},
		{"2024-03-09T23:10:00Z", "2024-03-09", true},
		{"not-a-date", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		got, ok := ParseDate(tc.in)
		if ok != tc.ok {
			t.Errorf("ParseDate(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if FormatDate(got) != tc.want {
			t.Errorf("ParseDate(%q) = %q, want %q", tc.in, FormatDate(got), tc.want)
		}
	}
}
