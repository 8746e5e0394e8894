package module

import "testing"

func TestFromInterpreter(t *testing.T) {
	tests := []struct {
		raw    string
		want   Module
		wantOK bool
	}{
		{"citizens", Citizen, true},
		{"Citizens", Citizen, true},
		{" CRIMINALS ", Criminal, true},
		{"criminals", Criminal, true},
		{"citizen", "", false},
		{"reports", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		got, ok := FromInterpreter(tc.raw)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("FromInterpreter(%q) = (%q, %v), want (%q, %v)", tc.raw, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestParse(t *testing.T) {
	if m, ok := Parse("Criminal"); !ok || m != Criminal {
		t.Errorf("Parse(Criminal) = (%q, %v)", m, ok)
	}
	if _, ok := Parse("criminals"); ok {
		t.Error("Parse should reject plural form")
	}
}

func TestIsValid(t *testing.T) {
	valid := []Module{Citizen, Criminal}
	for _, m := range valid {
		if !m.IsValid() {
			t.Errorf("%q.IsValid() = false, want true", m)
		}
	}

	invalid := []Module{"", "report", "CITIZEN"}
	for _, m := range invalid {
		if m.IsValid() {
			t.Errorf("%q.IsValid() = true, want false", m)
		}
	}
}

func TestSearchHandlerRoundTrip(t *testing.T) {
	for _, m := range []Module{Citizen, Criminal} {
		got, ok := FromSearchHandler(m.SearchHandler())
		if !ok || got != m {
			t.Errorf("round trip for %q gave (%q, %v)", m, got, ok)
		}
	}
	if _, ok := FromSearchHandler("SearchReports"); ok {
		t.Error("expected unknown handler to be rejected")
	}
	if Citizen.Plural() != "citizens" {
		t.Errorf("Plural = %q", Citizen.Plural())
	}
}
