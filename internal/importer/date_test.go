package importer

import (
	"testing"
	"time"
)

// ----------------------------------------------------------------------------
// Date Parsing Tests
// ----------------------------------------------------------------------------

func TestParseDate(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        string // RFC3339 of the expected UTC instant
		wantHasTime bool
		wantOK      bool
	}{
		{"ISO date", "2024-01-15", "2024-01-15T00:00:00Z", false, true},
		{"RFC3339", "2024-01-15T09:30:00Z", "2024-01-15T09:30:00Z", true, true},
		{"RFC3339 with offset", "2024-01-15T09:30:00+02:00", "2024-01-15T07:30:00Z", true, true},
		{"ISO with space", "2024-01-15 09:30", "2024-01-15T09:30:00Z", true, true},
		{"ISO midnight is not a datetime", "2024-01-15T00:00:00", "2024-01-15T00:00:00Z", false, true},
		{"US slash date", "1/15/2024", "2024-01-15T00:00:00Z", false, true},
		{"padded slash date", "01/02/2024", "2024-01-02T00:00:00Z", false, true},
		{"slash date with clock", "1/15/2024 18:00", "2024-01-15T18:00:00Z", true, true},
		{"dash date", "1-15-2024", "2024-01-15T00:00:00Z", false, true},
		{"dotted date", "01.15.2024", "2024-01-15T00:00:00Z", false, true},
		{"month name", "Jan 15, 2024", "2024-01-15T00:00:00Z", false, true},
		{"day first month name", "15 Jan 2024", "2024-01-15T00:00:00Z", false, true},
		{"compact", "20240115", "2024-01-15T00:00:00Z", false, true},
		{"two-digit year", "1/15/99", "1999-01-15T00:00:00Z", false, true},
		{"surrounding whitespace", " 2024-01-15 ", "2024-01-15T00:00:00Z", false, true},
		{"empty", "", "", false, false},
		{"not a date", "yesterday", "", false, false},
		{"bare number", "42", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hasTime, ok := parseDate(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("parseDate(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			want, err := time.Parse(time.RFC3339, tt.want)
			if err != nil {
				t.Fatalf("bad expectation %q: %v", tt.want, err)
			}
			if !got.Equal(want) {
				t.Errorf("parseDate(%q) = %v, want %v", tt.input, got, want)
			}
			if hasTime != tt.wantHasTime {
				t.Errorf("parseDate(%q) hasTime = %v, want %v", tt.input, hasTime, tt.wantHasTime)
			}
		})
	}
}

func TestParseDate_TwoDigitYearPivot(t *testing.T) {
	// A short year a few years ahead of now stays in this century; one
	// far ahead rolls back a hundred years.
	thisYear := time.Now().Year() % 100

	near, _, ok := parseDate(time.Date(2000+thisYear+1, 3, 1, 0, 0, 0, 0, time.UTC).Format("1/2/06"))
	if !ok {
		t.Fatal("near-future short year did not parse")
	}
	if near.Year() != 2000+thisYear+1 {
		t.Errorf("near-future year = %d, want %d", near.Year(), 2000+thisYear+1)
	}

	far, _, ok := parseDate("1/15/68")
	if !ok {
		t.Fatal("far-future short year did not parse")
	}
	if far.Year() != 1968 {
		t.Errorf("far-future year = %d, want 1968", far.Year())
	}
}

func TestLooksLikeDate(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"2024-01-15", true},
		{"2024-01-15T09:30:00Z", true},
		{"1/15/2024", true},
		{"1/15/24", true},
		{"1-15-2024", true},
		{"Jan 15, 2024", false},
		{"20240115", false},
		{"hello", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := looksLikeDate(tt.input); got != tt.want {
			t.Errorf("looksLikeDate(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
