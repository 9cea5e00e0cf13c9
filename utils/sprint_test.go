// utils/sprint_test.go
package utils

import (
	"testing"
	"time"
)

func TestValidSprint(t *testing.T) {
	cases := []struct {
		in       string
		expected bool
	}{
		{"2026-01", true},
		{"2026-12", true},
		{"2026-00", false},
		{"2026-13", false},
		{"2026-1", false},
		{"26-01", false},
		{"2026/01", false},
		{"", false},
		{"2026-08 ", false},
	}
	for _, tc := range cases {
		if got := ValidSprint(tc.in); got != tc.expected {
			t.Fatalf("ValidSprint(%q) expected %v, got %v", tc.in, tc.expected, got)
		}
	}
}

func TestSprintOf(t *testing.T) {
	dt := time.Date(2026, time.August, 31, 23, 59, 0, 0, time.UTC)
	if got := SprintOf(dt); got != "2026-08" {
		t.Fatalf("SprintOf expected 2026-08, got %s", got)
	}
}

func TestPreviousSprint(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"2026-08", "2026-07"},
		{"2026-01", "2025-12"},
	}
	for _, tc := range cases {
		got, err := PreviousSprint(tc.in)
		if err != nil {
			t.Fatalf("PreviousSprint(%q) error: %v", tc.in, err)
		}
		if got != tc.expected {
			t.Fatalf("PreviousSprint(%q) expected %s, got %s", tc.in, tc.expected, got)
		}
	}
}

func TestPreviousSprint_RejectsBadKey(t *testing.T) {
	if _, err := PreviousSprint("not-a-sprint"); err == nil {
		t.Fatal("expected error for invalid sprint key")
	}
}
