package utils

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t.Add(15 * time.Hour)
}

func TestResolveDate(t *testing.T) {
	cases := []struct {
		text string
		now  string
		want string
		ok   bool
	}{
		{"yesterday", "2024-03-15", "2024-03-14", true},
		{"I ran 30 minutes Yesterday", "2024-03-01", "2024-02-29", true},
		{"today", "2024-03-15", "2024-03-15", true},
		{"tomorrow", "2024-12-31", "2025-01-01", true},
		{"02-01", "2024-03-15", "2024-02-01", true},
		{"12-25", "2024-01-01", "2023-12-25", true},
		{"on 3-15 I had eggs", "2024-03-15", "2024-03-15", true},
		{"1/2 cup of rice", "2024-03-15", "", false},
		{"03/02/2024", "2024-03-15", "2024-03-02", true},
		{"06-18-2023", "2024-03-15", "2023-06-18", true},
		{"12/25/24", "2024-01-01", "2024-12-25", true},
		{"2024-02-10", "2024-03-15", "2024-02-10", true},
		{"02-30", "2024-03-15", "", false},
		{"next tuesday", "2024-03-15", "", false},
		{"", "2024-03-15", "", false},
	}
	for _, tc := range cases {
		got, ok := ResolveDate(tc.text, day(tc.now))
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ResolveDate(%q @ %s) = (%q,%v); want (%q,%v)", tc.text, tc.now, got, ok, tc.want, tc.ok)
		}
	}
}

func TestToday_Zones(t *testing.T) {
	now := time.Date(2024, 3, 15, 23, 30, 0, 0, time.UTC)
	if got := Today(now, ""); got != "2024-03-15" {
		t.Fatalf("utc today = %s", got)
	}
	if got := Today(now, "Not/AZone"); got != "2024-03-15" {
		t.Fatalf("bad zone should fall back to UTC, got %s", got)
	}
	if got := Today(now, "Asia/Tokyo"); got != "2024-03-16" {
		t.Fatalf("tokyo today = %s", got)
	}
}
