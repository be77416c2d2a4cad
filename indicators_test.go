package main

import (
	"math"
	"reflect"
	"testing"
)

func TestCategoryGroupsSortedAndDistinct(t *testing.T) {
	records := []Indicator{
		{CategoryGroup: "B", Category: "b1"},
		{CategoryGroup: "A", Category: "a1"},
		{CategoryGroup: "A", Category: "a2"},
	}
	groups := categoryGroups(records)
	if !reflect.DeepEqual(groups, []string{"A", "B"}) {
		t.Fatalf("expected [A B], got %v", groups)
	}

	grouped := groupIndicators(records, groups)
	if len(grouped) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(grouped))
	}
	if len(grouped[0].Items) != 2 || grouped[0].Items[0].Category != "a1" || grouped[0].Items[1].Category != "a2" {
		t.Fatalf("unexpected items in group A: %+v", grouped[0].Items)
	}
	if len(grouped[1].Items) != 1 || grouped[1].Items[0].Category != "b1" {
		t.Fatalf("unexpected items in group B: %+v", grouped[1].Items)
	}
}

func TestCategoryGroupsCollation(t *testing.T) {
	records := []Indicator{
		{CategoryGroup: "Prices"},
		{CategoryGroup: "GDP"},
		{CategoryGroup: "labour"},
		{CategoryGroup: "Business"},
	}
	got := categoryGroups(records)
	want := []string{"Business", "GDP", "labour", "Prices"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestPercentChangeAndTrend(t *testing.T) {
	cases := []struct {
		name     string
		latest   float64
		previous float64
		trend    string
		label    string
	}{
		{"rise", 100, 90, trendUp, "10.00%"},
		{"unchanged", 50, 50, trendFlat, ""},
		{"negative unchanged", -5, -5, trendFlat, ""},
		{"fall", 80, 100, trendDown, "-25.00%"},
		{"magnitude grows while negative", -6, -5, trendUp, "16.67%"},
		{"zero latest", 0, 5, trendDown, ""},
		{"difference stored below half a cent", 0.015, 0, trendUp, "66.67%"},
		{"difference of 1.005", 1.005, 0, trendUp, "99.50%"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			record := Indicator{LatestValue: tc.latest, PreviousValue: tc.previous}
			if got := trendOf(record); got != tc.trend {
				t.Fatalf("expected trend %s, got %s", tc.trend, got)
			}
			if got := formatPercent(percentChange(record)); got != tc.label {
				t.Fatalf("expected label %q, got %q", tc.label, got)
			}
		})
	}
}

func TestRound2UsesExactBinaryValue(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0.015, 0.01},
		{1.005, 1},
		{2.675, 2.67},
		{0.125, 0.13},
		{-0.125, -0.13},
		{-0.015, -0.01},
		{10, 10},
		{16.666666666666668, 16.67},
	}
	for _, tc := range cases {
		if got := round2(tc.in); got != tc.want {
			t.Fatalf("round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if got := round2(math.Inf(1)); !math.IsInf(got, 1) {
		t.Fatalf("expected +Inf to pass through, got %v", got)
	}
}

func TestFormatUpdated(t *testing.T) {
	cases := map[string]string{
		"2023-01-15":           "1/15/2023",
		"2023-01-31T00:00:00":  "1/31/2023",
		"2024-11-05T12:30:00Z": "11/5/2024",
		"not a date":           "not a date",
	}
	for raw, want := range cases {
		if got := formatUpdated(raw); got != want {
			t.Fatalf("formatUpdated(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestFormatValue(t *testing.T) {
	cases := map[float64]string{
		100:     "100",
		1234567: "1,234,567",
		1234.5:  "1,234.5",
	}
	for value, want := range cases {
		if got := formatValue(value); got != want {
			t.Fatalf("formatValue(%v) = %q, want %q", value, got, want)
		}
	}
}

func TestLookupCountry(t *testing.T) {
	if got, ok := lookupCountry("  new zealand "); !ok || got != "New Zealand" {
		t.Fatalf("expected New Zealand, got %q (%v)", got, ok)
	}
	if _, ok := lookupCountry("Canada"); ok {
		t.Fatalf("expected Canada to be rejected")
	}
}
