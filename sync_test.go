package main

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestFetchAllCountriesSkipsRestricted(t *testing.T) {
	fetcher := &fakeFetcher{
		records: map[string][]Indicator{
			"Sweden":      sampleRecords(),
			"Mexico":      sampleRecords()[:1],
			"New Zealand": sampleRecords()[:2],
		},
		errs: map[string]error{
			"Thailand": &APIError{StatusCode: 403, Body: accessRestrictedSentinel},
		},
	}
	snapshots, skipped, err := fetchAllCountries(context.Background(), fetcher, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(skipped, []string{"Thailand"}) {
		t.Fatalf("expected Thailand skipped, got %v", skipped)
	}
	countries := make([]string, 0, len(snapshots))
	for _, snapshot := range snapshots {
		countries = append(countries, snapshot.Country)
	}
	if !reflect.DeepEqual(countries, []string{"Sweden", "Mexico", "New Zealand"}) {
		t.Fatalf("unexpected snapshot order %v", countries)
	}
	if len(snapshots[1].Records) != 1 {
		t.Fatalf("expected Mexico to carry 1 record, got %d", len(snapshots[1].Records))
	}
	if len(fetcher.Calls()) != len(Countries) {
		t.Fatalf("expected one request per country, got %v", fetcher.Calls())
	}
}

func TestFetchAllCountriesFailsOnOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	fetcher := &fakeFetcher{errs: map[string]error{"Mexico": boom}}
	if _, _, err := fetchAllCountries(context.Background(), fetcher, discardLogger()); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}
