package main

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Countries is the fixed, ordered set of selectable countries.
var Countries = []string{"Sweden", "Mexico", "Thailand", "New Zealand"}

// Indicator is one record of the country endpoint.
type Indicator struct {
	Country         string  `json:"Country"`
	Category        string  `json:"Category"`
	CategoryGroup   string  `json:"CategoryGroup"`
	LatestValue     float64 `json:"LatestValue"`
	PreviousValue   float64 `json:"PreviousValue"`
	Unit            string  `json:"Unit"`
	LatestValueDate string  `json:"LatestValueDate"`
	SourceURL       string  `json:"SourceURL"`
}

type indicatorGroup struct {
	Name  string
	Items []Indicator
}

const (
	trendUp   = "Up"
	trendDown = "Down"
	trendFlat = "Unchanged"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

var valuePrinter = message.NewPrinter(language.English)

func lookupCountry(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, country := range Countries {
		if strings.EqualFold(country, name) {
			return country, true
		}
	}
	return "", false
}

// categoryGroups returns the distinct CategoryGroup values in first-seen
// order, then sorted with English collation.
func categoryGroups(records []Indicator) []string {
	seen := make(map[string]struct{}, len(records))
	groups := make([]string, 0)
	for _, record := range records {
		if _, ok := seen[record.CategoryGroup]; ok {
			continue
		}
		seen[record.CategoryGroup] = struct{}{}
		groups = append(groups, record.CategoryGroup)
	}
	collator := collate.New(language.English)
	sort.SliceStable(groups, func(i, j int) bool {
		return collator.CompareString(groups[i], groups[j]) < 0
	})
	return groups
}

func groupIndicators(records []Indicator, groups []string) []indicatorGroup {
	out := make([]indicatorGroup, 0, len(groups))
	for _, name := range groups {
		group := indicatorGroup{Name: name}
		for _, record := range records {
			if record.CategoryGroup == name {
				group.Items = append(group.Items, record)
			}
		}
		out = append(out, group)
	}
	return out
}

func trendOf(record Indicator) string {
	diff := math.Abs(record.LatestValue) - math.Abs(record.PreviousValue)
	switch {
	case diff > 0:
		return trendUp
	case diff < 0:
		return trendDown
	default:
		return trendFlat
	}
}

// round2 rounds the exact binary value to two decimals, with ties going
// away from zero.
func round2(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}
	scaled := new(big.Rat).SetFloat64(math.Abs(value))
	scaled.Mul(scaled, big.NewRat(100, 1))
	cents := new(big.Int).Quo(scaled.Num(), scaled.Denom())
	rest := new(big.Rat).Sub(scaled, new(big.Rat).SetInt(cents))
	if rest.Cmp(big.NewRat(1, 2)) >= 0 {
		cents.Add(cents, big.NewInt(1))
	}
	rounded, _ := new(big.Rat).SetFrac(cents, big.NewInt(100)).Float64()
	return math.Copysign(rounded, value)
}

// percentChange is the change relative to the latest value, not the
// previous one. A zero latest value yields a non-finite result.
func percentChange(record Indicator) float64 {
	return round2(round2(record.LatestValue-record.PreviousValue) / record.LatestValue * 100)
}

func formatPercent(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) || value == 0 {
		return ""
	}
	return strconv.FormatFloat(value, 'f', 2, 64) + "%"
}

func formatValue(value float64) string {
	return valuePrinter.Sprint(number.Decimal(value, number.MaxFractionDigits(3)))
}

func parseDateOptional(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// formatUpdated renders the calendar date as M/D/YYYY.
func formatUpdated(value string) string {
	parsed, ok := parseDateOptional(value)
	if !ok {
		return value
	}
	return fmt.Sprintf("%d/%d/%d", int(parsed.Month()), parsed.Day(), parsed.Year())
}
