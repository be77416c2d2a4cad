package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type reportIndicator struct {
	Category      string   `json:"category"`
	LatestValue   float64  `json:"latest_value"`
	PreviousValue float64  `json:"previous_value"`
	Unit          string   `json:"unit"`
	Updated       string   `json:"updated"`
	Trend         string   `json:"trend"`
	PercentChange *float64 `json:"percent_change,omitempty"`
	PercentLabel  string   `json:"percent_label,omitempty"`
	SourceURL     string   `json:"source_url,omitempty"`
}

type reportGroup struct {
	Name       string            `json:"name"`
	Indicators []reportIndicator `json:"indicators"`
}

type reportPayload struct {
	GeneratedAt string        `json:"generated_at"`
	Country     string        `json:"country"`
	Source      string        `json:"source"`
	Groups      []reportGroup `json:"groups"`
}

func normalizeReportFormat(path, format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		if strings.EqualFold(filepath.Ext(path), ".json") {
			return "json", nil
		}
		return "text", nil
	}
	switch format {
	case "text", "json":
		return format, nil
	default:
		return "", fmt.Errorf("unsupported report format %q (use text or json)", format)
	}
}

func buildReportPayload(country, source string, records []Indicator, generatedAt time.Time) reportPayload {
	payload := reportPayload{
		GeneratedAt: generatedAt.Format(time.RFC3339),
		Country:     country,
		Source:      source,
		Groups:      make([]reportGroup, 0),
	}
	for _, group := range groupIndicators(records, categoryGroups(records)) {
		out := reportGroup{Name: group.Name, Indicators: make([]reportIndicator, 0, len(group.Items))}
		for _, record := range group.Items {
			item := reportIndicator{
				Category:      record.Category,
				LatestValue:   record.LatestValue,
				PreviousValue: record.PreviousValue,
				Unit:          record.Unit,
				Updated:       formatUpdated(record.LatestValueDate),
				Trend:         trendOf(record),
				SourceURL:     record.SourceURL,
			}
			change := percentChange(record)
			if !math.IsNaN(change) && !math.IsInf(change, 0) {
				item.PercentChange = &change
				item.PercentLabel = formatPercent(change)
			}
			out.Indicators = append(out.Indicators, item)
		}
		payload.Groups = append(payload.Groups, out)
	}
	return payload
}

func buildReportText(payload reportPayload) string {
	lines := []string{
		fmt.Sprintf("%s Economic Indicators", payload.Country),
		fmt.Sprintf("Generated: %s (source: %s)", payload.GeneratedAt, payload.Source),
	}
	if len(payload.Groups) == 0 {
		lines = append(lines, "", "No indicators returned.")
	}
	for _, group := range payload.Groups {
		lines = append(lines, "", group.Name)
		for _, item := range group.Indicators {
			parts := []string{
				item.Category,
				strings.TrimSpace(formatValue(item.LatestValue) + " " + item.Unit),
				item.Trend,
			}
			if item.PercentLabel != "" {
				parts = append(parts, item.PercentLabel)
			}
			parts = append(parts, "updated "+item.Updated)
			lines = append(lines, "  "+strings.Join(parts, " · "))
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

func writeReport(stdout io.Writer, path, format string, payload reportPayload) error {
	format, err := normalizeReportFormat(path, format)
	if err != nil {
		return err
	}
	if format == "json" {
		content, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		return writeReportOutput(stdout, path, append(content, '\n'))
	}
	return writeReportOutput(stdout, path, []byte(buildReportText(payload)))
}

func writeReportOutput(stdout io.Writer, path string, content []byte) error {
	if strings.TrimSpace(path) == "" || path == "-" {
		_, err := stdout.Write(content)
		return err
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, content, 0o644)
}
