package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	accent        = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	subtle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	groupStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true).MarginTop(1)
	categoryStyle = lipgloss.NewStyle().Bold(true)
	valueStyle    = lipgloss.NewStyle().Bold(true)
	linkStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("69")).Underline(true)
	spinnerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	statusUp      = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	statusDown    = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	statusFlat    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	rowStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	tabStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 3).Foreground(lipgloss.Color("117")).Bold(true)
	tabActive     = tabStyle.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("252"))
)

func (m model) View() string {
	header := headerStyle.Render("Select and view economic information for one of the available countries")
	tabs := renderCountryTabs(m.selected)

	var body string
	switch {
	case m.loading, m.errMsg != "", m.selected == "":
		body = renderBody(m.uiState, m.spinner.View(), m.width)
	default:
		body = m.viewport.View()
	}

	return strings.Join([]string{
		header,
		tabs,
		body,
		m.help.View(m.keys),
	}, "\n")
}

func renderCountryTabs(selected string) string {
	tabs := make([]string, 0, len(Countries))
	for i, country := range Countries {
		label := fmt.Sprintf("%d %s", i+1, strings.ToUpper(country))
		if country == selected {
			tabs = append(tabs, tabActive.Render(label))
			continue
		}
		tabs = append(tabs, tabStyle.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderBody is the presenter: loading wins over the error message, which
// wins over the indicator list.
func renderBody(s uiState, spinnerFrame string, width int) string {
	switch {
	case s.loading:
		return spinnerFrame + " " + accent.Render(fmt.Sprintf("Loading %s...", s.selected))
	case s.errMsg != "":
		return subtle.Render(s.errMsg)
	case s.selected == "":
		return subtle.Render("Press 1-4 to pick a country.")
	default:
		return renderIndicators(s, width)
	}
}

func renderIndicators(s uiState, width int) string {
	if width <= 0 {
		width = 80
	}
	lines := make([]string, 0, len(s.groups)*4)
	for _, group := range groupIndicators(s.records, s.groups) {
		lines = append(lines, groupStyle.Render(group.Name))
		for _, record := range group.Items {
			lines = append(lines, renderRecord(record, width))
		}
	}
	return strings.Join(lines, "\n")
}

func renderRecord(record Indicator, width int) string {
	meta := subtle.Render("Updated: " + formatUpdated(record.LatestValueDate))
	if record.SourceURL != "" {
		meta = termenv.Hyperlink(record.SourceURL, linkStyle.Render("Source ↗")) + "  " + meta
	}
	left := lipgloss.JoinVertical(lipgloss.Left, categoryStyle.Render(record.Category), meta)

	reading := lipgloss.JoinVertical(lipgloss.Center,
		valueStyle.Render(formatValue(record.LatestValue)),
		subtle.Render(record.Unit),
	)
	right := lipgloss.JoinHorizontal(lipgloss.Center,
		reading,
		" ",
		renderTrend(trendOf(record)),
		" ",
		renderPercent(percentChange(record)),
	)

	inner := width - rowStyle.GetHorizontalFrameSize()
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return rowStyle.Render(lipgloss.JoinHorizontal(lipgloss.Center, left, strings.Repeat(" ", gap), right))
}

func renderTrend(trend string) string {
	switch trend {
	case trendUp:
		return statusUp.Render("▲")
	case trendDown:
		return statusDown.Render("▼")
	default:
		return statusFlat.Render("=")
	}
}

func renderPercent(value float64) string {
	label := formatPercent(value)
	if label == "" {
		return ""
	}
	if value > 0 {
		return statusUp.Render(label)
	}
	return statusDown.Render(label)
}
