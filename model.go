package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const debounceDelay = 500 * time.Millisecond

// chromeHeight is the number of rows used by the title, country tabs and help.
const chromeHeight = 9

// uiState is everything the presenter reads.
type uiState struct {
	selected string
	loading  bool
	errMsg   string
	records  []Indicator
	groups   []string
}

type keyMap struct {
	Country key.Binding
	Prev    key.Binding
	Next    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Country, k.Prev, k.Next, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Country, k.Prev, k.Next},
		{
			key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
			key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
			key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdn", "page")),
		},
		{k.Help, k.Quit},
	}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Country: key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "select country")),
		Prev:    key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←/h", "previous")),
		Next:    key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/l", "next")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// debounceMsg fires once the selection has been stable for debounceDelay.
type debounceMsg struct {
	generation int
	country    string
}

type fetchResultMsg struct {
	generation int
	country    string
	records    []Indicator
	err        error
}

type model struct {
	uiState

	fetcher    indicatorFetcher
	logger     *slog.Logger
	debounce   time.Duration
	generation int

	spinner  spinner.Model
	viewport viewport.Model
	help     help.Model
	keys     keyMap
	width    int
	height   int
}

func newModel(fetcher indicatorFetcher, logger *slog.Logger) model {
	if logger == nil {
		logger = discardLogger()
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle
	return model{
		fetcher:  fetcher,
		logger:   logger,
		debounce: debounceDelay,
		spinner:  sp,
		viewport: viewport.New(80, 20),
		help:     help.New(),
		keys:     defaultKeyMap(),
	}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

// selectCountry switches the selection and schedules a debounced fetch.
// Selecting the current country is a no-op.
func (m *model) selectCountry(country string) tea.Cmd {
	if country == m.selected {
		return nil
	}
	m.selected = country
	m.loading = true
	m.generation++
	generation := m.generation
	m.logger.Debug("country selected", "country", country, "generation", generation)
	return tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return debounceMsg{generation: generation, country: country}
	})
}

func (m *model) step(delta int) tea.Cmd {
	index := -1
	for i, country := range Countries {
		if country == m.selected {
			index = i
			break
		}
	}
	if index < 0 && delta < 0 {
		index = 0
	}
	next := (index + delta + len(Countries)) % len(Countries)
	return m.selectCountry(Countries[next])
}

func (m *model) handleDebounce(msg debounceMsg) tea.Cmd {
	if msg.generation != m.generation || m.selected == "" {
		return nil
	}
	m.logger.Info("fetching indicators", "country", m.selected, "generation", msg.generation)
	return fetchCmd(m.fetcher, msg.generation, m.selected)
}

func fetchCmd(fetcher indicatorFetcher, generation int, country string) tea.Cmd {
	return func() tea.Msg {
		records, err := fetcher.FetchCountry(context.Background(), country)
		return fetchResultMsg{generation: generation, country: country, records: records, err: err}
	}
}

func (m *model) applyResult(msg fetchResultMsg) {
	if msg.generation != m.generation {
		m.logger.Info("discarding superseded result", "country", msg.country, "generation", msg.generation, "current", m.generation)
		return
	}
	m.loading = false
	if msg.err != nil {
		m.logger.Error("indicator fetch failed", "country", msg.country, "error", msg.err)
		if text, ok := isAccessRestricted(msg.err); ok {
			m.errMsg = text
		}
		return
	}
	m.groups = categoryGroups(msg.records)
	m.records = msg.records
	m.errMsg = ""
	m.logger.Info("indicators loaded", "country", msg.country, "records", len(msg.records), "groups", len(m.groups))
	m.viewport.SetContent(renderIndicators(m.uiState, m.viewport.Width))
	m.viewport.GotoTop()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		bodyHeight := msg.Height - chromeHeight
		if bodyHeight < 3 {
			bodyHeight = 3
		}
		m.viewport.Width = msg.Width
		m.viewport.Height = bodyHeight
		m.help.Width = msg.Width
		m.viewport.SetContent(renderIndicators(m.uiState, m.viewport.Width))
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Country):
			index := int(msg.String()[0] - '1')
			return m, m.selectCountry(Countries[index])
		case key.Matches(msg, m.keys.Prev):
			return m, m.step(-1)
		case key.Matches(msg, m.keys.Next):
			return m, m.step(1)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	case debounceMsg:
		return m, m.handleDebounce(msg)
	case fetchResultMsg:
		m.applyResult(msg)
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}
