// Package tui is the interactive rating board.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/rate/internal/board"
	"github.com/idilsaglam/rate/internal/chart"
	"github.com/idilsaglam/rate/internal/model"
	"github.com/idilsaglam/rate/internal/stepper"
	"github.com/idilsaglam/rate/internal/ui"
)

const (
	hintVerify  = "Verify your email to save ratings."
	hintUnsaved = "You have unsaved changes."
	hintQuit    = "Unsaved changes. Press q again to quit."
	labelSave   = "Validate & Save"
	labelSaving = "Saving…"
)

// Options wire the board to its collaborators.
type Options struct {
	Persister board.Persister
	// Authorized is asked before every save and edit.
	Authorized  func() bool
	SaveTimeout time.Duration
	ShowChart   bool
}

// savedMsg carries the outcome of one save request back to the loop.
type savedMsg struct {
	req board.Request
	err error
}

type Model struct {
	board   *board.Board
	opt     Options
	list    list.Model
	keys    keyMap
	help    help.Model
	spinner spinner.Model

	width, height int
	showChart     bool
	confirmQuit   bool
}

// New builds the model. b must not be used elsewhere while the program runs.
func New(b *board.Board, opt Options) Model {
	if opt.Authorized == nil {
		opt.Authorized = func() bool { return true }
	}
	if opt.SaveTimeout <= 0 {
		opt.SaveTimeout = 10 * time.Second
	}

	seasons := b.Seasons()
	items := make([]list.Item, 0, len(seasons))
	for _, s := range seasons {
		items = append(items, seasonItem{season: s})
	}

	t := ui.Current()
	l := list.New(items, rowDelegate{board: b}, 0, 0)
	l.Title = "Rate each season (0–100)"
	l.SetShowHelp(false)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = t.Title
	l.Styles.PaginationStyle = t.Muted
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("season", "seasons")

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = t.Accent

	m := Model{
		board:     b,
		opt:       opt,
		list:      l,
		keys:      defaultKeys(),
		help:      help.New(),
		spinner:   sp,
		width:     80,
		height:    24,
		showChart: opt.ShowChart,
	}
	m.resize()
	return m
}

// Run starts the program and blocks until the user quits.
func Run(b *board.Board, opt Options) error {
	_, err := tea.NewProgram(New(b, opt), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Board() *board.Board { return m.board }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) editor() stepper.Stepper {
	return stepper.Stepper{Min: model.MinRating, Max: model.MaxRating, Disabled: !m.opt.Authorized()}
}

func (m Model) selected() (seasonItem, bool) {
	it, ok := m.list.SelectedItem().(seasonItem)
	return it, ok
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case savedMsg:
		m.board.Finish(msg.req, msg.err)
		entry := logrus.WithField("count", len(msg.req.Batch))
		if msg.err != nil {
			entry.WithError(msg.err).Warn("save failed")
		} else {
			entry.Info("ratings saved")
		}
		return m, nil

	case spinner.TickMsg:
		if !m.board.Saving() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		if !key.Matches(msg, m.keys.Quit) {
			m.confirmQuit = false
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.board.IsDirty() && !m.confirmQuit && msg.String() != "ctrl+c" {
				m.confirmQuit = true
				return m, nil
			}
			return m, tea.Quit
		case key.Matches(msg, m.keys.Save):
			return m, m.save()
		case key.Matches(msg, m.keys.Chart):
			m.showChart = !m.showChart
			m.resize()
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.resize()
			return m, nil
		}
		if amount := m.keys.Amount(msg); amount != 0 {
			m.adjust(amount)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) adjust(amount int) {
	it, ok := m.selected()
	if !ok {
		return
	}
	value, _ := m.board.Rating(it.season.ID)
	next, ok := m.editor().Adjust(value, amount)
	if !ok || next == value {
		return
	}
	if err := m.board.SetRating(it.season.ID, next); err != nil {
		logrus.WithError(err).Warn("rating rejected")
	}
}

// save starts a request when the board allows one. The persister runs off
// the event loop; its outcome comes back as a savedMsg.
func (m Model) save() tea.Cmd {
	req, ok := m.board.Begin(m.opt.Authorized())
	if !ok {
		return nil
	}
	p, timeout := m.opt.Persister, m.opt.SaveTimeout
	run := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return savedMsg{req: req, err: p.SaveRatings(ctx, req.Batch)}
	}
	return tea.Batch(m.spinner.Tick, run)
}

func (m *Model) resize() {
	h := m.height - m.chromeHeight()
	if h < 3 {
		h = 3
	}
	m.list.SetSize(m.width-4, h)
	m.help.Width = m.width - 4
}

// chromeHeight is the number of rows used around the list.
func (m Model) chromeHeight() int {
	rows := 2 + 2 + 1 + 2 + 1 // border, stepper, legend, status, help
	if m.help.ShowAll {
		rows += 3
	}
	if m.showChart {
		rows += m.chartHeight() + 1
	}
	return rows
}

func (m Model) chartHeight() int {
	h := m.height / 2
	if h > 16 {
		h = 16
	}
	if h < 8 {
		h = 8
	}
	return h
}

func (m Model) View() string {
	t := ui.Current()
	var b strings.Builder
	b.WriteString(m.list.View())
	b.WriteString("\n\n")

	if it, ok := m.selected(); ok {
		value, _ := m.board.Rating(it.season.ID)
		fmt.Fprintf(&b, "%s  %s\n", t.Accent.Render(truncate(it.season.Title, titleWidth)), m.editor().View(value))
	} else {
		b.WriteString("\n")
	}
	b.WriteString(ui.Legend())
	b.WriteString("\n")

	if m.showChart {
		b.WriteString("\n")
		g := chart.Layout(chart.Values(m.board.Labels(), m.board.Values()),
			float64(m.width-4), float64(m.chartHeight()), chart.TerminalConfig())
		b.WriteString(chart.Terminal(g))
		b.WriteString("\n")
	}

	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return ui.PanelString(b.String())
}

func (m Model) statusLine() string {
	t := ui.Current()
	authorized := m.opt.Authorized()

	button := "[ " + labelSave + " ]"
	switch {
	case m.board.Saving():
		button = t.Accent.Render(m.spinner.View() + " " + labelSaving)
	case m.board.CanSave(authorized):
		button = t.Accent.Render(button)
	default:
		button = t.Muted.Render(button)
	}

	parts := []string{button}
	if status := m.board.Status(); status != "" {
		if m.board.StatusOK() {
			parts = append(parts, t.Success.Render(status))
		} else {
			parts = append(parts, t.Error.Render(status))
		}
	}
	switch {
	case m.confirmQuit:
		parts = append(parts, t.Pending.Render(hintQuit))
	case !authorized:
		parts = append(parts, t.Muted.Render(hintVerify))
	case m.board.IsDirty() && !m.board.Saving():
		parts = append(parts, t.Muted.Render(hintUnsaved))
	}
	return strings.Join(parts, "  ")
}
