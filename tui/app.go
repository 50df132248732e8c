// Package tui is an interactive terminal front end for the controller.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/sheikhrachel/go-gol-interactive/controller"
	"github.com/sheikhrachel/go-gol-interactive/utils"
)

// lines printed above the grid, used to map mouse rows onto grid rows
const headerLines = 2

const sparklineSamples = 60

type snapshotMsg controller.Snapshot

type closedMsg struct{}

type model struct {
	ctrl *controller.Controller
	cfg  utils.Config

	snap      controller.Snapshot
	stats     *utils.Stats
	history   *utils.History
	period    int
	lastFrame time.Time

	cursorRow int
	cursorCol int
	err       error

	width  int
	height int
}

// New returns the bubbletea model driving ctrl
func New(ctrl *controller.Controller, cfg utils.Config) tea.Model {
	return model{
		ctrl:    ctrl,
		cfg:     cfg,
		snap:    ctrl.Snapshot(),
		stats:   utils.NewStats(sparklineSamples),
		history: utils.NewHistory(cfg.HistorySize),
		width:   80,
		height:  24,
	}
}

// Run starts the interactive program and blocks until the user quits
func Run(ctrl *controller.Controller, cfg utils.Config, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}, opts...)
	_, err := tea.NewProgram(New(ctrl, cfg), opts...).Run()
	return err
}

func waitForSnapshot(updates <-chan controller.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return closedMsg{}
		}
		return snapshotMsg(snap)
	}
}

func (m model) Init() tea.Cmd { return waitForSnapshot(m.ctrl.Updates()) }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.observe(controller.Snapshot(msg))
		return m, waitForSnapshot(m.ctrl.Updates())
	case closedMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg), nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m *model) observe(snap controller.Snapshot) {
	prev := m.snap
	m.snap = snap
	m.cursorRow = min(m.cursorRow, snap.Rows-1)
	m.cursorCol = min(m.cursorCol, snap.Cols-1)

	switch {
	case snap.Generation < prev.Generation:
		m.history.Reset()
		m.period = 0
		m.stats.Update(snap.Generation, snap.Population, 0)
	case snap.Generation > prev.Generation:
		now := time.Now()
		var elapsed time.Duration
		if !m.lastFrame.IsZero() {
			elapsed = now.Sub(m.lastFrame) / time.Duration(snap.Generation-prev.Generation)
		}
		m.lastFrame = now
		m.stats.Update(snap.Generation, snap.Population, elapsed)
		m.period = m.history.Observe(snap.Grid.Hash())
	case snap.Grid != prev.Grid:
		// edited by hand, earlier generations are no longer comparable
		m.history.Reset()
		m.period = 0
	}
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	switch key := msg.String(); key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ", "p":
		if m.snap.Running {
			m.ctrl.Pause()
		} else {
			m.err = m.ctrl.Play()
		}
	case "c":
		m.ctrl.Clear()
	case "s":
		m.err = m.ctrl.Seed()
	case "n":
		m.ctrl.Advance()
	case "f":
		m.err = m.ctrl.SetSpeed(m.cfg.FastInterval)
	case "w":
		m.err = m.ctrl.SetSpeed(m.cfg.SlowInterval)
	case "up", "k":
		m.cursorRow = max(m.cursorRow-1, 0)
	case "down", "j":
		m.cursorRow = min(m.cursorRow+1, m.snap.Rows-1)
	case "left", "h":
		m.cursorCol = max(m.cursorCol-1, 0)
	case "right", "l":
		m.cursorCol = min(m.cursorCol+1, m.snap.Cols-1)
	case "enter", "t":
		m.err = m.ctrl.ToggleCell(m.cursorRow, m.cursorCol)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(key[0] - '1')
		if idx < len(m.cfg.Presets) {
			m.err = m.resize(m.cfg.Presets[idx])
		}
	}
	// reflect the intent immediately rather than waiting for the published snapshot
	m.snap.Running = m.ctrl.Snapshot().Running
	return m, nil
}

func (m model) resize(preset string) error {
	rows, cols, err := utils.ParseGridSize(preset)
	if err != nil {
		return err
	}
	return m.ctrl.Resize(rows, cols)
}

// handleMouse turns a left click into a toggle of the cell under the pointer
func (m model) handleMouse(msg tea.MouseMsg) model {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m
	}
	row, col := msg.Y-headerLines, msg.X/len([]rune(cellAlive))
	if row < 0 || row >= m.snap.Rows || col < 0 || col >= m.snap.Cols {
		return m
	}
	m.cursorRow, m.cursorCol = row, col
	m.err = m.ctrl.ToggleCell(row, col)
	return m
}

func (m model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Game of Life"))
	sb.WriteString("  ")
	sb.WriteString(m.status())
	sb.WriteString("\n")
	sb.WriteString(dim.Render(fmt.Sprintf("%dx%d  cursor %d,%d", m.snap.Rows, m.snap.Cols, m.cursorRow, m.cursorCol)))
	sb.WriteString("\n")

	m.renderGrid(&sb)

	if len(m.stats.PopulationHistory) >= 2 {
		sb.WriteString("\n")
		sb.WriteString(asciigraph.Plot(m.stats.PopulationHistory,
			asciigraph.Height(4),
			asciigraph.Width(min(sparklineSamples, max(m.width-10, 10))),
			asciigraph.Caption("population"),
		))
		sb.WriteString("\n")
	}

	if m.err != nil {
		sb.WriteString(errStyle.Render(m.err.Error()))
		sb.WriteString("\n")
	}
	sb.WriteString(dim.Render(m.help()))
	return sb.String()
}

func (m model) status() string {
	state := paused.Render("paused")
	if m.snap.Running {
		state = playing.Render("playing")
	}
	line := fmt.Sprintf("gen %d  pop %d  %s %s  %.1f gen/s",
		m.snap.Generation, m.snap.Population, state, m.snap.Interval, m.stats.GenerationsPerSecond)

	switch {
	case m.snap.Population == 0:
		line += "  " + stable.Render("extinct")
	case m.period == 1:
		line += "  " + stable.Render("still life")
	case m.period > 1:
		line += "  " + stable.Render(fmt.Sprintf("period %d", m.period))
	}
	return line
}

func (m model) renderGrid(sb *strings.Builder) {
	g := m.snap.Grid
	if g == nil {
		return
	}

	var row strings.Builder
	flush := func() {
		if row.Len() > 0 {
			sb.WriteString(liveStyle.Render(row.String()))
			row.Reset()
		}
	}

	for r := range g.Rows() {
		for c := range g.Cols() {
			cell := cellDead
			if g.Alive(r, c) {
				cell = cellAlive
			}
			if r == m.cursorRow && c == m.cursorCol {
				flush()
				if cell == cellDead {
					cell = cellCursor
				}
				sb.WriteString(cursorStyle.Render(cell))
				continue
			}
			row.WriteString(cell)
		}
		flush()
		sb.WriteString("\n")
	}
}

func (m model) help() string {
	presets := make([]string, 0, len(m.cfg.Presets))
	for i, p := range m.cfg.Presets {
		if i >= 9 {
			break
		}
		presets = append(presets, fmt.Sprintf("%d:%s", i+1, p))
	}
	return "space play/pause  n step  s seed  c clear  f fast  w slow  arrows move  enter toggle  " +
		strings.Join(presets, " ") + "  q quit"
}
