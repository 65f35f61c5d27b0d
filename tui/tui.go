package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/starpilot/engine/route"
	"github.com/nathoo/starpilot/engine/state"
	"github.com/nathoo/starpilot/report"
	"github.com/nathoo/starpilot/types"
)

// maxFeedLines bounds the event feed; a long session would otherwise
// re-wrap an unbounded backlog on every resize.
const maxFeedLines = 500

// slotOrder fixes the display order of the status slots.
var slotOrder = []string{"route", "ship", "survey", "trade"}

// feedLine stores an unstyled feed entry with its classification, so the
// view can re-wrap and re-style on resize.
type feedLine struct {
	text    string
	level   types.Level
	isLabel bool // system arrival banner
	isPlain bool // raw log line
	isInput bool // echoed command
}

// busMsg carries one bus message into the Update loop.
type busMsg types.Message

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	st *state.State
	ch <-chan types.Message

	viewport viewport.Model
	input    textinput.Model
	history  *History

	slots map[string]types.UISlot
	feed  []feedLine

	currentLabel string
	width        int
	height       int
	ready        bool
	quitting     bool
}

// New creates a model consuming the given bus subscription.
func New(st *state.State, ch <-chan types.Message) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		st:      st,
		ch:      ch,
		input:   ti,
		history: NewHistory(100),
		slots:   map[string]types.UISlot{},
	}
}

// Run starts the Bubble Tea program and blocks until quit.
func Run(st *state.State, ch <-chan types.Message) error {
	p := tea.NewProgram(New(st, ch), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init starts the cursor blink and the bus pump.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, listen(m.ch))
}

// listen waits for the next bus message. Re-issued after every receive.
func listen(ch <-chan types.Message) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return busMsg(msg)
	}
}

// Update handles key presses, resizes, and bus traffic.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Slots panel + status bar + input line frame the viewport.
		vpHeight := m.height - len(slotOrder) - 3
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case busMsg:
		m = m.applyBus(types.Message(msg))
		cmds = append(cmds, listen(m.ch))
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// applyBus folds one bus message into the model.
func (m Model) applyBus(msg types.Message) Model {
	switch msg.Kind {
	case "start_label":
		m.currentLabel = msg.Label
		m = m.appendFeed(feedLine{text: msg.Label, isLabel: true})
	case "status_event":
		m = m.appendFeed(feedLine{
			text:  fmt.Sprintf("%s  %s", stamp(msg.Status.TS), msg.Status.Text),
			level: msg.Status.Level,
		})
	case "status_slot":
		m.slots[msg.Slot.Target] = *msg.Slot
	case "log":
		m = m.appendFeed(feedLine{text: msg.Log, isPlain: true})
	}
	return m
}

func stamp(ts time.Time) string {
	if ts.IsZero() {
		return "--:--:--"
	}
	return ts.Format("15:04:05")
}

// handleEnter processes the submitted command line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	if input == "" {
		return m, nil
	}
	m.history.Push(input)
	m.history.ResetCursor()
	m = m.appendFeed(feedLine{text: "> " + input, isInput: true})

	output, quit := m.runCommand(input)
	for _, line := range output {
		m = m.appendFeed(feedLine{text: line, isPlain: true})
	}
	if quit {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// runCommand dispatches dashboard commands. Returns output lines and a
// quit flag.
func (m *Model) runCommand(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	var arg string
	if len(parts) > 1 {
		arg = strings.Join(parts[1:], " ")
	}

	switch cmd {
	case "quit", "exit":
		return []string{"Goodbye."}, true

	case "route":
		if arg == "" {
			return []string{"Usage: route <file>"}, false
		}
		systems, err := route.ReadFile(arg)
		if err != nil {
			m.st.Emit(types.StatusEvent{
				Level: types.LevelError, Code: types.CodeRouteError,
				Text: fmt.Sprintf("Route load failed: %v", err),
				TS:   time.Now(), Source: "route",
			}, "")
			return nil, false
		}
		m.st.SetRoute(systems, "file:"+arg)
		return nil, false

	case "next":
		m.st.CopyNextHop()
		return nil, false

	case "clear":
		m.st.ClearRoute()
		return nil, false

	case "milestones":
		if arg == "" {
			return []string{"Usage: milestones <file>"}, false
		}
		names, err := route.ReadFile(arg)
		if err != nil {
			return []string{fmt.Sprintf("Milestone load failed: %v", err)}, false
		}
		m.st.SetMilestones(names)
		return []string{fmt.Sprintf("%d milestones loaded.", len(names))}, false

	case "stats":
		system := arg
		if system == "" {
			system = m.st.CurrentSystem()
		}
		if system == "" {
			return []string{"No current system yet."}, false
		}
		var b strings.Builder
		report.StatsTable(&b, m.st.SystemStats(system))
		return strings.Split(strings.TrimRight(b.String(), "\n"), "\n"), false

	case "help":
		return commandHelp(), false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type help for available commands.", cmd)}, false
	}
}

func commandHelp() []string {
	return []string{
		"Commands:",
		"  route <file>       — Load a route (one system per line)",
		"  milestones <file>  — Load milestone systems for progress callouts",
		"  next               — Copy the next hop again",
		"  clear              — Drop the active route",
		"  stats [system]     — Survey ledger for a system (default: current)",
		"  help               — Show this help",
		"  quit               — Exit",
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for command history",
	}
}

// appendFeed adds one line and trims the backlog.
func (m Model) appendFeed(line feedLine) Model {
	m.feed = append(m.feed, line)
	if len(m.feed) > maxFeedLines {
		m.feed = m.feed[len(m.feed)-maxFeedLines:]
	}
	m.refreshViewport()
	return m
}

// refreshViewport re-styles the feed at the current width.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	var styled []string
	for _, fl := range m.feed {
		switch {
		case fl.isLabel:
			styled = append(styled, styleStartLabel.Render("=== "+fl.text+" ==="))
		case fl.isInput:
			styled = append(styled, styleInputPrompt.Render(fl.text))
		case fl.isPlain:
			styled = append(styled, styleLogLine.Render(fl.text))
		default:
			styled = append(styled, levelStyle(fl.level).Render(fl.text))
		}
	}
	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// renderSlots produces the fixed status-slot panel.
func (m Model) renderSlots() string {
	lines := make([]string, 0, len(slotOrder))
	for _, target := range slotOrder {
		slot, ok := m.slots[target]
		text := slot.Text
		if !ok || text == "" {
			text = "—"
		}
		label := styleSlotLabel.Render(fmt.Sprintf("%-7s", target))
		lines = append(lines, label+" "+slotStyle(slot.Color).Render(text))
	}
	return strings.Join(lines, "\n")
}

// renderStatusBar produces the full-width inverted bar: current system on
// the left, clock on the right.
func (m Model) renderStatusBar() string {
	label := m.currentLabel
	if label == "" {
		label = "awaiting first jump"
	}
	left := " " + label
	right := time.Now().Format("15:04") + " "

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return styleStatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// View renders slots + feed + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	return m.renderSlots() + "\n" +
		m.viewport.View() + "\n" +
		m.renderStatusBar() + "\n" +
		m.input.View()
}

// viewportKeyMap disables Up/Down (used for command history) and keeps
// paging keys.
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
