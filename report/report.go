// Package report renders bus traffic and survey ledgers for the terminal:
// a colored event log for headless runs and tabular summaries for the
// route and system-stats commands.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/nathoo/starpilot/types"
)

var levelColors = map[types.Level]*color.Color{
	types.LevelOK:    color.New(color.FgGreen),
	types.LevelInfo:  color.New(color.FgWhite),
	types.LevelWarn:  color.New(color.FgYellow),
	types.LevelError: color.New(color.FgRed, color.Bold),
	types.LevelBusy:  color.New(color.FgCyan),
}

// Logger prints bus messages line by line, colored by severity. It is the
// headless counterpart of the TUI.
type Logger struct {
	w io.Writer
}

// NewLogger writes to w; pass color.Output for a real terminal.
func NewLogger(w io.Writer) *Logger {
	return &Logger{w: w}
}

// Handle prints one bus message. Slot refreshes are skipped: they repeat
// what the status event already said.
func (l *Logger) Handle(m types.Message) {
	switch m.Kind {
	case "start_label":
		fmt.Fprintf(l.w, "=== %s ===\n", m.Label)
	case "status_event":
		c, ok := levelColors[m.Status.Level]
		if !ok {
			c = levelColors[types.LevelInfo]
		}
		c.Fprintf(l.w, "[%s] %s\n", m.Status.Code, m.Status.Text)
	case "log":
		fmt.Fprintln(l.w, m.Log)
	}
}

// RouteTable renders the active route with its progress marker.
func RouteTable(w io.Writer, route types.ActiveRoute) {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"#", "System", "Status"}),
	)
	for i, name := range route.SystemsRaw {
		status := ""
		switch {
		case i < route.Index:
			status = "visited"
		case i == route.Index:
			status = "next hop"
		}
		table.Append([]string{fmt.Sprintf("%d", i+1), name, status})
	}
	table.Render()
}

// StatsTable renders one system's survey ledger.
func StatsTable(w io.Writer, stats types.SystemStats) {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Metric", "Value"}),
	)
	table.Append([]string{"System", stats.Name})
	table.Append([]string{"Bodies scanned", fmt.Sprintf("%d", stats.TotalScanned)})
	table.Append([]string{"First discoveries", fmt.Sprintf("%d", stats.BodiesFirst)})
	table.Append([]string{"Cartography (cr)", fmt.Sprintf("%d", stats.Cartography)})
	table.Append([]string{"Exobiology (cr)", fmt.Sprintf("%d", stats.Exobiology)})
	table.Append([]string{"Bonuses (cr)", fmt.Sprintf("%d", stats.Bonus)})
	table.Append([]string{"Total (cr)", fmt.Sprintf("%d", stats.Cartography+stats.Exobiology+stats.Bonus)})
	for _, hv := range stats.HighValue {
		label := hv.BodyType
		if hv.Terraformable {
			label = "Terraformable " + label
		}
		table.Append([]string{"High value", fmt.Sprintf("%s (%s, %d cr)", hv.Body, label, hv.ValueCr)})
	}
	table.Render()
}
