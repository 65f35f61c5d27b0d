package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/starpilot/clip"
	"github.com/nathoo/starpilot/config"
	"github.com/nathoo/starpilot/engine/bus"
	"github.com/nathoo/starpilot/engine/state"
	"github.com/nathoo/starpilot/tables"
	"github.com/nathoo/starpilot/types"
)

func newTestModel(t *testing.T) (Model, *state.State) {
	t.Helper()
	b := bus.New()
	ch := b.Subscribe()
	st := state.New(config.Defaults(), tables.Empty(), b, &clip.Recorder{})
	m := New(st, ch)
	sized, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return sized.(Model), st
}

func TestHistoryNavigation(t *testing.T) {
	h := NewHistory(3)
	h.Push("route a.txt")
	h.Push("next")
	h.Push("next") // consecutive duplicate skipped
	h.Push("stats")

	if got, _ := h.Prev(); got != "stats" {
		t.Errorf("Prev = %q, want stats", got)
	}
	if got, _ := h.Prev(); got != "next" {
		t.Errorf("Prev = %q, want next", got)
	}
	if got, _ := h.Next(); got != "stats" {
		t.Errorf("Next = %q, want stats", got)
	}
	if _, ok := h.Next(); ok {
		t.Error("Next past the newest entry must report false")
	}
}

func TestBusMessagesUpdateModel(t *testing.T) {
	m, _ := newTestModel(t)

	updated, _ := m.Update(busMsg(types.Message{Kind: "start_label", Label: "Sol"}))
	m = updated.(Model)
	updated, _ = m.Update(busMsg(types.Message{
		Kind: "status_slot",
		Slot: &types.UISlot{Target: "route", Text: "Next hop copied: Alioth", Color: "green"},
	}))
	m = updated.(Model)
	updated, _ = m.Update(busMsg(types.Message{
		Kind: "status_event",
		Status: &types.StatusEvent{
			Level: types.LevelWarn, Code: "ROUTE_DESYNC",
			Text: "Route desynchronized", TS: time.Now(),
		},
	}))
	m = updated.(Model)

	view := m.View()
	if !strings.Contains(view, "Sol") {
		t.Error("view missing the current system label")
	}
	if !strings.Contains(view, "Next hop copied: Alioth") {
		t.Error("view missing the route slot text")
	}
	if !strings.Contains(view, "Route desynchronized") {
		t.Error("view missing the status event in the feed")
	}
}

func TestEmptySlotsRenderPlaceholder(t *testing.T) {
	m, _ := newTestModel(t)
	for _, target := range slotOrder {
		if !strings.Contains(m.renderSlots(), target) {
			t.Errorf("slots panel missing %q", target)
		}
	}
	if !strings.Contains(m.renderSlots(), "—") {
		t.Error("empty slots must render a placeholder")
	}
}

func TestRunCommandDispatch(t *testing.T) {
	m, st := newTestModel(t)

	out, quit := m.runCommand("help")
	if quit || len(out) == 0 {
		t.Error("help produced no output")
	}

	out, quit = m.runCommand("route")
	if quit || len(out) != 1 || !strings.Contains(out[0], "Usage") {
		t.Errorf("bare route = %v", out)
	}

	out, quit = m.runCommand("bogus")
	if quit || len(out) != 1 || !strings.Contains(out[0], "Unknown command") {
		t.Errorf("unknown command = %v", out)
	}

	if _, quit = m.runCommand("quit"); !quit {
		t.Error("quit did not set the quit flag")
	}

	// stats with no system yet.
	out, _ = m.runCommand("stats")
	if len(out) != 1 || !strings.Contains(out[0], "No current system") {
		t.Errorf("stats without system = %v", out)
	}
	st.SetSystem("Sol")
	out, _ = m.runCommand("stats")
	if len(out) < 2 {
		t.Errorf("stats table too short: %v", out)
	}
}

func TestFeedBacklogBounded(t *testing.T) {
	m, _ := newTestModel(t)
	for i := 0; i < maxFeedLines+50; i++ {
		m = m.applyBus(types.Message{Kind: "log", Log: "line"})
	}
	if len(m.feed) != maxFeedLines {
		t.Errorf("feed length = %d, want %d", len(m.feed), maxFeedLines)
	}
}
