package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nathoo/starpilot/types"
)

func TestLoggerFormatsByKind(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)

	l.Handle(types.Message{Kind: "start_label", Label: "Sol"})
	l.Handle(types.Message{Kind: "status_event", Status: &types.StatusEvent{
		Level: types.LevelWarn, Code: "ROUTE_DESYNC", Text: "Route desynchronized",
	}})
	l.Handle(types.Message{Kind: "log", Log: "plain line"})
	l.Handle(types.Message{Kind: "status_slot", Slot: &types.UISlot{Target: "route", Text: "x"}})

	out := buf.String()
	for _, want := range []string{"=== Sol ===", "[ROUTE_DESYNC] Route desynchronized", "plain line"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "status_slot") || strings.Count(out, "\n") != 3 {
		t.Errorf("slot refresh leaked into the log:\n%s", out)
	}
}

func TestRouteTableMarksProgress(t *testing.T) {
	var buf bytes.Buffer
	RouteTable(&buf, types.ActiveRoute{
		SystemsRaw: []string{"Sol", "Alioth", "Lave"},
		Index:      1,
	})
	out := buf.String()
	if !strings.Contains(out, "visited") || !strings.Contains(out, "next hop") {
		t.Errorf("route table missing progress markers:\n%s", out)
	}
	if !strings.Contains(out, "Alioth") {
		t.Errorf("route table missing system names:\n%s", out)
	}
}

func TestStatsTableTotals(t *testing.T) {
	var buf bytes.Buffer
	StatsTable(&buf, types.SystemStats{
		Name:         "Col 285",
		TotalScanned: 3,
		Cartography:  1500,
		Exobiology:   100,
		Bonus:        1580,
		HighValue: []types.HighValueTarget{
			{Body: "Col 285 4", BodyType: "Water World", Terraformable: true, ValueCr: 3000},
		},
	})
	out := buf.String()
	if !strings.Contains(out, "3180") {
		t.Errorf("stats table missing grand total:\n%s", out)
	}
	if !strings.Contains(out, "Terraformable Water World") {
		t.Errorf("stats table missing high-value row:\n%s", out)
	}
}
