package route

import (
	"reflect"
	"testing"

	"github.com/nathoo/starpilot/types"
)

func routeConfig() *types.Config {
	return &types.Config{
		AutoClipboard:             true,
		AutoClipboardMode:         types.ClipModeNextHop,
		NextHopTrigger:            types.TriggerBoth,
		NextHopResyncPolicy:       types.PolicyNearestForward,
		NextHopDesyncConfirmJumps: 1,
	}
}

func codes(out Outcome) []string {
	var cs []string
	for _, ev := range out.Events {
		cs = append(cs, ev.Code)
	}
	return cs
}

func hasCode(out Outcome, code string) bool {
	for _, ev := range out.Events {
		if ev.Code == code {
			return true
		}
	}
	return false
}

func TestSetRouteNextHopMode(t *testing.T) {
	tr := New(routeConfig())
	out := tr.SetRoute([]string{"A", "B", "C"}, "file")

	if !hasCode(out, types.CodeRouteFound) || !hasCode(out, types.CodeAutoClipboardNextHop) {
		t.Errorf("codes = %v, want ROUTE_FOUND + AUTO_CLIPBOARD_MODE_NEXT_HOP", codes(out))
	}
	r := tr.Route()
	if r.Index != 0 || len(r.SystemsNorm) != 3 {
		t.Errorf("route = %+v", r)
	}
}

func TestSetRouteFullRouteCopies(t *testing.T) {
	cfg := routeConfig()
	cfg.AutoClipboardMode = types.ClipModeFullRoute
	tr := New(cfg)

	out := tr.SetRoute([]string{"A", "B"}, "file")
	if !hasCode(out, types.CodeRouteCopied) {
		t.Errorf("codes = %v, want ROUTE_COPIED", codes(out))
	}
	if len(out.Copy) != 1 || out.Copy[0] != "A\nB" {
		t.Errorf("Copy = %q, want the full route", out.Copy)
	}
}

func TestSetRouteEmpty(t *testing.T) {
	tr := New(routeConfig())
	out := tr.SetRoute([]string{"  ", ""}, "file")
	if !hasCode(out, types.CodeRouteEmpty) {
		t.Errorf("codes = %v, want ROUTE_EMPTY", codes(out))
	}
}

func TestArrivalAdvancesAndCopies(t *testing.T) {
	tr := New(routeConfig())
	tr.SetRoute([]string{"A", "B", "C", "D"}, "file")

	out := tr.OnArrival("a", types.TriggerFSDJump)
	r := tr.Route()
	if r.Index != 1 {
		t.Errorf("Index = %d, want 1", r.Index)
	}
	if !hasCode(out, types.CodeNextHopCopied) || len(out.Copy) != 1 || out.Copy[0] != "B" {
		t.Errorf("out = %v / %v, want next hop B copied", codes(out), out.Copy)
	}
}

func TestDuplicateArrivalIsIdempotent(t *testing.T) {
	tr := New(routeConfig())
	tr.SetRoute([]string{"A", "B", "C"}, "file")
	tr.OnArrival("A", types.TriggerFSDJump)

	out := tr.OnArrival("A", types.TriggerFSDJump)
	if len(out.Events) != 0 || len(out.Copy) != 0 {
		t.Errorf("replayed jump must be a no-op, got %v / %v", codes(out), out.Copy)
	}
	if r := tr.Route(); r.Index != 1 || r.DesyncStrikes != 0 {
		t.Errorf("route after duplicate = %+v", r)
	}
}

func TestRouteComplete(t *testing.T) {
	tr := New(routeConfig())
	tr.SetRoute([]string{"A", "B"}, "file")
	tr.OnArrival("A", types.TriggerFSDJump)

	out := tr.OnArrival("B", types.TriggerFSDJump)
	if !hasCode(out, types.CodeRouteComplete) {
		t.Errorf("codes = %v, want ROUTE_COMPLETE", codes(out))
	}
	r := tr.Route()
	if r.Index != 2 {
		t.Errorf("Index = %d, want len(systems)", r.Index)
	}

	// No further copies after completion until a new route is set.
	out = tr.OnArrival("A", types.TriggerFSDJump)
	if hasCode(out, types.CodeNextHopCopied) {
		t.Error("NEXT_HOP_COPIED after ROUTE_COMPLETE")
	}
}

func TestDesyncConfirmJumps(t *testing.T) {
	cfg := routeConfig()
	cfg.NextHopDesyncConfirmJumps = 2
	tr := New(cfg)
	tr.SetRoute([]string{"A", "B", "C"}, "file")

	out := tr.OnArrival("X", types.TriggerFSDJump)
	if !hasCode(out, types.CodeRouteDesyncPending) || hasCode(out, types.CodeRouteDesync) {
		t.Errorf("first strike codes = %v, want only pending", codes(out))
	}

	out = tr.OnArrival("Y", types.TriggerFSDJump)
	if !hasCode(out, types.CodeRouteDesync) {
		t.Errorf("second strike codes = %v, want ROUTE_DESYNC", codes(out))
	}

	// De-sync announced once, not per jump.
	out = tr.OnArrival("Z", types.TriggerFSDJump)
	if hasCode(out, types.CodeRouteDesync) {
		t.Errorf("third strike codes = %v, de-sync must not repeat", codes(out))
	}

	// Rejoining the route clears the flag and strikes.
	tr.OnArrival("B", types.TriggerFSDJump)
	r := tr.Route()
	if r.DesyncActive || r.DesyncStrikes != 0 || r.Index != 2 {
		t.Errorf("after rejoin: %+v", r)
	}
}

// The symbiosis guard: off-plan systems that lie on the in-game plot
// toward the active milestone are not strikes.
func TestSymbiosisGuard(t *testing.T) {
	tr := New(routeConfig())
	tr.SetRoute([]string{"A", "B", "C", "D", "E"}, "file")
	tr.SetMilestones([]string{"E"})
	tr.SetInGameRoute("E", []string{"A", "Z", "E"}, "navroute")

	out := tr.OnArrival("B", types.TriggerFSDJump)
	if hasCode(out, types.CodeRouteDesync) {
		t.Errorf("on-plan arrival flagged: %v", codes(out))
	}
	if r := tr.Route(); r.Index != 2 {
		t.Errorf("Index = %d, want 2", r.Index)
	}

	out = tr.OnArrival("Z", types.TriggerFSDJump)
	if hasCode(out, types.CodeRouteDesync) || hasCode(out, types.CodeRouteDesyncPending) {
		t.Errorf("symbiosis arrival flagged: %v", codes(out))
	}
	if !hasCode(out, types.CodeRouteAlignedIngame) {
		t.Errorf("codes = %v, want ROUTE_ALIGNED_INGAME", codes(out))
	}

	// An off-plan system that is NOT on the in-game plot is a strike.
	out = tr.OnArrival("Q", types.TriggerFSDJump)
	if !hasCode(out, types.CodeRouteDesync) {
		t.Errorf("codes = %v, want ROUTE_DESYNC with confirm_jumps=1", codes(out))
	}

	// Returning to the planned route clears everything.
	tr.OnArrival("C", types.TriggerFSDJump)
	r := tr.Route()
	if r.DesyncActive || r.Index != 3 {
		t.Errorf("after return: %+v", r)
	}
}

func TestMilestoneQuartiles(t *testing.T) {
	cfg := routeConfig()
	cfg.AutoClipboard = false
	tr := New(cfg)
	route := []string{"S0", "S1", "S2", "S3", "S4", "S5", "S6", "S7", "S8"}
	tr.SetRoute(route, "file")
	tr.SetMilestones([]string{"S8"})

	wantProgress := map[string]bool{"S2": true, "S4": true, "S6": true} // 25/50/75 crossings
	for _, sys := range route[:len(route)-1] {
		out := tr.OnArrival(sys, types.TriggerFSDJump)
		got := hasCode(out, types.CodeMilestoneProgress)
		if got != wantProgress[sys] {
			t.Errorf("arrival %s: progress emitted = %v, want %v (codes %v)", sys, got, wantProgress[sys], codes(out))
		}
		if hasCode(out, types.CodeMilestoneReached) {
			t.Errorf("arrival %s: premature MILESTONE_REACHED", sys)
		}
	}

	out := tr.OnArrival("S8", types.TriggerFSDJump)
	if !hasCode(out, types.CodeMilestoneReached) {
		t.Errorf("final arrival codes = %v, want MILESTONE_REACHED", codes(out))
	}
}

func TestMilestoneTransitionNamesNext(t *testing.T) {
	cfg := routeConfig()
	cfg.AutoClipboard = false
	tr := New(cfg)
	tr.SetRoute([]string{"A", "B", "C", "D", "E"}, "file")
	tr.SetMilestones([]string{"C", "E"})

	tr.OnArrival("A", types.TriggerFSDJump)
	tr.OnArrival("B", types.TriggerFSDJump)
	out := tr.OnArrival("C", types.TriggerFSDJump)
	if !hasCode(out, types.CodeMilestoneReached) {
		t.Fatalf("codes = %v, want MILESTONE_REACHED at C", codes(out))
	}
	for _, ev := range out.Events {
		if ev.Code == types.CodeMilestoneReached && ev.Text != "Milestone reached: C, next milestone E" {
			t.Errorf("transition text = %q", ev.Text)
		}
	}
}

func TestStrictPolicyFindsEarlierOccurrence(t *testing.T) {
	cfg := routeConfig()
	cfg.NextHopResyncPolicy = types.PolicyStrict
	tr := New(cfg)
	tr.SetRoute([]string{"A", "B", "A", "C"}, "file")
	tr.OnArrival("B", types.TriggerFSDJump) // index -> 2

	// Strict: first occurrence anywhere, so "A" resolves to position 0.
	tr.OnArrival("A", types.TriggerFSDJump)
	if r := tr.Route(); r.Index != 1 {
		t.Errorf("strict Index = %d, want 1", r.Index)
	}
}

func TestTriggerGating(t *testing.T) {
	cfg := routeConfig()
	cfg.NextHopTrigger = types.TriggerFSDJump
	tr := New(cfg)
	tr.SetRoute([]string{"A", "B"}, "file")

	out := tr.OnArrival("A", types.TriggerLocation)
	if len(out.Events) != 0 {
		t.Errorf("location trigger must be gated out, got %v", codes(out))
	}
	if r := tr.Route(); r.Index != 0 {
		t.Errorf("gated arrival advanced the route: %+v", r)
	}
}

func TestManualAdvance(t *testing.T) {
	tr := New(routeConfig())
	tr.SetRoute([]string{"A", "B"}, "file")
	tr.OnArrival("A", types.TriggerFSDJump) // copies B, LastCopied=B

	// Manual advance duplicates the current next hop despite the dedupe.
	out := tr.ManualAdvance()
	if !hasCode(out, types.CodeNextHopCopied) || len(out.Copy) != 1 || out.Copy[0] != "B" {
		t.Errorf("manual advance = %v / %v, want B copied again", codes(out), out.Copy)
	}
	if r := tr.Route(); r.Index != 2 {
		t.Errorf("Index = %d, want 2", r.Index)
	}

	out = tr.ManualAdvance()
	if !hasCode(out, types.CodeNextHopEmpty) {
		t.Errorf("codes = %v, want NEXT_HOP_EMPTY at route end", codes(out))
	}
}

// Setting then clearing a route returns the tracker to its initial state.
func TestClearRouteRoundTrip(t *testing.T) {
	tr := New(routeConfig())
	initial := tr.Route()

	tr.SetRoute([]string{"A", "B", "C"}, "file")
	tr.SetMilestones([]string{"C"})
	tr.OnArrival("A", types.TriggerFSDJump)
	out := tr.ClearRoute()
	if !hasCode(out, types.CodeRouteCleared) {
		t.Errorf("codes = %v, want ROUTE_CLEARED", codes(out))
	}

	cleared := tr.Route()
	cleared.LastProgTS = initial.LastProgTS
	if !reflect.DeepEqual(initial, cleared) {
		t.Errorf("cleared state differs from initial:\n%+v\n%+v", initial, cleared)
	}
}

// Index stays in [0, len(systems)] across arbitrary arrivals.
func TestIndexInvariant(t *testing.T) {
	tr := New(routeConfig())
	tr.SetRoute([]string{"A", "B", "C"}, "file")
	for _, sys := range []string{"A", "X", "C", "C", "A", "B", "Q"} {
		tr.OnArrival(sys, types.TriggerFSDJump)
		r := tr.Route()
		if r.Index < 0 || r.Index > len(r.SystemsNorm) {
			t.Fatalf("index %d out of bounds after %s", r.Index, sys)
		}
	}
}
