// Package state holds the process-wide aggregate: current location, the
// ship, the survey ledgers, the route tracker, and the inventory. All
// mutation happens under one exclusive lock; the lock is never held across
// bus emissions or clipboard I/O.
package state

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nathoo/starpilot/clip"
	"github.com/nathoo/starpilot/engine/bus"
	"github.com/nathoo/starpilot/engine/route"
	"github.com/nathoo/starpilot/engine/ship"
	"github.com/nathoo/starpilot/engine/survey"
	"github.com/nathoo/starpilot/norm"
	"github.com/nathoo/starpilot/tables"
	"github.com/nathoo/starpilot/types"
)

// Emission cooldowns per status code. Codes not listed emit unthrottled;
// contexts (system names, stations) further isolate the listed ones.
var cooldowns = map[string]time.Duration{
	types.CodeJournalParse:    15 * time.Second,
	types.CodeHandlerFault:    15 * time.Second,
	types.CodeJRValidateDelta: 10 * time.Second,
	types.CodeJRValidateOK:    10 * time.Second,
	types.CodeJRWaitingData:   60 * time.Second,
	types.CodeJRReady:         2 * time.Second,
	types.CodeClipboardFail:   30 * time.Second,
	types.CodeFSSProgress:     5 * time.Second,
	types.CodeSmugglerAlert:   60 * time.Second,
}

// UI slot targets per status code family.
var slotTargets = map[string]string{
	types.CodeNextHopCopied:      "route",
	types.CodeRouteComplete:      "route",
	types.CodeRouteDesync:        "route",
	types.CodeRouteDesyncPending: "route",
	types.CodeRouteAlignedIngame: "route",
	types.CodeRouteFound:         "route",
	types.CodeRouteCleared:       "route",
	types.CodeRouteEmpty:         "route",
	types.CodeRouteError:         "route",
	types.CodeRouteCopied:        "route",
	types.CodeNextHopEmpty:       "route",
	types.CodeMilestoneProgress:  "route",
	types.CodeMilestoneReached:   "route",
	types.CodeJRReady:            "ship",
	types.CodeJRWaitingData:      "ship",
	types.CodeJRComputeFail:      "ship",
	types.CodeJRValidateOK:       "ship",
	types.CodeJRValidateDelta:    "ship",
	types.CodeJREngineering:      "ship",
	types.CodeJRNotReadyFallback: "ship",
	types.CodeFSSProgress:        "survey",
	types.CodeFSSComplete:        "survey",
	types.CodeExitSummary:        "survey",
	types.CodeTradeJackpot:       "trade",
	types.CodeSmugglerAlert:      "trade",
}

// State is the central aggregate. It exclusively owns the ship, the survey
// engine, and the route tracker; they never reach back into it.
type State struct {
	mu sync.Mutex

	cfg    *types.Config
	bus    *bus.Bus
	deb    *bus.Debouncer
	copier clip.Copier

	ship    *ship.Ship
	survey  *survey.Engine
	tracker *route.Tracker

	currentSystem  string
	currentStation string
	isDocked       bool
	touchdownBody  string
	inventory      map[string]int
	stolenCargo    map[string]int
	jackpotSeen    map[string]bool

	bootstrapReplay    bool
	hasLiveSystemEvent bool
}

// New wires the aggregate. The copier may be clip.Discard in headless runs.
func New(cfg *types.Config, tbl *tables.Tables, b *bus.Bus, copier clip.Copier) *State {
	return &State{
		cfg:         cfg,
		bus:         b,
		deb:         bus.NewDebouncer(),
		copier:      copier,
		ship:        ship.New(cfg, tbl),
		survey:      survey.New(tbl),
		tracker:     route.New(cfg),
		inventory:   map[string]int{},
		stolenCargo: map[string]int{},
		jackpotSeen: map[string]bool{},
	}
}

// SetBootstrap toggles replay mode: state updates proceed but live-style
// announcements and clipboard writes are suppressed.
func (s *State) SetBootstrap(on bool) {
	s.mu.Lock()
	s.bootstrapReplay = on
	s.mu.Unlock()
}

// Bootstrap reports whether replay suppression is active.
func (s *State) Bootstrap() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bootstrapReplay
}

// MarkLive records the first live-sourced system event and lifts replay
// suppression.
func (s *State) MarkLive() {
	s.mu.Lock()
	s.hasLiveSystemEvent = true
	s.bootstrapReplay = false
	s.mu.Unlock()
}

// CurrentSystem returns the current system name.
func (s *State) CurrentSystem() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentSystem
}

// CurrentStation returns the current station and docked flag.
func (s *State) CurrentStation() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentStation, s.isDocked
}

// Emit publishes a status event through the debouncer, honoring bootstrap
// suppression. Context isolates cooldowns (e.g. per system).
func (s *State) Emit(ev types.StatusEvent, context string) {
	s.mu.Lock()
	suppressed := s.bootstrapReplay
	s.mu.Unlock()
	if suppressed {
		return
	}
	if cd, ok := cooldowns[ev.Code]; ok {
		if !s.deb.CanSend(ev.Code, cd, context) {
			return
		}
	}
	s.bus.Status(ev, slotTargets[ev.Code])
}

// emitAll publishes a batch with a shared context.
func (s *State) emitAll(events []types.StatusEvent, context string) {
	for _, ev := range events {
		s.Emit(ev, context)
	}
}

// runCopies performs clipboard writes outside the lock. A failed copy
// surfaces once as CLIPBOARD_FAIL.
func (s *State) runCopies(texts []string) {
	if len(texts) == 0 {
		return
	}
	s.mu.Lock()
	suppressed := s.bootstrapReplay
	s.mu.Unlock()
	if suppressed {
		return
	}
	for _, text := range texts {
		if err := s.copier.Copy(text); err != nil {
			s.Emit(types.StatusEvent{
				Level: types.LevelError, Code: types.CodeClipboardFail,
				Text: fmt.Sprintf("Clipboard copy failed: %v", err),
				TS:   time.Now(), Source: "clipboard",
			}, "")
			return
		}
	}
}

// RouteArrival runs the route tracker for an arrival. Independent of
// SetSystem so the dispatch table can order them per event kind.
func (s *State) RouteArrival(system, trigger string) {
	s.mu.Lock()
	out := s.tracker.OnArrival(system, trigger)
	s.mu.Unlock()
	s.emitAll(out.Events, "")
	s.runCopies(out.Copy)
}

// SetSystem records a system change. The normalized start_label event is
// published on every actual change; re-arrivals are no-ops.
func (s *State) SetSystem(system string) {
	s.mu.Lock()
	changed := norm.Name(s.currentSystem) != norm.Name(system)
	s.currentSystem = system
	if changed {
		s.currentStation = ""
		s.isDocked = false
	}
	s.mu.Unlock()

	if changed {
		s.bus.StartLabel(system)
	}
}

// OnSystemArrival is the combined jump handling: route advance first, then
// the location update.
func (s *State) OnSystemArrival(system, trigger string) {
	s.RouteArrival(system, trigger)
	s.SetSystem(system)
}

// SetTouchdown records the body the player last touched down on.
func (s *State) SetTouchdown(body string) {
	s.mu.Lock()
	s.touchdownBody = body
	s.mu.Unlock()
}

// TouchdownBody returns the last touchdown body, if any.
func (s *State) TouchdownBody() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touchdownBody
}

// SetDocked records docking state and station.
func (s *State) SetDocked(station string, docked bool) {
	s.mu.Lock()
	if docked {
		s.currentStation = station
	}
	s.isDocked = docked
	s.mu.Unlock()
}

// SetRoute installs a planned route.
func (s *State) SetRoute(systems []string, source string) {
	s.mu.Lock()
	out := s.tracker.SetRoute(systems, source)
	s.mu.Unlock()
	s.emitAll(out.Events, "")
	s.runCopies(out.Copy)
}

// ClearRoute drops the planned route.
func (s *State) ClearRoute() {
	s.mu.Lock()
	out := s.tracker.ClearRoute()
	s.mu.Unlock()
	s.emitAll(out.Events, "")
}

// SetMilestones installs the boost-point list.
func (s *State) SetMilestones(names []string) {
	s.mu.Lock()
	s.tracker.SetMilestones(names)
	s.mu.Unlock()
}

// SetInGameRoute mirrors the game's auto-plotted route.
func (s *State) SetInGameRoute(endpoint string, systems []string, source string) {
	s.mu.Lock()
	s.tracker.SetInGameRoute(endpoint, systems, source)
	s.mu.Unlock()
}

// CopyNextHop is the user-initiated manual advance.
func (s *State) CopyNextHop() {
	s.mu.Lock()
	out := s.tracker.ManualAdvance()
	s.mu.Unlock()
	s.emitAll(out.Events, "")
	s.runCopies(out.Copy)
}

// Route returns a copy of the active route for inspection.
func (s *State) Route() types.ActiveRoute {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.Route()
}

// ApplyLoadout feeds a loadout into the ship and publishes the outcome.
func (s *State) ApplyLoadout(lo ship.Loadout) {
	s.mu.Lock()
	changed, events := s.ship.ApplyLoadout(lo)
	snap := s.ship.Snapshot()
	s.mu.Unlock()
	s.emitAll(events, "")
	if changed {
		s.bus.Ship(snap)
	}
}

// SetFuel feeds a fuel reading into the ship.
func (s *State) SetFuel(main, reservoir float64) {
	s.mu.Lock()
	changed, events := s.ship.SetFuel(main, reservoir)
	snap := s.ship.Snapshot()
	s.mu.Unlock()
	s.emitAll(events, "")
	if changed {
		s.bus.Ship(snap)
	}
}

// SetCargoMass feeds a cargo reading into the ship.
func (s *State) SetCargoMass(tonnes float64) {
	s.mu.Lock()
	changed, events := s.ship.SetCargoMass(tonnes)
	snap := s.ship.Snapshot()
	s.mu.Unlock()
	s.emitAll(events, "")
	if changed {
		s.bus.Ship(snap)
	}
}

// Ship returns the current ship snapshot.
func (s *State) Ship() types.ShipSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ship.Snapshot()
}

// Survey executes fn with the survey engine under the state lock. fn must
// not emit; return what should be published instead.
func (s *State) Survey(fn func(*survey.Engine)) {
	s.mu.Lock()
	fn(s.survey)
	s.mu.Unlock()
}

// SystemStats returns a snapshot copy of a system's ledger.
func (s *State) SystemStats(system string) types.SystemStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.survey.Stats(system)
}

// ExitSummary renders and publishes the survey summary for a system.
func (s *State) ExitSummary(system string) {
	if !s.cfg.ExitSummaryEnabled {
		return
	}
	s.mu.Lock()
	st := *s.survey.Stats(system)
	s.mu.Unlock()

	lines := survey.BuildExitSummary(&st)
	for _, line := range lines {
		s.bus.Log(line)
	}
	s.Emit(types.StatusEvent{
		Level: types.LevelOK, Code: types.CodeExitSummary,
		Text: strings.Join(lines, "\n"), TS: time.Now(), Source: "survey",
	}, norm.Name(system))
}

// AdjustInventory applies a material delta, clamping at zero.
func (s *State) AdjustInventory(name string, delta int) {
	s.mu.Lock()
	n := s.inventory[name] + delta
	if n <= 0 {
		delete(s.inventory, name)
	} else {
		s.inventory[name] = n
	}
	s.mu.Unlock()
}

// Inventory returns a copy of the material inventory.
func (s *State) Inventory() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.inventory))
	for k, v := range s.inventory {
		out[k] = v
	}
	return out
}

// SetStolenCargo replaces the stolen-cargo ledger from a Cargo event.
func (s *State) SetStolenCargo(counts map[string]int) {
	s.mu.Lock()
	s.stolenCargo = counts
	s.mu.Unlock()
}

// HasStolenCargo reports whether any stolen goods are aboard.
func (s *State) HasStolenCargo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.stolenCargo {
		if n > 0 {
			return true
		}
	}
	return false
}

// MarkJackpot records a jackpot sighting; the first call per
// (system, station, commodity) returns true.
func (s *State) MarkJackpot(system, station, commodity string) bool {
	key := norm.Name(system) + "|" + norm.Name(station) + "|" + norm.Name(commodity)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.jackpotSeen[key] {
		return false
	}
	s.jackpotSeen[key] = true
	return true
}
