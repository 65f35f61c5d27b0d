// Package router parses journal records and sidecar snapshots and routes
// them to handlers. It is the only recovery boundary in the core: parse
// failures and handler faults become throttled diagnostics, never crashes.
package router

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nathoo/starpilot/engine/bus"
	"github.com/nathoo/starpilot/engine/state"
	"github.com/nathoo/starpilot/types"
)

// Record is a journal line after JSON decoding: an untyped map at the
// boundary. Handlers project the fields they use into typed values.
type Record map[string]any

// handler is one entry of the dispatch table.
type handler struct {
	name string
	fn   func(Record)
}

// Router validates and dispatches events. One instance per process.
type Router struct {
	st  *state.State
	cfg *types.Config
	b   *bus.Bus
	deb *bus.Debouncer

	// Strict re-raises handler panics instead of swallowing them. Tests
	// use it to surface bugs that production routing would absorb.
	Strict bool

	table map[string][]handler
}

// New builds a router with the full dispatch table installed.
func New(cfg *types.Config, st *state.State, b *bus.Bus) *Router {
	r := &Router{st: st, cfg: cfg, b: b, deb: bus.NewDebouncer()}
	r.table = map[string][]handler{
		"FSDJump": {
			{"route-advance", r.handleJumpRoute},
			{"location", r.handleJumpLocation},
		},
		"Location": {
			{"location", r.handleLocation},
		},
		"CarrierJump": {
			{"location", r.handleCarrierJump},
		},
		"Docked": {
			{"docked", r.handleDocked},
		},
		"Undocked": {
			{"undocked", r.handleUndocked},
		},
		"Loadout": {
			{"loadout", r.handleLoadout},
		},
		"FSSDiscoveryScan": {
			{"body-count", r.handleDiscoveryScan},
		},
		"Scan": {
			{"scan", r.handleScan},
		},
		"FSSAllBodiesFound": {
			{"survey-complete", r.handleAllBodiesFound},
		},
		"SAASignalsFound": {
			{"bio-signals", r.handleSAASignals},
		},
		"ScanOrganic": {
			{"biology", r.handleScanOrganic},
		},
		"CodexEntry": {
			{"biology", r.handleCodexEntry},
		},
		"MaterialCollected": {
			{"inventory", r.handleMaterialCollected},
		},
		"MaterialDiscarded": {
			{"inventory", r.handleMaterialDiscarded},
		},
		"Touchdown": {
			{"footfall", r.handleTouchdown},
		},
		"Footfall": {
			{"footfall", r.handleFootfall},
		},
		"Disembark": {
			{"footfall", r.handleDisembark},
		},
		"ApproachSettlement": {
			{"smuggler", r.handleSmugglerCheck},
		},
		"DockingRequested": {
			{"smuggler", r.handleSmugglerCheck},
		},
		"Cargo": {
			{"cargo", r.handleCargoEvent},
		},
	}
	return r
}

// systemBearing reports whether an event kind carries the player's
// current system, which is what ends a bootstrap replay.
func systemBearing(event string) bool {
	switch event {
	case "FSDJump", "Location", "CarrierJump":
		return true
	}
	return false
}

// HandleLine decodes and routes one journal line. live marks lines
// observed after the initial back-fill; the first live system event lifts
// bootstrap suppression before its handlers run.
func (r *Router) HandleLine(line []byte, live bool) {
	var rec Record
	if err := json.Unmarshal(line, &rec); err != nil {
		r.diag(types.CodeJournalParse, "journal parse error: %v", err)
		return
	}
	event, _ := rec["event"].(string)
	if event == "" {
		r.diag(types.CodeJournalParse, "journal record without event discriminator")
		return
	}
	if live && systemBearing(event) {
		r.st.MarkLive()
	}
	for _, h := range r.table[event] {
		r.runHandler(event, h, rec)
	}
}

// runHandler executes one handler, converting panics into throttled
// diagnostics so the remaining handlers of the line still run.
func (r *Router) runHandler(event string, h handler, rec Record) {
	defer func() {
		if r.Strict {
			return
		}
		if p := recover(); p != nil {
			r.diag(types.CodeHandlerFault, "handler %s/%s failed: %v", event, h.name, p)
		}
	}()
	h.fn(rec)
}

// diag emits a throttled diagnostic to the log.
func (r *Router) diag(code, format string, args ...any) {
	if !r.deb.CanSend(code, 15*time.Second, "") {
		return
	}
	r.b.Log(fmt.Sprintf("[%s] %s", code, fmt.Sprintf(format, args...)))
}

// --- field projection helpers ----------------------------------------

func str(rec Record, key string) string {
	s, _ := rec[key].(string)
	return s
}

// num accepts both integer and floating encodings of a numeric field.
func num(rec Record, key string) float64 {
	switch v := rec[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	}
	return 0
}

func boolean(rec Record, key string) bool {
	b, _ := rec[key].(bool)
	return b
}

func list(rec Record, key string) []any {
	l, _ := rec[key].([]any)
	return l
}

func sub(rec Record, key string) Record {
	m, _ := rec[key].(map[string]any)
	return m
}
